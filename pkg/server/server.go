// Copyright (C) 2026 Halcyon Labs (oss@halcyonlabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package server exposes the tracker state over HTTP for headless
// deployments: current status, retained history, the completion
// estimate, and Prometheus metrics.
//
// All endpoints are read-only; the poller is the only writer.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/halcyonlabs/migwatch/pkg/estimate"
	"github.com/halcyonlabs/migwatch/pkg/history"
	"github.com/halcyonlabs/migwatch/pkg/logging"
	"github.com/halcyonlabs/migwatch/pkg/poller"
)

// SnapshotSource yields the latest poll snapshot. *poller.Poller
// satisfies it.
type SnapshotSource interface {
	Last() poller.Snapshot
}

// Server holds the HTTP API dependencies.
type Server struct {
	source SnapshotSource
	log    *logging.Logger
	engine *gin.Engine
}

// estimateResponse is the wire form of an estimate, explicit about
// absence: ok=false with no fields is a fresh install or a stalled run,
// which is different from a zero-duration estimate.
type estimateResponse struct {
	OK               bool       `json:"ok"`
	RemainingSeconds *float64   `json:"remaining_seconds,omitempty"`
	RemainingHuman   string     `json:"remaining_human,omitempty"`
	Completion       *time.Time `json:"completion,omitempty"`
}

// historyResponse wraps the observation list with its length.
type historyResponse struct {
	Observations history.History `json:"observations"`
	Count        int             `json:"count"`
}

// New builds the Server and its routes.
func New(source SnapshotSource, log *logging.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{source: source, log: log, engine: engine}

	engine.GET("/healthz", s.handleHealthz)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api/v1")
	{
		api.GET("/status", s.handleStatus)
		api.GET("/history", s.handleHistory)
		api.GET("/estimate", s.handleEstimate)
	}

	return s
}

// Handler returns the http.Handler for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http api listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleStatus returns the last fetched document plus poll metadata.
// 503 until the first successful poll: there is nothing to serve yet.
func (s *Server) handleStatus(c *gin.Context) {
	snap := s.source.Last()
	if snap.Status == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "no status fetched yet",
		})
		return
	}

	resp := gin.H{
		"status":     snap.Status,
		"fetched_at": snap.FetchedAt,
	}
	if snap.Err != nil {
		resp["last_poll_error"] = snap.Err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHistory(c *gin.Context) {
	snap := s.source.Last()
	hist := snap.History
	if hist == nil {
		hist = history.History{}
	}
	c.JSON(http.StatusOK, historyResponse{
		Observations: hist,
		Count:        len(hist),
	})
}

func (s *Server) handleEstimate(c *gin.Context) {
	snap := s.source.Last()
	if !snap.HasEstimate {
		c.JSON(http.StatusOK, estimateResponse{OK: false})
		return
	}

	secs := snap.Estimate.Remaining.Seconds()
	completion := snap.Estimate.Completion
	c.JSON(http.StatusOK, estimateResponse{
		OK:               true,
		RemainingSeconds: &secs,
		RemainingHuman:   estimate.FormatDuration(snap.Estimate.Remaining),
		Completion:       &completion,
	})
}
