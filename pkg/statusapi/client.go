// Copyright (C) 2026 Halcyon Labs (oss@halcyonlabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package statusapi is the typed client for the remote migration status
// endpoint. The endpoint is a single public JSON document; the client
// does one GET per poll and decodes it. No retries here: the poller owns
// the retry cadence (the next tick is the retry).
package statusapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUnexpectedStatus indicates a non-200 response from the endpoint.
var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// maxBodySize bounds how much of a response we read. The real document
// is under 1 KiB; anything near this limit is not the status endpoint.
const maxBodySize = 1 << 20

// Doer issues HTTP requests. *http.Client satisfies it; tests inject
// fakes.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches migration status documents.
//
// Thread Safety: safe for concurrent use; Client is stateless beyond
// its configuration.
type Client struct {
	url  string
	http Doer
}

// Option configures a Client.
type Option func(*Client)

// WithDoer replaces the HTTP client. For tests and custom transports.
func WithDoer(d Doer) Option {
	return func(c *Client) { c.http = d }
}

// WithTimeout sets the request timeout on the default HTTP client.
// Ignored if WithDoer was also given.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if hc, ok := c.http.(*http.Client); ok {
			hc.Timeout = d
		}
	}
}

// NewClient creates a Client for the given status URL.
func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		url:  url,
		http: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the configured endpoint URL.
func (c *Client) URL() string {
	return c.url
}

// Fetch retrieves and decodes the current status document.
//
// The context bounds the whole request; an abandoned fetch has no side
// effects, so callers may cancel freely.
func (c *Client) Fetch(ctx context.Context) (*Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build status request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var status Status
	body := io.LimitReader(resp.Body, maxBodySize)
	if err := json.NewDecoder(body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode status response: %w", err)
	}

	return &status, nil
}
