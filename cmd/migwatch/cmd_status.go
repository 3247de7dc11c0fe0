// Copyright (C) 2026 Halcyon Labs (oss@halcyonlabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/halcyonlabs/migwatch/pkg/estimate"
	"github.com/halcyonlabs/migwatch/pkg/statusapi"
	"github.com/halcyonlabs/migwatch/pkg/tui"
)

// statusOutput is the --json shape for a one-shot poll.
type statusOutput struct {
	Status       *statusapi.Status  `json:"status"`
	Observations int                `json:"observations"`
	Estimate     *estimate.Estimate `json:"estimate,omitempty"`
	Remaining    string             `json:"remaining,omitempty"`
}

// runStatus polls once, prints the result, and exits. The observation
// still lands in the history, so repeated invocations build up an
// estimate just like the watch screen does.
func runStatus(cmd *cobra.Command, args []string) error {
	app, err := newApp(true)
	if err != nil {
		return err
	}
	defer app.close()

	snap := app.poller.Poll(cmd.Context())
	if snap.Err != nil {
		return fmt.Errorf("poll failed: %w", snap.Err)
	}

	if jsonOutput {
		out := statusOutput{
			Status:       snap.Status,
			Observations: len(snap.History),
		}
		if snap.HasEstimate {
			est := snap.Estimate
			out.Estimate = &est
			out.Remaining = estimate.FormatDuration(est.Remaining)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Print(tui.RenderPlain(snap))
	return nil
}

// runHistory prints the observations retained for the current run.
func runHistory(cmd *cobra.Command, args []string) error {
	app, err := newApp(true)
	if err != nil {
		return err
	}
	defer app.close()

	hist := app.store.Snapshot()

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(hist)
	}

	if len(hist) == 0 {
		fmt.Println("No observations recorded yet.")
		return nil
	}

	fmt.Printf("%d observation(s):\n", len(hist))
	for _, o := range hist {
		fmt.Printf("  %s  %5.1f%%\n", o.At.Local().Format(time.RFC3339), o.Percent)
	}
	if est, ok := estimate.Project(hist); ok {
		fmt.Printf("\nEstimated completion: %s (%s remaining)\n",
			est.Completion.Local().Format("Mon Jan 2 15:04"),
			estimate.FormatDuration(est.Remaining))
	}
	return nil
}
