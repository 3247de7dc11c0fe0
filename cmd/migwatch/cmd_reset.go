// Copyright (C) 2026 Halcyon Labs (oss@halcyonlabs.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// runReset clears the retained observation history after confirmation.
func runReset(cmd *cobra.Command, args []string) error {
	app, err := newApp(true)
	if err != nil {
		return err
	}
	defer app.close()

	count := app.store.Len()
	if count == 0 {
		fmt.Println("History is already empty.")
		return nil
	}

	if !resetYes {
		fmt.Printf("Discard %d retained observation(s)? [y/N] ", count)
		reader := bufio.NewReader(os.Stdin)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read confirmation: %w", err)
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := app.store.Reset(cmd.Context()); err != nil {
		return fmt.Errorf("reset history: %w", err)
	}
	fmt.Printf("Discarded %d observation(s).\n", count)
	return nil
}
