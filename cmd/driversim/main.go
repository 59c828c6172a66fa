// Copyright 2026 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command driversim runs the generated Driver harness: a single module
// incrementing one cell of a 32 bit register array once per scheduling
// slot, over 100 slots.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "driversim",
		Short: "driversim - tick scheduled register increment harness",
		Long: `driversim runs a generated hardware simulation: the Driver module is
triggered once per scheduling slot and increments a one cell 32 bit
register array, with writes committing half a slot later.

The run can be traced to the console, recorded into a SQLite database,
and verified against the expected register sequence.`,
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("driversim version %s\n", version)
		},
	}
}
