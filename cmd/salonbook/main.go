// Copyright 2025 Salonbook Authors
// SPDX-License-Identifier: Apache-2.0

// Command salonbook is the app shell around the offline record store: it
// owns the local database and pushes pending records to the remote
// document store whenever connectivity allows.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "salonbook",
		Short: "Local-first salon records with background sync",
		Long: `salonbook keeps patients, visits, catalogs and intake forms in a local
SQLite database that works fully offline. Records are marked dirty on
every write and uploaded to the remote document store in dependency
order (patients before their visits and answers) when the device is
online. Sync is best-effort: failures leave data safe locally and are
retried on the next connectivity transition.`,
	}

	root.PersistentFlags().String("config", "", "config file (default salonbook.yaml in CWD or $HOME/.salonbook)")
	root.PersistentFlags().String("db", "", "path to the local SQLite database (overrides config)")
	root.PersistentFlags().Bool("verbose", false, "enable debug logging")

	root.AddCommand(newSyncCmd())
	root.AddCommand(newPullCmd())
	root.AddCommand(newWatchCmd())
	return root
}
