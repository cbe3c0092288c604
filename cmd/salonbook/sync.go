// Copyright 2025 Salonbook Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/salonbook/salonbook/connectivity"
	"github.com/salonbook/salonbook/syncer"
)

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one sync pass now",
		Long: `Push every pending local record to the remote document store in one
pass: patients first, then each patient's form answers and visits, then
forms and their questions, then the service and product catalogs.
Offline is a no-op.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			store, err := openStore(cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			docs, closeDocs, err := openDocStore(cfg)
			if err != nil {
				return err
			}
			defer closeDocs()

			orch := syncer.NewOrchestrator(store, docs, newChecker(cfg), logger)
			return orch.SyncPass(cmd.Context())
		},
	}
}

func newPullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Hydrate the local database from the remote store",
		Long: `Download every remote collection into the local database. Pulled rows
are stored clean (sync=1); local pending changes are overwritten, so
pull is meant for a fresh device or recovery, not routine use.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			store, err := openStore(cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			docs, closeDocs, err := openDocStore(cfg)
			if err != nil {
				return err
			}
			defer closeDocs()

			puller := syncer.NewPuller(store, docs, logger)
			return puller.PullAll(cmd.Context())
		},
	}
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch connectivity and sync on every reconnect",
		Long: `Poll connectivity and run a sync pass each time the device transitions
from offline to online. Runs until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			store, err := openStore(cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			docs, closeDocs, err := openDocStore(cfg)
			if err != nil {
				return err
			}
			defer closeDocs()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			checker := newChecker(cfg)
			watcher := connectivity.NewWatcher(checker, cfg.WatchInterval, logger)
			orch := syncer.NewOrchestrator(store, docs, checker, logger)

			logger.Info("watching connectivity", "interval", cfg.WatchInterval)
			orch.Run(ctx, watcher.Watch(ctx))
			return nil
		},
	}
}
