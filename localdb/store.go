// Copyright 2025 Salonbook Authors
// SPDX-License-Identifier: Apache-2.0

// Package localdb implements the embedded SQLite store that is the sole
// source of truth while offline, together with the per-entity repositories
// and the self-healing schema guard every repository call goes through.
package localdb

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps the process-wide SQLite handle. It is constructed once by the
// application root and passed by reference to repositories and the sync
// orchestrator; the schema-initialized flag lives here rather than in
// package state so two stores never share init bookkeeping.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger

	initMu      sync.Mutex
	initialized bool
}

// Open opens (creating if needed) the SQLite database at path. The handle
// is limited to a single connection: the local CRUD path is low-throughput,
// a single writer sidesteps SQLITE_BUSY, and it keeps ":memory:" databases
// on one connection so tests see a single database.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if !isMemoryPath(path) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// WAL for durability on real files (in-memory databases report "memory"),
	// busy timeout for the rare concurrent opener, FKs for hygiene even though
	// ownership relations are enforced at the application level.
	for _, pragma := range []string{
		`PRAGMA journal_mode=WAL`,
		`PRAGMA busy_timeout=5000`,
		`PRAGMA foreign_keys=ON`,
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %s: %w", pragma, err)
		}
	}

	return &Store{db: db, path: path, logger: logger}, nil
}

func isMemoryPath(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}

// RawDB returns the underlying sql.DB connection.
func (s *Store) RawDB() *sql.DB {
	return s.db
}

// Path returns the database location the store was opened with.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
