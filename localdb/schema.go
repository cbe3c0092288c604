// Copyright 2025 Salonbook Authors
// SPDX-License-Identifier: Apache-2.0

package localdb

import (
	"context"
	"fmt"
)

// One physical table per entity type. Primary key is the client-assigned
// id; sync and is_deleted are integer flags; list columns on visits hold
// serialized JSON arrays that are opaque to the store. Every statement is
// idempotent so schema initialization can be re-run at any time.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS patients (
		id TEXT PRIMARY KEY NOT NULL,
		first_name TEXT,
		last_name TEXT,
		email TEXT,
		phone TEXT,
		date_of_birth TEXT,
		photo TEXT,
		notes TEXT,
		sync INTEGER,
		is_deleted INTEGER DEFAULT 0,
		created_at TEXT,
		updated_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS visits (
		id TEXT PRIMARY KEY NOT NULL,
		patient_id TEXT,
		date TEXT,
		notes TEXT,
		services TEXT,
		used_products TEXT,
		sold_products TEXT,
		photos TEXT,
		sync INTEGER,
		is_deleted INTEGER DEFAULT 0,
		created_at TEXT,
		updated_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS forms (
		id TEXT PRIMARY KEY NOT NULL,
		title TEXT,
		sync INTEGER,
		is_deleted INTEGER DEFAULT 0,
		created_at TEXT,
		updated_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS form_questions (
		id TEXT PRIMARY KEY NOT NULL,
		form_id TEXT,
		question TEXT,
		sync INTEGER,
		is_deleted INTEGER DEFAULT 0,
		created_at TEXT,
		updated_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS form_answers (
		id TEXT PRIMARY KEY NOT NULL,
		patient_id TEXT,
		form_id TEXT,
		question_id TEXT,
		answer TEXT,
		sync INTEGER,
		is_deleted INTEGER DEFAULT 0,
		created_at TEXT,
		updated_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS services (
		id TEXT PRIMARY KEY NOT NULL,
		name TEXT,
		duration INTEGER,
		description TEXT,
		price REAL,
		sale_price REAL,
		sync INTEGER,
		is_deleted INTEGER DEFAULT 0,
		created_at TEXT,
		updated_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY NOT NULL,
		name TEXT,
		description TEXT,
		price REAL,
		sale_price REAL,
		sync INTEGER,
		is_deleted INTEGER DEFAULT 0,
		created_at TEXT,
		updated_at TEXT
	)`,
	// Local-only autocomplete state, never synced.
	`CREATE TABLE IF NOT EXISTS suggestions (
		id TEXT PRIMARY KEY NOT NULL,
		kind TEXT NOT NULL,
		text TEXT NOT NULL,
		usage_count INTEGER NOT NULL DEFAULT 1,
		UNIQUE (kind, text)
	)`,
}

// initSchema runs full schema initialization. Safe to call repeatedly.
func (s *Store) initSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return &SchemaError{Err: fmt.Errorf("failed to create table: %w", err)}
		}
	}
	return nil
}

// tableExists queries the SQLite catalog for the named table.
func (s *Store) tableExists(ctx context.Context, name string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to query catalog for %s: %w", name, err)
	}
	return count > 0, nil
}

// EnsureTable guarantees on return that the named table exists, or fails
// with a SchemaError. The first call on a fresh store runs full schema
// initialization; later calls pay one catalog lookup and self-heal by
// re-running initialization if the table has gone missing (for example a
// store opened against an empty backing file, or a partially initialized
// one). This keeps "open store" and "use store" free of ordering
// constraints at the cost of a cheap existence check per call.
func (s *Store) EnsureTable(ctx context.Context, name string) error {
	s.initMu.Lock()
	defer s.initMu.Unlock()

	if !s.initialized {
		if err := s.initSchema(ctx); err != nil {
			return err
		}
		s.initialized = true
		s.logger.Debug("schema initialized lazily", "table", name)
	}

	exists, err := s.tableExists(ctx, name)
	if err != nil {
		return &SchemaError{Table: name, Err: err}
	}
	if exists {
		return nil
	}

	s.logger.Warn("table missing, re-running schema init", "table", name)
	if err := s.initSchema(ctx); err != nil {
		return err
	}

	exists, err = s.tableExists(ctx, name)
	if err != nil {
		return &SchemaError{Table: name, Err: err}
	}
	if !exists {
		return &SchemaError{Table: name}
	}
	return nil
}

// WithTableCheck wraps a local-store operation with EnsureTable. This is
// the only sanctioned entry point repositories use to touch the store; the
// operation's result or error propagates unchanged.
func WithTableCheck[T any](ctx context.Context, s *Store, table string, op func(ctx context.Context) (T, error)) (T, error) {
	if err := s.EnsureTable(ctx, table); err != nil {
		var zero T
		return zero, err
	}
	return op(ctx)
}
