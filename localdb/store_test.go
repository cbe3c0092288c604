// Copyright 2025 Salonbook Authors
// SPDX-License-Identifier: Apache-2.0

package localdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenAppliesPragmas(t *testing.T) {
	store := newTestStore(t)

	var journalMode string
	err := store.RawDB().QueryRow("PRAGMA journal_mode").Scan(&journalMode)
	require.NoError(t, err)
	// In-memory databases report "memory" instead of "wal".
	require.Contains(t, []string{"wal", "memory"}, journalMode)

	var foreignKeys int
	err = store.RawDB().QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys)
	require.NoError(t, err)
	require.Equal(t, 1, foreignKeys)
}

func TestEnsureTableInitializesLazily(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Nothing exists yet on a fresh backing file.
	exists, err := store.tableExists(ctx, "patients")
	require.NoError(t, err)
	require.False(t, exists)

	require.NoError(t, store.EnsureTable(ctx, "patients"))

	for _, table := range []string{"patients", "visits", "forms", "form_questions",
		"form_answers", "services", "products", "suggestions"} {
		exists, err := store.tableExists(ctx, table)
		require.NoError(t, err)
		require.True(t, exists, "table %s should exist after init", table)
	}
}

func TestEnsureTableSelfHeals(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.EnsureTable(ctx, "patients"))

	// Simulate a store that lost a table after the initialized flag was set.
	_, err := store.RawDB().Exec(`DROP TABLE patients`)
	require.NoError(t, err)

	require.NoError(t, store.EnsureTable(ctx, "patients"))
	exists, err := store.tableExists(ctx, "patients")
	require.NoError(t, err)
	require.True(t, exists)
}

func TestEnsureTableUnknownTable(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.EnsureTable(ctx, "no_such_table")
	require.Error(t, err)
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	require.Equal(t, "no_such_table", schemaErr.Table)
}

func TestWithTableCheckPropagatesResult(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	got, err := WithTableCheck(ctx, store, "patients", func(ctx context.Context) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	require.Equal(t, 42, got)
}

func TestFirstRepositoryCallCreatesSchema(t *testing.T) {
	// A repo call against an empty backing file must succeed without an
	// explicit initialization call.
	store := newTestStore(t)
	repo := NewPatientRepo(store)

	patients, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, patients)
}
