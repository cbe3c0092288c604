// Copyright 2025 Salonbook Authors
// SPDX-License-Identifier: Apache-2.0

package localdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSuggestionAddBumpsUsageCount(t *testing.T) {
	store := newTestStore(t)
	repo := NewSuggestionRepo(store)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, SuggestionProcedures, "Peeling"))
	require.NoError(t, repo.Add(ctx, SuggestionProcedures, "peeling"))
	require.NoError(t, repo.Add(ctx, SuggestionProcedures, "PEELING"))

	got, err := repo.GetByKind(ctx, SuggestionProcedures)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Peeling", got[0].Text) // first spelling wins
	require.Equal(t, 3, got[0].UsageCount)
}

func TestSuggestionOrderingMostUsedFirst(t *testing.T) {
	store := newTestStore(t)
	repo := NewSuggestionRepo(store)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, SuggestionProducts, "Toner"))
	require.NoError(t, repo.Add(ctx, SuggestionProducts, "Serum"))
	require.NoError(t, repo.Add(ctx, SuggestionProducts, "Serum"))

	got, err := repo.GetByKind(ctx, SuggestionProducts)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "Serum", got[0].Text)
	require.Equal(t, "Toner", got[1].Text)
}

func TestSuggestionKindsAreIsolated(t *testing.T) {
	store := newTestStore(t)
	repo := NewSuggestionRepo(store)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, SuggestionProducts, "Serum"))
	require.NoError(t, repo.Add(ctx, SuggestionSoldProducts, "Serum"))

	sold, err := repo.GetByKind(ctx, SuggestionSoldProducts)
	require.NoError(t, err)
	require.Len(t, sold, 1)
	require.Equal(t, 1, sold[0].UsageCount)
}
