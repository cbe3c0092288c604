// Copyright 2025 Salonbook Authors
// SPDX-License-Identifier: Apache-2.0

package localdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/salonbook/salonbook/model"
)

func TestPatientSaveAndGet(t *testing.T) {
	store := newTestStore(t)
	repo := NewPatientRepo(store)
	ctx := context.Background()

	p := model.NewPatient("Anna", "Koval")
	p.Email = "anna@example.com"
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "Anna", got.FirstName)
	require.Equal(t, "anna@example.com", got.Email)
	require.False(t, got.Sync, "a saved row is dirty")
	require.False(t, got.IsDeleted)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestPatientGetByIDAbsent(t *testing.T) {
	store := newTestStore(t)
	repo := NewPatientRepo(store)

	got, err := repo.GetByID(context.Background(), "missing")
	require.NoError(t, err, "absence is not an error")
	require.Nil(t, got)
}

func TestPatientSaveIsUpsert(t *testing.T) {
	store := newTestStore(t)
	repo := NewPatientRepo(store)
	ctx := context.Background()

	p := model.NewPatient("Anna", "Koval")
	require.NoError(t, repo.Save(ctx, p))
	require.NoError(t, repo.MarkSynced(ctx, p.ID))

	// Mutating through Save resets the dirty flag.
	p.Notes = "allergic to latex"
	p.Touch()
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "allergic to latex", got.Notes)
	require.False(t, got.Sync)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1, "upsert must not duplicate the row")
}

func TestPatientSoftDelete(t *testing.T) {
	store := newTestStore(t)
	repo := NewPatientRepo(store)
	ctx := context.Background()

	p := model.NewPatient("Anna", "Koval")
	require.NoError(t, repo.Save(ctx, p))
	require.NoError(t, repo.MarkSynced(ctx, p.ID))

	require.NoError(t, repo.SoftDelete(ctx, p.ID))

	// Gone from active reads immediately.
	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Nil(t, got)
	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all)

	// Still pending: the tombstone needs one more remote write.
	unsynced, err := repo.GetUnsynced(ctx)
	require.NoError(t, err)
	require.Len(t, unsynced, 1)
	require.True(t, unsynced[0].IsDeleted)

	// The row is never physically removed.
	var count int
	err = store.RawDB().QueryRow(`SELECT COUNT(*) FROM patients`).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestPatientMarkSynced(t *testing.T) {
	store := newTestStore(t)
	repo := NewPatientRepo(store)
	ctx := context.Background()

	p := model.NewPatient("Anna", "Koval")
	require.NoError(t, repo.Save(ctx, p))

	unsynced, err := repo.GetUnsynced(ctx)
	require.NoError(t, err)
	require.Len(t, unsynced, 1)

	require.NoError(t, repo.MarkSynced(ctx, p.ID))
	unsynced, err = repo.GetUnsynced(ctx)
	require.NoError(t, err)
	require.Empty(t, unsynced)
}

func TestPendingPatientIDsIncludesDirtyChildren(t *testing.T) {
	store := newTestStore(t)
	patients := NewPatientRepo(store)
	visits := NewVisitRepo(store)
	ctx := context.Background()

	clean := model.NewPatient("Clean", "Parent")
	require.NoError(t, patients.Save(ctx, clean))
	require.NoError(t, patients.MarkSynced(ctx, clean.ID))

	// The parent row is clean but a visit under it is dirty.
	v := model.NewVisit(clean.ID)
	require.NoError(t, visits.Save(ctx, v))

	ids, err := patients.PendingPatientIDs(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{clean.ID}, ids)
}

func TestPatientImportKeepsSyncFlag(t *testing.T) {
	store := newTestStore(t)
	repo := NewPatientRepo(store)
	ctx := context.Background()

	p := model.NewPatient("Remote", "Row")
	p.Sync = true
	require.NoError(t, repo.Import(ctx, p))

	unsynced, err := repo.GetUnsynced(ctx)
	require.NoError(t, err)
	require.Empty(t, unsynced, "imported rows have nothing to upload")
}
