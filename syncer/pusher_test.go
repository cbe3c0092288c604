// Copyright 2025 Salonbook Authors
// SPDX-License-Identifier: Apache-2.0

package syncer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/salonbook/salonbook/localdb"
	"github.com/salonbook/salonbook/model"
	"github.com/salonbook/salonbook/remote"
)

func newSyncStore(t *testing.T) *localdb.Store {
	t.Helper()
	store, err := localdb.Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

type recordedWrite struct {
	Path string
	ID   string
	Doc  remote.Document
}

// fakeDocStore records Put calls in order and can fail the Nth write.
type fakeDocStore struct {
	mu     sync.Mutex
	writes []recordedWrite
	failAt int // fail the Nth Put, 1-based; 0 never fails
}

func (f *fakeDocStore) Put(_ context.Context, path, id string, doc remote.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAt > 0 && len(f.writes)+1 == f.failAt {
		return &remote.WriteError{Path: path, ID: id, Err: errors.New("injected failure")}
	}
	f.writes = append(f.writes, recordedWrite{Path: path, ID: id, Doc: doc})
	return nil
}

func (f *fakeDocStore) List(_ context.Context, path string) ([]remote.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var docs []remote.Document
	for _, w := range f.writes {
		if w.Path == path {
			docs = append(docs, w.Doc)
		}
	}
	return docs, nil
}

func (f *fakeDocStore) recorded() []recordedWrite {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedWrite(nil), f.writes...)
}

func TestPushPatientsWritesAndCleans(t *testing.T) {
	store := newSyncStore(t)
	patients := localdb.NewPatientRepo(store)
	ctx := context.Background()

	require.NoError(t, patients.Save(ctx, model.NewPatient("Ada", "Lovelace")))
	require.NoError(t, patients.Save(ctx, model.NewPatient("Grace", "Hopper")))

	docs := &fakeDocStore{}
	pusher := NewPusher(store, docs, nil)
	require.NoError(t, pusher.PushPatients(ctx))

	writes := docs.recorded()
	require.Len(t, writes, 2)
	for _, w := range writes {
		require.Equal(t, remote.PatientsPath(), w.Path)
		require.Equal(t, true, w.Doc["sync"])
	}

	dirty, err := patients.GetUnsynced(ctx)
	require.NoError(t, err)
	require.Empty(t, dirty)
}

func TestPushPartialFailureKeepsRemainderDirty(t *testing.T) {
	store := newSyncStore(t)
	patients := localdb.NewPatientRepo(store)
	ctx := context.Background()

	for _, name := range []string{"One", "Two", "Three"} {
		require.NoError(t, patients.Save(ctx, model.NewPatient(name, "Test")))
	}

	docs := &fakeDocStore{failAt: 2}
	pusher := NewPusher(store, docs, nil)

	err := pusher.PushPatients(ctx)
	var writeErr *remote.WriteError
	require.ErrorAs(t, err, &writeErr)

	// The row written before the failure is clean, the rest stay dirty.
	require.Len(t, docs.recorded(), 1)
	dirty, err := patients.GetUnsynced(ctx)
	require.NoError(t, err)
	require.Len(t, dirty, 2)
}

func TestPushPropagatesTombstone(t *testing.T) {
	store := newSyncStore(t)
	patients := localdb.NewPatientRepo(store)
	ctx := context.Background()

	p := model.NewPatient("Ada", "Lovelace")
	require.NoError(t, patients.Save(ctx, p))
	require.NoError(t, patients.MarkSynced(ctx, p.ID))
	require.NoError(t, patients.SoftDelete(ctx, p.ID))

	docs := &fakeDocStore{}
	pusher := NewPusher(store, docs, nil)
	require.NoError(t, pusher.PushPatients(ctx))

	writes := docs.recorded()
	require.Len(t, writes, 1)
	require.Equal(t, p.ID, writes[0].ID)
	require.Equal(t, true, writes[0].Doc["is_deleted"])
}

func TestPushVisitExpandsListColumns(t *testing.T) {
	store := newSyncStore(t)
	patients := localdb.NewPatientRepo(store)
	visits := localdb.NewVisitRepo(store)
	ctx := context.Background()

	p := model.NewPatient("Ada", "Lovelace")
	require.NoError(t, patients.Save(ctx, p))

	v := model.NewVisit(p.ID)
	v.Services = []string{"svc-1", "svc-2"}
	v.SoldProducts = []model.SoldProduct{{ProductID: "prod-1", Quantity: 2}}
	require.NoError(t, visits.Save(ctx, v))

	docs := &fakeDocStore{}
	pusher := NewPusher(store, docs, nil)
	require.NoError(t, pusher.PushVisits(ctx, p.ID))

	writes := docs.recorded()
	require.Len(t, writes, 1)
	require.Equal(t, remote.VisitsPath(p.ID), writes[0].Path)

	services, ok := writes[0].Doc["services"].([]any)
	require.True(t, ok, "services must be a native array, not a JSON string")
	require.Equal(t, []any{"svc-1", "svc-2"}, services)

	sold, ok := writes[0].Doc["sold_products"].([]any)
	require.True(t, ok)
	require.Len(t, sold, 1)

	photos, ok := writes[0].Doc["photos"].([]any)
	require.True(t, ok, "empty lists must survive as arrays")
	require.Empty(t, photos)
}
