// Copyright 2025 Salonbook Authors
// SPDX-License-Identifier: Apache-2.0

package connectivity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHTTPCheckerAnyResponseIsOnline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodHead, r.Method)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	checker := NewHTTPChecker(srv.URL)
	require.True(t, checker.Connected(context.Background()))
}

func TestHTTPCheckerTransportErrorIsOffline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	checker := NewHTTPChecker(srv.URL)
	require.False(t, checker.Connected(context.Background()))
}

func TestWatcherEmitsOnRestoreOnly(t *testing.T) {
	var online atomic.Bool
	checker := CheckerFunc(func(context.Context) bool { return online.Load() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher := NewWatcher(checker, 5*time.Millisecond, nil)
	events := watcher.Watch(ctx)

	// Offline at start: nothing emitted.
	select {
	case <-events:
		t.Fatal("unexpected event while offline")
	case <-time.After(30 * time.Millisecond):
	}

	online.Store(true)
	select {
	case got := <-events:
		require.True(t, got)
	case <-time.After(time.Second):
		t.Fatal("no event after going online")
	}

	// Staying online emits nothing further.
	select {
	case <-events:
		t.Fatal("unexpected event while staying online")
	case <-time.After(30 * time.Millisecond):
	}

	// A second offline-to-online cycle emits again.
	online.Store(false)
	time.Sleep(30 * time.Millisecond)
	online.Store(true)
	select {
	case got := <-events:
		require.True(t, got)
	case <-time.After(time.Second):
		t.Fatal("no event after second restore")
	}
}

func TestWatcherStartedOnlineEmitsImmediately(t *testing.T) {
	checker := CheckerFunc(func(context.Context) bool { return true })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher := NewWatcher(checker, time.Hour, nil)
	events := watcher.Watch(ctx)

	select {
	case got := <-events:
		require.True(t, got)
	case <-time.After(time.Second):
		t.Fatal("no initial event while online")
	}
}

func TestWatcherClosesOnContextEnd(t *testing.T) {
	checker := CheckerFunc(func(context.Context) bool { return false })

	ctx, cancel := context.WithCancel(context.Background())
	watcher := NewWatcher(checker, 5*time.Millisecond, nil)
	events := watcher.Watch(ctx)
	cancel()

	select {
	case _, open := <-events:
		require.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("channel did not close after cancel")
	}
}
