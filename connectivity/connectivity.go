// Copyright 2025 Salonbook Authors
// SPDX-License-Identifier: Apache-2.0

// Package connectivity reports network reachability. The sync engine only
// consumes it: a Checker answers "are we online right now", and a Watcher
// turns polling into offline-to-online transition events, which are the
// sole trigger for a sync pass.
package connectivity

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Checker reports point-in-time reachability.
type Checker interface {
	Connected(ctx context.Context) bool
}

// HTTPChecker probes an HTTP endpoint, typically the document server's
// health URL. Any response at all counts as connected; only transport
// errors mean offline.
type HTTPChecker struct {
	URL  string
	HTTP *http.Client
}

// NewHTTPChecker builds a checker with a short probe timeout.
func NewHTTPChecker(url string) *HTTPChecker {
	return &HTTPChecker{
		URL:  url,
		HTTP: &http.Client{Timeout: 5 * time.Second},
	}
}

// Connected implements Checker.
func (c *HTTPChecker) Connected(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.URL, nil)
	if err != nil {
		return false
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc func(ctx context.Context) bool

func (f CheckerFunc) Connected(ctx context.Context) bool { return f(ctx) }

// Watcher polls a Checker and emits true on each offline-to-online
// transition. Staying online emits nothing; going offline emits nothing.
// The initial state is assumed offline, so a watcher started while online
// emits one event immediately.
type Watcher struct {
	checker  Checker
	interval time.Duration
	logger   *slog.Logger
}

// NewWatcher builds a watcher polling at the given interval.
func NewWatcher(checker Checker, interval time.Duration, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{checker: checker, interval: interval, logger: logger}
}

// Watch returns the transition channel. The channel closes when ctx ends.
// Sends never block: a transition that arrives while the consumer is busy
// is dropped, which is safe because a new transition only matters when the
// consumer is not already syncing.
func (w *Watcher) Watch(ctx context.Context) <-chan bool {
	events := make(chan bool, 1)
	go func() {
		defer close(events)
		online := false
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			now := w.checker.Connected(ctx)
			if now && !online {
				w.logger.Info("connectivity restored")
				select {
				case events <- true:
				default:
				}
			} else if !now && online {
				w.logger.Info("connectivity lost")
			}
			online = now

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return events
}
