// Copyright 2025 Salonbook Authors
// SPDX-License-Identifier: Apache-2.0

package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/salonbook/salonbook/connectivity"
	"github.com/salonbook/salonbook/localdb"
	"github.com/salonbook/salonbook/remote"
)

// Orchestrator state.
const (
	stateIdle int32 = iota
	stateSyncing
)

// ErrSyncBusy is returned when a sync pass is requested while another pass
// is still running. The requested pass performs no work.
var ErrSyncBusy = errors.New("sync pass already running")

// SyncPassError wraps the error that ended a pass early, tagged with the
// step it failed on. Flags already cleared by earlier steps stay cleared;
// there is no compensating rollback.
type SyncPassError struct {
	Step string
	Err  error
}

func (e *SyncPassError) Error() string {
	return fmt.Sprintf("sync pass failed at %s: %v", e.Step, e.Err)
}

func (e *SyncPassError) Unwrap() error { return e.Err }

// Orchestrator runs the fixed upload sequence. It is an explicit two-state
// machine (idle/syncing) with an atomic guard, so two connectivity events
// arriving close together cannot run two passes over the same rows.
type Orchestrator struct {
	pusher   *Pusher
	patients *localdb.PatientRepo
	forms    *localdb.FormRepo
	checker  connectivity.Checker
	logger   *slog.Logger
	state    int32
}

// NewOrchestrator wires the orchestrator over the injected store, document
// store and connectivity checker.
func NewOrchestrator(store *localdb.Store, docs remote.DocStore, checker connectivity.Checker, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		pusher:   NewPusher(store, docs, logger),
		patients: localdb.NewPatientRepo(store),
		forms:    localdb.NewFormRepo(store),
		checker:  checker,
		logger:   logger,
	}
}

// Syncing reports whether a pass is currently running.
func (o *Orchestrator) Syncing() bool {
	return atomic.LoadInt32(&o.state) == stateSyncing
}

// SyncPass runs one complete upload sequence:
//
//  1. bail out if offline (no-op, flags untouched)
//  2. collect patients with any pending row — own row or dirty children
//  3. push patients, so parents exist remotely before children
//  4. per pending patient: push form answers, then visits
//  5. push forms, then per pending form: questions
//  6. push services, then products
//
// The first error ends the pass; rows already flipped clean stay clean and
// everything else is retried on the next connectivity transition. A pass
// requested while one is running returns ErrSyncBusy.
func (o *Orchestrator) SyncPass(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&o.state, stateIdle, stateSyncing) {
		return ErrSyncBusy
	}
	defer atomic.StoreInt32(&o.state, stateIdle)

	if !o.checker.Connected(ctx) {
		o.logger.Info("offline, skipping sync pass")
		return nil
	}

	o.logger.Info("starting sync pass")

	pendingPatients, err := o.patients.PendingPatientIDs(ctx)
	if err != nil {
		return &SyncPassError{Step: "collect pending patients", Err: err}
	}

	if err := o.pusher.PushPatients(ctx); err != nil {
		return &SyncPassError{Step: "patients", Err: err}
	}

	for _, patientID := range pendingPatients {
		if err := o.pusher.PushFormAnswers(ctx, patientID); err != nil {
			return &SyncPassError{Step: "form answers", Err: err}
		}
		if err := o.pusher.PushVisits(ctx, patientID); err != nil {
			return &SyncPassError{Step: "visits", Err: err}
		}
	}

	pendingForms, err := o.forms.PendingFormIDs(ctx)
	if err != nil {
		return &SyncPassError{Step: "collect pending forms", Err: err}
	}
	if err := o.pusher.PushForms(ctx); err != nil {
		return &SyncPassError{Step: "forms", Err: err}
	}
	for _, formID := range pendingForms {
		if err := o.pusher.PushFormQuestions(ctx, formID); err != nil {
			return &SyncPassError{Step: "form questions", Err: err}
		}
	}

	if err := o.pusher.PushServices(ctx); err != nil {
		return &SyncPassError{Step: "services", Err: err}
	}
	if err := o.pusher.PushProducts(ctx); err != nil {
		return &SyncPassError{Step: "products", Err: err}
	}

	o.logger.Info("sync pass completed")
	return nil
}

// Run consumes connectivity transitions until ctx ends. Sync is
// best-effort and invisible to the caller: pass errors are logged, never
// returned, and the only retry is the next transition to online.
func (o *Orchestrator) Run(ctx context.Context, events <-chan bool) {
	for {
		select {
		case <-ctx.Done():
			return
		case online, ok := <-events:
			if !ok {
				return
			}
			if !online {
				continue
			}
			if err := o.SyncPass(ctx); err != nil {
				if errors.Is(err, ErrSyncBusy) {
					o.logger.Debug("sync already running, ignoring trigger")
					continue
				}
				o.logger.Error("sync pass failed", "error", err)
			}
		}
	}
}
