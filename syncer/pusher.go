// Copyright 2025 Salonbook Authors
// SPDX-License-Identifier: Apache-2.0

// Package syncer pushes dirty local rows to the remote document store and
// pulls remote documents back down. The orchestrator drives it from
// connectivity transitions; nothing here schedules itself.
package syncer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/salonbook/salonbook/localdb"
	"github.com/salonbook/salonbook/model"
	"github.com/salonbook/salonbook/remote"
)

// Pusher uploads one entity type at a time: read the unsynced rows, write
// each as a full document keyed by the row id, and flip that row clean
// immediately after its write succeeds. A failed write aborts the loop for
// that entity — rows already cleaned stay clean, rows not yet reached stay
// dirty and are retried on the next pass. At-least-once delivery with
// idempotent overwrite, no cross-row atomicity.
type Pusher struct {
	patients  *localdb.PatientRepo
	visits    *localdb.VisitRepo
	forms     *localdb.FormRepo
	questions *localdb.FormQuestionRepo
	answers   *localdb.FormAnswerRepo
	services  *localdb.ServiceRepo
	products  *localdb.ProductRepo
	docs      remote.DocStore
	logger    *slog.Logger
}

// NewPusher builds a pusher over the injected store and document store.
func NewPusher(store *localdb.Store, docs remote.DocStore, logger *slog.Logger) *Pusher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pusher{
		patients:  localdb.NewPatientRepo(store),
		visits:    localdb.NewVisitRepo(store),
		forms:     localdb.NewFormRepo(store),
		questions: localdb.NewFormQuestionRepo(store),
		answers:   localdb.NewFormAnswerRepo(store),
		services:  localdb.NewServiceRepo(store),
		products:  localdb.NewProductRepo(store),
		docs:      docs,
		logger:    logger,
	}
}

// toDoc converts an entity into its remote document. The sync flag is
// written as true: the remote has no concept of "dirty".
func toDoc(entity any) (remote.Document, error) {
	raw, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var doc remote.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	doc["sync"] = true
	return doc, nil
}

// pushRows uploads rows in iteration order, marking each clean right after
// its successful write.
func pushRows[T any](ctx context.Context, p *Pusher, path string, rows []T,
	id func(*T) string, markSynced func(context.Context, string) error) error {

	for i := range rows {
		rowID := id(&rows[i])
		doc, err := toDoc(&rows[i])
		if err != nil {
			return &remote.WriteError{Path: path, ID: rowID, Err: err}
		}
		if err := p.docs.Put(ctx, path, rowID, doc); err != nil {
			return err
		}
		if err := markSynced(ctx, rowID); err != nil {
			return err
		}
		p.logger.Debug("pushed document", "path", path, "id", rowID)
	}
	return nil
}

// PushPatients uploads every dirty patient row.
func (p *Pusher) PushPatients(ctx context.Context) error {
	rows, err := p.patients.GetUnsynced(ctx)
	if err != nil {
		return err
	}
	return pushRows(ctx, p, remote.PatientsPath(), rows,
		func(r *model.Patient) string { return r.ID }, p.patients.MarkSynced)
}

// PushVisits uploads the patient's dirty visits under the patient's path.
func (p *Pusher) PushVisits(ctx context.Context, patientID string) error {
	rows, err := p.visits.GetUnsynced(ctx, patientID)
	if err != nil {
		return err
	}
	return pushRows(ctx, p, remote.VisitsPath(patientID), rows,
		func(r *model.Visit) string { return r.ID }, p.visits.MarkSynced)
}

// PushFormAnswers uploads the patient's dirty form answers.
func (p *Pusher) PushFormAnswers(ctx context.Context, patientID string) error {
	rows, err := p.answers.GetUnsynced(ctx, patientID)
	if err != nil {
		return err
	}
	return pushRows(ctx, p, remote.FormAnswersPath(patientID), rows,
		func(r *model.FormAnswer) string { return r.ID }, p.answers.MarkSynced)
}

// PushForms uploads every dirty form row.
func (p *Pusher) PushForms(ctx context.Context) error {
	rows, err := p.forms.GetUnsynced(ctx)
	if err != nil {
		return err
	}
	return pushRows(ctx, p, remote.FormsPath(), rows,
		func(r *model.Form) string { return r.ID }, p.forms.MarkSynced)
}

// PushFormQuestions uploads the form's dirty questions under the form's path.
func (p *Pusher) PushFormQuestions(ctx context.Context, formID string) error {
	rows, err := p.questions.GetUnsynced(ctx, formID)
	if err != nil {
		return err
	}
	return pushRows(ctx, p, remote.QuestionsPath(formID), rows,
		func(r *model.FormQuestion) string { return r.ID }, p.questions.MarkSynced)
}

// PushServices uploads every dirty service catalog row.
func (p *Pusher) PushServices(ctx context.Context) error {
	rows, err := p.services.GetUnsynced(ctx)
	if err != nil {
		return err
	}
	return pushRows(ctx, p, remote.ServicesPath(), rows,
		func(r *model.Service) string { return r.ID }, p.services.MarkSynced)
}

// PushProducts uploads every dirty product catalog row.
func (p *Pusher) PushProducts(ctx context.Context) error {
	rows, err := p.products.GetUnsynced(ctx)
	if err != nil {
		return err
	}
	return pushRows(ctx, p, remote.ProductsPath(), rows,
		func(r *model.Product) string { return r.ID }, p.products.MarkSynced)
}
