// Copyright 2025 Salonbook Authors
// SPDX-License-Identifier: Apache-2.0

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

// Puller hydrates the local store from the remote document store. Pulled
// rows are imported with sync=1 (remote wins, nothing to re-upload) and
// list columns land in the exact representation the push path reads back.
type Puller struct {
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

// NewPuller builds a puller over the injected store and document store.
func NewPuller(store *localdb.Store, docs remote.DocStore, logger *slog.Logger) *Puller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Puller{
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

// fromDoc decodes a remote document into the entity type.
func fromDoc[T any](doc remote.Document) (*T, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var entity T
	if err := json.Unmarshal(raw, &entity); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return &entity, nil
}

// pullRows lists a collection and imports every document clean.
func pullRows[T any](ctx context.Context, p *Puller, path string,
	prepare func(*T), importRow func(context.Context, *T) error) (int, error) {

	docs, err := p.docs.List(ctx, path)
	if err != nil {
		return 0, err
	}
	for _, doc := range docs {
		entity, err := fromDoc[T](doc)
		if err != nil {
			return 0, fmt.Errorf("failed to decode %s document: %w", path, err)
		}
		if prepare != nil {
			prepare(entity)
		}
		if err := importRow(ctx, entity); err != nil {
			return 0, err
		}
	}
	p.logger.Debug("pulled collection", "path", path, "count", len(docs))
	return len(docs), nil
}

// PullPatients replaces local patient rows with the remote documents.
func (p *Puller) PullPatients(ctx context.Context) error {
	_, err := pullRows(ctx, p, remote.PatientsPath(),
		func(r *model.Patient) { r.Sync = true }, p.patients.Import)
	return err
}

// PullVisits replaces the patient's local visits with the remote documents.
func (p *Puller) PullVisits(ctx context.Context, patientID string) error {
	_, err := pullRows(ctx, p, remote.VisitsPath(patientID),
		func(r *model.Visit) { r.Sync = true; r.PatientID = patientID }, p.visits.Import)
	return err
}

// PullFormAnswers replaces the patient's local form answers.
func (p *Puller) PullFormAnswers(ctx context.Context, patientID string) error {
	_, err := pullRows(ctx, p, remote.FormAnswersPath(patientID),
		func(r *model.FormAnswer) { r.Sync = true; r.PatientID = patientID }, p.answers.Import)
	return err
}

// PullForms replaces local form rows with the remote documents.
func (p *Puller) PullForms(ctx context.Context) error {
	_, err := pullRows(ctx, p, remote.FormsPath(),
		func(r *model.Form) { r.Sync = true }, p.forms.Import)
	return err
}

// PullFormQuestions replaces the form's local questions.
func (p *Puller) PullFormQuestions(ctx context.Context, formID string) error {
	_, err := pullRows(ctx, p, remote.QuestionsPath(formID),
		func(r *model.FormQuestion) { r.Sync = true; r.FormID = formID }, p.questions.Import)
	return err
}

// PullServices replaces the local service catalog.
func (p *Puller) PullServices(ctx context.Context) error {
	_, err := pullRows(ctx, p, remote.ServicesPath(),
		func(r *model.Service) { r.Sync = true }, p.services.Import)
	return err
}

// PullProducts replaces the local product catalog.
func (p *Puller) PullProducts(ctx context.Context) error {
	_, err := pullRows(ctx, p, remote.ProductsPath(),
		func(r *model.Product) { r.Sync = true }, p.products.Import)
	return err
}

// PullAll hydrates every collection: patients first, then each patient's
// owned collections, then forms and their questions, then the catalogs.
func (p *Puller) PullAll(ctx context.Context) error {
	if err := p.PullPatients(ctx); err != nil {
		return err
	}
	patients, err := p.patients.GetAll(ctx)
	if err != nil {
		return err
	}
	for i := range patients {
		if err := p.PullVisits(ctx, patients[i].ID); err != nil {
			return err
		}
		if err := p.PullFormAnswers(ctx, patients[i].ID); err != nil {
			return err
		}
	}
	if err := p.PullForms(ctx); err != nil {
		return err
	}
	forms, err := p.forms.GetAll(ctx)
	if err != nil {
		return err
	}
	for i := range forms {
		if err := p.PullFormQuestions(ctx, forms[i].ID); err != nil {
			return err
		}
	}
	if err := p.PullServices(ctx); err != nil {
		return err
	}
	return p.PullProducts(ctx)
}
