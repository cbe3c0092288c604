// Copyright 2025 Salonbook Authors
// SPDX-License-Identifier: Apache-2.0

// Package remote defines the boundary to the remote document store and the
// backends that implement it. The remote is consumed as an opaque keyed
// document API: every write fully replaces the document at its path, which
// makes redelivery idempotent (last-write-wins overwrite). Nothing here
// knows about dirty flags or sync passes.
package remote

import (
	"context"
	"fmt"
)

// Document is one remote document's fields. List-valued fields are native
// arrays here, never serialized strings.
type Document = map[string]any

// DocStore is the keyed document API the synchronizer writes to and the
// pull path reads from. path is a slash-joined collection path such as
// "patients" or "patients/{patientID}/visits".
type DocStore interface {
	// Put fully replaces the document keyed by id under path.
	Put(ctx context.Context, path, id string, doc Document) error
	// List returns every document in the collection at path.
	List(ctx context.Context, path string) ([]Document, error)
}

// Collection path builders. Visits and form answers nest under their
// owning patient, questions under their form.

func PatientsPath() string { return "patients" }

func VisitsPath(patientID string) string {
	return fmt.Sprintf("patients/%s/visits", patientID)
}

func FormAnswersPath(patientID string) string {
	return fmt.Sprintf("patients/%s/form_answers", patientID)
}

func FormsPath() string { return "forms" }

func QuestionsPath(formID string) string {
	return fmt.Sprintf("forms/%s/questions", formID)
}

func ServicesPath() string { return "services" }

func ProductsPath() string { return "products" }

// WriteError reports a failed document write. The synchronizer aborts the
// current entity's upload loop on the first WriteError and leaves the
// remaining rows dirty for the next pass.
type WriteError struct {
	Path string
	ID   string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("remote: write %s/%s: %v", e.Path, e.ID, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
