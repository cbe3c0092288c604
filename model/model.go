// Copyright 2025 Salonbook Authors
// SPDX-License-Identifier: Apache-2.0

// Package model defines the plain records the local store and the remote
// document store exchange. Records carry no behavior beyond construction
// and dirty-marking: ids are assigned client-side at creation time and
// never change, the Sync flag tracks whether the row still has local
// changes the remote has not seen, and IsDeleted is a soft-delete marker
// so that a deletion can itself be propagated.
package model

import (
	"time"

	"github.com/google/uuid"
)

// TimeFormat is the layout used for the client-assigned created_at and
// updated_at columns. These are not authoritative clocks.
const TimeFormat = time.RFC3339

// NewID returns a fresh globally unique id for a record.
func NewID() string {
	return uuid.New().String()
}

// Now returns the current wall-clock time in the column format.
func Now() string {
	return time.Now().UTC().Format(TimeFormat)
}

// Patient is the root entity. Visits and form answers are owned by a
// patient and live under its remote document path.
type Patient struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth"`
	Photo       string `json:"photo"` // URL or local path
	Notes       string `json:"notes"`
	Sync        bool   `json:"sync"`
	IsDeleted   bool   `json:"is_deleted"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// NewPatient returns a dirty patient record with a fresh id.
func NewPatient(firstName, lastName string) *Patient {
	now := Now()
	return &Patient{
		ID:        NewID(),
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch refreshes the update timestamp and marks the record dirty.
func (p *Patient) Touch() {
	p.UpdatedAt = Now()
	p.Sync = false
}

// SoldProduct records a product sold during a visit.
type SoldProduct struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Visit is owned by a patient. The list fields are stored locally as
// serialized JSON arrays and expanded to native arrays on the remote.
type Visit struct {
	ID           string        `json:"id"`
	PatientID    string        `json:"patient_id"`
	Date         string        `json:"date"`
	Notes        string        `json:"notes"`
	Services     []string      `json:"services"`      // service ids
	UsedProducts []string      `json:"used_products"` // product ids
	SoldProducts []SoldProduct `json:"sold_products"`
	Photos       []string      `json:"photos"`
	Sync         bool          `json:"sync"`
	IsDeleted    bool          `json:"is_deleted"`
	CreatedAt    string        `json:"created_at"`
	UpdatedAt    string        `json:"updated_at"`
}

// NewVisit returns a dirty visit record owned by the given patient.
func NewVisit(patientID string) *Visit {
	now := Now()
	return &Visit{
		ID:        NewID(),
		PatientID: patientID,
		Date:      now,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch refreshes the update timestamp and marks the record dirty.
func (v *Visit) Touch() {
	v.UpdatedAt = Now()
	v.Sync = false
}

// Form is an intake questionnaire. Questions are owned by a form.
type Form struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Sync      bool   `json:"sync"`
	IsDeleted bool   `json:"is_deleted"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// FormQuestion is a single question belonging to a form.
type FormQuestion struct {
	ID        string `json:"id"`
	FormID    string `json:"form_id"`
	Question  string `json:"question"`
	Sync      bool   `json:"sync"`
	IsDeleted bool   `json:"is_deleted"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// FormAnswer is a patient's answer to a form question. It is owned by the
// patient and keyed under the patient's remote path.
type FormAnswer struct {
	ID         string `json:"id"`
	PatientID  string `json:"patient_id"`
	FormID     string `json:"form_id"`
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
	Sync       bool   `json:"sync"`
	IsDeleted  bool   `json:"is_deleted"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// Service is a standalone catalog entity.
type Service struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Duration    int     `json:"duration"` // minutes
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	SalePrice   float64 `json:"sale_price"`
	Sync        bool    `json:"sync"`
	IsDeleted   bool    `json:"is_deleted"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// Product is a standalone catalog entity.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	SalePrice   float64 `json:"sale_price"`
	Sync        bool    `json:"sync"`
	IsDeleted   bool    `json:"is_deleted"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// Suggestion is a usage-counted autocomplete entry. Suggestions are local
// convenience state and are never synced.
type Suggestion struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"` // "procedures", "products", "sold_products"
	Text       string `json:"text"`
	UsageCount int    `json:"usage_count"`
}
