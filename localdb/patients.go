// Copyright 2025 Salonbook Authors
// SPDX-License-Identifier: Apache-2.0

package localdb

import (
	"context"
	"database/sql"

	"github.com/salonbook/salonbook/model"
)

const patientsTable = "patients"

const patientColumns = `id, first_name, last_name, email, phone, date_of_birth, photo, notes, sync, is_deleted, created_at, updated_at`

// PatientRepo persists patients. All operations route through the schema
// guard, so the repository works against a store opened before schema
// creation.
type PatientRepo struct {
	store *Store
}

func NewPatientRepo(store *Store) *PatientRepo {
	return &PatientRepo{store: store}
}

func scanPatient(rows *sql.Rows) (model.Patient, error) {
	var p model.Patient
	err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone,
		&p.DateOfBirth, &p.Photo, &p.Notes, &p.Sync, &p.IsDeleted,
		&p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *PatientRepo) queryPatients(ctx context.Context, op, query string, args ...any) ([]model.Patient, error) {
	return WithTableCheck(ctx, r.store, patientsTable, func(ctx context.Context) ([]model.Patient, error) {
		rows, err := r.store.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, storeErr(op, patientsTable, err)
		}
		defer rows.Close()

		patients := []model.Patient{}
		for rows.Next() {
			p, err := scanPatient(rows)
			if err != nil {
				return nil, storeErr(op, patientsTable, err)
			}
			patients = append(patients, p)
		}
		if err := rows.Err(); err != nil {
			return nil, storeErr(op, patientsTable, err)
		}
		return patients, nil
	})
}

// GetAll returns every patient that is not soft-deleted. Order is
// unspecified.
func (r *PatientRepo) GetAll(ctx context.Context) ([]model.Patient, error) {
	return r.queryPatients(ctx, "getAll",
		`SELECT `+patientColumns+` FROM patients WHERE is_deleted != 1`)
}

// GetByID returns the patient with the given id, or nil if it is absent or
// soft-deleted. Absence is not an error.
func (r *PatientRepo) GetByID(ctx context.Context, id string) (*model.Patient, error) {
	patients, err := r.queryPatients(ctx, "getById",
		`SELECT `+patientColumns+` FROM patients WHERE id = ? AND is_deleted != 1`, id)
	if err != nil {
		return nil, err
	}
	if len(patients) == 0 {
		return nil, nil
	}
	return &patients[0], nil
}

// GetUnsynced returns every dirty patient, soft-deleted ones included: a
// tombstone is a mutation that still needs one remote write.
func (r *PatientRepo) GetUnsynced(ctx context.Context) ([]model.Patient, error) {
	return r.queryPatients(ctx, "getUnsynced",
		`SELECT `+patientColumns+` FROM patients WHERE sync = 0`)
}

// Save upserts the full row, marking it dirty and not deleted. Upsert by
// id is the only local write path; there is no separate insert branch.
func (r *PatientRepo) Save(ctx context.Context, p *model.Patient) error {
	p.Sync = false
	p.IsDeleted = false
	return execChecked(ctx, r.store, patientsTable, func(ctx context.Context) error {
		_, err := r.store.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO patients (`+patientColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?, ?)`,
			p.ID, p.FirstName, p.LastName, p.Email, p.Phone,
			p.DateOfBirth, p.Photo, p.Notes, p.CreatedAt, p.UpdatedAt)
		if err != nil {
			return storeErr("save", patientsTable, err)
		}
		return nil
	})
}

// Import upserts a row exactly as given, including its sync flag. The pull
// path uses it to materialize remote documents without re-dirtying them.
func (r *PatientRepo) Import(ctx context.Context, p *model.Patient) error {
	return execChecked(ctx, r.store, patientsTable, func(ctx context.Context) error {
		_, err := r.store.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO patients (`+patientColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.FirstName, p.LastName, p.Email, p.Phone,
			p.DateOfBirth, p.Photo, p.Notes, p.Sync, p.IsDeleted,
			p.CreatedAt, p.UpdatedAt)
		if err != nil {
			return storeErr("import", patientsTable, err)
		}
		return nil
	})
}

// SoftDelete marks the row deleted and dirty without removing it, so the
// deletion propagates on the next sync pass.
func (r *PatientRepo) SoftDelete(ctx context.Context, id string) error {
	return execChecked(ctx, r.store, patientsTable, func(ctx context.Context) error {
		_, err := r.store.db.ExecContext(ctx,
			`UPDATE patients SET is_deleted = 1, sync = 0 WHERE id = ?`, id)
		if err != nil {
			return storeErr("softDelete", patientsTable, err)
		}
		return nil
	})
}

// MarkSynced flips a single row clean after its remote write succeeded.
func (r *PatientRepo) MarkSynced(ctx context.Context, id string) error {
	return execChecked(ctx, r.store, patientsTable, func(ctx context.Context) error {
		_, err := r.store.db.ExecContext(ctx,
			`UPDATE patients SET sync = 1 WHERE id = ?`, id)
		if err != nil {
			return storeErr("markSynced", patientsTable, err)
		}
		return nil
	})
}

// PendingPatientIDs returns the ids of patients with any unsynced row: a
// dirty patient row, or a dirty visit or form answer owned by the patient.
// The orchestrator iterates this set, so a dirty child under a clean
// parent is never stranded.
func (r *PatientRepo) PendingPatientIDs(ctx context.Context) ([]string, error) {
	// The guard checks patients; visits and form_answers are created by the
	// same schema init, so one check covers the union.
	return WithTableCheck(ctx, r.store, patientsTable, func(ctx context.Context) ([]string, error) {
		rows, err := r.store.db.QueryContext(ctx, `
			SELECT id FROM patients WHERE sync = 0
			UNION
			SELECT patient_id FROM visits WHERE sync = 0
			UNION
			SELECT patient_id FROM form_answers WHERE sync = 0`)
		if err != nil {
			return nil, storeErr("pendingPatients", patientsTable, err)
		}
		defer rows.Close()

		var ids []string
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return nil, storeErr("pendingPatients", patientsTable, err)
			}
			ids = append(ids, id)
		}
		if err := rows.Err(); err != nil {
			return nil, storeErr("pendingPatients", patientsTable, err)
		}
		return ids, nil
	})
}
