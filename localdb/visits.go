// Copyright 2025 Salonbook Authors
// SPDX-License-Identifier: Apache-2.0

package localdb

import (
	"context"
	"database/sql"

	"github.com/salonbook/salonbook/model"
)

const visitsTable = "visits"

const visitColumns = `id, patient_id, date, notes, services, used_products, sold_products, photos, sync, is_deleted, created_at, updated_at`

// VisitRepo persists visits. The list fields (services, used products,
// sold products, photos) are stored as serialized JSON arrays; the store
// treats them as opaque text and they round-trip exactly.
type VisitRepo struct {
	store *Store
}

func NewVisitRepo(store *Store) *VisitRepo {
	return &VisitRepo{store: store}
}

func scanVisit(rows *sql.Rows) (model.Visit, error) {
	var v model.Visit
	var services, usedProducts, soldProducts, photos string
	err := rows.Scan(&v.ID, &v.PatientID, &v.Date, &v.Notes,
		&services, &usedProducts, &soldProducts, &photos,
		&v.Sync, &v.IsDeleted, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return v, err
	}
	if v.Services, err = unmarshalList[string](services); err != nil {
		return v, err
	}
	if v.UsedProducts, err = unmarshalList[string](usedProducts); err != nil {
		return v, err
	}
	if v.SoldProducts, err = unmarshalList[model.SoldProduct](soldProducts); err != nil {
		return v, err
	}
	if v.Photos, err = unmarshalList[string](photos); err != nil {
		return v, err
	}
	return v, nil
}

func (r *VisitRepo) queryVisits(ctx context.Context, op, query string, args ...any) ([]model.Visit, error) {
	return WithTableCheck(ctx, r.store, visitsTable, func(ctx context.Context) ([]model.Visit, error) {
		rows, err := r.store.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, storeErr(op, visitsTable, err)
		}
		defer rows.Close()

		visits := []model.Visit{}
		for rows.Next() {
			v, err := scanVisit(rows)
			if err != nil {
				return nil, storeErr(op, visitsTable, err)
			}
			visits = append(visits, v)
		}
		if err := rows.Err(); err != nil {
			return nil, storeErr(op, visitsTable, err)
		}
		return visits, nil
	})
}

// GetAll returns every visit that is not soft-deleted.
func (r *VisitRepo) GetAll(ctx context.Context) ([]model.Visit, error) {
	return r.queryVisits(ctx, "getAll",
		`SELECT `+visitColumns+` FROM visits WHERE is_deleted != 1`)
}

// GetByPatientID returns the patient's visits that are not soft-deleted.
func (r *VisitRepo) GetByPatientID(ctx context.Context, patientID string) ([]model.Visit, error) {
	return r.queryVisits(ctx, "getByPatientId",
		`SELECT `+visitColumns+` FROM visits WHERE patient_id = ? AND is_deleted != 1`, patientID)
}

// GetByID returns the visit with the given id, or nil if absent or
// soft-deleted.
func (r *VisitRepo) GetByID(ctx context.Context, id string) (*model.Visit, error) {
	visits, err := r.queryVisits(ctx, "getById",
		`SELECT `+visitColumns+` FROM visits WHERE id = ? AND is_deleted != 1`, id)
	if err != nil {
		return nil, err
	}
	if len(visits) == 0 {
		return nil, nil
	}
	return &visits[0], nil
}

// GetUnsynced returns the patient's dirty visits, tombstones included.
func (r *VisitRepo) GetUnsynced(ctx context.Context, patientID string) ([]model.Visit, error) {
	return r.queryVisits(ctx, "getUnsynced",
		`SELECT `+visitColumns+` FROM visits WHERE sync = 0 AND patient_id = ?`, patientID)
}

func (r *VisitRepo) upsert(ctx context.Context, op string, v *model.Visit) error {
	services, err := marshalList(v.Services)
	if err != nil {
		return storeErr(op, visitsTable, err)
	}
	usedProducts, err := marshalList(v.UsedProducts)
	if err != nil {
		return storeErr(op, visitsTable, err)
	}
	soldProducts, err := marshalList(v.SoldProducts)
	if err != nil {
		return storeErr(op, visitsTable, err)
	}
	photos, err := marshalList(v.Photos)
	if err != nil {
		return storeErr(op, visitsTable, err)
	}
	return execChecked(ctx, r.store, visitsTable, func(ctx context.Context) error {
		_, err := r.store.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO visits (`+visitColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			v.ID, v.PatientID, v.Date, v.Notes,
			services, usedProducts, soldProducts, photos,
			v.Sync, v.IsDeleted, v.CreatedAt, v.UpdatedAt)
		if err != nil {
			return storeErr(op, visitsTable, err)
		}
		return nil
	})
}

// Save upserts the full row, marking it dirty and not deleted.
func (r *VisitRepo) Save(ctx context.Context, v *model.Visit) error {
	v.Sync = false
	v.IsDeleted = false
	return r.upsert(ctx, "save", v)
}

// Import upserts a row exactly as given, including its sync flag.
func (r *VisitRepo) Import(ctx context.Context, v *model.Visit) error {
	return r.upsert(ctx, "import", v)
}

// SoftDelete marks the row deleted and dirty without removing it.
func (r *VisitRepo) SoftDelete(ctx context.Context, id string) error {
	return execChecked(ctx, r.store, visitsTable, func(ctx context.Context) error {
		_, err := r.store.db.ExecContext(ctx,
			`UPDATE visits SET is_deleted = 1, sync = 0 WHERE id = ?`, id)
		if err != nil {
			return storeErr("softDelete", visitsTable, err)
		}
		return nil
	})
}

// MarkSynced flips a single row clean after its remote write succeeded.
func (r *VisitRepo) MarkSynced(ctx context.Context, id string) error {
	return execChecked(ctx, r.store, visitsTable, func(ctx context.Context) error {
		_, err := r.store.db.ExecContext(ctx,
			`UPDATE visits SET sync = 1 WHERE id = ?`, id)
		if err != nil {
			return storeErr("markSynced", visitsTable, err)
		}
		return nil
	})
}
