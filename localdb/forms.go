// Copyright 2025 Salonbook Authors
// SPDX-License-Identifier: Apache-2.0

package localdb

import (
	"context"
	"database/sql"

	"github.com/salonbook/salonbook/model"
)

const formsTable = "forms"

const formColumns = `id, title, sync, is_deleted, created_at, updated_at`

// FormRepo persists intake forms.
type FormRepo struct {
	store *Store
}

func NewFormRepo(store *Store) *FormRepo {
	return &FormRepo{store: store}
}

func scanForm(rows *sql.Rows) (model.Form, error) {
	var f model.Form
	err := rows.Scan(&f.ID, &f.Title, &f.Sync, &f.IsDeleted, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

func (r *FormRepo) queryForms(ctx context.Context, op, query string, args ...any) ([]model.Form, error) {
	return WithTableCheck(ctx, r.store, formsTable, func(ctx context.Context) ([]model.Form, error) {
		rows, err := r.store.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, storeErr(op, formsTable, err)
		}
		defer rows.Close()

		forms := []model.Form{}
		for rows.Next() {
			f, err := scanForm(rows)
			if err != nil {
				return nil, storeErr(op, formsTable, err)
			}
			forms = append(forms, f)
		}
		if err := rows.Err(); err != nil {
			return nil, storeErr(op, formsTable, err)
		}
		return forms, nil
	})
}

func (r *FormRepo) GetAll(ctx context.Context) ([]model.Form, error) {
	return r.queryForms(ctx, "getAll",
		`SELECT `+formColumns+` FROM forms WHERE is_deleted != 1`)
}

func (r *FormRepo) GetByID(ctx context.Context, id string) (*model.Form, error) {
	forms, err := r.queryForms(ctx, "getById",
		`SELECT `+formColumns+` FROM forms WHERE id = ? AND is_deleted != 1`, id)
	if err != nil {
		return nil, err
	}
	if len(forms) == 0 {
		return nil, nil
	}
	return &forms[0], nil
}

func (r *FormRepo) GetUnsynced(ctx context.Context) ([]model.Form, error) {
	return r.queryForms(ctx, "getUnsynced",
		`SELECT `+formColumns+` FROM forms WHERE sync = 0`)
}

func (r *FormRepo) Save(ctx context.Context, f *model.Form) error {
	f.Sync = false
	f.IsDeleted = false
	return r.upsert(ctx, "save", f)
}

func (r *FormRepo) Import(ctx context.Context, f *model.Form) error {
	return r.upsert(ctx, "import", f)
}

func (r *FormRepo) upsert(ctx context.Context, op string, f *model.Form) error {
	return execChecked(ctx, r.store, formsTable, func(ctx context.Context) error {
		_, err := r.store.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO forms (`+formColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			f.ID, f.Title, f.Sync, f.IsDeleted, f.CreatedAt, f.UpdatedAt)
		if err != nil {
			return storeErr(op, formsTable, err)
		}
		return nil
	})
}

func (r *FormRepo) SoftDelete(ctx context.Context, id string) error {
	return execChecked(ctx, r.store, formsTable, func(ctx context.Context) error {
		_, err := r.store.db.ExecContext(ctx,
			`UPDATE forms SET is_deleted = 1, sync = 0 WHERE id = ?`, id)
		if err != nil {
			return storeErr("softDelete", formsTable, err)
		}
		return nil
	})
}

// PendingFormIDs returns the ids of forms with any unsynced row: a dirty
// form row or a dirty question owned by the form.
func (r *FormRepo) PendingFormIDs(ctx context.Context) ([]string, error) {
	return WithTableCheck(ctx, r.store, formsTable, func(ctx context.Context) ([]string, error) {
		rows, err := r.store.db.QueryContext(ctx, `
			SELECT id FROM forms WHERE sync = 0
			UNION
			SELECT form_id FROM form_questions WHERE sync = 0`)
		if err != nil {
			return nil, storeErr("pendingForms", formsTable, err)
		}
		defer rows.Close()

		var ids []string
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return nil, storeErr("pendingForms", formsTable, err)
			}
			ids = append(ids, id)
		}
		if err := rows.Err(); err != nil {
			return nil, storeErr("pendingForms", formsTable, err)
		}
		return ids, nil
	})
}

func (r *FormRepo) MarkSynced(ctx context.Context, id string) error {
	return execChecked(ctx, r.store, formsTable, func(ctx context.Context) error {
		_, err := r.store.db.ExecContext(ctx,
			`UPDATE forms SET sync = 1 WHERE id = ?`, id)
		if err != nil {
			return storeErr("markSynced", formsTable, err)
		}
		return nil
	})
}
