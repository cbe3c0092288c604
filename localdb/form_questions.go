// Copyright 2025 Salonbook Authors
// SPDX-License-Identifier: Apache-2.0

package localdb

import (
	"context"
	"database/sql"

	"github.com/salonbook/salonbook/model"
)

const formQuestionsTable = "form_questions"

const formQuestionColumns = `id, form_id, question, sync, is_deleted, created_at, updated_at`

// FormQuestionRepo persists the questions belonging to a form.
type FormQuestionRepo struct {
	store *Store
}

func NewFormQuestionRepo(store *Store) *FormQuestionRepo {
	return &FormQuestionRepo{store: store}
}

func scanFormQuestion(rows *sql.Rows) (model.FormQuestion, error) {
	var q model.FormQuestion
	err := rows.Scan(&q.ID, &q.FormID, &q.Question, &q.Sync, &q.IsDeleted,
		&q.CreatedAt, &q.UpdatedAt)
	return q, err
}

func (r *FormQuestionRepo) query(ctx context.Context, op, query string, args ...any) ([]model.FormQuestion, error) {
	return WithTableCheck(ctx, r.store, formQuestionsTable, func(ctx context.Context) ([]model.FormQuestion, error) {
		rows, err := r.store.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, storeErr(op, formQuestionsTable, err)
		}
		defer rows.Close()

		questions := []model.FormQuestion{}
		for rows.Next() {
			q, err := scanFormQuestion(rows)
			if err != nil {
				return nil, storeErr(op, formQuestionsTable, err)
			}
			questions = append(questions, q)
		}
		if err := rows.Err(); err != nil {
			return nil, storeErr(op, formQuestionsTable, err)
		}
		return questions, nil
	})
}

func (r *FormQuestionRepo) GetAll(ctx context.Context) ([]model.FormQuestion, error) {
	return r.query(ctx, "getAll",
		`SELECT `+formQuestionColumns+` FROM form_questions WHERE is_deleted != 1`)
}

func (r *FormQuestionRepo) GetByFormID(ctx context.Context, formID string) ([]model.FormQuestion, error) {
	return r.query(ctx, "getByFormId",
		`SELECT `+formQuestionColumns+` FROM form_questions WHERE form_id = ? AND is_deleted != 1`, formID)
}

func (r *FormQuestionRepo) GetByID(ctx context.Context, id string) (*model.FormQuestion, error) {
	questions, err := r.query(ctx, "getById",
		`SELECT `+formQuestionColumns+` FROM form_questions WHERE id = ? AND is_deleted != 1`, id)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, nil
	}
	return &questions[0], nil
}

// GetUnsynced returns the form's dirty questions, tombstones included.
func (r *FormQuestionRepo) GetUnsynced(ctx context.Context, formID string) ([]model.FormQuestion, error) {
	return r.query(ctx, "getUnsynced",
		`SELECT `+formQuestionColumns+` FROM form_questions WHERE sync = 0 AND form_id = ?`, formID)
}

func (r *FormQuestionRepo) Save(ctx context.Context, q *model.FormQuestion) error {
	q.Sync = false
	q.IsDeleted = false
	return r.upsert(ctx, "save", q)
}

func (r *FormQuestionRepo) Import(ctx context.Context, q *model.FormQuestion) error {
	return r.upsert(ctx, "import", q)
}

func (r *FormQuestionRepo) upsert(ctx context.Context, op string, q *model.FormQuestion) error {
	return execChecked(ctx, r.store, formQuestionsTable, func(ctx context.Context) error {
		_, err := r.store.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO form_questions (`+formQuestionColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			q.ID, q.FormID, q.Question, q.Sync, q.IsDeleted, q.CreatedAt, q.UpdatedAt)
		if err != nil {
			return storeErr(op, formQuestionsTable, err)
		}
		return nil
	})
}

func (r *FormQuestionRepo) SoftDelete(ctx context.Context, id string) error {
	return execChecked(ctx, r.store, formQuestionsTable, func(ctx context.Context) error {
		_, err := r.store.db.ExecContext(ctx,
			`UPDATE form_questions SET is_deleted = 1, sync = 0 WHERE id = ?`, id)
		if err != nil {
			return storeErr("softDelete", formQuestionsTable, err)
		}
		return nil
	})
}

func (r *FormQuestionRepo) MarkSynced(ctx context.Context, id string) error {
	return execChecked(ctx, r.store, formQuestionsTable, func(ctx context.Context) error {
		_, err := r.store.db.ExecContext(ctx,
			`UPDATE form_questions SET sync = 1 WHERE id = ?`, id)
		if err != nil {
			return storeErr("markSynced", formQuestionsTable, err)
		}
		return nil
	})
}
