// Copyright 2025 Salonbook Authors
// SPDX-License-Identifier: Apache-2.0

package localdb

import (
	"context"
	"database/sql"

	"github.com/salonbook/salonbook/model"
)

const formAnswersTable = "form_answers"

const formAnswerColumns = `id, patient_id, form_id, question_id, answer, sync, is_deleted, created_at, updated_at`

// FormAnswerRepo persists a patient's answers to form questions.
type FormAnswerRepo struct {
	store *Store
}

func NewFormAnswerRepo(store *Store) *FormAnswerRepo {
	return &FormAnswerRepo{store: store}
}

func scanFormAnswer(rows *sql.Rows) (model.FormAnswer, error) {
	var a model.FormAnswer
	err := rows.Scan(&a.ID, &a.PatientID, &a.FormID, &a.QuestionID, &a.Answer,
		&a.Sync, &a.IsDeleted, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *FormAnswerRepo) query(ctx context.Context, op, query string, args ...any) ([]model.FormAnswer, error) {
	return WithTableCheck(ctx, r.store, formAnswersTable, func(ctx context.Context) ([]model.FormAnswer, error) {
		rows, err := r.store.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, storeErr(op, formAnswersTable, err)
		}
		defer rows.Close()

		answers := []model.FormAnswer{}
		for rows.Next() {
			a, err := scanFormAnswer(rows)
			if err != nil {
				return nil, storeErr(op, formAnswersTable, err)
			}
			answers = append(answers, a)
		}
		if err := rows.Err(); err != nil {
			return nil, storeErr(op, formAnswersTable, err)
		}
		return answers, nil
	})
}

func (r *FormAnswerRepo) GetByPatientID(ctx context.Context, patientID string) ([]model.FormAnswer, error) {
	return r.query(ctx, "getByPatientId",
		`SELECT `+formAnswerColumns+` FROM form_answers WHERE patient_id = ? AND is_deleted != 1`, patientID)
}

func (r *FormAnswerRepo) GetByID(ctx context.Context, id string) (*model.FormAnswer, error) {
	answers, err := r.query(ctx, "getById",
		`SELECT `+formAnswerColumns+` FROM form_answers WHERE id = ? AND is_deleted != 1`, id)
	if err != nil {
		return nil, err
	}
	if len(answers) == 0 {
		return nil, nil
	}
	return &answers[0], nil
}

// GetUnsynced returns the patient's dirty answers, tombstones included.
func (r *FormAnswerRepo) GetUnsynced(ctx context.Context, patientID string) ([]model.FormAnswer, error) {
	return r.query(ctx, "getUnsynced",
		`SELECT `+formAnswerColumns+` FROM form_answers WHERE sync = 0 AND patient_id = ?`, patientID)
}

func (r *FormAnswerRepo) Save(ctx context.Context, a *model.FormAnswer) error {
	a.Sync = false
	a.IsDeleted = false
	return r.upsert(ctx, "save", a)
}

func (r *FormAnswerRepo) Import(ctx context.Context, a *model.FormAnswer) error {
	return r.upsert(ctx, "import", a)
}

func (r *FormAnswerRepo) upsert(ctx context.Context, op string, a *model.FormAnswer) error {
	return execChecked(ctx, r.store, formAnswersTable, func(ctx context.Context) error {
		_, err := r.store.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO form_answers (`+formAnswerColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.PatientID, a.FormID, a.QuestionID, a.Answer,
			a.Sync, a.IsDeleted, a.CreatedAt, a.UpdatedAt)
		if err != nil {
			return storeErr(op, formAnswersTable, err)
		}
		return nil
	})
}

func (r *FormAnswerRepo) SoftDelete(ctx context.Context, id string) error {
	return execChecked(ctx, r.store, formAnswersTable, func(ctx context.Context) error {
		_, err := r.store.db.ExecContext(ctx,
			`UPDATE form_answers SET is_deleted = 1, sync = 0 WHERE id = ?`, id)
		if err != nil {
			return storeErr("softDelete", formAnswersTable, err)
		}
		return nil
	})
}

func (r *FormAnswerRepo) MarkSynced(ctx context.Context, id string) error {
	return execChecked(ctx, r.store, formAnswersTable, func(ctx context.Context) error {
		_, err := r.store.db.ExecContext(ctx,
			`UPDATE form_answers SET sync = 1 WHERE id = ?`, id)
		if err != nil {
			return storeErr("markSynced", formAnswersTable, err)
		}
		return nil
	})
}
