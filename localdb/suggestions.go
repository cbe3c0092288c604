// Copyright 2025 Salonbook Authors
// SPDX-License-Identifier: Apache-2.0

package localdb

import (
	"context"
	"strings"

	"github.com/salonbook/salonbook/model"
)

const suggestionsTable = "suggestions"

// Suggestion kinds.
const (
	SuggestionProcedures   = "procedures"
	SuggestionProducts     = "products"
	SuggestionSoldProducts = "sold_products"
)

// SuggestionRepo keeps usage-counted autocomplete entries. Suggestions are
// local convenience state only; they carry no sync flag and never leave
// the device.
type SuggestionRepo struct {
	store *Store
}

func NewSuggestionRepo(store *Store) *SuggestionRepo {
	return &SuggestionRepo{store: store}
}

// Add records a use of the suggestion text. A new (kind, text) pair is
// inserted with a count of one; re-adding bumps the count. Matching is
// case-insensitive, storing the first spelling seen.
func (r *SuggestionRepo) Add(ctx context.Context, kind, text string) error {
	return execChecked(ctx, r.store, suggestionsTable, func(ctx context.Context) error {
		lowered := strings.ToLower(text)
		var existingID string
		err := r.store.db.QueryRowContext(ctx,
			`SELECT id FROM suggestions WHERE kind = ? AND lower(text) = ?`,
			kind, lowered).Scan(&existingID)
		switch {
		case err == nil:
			_, err = r.store.db.ExecContext(ctx,
				`UPDATE suggestions SET usage_count = usage_count + 1 WHERE id = ?`, existingID)
		case isNoRows(err):
			_, err = r.store.db.ExecContext(ctx,
				`INSERT INTO suggestions (id, kind, text, usage_count) VALUES (?, ?, ?, 1)`,
				model.NewID(), kind, text)
		}
		if err != nil {
			return storeErr("add", suggestionsTable, err)
		}
		return nil
	})
}

// GetByKind returns the kind's suggestions, most used first.
func (r *SuggestionRepo) GetByKind(ctx context.Context, kind string) ([]model.Suggestion, error) {
	return WithTableCheck(ctx, r.store, suggestionsTable, func(ctx context.Context) ([]model.Suggestion, error) {
		rows, err := r.store.db.QueryContext(ctx,
			`SELECT id, kind, text, usage_count FROM suggestions
			 WHERE kind = ? ORDER BY usage_count DESC, text`, kind)
		if err != nil {
			return nil, storeErr("getByKind", suggestionsTable, err)
		}
		defer rows.Close()

		suggestions := []model.Suggestion{}
		for rows.Next() {
			var s model.Suggestion
			if err := rows.Scan(&s.ID, &s.Kind, &s.Text, &s.UsageCount); err != nil {
				return nil, storeErr("getByKind", suggestionsTable, err)
			}
			suggestions = append(suggestions, s)
		}
		if err := rows.Err(); err != nil {
			return nil, storeErr("getByKind", suggestionsTable, err)
		}
		return suggestions, nil
	})
}
