// Copyright 2025 Salonbook Authors
// SPDX-License-Identifier: Apache-2.0

package localdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/salonbook/salonbook/model"
)

func TestServiceRepoRoundTrip(t *testing.T) {
	store := newTestStore(t)
	repo := NewServiceRepo(store)
	ctx := context.Background()

	s := &model.Service{
		ID:        model.NewID(),
		Name:      "Deep cleanse",
		Duration:  45,
		Price:     60,
		SalePrice: 50,
		CreatedAt: model.Now(),
		UpdatedAt: model.Now(),
	}
	require.NoError(t, repo.Save(ctx, s))

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, 45, got.Duration)
	require.Equal(t, 60.0, got.Price)
	require.False(t, got.Sync)

	require.NoError(t, repo.MarkSynced(ctx, s.ID))
	unsynced, err := repo.GetUnsynced(ctx)
	require.NoError(t, err)
	require.Empty(t, unsynced)
}

func TestProductRepoSoftDelete(t *testing.T) {
	store := newTestStore(t)
	repo := NewProductRepo(store)
	ctx := context.Background()

	p := &model.Product{ID: model.NewID(), Name: "Serum", Price: 25,
		CreatedAt: model.Now(), UpdatedAt: model.Now()}
	require.NoError(t, repo.Save(ctx, p))
	require.NoError(t, repo.MarkSynced(ctx, p.ID))
	require.NoError(t, repo.SoftDelete(ctx, p.ID))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all)

	unsynced, err := repo.GetUnsynced(ctx)
	require.NoError(t, err)
	require.Len(t, unsynced, 1)
	require.True(t, unsynced[0].IsDeleted)
}

func TestFormAndQuestionRepos(t *testing.T) {
	store := newTestStore(t)
	forms := NewFormRepo(store)
	questions := NewFormQuestionRepo(store)
	ctx := context.Background()

	f := &model.Form{ID: model.NewID(), Title: "Intake",
		CreatedAt: model.Now(), UpdatedAt: model.Now()}
	require.NoError(t, forms.Save(ctx, f))

	q := &model.FormQuestion{ID: model.NewID(), FormID: f.ID,
		Question: "Any allergies?", CreatedAt: model.Now(), UpdatedAt: model.Now()}
	require.NoError(t, questions.Save(ctx, q))

	byForm, err := questions.GetByFormID(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, byForm, 1)
	require.Equal(t, "Any allergies?", byForm[0].Question)

	unsynced, err := questions.GetUnsynced(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, unsynced, 1)
}

func TestPendingFormIDsIncludesDirtyQuestions(t *testing.T) {
	store := newTestStore(t)
	forms := NewFormRepo(store)
	questions := NewFormQuestionRepo(store)
	ctx := context.Background()

	f := &model.Form{ID: model.NewID(), Title: "Intake",
		CreatedAt: model.Now(), UpdatedAt: model.Now()}
	require.NoError(t, forms.Save(ctx, f))
	require.NoError(t, forms.MarkSynced(ctx, f.ID))

	q := &model.FormQuestion{ID: model.NewID(), FormID: f.ID,
		Question: "Any allergies?", CreatedAt: model.Now(), UpdatedAt: model.Now()}
	require.NoError(t, questions.Save(ctx, q))

	ids, err := forms.PendingFormIDs(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{f.ID}, ids)
}

func TestFormAnswerRepoOwnerScope(t *testing.T) {
	store := newTestStore(t)
	answers := NewFormAnswerRepo(store)
	ctx := context.Background()

	a := &model.FormAnswer{ID: model.NewID(), PatientID: "patient-1",
		FormID: "form-1", QuestionID: "q-1", Answer: "none",
		CreatedAt: model.Now(), UpdatedAt: model.Now()}
	b := &model.FormAnswer{ID: model.NewID(), PatientID: "patient-2",
		FormID: "form-1", QuestionID: "q-1", Answer: "latex",
		CreatedAt: model.Now(), UpdatedAt: model.Now()}
	require.NoError(t, answers.Save(ctx, a))
	require.NoError(t, answers.Save(ctx, b))

	mine, err := answers.GetUnsynced(ctx, "patient-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "none", mine[0].Answer)

	byPatient, err := answers.GetByPatientID(ctx, "patient-2")
	require.NoError(t, err)
	require.Len(t, byPatient, 1)
}
