// Copyright 2025 Salonbook Authors
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSurrealTargetFlatCollections(t *testing.T) {
	for path, table := range map[string]string{
		"patients": "patients",
		"forms":    "forms",
		"services": "services",
		"products": "products",
	} {
		gotTable, ownerField, ownerID, err := surrealTarget(path)
		require.NoError(t, err)
		require.Equal(t, table, gotTable)
		require.Empty(t, ownerField)
		require.Empty(t, ownerID)
	}
}

func TestSurrealTargetOwnedCollections(t *testing.T) {
	table, ownerField, ownerID, err := surrealTarget(VisitsPath("p1"))
	require.NoError(t, err)
	require.Equal(t, "visits", table)
	require.Equal(t, "patient_id", ownerField)
	require.Equal(t, "p1", ownerID)

	table, ownerField, ownerID, err = surrealTarget(QuestionsPath("f1"))
	require.NoError(t, err)
	require.Equal(t, "form_questions", table)
	require.Equal(t, "form_id", ownerField)
	require.Equal(t, "f1", ownerID)

	table, ownerField, _, err = surrealTarget(FormAnswersPath("p1"))
	require.NoError(t, err)
	require.Equal(t, "form_answers", table)
	require.Equal(t, "patient_id", ownerField)
}

func TestSurrealTargetRejectsUnknownPaths(t *testing.T) {
	_, _, _, err := surrealTarget("patients/p1")
	require.Error(t, err)

	_, _, _, err = surrealTarget("invoices")
	require.Error(t, err)
}

func TestSurrealThingBracketsUUIDs(t *testing.T) {
	got := thing("patients", "9b2e1c4a-0000-4000-8000-000000000000")
	require.Equal(t, "patients:⟨9b2e1c4a-0000-4000-8000-000000000000⟩", got)
}
