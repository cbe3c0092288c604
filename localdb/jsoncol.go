// Copyright 2025 Salonbook Authors
// SPDX-License-Identifier: Apache-2.0

package localdb

import (
	"context"
	"encoding/json"
	"fmt"
)

// List columns round-trip exactly through these two helpers. The contract:
// an empty (or nil) list serializes to "[]", never to null, and a missing
// or empty stored value deserializes to an empty non-nil slice.

func marshalList[T any](list []T) (string, error) {
	if list == nil {
		list = []T{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("failed to serialize list column: %w", err)
	}
	return string(b), nil
}

func unmarshalList[T any](raw string) ([]T, error) {
	if raw == "" || raw == "null" {
		return []T{}, nil
	}
	var list []T
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("failed to deserialize list column: %w", err)
	}
	if list == nil {
		list = []T{}
	}
	return list, nil
}

// execChecked runs a write operation under the schema guard.
func execChecked(ctx context.Context, s *Store, table string, op func(ctx context.Context) error) error {
	_, err := WithTableCheck(ctx, s, table, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}
