// Copyright 2025 Salonbook Authors
// SPDX-License-Identifier: Apache-2.0

package localdb

import (
	"database/sql"
	"errors"
	"fmt"
)

// SchemaError reports that the local schema is missing and could not be
// recovered by one re-initialization attempt. It is fatal to the calling
// operation and is not retried automatically.
type SchemaError struct {
	Table string
	Err   error
}

func (e *SchemaError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("schema: table %q not found after init", e.Table)
	}
	return fmt.Sprintf("schema: table %q: %v", e.Table, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// StoreError reports an underlying local read/write failure. It is surfaced
// to the caller with the store error attached; there is no automatic retry.
type StoreError struct {
	Op    string
	Table string
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op, table string, err error) error {
	return &StoreError{Op: op, Table: table, Err: err}
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
