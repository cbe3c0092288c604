// Copyright 2025 Salonbook Authors
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"context"
	"fmt"
	"strings"

	surrealdb "github.com/surrealdb/surrealdb.go"
)

// SurrealStore backs the DocStore interface with a SurrealDB instance.
// Collection paths map onto flat tables: the path's leaf names the table
// ("questions" lives in form_questions) and the owner segment, when
// present, is matched against the document's owner field, which every
// owned record carries anyway.
type SurrealStore struct {
	db *surrealdb.DB
}

// SurrealConfig holds connection settings for a SurrealDB endpoint.
type SurrealConfig struct {
	URL       string // e.g. "ws://localhost:8000/rpc"
	Namespace string
	Database  string
	User      string
	Pass      string
}

// NewSurrealStore connects, signs in when credentials are given, and
// selects the namespace/database.
func NewSurrealStore(cfg SurrealConfig) (*SurrealStore, error) {
	db, err := surrealdb.New(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to surrealdb: %w", err)
	}
	if cfg.User != "" {
		if _, err := db.Signin(map[string]any{"user": cfg.User, "pass": cfg.Pass}); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to sign in: %w", err)
		}
	}
	if _, err := db.Use(cfg.Namespace, cfg.Database); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to select %s/%s: %w", cfg.Namespace, cfg.Database, err)
	}
	return &SurrealStore{db: db}, nil
}

// Close releases the underlying connection.
func (s *SurrealStore) Close() {
	s.db.Close()
}

// leaf collection name -> table name.
var surrealTables = map[string]string{
	"patients":     "patients",
	"visits":       "visits",
	"form_answers": "form_answers",
	"forms":        "forms",
	"questions":    "form_questions",
	"services":     "services",
	"products":     "products",
}

// surrealTarget resolves a collection path to its table and, for owned
// collections, the owner field/id pair used to filter listings.
func surrealTarget(path string) (table, ownerField, ownerID string, err error) {
	segments := strings.Split(path, "/")
	var leaf string
	switch len(segments) {
	case 1:
		leaf = segments[0]
	case 3:
		parent := strings.TrimSuffix(segments[0], "s") // patients -> patient
		ownerField = parent + "_id"
		ownerID = segments[1]
		leaf = segments[2]
	default:
		return "", "", "", fmt.Errorf("unsupported collection path %q", path)
	}
	table, ok := surrealTables[leaf]
	if !ok {
		return "", "", "", fmt.Errorf("unknown collection %q", leaf)
	}
	return table, ownerField, ownerID, nil
}

// thing builds the record id. Ids are UUIDs, so they are bracketed to keep
// SurrealDB from parsing the hyphens.
func thing(table, id string) string {
	return fmt.Sprintf("%s:⟨%s⟩", table, id)
}

// Put implements DocStore. The driver predates context plumbing, so ctx is
// only honored between calls, not during one.
func (s *SurrealStore) Put(ctx context.Context, path, id string, doc Document) error {
	if err := ctx.Err(); err != nil {
		return &WriteError{Path: path, ID: id, Err: err}
	}
	table, _, _, err := surrealTarget(path)
	if err != nil {
		return &WriteError{Path: path, ID: id, Err: err}
	}
	if _, err := s.db.Update(thing(table, id), doc); err != nil {
		return &WriteError{Path: path, ID: id, Err: err}
	}
	return nil
}

// List implements DocStore. Owned collections are filtered client-side on
// the owner field; collections are small (a single practice's records).
func (s *SurrealStore) List(ctx context.Context, path string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	table, ownerField, ownerID, err := surrealTarget(path)
	if err != nil {
		return nil, err
	}
	res, err := s.db.Select(table)
	if err != nil {
		return nil, fmt.Errorf("failed to select %s: %w", table, err)
	}

	items, ok := res.([]any)
	if !ok {
		if single, ok := res.(map[string]any); ok {
			items = []any{single}
		} else if res == nil {
			return []Document{}, nil
		} else {
			return nil, fmt.Errorf("unexpected response shape for %s: %T", table, res)
		}
	}

	docs := []Document{}
	for _, item := range items {
		doc, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if ownerField != "" {
			if owner, _ := doc[ownerField].(string); owner != ownerID {
				continue
			}
		}
		docs = append(docs, Document(doc))
	}
	return docs, nil
}
