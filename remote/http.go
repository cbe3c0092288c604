// Copyright 2025 Salonbook Authors
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPStore talks to a document server over plain JSON/HTTP: documents are
// PUT to {base}/{path}/{id} and collections are GET {base}/{path}. A token
// source supplies the bearer token per request so expiry is the caller's
// concern, not the store's.
type HTTPStore struct {
	BaseURL string
	Token   func(context.Context) (string, error)
	HTTP    *http.Client
}

// NewHTTPStore creates an HTTP-backed document store. token may be nil for
// unauthenticated servers.
func NewHTTPStore(baseURL string, token func(context.Context) (string, error)) *HTTPStore {
	return &HTTPStore{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *HTTPStore) authorize(ctx context.Context, req *http.Request) error {
	if s.Token == nil {
		return nil
	}
	token, err := s.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to get token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// Put implements DocStore.
func (s *HTTPStore) Put(ctx context.Context, path, id string, doc Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return &WriteError{Path: path, ID: id, Err: fmt.Errorf("failed to marshal document: %w", err)}
	}

	url := fmt.Sprintf("%s/%s/%s", s.BaseURL, path, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return &WriteError{Path: path, ID: id, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if err := s.authorize(ctx, req); err != nil {
		return &WriteError{Path: path, ID: id, Err: err}
	}

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return &WriteError{Path: path, ID: id, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return &WriteError{Path: path, ID: id,
			Err: fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(respBody))}
	}
	return nil
}

// List implements DocStore.
func (s *HTTPStore) List(ctx context.Context, path string) ([]Document, error) {
	url := fmt.Sprintf("%s/%s", s.BaseURL, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if err := s.authorize(ctx, req); err != nil {
		return nil, err
	}

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var docs []Document
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s listing: %w", path, err)
	}
	return docs, nil
}
