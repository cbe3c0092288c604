// Copyright 2025 Salonbook Authors
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// HS256TokenSource returns a token function minting short-lived HS256
// bearer tokens for the given subject. Suitable for document servers that
// share a symmetric secret with the device.
func HS256TokenSource(secret, subject string, ttl time.Duration) func(context.Context) (string, error) {
	return func(context.Context) (string, error) {
		now := time.Now()
		claims := jwt.MapClaims{
			"sub": subject,
			"iat": now.Unix(),
			"exp": now.Add(ttl).Unix(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		if err != nil {
			return "", fmt.Errorf("failed to sign token: %w", err)
		}
		return token, nil
	}
}
