// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
)

var (
	ErrAdminDisabled     = errors.New("admin token not configured")
	ErrInvalidAdminToken = errors.New("invalid admin token")
)

// ValidateAdminToken checks the provided admin token against the configured
// one in constant time. An empty configured token disables admin access.
func ValidateAdminToken(provided, expected string) error {
	if expected == "" {
		return ErrAdminDisabled
	}
	if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
		return ErrInvalidAdminToken
	}
	return nil
}

// Fingerprint creates a short one-way hash of a value for logs, so
// nullifiers can be correlated across log lines without being recorded.
// Includes salt to prevent dictionary attacks
func Fingerprint(value, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(value))
	sum := h.Sum(nil)
	// First 8 bytes (16 hex chars) is enough to correlate
	return hex.EncodeToString(sum[:8])
}
