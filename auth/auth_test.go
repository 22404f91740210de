// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateAdminToken(t *testing.T) {
	tests := []struct {
		name     string
		provided string
		expected string
		wantErr  error
	}{
		{"valid token", "s3cret", "s3cret", nil},
		{"wrong token", "guess", "s3cret", ErrInvalidAdminToken},
		{"prefix of token", "s3c", "s3cret", ErrInvalidAdminToken},
		{"empty provided", "", "s3cret", ErrInvalidAdminToken},
		{"admin disabled", "anything", "", ErrAdminDisabled},
		{"both empty", "", "", ErrAdminDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAdminToken(tt.provided, tt.expected)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateAdminToken() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	tests := []struct {
		name  string
		value string
		salt  string
	}{
		{"nullifier", "0x2bf8406809dcefb1486dadc96c0a897db9bab002053054cf64272db512c6fbd8", "salt1"},
		{"short value", "0x1", "salt1"},
		{"empty value", "", "salt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp := Fingerprint(tt.value, tt.salt)

			// Should be 16 hex chars (8 bytes)
			if len(fp) != 16 {
				t.Errorf("Fingerprint() length = %d, want 16", len(fp))
			}

			// Should be deterministic
			if fp != Fingerprint(tt.value, tt.salt) {
				t.Error("Fingerprint() is not deterministic")
			}

			// Should not contain the value
			if tt.value != "" && strings.Contains(fp, strings.TrimPrefix(tt.value, "0x")) {
				t.Error("Fingerprint() leaks the raw value")
			}

			// Different salt should produce different fingerprint
			if fp == Fingerprint(tt.value, tt.salt+"x") {
				t.Error("Fingerprint() produced same hash for different salts")
			}
		})
	}
}
