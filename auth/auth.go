// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Operator roles
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

var ErrInvalidOperatorKey = errors.New("invalid operator key")

// NewID returns a fresh record identifier. Every record in the store is
// keyed by a uuid.
func NewID() string {
	return uuid.NewString()
}

// GenerateOperatorKey creates an HMAC-based key for an operator role.
// This is deterministic and verifiable, so no key needs to be stored.
func GenerateOperatorKey(role, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(role))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateOperatorKey checks if the provided key is valid for the role
func ValidateOperatorKey(role, key, salt string) error {
	expected := GenerateOperatorKey(role, salt)
	if !hmac.Equal([]byte(key), []byte(expected)) {
		return ErrInvalidOperatorKey
	}
	return nil
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}
