// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides operator keys, record IDs, and IP hashing.

# Operator Keys

Operator keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateOperatorKey(auth.RoleAdmin, salt)
	err := auth.ValidateOperatorKey(auth.RoleAdmin, key, salt)

The key is URL-safe base64 encoded without padding. Since it's
deterministic, the same role and salt always produce the same key. This
allows validation without storing keys in the database.

Two roles exist: RoleAdmin for read-only operator views, RoleSuperAdmin
for the destructive operations (override, reset).

# ID Generation

Every record in the store is keyed by a uuid:

	id := auth.NewID()

# IP Hashing

For privacy-preserving vote auditing:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256. The raw IP is never
stored.
*/
package auth
