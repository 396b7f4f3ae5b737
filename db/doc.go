// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation and store error classification.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The SQL sticks to the subset both Postgres and SQLite accept, since the
server runs against either backend.

# Tables

The schema includes:

  - voter: Registry entries with demographics and the has_voted flag
  - position: Contests on the ballot
  - candidate: Choices within a position
  - vote: One committed vote per (voter, position)

# Relationships

	position 1──* candidate
	voter    1──* vote
	position 1──* vote
	candidate 1──* vote

All foreign keys use ON DELETE CASCADE.

# The Duplicate-Vote Constraint

vote carries UNIQUE (voter_id, position_id). This constraint, not
application-level locking, is what guarantees at most one vote per voter
per position under concurrent commits. IsUniqueViolation classifies the
resulting errors across both backends:

	if db.IsUniqueViolation(err) {
		// a vote for this position already exists
	}

# Indexes

Performance indexes on:

  - voter LOWER(name) for case-insensitive login
  - voter.has_voted for turnout counts
  - position.title for display ordering
  - candidate.position_id
  - vote.position_id, vote.candidate_id, vote.voter_id
*/
package db
