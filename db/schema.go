// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Voters (registered out of band; the server only flips has_voted)
CREATE TABLE IF NOT EXISTS voter (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    university TEXT,
    qualification TEXT,
    sex TEXT,
    nationality TEXT,
    completion_year TEXT,
    internship_center TEXT,
    has_voted BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_voter_name_lower ON voter(LOWER(name));
CREATE INDEX IF NOT EXISTS idx_voter_has_voted ON voter(has_voted);

-- Positions (contests); immutable while the election is running
CREATE TABLE IF NOT EXISTS position (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_position_title ON position(title);

-- Candidates
CREATE TABLE IF NOT EXISTS candidate (
    id TEXT PRIMARY KEY,
    position_id TEXT NOT NULL REFERENCES position(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    description TEXT,
    picture_url TEXT
);

CREATE INDEX IF NOT EXISTS idx_candidate_position_id ON candidate(position_id);

-- Votes: the UNIQUE (voter_id, position_id) constraint is the arbiter
-- for concurrent commit attempts; the server never relies on
-- check-then-insert alone.
CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    voter_id TEXT NOT NULL REFERENCES voter(id) ON DELETE CASCADE,
    position_id TEXT NOT NULL REFERENCES position(id) ON DELETE CASCADE,
    candidate_id TEXT NOT NULL REFERENCES candidate(id) ON DELETE CASCADE,
    cast_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    ip_hash TEXT,
    user_agent TEXT,
    UNIQUE (voter_id, position_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_position_id ON vote(position_id);
CREATE INDEX IF NOT EXISTS idx_vote_candidate_id ON vote(candidate_id);
CREATE INDEX IF NOT EXISTS idx_vote_voter_id ON vote(voter_id);
`
