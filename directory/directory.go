// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/danielhkuo/ballotbox/models"
)

var (
	ErrEmptyName     = errors.New("voter name is empty")
	ErrNotFound      = errors.New("voter not found")
	ErrAmbiguousName = errors.New("voter name matches more than one record")
)

// Directory resolves voter identity and owns the has_voted flag.
type Directory struct {
	db *sql.DB
}

func New(db *sql.DB) *Directory {
	return &Directory{db: db}
}

const voterColumns = `id, name, university, qualification, sex, nationality,
       completion_year, internship_center, has_voted, created_at`

func scanVoter(row interface{ Scan(...interface{}) error }) (models.Voter, error) {
	var v models.Voter
	err := row.Scan(
		&v.ID, &v.Name, &v.University, &v.Qualification, &v.Sex,
		&v.Nationality, &v.CompletionYear, &v.InternshipCenter,
		&v.HasVoted, &v.CreatedAt,
	)
	return v, err
}

// Resolve finds the single voter whose name matches exactly,
// case-insensitively. Login requires a unique match: a name that matches
// two registered voters is rejected rather than guessed at.
func (d *Directory) Resolve(ctx context.Context, name string) (models.Voter, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Voter{}, ErrEmptyName
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT `+voterColumns+`
		FROM voter
		WHERE LOWER(name) = LOWER($1)
		LIMIT 2
	`, name)
	if err != nil {
		return models.Voter{}, fmt.Errorf("failed to query voter: %w", err)
	}
	defer rows.Close()

	var matches []models.Voter
	for rows.Next() {
		v, err := scanVoter(rows)
		if err != nil {
			return models.Voter{}, fmt.Errorf("failed to scan voter: %w", err)
		}
		matches = append(matches, v)
	}
	if err := rows.Err(); err != nil {
		return models.Voter{}, fmt.Errorf("failed to read voters: %w", err)
	}

	switch len(matches) {
	case 0:
		return models.Voter{}, ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return models.Voter{}, ErrAmbiguousName
	}
}

// Get returns a voter by id.
func (d *Directory) Get(ctx context.Context, voterID string) (models.Voter, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT `+voterColumns+`
		FROM voter
		WHERE id = $1
	`, voterID)

	v, err := scanVoter(row)
	if err == sql.ErrNoRows {
		return models.Voter{}, ErrNotFound
	}
	if err != nil {
		return models.Voter{}, fmt.Errorf("failed to query voter: %w", err)
	}
	return v, nil
}

// MarkVoted conditionally flips has_voted. It returns first=true when this
// call made the change, first=false when the flag was already set. Already
// set is a no-op, not an error; the committer needs the distinction for
// its accounting.
func (d *Directory) MarkVoted(ctx context.Context, voterID string) (first bool, err error) {
	res, err := d.db.ExecContext(ctx, `
		UPDATE voter SET has_voted = TRUE
		WHERE id = $1 AND has_voted = FALSE
	`, voterID)
	if err != nil {
		return false, fmt.Errorf("failed to mark voter: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected > 0 {
		return true, nil
	}

	// Nothing changed: either the flag was already set or the voter
	// doesn't exist.
	var exists bool
	err = d.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM voter WHERE id = $1)
	`, voterID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check voter: %w", err)
	}
	if !exists {
		return false, ErrNotFound
	}
	return false, nil
}

// Lookup is the operator search: substring match on name, case-insensitive.
// Unlike Resolve, multiple matches are expected and returned in name order.
func (d *Directory) Lookup(ctx context.Context, pattern string) ([]models.Voter, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, ErrEmptyName
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT `+voterColumns+`
		FROM voter
		WHERE LOWER(name) LIKE LOWER('%' || $1 || '%')
		ORDER BY name
	`, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search voters: %w", err)
	}
	defer rows.Close()

	voters := []models.Voter{}
	for rows.Next() {
		v, err := scanVoter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan voter: %w", err)
		}
		voters = append(voters, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read voters: %w", err)
	}
	return voters, nil
}

// Turnout returns the total registered voter count and how many have voted.
func (d *Directory) Turnout(ctx context.Context) (total, voted int, err error) {
	err = d.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(CASE WHEN has_voted THEN 1 END)
		FROM voter
	`).Scan(&total, &voted)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count voters: %w", err)
	}
	return total, voted, nil
}
