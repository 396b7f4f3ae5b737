// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/ballotbox/models"
)

var ErrNotFound = errors.New("candidate or position not found")

// Catalog is the read-only listing of positions and their candidates.
type Catalog struct {
	db *sql.DB
}

func New(db *sql.DB) *Catalog {
	return &Catalog{db: db}
}

// ListPositions returns all positions ordered by title. The order is
// stable so every ballot presents contests the same way.
func (c *Catalog) ListPositions(ctx context.Context) ([]models.Position, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, title FROM position ORDER BY title, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	positions := []models.Position{}
	for rows.Next() {
		var p models.Position
		if err := rows.Scan(&p.ID, &p.Title); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read positions: %w", err)
	}
	return positions, nil
}

// ListCandidates returns a position's candidates ordered by name. An empty
// result is valid: a position with no candidates is still displayed and is
// always implicitly skippable.
func (c *Catalog) ListCandidates(ctx context.Context, positionID string) ([]models.Candidate, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, position_id, name, description, picture_url
		FROM candidate
		WHERE position_id = $1
		ORDER BY name, id
	`, positionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var cand models.Candidate
		if err := rows.Scan(&cand.ID, &cand.PositionID, &cand.Name, &cand.Description, &cand.PictureURL); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, cand)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read candidates: %w", err)
	}
	return candidates, nil
}

// CandidatePosition resolves which position a candidate belongs to.
func (c *Catalog) CandidatePosition(ctx context.Context, candidateID string) (positionID, positionTitle string, err error) {
	err = c.db.QueryRowContext(ctx, `
		SELECT p.id, p.title
		FROM candidate c
		JOIN position p ON p.id = c.position_id
		WHERE c.id = $1
	`, candidateID).Scan(&positionID, &positionTitle)

	if err == sql.ErrNoRows {
		return "", "", ErrNotFound
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to query candidate position: %w", err)
	}
	return positionID, positionTitle, nil
}

// PositionShape is one position plus the set of candidate IDs that are
// valid selections for it, used to build a ballot session.
type PositionShape struct {
	Position   models.Position
	Candidates map[string]models.Candidate
}

// Shape returns every position with its candidate set, in display order.
func (c *Catalog) Shape(ctx context.Context) ([]PositionShape, error) {
	positions, err := c.ListPositions(ctx)
	if err != nil {
		return nil, err
	}

	shapes := make([]PositionShape, 0, len(positions))
	for _, p := range positions {
		candidates, err := c.ListCandidates(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		byID := make(map[string]models.Candidate, len(candidates))
		for _, cand := range candidates {
			byID[cand.ID] = cand
		}
		shapes = append(shapes, PositionShape{Position: p, Candidates: byID})
	}
	return shapes, nil
}
