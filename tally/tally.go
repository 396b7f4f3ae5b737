// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"

	"github.com/danielhkuo/ballotbox/models"
)

// Aggregator computes per-position counts, percentages, and leaders from
// the vote table at read time. Nothing here is stored authoritatively.
type Aggregator struct {
	db *sql.DB
}

func NewAggregator(db *sql.DB) *Aggregator {
	return &Aggregator{db: db}
}

// Compute returns the tally for every position, ordered by position
// title. Within a position rows are ordered by vote count descending,
// ties broken by candidate name ascending, so the leader display is
// deterministic. A position with zero votes has no leader. Percentages
// are relative to the position's own total and are 0 when the position
// has no votes.
func (a *Aggregator) Compute(ctx context.Context) ([]models.PositionTally, error) {
	posRows, err := a.db.QueryContext(ctx, `
		SELECT id, title FROM position ORDER BY title, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer posRows.Close()

	tallies := []models.PositionTally{}
	index := map[string]int{}
	for posRows.Next() {
		var p models.PositionTally
		if err := posRows.Scan(&p.PositionID, &p.Title); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		p.Rows = []models.CandidateTally{}
		index[p.PositionID] = len(tallies)
		tallies = append(tallies, p)
	}
	if err := posRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read positions: %w", err)
	}

	candRows, err := a.db.QueryContext(ctx, `
		SELECT c.position_id, c.id, c.name, COUNT(v.id)
		FROM candidate c
		LEFT JOIN vote v ON v.candidate_id = c.id
		GROUP BY c.position_id, c.id, c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query vote counts: %w", err)
	}
	defer candRows.Close()

	for candRows.Next() {
		var positionID string
		var row models.CandidateTally
		if err := candRows.Scan(&positionID, &row.CandidateID, &row.Name, &row.VoteCount); err != nil {
			return nil, fmt.Errorf("failed to scan vote count: %w", err)
		}
		i, ok := index[positionID]
		if !ok {
			continue
		}
		tallies[i].Rows = append(tallies[i].Rows, row)
		tallies[i].TotalVotes += row.VoteCount
	}
	if err := candRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vote counts: %w", err)
	}

	for i := range tallies {
		t := &tallies[i]
		sort.Slice(t.Rows, func(x, y int) bool {
			if t.Rows[x].VoteCount != t.Rows[y].VoteCount {
				return t.Rows[x].VoteCount > t.Rows[y].VoteCount
			}
			return t.Rows[x].Name < t.Rows[y].Name
		})
		for j := range t.Rows {
			t.Rows[j].Percentage = percentage(t.Rows[j].VoteCount, t.TotalVotes)
		}
		if t.TotalVotes > 0 && len(t.Rows) > 0 {
			leader := t.Rows[0]
			t.Leader = &leader
		}
	}

	return tallies, nil
}

func percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

// Public strips raw vote counts from a tally; ordinary viewers only see
// percentages and ordering.
func Public(tallies []models.PositionTally) []models.PublicPositionTally {
	out := make([]models.PublicPositionTally, 0, len(tallies))
	for _, t := range tallies {
		pt := models.PublicPositionTally{
			PositionID: t.PositionID,
			Title:      t.Title,
			Rows:       make([]models.PublicCandidateTally, 0, len(t.Rows)),
		}
		for _, row := range t.Rows {
			pt.Rows = append(pt.Rows, models.PublicCandidateTally{
				CandidateID: row.CandidateID,
				Name:        row.Name,
				Percentage:  row.Percentage,
			})
		}
		if t.Leader != nil {
			pt.Leader = &models.PublicCandidateTally{
				CandidateID: t.Leader.CandidateID,
				Name:        t.Leader.Name,
				Percentage:  t.Leader.Percentage,
			}
		}
		out = append(out, pt)
	}
	return out
}
