// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/db"
	"github.com/danielhkuo/ballotbox/directory"
	"github.com/danielhkuo/ballotbox/models"
)

var (
	ErrAlreadyVoted = errors.New("voter has already voted")
	ErrNoSelections = errors.New("ballot has no concrete selections")

	// ErrMarkVotedFailed means votes were persisted but the voter's
	// has_voted flip did not happen. The accompanying Result is valid;
	// retrying the ballot would only produce duplicate-vote conflicts.
	ErrMarkVotedFailed = errors.New("votes recorded but voter status update failed")
)

// Notifier receives a signal after votes change so derived results can
// refresh.
type Notifier interface {
	VoteCast()
}

// Committer is the transactional write path that turns a ballot's
// selections into persisted votes and flips the voter's status.
type Committer struct {
	db       *sql.DB
	dir      *directory.Directory
	notifier Notifier
}

func NewCommitter(database *sql.DB, dir *directory.Directory, notifier Notifier) *Committer {
	return &Committer{db: database, dir: dir, notifier: notifier}
}

// Audit carries the request metadata stored alongside each vote.
type Audit struct {
	IPHash    *string
	UserAgent *string
}

// Result reports how a commit went: which positions landed and which
// failed. VotesCast < len(selections) means a partially failed commit.
type Result struct {
	VotesCast int
	Errors    []models.PositionError
}

// Commit persists one vote per concrete selection and marks the voter as
// having voted.
//
// The voter's status is read fresh from the store, not trusted from
// session start, so a voter who completed a concurrent session fails fast
// with ErrAlreadyVoted before any write. Inserts are best-effort per
// position: a conflict on one position (a duplicate that slipped in
// concurrently) is collected and does not abort sibling insertions. If at
// least one vote landed the voter is marked voted even when other
// positions failed - a partial ballot still counts as a completed vote,
// the voter cannot re-enter to finish the rest. Conflicts are never
// retried; a uniqueness violation is a genuine duplicate-vote attempt,
// not a transient fault.
func (c *Committer) Commit(ctx context.Context, voterID string, selections map[string]string, audit Audit) (Result, error) {
	if len(selections) == 0 {
		return Result{}, ErrNoSelections
	}

	voter, err := c.dir.Get(ctx, voterID)
	if err != nil {
		return Result{}, err
	}
	if voter.HasVoted {
		return Result{}, ErrAlreadyVoted
	}

	// Deterministic insert order keeps conflict reporting stable.
	positionIDs := make([]string, 0, len(selections))
	for positionID := range selections {
		positionIDs = append(positionIDs, positionID)
	}
	sort.Strings(positionIDs)

	result := Result{Errors: []models.PositionError{}}
	for _, positionID := range positionIDs {
		candidateID := selections[positionID]
		_, err := c.db.ExecContext(ctx, `
			INSERT INTO vote (id, voter_id, position_id, candidate_id, cast_at, ip_hash, user_agent)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, auth.NewID(), voterID, positionID, candidateID, time.Now().UTC(), audit.IPHash, audit.UserAgent)

		if err != nil {
			reason := "failed to record vote"
			if db.IsUniqueViolation(err) {
				reason = "a vote for this position already exists"
			} else {
				slog.Error("vote insert failed", "error", err, "voter_id", voterID, "position_id", positionID)
			}
			result.Errors = append(result.Errors, models.PositionError{
				PositionID: positionID,
				Reason:     reason,
			})
			continue
		}
		result.VotesCast++
	}

	if result.VotesCast > 0 {
		first, err := c.dir.MarkVoted(ctx, voterID)
		if err != nil {
			slog.Error("failed to mark voter after recording votes", "error", err, "voter_id", voterID, "votes_cast", result.VotesCast)
			// The recorded votes still change the tally.
			if c.notifier != nil {
				c.notifier.VoteCast()
			}
			return result, fmt.Errorf("%w: %v", ErrMarkVotedFailed, err)
		}
		if !first {
			slog.Warn("voter was already marked voted at commit time", "voter_id", voterID)
		}
		if c.notifier != nil {
			c.notifier.VoteCast()
		}
	}

	return result, nil
}
