// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package override

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/catalog"
	"github.com/danielhkuo/ballotbox/directory"
	"github.com/danielhkuo/ballotbox/voting"
)

// ErrPartialOverride means the replacement vote could not be written. The
// transaction is rolled back, so the voter's previous vote for that
// position (if any) is restored rather than lost.
var ErrPartialOverride = errors.New("override did not take: replacement vote was not recorded")

// Engine is the privileged path that re-targets a single position's vote
// for an already-processed voter. Votes for the voter's other positions
// are never touched.
type Engine struct {
	db       *sql.DB
	cat      *catalog.Catalog
	dir      *directory.Directory
	notifier voting.Notifier
}

func NewEngine(database *sql.DB, cat *catalog.Catalog, dir *directory.Directory, notifier voting.Notifier) *Engine {
	return &Engine{db: database, cat: cat, dir: dir, notifier: notifier}
}

// Apply replaces the voter's vote for the position the candidate belongs
// to. Delete-old and insert-new run in one transaction scoped to that
// single (voter, position) pair; has_voted is set only if currently
// false, never cleared.
func (e *Engine) Apply(ctx context.Context, voterID, candidateID string) (positionID, positionTitle string, err error) {
	positionID, positionTitle, err = e.cat.CandidatePosition(ctx, candidateID)
	if err != nil {
		return "", "", err
	}

	if _, err := e.dir.Get(ctx, voterID); err != nil {
		return "", "", err
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return "", "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Only this position's vote; zero rows deleted is fine (the voter may
	// have skipped it originally).
	_, err = tx.ExecContext(ctx, `
		DELETE FROM vote WHERE voter_id = $1 AND position_id = $2
	`, voterID, positionID)
	if err != nil {
		return "", "", fmt.Errorf("failed to delete existing vote: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO vote (id, voter_id, position_id, candidate_id, cast_at)
		VALUES ($1, $2, $3, $4, $5)
	`, auth.NewID(), voterID, positionID, candidateID, time.Now().UTC())
	if err != nil {
		slog.Error("override insert failed", "error", err, "voter_id", voterID, "position_id", positionID)
		return "", "", fmt.Errorf("%w: %v", ErrPartialOverride, err)
	}

	// Set has_voted only if currently false; never clobber or reset an
	// already-true status.
	_, err = tx.ExecContext(ctx, `
		UPDATE voter SET has_voted = TRUE
		WHERE id = $1 AND has_voted = FALSE
	`, voterID)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrPartialOverride, err)
	}

	if err := tx.Commit(); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrPartialOverride, err)
	}

	if e.notifier != nil {
		e.notifier.VoteCast()
	}
	slog.Info("vote overridden", "voter_id", voterID, "position_id", positionID, "candidate_id", candidateID)
	return positionID, positionTitle, nil
}

// ResetAll deletes every vote and clears every voter's has_voted flag in
// one transaction. Irreversible; callers confirm out of band.
func (e *Engine) ResetAll(ctx context.Context) (votesDeleted, votersReset int64, err error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM vote`)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to delete votes: %w", err)
	}
	votesDeleted, _ = res.RowsAffected()

	res, err = tx.ExecContext(ctx, `UPDATE voter SET has_voted = FALSE WHERE has_voted = TRUE`)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to reset voters: %w", err)
	}
	votersReset, _ = res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit reset: %w", err)
	}

	if e.notifier != nil {
		e.notifier.VoteCast()
	}
	slog.Info("election reset", "votes_deleted", votesDeleted, "voters_reset", votersReset)
	return votesDeleted, votersReset, nil
}
