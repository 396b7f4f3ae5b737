// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/ballot"
	"github.com/danielhkuo/ballotbox/catalog"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/directory"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/voting"
)

type BallotHandler struct {
	cat       *catalog.Catalog
	dir       *directory.Directory
	committer *voting.Committer
	registry  *ballot.Registry
	cfg       cliparse.Config
}

func NewBallotHandler(db *sql.DB, cfg cliparse.Config, registry *ballot.Registry, notifier voting.Notifier) *BallotHandler {
	dir := directory.New(db)
	return &BallotHandler{
		cat:       catalog.New(db),
		dir:       dir,
		committer: voting.NewCommitter(db, dir, notifier),
		registry:  registry,
		cfg:       cfg,
	}
}

// OpenBallot handles POST /ballots/{voterID}
// Starts a voting session with every position unset. Replaces any
// abandoned session for the same voter.
func (h *BallotHandler) OpenBallot(w http.ResponseWriter, r *http.Request) {
	voterID := r.PathValue("voterID")
	if voterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter id is required")
		return
	}

	voter, err := h.dir.Get(r.Context(), voterID)
	if errors.Is(err, directory.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Voter not found")
		return
	}
	if err != nil {
		slog.Error("failed to query voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if voter.HasVoted {
		middleware.ErrorResponse(w, http.StatusConflict, "Voter has already voted")
		return
	}

	shapes, err := h.cat.Shape(r.Context())
	if err != nil {
		slog.Error("failed to load ballot shape", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	session := ballot.NewSession(voterID, shapes)
	h.registry.Put(session)

	candidateCount := 0
	for _, sh := range shapes {
		candidateCount += len(sh.Candidates)
	}

	slog.Info("ballot opened", "voter_id", voterID, "positions", len(shapes))

	middleware.JSONResponse(w, http.StatusCreated, models.OpenBallotResponse{
		VoterID:    voterID,
		Positions:  len(shapes),
		Candidates: candidateCount,
	})
}

func (h *BallotHandler) session(w http.ResponseWriter, r *http.Request) *ballot.Session {
	voterID := r.PathValue("voterID")
	if voterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter id is required")
		return nil
	}
	session := h.registry.Get(voterID)
	if session == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "No open ballot for this voter")
		return nil
	}
	return session
}

func composerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ballot.ErrUnknownPosition):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown position")
	case errors.Is(err, ballot.ErrCandidateMismatch):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Candidate does not belong to this position")
	case errors.Is(err, ballot.ErrAlreadySubmitted):
		middleware.ErrorResponse(w, http.StatusConflict, "Ballot already submitted")
	default:
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Ballot error")
	}
}

// Select handles POST /ballots/{voterID}/select
func (h *BallotHandler) Select(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	if session == nil {
		return
	}

	var req models.SelectRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.PositionID == "" || req.CandidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "position_id and candidate_id are required")
		return
	}

	if err := session.Select(req.PositionID, req.CandidateID); err != nil {
		composerError(w, err)
		return
	}

	h.writeCompletion(w, session, http.StatusOK)
}

// Skip handles POST /ballots/{voterID}/skip
func (h *BallotHandler) Skip(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	if session == nil {
		return
	}

	var req models.SkipRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.PositionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "position_id is required")
		return
	}

	if err := session.Skip(req.PositionID); err != nil {
		composerError(w, err)
		return
	}

	h.writeCompletion(w, session, http.StatusOK)
}

// Unset handles POST /ballots/{voterID}/unset
// Used by the "change vote" flow to return a position to untouched.
func (h *BallotHandler) Unset(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	if session == nil {
		return
	}

	var req models.UnsetRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.PositionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "position_id is required")
		return
	}

	if err := session.Unset(req.PositionID); err != nil {
		composerError(w, err)
		return
	}

	h.writeCompletion(w, session, http.StatusOK)
}

// GetBallot handles GET /ballots/{voterID}
// Returns completion counts and the review listing, which distinguishes
// skipped from unset positions.
func (h *BallotHandler) GetBallot(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	if session == nil {
		return
	}

	h.writeCompletion(w, session, http.StatusOK)
}

func (h *BallotHandler) writeCompletion(w http.ResponseWriter, session *ballot.Session, status int) {
	voted, total := session.Completion()
	review, err := session.Review()
	if err != nil {
		// Nothing selected yet: completion is still reportable, the
		// review listing is just empty.
		review = []models.ReviewItem{}
	}

	middleware.JSONResponse(w, status, models.CompletionResponse{
		VotedCount: voted,
		TotalCount: total,
		Review:     review,
	})
}

// Commit handles POST /ballots/{voterID}/commit
// The transactional write path: one vote per concrete selection, then the
// voter's status flip. Partial failures are reported per position.
func (h *BallotHandler) Commit(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	if session == nil {
		return
	}

	if _, err := session.Review(); errors.Is(err, ballot.ErrNothingSelected) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Nothing selected; at least one position must have a candidate")
		return
	}

	clientIP := middleware.GetClientIP(r)
	ipHash := auth.HashIP(clientIP, h.cfg.AdminKeySalt)
	userAgent := r.UserAgent()
	audit := voting.Audit{IPHash: &ipHash, UserAgent: &userAgent}

	result, err := h.committer.Commit(r.Context(), session.VoterID(), session.Selections(), audit)
	switch {
	case errors.Is(err, voting.ErrAlreadyVoted):
		middleware.ErrorResponse(w, http.StatusConflict, "Voter has already voted")
		return
	case errors.Is(err, directory.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Voter not found")
		return
	case errors.Is(err, voting.ErrNoSelections):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Nothing selected; at least one position must have a candidate")
		return
	case errors.Is(err, voting.ErrMarkVotedFailed):
		// The votes are durable; only the status flip is missing. Telling
		// the client the ballot failed would invite a retry that can only
		// produce duplicate-vote conflicts.
		slog.Error("voter status update pending after commit", "error", err, "voter_id", session.VoterID())
		session.MarkSubmitted()
		h.registry.Discard(session.VoterID())
		middleware.JSONResponse(w, http.StatusCreated, models.CommitResponse{
			VotesCast: result.VotesCast,
			Errors:    result.Errors,
			Message:   "Ballot recorded; voter status update pending",
		})
		return
	case err != nil:
		slog.Error("commit failed", "error", err, "voter_id", session.VoterID())
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit ballot")
		return
	}

	if result.VotesCast == 0 {
		// Every insert conflicted; no status change happened here.
		middleware.JSONResponse(w, http.StatusConflict, models.CommitResponse{
			VotesCast: 0,
			Errors:    result.Errors,
			Message:   "No votes recorded",
		})
		return
	}

	session.MarkSubmitted()
	h.registry.Discard(session.VoterID())

	message := "Ballot submitted successfully"
	if len(result.Errors) > 0 {
		message = "Ballot partially submitted; some positions failed"
	}

	slog.Info("ballot committed",
		"voter_id", session.VoterID(),
		"votes_cast", result.VotesCast,
		"failed_positions", len(result.Errors),
	)

	middleware.JSONResponse(w, http.StatusCreated, models.CommitResponse{
		VotesCast: result.VotesCast,
		Errors:    result.Errors,
		Message:   message,
	})
}
