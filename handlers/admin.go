// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/catalog"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/directory"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/override"
	"github.com/danielhkuo/ballotbox/tally"
	"github.com/danielhkuo/ballotbox/voting"
)

// resetConfirmPhrase must be echoed in the reset request body. The reset
// is irreversible and confirmed out of band; this guards against a stray
// replayed request.
const resetConfirmPhrase = "reset-election"

type AdminHandler struct {
	db     *sql.DB
	dir    *directory.Directory
	engine *override.Engine
	cache  *tally.Cache
	cfg    cliparse.Config
}

func NewAdminHandler(db *sql.DB, cfg cliparse.Config, cache *tally.Cache, notifier voting.Notifier) *AdminHandler {
	dir := directory.New(db)
	return &AdminHandler{
		db:     db,
		dir:    dir,
		engine: override.NewEngine(db, catalog.New(db), dir, notifier),
		cache:  cache,
		cfg:    cfg,
	}
}

// authorize checks the operator key headers. Admin endpoints accept the
// admin or superadmin key; superadmin endpoints require the superadmin key.
func (h *AdminHandler) authorize(r *http.Request, role string) error {
	if key := r.Header.Get("X-Super-Admin-Key"); key != "" {
		return auth.ValidateOperatorKey(auth.RoleSuperAdmin, key, h.cfg.AdminKeySalt)
	}
	if role == auth.RoleSuperAdmin {
		return auth.ErrInvalidOperatorKey
	}
	return auth.ValidateOperatorKey(auth.RoleAdmin, r.Header.Get("X-Admin-Key"), h.cfg.AdminKeySalt)
}

// LookupVoters handles GET /admin/voters?search=
// Operator search is deliberately fuzzy, unlike the exact-match login path.
func (h *AdminHandler) LookupVoters(w http.ResponseWriter, r *http.Request) {
	if err := h.authorize(r, auth.RoleAdmin); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid operator key")
		return
	}

	pattern := r.URL.Query().Get("search")
	voters, err := h.dir.Lookup(r.Context(), pattern)
	if errors.Is(err, directory.ErrEmptyName) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "search is required")
		return
	}
	if err != nil {
		slog.Error("voter lookup failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, voters)
}

// GetVoterVotes handles GET /admin/voters/{id}/votes
// Shows a voter's committed votes so the operator can see what an
// override would replace.
func (h *AdminHandler) GetVoterVotes(w http.ResponseWriter, r *http.Request) {
	if err := h.authorize(r, auth.RoleAdmin); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid operator key")
		return
	}

	voterID := r.PathValue("id")
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

	rows, err := h.db.QueryContext(r.Context(), `
		SELECT v.position_id, p.title, v.candidate_id, c.name
		FROM vote v
		JOIN position p ON p.id = v.position_id
		JOIN candidate c ON c.id = v.candidate_id
		WHERE v.voter_id = $1
		ORDER BY p.title
	`, voterID)
	if err != nil {
		slog.Error("failed to query voter votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	votes := []models.VotedEntry{}
	for rows.Next() {
		var entry models.VotedEntry
		if err := rows.Scan(&entry.PositionID, &entry.PositionTitle, &entry.CandidateID, &entry.CandidateName); err != nil {
			slog.Error("failed to scan vote", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		votes = append(votes, entry)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoterVotes{
		VoterID: voter.ID,
		Name:    voter.Name,
		Votes:   votes,
	})
}

// GetAdminResults handles GET /admin/results
// Privileged tally with raw vote counts; the public endpoint omits them.
func (h *AdminHandler) GetAdminResults(w http.ResponseWriter, r *http.Request) {
	if err := h.authorize(r, auth.RoleAdmin); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid operator key")
		return
	}

	tallies, err := h.cache.Results(r.Context())
	if err != nil {
		slog.Error("failed to compute tally", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, tallies)
}

// Override handles POST /admin/override
// Re-targets one position's vote for a voter; the voter's other
// positions are untouched.
func (h *AdminHandler) Override(w http.ResponseWriter, r *http.Request) {
	if err := h.authorize(r, auth.RoleSuperAdmin); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid operator key")
		return
	}

	var req models.OverrideRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.VoterID == "" || req.CandidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter_id and candidate_id are required")
		return
	}

	positionID, positionTitle, err := h.engine.Apply(r.Context(), req.VoterID, req.CandidateID)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	case errors.Is(err, directory.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Voter not found")
		return
	case errors.Is(err, override.ErrPartialOverride):
		slog.Error("override failed", "error", err, "voter_id", req.VoterID)
		middleware.ErrorResponse(w, http.StatusConflict, "Override did not take; the previous vote is unchanged")
		return
	case err != nil:
		slog.Error("override failed", "error", err, "voter_id", req.VoterID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to override vote")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.OverrideResponse{
		PositionID:    positionID,
		PositionTitle: positionTitle,
		Message:       "Vote for " + positionTitle + " updated; other votes unchanged",
	})
}

// Reset handles POST /admin/reset
// Deletes all votes and clears every voter's status in one transaction.
func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.authorize(r, auth.RoleSuperAdmin); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid operator key")
		return
	}

	var req models.ResetRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Confirm != resetConfirmPhrase {
		middleware.ErrorResponse(w, http.StatusBadRequest, "confirm must be \""+resetConfirmPhrase+"\"")
		return
	}

	votesDeleted, votersReset, err := h.engine.ResetAll(r.Context())
	if err != nil {
		slog.Error("reset failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to reset election")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResetResponse{
		VotesDeleted: votesDeleted,
		VotersReset:  votersReset,
	})
}
