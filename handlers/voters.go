// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/directory"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
)

type VoterHandler struct {
	dir *directory.Directory
	cfg cliparse.Config
}

func NewVoterHandler(db *sql.DB, cfg cliparse.Config) *VoterHandler {
	return &VoterHandler{dir: directory.New(db), cfg: cfg}
}

// ResolveVoter handles POST /voters/resolve
// Exact case-insensitive name match; ambiguous names are rejected so the
// login path can never pick the wrong voter.
func (h *VoterHandler) ResolveVoter(w http.ResponseWriter, r *http.Request) {
	var req models.ResolveVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	voter, err := h.dir.Resolve(r.Context(), req.Name)
	switch {
	case errors.Is(err, directory.ErrEmptyName):
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	case errors.Is(err, directory.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Voter not found")
		return
	case errors.Is(err, directory.ErrAmbiguousName):
		middleware.ErrorResponse(w, http.StatusConflict, "Name matches more than one voter; contact an operator")
		return
	case err != nil:
		slog.Error("failed to resolve voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, voter)
}
