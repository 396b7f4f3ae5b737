// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"math"
	"net/http"

	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/directory"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/tally"
)

type ResultsHandler struct {
	cache *tally.Cache
	dir   *directory.Directory
	cfg   cliparse.Config
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config, cache *tally.Cache) *ResultsHandler {
	return &ResultsHandler{cache: cache, dir: directory.New(db), cfg: cfg}
}

// GetResults handles GET /results
// Public view: percentages and leaders only, no raw counts.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	tallies, err := h.cache.Results(r.Context())
	if err != nil {
		slog.Error("failed to compute tally", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, tally.Public(tallies))
}

// GetSummary handles GET /results/summary
// Turnout statistics for the results banner.
func (h *ResultsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	total, voted, err := h.dir.Turnout(r.Context())
	if err != nil {
		slog.Error("failed to compute turnout", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	tallies, err := h.cache.Results(r.Context())
	if err != nil {
		slog.Error("failed to compute tally", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	turnout := 0
	if total > 0 {
		turnout = int(math.Round(float64(voted) / float64(total) * 100))
	}

	middleware.JSONResponse(w, http.StatusOK, models.SummaryResponse{
		TotalVoters:    total,
		VotedCount:     voted,
		TurnoutPercent: turnout,
		TotalPositions: len(tallies),
	})
}
