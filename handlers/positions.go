// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/ballotbox/catalog"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/middleware"
)

type CatalogHandler struct {
	cat *catalog.Catalog
	cfg cliparse.Config
}

func NewCatalogHandler(db *sql.DB, cfg cliparse.Config) *CatalogHandler {
	return &CatalogHandler{cat: catalog.New(db), cfg: cfg}
}

// ListPositions handles GET /positions
func (h *CatalogHandler) ListPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.cat.ListPositions(r.Context())
	if err != nil {
		slog.Error("failed to list positions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, positions)
}

// ListCandidates handles GET /positions/{id}/candidates
// An empty list is a valid response: the position is still shown and the
// voter can skip it.
func (h *CatalogHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	positionID := r.PathValue("id")
	if positionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "position id is required")
		return
	}

	candidates, err := h.cat.ListCandidates(r.Context(), positionID)
	if err != nil {
		slog.Error("failed to list candidates", "error", err, "position_id", positionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, candidates)
}
