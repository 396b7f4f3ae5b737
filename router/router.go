// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/ballotbox/ballot"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/handlers"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/tally"
	"github.com/danielhkuo/ballotbox/voting"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, cache *tally.Cache, notifier voting.Notifier) *http.ServeMux {
	mux := http.NewServeMux()

	// Shared session registry: one open ballot per voter
	registry := ballot.NewRegistry()

	// Initialize handlers
	voterHandler := handlers.NewVoterHandler(db, cfg)
	catalogHandler := handlers.NewCatalogHandler(db, cfg)
	ballotHandler := handlers.NewBallotHandler(db, cfg, registry, notifier)
	resultsHandler := handlers.NewResultsHandler(db, cfg, cache)
	adminHandler := handlers.NewAdminHandler(db, cfg, cache, notifier)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Voter identity
	mux.HandleFunc("POST /voters/resolve", middleware.WithLogging(voterHandler.ResolveVoter))

	// Catalog (read-only)
	mux.HandleFunc("GET /positions", middleware.WithLogging(catalogHandler.ListPositions))
	mux.HandleFunc("GET /positions/{id}/candidates", middleware.WithLogging(catalogHandler.ListCandidates))

	// Ballot sessions and commit
	mux.HandleFunc("POST /ballots/{voterID}", middleware.WithLogging(ballotHandler.OpenBallot))
	mux.HandleFunc("GET /ballots/{voterID}", middleware.WithLogging(ballotHandler.GetBallot))
	mux.HandleFunc("POST /ballots/{voterID}/select", middleware.WithLogging(ballotHandler.Select))
	mux.HandleFunc("POST /ballots/{voterID}/skip", middleware.WithLogging(ballotHandler.Skip))
	mux.HandleFunc("POST /ballots/{voterID}/unset", middleware.WithLogging(ballotHandler.Unset))
	mux.HandleFunc("POST /ballots/{voterID}/commit", middleware.WithLogging(ballotHandler.Commit))

	// Results (public, percentages only)
	mux.HandleFunc("GET /results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("GET /results/summary", middleware.WithLogging(resultsHandler.GetSummary))

	// Operator endpoints (require X-Admin-Key / X-Super-Admin-Key)
	mux.HandleFunc("GET /admin/voters", middleware.WithLogging(adminHandler.LookupVoters))
	mux.HandleFunc("GET /admin/voters/{id}/votes", middleware.WithLogging(adminHandler.GetVoterVotes))
	mux.HandleFunc("GET /admin/results", middleware.WithLogging(adminHandler.GetAdminResults))
	mux.HandleFunc("POST /admin/override", middleware.WithLogging(adminHandler.Override))
	mux.HandleFunc("POST /admin/reset", middleware.WithLogging(adminHandler.Reset))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ballotbox API v1"))
	})

	return mux
}
