// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the ballotbox API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, cache, notifier)

# Endpoints

Health:

	GET /health

Voter identity and catalog (public):

	POST /voters/resolve              - Log in by name
	GET  /positions                   - List positions
	GET  /positions/{id}/candidates   - List a position's candidates

Ballot sessions (public, keyed by voter ID):

	POST /ballots/{voterID}           - Open a ballot
	GET  /ballots/{voterID}           - Completion and review
	POST /ballots/{voterID}/select    - Pick a candidate
	POST /ballots/{voterID}/skip      - Abstain from a position
	POST /ballots/{voterID}/unset     - Clear a position
	POST /ballots/{voterID}/commit    - Submit the ballot

Results (public, percentages only):

	GET /results
	GET /results/summary

Operator (requires X-Admin-Key or X-Super-Admin-Key):

	GET  /admin/voters                - Fuzzy voter search
	GET  /admin/voters/{id}/votes     - A voter's committed votes
	GET  /admin/results               - Tally with raw counts
	POST /admin/override              - Replace one position's vote
	POST /admin/reset                 - Reset the election

# Shared State

The router owns the ballot session registry (one open session per voter)
and receives the tally cache and the vote-change notifier so the write
handlers can invalidate cached results.
*/
package router
