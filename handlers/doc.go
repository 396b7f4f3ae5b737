// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the ballotbox API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - VoterHandler: Name-based voter login
  - CatalogHandler: Position and candidate listings
  - BallotHandler: Ballot sessions and the commit path
  - ResultsHandler: Public results and turnout summary
  - AdminHandler: Operator lookup, override, and reset

Handlers are created via constructor functions that accept *sql.DB and Config:

	voterHandler := handlers.NewVoterHandler(db, cfg)

# Voting Flow

Voters log in by name and compose a ballot in a transient session:

	POST /voters/resolve           → ResolveVoter (exact, case-insensitive)
	POST /ballots/{voterID}        → OpenBallot (rejected once has_voted)
	POST /ballots/{voterID}/select → Select a candidate for a position
	POST /ballots/{voterID}/skip   → Explicitly abstain from a position
	POST /ballots/{voterID}/unset  → Return a position to untouched
	POST /ballots/{voterID}/commit → Persist the ballot

Commit records one vote per concrete selection. Skipped and untouched
positions produce nothing. A ballot with zero selections is rejected
before any write.

# Partial Commits

Inserts are best-effort per position. A uniqueness conflict on one
position is reported in the response's errors list without aborting the
voter's other positions. If at least one vote landed, the voter is marked
as having voted.

# Operator Endpoints

Admin endpoints accept X-Admin-Key or X-Super-Admin-Key; override and
reset require the superadmin key:

	GET  /admin/voters?search=        → Fuzzy voter lookup
	GET  /admin/voters/{id}/votes     → A voter's committed votes
	GET  /admin/results               → Tally with raw counts
	POST /admin/override              → Replace one position's vote
	POST /admin/reset                 → Delete all votes, clear all flags

Keys are HMAC-derived from ADMIN_KEY_SALT; see the auth package.
*/
package handlers
