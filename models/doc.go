// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - ResolveVoterRequest: name
  - SelectRequest: position_id, candidate_id
  - SkipRequest / UnsetRequest: position_id
  - OverrideRequest: voter_id, candidate_id
  - ResetRequest: confirm

# Response Types

Types for JSON responses:

  - OpenBallotResponse: voter_id, positions, candidates
  - CompletionResponse: voted_count, total_count, review
  - CommitResponse: votes_cast, errors, message
  - OverrideResponse: position_id, position_title, message
  - ResetResponse: votes_deleted, voters_reset
  - SummaryResponse: turnout statistics
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Voter: registry entry with demographics and has_voted
  - Position: a contest on the ballot
  - Candidate: one choice within a position
  - Vote: a committed (voter, position, candidate) record
  - ReviewItem: one row of the pre-commit review listing
  - PositionError: per-position commit failure

# Tally Types

  - CandidateTally / PositionTally: counts, percentages, leader
  - PublicCandidateTally / PublicPositionTally: percentages only

The public variants exist so raw counts never leak to ordinary viewers;
only operator endpoints serve the full tally.

Vote carries ip_hash and user_agent for auditing but both are excluded
from JSON serialization.
*/
package models
