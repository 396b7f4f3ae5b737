package models

import "time"

// Selection markers used by the ballot composer
const (
	SelectionSkipped = "skipped"
)

// Request types

type ResolveVoterRequest struct {
	Name string `json:"name"`
}

type SelectRequest struct {
	PositionID  string `json:"position_id"`
	CandidateID string `json:"candidate_id"`
}

type SkipRequest struct {
	PositionID string `json:"position_id"`
}

type UnsetRequest struct {
	PositionID string `json:"position_id"`
}

type OverrideRequest struct {
	VoterID     string `json:"voter_id"`
	CandidateID string `json:"candidate_id"`
}

type ResetRequest struct {
	Confirm string `json:"confirm"`
}

// Response types

type OpenBallotResponse struct {
	VoterID    string `json:"voter_id"`
	Positions  int    `json:"positions"`
	Candidates int    `json:"candidates"`
}

type CompletionResponse struct {
	VotedCount int          `json:"voted_count"`
	TotalCount int          `json:"total_count"`
	Review     []ReviewItem `json:"review"`
}

type CommitResponse struct {
	VotesCast int             `json:"votes_cast"`
	Errors    []PositionError `json:"errors"`
	Message   string          `json:"message"`
}

type OverrideResponse struct {
	PositionID    string `json:"position_id"`
	PositionTitle string `json:"position_title"`
	Message       string `json:"message"`
}

type ResetResponse struct {
	VotesDeleted int64 `json:"votes_deleted"`
	VotersReset  int64 `json:"voters_reset"`
}

type SummaryResponse struct {
	TotalVoters    int `json:"total_voters"`
	VotedCount     int `json:"voted_count"`
	TurnoutPercent int `json:"turnout_percent"`
	TotalPositions int `json:"total_positions"`
}

// Domain types

type Voter struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	University       *string   `json:"university,omitempty"`
	Qualification    *string   `json:"qualification,omitempty"`
	Sex              *string   `json:"sex,omitempty"`
	Nationality      *string   `json:"nationality,omitempty"`
	CompletionYear   *string   `json:"completion_year,omitempty"`
	InternshipCenter *string   `json:"internship_center,omitempty"`
	HasVoted         bool      `json:"has_voted"`
	CreatedAt        time.Time `json:"created_at"`
}

type Position struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type Candidate struct {
	ID          string  `json:"id"`
	PositionID  string  `json:"position_id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	PictureURL  *string `json:"picture_url,omitempty"`
}

type Vote struct {
	ID          string    `json:"id"`
	VoterID     string    `json:"voter_id"`
	PositionID  string    `json:"position_id"`
	CandidateID string    `json:"candidate_id"`
	CastAt      time.Time `json:"cast_at"`
	IPHash      *string   `json:"-"` // Never expose in JSON
	UserAgent   *string   `json:"-"` // Never expose in JSON
}

// ReviewItem is one row of the pre-commit review listing. Status is
// "selected", "skipped", or "unset".
type ReviewItem struct {
	PositionID    string `json:"position_id"`
	PositionTitle string `json:"position_title"`
	Status        string `json:"status"`
	CandidateID   string `json:"candidate_id,omitempty"`
	CandidateName string `json:"candidate_name,omitempty"`
}

// PositionError reports a per-position commit failure so callers can tell
// which parts of a ballot landed and which did not.
type PositionError struct {
	PositionID string `json:"position_id"`
	Reason     string `json:"reason"`
}

// Tally types

type CandidateTally struct {
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
	VoteCount   int    `json:"vote_count"`
	Percentage  int    `json:"percentage"`
}

type PositionTally struct {
	PositionID string           `json:"position_id"`
	Title      string           `json:"title"`
	TotalVotes int              `json:"total_votes"`
	Leader     *CandidateTally  `json:"leader,omitempty"`
	Rows       []CandidateTally `json:"rows"`
}

// PublicCandidateTally omits raw counts; ordinary viewers see percentages only.
type PublicCandidateTally struct {
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
	Percentage  int    `json:"percentage"`
}

type PublicPositionTally struct {
	PositionID string                 `json:"position_id"`
	Title      string                 `json:"title"`
	Leader     *PublicCandidateTally  `json:"leader,omitempty"`
	Rows       []PublicCandidateTally `json:"rows"`
}

// VoterVotes is the operator view of one voter's committed votes.
type VoterVotes struct {
	VoterID string       `json:"voter_id"`
	Name    string       `json:"name"`
	Votes   []VotedEntry `json:"votes"`
}

type VotedEntry struct {
	PositionID    string `json:"position_id"`
	PositionTitle string `json:"position_title"`
	CandidateID   string `json:"candidate_id"`
	CandidateName string `json:"candidate_name"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
