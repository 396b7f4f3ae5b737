// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"errors"
	"fmt"
	"sync"

	"github.com/danielhkuo/ballotbox/catalog"
	"github.com/danielhkuo/ballotbox/models"
)

var (
	ErrUnknownPosition   = errors.New("position is not on the ballot")
	ErrCandidateMismatch = errors.New("candidate does not belong to position")
	ErrNothingSelected   = errors.New("no candidate selected for any position")
	ErrAlreadySubmitted  = errors.New("ballot already submitted")
)

// State of one voting session
type State int

const (
	Unstarted State = iota
	InProgress
	ReadyToReview
	Submitted
)

// Session is the transient ballot for one voter: the mapping from
// position to selection before commit. Nothing here is persisted;
// abandoning a session leaves no trace. A Session belongs to exactly one
// voter and is safe for concurrent use - the same voter's client may fire
// overlapping requests (a double click, an impatient retry), and those
// must never corrupt the map. Cross-voter isolation comes from each voter
// having their own Session (see Registry).
type Session struct {
	mu         sync.Mutex
	voterID    string
	state      State
	shapes     []catalog.PositionShape
	selections map[string]string // position id -> candidate id or models.SelectionSkipped
}

// NewSession initializes a ballot with every position unset.
func NewSession(voterID string, shapes []catalog.PositionShape) *Session {
	return &Session{
		voterID:    voterID,
		state:      Unstarted,
		shapes:     shapes,
		selections: make(map[string]string, len(shapes)),
	}
}

func (s *Session) VoterID() string { return s.voterID }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) shape(positionID string) (catalog.PositionShape, bool) {
	for _, sh := range s.shapes {
		if sh.Position.ID == positionID {
			return sh, true
		}
	}
	return catalog.PositionShape{}, false
}

// Select records a candidate choice for a position. Selecting a new
// candidate silently replaces any previous selection or skip for that
// position - last write wins.
func (s *Session) Select(positionID, candidateID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Submitted {
		return ErrAlreadySubmitted
	}
	sh, ok := s.shape(positionID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPosition, positionID)
	}
	if _, ok := sh.Candidates[candidateID]; !ok {
		return fmt.Errorf("%w: %s", ErrCandidateMismatch, candidateID)
	}
	s.selections[positionID] = candidateID
	s.recomputeState()
	return nil
}

// Skip marks a position as an explicit no-vote. Mutually exclusive with a
// candidate selection for the same position; last action wins.
func (s *Session) Skip(positionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Submitted {
		return ErrAlreadySubmitted
	}
	if _, ok := s.shape(positionID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPosition, positionID)
	}
	s.selections[positionID] = models.SelectionSkipped
	s.recomputeState()
	return nil
}

// Unset returns a position to the untouched state ("change vote" flow).
func (s *Session) Unset(positionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Submitted {
		return ErrAlreadySubmitted
	}
	if _, ok := s.shape(positionID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPosition, positionID)
	}
	delete(s.selections, positionID)
	s.recomputeState()
	return nil
}

// recomputeState runs with s.mu held.
func (s *Session) recomputeState() {
	voted, _ := s.completion()
	switch {
	case voted > 0:
		s.state = ReadyToReview
	case len(s.selections) > 0:
		s.state = InProgress
	default:
		s.state = Unstarted
	}
}

// Completion returns how many positions have a concrete candidate
// selection and how many positions are on the ballot. Skipped positions
// do not count as voted.
func (s *Session) Completion() (voted, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completion()
}

// completion runs with s.mu held.
func (s *Session) completion() (voted, total int) {
	total = len(s.shapes)
	for _, sel := range s.selections {
		if sel != models.SelectionSkipped {
			voted++
		}
	}
	return voted, total
}

// Review returns the per-position listing shown before submission. It
// fails with ErrNothingSelected when no position has a concrete
// selection: an all-skip or untouched ballot is not submittable.
func (s *Session) Review() ([]models.ReviewItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	voted, _ := s.completion()
	if voted == 0 {
		return nil, ErrNothingSelected
	}

	items := make([]models.ReviewItem, 0, len(s.shapes))
	for _, sh := range s.shapes {
		item := models.ReviewItem{
			PositionID:    sh.Position.ID,
			PositionTitle: sh.Position.Title,
		}
		sel, ok := s.selections[sh.Position.ID]
		switch {
		case !ok:
			item.Status = "unset"
		case sel == models.SelectionSkipped:
			item.Status = "skipped"
		default:
			item.Status = "selected"
			item.CandidateID = sel
			item.CandidateName = sh.Candidates[sel].Name
		}
		items = append(items, item)
	}
	return items, nil
}

// Selections returns the concrete picks (position id -> candidate id),
// excluding skipped and unset positions. This is what the committer
// persists.
func (s *Session) Selections() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	picks := make(map[string]string)
	for positionID, sel := range s.selections {
		if sel != models.SelectionSkipped {
			picks[positionID] = sel
		}
	}
	return picks
}

// MarkSubmitted transitions the session to its terminal state.
func (s *Session) MarkSubmitted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Submitted
}
