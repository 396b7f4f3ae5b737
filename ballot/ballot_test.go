// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"errors"
	"sync"
	"testing"

	"github.com/danielhkuo/ballotbox/catalog"
	"github.com/danielhkuo/ballotbox/models"
)

func testShapes() []catalog.PositionShape {
	return []catalog.PositionShape{
		{
			Position: models.Position{ID: "pos-president", Title: "President"},
			Candidates: map[string]models.Candidate{
				"cand-alice": {ID: "cand-alice", PositionID: "pos-president", Name: "Alice"},
				"cand-bob":   {ID: "cand-bob", PositionID: "pos-president", Name: "Bob"},
			},
		},
		{
			Position: models.Position{ID: "pos-secretary", Title: "Secretary"},
			Candidates: map[string]models.Candidate{
				"cand-carol": {ID: "cand-carol", PositionID: "pos-secretary", Name: "Carol"},
			},
		},
		{
			Position:   models.Position{ID: "pos-treasurer", Title: "Treasurer"},
			Candidates: map[string]models.Candidate{},
		},
	}
}

func TestNewSessionStartsUnset(t *testing.T) {
	s := NewSession("voter1", testShapes())

	if s.State() != Unstarted {
		t.Errorf("Expected Unstarted state, got %v", s.State())
	}

	voted, total := s.Completion()
	if voted != 0 || total != 3 {
		t.Errorf("Expected completion (0, 3), got (%d, %d)", voted, total)
	}
}

func TestSelectValidatesMembership(t *testing.T) {
	s := NewSession("voter1", testShapes())

	// Candidate from another position
	err := s.Select("pos-president", "cand-carol")
	if !errors.Is(err, ErrCandidateMismatch) {
		t.Errorf("Expected ErrCandidateMismatch, got %v", err)
	}

	// Unknown position
	err = s.Select("pos-unknown", "cand-alice")
	if !errors.Is(err, ErrUnknownPosition) {
		t.Errorf("Expected ErrUnknownPosition, got %v", err)
	}

	// Valid selection
	if err := s.Select("pos-president", "cand-alice"); err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if s.State() != ReadyToReview {
		t.Errorf("Expected ReadyToReview after a concrete selection, got %v", s.State())
	}
}

func TestSelectLastWriteWins(t *testing.T) {
	s := NewSession("voter1", testShapes())

	if err := s.Select("pos-president", "cand-alice"); err != nil {
		t.Fatal(err)
	}
	// Selecting a new candidate silently replaces the previous one
	if err := s.Select("pos-president", "cand-bob"); err != nil {
		t.Fatal(err)
	}

	picks := s.Selections()
	if picks["pos-president"] != "cand-bob" {
		t.Errorf("Expected cand-bob after replacement, got %s", picks["pos-president"])
	}

	voted, _ := s.Completion()
	if voted != 1 {
		t.Errorf("Replacement should not double-count: expected 1, got %d", voted)
	}

	// Skip replaces the selection entirely
	if err := s.Skip("pos-president"); err != nil {
		t.Fatal(err)
	}
	if len(s.Selections()) != 0 {
		t.Error("Skip should clear the concrete selection")
	}
}

func TestSkipDoesNotCountAsVoted(t *testing.T) {
	s := NewSession("voter1", testShapes())

	if err := s.Select("pos-president", "cand-alice"); err != nil {
		t.Fatal(err)
	}
	if err := s.Skip("pos-secretary"); err != nil {
		t.Fatal(err)
	}
	// pos-treasurer left unset

	voted, total := s.Completion()
	if voted != 1 || total != 3 {
		t.Errorf("Expected completion (1, 3), got (%d, %d)", voted, total)
	}

	// Commit-bound selections exclude the skip and the unset position
	picks := s.Selections()
	if len(picks) != 1 {
		t.Errorf("Expected exactly 1 concrete selection, got %d", len(picks))
	}
}

func TestUnsetReturnsPositionToPending(t *testing.T) {
	s := NewSession("voter1", testShapes())

	if err := s.Select("pos-president", "cand-alice"); err != nil {
		t.Fatal(err)
	}
	if err := s.Unset("pos-president"); err != nil {
		t.Fatal(err)
	}

	voted, _ := s.Completion()
	if voted != 0 {
		t.Errorf("Expected 0 voted after unset, got %d", voted)
	}
	if s.State() != Unstarted {
		t.Errorf("Expected Unstarted after unsetting the only selection, got %v", s.State())
	}
}

func TestReviewDistinguishesSkippedFromUnset(t *testing.T) {
	s := NewSession("voter1", testShapes())

	if err := s.Select("pos-president", "cand-alice"); err != nil {
		t.Fatal(err)
	}
	if err := s.Skip("pos-secretary"); err != nil {
		t.Fatal(err)
	}

	review, err := s.Review()
	if err != nil {
		t.Fatalf("Review() error = %v", err)
	}
	if len(review) != 3 {
		t.Fatalf("Expected 3 review items, got %d", len(review))
	}

	byPosition := map[string]models.ReviewItem{}
	for _, item := range review {
		byPosition[item.PositionID] = item
	}

	if got := byPosition["pos-president"]; got.Status != "selected" || got.CandidateName != "Alice" {
		t.Errorf("Expected selected/Alice, got %s/%s", got.Status, got.CandidateName)
	}
	if got := byPosition["pos-secretary"]; got.Status != "skipped" {
		t.Errorf("Expected skipped, got %s", got.Status)
	}
	if got := byPosition["pos-treasurer"]; got.Status != "unset" {
		t.Errorf("Expected unset, got %s", got.Status)
	}
}

func TestReviewRequiresAtLeastOneSelection(t *testing.T) {
	s := NewSession("voter1", testShapes())

	// Untouched ballot
	if _, err := s.Review(); !errors.Is(err, ErrNothingSelected) {
		t.Errorf("Expected ErrNothingSelected for untouched ballot, got %v", err)
	}

	// All-skip ballot is not submittable either
	for _, positionID := range []string{"pos-president", "pos-secretary", "pos-treasurer"} {
		if err := s.Skip(positionID); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.Review(); !errors.Is(err, ErrNothingSelected) {
		t.Errorf("Expected ErrNothingSelected for all-skip ballot, got %v", err)
	}
}

func TestSubmittedSessionRejectsChanges(t *testing.T) {
	s := NewSession("voter1", testShapes())

	if err := s.Select("pos-president", "cand-alice"); err != nil {
		t.Fatal(err)
	}
	s.MarkSubmitted()

	if err := s.Select("pos-president", "cand-bob"); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("Expected ErrAlreadySubmitted, got %v", err)
	}
	if err := s.Skip("pos-secretary"); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("Expected ErrAlreadySubmitted, got %v", err)
	}
	if err := s.Unset("pos-president"); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("Expected ErrAlreadySubmitted, got %v", err)
	}
}

func TestRegistryIsolatesVoters(t *testing.T) {
	r := NewRegistry()

	s1 := NewSession("voter1", testShapes())
	s2 := NewSession("voter2", testShapes())
	r.Put(s1)
	r.Put(s2)

	if err := s1.Select("pos-president", "cand-alice"); err != nil {
		t.Fatal(err)
	}

	// voter2's session is unaffected
	voted, _ := r.Get("voter2").Completion()
	if voted != 0 {
		t.Errorf("Expected voter2 untouched, got %d voted", voted)
	}

	r.Discard("voter1")
	if r.Get("voter1") != nil {
		t.Error("Expected voter1 session discarded")
	}
	if r.Len() != 1 {
		t.Errorf("Expected 1 remaining session, got %d", r.Len())
	}
}

// A double-clicking or misbehaving client can fire overlapping requests
// against the same open ballot. Run with -race.
func TestSessionConcurrentMutation(t *testing.T) {
	s := NewSession("voter1", testShapes())

	const workers = 50
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			candidateID := "cand-alice"
			if i%2 == 0 {
				candidateID = "cand-bob"
			}
			if err := s.Select("pos-president", candidateID); err != nil {
				t.Errorf("Select() error = %v", err)
			}
			if err := s.Skip("pos-secretary"); err != nil {
				t.Errorf("Skip() error = %v", err)
			}
			s.Completion()
			s.Selections()
			if _, err := s.Review(); err != nil {
				t.Errorf("Review() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	// Last write won; the session settled on exactly one of the two
	// candidates with the skip intact.
	picks := s.Selections()
	if len(picks) != 1 {
		t.Fatalf("Expected 1 concrete pick, got %d", len(picks))
	}
	if got := picks["pos-president"]; got != "cand-alice" && got != "cand-bob" {
		t.Errorf("Expected Alice or Bob for President, got %s", got)
	}

	voted, total := s.Completion()
	if voted != 1 || total != 3 {
		t.Errorf("Expected completion (1, 3), got (%d, %d)", voted, total)
	}
	if s.State() != ReadyToReview {
		t.Errorf("Expected ReadyToReview, got %v", s.State())
	}
}
