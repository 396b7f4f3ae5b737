// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/testutil"
)

func TestListPositions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewCatalogHandler(db, testutil.GetTestConfig())

	testutil.CreateTestPosition(t, db, "Treasurer")
	testutil.CreateTestPosition(t, db, "President")

	req := testutil.MakeRequest("GET", "/positions", nil, nil)
	w := httptest.NewRecorder()
	handler.ListPositions(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var positions []models.Position
	testutil.AssertJSON(t, w, &positions)
	if len(positions) != 2 {
		t.Fatalf("Expected 2 positions, got %d", len(positions))
	}
	if positions[0].Title != "President" || positions[1].Title != "Treasurer" {
		t.Errorf("Expected title order [President, Treasurer], got [%s, %s]",
			positions[0].Title, positions[1].Title)
	}
}

func TestListCandidates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewCatalogHandler(db, testutil.GetTestConfig())

	positionID := testutil.CreateTestPosition(t, db, "President")
	emptyPositionID := testutil.CreateTestPosition(t, db, "Auditor")
	testutil.AddTestCandidate(t, db, positionID, "Bob")
	testutil.AddTestCandidate(t, db, positionID, "Alice")

	t.Run("ordered by name", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/positions/"+positionID+"/candidates", nil, nil)
		req.SetPathValue("id", positionID)
		w := httptest.NewRecorder()
		handler.ListCandidates(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var candidates []models.Candidate
		testutil.AssertJSON(t, w, &candidates)
		if len(candidates) != 2 {
			t.Fatalf("Expected 2 candidates, got %d", len(candidates))
		}
		if candidates[0].Name != "Alice" || candidates[1].Name != "Bob" {
			t.Errorf("Expected [Alice, Bob], got [%s, %s]", candidates[0].Name, candidates[1].Name)
		}
	})

	t.Run("candidate-less position returns empty list", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/positions/"+emptyPositionID+"/candidates", nil, nil)
		req.SetPathValue("id", emptyPositionID)
		w := httptest.NewRecorder()
		handler.ListCandidates(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var candidates []models.Candidate
		testutil.AssertJSON(t, w, &candidates)
		if len(candidates) != 0 {
			t.Errorf("Expected empty candidate list, got %d", len(candidates))
		}
	})
}
