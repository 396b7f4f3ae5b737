// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"postgres unique violation", &pq.Error{Code: "23505"}, true},
		{"postgres other code", &pq.Error{Code: "23503"}, false},
		{"wrapped postgres violation", fmt.Errorf("insert: %w", &pq.Error{Code: "23505"}), true},
		{"sqlite unique message", errors.New("constraint failed: UNIQUE constraint failed: vote.voter_id, vote.position_id"), true},
		{"unrelated error", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err); got != tt.want {
				t.Errorf("IsUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}
