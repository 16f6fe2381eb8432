package service

import (
	"testing"

	"github.com/google/uuid"
)

func TestUniqueIDs(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	got := uniqueIDs([]uuid.UUID{a, b, a, a, b})
	if len(got) != 2 {
		t.Fatalf("uniqueIDs kept %d ids, want 2", len(got))
	}
	if got[0] != a || got[1] != b {
		t.Error("uniqueIDs must preserve first-seen order")
	}
}
