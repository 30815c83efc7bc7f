package scoring

import (
	"errors"
	"testing"

	"github.com/courtline/scoring-system/models"
)

func TestHistoryPopReturnsMostRecent(t *testing.T) {
	h := NewHistory(8)
	first := NewState()
	second := NewState()
	second.HomeScore = 5

	h.Push(first)
	h.Push(second)

	got, err := h.Pop()
	if err != nil {
		t.Fatalf("unexpected pop error: %v", err)
	}
	if got.HomeScore != 5 {
		t.Fatalf("expected most recent snapshot, got %+v", got)
	}
	if h.Len() != 1 {
		t.Fatalf("expected 1 snapshot left, got %d", h.Len())
	}
}

func TestHistoryPopEmpty(t *testing.T) {
	h := NewHistory(0) // falls back to the default limit

	if _, err := h.Pop(); !errors.Is(err, ErrHistoryEmpty) {
		t.Fatalf("expected ErrHistoryEmpty, got %v", err)
	}
}

func TestHistoryEvictsOldestAtLimit(t *testing.T) {
	h := NewHistory(3)
	for i := 1; i <= 5; i++ {
		s := NewState()
		s.HomeScore = i
		h.Push(s)
	}

	if h.Len() != 3 {
		t.Fatalf("expected history capped at 3, got %d", h.Len())
	}
	scores := make([]int, 0, 3)
	for h.Len() > 0 {
		s, _ := h.Pop()
		scores = append(scores, s.HomeScore)
	}
	if scores[0] != 5 || scores[1] != 4 || scores[2] != 3 {
		t.Fatalf("expected newest three snapshots, got %v", scores)
	}
}

func TestHistorySnapshotsAreDetached(t *testing.T) {
	h := NewHistory(4)
	s := NewState()
	s.Sets = []models.SetRecord{{HomeScore: 25, AwayScore: 20, Completed: true}}
	h.Push(s)

	s.Sets[0].HomeScore = 0

	got, err := h.Pop()
	if err != nil {
		t.Fatalf("unexpected pop error: %v", err)
	}
	if got.Sets[0].HomeScore != 25 {
		t.Fatalf("snapshot shares memory with the pushed state: %+v", got.Sets)
	}
}

func TestHistoryClear(t *testing.T) {
	h := NewHistory(4)
	h.Push(NewState())
	h.Push(NewState())
	h.Clear()

	if h.Len() != 0 {
		t.Fatalf("expected empty history after clear, got %d", h.Len())
	}
}
