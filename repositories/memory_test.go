package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/courtline/scoring-system/models"
)

func TestMemoryMatchRepositoryRoundTrip(t *testing.T) {
	repo := NewMemoryMatchRepository()
	ctx := context.Background()

	match := &models.Match{
		ID:           "m1",
		HomeTeamName: "Eagles",
		AwayTeamName: "Sharks",
		CurrentSet:   1,
		Sets:         []models.SetRecord{},
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	if err := repo.Create(ctx, match); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "m1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.HomeTeamName != "Eagles" || !got.IsActive {
		t.Fatalf("unexpected match: %+v", got)
	}
}

func TestMemoryMatchRepositoryDetachesCopies(t *testing.T) {
	repo := NewMemoryMatchRepository()
	ctx := context.Background()

	match := &models.Match{
		ID:         "m1",
		CurrentSet: 2,
		Sets:       []models.SetRecord{{HomeScore: 25, AwayScore: 20, Completed: true}},
		IsActive:   true,
		CreatedAt:  time.Now(),
	}
	if err := repo.Create(ctx, match); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, _ := repo.GetByID(ctx, "m1")
	got.HomeScore = 99
	got.Sets[0].HomeScore = 0

	again, _ := repo.GetByID(ctx, "m1")
	if again.HomeScore != 0 || again.Sets[0].HomeScore != 25 {
		t.Fatalf("stored match was mutated through a returned copy: %+v", again)
	}
}

func TestMemoryMatchRepositoryListNewestFirst(t *testing.T) {
	repo := NewMemoryMatchRepository()
	ctx := context.Background()
	base := time.Now()

	for i, id := range []string{"old", "mid", "new"} {
		err := repo.Create(ctx, &models.Match{ID: id, CreatedAt: base.Add(time.Duration(i) * time.Minute)})
		if err != nil {
			t.Fatalf("create %s failed: %v", id, err)
		}
	}

	matches, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(matches) != 3 || matches[0].ID != "new" || matches[2].ID != "old" {
		t.Fatalf("expected newest-first ordering, got %v", []string{matches[0].ID, matches[1].ID, matches[2].ID})
	}
}

func TestMemoryMatchRepositoryUpdateUnknown(t *testing.T) {
	repo := NewMemoryMatchRepository()

	err := repo.Update(context.Background(), &models.Match{ID: "missing"})
	if !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("expected ErrMatchNotFound, got %v", err)
	}
}

func TestMemoryPlayerRepositoryListSortedByJersey(t *testing.T) {
	repo := NewMemoryPlayerRepository()
	ctx := context.Background()

	players := []*models.Player{
		{ID: "p1", GameID: "m1", JerseyNumber: 12, Name: "Ana"},
		{ID: "p2", GameID: "m1", JerseyNumber: 3, Name: "Bea"},
		{ID: "p3", GameID: "other", JerseyNumber: 1, Name: "Cam"},
	}
	for _, p := range players {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("create %s failed: %v", p.ID, err)
		}
	}

	got, err := repo.ListByGame(ctx, "m1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != "p2" || got[1].ID != "p1" {
		t.Fatalf("unexpected roster order: %+v", got)
	}
}

func TestMemoryPlayerRepositoryDeleteUnknown(t *testing.T) {
	repo := NewMemoryPlayerRepository()

	err := repo.Delete(context.Background(), "missing")
	if !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}
}
