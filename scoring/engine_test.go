package scoring

import (
	"errors"
	"testing"

	"github.com/courtline/scoring-system/models"
)

func pointTo(t *testing.T, e Engine, s State, team models.TeamSide) State {
	t.Helper()
	next, err := e.Apply(s, Event{Type: EventPointScored, Team: team})
	if err != nil {
		t.Fatalf("unexpected error applying point for %s: %v", team, err)
	}
	return next
}

func TestStraightSetWin(t *testing.T) {
	e := NewEngine(DefaultRules())
	s := NewState()

	for i := 0; i < 25; i++ {
		s = pointTo(t, e, s, models.TeamHome)
	}

	if len(s.Sets) != 1 {
		t.Fatalf("expected 1 completed set, got %d", len(s.Sets))
	}
	set := s.Sets[0]
	if set.HomeScore != 25 || set.AwayScore != 0 || !set.Completed {
		t.Fatalf("unexpected set record: %+v", set)
	}
	if s.CurrentSet != 2 {
		t.Fatalf("expected current set 2, got %d", s.CurrentSet)
	}
	if s.HomeScore != 0 || s.AwayScore != 0 {
		t.Fatalf("expected scores reset, got %d-%d", s.HomeScore, s.AwayScore)
	}
	if !s.IsActive {
		t.Fatalf("match should still be active after one set")
	}
}

func TestDeuceRequiresTwoPointLead(t *testing.T) {
	e := NewEngine(DefaultRules())
	s := NewState()
	s.HomeScore = 24
	s.AwayScore = 24

	s = pointTo(t, e, s, models.TeamHome) // 25-24, lead 1
	if len(s.Sets) != 0 {
		t.Fatalf("25-24 must not complete the set")
	}
	s = pointTo(t, e, s, models.TeamAway) // 25-25
	s = pointTo(t, e, s, models.TeamHome) // 26-25
	if len(s.Sets) != 0 {
		t.Fatalf("26-25 must not complete the set")
	}
	s = pointTo(t, e, s, models.TeamHome) // 27-25

	if len(s.Sets) != 1 {
		t.Fatalf("expected completed set after 27-25, got %d sets", len(s.Sets))
	}
	if s.Sets[0].HomeScore != 27 || s.Sets[0].AwayScore != 25 {
		t.Fatalf("unexpected final set score: %+v", s.Sets[0])
	}
}

func TestMatchEndsAtThreeSetWins(t *testing.T) {
	e := NewEngine(DefaultRules())
	s := NewState()
	s.CurrentSet = 3
	s.Sets = []models.SetRecord{
		{HomeScore: 25, AwayScore: 20, Completed: true},
		{HomeScore: 25, AwayScore: 23, Completed: true},
	}
	s.HomeScore = 24
	s.AwayScore = 10

	s = pointTo(t, e, s, models.TeamHome)

	if s.IsActive {
		t.Fatalf("match should end after the third set win")
	}
	if len(s.Sets) != 3 {
		t.Fatalf("expected 3 sets, got %d", len(s.Sets))
	}
	// Final scores stay as of the winning point, not reset.
	if s.CurrentSet != 3 || s.HomeScore != 25 || s.AwayScore != 10 {
		t.Fatalf("final state should be frozen, got set %d at %d-%d", s.CurrentSet, s.HomeScore, s.AwayScore)
	}
}

func TestFifthSetDecidesMatch(t *testing.T) {
	e := NewEngine(DefaultRules())
	s := NewState()
	s.CurrentSet = 5
	s.Sets = []models.SetRecord{
		{HomeScore: 25, AwayScore: 20, Completed: true},
		{HomeScore: 18, AwayScore: 25, Completed: true},
		{HomeScore: 25, AwayScore: 22, Completed: true},
		{HomeScore: 21, AwayScore: 25, Completed: true},
	}
	s.HomeScore = 24
	s.AwayScore = 10

	s = pointTo(t, e, s, models.TeamHome)

	if s.IsActive {
		t.Fatalf("fifth set win must end the match")
	}
	if len(s.Sets) != 5 {
		t.Fatalf("expected 5 sets, got %d", len(s.Sets))
	}
}

func TestFinalSetTargetOverride(t *testing.T) {
	rules := DefaultRules()
	rules.FinalSetTarget = 15
	e := NewEngine(rules)

	s := NewState()
	s.CurrentSet = 5
	s.Sets = []models.SetRecord{
		{HomeScore: 25, AwayScore: 20, Completed: true},
		{HomeScore: 18, AwayScore: 25, Completed: true},
		{HomeScore: 25, AwayScore: 22, Completed: true},
		{HomeScore: 21, AwayScore: 25, Completed: true},
	}
	s.HomeScore = 14
	s.AwayScore = 10

	s = pointTo(t, e, s, models.TeamHome)

	if s.IsActive || len(s.Sets) != 5 {
		t.Fatalf("15-10 should decide the match under a 15-point deciding set")
	}
	if s.Sets[4].HomeScore != 15 || s.Sets[4].AwayScore != 10 {
		t.Fatalf("unexpected deciding set record: %+v", s.Sets[4])
	}
}

func TestManualSetEndUsesRunningScore(t *testing.T) {
	e := NewEngine(DefaultRules())
	s := NewState()
	s.HomeScore = 10
	s.AwayScore = 7

	next, err := e.Apply(s, Event{Type: EventSetEnded})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(next.Sets) != 1 || next.Sets[0].HomeScore != 10 || next.Sets[0].AwayScore != 7 {
		t.Fatalf("manual set end should record the score as-is, got %+v", next.Sets)
	}
	if next.CurrentSet != 2 || next.HomeScore != 0 || next.AwayScore != 0 {
		t.Fatalf("expected advance to set 2 with reset scores")
	}
}

func TestManualSetEndRejectsEmptySet(t *testing.T) {
	e := NewEngine(DefaultRules())

	_, err := e.Apply(NewState(), Event{Type: EventSetEnded})
	if !errors.Is(err, ErrNoPointsInSet) {
		t.Fatalf("expected ErrNoPointsInSet, got %v", err)
	}
}

func TestInactiveStateRejectsEvents(t *testing.T) {
	e := NewEngine(DefaultRules())
	s := NewState()
	s.IsActive = false

	for _, typ := range []EventType{EventPointScored, EventSetEnded, EventMatchEnded} {
		if _, err := e.Apply(s, Event{Type: typ, Team: models.TeamHome}); !errors.Is(err, ErrMatchFinished) {
			t.Fatalf("event %s on inactive state: expected ErrMatchFinished, got %v", typ, err)
		}
	}
}

func TestUnknownTeamAndEvent(t *testing.T) {
	e := NewEngine(DefaultRules())

	if _, err := e.Apply(NewState(), Event{Type: EventPointScored, Team: "neutral"}); !errors.Is(err, ErrUnknownTeam) {
		t.Fatalf("expected ErrUnknownTeam, got %v", err)
	}
	if _, err := e.Apply(NewState(), Event{Type: "timeout"}); !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("expected ErrUnknownEvent, got %v", err)
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	e := NewEngine(DefaultRules())
	s := NewState()
	s.HomeScore = 24
	s.Sets = []models.SetRecord{{HomeScore: 25, AwayScore: 19, Completed: true}}

	next := pointTo(t, e, s, models.TeamHome)

	if s.HomeScore != 24 || len(s.Sets) != 1 {
		t.Fatalf("input state was mutated: %+v", s)
	}
	if len(next.Sets) != 2 {
		t.Fatalf("expected the winning point to append a set, got %d", len(next.Sets))
	}
	next.Sets[0].HomeScore = 0
	if s.Sets[0].HomeScore != 25 {
		t.Fatalf("result state shares the input's sets slice")
	}
}

func TestScoresNeverNegative(t *testing.T) {
	e := NewEngine(DefaultRules())
	s := NewState()
	for i := 0; i < 200; i++ {
		team := models.TeamHome
		if i%3 == 0 {
			team = models.TeamAway
		}
		var err error
		s, err = e.Apply(s, Event{Type: EventPointScored, Team: team})
		if err != nil {
			break // match decided
		}
		if s.HomeScore < 0 || s.AwayScore < 0 {
			t.Fatalf("negative running score: %d-%d", s.HomeScore, s.AwayScore)
		}
	}
}
