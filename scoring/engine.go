package scoring

import (
	"errors"

	"github.com/courtline/scoring-system/models"
)

// Rules configures the win conditions of a match. The defaults mirror the
// 25-point, win-by-two convention for every set; FinalSetTarget lets the
// deciding set use a shorter target (15 in federation play) without touching
// the engine.
type Rules struct {
	SetTarget      int
	FinalSetTarget int
	MinLead        int
	MaxSets        int
	SetsToWin      int
}

func DefaultRules() Rules {
	return Rules{
		SetTarget:      25,
		FinalSetTarget: 25,
		MinLead:        2,
		MaxSets:        5,
		SetsToWin:      3,
	}
}

// State is the value the engine transitions over: the score-affecting slice
// of a match. States are immutable from the engine's point of view; Apply
// returns a fresh State and never touches its input.
type State struct {
	HomeScore  int
	AwayScore  int
	CurrentSet int
	Sets       []models.SetRecord
	IsActive   bool
}

func NewState() State {
	return State{CurrentSet: 1, IsActive: true}
}

// StateOf extracts the scoreboard fields of a match into a detached State.
func StateOf(m *models.Match) State {
	return State{
		HomeScore:  m.HomeScore,
		AwayScore:  m.AwayScore,
		CurrentSet: m.CurrentSet,
		Sets:       cloneSets(m.Sets),
		IsActive:   m.IsActive,
	}
}

// ApplyTo writes the state back onto a match record.
func (s State) ApplyTo(m *models.Match) {
	m.HomeScore = s.HomeScore
	m.AwayScore = s.AwayScore
	m.CurrentSet = s.CurrentSet
	m.Sets = cloneSets(s.Sets)
	m.IsActive = s.IsActive
}

func (s State) Clone() State {
	c := s
	c.Sets = cloneSets(s.Sets)
	return c
}

func cloneSets(sets []models.SetRecord) []models.SetRecord {
	out := make([]models.SetRecord, len(sets))
	copy(out, sets)
	return out
}

type EventType string

const (
	EventPointScored EventType = "point_scored"
	EventSetEnded    EventType = "set_ended"
	EventMatchEnded  EventType = "match_ended"
)

// Event is one scorer action. Team is only meaningful for EventPointScored.
type Event struct {
	Type EventType
	Team models.TeamSide
}

var (
	ErrMatchFinished = errors.New("match is no longer active")
	ErrUnknownTeam   = errors.New("unknown team side")
	ErrUnknownEvent  = errors.New("unknown scoring event")
	ErrNoPointsInSet = errors.New("cannot end a set before any point is scored")
)

// Engine is the match state machine. It is stateless and safe to share; all
// match data travels through Apply.
type Engine struct {
	rules Rules
}

func NewEngine(rules Rules) Engine {
	return Engine{rules: rules}
}

// Apply computes the successor state for one event. It either fully applies
// (point increment, optional set append, optional set advance, optional
// deactivation) or fails with no partial effect.
func (e Engine) Apply(state State, event Event) (State, error) {
	if !state.IsActive {
		return State{}, ErrMatchFinished
	}

	switch event.Type {
	case EventPointScored:
		if !event.Team.Valid() {
			return State{}, ErrUnknownTeam
		}
		next := state.Clone()
		if event.Team == models.TeamHome {
			next.HomeScore++
		} else {
			next.AwayScore++
		}
		if e.setWon(next) {
			return e.finishSet(next), nil
		}
		return next, nil

	case EventSetEnded:
		if state.HomeScore == 0 && state.AwayScore == 0 {
			return State{}, ErrNoPointsInSet
		}
		return e.finishSet(state.Clone()), nil

	case EventMatchEnded:
		next := state.Clone()
		next.IsActive = false
		return next, nil

	default:
		return State{}, ErrUnknownEvent
	}
}

func (e Engine) targetFor(setNumber int) int {
	if setNumber == e.rules.MaxSets && e.rules.FinalSetTarget > 0 {
		return e.rules.FinalSetTarget
	}
	return e.rules.SetTarget
}

func (e Engine) setWon(s State) bool {
	lead := s.HomeScore - s.AwayScore
	if lead < 0 {
		lead = -lead
	}
	high := s.HomeScore
	if s.AwayScore > high {
		high = s.AwayScore
	}
	return high >= e.targetFor(s.CurrentSet) && lead >= e.rules.MinLead
}

// finishSet records the running score as a completed set, then either ends
// the match or advances to the next set with the scores reset. The final
// scores of the winning set stay on the state when the match ends.
func (e Engine) finishSet(next State) State {
	next.Sets = append(next.Sets, models.SetRecord{
		HomeScore: next.HomeScore,
		AwayScore: next.AwayScore,
		Completed: true,
	})

	if e.matchOver(next) {
		next.IsActive = false
		return next
	}

	next.CurrentSet++
	next.HomeScore = 0
	next.AwayScore = 0
	return next
}

func (e Engine) matchOver(s State) bool {
	if s.CurrentSet >= e.rules.MaxSets {
		return true
	}
	home, away := SetWins(s.Sets)
	return home >= e.rules.SetsToWin || away >= e.rules.SetsToWin
}

// SetWins counts completed sets won by each side. Sets that ended level
// (possible through a manual set end) count for neither team.
func SetWins(sets []models.SetRecord) (home, away int) {
	for _, set := range sets {
		if !set.Completed {
			continue
		}
		switch {
		case set.HomeScore > set.AwayScore:
			home++
		case set.AwayScore > set.HomeScore:
			away++
		}
	}
	return home, away
}
