package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/courtline/scoring-system/models"
	"github.com/courtline/scoring-system/repositories"
	"github.com/courtline/scoring-system/scoring"
)

func newTestMatchService() MatchService {
	return NewMatchService(
		repositories.NewMemoryMatchRepository(),
		repositories.NewMemoryPlayerRepository(),
		scoring.NewEngine(scoring.DefaultRules()),
		nil,
		nil,
		nil,
	)
}

func createTestMatch(t *testing.T, svc MatchService) *models.Match {
	t.Helper()
	match, err := svc.CreateMatch(context.Background(), CreateMatchInput{
		HomeTeamName: "Eagles",
		AwayTeamName: "Sharks",
	})
	if err != nil {
		t.Fatalf("create match failed: %v", err)
	}
	return match
}

func TestCreateMatchValidation(t *testing.T) {
	svc := newTestMatchService()

	_, err := svc.CreateMatch(context.Background(), CreateMatchInput{HomeTeamName: "  ", AwayTeamName: "Sharks"})
	if !errors.Is(err, ErrTeamNamesRequired) {
		t.Fatalf("expected ErrTeamNamesRequired, got %v", err)
	}
}

func TestCreateMatchInitialState(t *testing.T) {
	svc := newTestMatchService()
	match := createTestMatch(t, svc)

	if match.CurrentSet != 1 || match.HomeScore != 0 || match.AwayScore != 0 {
		t.Fatalf("unexpected initial scoreboard: %+v", match)
	}
	if !match.IsActive || len(match.Sets) != 0 || match.ID == "" {
		t.Fatalf("unexpected initial match: %+v", match)
	}
}

func TestRecordPointPersists(t *testing.T) {
	svc := newTestMatchService()
	match := createTestMatch(t, svc)
	ctx := context.Background()

	if _, err := svc.RecordPoint(ctx, match.ID, models.TeamAway); err != nil {
		t.Fatalf("record point failed: %v", err)
	}

	got, err := svc.GetMatch(ctx, match.ID)
	if err != nil {
		t.Fatalf("get match failed: %v", err)
	}
	if got.HomeScore != 0 || got.AwayScore != 1 {
		t.Fatalf("expected 0-1, got %d-%d", got.HomeScore, got.AwayScore)
	}
}

func TestRecordPointUnknownMatch(t *testing.T) {
	svc := newTestMatchService()

	_, err := svc.RecordPoint(context.Background(), "missing", models.TeamHome)
	if !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("expected ErrMatchNotFound, got %v", err)
	}
}

func TestSetCompletionThroughService(t *testing.T) {
	svc := newTestMatchService()
	match := createTestMatch(t, svc)
	ctx := context.Background()

	var got *models.Match
	var err error
	for i := 0; i < 25; i++ {
		got, err = svc.RecordPoint(ctx, match.ID, models.TeamHome)
		if err != nil {
			t.Fatalf("point %d failed: %v", i+1, err)
		}
	}

	if len(got.Sets) != 1 || got.Sets[0].HomeScore != 25 || got.Sets[0].AwayScore != 0 || !got.Sets[0].Completed {
		t.Fatalf("unexpected set record: %+v", got.Sets)
	}
	if got.CurrentSet != 2 || got.HomeScore != 0 || got.AwayScore != 0 {
		t.Fatalf("expected fresh set 2, got set %d at %d-%d", got.CurrentSet, got.HomeScore, got.AwayScore)
	}
}

func TestPointThenUndoIsIdentity(t *testing.T) {
	svc := newTestMatchService()
	match := createTestMatch(t, svc)
	ctx := context.Background()

	// Put the match in a non-trivial state first.
	if _, err := svc.UpdateScore(ctx, match.ID, UpdateScoreInput{HomeScore: 24, AwayScore: 20, CurrentSet: 2}); err != nil {
		t.Fatalf("update score failed: %v", err)
	}
	before, err := svc.GetMatch(ctx, match.ID)
	if err != nil {
		t.Fatalf("get match failed: %v", err)
	}

	// The winning point appends a set and resets scores; undo must revert
	// the whole transition.
	if _, err := svc.RecordPoint(ctx, match.ID, models.TeamHome); err != nil {
		t.Fatalf("record point failed: %v", err)
	}
	after, err := svc.Undo(ctx, match.ID)
	if err != nil {
		t.Fatalf("undo failed: %v", err)
	}

	if after.HomeScore != before.HomeScore || after.AwayScore != before.AwayScore ||
		after.CurrentSet != before.CurrentSet || !reflect.DeepEqual(after.Sets, before.Sets) {
		t.Fatalf("undo did not restore the prior state:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestUndoWithEmptyHistoryIsNoOp(t *testing.T) {
	svc := newTestMatchService()
	match := createTestMatch(t, svc)

	got, err := svc.Undo(context.Background(), match.ID)
	if err != nil {
		t.Fatalf("undo on empty history should be a no-op, got %v", err)
	}
	if got.HomeScore != 0 || got.AwayScore != 0 || got.CurrentSet != 1 {
		t.Fatalf("no-op undo changed the match: %+v", got)
	}
}

func TestEndedMatchRejectsMutations(t *testing.T) {
	svc := newTestMatchService()
	match := createTestMatch(t, svc)
	ctx := context.Background()

	if _, err := svc.EndMatch(ctx, match.ID); err != nil {
		t.Fatalf("end match failed: %v", err)
	}

	if _, err := svc.RecordPoint(ctx, match.ID, models.TeamHome); !errors.Is(err, ErrMatchEnded) {
		t.Fatalf("point on ended match: expected ErrMatchEnded, got %v", err)
	}
	if _, err := svc.EndSet(ctx, match.ID); !errors.Is(err, ErrMatchEnded) {
		t.Fatalf("set end on ended match: expected ErrMatchEnded, got %v", err)
	}
	if _, err := svc.Undo(ctx, match.ID); !errors.Is(err, ErrMatchEnded) {
		t.Fatalf("undo on ended match: expected ErrMatchEnded, got %v", err)
	}
	if _, err := svc.UpdateScore(ctx, match.ID, UpdateScoreInput{CurrentSet: 1}); !errors.Is(err, ErrMatchEnded) {
		t.Fatalf("score update on ended match: expected ErrMatchEnded, got %v", err)
	}
}

func TestEndMatchIsIdempotent(t *testing.T) {
	svc := newTestMatchService()
	match := createTestMatch(t, svc)
	ctx := context.Background()

	first, err := svc.EndMatch(ctx, match.ID)
	if err != nil {
		t.Fatalf("first end failed: %v", err)
	}
	second, err := svc.EndMatch(ctx, match.ID)
	if err != nil {
		t.Fatalf("second end should be a no-op, got %v", err)
	}
	if first.IsActive || second.IsActive {
		t.Fatalf("match still active after end")
	}
}

func TestThreeSetSweepEndsMatch(t *testing.T) {
	svc := newTestMatchService()
	match := createTestMatch(t, svc)
	ctx := context.Background()

	var got *models.Match
	var err error
	for set := 0; set < 3; set++ {
		for point := 0; point < 25; point++ {
			got, err = svc.RecordPoint(ctx, match.ID, models.TeamHome)
			if err != nil {
				t.Fatalf("set %d point %d failed: %v", set+1, point+1, err)
			}
		}
	}

	if got.IsActive {
		t.Fatalf("match should end after a 3-0 sweep")
	}
	if len(got.Sets) != 3 {
		t.Fatalf("expected 3 sets, got %d", len(got.Sets))
	}
	if _, err := svc.RecordPoint(ctx, match.ID, models.TeamHome); !errors.Is(err, ErrMatchEnded) {
		t.Fatalf("expected ErrMatchEnded after sweep, got %v", err)
	}
}

func TestUpdateScoreValidation(t *testing.T) {
	svc := newTestMatchService()
	match := createTestMatch(t, svc)
	ctx := context.Background()

	if _, err := svc.UpdateScore(ctx, match.ID, UpdateScoreInput{HomeScore: -1, CurrentSet: 1}); !errors.Is(err, ErrNegativeScore) {
		t.Fatalf("expected ErrNegativeScore, got %v", err)
	}
	if _, err := svc.UpdateScore(ctx, match.ID, UpdateScoreInput{CurrentSet: 6}); !errors.Is(err, ErrSetNumberOutOfRange) {
		t.Fatalf("expected ErrSetNumberOutOfRange, got %v", err)
	}
	if _, err := svc.UpdateSets(ctx, match.ID, UpdateSetsInput{Sets: []models.SetRecord{{HomeScore: -2}}}); !errors.Is(err, ErrNegativeScore) {
		t.Fatalf("expected ErrNegativeScore for sets, got %v", err)
	}
}

func TestManualEndSetRejectsEmptySet(t *testing.T) {
	svc := newTestMatchService()
	match := createTestMatch(t, svc)

	_, err := svc.EndSet(context.Background(), match.ID)
	if !errors.Is(err, ErrEmptySetEnd) {
		t.Fatalf("expected ErrEmptySetEnd, got %v", err)
	}
}

func TestRecordPointUnknownTeam(t *testing.T) {
	svc := newTestMatchService()
	match := createTestMatch(t, svc)

	_, err := svc.RecordPoint(context.Background(), match.ID, "neutral")
	if !errors.Is(err, ErrUnknownTeamSide) {
		t.Fatalf("expected ErrUnknownTeamSide, got %v", err)
	}
}
