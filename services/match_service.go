package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/courtline/scoring-system/models"
	"github.com/courtline/scoring-system/repositories"
	"github.com/courtline/scoring-system/scoring"
	"github.com/courtline/scoring-system/storage"
	"github.com/google/uuid"
)

// ScoreboardBroadcaster pushes committed match updates to live viewers.
// Implemented by scoreboard.Hub; nil disables broadcasting.
type ScoreboardBroadcaster interface {
	BroadcastMatchUpdate(match *models.Match)
}

type CreateMatchInput struct {
	HomeTeamName string `json:"homeTeamName"`
	AwayTeamName string `json:"awayTeamName"`
}

type UpdateScoreInput struct {
	HomeScore  int `json:"homeScore"`
	AwayScore  int `json:"awayScore"`
	CurrentSet int `json:"currentSet"`
}

type UpdateSetsInput struct {
	Sets []models.SetRecord `json:"sets"`
}

type MatchService interface {
	CreateMatch(ctx context.Context, input CreateMatchInput) (*models.Match, error)
	GetMatch(ctx context.Context, id string) (*models.Match, error)
	ListMatches(ctx context.Context) ([]*models.Match, error)

	// State machine operations. Each one snapshots the prior state before
	// persisting, so Undo can revert it.
	RecordPoint(ctx context.Context, id string, team models.TeamSide) (*models.Match, error)
	EndSet(ctx context.Context, id string) (*models.Match, error)
	EndMatch(ctx context.Context, id string) (*models.Match, error)
	Undo(ctx context.Context, id string) (*models.Match, error)

	// Manual scorer corrections, kept undoable like engine transitions.
	UpdateScore(ctx context.Context, id string, input UpdateScoreInput) (*models.Match, error)
	UpdateSets(ctx context.Context, id string, input UpdateSetsInput) (*models.Match, error)
}

type matchService struct {
	matchRepo  repositories.MatchRepository
	playerRepo repositories.PlayerRepository
	engine     scoring.Engine
	hub        ScoreboardBroadcaster
	uploader   storage.FileUploader
	logger     *slog.Logger

	// Undo histories are per-session state for the single scorer, keyed by
	// match ID. They are not persisted.
	mu        sync.Mutex
	histories map[string]*scoring.History
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	playerRepo repositories.PlayerRepository,
	engine scoring.Engine,
	hub ScoreboardBroadcaster,
	uploader storage.FileUploader,
	logger *slog.Logger,
) MatchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &matchService{
		matchRepo:  matchRepo,
		playerRepo: playerRepo,
		engine:     engine,
		hub:        hub,
		uploader:   uploader,
		logger:     logger,
		histories:  make(map[string]*scoring.History),
	}
}

func (s *matchService) CreateMatch(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	home := strings.TrimSpace(input.HomeTeamName)
	away := strings.TrimSpace(input.AwayTeamName)
	if home == "" || away == "" {
		return nil, ErrTeamNamesRequired
	}

	match := &models.Match{
		ID:           uuid.NewString(),
		HomeTeamName: home,
		AwayTeamName: away,
		Sets:         []models.SetRecord{},
		CreatedAt:    time.Now().UTC(),
	}
	scoring.NewState().ApplyTo(match)

	if err := s.matchRepo.Create(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	s.logger.Info("match created",
		slog.String("match_id", match.ID),
		slog.String("home", home),
		slog.String("away", away),
	)
	return match, nil
}

func (s *matchService) GetMatch(ctx context.Context, id string) (*models.Match, error) {
	return s.loadMatch(ctx, id)
}

func (s *matchService) ListMatches(ctx context.Context) ([]*models.Match, error) {
	matches, err := s.matchRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

func (s *matchService) RecordPoint(ctx context.Context, id string, team models.TeamSide) (*models.Match, error) {
	if !team.Valid() {
		return nil, ErrUnknownTeamSide
	}
	return s.applyEvent(ctx, id, scoring.Event{Type: scoring.EventPointScored, Team: team})
}

func (s *matchService) EndSet(ctx context.Context, id string) (*models.Match, error) {
	return s.applyEvent(ctx, id, scoring.Event{Type: scoring.EventSetEnded})
}

func (s *matchService) EndMatch(ctx context.Context, id string) (*models.Match, error) {
	match, err := s.loadMatch(ctx, id)
	if err != nil {
		return nil, err
	}
	// Ending an already-ended match is a no-op.
	if !match.IsActive {
		return match, nil
	}

	next, err := s.engine.Apply(scoring.StateOf(match), scoring.Event{Type: scoring.EventMatchEnded})
	if err != nil {
		return nil, s.mapEngineError(err)
	}
	next.ApplyTo(match)

	if err := s.matchRepo.Update(ctx, match); err != nil {
		return nil, s.mapRepoError(err, match.ID)
	}

	// A forced end is not undoable; drop the per-match history.
	s.history(match.ID).Clear()
	s.afterTransition(ctx, match)
	return match, nil
}

// applyEvent runs one engine transition: snapshot, apply, persist, then push
// the snapshot so a failed persist leaves the history untouched.
func (s *matchService) applyEvent(ctx context.Context, id string, event scoring.Event) (*models.Match, error) {
	match, err := s.loadMatch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !match.IsActive {
		return nil, ErrMatchEnded
	}

	prior := scoring.StateOf(match)
	next, err := s.engine.Apply(prior, event)
	if err != nil {
		return nil, s.mapEngineError(err)
	}
	next.ApplyTo(match)

	if err := s.matchRepo.Update(ctx, match); err != nil {
		return nil, s.mapRepoError(err, match.ID)
	}

	s.history(match.ID).Push(prior)
	s.afterTransition(ctx, match)
	return match, nil
}

func (s *matchService) Undo(ctx context.Context, id string) (*models.Match, error) {
	match, err := s.loadMatch(ctx, id)
	if err != nil {
		return nil, err
	}
	// Undo never resurrects an ended match.
	if !match.IsActive {
		return nil, ErrMatchEnded
	}

	h := s.history(match.ID)
	prior, err := h.Pop()
	if err != nil {
		// Empty history: undo is a no-op, not an error.
		return match, nil
	}
	prior.ApplyTo(match)

	if err := s.matchRepo.Update(ctx, match); err != nil {
		h.Push(prior) // keep the snapshot so the scorer can retry
		return nil, s.mapRepoError(err, match.ID)
	}

	if s.hub != nil {
		s.hub.BroadcastMatchUpdate(match)
	}
	return match, nil
}

func (s *matchService) UpdateScore(ctx context.Context, id string, input UpdateScoreInput) (*models.Match, error) {
	if input.HomeScore < 0 || input.AwayScore < 0 {
		return nil, ErrNegativeScore
	}
	if input.CurrentSet < 1 || input.CurrentSet > 5 {
		return nil, ErrSetNumberOutOfRange
	}

	return s.applyCorrection(ctx, id, func(match *models.Match) {
		match.HomeScore = input.HomeScore
		match.AwayScore = input.AwayScore
		match.CurrentSet = input.CurrentSet
	})
}

func (s *matchService) UpdateSets(ctx context.Context, id string, input UpdateSetsInput) (*models.Match, error) {
	for _, set := range input.Sets {
		if set.HomeScore < 0 || set.AwayScore < 0 {
			return nil, ErrNegativeScore
		}
	}

	sets := make([]models.SetRecord, len(input.Sets))
	copy(sets, input.Sets)
	return s.applyCorrection(ctx, id, func(match *models.Match) {
		match.Sets = sets
	})
}

func (s *matchService) applyCorrection(ctx context.Context, id string, mutate func(*models.Match)) (*models.Match, error) {
	match, err := s.loadMatch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !match.IsActive {
		return nil, ErrMatchEnded
	}

	prior := scoring.StateOf(match)
	mutate(match)

	if err := s.matchRepo.Update(ctx, match); err != nil {
		return nil, s.mapRepoError(err, match.ID)
	}

	s.history(match.ID).Push(prior)
	if s.hub != nil {
		s.hub.BroadcastMatchUpdate(match)
	}
	return match, nil
}

func (s *matchService) loadMatch(ctx context.Context, id string) (*models.Match, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrValidationFailed)
	}
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id)
	}
	return match, nil
}

func (s *matchService) history(matchID string) *scoring.History {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.histories[matchID]
	if !ok {
		h = scoring.NewHistory(scoring.DefaultHistoryLimit)
		s.histories[matchID] = h
	}
	return h
}

func (s *matchService) afterTransition(ctx context.Context, match *models.Match) {
	if s.hub != nil {
		s.hub.BroadcastMatchUpdate(match)
	}
	if !match.IsActive {
		s.history(match.ID).Clear()
		s.archiveExports(ctx, match)
	}
}

// archiveExports uploads the CSV exports of a finished match. Best effort:
// failures are logged, never surfaced to the scorer.
func (s *matchService) archiveExports(ctx context.Context, match *models.Match) {
	if s.uploader == nil {
		return
	}

	setsCSV, err := buildSetScoresCSV(match)
	if err != nil {
		s.logger.Error("failed to build set scores export", slog.String("match_id", match.ID), slog.Any("error", err))
		return
	}
	setsKey := fmt.Sprintf("exports/%s/set-scores.csv", match.ID)
	if _, err := s.uploader.Upload(ctx, setsKey, "text/csv", bytes.NewReader(setsCSV)); err != nil {
		s.logger.Error("failed to archive set scores", slog.String("match_id", match.ID), slog.Any("error", err))
	}

	players, err := s.playerRepo.ListByGame(ctx, match.ID)
	if err != nil {
		s.logger.Error("failed to load roster for archive", slog.String("match_id", match.ID), slog.Any("error", err))
		return
	}
	statsCSV, err := buildPlayerStatsCSV(players)
	if err != nil {
		s.logger.Error("failed to build player stats export", slog.String("match_id", match.ID), slog.Any("error", err))
		return
	}
	statsKey := fmt.Sprintf("exports/%s/player-stats.csv", match.ID)
	if _, err := s.uploader.Upload(ctx, statsKey, "text/csv", bytes.NewReader(statsCSV)); err != nil {
		s.logger.Error("failed to archive player stats", slog.String("match_id", match.ID), slog.Any("error", err))
	}
}

func (s *matchService) mapEngineError(err error) error {
	switch {
	case errors.Is(err, scoring.ErrMatchFinished):
		return ErrMatchEnded
	case errors.Is(err, scoring.ErrUnknownTeam):
		return ErrUnknownTeamSide
	case errors.Is(err, scoring.ErrNoPointsInSet):
		return ErrEmptySetEnd
	default:
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
}

func (s *matchService) mapRepoError(err error, matchID string) error {
	if errors.Is(err, repositories.ErrMatchNotFound) {
		return ErrMatchNotFound
	}
	return fmt.Errorf("storage failure for match %s: %w", matchID, err)
}
