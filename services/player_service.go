package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/courtline/scoring-system/models"
	"github.com/courtline/scoring-system/repositories"
	"github.com/google/uuid"
)

type CreatePlayerInput struct {
	GameID       string          `json:"gameId"`
	TeamType     models.TeamSide `json:"teamType"`
	JerseyNumber int             `json:"jerseyNumber"`
	Name         string          `json:"name"`
	Position     string          `json:"position"`
}

type UpdatePlayerStatsInput struct {
	PlayerID  string          `json:"playerId"`
	StatType  models.StatType `json:"statType"`
	Increment bool            `json:"increment"`
}

type PlayerService interface {
	CreatePlayer(ctx context.Context, input CreatePlayerInput) (*models.Player, error)
	ListByMatch(ctx context.Context, gameID string) ([]*models.Player, error)
	AdjustStat(ctx context.Context, input UpdatePlayerStatsInput) (*models.Player, error)
	DeletePlayer(ctx context.Context, id string) error
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	matchRepo  repositories.MatchRepository
}

func NewPlayerService(playerRepo repositories.PlayerRepository, matchRepo repositories.MatchRepository) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
		matchRepo:  matchRepo,
	}
}

func (s *playerService) CreatePlayer(ctx context.Context, input CreatePlayerInput) (*models.Player, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrPlayerNameRequired
	}
	if !input.TeamType.Valid() {
		return nil, ErrUnknownTeamSide
	}
	if input.JerseyNumber < 0 {
		return nil, ErrJerseyNumberNegative
	}

	match, err := s.matchRepo.GetByID(ctx, input.GameID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %s: %w", input.GameID, err)
	}
	if !match.IsActive {
		return nil, ErrMatchEnded
	}

	player := &models.Player{
		ID:           uuid.NewString(),
		GameID:       match.ID,
		TeamType:     input.TeamType,
		JerseyNumber: input.JerseyNumber,
		Name:         strings.TrimSpace(input.Name),
		Position:     strings.TrimSpace(input.Position),
	}

	if err := s.playerRepo.Create(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerGameInvalid) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	return player, nil
}

func (s *playerService) ListByMatch(ctx context.Context, gameID string) ([]*models.Player, error) {
	if _, err := s.matchRepo.GetByID(ctx, gameID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %s: %w", gameID, err)
	}

	players, err := s.playerRepo.ListByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players for match %s: %w", gameID, err)
	}
	return players, nil
}

// AdjustStat moves one counter by one. Increments are unbounded; decrements
// floor at zero, so repeated decrements at zero stay a no-op.
func (s *playerService) AdjustStat(ctx context.Context, input UpdatePlayerStatsInput) (*models.Player, error) {
	if !input.StatType.Valid() {
		return nil, ErrUnknownStatType
	}

	player, err := s.playerRepo.GetByID(ctx, input.PlayerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to load player %s: %w", input.PlayerID, err)
	}

	value := player.Stat(input.StatType)
	if input.Increment {
		value++
	} else if value > 0 {
		value--
	}
	player.SetStat(input.StatType, value)

	if err := s.playerRepo.Update(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to update player %s: %w", input.PlayerID, err)
	}
	return player, nil
}

func (s *playerService) DeletePlayer(ctx context.Context, id string) error {
	if err := s.playerRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to delete player %s: %w", id, err)
	}
	return nil
}
