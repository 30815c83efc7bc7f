package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/courtline/scoring-system/models"
	"github.com/courtline/scoring-system/repositories"
	"golang.org/x/sync/errgroup"
)

// SummaryService is the read side: it aggregates a match and its roster into
// a report without mutating anything.
type SummaryService interface {
	MatchSummary(ctx context.Context, gameID string) (*models.MatchSummary, error)
}

type summaryService struct {
	matchRepo  repositories.MatchRepository
	playerRepo repositories.PlayerRepository
}

func NewSummaryService(matchRepo repositories.MatchRepository, playerRepo repositories.PlayerRepository) SummaryService {
	return &summaryService{
		matchRepo:  matchRepo,
		playerRepo: playerRepo,
	}
}

func (s *summaryService) MatchSummary(ctx context.Context, gameID string) (*models.MatchSummary, error) {
	var (
		match   *models.Match
		players []*models.Player
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		match, err = s.matchRepo.GetByID(gctx, gameID)
		return err
	})
	g.Go(func() error {
		var err error
		players, err = s.playerRepo.ListByGame(gctx, gameID)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load summary for match %s: %w", gameID, err)
	}

	setLines := make([]models.SetLine, 0, len(match.Sets))
	for i, set := range match.Sets {
		setLines = append(setLines, models.SetLine{
			SetNumber: i + 1,
			HomeScore: set.HomeScore,
			AwayScore: set.AwayScore,
			Completed: set.Completed,
		})
	}

	return &models.MatchSummary{
		Game:    match,
		Home:    teamTotals(players, models.TeamHome),
		Away:    teamTotals(players, models.TeamAway),
		Sets:    setLines,
		Players: players,
	}, nil
}

func teamTotals(players []*models.Player, side models.TeamSide) models.TeamStatTotals {
	var totals models.TeamStatTotals
	for _, p := range players {
		if p.TeamType != side {
			continue
		}
		totals.Kills += p.Kills
		totals.Assists += p.Assists
		totals.Digs += p.Digs
		totals.Blocks += p.Blocks
		totals.Aces += p.Aces
		totals.Errors += p.Errors
	}
	// Errors are excluded from the points total on purpose.
	totals.Points = totals.Kills + totals.Assists + totals.Digs + totals.Blocks + totals.Aces
	return totals
}
