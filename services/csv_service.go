package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/courtline/scoring-system/models"
	"github.com/courtline/scoring-system/repositories"
	"github.com/google/uuid"
)

// Roster CSV columns. Position and Jersey Number are optional extras; the
// six stat columns and the identity columns are required.
const (
	colPlayerName = "player name"
	colTeam       = "team"
	colPosition   = "position"
	colJersey     = "jersey number"
)

var requiredRosterColumns = []string{
	colPlayerName, colTeam, "kills", "assists", "digs", "blocks", "aces", "errors",
}

type CSVService interface {
	// ImportRoster parses a roster CSV and creates one player per data row.
	// The whole file is validated before any player is created.
	ImportRoster(ctx context.Context, gameID string, r io.Reader) ([]*models.Player, error)

	// ExportPlayerStats and ExportSetScores render CSV documents plus a
	// suggested download filename.
	ExportPlayerStats(ctx context.Context, gameID string) ([]byte, string, error)
	ExportSetScores(ctx context.Context, gameID string) ([]byte, string, error)
}

type csvService struct {
	matchRepo  repositories.MatchRepository
	playerRepo repositories.PlayerRepository
}

func NewCSVService(matchRepo repositories.MatchRepository, playerRepo repositories.PlayerRepository) CSVService {
	return &csvService{
		matchRepo:  matchRepo,
		playerRepo: playerRepo,
	}
}

func (s *csvService) ImportRoster(ctx context.Context, gameID string, r io.Reader) ([]*models.Player, error) {
	match, err := s.matchRepo.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %s: %w", gameID, err)
	}
	if !match.IsActive {
		return nil, ErrMatchEnded
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // rows are validated against the header below

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportFormat, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrImportFormat)
	}

	columns, err := rosterColumnIndex(records[0])
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: no player rows", ErrImportFormat)
	}

	players := make([]*models.Player, 0, len(records)-1)
	for i, row := range records[1:] {
		player, err := parseRosterRow(match.ID, row, columns)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrImportFormat, i+2, err)
		}
		players = append(players, player)
	}

	for _, player := range players {
		if err := s.playerRepo.Create(ctx, player); err != nil {
			return nil, fmt.Errorf("failed to create imported player %q: %w", player.Name, err)
		}
	}
	return players, nil
}

func rosterColumnIndex(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, cell := range header {
		columns[strings.ToLower(strings.TrimSpace(cell))] = i
	}
	for _, required := range requiredRosterColumns {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: missing %q column", ErrImportFormat, required)
		}
	}
	return columns, nil
}

func parseRosterRow(gameID string, row []string, columns map[string]int) (*models.Player, error) {
	cell := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	name := cell(colPlayerName)
	if name == "" {
		return nil, errors.New("player name is empty")
	}

	team := models.TeamSide(strings.ToLower(cell(colTeam)))
	if !team.Valid() {
		return nil, fmt.Errorf("team must be home or away, got %q", cell(colTeam))
	}

	position := cell(colPosition)
	if position == "" {
		position = "Unknown"
	}

	jersey, err := parseStatCell(cell(colJersey))
	if err != nil {
		return nil, fmt.Errorf("jersey number: %v", err)
	}

	player := &models.Player{
		ID:           uuid.NewString(),
		GameID:       gameID,
		TeamType:     team,
		JerseyNumber: jersey,
		Name:         name,
		Position:     position,
	}
	for _, stat := range models.AllStatTypes {
		value, err := parseStatCell(cell(string(stat)))
		if err != nil {
			return nil, fmt.Errorf("%s: %v", stat, err)
		}
		player.SetStat(stat, value)
	}
	return player, nil
}

func parseStatCell(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	if value < 0 {
		return 0, fmt.Errorf("must not be negative: %d", value)
	}
	return value, nil
}

func (s *csvService) ExportPlayerStats(ctx context.Context, gameID string) ([]byte, string, error) {
	match, err := s.matchRepo.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, "", ErrMatchNotFound
		}
		return nil, "", fmt.Errorf("failed to load match %s: %w", gameID, err)
	}

	players, err := s.playerRepo.ListByGame(ctx, gameID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list players for match %s: %w", gameID, err)
	}

	data, err := buildPlayerStatsCSV(players)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("volleyball-stats-%s-vs-%s.csv", match.HomeTeamName, match.AwayTeamName)
	return data, filename, nil
}

func (s *csvService) ExportSetScores(ctx context.Context, gameID string) ([]byte, string, error) {
	match, err := s.matchRepo.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, "", ErrMatchNotFound
		}
		return nil, "", fmt.Errorf("failed to load match %s: %w", gameID, err)
	}

	data, err := buildSetScoresCSV(match)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("volleyball-set-scores-%s-vs-%s.csv", match.HomeTeamName, match.AwayTeamName)
	return data, filename, nil
}

func buildPlayerStatsCSV(players []*models.Player) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Player Name", "Team", "Kills", "Assists", "Digs", "Blocks", "Aces", "Errors"}); err != nil {
		return nil, fmt.Errorf("failed to write stats header: %w", err)
	}
	for _, p := range players {
		row := []string{
			p.Name,
			string(p.TeamType),
			strconv.Itoa(p.Kills),
			strconv.Itoa(p.Assists),
			strconv.Itoa(p.Digs),
			strconv.Itoa(p.Blocks),
			strconv.Itoa(p.Aces),
			strconv.Itoa(p.Errors),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write stats row for %q: %w", p.Name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush stats CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func buildSetScoresCSV(match *models.Match) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Set", "Home Score", "Away Score", "Completed"}); err != nil {
		return nil, fmt.Errorf("failed to write set scores header: %w", err)
	}
	for i, set := range match.Sets {
		completed := "No"
		if set.Completed {
			completed = "Yes"
		}
		row := []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(set.HomeScore),
			strconv.Itoa(set.AwayScore),
			completed,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write set scores row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush set scores CSV: %w", err)
	}
	return buf.Bytes(), nil
}
