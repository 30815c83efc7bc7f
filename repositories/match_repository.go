package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/courtline/scoring-system/models"
)

var ErrMatchNotFound = errors.New("match not found")

// MatchRepository abstracts the storage of match records. The state machine
// never talks to storage directly; the match service reads through this
// interface and writes the whole record back in a single Update.
type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id string) (*models.Match, error)
	List(ctx context.Context) ([]*models.Match, error)
	Update(ctx context.Context, match *models.Match) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) Create(ctx context.Context, match *models.Match) error {
	setsJSON, err := json.Marshal(match.Sets)
	if err != nil {
		return fmt.Errorf("failed to marshal sets for match %s: %w", match.ID, err)
	}

	query := `
		INSERT INTO matches
			(id, home_team_name, away_team_name, current_set, home_score, away_score, sets, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.db.ExecContext(ctx, query,
		match.ID,
		match.HomeTeamName,
		match.AwayTeamName,
		match.CurrentSet,
		match.HomeScore,
		match.AwayScore,
		setsJSON,
		match.IsActive,
		match.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert match %s: %w", match.ID, err)
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id string) (*models.Match, error) {
	query := `
		SELECT id, home_team_name, away_team_name, current_set, home_score, away_score, sets, is_active, created_at
		FROM matches
		WHERE id = $1`

	return scanMatch(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) List(ctx context.Context) ([]*models.Match, error) {
	query := `
		SELECT id, home_team_name, away_team_name, current_set, home_score, away_score, sets, is_active, created_at
		FROM matches
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match, scanErr := scanMatchRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, match)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) Update(ctx context.Context, match *models.Match) error {
	setsJSON, err := json.Marshal(match.Sets)
	if err != nil {
		return fmt.Errorf("failed to marshal sets for match %s: %w", match.ID, err)
	}

	query := `
		UPDATE matches
		SET current_set = $1, home_score = $2, away_score = $3, sets = $4, is_active = $5
		WHERE id = $6`

	result, err := r.db.ExecContext(ctx, query,
		match.CurrentSet,
		match.HomeScore,
		match.AwayScore,
		setsJSON,
		match.IsActive,
		match.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update match %s: %w", match.ID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMatch(row rowScanner) (*models.Match, error) {
	match, err := scanMatchRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func scanMatchRow(row rowScanner) (*models.Match, error) {
	match := &models.Match{}
	var setsJSON []byte

	err := row.Scan(
		&match.ID,
		&match.HomeTeamName,
		&match.AwayTeamName,
		&match.CurrentSet,
		&match.HomeScore,
		&match.AwayScore,
		&setsJSON,
		&match.IsActive,
		&match.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan match row: %w", err)
	}

	if len(setsJSON) > 0 {
		if err := json.Unmarshal(setsJSON, &match.Sets); err != nil {
			return nil, fmt.Errorf("failed to unmarshal sets for match %s: %w", match.ID, err)
		}
	}
	if match.Sets == nil {
		match.Sets = []models.SetRecord{}
	}
	return match, nil
}
