package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtline/scoring-system/models"
	"github.com/lib/pq"
)

var (
	ErrPlayerNotFound    = errors.New("player not found")
	ErrPlayerGameInvalid = errors.New("player references an unknown match")
)

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id string) (*models.Player, error)
	ListByGame(ctx context.Context, gameID string) ([]*models.Player, error)
	Update(ctx context.Context, player *models.Player) error
	Delete(ctx context.Context, id string) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players
			(id, game_id, team_type, jersey_number, name, position,
			 kills, assists, digs, blocks, aces, errors)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		player.ID,
		player.GameID,
		player.TeamType,
		player.JerseyNumber,
		player.Name,
		player.Position,
		player.Kills,
		player.Assists,
		player.Digs,
		player.Blocks,
		player.Aces,
		player.Errors,
	)
	return r.handlePlayerError(err)
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id string) (*models.Player, error) {
	query := `
		SELECT id, game_id, team_type, jersey_number, name, position,
		       kills, assists, digs, blocks, aces, errors
		FROM players
		WHERE id = $1`

	player := &models.Player{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&player.ID,
		&player.GameID,
		&player.TeamType,
		&player.JerseyNumber,
		&player.Name,
		&player.Position,
		&player.Kills,
		&player.Assists,
		&player.Digs,
		&player.Blocks,
		&player.Aces,
		&player.Errors,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan player by id %s: %w", id, err)
	}
	return player, nil
}

func (r *postgresPlayerRepository) ListByGame(ctx context.Context, gameID string) ([]*models.Player, error) {
	query := `
		SELECT id, game_id, team_type, jersey_number, name, position,
		       kills, assists, digs, blocks, aces, errors
		FROM players
		WHERE game_id = $1
		ORDER BY jersey_number ASC, name ASC`

	rows, err := r.db.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query players for match %s: %w", gameID, err)
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		player := &models.Player{}
		if scanErr := rows.Scan(
			&player.ID,
			&player.GameID,
			&player.TeamType,
			&player.JerseyNumber,
			&player.Name,
			&player.Position,
			&player.Kills,
			&player.Assists,
			&player.Digs,
			&player.Blocks,
			&player.Aces,
			&player.Errors,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", scanErr)
		}
		players = append(players, player)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during player rows iteration: %w", err)
	}
	return players, nil
}

func (r *postgresPlayerRepository) Update(ctx context.Context, player *models.Player) error {
	query := `
		UPDATE players
		SET jersey_number = $1, name = $2, position = $3,
		    kills = $4, assists = $5, digs = $6, blocks = $7, aces = $8, errors = $9
		WHERE id = $10`

	result, err := r.db.ExecContext(ctx, query,
		player.JerseyNumber,
		player.Name,
		player.Position,
		player.Kills,
		player.Assists,
		player.Digs,
		player.Blocks,
		player.Aces,
		player.Errors,
		player.ID,
	)
	if err != nil {
		return r.handlePlayerError(err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM players WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) handlePlayerError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// foreign_key_violation on game_id
		if pqErr.Constraint == "players_game_id_fkey" {
			return ErrPlayerGameInvalid
		}
	}
	return err
}
