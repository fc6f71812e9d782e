package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/foosdev/foosball-tracker/models"
	"github.com/lib/pq"
)

var (
	ErrPlayerNotFound     = errors.New("player not found")
	ErrPlayerNameConflict = errors.New("player name is already taken")
)

type PlayerRepository interface {
	Create(ctx context.Context, exec SQLExecutor, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	List(ctx context.Context) ([]*models.Player, error)
	UpdateRatings(ctx context.Context, exec SQLExecutor, player *models.Player) error
	ResetAllRatings(ctx context.Context, exec SQLExecutor, rating int) error
	UpdateAvatarKey(ctx context.Context, id int, key *string) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

const playerColumns = `id, name, rating, rating_1v1, rating_2v2, rating_2v1, avatar_key, created_at`

func scanPlayer(row interface{ Scan(...interface{}) error }, p *models.Player) error {
	return row.Scan(&p.ID, &p.Name, &p.Rating, &p.Rating1v1, &p.Rating2v2, &p.Rating2v1, &p.AvatarKey, &p.CreatedAt)
}

func (r *postgresPlayerRepository) Create(ctx context.Context, exec SQLExecutor, player *models.Player) error {
	query := `
		INSERT INTO players (name, rating, rating_1v1, rating_2v2, rating_2v1)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		player.Name, player.Rating, player.Rating1v1, player.Rating2v2, player.Rating2v1,
	).Scan(&player.ID, &player.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Constraint == "players_name_key" {
			return ErrPlayerNameConflict
		}
		return fmt.Errorf("failed to insert player: %w", err)
	}
	return nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`

	player := &models.Player{}
	if err := scanPlayer(r.db.QueryRowContext(ctx, query, id), player); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan player %d: %w", id, err)
	}
	return player, nil
}

func (r *postgresPlayerRepository) List(ctx context.Context) ([]*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players ORDER BY lower(name)`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		player := &models.Player{}
		if err := scanPlayer(rows, player); err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		players = append(players, player)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during player rows iteration: %w", err)
	}
	return players, nil
}

func (r *postgresPlayerRepository) UpdateRatings(ctx context.Context, exec SQLExecutor, player *models.Player) error {
	query := `
		UPDATE players
		SET rating = $1, rating_1v1 = $2, rating_2v2 = $3, rating_2v1 = $4
		WHERE id = $5`

	result, err := exec.ExecContext(ctx, query,
		player.Rating, player.Rating1v1, player.Rating2v2, player.Rating2v1, player.ID)
	if err != nil {
		return fmt.Errorf("failed to update ratings for player %d: %w", player.ID, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) ResetAllRatings(ctx context.Context, exec SQLExecutor, rating int) error {
	query := `UPDATE players SET rating = $1, rating_1v1 = $1, rating_2v2 = $1, rating_2v1 = $1`
	if _, err := exec.ExecContext(ctx, query, rating); err != nil {
		return fmt.Errorf("failed to reset player ratings: %w", err)
	}
	return nil
}

func (r *postgresPlayerRepository) UpdateAvatarKey(ctx context.Context, id int, key *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE players SET avatar_key = $1 WHERE id = $2`, key, id)
	if err != nil {
		return fmt.Errorf("failed to update avatar key for player %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}
