package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/foosdev/foosball-tracker/models"
)

type LeaderboardRepository interface {
	Upsert(ctx context.Context, exec SQLExecutor, row *models.LeaderboardHistory) error
	DeleteBySeason(ctx context.Context, exec SQLExecutor, seasonID int) error
	ListByPlayer(ctx context.Context, playerID int, seasonID *int) ([]*models.LeaderboardHistory, error)
}

type postgresLeaderboardRepository struct {
	db *sql.DB
}

func NewPostgresLeaderboardRepository(db *sql.DB) LeaderboardRepository {
	return &postgresLeaderboardRepository{db: db}
}

// Upsert writes a player's standing for one date, keyed by the
// (player, season, date) uniqueness constraint so re-snapshotting a day is
// idempotent.
func (r *postgresLeaderboardRepository) Upsert(ctx context.Context, exec SQLExecutor, row *models.LeaderboardHistory) error {
	query := `
		INSERT INTO leaderboard_history (player_id, season_id, snapshot_date, rank, rating, total_games)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (player_id, season_id, snapshot_date)
		DO UPDATE SET rank = EXCLUDED.rank, rating = EXCLUDED.rating, total_games = EXCLUDED.total_games
		RETURNING id`

	err := exec.QueryRowContext(ctx, query,
		row.PlayerID, row.SeasonID, row.SnapshotDate, row.Rank, row.Rating, row.TotalGames,
	).Scan(&row.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert leaderboard snapshot for player %d: %w", row.PlayerID, err)
	}
	return nil
}

func (r *postgresLeaderboardRepository) DeleteBySeason(ctx context.Context, exec SQLExecutor, seasonID int) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM leaderboard_history WHERE season_id = $1`, seasonID); err != nil {
		return fmt.Errorf("failed to delete leaderboard history for season %d: %w", seasonID, err)
	}
	return nil
}

func (r *postgresLeaderboardRepository) ListByPlayer(ctx context.Context, playerID int, seasonID *int) ([]*models.LeaderboardHistory, error) {
	query := `
		SELECT lh.id, lh.player_id, lh.season_id, lh.snapshot_date, lh.rank, lh.rating, lh.total_games, p.name
		FROM leaderboard_history lh
		JOIN players p ON p.id = lh.player_id
		WHERE lh.player_id = $1`

	args := []interface{}{playerID}
	if seasonID != nil {
		query += ` AND lh.season_id = $2`
		args = append(args, *seasonID)
	}
	query += ` ORDER BY lh.snapshot_date ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard history: %w", err)
	}
	defer rows.Close()

	history := make([]*models.LeaderboardHistory, 0)
	for rows.Next() {
		row := &models.LeaderboardHistory{}
		if err := rows.Scan(&row.ID, &row.PlayerID, &row.SeasonID, &row.SnapshotDate, &row.Rank, &row.Rating, &row.TotalGames, &row.PlayerName); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard history row: %w", err)
		}
		history = append(history, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during leaderboard history rows iteration: %w", err)
	}
	return history, nil
}
