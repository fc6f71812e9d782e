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
	ErrGameNotFound          = errors.New("game not found")
	ErrGamePlayerInvalid     = errors.New("game references an unknown player")
	ErrGameSeasonInvalid     = errors.New("game references an unknown season")
	ErrGameParticipantDupl   = errors.New("player is already attached to this game")
	ErrGameParticipantAbsent = errors.New("game participant not found")
)

type GameRepository interface {
	Create(ctx context.Context, exec SQLExecutor, game *models.Game) error
	GetByID(ctx context.Context, id int) (*models.Game, error)
	List(ctx context.Context, limit, offset int) ([]*models.Game, int, error)
	ListBySeason(ctx context.Context, exec SQLExecutor, seasonID int) ([]*models.Game, error)
	ListAll(ctx context.Context) ([]*models.Game, error)
	Update(ctx context.Context, exec SQLExecutor, game *models.Game) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	ClearRatingDeltas(ctx context.Context, exec SQLExecutor, seasonID int) error
	SetRatingDelta(ctx context.Context, exec SQLExecutor, gameID, playerID, delta int) error
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

func (r *postgresGameRepository) Create(ctx context.Context, exec SQLExecutor, game *models.Game) error {
	query := `
		INSERT INTO games (season_id, game_type, start_time, end_time, team1_score, team2_score)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		game.SeasonID, game.GameType, game.StartTime, game.EndTime, game.Team1Score, game.Team2Score,
	).Scan(&game.ID, &game.CreatedAt)
	if err != nil {
		return r.mapGameError(err)
	}

	for i := range game.Participants {
		gp := &game.Participants[i]
		gp.GameID = game.ID
		if err := r.insertParticipant(ctx, exec, gp); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresGameRepository) insertParticipant(ctx context.Context, exec SQLExecutor, gp *models.GamePlayer) error {
	query := `
		INSERT INTO game_players (game_id, player_id, team, is_winner, rating_delta)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := exec.QueryRowContext(ctx, query,
		gp.GameID, gp.PlayerID, gp.Team, gp.IsWinner, gp.RatingDelta,
	).Scan(&gp.ID)
	if err != nil {
		return r.mapGameError(err)
	}
	return nil
}

func (r *postgresGameRepository) GetByID(ctx context.Context, id int) (*models.Game, error) {
	query := `
		SELECT id, season_id, game_type, start_time, end_time, team1_score, team2_score, created_at
		FROM games
		WHERE id = $1`

	game := &models.Game{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&game.ID, &game.SeasonID, &game.GameType, &game.StartTime, &game.EndTime,
		&game.Team1Score, &game.Team2Score, &game.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to scan game %d: %w", id, err)
	}
	if err := r.attachParticipants(ctx, r.db, []*models.Game{game}); err != nil {
		return nil, err
	}
	return game, nil
}

func (r *postgresGameRepository) List(ctx context.Context, limit, offset int) ([]*models.Game, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM games`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count games: %w", err)
	}

	query := `
		SELECT id, season_id, game_type, start_time, end_time, team1_score, team2_score, created_at
		FROM games
		ORDER BY start_time DESC, id DESC
		LIMIT $1 OFFSET $2`

	games, err := r.queryGames(ctx, r.db, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return games, total, nil
}

// ListBySeason returns a season's games in replay order: start time
// ascending with ids breaking ties, so a rebuild of derived state is
// reproducible.
func (r *postgresGameRepository) ListBySeason(ctx context.Context, exec SQLExecutor, seasonID int) ([]*models.Game, error) {
	query := `
		SELECT id, season_id, game_type, start_time, end_time, team1_score, team2_score, created_at
		FROM games
		WHERE season_id = $1
		ORDER BY start_time ASC, id ASC`

	return r.queryGames(ctx, exec, query, seasonID)
}

func (r *postgresGameRepository) ListAll(ctx context.Context) ([]*models.Game, error) {
	query := `
		SELECT id, season_id, game_type, start_time, end_time, team1_score, team2_score, created_at
		FROM games
		ORDER BY start_time ASC, id ASC`

	return r.queryGames(ctx, r.db, query)
}

func (r *postgresGameRepository) queryGames(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]*models.Game, error) {
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	games := make([]*models.Game, 0)
	for rows.Next() {
		game := &models.Game{}
		if err := rows.Scan(
			&game.ID, &game.SeasonID, &game.GameType, &game.StartTime, &game.EndTime,
			&game.Team1Score, &game.Team2Score, &game.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during game rows iteration: %w", err)
	}
	if err := r.attachParticipants(ctx, exec, games); err != nil {
		return nil, err
	}
	return games, nil
}

func (r *postgresGameRepository) attachParticipants(ctx context.Context, exec SQLExecutor, games []*models.Game) error {
	if len(games) == 0 {
		return nil
	}
	ids := make([]int64, len(games))
	byID := make(map[int]*models.Game, len(games))
	for i, g := range games {
		ids[i] = int64(g.ID)
		byID[g.ID] = g
	}

	query := `
		SELECT gp.id, gp.game_id, gp.player_id, gp.team, gp.is_winner, gp.rating_delta, p.name
		FROM game_players gp
		JOIN players p ON p.id = gp.player_id
		WHERE gp.game_id = ANY($1)
		ORDER BY gp.game_id, gp.team, gp.id`

	rows, err := exec.QueryContext(ctx, query, pq.Int64Array(ids))
	if err != nil {
		return fmt.Errorf("failed to query game participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var gp models.GamePlayer
		if err := rows.Scan(&gp.ID, &gp.GameID, &gp.PlayerID, &gp.Team, &gp.IsWinner, &gp.RatingDelta, &gp.PlayerName); err != nil {
			return fmt.Errorf("failed to scan game participant row: %w", err)
		}
		if game, ok := byID[gp.GameID]; ok {
			game.Participants = append(game.Participants, gp)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error during participant rows iteration: %w", err)
	}
	return nil
}

// Update rewrites the game's facts and replaces its participant set.
func (r *postgresGameRepository) Update(ctx context.Context, exec SQLExecutor, game *models.Game) error {
	query := `
		UPDATE games
		SET season_id = $1, game_type = $2, start_time = $3, end_time = $4, team1_score = $5, team2_score = $6
		WHERE id = $7`

	result, err := exec.ExecContext(ctx, query,
		game.SeasonID, game.GameType, game.StartTime, game.EndTime,
		game.Team1Score, game.Team2Score, game.ID)
	if err != nil {
		return r.mapGameError(err)
	}
	if err := checkAffectedRows(result, ErrGameNotFound); err != nil {
		return err
	}

	if _, err := exec.ExecContext(ctx, `DELETE FROM game_players WHERE game_id = $1`, game.ID); err != nil {
		return fmt.Errorf("failed to delete participants of game %d: %w", game.ID, err)
	}
	for i := range game.Participants {
		gp := &game.Participants[i]
		gp.GameID = game.ID
		if err := r.insertParticipant(ctx, exec, gp); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresGameRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := exec.ExecContext(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete game %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

// ClearRatingDeltas nulls the per-participant delta annotations for every
// game of a season, the first step of a recalculation.
func (r *postgresGameRepository) ClearRatingDeltas(ctx context.Context, exec SQLExecutor, seasonID int) error {
	query := `
		UPDATE game_players SET rating_delta = NULL
		WHERE game_id IN (SELECT id FROM games WHERE season_id = $1)`

	if _, err := exec.ExecContext(ctx, query, seasonID); err != nil {
		return fmt.Errorf("failed to clear rating deltas for season %d: %w", seasonID, err)
	}
	return nil
}

func (r *postgresGameRepository) SetRatingDelta(ctx context.Context, exec SQLExecutor, gameID, playerID, delta int) error {
	query := `UPDATE game_players SET rating_delta = $1 WHERE game_id = $2 AND player_id = $3`

	result, err := exec.ExecContext(ctx, query, delta, gameID, playerID)
	if err != nil {
		return fmt.Errorf("failed to set rating delta for game %d player %d: %w", gameID, playerID, err)
	}
	return checkAffectedRows(result, ErrGameParticipantAbsent)
}

func (r *postgresGameRepository) mapGameError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Constraint {
		case "games_season_id_fkey":
			return ErrGameSeasonInvalid
		case "game_players_player_id_fkey":
			return ErrGamePlayerInvalid
		case "game_players_game_id_player_id_key":
			return ErrGameParticipantDupl
		}
	}
	return err
}
