package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/foosdev/foosball-tracker/models"
	"github.com/lib/pq"
)

var (
	ErrSeasonNotFound     = errors.New("season not found")
	ErrSeasonNameConflict = errors.New("season name already exists")
)

type SeasonRepository interface {
	Create(ctx context.Context, exec SQLExecutor, season *models.Season) error
	GetByID(ctx context.Context, id int) (*models.Season, error)
	GetCurrent(ctx context.Context, exec SQLExecutor) (*models.Season, error)
	FindByDate(ctx context.Context, exec SQLExecutor, d time.Time) (*models.Season, error)
	List(ctx context.Context) ([]*models.Season, error)
	SetCurrent(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresSeasonRepository struct {
	db *sql.DB
}

func NewPostgresSeasonRepository(db *sql.DB) SeasonRepository {
	return &postgresSeasonRepository{db: db}
}

const seasonColumns = `id, name, start_date, end_date, is_current, created_at`

func scanSeason(row interface{ Scan(...interface{}) error }, s *models.Season) error {
	return row.Scan(&s.ID, &s.Name, &s.StartDate, &s.EndDate, &s.IsCurrent, &s.CreatedAt)
}

func (r *postgresSeasonRepository) Create(ctx context.Context, exec SQLExecutor, season *models.Season) error {
	query := `
		INSERT INTO seasons (name, start_date, end_date, is_current)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		season.Name, season.StartDate, season.EndDate, season.IsCurrent,
	).Scan(&season.ID, &season.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Constraint == "seasons_name_key" {
			return ErrSeasonNameConflict
		}
		return fmt.Errorf("failed to insert season: %w", err)
	}
	return nil
}

func (r *postgresSeasonRepository) GetByID(ctx context.Context, id int) (*models.Season, error) {
	query := `SELECT ` + seasonColumns + ` FROM seasons WHERE id = $1`

	season := &models.Season{}
	if err := scanSeason(r.db.QueryRowContext(ctx, query, id), season); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeasonNotFound
		}
		return nil, fmt.Errorf("failed to scan season %d: %w", id, err)
	}
	return season, nil
}

func (r *postgresSeasonRepository) GetCurrent(ctx context.Context, exec SQLExecutor) (*models.Season, error) {
	query := `SELECT ` + seasonColumns + ` FROM seasons WHERE is_current`

	season := &models.Season{}
	if err := scanSeason(exec.QueryRowContext(ctx, query), season); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeasonNotFound
		}
		return nil, fmt.Errorf("failed to scan current season: %w", err)
	}
	return season, nil
}

func (r *postgresSeasonRepository) FindByDate(ctx context.Context, exec SQLExecutor, d time.Time) (*models.Season, error) {
	query := `SELECT ` + seasonColumns + ` FROM seasons WHERE start_date <= $1 AND end_date >= $1`

	season := &models.Season{}
	if err := scanSeason(exec.QueryRowContext(ctx, query, d), season); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeasonNotFound
		}
		return nil, fmt.Errorf("failed to scan season for date %s: %w", d.Format(time.RFC3339), err)
	}
	return season, nil
}

func (r *postgresSeasonRepository) List(ctx context.Context) ([]*models.Season, error) {
	query := `SELECT ` + seasonColumns + ` FROM seasons ORDER BY start_date`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query seasons: %w", err)
	}
	defer rows.Close()

	seasons := make([]*models.Season, 0)
	for rows.Next() {
		season := &models.Season{}
		if err := scanSeason(rows, season); err != nil {
			return nil, fmt.Errorf("failed to scan season row: %w", err)
		}
		seasons = append(seasons, season)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during season rows iteration: %w", err)
	}
	return seasons, nil
}

// SetCurrent unflags every season and flags the given one. Callers run it
// inside the rollover transaction so the single-current invariant holds even
// for concurrent rollover checks.
func (r *postgresSeasonRepository) SetCurrent(ctx context.Context, exec SQLExecutor, id int) error {
	if _, err := exec.ExecContext(ctx, `UPDATE seasons SET is_current = false WHERE is_current`); err != nil {
		return fmt.Errorf("failed to clear current season flag: %w", err)
	}
	result, err := exec.ExecContext(ctx, `UPDATE seasons SET is_current = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to set current season %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrSeasonNotFound)
}
