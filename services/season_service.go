package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/foosdev/foosball-tracker/engine"
	"github.com/foosdev/foosball-tracker/models"
	"github.com/foosdev/foosball-tracker/repositories"
)

// QuarterOf returns the 1-based quarter and year a date falls in.
func QuarterOf(d time.Time) (quarter, year int) {
	return (int(d.Month())-1)/3 + 1, d.Year()
}

// QuarterBounds returns the first instant and the last second of a quarter.
func QuarterBounds(year, quarter int) (start, end time.Time) {
	startMonth := time.Month((quarter-1)*3 + 1)
	start = time.Date(year, startMonth, 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 3, 0).Add(-time.Second)
	return start, end
}

// SeasonName formats the globally unique display name of a quarter season.
func SeasonName(year, quarter int) string {
	return fmt.Sprintf("Q%d %d", quarter, year)
}

// SeasonService resolves dates to quarterly seasons, creating them lazily,
// and owns the season rollover that resets every player's ratings to the
// baseline.
type SeasonService struct {
	db      *sql.DB
	seasons repositories.SeasonRepository
	players repositories.PlayerRepository
	logger  *slog.Logger
}

func NewSeasonService(db *sql.DB, seasons repositories.SeasonRepository, players repositories.PlayerRepository, logger *slog.Logger) *SeasonService {
	return &SeasonService{db: db, seasons: seasons, players: players, logger: logger}
}

// SeasonForDate returns the season whose range contains d, creating the
// quarter season on first sight of a date outside all existing ranges.
func (s *SeasonService) SeasonForDate(ctx context.Context, d time.Time) (*models.Season, error) {
	season, err := s.seasons.FindByDate(ctx, s.db, d)
	if err == nil {
		return season, nil
	}
	if !errors.Is(err, repositories.ErrSeasonNotFound) {
		return nil, err
	}

	quarter, year := QuarterOf(d)
	created, err := s.createSeason(ctx, s.db, year, quarter)
	if errors.Is(err, repositories.ErrSeasonNameConflict) {
		// Lost a creation race; the season exists now.
		return s.seasons.FindByDate(ctx, s.db, d)
	}
	return created, err
}

func (s *SeasonService) createSeason(ctx context.Context, exec repositories.SQLExecutor, year, quarter int) (*models.Season, error) {
	start, end := QuarterBounds(year, quarter)
	season := &models.Season{
		Name:      SeasonName(year, quarter),
		StartDate: start,
		EndDate:   end,
	}
	if err := s.seasons.Create(ctx, exec, season); err != nil {
		return nil, err
	}
	return season, nil
}

// EnsureCurrentSeason returns the season containing "now", rolling over when
// the flagged season's range has been outrun. Rollover is an explicit step
// invoked at entry points (and by the scheduler), not hidden inside a getter:
// it unflags the old season, flags the new one, and resets every player's
// ratings to the baseline, all in one transaction. The re-check inside the
// transaction makes two near-simultaneous rollovers idempotent.
func (s *SeasonService) EnsureCurrentSeason(ctx context.Context) (*models.Season, error) {
	now := time.Now().UTC()

	current, err := s.seasons.GetCurrent(ctx, s.db)
	if err == nil && current.Contains(now) {
		return current, nil
	}
	if err != nil && !errors.Is(err, repositories.ErrSeasonNotFound) {
		return nil, err
	}

	var season *models.Season
	txErr := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		// Another request may have completed the rollover already.
		current, err := s.seasons.GetCurrent(ctx, tx)
		if err == nil && current.Contains(now) {
			season = current
			return nil
		}
		if err != nil && !errors.Is(err, repositories.ErrSeasonNotFound) {
			return err
		}

		season, err = s.seasons.FindByDate(ctx, tx, now)
		if errors.Is(err, repositories.ErrSeasonNotFound) {
			quarter, year := QuarterOf(now)
			season, err = s.createSeason(ctx, tx, year, quarter)
		}
		if err != nil {
			return err
		}

		if err := s.seasons.SetCurrent(ctx, tx, season.ID); err != nil {
			return err
		}
		season.IsCurrent = true
		if err := s.players.ResetAllRatings(ctx, tx, engine.BaseRating); err != nil {
			return err
		}
		s.logger.Info("season rollover",
			slog.String("season", season.Name),
			slog.Int("season_id", season.ID))
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return season, nil
}

func (s *SeasonService) GetSeason(ctx context.Context, id int) (*models.Season, error) {
	return s.seasons.GetByID(ctx, id)
}

func (s *SeasonService) ListSeasons(ctx context.Context) ([]*models.Season, error) {
	return s.seasons.List(ctx)
}
