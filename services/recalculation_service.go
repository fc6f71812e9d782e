package services

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/foosdev/foosball-tracker/engine"
	"github.com/foosdev/foosball-tracker/models"
	"github.com/foosdev/foosball-tracker/repositories"
)

// RecalculationService rebuilds all derived state of a season from its game
// log: participant rating deltas, stored player ratings (for the current
// season), the cake ledger, and the snapshot history. Each season rebuild
// runs in a single transaction so readers never observe a half-rebuilt
// season.
type RecalculationService struct {
	db          *sql.DB
	seasons     repositories.SeasonRepository
	games       repositories.GameRepository
	players     repositories.PlayerRepository
	cakes       *CakeService
	leaderboard *LeaderboardService
	logger      *slog.Logger
}

func NewRecalculationService(
	db *sql.DB,
	seasons repositories.SeasonRepository,
	games repositories.GameRepository,
	players repositories.PlayerRepository,
	cakes *CakeService,
	leaderboard *LeaderboardService,
	logger *slog.Logger,
) *RecalculationService {
	return &RecalculationService{
		db:          db,
		seasons:     seasons,
		games:       games,
		players:     players,
		cakes:       cakes,
		leaderboard: leaderboard,
		logger:      logger,
	}
}

// RecalculateSeason replays the season's games from the baseline and rewrites
// everything derived from them. Stored player ratings reflect the current
// season only, so they are rewritten just when the recalculated season is the
// current one; a past season's replay cannot leak into them.
func (s *RecalculationService) RecalculateSeason(ctx context.Context, seasonID int) error {
	season, err := s.seasons.GetByID(ctx, seasonID)
	if err != nil {
		return err
	}

	started := time.Now()
	var gameCount int
	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.games.ClearRatingDeltas(ctx, tx, seasonID); err != nil {
			return err
		}

		games, err := s.games.ListBySeason(ctx, tx, seasonID)
		if err != nil {
			return err
		}
		gameCount = len(games)

		book := engine.NewRatingBook()
		if err := book.Replay(games); err != nil {
			return err
		}
		for _, game := range games {
			for _, gp := range game.Participants {
				if gp.RatingDelta == nil {
					continue
				}
				if err := s.games.SetRatingDelta(ctx, tx, game.ID, gp.PlayerID, *gp.RatingDelta); err != nil {
					return err
				}
			}
		}

		if season.IsCurrent {
			if err := s.players.ResetAllRatings(ctx, tx, engine.BaseRating); err != nil {
				return err
			}
			for _, playerID := range book.PlayerIDs() {
				player := &models.Player{ID: playerID}
				book.WriteTo(player)
				if err := s.players.UpdateRatings(ctx, tx, player); err != nil {
					return err
				}
			}
		}

		if err := s.cakes.RebuildSeason(ctx, tx, seasonID, games); err != nil {
			return err
		}
		return s.leaderboard.RebuildSeason(ctx, tx, seasonID, games)
	})
	if err != nil {
		return err
	}

	s.logger.Info("season recalculated",
		slog.Int("season_id", seasonID),
		slog.String("season", season.Name),
		slog.Int("games", gameCount),
		slog.Duration("took", time.Since(started)))
	return nil
}

// RecalculateAll rebuilds every season. Seasons are independent of one
// another, so the rebuilds run concurrently with a small cap.
func (s *RecalculationService) RecalculateAll(ctx context.Context) error {
	seasons, err := s.seasons.List(ctx)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, season := range seasons {
		seasonID := season.ID
		g.Go(func() error {
			return s.RecalculateSeason(ctx, seasonID)
		})
	}
	return g.Wait()
}
