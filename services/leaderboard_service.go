package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/foosdev/foosball-tracker/engine"
	"github.com/foosdev/foosball-tracker/models"
	"github.com/foosdev/foosball-tracker/repositories"
)

// LeaderboardService persists dated, ranked standings snapshots and serves
// player rank history.
type LeaderboardService struct {
	db      repositories.SQLExecutor
	games   repositories.GameRepository
	players repositories.PlayerRepository
	history repositories.LeaderboardRepository
	logger  *slog.Logger
}

func NewLeaderboardService(
	db repositories.SQLExecutor,
	games repositories.GameRepository,
	players repositories.PlayerRepository,
	history repositories.LeaderboardRepository,
	logger *slog.Logger,
) *LeaderboardService {
	return &LeaderboardService{db: db, games: games, players: players, history: history, logger: logger}
}

// SnapshotSeason records the season's standings as of the given date from
// the currently stored ratings: every player with at least one game in the
// season, ranked by rating descending. Upserts keep re-snapshotting a date
// idempotent.
func (s *LeaderboardService) SnapshotSeason(ctx context.Context, seasonID int, date time.Time) error {
	games, err := s.games.ListBySeason(ctx, s.db, seasonID)
	if err != nil {
		return err
	}
	gameCounts := make(map[int]int)
	for _, game := range games {
		for _, gp := range game.Participants {
			gameCounts[gp.PlayerID]++
		}
	}

	players, err := s.players.List(ctx)
	if err != nil {
		return err
	}
	type entry struct {
		playerID, rating, totalGames int
	}
	entries := make([]entry, 0, len(players))
	for _, p := range players {
		if gameCounts[p.ID] == 0 {
			continue
		}
		entries = append(entries, entry{playerID: p.ID, rating: p.Rating, totalGames: gameCounts[p.ID]})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].rating > entries[j].rating })

	snapshotDate := engine.SnapshotDate(date)
	for rank, e := range entries {
		row := &models.LeaderboardHistory{
			PlayerID:     e.playerID,
			SeasonID:     seasonID,
			SnapshotDate: snapshotDate,
			Rank:         rank + 1,
			Rating:       e.rating,
			TotalGames:   e.totalGames,
		}
		if err := s.history.Upsert(ctx, s.db, row); err != nil {
			return err
		}
	}
	return nil
}

// RebuildSeason discards a season's snapshot history and re-derives it by
// replaying the season's games day by day, one snapshot per calendar date
// with at least one game.
func (s *LeaderboardService) RebuildSeason(ctx context.Context, exec repositories.SQLExecutor, seasonID int, games []*models.Game) error {
	if err := s.history.DeleteBySeason(ctx, exec, seasonID); err != nil {
		return err
	}
	snapshots, err := engine.ReplayDailySnapshots(games)
	if err != nil {
		return err
	}
	for _, snapshot := range snapshots {
		for _, standing := range snapshot.Standings {
			row := &models.LeaderboardHistory{
				PlayerID:     standing.PlayerID,
				SeasonID:     seasonID,
				SnapshotDate: snapshot.Date,
				Rank:         standing.Rank,
				Rating:       standing.Rating,
				TotalGames:   standing.TotalGames,
			}
			if err := s.history.Upsert(ctx, exec, row); err != nil {
				return err
			}
		}
	}
	return nil
}

// PlayerHistory returns a player's (date, rank, rating) progression,
// optionally scoped to one season.
func (s *LeaderboardService) PlayerHistory(ctx context.Context, playerID int, seasonID *int) ([]*models.LeaderboardHistory, error) {
	return s.history.ListByPlayer(ctx, playerID, seasonID)
}
