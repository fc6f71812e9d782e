package services

import (
	"context"
	"sort"

	"github.com/foosdev/foosball-tracker/engine"
	"github.com/foosdev/foosball-tracker/models"
	"github.com/foosdev/foosball-tracker/repositories"
)

// StatisticsService computes leaderboards and per-player aggregates by
// replaying game logs. Nothing here writes; the stored ratings are bypassed
// on purpose so a leaderboard can be computed for any season, current or not.
type StatisticsService struct {
	db      repositories.SQLExecutor
	games   repositories.GameRepository
	players repositories.PlayerRepository
}

func NewStatisticsService(db repositories.SQLExecutor, games repositories.GameRepository, players repositories.PlayerRepository) *StatisticsService {
	return &StatisticsService{db: db, games: games, players: players}
}

// SeasonLeaderboard ranks the season's players by replayed rating. Players
// with fewer than minGames games are dropped before ranks are assigned.
func (s *StatisticsService) SeasonLeaderboard(ctx context.Context, seasonID, minGames int) ([]*models.PlayerStats, error) {
	games, err := s.games.ListBySeason(ctx, s.db, seasonID)
	if err != nil {
		return nil, err
	}

	stats, err := s.aggregate(ctx, games)
	if err != nil {
		return nil, err
	}

	rows := make([]*models.PlayerStats, 0, len(stats))
	for _, row := range stats {
		if row.TotalGames < minGames {
			continue
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Rating > rows[j].Rating })
	for i, row := range rows {
		row.Rank = i + 1
	}
	return rows, nil
}

// AllTimeLeaderboard aggregates across every season. Ratings reset each
// quarter, so the all-time ordering is by wins with win rate as tiebreak
// rather than by rating.
func (s *StatisticsService) AllTimeLeaderboard(ctx context.Context, minGames int) ([]*models.PlayerStats, error) {
	games, err := s.games.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := s.aggregate(ctx, games)
	if err != nil {
		return nil, err
	}

	rows := make([]*models.PlayerStats, 0, len(stats))
	for _, row := range stats {
		if row.TotalGames < minGames {
			continue
		}
		row.Rating = 0
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Wins != rows[j].Wins {
			return rows[i].Wins > rows[j].Wins
		}
		return rows[i].WinRate > rows[j].WinRate
	})
	for i, row := range rows {
		row.Rank = i + 1
	}
	return rows, nil
}

// aggregate replays the given games and folds per-player counters out of
// them. Streaks follow chronological order, which the replay guarantees.
func (s *StatisticsService) aggregate(ctx context.Context, games []*models.Game) (map[int]*models.PlayerStats, error) {
	ordered := make([]*models.Game, len(games))
	copy(ordered, games)
	engine.SortGames(ordered)

	book := engine.NewRatingBook()
	stats := make(map[int]*models.PlayerStats)
	streaks := make(map[int]int)

	row := func(playerID int, name string) *models.PlayerStats {
		if st, ok := stats[playerID]; ok {
			return st
		}
		st := &models.PlayerStats{PlayerID: playerID, PlayerName: name}
		stats[playerID] = st
		return st
	}

	for _, game := range ordered {
		if err := book.ApplyGame(game); err != nil {
			return nil, err
		}
		shutout := game.IsShutout()
		for _, gp := range game.Participants {
			st := row(gp.PlayerID, gp.PlayerName)
			st.TotalGames++

			var scored, conceded int
			if gp.Team == 1 {
				scored, conceded = game.Team1Score, game.Team2Score
			} else {
				scored, conceded = game.Team2Score, game.Team1Score
			}
			st.GoalsFor += scored
			st.GoalsAgainst += conceded

			if gp.IsWinner {
				st.Wins++
				if shutout {
					st.ShutoutsGiven++
				}
				if streaks[gp.PlayerID] < 0 {
					streaks[gp.PlayerID] = 0
				}
				streaks[gp.PlayerID]++
				if streaks[gp.PlayerID] > st.BestStreak {
					st.BestStreak = streaks[gp.PlayerID]
				}
			} else {
				st.Losses++
				if shutout {
					st.ShutoutsReceived++
				}
				if streaks[gp.PlayerID] > 0 {
					streaks[gp.PlayerID] = 0
				}
				streaks[gp.PlayerID]--
			}
		}
	}

	for playerID, st := range stats {
		st.Rating = book.Rating(playerID)
		st.GoalDifference = st.GoalsFor - st.GoalsAgainst
		st.CurrentStreak = streaks[playerID]
		if st.TotalGames > 0 {
			st.WinRate = float64(st.Wins) / float64(st.TotalGames)
		}
		if st.PlayerName == "" {
			player, err := s.players.GetByID(ctx, playerID)
			if err != nil {
				return nil, err
			}
			st.PlayerName = player.Name
		}
	}
	return stats, nil
}
