package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foosdev/foosball-tracker/models"
)

var statsEpoch = time.Date(2026, time.January, 5, 13, 0, 0, 0, time.UTC)

func statsGame(id int, start time.Time, team1, team2 []int, score1, score2 int) *models.Game {
	game := &models.Game{
		ID:         id,
		GameType:   models.GameType1v1,
		StartTime:  start,
		Team1Score: score1,
		Team2Score: score2,
	}
	if len(team1) == 2 || len(team2) == 2 {
		game.GameType = models.GameType2v2
	}
	team1Wins := score1 > score2
	for _, pid := range team1 {
		game.Participants = append(game.Participants, models.GamePlayer{
			PlayerID: pid, Team: 1, IsWinner: team1Wins, PlayerName: "p",
		})
	}
	for _, pid := range team2 {
		game.Participants = append(game.Participants, models.GamePlayer{
			PlayerID: pid, Team: 2, IsWinner: !team1Wins, PlayerName: "p",
		})
	}
	return game
}

func TestAggregateCountsWinsAndGoals(t *testing.T) {
	svc := &StatisticsService{}
	games := []*models.Game{
		statsGame(1, statsEpoch, []int{1}, []int{2}, 10, 4),
		statsGame(2, statsEpoch.Add(time.Hour), []int{2}, []int{1}, 10, 8),
		statsGame(3, statsEpoch.Add(2*time.Hour), []int{1}, []int{2}, 10, 0),
	}

	stats, err := svc.aggregate(context.Background(), games)
	require.NoError(t, err)
	require.Contains(t, stats, 1)
	require.Contains(t, stats, 2)

	p1 := stats[1]
	assert.Equal(t, 3, p1.TotalGames)
	assert.Equal(t, 2, p1.Wins)
	assert.Equal(t, 1, p1.Losses)
	assert.InDelta(t, 2.0/3.0, p1.WinRate, 1e-9)
	assert.Equal(t, 10+8+10, p1.GoalsFor)
	assert.Equal(t, 4+10+0, p1.GoalsAgainst)
	assert.Equal(t, 14, p1.GoalDifference)
	assert.Equal(t, 1, p1.ShutoutsGiven)
	assert.Equal(t, 0, p1.ShutoutsReceived)

	p2 := stats[2]
	assert.Equal(t, 1, p2.ShutoutsReceived)
	assert.Equal(t, -14, p2.GoalDifference)
}

func TestAggregateTracksStreaks(t *testing.T) {
	svc := &StatisticsService{}
	games := []*models.Game{
		statsGame(1, statsEpoch, []int{1}, []int{2}, 10, 4),
		statsGame(2, statsEpoch.Add(time.Hour), []int{1}, []int{2}, 10, 4),
		statsGame(3, statsEpoch.Add(2*time.Hour), []int{2}, []int{1}, 10, 4),
		statsGame(4, statsEpoch.Add(3*time.Hour), []int{1}, []int{2}, 10, 4),
	}

	stats, err := svc.aggregate(context.Background(), games)
	require.NoError(t, err)

	p1 := stats[1]
	assert.Equal(t, 2, p1.BestStreak)
	assert.Equal(t, 1, p1.CurrentStreak)

	p2 := stats[2]
	assert.Equal(t, 1, p2.BestStreak)
	assert.Equal(t, -1, p2.CurrentStreak)
}

func TestAggregateRatingsComeFromReplay(t *testing.T) {
	svc := &StatisticsService{}
	games := []*models.Game{
		statsGame(1, statsEpoch, []int{1}, []int{2}, 10, 4),
	}

	stats, err := svc.aggregate(context.Background(), games)
	require.NoError(t, err)

	assert.Equal(t, 1516, stats[1].Rating)
	assert.Equal(t, 1484, stats[2].Rating)
}

func TestAggregateEmptyLog(t *testing.T) {
	svc := &StatisticsService{}
	stats, err := svc.aggregate(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, stats)
}
