package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foosdev/foosball-tracker/models"
)

var snapshotEpoch = time.Date(2026, time.May, 4, 9, 0, 0, 0, time.UTC)

func TestSnapshotDateTruncates(t *testing.T) {
	d := SnapshotDate(time.Date(2026, time.May, 4, 23, 59, 59, 0, time.UTC))
	assert.Equal(t, time.Date(2026, time.May, 4, 0, 0, 0, 0, time.UTC), d)
}

func TestOneSnapshotPerDate(t *testing.T) {
	games := []*models.Game{
		testGame(1, snapshotEpoch, models.GameType1v1, []int{1}, []int{2}, 10, 3),
		testGame(2, snapshotEpoch.Add(2*time.Hour), models.GameType1v1, []int{2}, []int{1}, 10, 8),
		testGame(3, snapshotEpoch.AddDate(0, 0, 1), models.GameType1v1, []int{1}, []int{2}, 10, 1),
	}

	snapshots, err := ReplayDailySnapshots(games)
	require.NoError(t, err)

	require.Len(t, snapshots, 2, "three games on two dates yield two snapshots")
	assert.Equal(t, SnapshotDate(snapshotEpoch), snapshots[0].Date)
	assert.Equal(t, SnapshotDate(snapshotEpoch.AddDate(0, 0, 1)), snapshots[1].Date)

	// First snapshot reflects both of the first date's games.
	for _, standing := range snapshots[0].Standings {
		assert.Equal(t, 2, standing.TotalGames)
	}
}

func TestSnapshotRanksByRatingDescending(t *testing.T) {
	games := []*models.Game{
		testGame(1, snapshotEpoch, models.GameType1v1, []int{1}, []int{2}, 10, 0),
		testGame(2, snapshotEpoch.Add(time.Hour), models.GameType1v1, []int{1}, []int{3}, 10, 0),
	}

	snapshots, err := ReplayDailySnapshots(games)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)

	standings := snapshots[0].Standings
	require.Len(t, standings, 3)
	assert.Equal(t, 1, standings[0].PlayerID)
	assert.Equal(t, 1, standings[0].Rank)
	for i := 1; i < len(standings); i++ {
		assert.GreaterOrEqual(t, standings[i-1].Rating, standings[i].Rating)
		assert.Equal(t, i+1, standings[i].Rank)
	}
}

func TestSnapshotOnlyIncludesParticipants(t *testing.T) {
	games := []*models.Game{
		testGame(1, snapshotEpoch, models.GameType1v1, []int{1}, []int{2}, 10, 4),
	}

	snapshots, err := ReplayDailySnapshots(games)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)

	ids := make([]int, 0, len(snapshots[0].Standings))
	for _, standing := range snapshots[0].Standings {
		ids = append(ids, standing.PlayerID)
	}
	assert.ElementsMatch(t, []int{1, 2}, ids)
}

func TestSnapshotTiesKeepFirstAppearanceOrder(t *testing.T) {
	// Teammates share a delta, so one 2v2 game leaves two tied pairs.
	games := []*models.Game{
		testGame(1, snapshotEpoch, models.GameType2v2, []int{1, 2}, []int{3, 4}, 10, 4),
	}

	snapshots, err := ReplayDailySnapshots(games)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)

	standings := snapshots[0].Standings
	require.Len(t, standings, 4)
	assert.Equal(t, []int{1, 2, 3, 4}, []int{
		standings[0].PlayerID, standings[1].PlayerID,
		standings[2].PlayerID, standings[3].PlayerID,
	}, "ties resolved by first appearance")
}

func TestSnapshotsEmptyForNoGames(t *testing.T) {
	snapshots, err := ReplayDailySnapshots(nil)
	require.NoError(t, err)
	assert.Empty(t, snapshots)
}
