package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foosdev/foosball-tracker/models"
)

var replayEpoch = time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)

func testGame(id int, start time.Time, gameType models.GameType, team1, team2 []int, score1, score2 int) *models.Game {
	game := &models.Game{
		ID:         id,
		GameType:   gameType,
		StartTime:  start,
		Team1Score: score1,
		Team2Score: score2,
	}
	team1Wins := score1 > score2
	for _, pid := range team1 {
		game.Participants = append(game.Participants, models.GamePlayer{
			PlayerID: pid, Team: 1, IsWinner: team1Wins,
		})
	}
	for _, pid := range team2 {
		game.Participants = append(game.Participants, models.GamePlayer{
			PlayerID: pid, Team: 2, IsWinner: !team1Wins,
		})
	}
	return game
}

func TestApplyGameRejectsDraw(t *testing.T) {
	book := NewRatingBook()
	game := testGame(1, replayEpoch, models.GameType1v1, []int{1}, []int{2}, 5, 5)

	assert.ErrorIs(t, book.ApplyGame(game), ErrDrawnGame)
}

func TestApplyGameRejectsEmptyTeam(t *testing.T) {
	book := NewRatingBook()
	game := testGame(1, replayEpoch, models.GameType1v1, []int{1}, nil, 10, 3)

	assert.ErrorIs(t, book.ApplyGame(game), ErrEmptyTeam)
}

func TestFirstGameAtParity(t *testing.T) {
	book := NewRatingBook()
	game := testGame(1, replayEpoch, models.GameType1v1, []int{1}, []int{2}, 10, 4)

	require.NoError(t, book.ApplyGame(game))

	assert.Equal(t, BaseRating+16, book.Rating(1))
	assert.Equal(t, BaseRating-16, book.Rating(2))
}

func TestTeammatesReceiveSameDelta(t *testing.T) {
	book := NewRatingBook()
	game := testGame(1, replayEpoch, models.GameType2v2, []int{1, 2}, []int{3, 4}, 10, 6)

	require.NoError(t, book.ApplyGame(game))

	assert.Equal(t, book.Rating(1), book.Rating(2))
	assert.Equal(t, book.Rating(3), book.Rating(4))

	require.NotNil(t, game.Participants[0].RatingDelta)
	require.NotNil(t, game.Participants[1].RatingDelta)
	assert.Equal(t, *game.Participants[0].RatingDelta, *game.Participants[1].RatingDelta)
}

func TestTypeRatingsAreIndependent(t *testing.T) {
	book := NewRatingBook()
	game := testGame(1, replayEpoch, models.GameType1v1, []int{1}, []int{2}, 10, 0)

	require.NoError(t, book.ApplyGame(game))

	assert.NotEqual(t, BaseRating, book.RatingForType(1, models.GameType1v1))
	assert.Equal(t, BaseRating, book.RatingForType(1, models.GameType2v2))
	assert.Equal(t, BaseRating, book.RatingForType(1, models.GameType2v1))
}

func TestMixedTeamSizesUseMeanRating(t *testing.T) {
	book := NewRatingBook()
	game := testGame(1, replayEpoch, models.GameType2v1, []int{1, 2}, []int{3}, 4, 10)

	require.NoError(t, book.ApplyGame(game))

	// Everyone starts at the baseline, so both sides average 1500 and the
	// solo winner takes the parity payout.
	assert.Equal(t, BaseRating+16, book.Rating(3))
	assert.Equal(t, BaseRating-16, book.Rating(1))
	assert.Equal(t, BaseRating-16, book.Rating(2))
}

func TestReplayMatchesIncrementalApplication(t *testing.T) {
	games := []*models.Game{
		testGame(1, replayEpoch, models.GameType1v1, []int{1}, []int{2}, 10, 7),
		testGame(2, replayEpoch.Add(time.Hour), models.GameType2v2, []int{1, 3}, []int{2, 4}, 4, 10),
		testGame(3, replayEpoch.Add(2*time.Hour), models.GameType1v1, []int{3}, []int{1}, 10, 0),
		testGame(4, replayEpoch.Add(3*time.Hour), models.GameType2v1, []int{2, 4}, []int{3}, 10, 8),
	}

	incremental := NewRatingBook()
	for _, game := range games {
		require.NoError(t, incremental.ApplyGame(game))
	}

	replayed := NewRatingBook()
	require.NoError(t, replayed.Replay(games))

	for _, id := range []int{1, 2, 3, 4} {
		assert.Equal(t, incremental.Rating(id), replayed.Rating(id), "player %d global", id)
		for _, gt := range []models.GameType{models.GameType1v1, models.GameType2v2, models.GameType2v1} {
			assert.Equal(t, incremental.RatingForType(id, gt), replayed.RatingForType(id, gt), "player %d %s", id, gt)
		}
	}
}

func TestReplayOrdersByStartTimeThenID(t *testing.T) {
	inOrder := []*models.Game{
		testGame(1, replayEpoch, models.GameType1v1, []int{1}, []int{2}, 10, 7),
		testGame(2, replayEpoch, models.GameType1v1, []int{1}, []int{2}, 3, 10),
		testGame(3, replayEpoch.Add(time.Hour), models.GameType1v1, []int{2}, []int{1}, 10, 1),
	}
	shuffled := []*models.Game{inOrder[2], inOrder[0], inOrder[1]}

	a := NewRatingBook()
	require.NoError(t, a.Replay(inOrder))

	b := NewRatingBook()
	require.NoError(t, b.Replay(shuffled))

	assert.Equal(t, a.Rating(1), b.Rating(1))
	assert.Equal(t, a.Rating(2), b.Rating(2))
}

func TestReplayDiscardsPriorState(t *testing.T) {
	book := NewRatingBook()
	warmup := testGame(1, replayEpoch, models.GameType1v1, []int{9}, []int{8}, 10, 0)
	require.NoError(t, book.ApplyGame(warmup))

	require.NoError(t, book.Replay(nil))

	assert.Equal(t, BaseRating, book.Rating(9))
	assert.Empty(t, book.PlayerIDs())
}

func TestSeededBookContinuesFromStoredRatings(t *testing.T) {
	player := &models.Player{ID: 1, Rating: 1600, Rating1v1: 1580, Rating2v2: 1500, Rating2v1: 1500}
	opponent := &models.Player{ID: 2, Rating: 1400, Rating1v1: 1420, Rating2v2: 1500, Rating2v1: 1500}

	book := NewRatingBookFromPlayers([]*models.Player{player, opponent})
	assert.Equal(t, 1600, book.Rating(1))
	assert.Equal(t, 1420, book.RatingForType(2, models.GameType1v1))

	game := testGame(1, replayEpoch, models.GameType1v1, []int{1}, []int{2}, 10, 5)
	require.NoError(t, book.ApplyGame(game))

	// The favorite gains less than the parity payout.
	gain := book.Rating(1) - 1600
	assert.Positive(t, gain)
	assert.Less(t, gain, 16)

	book.WriteTo(player)
	assert.Equal(t, book.Rating(1), player.Rating)
	assert.Equal(t, book.RatingForType(1, models.GameType1v1), player.Rating1v1)
}
