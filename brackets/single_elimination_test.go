package brackets

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playerIDs(n int) []int {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = (i + 1) * 10
	}
	return ids
}

func TestGenerateRequiresTwoPlayers(t *testing.T) {
	_, err := GenerateSingleElimination([]int{1})
	assert.ErrorIs(t, err, ErrNotEnoughPlayers)

	_, err = GenerateSingleElimination(nil)
	assert.ErrorIs(t, err, ErrNotEnoughPlayers)
}

func TestBracketNodeCount(t *testing.T) {
	for n := 2; n <= 17; n++ {
		b, err := GenerateSingleElimination(playerIDs(n))
		require.NoError(t, err)

		rounds := int(math.Ceil(math.Log2(float64(n))))
		assert.Equal(t, rounds, b.Rounds, "n=%d", n)
		assert.Len(t, b.Matches, (1<<uint(rounds))-1, "n=%d", n)
	}
}

func TestPowerOfTwoBracketHasNoByes(t *testing.T) {
	b, err := GenerateSingleElimination(playerIDs(8))
	require.NoError(t, err)

	firstRound := b.Matches[:4]
	for _, m := range firstRound {
		assert.Equal(t, 3, m.Round)
		require.NotNil(t, m.Player1ID)
		require.NotNil(t, m.Player2ID)
		assert.Nil(t, m.WinnerID)
	}
}

func TestTopSeedsMeetOnlyInFinal(t *testing.T) {
	b, err := GenerateSingleElimination(playerIDs(8))
	require.NoError(t, err)

	// Seeds 1 and 2 start in opposite halves: their first-round matches feed
	// different semifinals.
	var seed1Match, seed2Match *Match
	for _, m := range b.Matches[:4] {
		if m.Player1ID != nil && *m.Player1ID == 10 {
			seed1Match = m
		}
		if m.Player1ID != nil && *m.Player1ID == 20 {
			seed2Match = m
		}
	}
	require.NotNil(t, seed1Match)
	require.NotNil(t, seed2Match)
	assert.NotEqual(t, seed1Match.Next, seed2Match.Next)
	assert.Equal(t, b.Final, seed1Match.Next.Next)
	assert.Equal(t, b.Final, seed2Match.Next.Next)
}

func TestFivePlayerByes(t *testing.T) {
	// Seeds: 10=1, 20=2, 30=3, 40=4, 50=5. Placement [1,8,4,5,2,7,3,6]
	// gives byes to seeds 1, 2 and 3, a real match between 4 and 5, and bye
	// winners that wait on pending opponents instead of skipping ahead.
	b, err := GenerateSingleElimination(playerIDs(5))
	require.NoError(t, err)
	require.Equal(t, 3, b.Rounds)

	firstRound := b.Matches[:4]

	// Match 1: seed 1 unopposed.
	require.NotNil(t, firstRound[0].WinnerID)
	assert.Equal(t, 10, *firstRound[0].WinnerID)

	// Match 2: seeds 4 and 5 play for real.
	require.NotNil(t, firstRound[1].Player1ID)
	require.NotNil(t, firstRound[1].Player2ID)
	assert.Equal(t, 40, *firstRound[1].Player1ID)
	assert.Equal(t, 50, *firstRound[1].Player2ID)
	assert.Nil(t, firstRound[1].WinnerID)

	// Matches 3 and 4: seeds 2 and 3 advance on byes.
	require.NotNil(t, firstRound[2].WinnerID)
	assert.Equal(t, 20, *firstRound[2].WinnerID)
	require.NotNil(t, firstRound[3].WinnerID)
	assert.Equal(t, 30, *firstRound[3].WinnerID)

	semis := b.Matches[4:6]

	// Top semifinal: seed 1 seated, waiting on the 4v5 winner. The bye must
	// not cascade past the pending match.
	require.NotNil(t, semis[0].Player1ID)
	assert.Equal(t, 10, *semis[0].Player1ID)
	assert.Nil(t, semis[0].Player2ID)
	assert.Nil(t, semis[0].WinnerID)

	// Bottom semifinal: both bye winners seated, no auto-winner since both
	// slots hold real players.
	require.NotNil(t, semis[1].Player1ID)
	require.NotNil(t, semis[1].Player2ID)
	assert.Equal(t, 20, *semis[1].Player1ID)
	assert.Equal(t, 30, *semis[1].Player2ID)
	assert.Nil(t, semis[1].WinnerID)

	assert.Nil(t, b.Final.Player1ID)
	assert.Nil(t, b.Final.Player2ID)
}

func TestAdvanceSeatsWinnerBySlot(t *testing.T) {
	b, err := GenerateSingleElimination(playerIDs(5))
	require.NoError(t, err)

	pending := b.Matches[1] // the 4v5 first-round match
	winner := *pending.Player2ID
	pending.WinnerID = &winner
	b.Advance(pending)

	semi := pending.Next
	require.NotNil(t, semi.Player2ID)
	assert.Equal(t, winner, *semi.Player2ID, "even-numbered feeder fills slot 2")
	assert.Nil(t, semi.WinnerID, "manual advancement never auto-resolves")
}

func TestFeedersOrderedByMatchNumber(t *testing.T) {
	b, err := GenerateSingleElimination(playerIDs(8))
	require.NoError(t, err)

	for _, semi := range b.Matches[4:6] {
		feeders := b.Feeders(semi)
		require.Len(t, feeders, 2)
		assert.Equal(t, feeders[0].Number+1, feeders[1].Number)
		assert.Equal(t, 1, feeders[0].Number%2, "first feeder is odd-numbered")
	}

	assert.Len(t, b.Feeders(b.Final), 2)
	assert.Empty(t, b.Feeders(b.Matches[0]))
}

func TestNoPlayerSeatedTwice(t *testing.T) {
	for n := 2; n <= 16; n++ {
		b, err := GenerateSingleElimination(playerIDs(n))
		require.NoError(t, err)

		// Count how many undecided matches each player currently occupies.
		occupied := make(map[int]int)
		for _, m := range b.Matches {
			if m.WinnerID != nil {
				continue
			}
			if m.Player1ID != nil {
				occupied[*m.Player1ID]++
			}
			if m.Player2ID != nil {
				occupied[*m.Player2ID]++
			}
		}
		for id, count := range occupied {
			assert.Equal(t, 1, count, "n=%d player %d seated in %d pending matches", n, id, count)
		}
	}
}
