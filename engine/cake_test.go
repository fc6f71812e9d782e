package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/foosdev/foosball-tracker/models"
)

var cakeEpoch = time.Date(2026, time.April, 10, 18, 0, 0, 0, time.UTC)

func TestShutoutPairsBelowMargin(t *testing.T) {
	game := testGame(1, cakeEpoch, models.GameType1v1, []int{1}, []int{2}, 10, 1)

	assert.Nil(t, ShutoutPairs(game), "9 goal margin is not a shutout")
}

func TestShutoutPairsAtMargin(t *testing.T) {
	game := testGame(1, cakeEpoch, models.GameType1v1, []int{1}, []int{2}, 10, 0)

	pairs := ShutoutPairs(game)
	assert.Equal(t, []CakePair{{DebtorID: 2, CreditorID: 1}}, pairs)
}

func TestShutoutPairsElevenToOne(t *testing.T) {
	game := testGame(1, cakeEpoch, models.GameType1v1, []int{1}, []int{2}, 11, 1)

	assert.Len(t, ShutoutPairs(game), 1, "margin 10 via 11-1 still counts")
}

func TestShutoutPairsCrossProduct(t *testing.T) {
	game := testGame(1, cakeEpoch, models.GameType2v2, []int{1, 2}, []int{3, 4}, 0, 10)

	pairs := ShutoutPairs(game)
	assert.Len(t, pairs, 4)
	assert.ElementsMatch(t, []CakePair{
		{DebtorID: 1, CreditorID: 3},
		{DebtorID: 1, CreditorID: 4},
		{DebtorID: 2, CreditorID: 3},
		{DebtorID: 2, CreditorID: 4},
	}, pairs)
}

func TestCakeBalancesAccumulate(t *testing.T) {
	games := []*models.Game{
		testGame(1, cakeEpoch, models.GameType1v1, []int{1}, []int{2}, 10, 0),
		testGame(2, cakeEpoch.Add(time.Hour), models.GameType1v1, []int{1}, []int{2}, 10, 0),
		testGame(3, cakeEpoch.Add(2*time.Hour), models.GameType1v1, []int{2}, []int{1}, 10, 6),
	}

	balances := CakeBalances(games)
	assert.Equal(t, map[CakePair]int{
		{DebtorID: 2, CreditorID: 1}: 2,
	}, balances)
}

func TestCakeBalancesOrderIndependent(t *testing.T) {
	games := []*models.Game{
		testGame(1, cakeEpoch, models.GameType1v1, []int{1}, []int{2}, 10, 0),
		testGame(2, cakeEpoch.Add(time.Hour), models.GameType2v2, []int{1, 3}, []int{2, 4}, 11, 1),
		testGame(3, cakeEpoch.Add(2*time.Hour), models.GameType1v1, []int{4}, []int{3}, 10, 0),
	}
	permutations := [][]*models.Game{
		{games[0], games[1], games[2]},
		{games[2], games[1], games[0]},
		{games[1], games[0], games[2]},
	}

	want := CakeBalances(games)
	for _, perm := range permutations {
		assert.Equal(t, want, CakeBalances(perm))
	}
}
