package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeedingOrderTwoSlots(t *testing.T) {
	assert.Equal(t, []int{1, 2}, SeedingOrder(1))
}

func TestSeedingOrderFourSlots(t *testing.T) {
	assert.Equal(t, []int{1, 4, 2, 3}, SeedingOrder(2))
}

func TestSeedingOrderEightSlots(t *testing.T) {
	assert.Equal(t, []int{1, 8, 4, 5, 2, 7, 3, 6}, SeedingOrder(3))
}

func TestSeedingOrderContainsEverySeedOnce(t *testing.T) {
	for rounds := 1; rounds <= 6; rounds++ {
		order := SeedingOrder(rounds)
		size := 1 << uint(rounds)
		assert.Len(t, order, size)

		seen := make(map[int]bool, size)
		for _, seed := range order {
			assert.GreaterOrEqual(t, seed, 1)
			assert.LessOrEqual(t, seed, size)
			assert.False(t, seen[seed], "seed %d duplicated for rounds=%d", seed, rounds)
			seen[seed] = true
		}
	}
}

func TestSeedingOrderPairSumsAreConstant(t *testing.T) {
	// Every first-round pairing must sum to size+1, the mirror property that
	// keeps top seeds apart until the late rounds.
	for rounds := 1; rounds <= 6; rounds++ {
		order := SeedingOrder(rounds)
		size := 1 << uint(rounds)
		for i := 0; i < len(order); i += 2 {
			assert.Equal(t, size+1, order[i]+order[i+1], "rounds=%d pair %d", rounds, i/2)
		}
	}
}
