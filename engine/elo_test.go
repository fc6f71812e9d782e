package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpectedScoreParity(t *testing.T) {
	assert.InDelta(t, 0.5, ExpectedScore(1500, 1500), 1e-9)
}

func TestExpectedScoreBounds(t *testing.T) {
	high := ExpectedScore(2400, 1200)
	low := ExpectedScore(1200, 2400)

	assert.Greater(t, high, 0.5)
	assert.Less(t, high, 1.0)
	assert.Less(t, low, 0.5)
	assert.Greater(t, low, 0.0)
}

func TestExpectedScoresSumToOne(t *testing.T) {
	a := ExpectedScore(1620, 1480)
	b := ExpectedScore(1480, 1620)
	assert.InDelta(t, 1.0, a+b, 1e-9)
}

func TestEloChangeAtParity(t *testing.T) {
	change1, change2 := CalculateEloChange(1500, 1500, 10, 5, KFactor)

	assert.Equal(t, 16, change1)
	assert.Equal(t, -16, change2)
}

func TestEloChangeSigns(t *testing.T) {
	change1, change2 := CalculateEloChange(1700, 1300, 3, 10, KFactor)

	assert.Negative(t, change1, "losing favorite must drop")
	assert.Positive(t, change2, "winning underdog must gain")
}

func TestUpsetPaysMoreThanExpectedWin(t *testing.T) {
	favoriteWin, _ := CalculateEloChange(1700, 1300, 10, 2, KFactor)
	_, upsetWin := CalculateEloChange(1700, 1300, 2, 10, KFactor)

	assert.Greater(t, upsetWin, favoriteWin)
}

func TestEloChangeIgnoresMargin(t *testing.T) {
	narrow1, narrow2 := CalculateEloChange(1500, 1500, 10, 9, KFactor)
	blowout1, blowout2 := CalculateEloChange(1500, 1500, 10, 0, KFactor)

	assert.Equal(t, narrow1, blowout1)
	assert.Equal(t, narrow2, blowout2)
}
