package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatingSlotsRoundTrip(t *testing.T) {
	p := &Player{Rating: 1500}

	for i, gameType := range GameTypes {
		p.SetRatingForType(gameType, 1600+i)
	}
	for i, gameType := range GameTypes {
		assert.Equal(t, 1600+i, p.RatingForType(gameType))
	}

	// The slots are independent of each other and of the global rating.
	assert.Equal(t, 1500, p.Rating)
	assert.Equal(t, 1600, p.Rating1v1)
	assert.Equal(t, 1601, p.Rating2v2)
	assert.Equal(t, 1602, p.Rating2v1)
}

func TestRatingForUnknownTypeFallsBackToGlobal(t *testing.T) {
	p := &Player{Rating: 1480, Rating1v1: 1520}

	assert.Equal(t, 1480, p.RatingForType(GameType("3v3")))

	p.SetRatingForType(GameType("3v3"), 1700)
	assert.Equal(t, 1480, p.Rating)
	assert.Equal(t, 1520, p.Rating1v1)
}

func TestGameTypeValid(t *testing.T) {
	for _, gameType := range GameTypes {
		assert.True(t, gameType.Valid())
	}
	assert.False(t, GameType("3v3").Valid())
	assert.False(t, GameType("").Valid())
}
