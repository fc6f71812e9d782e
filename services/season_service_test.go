package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQuarterOf(t *testing.T) {
	cases := []struct {
		date    time.Time
		quarter int
		year    int
	}{
		{time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), 1, 2026},
		{time.Date(2026, time.March, 31, 23, 59, 59, 0, time.UTC), 1, 2026},
		{time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), 2, 2026},
		{time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC), 2, 2026},
		{time.Date(2026, time.September, 30, 0, 0, 0, 0, time.UTC), 3, 2026},
		{time.Date(2026, time.December, 31, 23, 59, 59, 0, time.UTC), 4, 2026},
	}
	for _, tc := range cases {
		quarter, year := QuarterOf(tc.date)
		assert.Equal(t, tc.quarter, quarter, "%v", tc.date)
		assert.Equal(t, tc.year, year, "%v", tc.date)
	}
}

func TestQuarterBounds(t *testing.T) {
	start, end := QuarterBounds(2026, 1)
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.March, 31, 23, 59, 59, 0, time.UTC), end)

	start, end = QuarterBounds(2026, 4)
	assert.Equal(t, time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.December, 31, 23, 59, 59, 0, time.UTC), end)
}

func TestQuarterBoundsLeapYear(t *testing.T) {
	// Q1 of a leap year still runs through March 31 regardless of the extra
	// February day.
	start, end := QuarterBounds(2028, 1)
	assert.Equal(t, time.Date(2028, time.January, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2028, time.March, 31, 23, 59, 59, 0, time.UTC), end)
}

func TestQuartersTile(t *testing.T) {
	// Consecutive quarters must leave no gap larger than the one-second
	// boundary convention.
	for quarter := 1; quarter <= 3; quarter++ {
		_, end := QuarterBounds(2026, quarter)
		nextStart, _ := QuarterBounds(2026, quarter+1)
		assert.Equal(t, nextStart, end.Add(time.Second), "Q%d to Q%d", quarter, quarter+1)
	}
	_, q4End := QuarterBounds(2026, 4)
	q1Start, _ := QuarterBounds(2027, 1)
	assert.Equal(t, q1Start, q4End.Add(time.Second))
}

func TestSeasonName(t *testing.T) {
	assert.Equal(t, "Q1 2026", SeasonName(2026, 1))
	assert.Equal(t, "Q4 2025", SeasonName(2025, 4))
}
