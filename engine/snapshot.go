package engine

import (
	"sort"
	"time"

	"github.com/foosdev/foosball-tracker/models"
)

// Standing is one player's ranked position at the close of a snapshot date.
type Standing struct {
	PlayerID   int
	Rank       int
	Rating     int
	TotalGames int
}

// DailySnapshot is the full ranked standings after all of one calendar
// date's games have been applied.
type DailySnapshot struct {
	Date      time.Time
	Standings []Standing
}

// SnapshotDate truncates a timestamp to its calendar date in UTC.
func SnapshotDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ReplayDailySnapshots replays one season's games through a fresh rating
// book, grouped by calendar date, and emits one ranked standings set per date
// after that date's whole batch has been applied. Snapshot granularity is
// daily, never per-game. Only players with at least one game so far appear;
// ranking is by rating descending with ties kept in first-appearance order
// (arbitrary but deterministic).
func ReplayDailySnapshots(games []*models.Game) ([]DailySnapshot, error) {
	ordered := make([]*models.Game, len(games))
	copy(ordered, games)
	SortGames(ordered)

	book := NewRatingBook()
	gameCounts := make(map[int]int)
	var appearance []int // player ids in order of first participation

	var snapshots []DailySnapshot
	for i := 0; i < len(ordered); {
		date := SnapshotDate(ordered[i].StartTime)

		// Apply every game that falls on this date.
		for i < len(ordered) && SnapshotDate(ordered[i].StartTime).Equal(date) {
			game := ordered[i]
			if err := book.ApplyGame(game); err != nil {
				return nil, err
			}
			for _, gp := range game.Participants {
				if gameCounts[gp.PlayerID] == 0 {
					appearance = append(appearance, gp.PlayerID)
				}
				gameCounts[gp.PlayerID]++
			}
			i++
		}

		snapshots = append(snapshots, DailySnapshot{
			Date:      date,
			Standings: rankStandings(book, appearance, gameCounts),
		})
	}
	return snapshots, nil
}

func rankStandings(book *RatingBook, appearance []int, gameCounts map[int]int) []Standing {
	standings := make([]Standing, 0, len(appearance))
	for _, id := range appearance {
		standings = append(standings, Standing{
			PlayerID:   id,
			Rating:     book.Rating(id),
			TotalGames: gameCounts[id],
		})
	}
	// Stable sort keeps equal ratings in first-appearance order.
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Rating > standings[j].Rating
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings
}
