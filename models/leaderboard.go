package models

import "time"

// LeaderboardHistory is one player's closing standing for one calendar date
// within a season. Unique per (player, season, date).
type LeaderboardHistory struct {
	ID           int       `json:"id" db:"id"`
	PlayerID     int       `json:"player_id" db:"player_id"`
	SeasonID     int       `json:"season_id" db:"season_id"`
	SnapshotDate time.Time `json:"snapshot_date" db:"snapshot_date"`
	Rank         int       `json:"rank" db:"rank"`
	Rating       int       `json:"rating" db:"rating"`
	TotalGames   int       `json:"total_games" db:"total_games"`
	PlayerName   string    `json:"player_name,omitempty" db:"-"`
}
