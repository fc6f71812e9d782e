package models

// PlayerStats is one leaderboard row: everything downstream consumers (the
// web leaderboard, the badge layer) need about a player's season.
type PlayerStats struct {
	PlayerID         int     `json:"player_id"`
	PlayerName       string  `json:"player_name"`
	Rank             int     `json:"rank"`
	Rating           int     `json:"rating"`
	TotalGames       int     `json:"total_games"`
	Wins             int     `json:"wins"`
	Losses           int     `json:"losses"`
	WinRate          float64 `json:"win_rate"`
	GoalsFor         int     `json:"goals_for"`
	GoalsAgainst     int     `json:"goals_against"`
	GoalDifference   int     `json:"goal_difference"`
	ShutoutsGiven    int     `json:"shutouts_given"`
	ShutoutsReceived int     `json:"shutouts_received"`
	CurrentStreak    int     `json:"current_streak"`
	BestStreak       int     `json:"best_streak"`
}
