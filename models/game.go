package models

import "time"

// ShutoutMargin is the score differential that makes a game a shutout and
// puts a cake on the line.
const ShutoutMargin = 10

// Game is an immutable record of one played game. Derived state (ratings,
// cake balances, snapshots) is always rebuilt from the game log, never the
// other way around.
type Game struct {
	ID         int        `json:"id" db:"id"`
	SeasonID   int        `json:"season_id" db:"season_id"`
	GameType   GameType   `json:"game_type" db:"game_type"`
	StartTime  time.Time  `json:"start_time" db:"start_time"`
	EndTime    *time.Time `json:"end_time,omitempty" db:"end_time"`
	Team1Score int        `json:"team1_score" db:"team1_score"`
	Team2Score int        `json:"team2_score" db:"team2_score"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`

	Participants []GamePlayer `json:"participants,omitempty" db:"-"`

	// TournamentLocked is set when the game is linked to a tournament match
	// and therefore cannot be edited. Populated by the service layer.
	TournamentLocked bool `json:"tournament_locked" db:"-"`
}

func (g *Game) IsShutout() bool {
	diff := g.Team1Score - g.Team2Score
	if diff < 0 {
		diff = -diff
	}
	return diff >= ShutoutMargin
}

// WinningTeam returns 1 or 2. Draws are rejected before a game is created.
func (g *Game) WinningTeam() int {
	if g.Team1Score > g.Team2Score {
		return 1
	}
	return 2
}

// TeamPlayerIDs partitions participant player ids by team.
func (g *Game) TeamPlayerIDs() (team1, team2 []int) {
	for _, gp := range g.Participants {
		if gp.Team == 1 {
			team1 = append(team1, gp.PlayerID)
		} else {
			team2 = append(team2, gp.PlayerID)
		}
	}
	return team1, team2
}

// GamePlayer links a player to a game with the team they played on and the
// rating delta the game produced for them.
type GamePlayer struct {
	ID          int    `json:"id" db:"id"`
	GameID      int    `json:"game_id" db:"game_id"`
	PlayerID    int    `json:"player_id" db:"player_id"`
	Team        int    `json:"team" db:"team"`
	IsWinner    bool   `json:"is_winner" db:"is_winner"`
	RatingDelta *int   `json:"rating_delta,omitempty" db:"rating_delta"`
	PlayerName  string `json:"player_name,omitempty" db:"-"`
}
