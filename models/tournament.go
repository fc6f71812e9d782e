package models

import "time"

// TournamentStatus follows setup -> active -> completed. Completed is
// terminal.
type TournamentStatus string

const (
	TournamentStatusSetup     TournamentStatus = "setup"
	TournamentStatusActive    TournamentStatus = "active"
	TournamentStatusCompleted TournamentStatus = "completed"
)

type Tournament struct {
	ID          int              `json:"id" db:"id"`
	Name        string           `json:"name" db:"name"`
	Status      TournamentStatus `json:"status" db:"status"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	StartedAt   *time.Time       `json:"started_at,omitempty" db:"started_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty" db:"completed_at"`

	Participants []TournamentParticipant `json:"participants,omitempty" db:"-"`
	Matches      []*TournamentMatch      `json:"matches,omitempty" db:"-"`
}

// TournamentParticipant records the seed a player drew for a tournament.
type TournamentParticipant struct {
	ID           int    `json:"id" db:"id"`
	TournamentID int    `json:"tournament_id" db:"tournament_id"`
	PlayerID     int    `json:"player_id" db:"player_id"`
	Seed         int    `json:"seed" db:"seed"`
	Eliminated   bool   `json:"eliminated" db:"eliminated"`
	PlayerName   string `json:"player_name,omitempty" db:"-"`
}

// TournamentMatch is one node of the elimination tree. Round 1 is the final;
// the winner of a non-final match advances into NextMatchID. Player slots are
// nil until the feeding matches resolve.
type TournamentMatch struct {
	ID           int  `json:"id" db:"id"`
	TournamentID int  `json:"tournament_id" db:"tournament_id"`
	RoundNumber  int  `json:"round_number" db:"round_number"`
	MatchNumber  int  `json:"match_number" db:"match_number"`
	Player1ID    *int `json:"player1_id,omitempty" db:"player1_id"`
	Player2ID    *int `json:"player2_id,omitempty" db:"player2_id"`
	WinnerID     *int `json:"winner_id,omitempty" db:"winner_id"`
	GameID       *int `json:"game_id,omitempty" db:"game_id"`
	NextMatchID  *int `json:"next_match_id,omitempty" db:"next_match_id"`

	Player1Name string `json:"player1_name,omitempty" db:"-"`
	Player2Name string `json:"player2_name,omitempty" db:"-"`
}

// IsFinal reports whether the match is the root of the bracket tree.
func (m *TournamentMatch) IsFinal() bool {
	return m.RoundNumber == 1
}

// Decided reports whether the match already has a winner.
func (m *TournamentMatch) Decided() bool {
	return m.WinnerID != nil
}
