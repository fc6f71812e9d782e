package models

import "time"

// GameAuditLog records one edit to a game: who (by IP), when, and a JSON
// before/after diff plus a human-readable summary.
type GameAuditLog struct {
	ID       int       `json:"id" db:"id"`
	GameID   int       `json:"game_id" db:"game_id"`
	EditedAt time.Time `json:"edited_at" db:"edited_at"`
	EditorIP *string   `json:"editor_ip,omitempty" db:"editor_ip"`
	Changes  string    `json:"changes" db:"changes"`
	Summary  string    `json:"summary" db:"summary"`
}
