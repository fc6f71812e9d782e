package models

import "time"

// Season is a quarterly period with its own rating baseline. At most one
// season carries IsCurrent at any time.
type Season struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	StartDate time.Time `json:"start_date" db:"start_date"`
	EndDate   time.Time `json:"end_date" db:"end_date"`
	IsCurrent bool      `json:"is_current" db:"is_current"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Contains reports whether d falls inside the season's date range.
func (s *Season) Contains(d time.Time) bool {
	return !d.Before(s.StartDate) && !d.After(s.EndDate)
}
