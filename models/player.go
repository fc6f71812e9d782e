package models

import "time"

// GameType enumerates the supported table formats.
type GameType string

const (
	GameType1v1 GameType = "1v1"
	GameType2v2 GameType = "2v2"
	GameType2v1 GameType = "2v1"
)

// GameTypes lists every supported format.
var GameTypes = []GameType{GameType1v1, GameType2v2, GameType2v1}

func (t GameType) Valid() bool {
	switch t {
	case GameType1v1, GameType2v2, GameType2v1:
		return true
	}
	return false
}

// Player carries the global rating plus one independent rating per game type.
// Ratings are mutated only by the rating engine and by season resets.
type Player struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Rating    int       `json:"rating" db:"rating"`
	Rating1v1 int       `json:"rating_1v1" db:"rating_1v1"`
	Rating2v2 int       `json:"rating_2v2" db:"rating_2v2"`
	Rating2v1 int       `json:"rating_2v1" db:"rating_2v1"`
	AvatarKey *string   `json:"-" db:"avatar_key"`
	AvatarURL *string   `json:"avatar_url,omitempty" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// RatingForType returns the type-scoped rating slot. The mapping is an
// explicit switch so adding a format is a compile-visible change.
func (p *Player) RatingForType(t GameType) int {
	switch t {
	case GameType1v1:
		return p.Rating1v1
	case GameType2v2:
		return p.Rating2v2
	case GameType2v1:
		return p.Rating2v1
	}
	return p.Rating
}

func (p *Player) SetRatingForType(t GameType, rating int) {
	switch t {
	case GameType1v1:
		p.Rating1v1 = rating
	case GameType2v2:
		p.Rating2v2 = rating
	case GameType2v1:
		p.Rating2v1 = rating
	}
}
