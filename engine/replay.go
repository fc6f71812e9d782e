package engine

import (
	"errors"
	"sort"

	"github.com/foosdev/foosball-tracker/models"
)

var (
	ErrEmptyTeam = errors.New("game has a team with no players")
	ErrDrawnGame = errors.New("game has equal scores")
)

type playerRatings struct {
	global int
	byType map[models.GameType]int
}

// RatingBook holds the in-memory rating state the engine mutates while
// applying games. A fresh book rates every player at BaseRating; a book can
// also be seeded from stored player rows for the incremental
// append-one-game path. Both paths must converge on identical state: that
// equivalence is the engine's core correctness property.
type RatingBook struct {
	ratings map[int]*playerRatings
}

func NewRatingBook() *RatingBook {
	return &RatingBook{ratings: make(map[int]*playerRatings)}
}

// NewRatingBookFromPlayers seeds a book with the stored ratings of the given
// players, for incremental application of a newly appended game.
func NewRatingBookFromPlayers(players []*models.Player) *RatingBook {
	book := NewRatingBook()
	for _, p := range players {
		byType := make(map[models.GameType]int, len(models.GameTypes))
		for _, t := range models.GameTypes {
			byType[t] = p.RatingForType(t)
		}
		book.ratings[p.ID] = &playerRatings{global: p.Rating, byType: byType}
	}
	return book
}

func (b *RatingBook) entry(playerID int) *playerRatings {
	pr, ok := b.ratings[playerID]
	if !ok {
		pr = &playerRatings{global: BaseRating, byType: make(map[models.GameType]int)}
		b.ratings[playerID] = pr
	}
	return pr
}

// Rating returns the player's current global rating, BaseRating if the book
// has never seen them.
func (b *RatingBook) Rating(playerID int) int {
	if pr, ok := b.ratings[playerID]; ok {
		return pr.global
	}
	return BaseRating
}

// RatingForType returns the player's current type-scoped rating.
func (b *RatingBook) RatingForType(playerID int, t models.GameType) int {
	if pr, ok := b.ratings[playerID]; ok {
		if r, ok := pr.byType[t]; ok {
			return r
		}
	}
	return BaseRating
}

// PlayerIDs returns the ids of every player the book has state for.
func (b *RatingBook) PlayerIDs() []int {
	ids := make([]int, 0, len(b.ratings))
	for id := range b.ratings {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// ApplyGame runs two independent ELO computations for the game, one against
// the global ratings and one against the type-scoped ratings, and mutates the
// book. Team ratings are the arithmetic mean of member ratings taken before
// the update; every member of a team receives the same delta. The global
// delta is written into each participant's RatingDelta for audit and display.
func (b *RatingBook) ApplyGame(game *models.Game) error {
	if game.Team1Score == game.Team2Score {
		return ErrDrawnGame
	}
	team1, team2 := game.TeamPlayerIDs()
	if len(team1) == 0 || len(team2) == 0 {
		return ErrEmptyTeam
	}

	change1, change2 := CalculateEloChange(
		b.averageRating(team1), b.averageRating(team2),
		game.Team1Score, game.Team2Score, KFactor,
	)
	for _, id := range team1 {
		b.entry(id).global += change1
	}
	for _, id := range team2 {
		b.entry(id).global += change2
	}

	typed1, typed2 := CalculateEloChange(
		b.averageTypeRating(team1, game.GameType), b.averageTypeRating(team2, game.GameType),
		game.Team1Score, game.Team2Score, KFactor,
	)
	for _, id := range team1 {
		b.entry(id).byType[game.GameType] = b.RatingForType(id, game.GameType) + typed1
	}
	for _, id := range team2 {
		b.entry(id).byType[game.GameType] = b.RatingForType(id, game.GameType) + typed2
	}

	for i := range game.Participants {
		gp := &game.Participants[i]
		delta := change1
		if gp.Team == 2 {
			delta = change2
		}
		gp.RatingDelta = &delta
	}
	return nil
}

func (b *RatingBook) averageRating(playerIDs []int) float64 {
	sum := 0
	for _, id := range playerIDs {
		sum += b.Rating(id)
	}
	return float64(sum) / float64(len(playerIDs))
}

func (b *RatingBook) averageTypeRating(playerIDs []int, t models.GameType) float64 {
	sum := 0
	for _, id := range playerIDs {
		sum += b.RatingForType(id, t)
	}
	return float64(sum) / float64(len(playerIDs))
}

// WriteTo copies the book's state for a player onto the player row.
func (b *RatingBook) WriteTo(p *models.Player) {
	p.Rating = b.Rating(p.ID)
	for _, t := range models.GameTypes {
		p.SetRatingForType(t, b.RatingForType(p.ID, t))
	}
}

// SortGames orders games chronologically by start time, breaking ties by id
// so a replay of the same log is always reproducible.
func SortGames(games []*models.Game) {
	sort.SliceStable(games, func(i, j int) bool {
		if !games[i].StartTime.Equal(games[j].StartTime) {
			return games[i].StartTime.Before(games[j].StartTime)
		}
		return games[i].ID < games[j].ID
	})
}

// Replay discards the book's state and rebuilds it by applying every game in
// chronological order. This is the sole mechanism for reconstructing ratings
// after a historical edit; its output does not depend on any prior state.
func (b *RatingBook) Replay(games []*models.Game) error {
	b.ratings = make(map[int]*playerRatings)
	ordered := make([]*models.Game, len(games))
	copy(ordered, games)
	SortGames(ordered)
	for _, game := range ordered {
		if err := b.ApplyGame(game); err != nil {
			return err
		}
	}
	return nil
}
