package brackets

import (
	"errors"
	"math"
)

var ErrNotEnoughPlayers = errors.New("single elimination bracket requires at least 2 players")

// Match is one node of the generated elimination tree. Rounds count down
// toward the final: round 1 is the final, round Rounds is the first round.
// Next is nil only for the final; the winner of feeder match number 2k-1
// fills the next match's first slot and 2k its second.
type Match struct {
	Round  int
	Number int

	Player1ID *int
	Player2ID *int
	WinnerID  *int

	Next *Match
}

// Bracket is a full single-elimination tree with byes already resolved.
type Bracket struct {
	Rounds  int
	Matches []*Match // round descending (first round first), number ascending
	Final   *Match
}

// GenerateSingleElimination builds the bracket for the given players in seed
// order: playerIDs[0] is seed 1, and so on. The caller is responsible for
// shuffling if seeds should be random. The tree always has 2^ceil(log2 n)-1
// match nodes; seeds beyond len(playerIDs) are byes. A first-round match with
// a single real player auto-resolves, and the bye winner keeps advancing as
// long as both matches feeding the next slot are already resolved, never
// past a real pending match.
func GenerateSingleElimination(playerIDs []int) (*Bracket, error) {
	n := len(playerIDs)
	if n < 2 {
		return nil, ErrNotEnoughPlayers
	}

	rounds := int(math.Ceil(math.Log2(float64(n))))

	// Build the tree from the final backward so Next pointers exist before
	// the matches that feed them.
	byRound := make([][]*Match, rounds+1)
	final := &Match{Round: 1, Number: 1}
	byRound[1] = []*Match{final}
	for round := 2; round <= rounds; round++ {
		matches := make([]*Match, 1<<uint(round-1))
		for i := range matches {
			matches[i] = &Match{
				Round:  round,
				Number: i + 1,
				Next:   byRound[round-1][i/2],
			}
		}
		byRound[round] = matches
	}

	// Seat players into the first round using the standard seeding order.
	// Seeds greater than n are byes and leave the slot empty.
	order := SeedingOrder(rounds)
	firstRound := byRound[rounds]
	for i, match := range firstRound {
		if seed := order[2*i]; seed <= n {
			id := playerIDs[seed-1]
			match.Player1ID = &id
		}
		if seed := order[2*i+1]; seed <= n {
			id := playerIDs[seed-1]
			match.Player2ID = &id
		}
	}

	b := &Bracket{Rounds: rounds, Final: final}
	for round := rounds; round >= 1; round-- {
		b.Matches = append(b.Matches, byRound[round]...)
	}

	// Resolve byes. Only the generation phase cascades advancement; manual
	// results later never do.
	for _, match := range firstRound {
		if match.Player1ID != nil && match.Player2ID == nil {
			match.WinnerID = match.Player1ID
			b.advance(match, true)
		} else if match.Player2ID != nil && match.Player1ID == nil {
			match.WinnerID = match.Player2ID
			b.advance(match, true)
		}
	}

	return b, nil
}

// Feeders returns the matches whose winners advance into m, ordered by match
// number. Empty for first-round matches.
func (b *Bracket) Feeders(m *Match) []*Match {
	var feeders []*Match
	for _, candidate := range b.Matches {
		if candidate.Next == m {
			feeders = append(feeders, candidate)
		}
	}
	return feeders
}

// Advance places the winner of a decided match into the correct slot of its
// next match. Used for manually recorded results, so it never cascades
// through byes.
func (b *Bracket) Advance(m *Match) {
	b.advance(m, false)
}

func (b *Bracket) advance(m *Match, autoByes bool) {
	if m.WinnerID == nil || m.Next == nil {
		return
	}
	next := m.Next

	// The odd-numbered feeder fills slot 1, the even-numbered slot 2.
	if m.Number%2 == 1 {
		next.Player1ID = m.WinnerID
	} else {
		next.Player2ID = m.WinnerID
	}

	if !autoByes {
		return
	}

	// A bye may only keep advancing once both feeders of the next match are
	// resolved; otherwise it would skip past a real pending match.
	for _, feeder := range b.Feeders(next) {
		if feeder.WinnerID == nil {
			return
		}
	}
	if next.Player1ID != nil && next.Player2ID == nil {
		next.WinnerID = next.Player1ID
		b.advance(next, true)
	} else if next.Player2ID != nil && next.Player1ID == nil {
		next.WinnerID = next.Player2ID
		b.advance(next, true)
	}
}
