package engine

import "github.com/foosdev/foosball-tracker/models"

// CakePair identifies a directed debt: Debtor owes Creditor.
type CakePair struct {
	DebtorID   int
	CreditorID int
}

// ShutoutPairs returns the (loser, winner) cross product of a shutout game:
// in team games every loser owes every winner one cake, not just the
// captains. Returns nil for non-shutout games.
func ShutoutPairs(game *models.Game) []CakePair {
	if !game.IsShutout() {
		return nil
	}
	var winners, losers []int
	for _, gp := range game.Participants {
		if gp.IsWinner {
			winners = append(winners, gp.PlayerID)
		} else {
			losers = append(losers, gp.PlayerID)
		}
	}
	pairs := make([]CakePair, 0, len(winners)*len(losers))
	for _, l := range losers {
		for _, w := range winners {
			pairs = append(pairs, CakePair{DebtorID: l, CreditorID: w})
		}
	}
	return pairs
}

// CakeBalances accumulates the full ledger for a set of games. Unlike rating
// replay, the result is order-independent: each shutout contributes a pure
// count increment, so any permutation of the same games yields identical
// balances.
func CakeBalances(games []*models.Game) map[CakePair]int {
	balances := make(map[CakePair]int)
	for _, game := range games {
		for _, pair := range ShutoutPairs(game) {
			balances[pair]++
		}
	}
	return balances
}
