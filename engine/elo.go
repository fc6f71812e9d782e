package engine

import "math"

const (
	// BaseRating is the rating every player starts (and restarts) a season at.
	BaseRating = 1500

	// KFactor caps the rating points transferable in a single game.
	KFactor = 32
)

// ExpectedScore returns the probability-like expected score of side A against
// side B under the logistic ELO model. Strictly between 0 and 1 for finite
// ratings, exactly 0.5 at parity.
func ExpectedScore(ratingA, ratingB float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (ratingB-ratingA)/400.0))
}

// CalculateEloChange computes the signed rating deltas for both teams of a
// decided game. The actual score is 1 for the strictly higher-scoring team and
// 0 for the other; draws must be rejected before this point. The two deltas
// sum to zero only when the team ratings are equal, since each side's delta is
// rounded independently.
func CalculateEloChange(team1Rating, team2Rating float64, team1Score, team2Score, k int) (int, int) {
	expected1 := ExpectedScore(team1Rating, team2Rating)
	expected2 := ExpectedScore(team2Rating, team1Rating)

	var actual1, actual2 float64
	if team1Score > team2Score {
		actual1 = 1
	} else {
		actual2 = 1
	}

	change1 := int(math.Round(float64(k) * (actual1 - expected1)))
	change2 := int(math.Round(float64(k) * (actual2 - expected2)))
	return change1, change2
}
