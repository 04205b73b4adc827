package domain

import "errors"

// ErrScoringHorizonMissing indicates DeriveScore was called without a
// five-year projection in the input. This is a caller contract violation,
// not a recoverable condition.
var ErrScoringHorizonMissing = errors.New("no five-year projection available for scoring")

const scoringHorizonYears = 5

// DeriveScore reduces a multi-horizon projection to the scalar leaderboard
// score: the mean of predicted energy and focus at the five-year horizon.
// The result is unrounded; presentation rounds to two decimals.
func DeriveScore(projections []Metrics) (float64, error) {
	for _, m := range projections {
		if m.HorizonYears == scoringHorizonYears {
			return (m.PredictedEnergy + m.PredictedFocus) / 2, nil
		}
	}
	return 0, ErrScoringHorizonMissing
}
