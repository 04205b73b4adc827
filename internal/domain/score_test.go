package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveScoreUsesFiveYearHorizon(t *testing.T) {
	projections := []Metrics{
		{HorizonYears: 3, PredictedEnergy: 10, PredictedFocus: 10},
		{HorizonYears: 5, PredictedEnergy: 80, PredictedFocus: 60},
		{HorizonYears: 10, PredictedEnergy: 90, PredictedFocus: 90},
	}

	score, err := DeriveScore(projections)
	require.NoError(t, err)
	require.Equal(t, 70.0, score)
}

func TestDeriveScoreMissingHorizon(t *testing.T) {
	projections := []Metrics{
		{HorizonYears: 3},
		{HorizonYears: 10},
	}

	_, err := DeriveScore(projections)
	require.ErrorIs(t, err, ErrScoringHorizonMissing)
}

func TestDeriveScoreEmptyInput(t *testing.T) {
	_, err := DeriveScore(nil)
	require.ErrorIs(t, err, ErrScoringHorizonMissing)
}
