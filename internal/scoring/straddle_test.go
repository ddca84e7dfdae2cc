package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EarningsSentinel/internal/model"
)

func moves(pcts ...float64) []model.HistoricalMove {
	out := make([]model.HistoricalMove, len(pcts))
	for i, p := range pcts {
		out[i] = model.HistoricalMove{RealizedMovePct: p}
	}
	return out
}

func TestScoreStraddleCandidate(t *testing.T) {
	// History avg 6.4, last 7.6: implied 5.0 is well below both thresholds.
	s := ScoreStraddle(5.0, moves(7.6, 6.0, 6.4, 5.6))

	require.NotNil(t, s.RatioToAvg)
	require.NotNil(t, s.RatioToLast)
	assert.InDelta(t, 0.781, *s.RatioToAvg, 0.001)
	assert.InDelta(t, 0.658, *s.RatioToLast, 0.001)
	assert.Equal(t, model.RecCandidate, s.Recommendation)

	require.NotNil(t, s.Score)
	assert.InDelta(t, (6.4-5.0)/5.0, *s.Score, 0.0001)
}

func TestScoreStraddleWatch(t *testing.T) {
	// Ratio to avg just inside 1.00 but ratio to last too high for CANDIDATE.
	s := ScoreStraddle(7.6, moves(7.6, 8.0)) // avg 7.8, last 7.6

	assert.Equal(t, model.RecWatch, s.Recommendation)
}

func TestScoreStraddlePass(t *testing.T) {
	// Ratios 1.11: implied move richer than anything history realized.
	s := ScoreStraddle(10.0, moves(9.0, 9.0))
	assert.Equal(t, model.RecPass, s.Recommendation)
}

func TestScoreStraddleNoHistoryDefaultsToWatch(t *testing.T) {
	s := ScoreStraddle(8.0, nil)

	assert.Equal(t, model.RecWatch, s.Recommendation)
	assert.Nil(t, s.RealizedAvgPct)
	assert.Nil(t, s.RatioToAvg)
	assert.Nil(t, s.Score)
}

func TestScoreStraddleZeroRealizedKeepsWatch(t *testing.T) {
	// Non-positive denominators leave the ratios undefined; the conservative
	// WATCH default holds even though the average exists.
	s := ScoreStraddle(8.0, moves(0.0))

	require.NotNil(t, s.RealizedAvgPct)
	assert.Nil(t, s.RatioToAvg)
	assert.Nil(t, s.RatioToLast)
	assert.Equal(t, model.RecWatch, s.Recommendation)
}

func TestScoreStraddleDeterministic(t *testing.T) {
	hist := moves(7.6, 6.0, 6.4, 5.6)
	a := ScoreStraddle(6.0, hist)
	b := ScoreStraddle(6.0, hist)
	assert.Equal(t, a, b)
}
