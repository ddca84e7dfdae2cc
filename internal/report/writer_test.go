package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EarningsSentinel/internal/model"
)

func TestWriteJSONCreatesDirsAndNullsUndefinedStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "straddle.json")

	res := model.StraddleScanResult{
		Date: "2024-03-01",
		Opportunities: []model.Opportunity{
			{Ticker: "WATCHY", Recommendation: model.RecWatch,
				HistoricalMoves: []model.HistoricalMove{}},
		},
	}
	require.NoError(t, WriteJSON(path, &res))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	opps := doc["opportunities"].([]any)
	opp := opps[0].(map[string]any)

	assert.Equal(t, "WATCHY", opp["ticker"])
	// Undefined statistics serialize as JSON null, not zero.
	v, present := opp["score"]
	assert.True(t, present)
	assert.Nil(t, v)
}

func TestWriteJSONOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crush.json")

	require.NoError(t, WriteJSON(path, &model.CrushScanResult{Date: "2024-03-01"}))
	require.NoError(t, WriteJSON(path, &model.CrushScanResult{Date: "2024-03-02"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2024-03-02")
	assert.NotContains(t, string(data), "2024-03-01")
}
