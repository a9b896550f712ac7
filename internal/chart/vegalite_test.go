package chart

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecom-infographic/internal/filter"
	"ecom-infographic/internal/models"
)

func testSnapshot(t *testing.T, measure filter.Measure) filter.Snapshot {
	t.Helper()
	s := filter.NewState(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, s.SetMeasure(measure))
	return s.Snapshot()
}

func testSeries() []models.SeriesPoint {
	return []models.SeriesPoint{
		{Time: "2024-W01", Group: "Jakarta", Value: 200000, Orders: 2, Revenue: 200000},
		{Time: "2024-W01", Group: "Bali", Value: 300000, Orders: 1, Revenue: 300000},
	}
}

func TestOverviewSpec(t *testing.T) {
	spec := Overview(testSeries(), testSnapshot(t, filter.MeasureRevenue))

	assert.Equal(t, schemaURL, spec["$schema"])
	assert.Equal(t, "Overall Trend Over Time", spec["title"])

	params, ok := spec["params"].([]any)
	require.True(t, ok, "overview has interaction params")
	names := make([]string, 0, len(params))
	for _, p := range params {
		names = append(names, p.(map[string]any)["name"].(string))
	}
	assert.Contains(t, names, "zoom")
	assert.Contains(t, names, "brush")

	data := spec["data"].(map[string]any)
	assert.Len(t, data["values"], 2)
}

func TestDetailSpecHasNoBrush(t *testing.T) {
	spec := Detail(testSeries(), testSnapshot(t, filter.MeasureRevenue))

	assert.Equal(t, "Detailed View for Selected Period", spec["title"])
	_, hasParams := spec["params"]
	assert.False(t, hasParams, "detail chart carries no brush or zoom")
}

func TestYAxisTitlePerMeasure(t *testing.T) {
	tests := []struct {
		measure filter.Measure
		want    string
	}{
		{filter.MeasureOrders, "Orders (sum)"},
		{filter.MeasureRevenue, "Revenue (sum)"},
		{filter.MeasureAOV, "Average Order Value (weighted)"},
	}

	for _, tt := range tests {
		spec := Overview(testSeries(), testSnapshot(t, tt.measure))
		y := spec["encoding"].(map[string]any)["y"].(map[string]any)
		assert.Equal(t, tt.want, y["title"], "measure %s", tt.measure)
	}
}

func TestSpecMarshalsToJSON(t *testing.T) {
	raw, err := json.Marshal(Overview(testSeries(), testSnapshot(t, filter.MeasureRevenue)))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, schemaURL, decoded["$schema"])
}

func TestLegendFollowsGroupBy(t *testing.T) {
	s := filter.NewState(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, s.SetGroupBy(filter.DimChannel))

	spec := Overview(testSeries(), s.Snapshot())
	color := spec["encoding"].(map[string]any)["color"].(map[string]any)
	assert.Equal(t, "channel", color["title"])
}
