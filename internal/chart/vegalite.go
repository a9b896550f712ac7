// Package chart builds Vega-Lite v5 specs for the trend charts. The specs
// are plain JSON-ready maps; rendering happens in the browser via
// vega-embed, so building the same spec twice from the same inputs yields
// the same drawing.
package chart

import (
	"ecom-infographic/internal/filter"
	"ecom-infographic/internal/models"
)

const schemaURL = "https://vega.github.io/schema/vega-lite/v5.json"

// Spec is a Vega-Lite chart specification.
type Spec map[string]any

func yAxisTitle(m filter.Measure) string {
	switch m {
	case filter.MeasureOrders:
		return "Orders (sum)"
	case filter.MeasureAOV:
		return "Average Order Value (weighted)"
	default:
		return "Revenue (sum)"
	}
}

// Overview builds the top trend chart: one line per legend group, with
// zoom/pan bound to the x scale and an interval brush the client reports
// back as the detail range.
func Overview(series []models.SeriesPoint, snap filter.Snapshot) Spec {
	spec := base("Overall Trend Over Time", series, snap)
	spec["params"] = []any{
		map[string]any{
			"name":   "zoom",
			"select": map[string]any{"type": "interval", "encodings": []string{"x"}},
			"bind":   "scales",
		},
		map[string]any{
			"name":   "brush",
			"select": map[string]any{"type": "interval", "encodings": []string{"x"}},
		},
	}
	return spec
}

// Detail builds the lower chart for the brushed period. The series handed in
// is already restricted server-side, so the spec itself carries no brush
// transform.
func Detail(series []models.SeriesPoint, snap filter.Snapshot) Spec {
	return base("Detailed View for Selected Period", series, snap)
}

func base(title string, series []models.SeriesPoint, snap filter.Snapshot) Spec {
	yTitle := yAxisTitle(snap.Measure)
	return Spec{
		"$schema": schemaURL,
		"title":   title,
		"data":    map[string]any{"values": series},
		"width":   "container",
		"height":  230,
		"mark":    map[string]any{"type": "line", "point": true},
		"encoding": map[string]any{
			"x":     map[string]any{"field": "time", "type": "ordinal", "title": "Time"},
			"y":     map[string]any{"field": "value", "type": "quantitative", "title": yTitle},
			"color": map[string]any{"field": "group", "type": "nominal", "title": string(snap.GroupBy)},
			"tooltip": []any{
				map[string]any{"field": "time", "type": "nominal", "title": "Time"},
				map[string]any{"field": "group", "type": "nominal", "title": "Group"},
				map[string]any{"field": "value", "type": "quantitative", "title": yTitle, "format": ",.2f"},
				map[string]any{"field": "orders", "type": "quantitative", "title": "Orders", "format": ",d"},
				map[string]any{"field": "revenue", "type": "quantitative", "title": "Revenue", "format": ",d"},
			},
		},
	}
}
