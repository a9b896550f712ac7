// Package templates holds the dashboard page shell. The page is rendered once
// per request from the dataset's domains; all dynamic content arrives over the
// /sse/frames stream as datastar patches, and the charts re-embed whenever
// their frame signal changes.
package templates

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/url"
	"time"

	"github.com/a-h/templ"
)

// Props carries the dataset-derived parts of the page: the selectable date
// domain and the category filter groups.
type Props struct {
	MinDate time.Time
	MaxDate time.Time
	Filters []FilterGroup
}

// FilterGroup is one dimension's multi-select. Dimension is the wire name
// posted to /interact/toggle; Values start fully selected, matching the
// filter state defaults.
type FilterGroup struct {
	Dimension string
	Label     string
	Values    []string
}

// Dashboard renders the infographic page.
func Dashboard(p Props) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, pageHead); err != nil {
			return err
		}
		if err := writeFilterPanel(w, p); err != nil {
			return err
		}
		_, err := io.WriteString(w, pageTail)
		return err
	})
}

func writeFilterPanel(w io.Writer, p Props) error {
	minDate := p.MinDate.Format(time.DateOnly)
	maxDate := p.MaxDate.Format(time.DateOnly)
	if _, err := fmt.Fprintf(w, `<section class="panel filters">
<fieldset>
<legend>Date range</legend>
<input type="date" id="range-start" min=%q max=%q value=%q/>
<input type="date" id="range-end" min=%q max=%q value=%q/>
<button data-on-click="window.applyRange()">Apply</button>
</fieldset>
`, minDate, maxDate, minDate, minDate, maxDate, maxDate); err != nil {
		return err
	}

	for _, group := range p.Filters {
		if _, err := fmt.Fprintf(w, "<fieldset>\n<legend>%s</legend>\n", html.EscapeString(group.Label)); err != nil {
			return err
		}
		for _, value := range group.Values {
			post := "/interact/toggle?" + url.Values{
				"dimension": {group.Dimension},
				"value":     {value},
			}.Encode()
			if _, err := fmt.Fprintf(w,
				"<label><input type=\"checkbox\" checked data-on-change=\"@post('%s')\"/> %s</label>\n",
				html.EscapeString(post), html.EscapeString(value)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "</fieldset>\n"); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, filterTail)
	return err
}

const pageHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<title>Interactive Infographic: E-Commerce Transactions in Indonesia (2024)</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"></script>
<script src="https://cdn.jsdelivr.net/npm/vega@5"></script>
<script src="https://cdn.jsdelivr.net/npm/vega-lite@5"></script>
<script src="https://cdn.jsdelivr.net/npm/vega-embed@6"></script>
<style>
body { font-family: system-ui, sans-serif; margin: 0; background: #f6f7f9; color: #1f2430; }
header { padding: 1.2rem 2rem; background: #fff; border-bottom: 1px solid #e3e6ea; }
header h1 { margin: 0 0 0.3rem; font-size: 1.3rem; }
header p { margin: 0; color: #5b6472; font-size: 0.9rem; }
main { padding: 1.5rem 2rem; display: grid; gap: 1.2rem; }
.panel { background: #fff; border: 1px solid #e3e6ea; border-radius: 8px; padding: 1rem 1.2rem; }
.filters { display: flex; flex-wrap: wrap; gap: 1.2rem; align-items: flex-start; }
.filters fieldset { border: none; padding: 0; margin: 0; }
.filters legend { font-size: 0.78rem; text-transform: uppercase; color: #5b6472; margin-bottom: 0.3rem; }
.filters label { display: block; font-size: 0.88rem; margin-bottom: 0.15rem; }
.kpi-cards { display: grid; grid-template-columns: repeat(4, 1fr); gap: 1rem; }
.kpi-card { background: #fff; border: 1px solid #e3e6ea; border-radius: 8px; padding: 0.9rem 1.1rem; display: flex; flex-direction: column; gap: 0.25rem; }
.kpi-label { font-size: 0.78rem; text-transform: uppercase; color: #5b6472; }
.kpi-card strong { font-size: 1.25rem; }
.modern-table { width: 100%; border-collapse: collapse; font-size: 0.88rem; }
.modern-table th, .modern-table td { text-align: left; padding: 0.45rem 0.6rem; border-bottom: 1px solid #eef0f3; }
.tier-badge { background: #eef2ff; color: #4f46e5; border-radius: 4px; padding: 0.1rem 0.45rem; font-size: 0.78rem; }
.no-data { color: #5b6472; font-style: italic; }
.chart { width: 100%; }
</style>
</head>
<body
  data-signals="{overviewFrame: null, detailFrame: null}"
  data-on-load="@get('/sse/frames')">
<header>
<h1>&#128204; Interactive Infographic: E-Commerce Transactions in Indonesia (2024)</h1>
<p>Transactional patterns across regions, sales channels, and product tiers over time.
Filter, compare, and drill down into order volume, revenue, and average order value.</p>
</header>
<main>
`

const filterTail = `<fieldset>
<legend>Measure</legend>
<select data-on-change="@post('/interact/measure?measure=' + evt.target.value)">
<option value="orders">orders</option>
<option value="revenue" selected>revenue</option>
<option value="aov">aov</option>
</select>
</fieldset>
<fieldset>
<legend>Time grain</legend>
<select data-on-change="@post('/interact/grain?grain=' + evt.target.value)">
<option value="day">day</option>
<option value="week" selected>week</option>
<option value="month">month</option>
</select>
</fieldset>
<fieldset>
<legend>Group by</legend>
<select data-on-change="@post('/interact/group-by?dimension=' + evt.target.value)">
<option value="region" selected>region</option>
<option value="channel">channel</option>
<option value="product">product</option>
</select>
</fieldset>
<fieldset>
<legend>Brush</legend>
<button data-on-click="@post('/interact/brush?clear=true')">Clear selection</button>
</fieldset>
</section>
`

const pageTail = `
<section id="kpi-content" class="kpi-cards"></section>

<section class="panel">
<div id="overview-chart" class="chart"
  data-effect="$overviewFrame && window.renderChart('overview-chart', $overviewFrame)"></div>
</section>

<section class="panel">
<div id="detail-chart" class="chart"
  data-effect="$detailFrame && window.renderChart('detail-chart', $detailFrame)"></div>
</section>

<section class="panel">
<h2>Details table</h2>
<div id="table-content"></div>
</section>
</main>
<script>
window.applyRange = function () {
  var params = new URLSearchParams({
    start: document.getElementById('range-start').value,
    end: document.getElementById('range-end').value,
  });
  fetch('/interact/date-range?' + params.toString(), {method: 'POST'});
};
window.renderChart = function (el, frame) {
  if (!frame || frame.no_data) {
    document.getElementById(el).innerHTML = '<p class="no-data">No data for the current filters.</p>';
    return;
  }
  vegaEmbed('#' + el, frame.spec, {actions: false}).then(function (result) {
    if (el !== 'overview-chart') { return; }
    result.view.addSignalListener('brush', function (_, item) {
      if (!item || !item.time || item.time.length === 0) { return; }
      var times = item.time.slice().sort();
      var params = new URLSearchParams({start: times[0], end: times[times.length - 1]});
      fetch('/interact/brush?' + params.toString(), {method: 'POST'});
    });
  });
};
</script>
</body>
</html>
`
