package templates

import (
	"context"
	"strings"
	"testing"
	"time"
)

func render(t *testing.T, p Props) string {
	t.Helper()
	var buf strings.Builder
	if err := Dashboard(p).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return buf.String()
}

func testProps() Props {
	return Props{
		MinDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		MaxDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Filters: []FilterGroup{
			{Dimension: "region", Label: "Regions", Values: []string{"Jakarta", "West Java"}},
			{Dimension: "product", Label: "Product tiers", Values: []string{"Basic"}},
		},
	}
}

func TestDashboardRendersToggleControls(t *testing.T) {
	body := render(t, testProps())

	wants := []string{
		`@post('/interact/toggle?dimension=region&amp;value=Jakarta')`,
		`@post('/interact/toggle?dimension=region&amp;value=West+Java')`,
		`@post('/interact/toggle?dimension=product&amp;value=Basic')`,
		"<legend>Regions</legend>",
		"<legend>Product tiers</legend>",
	}
	for _, want := range wants {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}

	if got := strings.Count(body, `type="checkbox"`); got != 3 {
		t.Errorf("got %d checkboxes, want 3", got)
	}
}

func TestDashboardDateBoundsFromProps(t *testing.T) {
	body := render(t, testProps())

	for _, want := range []string{`min="2024-01-01"`, `max="2024-03-15"`} {
		if !strings.Contains(body, want) {
			t.Errorf("date inputs missing %q", want)
		}
	}
}

func TestDashboardStaticShell(t *testing.T) {
	body := render(t, testProps())

	wants := []string{
		"@get('/sse/frames')",
		"/interact/measure",
		"/interact/grain",
		"/interact/group-by",
		"/interact/brush?clear=true",
		"overview-chart",
		"detail-chart",
		"table-content",
	}
	for _, want := range wants {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}
