package views

import (
	"time"

	"ecom-infographic/internal/analytics"
	"ecom-infographic/internal/chart"
	"ecom-infographic/internal/dataset"
	"ecom-infographic/internal/filter"
	"ecom-infographic/internal/models"
)

// View names, also the frame identifiers on the wire.
const (
	NameKPI      = "kpi"
	NameOverview = "overview"
	NameDetail   = "detail"
	NameTable    = "table"
)

// ChartFrame is the payload for the two trend charts. NoData marks the
// explicit empty state views render when nothing matches the filters.
type ChartFrame struct {
	Series []models.SeriesPoint `json:"series"`
	Spec   chart.Spec           `json:"spec"`
	NoData bool                 `json:"no_data"`
}

// TableRow is one details-table row with a display-ready date.
type TableRow struct {
	Date    string  `json:"date"`
	Region  string  `json:"region"`
	Channel string  `json:"channel"`
	Product string  `json:"product"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
	AOV     float64 `json:"aov"`
}

// TableFrame is the details-table payload.
type TableFrame struct {
	Rows   []TableRow `json:"rows"`
	NoData bool       `json:"no_data"`
}

// KPIView publishes the summary cards.
type KPIView struct {
	store *dataset.Store
	pub   Publisher
}

func NewKPIView(store *dataset.Store, pub Publisher) *KPIView {
	return &KPIView{store: store, pub: pub}
}

func (v *KPIView) Name() string { return NameKPI }

func (v *KPIView) Recompute(snap filter.Snapshot) error {
	v.pub.Publish(Frame{View: NameKPI, Data: analytics.Summarize(v.store.Records(), snap)})
	return nil
}

// OverviewView publishes the full-range trend chart.
type OverviewView struct {
	store *dataset.Store
	pub   Publisher
}

func NewOverviewView(store *dataset.Store, pub Publisher) *OverviewView {
	return &OverviewView{store: store, pub: pub}
}

func (v *OverviewView) Name() string { return NameOverview }

func (v *OverviewView) Recompute(snap filter.Snapshot) error {
	series := analytics.Series(v.store.Records(), snap)
	v.pub.Publish(Frame{View: NameOverview, Data: ChartFrame{
		Series: series,
		Spec:   chart.Overview(series, snap),
		NoData: len(series) == 0,
	}})
	return nil
}

// DetailView publishes the brushed-period chart.
type DetailView struct {
	store *dataset.Store
	pub   Publisher
}

func NewDetailView(store *dataset.Store, pub Publisher) *DetailView {
	return &DetailView{store: store, pub: pub}
}

func (v *DetailView) Name() string { return NameDetail }

func (v *DetailView) Recompute(snap filter.Snapshot) error {
	series := analytics.DetailSeries(v.store.Records(), snap)
	v.pub.Publish(Frame{View: NameDetail, Data: ChartFrame{
		Series: series,
		Spec:   chart.Detail(series, snap),
		NoData: len(series) == 0,
	}})
	return nil
}

// TableView publishes the details table, newest rows first, capped at limit.
type TableView struct {
	store *dataset.Store
	pub   Publisher
	limit int
}

func NewTableView(store *dataset.Store, pub Publisher, limit int) *TableView {
	return &TableView{store: store, pub: pub, limit: limit}
}

func (v *TableView) Name() string { return NameTable }

func (v *TableView) Recompute(snap filter.Snapshot) error {
	records := analytics.DetailRows(v.store.Records(), snap, v.limit)
	rows := make([]TableRow, 0, len(records))
	for _, tx := range records {
		rows = append(rows, TableRow{
			Date:    tx.Date.Format(time.DateOnly),
			Region:  tx.Region,
			Channel: tx.Channel,
			Product: tx.Product,
			Orders:  tx.Orders,
			Revenue: tx.Revenue,
			AOV:     tx.AOV,
		})
	}
	v.pub.Publish(Frame{View: NameTable, Data: TableFrame{Rows: rows, NoData: len(rows) == 0}})
	return nil
}
