package models

import "time"

// Transaction is a single synthetic e-commerce transaction row.
// Records are immutable once loaded into the dataset store.
type Transaction struct {
	Date    time.Time `json:"date"`
	Region  string    `json:"region"`
	Channel string    `json:"channel"`
	Product string    `json:"product"`
	Orders  int       `json:"orders"`
	Revenue float64   `json:"revenue"`
	AOV     float64   `json:"aov"`
}

// Dimension value domains for the 2024 Indonesia dataset.
var (
	Regions  = []string{"Jakarta", "West Java", "Central Java", "East Java", "Bali", "Sumatra"}
	Channels = []string{"Organic", "Ads", "Affiliate", "Referral"}
	Products = []string{"Basic", "Standard", "Premium"}
)

// Bucket is one group of records sharing a grouping key, with the three
// derived measures attached. AOV is nil when the bucket has zero orders.
type Bucket struct {
	Key     string   `json:"key"`
	Orders  int      `json:"orders"`
	Revenue float64  `json:"revenue"`
	AOV     *float64 `json:"aov"`
}

// SeriesPoint is one (time bucket, legend group) chart point. Value carries
// the active measure; Orders and Revenue ride along for tooltips.
type SeriesPoint struct {
	Time    string  `json:"time"`
	Group   string  `json:"group"`
	Value   float64 `json:"value"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// Summary backs the KPI cards: filtered row count and grand totals.
type Summary struct {
	Rows    int     `json:"rows"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
	AOV     float64 `json:"aov"`
}
