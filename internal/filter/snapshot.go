package filter

import (
	"slices"

	"ecom-infographic/internal/models"
)

// Snapshot is an immutable copy of the filter state, safe to hand to pure
// consumers and listeners.
type Snapshot struct {
	DateRange   DateRange              `json:"date_range"`
	DetailRange *DateRange             `json:"detail_range,omitempty"`
	Selections  map[Dimension][]string `json:"selections"`
	Measure     Measure                `json:"measure"`
	Grain       Grain                  `json:"grain"`
	GroupBy     Dimension              `json:"group_by"`
}

// Matches applies the conjunctive filter predicate: the record must fall in
// the date range and in every dimension's selection set. An empty selection
// set places no restriction on its dimension.
func (sn Snapshot) Matches(tx models.Transaction) bool {
	if !sn.DateRange.Includes(tx.Date) {
		return false
	}
	return sn.selected(DimRegion, tx.Region) &&
		sn.selected(DimChannel, tx.Channel) &&
		sn.selected(DimProduct, tx.Product)
}

// MatchesDetail is Matches narrowed to the brushed detail range when one is
// set; identical to Matches otherwise.
func (sn Snapshot) MatchesDetail(tx models.Transaction) bool {
	if !sn.Matches(tx) {
		return false
	}
	if sn.DetailRange == nil {
		return true
	}
	return sn.DetailRange.Includes(tx.Date)
}

func (sn Snapshot) selected(dim Dimension, value string) bool {
	values := sn.Selections[dim]
	if len(values) == 0 {
		return true
	}
	return slices.Contains(values, value)
}
