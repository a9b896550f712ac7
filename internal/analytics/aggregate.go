// Package analytics computes derived aggregates over the immutable dataset,
// restricted by a filter snapshot. Every function is pure: identical inputs
// produce identical output, and an empty result is a valid, displayable
// state rather than an error.
package analytics

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"ecom-infographic/internal/filter"
	"ecom-infographic/internal/models"
)

// GroupBy selects the grouping key for Aggregate.
const (
	GroupByTime    = "time"
	GroupByRegion  = string(filter.DimRegion)
	GroupByChannel = string(filter.DimChannel)
	GroupByProduct = string(filter.DimProduct)
)

type accumulator struct {
	orders  int
	revenue float64
}

func (a accumulator) bucket(key string) models.Bucket {
	b := models.Bucket{Key: key, Orders: a.orders, Revenue: a.revenue}
	if a.orders > 0 {
		aov := a.revenue / float64(a.orders)
		b.AOV = &aov
	}
	return b
}

// Aggregate applies the snapshot's conjunctive predicate, groups the matching
// records by the named key, and derives order count, total revenue, and
// average order value per bucket. Buckets come back sorted ascending by key,
// so output is deterministic; a bucket with zero orders reports a nil AOV.
func Aggregate(records []models.Transaction, snap filter.Snapshot, groupBy string) []models.Bucket {
	acc := make(map[string]*accumulator)
	for _, tx := range records {
		if !snap.Matches(tx) {
			continue
		}
		key := groupKey(tx, snap.Grain, groupBy)
		a := acc[key]
		if a == nil {
			a = &accumulator{}
			acc[key] = a
		}
		a.orders += tx.Orders
		a.revenue += tx.Revenue
	}

	keys := make([]string, 0, len(acc))
	for k := range acc {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	buckets := make([]models.Bucket, 0, len(keys))
	for _, k := range keys {
		buckets = append(buckets, acc[k].bucket(k))
	}
	return buckets
}

// Series produces one point per (time bucket, legend group) for the overview
// chart, using the snapshot's grain, legend dimension, and measure. Points
// are sorted by time key then group.
func Series(records []models.Transaction, snap filter.Snapshot) []models.SeriesPoint {
	return series(records, snap, snap.Matches)
}

// DetailSeries is Series narrowed to the brushed detail range.
func DetailSeries(records []models.Transaction, snap filter.Snapshot) []models.SeriesPoint {
	return series(records, snap, snap.MatchesDetail)
}

func series(records []models.Transaction, snap filter.Snapshot, match func(models.Transaction) bool) []models.SeriesPoint {
	type seriesKey struct {
		time  string
		group string
	}
	acc := make(map[seriesKey]*accumulator)
	for _, tx := range records {
		if !match(tx) {
			continue
		}
		key := seriesKey{
			time:  timeBucket(tx.Date, snap.Grain),
			group: dimensionValue(tx, snap.GroupBy),
		}
		a := acc[key]
		if a == nil {
			a = &accumulator{}
			acc[key] = a
		}
		a.orders += tx.Orders
		a.revenue += tx.Revenue
	}

	points := make([]models.SeriesPoint, 0, len(acc))
	for key, a := range acc {
		points = append(points, models.SeriesPoint{
			Time:    key.time,
			Group:   key.group,
			Value:   measureValue(*a, snap.Measure),
			Orders:  a.orders,
			Revenue: a.revenue,
		})
	}
	slices.SortFunc(points, func(a, b models.SeriesPoint) int {
		if c := strings.Compare(a.Time, b.Time); c != 0 {
			return c
		}
		return strings.Compare(a.Group, b.Group)
	})
	return points
}

// Summarize computes the KPI card figures over the filtered records.
func Summarize(records []models.Transaction, snap filter.Snapshot) models.Summary {
	var sum models.Summary
	for _, tx := range records {
		if !snap.Matches(tx) {
			continue
		}
		sum.Rows++
		sum.Orders += tx.Orders
		sum.Revenue += tx.Revenue
	}
	if sum.Orders > 0 {
		sum.AOV = sum.Revenue / float64(sum.Orders)
	}
	return sum
}

// DetailRows returns the filtered records feeding the details table, further
// restricted to the brushed range when one is set, newest first, capped at
// limit. The input slice is never modified.
func DetailRows(records []models.Transaction, snap filter.Snapshot, limit int) []models.Transaction {
	rows := make([]models.Transaction, 0, limit)
	for _, tx := range records {
		if snap.MatchesDetail(tx) {
			rows = append(rows, tx)
		}
	}
	slices.SortStableFunc(rows, func(a, b models.Transaction) int {
		return b.Date.Compare(a.Date)
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

func groupKey(tx models.Transaction, grain filter.Grain, groupBy string) string {
	if groupBy == GroupByTime {
		return timeBucket(tx.Date, grain)
	}
	return dimensionValue(tx, filter.Dimension(groupBy))
}

func dimensionValue(tx models.Transaction, dim filter.Dimension) string {
	switch dim {
	case filter.DimChannel:
		return tx.Channel
	case filter.DimProduct:
		return tx.Product
	default:
		return tx.Region
	}
}

func measureValue(a accumulator, m filter.Measure) float64 {
	switch m {
	case filter.MeasureOrders:
		return float64(a.orders)
	case filter.MeasureAOV:
		if a.orders == 0 {
			return 0
		}
		return a.revenue / float64(a.orders)
	default:
		return a.revenue
	}
}

// timeBucket formats a date into its grain bucket key. Keys sort
// lexicographically in chronological order within a grain: "2024-01-07",
// "2024-W02", "2024-01".
func timeBucket(t time.Time, grain filter.Grain) string {
	switch grain {
	case filter.GrainDay:
		return t.Format(time.DateOnly)
	case filter.GrainMonth:
		return t.Format("2006-01")
	default:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	}
}
