package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecom-infographic/internal/filter"
	"ecom-infographic/internal/models"
)

func day(month, d int) time.Time {
	return time.Date(2024, time.Month(month), d, 0, 0, 0, 0, time.UTC)
}

// The three-record fixture: two January rows (Jakarta, Bali) and one
// February row (Jakarta).
func fixtureRecords() []models.Transaction {
	return []models.Transaction{
		{Date: day(1, 1), Region: "Jakarta", Channel: "Organic", Product: "Basic", Orders: 2, Revenue: 200, AOV: 100},
		{Date: day(1, 1), Region: "Bali", Channel: "Ads", Product: "Premium", Orders: 1, Revenue: 500, AOV: 500},
		{Date: day(2, 1), Region: "Jakarta", Channel: "Organic", Product: "Basic", Orders: 3, Revenue: 300, AOV: 100},
	}
}

func snapshotFor(t *testing.T, mutate func(*filter.State)) filter.Snapshot {
	t.Helper()
	s := filter.NewState(day(1, 1), day(12, 31))
	if mutate != nil {
		mutate(s)
	}
	return s.Snapshot()
}

func TestAggregateJanuaryJakarta(t *testing.T) {
	snap := snapshotFor(t, func(s *filter.State) {
		require.NoError(t, s.SetDateRange(day(1, 1), day(1, 31)))
		// Deselect everything but Jakarta.
		for _, r := range models.Regions {
			if r != "Jakarta" {
				require.NoError(t, s.ToggleCategory(filter.DimRegion, r))
			}
		}
		require.NoError(t, s.SetGrain(filter.GrainDay))
	})

	buckets := Aggregate(fixtureRecords(), snap, GroupByTime)

	require.Len(t, buckets, 1)
	assert.Equal(t, "2024-01-01", buckets[0].Key)
	assert.Equal(t, 2, buckets[0].Orders)
	assert.Equal(t, 200.0, buckets[0].Revenue)
	require.NotNil(t, buckets[0].AOV)
	assert.Equal(t, 100.0, *buckets[0].AOV)
}

func TestAggregateIdempotent(t *testing.T) {
	records := fixtureRecords()
	snap := snapshotFor(t, nil)

	first := Aggregate(records, snap, GroupByRegion)
	second := Aggregate(records, snap, GroupByRegion)
	assert.Equal(t, first, second)
}

func TestAggregateConjunctionNoDoubleCounting(t *testing.T) {
	records := fixtureRecords()

	deselectAllBut := func(keep ...string) func(*filter.State) {
		return func(s *filter.State) {
			for _, r := range models.Regions {
				kept := false
				for _, k := range keep {
					if r == k {
						kept = true
					}
				}
				if !kept {
					require.NoError(t, s.ToggleCategory(filter.DimRegion, r))
				}
			}
		}
	}

	both := Aggregate(records, snapshotFor(t, deselectAllBut("Jakarta", "Bali")), GroupByRegion)
	jakarta := Aggregate(records, snapshotFor(t, deselectAllBut("Jakarta")), GroupByRegion)
	bali := Aggregate(records, snapshotFor(t, deselectAllBut("Bali")), GroupByRegion)

	totalOrders := func(buckets []models.Bucket) int {
		n := 0
		for _, b := range buckets {
			n += b.Orders
		}
		return n
	}
	totalRevenue := func(buckets []models.Bucket) float64 {
		v := 0.0
		for _, b := range buckets {
			v += b.Revenue
		}
		return v
	}

	assert.Equal(t, totalOrders(jakarta)+totalOrders(bali), totalOrders(both))
	assert.Equal(t, totalRevenue(jakarta)+totalRevenue(bali), totalRevenue(both))
}

func TestAggregateZeroOrdersBucket(t *testing.T) {
	// A zero-order row cannot come out of the loader, but the aggregation
	// itself must still report AOV as nil rather than divide.
	records := []models.Transaction{
		{Date: day(3, 1), Region: "Jakarta", Channel: "Organic", Product: "Basic", Orders: 0, Revenue: 0},
	}
	buckets := Aggregate(records, snapshotFor(t, nil), GroupByRegion)

	require.Len(t, buckets, 1)
	assert.Zero(t, buckets[0].Orders)
	assert.Nil(t, buckets[0].AOV)
}

func TestAggregateEmptyResultIsValid(t *testing.T) {
	snap := snapshotFor(t, func(s *filter.State) {
		require.NoError(t, s.SetDateRange(day(11, 1), day(11, 30)))
	})
	buckets := Aggregate(fixtureRecords(), snap, GroupByTime)
	assert.Empty(t, buckets)
}

func TestAggregateBucketsSortedByKey(t *testing.T) {
	snap := snapshotFor(t, func(s *filter.State) {
		require.NoError(t, s.SetGrain(filter.GrainDay))
	})
	buckets := Aggregate(fixtureRecords(), snap, GroupByTime)

	require.Len(t, buckets, 2)
	assert.Equal(t, "2024-01-01", buckets[0].Key)
	assert.Equal(t, "2024-02-01", buckets[1].Key)
}

func TestTimeBucketKeys(t *testing.T) {
	tests := []struct {
		name  string
		grain filter.Grain
		date  time.Time
		want  string
	}{
		{"day", filter.GrainDay, day(3, 7), "2024-03-07"},
		{"month", filter.GrainMonth, day(3, 7), "2024-03"},
		{"iso week", filter.GrainWeek, day(1, 1), "2024-W01"},
		{"iso week year rollover", filter.GrainWeek, day(12, 30), "2025-W01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, timeBucket(tt.date, tt.grain))
		})
	}
}

func TestSeries(t *testing.T) {
	snap := snapshotFor(t, func(s *filter.State) {
		require.NoError(t, s.SetGrain(filter.GrainMonth))
	})
	points := Series(fixtureRecords(), snap)

	require.Len(t, points, 3)
	// Sorted by time key, then group.
	assert.Equal(t, "2024-01", points[0].Time)
	assert.Equal(t, "Bali", points[0].Group)
	assert.Equal(t, "2024-01", points[1].Time)
	assert.Equal(t, "Jakarta", points[1].Group)
	assert.Equal(t, "2024-02", points[2].Time)

	// Default measure is revenue.
	assert.Equal(t, 500.0, points[0].Value)
	assert.Equal(t, 200.0, points[1].Value)
}

func TestSeriesMeasureSelection(t *testing.T) {
	records := fixtureRecords()

	orders := Series(records, snapshotFor(t, func(s *filter.State) {
		require.NoError(t, s.SetGrain(filter.GrainMonth))
		require.NoError(t, s.SetMeasure(filter.MeasureOrders))
	}))
	require.NotEmpty(t, orders)
	assert.Equal(t, float64(orders[0].Orders), orders[0].Value)

	aov := Series(records, snapshotFor(t, func(s *filter.State) {
		require.NoError(t, s.SetGrain(filter.GrainMonth))
		require.NoError(t, s.SetMeasure(filter.MeasureAOV))
	}))
	require.NotEmpty(t, aov)
	assert.InDelta(t, aov[0].Revenue/float64(aov[0].Orders), aov[0].Value, 1e-9)
}

func TestDetailSeriesHonorsBrush(t *testing.T) {
	snap := snapshotFor(t, func(s *filter.State) {
		require.NoError(t, s.SetGrain(filter.GrainDay))
		require.NoError(t, s.SetDetailRange(&filter.DateRange{Start: day(1, 1), End: day(1, 31)}))
	})

	overview := Series(fixtureRecords(), snap)
	detail := DetailSeries(fixtureRecords(), snap)

	assert.Len(t, overview, 3, "overview ignores the brush")
	assert.Len(t, detail, 2, "detail honors the brush")
}

func TestSummarize(t *testing.T) {
	sum := Summarize(fixtureRecords(), snapshotFor(t, nil))

	assert.Equal(t, 3, sum.Rows)
	assert.Equal(t, 6, sum.Orders)
	assert.Equal(t, 1000.0, sum.Revenue)
	assert.InDelta(t, 1000.0/6.0, sum.AOV, 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	snap := snapshotFor(t, func(s *filter.State) {
		require.NoError(t, s.SetDateRange(day(11, 1), day(11, 30)))
	})
	sum := Summarize(fixtureRecords(), snap)

	assert.Zero(t, sum.Rows)
	assert.Zero(t, sum.AOV, "no division by zero orders")
}

func TestDetailRows(t *testing.T) {
	rows := DetailRows(fixtureRecords(), snapshotFor(t, nil), 200)

	require.Len(t, rows, 3)
	assert.Equal(t, day(2, 1), rows[0].Date, "newest first")

	capped := DetailRows(fixtureRecords(), snapshotFor(t, nil), 2)
	assert.Len(t, capped, 2)
}

func TestBucketSpan(t *testing.T) {
	tests := []struct {
		key       string
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"2024-03-07", day(3, 7), day(3, 7)},
		{"2024-01", day(1, 1), day(1, 31)},
		{"2024-02", day(2, 1), day(2, 29)},
		{"2024-W01", day(1, 1), day(1, 7)},
		{"2024-W02", day(1, 8), day(1, 14)},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			start, end, err := BucketSpan(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}

	_, _, err := BucketSpan("Q3-2024")
	assert.Error(t, err)
}
