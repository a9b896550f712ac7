package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecom-infographic/internal/errors"
	"ecom-infographic/internal/models"
)

var (
	domainStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	domainEnd   = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
)

func day(month, d int) time.Time {
	return time.Date(2024, time.Month(month), d, 0, 0, 0, 0, time.UTC)
}

func TestNewStateDefaults(t *testing.T) {
	s := NewState(domainStart, domainEnd)
	snap := s.Snapshot()

	assert.Equal(t, DateRange{Start: domainStart, End: domainEnd}, snap.DateRange)
	assert.Nil(t, snap.DetailRange)
	assert.Equal(t, MeasureRevenue, snap.Measure)
	assert.Equal(t, GrainWeek, snap.Grain)
	assert.Equal(t, DimRegion, snap.GroupBy)
	assert.ElementsMatch(t, models.Regions, snap.Selections[DimRegion])
	assert.ElementsMatch(t, models.Channels, snap.Selections[DimChannel])
	assert.ElementsMatch(t, models.Products, snap.Selections[DimProduct])
}

func TestSetDateRange(t *testing.T) {
	t.Run("valid range reads back exactly", func(t *testing.T) {
		s := NewState(domainStart, domainEnd)
		require.NoError(t, s.SetDateRange(day(3, 1), day(6, 30)))
		snap := s.Snapshot()
		assert.Equal(t, day(3, 1), snap.DateRange.Start)
		assert.Equal(t, day(6, 30), snap.DateRange.End)
	})

	t.Run("inverted range rejected, prior state retained", func(t *testing.T) {
		s := NewState(domainStart, domainEnd)
		err := s.SetDateRange(day(6, 30), day(3, 1))
		require.Error(t, err)
		assert.Equal(t, errors.CodeInvalidRange, errors.CodeOf(err))
		assert.Equal(t, DateRange{Start: domainStart, End: domainEnd}, s.Snapshot().DateRange)
	})

	t.Run("bounds outside dataset domain rejected", func(t *testing.T) {
		s := NewState(domainStart, domainEnd)
		err := s.SetDateRange(time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), day(3, 1))
		require.Error(t, err)
		assert.Equal(t, errors.CodeInvalidRange, errors.CodeOf(err))

		err = s.SetDateRange(day(3, 1), time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))
		require.Error(t, err)
		assert.Equal(t, errors.CodeInvalidRange, errors.CodeOf(err))
	})

	t.Run("shrinking clears escaped detail range", func(t *testing.T) {
		s := NewState(domainStart, domainEnd)
		require.NoError(t, s.SetDetailRange(&DateRange{Start: day(8, 1), End: day(8, 31)}))
		require.NotNil(t, s.Snapshot().DetailRange)

		require.NoError(t, s.SetDateRange(day(1, 1), day(6, 30)))
		assert.Nil(t, s.Snapshot().DetailRange)
	})

	t.Run("detail range inside new range survives", func(t *testing.T) {
		s := NewState(domainStart, domainEnd)
		require.NoError(t, s.SetDetailRange(&DateRange{Start: day(2, 1), End: day(2, 15)}))
		require.NoError(t, s.SetDateRange(day(1, 1), day(6, 30)))
		require.NotNil(t, s.Snapshot().DetailRange)
	})
}

func TestToggleCategory(t *testing.T) {
	s := NewState(domainStart, domainEnd)

	require.NoError(t, s.ToggleCategory(DimRegion, "Bali"))
	assert.NotContains(t, s.Snapshot().Selections[DimRegion], "Bali")

	require.NoError(t, s.ToggleCategory(DimRegion, "Bali"))
	assert.Contains(t, s.Snapshot().Selections[DimRegion], "Bali")

	err := s.ToggleCategory(Dimension("warehouse"), "Bali")
	require.Error(t, err)
	assert.Equal(t, errors.CodeValidation, errors.CodeOf(err))

	err = s.ToggleCategory(DimRegion, "Atlantis")
	require.Error(t, err)
	assert.Equal(t, errors.CodeValidation, errors.CodeOf(err))
}

func TestSetMeasure(t *testing.T) {
	s := NewState(domainStart, domainEnd)

	require.NoError(t, s.SetMeasure(MeasureAOV))
	assert.Equal(t, MeasureAOV, s.Snapshot().Measure)

	err := s.SetMeasure(Measure("profit"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidMeasure, errors.CodeOf(err))
	assert.Equal(t, MeasureAOV, s.Snapshot().Measure)
}

func TestSetGrainAndGroupBy(t *testing.T) {
	s := NewState(domainStart, domainEnd)

	require.NoError(t, s.SetGrain(GrainMonth))
	assert.Equal(t, GrainMonth, s.Snapshot().Grain)
	require.Error(t, s.SetGrain(Grain("quarter")))

	require.NoError(t, s.SetGroupBy(DimChannel))
	assert.Equal(t, DimChannel, s.Snapshot().GroupBy)
	require.Error(t, s.SetGroupBy(Dimension("currency")))
}

func TestSetDetailRange(t *testing.T) {
	s := NewState(domainStart, domainEnd)
	require.NoError(t, s.SetDateRange(day(2, 1), day(5, 31)))

	err := s.SetDetailRange(&DateRange{Start: day(1, 1), End: day(3, 1)})
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidRange, errors.CodeOf(err))
	assert.Nil(t, s.Snapshot().DetailRange)

	require.NoError(t, s.SetDetailRange(&DateRange{Start: day(3, 1), End: day(4, 1)}))
	require.NotNil(t, s.Snapshot().DetailRange)

	require.NoError(t, s.SetDetailRange(nil))
	assert.Nil(t, s.Snapshot().DetailRange)
}

func TestSubscribeNotification(t *testing.T) {
	t.Run("listeners fire once per mutation in registration order", func(t *testing.T) {
		s := NewState(domainStart, domainEnd)

		var order []string
		s.Subscribe(func(Snapshot) { order = append(order, "first") })
		s.Subscribe(func(Snapshot) { order = append(order, "second") })

		require.NoError(t, s.SetMeasure(MeasureOrders))
		assert.Equal(t, []string{"first", "second"}, order)
	})

	t.Run("failed mutation does not notify", func(t *testing.T) {
		s := NewState(domainStart, domainEnd)

		calls := 0
		s.Subscribe(func(Snapshot) { calls++ })

		require.Error(t, s.SetMeasure(Measure("profit")))
		require.Error(t, s.SetDateRange(day(6, 1), day(3, 1)))
		assert.Zero(t, calls)
	})

	t.Run("listener sees the mutated state", func(t *testing.T) {
		s := NewState(domainStart, domainEnd)

		var seen Measure
		s.Subscribe(func(snap Snapshot) { seen = snap.Measure })

		require.NoError(t, s.SetMeasure(MeasureAOV))
		assert.Equal(t, MeasureAOV, seen)
	})

	t.Run("unsubscribed listener stays silent", func(t *testing.T) {
		s := NewState(domainStart, domainEnd)

		calls := 0
		id := s.Subscribe(func(Snapshot) { calls++ })
		require.NoError(t, s.SetMeasure(MeasureOrders))
		require.Equal(t, 1, calls)

		s.Unsubscribe(id)
		require.NoError(t, s.SetMeasure(MeasureRevenue))
		assert.Equal(t, 1, calls)
	})
}

func TestSnapshotMatches(t *testing.T) {
	s := NewState(domainStart, domainEnd)
	require.NoError(t, s.SetDateRange(day(1, 1), day(1, 31)))
	require.NoError(t, s.ToggleCategory(DimRegion, "Bali"))

	snap := s.Snapshot()

	tx := models.Transaction{Date: day(1, 15), Region: "Jakarta", Channel: "Organic", Product: "Basic"}
	assert.True(t, snap.Matches(tx))

	tx.Region = "Bali"
	assert.False(t, snap.Matches(tx), "deselected region must not match")

	tx.Region = "Jakarta"
	tx.Date = day(2, 15)
	assert.False(t, snap.Matches(tx), "date outside range must not match")
}

func TestEmptySelectionMeansAll(t *testing.T) {
	s := NewState(domainStart, domainEnd)
	for _, p := range models.Products {
		require.NoError(t, s.ToggleCategory(DimProduct, p))
	}

	snap := s.Snapshot()
	require.Empty(t, snap.Selections[DimProduct])

	tx := models.Transaction{Date: day(6, 1), Region: "Jakarta", Channel: "Organic", Product: "Premium"}
	assert.True(t, snap.Matches(tx), "empty selection set must match every value")
}
