// Package filter holds the shared selection state driving every dashboard
// view: the active date range, dimension selections, measure, time grain,
// legend dimension, and the brushed detail range.
//
// An empty selection set means "all values selected". The UI deselect-all
// gesture therefore falls back to the full domain rather than matching
// nothing; this is a product decision, not a derived one.
package filter

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"ecom-infographic/internal/errors"
	"ecom-infographic/internal/models"
)

type Measure string

const (
	MeasureOrders  Measure = "orders"
	MeasureRevenue Measure = "revenue"
	MeasureAOV     Measure = "aov"
)

type Grain string

const (
	GrainDay   Grain = "day"
	GrainWeek  Grain = "week"
	GrainMonth Grain = "month"
)

type Dimension string

const (
	DimRegion  Dimension = "region"
	DimChannel Dimension = "channel"
	DimProduct Dimension = "product"
)

// DateRange is an inclusive [Start, End] interval at day granularity.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether other lies fully within r.
func (r DateRange) Contains(other DateRange) bool {
	return !other.Start.Before(r.Start) && !other.End.After(r.End)
}

// Includes reports whether t falls inside the inclusive interval.
func (r DateRange) Includes(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Listener is invoked synchronously after every successful mutation, exactly
// once per mutation, in registration order. Listeners must not call back into
// the State's mutators.
type Listener func(Snapshot)

type subscriber struct {
	id int
	fn Listener
}

// State is the session's single shared filter state. It is constructed once
// in main and passed by reference to every consumer; mutations go through
// the validated setters only. All setters validate before applying, so a
// rejected mutation leaves the prior state intact and fires no notification.
type State struct {
	mu      sync.Mutex
	domain  DateRange
	rng     DateRange
	detail  *DateRange
	sel     map[Dimension]map[string]bool
	valid   map[Dimension]map[string]bool
	measure Measure
	grain   Grain
	groupBy Dimension
	subs    []subscriber
	nextID  int
}

// NewState builds a State over the dataset's [minDate, maxDate] domain with
// the session defaults: full date range, all categories selected, measure
// revenue, grain week, legend dimension region.
func NewState(minDate, maxDate time.Time) *State {
	s := &State{
		domain:  DateRange{Start: minDate, End: maxDate},
		rng:     DateRange{Start: minDate, End: maxDate},
		sel:     make(map[Dimension]map[string]bool),
		valid:   make(map[Dimension]map[string]bool),
		measure: MeasureRevenue,
		grain:   GrainWeek,
		groupBy: DimRegion,
	}
	for dim, values := range map[Dimension][]string{
		DimRegion:  models.Regions,
		DimChannel: models.Channels,
		DimProduct: models.Products,
	} {
		s.valid[dim] = make(map[string]bool, len(values))
		s.sel[dim] = make(map[string]bool, len(values))
		for _, v := range values {
			s.valid[dim][v] = true
			s.sel[dim][v] = true
		}
	}
	return s
}

// SetDateRange replaces the active date range. Both bounds must lie within
// the dataset domain and start must not exceed end. A detail range that no
// longer fits inside the new range is cleared.
func (s *State) SetDateRange(start, end time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if start.After(end) {
		return errors.InvalidRange(fmt.Sprintf("start %s is after end %s",
			start.Format(time.DateOnly), end.Format(time.DateOnly)))
	}
	if start.Before(s.domain.Start) || end.After(s.domain.End) {
		return errors.InvalidRange(fmt.Sprintf("range [%s, %s] is outside the dataset domain [%s, %s]",
			start.Format(time.DateOnly), end.Format(time.DateOnly),
			s.domain.Start.Format(time.DateOnly), s.domain.End.Format(time.DateOnly)))
	}

	s.rng = DateRange{Start: start, End: end}
	if s.detail != nil && !s.rng.Contains(*s.detail) {
		s.detail = nil
	}
	s.notifyLocked()
	return nil
}

// ToggleCategory flips value membership in the named dimension's selection
// set. Unknown dimensions or values are rejected without notifying.
func (s *State) ToggleCategory(dim Dimension, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.sel[dim]
	if !ok {
		return errors.Validation(fmt.Sprintf("unknown dimension %q", dim))
	}
	if !s.valid[dim][value] {
		return errors.Validation(fmt.Sprintf("unknown %s value %q", dim, value))
	}

	if set[value] {
		delete(set, value)
	} else {
		set[value] = true
	}
	s.notifyLocked()
	return nil
}

// SetMeasure selects the quantity driving the charts.
func (s *State) SetMeasure(m Measure) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch m {
	case MeasureOrders, MeasureRevenue, MeasureAOV:
	default:
		return errors.InvalidMeasure(fmt.Sprintf("unknown measure %q", m))
	}
	s.measure = m
	s.notifyLocked()
	return nil
}

// SetGrain selects the time bucketing for trend charts.
func (s *State) SetGrain(g Grain) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch g {
	case GrainDay, GrainWeek, GrainMonth:
	default:
		return errors.Validation(fmt.Sprintf("unknown time grain %q", g))
	}
	s.grain = g
	s.notifyLocked()
	return nil
}

// SetGroupBy selects the legend dimension for chart series.
func (s *State) SetGroupBy(dim Dimension) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch dim {
	case DimRegion, DimChannel, DimProduct:
	default:
		return errors.Validation(fmt.Sprintf("unknown group-by dimension %q", dim))
	}
	s.groupBy = dim
	s.notifyLocked()
	return nil
}

// SetDetailRange sets or clears the brushed sub-range feeding the detail
// chart and table. A non-nil range must lie fully within the active
// date range.
func (s *State) SetDetailRange(r *DateRange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r != nil {
		if r.Start.After(r.End) {
			return errors.InvalidRange(fmt.Sprintf("brush start %s is after end %s",
				r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly)))
		}
		if !s.rng.Contains(*r) {
			return errors.InvalidRange(fmt.Sprintf("brush range [%s, %s] escapes the active range [%s, %s]",
				r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly),
				s.rng.Start.Format(time.DateOnly), s.rng.End.Format(time.DateOnly)))
		}
		cp := *r
		s.detail = &cp
	} else {
		s.detail = nil
	}
	s.notifyLocked()
	return nil
}

// Subscribe registers a listener and returns its subscription id.
func (s *State) Subscribe(fn Listener) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.subs = append(s.subs, subscriber{id: s.nextID, fn: fn})
	return s.nextID
}

// Unsubscribe removes a listener; later mutations will not invoke it.
// Unknown ids are ignored.
func (s *State) Unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

func (s *State) notifyLocked() {
	snap := s.snapshotLocked()
	for _, sub := range s.subs {
		sub.fn(snap)
	}
}

// Snapshot returns an immutable copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *State) snapshotLocked() Snapshot {
	snap := Snapshot{
		DateRange:  s.rng,
		Measure:    s.measure,
		Grain:      s.grain,
		GroupBy:    s.groupBy,
		Selections: make(map[Dimension][]string, len(s.sel)),
	}
	if s.detail != nil {
		cp := *s.detail
		snap.DetailRange = &cp
	}
	for dim, set := range s.sel {
		values := make([]string, 0, len(set))
		for v := range set {
			values = append(values, v)
		}
		slices.Sort(values)
		snap.Selections[dim] = values
	}
	return snap
}
