package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"ecom-infographic/internal/analytics"
	"ecom-infographic/internal/errors"
	"ecom-infographic/internal/filter"
	"ecom-infographic/internal/observability"
)

// InteractionHandlers translate UI gestures into filter state mutations.
// The mutation itself notifies the mounted views; these handlers only
// validate input shape and report the outcome.
type InteractionHandlers struct {
	state  *filter.State
	logger *slog.Logger
}

func NewInteractionHandlers(state *filter.State, logger *slog.Logger) *InteractionHandlers {
	return &InteractionHandlers{state: state, logger: logger}
}

func (h *InteractionHandlers) HandleDateRange(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	start, err := parseDate(r.FormValue("start"))
	if err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "invalid start date"), requestID)
		return
	}
	end, err := parseDate(r.FormValue("end"))
	if err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "invalid end date"), requestID)
		return
	}

	if err := h.state.SetDateRange(start, end); err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}
	errors.WriteSuccess(w, h.state.Snapshot())
}

func (h *InteractionHandlers) HandleToggle(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	dim := filter.Dimension(r.FormValue("dimension"))
	value := r.FormValue("value")

	if err := h.state.ToggleCategory(dim, value); err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}
	errors.WriteSuccess(w, h.state.Snapshot())
}

func (h *InteractionHandlers) HandleMeasure(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	if err := h.state.SetMeasure(filter.Measure(r.FormValue("measure"))); err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}
	errors.WriteSuccess(w, h.state.Snapshot())
}

func (h *InteractionHandlers) HandleGrain(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	if err := h.state.SetGrain(filter.Grain(r.FormValue("grain"))); err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}
	errors.WriteSuccess(w, h.state.Snapshot())
}

func (h *InteractionHandlers) HandleGroupBy(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	if err := h.state.SetGroupBy(filter.Dimension(r.FormValue("dimension"))); err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}
	errors.WriteSuccess(w, h.state.Snapshot())
}

// HandleBrush sets the detail range from the overview chart's interval
// selection, or clears it when clear=true (or both bounds are absent).
func (h *InteractionHandlers) HandleBrush(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	if clear, _ := strconv.ParseBool(r.FormValue("clear")); clear ||
		(r.FormValue("start") == "" && r.FormValue("end") == "") {
		if err := h.state.SetDetailRange(nil); err != nil {
			errors.WriteError(w, h.logger, err, requestID)
			return
		}
		errors.WriteSuccess(w, h.state.Snapshot())
		return
	}

	// Brush bounds arrive as time bucket keys off the ordinal axis (day,
	// ISO week, or month), so expand each to its date span first.
	start, _, err := analytics.BucketSpan(r.FormValue("start"))
	if err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "invalid brush start"), requestID)
		return
	}
	_, end, err := analytics.BucketSpan(r.FormValue("end"))
	if err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "invalid brush end"), requestID)
		return
	}

	// A week or month bucket can overhang the active range at either edge;
	// clamp so brushing the last partial bucket still succeeds.
	active := h.state.Snapshot().DateRange
	if start.Before(active.Start) {
		start = active.Start
	}
	if end.After(active.End) {
		end = active.End
	}

	if err := h.state.SetDetailRange(&filter.DateRange{Start: start, End: end}); err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}
	errors.WriteSuccess(w, h.state.Snapshot())
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(time.DateOnly, value)
}
