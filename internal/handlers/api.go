package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"ecom-infographic/internal/analytics"
	"ecom-infographic/internal/dataset"
	"ecom-infographic/internal/errors"
	"ecom-infographic/internal/filter"
	"ecom-infographic/internal/models"
	"ecom-infographic/internal/observability"
)

const cacheControlNone = "no-store"

// APIHandlers expose the filtered aggregates as plain JSON, for clients that
// consume data instead of the SSE-driven page.
type APIHandlers struct {
	store      *dataset.Store
	state      *filter.State
	logger     *slog.Logger
	tableLimit int
}

func NewAPIHandlers(store *dataset.Store, state *filter.State, logger *slog.Logger, tableLimit int) *APIHandlers {
	return &APIHandlers{
		store:      store,
		state:      state,
		logger:     logger,
		tableLimit: tableLimit,
	}
}

func (h *APIHandlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	snap := h.state.Snapshot()
	data := analytics.Summarize(h.store.Records(), snap)
	errors.WriteSuccessWithHeaders(w, data, map[string]string{"Cache-Control": cacheControlNone})
}

func (h *APIHandlers) HandleSeries(w http.ResponseWriter, r *http.Request) {
	snap := h.state.Snapshot()
	data := analytics.Series(h.store.Records(), snap)
	errors.WriteSuccessWithHeaders(w, data, map[string]string{"Cache-Control": cacheControlNone})
}

// HandleBuckets aggregates by ?by=time|region|channel|product (default time).
func (h *APIHandlers) HandleBuckets(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	by := r.URL.Query().Get("by")
	if by == "" {
		by = analytics.GroupByTime
	}
	switch by {
	case analytics.GroupByTime, analytics.GroupByRegion, analytics.GroupByChannel, analytics.GroupByProduct:
	default:
		errors.WriteError(w, h.logger, errors.BadRequest("unknown grouping "+strconv.Quote(by)), requestID)
		return
	}
	if span := observability.SpanFromContext(r.Context()); span != nil {
		span.SetTag("buckets.by", by)
	}

	snap := h.state.Snapshot()
	data := analytics.Aggregate(h.store.Records(), snap, by)
	errors.WriteSuccessWithHeaders(w, data, map[string]string{"Cache-Control": cacheControlNone})
}

func (h *APIHandlers) HandleTable(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	limit := h.tableLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			errors.WriteError(w, h.logger, errors.BadRequest("limit must be a positive integer"), requestID)
			return
		}
		if parsed < limit {
			limit = parsed
		}
	}

	snap := h.state.Snapshot()
	data := analytics.DetailRows(h.store.Records(), snap, limit)
	errors.WriteSuccessWithHeaders(w, data, map[string]string{"Cache-Control": cacheControlNone})
}

// HandleFilters reports the current filter snapshot plus the selectable
// domains, for building filter widgets.
func (h *APIHandlers) HandleFilters(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"state": h.state.Snapshot(),
		"domains": map[string]any{
			"regions":  models.Regions,
			"channels": models.Channels,
			"products": models.Products,
			"dates": filter.DateRange{
				Start: h.store.MinDate(),
				End:   h.store.MaxDate(),
			},
			"measures": []filter.Measure{filter.MeasureOrders, filter.MeasureRevenue, filter.MeasureAOV},
			"grains":   []filter.Grain{filter.GrainDay, filter.GrainWeek, filter.GrainMonth},
		},
	}
	errors.WriteSuccess(w, data)
}

// HandleDatasetCSV serves the loaded dataset in the loader's own format, so
// the static-file mode exposes identical data.
func (h *APIHandlers) HandleDatasetCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions_2024.csv"`)
	if err := dataset.WriteCSVTo(w, h.store.Records()); err != nil {
		h.logger.Error("stream dataset csv", "error", err)
	}
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	snap := h.state.Snapshot()
	errors.WriteSuccess(w, map[string]any{
		"record_count": h.store.Len(),
		"min_date":     h.store.MinDate().Format(time.DateOnly),
		"max_date":     h.store.MaxDate().Format(time.DateOnly),
		"measure":      snap.Measure,
		"grain":        snap.Grain,
		"group_by":     snap.GroupBy,
		"brushed":      snap.DetailRange != nil,
	})
}
