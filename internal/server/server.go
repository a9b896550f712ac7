package server

import (
	"log/slog"
	"net/http"

	"ecom-infographic/internal/handlers"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	interaction *handlers.InteractionHandlers
	sseHandlers *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

// Options collects the route dependencies built in main.
type Options struct {
	API         *handlers.APIHandlers
	Interaction *handlers.InteractionHandlers
	SSE         *handlers.SSEHandlers
	Templates   *TemplateHandlers
	// StaticDir, when non-empty, mounts a plain file server under /static/.
	StaticDir string
}

func NewServer(logger *slog.Logger, opts Options) *Server {
	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: opts.API,
		interaction: opts.Interaction,
		sseHandlers: opts.SSE,
	}
	s.setupRoutes(opts)
	return s
}

func (s *Server) setupRoutes(opts Options) {
	// Dashboard page and operational routes
	s.mux.HandleFunc("GET /{$}", opts.Templates.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API over the current filter state
	s.mux.HandleFunc("GET /api/summary", s.apiHandlers.HandleSummary)
	s.mux.HandleFunc("GET /api/series", s.apiHandlers.HandleSeries)
	s.mux.HandleFunc("GET /api/buckets", s.apiHandlers.HandleBuckets)
	s.mux.HandleFunc("GET /api/table", s.apiHandlers.HandleTable)
	s.mux.HandleFunc("GET /api/filters", s.apiHandlers.HandleFilters)
	s.mux.HandleFunc("GET /dataset.csv", s.apiHandlers.HandleDatasetCSV)

	// Interaction endpoints mutating the filter state
	s.mux.HandleFunc("POST /interact/date-range", s.interaction.HandleDateRange)
	s.mux.HandleFunc("POST /interact/toggle", s.interaction.HandleToggle)
	s.mux.HandleFunc("POST /interact/measure", s.interaction.HandleMeasure)
	s.mux.HandleFunc("POST /interact/grain", s.interaction.HandleGrain)
	s.mux.HandleFunc("POST /interact/group-by", s.interaction.HandleGroupBy)
	s.mux.HandleFunc("POST /interact/brush", s.interaction.HandleBrush)

	// Datastar SSE stream of recomputed view frames
	s.mux.HandleFunc("GET /sse/frames", s.sseHandlers.HandleFrames)

	if opts.StaticDir != "" {
		s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir))))
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
