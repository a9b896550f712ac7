package handlers

import (
	"log/slog"
	"sync"

	"ecom-infographic/internal/views"
)

const connBuffer = 16

// Hub fans recomputed view frames out to connected SSE clients and keeps the
// latest frame per view so a new connection starts from the current picture.
type Hub struct {
	logger *slog.Logger

	mu     sync.Mutex
	latest map[string]views.Frame
	conns  map[int]chan views.Frame
	nextID int
	closed bool
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger,
		latest: make(map[string]views.Frame),
		conns:  make(map[int]chan views.Frame),
	}
}

// Publish implements views.Publisher. Slow connections are skipped rather
// than blocking the notifying mutation; they catch up on the next frame.
func (h *Hub) Publish(f views.Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.latest[f.View] = f
	for id, ch := range h.conns {
		select {
		case ch <- f:
		default:
			h.logger.Warn("dropping frame for slow connection", "conn", id, "view", f.View)
		}
	}
}

// register adds a connection and returns its id, channel, and a replay of
// the latest frame per view (ordered for stable rendering).
func (h *Hub) register() (int, chan views.Frame, []views.Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	ch := make(chan views.Frame, connBuffer)
	h.conns[h.nextID] = ch

	replay := make([]views.Frame, 0, len(h.latest))
	for _, name := range []string{views.NameKPI, views.NameOverview, views.NameDetail, views.NameTable} {
		if f, ok := h.latest[name]; ok {
			replay = append(replay, f)
		}
	}
	return h.nextID, ch, replay
}

func (h *Hub) unregister(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.conns[id]; ok {
		delete(h.conns, id)
		close(ch)
	}
}

// Close disconnects all clients; Publish becomes a no-op.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.conns {
		delete(h.conns, id)
		close(ch)
	}
}

// Latest returns the most recent frame for a view, if any.
func (h *Hub) Latest(view string) (views.Frame, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	f, ok := h.latest[view]
	return f, ok
}
