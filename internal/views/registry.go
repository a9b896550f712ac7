// Package views wires dashboard views to the filter state. A mounted view is
// subscribed and recomputes on every filter mutation; an unmounted view is
// released and never hears from the state again. The transition is terminal
// for a view instance.
package views

import (
	"fmt"
	"log/slog"
	"sync"

	"ecom-infographic/internal/filter"
)

// View recomputes a render-ready frame from the dataset and a filter
// snapshot. Recompute must be idempotent for identical snapshots and must
// not mutate the filter state or the dataset.
type View interface {
	Name() string
	Recompute(snap filter.Snapshot) error
}

// Frame is one view's render-ready output.
type Frame struct {
	View string `json:"view"`
	Data any    `json:"data"`
}

// Publisher receives recomputed frames; the SSE hub implements it.
type Publisher interface {
	Publish(Frame)
}

// Registry tracks mounted views and their filter subscriptions.
type Registry struct {
	state  *filter.State
	logger *slog.Logger

	mu   sync.Mutex
	subs map[string]int
}

func NewRegistry(state *filter.State, logger *slog.Logger) *Registry {
	return &Registry{
		state:  state,
		logger: logger,
		subs:   make(map[string]int),
	}
}

// Mount subscribes the view and runs its initial recompute. If that
// recompute fails the subscription is released before returning, so a view
// that never rendered can never receive notifications.
func (r *Registry) Mount(v View) error {
	name := v.Name()

	r.mu.Lock()
	if _, mounted := r.subs[name]; mounted {
		r.mu.Unlock()
		return fmt.Errorf("view %q already mounted", name)
	}
	id := r.state.Subscribe(func(snap filter.Snapshot) {
		if err := v.Recompute(snap); err != nil {
			r.logger.Error("view recompute failed", "view", name, "error", err)
		}
	})
	r.subs[name] = id
	r.mu.Unlock()

	if err := v.Recompute(r.state.Snapshot()); err != nil {
		r.Unmount(name)
		return fmt.Errorf("mount view %q: %w", name, err)
	}
	return nil
}

// Unmount releases the view's subscription. Returns false when the view was
// not mounted.
func (r *Registry) Unmount(name string) bool {
	r.mu.Lock()
	id, mounted := r.subs[name]
	delete(r.subs, name)
	r.mu.Unlock()

	if !mounted {
		return false
	}
	r.state.Unsubscribe(id)
	return true
}

// UnmountAll releases every mounted view, for shutdown.
func (r *Registry) UnmountAll() {
	r.mu.Lock()
	ids := make([]int, 0, len(r.subs))
	for _, id := range r.subs {
		ids = append(ids, id)
	}
	r.subs = make(map[string]int)
	r.mu.Unlock()

	for _, id := range ids {
		r.state.Unsubscribe(id)
	}
}

// Mounted reports whether a view of that name is currently subscribed.
func (r *Registry) Mounted(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.subs[name]
	return ok
}
