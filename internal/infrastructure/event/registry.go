package event

import (
	"slices"
	"sync"

	"github.com/erp/supplychain/internal/domain/shared"
)

// HandlerRegistry maps event types to their subscribers. Handlers registered
// without event types receive every event after the typed ones.
type HandlerRegistry struct {
	mu       sync.RWMutex
	typed    map[string][]shared.EventHandler
	wildcard []shared.EventHandler
}

// NewHandlerRegistry creates an empty registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{typed: make(map[string][]shared.EventHandler)}
}

// Register subscribes handler to eventTypes. Registering the same handler for
// the same type twice is a no-op.
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(eventTypes) == 0 {
		if !slices.Contains(r.wildcard, handler) {
			r.wildcard = append(r.wildcard, handler)
		}
		return
	}
	for _, t := range eventTypes {
		if !slices.Contains(r.typed[t], handler) {
			r.typed[t] = append(r.typed[t], handler)
		}
	}
}

// Unregister removes handler from every subscription
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.wildcard = slices.DeleteFunc(r.wildcard, func(h shared.EventHandler) bool { return h == handler })
	for t, hs := range r.typed {
		hs = slices.DeleteFunc(hs, func(h shared.EventHandler) bool { return h == handler })
		if len(hs) == 0 {
			delete(r.typed, t)
			continue
		}
		r.typed[t] = hs
	}
}

// GetHandlers returns a snapshot of the handlers for eventType
func (r *HandlerRegistry) GetHandlers(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typed := r.typed[eventType]
	out := make([]shared.EventHandler, 0, len(typed)+len(r.wildcard))
	out = append(out, typed...)
	return append(out, r.wildcard...)
}

// Len returns the number of distinct registered handlers
func (r *HandlerRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[shared.EventHandler]struct{}, len(r.wildcard))
	for _, h := range r.wildcard {
		seen[h] = struct{}{}
	}
	for _, hs := range r.typed {
		for _, h := range hs {
			seen[h] = struct{}{}
		}
	}
	return len(seen)
}
