package event

import (
	"sync"

	"github.com/atelier/marketplace/internal/domain/shared"
)

type registration struct {
	handler shared.EventHandler
	types   map[string]struct{} // nil means every event
}

func (r registration) matches(eventType string) bool {
	if r.types == nil {
		return true
	}
	_, ok := r.types[eventType]
	return ok
}

// HandlerRegistry keeps handler subscriptions in registration order
type HandlerRegistry struct {
	mu            sync.RWMutex
	registrations []registration
}

// NewHandlerRegistry creates an empty registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{}
}

// Register subscribes handler to eventTypes. With no types the handler
// receives every event. Registering the same handler again widens its
// subscription instead of adding a second entry.
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.registrations {
		reg := &r.registrations[i]
		if reg.handler != handler {
			continue
		}
		if len(eventTypes) == 0 {
			reg.types = nil
			return
		}
		if reg.types == nil {
			return
		}
		for _, t := range eventTypes {
			reg.types[t] = struct{}{}
		}
		return
	}

	reg := registration{handler: handler}
	if len(eventTypes) > 0 {
		reg.types = make(map[string]struct{}, len(eventTypes))
		for _, t := range eventTypes {
			reg.types[t] = struct{}{}
		}
	}
	r.registrations = append(r.registrations, reg)
}

// Unregister removes the handler entirely
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.registrations[:0]
	for _, reg := range r.registrations {
		if reg.handler != handler {
			kept = append(kept, reg)
		}
	}
	for i := len(kept); i < len(r.registrations); i++ {
		r.registrations[i] = registration{}
	}
	r.registrations = kept
}

// GetHandlers returns the handlers subscribed to eventType, in registration order
func (r *HandlerRegistry) GetHandlers(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]shared.EventHandler, 0, len(r.registrations))
	for _, reg := range r.registrations {
		if reg.matches(eventType) {
			result = append(result, reg.handler)
		}
	}
	return result
}

// GetAllHandlers returns every registered handler
func (r *HandlerRegistry) GetAllHandlers() []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]shared.EventHandler, len(r.registrations))
	for i, reg := range r.registrations {
		result[i] = reg.handler
	}
	return result
}
