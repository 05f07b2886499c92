package router

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"vehicleagent/internal/chat"
	"vehicleagent/internal/nlu"
)

// Result is a handler's answer to one turn.
type Result struct {
	Text         string
	Actions      []string
	VehicleState map[string]any
}

// Handler is a specialist capability that owns one target agent id.
type Handler interface {
	ID() string
	// CanHandle reports whether the handler considers itself responsible for
	// a classified utterance. Routing itself only looks at the target id.
	CanHandle(text string, c nlu.Classification) bool
	Handle(ctx context.Context, msg chat.AgentMessage) (Result, error)
}

var ErrDuplicateHandler = errors.New("handler already registered")

// Registry maps target agent ids to handlers. Registration order is kept.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	order    []string
}

func NewRegistry(hs ...Handler) (*Registry, error) {
	r := &Registry{handlers: make(map[string]Handler)}
	for _, h := range hs {
		if err := r.Register(h); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(h Handler) error {
	id := h.ID()
	if id == "" {
		return errors.New("handler id is empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handlers[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateHandler, id)
	}
	r.handlers[id] = h
	r.order = append(r.order, id)
	return nil
}

func (r *Registry) Lookup(id string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[id]
	return h, ok
}

// List returns the handlers in registration order.
func (r *Registry) List() []Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Handler, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.handlers[id])
	}
	return out
}

// Without returns a copy of the registry minus the given ids.
func (r *Registry) Without(ids ...string) *Registry {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	out := &Registry{handlers: make(map[string]Handler)}
	for _, h := range r.List() {
		if _, ok := drop[h.ID()]; ok {
			continue
		}
		out.handlers[h.ID()] = h
		out.order = append(out.order, h.ID())
	}
	return out
}

// Missing lists the targets that have no registered handler. Turns
// classified to one of them fall back to general conversation.
func (r *Registry) Missing(targets []string) []string {
	var out []string
	for _, t := range targets {
		if _, ok := r.Lookup(t); !ok {
			out = append(out, t)
		}
	}
	return out
}
