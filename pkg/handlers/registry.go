package handlers

import (
	"sort"
	"sync"

	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/arthur-debert/dotinstall/pkg/runner"
	"github.com/arthur-debert/dotinstall/pkg/types"
)

// Registry maps methods to handlers
type Registry struct {
	mu       sync.RWMutex
	handlers map[types.Method]Handler
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[types.Method]Handler)}
}

// Register adds or replaces the handler for its method
func (r *Registry) Register(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[h.Method()] = h
}

// Get returns the handler for m
func (r *Registry) Get(m types.Method) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[m]
	if !ok {
		return nil, errors.Newf(errors.ErrMethodUnknown, "no handler for method %q", m).
			WithDetail("method", string(m))
	}
	return h, nil
}

// Methods returns registered methods sorted by name
func (r *Registry) Methods() []types.Method {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.Method, 0, len(r.handlers))
	for m := range r.handlers {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RequireTool fails with ErrMethodUnavailable when a program the method
// depends on is missing from PATH
func RequireTool(env *Env, method types.Method, tool string) error {
	if runner.Has(env.Runner, tool) {
		return nil
	}
	return errors.Newf(errors.ErrMethodUnavailable, "%s is not available: %s not found on PATH", method, tool).
		WithDetail("method", string(method)).
		WithDetail("tool", tool)
}
