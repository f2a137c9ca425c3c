package custom

import (
	"context"
	"sort"
	"sync"

	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/arthur-debert/dotinstall/pkg/handlers"
	"github.com/arthur-debert/dotinstall/pkg/logging"
	"github.com/arthur-debert/dotinstall/pkg/plan"
	"github.com/arthur-debert/dotinstall/pkg/types"
)

// Func is a custom installer
type Func interface {
	// Description is shown by "dotinstall help methods"
	Description() string

	IsInstalled(ctx context.Context, env *handlers.Env, step plan.Step) (bool, error)
	Install(ctx context.Context, env *handlers.Env, step plan.Step) (handlers.Result, error)
}

// Handler dispatches to registered functions by name
type Handler struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// New creates the handler with the built-in functions registered
func New() *Handler {
	h := NewEmpty()
	for name, fn := range builtins() {
		h.Register(name, fn)
	}
	return h
}

// NewEmpty creates a handler without any functions
func NewEmpty() *Handler {
	return &Handler{funcs: make(map[string]Func)}
}

// Register adds or replaces a function
func (h *Handler) Register(name string, fn Func) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.funcs[name] = fn
}

// Lookup returns the function registered under name
func (h *Handler) Lookup(name string) (Func, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	fn, ok := h.funcs[name]
	if !ok {
		return nil, errors.Newf(errors.ErrCustomNotRegistered, "no custom installer named %q", name).
			WithDetail("custom", name)
	}
	return fn, nil
}

// Names returns registered function names, sorted
func (h *Handler) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(h.funcs))
	for name := range h.funcs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Method returns the manifest method
func (h *Handler) Method() types.Method {
	return types.MethodCustom
}

// Description returns a human-readable description of what this handler does
func (h *Handler) Description() string {
	return "Runs a named installer built into dotinstall"
}

// IsInstalled asks the named function
func (h *Handler) IsInstalled(ctx context.Context, env *handlers.Env, step plan.Step) (bool, error) {
	fn, err := h.Lookup(step.Spec.Custom)
	if err != nil {
		return false, err
	}
	return fn.IsInstalled(ctx, env, step)
}

// Install runs the named function
func (h *Handler) Install(ctx context.Context, env *handlers.Env, step plan.Step) (handlers.Result, error) {
	fn, err := h.Lookup(step.Spec.Custom)
	if err != nil {
		return handlers.Result{}, err
	}
	logger := logging.GetLogger("handlers.custom")
	logger.Debug().
		Str("package", step.Key).
		Str("custom", step.Spec.Custom).
		Msg("Running custom installer")
	return fn.Install(ctx, env, step)
}

var _ handlers.Handler = (*Handler)(nil)
