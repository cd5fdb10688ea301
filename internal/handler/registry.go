package handler

import (
	"fmt"

	oerrors "github.com/forgekit/forge/internal/errors"
)

// Registry is an ordered list of handlers. Order is priority: the first
// handler that applies wins, so specific handlers go before fallbacks.
type Registry struct {
	handlers []*Handler
}

// NewRegistry creates a registry with handlers in priority order.
func NewRegistry(handlers ...*Handler) *Registry {
	return &Registry{handlers: append([]*Handler(nil), handlers...)}
}

// Handlers returns the handlers in priority order.
func (r *Registry) Handlers() []*Handler {
	return append([]*Handler(nil), r.handlers...)
}

// Resolve returns the first handler that applies to sel. Resolution has no
// side effects, so it is safe for dry runs and retries.
func (r *Registry) Resolve(sel Selection) (*Handler, error) {
	for _, h := range r.handlers {
		if h.Applies(sel) {
			return h, nil
		}
	}
	return nil, fmt.Errorf("no handler for template %q: %w", sel.Template, oerrors.ErrHandlerNotFound)
}
