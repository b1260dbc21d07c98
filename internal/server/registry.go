package server

import (
	"fmt"
	"sync"

	"github.com/vyrodovalexey/avrouter/internal/config"
	"github.com/vyrodovalexey/avrouter/internal/router"
)

// HandlerRegistry resolves handler names from configuration to
// Handler implementations. Registration happens at startup;
// lookups happen on every configuration (re)load.
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string]router.Handler
}

// NewHandlerRegistry creates an empty registry.
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: make(map[string]router.Handler),
	}
}

// Register binds a handler to a name. Registering the same name
// twice is an error.
func (r *HandlerRegistry) Register(name string, h router.Handler) error {
	if name == "" {
		return fmt.Errorf("handler name must not be empty")
	}
	if h == nil {
		return fmt.Errorf("handler %q must not be nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[name]; exists {
		return fmt.Errorf("handler %q already registered", name)
	}
	r.handlers[name] = h

	return nil
}

// RegisterFunc binds a handler function to a name.
func (r *HandlerRegistry) RegisterFunc(name string, fn router.HandlerFunc) error {
	return r.Register(name, fn)
}

// Get returns the handler registered under name.
func (r *HandlerRegistry) Get(name string) (router.Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handlers[name]

	return h, ok
}

// Names returns the registered handler names.
func (r *HandlerRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}

	return names
}

// BuildRouteMap translates configuration routes into a raw route
// table, resolving every handler name through the registry. A route
// referencing an unknown handler or an unparsable path or method
// fails the whole build.
func (r *HandlerRegistry) BuildRouteMap(routes []config.Route) (router.RouteMap, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	raw := make(router.RouteMap, len(routes))

	for _, rt := range routes {
		path, err := router.NewRoutePath(rt.Path)
		if err != nil {
			return nil, fmt.Errorf("route %q: %w", rt.Path, err)
		}

		byVerb := make(map[router.Verb]router.Handler, len(rt.Methods))
		for method, handlerName := range rt.Methods {
			verb, err := router.ParseVerb(method)
			if err != nil {
				return nil, fmt.Errorf("route %q: %w", rt.Path, err)
			}

			h, ok := r.handlers[handlerName]
			if !ok {
				return nil, fmt.Errorf("route %q method %s: unknown handler %q", rt.Path, method, handlerName)
			}
			byVerb[verb] = h
		}

		raw[path] = byVerb
	}

	return raw, nil
}
