package router

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/vyrodovalexey/avrouter/internal/metrics"
)

// RouteMap is the raw route registration supplied once at startup: a
// path template mapped to its handlers by verb.
type RouteMap map[*RoutePath]map[Verb]Handler

// routeEntry pairs a compiled pattern with its per-verb handlers.
type routeEntry struct {
	path     *RoutePath
	handlers map[Verb]Handler
}

// CompiledRoutes is the route table used at serving time. The term
// "compiled" is used loosely: it routes requests to handlers and
// tracks how often and how long handlers run. Built once, immutable
// afterward, and safe for unlimited concurrent lookups.
type CompiledRoutes struct {
	// entries are sorted ascending by pattern string so lookup
	// order is independent of registration order.
	entries []routeEntry
}

// NewCompiledRoutes compiles the raw route map into a sorted,
// instrumentation-wrapped table. Every handler is wrapped to count
// invocations, record latency, and convert failures into responses
// via the request's connection-scoped ErrorHandler. Two registrations
// with the same pattern string are rejected.
func NewCompiledRoutes(rawRoutes RouteMap, registry *metrics.Registry) (*CompiledRoutes, error) {
	entries := make([]routeEntry, 0, len(rawRoutes))
	byPattern := make(map[string]bool, len(rawRoutes))

	for path, byVerb := range rawRoutes {
		if byPattern[path.String()] {
			return nil, fmt.Errorf("duplicate route pattern %q", path)
		}
		byPattern[path.String()] = true

		handlers := make(map[Verb]Handler, len(byVerb))
		for verb, handler := range byVerb {
			counter := registry.Counter(metrics.Name("routes", verb.String(), path.String()))
			timer := registry.Timer(metrics.Name("routeLatency", verb.String(), path.String()))
			handlers[verb] = instrumented(handler, counter, timer)
		}

		entries = append(entries, routeEntry{path: path, handlers: handlers})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].path.Compare(entries[j].path) < 0
	})

	return &CompiledRoutes{entries: entries}, nil
}

// instrumented wraps a handler so that every invocation increments
// the route's counter and records its latency, and any failure is
// converted into a response by the request's error handler. The
// wrapped handler never returns a non-nil error: it is a recoverable
// boundary around the raw handler.
func instrumented(handler Handler, counter metrics.Counter, timer metrics.Timer) Handler {
	return HandlerFunc(func(req *Request) (*Response, error) {
		counter.Inc()

		start := time.Now()
		resp, err := invoke(handler, req)
		timer.Observe(time.Since(start))

		if err != nil {
			if req.ErrorHandler == nil {
				return NewTextResponse(http.StatusInternalServerError, "Internal server error"), nil
			}
			return req.ErrorHandler(req, err), nil
		}
		return resp, nil
	})
}

// invoke calls the raw handler, converting a panic into an error so
// the failure path is uniform.
func invoke(handler Handler, req *Request) (resp *Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return handler.Handle(req)
}

// Match finds the handler and captured groups for the given path and
// verb. Entries are scanned in ascending pattern order. A pattern
// that matches the path but lacks the verb does not stop the scan:
// a later pattern matching the same path may still supply it. If any
// pattern matched the path but none had the verb, the shared
// MethodNotAllowed match is returned; if no pattern matched at all,
// NotFound is returned.
func (c *CompiledRoutes) Match(path string, verb Verb) Match {
	pathMatched := false
	for _, entry := range c.entries {
		groups, ok := entry.path.Groups(path)
		if !ok {
			continue
		}
		pathMatched = true
		if handler, ok := entry.handlers[verb]; ok {
			return Match{Handler: handler, Groups: groups}
		}
	}

	if pathMatched {
		return MethodNotAllowed
	}
	return NotFound
}

// MatchString is like Match but resolves the verb from its wire
// token first. An unrecognized token fails with *InvalidVerbError;
// it is never reported as a not-found route.
func (c *CompiledRoutes) MatchString(path, method string) (Match, error) {
	verb, err := ParseVerb(method)
	if err != nil {
		return Match{}, err
	}
	return c.Match(path, verb), nil
}

// Len reports the number of compiled route patterns.
func (c *CompiledRoutes) Len() int {
	return len(c.entries)
}

// Patterns returns the compiled pattern strings in table order.
func (c *CompiledRoutes) Patterns() []string {
	patterns := make([]string, len(c.entries))
	for i, entry := range c.entries {
		patterns[i] = entry.path.String()
	}
	return patterns
}
