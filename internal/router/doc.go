// Package router implements the request-routing core: a route table
// compiled once at startup and consulted for every inbound request.
//
// Routes are registered as a RouteMap (a path template mapped to its
// per-verb handlers) and compiled into an immutable CompiledRoutes
// value whose entries are sorted by pattern string for deterministic
// precedence. Each handler is wrapped with per-(verb, route) request
// and latency instruments during compilation.
//
// # Usage
//
// Build the table once, then match per request:
//
//	users := router.MustRoutePath("/users/:id")
//	table, err := router.NewCompiledRoutes(router.RouteMap{
//	    users: {router.GET: getUser},
//	}, registry)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	m := table.Match("/users/42", router.GET)
//	resp, _ := m.Handler.Handle(req)
//
// Lookups that match a pattern but not the verb fall back to the
// shared MethodNotAllowed match; lookups matching no pattern fall
// back to NotFound. A matched pattern lacking the requested verb does
// not stop the scan: a later pattern matching the same path may still
// supply the verb.
package router
