package router

import "net/http"

// Match is the outcome of a route lookup: the handler to invoke and
// the parameters the pattern captured from the request path.
type Match struct {
	// Handler serves the matched request.
	Handler Handler

	// Groups holds the named captures pulled out of the request
	// path. Empty for the fallback matches.
	Groups map[string]string
}

// noGroups is the shared empty capture set used by the fallback
// matches. It must never be mutated.
var noGroups = map[string]string{}

// NotFound is the process-wide fallback match returned when no route
// pattern matches the request path. Its handler writes a fixed 404
// response.
var NotFound = Match{
	Handler: HandlerFunc(func(*Request) (*Response, error) {
		return NewTextResponse(http.StatusNotFound, "Not found"), nil
	}),
	Groups: noGroups,
}

// MethodNotAllowed is the process-wide fallback match returned when
// at least one pattern matched the path but none supplied the
// requested verb. Its handler writes a fixed 405 response.
var MethodNotAllowed = Match{
	Handler: HandlerFunc(func(*Request) (*Response, error) {
		return NewTextResponse(http.StatusMethodNotAllowed, "Method not allowed"), nil
	}),
	Groups: noGroups,
}
