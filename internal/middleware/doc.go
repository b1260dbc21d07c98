// Package middleware provides the HTTP middleware applied around the
// routing engine: panic recovery, request IDs, access logging, rate
// limiting, and tracing.
//
// Middleware are standard func(http.Handler) http.Handler wrappers
// composed with Chain; the first middleware in the chain is the
// outermost.
package middleware
