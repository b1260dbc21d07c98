// Package server hosts the routing engine behind an HTTP listener.
//
// The server owns the current compiled route table behind an atomic
// pointer: configuration reloads build a fresh table and swap it in,
// so in-flight requests always see a consistent, immutable table.
// Every inbound request is dispatched through the table; unknown HTTP
// methods are rejected with 501 before dispatch, and the table's
// not-found and method-not-allowed fallbacks produce the 404/405
// responses.
//
// Handler implementations are registered by name in a
// HandlerRegistry; configuration routes reference those names.
package server
