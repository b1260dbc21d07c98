// Package metrics provides the instrument registry backing per-route
// observability: named counters and latency timers, created on first
// use and shared afterward.
//
// Instruments are addressed by dotted names built with Name, e.g.
// "routes.GET./users/:id". Lookup by name is idempotent, so repeated
// route-table builds against a shared registry reuse the same
// instruments instead of duplicating them. All instruments are safe
// for concurrent use.
//
// The registry is backed by Prometheus: counters and timers are
// children of two vectors labeled by instrument name, and Handler
// exposes them for scraping.
package metrics
