// Package server exposes the event log over HTTP.
//
// Routes (all GET, JSON responses):
//
//	/              greeting
//	/health        liveness; fails if the database cannot be reached
//	/add           append an event (?message=, default "hello")
//	/consultation  newest events first, bounded by the list limit
//	/count         number of stored events
//	/status        event count and backup freshness; never fails
//
// Storage errors on every route except /status become HTTP 500 with an
// {"error": ...} body.
package server
