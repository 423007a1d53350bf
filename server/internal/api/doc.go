// Package api implements the HTTP REST API for snippr-server.
//
// New(store, opts) returns an http.Handler (a chi router) that serves:
//
//	GET  /health          — {"status":"ok","snippet_count":N}
//	GET  /snippets        — all snippets; ?lang= filters case-insensitively
//	GET  /snippets/{id}   — one snippet; 404 if unknown, 400 if id is not an integer
//	POST /snippets        — create from {"language","code"}; 201 + Location
//	GET  /metrics         — Prometheus exposition (when Options.Metrics is set)
//	GET  /ws/snippets     — live feed (when Options.Feed is set)
//
// All JSON endpoints respond with Content-Type: application/json; errors use
// {"error": "..."}. Unknown methods on known paths return 405.
//
// Every response carries X-Request-ID, taken from the request when present
// and otherwise generated.
package api
