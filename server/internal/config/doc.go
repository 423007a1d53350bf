// Package config loads the snippr-server configuration from the `server:`
// section of a YAML file.
//
// Config fields:
//   - HTTPPort          — port for the REST API, /metrics and /ws/snippets (default 8080)
//   - LogLevel          — debug | info | warn | error (default info)
//   - MaxBodyBytes      — POST body limit (default 1 MiB)
//   - ShutdownTimeout   — graceful shutdown budget (default 10s)
//   - ReadHeaderTimeout — http.Server header timeout (default 5s)
//   - WebSocket         — live feed toggle and ping interval
//
// Load(path) applies defaults before unmarshalling, then validates.
// Watch(ctx, path, fn) reloads the file on change via fsnotify.
package config
