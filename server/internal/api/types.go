package api

import "encoding/json"

// CreateRequest is the body of POST /snippets. ID is kept raw so an id of any
// JSON type is accepted and ignored; the server always assigns its own.
type CreateRequest struct {
	ID       json.RawMessage `json:"id,omitempty"`
	Language string          `json:"language"`
	Code     string          `json:"code"`
}

// HealthResponse is the payload for GET /health.
type HealthResponse struct {
	Status       string `json:"status"`
	SnippetCount int    `json:"snippet_count"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
