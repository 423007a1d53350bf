package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/snippr/snippr/server/internal/config"
	"github.com/snippr/snippr/server/internal/metrics"
	"github.com/snippr/snippr/server/internal/store"
)

// Options wires optional collaborators into the router. The zero value serves
// only the snippet and health routes with the default body limit.
type Options struct {
	// Metrics, when set, instruments every request and mounts GET /metrics.
	Metrics *metrics.Metrics

	// Feed, when set, is mounted at GET /ws/snippets.
	Feed http.Handler

	// MaxBodyBytes caps POST bodies. Zero means config.DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

// Handler serves the snippet REST API on top of a store.
type Handler struct {
	store   *store.Store
	maxBody int64
	router  chi.Router
}

// New creates a Handler wired to st and registers all routes.
func New(st *store.Store, opts Options) http.Handler {
	h := &Handler{store: st, maxBody: opts.MaxBodyBytes}
	if h.maxBody <= 0 {
		h.maxBody = config.DefaultMaxBodyBytes
	}

	r := chi.NewRouter()
	r.Use(stack(opts.Metrics)...)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		jsonErr(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", h.health)
	r.Get("/snippets", h.listSnippets)
	r.Post("/snippets", h.createSnippet)
	r.Get("/snippets/{id}", h.getSnippet)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	if opts.Feed != nil {
		r.Method(http.MethodGet, "/ws/snippets", opts.Feed)
	}

	h.router = r
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /health.
func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	jsonResp(w, http.StatusOK, HealthResponse{
		Status:       "ok",
		SnippetCount: h.store.Count(),
	})
}

// listSnippets returns GET /snippets[?lang=...].
func (h *Handler) listSnippets(w http.ResponseWriter, r *http.Request) {
	jsonResp(w, http.StatusOK, h.store.List(r.URL.Query().Get("lang")))
}

// getSnippet returns GET /snippets/{id}.
func (h *Handler) getSnippet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid snippet id")
		return
	}

	sn, err := h.store.Get(id)
	if err != nil {
		writeStoreErr(w, r, err)
		return
	}
	jsonResp(w, http.StatusOK, sn)
}

// createSnippet handles POST /snippets. Any id in the body is ignored.
func (h *Handler) createSnippet(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonErr(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		jsonErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.ID) > 0 {
		slog.Debug("api: ignoring client-supplied id", "id", string(req.ID), "request_id", RequestID(r.Context()))
	}

	sn, err := h.store.Create(req.Language, req.Code)
	if err != nil {
		writeStoreErr(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/snippets/%d", sn.ID))
	jsonResp(w, http.StatusCreated, sn)
}

// --- helpers ----------------------------------------------------------------

// writeStoreErr maps store errors to HTTP status codes.
func writeStoreErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		jsonErr(w, http.StatusNotFound, "snippet not found")
	case errors.Is(err, store.ErrInvalidInput):
		jsonErr(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("api: store error", "err", err, "request_id", RequestID(r.Context()))
		jsonErr(w, http.StatusInternalServerError, "internal error")
	}
}

func jsonResp(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
