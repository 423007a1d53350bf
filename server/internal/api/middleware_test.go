package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	dto "github.com/prometheus/client_model/go"

	"github.com/snippr/snippr/server/internal/metrics"
	"github.com/snippr/snippr/server/internal/store"
)

func requestCount(t *testing.T, m *metrics.Metrics, method, route, code string) float64 {
	t.Helper()
	mfs, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != "snippr_http_requests_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if hasLabels(metric, map[string]string{"method": method, "route": route, "code": code}) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func hasLabels(metric *dto.Metric, want map[string]string) bool {
	got := map[string]string{}
	for _, lp := range metric.GetLabel() {
		got[lp.GetName()] = lp.GetValue()
	}
	for k, v := range want {
		if got[k] != v {
			return false
		}
	}
	return true
}

func TestStack_RecoveredPanicIsCounted(t *testing.T) {
	m := metrics.New(store.NewSeeded())
	r := chi.NewRouter()
	r.Use(stack(m)...)
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rr.Code)
	}
	if rr.Header().Get(RequestIDHeader) == "" {
		t.Error("X-Request-ID missing on recovered response")
	}
	if n := requestCount(t, m, http.MethodGet, "/boom", "500"); n != 1 {
		t.Errorf("requests_total{code=500,route=/boom}: got %v, want 1", n)
	}
}
