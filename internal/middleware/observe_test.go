package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/crucial707/stockroom/internal/metrics"
)

func requestCount(t *testing.T, method, route, status string) float64 {
	t.Helper()
	var out dto.Metric
	if err := metrics.RequestTotal.WithLabelValues(method, route, status).Write(&out); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return out.GetCounter().GetValue()
}

func TestObserve_RouteLabels(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Observe)
	r.Get("/api/sections/{id}", ok)

	before := requestCount(t, http.MethodGet, "/api/sections/{id}", "200")
	beforeMiss := requestCount(t, http.MethodGet, unmatchedRoute, "404")

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/sections/42", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/wp-admin/setup-x91.php", nil))

	if got := requestCount(t, http.MethodGet, "/api/sections/{id}", "200"); got != before+1 {
		t.Errorf("matched route: got %v, want %v", got, before+1)
	}
	if got := requestCount(t, http.MethodGet, unmatchedRoute, "404"); got != beforeMiss+1 {
		t.Errorf("unmatched route: got %v, want %v", got, beforeMiss+1)
	}

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if strings.Contains(l.GetValue(), "wp-admin") {
					t.Fatalf("%s has a series for the raw path %q", mf.GetName(), l.GetValue())
				}
			}
		}
	}
}
