package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/id-contact/test-auth/internal/metrics"
)

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics scrape returned %d", rec.Code)
	}
	return rec.Body.String()
}

func TestMetrics_Counters(t *testing.T) {
	m := metrics.New()

	m.SessionsStarted.WithLabelValues("inline").Inc()
	m.ResultsDelivered.WithLabelValues("oob").Inc()
	m.DeliveryFailures.Inc()
	m.SessionUpdates.WithLabelValues("activity").Inc()

	body := scrape(t, m)

	for _, want := range []string{
		`testauth_sessions_started_total{delivery="inline"} 1`,
		`testauth_results_delivered_total{delivery="oob"} 1`,
		`testauth_delivery_failures_total 1`,
		`testauth_session_updates_total{activity="activity"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected scrape to contain %q", want)
		}
	}
}

func TestMetrics_Middleware(t *testing.T) {
	m := metrics.New()

	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected handler status to pass through, got %d", rec.Code)
	}

	body := scrape(t, m)
	if !strings.Contains(body, `testauth_http_requests_total{method="GET",status="204"} 1`) {
		t.Errorf("expected request counter with method and status labels, got:\n%s", body)
	}
}

func TestMetrics_Middleware_DefaultStatus(t *testing.T) {
	m := metrics.New()

	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok")) // implicit 200
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	body := scrape(t, m)
	if !strings.Contains(body, `testauth_http_requests_total{method="GET",status="200"} 1`) {
		t.Errorf("expected implicit 200 to be recorded, got:\n%s", body)
	}
}
