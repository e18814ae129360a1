package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest("GET", "/api/v1/daily-logs", 200, 20*time.Millisecond)
	m.ObserveRequest("GET", "/api/v1/daily-logs", 200, 30*time.Millisecond)
	m.ObserveRequest("POST", "/api/v1/daily-logs", 409, time.Millisecond)

	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/daily-logs", "200")); got != 2 {
		t.Errorf("requests_total GET 200 = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/api/v1/daily-logs", "409")); got != 1 {
		t.Errorf("requests_total POST 409 = %v, want 1", got)
	}
}

func TestInFlight(t *testing.T) {
	m := New()
	m.IncInFlight()
	m.IncInFlight()
	m.DecInFlight()
	if got := testutil.ToFloat64(m.httpInFlight); got != 1 {
		t.Errorf("inflight = %v, want 1", got)
	}
}

func TestReminderSentNilSafe(t *testing.T) {
	var m *Metrics
	m.ReminderSent("morning", true)

	m = New()
	m.ReminderSent("morning", true)
	m.ReminderSent("morning", false)
	if got := testutil.ToFloat64(m.remindersSent.WithLabelValues("morning", "true")); got != 1 {
		t.Errorf("reminders morning/true = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveRequest("GET", "/healthz", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"carelog_http_requests_total", "carelog_http_request_duration_seconds", "go_goroutines"} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}
