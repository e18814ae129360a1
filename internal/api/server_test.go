package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/carelog/internal/config"
	"github.com/julianstephens/carelog/internal/metrics"
	"github.com/julianstephens/carelog/internal/models"
	"github.com/julianstephens/carelog/internal/service"
	"github.com/julianstephens/carelog/internal/storage/sqlite"
)

type testEnv struct {
	handler http.Handler
	svc     *service.Service
	token   string
}

func setupServer(t *testing.T, mutate func(*config.Config)) testEnv {
	t.Helper()
	ctx := context.Background()

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "carelog.db"))
	require.NoError(t, store.Init(ctx))
	t.Cleanup(func() { store.Close() })

	clock := func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }
	svc := service.New(store, service.WithClock(clock))

	settings, err := svc.GetSettings(ctx)
	require.NoError(t, err)
	settings.Timezone = "UTC"
	_, err = svc.UpdateSettings(ctx, settings)
	require.NoError(t, err)

	user, err := svc.CreateUser(ctx, models.UserInput{Name: "Api User", Email: "api@example.com"})
	require.NoError(t, err)

	cfg := config.Default()
	cfg.RateLimit.Enabled = false
	if mutate != nil {
		mutate(&cfg)
	}
	srv := New(svc, cfg, metrics.New())
	return testEnv{handler: srv.Handler(), svc: svc, token: user.APIToken}
}

func (e testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return e.doWithToken(t, method, path, body, e.token)
}

func (e testEnv) doWithToken(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var env struct {
		Data T              `json:"data"`
		Meta map[string]any `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env.Data
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestHealthz(t *testing.T) {
	env := setupServer(t, nil)
	rec := env.doWithToken(t, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	env := setupServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestAuthentication(t *testing.T) {
	env := setupServer(t, nil)

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"wrong token", "nope", http.StatusUnauthorized},
		{"valid token", env.token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.doWithToken(t, http.MethodGet, "/api/v1/me", nil, tt.token)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	rec := env.do(t, http.MethodGet, "/api/v1/me", nil)
	me := decode[models.User](t, rec)
	assert.Equal(t, "api@example.com", me.Email)
	assert.NotContains(t, rec.Body.String(), env.token)
}

func TestDailyLogLifecycle(t *testing.T) {
	env := setupServer(t, nil)

	rec := env.do(t, http.MethodPost, "/api/v1/daily-logs", map[string]any{"date": "2024-03-14", "mood_score": 4, "free_note": "calm day"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.DailyLog](t, rec)
	assert.Equal(t, "2024-03-14", created.Date)

	rec = env.do(t, http.MethodPost, "/api/v1/daily-logs", map[string]any{"date": "2024-03-14", "mood_score": 2})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/v1/daily-logs/2024-03-14", map[string]any{"mood_score": 5})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[models.DailyLog](t, rec)
	require.NotNil(t, updated.MoodScore)
	assert.Equal(t, 5, *updated.MoodScore)

	rec = env.do(t, http.MethodGet, "/api/v1/daily-logs?per_page=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Data []models.DailyLog `json:"data"`
		Meta map[string]any    `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Data, 1)
	assert.EqualValues(t, 1, list.Meta["total"])
	assert.EqualValues(t, 5, list.Meta["per_page"])

	rec = env.do(t, http.MethodDelete, "/api/v1/daily-logs/2024-03-14", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/daily-logs/2024-03-14", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestValidationErrorsReturnFields(t *testing.T) {
	env := setupServer(t, nil)

	rec := env.do(t, http.MethodPost, "/api/v1/daily-logs", map[string]any{"date": "2024-03-14", "mood_score": 9})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "validation failed", body.Error)
	assert.Contains(t, body.Fields, "mood_score")
}

func TestMalformedInput(t *testing.T) {
	env := setupServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/daily-logs", bytes.NewBufferString("{"))
	req.Header.Set("Authorization", "Bearer "+env.token)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/daily-logs?page=two", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSleepLogEndpoints(t *testing.T) {
	env := setupServer(t, nil)

	rec := env.do(t, http.MethodPost, "/api/v1/sleep-logs", map[string]any{
		"date": "2024-03-15", "bedtime": "23:00", "wakeup_time": "06:30", "sleep_quality": 4,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.SleepLog](t, rec)
	require.NotNil(t, created.SleepHours)
	assert.InDelta(t, 7.5, *created.SleepHours, 0.001)

	rec = env.do(t, http.MethodPost, "/api/v1/sleep-logs", map[string]any{"date": "2024-03-15", "sleep_hours": 6})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/sleep-logs/available-dates", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dates := decode[[]string](t, rec)
	assert.NotContains(t, dates, "2024-03-15")
	assert.Contains(t, dates, "2024-03-14")

	rec = env.do(t, http.MethodGet, "/api/v1/sleep-logs/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/v1/sleep-logs/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMedicationEndpoints(t *testing.T) {
	env := setupServer(t, nil)

	rec := env.do(t, http.MethodPost, "/api/v1/medications", map[string]any{
		"date": "2024-03-15",
		"medications": []map[string]any{
			{"medicine_name": "A", "timing": "morning"},
			{"medicine_name": "B", "timing": "morning"},
			{"medicine_name": "C", "timing": "as_needed"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[[]models.MedicationLog](t, rec)
	require.Len(t, created, 3)

	rec = env.do(t, http.MethodPost, "/api/v1/medications/today/take/morning", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 2, decode[map[string]any](t, rec)["updated"])

	rec = env.do(t, http.MethodPost, "/api/v1/medications/today/take/noon", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodPatch, "/api/v1/medications/"+created[2].ID+"/taken", map[string]any{"taken": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decode[models.MedicationLog](t, rec).Taken)

	rec = env.do(t, http.MethodPatch, "/api/v1/medications/"+created[2].ID+"/taken", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/medications/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[map[string]any](t, rec)
	assert.EqualValues(t, 2, stats["scheduled"])
	assert.EqualValues(t, 100, stats["rate"])

	rec = env.do(t, http.MethodGet, "/api/v1/medications/today", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	today := decode[models.DailyLog](t, rec)
	assert.Len(t, today.Medications, 3)

	rec = env.do(t, http.MethodDelete, "/api/v1/medications/"+created[0].ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/v1/medications/"+created[0].ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalyticsEndpoints(t *testing.T) {
	env := setupServer(t, nil)
	for i, mood := range []int{2, 3, 4} {
		date := time.Date(2024, 3, 13+i, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		rec := env.do(t, http.MethodPost, "/api/v1/daily-logs", map[string]any{"date": date, "mood_score": mood})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	for _, path := range []string{
		"/api/v1/analytics/statistics?period=1week",
		"/api/v1/analytics/chart",
		"/api/v1/analytics/summary?period=custom&from=2024-03-01&to=2024-03-15",
		"/api/v1/analytics/dashboard",
	} {
		rec := env.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rec.Code, "%s: %s", path, rec.Body.String())
	}

	rec := env.do(t, http.MethodGet, "/api/v1/analytics/statistics?period=1week", nil)
	result := decode[service.StatisticsResult](t, rec)
	require.NotNil(t, result.Statistics.MoodAvg)
	assert.InDelta(t, 3.0, *result.Statistics.MoodAvg, 0.001)

	rec = env.do(t, http.MethodGet, "/api/v1/analytics/statistics?period=decade", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeError(t, rec).Fields, "period")
}

func TestReportsAndAppointments(t *testing.T) {
	env := setupServer(t, nil)

	rec := env.do(t, http.MethodPost, "/api/v1/daily-logs", map[string]any{"date": "2024-03-15", "mood_score": 3})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/reports", map[string]any{"appointment_date": "2024-03-20", "period": "1week"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decode[models.Report](t, rec)

	rec = env.do(t, http.MethodPost, "/api/v1/reports", map[string]any{"appointment_date": "2024-04-20", "period": "1week"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	second := decode[models.Report](t, rec)

	rec = env.do(t, http.MethodGet, "/api/v1/reports/"+first.ID+"/next", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, second.ID, decode[models.Report](t, rec).ID)

	rec = env.do(t, http.MethodGet, "/api/v1/reports", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Report](t, rec), 2)

	rec = env.do(t, http.MethodPost, "/api/v1/appointments", map[string]any{
		"appointment_date": "2024-03-20", "doctor_name": "Dr. Sato", "report_id": first.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	appt := decode[models.Appointment](t, rec)

	rec = env.do(t, http.MethodGet, "/api/v1/appointments?scope=upcoming", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Appointment](t, rec), 1)

	rec = env.do(t, http.MethodGet, "/api/v1/appointments?scope=past", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]models.Appointment](t, rec))

	rec = env.do(t, http.MethodGet, "/api/v1/appointments?scope=soon", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/v1/appointments/"+appt.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/v1/reports/"+second.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/v1/reports/"+second.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOwnershipIsolation(t *testing.T) {
	env := setupServer(t, nil)

	other, err := env.svc.CreateUser(context.Background(), models.UserInput{Name: "Other", Email: "other@example.com"})
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/api/v1/daily-logs", map[string]any{"date": "2024-03-15", "mood_score": 3})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.doWithToken(t, http.MethodGet, "/api/v1/daily-logs/2024-03-15", nil, other.APIToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimit(t *testing.T) {
	env := setupServer(t, func(cfg *config.Config) {
		cfg.RateLimit.Enabled = true
		cfg.RateLimit.RequestsPerSecond = 0.001
		cfg.RateLimit.Burst = 2
	})

	codes := make([]int, 0, 3)
	for range 3 {
		codes = append(codes, env.doWithToken(t, http.MethodGet, "/healthz", nil, "").Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestMetricsEndpoint(t *testing.T) {
	env := setupServer(t, nil)
	env.doWithToken(t, http.MethodGet, "/healthz", nil, "")

	rec := env.doWithToken(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `carelog_http_requests_total{method="GET",path="/healthz",status="200"} 1`)
}

func TestMetricsDisabled(t *testing.T) {
	env := setupServer(t, func(cfg *config.Config) { cfg.Metrics.Enabled = false })
	rec := env.doWithToken(t, http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORS(t *testing.T) {
	env := setupServer(t, func(cfg *config.Config) { cfg.Server.CORSOrigins = []string{"http://localhost:3000"} })

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/daily-logs", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{service.ErrNotFound, http.StatusNotFound},
		{service.ErrDuplicateDailyLog, http.StatusConflict},
		{service.ErrDuplicateSleepLog, http.StatusConflict},
		{service.ErrUnauthorized, http.StatusUnauthorized},
		{io.EOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
