package routes

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"cybersentinel/internal/client"
	"cybersentinel/internal/config"
	"cybersentinel/internal/metrics"
	"cybersentinel/internal/services"
	"cybersentinel/pkg/logger"
	"cybersentinel/pkg/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, backend *testutil.FakeBackend) (*gin.Engine, *metrics.Metrics) {
	t.Helper()
	return newTestRouterWithBudget(t, backend, 100, 100)
}

func newTestRouterWithBudget(t *testing.T, backend *testutil.FakeBackend, rate float64, burst int) (*gin.Engine, *metrics.Metrics) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{APIBaseURL: backend.URL, SessionTTL: time.Hour, MaxSessions: 8, SubmitRatePerSecond: rate, SubmitBurst: burst}
	m := metrics.New()
	svc := services.NewAnalysisService(client.New(cfg.APIBaseURL),
		services.WithMetrics(m),
		services.WithLogger(logger.NewDiscardLogger()))

	return InitRouter(Deps{
		AnalysisService: svc,
		ConfigService:   services.NewConfigService(cfg),
		Metrics:         m,
		SessionTTL:      cfg.SessionTTL,
		MaxSessions:     cfg.MaxSessions,
		SubmitRate:      cfg.SubmitRatePerSecond,
		SubmitBurst:     cfg.SubmitBurst,
	}), m
}

func TestAPIAnalyze_EndToEnd(t *testing.T) {
	backend := testutil.NewFakeBackend(t, http.StatusOK, testutil.SamplePayload)
	router, _ := newTestRouter(t, backend)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"url":"example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"trustScore":85`)
	assert.Contains(t, w.Body.String(), `"status":"Analyzed"`)

	reqs := backend.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/analyze-url", reqs[0].Path)
	assert.JSONEq(t, `{"url":"example.com"}`, string(reqs[0].Body))
}

func TestAPIAnalyze_BackendDown(t *testing.T) {
	backend := testutil.NewFakeBackend(t, http.StatusInternalServerError, `{"detail":"boom"}`)
	router, _ := newTestRouter(t, backend)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"url":"example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"error":"Analysis failed. The service could not reach the backend endpoint."}`, w.Body.String())
}

func TestHistoryDisabledWithoutDatabase(t *testing.T) {
	backend := testutil.NewFakeBackend(t, http.StatusOK, testutil.SamplePayload)
	router, _ := newTestRouter(t, backend)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	backend := testutil.NewFakeBackend(t, http.StatusOK, testutil.SamplePayload)
	router, m := newTestRouter(t, backend)
	m.ObserveVerdict("Trusted")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `cybersentinel_verdicts_total{label="Trusted"} 1`)
}

func TestConfigRoute(t *testing.T) {
	backend := testutil.NewFakeBackend(t, http.StatusOK, testutil.SamplePayload)
	router, _ := newTestRouter(t, backend)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/config", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), backend.URL)
}

func TestDashboardPage(t *testing.T) {
	backend := testutil.NewFakeBackend(t, http.StatusOK, testutil.SamplePayload)
	router, _ := newTestRouter(t, backend)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CyberSentinel")
}

func TestSubmitLimit_PerSurface(t *testing.T) {
	backend := testutil.NewFakeBackend(t, http.StatusOK, testutil.SamplePayload)
	router, _ := newTestRouterWithBudget(t, backend, 0.001, 1)

	first := httptest.NewRecorder()
	router.ServeHTTP(first, formRequest("example.com", false))
	require.Equal(t, http.StatusSeeOther, first.Code)

	htmx := httptest.NewRecorder()
	router.ServeHTTP(htmx, formRequest("example.com", true))
	assert.Equal(t, http.StatusOK, htmx.Code)
	assert.Contains(t, htmx.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, htmx.Body.String(), `id="error"`)
	assert.Contains(t, htmx.Body.String(), "Too many analysis requests")

	page := httptest.NewRecorder()
	router.ServeHTTP(page, formRequest("example.com", false))
	assert.Equal(t, http.StatusTooManyRequests, page.Code)
	assert.Contains(t, page.Body.String(), "<form")

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"url":"example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	api := httptest.NewRecorder()
	router.ServeHTTP(api, req)
	assert.Equal(t, http.StatusTooManyRequests, api.Code)
	assert.JSONEq(t, `{"error":"Too many analysis requests, slow down"}`, api.Body.String())

	assert.Equal(t, 1, backend.RequestCount())
}

func formRequest(target string, htmx bool) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(url.Values{"url": {target}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	return req
}
