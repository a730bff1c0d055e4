package templates

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"cybersentinel/internal/dashboard"
	"cybersentinel/internal/models"
	"cybersentinel/internal/view"
	"cybersentinel/pkg/testutil"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func sampleResult(t *testing.T) *models.AnalysisResult {
	t.Helper()
	var payload models.AnalysisPayload
	require.NoError(t, json.Unmarshal([]byte(testutil.SamplePayload), &payload))
	return models.NewAnalysisResult("example.com", &payload, json.RawMessage(testutil.SamplePayload), time.Now())
}

func TestHome_Idle(t *testing.T) {
	html := renderString(t, Home(NewDashboardPage(dashboard.State{ActiveTab: view.DefaultTab}, false)))

	assert.Contains(t, html, IdleHint)
	assert.Contains(t, html, `data-phase="idle"`)
	assert.NotContains(t, html, `id="trust-bar"`)
}

func TestDashboard_SuccessRendersTrustBar(t *testing.T) {
	state := dashboard.State{Result: sampleResult(t), ActiveTab: view.TabOverview, URL: "example.com"}
	html := renderString(t, Dashboard(NewDashboardPage(state, false)))

	assert.Contains(t, html, `w-[85%]`)
	assert.Contains(t, html, view.DotGreen)
	assert.Contains(t, html, "Analyzed")
	assert.Contains(t, html, `data-tab="Overview"`)
	assert.Contains(t, html, "Edgecast")
	assert.NotContains(t, html, IdleHint)
}

func TestDashboard_ErrorKeepsPreviousResult(t *testing.T) {
	state := dashboard.State{
		Result:    sampleResult(t),
		Error:     "Analysis failed. The service could not reach the backend endpoint.",
		ActiveTab: view.TabOverview,
	}
	html := renderString(t, Dashboard(NewDashboardPage(state, false)))

	assert.Contains(t, html, `id="error"`)
	assert.Contains(t, html, "could not reach the backend endpoint")
	assert.Contains(t, html, `id="trust-score"`)
}

func TestTabPanel_Placeholder(t *testing.T) {
	result := sampleResult(t)
	result.TechnicalInfo = nil
	state := dashboard.State{Result: result, ActiveTab: view.TabTechnical}

	html := renderString(t, TabPanel(NewDashboardPage(state, false)))
	assert.Contains(t, html, view.PlaceholderTechnical)
	assert.Contains(t, html, `hx-get="/tab/reputation"`)
}

func TestTabPanel_ReputationFactors(t *testing.T) {
	state := dashboard.State{Result: sampleResult(t), ActiveTab: view.TabReputation}
	html := renderString(t, TabPanel(NewDashboardPage(state, false)))

	assert.Contains(t, html, "Trusted")
	assert.Contains(t, html, "factor-positive")
	assert.Contains(t, html, "Score 85/100")
}

func TestTabPanel_EscapesBackendStrings(t *testing.T) {
	result := sampleResult(t)
	result.BasicInfo.Domain = `<script>alert(1)</script>`
	html := renderString(t, TabPanel(NewDashboardPage(dashboard.State{Result: result}, false)))

	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestRawJSON(t *testing.T) {
	html := renderString(t, RawJSON([]byte(`{"a":1,"b":"<x>"}`)))
	assert.Contains(t, html, "&#34;a&#34;: 1")
	assert.Contains(t, html, "&lt;x&gt;")
}

func TestPrettyJSON(t *testing.T) {
	assert.Equal(t, "{}", PrettyJSON(nil))
	assert.Equal(t, "not json", PrettyJSON([]byte("not json")))
	assert.Equal(t, "{\n  \"a\": 1\n}", PrettyJSON([]byte(`{"a":1}`)))
}

func TestHistory(t *testing.T) {
	html := renderString(t, History(NewHistoryPage(nil, false)))
	assert.Contains(t, html, "History is disabled")

	page := NewHistoryPage([]models.AnalysisRecord{{
		UUID:            "123e4567-e89b-12d3-a456-426614174000",
		URL:             "example.com",
		TrustScore:      85,
		ReputationLabel: "Trusted",
		ThreatLevel:     "Low",
		CreatedAt:       time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC).Unix(),
	}}, true)
	html = renderString(t, History(page))
	assert.Contains(t, html, `data-id="123e4567-e89b-12d3-a456-426614174000"`)
	assert.Contains(t, html, "2026-10-17 09:00:00")
}

func TestErrorPage(t *testing.T) {
	html := renderString(t, ErrorPage(404, "Analysis record not found"))
	assert.Contains(t, html, "404")
	assert.Contains(t, html, "Analysis record not found")
}

func TestClassHelpers(t *testing.T) {
	assert.Equal(t, "a b", string(classes(" a ", "", "b")))
	assert.Equal(t, "w-[0%]", widthClass(-5))
	assert.Equal(t, "w-[100%]", widthClass(140))
	assert.Contains(t, tabClass(true), "border-cyan-400")
}

func TestHistory_KeepsUtilityClasses(t *testing.T) {
	page := NewHistoryPage([]models.AnalysisRecord{{
		UUID:            "123e4567-e89b-12d3-a456-426614174000",
		URL:             "example.com",
		ReputationLabel: "Trusted",
		ThreatLevel:     "High",
	}}, true)
	html := renderString(t, History(page))

	assert.Contains(t, html, "border-green-500/50")
	assert.Contains(t, html, "bg-red-500/20")
	assert.NotContains(t, html, "templ-css-class-safe-name")
}

func TestTabPanel_DomainWithUnknownAge(t *testing.T) {
	body := `{"domain_info": {"domain": "example.com", "domain_age_years": "Unknown"}, "security_info": "n/a"}`
	payload, err := models.DecodePayload([]byte(body))
	require.NoError(t, err)
	result := models.NewAnalysisResult("example.com", payload, json.RawMessage(body), time.Now())

	html := renderString(t, TabPanel(NewDashboardPage(dashboard.State{Result: result, ActiveTab: view.TabDomain}, false)))
	assert.Contains(t, html, "example.com")
	assert.Contains(t, html, "Unknown")

	html = renderString(t, TabPanel(NewDashboardPage(dashboard.State{Result: result, ActiveTab: view.TabSecurity}, false)))
	assert.Contains(t, html, view.PlaceholderSecurity)
}
