package view

import (
	"encoding/json"
	"testing"
	"time"

	"cybersentinel/internal/models"
	"cybersentinel/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult(t *testing.T) *models.AnalysisResult {
	t.Helper()
	var payload models.AnalysisPayload
	require.NoError(t, json.Unmarshal([]byte(testutil.SamplePayload), &payload))
	return models.NewAnalysisResult("example.com", &payload, json.RawMessage(testutil.SamplePayload), time.Now())
}

func TestParseTab(t *testing.T) {
	tab, ok := ParseTab("security")
	assert.True(t, ok)
	assert.Equal(t, TabSecurity, tab)

	tab, ok = ParseTab(" Reputation ")
	assert.True(t, ok)
	assert.Equal(t, TabReputation, tab)

	_, ok = ParseTab("raw")
	assert.False(t, ok)

	assert.Equal(t, []Tab{TabOverview, TabSecurity, TabDomain, TabTechnical, TabReputation}, Tabs)
	assert.Equal(t, "technical", TabTechnical.Slug())
}

func TestSelect_NilSectionsRenderPlaceholders(t *testing.T) {
	empty := models.NewAnalysisResult("example.com", &models.AnalysisPayload{}, nil, time.Now())

	want := map[Tab]string{
		TabOverview:   PlaceholderOverview,
		TabDomain:     PlaceholderDomain,
		TabSecurity:   PlaceholderSecurity,
		TabReputation: PlaceholderReputation,
		TabTechnical:  PlaceholderTechnical,
	}

	for _, result := range []*models.AnalysisResult{nil, empty} {
		for tab, placeholder := range want {
			assert.NotPanics(t, func() {
				p := Select(tab, result)
				assert.False(t, p.Available, "tab %s", tab)
				assert.Equal(t, placeholder, p.Placeholder)
				assert.Equal(t, tab, p.Tab)
			})
		}
	}
}

func TestSelect_UnknownTabFallsBackToOverview(t *testing.T) {
	p := Select(Tab("Raw"), sampleResult(t))
	assert.Equal(t, TabOverview, p.Tab)
	assert.True(t, p.Available)
}

func TestSelect_Overview(t *testing.T) {
	p := Select(TabOverview, sampleResult(t))
	require.True(t, p.Available)
	require.NotNil(t, p.Overview)
	assert.Equal(t, "example.com", p.Overview.Domain)
	assert.Equal(t, Field{Label: "Protocol", Value: "HTTPS", Color: TextGreen}, p.Overview.Fields[4])
}

func TestSelect_OverviewBlankFieldsShowNA(t *testing.T) {
	result := models.NewAnalysisResult("x", &models.AnalysisPayload{BasicInfo: &models.BasicInfo{Domain: "x.com"}}, nil, time.Now())
	p := Select(TabOverview, result)
	require.NotNil(t, p.Overview)
	assert.Equal(t, "N/A", p.Overview.Fields[1].Value)
	assert.Equal(t, "N/A", p.Overview.Fields[4].Value)
}

func TestSelect_DomainUnknowns(t *testing.T) {
	result := models.NewAnalysisResult("x", &models.AnalysisPayload{DomainInfo: &models.DomainInfo{Domain: "x.com"}}, nil, time.Now())
	p := Select(TabDomain, result)
	require.NotNil(t, p.Domain)
	assert.Equal(t, "Unknown", p.Domain.Fields[4].Value)
	assert.Equal(t, "Unknown", p.Domain.Fields[5].Value)

	p = Select(TabDomain, sampleResult(t))
	assert.Equal(t, "30.2", p.Domain.Fields[4].Value)
	assert.Equal(t, "Disabled", p.Domain.Fields[5].Value)
}

func TestSelect_SecurityPartialSections(t *testing.T) {
	onlyML := models.NewAnalysisResult("x", &models.AnalysisPayload{
		MLAnalysis: &models.MLAnalysis{RiskLevel: "High", Confidence: 0.81, Prediction: "Malicious"},
	}, nil, time.Now())

	p := Select(TabSecurity, onlyML)
	require.True(t, p.Available)
	assert.Nil(t, p.Security.SSL)
	assert.Nil(t, p.Security.Threat)
	require.NotNil(t, p.Security.ML)
	assert.Equal(t, TextRed, p.Security.ML.RiskStyle.Text)
	assert.Equal(t, TextRed, p.Security.ML.PredictionColor)
	assert.Equal(t, 81, p.Security.ML.Confidence)
}

func TestSelect_SecurityThreatIntel(t *testing.T) {
	p := Select(TabSecurity, sampleResult(t))
	require.NotNil(t, p.Security.Threat)
	assert.Equal(t, "0 / 94 flagged", p.Security.Threat.VirusTotal)
	assert.Empty(t, p.Security.Threat.VirusTotalNote)
	assert.Equal(t, TextGreen, p.Security.Threat.SafeColor)
	assert.Equal(t, "Yes", p.Security.SSL.HSTS)
	assert.Equal(t, DotGreen, p.Security.SSL.SSLIndicator)

	five, two := 5, 2
	flagged := models.NewAnalysisResult("x", &models.AnalysisPayload{
		ThreatIntelligence: &models.ThreatIntelligence{
			SafeBrowsing:     &models.SafeBrowsingResult{Status: "Unsafe", Threats: []string{"MALWARE", "SOCIAL_ENGINEERING"}},
			VirusTotal:       &models.VirusTotalResult{Status: "Checked", MaliciousCount: &five, SuspiciousCount: &two},
			FinalThreatLevel: "High",
		},
	}, nil, time.Now())
	p = Select(TabSecurity, flagged)
	assert.Equal(t, "5 / 0 flagged", p.Security.Threat.VirusTotal)
	assert.Equal(t, "5 malicious, 2 suspicious", p.Security.Threat.VirusTotalNote)
	assert.Equal(t, "MALWARE, SOCIAL_ENGINEERING", p.Security.Threat.Threats)
	assert.Equal(t, TextRed, p.Security.Threat.LevelStyle.Text)

	noSubsections := models.NewAnalysisResult("x", &models.AnalysisPayload{
		ThreatIntelligence: &models.ThreatIntelligence{VirusTotal: &models.VirusTotalResult{Status: "Unavailable", Error: "API key not configured"}},
	}, nil, time.Now())
	p = Select(TabSecurity, noSubsections)
	assert.Equal(t, "Unknown", p.Security.Threat.SafeBrowsing)
	assert.Equal(t, "Unknown", p.Security.Threat.Level)
	assert.Equal(t, "Unavailable", p.Security.Threat.VirusTotal)
	assert.Equal(t, "API key not configured", p.Security.Threat.VirusTotalNote)
	assert.Equal(t, TextYellow, p.Security.Threat.VirusTotalColor)
}

func TestSelect_Reputation(t *testing.T) {
	p := Select(TabReputation, sampleResult(t))
	require.NotNil(t, p.Reputation)
	assert.True(t, p.Reputation.HasScore)
	assert.Equal(t, 85, p.Reputation.Score)
	assert.Equal(t, GradientFavorable, p.Reputation.Gradient)
	assert.Equal(t, 90, p.Reputation.Confidence)
	assert.Equal(t, TextGreen, p.Reputation.LabelStyle.Text)
	require.Len(t, p.Reputation.Factors, 2)
	assert.True(t, p.Reputation.Factors[0].Positive)

	labels := map[string]string{"Malicious": TextRed, "Trusted": TextGreen, "Weird": "text-slate-400"}
	for label, want := range labels {
		r := models.NewAnalysisResult("x", &models.AnalysisPayload{Reputation: &models.ReputationInfo{Label: label}}, nil, time.Now())
		p := Select(TabReputation, r)
		assert.Equal(t, want, p.Reputation.LabelStyle.Text, "label %s", label)
		assert.False(t, p.Reputation.HasScore)
		assert.Empty(t, p.Reputation.Factors)
	}
}

func TestSelect_Technical(t *testing.T) {
	p := Select(TabTechnical, sampleResult(t))
	require.NotNil(t, p.Technical)
	assert.Equal(t, "Enabled", p.Technical.HTTPS)
	assert.Equal(t, TextGreen, p.Technical.Fields[1].Color)

	bare := models.NewAnalysisResult("x", &models.AnalysisPayload{TechnicalInfo: &models.TechnicalInfo{}}, nil, time.Now())
	p = Select(TabTechnical, bare)
	assert.Equal(t, "Disabled", p.Technical.HTTPS)
	assert.Equal(t, "None detected", p.Technical.Fields[3].Value)
	assert.Empty(t, p.Technical.Fields[3].Color)
	assert.Equal(t, "Unknown", p.Technical.Fields[4].Value)
	assert.Empty(t, p.Technical.Fields[4].Color)
}
