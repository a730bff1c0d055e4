package models

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func TestTrustScore(t *testing.T) {
	tests := []struct {
		name string
		rep  *ReputationInfo
		want int
	}{
		{"no reputation", nil, 50},
		{"no score", &ReputationInfo{Label: "Trusted"}, 50},
		{"integer score", &ReputationInfo{Score: ptr(85)}, 85},
		{"zero score", &ReputationInfo{Score: ptr(0)}, 0},
		{"fractional score rounds", &ReputationInfo{Score: ptr(72.6)}, 73},
		{"clamped high", &ReputationInfo{Score: ptr(140)}, 100},
		{"clamped low", &ReputationInfo{Score: ptr(-3)}, 0},
		{"nan", &ReputationInfo{Score: ptr(math.NaN())}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrustScore(tt.rep))
		})
	}
}

func TestNewAnalysisResult(t *testing.T) {
	raw := `{"reputation":{"label":"Suspicious","confidence":0.6,"risk_factors":[]},"basic_info":null}`
	var payload AnalysisPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	r := NewAnalysisResult("example.com", &payload, json.RawMessage(raw), now)

	assert.Equal(t, StatusAnalyzed, r.Status)
	assert.Equal(t, DefaultTrustScore, r.TrustScore)
	assert.Nil(t, r.BasicInfo)
	assert.Equal(t, "Suspicious", r.ReputationLabel())
	assert.Equal(t, "", r.ThreatLevel())
	assert.Equal(t, now, r.AnalyzedAt)
	assert.JSONEq(t, raw, string(r.Raw))
}

func TestNewAnalysisResult_NilPayload(t *testing.T) {
	r := NewAnalysisResult("example.com", nil, nil, time.Now())
	assert.Equal(t, "Analyzed", r.Status)
	assert.Equal(t, 50, r.TrustScore)

	var nilResult *AnalysisResult
	assert.Equal(t, "", nilResult.ReputationLabel())
	assert.Equal(t, "", nilResult.ThreatLevel())
}

func TestDecodeOptionalFields(t *testing.T) {
	raw := `{"domain_info":{"domain":"x.com","domain_age_years":null,"whois_privacy":true},
		"threat_intelligence":{"virus_total":{"status":"Not Found","note":"URL not previously scanned"},"final_threat_level":"Low"}}`
	var payload AnalysisPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	assert.Nil(t, payload.DomainInfo.DomainAgeYears)
	require.NotNil(t, payload.DomainInfo.WhoisPrivacy)
	assert.True(t, *payload.DomainInfo.WhoisPrivacy)
	assert.Nil(t, payload.ThreatIntelligence.SafeBrowsing)
	assert.Nil(t, payload.ThreatIntelligence.VirusTotal.MaliciousCount)
	assert.Equal(t, "URL not previously scanned", payload.ThreatIntelligence.VirusTotal.Note)
}
