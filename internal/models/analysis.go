package models

import (
	"encoding/json"
	"math"
	"time"
)

// StatusAnalyzed is the only status an AnalysisResult ever carries.
const StatusAnalyzed = "Analyzed"

// DefaultTrustScore is used when the backend returns no reputation score.
const DefaultTrustScore = 50

type BasicInfo struct {
	URL       string `json:"url"`
	Protocol  string `json:"protocol"`
	Domain    string `json:"domain"`
	IPAddress string `json:"ip_address"`
	Country   string `json:"country"`
	ISP       string `json:"isp"`
}

type DomainInfo struct {
	Domain         string   `json:"domain"`
	Registrar      string   `json:"registrar"`
	CreationDate   string   `json:"creation_date"`
	ExpirationDate string   `json:"expiration_date"`
	DomainAgeYears *float64 `json:"domain_age_years"`
	WhoisPrivacy   *bool    `json:"whois_privacy"`
}

type SecurityInfo struct {
	SSL     string   `json:"ssl"`
	HTTPS   bool     `json:"https"`
	Issuer  string   `json:"issuer"`
	Expiry  string   `json:"expiry"`
	HSTS    bool     `json:"hsts"`
	Headers []string `json:"headers"`
}

type MLAnalysis struct {
	RiskLevel  string  `json:"risk_level"`
	Confidence float64 `json:"confidence"`
	Prediction string  `json:"prediction"`
	Error      string  `json:"error,omitempty"`
	Note       string  `json:"note,omitempty"`
}

type ReputationInfo struct {
	Label       string   `json:"label"`
	Score       *float64 `json:"score"`
	Confidence  float64  `json:"confidence"`
	RiskFactors []string `json:"risk_factors"`
	// PositiveFactors is optional; when the backend sends it, factor polarity
	// is read from here instead of guessed from the text.
	PositiveFactors []string `json:"positive_factors,omitempty"`
}

type SafeBrowsingResult struct {
	Status  string   `json:"status"`
	Threats []string `json:"threats,omitempty"`
	Error   string   `json:"error,omitempty"`
}

type VirusTotalResult struct {
	Status          string `json:"status"`
	MaliciousCount  *int   `json:"malicious_count,omitempty"`
	SuspiciousCount *int   `json:"suspicious_count,omitempty"`
	HarmlessCount   *int   `json:"harmless_count,omitempty"`
	TotalEngines    *int   `json:"total_engines,omitempty"`
	Error           string `json:"error,omitempty"`
	Note            string `json:"note,omitempty"`
}

type ThreatIntelligence struct {
	SafeBrowsing     *SafeBrowsingResult `json:"safe_browsing"`
	VirusTotal       *VirusTotalResult   `json:"virus_total"`
	FinalThreatLevel string              `json:"final_threat_level"`
}

type TechnicalInfo struct {
	Server     string `json:"server"`
	HTTPS      bool   `json:"https"`
	TLSVersion string `json:"tls_version"`
	CDN        string `json:"cdn"`
	Hosting    string `json:"hosting"`
	IPAddress  string `json:"ip_address"`
}

// AnalysisPayload is the body returned by POST /analyze-url. Every section is optional.
type AnalysisPayload struct {
	BasicInfo          *BasicInfo          `json:"basic_info"`
	DomainInfo         *DomainInfo         `json:"domain_info"`
	SecurityInfo       *SecurityInfo       `json:"security_info"`
	MLAnalysis         *MLAnalysis         `json:"ml_analysis"`
	Reputation         *ReputationInfo     `json:"reputation"`
	ThreatIntelligence *ThreatIntelligence `json:"threat_intelligence"`
	TechnicalInfo      *TechnicalInfo      `json:"technical_info"`

	// Dropped lists the sections that were present but could not be decoded.
	Dropped []string `json:"-"`
}

// AnalysisResult is the immutable snapshot produced by one successful analysis.
type AnalysisResult struct {
	Status             string              `json:"status"`
	TrustScore         int                 `json:"trustScore"`
	URL                string              `json:"url"`
	AnalyzedAt         time.Time           `json:"analyzed_at"`
	BasicInfo          *BasicInfo          `json:"basic_info"`
	DomainInfo         *DomainInfo         `json:"domain_info"`
	SecurityInfo       *SecurityInfo       `json:"security_info"`
	MLAnalysis         *MLAnalysis         `json:"ml_analysis"`
	Reputation         *ReputationInfo     `json:"reputation"`
	ThreatIntelligence *ThreatIntelligence `json:"threat_intelligence"`
	TechnicalInfo      *TechnicalInfo      `json:"technical_info"`
	Raw                json.RawMessage     `json:"rawJson,omitempty"`
}

// NewAnalysisResult builds the snapshot for a payload. raw is kept verbatim for the raw view.
func NewAnalysisResult(url string, payload *AnalysisPayload, raw json.RawMessage, now time.Time) *AnalysisResult {
	if payload == nil {
		payload = &AnalysisPayload{}
	}
	return &AnalysisResult{
		Status:             StatusAnalyzed,
		TrustScore:         TrustScore(payload.Reputation),
		URL:                url,
		AnalyzedAt:         now,
		BasicInfo:          payload.BasicInfo,
		DomainInfo:         payload.DomainInfo,
		SecurityInfo:       payload.SecurityInfo,
		MLAnalysis:         payload.MLAnalysis,
		Reputation:         payload.Reputation,
		ThreatIntelligence: payload.ThreatIntelligence,
		TechnicalInfo:      payload.TechnicalInfo,
		Raw:                raw,
	}
}

// TrustScore derives the overall score from the reputation section, clamped to [0,100].
func TrustScore(rep *ReputationInfo) int {
	if rep == nil || rep.Score == nil || math.IsNaN(*rep.Score) {
		return DefaultTrustScore
	}
	score := int(math.Round(*rep.Score))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// ReputationLabel returns the label or "" when the section is absent.
func (r *AnalysisResult) ReputationLabel() string {
	if r == nil || r.Reputation == nil {
		return ""
	}
	return r.Reputation.Label
}

// ThreatLevel returns the final threat level or "" when the section is absent.
func (r *AnalysisResult) ThreatLevel() string {
	if r == nil || r.ThreatIntelligence == nil {
		return ""
	}
	return r.ThreatIntelligence.FinalThreatLevel
}
