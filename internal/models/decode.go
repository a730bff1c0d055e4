package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Payload section keys as sent by the backend.
const (
	SectionBasicInfo          = "basic_info"
	SectionDomainInfo         = "domain_info"
	SectionSecurityInfo       = "security_info"
	SectionMLAnalysis         = "ml_analysis"
	SectionReputation         = "reputation"
	SectionThreatIntelligence = "threat_intelligence"
	SectionTechnicalInfo      = "technical_info"
)

// DecodePayload decodes a backend body one section at a time. A section that
// fails to decode is left nil and its key is listed in Dropped, so one bad
// field only costs its own panel. The body itself must be a JSON object.
func DecodePayload(raw []byte) (*AnalysisPayload, error) {
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(raw, &sections); err != nil {
		return nil, err
	}

	p := &AnalysisPayload{}
	p.BasicInfo = section[BasicInfo](sections, SectionBasicInfo, &p.Dropped)
	p.DomainInfo = section[DomainInfo](sections, SectionDomainInfo, &p.Dropped)
	p.SecurityInfo = section[SecurityInfo](sections, SectionSecurityInfo, &p.Dropped)
	p.MLAnalysis = section[MLAnalysis](sections, SectionMLAnalysis, &p.Dropped)
	p.Reputation = section[ReputationInfo](sections, SectionReputation, &p.Dropped)
	p.ThreatIntelligence = section[ThreatIntelligence](sections, SectionThreatIntelligence, &p.Dropped)
	p.TechnicalInfo = section[TechnicalInfo](sections, SectionTechnicalInfo, &p.Dropped)
	return p, nil
}

func section[T any](sections map[string]json.RawMessage, key string, dropped *[]string) *T {
	raw, ok := sections[key]
	if !ok || isNull(raw) {
		return nil
	}
	v := new(T)
	if err := json.Unmarshal(raw, v); err != nil {
		if dropped != nil {
			*dropped = append(*dropped, key)
		}
		return nil
	}
	return v
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// number reads a value that should be numeric but may arrive as a string.
// "Unknown", null and anything else unparsable give nil.
func number(raw json.RawMessage) *float64 {
	if isNull(raw) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return &f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func count(raw json.RawMessage) *int {
	f := number(raw)
	if f == nil {
		return nil
	}
	n := int(math.Round(*f))
	return &n
}

// flag accepts true/false or their string forms; anything else is unknown.
func flag(raw json.RawMessage) *bool {
	if isNull(raw) {
		return nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return &b
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &b
}

func orZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func (d *DomainInfo) UnmarshalJSON(b []byte) error {
	type plain DomainInfo
	aux := struct {
		*plain
		DomainAgeYears json.RawMessage `json:"domain_age_years"`
		WhoisPrivacy   json.RawMessage `json:"whois_privacy"`
	}{plain: (*plain)(d)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	d.DomainAgeYears = number(aux.DomainAgeYears)
	d.WhoisPrivacy = flag(aux.WhoisPrivacy)
	return nil
}

func (m *MLAnalysis) UnmarshalJSON(b []byte) error {
	type plain MLAnalysis
	aux := struct {
		*plain
		Confidence json.RawMessage `json:"confidence"`
	}{plain: (*plain)(m)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	m.Confidence = orZero(number(aux.Confidence))
	return nil
}

func (r *ReputationInfo) UnmarshalJSON(b []byte) error {
	type plain ReputationInfo
	aux := struct {
		*plain
		Score      json.RawMessage `json:"score"`
		Confidence json.RawMessage `json:"confidence"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	r.Score = number(aux.Score)
	r.Confidence = orZero(number(aux.Confidence))
	return nil
}

func (v *VirusTotalResult) UnmarshalJSON(b []byte) error {
	type plain VirusTotalResult
	aux := struct {
		*plain
		MaliciousCount  json.RawMessage `json:"malicious_count"`
		SuspiciousCount json.RawMessage `json:"suspicious_count"`
		HarmlessCount   json.RawMessage `json:"harmless_count"`
		TotalEngines    json.RawMessage `json:"total_engines"`
	}{plain: (*plain)(v)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	v.MaliciousCount = count(aux.MaliciousCount)
	v.SuspiciousCount = count(aux.SuspiciousCount)
	v.HarmlessCount = count(aux.HarmlessCount)
	v.TotalEngines = count(aux.TotalEngines)
	return nil
}

// UnmarshalJSON keeps Safe Browsing and VirusTotal independent of each other.
func (t *ThreatIntelligence) UnmarshalJSON(b []byte) error {
	var parts map[string]json.RawMessage
	if err := json.Unmarshal(b, &parts); err != nil {
		return err
	}
	t.SafeBrowsing = section[SafeBrowsingResult](parts, "safe_browsing", nil)
	t.VirusTotal = section[VirusTotalResult](parts, "virus_total", nil)
	if level, ok := parts["final_threat_level"]; ok {
		var s string
		if json.Unmarshal(level, &s) == nil {
			t.FinalThreatLevel = s
		}
	}
	return nil
}
