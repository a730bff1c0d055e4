package view

import (
	"fmt"
	"strconv"
	"strings"

	"cybersentinel/internal/models"
)

type Tab string

const (
	TabOverview   Tab = "Overview"
	TabSecurity   Tab = "Security"
	TabDomain     Tab = "Domain"
	TabTechnical  Tab = "Technical"
	TabReputation Tab = "Reputation"
)

// DefaultTab is selected after every successful analysis.
const DefaultTab = TabOverview

// Tabs lists every panel in display order.
var Tabs = []Tab{TabOverview, TabSecurity, TabDomain, TabTechnical, TabReputation}

// ParseTab resolves a tab name case-insensitively.
func ParseTab(name string) (Tab, bool) {
	for _, t := range Tabs {
		if strings.EqualFold(string(t), strings.TrimSpace(name)) {
			return t, true
		}
	}
	return "", false
}

func (t Tab) Slug() string {
	return strings.ToLower(string(t))
}

const (
	PlaceholderOverview   = "No data available"
	PlaceholderDomain     = "Domain details unavailable."
	PlaceholderSecurity   = "Security analysis unavailable."
	PlaceholderReputation = "Reputation analysis unavailable."
	PlaceholderTechnical  = "Technical information unavailable."
)

// Field is one labelled value card.
type Field struct {
	Label string
	Value string
	Color string
}

type OverviewPanel struct {
	Domain  string
	Country string
	ISP     string
	Fields  []Field
}

type DomainPanel struct {
	Fields []Field
}

type ThreatCard struct {
	Level        string
	LevelStyle   Style
	SafeBrowsing string
	SafeColor    string
	Threats      string

	// VirusTotal summary: either counts ("3 / 94 flagged") or the bare status.
	VirusTotal      string
	VirusTotalColor string
	VirusTotalNote  string
}

type MLCard struct {
	RiskLevel       string
	RiskStyle       Style
	Prediction      string
	PredictionColor string
	Confidence      int
	Note            string
}

type SSLCard struct {
	SSL          string
	SSLIndicator string
	Issuer       string
	Expiry       string
	HSTS         string
	Headers      []string
}

type SecurityPanel struct {
	Threat *ThreatCard
	ML     *MLCard
	SSL    *SSLCard
}

type Factor struct {
	Text     string
	Positive bool
}

type ReputationPanel struct {
	Label      string
	LabelStyle Style
	// HasScore is false when the backend sent no score.
	HasScore   bool
	Score      int
	Gradient   string
	Confidence int
	Factors    []Factor
}

type TechnicalPanel struct {
	Fields   []Field
	HTTPS    string
	HTTPSDot string
}

// Panel is what the dashboard renders below the tab bar.
type Panel struct {
	Tab         Tab
	Available   bool
	Placeholder string

	Overview   *OverviewPanel
	Domain     *DomainPanel
	Security   *SecurityPanel
	Reputation *ReputationPanel
	Technical  *TechnicalPanel
}

// Select builds the panel for tab from result. Missing sections yield a placeholder panel.
func Select(tab Tab, result *models.AnalysisResult) Panel {
	if _, ok := ParseTab(string(tab)); !ok {
		tab = DefaultTab
	}
	p := Panel{Tab: tab, Placeholder: placeholderFor(tab)}
	if result == nil {
		return p
	}

	switch tab {
	case TabOverview:
		p.Overview = overviewPanel(result.BasicInfo)
		p.Available = p.Overview != nil
	case TabDomain:
		p.Domain = domainPanel(result.DomainInfo)
		p.Available = p.Domain != nil
	case TabSecurity:
		p.Security = securityPanel(result.SecurityInfo, result.MLAnalysis, result.ThreatIntelligence)
		p.Available = p.Security != nil
	case TabReputation:
		p.Reputation = reputationPanel(result.Reputation)
		p.Available = p.Reputation != nil
	case TabTechnical:
		p.Technical = technicalPanel(result.TechnicalInfo)
		p.Available = p.Technical != nil
	}
	return p
}

func placeholderFor(tab Tab) string {
	switch tab {
	case TabDomain:
		return PlaceholderDomain
	case TabSecurity:
		return PlaceholderSecurity
	case TabReputation:
		return PlaceholderReputation
	case TabTechnical:
		return PlaceholderTechnical
	default:
		return PlaceholderOverview
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func overviewPanel(b *models.BasicInfo) *OverviewPanel {
	if b == nil {
		return nil
	}
	return &OverviewPanel{
		Domain:  b.Domain,
		Country: b.Country,
		ISP:     b.ISP,
		Fields: []Field{
			{Label: "Domain", Value: orDefault(b.Domain, "N/A"), Color: "text-blue-400"},
			{Label: "IP Address", Value: orDefault(b.IPAddress, "N/A"), Color: "text-slate-300"},
			{Label: "Country", Value: orDefault(b.Country, "N/A"), Color: "text-slate-300"},
			{Label: "ISP", Value: orDefault(b.ISP, "N/A"), Color: "text-slate-300"},
			{Label: "Protocol", Value: orDefault(strings.ToUpper(b.Protocol), "N/A"), Color: TextGreen},
		},
	}
}

func domainPanel(d *models.DomainInfo) *DomainPanel {
	if d == nil {
		return nil
	}

	age := "Unknown"
	if d.DomainAgeYears != nil {
		age = strconv.FormatFloat(*d.DomainAgeYears, 'f', -1, 64)
	}

	privacy, privacyColor := "Unknown", "text-slate-400"
	if d.WhoisPrivacy != nil {
		if *d.WhoisPrivacy {
			privacy, privacyColor = "Enabled", TextGreen
		} else {
			privacy = "Disabled"
		}
	}

	return &DomainPanel{Fields: []Field{
		{Label: "Registered Domain", Value: orDefault(d.Domain, "Unknown")},
		{Label: "Registrar", Value: orDefault(d.Registrar, "Unknown")},
		{Label: "Creation Date", Value: orDefault(d.CreationDate, "Unknown")},
		{Label: "Expiration", Value: orDefault(d.ExpirationDate, "Unknown")},
		{Label: "Age (Years)", Value: age},
		{Label: "Privacy Protection", Value: privacy, Color: privacyColor},
	}}
}

func securityPanel(sec *models.SecurityInfo, ml *models.MLAnalysis, ti *models.ThreatIntelligence) *SecurityPanel {
	if sec == nil && ml == nil && ti == nil {
		return nil
	}
	p := &SecurityPanel{}

	if ti != nil {
		card := &ThreatCard{
			Level:        orDefault(ti.FinalThreatLevel, "Unknown"),
			LevelStyle:   RiskStyle(ti.FinalThreatLevel),
			SafeBrowsing: "Unknown",
			SafeColor:    StatusColor(""),
		}
		if sb := ti.SafeBrowsing; sb != nil {
			card.SafeBrowsing = orDefault(sb.Status, "Unknown")
			card.SafeColor = StatusColor(sb.Status)
			if len(sb.Threats) > 0 {
				card.Threats = strings.Join(sb.Threats, ", ")
			}
		}
		card.VirusTotal, card.VirusTotalColor, card.VirusTotalNote = virusTotalSummary(ti.VirusTotal)
		p.Threat = card
	}

	if ml != nil {
		p.ML = &MLCard{
			RiskLevel:       ml.RiskLevel,
			RiskStyle:       RiskStyle(ml.RiskLevel),
			Prediction:      ml.Prediction,
			PredictionColor: PredictionColor(ml.Prediction),
			Confidence:      Percent(ml.Confidence),
			Note:            orDefault(ml.Error, ml.Note),
		}
	}

	if sec != nil {
		hsts := "No"
		if sec.HSTS {
			hsts = "Yes"
		}
		p.SSL = &SSLCard{
			SSL:          sec.SSL,
			SSLIndicator: SSLIndicator(sec.SSL),
			Issuer:       sec.Issuer,
			Expiry:       sec.Expiry,
			HSTS:         hsts,
			Headers:      sec.Headers,
		}
	}
	return p
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func virusTotalSummary(vt *models.VirusTotalResult) (summary, color, note string) {
	if vt == nil {
		return "Unknown", StatusColor(""), ""
	}
	if vt.Status == "Checked" {
		malicious := intOrZero(vt.MaliciousCount)
		summary = fmt.Sprintf("%d / %d flagged", malicious, intOrZero(vt.TotalEngines))
		if malicious > 0 {
			note = fmt.Sprintf("%d malicious, %d suspicious", malicious, intOrZero(vt.SuspiciousCount))
		}
		return summary, TextNeutral, note
	}
	return orDefault(vt.Status, "Unknown"), StatusColor(vt.Status), orDefault(vt.Error, vt.Note)
}

func reputationPanel(r *models.ReputationInfo) *ReputationPanel {
	if r == nil {
		return nil
	}
	p := &ReputationPanel{
		Label:      orDefault(r.Label, "Unknown"),
		LabelStyle: LabelStyle(r.Label),
		Confidence: Percent(r.Confidence),
	}
	if r.Score != nil {
		p.HasScore = true
		p.Score = models.TrustScore(r)
		p.Gradient = ScoreGradient(p.Score)
	} else {
		p.Gradient = ScoreGradient(0)
	}
	for _, f := range r.RiskFactors {
		p.Factors = append(p.Factors, Factor{Text: f, Positive: FactorPositive(f, r.PositiveFactors)})
	}
	return p
}

func technicalPanel(t *models.TechnicalInfo) *TechnicalPanel {
	if t == nil {
		return nil
	}

	cdnColor := ""
	if t.CDN != "" && t.CDN != "None detected" {
		cdnColor = "text-blue-400"
	}
	hostingColor := ""
	if t.Hosting != "" && t.Hosting != "Unknown" {
		hostingColor = "text-purple-400"
	}
	https := "Disabled"
	if t.HTTPS {
		https = "Enabled"
	}

	return &TechnicalPanel{
		HTTPS:    https,
		HTTPSDot: BoolIndicator(t.HTTPS),
		Fields: []Field{
			{Label: "Server", Value: orDefault(t.Server, "Unknown")},
			{Label: "TLS Version", Value: orDefault(t.TLSVersion, "Unknown"), Color: TLSColor(t.TLSVersion)},
			{Label: "IP Address", Value: orDefault(t.IPAddress, "Unknown"), Color: "font-mono"},
			{Label: "CDN", Value: orDefault(t.CDN, "None detected"), Color: cdnColor},
			{Label: "Hosting Provider", Value: orDefault(t.Hosting, "Unknown"), Color: hostingColor},
		},
	}
}
