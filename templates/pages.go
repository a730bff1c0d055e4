package templates

import (
	"time"

	"cybersentinel/internal/dashboard"
	"cybersentinel/internal/models"
	"cybersentinel/internal/view"
)

const IdleHint = "Enter a website URL to start analysis"

type TabLink struct {
	Name   string
	Slug   string
	Active bool
}

// DashboardPage is everything the dashboard templates read.
type DashboardPage struct {
	Phase          dashboard.Phase
	URL            string
	Error          string
	Result         *models.AnalysisResult
	Panel          view.Panel
	Tabs           []TabLink
	Band           view.Band
	Width          int
	HistoryEnabled bool
	IdleHint       string
}

func NewDashboardPage(state dashboard.State, historyEnabled bool) DashboardPage {
	page := DashboardPage{
		Phase:          state.Phase(),
		URL:            state.URL,
		Error:          state.Error,
		Result:         state.Result,
		Panel:          state.Panel(),
		HistoryEnabled: historyEnabled,
		IdleHint:       IdleHint,
	}
	for _, tab := range view.Tabs {
		page.Tabs = append(page.Tabs, TabLink{
			Name:   string(tab),
			Slug:   tab.Slug(),
			Active: tab == page.Panel.Tab,
		})
	}
	if state.Result != nil {
		page.Band = view.TrustBand(state.Result.TrustScore)
		page.Width = view.Width(state.Result.TrustScore)
	}
	return page
}

type HistoryRow struct {
	ID          string
	URL         string
	Domain      string
	TrustScore  int
	Label       string
	LabelClass  string
	Threat      string
	ThreatClass string
	AnalyzedAt  string
}

type HistoryPage struct {
	Enabled bool
	Rows    []HistoryRow
	Error   string
}

func NewHistoryPage(records []models.AnalysisRecord, enabled bool) HistoryPage {
	page := HistoryPage{Enabled: enabled}
	for _, r := range records {
		page.Rows = append(page.Rows, HistoryRow{
			ID:          r.UUID,
			URL:         r.URL,
			Domain:      r.Domain,
			TrustScore:  r.TrustScore,
			Label:       r.ReputationLabel,
			LabelClass:  view.LabelStyle(r.ReputationLabel).Classes(),
			Threat:      r.ThreatLevel,
			ThreatClass: view.RiskStyle(r.ThreatLevel).Classes(),
			AnalyzedAt:  time.Unix(r.CreatedAt, 0).UTC().Format("2006-01-02 15:04:05"),
		})
	}
	return page
}
