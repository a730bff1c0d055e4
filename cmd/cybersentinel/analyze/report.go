package analyze

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"cybersentinel/internal/models"
	"cybersentinel/internal/view"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Document is the serialized form of a result for json and yaml output.
// The backend payload is kept as generic data so both encoders see the same keys.
type Document struct {
	Status     string      `json:"status" yaml:"status"`
	TrustScore int         `json:"trustScore" yaml:"trustScore"`
	URL        string      `json:"url" yaml:"url"`
	AnalyzedAt string      `json:"analyzed_at" yaml:"analyzed_at"`
	Payload    interface{} `json:"payload" yaml:"payload"`
}

func NewDocument(result *models.AnalysisResult) (Document, error) {
	doc := Document{
		Status:     result.Status,
		TrustScore: result.TrustScore,
		URL:        result.URL,
		AnalyzedAt: result.AnalyzedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	if len(result.Raw) > 0 {
		if err := json.Unmarshal(result.Raw, &doc.Payload); err != nil {
			return doc, fmt.Errorf("failed to decode raw payload: %w", err)
		}
	}
	return doc, nil
}

// Encode renders result in the requested format: text, json or yaml.
func Encode(result *models.AnalysisResult, format string, tab view.Tab) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "text":
		var b strings.Builder
		WriteText(&b, result, tab)
		return []byte(b.String()), nil
	case "json":
		doc, err := NewDocument(result)
		if err != nil {
			return nil, err
		}
		return json.MarshalIndent(doc, "", "  ")
	case "yaml", "yml":
		doc, err := NewDocument(result)
		if err != nil {
			return nil, err
		}
		return yaml.Marshal(doc)
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// Query extracts a gjson path from the raw backend payload.
func Query(result *models.AnalysisResult, path string) (string, error) {
	value := gjson.GetBytes(result.Raw, path)
	if !value.Exists() {
		return "", fmt.Errorf("no value at path %q", path)
	}
	return value.String(), nil
}

// WriteText prints the summary line and the panel for tab.
func WriteText(w io.Writer, result *models.AnalysisResult, tab view.Tab) {
	band := "unsafe"
	if view.TrustBand(result.TrustScore).Safe {
		band = "safe"
	}
	fmt.Fprintf(w, "%s  %s\n", result.Status, result.URL)
	fmt.Fprintf(w, "Trust Score: %d/100 (%s)\n\n", result.TrustScore, band)

	panel := view.Select(tab, result)
	fmt.Fprintf(w, "[%s]\n", panel.Tab)
	if !panel.Available {
		fmt.Fprintln(w, panel.Placeholder)
		return
	}

	switch {
	case panel.Overview != nil:
		writeFields(w, panel.Overview.Fields)
	case panel.Domain != nil:
		writeFields(w, panel.Domain.Fields)
	case panel.Technical != nil:
		fmt.Fprintf(w, "  %-18s %s\n", "HTTPS", panel.Technical.HTTPS)
		writeFields(w, panel.Technical.Fields)
	case panel.Security != nil:
		writeSecurity(w, panel.Security)
	case panel.Reputation != nil:
		writeReputation(w, panel.Reputation)
	}
}

func writeFields(w io.Writer, fields []view.Field) {
	for _, f := range fields {
		fmt.Fprintf(w, "  %-18s %s\n", f.Label, f.Value)
	}
}

func writeSecurity(w io.Writer, p *view.SecurityPanel) {
	if t := p.Threat; t != nil {
		writeFields(w, []view.Field{
			{Label: "Threat Level", Value: t.Level},
			{Label: "Safe Browsing", Value: t.SafeBrowsing},
			{Label: "VirusTotal", Value: t.VirusTotal},
		})
		if t.Threats != "" {
			fmt.Fprintf(w, "  %-18s %s\n", "Threats", t.Threats)
		}
	}
	if ml := p.ML; ml != nil {
		writeFields(w, []view.Field{
			{Label: "ML Risk", Value: ml.RiskLevel},
			{Label: "Prediction", Value: ml.Prediction},
			{Label: "Confidence", Value: fmt.Sprintf("%d%%", ml.Confidence)},
		})
	}
	if ssl := p.SSL; ssl != nil {
		writeFields(w, []view.Field{
			{Label: "SSL", Value: ssl.SSL},
			{Label: "Issuer", Value: ssl.Issuer},
			{Label: "Expiry", Value: ssl.Expiry},
			{Label: "HSTS", Value: ssl.HSTS},
			{Label: "Headers", Value: strings.Join(ssl.Headers, ", ")},
		})
	}
}

func writeReputation(w io.Writer, p *view.ReputationPanel) {
	score := "n/a"
	if p.HasScore {
		score = fmt.Sprintf("%d/100", p.Score)
	}
	writeFields(w, []view.Field{
		{Label: "Label", Value: p.Label},
		{Label: "Score", Value: score},
		{Label: "Confidence", Value: fmt.Sprintf("%d%%", p.Confidence)},
	})
	for _, f := range p.Factors {
		mark := "-"
		if f.Positive {
			mark = "+"
		}
		fmt.Fprintf(w, "  %s %s\n", mark, f.Text)
	}
}
