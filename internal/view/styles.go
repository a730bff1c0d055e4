package view

import (
	"math"
	"strings"
)

// Style is a set of CSS utility classes for one badge or value.
type Style struct {
	Text   string
	Bg     string
	Border string
}

// Classes joins the style into a single class attribute value.
func (s Style) Classes() string {
	return strings.TrimSpace(strings.Join([]string{s.Text, s.Bg, s.Border}, " "))
}

var (
	styleRed     = Style{Text: "text-red-400", Bg: "bg-red-500/20", Border: "border-red-500/50"}
	styleYellow  = Style{Text: "text-yellow-400", Bg: "bg-yellow-500/20", Border: "border-yellow-500/50"}
	styleGreen   = Style{Text: "text-green-400", Bg: "bg-green-500/20", Border: "border-green-500/50"}
	styleNeutral = Style{Text: "text-slate-400", Bg: "bg-slate-500/20", Border: "border-slate-500/50"}
)

const (
	TextGreen   = "text-green-400"
	TextYellow  = "text-yellow-400"
	TextRed     = "text-red-400"
	TextNeutral = "text-slate-200"
	DotGreen    = "bg-green-500"
	DotRed      = "bg-red-500"
)

// RiskStyle maps an ML risk level or final threat level. Case-insensitive.
func RiskStyle(level string) Style {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "high":
		return styleRed
	case "medium":
		return styleYellow
	case "low":
		return styleGreen
	default:
		return styleNeutral
	}
}

// LabelStyle maps a reputation label. Matching is exact.
func LabelStyle(label string) Style {
	switch label {
	case "Trusted":
		return styleGreen
	case "Suspicious":
		return styleYellow
	case "Malicious":
		return styleRed
	default:
		return styleNeutral
	}
}

func PredictionColor(prediction string) string {
	if prediction == "Benign" {
		return TextGreen
	}
	return TextRed
}

// StatusColor maps Safe Browsing / VirusTotal status strings.
func StatusColor(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "safe", "checked":
		return TextGreen
	case "unsafe":
		return TextRed
	default:
		return TextYellow
	}
}

// Gradient bands for the reputation score bar.
const (
	GradientFavorable   = "from-green-500 to-emerald-400"
	GradientCaution     = "from-yellow-500 to-orange-400"
	GradientUnfavorable = "from-red-500 to-rose-400"
)

func ScoreGradient(score int) string {
	switch {
	case score >= 70:
		return GradientFavorable
	case score >= 40:
		return GradientCaution
	default:
		return GradientUnfavorable
	}
}

// SafeThreshold is the trust score above which a result gets safe styling.
const SafeThreshold = 60

// Band is the overall safe/unsafe treatment of the trust score.
type Band struct {
	Safe bool
	Text string
	Bar  string
}

func TrustBand(score int) Band {
	if score > SafeThreshold {
		return Band{Safe: true, Text: TextGreen, Bar: DotGreen}
	}
	return Band{Safe: false, Text: TextRed, Bar: DotRed}
}

func TLSColor(version string) string {
	switch {
	case strings.Contains(version, "1.3"):
		return TextGreen
	case strings.Contains(version, "1.2"):
		return TextYellow
	default:
		return TextNeutral
	}
}

func SSLIndicator(ssl string) string {
	if strings.Contains(ssl, "Valid") {
		return DotGreen
	}
	return DotRed
}

func BoolIndicator(ok bool) string {
	if ok {
		return DotGreen
	}
	return DotRed
}

// Percent renders a 0..1 fraction as a whole percentage clamped to [0,100].
func Percent(fraction float64) int {
	if math.IsNaN(fraction) {
		return 0
	}
	p := int(math.Round(fraction * 100))
	return clamp(p, 0, 100)
}

// Width clamps a score for use as a bar width percentage.
func Width(score int) int {
	return clamp(score, 0, 100)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var (
	negativeMarkers = []string{"very new", "unknown", "no ", "missing", "flagged", "suspicious", "malicious", "hidden"}
	positiveMarkers = []string{"enabled", "trusted", "benign", "years", "public", "headers", "enforced"}
)

// FactorPositive reports whether a reputation factor should be shown as favorable.
// When the backend supplies structured polarity, that list is authoritative;
// otherwise the lowercased text is matched against known markers, negative ones first.
func FactorPositive(factor string, positives []string) bool {
	if positives != nil {
		for _, p := range positives {
			if p == factor {
				return true
			}
		}
		return false
	}
	text := strings.ToLower(factor)
	for _, m := range negativeMarkers {
		if strings.Contains(text, m) {
			return false
		}
	}
	for _, m := range positiveMarkers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}
