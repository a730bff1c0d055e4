// Package templates holds the dashboard pages as templ components. The
// *_templ.go files are generated from the .templ sources with `templ generate`.
package templates

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/a-h/templ"
)

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.943 generate

// classes joins utility class names. Every name comes from the fixed style
// tables in internal/view, never from backend data, so templ may emit it as is.
func classes(names ...string) templ.ConstantCSSClass {
	parts := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			parts = append(parts, n)
		}
	}
	return templ.ConstantCSSClass(strings.Join(parts, " "))
}

// widthClass sizes a bar to pct percent of its track.
func widthClass(pct int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return fmt.Sprintf("w-[%d%%]", pct)
}

func tabClass(active bool) string {
	if active {
		return "border-b-2 border-cyan-400 text-cyan-400"
	}
	return "text-slate-400 hover:text-white"
}

// PrettyJSON indents raw for display. Invalid JSON is returned as is.
func PrettyJSON(raw []byte) string {
	if len(raw) == 0 {
		return "{}"
	}
	var out strings.Builder
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	enc := json.NewEncoder(&out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return string(raw)
	}
	return strings.TrimRight(out.String(), "\n")
}
