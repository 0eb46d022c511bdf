// Package renderer turns valuation and risk reports into markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"math"
	"strings"
	"text/template"

	"github.com/quantfolio/quantfolio"
)

//go:embed templates/*.md
var templates embed.FS

// RenderValuation renders the valuation report to a markdown string.
func RenderValuation(r *quantfolio.ValuationReport) string {
	partials := map[string]string{
		"valuation_title": "templates/valuation_title.md",
		"valuation_lines": "templates/valuation_lines.md",
	}
	return renderTemplate("valuation", "templates/valuation.md", partials, r)
}

// RenderRisk renders the risk report to a markdown string.
func RenderRisk(r *quantfolio.RiskReport) string {
	partials := map[string]string{
		"risk_title":   "templates/risk_title.md",
		"risk_metrics": "templates/risk_metrics.md",
	}
	return renderTemplate("risk", "templates/risk.md", partials, r)
}

// funcs are the formatting helpers available to every template.
var funcs = template.FuncMap{
	"pct": func(v float64) string {
		if math.IsNaN(v) {
			return "n/a"
		}
		return fmt.Sprintf("%.2f%%", 100*v)
	},
	"num": func(v float64) string {
		if math.IsNaN(v) {
			return "n/a"
		}
		return fmt.Sprintf("%.4f", v)
	},
}

// renderTemplate renders a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
