package report

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFiles embed.FS

const (
	IndexTemplate  = "index.html"
	ReportTemplate = "report.html"
	ErrorTemplate  = "error.html"
)

// FormPage feeds the upload form.
type FormPage struct {
	Roles    []string
	Chapters []string
	MaxMB    int64
}

// ErrorPage feeds the HTML error page.
type ErrorPage struct {
	Status  int
	Code    string
	Message string
}

// Templates parses the embedded HTML templates.
func Templates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"score":    formatScore,
		"barWidth": barWidth,
		"level":    level,
	}).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// barWidth converts a 0..5 score into a CSS percentage.
func barWidth(v float64) string {
	pct := v / 5 * 100
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return fmt.Sprintf("%.0f%%", pct)
}

func level(v, threshold float64) string {
	if v < threshold {
		return "low"
	}
	return "ok"
}
