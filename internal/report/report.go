// Package report renders a portfolio snapshot as a markdown report, for the
// terminal or as HTML.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/ndewijer/portfolio-ledger/internal/model"
	"github.com/ndewijer/portfolio-ledger/internal/service"
)

// Report is the data behind the markdown template.
type Report struct {
	Title       string
	Source      string
	ValuedAt    time.Time
	Filter      model.Filter
	Summary     model.PortfolioSummary
	Performance model.PortfolioPerformance
	Risk        model.PortfolioRisk
	Yearly      model.YearlyReturns
	Diagnostics []model.Diagnostic
}

// New computes the views of snap selected by f.
func New(snap *model.Snapshot, f model.Filter) *Report {
	r := &Report{
		Title:       "Portfolio Report",
		Filter:      f,
		Summary:     service.Summarize(snap, f),
		Performance: service.Performance(snap, f),
		Risk:        service.Risk(snap, f),
		Yearly:      service.YearlyReturns(snap, f),
	}
	if snap != nil {
		r.Source = snap.Source
		r.ValuedAt = snap.ValuedAt
		r.Diagnostics = snap.Diagnostics()
	}
	return r
}

// FilterLabel describes the active filter, or "all accounts".
func (r *Report) FilterLabel() string {
	var parts []string
	if r.Filter.Owner != "" {
		parts = append(parts, "owner "+r.Filter.Owner)
	}
	if r.Filter.Broker != "" {
		parts = append(parts, "broker "+r.Filter.Broker)
	}
	if r.Filter.AccountType != "" {
		parts = append(parts, "account type "+r.Filter.AccountType)
	}
	if len(parts) == 0 {
		return "all accounts"
	}
	return strings.Join(parts, ", ")
}

var funcs = template.FuncMap{
	"krw":           KRW,
	"signedKRW":     SignedKRW,
	"percent":       Percent,
	"signedPercent": SignedPercent,
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("2006-01-02 15:04")
	},
	"cell": func(s string) string {
		if s == "" {
			return "-"
		}
		return strings.ReplaceAll(s, "|", `\|`)
	},
}

var reportTemplate = template.Must(template.New("report").Funcs(funcs).Parse(markdownTemplate))

// Markdown renders the report as GitHub-flavored markdown.
func (r *Report) Markdown() (string, error) {
	var b strings.Builder
	if err := reportTemplate.Execute(&b, r); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return b.String(), nil
}

// Terminal renders markdown for a terminal. style is a glamour standard
// style name such as "dark", "light" or "notty"; width wraps long lines.
func Terminal(markdown, style string, width int) (string, error) {
	if style == "" {
		style = "dark"
	}
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle(style)}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("create terminal renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

var htmlRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML renders markdown as an HTML fragment.
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := htmlRenderer.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}
