package report

import (
	"fmt"
	"strings"

	"github.com/CosmoTheDev/artiscan/models"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const (
	// NoIssuesMessage is the whole output for a clean report.
	NoIssuesMessage = "✓ No security issues found!"

	maxCellWidth = 60
)

var columns = []string{"Tool", "Severity", "Identifier", "Subject", "Title", "Remediation"}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	criticalStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
	highStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F97316"))
	mediumStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	lowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#38BDF8"))
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
)

// SeverityStyle returns the colour used for a severity level.
func SeverityStyle(s models.SeverityLevel) lipgloss.Style {
	switch s {
	case models.SeverityCritical:
		return criticalStyle
	case models.SeverityHigh:
		return highStyle
	case models.SeverityMedium:
		return mediumStyle
	case models.SeverityLow:
		return lowStyle
	default:
		return infoStyle
	}
}

// Renderer writes a human-readable report to a Sink.
type Renderer struct {
	sink  Sink
	color bool
}

// NewRenderer returns a Renderer. With color off no ANSI styling is emitted.
func NewRenderer(sink Sink, color bool) *Renderer {
	return &Renderer{sink: sink, color: color}
}

// Render writes rep. A clean report is a single line; otherwise findings are
// tabulated in report order, followed by warnings and totals. The all-clear
// line is never written when a scanner could not be evaluated.
func (r *Renderer) Render(rep *Report) {
	if rep.Clean() {
		r.sink.WriteLine(r.style(okStyle, NoIssuesMessage))
		return
	}

	if len(rep.Findings) > 0 {
		r.sink.WriteLine(r.style(headerStyle, fmt.Sprintf("=== Scan Results: %s ===", rep.Target)))
		for _, line := range strings.Split(r.table(rep.Findings), "\n") {
			r.sink.WriteLine(line)
		}
	}

	if len(rep.Warnings) > 0 {
		r.sink.WriteLine("")
		r.sink.WriteLine(r.style(warnStyle, fmt.Sprintf("⚠ %d scanner(s) could not be evaluated:", len(rep.Warnings))))
		for _, w := range rep.Warnings {
			r.sink.WriteLine(r.style(warnStyle, "  "+WarningText(w)))
		}
	}

	r.sink.WriteLine("")
	if len(rep.Findings) == 0 {
		r.sink.WriteLine(fmt.Sprintf("No findings from the scanners that ran; %d scanner(s) could not be evaluated.", len(rep.Warnings)))
		return
	}
	r.sink.WriteLine(r.totals(rep))
}

// WarningText describes why a scanner produced no result.
func WarningText(w Warning) string {
	switch w.Status {
	case models.OutcomeMissing:
		return fmt.Sprintf("%s: not installed (%s)", w.Scanner, w.Message)
	default:
		return fmt.Sprintf("%s: failed (%s)", w.Scanner, w.Message)
	}
}

func (r *Renderer) table(findings []models.Finding) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(columns...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow && r.color {
				return cellStyle.Bold(true)
			}
			return cellStyle
		})
	for _, f := range findings {
		t.Row(
			string(f.Tool),
			r.style(SeverityStyle(f.Severity), string(f.Severity)),
			truncate(f.Identifier, maxCellWidth),
			truncate(f.Subject, maxCellWidth),
			truncate(f.Title, maxCellWidth),
			truncate(f.Remediation, maxCellWidth),
		)
	}
	return t.String()
}

func (r *Renderer) totals(rep *Report) string {
	counts := rep.Counts()
	parts := make([]string, 0, len(models.Severities))
	for _, s := range models.Severities {
		if counts[s] == 0 {
			continue
		}
		parts = append(parts, r.style(SeverityStyle(s), fmt.Sprintf("%s: %d", titleCase(s), counts[s])))
	}
	return fmt.Sprintf("Totals: %d finding(s) from %d scanner(s): %s",
		len(rep.Findings), rep.Evaluated(), strings.Join(parts, "  "))
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return s.Render(text)
}

func titleCase(s models.SeverityLevel) string {
	str := strings.ToLower(string(s))
	if str == "" {
		return str
	}
	return strings.ToUpper(str[:1]) + str[1:]
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
