package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/CosmoTheDev/artiscan/internal/report"
	"github.com/CosmoTheDev/artiscan/models"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SummaryModel shows severity totals and how each scanner fared.
type SummaryModel struct {
	rep    *report.Report
	width  int
	height int
}

func NewSummaryModel(rep *report.Report) SummaryModel {
	return SummaryModel{rep: rep}
}

func (s SummaryModel) Init() tea.Cmd { return nil }

func (s SummaryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) { return s, nil }

func (s *SummaryModel) SetSize(w, h int) {
	s.width = w
	s.height = h
}

func (s SummaryModel) View() string {
	counts := s.rep.Counts()

	cardW := 16
	if s.width >= 100 {
		cardW = 18
	}
	summary := lipgloss.JoinHorizontal(lipgloss.Top,
		renderCounter("Critical", counts[models.SeverityCritical], criticalStyle, cardW),
		renderCounter("High", counts[models.SeverityHigh], highStyle, cardW),
		renderCounter("Medium", counts[models.SeverityMedium], mediumStyle, cardW),
		renderCounter("Low", counts[models.SeverityLow], lowStyle, cardW),
		renderCounter("Info", counts[models.SeverityInfo]+counts[models.SeverityUnknown], infoStyle, cardW),
	)

	rows := ""
	for _, t := range s.rep.Tools {
		line := lipgloss.JoinHorizontal(lipgloss.Left,
			lipgloss.NewStyle().Width(12).Foreground(ink).Render(t.Scanner),
			lipgloss.NewStyle().Width(14).Render(statusBadge(t.Status)),
			lipgloss.NewStyle().Width(12).Foreground(slate).Render(fmt.Sprintf("%d", t.Findings)),
			lipgloss.NewStyle().Width(10).Foreground(slate).Render(t.Duration.Round(100*time.Millisecond).String()),
		)
		rows += line + "\n"
	}
	if len(s.rep.Tools) == 0 {
		rows = dimStyle.Render("No scanners ran.") + "\n"
	}

	var warnings []string
	for _, w := range s.rep.Warnings {
		warnings = append(warnings, failStyle.Render("⚠ ")+report.WarningText(w))
	}

	verdict := okStyle.Render(report.NoIssuesMessage)
	if !s.rep.Clean() {
		verdict = dimStyle.Render(fmt.Sprintf("%d finding(s), %d of %d scanner(s) evaluated",
			len(s.rep.Findings), s.rep.Evaluated(), len(s.rep.Tools)))
	}

	body := []string{
		panelHeaderStyle.Render("Scanners"),
		dimStyle.Render("Scanner     Status        Findings    Duration"),
		rows,
		verdict,
	}
	if len(warnings) > 0 {
		body = append(body, "", strings.Join(warnings, "\n"))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Padding(0, 1).Render(summary),
		panelStyle.Width(max(20, s.width-2)).Render(
			lipgloss.JoinVertical(lipgloss.Left, body...),
		),
	)
}

func renderCounter(label string, count int, style lipgloss.Style, width int) string {
	return boxStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Center,
			style.Bold(true).Render(fmt.Sprintf("%d", count)),
			dimStyle.Render(strings.ToUpper(label)),
		),
	) + "  "
}
