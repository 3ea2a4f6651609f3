// Package tui is an interactive viewer for a finished scan report.
package tui

import (
	"fmt"

	"github.com/CosmoTheDev/artiscan/internal/report"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Tab represents a TUI navigation tab.
type Tab int

const (
	TabSummary Tab = iota
	TabFindings
)

var tabNames = []string{"Summary", "Findings"}
var tabTinyNames = []string{"S", "F"}

// App is the root bubbletea model.
type App struct {
	rep       *report.Report
	width     int
	height    int
	activeTab Tab
	summary   SummaryModel
	findings  FindingsModel
}

// NewApp creates the viewer for rep. Reports with findings open on the
// findings tab.
func NewApp(rep *report.Report) *App {
	a := &App{
		rep:      rep,
		summary:  NewSummaryModel(rep),
		findings: NewFindingsModel(rep.Findings),
	}
	if len(rep.Findings) > 0 {
		a.activeTab = TabFindings
	}
	return a
}

// Run starts the bubbletea program.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.summary.Init(), a.findings.Init())
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		contentW := max(20, msg.Width-2)
		contentH := max(8, msg.Height-6)
		a.summary.SetSize(contentW, contentH)
		a.findings.SetSize(contentW, contentH)
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return a, tea.Quit
		case "1":
			a.activeTab = TabSummary
			return a, nil
		case "2":
			a.activeTab = TabFindings
			return a, nil
		case "tab", "shift+tab":
			a.activeTab = (a.activeTab + 1) % Tab(len(tabNames))
			return a, nil
		}
	}

	var cmd tea.Cmd
	switch a.activeTab {
	case TabSummary:
		var m tea.Model
		m, cmd = a.summary.Update(msg)
		a.summary = m.(SummaryModel)
	case TabFindings:
		var m tea.Model
		m, cmd = a.findings.Update(msg)
		a.findings = m.(FindingsModel)
	}
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	var content string
	switch a.activeTab {
	case TabSummary:
		content = a.summary.View()
	default:
		content = a.findings.View()
	}

	contentBox := lipgloss.NewStyle().
		Width(a.width).
		Padding(0, 1).
		MaxHeight(max(1, a.height-4)).
		Render(content)

	status := statusBarStyle.
		Width(a.width).
		Render("tab switch  1-2 jump  q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		a.renderHeader(),
		a.renderTabs(),
		contentBox,
		status,
	)
}

func (a *App) renderHeader() string {
	row := lipgloss.JoinHorizontal(lipgloss.Left,
		titleStyle.Render("artiscan"),
		"  ",
		dimStyle.Render(a.rep.Target),
		"  ",
		mutedBadgeStyle.Render(" "+tabNames[a.activeTab]+" "),
	)
	return lipgloss.NewStyle().
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(line).
		Width(a.width).
		Padding(0, 1).
		Render(row)
}

func (a *App) renderTabs() string {
	rendered := a.renderTabLabels(tabNames)
	if lipgloss.Width(rendered) > max(10, a.width-2) {
		rendered = a.renderTabLabels(tabTinyNames)
	}
	return lipgloss.NewStyle().
		Width(a.width).
		Padding(0, 1).
		Foreground(slate).
		Render(rendered)
}

func (a *App) renderTabLabels(labels []string) string {
	parts := make([]string, 0, len(labels))
	for i, name := range labels {
		label := fmt.Sprintf("%d:%s", i+1, name)
		if Tab(i) == a.activeTab {
			parts = append(parts, lipgloss.NewStyle().Bold(true).Foreground(accent).Render(label))
		} else {
			parts = append(parts, dimStyle.Render(label))
		}
		if i < len(labels)-1 {
			parts = append(parts, dimStyle.Render("  ·  "))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, parts...)
}
