package tui

import (
	"fmt"
	"strings"

	"github.com/CosmoTheDev/artiscan/models"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FindingsModel displays the findings list with severity and tool filters.
type FindingsModel struct {
	findings []models.Finding
	tools    []models.Tool
	width    int
	height   int
	cursor   int
	offset   int
	severity models.SeverityLevel // "" (all) or one level
	tool     models.Tool          // "" (all) or one scanner
	detail   bool
}

var severityKeys = map[string]models.SeverityLevel{
	"c": models.SeverityCritical,
	"h": models.SeverityHigh,
	"m": models.SeverityMedium,
	"l": models.SeverityLow,
	"i": models.SeverityInfo,
	"0": "",
}

// NewFindingsModel creates a FindingsModel over findings, which are shown in
// the order given.
func NewFindingsModel(findings []models.Finding) FindingsModel {
	var tools []models.Tool
	seen := map[models.Tool]bool{}
	for _, f := range findings {
		if !seen[f.Tool] {
			seen[f.Tool] = true
			tools = append(tools, f.Tool)
		}
	}
	return FindingsModel{findings: findings, tools: tools}
}

func (f FindingsModel) Init() tea.Cmd { return nil }

func (f FindingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		key := msg.String()
		if sev, ok := severityKeys[key]; ok {
			f.severity = sev
			f.cursor = 0
			f.offset = 0
			return f.clampCursor(), nil
		}
		switch key {
		case "j", "down":
			f.cursor++
		case "k", "up":
			f.cursor--
		case "g", "home":
			f.cursor = 0
		case "G", "end":
			f.cursor = len(f.visible()) - 1
		case "t":
			f.tool = f.nextTool()
			f.cursor = 0
			f.offset = 0
		case "enter":
			f.detail = !f.detail
		}
	}
	return f.clampCursor(), nil
}

func (f *FindingsModel) SetSize(w, h int) {
	f.width = w
	f.height = h
}

// Selected returns the finding under the cursor.
func (f FindingsModel) Selected() (models.Finding, bool) {
	v := f.visible()
	if len(v) == 0 {
		return models.Finding{}, false
	}
	return v[f.cursor], true
}

func (f FindingsModel) visible() []models.Finding {
	if f.severity == "" && f.tool == "" {
		return f.findings
	}
	out := make([]models.Finding, 0, len(f.findings))
	for _, fd := range f.findings {
		if f.severity != "" && fd.Severity != f.severity {
			continue
		}
		if f.tool != "" && fd.Tool != f.tool {
			continue
		}
		out = append(out, fd)
	}
	return out
}

func (f FindingsModel) nextTool() models.Tool {
	if len(f.tools) == 0 {
		return ""
	}
	if f.tool == "" {
		return f.tools[0]
	}
	for i, t := range f.tools {
		if t == f.tool {
			if i+1 < len(f.tools) {
				return f.tools[i+1]
			}
			return ""
		}
	}
	return ""
}

func (f FindingsModel) pageSize() int {
	n := f.height - 10
	if f.detail {
		n -= 6
	}
	if n < 5 {
		n = 5
	}
	return n
}

func (f FindingsModel) View() string {
	visible := f.visible()
	page := f.pageSize()

	rows := ""
	for i := f.offset; i < len(visible) && i < f.offset+page; i++ {
		fd := visible[i]
		rows += f.renderRow(i, fd)
	}
	if len(f.findings) == 0 {
		rows = okStyle.Render("No findings.") + "\n"
	} else if rows == "" {
		rows = dimStyle.Render("No findings match the current filter.") + "\n"
	}

	counts := map[models.SeverityLevel]int{}
	for _, fd := range f.findings {
		counts[fd.Severity]++
	}
	filterBar := lipgloss.JoinHorizontal(lipgloss.Left,
		f.filterChip("All", "", len(f.findings), "0"),
		" ",
		f.filterChip("Critical", models.SeverityCritical, counts[models.SeverityCritical], "c"),
		" ",
		f.filterChip("High", models.SeverityHigh, counts[models.SeverityHigh], "h"),
		" ",
		f.filterChip("Medium", models.SeverityMedium, counts[models.SeverityMedium], "m"),
		" ",
		f.filterChip("Low", models.SeverityLow, counts[models.SeverityLow], "l"),
		" ",
		f.filterChip("Info", models.SeverityInfo, counts[models.SeverityInfo], "i"),
		"  ",
		keycapStyle.Render("t"),
		" ",
		dimStyle.Render("tool: "+f.toolLabel()),
	)

	parts := []string{
		panelHeaderStyle.Render(fmt.Sprintf("Findings (%d shown)", len(visible))),
		filterBar,
		"",
		dimStyle.Render("  Severity  Tool     Identifier                      Subject                   Title"),
		rows,
	}
	if fd, ok := f.Selected(); ok && f.detail {
		parts = append(parts, f.renderDetail(fd))
	}
	parts = append(parts, dimStyle.Render("j/k navigate  enter details  c/h/m/l/i severity  0 all  t tool"))

	return panelStyle.Width(max(20, f.width-2)).Render(
		lipgloss.JoinVertical(lipgloss.Left, parts...),
	)
}

func (f FindingsModel) renderRow(idx int, fd models.Finding) string {
	cursor := " "
	if idx == f.cursor {
		cursor = "▌"
	}
	line := lipgloss.JoinHorizontal(lipgloss.Left,
		lipgloss.NewStyle().Width(2).Foreground(accent).Render(cursor),
		lipgloss.NewStyle().Width(10).Render(severityStyle(fd.Severity).Render(string(fd.Severity))),
		lipgloss.NewStyle().Width(9).Foreground(slate).Render(string(fd.Tool)),
		lipgloss.NewStyle().Width(32).Foreground(ink).Render(truncate(fd.Identifier, 30)),
		lipgloss.NewStyle().Width(26).Foreground(slate).Render(truncate(fd.Subject, 24)),
		dimStyle.Render(truncate(fd.Title, 48)),
	)
	if idx == f.cursor {
		return selectedRowStyle.Width(max(20, f.width-6)).Render(line) + "\n"
	}
	return line + "\n"
}

func (f FindingsModel) renderDetail(fd models.Finding) string {
	remediation := dimStyle.Render(fd.Remediation)
	if fd.HasRemediation() {
		remediation = lipgloss.NewStyle().Foreground(bgDark).Background(orange).Padding(0, 1).Render(fd.Remediation)
	}
	return boxStyle.Width(max(20, f.width-6)).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			severityStyle(fd.Severity).Render(string(fd.Severity))+"  "+panelHeaderStyle.Render(fd.Identifier),
			dimStyle.Render("tool    ")+string(fd.Tool),
			dimStyle.Render("subject ")+fd.Subject,
			dimStyle.Render("title   ")+fd.Title,
			dimStyle.Render("fix     ")+remediation,
		),
	)
}

func (f FindingsModel) filterChip(label string, value models.SeverityLevel, count int, key string) string {
	text := fmt.Sprintf("%s %d", label, count)
	if f.severity == value {
		return activeTabStyle.Render(text)
	}
	return tabStyle.Render(text + " [" + key + "]")
}

func (f FindingsModel) toolLabel() string {
	if f.tool == "" {
		return "all"
	}
	return string(f.tool)
}

func (f FindingsModel) clampCursor() FindingsModel {
	total := len(f.visible())
	if total == 0 {
		f.cursor = 0
		f.offset = 0
		return f
	}
	if f.cursor < 0 {
		f.cursor = 0
	}
	if f.cursor >= total {
		f.cursor = total - 1
	}
	page := f.pageSize()
	if f.cursor < f.offset {
		f.offset = f.cursor
	}
	if f.cursor >= f.offset+page {
		f.offset = f.cursor - page + 1
	}
	return f
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
