package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"drawdown-console/internal/console"
	apperrors "drawdown-console/internal/errors"
	"drawdown-console/internal/glossary"
	"drawdown-console/internal/models"
	"drawdown-console/internal/render"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4")).Padding(0, 1)
	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	tabActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Underline(true).Padding(0, 1)
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	focusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true).Width(16)
	bannerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("1")).Padding(0, 1)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	panelStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250"))
	cursorStyle    = lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("15"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8")).Padding(0, 1)

	classStyles = map[render.Class]lipgloss.Style{
		render.Neutral:          lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		render.Positive:         lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		render.StronglyPositive: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10")),
		render.Negative:         lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		render.StronglyNegative: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("9")),
	}
)

func styled(c render.Class, text string) string {
	return classStyles[c].Render(text)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.mode == modeLogin {
		return m.loginView()
	}
	if m.glossaryOpen {
		return m.glossaryView()
	}
	return m.consoleView()
}

func (m Model) loginView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Drawdown Labs"))
	b.WriteString("\n\n")
	b.WriteString("Sign in to open the analytics console.\n\n")
	b.WriteString(m.account.View() + "\n")
	b.WriteString(m.password.View() + "\n\n")
	if m.loginErr != "" {
		b.WriteString(bannerStyle.Render(m.loginErr) + "\n\n")
	}
	b.WriteString(dimStyle.Render("No account? Run `drawdown auth register` first."))
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render("enter sign in • tab switch field • esc quit"))
	return b.String()
}

func (m Model) consoleView() string {
	s := m.screen()
	var b strings.Builder

	b.WriteString(titleStyle.Render("Drawdown Labs"))
	if u := m.gate.ActiveUser(); u != nil {
		b.WriteString(" " + dimStyle.Render(u.DisplayName()))
	}
	b.WriteString("\n")
	b.WriteString(m.tabs() + "\n\n")

	if s.Err != nil {
		b.WriteString(bannerStyle.Render(apperrors.Message(s.Err)+"  (esc to dismiss)") + "\n\n")
	}

	left := m.inputsPanel(s)
	right := m.snapshotPanel(s)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panelStyle.Render(left), " ", panelStyle.Render(right)))
	b.WriteString("\n")

	if s.Kind.UsesChain() {
		b.WriteString(panelStyle.Render(m.chainPanel(s)) + "\n")
	}
	b.WriteString(panelStyle.Render(m.resultPanel(s)) + "\n")
	b.WriteString(footerStyle.Render("enter run • tab field • pgup/pgdn screen • ←/→ expiry • ctrl+g glossary • ctrl+l logout • ctrl+c quit"))
	return b.String()
}

func (m Model) tabs() string {
	parts := make([]string, 0, len(console.ScreenKinds))
	for i, k := range console.ScreenKinds {
		if i == m.active {
			parts = append(parts, tabActiveStyle.Render(k.Title()))
		} else {
			parts = append(parts, tabStyle.Render(k.Title()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) inputsPanel(s *console.Screen) string {
	var b strings.Builder
	for i, f := range m.fields() {
		if f == fieldChain {
			continue
		}
		label := labelStyle.Render(f.label())
		if i == m.focus {
			label = focusStyle.Render(f.label())
		}
		value := m.inputs[f].View()
		if f == fieldExpiry {
			value = s.Expiry
			if value == "" {
				value = dimStyle.Render(m.inputs[f].Placeholder)
			}
		}
		b.WriteString(label + value + "\n")
	}
	if s.Kind == console.ScreenHedging {
		b.WriteString(labelStyle.Render("Shares") + fmt.Sprintf("%d", s.Shares) + "\n")
	}
	if s.Busy {
		b.WriteString(dimStyle.Render("Running simulation..."))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) snapshotPanel(s *console.Screen) string {
	if s.Snapshot == nil {
		return dimStyle.Render(render.NoSnapshotText)
	}
	var b strings.Builder
	for _, l := range render.SnapshotLines(s.Snapshot) {
		b.WriteString(labelStyle.Render(l.Label) + l.Value + "\n")
	}
	if len(s.Snapshot.Expirations) > 0 {
		b.WriteString(labelStyle.Render("Listed") + strings.Join(s.Snapshot.Expirations, " "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) chainPanel(s *console.Screen) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Option Chain (Calls)") + "\n")
	if text := render.ChainPlaceholder(s.Expiry, s.Chain, models.Call); text != "" {
		b.WriteString(dimStyle.Render(text))
		return b.String()
	}
	for i, row := range render.ChainRows(s.Chain, models.Call) {
		line := fmt.Sprintf("%-12s %-12s %-10s IV %s", row.Contract, row.Volume, row.Price, row.IV)
		if i == m.chainCursor && m.focused() == fieldChain {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) resultPanel(s *console.Screen) string {
	if text := render.ResultPlaceholder(s.Result); text != "" {
		return dimStyle.Render(text)
	}

	var b strings.Builder
	for _, l := range render.Summary(s.Result) {
		b.WriteString(labelStyle.Render(l.Label) + styled(l.Class, l.Value) + "\n")
	}
	if v := s.Result.Valuation; v != nil {
		b.WriteString(dimStyle.Render(render.MispricingSentence(v)) + "\n")
	}

	if s.Result.Heatmap != nil {
		b.WriteString(heatmapView(render.Heatmap(s.Result.Heatmap)))
	} else if t := render.SeriesTable(s.Result); len(t.Rows) > 0 {
		b.WriteString(tableView(t))
	}
	return strings.TrimRight(b.String(), "\n")
}

func tableView(t render.Table) string {
	var b strings.Builder
	for _, h := range t.Headers {
		b.WriteString(headerStyle.Render(fmt.Sprintf("%-14s", h)))
	}
	b.WriteString("\n")
	for _, row := range t.Rows {
		for _, cell := range row {
			b.WriteString(fmt.Sprintf("%-14s", cell))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func heatmapView(g render.HeatmapGrid) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-10s", ""))
	for _, h := range g.Headers {
		b.WriteString(headerStyle.Render(fmt.Sprintf("%-8s", h)))
	}
	b.WriteString("\n")
	for _, row := range g.Rows {
		vol := ""
		if len(row) > 0 {
			vol = row[0].VolText
		}
		b.WriteString(dimStyle.Render(fmt.Sprintf("%-10s", vol)))
		for _, c := range row {
			b.WriteString(styled(c.Class, fmt.Sprintf("%-8s", c.Text)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) glossaryView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Financial Dictionary") + "\n\n")
	b.WriteString(m.glossaryFilter.View() + "\n\n")

	entries := glossary.Filter(m.glossaryFilter.Value())
	if len(entries) == 0 {
		b.WriteString(dimStyle.Render("No matching terms.") + "\n")
	}
	for _, e := range entries {
		b.WriteString(headerStyle.Render(e.Term) + "\n")
		b.WriteString("  " + e.Definition + "\n")
	}
	b.WriteString("\n" + footerStyle.Render("type to filter • esc back"))
	return b.String()
}
