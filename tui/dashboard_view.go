package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/touchbase/viz"
)

func (m Model) renderDashboardView() string {
	var s strings.Builder

	stats := viz.GenerateDashboardStats(m.session.State().Contacts, m.session.Now(), m.upcomingLimit)
	s.WriteString(lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Render(viz.RenderDashboard(stats)))
	s.WriteString("\n")

	s.WriteString(renderHelp("Esc: Back", "q: Quit"))
	return s.String()
}

func (m Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.viewMode = ViewList
	}
	return m, nil
}
