package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/touchbase/crm"
	"github.com/harperreed/touchbase/models"
)

func (m Model) renderListView() string {
	var s strings.Builder

	// Title
	s.WriteString(titleStyle.Render("TOUCHBASE"))
	s.WriteString("\n")
	s.WriteString(m.renderOverviewHeader())
	s.WriteString("\n\n")

	// Tabs
	s.WriteString(m.renderTabs())
	s.WriteString("\n")

	if m.searching || m.searchInput.Value() != "" {
		s.WriteString(m.searchInput.View())
		s.WriteString("\n")
	}
	s.WriteString("\n")

	// Table
	s.WriteString(m.renderContactsTable())
	s.WriteString("\n")

	if status := m.renderStatus(); status != "" {
		s.WriteString(status)
		s.WriteString("\n")
	}

	// Help
	s.WriteString(m.renderListHelp())

	return s.String()
}

func (m Model) renderTabs() string {
	var rendered []string
	for i, tab := range crm.StageFilters() {
		if i == m.stageIndex {
			rendered = append(rendered, tabActiveStyle.Render(tab))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) visibleContacts() []models.Contact {
	return m.session.Contacts(m.searchInput.Value(), crm.StageFilters()[m.stageIndex])
}

func (m Model) renderContactsTable() string {
	contacts := m.visibleContacts()
	if len(contacts) == 0 {
		return "No contacts match.\n"
	}

	now := m.session.Now()
	columns := []table.Column{
		{Title: "Name", Width: 22},
		{Title: "Company", Width: 20},
		{Title: "Stage", Width: 9},
		{Title: "Last touch", Width: 22},
		{Title: "Next task", Width: 28},
	}

	var rows []table.Row
	for _, c := range contacts {
		next := "-"
		if task, ok := crm.DefaultDueTask(c); ok {
			next = crm.FormatDueLabel(task.DueDate, now)
		}
		rows = append(rows, table.Row{
			c.Name,
			c.Company,
			string(c.Stage),
			crm.FormatLastInteraction(c.LastInteraction, now),
			next,
		})
	}

	height := m.height - 12
	if height < 3 {
		height = 3
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}

func (m Model) renderListHelp() string {
	return renderHelp(
		"↑/↓: Navigate",
		"Tab: Stage",
		"Enter: Details",
		"/: Search",
		"n: New contact",
		"u: Upcoming",
		"g: Dashboard",
		"q: Quit",
	)
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < len(m.visibleContacts())-1 {
			m.selectedRow++
		}
	case "tab":
		m.stageIndex = (m.stageIndex + 1) % len(crm.StageFilters())
		m.selectedRow = 0
	case "shift+tab":
		n := len(crm.StageFilters())
		m.stageIndex = (m.stageIndex + n - 1) % n
		m.selectedRow = 0
	case "enter":
		if id := m.getSelectedID(); id != "" {
			m.openDetail(id)
		}
	case "/":
		m.searching = true
		return m, m.searchInput.Focus()
	case "esc":
		m.searchInput.SetValue("")
		m.selectedRow = 0
	case "n":
		m.selectedID = ""
		m.openContactForm("")
	case "u":
		m.viewMode = ViewUpcoming
		m.upcomingRow = 0
	case "g":
		m.viewMode = ViewDashboard
	}

	return m, nil
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.selectedRow = 0
	return m, cmd
}

func (m Model) getSelectedID() string {
	contacts := m.visibleContacts()
	if m.selectedRow < len(contacts) {
		return contacts[m.selectedRow].ID
	}
	return ""
}

func (m *Model) openDetail(id string) {
	m.viewMode = ViewDetail
	m.selectedID = id
	m.selectedTask = 0
}
