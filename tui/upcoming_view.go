// ABOUTME: TUI view for follow-up tracking
// ABOUTME: Lists the next open tasks across every contact, earliest due first
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/harperreed/touchbase/crm"
)

func (m Model) renderUpcomingView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("UPCOMING FOLLOW-UPS"))
	s.WriteString("\n")
	s.WriteString(m.renderUpcomingTable())
	s.WriteString("\n")

	if status := m.renderStatus(); status != "" {
		s.WriteString(status)
		s.WriteString("\n")
	}

	s.WriteString(renderHelp("↑/↓: Navigate", "Enter: Open contact", "x: Toggle task", "Esc: Back", "q: Quit"))
	return s.String()
}

func (m Model) renderUpcomingTable() string {
	refs := m.session.UpcomingTasks(m.upcomingLimit)
	if len(refs) == 0 {
		return "Nothing due. 🎉\n"
	}

	now := m.session.Now()
	columns := []table.Column{
		{Title: "Status", Width: 6},
		{Title: "Task", Width: 30},
		{Title: "Contact", Width: 22},
		{Title: "Stage", Width: 9},
		{Title: "Due", Width: 20},
	}

	var rows []table.Row
	for _, ref := range refs {
		indicator := "🟢"
		if crm.IsOverdue(ref.Task, now) {
			indicator = "🔴"
		}

		rows = append(rows, table.Row{
			indicator,
			ref.Task.Title,
			ref.ContactName,
			string(ref.Stage),
			crm.FormatDueDistance(ref.Task.DueDate, now),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(len(rows)+1),
	)

	if m.upcomingRow < len(rows) {
		t.SetCursor(m.upcomingRow)
	}

	return t.View()
}

func (m Model) handleUpcomingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	refs := m.session.UpcomingTasks(m.upcomingLimit)

	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
		m.status, m.err = "", nil
	case "up", "k":
		if m.upcomingRow > 0 {
			m.upcomingRow--
		}
	case "down", "j":
		if m.upcomingRow < len(refs)-1 {
			m.upcomingRow++
		}
	case "enter":
		if m.upcomingRow < len(refs) {
			m.openDetail(refs[m.upcomingRow].ContactID)
		}
	case "x", " ":
		if m.upcomingRow < len(refs) {
			ref := refs[m.upcomingRow]
			task, err := m.session.ToggleTask(context.Background(), ref.ContactID, ref.Task.ID)
			m.setResult(toggleMessage(task), err)
			if m.upcomingRow >= len(refs)-1 && m.upcomingRow > 0 {
				m.upcomingRow--
			}
		}
	}

	return m, nil
}
