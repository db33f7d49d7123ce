package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/touchbase/crm"
	"github.com/harperreed/touchbase/models"
)

var (
	fieldLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Width(16)

	fieldValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	sectionStyle = lipgloss.NewStyle().Bold(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true)
)

func (m Model) renderDetailView() string {
	var s strings.Builder

	contact, err := m.session.Contact(m.selectedID)
	if err != nil {
		s.WriteString(fmt.Sprintf("Error: %v\n", err))
		s.WriteString(renderHelp("Esc: Back"))
		return s.String()
	}

	// Title
	s.WriteString(titleStyle.Render(strings.ToUpper(contact.Name)))
	s.WriteString("\n")
	s.WriteString(m.renderContactDetail(contact))
	s.WriteString("\n")

	if status := m.renderStatus(); status != "" {
		s.WriteString(status)
		s.WriteString("\n")
	}

	// Help
	s.WriteString(m.renderDetailHelp())

	return s.String()
}

func (m Model) renderContactDetail(contact models.Contact) string {
	now := m.session.Now()
	var s strings.Builder

	s.WriteString(m.renderField("Stage", string(contact.Stage)))
	s.WriteString(m.renderField("Company", contact.Company))
	s.WriteString(m.renderField("Title", contact.JobTitle))
	s.WriteString(m.renderField("Email", contact.Email))
	s.WriteString(m.renderField("Phone", contact.Phone))
	s.WriteString(m.renderField("Location", contact.Location))
	s.WriteString(m.renderField("Tags", strings.Join(contact.Tags, ", ")))
	s.WriteString(m.renderField("Last touch", crm.FormatLastInteraction(contact.LastInteraction, now)))
	s.WriteString(m.renderField("Notes", contact.Notes))

	s.WriteString("\n")
	s.WriteString(sectionStyle.Render("TASKS"))
	s.WriteString("\n")
	tasks := crm.SortedTasks(contact)
	if len(tasks) == 0 {
		s.WriteString("  (none)\n")
	}
	for i, t := range tasks {
		cursor := "  "
		if i == m.selectedTask {
			cursor = cursorStyle.Render("> ")
		}
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s  %s", box, t.Title, crm.FormatDueLabel(t.DueDate, now))
		if crm.IsOverdue(t, now) {
			line = overdueStyle.Render(line + "  OVERDUE")
		}
		s.WriteString(cursor + line + "\n")
	}

	s.WriteString("\n")
	s.WriteString(sectionStyle.Render("TIMELINE"))
	s.WriteString("\n")
	interactions := crm.SortedInteractions(contact)
	if len(interactions) == 0 {
		s.WriteString("  (none)\n")
	}
	for _, in := range interactions {
		s.WriteString(fmt.Sprintf("  • %s  %s  %s\n",
			crm.FormatTimestamp(in.Date, "Jan 2, 2006", now.Location()), in.Type, in.Summary))
		if in.NextSteps != "" {
			s.WriteString(fmt.Sprintf("      next: %s\n", in.NextSteps))
		}
	}

	return s.String()
}

func (m Model) renderField(label, value string) string {
	if value == "" {
		value = "-"
	}
	return fmt.Sprintf("%s %s\n",
		fieldLabelStyle.Render(label+":"),
		fieldValueStyle.Render(value))
}

func (m Model) renderDetailHelp() string {
	return renderHelp(
		"Esc: Back",
		"↑/↓: Select task",
		"x: Toggle task",
		"t: New task",
		"i: Log interaction",
		"e: Edit",
		"d: Delete",
		"q: Quit",
	)
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	contact, err := m.session.Contact(m.selectedID)
	if err != nil {
		m.viewMode = ViewList
		return m, nil
	}
	tasks := crm.SortedTasks(contact)

	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
		m.status, m.err = "", nil
	case "up", "k":
		if m.selectedTask > 0 {
			m.selectedTask--
		}
	case "down", "j":
		if m.selectedTask < len(tasks)-1 {
			m.selectedTask++
		}
	case "x", " ":
		if m.selectedTask < len(tasks) {
			task, err := m.session.ToggleTask(context.Background(), contact.ID, tasks[m.selectedTask].ID)
			m.setResult(toggleMessage(task), err)
		}
	case "t":
		m.openTaskForm()
	case "i":
		m.openInteractionForm()
	case "e":
		m.openContactForm(contact.ID)
	case "d":
		m.viewMode = ViewConfirmDelete
	}

	return m, nil
}

func toggleMessage(task models.Task) string {
	if task.Completed {
		return "✓ " + task.Title + " done"
	}
	return task.Title + " reopened"
}
