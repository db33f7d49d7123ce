// ABOUTME: Delete confirmation view for TUI
// ABOUTME: Removes a contact with its tasks and interactions after a confirmation dialog
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	confirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(1, 2).
			Width(60).
			Align(lipgloss.Center)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	confirmButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("9")).
				Padding(0, 2).
				MarginRight(2)

	cancelButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("8")).
				Padding(0, 2)
)

func (m Model) renderConfirmDeleteView() string {
	contact, err := m.session.Contact(m.selectedID)
	if err != nil {
		return fmt.Sprintf("Error loading contact: %v", err)
	}

	title := warningStyle.Render("⚠  DELETE CONFIRMATION  ⚠")
	message := "Are you sure you want to delete this contact?"
	entityInfo := fmt.Sprintf("\nCONTACT: %s\n%d task(s) and %d interaction(s) go with it.\n",
		contact.Name, len(contact.Tasks), len(contact.Interactions))
	warning := "\nThis action cannot be undone!"

	buttons := lipgloss.JoinHorizontal(
		lipgloss.Left,
		confirmButtonStyle.Render("Yes, Delete (y)"),
		cancelButtonStyle.Render("Cancel (n/esc)"),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		message,
		entityInfo,
		warning,
		"",
		buttons,
	)

	box := confirmBoxStyle.Render(content)

	// Center the box on screen
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
	)
}

func (m Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		contact, _ := m.session.Contact(m.selectedID)
		err := m.session.DeleteContact(context.Background(), m.selectedID)
		m.setResult("Deleted "+contact.Name, err)
		m.viewMode = ViewList
		m.selectedID = "" // Clear selection
		m.selectedRow = 0
	case "n", "N", "esc":
		// Cancel delete
		m.viewMode = ViewDetail
	}

	return m, nil
}
