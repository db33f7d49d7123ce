package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/harperreed/touchbase/crm"
)

// formField describes one text input of a form.
type formField struct {
	placeholder string
	charLimit   int
}

var (
	contactFields = []formField{
		{"Name", 100},
		{"Company", 100},
		{"Job title", 100},
		{"Email", 100},
		{"Phone", 30},
		{"Location", 100},
		{"Stage (Lead, Active, Waiting, Customer)", 10},
		{"Tags (comma separated)", 200},
		{"Notes", 500},
	}

	taskFields = []formField{
		{"Title", 200},
		{"Due (YYYY-MM-DD)", 30},
	}

	interactionFields = []formField{
		{"Type (Call, Email, Meeting, Note)", 10},
		{"Date (YYYY-MM-DD, empty for now)", 30},
		{"Summary", 500},
		{"Next steps", 500},
	}
)

func (m Model) renderEditView() string {
	var s strings.Builder

	// Title
	s.WriteString(titleStyle.Render(m.formTitle()))
	s.WriteString("\n\n")

	// Form fields
	for i, input := range m.formInputs {
		if i == m.focusIndex {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		s.WriteString(input.View())
		s.WriteString("\n")
	}

	s.WriteString("\n")
	if status := m.renderStatus(); status != "" {
		s.WriteString(status)
		s.WriteString("\n")
	}

	// Help
	s.WriteString(renderHelp("Tab/↓: Next field", "Shift+Tab/↑: Previous", "Enter: Save", "Esc: Cancel"))

	return s.String()
}

func (m Model) formTitle() string {
	switch m.form {
	case FormTask:
		return "NEW TASK"
	case FormInteraction:
		return "LOG INTERACTION"
	}
	if m.editingID == "" {
		return "NEW CONTACT"
	}
	return "EDIT CONTACT"
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeForm()
		m.err = nil
		return m, nil
	case "tab", "down":
		m.focusIndex = (m.focusIndex + 1) % len(m.formInputs)
		return m, m.updateFormFocus()
	case "shift+tab", "up":
		m.focusIndex = (m.focusIndex + len(m.formInputs) - 1) % len(m.formInputs)
		return m, m.updateFormFocus()
	case "enter":
		// Validation errors keep the form open
		if err := m.saveForm(); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.closeForm()
		return m, nil
	}

	// Update current input
	var cmd tea.Cmd
	m.formInputs[m.focusIndex], cmd = m.formInputs[m.focusIndex].Update(msg)
	return m, cmd
}

func newFormInputs(fields []formField) []textinput.Model {
	inputs := make([]textinput.Model, len(fields))
	for i, f := range fields {
		inputs[i] = textinput.New()
		inputs[i].Placeholder = f.placeholder
		inputs[i].CharLimit = f.charLimit
	}
	return inputs
}

// openContactForm opens a blank contact form, or one filled from the contact with id.
func (m *Model) openContactForm(id string) {
	m.form = FormContact
	m.editingID = id
	m.formInputs = newFormInputs(contactFields)

	if id != "" {
		if contact, err := m.session.Contact(id); err == nil {
			in := crm.InputFromContact(contact)
			values := []string{in.Name, in.Company, in.JobTitle, in.Email, in.Phone, in.Location, in.Stage, in.Tags, in.Notes}
			for i, v := range values {
				m.formInputs[i].SetValue(v)
			}
		}
	}

	m.enterForm()
}

func (m *Model) openTaskForm() {
	m.form = FormTask
	m.formInputs = newFormInputs(taskFields)
	m.formInputs[1].SetValue(crm.StartOfDay(m.session.Now()).AddDate(0, 0, 1).Format("2006-01-02"))
	m.enterForm()
}

func (m *Model) openInteractionForm() {
	m.form = FormInteraction
	m.formInputs = newFormInputs(interactionFields)
	m.formInputs[0].SetValue("Call")
	m.enterForm()
}

func (m *Model) enterForm() {
	m.viewMode = ViewEdit
	m.focusIndex = 0
	m.status = ""
	m.updateFormFocus()
}

// closeForm returns to where the form was opened from.
func (m *Model) closeForm() {
	if m.selectedID == "" {
		m.viewMode = ViewList
		return
	}
	m.viewMode = ViewDetail
}

func (m *Model) updateFormFocus() tea.Cmd {
	var cmd tea.Cmd
	for i := range m.formInputs {
		if i == m.focusIndex {
			cmd = m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) value(i int) string {
	return m.formInputs[i].Value()
}

func (m *Model) saveForm() error {
	ctx := context.Background()
	switch m.form {
	case FormTask:
		task, err := m.session.AddTask(ctx, m.selectedID, crm.TaskInput{Title: m.value(0), Due: m.value(1)})
		if err != nil {
			return err
		}
		m.status = "✓ Task added: " + task.Title
	case FormInteraction:
		in, err := m.session.LogInteraction(ctx, m.selectedID, crm.InteractionInput{
			Type:      m.value(0),
			Date:      m.value(1),
			Summary:   m.value(2),
			NextSteps: m.value(3),
		})
		if err != nil {
			return err
		}
		m.status = "✓ Logged " + string(in.Type)
	default:
		return m.saveContact(ctx)
	}
	return nil
}

func (m *Model) saveContact(ctx context.Context) error {
	in := crm.ContactInput{
		Name:     m.value(0),
		Company:  m.value(1),
		JobTitle: m.value(2),
		Email:    m.value(3),
		Phone:    m.value(4),
		Location: m.value(5),
		Stage:    m.value(6),
		Tags:     m.value(7),
		Notes:    m.value(8),
	}

	if m.editingID == "" {
		contact, err := m.session.CreateContact(ctx, in)
		if err != nil {
			return err
		}
		m.status = "✓ Contact created: " + contact.Name
		m.selectedID = contact.ID
		m.selectedTask = 0
		return nil
	}

	contact, err := m.session.UpdateContact(ctx, m.editingID, in)
	if err != nil {
		return err
	}
	m.status = "✓ Contact updated: " + contact.Name
	return nil
}
