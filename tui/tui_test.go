// ABOUTME: Tests for the TUI model
// ABOUTME: Drives key messages through Update and checks state and rendered views
package tui

import (
	"context"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/harperreed/touchbase/crm"
	"github.com/harperreed/touchbase/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

const (
	averyID  = "2f1c8a4e-6a53-4d0b-9d6b-1b7f6f0c2a11"
	marcusID = "6d9b2f70-2c4e-4f8a-a1de-7c3b5e9f4b22"
	priyaID  = "9a3e7c15-5d2b-4e6f-8b0a-4c1d2e3f6c33"
)

func newTestModel(t *testing.T) (Model, *crm.Session) {
	t.Helper()
	session, err := crm.OpenSession(context.Background(), crm.NewMemoryStore(nil), log.New(io.Discard),
		crm.WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)
	return NewModel(session, 6), session
}

func key(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+e":
		return tea.KeyMsg{Type: tea.KeyCtrlE}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(Model)
	}
	return m
}

func TestListView_ShowsOverviewAndContacts(t *testing.T) {
	m, _ := newTestModel(t)

	view := m.View()

	assert.Contains(t, view, "TOUCHBASE")
	assert.Contains(t, view, "Contacts 4")
	assert.Contains(t, view, "Overdue 1")
	assert.Contains(t, view, "Priya Raman")
	assert.Contains(t, view, "Lead")
}

func TestListView_StageTabs(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "tab")
	require.Len(t, m.visibleContacts(), 1)
	assert.Equal(t, marcusID, m.visibleContacts()[0].ID)

	m = press(t, m, "shift+tab", "shift+tab")
	assert.Equal(t, len(crm.StageFilters())-1, m.stageIndex, "wraps around to Customer")
	assert.Equal(t, priyaID, m.visibleContacts()[0].ID)
}

func TestListView_Search(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "/")
	assert.True(t, m.searching)
	m = press(t, m, "q", "j")
	assert.True(t, m.searching, "typing q while searching does not quit")
	m = press(t, m, "enter")

	assert.False(t, m.searching)
	assert.Equal(t, "qj", m.searchInput.Value())
	assert.Empty(t, m.visibleContacts())

	m = press(t, m, "esc")
	assert.Len(t, m.visibleContacts(), 4)
}

func TestListView_NavigateAndOpenDetail(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "up", "down", "enter")

	assert.Equal(t, ViewDetail, m.viewMode)
	assert.Equal(t, averyID, m.selectedID, "second most recent contact")
	view := m.View()
	assert.Contains(t, view, "AVERY CHEN")
	assert.Contains(t, view, "Send revised partnership draft")
	assert.Contains(t, view, "Walked through partnership terms.")

	m = press(t, m, "esc")
	assert.Equal(t, ViewList, m.viewMode)
}

func TestDetailView_ToggleTask(t *testing.T) {
	m, session := newTestModel(t)
	m.openDetail(marcusID)
	assert.Contains(t, m.View(), "OVERDUE")

	m = press(t, m, "x")

	assert.Equal(t, 0, session.Overview().OverdueTaskCount)
	assert.Contains(t, m.View(), "Email metrics snapshot done")

	m = press(t, m, " ")
	assert.Equal(t, 1, session.Overview().OverdueTaskCount)
}

func TestContactForm_CreateAndValidate(t *testing.T) {
	m, session := newTestModel(t)

	m = press(t, m, "n")
	require.Equal(t, ViewEdit, m.viewMode)
	assert.Contains(t, m.View(), "NEW CONTACT")

	m = press(t, m, "enter")
	assert.Equal(t, ViewEdit, m.viewMode, "missing name keeps the form open")
	assert.ErrorIs(t, m.err, models.ErrValidation)

	m = press(t, m, "Dana Reyes", "tab", "Acme", "tab", "tab", "tab", "tab", "tab", "waiting", "tab", "vip, ops")
	m = press(t, m, "enter")

	require.NoError(t, m.err)
	assert.Equal(t, ViewDetail, m.viewMode)
	contact, err := session.Contact(m.selectedID)
	require.NoError(t, err)
	assert.Equal(t, "Dana Reyes", contact.Name)
	assert.Equal(t, "Acme", contact.Company)
	assert.Equal(t, models.StageWaiting, contact.Stage)
	assert.Equal(t, []string{"vip", "ops"}, contact.Tags)
	assert.Len(t, session.State().Contacts, 5)
}

func TestContactForm_Cancel(t *testing.T) {
	m, session := newTestModel(t)

	m = press(t, m, "n", "Nobody", "esc")

	assert.Equal(t, ViewList, m.viewMode)
	assert.Len(t, session.State().Contacts, 4)
}

func TestContactForm_EditKeepsOtherFields(t *testing.T) {
	m, session := newTestModel(t)
	m.openDetail(averyID)

	m = press(t, m, "e")
	require.Equal(t, "Avery Chen", m.formInputs[0].Value())
	assert.Contains(t, m.View(), "EDIT CONTACT")

	for i := 0; i < 6; i++ {
		m = press(t, m, "tab")
	}
	m = press(t, m, "ctrl+e", "ctrl+u", "Customer", "enter")

	require.NoError(t, m.err)
	assert.Equal(t, ViewDetail, m.viewMode)
	contact, err := session.Contact(averyID)
	require.NoError(t, err)
	assert.Equal(t, models.StageCustomer, contact.Stage)
	assert.Equal(t, "Northwind Labs", contact.Company)
	assert.Len(t, contact.Tasks, 2)
	assert.Len(t, contact.Interactions, 2)
}

func TestContactForm_EditKeepsTagsWithCommas(t *testing.T) {
	m, session := newTestModel(t)
	contact, err := session.Contact(averyID)
	require.NoError(t, err)
	contact.Tags = []string{"Oakland, CA", "partner"}
	_, err = session.SaveContact(context.Background(), contact)
	require.NoError(t, err)
	m.openDetail(averyID)

	m = press(t, m, "e")
	for i := 0; i < 6; i++ {
		m = press(t, m, "tab")
	}
	m = press(t, m, "ctrl+e", "ctrl+u", "Waiting", "enter")

	require.NoError(t, m.err)
	contact, err = session.Contact(averyID)
	require.NoError(t, err)
	assert.Equal(t, models.StageWaiting, contact.Stage)
	assert.Equal(t, []string{"Oakland, CA", "partner"}, contact.Tags)
}

func TestTaskForm(t *testing.T) {
	m, session := newTestModel(t)
	m.openDetail(marcusID)

	m = press(t, m, "t")
	require.Equal(t, "2024-03-16", m.formInputs[1].Value(), "due defaults to tomorrow")
	m = press(t, m, "Call back", "enter")

	require.NoError(t, m.err)
	assert.Equal(t, ViewDetail, m.viewMode)
	contact, err := session.Contact(marcusID)
	require.NoError(t, err)
	require.Len(t, contact.Tasks, 2)
	assert.Equal(t, "Call back", contact.Tasks[1].Title)
	assert.Contains(t, m.View(), "Task added: Call back")
}

func TestInteractionForm(t *testing.T) {
	m, session := newTestModel(t)
	m.openDetail(marcusID)

	m = press(t, m, "i", "tab", "tab", "Quick sync", "tab", "Send deck", "enter")

	require.NoError(t, m.err)
	contact, err := session.Contact(marcusID)
	require.NoError(t, err)
	require.Len(t, contact.Interactions, 2)
	logged := contact.Interactions[1]
	assert.Equal(t, models.InteractionCall, logged.Type)
	assert.Equal(t, "Quick sync", logged.Summary)
	assert.Equal(t, "Send deck", logged.NextSteps)
	assert.True(t, contact.LastInteraction.Equal(models.NewTimestamp(testNow)))
}

func TestInteractionForm_RequiresSummary(t *testing.T) {
	m, session := newTestModel(t)
	m.openDetail(marcusID)

	m = press(t, m, "i", "enter")

	assert.Equal(t, ViewEdit, m.viewMode)
	assert.Error(t, m.err)
	contact, err := session.Contact(marcusID)
	require.NoError(t, err)
	assert.Len(t, contact.Interactions, 1)
}

func TestDeleteConfirmation(t *testing.T) {
	m, session := newTestModel(t)
	m.openDetail(averyID)

	m = press(t, m, "d")
	require.Equal(t, ViewConfirmDelete, m.viewMode)
	assert.Contains(t, m.View(), "Avery Chen")

	m = press(t, m, "n")
	assert.Equal(t, ViewDetail, m.viewMode)
	assert.Len(t, session.State().Contacts, 4)

	m = press(t, m, "d", "y")
	assert.Equal(t, ViewList, m.viewMode)
	assert.Empty(t, m.selectedID)
	assert.Len(t, session.State().Contacts, 3)
	assert.Contains(t, m.View(), "Deleted Avery Chen")
}

func TestUpcomingView(t *testing.T) {
	m, session := newTestModel(t)

	m = press(t, m, "u")
	require.Equal(t, ViewUpcoming, m.viewMode)
	assert.Contains(t, m.View(), "Email metrics snapshot")

	m = press(t, m, "x")
	assert.Equal(t, 0, session.Overview().OverdueTaskCount)
	assert.NotEqual(t, "Email metrics snapshot", session.UpcomingTasks(6)[0].Task.Title)

	m = press(t, m, "enter")
	assert.Equal(t, ViewDetail, m.viewMode)
	assert.Equal(t, averyID, m.selectedID, "next earliest open task belongs to Avery")
}

func TestDashboardView(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "g")
	assert.Equal(t, ViewDashboard, m.viewMode)
	assert.Contains(t, m.View(), "TOUCHBASE DASHBOARD")

	m = press(t, m, "esc")
	assert.Equal(t, ViewList, m.viewMode)
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)

	m = press(t, m, "n", "q")
	assert.Equal(t, ViewEdit, m.viewMode, "q is text inside a form")
	assert.Equal(t, "q", m.formInputs[0].Value())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
}

func TestWindowSize(t *testing.T) {
	m, _ := newTestModel(t)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, 120, next.(Model).width)
	assert.Equal(t, 40, next.(Model).height)
}
