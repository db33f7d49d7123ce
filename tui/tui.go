// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Provides interactive full-screen interface for contacts, tasks and interactions
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/touchbase/crm"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewEdit
	ViewDashboard
	ViewUpcoming
	ViewConfirmDelete
)

// FormKind selects which form ViewEdit shows
type FormKind int

const (
	FormContact FormKind = iota
	FormTask
	FormInteraction
)

// Model is the main bubbletea model
type Model struct {
	session       *crm.Session
	upcomingLimit int
	viewMode      ViewMode

	// List view state
	stageIndex  int
	searchInput textinput.Model
	searching   bool
	selectedRow int

	// Detail view state
	selectedID   string
	selectedTask int

	// Edit view state
	form       FormKind
	editingID  string
	formInputs []textinput.Model
	focusIndex int

	// Upcoming view state
	upcomingRow int

	// UI state
	status string
	width  int
	height int
	err    error
}

// NewModel creates a new TUI model
func NewModel(session *crm.Session, upcomingLimit int) Model {
	search := textinput.New()
	search.Placeholder = "Search name, company, title, email or tag"
	search.Prompt = "/ "
	search.CharLimit = 100

	return Model{
		session:       session,
		upcomingLimit: upcomingLimit,
		viewMode:      ViewList,
		searchInput:   search,
		width:         80,
		height:        24,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewList:
		return m.renderListView()
	case ViewDetail:
		return m.renderDetailView()
	case ViewEdit:
		return m.renderEditView()
	case ViewDashboard:
		return m.renderDashboardView()
	case ViewUpcoming:
		return m.renderUpcomingView()
	case ViewConfirmDelete:
		return m.renderConfirmDeleteView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Text entry owns every other key
	if m.searching {
		return m.handleSearchKeys(msg)
	}
	if m.viewMode == ViewEdit {
		return m.handleEditKeys(msg)
	}

	if msg.String() == "q" {
		return m, tea.Quit
	}

	switch m.viewMode {
	case ViewList:
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewDashboard:
		return m.handleDashboardKeys(msg)
	case ViewUpcoming:
		return m.handleUpcomingKeys(msg)
	case ViewConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	}

	return m, nil
}

// setResult records the outcome of a mutation for the status line.
func (m *Model) setResult(ok string, err error) {
	m.err = err
	if err != nil {
		m.status = ""
		return
	}
	m.status = ok
}

func (m Model) renderOverviewHeader() string {
	ov := m.session.Overview()
	stats := []string{
		fmt.Sprintf("Contacts %d", ov.ContactCount),
		fmt.Sprintf("Active %d", ov.ActiveCount),
		fmt.Sprintf("Overdue %d", ov.OverdueTaskCount),
		fmt.Sprintf("Touches (7d) %d", ov.TouchesLast7Days),
		fmt.Sprintf("Upcoming %d", ov.UpcomingFollowUpCount),
	}
	var rendered []string
	for _, s := range stats {
		rendered = append(rendered, statStyle.Render(s))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderStatus() string {
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.status != "" {
		return statusStyle.Render(m.status)
	}
	return ""
}

func renderHelp(keys ...string) string {
	return helpStyle.Render(strings.Join(keys, " • "))
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	statStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)

	overdueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)
)
