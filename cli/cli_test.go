// ABOUTME: Tests for the CLI commands and the MCP server wiring
// ABOUTME: Runs commands against an in-memory session and an in-memory MCP client
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/touchbase/crm"
	"github.com/harperreed/touchbase/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

const (
	averyID  = "2f1c8a4e-6a53-4d0b-9d6b-1b7f6f0c2a11"
	marcusID = "6d9b2f70-2c4e-4f8a-a1de-7c3b5e9f4b22"
)

func setupSession(t *testing.T) *crm.Session {
	t.Helper()
	s, err := crm.OpenSession(context.Background(), crm.NewMemoryStore(nil), log.New(io.Discard),
		crm.WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)
	return s
}

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = orig })
	return &buf
}

func TestAddContactCommand(t *testing.T) {
	session := setupSession(t)
	out := captureOutput(t)

	err := AddContactCommand(session, []string{"--name", "Dana Reyes", "--company", "Acme", "--stage", "waiting", "--tags", "vip, ops"})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Contact created: Dana Reyes")
	assert.Contains(t, out.String(), "Stage: Waiting")
	assert.Contains(t, out.String(), "Tags: vip, ops")
	assert.Len(t, session.State().Contacts, 5)

	assert.Error(t, AddContactCommand(session, nil))
	assert.Error(t, AddContactCommand(session, []string{"--name", "X", "--stage", "Closed"}))
}

func TestListContactsCommand(t *testing.T) {
	session := setupSession(t)
	out := captureOutput(t)

	require.NoError(t, ListContactsCommand(session, nil))
	lines := bytes.Split(out.Bytes(), []byte("\n"))
	assert.Contains(t, string(lines[2]), "Priya Raman", "most recent interaction first")
	assert.Contains(t, out.String(), "4 contact(s)")

	out.Reset()
	require.NoError(t, ListContactsCommand(session, []string{"--stage", "lead"}))
	assert.Contains(t, out.String(), "Marcus Oyelaran")
	assert.NotContains(t, out.String(), "Avery Chen")
	assert.Contains(t, out.String(), "Task due yesterday")

	out.Reset()
	require.NoError(t, ListContactsCommand(session, []string{"--query", "nobody-matches"}))
	assert.Contains(t, out.String(), "No contacts found")

	assert.Error(t, ListContactsCommand(session, []string{"--stage", "Closed"}))
}

func TestShowContactCommand(t *testing.T) {
	session := setupSession(t)
	out := captureOutput(t)

	require.NoError(t, ShowContactCommand(session, []string{marcusID}))

	assert.Contains(t, out.String(), "Marcus Oyelaran")
	assert.Contains(t, out.String(), "Brightline Capital")
	assert.Contains(t, out.String(), "Email metrics snapshot")
	assert.Contains(t, out.String(), "OVERDUE")
	assert.Contains(t, out.String(), "next: Pull Q3 numbers")

	assert.ErrorIs(t, ShowContactCommand(session, []string{"missing"}), models.ErrNotFound)
	assert.Error(t, ShowContactCommand(session, nil))
}

func TestUpdateContactCommand_OnlyGivenFlags(t *testing.T) {
	session := setupSession(t)
	captureOutput(t)

	require.NoError(t, UpdateContactCommand(session, []string{"--stage", "Customer", "--company", "", averyID}))

	c, err := session.Contact(averyID)
	require.NoError(t, err)
	assert.Equal(t, models.StageCustomer, c.Stage)
	assert.Empty(t, c.Company, "an explicit empty flag clears the field")
	assert.Equal(t, "Avery Chen", c.Name)
	assert.Equal(t, []string{"partner", "warm intro", "bay area"}, c.Tags)
}

func TestDeleteContactCommand(t *testing.T) {
	session := setupSession(t)
	out := captureOutput(t)

	require.NoError(t, DeleteContactCommand(session, []string{averyID}))

	assert.Contains(t, out.String(), "Deleted Avery Chen and 2 task(s), 2 interaction(s)")
	assert.Len(t, session.State().Contacts, 3)
	assert.ErrorIs(t, DeleteContactCommand(session, []string{averyID}), models.ErrNotFound)
}

func TestTaskCommands(t *testing.T) {
	session := setupSession(t)
	out := captureOutput(t)

	require.NoError(t, AddTaskCommand(session, []string{"--contact", marcusID, "--title", "Send memo", "--due", "2024-03-18T12:00:00Z"}))
	assert.Contains(t, out.String(), "Task added: Send memo")
	assert.Contains(t, out.String(), "3 days from now")

	c, err := session.Contact(marcusID)
	require.NoError(t, err)
	require.Len(t, c.Tasks, 2)
	taskID := c.Tasks[1].ID

	out.Reset()
	require.NoError(t, ToggleTaskCommand(session, []string{"--contact", marcusID, "--task", taskID}))
	assert.Contains(t, out.String(), "Send memo is now done")

	out.Reset()
	require.NoError(t, ToggleTaskCommand(session, []string{"--contact", marcusID, "--task", taskID}))
	assert.Contains(t, out.String(), "now open")

	assert.Error(t, AddTaskCommand(session, []string{"--title", "No contact"}))
	assert.Error(t, AddTaskCommand(session, []string{"--contact", marcusID, "--title", "No due"}))
	assert.ErrorIs(t, ToggleTaskCommand(session, []string{"--contact", marcusID, "--task", "nope"}), models.ErrNotFound)
}

func TestLogInteractionCommand(t *testing.T) {
	session := setupSession(t)
	out := captureOutput(t)

	require.NoError(t, LogInteractionCommand(session, []string{"--contact", marcusID, "--type", "meeting", "--summary", "Coffee"}))

	assert.Contains(t, out.String(), "Logged Meeting")
	c, err := session.Contact(marcusID)
	require.NoError(t, err)
	assert.True(t, c.LastInteraction.Equal(models.NewTimestamp(testNow)))

	assert.Error(t, LogInteractionCommand(session, []string{"--contact", marcusID}), "summary is required")
}

func TestTasksCommand(t *testing.T) {
	session := setupSession(t)
	out := captureOutput(t)

	require.NoError(t, TasksCommand(session, 2, nil))

	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 4, "header, rule and two tasks")
	assert.Contains(t, string(lines[2]), "Email metrics snapshot")
	assert.Contains(t, string(lines[2]), "🔴")
}

func TestVizCommands(t *testing.T) {
	session := setupSession(t)
	out := captureOutput(t)

	require.NoError(t, VizDashboardCommand(session, 5, nil))
	assert.Contains(t, out.String(), "TOUCHBASE DASHBOARD")
	assert.Contains(t, out.String(), "Email metrics snapshot")

	out.Reset()
	require.NoError(t, VizPipelineCommand(session, nil))
	assert.Contains(t, out.String(), "graph")
	assert.Contains(t, out.String(), "Priya Raman")

	path := filepath.Join(t.TempDir(), "pipeline.svg")
	require.NoError(t, VizPipelineCommand(session, []string{"--output", path}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

func connectMCP(t *testing.T, session *crm.Session) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	server := NewMCPServer(session, 5, "test")
	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func TestMCPServer_ListsEverything(t *testing.T) {
	cs := connectMCP(t, setupSession(t))
	ctx := context.Background()

	tools, err := cs.ListTools(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"add_contact", "find_contacts", "update_contact", "delete_contact", "log_interaction",
		"add_task", "toggle_task", "upcoming_tasks", "get_overview", "generate_pipeline_graph",
	}, names)

	prompts, err := cs.ListPrompts(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, prompts.Prompts, 2)

	resources, err := cs.ListResources(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, resources.Resources, 2)
}

func TestMCPServer_CallTools(t *testing.T) {
	session := setupSession(t)
	cs := connectMCP(t, session)
	ctx := context.Background()

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "add_contact",
		Arguments: map[string]any{"name": "Dana Reyes", "stage": "Active", "tags": []string{"vip"}},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Len(t, session.State().Contacts, 5)

	res, err = cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "find_contacts",
		Arguments: map[string]any{"stage": "Lead"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	raw, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	var found struct {
		Contacts []struct {
			ID string `json:"id"`
		} `json:"contacts"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(raw, &found))
	require.Equal(t, 1, found.Total)
	assert.Equal(t, marcusID, found.Contacts[0].ID)

	res, err = cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "toggle_task",
		Arguments: map[string]any{"contact_id": marcusID, "task_id": "nope"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError, "unknown task is reported as a tool error")
}

func TestMCPServer_ReadResources(t *testing.T) {
	cs := connectMCP(t, setupSession(t))
	ctx := context.Background()

	res, err := cs.ReadResource(ctx, &mcp.ReadResourceParams{URI: "crm://contacts/" + averyID})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Contains(t, res.Contents[0].Text, "Avery Chen")

	res, err = cs.ReadResource(ctx, &mcp.ReadResourceParams{URI: "crm://overview"})
	require.NoError(t, err)
	assert.Contains(t, res.Contents[0].Text, "contact_count")

	prompt, err := cs.GetPrompt(ctx, &mcp.GetPromptParams{Name: "contact-summary", Arguments: map[string]string{"contact_id": marcusID}})
	require.NoError(t, err)
	require.NotEmpty(t, prompt.Messages)
}
