// ABOUTME: Task and dashboard MCP tool handlers
// ABOUTME: Implements add_task, toggle_task, upcoming_tasks and get_overview
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/touchbase/crm"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type TaskHandlers struct {
	session       *crm.Session
	upcomingLimit int
}

// NewTaskHandlers uses upcomingLimit when a caller does not pass one.
func NewTaskHandlers(session *crm.Session, upcomingLimit int) *TaskHandlers {
	if upcomingLimit <= 0 {
		upcomingLimit = crm.DefaultUpcomingLimit
	}
	return &TaskHandlers{session: session, upcomingLimit: upcomingLimit}
}

type AddTaskInput struct {
	ContactID string `json:"contact_id" jsonschema:"Contact ID (required)"`
	Title     string `json:"title" jsonschema:"What needs doing (required)"`
	Due       string `json:"due" jsonschema:"Due date, ISO-8601 or YYYY-MM-DD (required)"`
}

func (h *TaskHandlers) AddTask(ctx context.Context, _ *mcp.CallToolRequest, input AddTaskInput) (*mcp.CallToolResult, TaskOutput, error) {
	task, err := h.session.AddTask(ctx, input.ContactID, crm.TaskInput{Title: input.Title, Due: input.Due})
	if err != nil {
		return nil, TaskOutput{}, fmt.Errorf("failed to add task: %w", err)
	}
	return nil, taskToOutput(task, h.session.Now()), nil
}

type ToggleTaskInput struct {
	ContactID string `json:"contact_id" jsonschema:"Contact ID (required)"`
	TaskID    string `json:"task_id" jsonschema:"Task ID (required)"`
}

func (h *TaskHandlers) ToggleTask(ctx context.Context, _ *mcp.CallToolRequest, input ToggleTaskInput) (*mcp.CallToolResult, TaskOutput, error) {
	task, err := h.session.ToggleTask(ctx, input.ContactID, input.TaskID)
	if err != nil {
		return nil, TaskOutput{}, fmt.Errorf("failed to toggle task: %w", err)
	}
	return nil, taskToOutput(task, h.session.Now()), nil
}

type UpcomingTasksInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of tasks"`
}

type UpcomingTasksOutput struct {
	Tasks []TaskRefOutput `json:"tasks"`
}

func (h *TaskHandlers) UpcomingTasks(_ context.Context, _ *mcp.CallToolRequest, input UpcomingTasksInput) (*mcp.CallToolResult, UpcomingTasksOutput, error) {
	return nil, UpcomingTasksOutput{Tasks: h.upcoming(input.Limit)}, nil
}

func (h *TaskHandlers) upcoming(limit int) []TaskRefOutput {
	if limit <= 0 {
		limit = h.upcomingLimit
	}
	now := h.session.Now()
	out := []TaskRefOutput{}
	for _, ref := range h.session.UpcomingTasks(limit) {
		out = append(out, taskRefToOutput(ref, now))
	}
	return out
}

type GetOverviewInput struct{}

type GetOverviewOutput struct {
	Overview      OverviewOutput  `json:"overview"`
	UpcomingTasks []TaskRefOutput `json:"upcoming_tasks"`
}

func (h *TaskHandlers) GetOverview(_ context.Context, _ *mcp.CallToolRequest, _ GetOverviewInput) (*mcp.CallToolResult, GetOverviewOutput, error) {
	return nil, GetOverviewOutput{
		Overview:      overviewToOutput(h.session.Overview()),
		UpcomingTasks: h.upcoming(0),
	}, nil
}
