// ABOUTME: Output shapes returned by MCP tools and resources
// ABOUTME: Timestamps are flattened to their stored strings so schemas stay simple
package handlers

import (
	"time"

	"github.com/harperreed/touchbase/crm"
	"github.com/harperreed/touchbase/models"
)

type TaskOutput struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	DueDate   string `json:"due_date"`
	Completed bool   `json:"completed"`
	Overdue   bool   `json:"overdue"`
}

type InteractionOutput struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Type      string `json:"type"`
	Summary   string `json:"summary"`
	NextSteps string `json:"next_steps,omitempty"`
}

type ContactOutput struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Company         string              `json:"company,omitempty"`
	JobTitle        string              `json:"job_title,omitempty"`
	Email           string              `json:"email,omitempty"`
	Phone           string              `json:"phone,omitempty"`
	Location        string              `json:"location,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	Tags            []string            `json:"tags"`
	Stage           string              `json:"stage"`
	CreatedAt       string              `json:"created_at"`
	LastInteraction string              `json:"last_interaction"`
	Tasks           []TaskOutput        `json:"tasks"`
	Interactions    []InteractionOutput `json:"interactions"`
}

type TaskRefOutput struct {
	ContactID   string `json:"contact_id"`
	ContactName string `json:"contact_name"`
	Stage       string `json:"stage"`
	TaskID      string `json:"task_id"`
	Title       string `json:"title"`
	DueDate     string `json:"due_date"`
	Due         string `json:"due"`
	Overdue     bool   `json:"overdue"`
}

type OverviewOutput struct {
	ContactCount          int            `json:"contact_count"`
	ActiveCount           int            `json:"active_count"`
	OverdueTaskCount      int            `json:"overdue_task_count"`
	TouchesLast7Days      int            `json:"touches_last_7_days"`
	UpcomingFollowUpCount int            `json:"upcoming_follow_up_count"`
	StageCounts           map[string]int `json:"stage_counts"`
}

func taskToOutput(t models.Task, now time.Time) TaskOutput {
	return TaskOutput{
		ID:        t.ID,
		Title:     t.Title,
		DueDate:   t.DueDate.String(),
		Completed: t.Completed,
		Overdue:   crm.IsOverdue(t, now),
	}
}

func interactionToOutput(in models.Interaction) InteractionOutput {
	return InteractionOutput{
		ID:        in.ID,
		Date:      in.Date.String(),
		Type:      string(in.Type),
		Summary:   in.Summary,
		NextSteps: in.NextSteps,
	}
}

// contactToOutput lists tasks earliest first and interactions newest first.
func contactToOutput(c models.Contact, now time.Time) ContactOutput {
	out := ContactOutput{
		ID:              c.ID,
		Name:            c.Name,
		Company:         c.Company,
		JobTitle:        c.JobTitle,
		Email:           c.Email,
		Phone:           c.Phone,
		Location:        c.Location,
		Notes:           c.Notes,
		Tags:            append([]string{}, c.Tags...),
		Stage:           string(c.Stage),
		CreatedAt:       c.CreatedAt.String(),
		LastInteraction: c.LastInteraction.String(),
		Tasks:           []TaskOutput{},
		Interactions:    []InteractionOutput{},
	}
	for _, t := range crm.SortedTasks(c) {
		out.Tasks = append(out.Tasks, taskToOutput(t, now))
	}
	for _, in := range crm.SortedInteractions(c) {
		out.Interactions = append(out.Interactions, interactionToOutput(in))
	}
	return out
}

func taskRefToOutput(ref crm.TaskRef, now time.Time) TaskRefOutput {
	return TaskRefOutput{
		ContactID:   ref.ContactID,
		ContactName: ref.ContactName,
		Stage:       string(ref.Stage),
		TaskID:      ref.Task.ID,
		Title:       ref.Task.Title,
		DueDate:     ref.Task.DueDate.String(),
		Due:         crm.FormatDueDistance(ref.Task.DueDate, now),
		Overdue:     crm.IsOverdue(ref.Task, now),
	}
}

func overviewToOutput(ov crm.Overview) OverviewOutput {
	out := OverviewOutput{
		ContactCount:          ov.ContactCount,
		ActiveCount:           ov.ActiveCount,
		OverdueTaskCount:      ov.OverdueTaskCount,
		TouchesLast7Days:      ov.TouchesLast7Days,
		UpcomingFollowUpCount: ov.UpcomingFollowUpCount,
		StageCounts:           make(map[string]int, len(ov.StageCounts)),
	}
	for stage, n := range ov.StageCounts {
		out.StageCounts[string(stage)] = n
	}
	return out
}
