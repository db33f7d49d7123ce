// ABOUTME: Task and interaction CLI commands
// ABOUTME: Adding and completing tasks, logging touches and listing what is due next
package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/harperreed/touchbase/crm"
)

// AddTaskCommand adds a follow-up task to a contact.
func AddTaskCommand(session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("add-task", flag.ExitOnError)
	contactID := fs.String("contact", "", "Contact ID (required)")
	title := fs.String("title", "", "Task title (required)")
	due := fs.String("due", "", "Due date, YYYY-MM-DD or ISO-8601 (required)")
	_ = fs.Parse(args)

	if *contactID == "" {
		return fmt.Errorf("--contact is required")
	}

	task, err := session.AddTask(context.Background(), *contactID, crm.TaskInput{Title: *title, Due: *due})
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}

	_, _ = fmt.Fprintf(stdout, "✓ Task added: %s (ID: %s)\n", task.Title, task.ID)
	_, _ = fmt.Fprintf(stdout, "  Due: %s\n", crm.FormatDueDistance(task.DueDate, session.Now()))
	return nil
}

// ToggleTaskCommand marks a task done, or open again if it was done.
func ToggleTaskCommand(session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("toggle-task", flag.ExitOnError)
	contactID := fs.String("contact", "", "Contact ID (required)")
	taskID := fs.String("task", "", "Task ID (required)")
	_ = fs.Parse(args)

	if *contactID == "" || *taskID == "" {
		return fmt.Errorf("--contact and --task are required")
	}

	task, err := session.ToggleTask(context.Background(), *contactID, *taskID)
	if err != nil {
		return fmt.Errorf("failed to toggle task: %w", err)
	}

	state := "open"
	if task.Completed {
		state = "done"
	}
	_, _ = fmt.Fprintf(stdout, "✓ %s is now %s\n", task.Title, state)
	return nil
}

// LogInteractionCommand records a call, email, meeting or note.
func LogInteractionCommand(session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("log-interaction", flag.ExitOnError)
	contactID := fs.String("contact", "", "Contact ID (required)")
	kind := fs.String("type", "Call", "Call, Email, Meeting or Note")
	date := fs.String("date", "", "When it happened (default now)")
	summary := fs.String("summary", "", "What was discussed (required)")
	next := fs.String("next", "", "Next steps")
	_ = fs.Parse(args)

	if *contactID == "" {
		return fmt.Errorf("--contact is required")
	}

	interaction, err := session.LogInteraction(context.Background(), *contactID, crm.InteractionInput{
		Type:      *kind,
		Date:      *date,
		Summary:   *summary,
		NextSteps: *next,
	})
	if err != nil {
		return fmt.Errorf("failed to log interaction: %w", err)
	}

	_, _ = fmt.Fprintf(stdout, "✓ Logged %s (%s)\n", interaction.Type, crm.FormatLastInteraction(interaction.Date, session.Now()))
	return nil
}

// TasksCommand lists the next incomplete tasks across all contacts.
func TasksCommand(session *crm.Session, defaultLimit int, args []string) error {
	fs := flag.NewFlagSet("tasks", flag.ExitOnError)
	limit := fs.Int("limit", defaultLimit, "Maximum number of tasks")
	_ = fs.Parse(args)

	refs := session.UpcomingTasks(*limit)
	if len(refs) == 0 {
		_, _ = fmt.Fprintln(stdout, "No open tasks")
		return nil
	}

	now := session.Now()
	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DUE\tTASK\tCONTACT\tSTAGE\tTASK ID")
	_, _ = fmt.Fprintln(w, "---\t----\t-------\t-----\t-------")
	for _, ref := range refs {
		due := crm.FormatDueDistance(ref.Task.DueDate, now)
		if crm.IsOverdue(ref.Task, now) {
			due = "🔴 " + due
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", due, ref.Task.Title, ref.ContactName, ref.Stage, ref.Task.ID)
	}
	_ = w.Flush()
	return nil
}
