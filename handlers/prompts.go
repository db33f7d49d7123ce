// ABOUTME: MCP prompt handlers for reusable CRM workflow templates
// ABOUTME: Contact summaries and follow-up planning built from live CRM data
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/touchbase/crm"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type PromptHandlers struct {
	session *crm.Session
}

func NewPromptHandlers(session *crm.Session) *PromptHandlers {
	return &PromptHandlers{session: session}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(_ context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	switch request.Params.Name {
	case "contact-summary":
		return h.getContactSummaryPrompt(request.Params.Arguments)
	case "follow-up-suggestions":
		return h.getFollowUpSuggestionsPrompt(request.Params.Arguments)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", request.Params.Name)
	}
}

func (h *PromptHandlers) getContactSummaryPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	contactID, ok := args["contact_id"]
	if !ok || contactID == "" {
		return nil, fmt.Errorf("contact_id is required")
	}

	contact, err := h.session.Contact(contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contact: %w", err)
	}
	now := h.session.Now()

	var promptText strings.Builder
	fmt.Fprintf(&promptText, "Please summarize my relationship with %s.\n\n", contact.Name)
	fmt.Fprintf(&promptText, "Stage: %s\n", contact.Stage)
	if contact.JobTitle != "" || contact.Company != "" {
		fmt.Fprintf(&promptText, "Role: %s at %s\n", contact.JobTitle, contact.Company)
	}
	if contact.Email != "" {
		fmt.Fprintf(&promptText, "Email: %s\n", contact.Email)
	}
	if len(contact.Tags) > 0 {
		fmt.Fprintf(&promptText, "Tags: %s\n", strings.Join(contact.Tags, ", "))
	}
	fmt.Fprintf(&promptText, "Last interaction: %s\n", crm.FormatLastInteraction(contact.LastInteraction, now))
	if contact.Notes != "" {
		fmt.Fprintf(&promptText, "Notes: %s\n", contact.Notes)
	}

	promptText.WriteString("\nTimeline (newest first):\n")
	interactions := crm.SortedInteractions(contact)
	if len(interactions) == 0 {
		promptText.WriteString("- none logged\n")
	}
	for _, in := range interactions {
		fmt.Fprintf(&promptText, "- %s %s: %s", crm.FormatTimestamp(in.Date, "2006-01-02", now.Location()), in.Type, in.Summary)
		if in.NextSteps != "" {
			fmt.Fprintf(&promptText, " (next: %s)", in.NextSteps)
		}
		promptText.WriteString("\n")
	}

	promptText.WriteString("\nOpen tasks:\n")
	open := 0
	for _, t := range crm.SortedTasks(contact) {
		if t.Completed {
			continue
		}
		open++
		fmt.Fprintf(&promptText, "- %s (%s)\n", t.Title, crm.FormatDueLabel(t.DueDate, now))
	}
	if open == 0 {
		promptText.WriteString("- none\n")
	}

	promptText.WriteString("\nPlease include:")
	promptText.WriteString("\n1. Where this relationship stands")
	promptText.WriteString("\n2. Commitments still outstanding")
	promptText.WriteString("\n3. A suggested next touchpoint")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Relationship summary for %s", contact.Name),
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: promptText.String()},
			},
		},
	}, nil
}

func (h *PromptHandlers) getFollowUpSuggestionsPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	stage := args["stage"]
	now := h.session.Now()
	contacts := h.session.Contacts("", stage)
	ov := h.session.Overview()

	var promptText strings.Builder
	fmt.Fprintf(&promptText, "I have %d contacts, %d overdue tasks and %d touches in the last 7 days.\n\n",
		ov.ContactCount, ov.OverdueTaskCount, ov.TouchesLast7Days)
	promptText.WriteString("Contacts by most recent interaction:\n\n")

	for _, c := range contacts {
		fmt.Fprintf(&promptText, "- %s [%s], last touch %s", c.Name, c.Stage, crm.FormatLastInteraction(c.LastInteraction, now))
		if task, ok := crm.DefaultDueTask(c); ok {
			fmt.Fprintf(&promptText, ", next task %q %s", task.Title, crm.FormatDueDistance(task.DueDate, now))
			if crm.IsOverdue(task, now) {
				promptText.WriteString(" (OVERDUE)")
			}
		}
		promptText.WriteString("\n")
	}
	if len(contacts) == 0 {
		promptText.WriteString("No contacts match.\n")
	}

	promptText.WriteString("\nPlease:")
	promptText.WriteString("\n1. Prioritize which contacts to reach out to first")
	promptText.WriteString("\n2. Suggest personalized outreach approaches for each")
	promptText.WriteString("\n3. Identify any patterns in follow-up gaps")

	return &mcp.GetPromptResult{
		Description: "Follow-up suggestions for contacts",
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: promptText.String()},
			},
		},
	}, nil
}
