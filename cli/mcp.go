// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server for Claude Desktop integration
package cli

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/harperreed/touchbase/crm"
	"github.com/harperreed/touchbase/handlers"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewMCPServer registers every touchbase tool, resource and prompt.
func NewMCPServer(session *crm.Session, upcomingLimit int, version string) *mcp.Server {
	contactHandlers := handlers.NewContactHandlers(session)
	taskHandlers := handlers.NewTaskHandlers(session, upcomingLimit)
	resourceHandlers := handlers.NewResourceHandlers(session)
	promptHandlers := handlers.NewPromptHandlers(session)
	vizHandlers := handlers.NewVizHandlers(session)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "touchbase",
		Version: version,
	}, nil)

	// Tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_contact",
		Description: "Add a new contact to the CRM",
	}, contactHandlers.AddContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_contacts",
		Description: "Search contacts by name, company, title, email or tag, optionally filtered by stage. Most recently touched first",
	}, contactHandlers.FindContacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_contact",
		Description: "Update an existing contact's fields; omitted fields are left unchanged",
	}, contactHandlers.UpdateContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_contact",
		Description: "Delete a contact together with its tasks and interactions",
	}, contactHandlers.DeleteContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "log_interaction",
		Description: "Log a call, email, meeting or note with a contact and update its last interaction",
	}, contactHandlers.LogInteraction)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_task",
		Description: "Add a follow-up task with a due date to a contact",
	}, taskHandlers.AddTask)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "toggle_task",
		Description: "Mark a task done, or open again if it was done",
	}, taskHandlers.ToggleTask)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "upcoming_tasks",
		Description: "List the next incomplete tasks across all contacts, earliest due first",
	}, taskHandlers.UpcomingTasks)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_overview",
		Description: "Dashboard numbers: contacts, active, overdue tasks, touches in the last 7 days, upcoming follow-ups and stage counts",
	}, taskHandlers.GetOverview)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_pipeline_graph",
		Description: "Render the contact pipeline as a Graphviz DOT or SVG document",
	}, vizHandlers.GeneratePipelineGraph)

	// Resources
	server.AddResource(&mcp.Resource{
		URI:         "crm://contacts",
		Name:        "contacts",
		Description: "All contacts, most recently touched first",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "crm://contacts/{id}",
		Name:        "contact",
		Description: "One contact with sorted tasks and timeline",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResource(&mcp.Resource{
		URI:         "crm://overview",
		Name:        "overview",
		Description: "Dashboard aggregates",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	// Prompts
	server.AddPrompt(&mcp.Prompt{
		Name:        "contact-summary",
		Description: "Summarize the relationship with one contact",
		Arguments: []*mcp.PromptArgument{
			{Name: "contact_id", Description: "Contact ID", Required: true},
		},
	}, promptHandlers.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "follow-up-suggestions",
		Description: "Plan who to reach out to next",
		Arguments: []*mcp.PromptArgument{
			{Name: "stage", Description: "Limit to one stage"},
		},
	}, promptHandlers.GetPrompt)

	return server
}

// MCPCommand starts the MCP server on stdio
func MCPCommand(ctx context.Context, session *crm.Session, upcomingLimit int, version string, logger *log.Logger) error {
	logger.Info("starting touchbase MCP server")
	server := NewMCPServer(session, upcomingLimit, version)
	return server.Run(ctx, &mcp.StdioTransport{})
}
