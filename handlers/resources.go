// ABOUTME: MCP resource handlers for exposing CRM data
// ABOUTME: Provides read-only access to contacts and the dashboard overview via crm:// URIs
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harperreed/touchbase/crm"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ResourceHandlers struct {
	session *crm.Session
}

func NewResourceHandlers(session *crm.Session) *ResourceHandlers {
	return &ResourceHandlers{session: session}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(_ context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, "crm://") {
		return nil, fmt.Errorf("invalid URI scheme: expected crm://")
	}

	parts := strings.Split(strings.TrimPrefix(uri, "crm://"), "/")
	switch {
	case parts[0] == "contacts" && len(parts) == 1:
		return h.readAllContacts(uri)
	case parts[0] == "contacts" && len(parts) == 2 && parts[1] != "":
		return h.readContact(uri, parts[1])
	case parts[0] == "overview" && len(parts) == 1:
		return h.readOverview(uri)
	default:
		return nil, mcp.ResourceNotFoundError(uri)
	}
}

func (h *ResourceHandlers) readAllContacts(uri string) (*mcp.ReadResourceResult, error) {
	now := h.session.Now()
	contacts := h.session.Contacts("", crm.StageAll)
	out := make([]ContactOutput, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, contactToOutput(c, now))
	}
	return jsonResource(uri, out)
}

func (h *ResourceHandlers) readContact(uri, id string) (*mcp.ReadResourceResult, error) {
	contact, err := h.session.Contact(id)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	return jsonResource(uri, contactToOutput(contact, h.session.Now()))
}

func (h *ResourceHandlers) readOverview(uri string) (*mcp.ReadResourceResult, error) {
	return jsonResource(uri, overviewToOutput(h.session.Overview()))
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}
	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}
