// ABOUTME: Contact MCP tool handlers
// ABOUTME: Implements add_contact, find_contacts, update_contact, delete_contact and log_interaction
package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/harperreed/touchbase/crm"
	"github.com/harperreed/touchbase/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ContactHandlers struct {
	session *crm.Session
}

func NewContactHandlers(session *crm.Session) *ContactHandlers {
	return &ContactHandlers{session: session}
}

type AddContactInput struct {
	Name     string   `json:"name" jsonschema:"Contact name (required)"`
	Company  string   `json:"company,omitempty" jsonschema:"Company name"`
	JobTitle string   `json:"job_title,omitempty" jsonschema:"Job title"`
	Email    string   `json:"email,omitempty" jsonschema:"Email address"`
	Phone    string   `json:"phone,omitempty" jsonschema:"Phone number"`
	Location string   `json:"location,omitempty" jsonschema:"City or region"`
	Stage    string   `json:"stage,omitempty" jsonschema:"Pipeline stage: Lead, Active, Waiting or Customer (default Lead)"`
	Tags     []string `json:"tags,omitempty" jsonschema:"Free-form labels"`
	Notes    string   `json:"notes,omitempty" jsonschema:"Additional notes about the contact"`
}

func (h *ContactHandlers) AddContact(ctx context.Context, _ *mcp.CallToolRequest, input AddContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	contact, err := h.session.CreateContact(ctx, crm.ContactInput{
		Name:     input.Name,
		Company:  input.Company,
		JobTitle: input.JobTitle,
		Email:    input.Email,
		Phone:    input.Phone,
		Location: input.Location,
		Stage:    input.Stage,
		TagList:  input.Tags,
		Notes:    input.Notes,
	})
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to create contact: %w", err)
	}
	return nil, contactToOutput(contact, h.session.Now()), nil
}

type FindContactsInput struct {
	Query string `json:"query,omitempty" jsonschema:"Search over name, company, job title, email and tags"`
	Stage string `json:"stage,omitempty" jsonschema:"Stage filter: All, Lead, Active, Waiting or Customer"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type FindContactsOutput struct {
	Contacts []ContactOutput `json:"contacts"`
	Total    int             `json:"total"`
}

func (h *ContactHandlers) FindContacts(_ context.Context, _ *mcp.CallToolRequest, input FindContactsInput) (*mcp.CallToolResult, FindContactsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}
	if input.Stage != "" && input.Stage != crm.StageAll {
		stage, err := models.ParseStage(input.Stage)
		if err != nil {
			return nil, FindContactsOutput{}, err
		}
		input.Stage = string(stage)
	}

	contacts := h.session.Contacts(input.Query, input.Stage)
	now := h.session.Now()

	out := FindContactsOutput{Contacts: []ContactOutput{}, Total: len(contacts)}
	for i, c := range contacts {
		if i == limit {
			break
		}
		out.Contacts = append(out.Contacts, contactToOutput(c, now))
	}
	return nil, out, nil
}

type UpdateContactInput struct {
	ID       string   `json:"id" jsonschema:"Contact ID (required)"`
	Name     *string  `json:"name,omitempty" jsonschema:"New name"`
	Company  *string  `json:"company,omitempty" jsonschema:"New company"`
	JobTitle *string  `json:"job_title,omitempty" jsonschema:"New job title"`
	Email    *string  `json:"email,omitempty" jsonschema:"New email"`
	Phone    *string  `json:"phone,omitempty" jsonschema:"New phone"`
	Location *string  `json:"location,omitempty" jsonschema:"New location"`
	Stage    *string  `json:"stage,omitempty" jsonschema:"New stage"`
	Tags     []string `json:"tags,omitempty" jsonschema:"Replacement tag list"`
	Notes    *string  `json:"notes,omitempty" jsonschema:"New notes"`
}

// UpdateContact changes only the fields present in the input.
func (h *ContactHandlers) UpdateContact(ctx context.Context, _ *mcp.CallToolRequest, input UpdateContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	existing, err := h.session.Contact(input.ID)
	if err != nil {
		return nil, ContactOutput{}, err
	}

	form := crm.InputFromContact(existing)
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&form.Name, input.Name)
	set(&form.Company, input.Company)
	set(&form.JobTitle, input.JobTitle)
	set(&form.Email, input.Email)
	set(&form.Phone, input.Phone)
	set(&form.Location, input.Location)
	set(&form.Stage, input.Stage)
	set(&form.Notes, input.Notes)
	if input.Tags != nil {
		form.TagList = input.Tags
	}

	updated, err := h.session.UpdateContact(ctx, input.ID, form)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to update contact: %w", err)
	}
	return nil, contactToOutput(updated, h.session.Now()), nil
}

type DeleteContactInput struct {
	ID string `json:"id" jsonschema:"Contact ID (required)"`
}

type DeleteContactOutput struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func (h *ContactHandlers) DeleteContact(ctx context.Context, _ *mcp.CallToolRequest, input DeleteContactInput) (*mcp.CallToolResult, DeleteContactOutput, error) {
	_, err := h.session.Contact(input.ID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, DeleteContactOutput{ID: input.ID, Deleted: false}, nil
	}
	if err := h.session.DeleteContact(ctx, input.ID); err != nil {
		return nil, DeleteContactOutput{}, fmt.Errorf("failed to delete contact: %w", err)
	}
	return nil, DeleteContactOutput{ID: input.ID, Deleted: true}, nil
}

type LogInteractionInput struct {
	ContactID string `json:"contact_id" jsonschema:"Contact ID (required)"`
	Type      string `json:"type,omitempty" jsonschema:"Call, Email, Meeting or Note (default Call)"`
	Date      string `json:"date,omitempty" jsonschema:"When it happened, ISO-8601 (default now)"`
	Summary   string `json:"summary" jsonschema:"What was discussed (required)"`
	NextSteps string `json:"next_steps,omitempty" jsonschema:"Agreed follow-ups"`
}

func (h *ContactHandlers) LogInteraction(ctx context.Context, _ *mcp.CallToolRequest, input LogInteractionInput) (*mcp.CallToolResult, InteractionOutput, error) {
	interaction, err := h.session.LogInteraction(ctx, input.ContactID, crm.InteractionInput{
		Type:      input.Type,
		Date:      input.Date,
		Summary:   input.Summary,
		NextSteps: input.NextSteps,
	})
	if err != nil {
		return nil, InteractionOutput{}, fmt.Errorf("failed to log interaction: %w", err)
	}
	return nil, interactionToOutput(interaction), nil
}
