// ABOUTME: Data models for the personal CRM
// ABOUTME: Defines Contact, Interaction, Task, State and the stage/interaction enums
package models

import (
	"fmt"
	"strings"
)

// Stage is the pipeline status of a contact.
type Stage string

const (
	StageLead     Stage = "Lead"
	StageActive   Stage = "Active"
	StageWaiting  Stage = "Waiting"
	StageCustomer Stage = "Customer"
)

// Stages lists every pipeline stage in display order.
var Stages = []Stage{StageLead, StageActive, StageWaiting, StageCustomer}

// ParseStage matches a stage name case-insensitively.
func ParseStage(s string) (Stage, error) {
	for _, stage := range Stages {
		if strings.EqualFold(strings.TrimSpace(s), string(stage)) {
			return stage, nil
		}
	}
	return "", &ValidationError{Field: "stage", Message: fmt.Sprintf("unknown stage %q", s)}
}

// InteractionType is the kind of touchpoint that was logged.
type InteractionType string

const (
	InteractionCall    InteractionType = "Call"
	InteractionEmail   InteractionType = "Email"
	InteractionMeeting InteractionType = "Meeting"
	InteractionNote    InteractionType = "Note"
)

// InteractionTypes lists every interaction type in display order.
var InteractionTypes = []InteractionType{InteractionCall, InteractionEmail, InteractionMeeting, InteractionNote}

// ParseInteractionType matches an interaction type case-insensitively.
func ParseInteractionType(s string) (InteractionType, error) {
	for _, it := range InteractionTypes {
		if strings.EqualFold(strings.TrimSpace(s), string(it)) {
			return it, nil
		}
	}
	return "", &ValidationError{Field: "type", Message: fmt.Sprintf("unknown interaction type %q", s)}
}

type Interaction struct {
	ID        string          `json:"id"`
	Date      Timestamp       `json:"date"`
	Type      InteractionType `json:"type"`
	Summary   string          `json:"summary"`
	NextSteps string          `json:"nextSteps,omitempty"`
}

type Task struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	DueDate   Timestamp `json:"dueDate"`
	Completed bool      `json:"completed"`
}

// Contact owns its interactions and tasks; nothing is shared across contacts.
type Contact struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Company         string        `json:"company"`
	JobTitle        string        `json:"jobTitle"`
	Email           string        `json:"email"`
	Phone           string        `json:"phone"`
	Location        string        `json:"location"`
	Notes           string        `json:"notes"`
	Tags            []string      `json:"tags"`
	Stage           Stage         `json:"stage"`
	CreatedAt       Timestamp     `json:"createdAt"`
	LastInteraction Timestamp     `json:"lastInteraction"`
	Interactions    []Interaction `json:"interactions"`
	Tasks           []Task        `json:"tasks"`
}

// Clone returns a deep copy that shares no slices with c.
func (c Contact) Clone() Contact {
	out := c
	if c.Tags != nil {
		out.Tags = append([]string(nil), c.Tags...)
	}
	if c.Interactions != nil {
		out.Interactions = append([]Interaction(nil), c.Interactions...)
	}
	if c.Tasks != nil {
		out.Tasks = append([]Task(nil), c.Tasks...)
	}
	return out
}

// TaskIndex returns the position of the task with id, or -1.
func (c Contact) TaskIndex(id string) int {
	for i, t := range c.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// InteractionIndex returns the position of the interaction with id, or -1.
func (c Contact) InteractionIndex(id string) int {
	for i, in := range c.Interactions {
		if in.ID == id {
			return i
		}
	}
	return -1
}

// State is the complete persisted collection. This is the storage schema.
type State struct {
	Contacts []Contact `json:"contacts"`
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := State{Contacts: make([]Contact, len(s.Contacts))}
	for i, c := range s.Contacts {
		out.Contacts[i] = c.Clone()
	}
	return out
}

// IndexOf returns the position of the contact with id, or -1.
func (s State) IndexOf(id string) int {
	for i, c := range s.Contacts {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Validate checks id uniqueness for contacts and, within each contact, for tasks and interactions.
func (s State) Validate() error {
	seen := make(map[string]struct{}, len(s.Contacts))
	for _, c := range s.Contacts {
		if _, dup := seen[c.ID]; dup {
			return &ValidationError{Field: "contacts", Message: fmt.Sprintf("duplicate contact id %q", c.ID)}
		}
		seen[c.ID] = struct{}{}

		taskIDs := make(map[string]struct{}, len(c.Tasks))
		for _, t := range c.Tasks {
			if _, dup := taskIDs[t.ID]; dup {
				return &ValidationError{Field: "tasks", Message: fmt.Sprintf("duplicate task id %q on contact %q", t.ID, c.ID)}
			}
			taskIDs[t.ID] = struct{}{}
		}

		interactionIDs := make(map[string]struct{}, len(c.Interactions))
		for _, in := range c.Interactions {
			if _, dup := interactionIDs[in.ID]; dup {
				return &ValidationError{Field: "interactions", Message: fmt.Sprintf("duplicate interaction id %q on contact %q", in.ID, c.ID)}
			}
			interactionIDs[in.ID] = struct{}{}
		}
	}
	return nil
}
