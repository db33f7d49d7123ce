// ABOUTME: State mutation operations for contacts, tasks and interactions
// ABOUTME: Every operation returns a new State and never modifies its input
package crm

import (
	"strings"

	"github.com/harperreed/touchbase/models"
)

// UpsertContact replaces the contact with the same id, or prepends it when new.
// It returns the new state and the id of the affected contact.
func UpsertContact(state models.State, contact models.Contact) (models.State, string, error) {
	if strings.TrimSpace(contact.Name) == "" {
		return state, "", models.Required("name")
	}
	if contact.ID == "" {
		return state, "", models.Required("id")
	}

	next := state.Clone()
	incoming := contact.Clone()

	if i := next.IndexOf(contact.ID); i >= 0 {
		next.Contacts[i] = incoming
		return next, contact.ID, nil
	}

	next.Contacts = append([]models.Contact{incoming}, next.Contacts...)
	return next, contact.ID, nil
}

// DeleteContact removes the contact and everything it owns. Unknown ids are a no-op.
func DeleteContact(state models.State, id string) models.State {
	next := models.State{Contacts: make([]models.Contact, 0, len(state.Contacts))}
	for _, c := range state.Contacts {
		if c.ID == id {
			continue
		}
		next.Contacts = append(next.Contacts, c.Clone())
	}
	return next
}

// UpsertTask replaces the task with the same id inside the contact, or appends it.
func UpsertTask(state models.State, contactID string, task models.Task) (models.State, error) {
	i := state.IndexOf(contactID)
	if i < 0 {
		return state, &models.NotFoundError{Kind: "contact", ID: contactID}
	}

	next := state.Clone()
	c := &next.Contacts[i]
	if j := c.TaskIndex(task.ID); j >= 0 {
		c.Tasks[j] = task
	} else {
		c.Tasks = append(c.Tasks, task)
	}
	return next, nil
}

// ToggleTask flips the completed flag of one task. Missing contacts or tasks return a
// NotFoundError and the input state.
func ToggleTask(state models.State, contactID, taskID string) (models.State, error) {
	i := state.IndexOf(contactID)
	if i < 0 {
		return state, &models.NotFoundError{Kind: "contact", ID: contactID}
	}
	j := state.Contacts[i].TaskIndex(taskID)
	if j < 0 {
		return state, &models.NotFoundError{Kind: "task", ID: taskID}
	}

	next := state.Clone()
	task := &next.Contacts[i].Tasks[j]
	task.Completed = !task.Completed
	return next, nil
}

// UpsertInteraction replaces or appends the interaction and sets the contact's
// LastInteraction to its date, even when that date is older than what was there.
func UpsertInteraction(state models.State, contactID string, interaction models.Interaction) (models.State, error) {
	i := state.IndexOf(contactID)
	if i < 0 {
		return state, &models.NotFoundError{Kind: "contact", ID: contactID}
	}

	next := state.Clone()
	c := &next.Contacts[i]
	if j := c.InteractionIndex(interaction.ID); j >= 0 {
		c.Interactions[j] = interaction
	} else {
		c.Interactions = append(c.Interactions, interaction)
	}
	c.LastInteraction = interaction.Date
	return next, nil
}
