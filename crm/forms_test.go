// ABOUTME: Tests for the form builders that produce contacts, tasks and interactions
// ABOUTME: Verifies defaults, validation errors and timestamp normalization
package crm

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/touchbase/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTags(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", []string{}},
		{" , ,", []string{}},
		{"vip", []string{"vip"}},
		{" vip , partner,, bay area ", []string{"vip", "partner", "bay area"}},
		{"a,a", []string{"a", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitTags(tt.raw))
		})
	}
}

func TestCreateContact(t *testing.T) {
	c, err := CreateContact(ContactInput{
		Name:    "Nia Park",
		Company: "Acme",
		Tags:    "vip, warm",
	}, testNow)

	require.NoError(t, err)
	_, parseErr := uuid.Parse(c.ID)
	assert.NoError(t, parseErr)
	assert.Equal(t, models.StageLead, c.Stage)
	assert.Equal(t, []string{"vip", "warm"}, c.Tags)
	assert.Equal(t, "2024-03-15T12:00:00.000Z", c.CreatedAt.String())
	assert.True(t, c.CreatedAt.Equal(c.LastInteraction))
	assert.NotNil(t, c.Tasks)
	assert.NotNil(t, c.Interactions)
}

func TestCreateContact_Validation(t *testing.T) {
	_, err := CreateContact(ContactInput{Name: "   "}, testNow)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = CreateContact(ContactInput{Name: "Nia", Stage: "Prospect"}, testNow)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestApplyContactInput_KeepsOwnedRecords(t *testing.T) {
	existing := SampleState(testNow).Contacts[0]
	in := InputFromContact(existing)
	in.Stage = "customer"
	in.Tags = "renewal"

	updated, err := ApplyContactInput(existing, in)

	require.NoError(t, err)
	assert.Equal(t, existing.ID, updated.ID)
	assert.Equal(t, models.StageCustomer, updated.Stage)
	assert.Equal(t, []string{"renewal"}, updated.Tags)
	assert.Equal(t, existing.Tasks, updated.Tasks)
	assert.True(t, existing.CreatedAt.Equal(updated.CreatedAt))
	assert.Equal(t, []string{"partner", "warm intro", "bay area"}, existing.Tags)
}

func TestApplyContactInput_UntouchedTagsKeepCommas(t *testing.T) {
	existing := SampleState(testNow).Contacts[0]
	existing.Tags = []string{"Portland, OR", "investor"}
	in := InputFromContact(existing)
	in.Stage = "Waiting"

	updated, err := ApplyContactInput(existing, in)

	require.NoError(t, err)
	assert.Equal(t, []string{"Portland, OR", "investor"}, updated.Tags)

	in.Tags = "investor"
	updated, err = ApplyContactInput(existing, in)
	require.NoError(t, err)
	assert.Equal(t, []string{"investor"}, updated.Tags)
}

func TestApplyContactInput_TagListIsVerbatim(t *testing.T) {
	existing := SampleState(testNow).Contacts[0]
	in := InputFromContact(existing)
	in.TagList = []string{" Portland, OR ", "", "vip"}

	updated, err := ApplyContactInput(existing, in)

	require.NoError(t, err)
	assert.Equal(t, []string{"Portland, OR", "vip"}, updated.Tags)

	in.TagList = []string{}
	updated, err = ApplyContactInput(existing, in)
	require.NoError(t, err)
	assert.Empty(t, updated.Tags)
}

func TestNewTask(t *testing.T) {
	task, err := NewTask(TaskInput{Title: "Send deck", Due: "2024-03-20T09:30:00Z"})

	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.False(t, task.Completed)
	assert.Equal(t, "2024-03-20T09:30:00.000Z", task.DueDate.String())

	kept, err := NewTask(TaskInput{ID: "fixed", Title: "x", Due: "2024-03-20"})
	require.NoError(t, err)
	assert.Equal(t, "fixed", kept.ID)
	assert.True(t, kept.DueDate.Valid())
}

func TestNewTask_Validation(t *testing.T) {
	for _, in := range []TaskInput{
		{Title: "", Due: "2024-03-20"},
		{Title: "x", Due: ""},
		{Title: "x", Due: "next tuesday"},
	} {
		_, err := NewTask(in)
		assert.ErrorIs(t, err, models.ErrValidation, "input %+v", in)
	}
}

func TestNewInteraction_Defaults(t *testing.T) {
	in, err := NewInteraction(InteractionInput{Summary: "Quick sync", NextSteps: "  follow up  "}, testNow)

	require.NoError(t, err)
	assert.Equal(t, models.InteractionCall, in.Type)
	assert.Equal(t, "2024-03-15T12:00:00.000Z", in.Date.String())
	assert.Equal(t, "follow up", in.NextSteps)
}

func TestNewInteraction_ExplicitValues(t *testing.T) {
	in, err := NewInteraction(InteractionInput{
		Type:    "email",
		Date:    "2024-03-01T08:00:00Z",
		Summary: "Sent notes",
	}, testNow)

	require.NoError(t, err)
	assert.Equal(t, models.InteractionEmail, in.Type)
	got, ok := in.Date.Time()
	require.True(t, ok)
	assert.True(t, got.Equal(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)))
	assert.Empty(t, in.NextSteps)
}

func TestNewInteraction_Validation(t *testing.T) {
	for _, in := range []InteractionInput{
		{Summary: ""},
		{Summary: "x", Type: "fax"},
		{Summary: "x", Date: "soon"},
	} {
		_, err := NewInteraction(in, testNow)
		assert.ErrorIs(t, err, models.ErrValidation, "input %+v", in)
	}
}
