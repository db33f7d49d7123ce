// ABOUTME: Tests for Session loading, seeding and save-after-mutation behavior
// ABOUTME: Uses MemoryStore so persistence effects can be observed directly
package crm

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/touchbase/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func openTestSession(t *testing.T, store Store) *Session {
	t.Helper()
	s, err := OpenSession(context.Background(), store, quietLogger(), WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)
	return s
}

type failingLoadStore struct{}

func (failingLoadStore) Load(context.Context) (*models.State, error) {
	return nil, errors.New("disk on fire")
}

func (failingLoadStore) Save(context.Context, models.State) error { return nil }

func TestOpenSession_SeedsWhenAbsent(t *testing.T) {
	store := NewMemoryStore(nil)

	s := openTestSession(t, store)

	assert.Len(t, s.State().Contacts, 4)
	assert.Zero(t, store.Saves(), "seeding does not write until the first mutation")
}

func TestOpenSession_CorruptDataFallsBackToSeed(t *testing.T) {
	store := NewMemoryStore(nil)
	store.SetRaw([]byte(`{"contacts": [`))

	s := openTestSession(t, store)

	assert.Len(t, s.State().Contacts, 4)
}

func TestOpenSession_EmptySavedListIsKept(t *testing.T) {
	store := NewMemoryStore(&models.State{})

	s := openTestSession(t, store)

	assert.Empty(t, s.State().Contacts)
}

func TestOpenSession_LoadError(t *testing.T) {
	_, err := OpenSession(context.Background(), failingLoadStore{}, quietLogger())

	assert.ErrorContains(t, err, "disk on fire")
}

func TestOpenSession_CustomSeed(t *testing.T) {
	seed := func(time.Time) models.State {
		return models.State{Contacts: []models.Contact{{ID: "only", Name: "Only"}}}
	}

	s, err := OpenSession(context.Background(), NewMemoryStore(nil), quietLogger(), WithSeed(seed))

	require.NoError(t, err)
	assert.Equal(t, "only", s.State().Contacts[0].ID)
}

func TestSession_MutationsSaveEachTime(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)
	s := openTestSession(t, store)

	c, err := s.CreateContact(ctx, ContactInput{Name: "Nia", Stage: "Active"})
	require.NoError(t, err)
	assert.Equal(t, 1, store.Saves())

	task, err := s.AddTask(ctx, c.ID, TaskInput{Title: "Intro call", Due: "2024-03-16T10:00:00Z"})
	require.NoError(t, err)
	assert.Equal(t, 2, store.Saves())

	toggled, err := s.ToggleTask(ctx, c.ID, task.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)
	assert.Equal(t, 3, store.Saves())

	interaction, err := s.LogInteraction(ctx, c.ID, InteractionInput{Summary: "Said hi", Type: "Meeting"})
	require.NoError(t, err)
	assert.Equal(t, 4, store.Saves())

	reloaded := openTestSession(t, store)
	got, err := reloaded.Contact(c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nia", got.Name)
	assert.True(t, got.Tasks[0].Completed)
	assert.True(t, got.LastInteraction.Equal(interaction.Date))

	require.NoError(t, s.DeleteContact(ctx, c.ID))
	assert.Equal(t, 5, store.Saves())
	require.NoError(t, s.DeleteContact(ctx, c.ID))
	assert.Equal(t, 5, store.Saves(), "deleting an unknown id does not save")
}

func TestSession_UpdateContact(t *testing.T) {
	ctx := context.Background()
	s := openTestSession(t, NewMemoryStore(nil))
	original := s.State().Contacts[1]
	in := InputFromContact(original)
	in.Notes = "Moved to Series A"

	updated, err := s.UpdateContact(ctx, original.ID, in)

	require.NoError(t, err)
	assert.Equal(t, "Moved to Series A", updated.Notes)
	assert.Equal(t, original.Tasks, updated.Tasks)

	_, err = s.UpdateContact(ctx, "missing", in)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSession_ValidationDoesNotSave(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)
	s := openTestSession(t, store)

	_, err := s.CreateContact(ctx, ContactInput{Name: ""})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = s.ToggleTask(ctx, "missing", "t")
	assert.ErrorIs(t, err, models.ErrNotFound)

	assert.Zero(t, store.Saves())
}

func TestSession_SaveFailureKeepsInMemoryChange(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)
	s := openTestSession(t, store)
	store.FailSaves(errors.New("quota exceeded"))

	c, err := s.CreateContact(ctx, ContactInput{Name: "Nia"})

	require.Error(t, err)
	assert.ErrorContains(t, err, "quota exceeded")
	assert.Empty(t, c.ID)
	assert.Len(t, s.State().Contacts, 5)
}

func TestSession_Views(t *testing.T) {
	s := openTestSession(t, NewMemoryStore(nil))

	ov := s.Overview()
	assert.Equal(t, 4, ov.ContactCount)
	assert.Equal(t, 3, ov.ActiveCount)
	assert.Equal(t, 1, ov.OverdueTaskCount)
	assert.Equal(t, 2, ov.UpcomingFollowUpCount)

	list := s.Contacts("", "Lead")
	require.Len(t, list, 1)
	assert.Equal(t, "Marcus Oyelaran", list[0].Name)

	refs := s.UpcomingTasks(0)
	require.NotEmpty(t, refs)
	assert.Equal(t, "Email metrics snapshot", refs[0].Task.Title)
}

func TestSession_StateIsACopy(t *testing.T) {
	s := openTestSession(t, NewMemoryStore(nil))

	snapshot := s.State()
	snapshot.Contacts[0].Name = "Mallory"

	assert.NotEqual(t, "Mallory", s.State().Contacts[0].Name)
}

func TestSession_ConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)
	s := openTestSession(t, store)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.CreateContact(ctx, ContactInput{Name: "Parallel"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, s.State().Contacts, 24)
	assert.Equal(t, 20, store.Saves())
}
