// ABOUTME: Session holds the current State and persists it after each mutation
// ABOUTME: Serializes callers so every change is read, replaced and saved as one step
package crm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/touchbase/models"
)

// Store is the persistence gateway. Load returns nil with no error when nothing has been
// saved or the saved data cannot be decoded. Save overwrites the previous value.
type Store interface {
	Load(ctx context.Context) (*models.State, error)
	Save(ctx context.Context, state models.State) error
}

// Session owns the live State for one process.
type Session struct {
	mu     sync.Mutex
	store  Store
	state  models.State
	logger *log.Logger
	clock  func() time.Time
	seed   func(time.Time) models.State
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides time.Now, mostly for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Session) { s.clock = clock }
}

// WithSeed replaces the first-run data set.
func WithSeed(seed func(time.Time) models.State) Option {
	return func(s *Session) { s.seed = seed }
}

// OpenSession loads the saved state, falling back to the sample data when none exists.
func OpenSession(ctx context.Context, store Store, logger *log.Logger, opts ...Option) (*Session, error) {
	if logger == nil {
		logger = log.Default()
	}
	s := &Session{
		store:  store,
		logger: logger,
		clock:  time.Now,
		seed:   SampleState,
	}
	for _, opt := range opts {
		opt(s)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	if loaded == nil {
		s.logger.Info("no saved state, starting from sample contacts")
		s.state = s.seed(s.clock())
		return s, nil
	}

	if err := loaded.Validate(); err != nil {
		s.logger.Warn("saved state breaks id invariants", "err", err)
	}
	s.state = *loaded
	s.logger.Debug("state loaded", "contacts", len(s.state.Contacts))
	return s, nil
}

// Now returns the session clock.
func (s *Session) Now() time.Time {
	return s.clock()
}

// State returns a deep copy of the current state.
func (s *Session) State() models.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Contacts returns the filtered, sorted list view.
func (s *Session) Contacts(searchTerm, stageFilter string) []models.Contact {
	return FilterAndSortContacts(s.State().Contacts, searchTerm, stageFilter)
}

// Contact returns one contact by id.
func (s *Session) Contact(id string) (models.Contact, error) {
	c, ok := FindContact(s.State().Contacts, id)
	if !ok {
		return models.Contact{}, &models.NotFoundError{Kind: "contact", ID: id}
	}
	return c, nil
}

// Overview computes the dashboard aggregates at the session clock.
func (s *Session) Overview() Overview {
	return ComputeOverview(s.State().Contacts, s.clock())
}

// UpcomingTasks lists the next incomplete tasks across all contacts.
func (s *Session) UpcomingTasks(limit int) []TaskRef {
	return UpcomingTasks(s.State().Contacts, limit)
}

// CreateContact validates the form, adds the new contact to the front and saves.
func (s *Session) CreateContact(ctx context.Context, in ContactInput) (models.Contact, error) {
	contact, err := CreateContact(in, s.clock())
	if err != nil {
		return models.Contact{}, err
	}
	if _, err := s.SaveContact(ctx, contact); err != nil {
		return models.Contact{}, err
	}
	return contact, nil
}

// UpdateContact applies the form to an existing contact and saves.
func (s *Session) UpdateContact(ctx context.Context, id string, in ContactInput) (models.Contact, error) {
	existing, err := s.Contact(id)
	if err != nil {
		return models.Contact{}, err
	}
	updated, err := ApplyContactInput(existing, in)
	if err != nil {
		return models.Contact{}, err
	}
	if _, err := s.SaveContact(ctx, updated); err != nil {
		return models.Contact{}, err
	}
	return updated, nil
}

// SaveContact upserts a full contact record and returns its id.
func (s *Session) SaveContact(ctx context.Context, contact models.Contact) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, id, err := UpsertContact(s.state, contact)
	if err != nil {
		return "", err
	}
	return id, s.commit(ctx, next, "upsert contact")
}

// DeleteContact removes a contact and its tasks and interactions. Unknown ids are a no-op.
func (s *Session) DeleteContact(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.IndexOf(id) < 0 {
		return nil
	}
	return s.commit(ctx, DeleteContact(s.state, id), "delete contact")
}

// AddTask validates the form and appends the task to the contact.
func (s *Session) AddTask(ctx context.Context, contactID string, in TaskInput) (models.Task, error) {
	task, err := NewTask(in)
	if err != nil {
		return models.Task{}, err
	}
	if err := s.UpsertTask(ctx, contactID, task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// UpsertTask replaces or appends a task on a contact.
func (s *Session) UpsertTask(ctx context.Context, contactID string, task models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := UpsertTask(s.state, contactID, task)
	if err != nil {
		return err
	}
	return s.commit(ctx, next, "upsert task")
}

// ToggleTask flips a task's completed flag and returns the updated task.
func (s *Session) ToggleTask(ctx context.Context, contactID, taskID string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := ToggleTask(s.state, contactID, taskID)
	if err != nil {
		return models.Task{}, err
	}
	c := next.Contacts[next.IndexOf(contactID)]
	task := c.Tasks[c.TaskIndex(taskID)]
	return task, s.commit(ctx, next, "toggle task")
}

// LogInteraction validates the form and records the interaction.
func (s *Session) LogInteraction(ctx context.Context, contactID string, in InteractionInput) (models.Interaction, error) {
	interaction, err := NewInteraction(in, s.clock())
	if err != nil {
		return models.Interaction{}, err
	}
	if err := s.UpsertInteraction(ctx, contactID, interaction); err != nil {
		return models.Interaction{}, err
	}
	return interaction, nil
}

// UpsertInteraction replaces or appends an interaction and moves LastInteraction to its date.
func (s *Session) UpsertInteraction(ctx context.Context, contactID string, interaction models.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := UpsertInteraction(s.state, contactID, interaction)
	if err != nil {
		return err
	}
	return s.commit(ctx, next, "upsert interaction")
}

// commit swaps in the new state, then saves it. The in-memory state keeps the change
// even if the save fails; the error goes back to the caller. Callers hold s.mu.
func (s *Session) commit(ctx context.Context, next models.State, op string) error {
	s.state = next
	if err := s.store.Save(ctx, next); err != nil {
		s.logger.Error("failed to save state", "op", op, "err", err)
		return fmt.Errorf("failed to save state after %s: %w", op, err)
	}
	s.logger.Debug("state saved", "op", op, "contacts", len(next.Contacts))
	return nil
}
