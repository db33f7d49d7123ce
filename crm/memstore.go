// ABOUTME: In-memory Store that keeps the encoded state like a real backend would
// ABOUTME: Used by tests and by dry runs that must not touch disk
package crm

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/harperreed/touchbase/models"
)

// MemoryStore holds the last saved state as JSON.
type MemoryStore struct {
	mu    sync.Mutex
	data  []byte
	saves int
	err   error
}

// NewMemoryStore returns an empty store, optionally primed with a state.
func NewMemoryStore(initial *models.State) *MemoryStore {
	m := &MemoryStore{}
	if initial != nil {
		m.data, _ = EncodeState(*initial)
	}
	return m
}

func (m *MemoryStore) Load(_ context.Context) (*models.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return DecodeState(m.data), nil
}

func (m *MemoryStore) Save(_ context.Context, state models.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	data, err := EncodeState(state)
	if err != nil {
		return err
	}
	m.data = data
	m.saves++
	return nil
}

// FailSaves makes every later Save return err. Pass nil to recover.
func (m *MemoryStore) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Saves counts successful saves.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Raw returns the stored bytes.
func (m *MemoryStore) Raw() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}

// SetRaw replaces the stored bytes, e.g. with a corrupt payload.
func (m *MemoryStore) SetRaw(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
}

// DecodeState parses a stored payload. Empty or undecodable input yields nil.
func DecodeState(data []byte) *models.State {
	if len(data) == 0 {
		return nil
	}
	var state models.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil
	}
	if state.Contacts == nil {
		state.Contacts = []models.Contact{}
	}
	return &state
}

// EncodeState produces the storage payload.
func EncodeState(state models.State) ([]byte, error) {
	if state.Contacts == nil {
		state.Contacts = []models.Contact{}
	}
	return json.Marshal(state)
}
