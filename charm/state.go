// ABOUTME: Persists the CRM State as one JSON value in the KV store
// ABOUTME: Missing or undecodable values load as absent so the app can reseed

package charm

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/harperreed/touchbase/crm"
	"github.com/harperreed/touchbase/models"
)

// StateKey is the single key the whole State lives under.
const StateKey = "touchbase:state"

// StateStore adapts a Client to crm.Store.
type StateStore struct {
	client *Client
	logger *log.Logger
}

var _ crm.Store = (*StateStore)(nil)

// NewStateStore returns a store over client. A nil logger uses the default logger.
func NewStateStore(client *Client, logger *log.Logger) *StateStore {
	if logger == nil {
		logger = log.Default()
	}
	return &StateStore{client: client, logger: logger}
}

// Load reads the saved State. A missing key or a value that does not decode returns nil.
func (s *StateStore) Load(_ context.Context) (*models.State, error) {
	data, err := s.client.Get([]byte(StateKey))
	if err != nil {
		if IsMissingKey(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read state: %w", err)
	}

	state := crm.DecodeState(data)
	if state == nil {
		s.logger.Warn("stored state could not be decoded, ignoring it", "key", StateKey, "bytes", len(data))
	}
	return state, nil
}

// Save overwrites the stored State.
func (s *StateStore) Save(_ context.Context, state models.State) error {
	data, err := crm.EncodeState(state)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := s.client.Set([]byte(StateKey), data); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	return nil
}
