// ABOUTME: KV client used by the charm and local storage backends
// ABOUTME: Wraps charm cloud KV or a plain badger directory behind one locked API

package charm

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"
)

// store is the subset of charm/kv.KV the client needs. The local badger backend
// implements the same methods.
type store interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	Keys() ([][]byte, error)
	Sync() error
	Reset() error
}

// Client wraps a KV store with config and sync helpers.
type Client struct {
	kv     store
	config *Config
	local  bool
	mu     sync.RWMutex
}

// NewClient opens the charm cloud KV for this app.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	// Set charm host before opening KV
	_ = os.Setenv("CHARM_HOST", cfg.Host)

	db, err := kv.OpenWithDefaults(AppName)
	if err != nil {
		return nil, fmt.Errorf("failed to open charm kv: %w", err)
	}

	c := &Client{
		kv:     db,
		config: cfg,
	}

	// Sync on startup to pull remote changes
	if cfg.AutoSync {
		_ = db.Sync()
	}

	return c, nil
}

// OpenLocal opens a badger directory with no server behind it.
func OpenLocal(dir string) (*Client, error) {
	db, err := openLocalKV(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open local kv: %w", err)
	}
	return &Client{
		kv:     db,
		config: &Config{Host: "local", AutoSync: false},
		local:  true,
	}, nil
}

// Close releases the store. Charm cloud KV is cleaned up on process exit.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if closer, ok := c.kv.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Config returns the client's config.
func (c *Client) Config() *Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// IsLocal reports whether this client has no charm server behind it.
func (c *Client) IsLocal() bool {
	return c.local
}

// ID returns the charm user ID for this device.
func (c *Client) ID() (string, error) {
	if c.local {
		return "", fmt.Errorf("local store has no charm account")
	}
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("failed to create charm client: %w", err)
	}
	return cc.ID()
}

// Sync performs a manual sync with the charm server.
func (c *Client) Sync() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Sync()
}

// Get retrieves a value by key.
func (c *Client) Get(key []byte) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.kv.Get(key)
}

// IsMissingKey reports whether err means the key was never stored. Charm KV and
// the local badger store signal this differently.
func IsMissingKey(err error) bool {
	return errors.Is(err, kv.ErrMissingKey) || errors.Is(err, badger.ErrKeyNotFound)
}

// HasKey reports whether key is stored. Errors other than a missing key are returned.
func (c *Client) HasKey(key []byte) (bool, error) {
	if _, err := c.Get(key); err != nil {
		if IsMissingKey(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Set stores a value and syncs if enabled.
func (c *Client) Set(key, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.kv.Set(key, value); err != nil {
		return err
	}

	// Sync while still holding lock to avoid race condition
	if c.config.AutoSync {
		_ = c.kv.Sync()
	}
	return nil
}

// Delete removes a key and syncs if enabled.
func (c *Client) Delete(key []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.kv.Delete(key); err != nil {
		return err
	}

	if c.config.AutoSync {
		_ = c.kv.Sync()
	}
	return nil
}

// Keys returns all keys (for debugging/admin).
func (c *Client) Keys() ([][]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.kv.Keys()
}

// KeysWithPrefix returns all keys starting with the given prefix.
func (c *Client) KeysWithPrefix(prefix []byte) ([][]byte, error) {
	allKeys, err := c.Keys()
	if err != nil {
		return nil, err
	}

	var matched [][]byte
	for _, k := range allKeys {
		if bytes.HasPrefix(k, prefix) {
			matched = append(matched, k)
		}
	}
	return matched, nil
}

// Reset wipes all data from the KV store (use with caution!)
func (c *Client) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Reset()
}
