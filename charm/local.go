// ABOUTME: Badger-backed KV with the same surface as charm/kv.KV
// ABOUTME: Serves the local backend and the test client without a charm server

package charm

import (
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v3"
)

// localKV is a badger directory with charm/kv's method set.
type localKV struct {
	db *badger.DB
}

func openLocalKV(dir string) (*localKV, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	// Suppress badger's own logging; errors still come back to callers
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &localKV{db: db}, nil
}

func (l *localKV) Get(key []byte) ([]byte, error) {
	var result []byte
	err := l.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		result, err = item.ValueCopy(nil)
		return err
	})
	return result, err
}

func (l *localKV) Set(key, value []byte) error {
	return l.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

func (l *localKV) Delete(key []byte) error {
	return l.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

func (l *localKV) Keys() ([][]byte, error) {
	var keys [][]byte
	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	return keys, err
}

// Sync is a no-op; there is no server to talk to.
func (l *localKV) Sync() error {
	return nil
}

func (l *localKV) Reset() error {
	return l.db.DropAll()
}

func (l *localKV) Close() error {
	return l.db.Close()
}
