package storage

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/halcyonix/chessmind/internal/book"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyBookOverlay = "book_overlay"
)

// Preferences stores the engine settings the CLI persists between runs.
type Preferences struct {
	Difficulty   string    `json:"difficulty"`
	TTSizeMB     int       `json:"tt_size_mb"`
	BookEnabled  bool      `json:"book_enabled"`
	BookPlyLimit int       `json:"book_ply_limit"`
	LastUsed     time.Time `json:"last_used"`
}

// DefaultPreferences returns the stock settings.
func DefaultPreferences() *Preferences {
	return &Preferences{
		Difficulty:   "medium",
		TTSizeMB:     64,
		BookEnabled:  true,
		BookPlyLimit: 16,
	}
}

// Store wraps BadgerDB for persistent storage.
type Store struct {
	db *badger.DB
}

// Open opens (creating if needed) a store in the given directory.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// OpenDefault opens the store in the platform data directory.
func OpenDefault() (*Store, error) {
	dbDir, err := DatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SavePreferences saves the engine preferences.
func (s *Store) SavePreferences(prefs *Preferences) error {
	prefs.LastUsed = time.Now()

	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPreferences), data)
	})
}

// LoadPreferences loads preferences, falling back to defaults when the key
// was never written.
func (s *Store) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPreferences))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, prefs)
		})
	})
	return prefs, err
}

// SaveBookOverlay persists learned book entries (position key to weighted
// candidate moves) as one JSON value.
func (s *Store) SaveBookOverlay(overlay map[uint64][]book.Entry) error {
	data, err := json.Marshal(overlay)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyBookOverlay), data)
	})
}

// LoadBookOverlay loads the stored book overlay. An empty map is returned
// when nothing has been saved yet.
func (s *Store) LoadBookOverlay() (map[uint64][]book.Entry, error) {
	overlay := make(map[uint64][]book.Entry)

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyBookOverlay))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &overlay)
		})
	})
	return overlay, err
}
