// Package cache keeps downloaded mapping archives in an embedded badger
// store so repeated runs can skip the network.
package cache

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// DefaultTTL is how long a cached archive stays valid.
const DefaultTTL = 24 * time.Hour

const keyPrefix = "archive/"

// Config holds configuration for the archive store.
type Config struct {
	// Path is the store directory. Ignored when InMemory is true.
	Path string

	// InMemory keeps the store in memory only.
	InMemory bool

	// TTL is the lifetime of each entry. Zero means entries never expire.
	TTL time.Duration

	// Logger receives badger's internal logging. Nil disables it.
	Logger *slog.Logger
}

// DefaultConfig returns the configuration for a persistent store at path.
func DefaultConfig(path string) Config {
	return Config{Path: path, TTL: DefaultTTL}
}

// InMemoryConfig returns a configuration for tests.
func InMemoryConfig() Config {
	return Config{InMemory: true, TTL: DefaultTTL}
}

// badgerLogger adapts slog.Logger to badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Store is a badger-backed archive cache keyed by URL.
// It is safe for concurrent use.
type Store struct {
	db  *badger.DB
	ttl time.Duration
}

// Open opens the store, creating its directory if needed.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("cache path is required for a persistent store")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create cache directory %s: %w", cfg.Path, err)
		}

		opts = badger.DefaultOptions(cfg.Path)
	}

	opts = opts.WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open archive cache: %w", err)
	}

	return &Store{db: db, ttl: cfg.TTL}, nil
}

// OpenInMemory opens an in-memory store.
func OpenInMemory() (*Store, error) {
	return Open(InMemoryConfig())
}

// Get returns the archive cached for url. Expired entries are reported as
// missing.
func (s *Store) Get(url string) ([]byte, bool, error) {
	var data []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(url))
		if err != nil {
			return err
		}

		data, err = item.ValueCopy(nil)

		return err
	})

	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("read cached archive %s: %w", url, err)
	}

	return data, true, nil
}

// Put stores the archive for url.
func (s *Store) Put(url string, data []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(key(url), data)
		if s.ttl > 0 {
			e = e.WithTTL(s.ttl)
		}

		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("cache archive %s: %w", url, err)
	}

	return nil
}

// Delete evicts the archive for url. Evicting a missing entry is not an
// error.
func (s *Store) Delete(url string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(url))
	})
	if err != nil {
		return fmt.Errorf("evict cached archive %s: %w", url, err)
	}

	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func key(url string) []byte {
	return []byte(keyPrefix + url)
}
