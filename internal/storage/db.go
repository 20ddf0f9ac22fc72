// Package storage provides the database layer for Timeledger.
package storage

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	badger "github.com/dgraph-io/badger/v4"

	"github.com/okulov/timeledger/internal/errors"
)

const (
	// AppName is the application name used for data directories.
	AppName = "timeledger"
)

// DB wraps a Badger database connection.
type DB struct {
	db   *badger.DB
	path string
}

// Options configures the database connection.
type Options struct {
	// Path is the database directory path. Empty string uses in-memory mode.
	Path string
	// InMemory forces in-memory mode regardless of Path.
	InMemory bool
}

// DefaultPath returns the default database path following XDG spec.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, AppName, "db")
}

// DefaultDataDir returns the application data directory. The sync spool
// lives here, next to the database.
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Open opens or creates a database at the given path.
func Open(opts Options) (*DB, error) {
	var badgerOpts badger.Options

	if opts.InMemory || opts.Path == "" {
		// In-memory mode for testing
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
		opts.Path = ""
	} else {
		if err := os.MkdirAll(opts.Path, 0755); err != nil {
			return nil, err
		}
		badgerOpts = badger.DefaultOptions(opts.Path)
	}

	// Reduce logging noise
	badgerOpts = badgerOpts.WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}

	return &DB{db: db, path: opts.Path}, nil
}

// OpenWithIntegrityCheck opens the database and runs a basic integrity
// check before returning it.
func OpenWithIntegrityCheck(opts Options) (*DB, error) {
	db, err := Open(opts)
	if err != nil {
		return nil, err
	}

	if err := db.CheckIntegrity(); err != nil {
		db.Close()
		return nil, errors.NewSystemError("database failed integrity check", err)
	}

	return db, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Path returns the on-disk path of the database. Empty for in-memory mode.
func (d *DB) Path() string {
	return d.path
}

// Badger returns the underlying Badger database for advanced operations.
func (d *DB) Badger() *badger.DB {
	return d.db
}

// CheckIntegrity iterates a sample of keys to detect on-disk corruption.
func (d *DB) CheckIntegrity() error {
	return d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchSize = 10
		it := txn.NewIterator(opts)
		defer it.Close()

		count := 0
		for it.Rewind(); it.Valid() && count < 100; it.Next() {
			if err := it.Item().Value(func([]byte) error { return nil }); err != nil {
				return errors.Wrap(errors.ErrDatabaseCorrupted, err.Error())
			}
			count++
		}
		return nil
	})
}
