// Package sqlite implements the override store: transform overrides that a
// user committed for catalog parts.
//
// overrides.jsonl in the data directory is the source of truth. On Attach it
// is loaded into a fresh SQLite database, which then serves lookups; every
// write goes to SQLite and is persisted back to the JSONL file atomically.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/configurator/pkg/types"
)

// File names inside the data directory.
const (
	dbFileName         = "overrides.db"
	overridesJSONLName = "overrides.jsonl"
)

// Backend is the SQLite-backed override store.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	dataDir  string
	db       *sql.DB
}

// NewBackend creates a new, detached backend. Call Attach before use.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach opens the store in config.DataDir, creating the directory and the
// JSONL file if needed, and loads existing overrides into SQLite.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	// SQLite is only a query cache over the JSONL file; start it fresh.
	dbPath := filepath.Join(dataDir, dbFileName)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return fmt.Errorf("creating schema: %w", err)
	}

	if err := initJSONLFile(filepath.Join(dataDir, overridesJSONLName)); err != nil {
		db.Close()
		return err
	}
	if err := loadOverridesJSONL(db, dataDir); err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.db = db
	b.dataDir = dataDir
	b.attached = true
	return nil
}

// Detach closes the database. It is idempotent; after Detach every
// operation returns ErrStoreDetached.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// DataDir returns the directory the store is attached to.
func (b *Backend) DataDir() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dataDir
}

// generateUUID generates a new UUID v7 for override IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
