package storage

import (
	"github.com/julianstephens/bium/internal/models"
	"github.com/julianstephens/bium/internal/storage/sqlstore"
)

// ErrNotInitialized is returned by Load when nothing has been stored yet.
var ErrNotInitialized = sqlstore.ErrNotInitialized

// Provider persists the whole snapshot as a unit.
type Provider interface {
	// Lifecycle
	Init() error
	Close() error

	// Snapshot
	Load() (models.Snapshot, error)
	Save(models.Snapshot) error

	// Utils
	GetConfigPath() string
}

// Versioned is implemented by stores with a migrated schema.
type Versioned interface {
	SchemaVersion() (current, latest int, err error)
}
