package storage

import (
	"path/filepath"
	"strings"

	"github.com/julianstephens/bium/internal/storage/postgres"
	"github.com/julianstephens/bium/internal/storage/sqlite"
)

// Backend names the kind of store a target resolves to.
type Backend string

const (
	BackendJSON     Backend = "json"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// Detect picks a backend from the shape of target: a PostgreSQL URL,
// a .db/.sqlite file, or anything else as a JSON document.
func Detect(target string) Backend {
	if postgres.IsConnString(target) {
		return BackendPostgres
	}
	switch strings.ToLower(filepath.Ext(target)) {
	case ".db", ".sqlite", ".sqlite3":
		return BackendSQLite
	}
	return BackendJSON
}

// Open returns the provider for target without touching the backend.
func Open(target string) Provider {
	switch Detect(target) {
	case BackendPostgres:
		return postgres.New(target)
	case BackendSQLite:
		return sqlite.NewStore(target)
	default:
		return NewJSONStore(target)
	}
}
