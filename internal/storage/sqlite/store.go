package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/bium/internal/logger"
	"github.com/julianstephens/bium/internal/migration"
	"github.com/julianstephens/bium/internal/models"
	"github.com/julianstephens/bium/internal/storage/sqlstore"
	"github.com/julianstephens/bium/migrations"
)

type Store struct {
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

func (s *Store) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := s.open(); err != nil {
		return err
	}

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Load() (models.Snapshot, error) {
	if s.db == nil {
		if _, err := os.Stat(s.path); os.IsNotExist(err) {
			return models.Snapshot{}, sqlstore.ErrNotInitialized
		}
		if err := s.open(); err != nil {
			return models.Snapshot{}, err
		}
	}

	runner, err := s.runner()
	if err != nil {
		return models.Snapshot{}, err
	}
	version, err := runner.GetCurrentVersion()
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to read schema version: %w", err)
	}
	if version == 0 {
		return models.Snapshot{}, sqlstore.ErrNotInitialized
	}
	if err := runner.ValidateVersion(); err != nil {
		return models.Snapshot{}, err
	}

	return sqlstore.ReadSnapshot(s.db)
}

func (s *Store) Save(snap models.Snapshot) error {
	if s.db == nil {
		return fmt.Errorf("storage not loaded")
	}
	return sqlstore.WriteSnapshot(s.db, migration.DialectSQLite, snap)
}

// SchemaVersion reports the applied and the embedded migration versions.
func (s *Store) SchemaVersion() (current, latest int, err error) {
	if s.db == nil {
		if _, err := os.Stat(s.path); os.IsNotExist(err) {
			return 0, 0, sqlstore.ErrNotInitialized
		}
		if err := s.open(); err != nil {
			return 0, 0, err
		}
	}
	runner, err := s.runner()
	if err != nil {
		return 0, 0, err
	}
	if current, err = runner.GetCurrentVersion(); err != nil {
		return 0, 0, err
	}
	if latest, err = runner.GetLatestVersion(); err != nil {
		return 0, 0, err
	}
	return current, latest, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}

func (s *Store) open() error {
	if s.db != nil {
		return nil
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps writes serialised and avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	s.db = db
	return nil
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS, migration.DialectSQLite), nil
}

func (s *Store) runMigrations() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	_, err = runner.ApplyMigrations(func(msg string) {
		logger.Info(msg)
	})
	return err
}
