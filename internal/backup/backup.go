package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/bium/internal/constants"
	"github.com/julianstephens/bium/internal/logger"
	"github.com/julianstephens/bium/internal/models"
)

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager writes snapshot backups as JSON documents, independent of the
// storage backend, and keeps at most maxBackups of them.
type Manager struct {
	backupDir  string
	maxBackups int
	now        func() time.Time
}

// NewManager creates a new backup manager
func NewManager(backupDir string, maxBackups int) *Manager {
	if maxBackups <= 0 {
		maxBackups = constants.MaxBackups
	}
	return &Manager{
		backupDir:  backupDir,
		maxBackups: maxBackups,
		now:        time.Now,
	}
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

// CreateBackup writes snap to a new timestamped backup file and rotates old ones.
func (m *Manager) CreateBackup(snap models.Snapshot) (string, error) {
	return m.createBackup(snap, false)
}

// skipRotation is used for the safety copy taken before a restore
func (m *Manager) createBackup(snap models.Snapshot, skipRotation bool) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	backupPath, err := m.nextPath()
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(snap.Clone(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize snapshot: %w", err)
	}
	if err := os.WriteFile(backupPath, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			// Log error but don't fail the backup operation
			logger.Warn("Failed to rotate old backups", "error", err)
		}
	}

	return backupPath, nil
}

// nextPath picks an unused file name, minute precision first, then seconds,
// then a counter.
func (m *Manager) nextPath() (string, error) {
	now := m.now()
	build := func(stamp string) string {
		return filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
	}

	backupPath := build(now.Format("20060102-1504"))
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return backupPath, nil
	}

	stamp := now.Format("20060102-150405")
	backupPath = build(stamp)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(backupPath); os.IsNotExist(err) {
			return backupPath, nil
		}
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		backupPath = build(fmt.Sprintf("%s-%d", stamp, counter))
	}
}

// ListBackups returns a list of all available backups, sorted by timestamp (newest first)
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	if _, err := os.Stat(m.backupDir); os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}

	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		timestamp, ok := parseName(name)
		if !ok {
			continue
		}

		path := filepath.Join(m.backupDir, name)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}

		backups = append(backups, BackupInfo{
			Path:      path,
			Timestamp: timestamp,
			Size:      info.Size(),
		})
	}

	// Sort by timestamp, newest first
	sort.Slice(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Path > backups[j].Path
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})

	return backups, nil
}

// parseName extracts the timestamp from a backup file name. A trailing
// "-N" collision counter is ignored.
func parseName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)

	parts := strings.Split(stamp, "-")
	if len(parts) == 3 && isDigits(parts[2]) {
		stamp = parts[0] + "-" + parts[1]
	}

	for _, layout := range []string{"20060102-1504", "20060102-150405"} {
		if ts, err := time.ParseInLocation(layout, stamp, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// rotateBackups removes old backups beyond the retention limit
func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}

	for i := m.maxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// Resolve turns a backup name or path into a path. Bare file names are
// looked up in the backup directory.
func (m *Manager) Resolve(nameOrPath string) string {
	if filepath.Base(nameOrPath) == nameOrPath {
		return filepath.Join(m.backupDir, nameOrPath)
	}
	return nameOrPath
}

// LoadBackup reads and parses a backup file.
func (m *Manager) LoadBackup(backupPath string) (models.Snapshot, error) {
	data, err := os.ReadFile(backupPath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Snapshot{}, fmt.Errorf("backup file does not exist: %s", backupPath)
		}
		return models.Snapshot{}, fmt.Errorf("failed to read backup: %w", err)
	}
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return models.Snapshot{}, fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}
	return snap, nil
}

// Restorer replaces the live state with a snapshot.
type Restorer interface {
	Snapshot() models.Snapshot
	Replace(models.Snapshot) ([]string, error)
}

// RestoreBackup loads backupPath and hands it to target, after saving the
// current state as a safety backup. The safety copy's path is returned.
func (m *Manager) RestoreBackup(target Restorer, backupPath string) (string, error) {
	snap, err := m.LoadBackup(backupPath)
	if err != nil {
		return "", err
	}

	current, err := m.createBackup(target.Snapshot(), true)
	if err != nil {
		return "", fmt.Errorf("failed to backup current data before restore: %w", err)
	}

	repairs, err := target.Replace(snap)
	if err != nil {
		return current, fmt.Errorf("failed to restore backup: %w", err)
	}
	for _, r := range repairs {
		logger.Warn("Repaired restored data", "repair", r)
	}
	return current, nil
}
