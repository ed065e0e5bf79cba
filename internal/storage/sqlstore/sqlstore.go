// Package sqlstore reads and writes a whole snapshot through database/sql.
// It is shared by the SQLite and PostgreSQL providers.
package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/bium/internal/migration"
	"github.com/julianstephens/bium/internal/models"
)

// ErrNotInitialized is returned by Load when the backend holds no schema yet.
var ErrNotInitialized = errors.New("storage not initialized, run 'bium init' first")

const (
	keyLanguage       = "language"
	keyVaultPath      = "obsidian_vault_path"
	keyDefaultFolder  = "obsidian_default_folder"
	deleteOrderTables = "tasks,queue_templates,queues,settings"
)

// Bind rewrites ? placeholders for the dialect.
func Bind(d migration.Dialect, query string) string {
	if d == migration.DialectSQLite {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(d.Placeholder(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ReadSnapshot loads every table into a snapshot, preserving stored order.
func ReadSnapshot(db *sql.DB) (models.Snapshot, error) {
	snap := models.Snapshot{
		Queues:         []models.Queue{},
		QueueTemplates: []models.QueueTemplate{},
		Tasks:          []models.Task{},
	}

	rows, err := db.Query("SELECT id, title, color FROM queues ORDER BY position")
	if err != nil {
		return snap, fmt.Errorf("failed to query queues: %w", err)
	}
	for rows.Next() {
		q := models.Queue{TaskIDs: []string{}}
		if err := rows.Scan(&q.ID, &q.Title, &q.Color); err != nil {
			rows.Close()
			return snap, fmt.Errorf("failed to scan queue: %w", err)
		}
		snap.Queues = append(snap.Queues, q)
	}
	if err := closeRows(rows); err != nil {
		return snap, err
	}

	rows, err = db.Query("SELECT id, queue_id, day_of_week, start_time, end_time FROM queue_templates ORDER BY position")
	if err != nil {
		return snap, fmt.Errorf("failed to query queue templates: %w", err)
	}
	for rows.Next() {
		var t models.QueueTemplate
		if err := rows.Scan(&t.ID, &t.QueueID, &t.DayOfWeek, &t.StartTime, &t.EndTime); err != nil {
			rows.Close()
			return snap, fmt.Errorf("failed to scan queue template: %w", err)
		}
		snap.QueueTemplates = append(snap.QueueTemplates, t)
	}
	if err := closeRows(rows); err != nil {
		return snap, err
	}

	rows, err = db.Query("SELECT id, title, duration_min, status, assigned_queue_id, completed_at, obsidian_link FROM tasks ORDER BY position")
	if err != nil {
		return snap, fmt.Errorf("failed to query tasks: %w", err)
	}
	queueTasks := make(map[string][]string)
	for rows.Next() {
		var (
			t                          models.Task
			status                     string
			queueID, completed, noteID sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.DurationMinutes, &status, &queueID, &completed, &noteID); err != nil {
			rows.Close()
			return snap, fmt.Errorf("failed to scan task: %w", err)
		}
		t.Status = models.TaskStatus(status)
		t.AssignedQueueID = nullable(queueID)
		t.CompletedAt = nullable(completed)
		t.ObsidianLink = nullable(noteID)
		if t.AssignedQueueID != nil {
			queueTasks[*t.AssignedQueueID] = append(queueTasks[*t.AssignedQueueID], t.ID)
		}
		snap.Tasks = append(snap.Tasks, t)
	}
	if err := closeRows(rows); err != nil {
		return snap, err
	}
	for i := range snap.Queues {
		if ids, ok := queueTasks[snap.Queues[i].ID]; ok {
			snap.Queues[i].TaskIDs = ids
		}
	}

	rows, err = db.Query("SELECT key, value FROM settings")
	if err != nil {
		return snap, fmt.Errorf("failed to query settings: %w", err)
	}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			rows.Close()
			return snap, fmt.Errorf("failed to scan setting: %w", err)
		}
		switch key {
		case keyLanguage:
			snap.Settings.Language = models.Language(value)
		case keyVaultPath:
			snap.Settings.ObsidianVaultPath = &value
		case keyDefaultFolder:
			snap.Settings.ObsidianDefaultFolder = &value
		}
	}
	if err := closeRows(rows); err != nil {
		return snap, err
	}

	return snap, nil
}

// WriteSnapshot replaces all stored rows with snap inside one transaction.
func WriteSnapshot(db *sql.DB, d migration.Dialect, snap models.Snapshot) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range strings.Split(deleteOrderTables, ",") {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	insertQueue := Bind(d, "INSERT INTO queues (id, title, color, position) VALUES (?, ?, ?, ?)")
	for i, q := range snap.Queues {
		if _, err := tx.Exec(insertQueue, q.ID, q.Title, q.Color, i); err != nil {
			return fmt.Errorf("failed to insert queue %s: %w", q.ID, err)
		}
	}

	insertTemplate := Bind(d, "INSERT INTO queue_templates (id, queue_id, day_of_week, start_time, end_time, position) VALUES (?, ?, ?, ?, ?, ?)")
	for i, t := range snap.QueueTemplates {
		if _, err := tx.Exec(insertTemplate, t.ID, t.QueueID, t.DayOfWeek, t.StartTime, t.EndTime, i); err != nil {
			return fmt.Errorf("failed to insert queue template %s: %w", t.ID, err)
		}
	}

	insertTask := Bind(d, `INSERT INTO tasks (id, title, duration_min, status, assigned_queue_id, completed_at, obsidian_link, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	for i, t := range snap.Tasks {
		if _, err := tx.Exec(insertTask, t.ID, t.Title, t.DurationMinutes, string(t.Status),
			nullString(t.AssignedQueueID), nullString(t.CompletedAt), nullString(t.ObsidianLink), i); err != nil {
			return fmt.Errorf("failed to insert task %s: %w", t.ID, err)
		}
	}

	insertSetting := Bind(d, "INSERT INTO settings (key, value) VALUES (?, ?)")
	settings := map[string]*string{
		keyVaultPath:     snap.Settings.ObsidianVaultPath,
		keyDefaultFolder: snap.Settings.ObsidianDefaultFolder,
	}
	lang := string(snap.Settings.Language)
	settings[keyLanguage] = &lang
	for key, value := range settings {
		if value == nil {
			continue
		}
		if _, err := tx.Exec(insertSetting, key, *value); err != nil {
			return fmt.Errorf("failed to save setting %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("failed to iterate rows: %w", err)
	}
	return rows.Close()
}

func nullable(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
