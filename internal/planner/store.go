// Package planner is the in-memory scheduling store: queues, their weekly
// templates, tasks and the task lifecycle. It performs no I/O; callers load
// a snapshot into it and persist the snapshot it returns.
package planner

import (
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/bium/internal/constants"
	"github.com/julianstephens/bium/internal/models"
	"github.com/julianstephens/bium/internal/utils"
)

// Store holds the entity collections. Queue.TaskIDs is never stored; it is
// rebuilt from Task.AssignedQueueID on every read. A Store is not safe for
// concurrent use.
type Store struct {
	queues    []models.Queue
	templates []models.QueueTemplate
	tasks     []models.Task
	settings  models.Settings

	newID func(prefix string) string
	now   func() time.Time
}

type Option func(*Store)

// WithClock sets the clock used for completion timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the random id source. Generated ids that collide
// with an existing id are retried.
func WithIDGenerator(gen func(prefix string) string) Option {
	return func(s *Store) { s.newID = gen }
}

// RandomID returns prefix followed by the first 8 hex characters of a v4 UUID.
func RandomID(prefix string) string {
	return prefix + uuid.NewString()[:constants.IDSuffixLength]
}

// New builds a store from snap. The snapshot is normalised so every
// invariant holds; each repair made is described in the returned slice.
func New(snap models.Snapshot, opts ...Option) (*Store, []string) {
	s := &Store{
		newID: RandomID,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	repairs := s.load(snap.Clone())
	return s, repairs
}

// Empty returns a store with no entities and default settings.
func Empty(opts ...Option) *Store {
	s, _ := New(models.Snapshot{}, opts...)
	return s
}

// Snapshot returns a deep copy of the full state with Queue.TaskIDs filled in.
func (s *Store) Snapshot() models.Snapshot {
	snap := models.Snapshot{
		Queues:         s.Queues(),
		QueueTemplates: s.QueueTemplates(),
		Tasks:          s.Tasks(),
		Settings:       s.settings.Clone(),
	}
	return snap
}

func (s *Store) uniqueID(prefix string, taken func(string) bool) string {
	for {
		id := s.newID(prefix)
		if !taken(id) {
			return id
		}
	}
}

func (s *Store) queueIndex(id string) int {
	for i := range s.queues {
		if s.queues[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) templateIndex(id string) int {
	for i := range s.templates {
		if s.templates[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) taskIndex(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// taskIDs lists, in task collection order, the tasks assigned to queueID.
func (s *Store) taskIDs(queueID string) []string {
	ids := []string{}
	for _, t := range s.tasks {
		if t.QueueID() == queueID {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

func (s *Store) queueView(i int) models.Queue {
	q := s.queues[i]
	q.TaskIDs = s.taskIDs(q.ID)
	return q
}

func (s *Store) timestamp() *string {
	ts := utils.FormatTimestamp(s.now())
	return &ts
}
