// Package service is the transaction boundary around the planner. Every
// operation runs under one mutex; a mutation that succeeds in memory is
// persisted before it is reported, and rolled back if persisting fails.
package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/bium/internal/capacity"
	"github.com/julianstephens/bium/internal/logger"
	"github.com/julianstephens/bium/internal/models"
	"github.com/julianstephens/bium/internal/planner"
	"github.com/julianstephens/bium/internal/storage"
	"github.com/julianstephens/bium/internal/utils"
)

// PersistenceError reports that an operation succeeded in memory but its
// snapshot could not be saved. The in-memory state has been rolled back.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

type Service struct {
	mu          sync.Mutex
	store       *planner.Store
	provider    storage.Provider
	plannerOpts []planner.Option
	beforeWrite func(op string) error
	now         func() time.Time
}

type Option func(*Service)

// WithPlannerOptions forwards options to every planner.Store the service builds.
func WithPlannerOptions(opts ...planner.Option) Option {
	return func(s *Service) { s.plannerOpts = append(s.plannerOpts, opts...) }
}

// WithBeforeWrite installs a check run before every mutation. A non-nil
// error aborts the mutation untouched.
func WithBeforeWrite(fn func(op string) error) Option {
	return func(s *Service) { s.beforeWrite = fn }
}

// WithClock sets the clock used for week views.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
		s.plannerOpts = append(s.plannerOpts, planner.WithClock(now))
	}
}

// New loads the provider's snapshot. Repairs made while normalising it are
// returned and, when there are any, the repaired snapshot is saved back.
func New(provider storage.Provider, opts ...Option) (*Service, []string, error) {
	s := &Service{
		provider: provider,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	snap, err := provider.Load()
	if err != nil {
		return nil, nil, err
	}

	store, repairs := planner.New(snap, s.plannerOpts...)
	s.store = store
	for _, r := range repairs {
		logger.Warn("Repaired stored data", "repair", r)
	}
	if len(repairs) > 0 {
		if err := provider.Save(store.Snapshot()); err != nil {
			return nil, repairs, &PersistenceError{Op: "repaired snapshot", Err: err}
		}
	}
	return s, repairs, nil
}

// Provider returns the backing storage provider.
func (s *Service) Provider() storage.Provider {
	return s.provider
}

// Close closes the storage provider.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.provider.Close()
}

func read[T any](s *Service, fn func(*planner.Store) T) T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.store)
}

func mutate[T any](s *Service, op string, fn func(*planner.Store) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	if s.beforeWrite != nil {
		if err := s.beforeWrite(op); err != nil {
			return zero, err
		}
	}

	before := s.store.Snapshot()
	result, err := fn(s.store)
	if err != nil {
		logger.Debug("Operation rejected", "op", op, "error", err)
		return zero, err
	}

	if err := s.provider.Save(s.store.Snapshot()); err != nil {
		s.store, _ = planner.New(before, s.plannerOpts...)
		logger.Error("Failed to persist snapshot, rolled back", "op", op, "error", err)
		return zero, &PersistenceError{Op: op, Err: err}
	}
	logger.Debug("Operation committed", "op", op)
	return result, nil
}

// Snapshot returns a consistent copy of the whole state.
func (s *Service) Snapshot() models.Snapshot {
	return read(s, (*planner.Store).Snapshot)
}

// Replace swaps the whole state for snap, as import and restore do. The
// snapshot is normalised first; the repairs are returned.
func (s *Service) Replace(snap models.Snapshot) ([]string, error) {
	return mutate(s, "replace", func(p *planner.Store) ([]string, error) {
		next, repairs := planner.New(snap, s.plannerOpts...)
		*p = *next
		return repairs, nil
	})
}

func (s *Service) Queues() []models.Queue {
	return read(s, (*planner.Store).Queues)
}

func (s *Service) Queue(id string) (models.Queue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Queue(id)
}

func (s *Service) QueueLoad(id string) (capacity.Load, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.QueueLoad(id)
}

func (s *Service) CreateQueue(title, color string) (models.Queue, error) {
	return mutate(s, "create queue", func(p *planner.Store) (models.Queue, error) {
		return p.CreateQueue(title, color)
	})
}

func (s *Service) UpdateQueue(id string, patch planner.QueuePatch) (models.Queue, error) {
	return mutate(s, "update queue", func(p *planner.Store) (models.Queue, error) {
		return p.UpdateQueue(id, patch)
	})
}

func (s *Service) DeleteQueue(id string) error {
	_, err := mutate(s, "delete queue", func(p *planner.Store) (struct{}, error) {
		return struct{}{}, p.DeleteQueue(id)
	})
	return err
}

func (s *Service) QueueTemplates() []models.QueueTemplate {
	return read(s, (*planner.Store).QueueTemplates)
}

func (s *Service) QueueTemplate(id string) (models.QueueTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.QueueTemplate(id)
}

func (s *Service) TemplatesForQueue(queueID string) []models.QueueTemplate {
	return read(s, func(p *planner.Store) []models.QueueTemplate {
		return p.TemplatesForQueue(queueID)
	})
}

func (s *Service) CreateQueueTemplate(queueID string, dayOfWeek int, start, end string) (models.QueueTemplate, error) {
	return mutate(s, "create queue template", func(p *planner.Store) (models.QueueTemplate, error) {
		return p.CreateQueueTemplate(queueID, dayOfWeek, start, end)
	})
}

func (s *Service) UpdateQueueTemplate(id string, patch planner.TemplatePatch) (models.QueueTemplate, error) {
	return mutate(s, "update queue template", func(p *planner.Store) (models.QueueTemplate, error) {
		return p.UpdateQueueTemplate(id, patch)
	})
}

func (s *Service) DeleteQueueTemplate(id string) error {
	_, err := mutate(s, "delete queue template", func(p *planner.Store) (struct{}, error) {
		return struct{}{}, p.DeleteQueueTemplate(id)
	})
	return err
}

func (s *Service) Tasks() []models.Task {
	return read(s, (*planner.Store).Tasks)
}

func (s *Service) InboxTasks() []models.Task {
	return read(s, (*planner.Store).InboxTasks)
}

func (s *Service) TasksForQueue(queueID string) []models.Task {
	return read(s, func(p *planner.Store) []models.Task {
		return p.TasksForQueue(queueID)
	})
}

func (s *Service) Task(id string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Task(id)
}

func (s *Service) CreateTask(title string, durationMinutes int) (models.Task, error) {
	return mutate(s, "create task", func(p *planner.Store) (models.Task, error) {
		return p.CreateTask(title, durationMinutes)
	})
}

func (s *Service) UpdateTask(id string, patch planner.TaskPatch) (models.Task, error) {
	return mutate(s, "update task", func(p *planner.Store) (models.Task, error) {
		return p.UpdateTask(id, patch)
	})
}

func (s *Service) DeleteTask(id string) error {
	_, err := mutate(s, "delete task", func(p *planner.Store) (struct{}, error) {
		return struct{}{}, p.DeleteTask(id)
	})
	return err
}

// Membership is the pair returned by assign and unassign.
type Membership struct {
	Queue models.Queue `json:"queue"`
	Task  models.Task  `json:"task"`
}

func (s *Service) AssignToQueue(taskID, queueID string) (Membership, error) {
	return mutate(s, "assign task", func(p *planner.Store) (Membership, error) {
		q, t, err := p.AssignToQueue(taskID, queueID)
		return Membership{Queue: q, Task: t}, err
	})
}

func (s *Service) UnassignFromQueue(taskID, queueID string) (Membership, error) {
	return mutate(s, "unassign task", func(p *planner.Store) (Membership, error) {
		q, t, err := p.UnassignFromQueue(taskID, queueID)
		return Membership{Queue: q, Task: t}, err
	})
}

func (s *Service) Complete(taskID string) (models.Task, error) {
	return mutate(s, "complete task", func(p *planner.Store) (models.Task, error) {
		return p.Complete(taskID)
	})
}

func (s *Service) Uncomplete(taskID string) (models.Task, error) {
	return mutate(s, "uncomplete task", func(p *planner.Store) (models.Task, error) {
		return p.Uncomplete(taskID)
	})
}

func (s *Service) EmptyAllQueues() (int, error) {
	return mutate(s, "empty all queues", func(p *planner.Store) (int, error) {
		return p.EmptyAllQueues(), nil
	})
}

func (s *Service) Settings() models.Settings {
	return read(s, (*planner.Store).Settings)
}

func (s *Service) UpdateSettings(patch planner.SettingsPatch) (models.Settings, error) {
	return mutate(s, "update settings", func(p *planner.Store) (models.Settings, error) {
		return p.UpdateSettings(patch)
	})
}

// Week is the current Monday-to-Friday plan.
type Week struct {
	WeekKey string            `json:"weekKey"`
	Days    []planner.DayPlan `json:"days"`
}

func (s *Service) Week() Week {
	now := s.now()
	days := utils.WeekDates(now)
	return Week{
		WeekKey: utils.WeekKey(now),
		Days:    read(s, func(p *planner.Store) []planner.DayPlan { return p.WeekPlan(days) }),
	}
}
