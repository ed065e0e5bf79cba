package planner

import (
	"strings"

	"github.com/julianstephens/bium/internal/constants"
	"github.com/julianstephens/bium/internal/models"
)

// TaskPatch edits a task's descriptive fields. Lifecycle fields can only be
// changed through the assign, unassign, complete and uncomplete operations.
// An ObsidianLink pointing at "" removes the link.
type TaskPatch struct {
	Title           *string
	DurationMinutes *int
	ObsidianLink    *string
}

func (s *Store) Tasks() []models.Task {
	out := make([]models.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

// InboxTasks returns the tasks that are not assigned to any queue.
func (s *Store) InboxTasks() []models.Task {
	out := []models.Task{}
	for _, t := range s.tasks {
		if t.Status == models.TaskStatusInbox {
			out = append(out, t.Clone())
		}
	}
	return out
}

// TasksForQueue returns the tasks assigned to queueID, completed included.
func (s *Store) TasksForQueue(queueID string) []models.Task {
	out := []models.Task{}
	for _, t := range s.tasks {
		if t.QueueID() == queueID {
			out = append(out, t.Clone())
		}
	}
	return out
}

func (s *Store) Task(id string) (models.Task, error) {
	i := s.taskIndex(id)
	if i < 0 {
		return models.Task{}, notFound("task", id)
	}
	return s.tasks[i].Clone(), nil
}

// CreateTask adds a task to the inbox. A zero duration means the default.
func (s *Store) CreateTask(title string, durationMinutes int) (models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Task{}, invalid("task title is required")
	}
	if durationMinutes == 0 {
		durationMinutes = constants.DefaultTaskDurationMin
	}
	if durationMinutes < 0 {
		return models.Task{}, invalid("durationMinutes must be positive, got %d", durationMinutes)
	}

	t := models.Task{
		ID:              s.uniqueID(constants.TaskIDPrefix, func(id string) bool { return s.taskIndex(id) >= 0 }),
		Title:           title,
		DurationMinutes: durationMinutes,
		Status:          models.TaskStatusInbox,
	}
	s.tasks = append(s.tasks, t)
	return t.Clone(), nil
}

func (s *Store) UpdateTask(id string, patch TaskPatch) (models.Task, error) {
	i := s.taskIndex(id)
	if i < 0 {
		return models.Task{}, notFound("task", id)
	}

	t := s.tasks[i].Clone()
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return models.Task{}, invalid("task title cannot be empty")
		}
		t.Title = title
	}
	if patch.DurationMinutes != nil {
		if *patch.DurationMinutes <= 0 {
			return models.Task{}, invalid("durationMinutes must be positive, got %d", *patch.DurationMinutes)
		}
		t.DurationMinutes = *patch.DurationMinutes
	}
	if patch.ObsidianLink != nil {
		if *patch.ObsidianLink == "" {
			t.ObsidianLink = nil
		} else {
			link := *patch.ObsidianLink
			t.ObsidianLink = &link
		}
	}

	s.tasks[i] = t
	return t.Clone(), nil
}

// DeleteTask removes the task. Queue membership disappears with it.
func (s *Store) DeleteTask(id string) error {
	i := s.taskIndex(id)
	if i < 0 {
		return notFound("task", id)
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return nil
}
