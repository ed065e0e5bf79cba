package planner

import (
	"strings"

	"github.com/julianstephens/bium/internal/constants"
	"github.com/julianstephens/bium/internal/models"
)

// QueuePatch changes a queue's presentation. Nil fields are left alone.
type QueuePatch struct {
	Title *string
	Color *string
}

// Queues returns every queue in creation order.
func (s *Store) Queues() []models.Queue {
	out := make([]models.Queue, len(s.queues))
	for i := range s.queues {
		out[i] = s.queueView(i)
	}
	return out
}

func (s *Store) Queue(id string) (models.Queue, error) {
	i := s.queueIndex(id)
	if i < 0 {
		return models.Queue{}, notFound("queue", id)
	}
	return s.queueView(i), nil
}

// CreateQueue adds an empty queue. An empty color falls back to the default.
func (s *Store) CreateQueue(title, color string) (models.Queue, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Queue{}, invalid("queue title is required")
	}
	if color == "" {
		color = constants.DefaultQueueColor
	}
	if !models.ValidColor(color) {
		return models.Queue{}, invalid("color %q must be #RRGGBB", color)
	}

	q := models.Queue{
		ID:    s.uniqueID(constants.QueueIDPrefix, func(id string) bool { return s.queueIndex(id) >= 0 }),
		Title: title,
		Color: color,
	}
	s.queues = append(s.queues, q)
	return s.queueView(len(s.queues) - 1), nil
}

func (s *Store) UpdateQueue(id string, patch QueuePatch) (models.Queue, error) {
	i := s.queueIndex(id)
	if i < 0 {
		return models.Queue{}, notFound("queue", id)
	}

	q := s.queues[i]
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return models.Queue{}, invalid("queue title cannot be empty")
		}
		q.Title = title
	}
	if patch.Color != nil {
		if !models.ValidColor(*patch.Color) {
			return models.Queue{}, invalid("color %q must be #RRGGBB", *patch.Color)
		}
		q.Color = *patch.Color
	}

	s.queues[i] = q
	return s.queueView(i), nil
}

// DeleteQueue removes the queue, drops its templates and sends its tasks
// back to the inbox, discarding any completion.
func (s *Store) DeleteQueue(id string) error {
	i := s.queueIndex(id)
	if i < 0 {
		return notFound("queue", id)
	}

	kept := s.templates[:0]
	for _, tpl := range s.templates {
		if tpl.QueueID != id {
			kept = append(kept, tpl)
		}
	}
	s.templates = kept

	for j := range s.tasks {
		if s.tasks[j].QueueID() == id {
			resetToInbox(&s.tasks[j])
		}
	}

	s.queues = append(s.queues[:i], s.queues[i+1:]...)
	return nil
}
