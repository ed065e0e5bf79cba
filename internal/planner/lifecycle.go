package planner

import (
	"fmt"
	"strings"

	"github.com/julianstephens/bium/internal/models"
)

// Task lifecycle:
//
//	inbox --assign--> assigned --complete--> completed
//	  ^                  |  ^                    |
//	  +----unassign------+  +----uncomplete------+
//
// Unassign also applies to completed tasks and discards the completion.
// Assigning a completed task moves it and reopens it.

// AssignToQueue moves the task into queueID. A task already in another
// queue leaves that queue in the same step.
func (s *Store) AssignToQueue(taskID, queueID string) (models.Queue, models.Task, error) {
	ti := s.taskIndex(taskID)
	if ti < 0 {
		return models.Queue{}, models.Task{}, notFound("task", taskID)
	}
	qi := s.queueIndex(queueID)
	if qi < 0 {
		return models.Queue{}, models.Task{}, notFound("queue", queueID)
	}

	t := &s.tasks[ti]
	id := strings.Clone(queueID)
	t.AssignedQueueID = &id
	t.Status = models.TaskStatusAssigned
	t.CompletedAt = nil

	return s.queueView(qi), t.Clone(), nil
}

// UnassignFromQueue sends the task back to the inbox. The task must
// currently belong to queueID.
func (s *Store) UnassignFromQueue(taskID, queueID string) (models.Queue, models.Task, error) {
	ti := s.taskIndex(taskID)
	if ti < 0 {
		return models.Queue{}, models.Task{}, notFound("task", taskID)
	}
	qi := s.queueIndex(queueID)
	if qi < 0 {
		return models.Queue{}, models.Task{}, notFound("queue", queueID)
	}
	t := &s.tasks[ti]
	if t.QueueID() != queueID {
		return models.Queue{}, models.Task{}, fmt.Errorf("%w: task %q is not in queue %q", ErrNotFound, taskID, queueID)
	}

	resetToInbox(t)
	return s.queueView(qi), t.Clone(), nil
}

// Complete marks an assigned task done. Completing a completed task keeps
// the original timestamp.
func (s *Store) Complete(taskID string) (models.Task, error) {
	ti := s.taskIndex(taskID)
	if ti < 0 {
		return models.Task{}, notFound("task", taskID)
	}

	t := &s.tasks[ti]
	switch t.Status {
	case models.TaskStatusInbox:
		return models.Task{}, fmt.Errorf("%w: task %q must be assigned to a queue before it can be completed", ErrInvalidTransition, taskID)
	case models.TaskStatusAssigned:
		t.Status = models.TaskStatusCompleted
		t.CompletedAt = s.timestamp()
	}
	return t.Clone(), nil
}

// Uncomplete clears the completion. The task returns to its queue, or to
// the inbox if it has none.
func (s *Store) Uncomplete(taskID string) (models.Task, error) {
	ti := s.taskIndex(taskID)
	if ti < 0 {
		return models.Task{}, notFound("task", taskID)
	}

	t := &s.tasks[ti]
	t.CompletedAt = nil
	if t.AssignedQueueID != nil {
		t.Status = models.TaskStatusAssigned
	} else {
		t.Status = models.TaskStatusInbox
	}
	return t.Clone(), nil
}

// EmptyAllQueues returns every assigned or completed task to the inbox and
// reports how many were moved.
func (s *Store) EmptyAllQueues() int {
	n := 0
	for i := range s.tasks {
		if s.tasks[i].Status != models.TaskStatusInbox {
			resetToInbox(&s.tasks[i])
			n++
		}
	}
	return n
}

func resetToInbox(t *models.Task) {
	t.Status = models.TaskStatusInbox
	t.AssignedQueueID = nil
	t.CompletedAt = nil
}
