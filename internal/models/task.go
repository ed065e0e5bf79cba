package models

type TaskStatus string

const (
	TaskStatusInbox     TaskStatus = "inbox"
	TaskStatusAssigned  TaskStatus = "assigned"
	TaskStatusCompleted TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusInbox, TaskStatusAssigned, TaskStatusCompleted:
		return true
	}
	return false
}

type Task struct {
	ID              string     `json:"id" yaml:"id"`
	Title           string     `json:"title" yaml:"title"`
	DurationMinutes int        `json:"durationMinutes" yaml:"durationMinutes"`
	Status          TaskStatus `json:"status" yaml:"status"`
	AssignedQueueID *string    `json:"assignedQueueId" yaml:"assignedQueueId"`
	CompletedAt     *string    `json:"completedAt" yaml:"completedAt"`  // ISO-8601 timestamp
	ObsidianLink    *string    `json:"obsidianLink" yaml:"obsidianLink"` // vault-relative note path, passed through unvalidated
}

// QueueID returns the assigned queue id or "" for inbox tasks.
func (t Task) QueueID() string {
	if t.AssignedQueueID == nil {
		return ""
	}
	return *t.AssignedQueueID
}

// Active reports whether the task counts against queue capacity.
func (t Task) Active() bool {
	return t.Status != TaskStatusCompleted
}

// Clone returns a copy that shares no pointers with t.
func (t Task) Clone() Task {
	c := t
	c.AssignedQueueID = cloneString(t.AssignedQueueID)
	c.CompletedAt = cloneString(t.CompletedAt)
	c.ObsidianLink = cloneString(t.ObsidianLink)
	return c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
