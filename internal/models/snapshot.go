package models

// Snapshot is the whole persisted state, read and written as a unit.
type Snapshot struct {
	Queues         []Queue         `json:"queues" yaml:"queues"`
	QueueTemplates []QueueTemplate `json:"queueTemplates" yaml:"queueTemplates"`
	Tasks          []Task          `json:"tasks" yaml:"tasks"`
	Settings       Settings        `json:"settings" yaml:"settings"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	c := Snapshot{
		Queues:         make([]Queue, len(s.Queues)),
		QueueTemplates: append([]QueueTemplate(nil), s.QueueTemplates...),
		Tasks:          make([]Task, len(s.Tasks)),
		Settings:       s.Settings.Clone(),
	}
	for i, q := range s.Queues {
		q.TaskIDs = append([]string(nil), q.TaskIDs...)
		c.Queues[i] = q
	}
	for i, t := range s.Tasks {
		c.Tasks[i] = t.Clone()
	}
	if c.QueueTemplates == nil {
		c.QueueTemplates = []QueueTemplate{}
	}
	return c
}

// IsEmpty reports whether the snapshot holds no queues, templates or tasks.
func (s Snapshot) IsEmpty() bool {
	return len(s.Queues) == 0 && len(s.QueueTemplates) == 0 && len(s.Tasks) == 0
}
