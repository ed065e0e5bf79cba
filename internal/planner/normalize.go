package planner

import (
	"fmt"
	"slices"
	"strings"

	"github.com/julianstephens/bium/internal/constants"
	"github.com/julianstephens/bium/internal/models"
)

// load installs snap, repairing anything that would break an invariant.
// Snapshots written by older versions stored Queue.TaskIDs independently,
// so disagreement with the tasks is reported as well.
func (s *Store) load(snap models.Snapshot) []string {
	var repairs []string
	report := func(format string, args ...any) {
		repairs = append(repairs, fmt.Sprintf(format, args...))
	}

	s.queues = make([]models.Queue, 0, len(snap.Queues))
	storedMembers := map[string][]string{}
	for _, q := range snap.Queues {
		if q.ID == "" || s.queueIndex(q.ID) >= 0 {
			report("dropped duplicate or empty queue id %q", q.ID)
			continue
		}
		if !models.ValidColor(q.Color) {
			report("queue %s: invalid color %q replaced with %s", q.ID, q.Color, constants.DefaultQueueColor)
			q.Color = constants.DefaultQueueColor
		}
		storedMembers[q.ID] = q.TaskIDs
		q.TaskIDs = nil
		s.queues = append(s.queues, q)
	}

	s.templates = make([]models.QueueTemplate, 0, len(snap.QueueTemplates))
	for _, tpl := range snap.QueueTemplates {
		switch {
		case tpl.ID == "" || s.templateIndex(tpl.ID) >= 0:
			report("dropped duplicate or empty queue template id %q", tpl.ID)
			continue
		case s.queueIndex(tpl.QueueID) < 0:
			report("queue template %s: dropped, queue %q does not exist", tpl.ID, tpl.QueueID)
			continue
		}
		if err := validateSlot(tpl); err != nil {
			report("queue template %s: dropped, %v", tpl.ID, err)
			continue
		}
		s.templates = append(s.templates, tpl)
	}

	s.tasks = make([]models.Task, 0, len(snap.Tasks))
	for _, t := range snap.Tasks {
		if t.ID == "" || s.taskIndex(t.ID) >= 0 {
			report("dropped duplicate or empty task id %q", t.ID)
			continue
		}
		s.repairTask(&t, report)
		s.tasks = append(s.tasks, t)
	}

	for _, q := range s.queues {
		want := s.taskIDs(q.ID)
		got := slices.Clone(storedMembers[q.ID])
		slices.Sort(got)
		sorted := slices.Clone(want)
		slices.Sort(sorted)
		if storedMembers[q.ID] != nil && !slices.Equal(got, sorted) {
			report("queue %s: task list rebuilt from task assignments (%s)", q.ID, strings.Join(want, ", "))
		}
	}

	s.settings = snap.Settings
	if s.settings.Language == "" {
		s.settings.Language = models.Language(constants.DefaultLanguage)
	} else if !s.settings.Language.Valid() {
		report("settings: unsupported language %q replaced with %s", s.settings.Language, constants.DefaultLanguage)
		s.settings.Language = models.Language(constants.DefaultLanguage)
	}

	return repairs
}

// repairTask forces the task's status, queue and completion fields to agree.
// The assigned queue id is authoritative when it names a live queue, and
// the status decides whether a completion timestamp is kept.
func (s *Store) repairTask(t *models.Task, report func(string, ...any)) {
	if t.DurationMinutes <= 0 {
		report("task %s: duration %d replaced with %d", t.ID, t.DurationMinutes, constants.DefaultTaskDurationMin)
		t.DurationMinutes = constants.DefaultTaskDurationMin
	}

	if t.AssignedQueueID != nil && s.queueIndex(*t.AssignedQueueID) < 0 {
		report("task %s: queue %q does not exist, moved to inbox", t.ID, *t.AssignedQueueID)
		resetToInbox(t)
		return
	}

	if t.AssignedQueueID == nil {
		if t.Status != models.TaskStatusInbox || t.CompletedAt != nil {
			report("task %s: status %q without a queue, moved to inbox", t.ID, t.Status)
		}
		resetToInbox(t)
		return
	}

	switch t.Status {
	case models.TaskStatusCompleted:
		if t.CompletedAt == nil {
			report("task %s: completed without a timestamp, stamped now", t.ID)
			t.CompletedAt = s.timestamp()
		}
	case models.TaskStatusAssigned:
		if t.CompletedAt != nil {
			report("task %s: assigned task carried a completion timestamp, cleared", t.ID)
			t.CompletedAt = nil
		}
	default:
		report("task %s: status %q in queue %s, marked assigned", t.ID, t.Status, *t.AssignedQueueID)
		t.Status = models.TaskStatusAssigned
		t.CompletedAt = nil
	}
}
