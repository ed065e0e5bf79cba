package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/bium/internal/capacity"
	"github.com/julianstephens/bium/internal/models"
	"github.com/julianstephens/bium/internal/planner"
	"github.com/julianstephens/bium/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictOverlappingTemplates ConflictType = "overlapping_templates"
	ConflictOvercommitted        ConflictType = "overcommitted"
	ConflictDuplicateTaskName    ConflictType = "duplicate_task_name"
	ConflictDuplicateQueueName   ConflictType = "duplicate_queue_name"
	ConflictUnscheduledQueue     ConflictType = "unscheduled_queue"
)

// Conflict represents a detected problem in the stored plan
type Conflict struct {
	Type        ConflictType `json:"type"`
	Description string       `json:"description"`
	DayOfWeek   int          `json:"dayOfWeek,omitempty"`
	Items       []string     `json:"items"`
	IDs         []string     `json:"ids"`
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict `json:"conflicts"`
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks a store for scheduling problems that the store itself
// allows: overlapping blocks, overfull queues and confusable names.
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// Validate runs every check against store.
func (v *Validator) Validate(store *planner.Store) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	queues := store.Queues()

	result.Conflicts = append(result.Conflicts, v.overlappingTemplates(store.QueueTemplates(), queueTitles(queues))...)

	for _, q := range queues {
		load, err := store.QueueLoad(q.ID)
		if err != nil {
			continue
		}
		if load.Status == capacity.StatusDanger {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type: ConflictOvercommitted,
				Description: fmt.Sprintf("Queue \"%s\" is over capacity: %s planned for %s (%d%%)",
					q.Title, capacity.FormatDuration(load.UsedMinutes), capacity.FormatDuration(load.TotalMinutes), load.Percentage),
				Items: []string{q.Title},
				IDs:   []string{q.ID},
			})
		}
		if len(store.TemplatesForQueue(q.ID)) == 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictUnscheduledQueue,
				Description: fmt.Sprintf("Queue \"%s\" has no time blocks in the week", q.Title),
				Items:       []string{q.Title},
				IDs:         []string{q.ID},
			})
		}
	}

	queueNames := make(map[string][]string)
	for _, q := range queues {
		queueNames[normalizeName(q.Title)] = append(queueNames[normalizeName(q.Title)], q.ID)
	}
	result.Conflicts = append(result.Conflicts, duplicates(queueNames, ConflictDuplicateQueueName, "queue")...)

	taskNames := make(map[string][]string)
	for _, t := range store.Tasks() {
		if !t.Active() {
			continue
		}
		taskNames[normalizeName(t.Title)] = append(taskNames[normalizeName(t.Title)], t.ID)
	}
	result.Conflicts = append(result.Conflicts, duplicates(taskNames, ConflictDuplicateTaskName, "task")...)

	return result
}

// overlappingTemplates reports every pair of blocks on the same day whose
// time ranges intersect.
func (v *Validator) overlappingTemplates(templates []models.QueueTemplate, titles map[string]string) []Conflict {
	byDay := make(map[int][]models.QueueTemplate)
	for _, t := range templates {
		byDay[t.DayOfWeek] = append(byDay[t.DayOfWeek], t)
	}

	var conflicts []Conflict
	for day := 1; day <= 5; day++ {
		slots := byDay[day]
		sort.Slice(slots, func(i, j int) bool {
			return slots[i].StartTime < slots[j].StartTime
		})
		for i := 0; i < len(slots); i++ {
			for j := i + 1; j < len(slots) && slots[j].StartTime < slots[i].EndTime; j++ {
				a, b := slots[i], slots[j]
				conflicts = append(conflicts, Conflict{
					Type: ConflictOverlappingTemplates,
					Description: fmt.Sprintf("%s: \"%s\" (%s-%s) overlaps \"%s\" (%s-%s)",
						utils.DayName(day), titles[a.QueueID], a.StartTime, a.EndTime, titles[b.QueueID], b.StartTime, b.EndTime),
					DayOfWeek: day,
					Items:     []string{titles[a.QueueID], titles[b.QueueID]},
					IDs:       []string{a.ID, b.ID},
				})
			}
		}
	}
	return conflicts
}

func duplicates(names map[string][]string, kind ConflictType, label string) []Conflict {
	keys := make([]string, 0, len(names))
	for name, ids := range names {
		if name != "" && len(ids) > 1 {
			keys = append(keys, name)
		}
	}
	sort.Strings(keys)

	conflicts := make([]Conflict, 0, len(keys))
	for _, name := range keys {
		ids := names[name]
		conflicts = append(conflicts, Conflict{
			Type:        kind,
			Description: fmt.Sprintf("Duplicate %s name: \"%s\" (IDs: %v)", label, name, ids),
			Items:       []string{name},
			IDs:         ids,
		})
	}
	return conflicts
}

func queueTitles(queues []models.Queue) map[string]string {
	titles := make(map[string]string, len(queues))
	for _, q := range queues {
		titles[q.ID] = q.Title
	}
	return titles
}

func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
