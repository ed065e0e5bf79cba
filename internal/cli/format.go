package cli

import (
	"fmt"

	"github.com/julianstephens/bium/internal/capacity"
	"github.com/julianstephens/bium/internal/models"
)

// StatusMark is the one-character marker printed before a task.
func StatusMark(status models.TaskStatus) string {
	switch status {
	case models.TaskStatusCompleted:
		return "✓"
	case models.TaskStatusAssigned:
		return "○"
	default:
		return "·"
	}
}

func FormatTask(t models.Task, showIDs bool) string {
	s := fmt.Sprintf("%s %s (%s)", StatusMark(t.Status), t.Title, capacity.FormatDuration(t.DurationMinutes))
	if t.ObsidianLink != nil {
		s += " 🔗 " + *t.ObsidianLink
	}
	if showIDs {
		s += fmt.Sprintf(" [ID: %s]", t.ID)
	}
	return s
}

func FormatLoad(l capacity.Load) string {
	return fmt.Sprintf("%s of %s (%d%%, %s)",
		capacity.FormatDuration(l.UsedMinutes), capacity.FormatDuration(l.TotalMinutes), l.Percentage, l.Status)
}
