package planner

import (
	"github.com/julianstephens/bium/internal/constants"
	"github.com/julianstephens/bium/internal/models"
)

// SeedSnapshot returns the starter data written by a fresh init.
func SeedSnapshot() models.Snapshot {
	queue := func(id, title, color string) models.Queue {
		return models.Queue{ID: id, Title: title, Color: color, TaskIDs: []string{}}
	}
	slot := func(id, queueID string, day int, start, end string) models.QueueTemplate {
		return models.QueueTemplate{ID: id, QueueID: queueID, DayOfWeek: day, StartTime: start, EndTime: end}
	}
	task := func(id, title string, minutes int) models.Task {
		return models.Task{ID: id, Title: title, DurationMinutes: minutes, Status: models.TaskStatusInbox}
	}

	return models.Snapshot{
		Queues: []models.Queue{
			queue("q_deepwork", "Deep Work", "#3B82F6"),
			queue("q_admin", "Admin", "#10B981"),
			queue("q_creative", "Creative", "#8B5CF6"),
		},
		QueueTemplates: []models.QueueTemplate{
			slot("qt_001", "q_deepwork", 1, "09:00", "11:00"),
			slot("qt_002", "q_deepwork", 3, "09:00", "11:00"),
			slot("qt_003", "q_deepwork", 5, "09:00", "11:00"),
			slot("qt_004", "q_admin", 2, "14:00", "16:00"),
			slot("qt_005", "q_admin", 4, "14:00", "16:00"),
			slot("qt_006", "q_creative", 1, "14:00", "16:00"),
		},
		Tasks: []models.Task{
			task("t_001", "Write Blog Post", 60),
			task("t_002", "Prepare Presentation", 90),
			task("t_003", "Client Meeting Prep", 45),
			task("t_004", "Review Code", 30),
			task("t_005", "Email Cleanup", 30),
		},
		Settings: models.Settings{Language: models.Language(constants.DefaultLanguage)},
	}
}
