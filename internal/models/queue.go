package models

import "regexp"

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Queue is a named category of work. TaskIDs is derived from the tasks
// assigned to it and is never stored independently.
type Queue struct {
	ID      string   `json:"id" yaml:"id"`
	Title   string   `json:"title" yaml:"title"`
	Color   string   `json:"color" yaml:"color"`
	TaskIDs []string `json:"taskIds" yaml:"taskIds"`
}

// QueueTemplate places a queue onto a weekly time slot.
type QueueTemplate struct {
	ID        string `json:"id" yaml:"id"`
	QueueID   string `json:"queueId" yaml:"queueId"`
	DayOfWeek int    `json:"dayOfWeek" yaml:"dayOfWeek"` // 1=Monday ... 5=Friday
	StartTime string `json:"startTime" yaml:"startTime"` // HH:MM
	EndTime   string `json:"endTime" yaml:"endTime"`   // HH:MM
}

// ValidColor reports whether c is a #RRGGBB hex color.
func ValidColor(c string) bool {
	return colorPattern.MatchString(c)
}
