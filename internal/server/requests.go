package server

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
)

type CreateQueueRequest struct {
	Title string `json:"title"`
	Color string `json:"color"`
}

type UpdateQueueRequest struct {
	Title *string `json:"title"`
	Color *string `json:"color"`
}

type MembershipRequest struct {
	TaskID string `json:"taskId"`
}

type EmptyAllResponse struct {
	Message    string `json:"message"`
	TasksReset int    `json:"tasksReset"`
}

type CreateTemplateRequest struct {
	QueueID   string `json:"queueId"`
	DayOfWeek int    `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type UpdateTemplateRequest struct {
	QueueID   *string `json:"queueId"`
	DayOfWeek *int    `json:"dayOfWeek"`
	StartTime *string `json:"startTime"`
	EndTime   *string `json:"endTime"`
}

type CreateTaskRequest struct {
	Title           string `json:"title"`
	DurationMinutes int    `json:"durationMinutes"`
}

type UpdateTaskRequest struct {
	Title           *string        `json:"title"`
	DurationMinutes *int           `json:"durationMinutes"`
	ObsidianLink    nullableString `json:"obsidianLink"`
}

type UpdateSettingsRequest struct {
	Language              *string        `json:"language"`
	ObsidianVaultPath     nullableString `json:"obsidianVaultPath"`
	ObsidianDefaultFolder nullableString `json:"obsidianDefaultFolder"`
}

type CreateNoteRequest struct {
	Title  string  `json:"title"`
	Folder *string `json:"folder"`
}

type CreateNoteResponse struct {
	Path string `json:"path"`
	URI  string `json:"uri"`
}

// nullableString tells an absent field apart from an explicit null.
type nullableString struct {
	Set   bool
	Value *string
}

func (n *nullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

// patch converts the field into the planner's convention: nil leaves the
// value alone and "" clears it.
func (n nullableString) patch() *string {
	if !n.Set {
		return nil
	}
	if n.Value == nil {
		empty := ""
		return &empty
	}
	return n.Value
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return badRequest("invalid request body")
	}
	return nil
}
