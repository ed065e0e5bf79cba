package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/bium/internal/capacity"
	"github.com/julianstephens/bium/internal/config"
	"github.com/julianstephens/bium/internal/models"
	"github.com/julianstephens/bium/internal/service"
	"github.com/julianstephens/bium/internal/storage"
)

var fixedNow = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

// flakyStore is a JSON store whose Save can be switched to fail.
type flakyStore struct {
	*storage.JSONStore
	fail bool
}

func (f *flakyStore) Save(snap models.Snapshot) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.JSONStore.Save(snap)
}

func testConfig() config.ServerConfig {
	return config.ServerConfig{CORSOrigins: "*"}
}

func newTestServer(t *testing.T, cfg config.ServerConfig) (*Server, *flakyStore) {
	t.Helper()
	store := &flakyStore{JSONStore: storage.NewJSONStore(filepath.Join(t.TempDir(), "db.json"))}
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	svc, _, err := service.New(store, service.WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("service.New failed: %v", err)
	}
	return New(svc, cfg, WithClock(func() time.Time { return fixedNow })), store
}

func doRequest(t *testing.T, s *Server, method, path string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = strings.NewReader(b)
		default:
			raw, err := json.Marshal(b)
			if err != nil {
				t.Fatalf("marshal body: %v", err)
			}
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test(%s %s) error = %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return v
}

func mustStatus(t *testing.T, got, want int, body []byte) {
	t.Helper()
	if got != want {
		t.Fatalf("status = %d, want %d (body %s)", got, want, body)
	}
}

func createQueue(t *testing.T, s *Server, title, color string) models.Queue {
	t.Helper()
	code, body := doRequest(t, s, http.MethodPost, "/api/queues", map[string]any{"title": title, "color": color})
	mustStatus(t, code, http.StatusCreated, body)
	return decode[models.Queue](t, body)
}

func createTask(t *testing.T, s *Server, title string, minutes int) models.Task {
	t.Helper()
	code, body := doRequest(t, s, http.MethodPost, "/api/tasks", map[string]any{"title": title, "durationMinutes": minutes})
	mustStatus(t, code, http.StatusCreated, body)
	return decode[models.Task](t, body)
}

func assign(t *testing.T, s *Server, taskID, queueID string) service.Membership {
	t.Helper()
	code, body := doRequest(t, s, http.MethodPost, "/api/queues/"+queueID+"/assign", map[string]any{"taskId": taskID})
	mustStatus(t, code, http.StatusOK, body)
	return decode[service.Membership](t, body)
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	code, body := doRequest(t, s, http.MethodGet, "/api/health", nil)
	mustStatus(t, code, http.StatusOK, body)

	got := decode[HealthResponse](t, body)
	if got.Status != "ok" {
		t.Errorf("status = %q, want ok", got.Status)
	}
	if !strings.HasPrefix(got.Timestamp, "2026-10-14T09:30:00") {
		t.Errorf("timestamp = %q", got.Timestamp)
	}
}

func TestAssignShowsOnBothSides(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	q := createQueue(t, s, "Deep Work", "#3B82F6")
	task := createTask(t, s, "Write report", 60)

	m := assign(t, s, task.ID, q.ID)
	if m.Task.Status != models.TaskStatusAssigned {
		t.Errorf("membership task status = %q", m.Task.Status)
	}

	code, body := doRequest(t, s, http.MethodGet, "/api/queues/"+q.ID, nil)
	mustStatus(t, code, http.StatusOK, body)
	gotQueue := decode[models.Queue](t, body)
	if len(gotQueue.TaskIDs) != 1 || gotQueue.TaskIDs[0] != task.ID {
		t.Errorf("taskIds = %v, want [%s]", gotQueue.TaskIDs, task.ID)
	}

	code, body = doRequest(t, s, http.MethodGet, "/api/tasks/"+task.ID, nil)
	mustStatus(t, code, http.StatusOK, body)
	gotTask := decode[models.Task](t, body)
	if gotTask.Status != models.TaskStatusAssigned {
		t.Errorf("status = %q, want assigned", gotTask.Status)
	}
	if gotTask.QueueID() != q.ID {
		t.Errorf("assignedQueueId = %q, want %q", gotTask.QueueID(), q.ID)
	}
}

func TestCompletedTasksLeaveCapacity(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	q := createQueue(t, s, "Deep Work", "#3B82F6")
	code, body := doRequest(t, s, http.MethodPost, "/api/queue-templates", map[string]any{
		"queueId": q.ID, "dayOfWeek": 1, "startTime": "09:00", "endTime": "11:00",
	})
	mustStatus(t, code, http.StatusCreated, body)

	task := createTask(t, s, "Write report", 60)
	assign(t, s, task.ID, q.ID)

	code, body = doRequest(t, s, http.MethodGet, "/api/queues/"+q.ID+"/capacity", nil)
	mustStatus(t, code, http.StatusOK, body)
	if load := decode[capacity.Load](t, body); load.Percentage != 50 || load.TotalMinutes != 120 {
		t.Fatalf("before completion load = %+v, want 50%% of 120", load)
	}

	code, body = doRequest(t, s, http.MethodPost, "/api/tasks/"+task.ID+"/complete", nil)
	mustStatus(t, code, http.StatusOK, body)
	if done := decode[models.Task](t, body); done.Status != models.TaskStatusCompleted || done.CompletedAt == nil {
		t.Fatalf("completed task = %+v", done)
	}

	code, body = doRequest(t, s, http.MethodGet, "/api/queues/"+q.ID+"/capacity", nil)
	mustStatus(t, code, http.StatusOK, body)
	if load := decode[capacity.Load](t, body); load.Percentage != 0 || load.UsedMinutes != 0 {
		t.Errorf("after completion load = %+v, want 0%%", load)
	}
}

func TestDeleteQueueReturnsTasksToInbox(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	q := createQueue(t, s, "Deep Work", "#3B82F6")
	task := createTask(t, s, "Write report", 60)
	assign(t, s, task.ID, q.ID)
	code, body := doRequest(t, s, http.MethodPost, "/api/tasks/"+task.ID+"/complete", nil)
	mustStatus(t, code, http.StatusOK, body)

	code, body = doRequest(t, s, http.MethodDelete, "/api/queues/"+q.ID, nil)
	mustStatus(t, code, http.StatusNoContent, body)

	code, body = doRequest(t, s, http.MethodGet, "/api/tasks/"+task.ID, nil)
	mustStatus(t, code, http.StatusOK, body)
	got := decode[models.Task](t, body)
	if got.Status != models.TaskStatusInbox || got.AssignedQueueID != nil || got.CompletedAt != nil {
		t.Errorf("task after queue delete = %+v", got)
	}

	code, body = doRequest(t, s, http.MethodGet, "/api/queues/"+q.ID, nil)
	mustStatus(t, code, http.StatusNotFound, body)
}

func TestEmptyAllQueues(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	a := createQueue(t, s, "A", "#111111")
	b := createQueue(t, s, "B", "#222222")
	for i, qid := range []string{a.ID, a.ID, b.ID} {
		task := createTask(t, s, "Task "+string(rune('1'+i)), 15)
		assign(t, s, task.ID, qid)
	}

	code, body := doRequest(t, s, http.MethodPost, "/api/queues/empty-all", nil)
	mustStatus(t, code, http.StatusOK, body)
	if got := decode[EmptyAllResponse](t, body); got.TasksReset != 3 {
		t.Errorf("tasksReset = %d, want 3", got.TasksReset)
	}

	code, body = doRequest(t, s, http.MethodGet, "/api/queues", nil)
	mustStatus(t, code, http.StatusOK, body)
	for _, q := range decode[[]models.Queue](t, body) {
		if len(q.TaskIDs) != 0 {
			t.Errorf("queue %s taskIds = %v, want empty", q.ID, q.TaskIDs)
		}
	}

	code, body = doRequest(t, s, http.MethodGet, "/api/tasks/inbox", nil)
	mustStatus(t, code, http.StatusOK, body)
	if inbox := decode[[]models.Task](t, body); len(inbox) != 3 {
		t.Errorf("inbox has %d tasks, want 3", len(inbox))
	}
}

func TestErrorMapping(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	q := createQueue(t, s, "Deep Work", "#3B82F6")
	task := createTask(t, s, "Inbox task", 30)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"unknown queue", http.MethodGet, "/api/queues/q_missing", nil, http.StatusNotFound},
		{"unknown task", http.MethodDelete, "/api/tasks/t_missing", nil, http.StatusNotFound},
		{"unknown route", http.MethodGet, "/api/nope", nil, http.StatusNotFound},
		{"missing title", http.MethodPost, "/api/queues", map[string]any{"title": "  "}, http.StatusBadRequest},
		{"bad color", http.MethodPut, "/api/queues/" + q.ID, map[string]any{"color": "blue"}, http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/api/tasks", "{not json", http.StatusBadRequest},
		{"negative duration", http.MethodPost, "/api/tasks", map[string]any{"title": "x", "durationMinutes": -5}, http.StatusBadRequest},
		{"missing taskId", http.MethodPost, "/api/queues/" + q.ID + "/assign", map[string]any{}, http.StatusBadRequest},
		{"template day out of range", http.MethodPost, "/api/queue-templates", map[string]any{"queueId": q.ID, "dayOfWeek": 6, "startTime": "09:00", "endTime": "10:00"}, http.StatusBadRequest},
		{"complete inbox task", http.MethodPost, "/api/tasks/" + task.ID + "/complete", nil, http.StatusConflict},
		{"unassign from wrong queue", http.MethodPost, "/api/queues/" + q.ID + "/unassign", map[string]any{"taskId": task.ID}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := doRequest(t, s, tt.method, tt.path, tt.body)
			mustStatus(t, code, tt.want, body)
			if got := decode[ErrorResponse](t, body); got.Error == "" {
				t.Errorf("error body missing message: %s", body)
			}
		})
	}
}

func TestPersistenceFailureRollsBack(t *testing.T) {
	s, store := newTestServer(t, testConfig())
	store.fail = true

	code, body := doRequest(t, s, http.MethodPost, "/api/queues", map[string]any{"title": "Lost"})
	mustStatus(t, code, http.StatusInternalServerError, body)
	if got := decode[ErrorResponse](t, body); got.Error != "failed to save data" {
		t.Errorf("error = %q", got.Error)
	}

	store.fail = false
	code, body = doRequest(t, s, http.MethodGet, "/api/queues", nil)
	mustStatus(t, code, http.StatusOK, body)
	if queues := decode[[]models.Queue](t, body); len(queues) != 0 {
		t.Errorf("queues after failed save = %v, want none", queues)
	}
}

func TestUpdateTaskObsidianLink(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	task := createTask(t, s, "Write report", 60)
	path := "/api/tasks/" + task.ID

	code, body := doRequest(t, s, http.MethodPut, path, map[string]any{"obsidianLink": "Projects/Report.md"})
	mustStatus(t, code, http.StatusOK, body)
	if got := decode[models.Task](t, body); got.ObsidianLink == nil || *got.ObsidianLink != "Projects/Report.md" {
		t.Fatalf("link not set: %+v", got)
	}

	code, body = doRequest(t, s, http.MethodPut, path, map[string]any{"title": "Write final report"})
	mustStatus(t, code, http.StatusOK, body)
	got := decode[models.Task](t, body)
	if got.ObsidianLink == nil {
		t.Fatal("absent obsidianLink cleared the link")
	}
	if got.Title != "Write final report" {
		t.Errorf("title = %q", got.Title)
	}

	code, body = doRequest(t, s, http.MethodPut, path, `{"obsidianLink": null}`)
	mustStatus(t, code, http.StatusOK, body)
	if got := decode[models.Task](t, body); got.ObsidianLink != nil {
		t.Errorf("null obsidianLink kept %q", *got.ObsidianLink)
	}
}

func TestSettings(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	code, body := doRequest(t, s, http.MethodGet, "/api/settings", nil)
	mustStatus(t, code, http.StatusOK, body)
	if got := decode[models.Settings](t, body); got.Language != models.LanguageEnglish {
		t.Errorf("default language = %q", got.Language)
	}

	code, body = doRequest(t, s, http.MethodPut, "/api/settings", map[string]any{"language": "xx"})
	mustStatus(t, code, http.StatusBadRequest, body)
	if got := decode[ErrorResponse](t, body); got.Error != "Unsupported language" {
		t.Errorf("error = %q", got.Error)
	}

	code, body = doRequest(t, s, http.MethodPut, "/api/settings", map[string]any{"language": "ko", "obsidianVaultPath": "/vault"})
	mustStatus(t, code, http.StatusOK, body)
	got := decode[models.Settings](t, body)
	if got.Language != models.LanguageKorean || got.VaultPath() != "/vault" {
		t.Errorf("settings = %+v", got)
	}

	code, body = doRequest(t, s, http.MethodPut, "/api/settings", `{"obsidianVaultPath": null}`)
	mustStatus(t, code, http.StatusOK, body)
	if got := decode[models.Settings](t, body); got.ObsidianVaultPath != nil || got.Language != models.LanguageKorean {
		t.Errorf("settings after clearing vault = %+v", got)
	}
}

func TestWeek(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	code, body := doRequest(t, s, http.MethodGet, "/api/week", nil)
	mustStatus(t, code, http.StatusOK, body)

	got := decode[service.Week](t, body)
	if got.WeekKey != "2026-W42" {
		t.Errorf("weekKey = %q, want 2026-W42", got.WeekKey)
	}
	if len(got.Days) != 5 {
		t.Errorf("days = %d, want 5", len(got.Days))
	}
}

func TestObsidianNotes(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	code, body := doRequest(t, s, http.MethodGet, "/api/obsidian/notes", nil)
	mustStatus(t, code, http.StatusBadRequest, body)

	vault := filepath.Join(t.TempDir(), "My Vault")
	if err := os.MkdirAll(filepath.Join(vault, ".obsidian"), 0755); err != nil {
		t.Fatal(err)
	}
	code, body = doRequest(t, s, http.MethodPut, "/api/settings", map[string]any{
		"obsidianVaultPath":     vault,
		"obsidianDefaultFolder": "Inbox",
	})
	mustStatus(t, code, http.StatusOK, body)

	code, body = doRequest(t, s, http.MethodGet, "/api/obsidian/validate", nil)
	mustStatus(t, code, http.StatusOK, body)
	if !strings.Contains(string(body), `"isObsidianVault":true`) {
		t.Errorf("validate = %s", body)
	}

	code, body = doRequest(t, s, http.MethodPost, "/api/obsidian/notes", map[string]any{"title": "Write report"})
	mustStatus(t, code, http.StatusCreated, body)
	note := decode[CreateNoteResponse](t, body)
	if note.Path != "Inbox/Write report.md" {
		t.Errorf("path = %q", note.Path)
	}
	if note.URI != "obsidian://open?vault=My%20Vault&file=Inbox%2FWrite%20report" {
		t.Errorf("uri = %q", note.URI)
	}

	code, body = doRequest(t, s, http.MethodGet, "/api/obsidian/notes", nil)
	mustStatus(t, code, http.StatusOK, body)
	if notes := decode[[]string](t, body); len(notes) != 1 || notes[0] != note.Path {
		t.Errorf("notes = %v", notes)
	}

	code, body = doRequest(t, s, http.MethodGet, "/api/obsidian/folders", nil)
	mustStatus(t, code, http.StatusOK, body)
	if folders := decode[[]string](t, body); len(folders) != 1 || folders[0] != "Inbox" {
		t.Errorf("folders = %v", folders)
	}

	code, body = doRequest(t, s, http.MethodPost, "/api/obsidian/notes", map[string]any{"title": "Escape", "folder": "../outside"})
	mustStatus(t, code, http.StatusBadRequest, body)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RatePerSecond = 0.5
	cfg.RateBurst = 2
	s, _ := newTestServer(t, cfg)

	for i := 0; i < 2; i++ {
		code, body := doRequest(t, s, http.MethodGet, "/api/health", nil)
		mustStatus(t, code, http.StatusOK, body)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") != "2" {
		t.Errorf("Retry-After = %q, want 2", resp.Header.Get("Retry-After"))
	}
}

func TestStaticFallback(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>bium</html>"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := testConfig()
	cfg.StaticDir = dir
	s, _ := newTestServer(t, cfg)

	code, body := doRequest(t, s, http.MethodGet, "/week/2026-W42", nil)
	mustStatus(t, code, http.StatusOK, body)
	if string(body) != "<html>bium</html>" {
		t.Errorf("body = %q", body)
	}

	code, body = doRequest(t, s, http.MethodGet, "/api/queues", nil)
	mustStatus(t, code, http.StatusOK, body)
}

func TestAssignmentSurvivesLaterRequests(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() { _ = s.Serve(ln) }()
	t.Cleanup(func() { _ = s.App().Shutdown() })

	base := "http://" + ln.Addr().String()
	client := &http.Client{Timeout: 5 * time.Second}
	call := func(method, path string, body any) []byte {
		t.Helper()
		var reader io.Reader
		if body != nil {
			raw, err := json.Marshal(body)
			if err != nil {
				t.Fatalf("marshal body: %v", err)
			}
			reader = bytes.NewReader(raw)
		}
		req, err := http.NewRequest(method, base+path, reader)
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("%s %s: %v", method, path, err)
		}
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if resp.StatusCode >= 400 {
			t.Fatalf("%s %s = %d (body %s)", method, path, resp.StatusCode, data)
		}
		return data
	}

	q := decode[models.Queue](t, call(http.MethodPost, "/api/queues", map[string]any{"title": "Deep Work"}))
	task := decode[models.Task](t, call(http.MethodPost, "/api/tasks", map[string]any{"title": "Write report"}))
	call(http.MethodPost, "/api/queues/"+q.ID+"/assign", map[string]any{"taskId": task.ID})
	tpl := decode[models.QueueTemplate](t, call(http.MethodPost, "/api/queue-templates",
		map[string]any{"queueId": q.ID, "dayOfWeek": 1, "startTime": "09:00", "endTime": "11:00"}))

	for i := 0; i < 20; i++ {
		call(http.MethodGet, fmt.Sprintf("/api/tasks/inbox?page=%d_xxxxxxxxxxxxxxxx", i), nil)
		call(http.MethodGet, "/api/queues/"+q.ID+"/capacity", nil)
	}

	got := decode[models.Task](t, call(http.MethodGet, "/api/tasks/"+task.ID, nil))
	if got.QueueID() != q.ID {
		t.Errorf("assignedQueueId = %q, want %q", got.QueueID(), q.ID)
	}
	gotQueue := decode[models.Queue](t, call(http.MethodGet, "/api/queues/"+q.ID, nil))
	if len(gotQueue.TaskIDs) != 1 || gotQueue.TaskIDs[0] != task.ID {
		t.Errorf("taskIds = %v, want [%s]", gotQueue.TaskIDs, task.ID)
	}
	gotTpl := decode[models.QueueTemplate](t, call(http.MethodGet, "/api/queue-templates/"+tpl.ID, nil))
	if gotTpl.QueueID != q.ID {
		t.Errorf("template queueId = %q, want %q", gotTpl.QueueID, q.ID)
	}
}
