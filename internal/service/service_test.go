package service

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/bium/internal/models"
	"github.com/julianstephens/bium/internal/planner"
	"github.com/julianstephens/bium/internal/storage"
)

var fixedNow = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

// memProvider is an in-memory storage.Provider whose Save can be made to fail.
type memProvider struct {
	mu      sync.Mutex
	snap    models.Snapshot
	loadErr error
	saveErr error
	saves   int
}

func (m *memProvider) Init() error { return nil }

func (m *memProvider) Load() (models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap.Clone(), m.loadErr
}

func (m *memProvider) Save(snap models.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.snap = snap.Clone()
	m.saves++
	return nil
}

func (m *memProvider) Close() error          { return nil }
func (m *memProvider) GetConfigPath() string { return "memory" }

func newTestService(t *testing.T, snap models.Snapshot, opts ...Option) (*Service, *memProvider) {
	t.Helper()
	n := 0
	p := &memProvider{snap: snap}
	opts = append(opts,
		WithClock(func() time.Time { return fixedNow }),
		WithPlannerOptions(planner.WithIDGenerator(func(prefix string) string {
			n++
			return fmt.Sprintf("%s%08d", prefix, n)
		})),
	)
	svc, _, err := New(p, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return svc, p
}

func TestNewPropagatesLoadError(t *testing.T) {
	p := &memProvider{loadErr: storage.ErrNotInitialized}
	if _, _, err := New(p); !errors.Is(err, storage.ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestNewSavesRepairs(t *testing.T) {
	qid := "q_missing"
	snap := models.Snapshot{
		Tasks: []models.Task{{ID: "t_1", Title: "Orphan", DurationMinutes: 30, Status: models.TaskStatusAssigned, AssignedQueueID: &qid}},
	}
	p := &memProvider{snap: snap}
	svc, repairs, err := New(p)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if len(repairs) == 0 {
		t.Fatal("expected repairs to be reported")
	}
	if p.saves != 1 {
		t.Errorf("expected repaired snapshot to be saved once, saved %d times", p.saves)
	}
	if got := svc.InboxTasks(); len(got) != 1 {
		t.Errorf("orphan task not returned to inbox: %+v", got)
	}
}

func TestMutationsPersist(t *testing.T) {
	svc, p := newTestService(t, models.Snapshot{})

	q, err := svc.CreateQueue("Deep Work", "")
	if err != nil {
		t.Fatalf("CreateQueue failed: %v", err)
	}
	task, err := svc.CreateTask("Write", 45)
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	m, err := svc.AssignToQueue(task.ID, q.ID)
	if err != nil {
		t.Fatalf("AssignToQueue failed: %v", err)
	}
	if len(m.Queue.TaskIDs) != 1 || m.Task.Status != models.TaskStatusAssigned {
		t.Errorf("unexpected membership: %+v", m)
	}

	if p.saves != 3 {
		t.Errorf("expected 3 saves, got %d", p.saves)
	}
	saved := p.snap
	if len(saved.Queues) != 1 || len(saved.Tasks) != 1 || saved.Tasks[0].QueueID() != q.ID {
		t.Errorf("saved snapshot out of date: %+v", saved)
	}
}

func TestRejectedOperationDoesNotSave(t *testing.T) {
	svc, p := newTestService(t, models.Snapshot{})

	if _, err := svc.CreateQueue("   ", ""); !errors.Is(err, planner.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := svc.Complete("t_missing"); !errors.Is(err, planner.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if p.saves != 0 {
		t.Errorf("rejected operations saved %d times", p.saves)
	}
}

func TestFailedSaveRollsBack(t *testing.T) {
	svc, p := newTestService(t, models.Snapshot{})

	q, _ := svc.CreateQueue("Admin", "")
	task, _ := svc.CreateTask("Email", 30)
	before := svc.Snapshot()

	diskErr := errors.New("disk full")
	p.saveErr = diskErr

	_, err := svc.AssignToQueue(task.ID, q.ID)
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if perr.Op != "assign task" || !errors.Is(err, diskErr) {
		t.Errorf("unexpected error: %+v", perr)
	}

	got, err := svc.Task(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.TaskStatusInbox || got.AssignedQueueID != nil {
		t.Errorf("assignment survived failed save: %+v", got)
	}
	if len(svc.Snapshot().Tasks) != len(before.Tasks) {
		t.Error("state changed after rollback")
	}

	if err := svc.DeleteQueue(q.ID); err == nil {
		t.Fatal("expected delete to fail while saves fail")
	}
	if _, err := svc.Queue(q.ID); err != nil {
		t.Errorf("queue gone after rolled back delete: %v", err)
	}

	// ids generated by the rolled back service keep advancing
	p.saveErr = nil
	again, err := svc.CreateTask("Another", 15)
	if err != nil {
		t.Fatalf("CreateTask after recovery failed: %v", err)
	}
	if again.ID == task.ID {
		t.Errorf("reused id %s", again.ID)
	}
}

func TestBeforeWriteBlocksMutations(t *testing.T) {
	blocked := errors.New("server running")
	var ops []string
	svc, p := newTestService(t, models.Snapshot{}, WithBeforeWrite(func(op string) error {
		ops = append(ops, op)
		return blocked
	}))

	if _, err := svc.CreateTask("Write", 30); !errors.Is(err, blocked) {
		t.Fatalf("expected hook error, got %v", err)
	}
	if len(svc.Tasks()) != 0 || p.saves != 0 {
		t.Error("blocked mutation changed state")
	}
	if len(ops) != 1 || ops[0] != "create task" {
		t.Errorf("hook saw ops %v", ops)
	}

	// reads are never blocked
	_ = svc.Settings()
	if len(ops) != 1 {
		t.Error("hook ran for a read")
	}
}

func TestReplace(t *testing.T) {
	svc, p := newTestService(t, models.Snapshot{})

	repairs, err := svc.Replace(planner.SeedSnapshot())
	if err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if len(repairs) != 0 {
		t.Errorf("seed needed repairs: %v", repairs)
	}
	if len(svc.Queues()) != 3 || len(p.snap.Queues) != 3 {
		t.Errorf("replace not applied: %d queues", len(svc.Queues()))
	}
}

func TestWeek(t *testing.T) {
	svc, _ := newTestService(t, planner.SeedSnapshot())

	week := svc.Week()
	if week.WeekKey != "2026-W42" {
		t.Errorf("WeekKey = %s", week.WeekKey)
	}
	if len(week.Days) != 5 {
		t.Fatalf("expected 5 days, got %d", len(week.Days))
	}
	if !week.Days[2].Day.IsToday {
		t.Error("Wednesday should be today")
	}
}

func TestConcurrentMutations(t *testing.T) {
	svc, p := newTestService(t, models.Snapshot{})
	q, _ := svc.CreateQueue("Queue", "")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			task, err := svc.CreateTask(fmt.Sprintf("Task %d", i), 10)
			if err != nil {
				t.Errorf("CreateTask failed: %v", err)
				return
			}
			if _, err := svc.AssignToQueue(task.ID, q.ID); err != nil {
				t.Errorf("AssignToQueue failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, err := svc.Queue(q.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.TaskIDs) != 20 {
		t.Errorf("expected 20 tasks in queue, got %d", len(got.TaskIDs))
	}
	if len(p.snap.Tasks) != 20 {
		t.Errorf("saved snapshot has %d tasks", len(p.snap.Tasks))
	}
	load, err := svc.QueueLoad(q.ID)
	if err != nil {
		t.Fatal(err)
	}
	if load.UsedMinutes != 200 {
		t.Errorf("used minutes = %d", load.UsedMinutes)
	}
}

func TestWithJSONStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	store := storage.NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	svc, _, err := New(store)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	q, err := svc.CreateQueue("Persisted", "#10B981")
	if err != nil {
		t.Fatal(err)
	}

	reopened, _, err := New(storage.NewJSONStore(path))
	if err != nil {
		t.Fatal(err)
	}
	got, err := reopened.Queue(q.ID)
	if err != nil {
		t.Fatalf("queue not persisted: %v", err)
	}
	if got.Color != "#10B981" {
		t.Errorf("color = %s", got.Color)
	}
}
