package planner

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/julianstephens/bium/internal/models"
)

func TestAssignToQueue(t *testing.T) {
	s := newTestStore(t)
	q := mustQueue(t, s, "Deep Work")
	task := mustTask(t, s, "Write report", 60)

	queue, assigned, err := s.AssignToQueue(task.ID, q.ID)
	if err != nil {
		t.Fatalf("AssignToQueue() failed: %v", err)
	}
	if assigned.Status != models.TaskStatusAssigned || assigned.QueueID() != q.ID || assigned.CompletedAt != nil {
		t.Errorf("task = %+v", assigned)
	}
	if !slices.Equal(queue.TaskIDs, []string{task.ID}) {
		t.Errorf("queue.TaskIDs = %v", queue.TaskIDs)
	}

	// set semantics
	queue, _, err = s.AssignToQueue(task.ID, q.ID)
	if err != nil || !slices.Equal(queue.TaskIDs, []string{task.ID}) {
		t.Errorf("second assign = %v, %v", queue.TaskIDs, err)
	}
}

func TestAssignToQueueNotFound(t *testing.T) {
	s := newTestStore(t)
	q := mustQueue(t, s, "Deep Work")
	task := mustTask(t, s, "Write report", 60)

	if _, _, err := s.AssignToQueue("t_missing", q.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing task error = %v", err)
	}
	if _, _, err := s.AssignToQueue(task.ID, "q_missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing queue error = %v", err)
	}
	if got, _ := s.Task(task.ID); got.Status != models.TaskStatusInbox {
		t.Errorf("failed assign mutated task: %+v", got)
	}
}

func TestReassignIsExclusive(t *testing.T) {
	s := newTestStore(t)
	a := mustQueue(t, s, "A")
	b := mustQueue(t, s, "B")
	task := mustTask(t, s, "Move me", 30)
	mustAssign(t, s, task.ID, a.ID)

	qb, moved, err := s.AssignToQueue(task.ID, b.ID)
	if err != nil {
		t.Fatalf("reassign failed: %v", err)
	}
	if moved.QueueID() != b.ID {
		t.Errorf("task queue = %s, want %s", moved.QueueID(), b.ID)
	}
	if !slices.Equal(qb.TaskIDs, []string{task.ID}) {
		t.Errorf("B.TaskIDs = %v", qb.TaskIDs)
	}
	qa, _ := s.Queue(a.ID)
	if len(qa.TaskIDs) != 0 {
		t.Errorf("A.TaskIDs = %v, want empty", qa.TaskIDs)
	}
	checkInvariants(t, s)
}

func TestAssignCompletedTaskReopensIt(t *testing.T) {
	s := newTestStore(t)
	a := mustQueue(t, s, "A")
	b := mustQueue(t, s, "B")
	task := mustTask(t, s, "Done already", 30)
	mustAssign(t, s, task.ID, a.ID)
	if _, err := s.Complete(task.ID); err != nil {
		t.Fatal(err)
	}

	_, moved, err := s.AssignToQueue(task.ID, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if moved.Status != models.TaskStatusAssigned || moved.CompletedAt != nil || moved.QueueID() != b.ID {
		t.Errorf("moved = %+v", moved)
	}
}

func TestUnassignFromQueue(t *testing.T) {
	s := newTestStore(t)
	q := mustQueue(t, s, "Deep Work")
	other := mustQueue(t, s, "Admin")
	task := mustTask(t, s, "Write", 30)
	mustAssign(t, s, task.ID, q.ID)

	if _, _, err := s.UnassignFromQueue(task.ID, other.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("unassign from wrong queue error = %v", err)
	}
	if got, _ := s.Task(task.ID); got.QueueID() != q.ID {
		t.Errorf("failed unassign mutated task: %+v", got)
	}

	queue, back, err := s.UnassignFromQueue(task.ID, q.ID)
	if err != nil {
		t.Fatalf("UnassignFromQueue() failed: %v", err)
	}
	if back.Status != models.TaskStatusInbox || back.AssignedQueueID != nil || back.CompletedAt != nil {
		t.Errorf("task = %+v", back)
	}
	if len(queue.TaskIDs) != 0 {
		t.Errorf("queue.TaskIDs = %v", queue.TaskIDs)
	}

	if _, _, err := s.UnassignFromQueue(task.ID, q.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("unassign of inbox task error = %v", err)
	}
	if _, _, err := s.UnassignFromQueue("t_missing", q.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing task error = %v", err)
	}
	if _, _, err := s.UnassignFromQueue(task.ID, "q_missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing queue error = %v", err)
	}
}

func TestUnassignCompletedTask(t *testing.T) {
	s := newTestStore(t)
	q := mustQueue(t, s, "Deep Work")
	task := mustTask(t, s, "Write", 30)
	mustAssign(t, s, task.ID, q.ID)
	if _, err := s.Complete(task.ID); err != nil {
		t.Fatal(err)
	}

	_, back, err := s.UnassignFromQueue(task.ID, q.ID)
	if err != nil {
		t.Fatalf("UnassignFromQueue() failed: %v", err)
	}
	if back.Status != models.TaskStatusInbox || back.CompletedAt != nil {
		t.Errorf("task = %+v", back)
	}
}

func TestCompleteAndUncomplete(t *testing.T) {
	s := newTestStore(t)
	q := mustQueue(t, s, "Deep Work")
	task := mustTask(t, s, "Write", 30)

	if _, err := s.Complete(task.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("completing inbox task error = %v, want ErrInvalidTransition", err)
	}
	if got, _ := s.Task(task.ID); got.Status != models.TaskStatusInbox {
		t.Errorf("rejected complete mutated task: %+v", got)
	}

	mustAssign(t, s, task.ID, q.ID)
	done, err := s.Complete(task.ID)
	if err != nil {
		t.Fatalf("Complete() failed: %v", err)
	}
	if done.Status != models.TaskStatusCompleted || done.CompletedAt == nil || *done.CompletedAt != "2026-10-14T09:30:00.000Z" {
		t.Errorf("done = %+v", done)
	}
	if done.QueueID() != q.ID {
		t.Errorf("completion unassigned the task")
	}
	queue, _ := s.Queue(q.ID)
	if !slices.Equal(queue.TaskIDs, []string{task.ID}) {
		t.Errorf("completed task left queue: %v", queue.TaskIDs)
	}

	s.now = func() time.Time { return fixedNow.Add(time.Hour) }
	again, err := s.Complete(task.ID)
	if err != nil || *again.CompletedAt != *done.CompletedAt {
		t.Errorf("second complete = %+v, %v; want original timestamp kept", again, err)
	}

	undone, err := s.Uncomplete(task.ID)
	if err != nil {
		t.Fatalf("Uncomplete() failed: %v", err)
	}
	if undone.Status != models.TaskStatusAssigned || undone.CompletedAt != nil || undone.QueueID() != q.ID {
		t.Errorf("undone = %+v", undone)
	}

	// idempotent
	undone, err = s.Uncomplete(task.ID)
	if err != nil || undone.Status != models.TaskStatusAssigned {
		t.Errorf("second uncomplete = %+v, %v", undone, err)
	}

	if _, err := s.Complete("t_missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing task complete error = %v", err)
	}
	if _, err := s.Uncomplete("t_missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing task uncomplete error = %v", err)
	}
}

func TestUncompleteInboxTask(t *testing.T) {
	s := newTestStore(t)
	task := mustTask(t, s, "Loose", 30)

	got, err := s.Uncomplete(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.TaskStatusInbox {
		t.Errorf("status = %s, want inbox", got.Status)
	}
}

func TestEmptyAllQueues(t *testing.T) {
	s := newTestStore(t)
	a := mustQueue(t, s, "A")
	b := mustQueue(t, s, "B")
	t1 := mustTask(t, s, "one", 30)
	t2 := mustTask(t, s, "two", 30)
	t3 := mustTask(t, s, "three", 30)
	loose := mustTask(t, s, "loose", 30)
	mustAssign(t, s, t1.ID, a.ID)
	mustAssign(t, s, t2.ID, a.ID)
	mustAssign(t, s, t3.ID, b.ID)
	if _, err := s.Complete(t2.ID); err != nil {
		t.Fatal(err)
	}

	if n := s.EmptyAllQueues(); n != 3 {
		t.Errorf("EmptyAllQueues() = %d, want 3", n)
	}
	for _, task := range s.Tasks() {
		if task.Status != models.TaskStatusInbox || task.AssignedQueueID != nil || task.CompletedAt != nil {
			t.Errorf("task %s not reset: %+v", task.ID, task)
		}
	}
	for _, q := range s.Queues() {
		if len(q.TaskIDs) != 0 {
			t.Errorf("queue %s TaskIDs = %v", q.ID, q.TaskIDs)
		}
	}
	if _, err := s.Task(loose.ID); err != nil {
		t.Errorf("inbox task lost: %v", err)
	}
	if n := s.EmptyAllQueues(); n != 0 {
		t.Errorf("second EmptyAllQueues() = %d, want 0", n)
	}
}

func TestScenarioAssignCompleteDelete(t *testing.T) {
	s := newTestStore(t)

	// A: create, assign, read back
	q, err := s.CreateQueue("Deep Work", "#3B82F6")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateQueueTemplate(q.ID, 1, "09:00", "11:00"); err != nil {
		t.Fatal(err)
	}
	task := mustTask(t, s, "Write report", 60)
	mustAssign(t, s, task.ID, q.ID)

	gotQ, _ := s.Queue(q.ID)
	if !slices.Equal(gotQ.TaskIDs, []string{task.ID}) {
		t.Errorf("A: queue TaskIDs = %v", gotQ.TaskIDs)
	}
	gotT, _ := s.Task(task.ID)
	if gotT.Status != models.TaskStatusAssigned {
		t.Errorf("A: task status = %s", gotT.Status)
	}
	load, _ := s.QueueLoad(q.ID)
	if load.Percentage != 50 {
		t.Errorf("A: fill = %d%%, want 50%%", load.Percentage)
	}

	// B: completed tasks free their capacity
	if _, err := s.Complete(task.ID); err != nil {
		t.Fatal(err)
	}
	load, err = s.QueueLoad(q.ID)
	if err != nil {
		t.Fatal(err)
	}
	if load.TotalMinutes != 120 || load.UsedMinutes != 0 || load.Percentage != 0 {
		t.Errorf("B: load = %+v, want 0 of 120", load)
	}

	// C: deleting the queue sends the completed task to the inbox
	if err := s.DeleteQueue(q.ID); err != nil {
		t.Fatal(err)
	}
	gotT, _ = s.Task(task.ID)
	if gotT.Status != models.TaskStatusInbox || gotT.AssignedQueueID != nil || gotT.CompletedAt != nil {
		t.Errorf("C: task = %+v", gotT)
	}
	checkInvariants(t, s)
}

func TestScenarioEmptyAllWithTwoQueues(t *testing.T) {
	s := newTestStore(t)
	a := mustQueue(t, s, "A")
	b := mustQueue(t, s, "B")
	for i, qid := range []string{a.ID, a.ID, b.ID} {
		task := mustTask(t, s, string(rune('x'+i)), 30)
		mustAssign(t, s, task.ID, qid)
	}

	s.EmptyAllQueues()

	for _, task := range s.Tasks() {
		if task.Status != models.TaskStatusInbox {
			t.Errorf("task %s status = %s", task.ID, task.Status)
		}
	}
	for _, q := range s.Queues() {
		if len(q.TaskIDs) != 0 {
			t.Errorf("queue %s not empty: %v", q.ID, q.TaskIDs)
		}
	}
}
