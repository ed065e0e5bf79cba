package planner

import (
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/bium/internal/capacity"
	"github.com/julianstephens/bium/internal/utils"
)

func TestQueueLoad(t *testing.T) {
	s := newTestStore(t)
	q := mustQueue(t, s, "Deep Work")

	load, err := s.QueueLoad(q.ID)
	if err != nil {
		t.Fatal(err)
	}
	if load.TotalMinutes != 120 {
		t.Errorf("queue without template total = %d, want 120", load.TotalMinutes)
	}

	if _, err := s.CreateQueueTemplate(q.ID, 2, "14:00", "15:00"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateQueueTemplate(q.ID, 1, "09:00", "12:00"); err != nil {
		t.Fatal(err)
	}
	for _, minutes := range []int{30, 40} {
		task := mustTask(t, s, "work", minutes)
		mustAssign(t, s, task.ID, q.ID)
	}

	load, err = s.QueueLoad(q.ID)
	if err != nil {
		t.Fatal(err)
	}
	// first template wins, regardless of day
	want := capacity.Compute(70, 60)
	if load != want {
		t.Errorf("QueueLoad() = %+v, want %+v", load, want)
	}
	if load.Status != capacity.StatusDanger || load.OverMinutes != 10 {
		t.Errorf("over-full queue = %+v", load)
	}

	if _, err := s.QueueLoad("q_missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing queue error = %v", err)
	}
}

func TestWeekPlan(t *testing.T) {
	s := newTestStore(t)
	deep := mustQueue(t, s, "Deep Work")
	admin := mustQueue(t, s, "Admin")

	if _, err := s.CreateQueueTemplate(admin.ID, 1, "14:00", "16:00"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateQueueTemplate(deep.ID, 1, "09:00", "11:00"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateQueueTemplate(deep.ID, 3, "09:00", "11:00"); err != nil {
		t.Fatal(err)
	}

	zeta := mustTask(t, s, "Zeta", 60)
	alpha := mustTask(t, s, "Alpha", 30)
	done := mustTask(t, s, "Middle", 30)
	for _, id := range []string{zeta.ID, alpha.ID, done.ID} {
		mustAssign(t, s, id, deep.ID)
	}
	if _, err := s.Complete(done.ID); err != nil {
		t.Fatal(err)
	}

	days := utils.WeekDates(time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC))
	plan := s.WeekPlan(days)
	if len(plan) != 5 {
		t.Fatalf("WeekPlan() returned %d days", len(plan))
	}

	monday := plan[0]
	if len(monday.Blocks) != 2 {
		t.Fatalf("monday blocks = %d, want 2", len(monday.Blocks))
	}
	if monday.Blocks[0].Queue.ID != deep.ID || monday.Blocks[1].Queue.ID != admin.ID {
		t.Errorf("blocks not sorted by start time: %s, %s", monday.Blocks[0].Template.StartTime, monday.Blocks[1].Template.StartTime)
	}

	block := monday.Blocks[0]
	titles := []string{}
	for _, task := range block.Tasks {
		titles = append(titles, task.Title)
	}
	if len(titles) != 3 || titles[0] != "Alpha" || titles[1] != "Middle" || titles[2] != "Zeta" {
		t.Errorf("block tasks = %v, want sorted by title", titles)
	}
	if block.Load.UsedMinutes != 90 || block.Load.TotalMinutes != 120 || block.Load.Percentage != 75 {
		t.Errorf("block load = %+v", block.Load)
	}

	if len(plan[1].Blocks) != 0 || len(plan[2].Blocks) != 1 || len(plan[4].Blocks) != 0 {
		t.Errorf("block counts = %d %d %d %d %d",
			len(plan[0].Blocks), len(plan[1].Blocks), len(plan[2].Blocks), len(plan[3].Blocks), len(plan[4].Blocks))
	}
	if !plan[2].Day.IsToday {
		t.Error("wednesday should be today")
	}
}
