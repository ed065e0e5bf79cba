package tasks

import (
	"fmt"

	"github.com/julianstephens/bium/internal/cli"
	"github.com/julianstephens/bium/internal/models"
	"github.com/julianstephens/bium/internal/planner"
)

type TaskAddCmd struct {
	Title    string `arg:"" help:"Task title."`
	Duration int    `short:"d" help:"Estimated duration in minutes (default 30)."`
	Queue    string `short:"q" help:"Assign to this queue (ID or title) right away."`
}

func (c *TaskAddCmd) Validate() error {
	if c.Duration < 0 {
		return fmt.Errorf("duration must be greater than zero")
	}
	return nil
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	var queue models.Queue
	if c.Queue != "" {
		if queue, err = cli.FindQueue(svc, c.Queue); err != nil {
			return err
		}
	}

	t, err := svc.CreateTask(c.Title, c.Duration)
	if err != nil {
		return err
	}
	ctx.Printf("Added task: %s (ID: %s, %dm)\n", t.Title, t.ID, t.DurationMinutes)

	if c.Queue != "" {
		if _, err := svc.AssignToQueue(t.ID, queue.ID); err != nil {
			return err
		}
		ctx.Printf("  Assigned to %s\n", queue.Title)
	}
	return nil
}

type TaskListCmd struct {
	Inbox   bool   `help:"Show only inbox tasks."`
	Queue   string `short:"q" help:"Show only this queue's tasks."`
	ShowIDs bool   `help:"Show task IDs." name:"show-ids"`
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	var list []models.Task
	switch {
	case c.Inbox:
		list = svc.InboxTasks()
	case c.Queue != "":
		q, err := cli.FindQueue(svc, c.Queue)
		if err != nil {
			return err
		}
		list = svc.TasksForQueue(q.ID)
	default:
		list = svc.Tasks()
	}
	if len(list) == 0 {
		ctx.Println("No tasks found")
		return nil
	}

	titles := make(map[string]string)
	for _, q := range svc.Queues() {
		titles[q.ID] = q.Title
	}

	ctx.Println("Tasks:")
	for _, t := range list {
		where := ""
		if qid := t.QueueID(); qid != "" {
			where = " @ " + titles[qid]
		}
		ctx.Printf("  %s%s\n", cli.FormatTask(t, c.ShowIDs), where)
	}
	return nil
}

type TaskEditCmd struct {
	Task     string  `arg:"" help:"Task ID or title."`
	Title    *string `help:"New title."`
	Duration *int    `short:"d" help:"New duration in minutes."`
}

func (c *TaskEditCmd) Run(ctx *cli.Context) error {
	if c.Title == nil && c.Duration == nil {
		return fmt.Errorf("%w: nothing to change, pass --title or --duration", planner.ErrValidation)
	}
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	t, err := cli.FindTask(svc, c.Task)
	if err != nil {
		return err
	}
	t, err = svc.UpdateTask(t.ID, planner.TaskPatch{Title: c.Title, DurationMinutes: c.Duration})
	if err != nil {
		return err
	}
	ctx.Printf("Updated task: %s (%dm)\n", t.Title, t.DurationMinutes)
	return nil
}

type TaskDeleteCmd struct {
	Task string `arg:"" help:"Task ID or title."`
}

func (c *TaskDeleteCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	t, err := cli.FindTask(svc, c.Task)
	if err != nil {
		return err
	}
	if err := svc.DeleteTask(t.ID); err != nil {
		return err
	}
	ctx.Printf("Deleted task: %s\n", t.Title)
	return nil
}

type TaskAssignCmd struct {
	Task  string `arg:"" help:"Task ID or title."`
	Queue string `arg:"" help:"Queue ID or title."`
}

func (c *TaskAssignCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	t, err := cli.FindTask(svc, c.Task)
	if err != nil {
		return err
	}
	q, err := cli.FindQueue(svc, c.Queue)
	if err != nil {
		return err
	}
	m, err := svc.AssignToQueue(t.ID, q.ID)
	if err != nil {
		return err
	}
	load, err := svc.QueueLoad(q.ID)
	if err != nil {
		return err
	}
	ctx.Printf("Assigned %s to %s\n", m.Task.Title, m.Queue.Title)
	ctx.Printf("  %s\n", cli.FormatLoad(load))
	return nil
}

type TaskUnassignCmd struct {
	Task string `arg:"" help:"Task ID or title."`
}

func (c *TaskUnassignCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	t, err := cli.FindTask(svc, c.Task)
	if err != nil {
		return err
	}
	if t.QueueID() == "" {
		return fmt.Errorf("%w: task %q is already in the inbox", planner.ErrInvalidTransition, t.Title)
	}
	m, err := svc.UnassignFromQueue(t.ID, t.QueueID())
	if err != nil {
		return err
	}
	ctx.Printf("Moved %s from %s back to the inbox\n", m.Task.Title, m.Queue.Title)
	return nil
}

type TaskCompleteCmd struct {
	Task string `arg:"" help:"Task ID or title."`
}

func (c *TaskCompleteCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	t, err := cli.FindTask(svc, c.Task)
	if err != nil {
		return err
	}
	if t, err = svc.Complete(t.ID); err != nil {
		return err
	}
	ctx.Printf("✓ Completed: %s\n", t.Title)
	return nil
}

type TaskUncompleteCmd struct {
	Task string `arg:"" help:"Task ID or title."`
}

func (c *TaskUncompleteCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	t, err := cli.FindTask(svc, c.Task)
	if err != nil {
		return err
	}
	if t, err = svc.Uncomplete(t.ID); err != nil {
		return err
	}
	ctx.Printf("Reopened: %s (%s)\n", t.Title, t.Status)
	return nil
}
