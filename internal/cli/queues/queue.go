package queues

import (
	"fmt"

	"github.com/julianstephens/bium/internal/capacity"
	"github.com/julianstephens/bium/internal/cli"
	"github.com/julianstephens/bium/internal/planner"
	"github.com/julianstephens/bium/internal/utils"
)

type QueueAddCmd struct {
	Title string `arg:"" help:"Queue title."`
	Color string `short:"c" help:"Queue color (#RRGGBB)."`
}

func (c *QueueAddCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	q, err := svc.CreateQueue(c.Title, c.Color)
	if err != nil {
		return err
	}
	ctx.Printf("Added queue: %s (ID: %s, color %s)\n", q.Title, q.ID, q.Color)
	return nil
}

type QueueListCmd struct {
	ShowIDs bool `help:"Show queue IDs." name:"show-ids"`
	Tasks   bool `short:"t" help:"List each queue's tasks."`
}

func (c *QueueListCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	queues := svc.Queues()
	if len(queues) == 0 {
		ctx.Println("No queues found")
		return nil
	}

	ctx.Println("Queues:")
	for _, q := range queues {
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", q.ID)
		}
		load, err := svc.QueueLoad(q.ID)
		if err != nil {
			return err
		}
		ctx.Printf("  %s%s %s - %d tasks, %s\n", q.Title, idStr, q.Color, len(q.TaskIDs), cli.FormatLoad(load))

		for _, tpl := range svc.TemplatesForQueue(q.ID) {
			ctx.Printf("      %s %s-%s\n", utils.DayName(tpl.DayOfWeek), tpl.StartTime, tpl.EndTime)
		}
		if c.Tasks {
			for _, t := range svc.TasksForQueue(q.ID) {
				ctx.Printf("      %s\n", cli.FormatTask(t, c.ShowIDs))
			}
		}
	}
	return nil
}

type QueueEditCmd struct {
	Queue string  `arg:"" help:"Queue ID or title."`
	Title *string `help:"New title."`
	Color *string `short:"c" help:"New color (#RRGGBB)."`
}

func (c *QueueEditCmd) Run(ctx *cli.Context) error {
	if c.Title == nil && c.Color == nil {
		return fmt.Errorf("%w: nothing to change, pass --title or --color", planner.ErrValidation)
	}
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	q, err := cli.FindQueue(svc, c.Queue)
	if err != nil {
		return err
	}
	q, err = svc.UpdateQueue(q.ID, planner.QueuePatch{Title: c.Title, Color: c.Color})
	if err != nil {
		return err
	}
	ctx.Printf("Updated queue: %s (%s)\n", q.Title, q.Color)
	return nil
}

type QueueDeleteCmd struct {
	Queue string `arg:"" help:"Queue ID or title."`
}

func (c *QueueDeleteCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	q, err := cli.FindQueue(svc, c.Queue)
	if err != nil {
		return err
	}
	moved := len(q.TaskIDs)
	if err := svc.DeleteQueue(q.ID); err != nil {
		return err
	}
	ctx.Printf("Deleted queue: %s\n", q.Title)
	if moved > 0 {
		ctx.Printf("  %d task(s) returned to the inbox\n", moved)
	}
	return nil
}

type QueueCapacityCmd struct {
	Queue string `arg:"" help:"Queue ID or title."`
}

func (c *QueueCapacityCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	q, err := cli.FindQueue(svc, c.Queue)
	if err != nil {
		return err
	}
	load, err := svc.QueueLoad(q.ID)
	if err != nil {
		return err
	}

	ctx.Printf("%s: %s\n", q.Title, cli.FormatLoad(load))
	switch {
	case load.OverMinutes > 0:
		ctx.Printf("  Over capacity by %s\n", capacity.FormatDuration(load.OverMinutes))
	default:
		ctx.Printf("  Buffer remaining: %s\n", capacity.FormatDuration(load.BufferMinutes))
	}
	return nil
}

type QueueEmptyCmd struct {
	Yes bool `short:"y" help:"Do not ask for confirmation."`
}

func (c *QueueEmptyCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	if !c.Yes {
		ok, err := ctx.Confirm("Return every queued task to the inbox?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Cancelled.")
			return nil
		}
	}
	ctx.PerformAutomaticBackup(svc.Snapshot())
	n, err := svc.EmptyAllQueues()
	if err != nil {
		return err
	}
	ctx.Printf("All queues emptied, %d task(s) reset\n", n)
	return nil
}
