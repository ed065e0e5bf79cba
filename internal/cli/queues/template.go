package queues

import (
	"fmt"

	"github.com/julianstephens/bium/internal/cli"
	"github.com/julianstephens/bium/internal/planner"
	"github.com/julianstephens/bium/internal/utils"
)

type TemplateAddCmd struct {
	Queue string `arg:"" help:"Queue ID or title."`
	Day   string `arg:"" help:"Weekday (mon-fri or 1-5)."`
	Start string `arg:"" help:"Start time (HH:MM)."`
	End   string `arg:"" help:"End time (HH:MM)."`
}

func (c *TemplateAddCmd) Run(ctx *cli.Context) error {
	day, err := cli.ParseDay(c.Day)
	if err != nil {
		return err
	}
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	q, err := cli.FindQueue(svc, c.Queue)
	if err != nil {
		return err
	}
	tpl, err := svc.CreateQueueTemplate(q.ID, day, c.Start, c.End)
	if err != nil {
		return err
	}
	ctx.Printf("Placed %s on %s %s-%s (ID: %s)\n", q.Title, utils.DayName(tpl.DayOfWeek), tpl.StartTime, tpl.EndTime, tpl.ID)
	return nil
}

type TemplateListCmd struct {
	Queue   string `arg:"" optional:"" help:"Only list this queue's placements."`
	ShowIDs bool   `help:"Show template IDs." name:"show-ids"`
}

func (c *TemplateListCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	titles := make(map[string]string)
	for _, q := range svc.Queues() {
		titles[q.ID] = q.Title
	}

	templates := svc.QueueTemplates()
	if c.Queue != "" {
		q, err := cli.FindQueue(svc, c.Queue)
		if err != nil {
			return err
		}
		templates = svc.TemplatesForQueue(q.ID)
	}
	if len(templates) == 0 {
		ctx.Println("No templates found")
		return nil
	}

	ctx.Println("Templates:")
	for _, tpl := range templates {
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", tpl.ID)
		}
		ctx.Printf("  %-9s %s-%s  %s%s\n", utils.DayName(tpl.DayOfWeek), tpl.StartTime, tpl.EndTime, titles[tpl.QueueID], idStr)
	}
	return nil
}

type TemplateEditCmd struct {
	ID    string  `arg:"" help:"Template ID."`
	Queue *string `help:"Move to this queue (ID or title)."`
	Day   *string `help:"New weekday (mon-fri or 1-5)."`
	Start *string `help:"New start time (HH:MM)."`
	End   *string `help:"New end time (HH:MM)."`
}

func (c *TemplateEditCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	patch := planner.TemplatePatch{StartTime: c.Start, EndTime: c.End}
	if c.Day != nil {
		day, err := cli.ParseDay(*c.Day)
		if err != nil {
			return err
		}
		patch.DayOfWeek = &day
	}
	if c.Queue != nil {
		q, err := cli.FindQueue(svc, *c.Queue)
		if err != nil {
			return err
		}
		patch.QueueID = &q.ID
	}
	tpl, err := svc.UpdateQueueTemplate(c.ID, patch)
	if err != nil {
		return err
	}
	ctx.Printf("Updated template %s: %s %s-%s\n", tpl.ID, utils.DayName(tpl.DayOfWeek), tpl.StartTime, tpl.EndTime)
	return nil
}

type TemplateDeleteCmd struct {
	ID string `arg:"" help:"Template ID."`
}

func (c *TemplateDeleteCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	if err := svc.DeleteQueueTemplate(c.ID); err != nil {
		return err
	}
	ctx.Printf("Deleted template %s\n", c.ID)
	return nil
}
