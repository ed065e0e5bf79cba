package system

import (
	"github.com/julianstephens/bium/internal/cli"
)

type WeekCmd struct {
	Tasks bool `short:"t" help:"List the tasks inside each block."`
}

func (c *WeekCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	week := svc.Week()

	ctx.Printf("Week %s\n", week.WeekKey)
	for _, day := range week.Days {
		marker := ""
		if day.Day.IsToday {
			marker = "  ← today"
		}
		ctx.Printf("\n%s %s%s\n", day.Day.DayName, day.Day.Date, marker)
		if len(day.Blocks) == 0 {
			ctx.Println("  (no blocks)")
			continue
		}
		for _, b := range day.Blocks {
			ctx.Printf("  %s-%s  %-16s %s\n", b.Template.StartTime, b.Template.EndTime, b.Queue.Title, cli.FormatLoad(b.Load))
			if c.Tasks {
				for _, t := range b.Tasks {
					ctx.Printf("      %s\n", cli.FormatTask(t, false))
				}
			}
		}
	}
	return nil
}
