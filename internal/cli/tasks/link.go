package tasks

import (
	"fmt"

	"github.com/julianstephens/bium/internal/cli"
	"github.com/julianstephens/bium/internal/obsidian"
	"github.com/julianstephens/bium/internal/planner"
)

// TaskLinkCmd attaches an Obsidian note to a task, creating it on request.
type TaskLinkCmd struct {
	Task   string  `arg:"" help:"Task ID or title."`
	Note   string  `arg:"" optional:"" help:"Vault-relative note path to link."`
	Create bool    `help:"Create a new note named after the task and link it."`
	Folder *string `help:"Folder for --create (defaults to the configured folder)."`
	Clear  bool    `help:"Remove the link."`
}

func (c *TaskLinkCmd) Validate() error {
	set := 0
	for _, b := range []bool{c.Note != "", c.Create, c.Clear} {
		if b {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("pass exactly one of NOTE, --create or --clear")
	}
	return nil
}

func (c *TaskLinkCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	t, err := cli.FindTask(svc, c.Task)
	if err != nil {
		return err
	}

	if c.Clear {
		empty := ""
		if _, err := svc.UpdateTask(t.ID, planner.TaskPatch{ObsidianLink: &empty}); err != nil {
			return err
		}
		ctx.Printf("Removed note link from %s\n", t.Title)
		return nil
	}

	settings := svc.Settings()
	notePath := c.Note
	var vault *obsidian.Vault
	if c.Create {
		if vault, err = obsidian.Open(settings.VaultPath()); err != nil {
			return err
		}
		folder := settings.DefaultFolder()
		if c.Folder != nil {
			folder = *c.Folder
		}
		if notePath, err = vault.CreateNote(t.Title, folder); err != nil {
			return err
		}
		ctx.Printf("Created note: %s\n", notePath)
	}

	if _, err := svc.UpdateTask(t.ID, planner.TaskPatch{ObsidianLink: &notePath}); err != nil {
		return err
	}
	ctx.Printf("Linked %s to %s\n", t.Title, notePath)

	if vault == nil && settings.VaultPath() != "" {
		vault, _ = obsidian.Open(settings.VaultPath())
	}
	if vault != nil {
		ctx.Printf("  %s\n", vault.URI(notePath))
	}
	return nil
}
