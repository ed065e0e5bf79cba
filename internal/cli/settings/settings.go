package settings

import (
	"fmt"

	"github.com/julianstephens/bium/internal/cli"
	"github.com/julianstephens/bium/internal/models"
	"github.com/julianstephens/bium/internal/obsidian"
	"github.com/julianstephens/bium/internal/planner"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Language       *string `help:"Interface language (ko, en, ja, zh)."`
	ObsidianVault  *string `help:"Path of the Obsidian vault (empty to clear)." name:"obsidian-vault"`
	ObsidianFolder *string `help:"Vault folder for new notes (empty to clear)." name:"obsidian-folder"`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	if c.List || (c.Language == nil && c.ObsidianVault == nil && c.ObsidianFolder == nil) {
		if !c.List {
			ctx.Println("No changes specified. Use flags to update settings.")
			ctx.Println()
		}
		printSettings(ctx, svc.Settings())
		return nil
	}

	patch := planner.SettingsPatch{
		ObsidianVaultPath:     c.ObsidianVault,
		ObsidianDefaultFolder: c.ObsidianFolder,
	}
	if c.Language != nil {
		lang := models.Language(*c.Language)
		patch.Language = &lang
	}
	if c.ObsidianVault != nil && *c.ObsidianVault != "" {
		v := obsidian.Validate(*c.ObsidianVault)
		if !v.Valid {
			return fmt.Errorf("%w: obsidian vault %s: %s", planner.ErrValidation, *c.ObsidianVault, v.Error)
		}
		if !v.IsObsidianVault {
			ctx.Println("⚠ No .obsidian folder found; the path will be used as a plain folder of notes.")
		}
	}

	if _, err := svc.UpdateSettings(patch); err != nil {
		return err
	}
	ctx.Println("Settings updated successfully.")
	return nil
}

func printSettings(ctx *cli.Context, s models.Settings) {
	ctx.Println("Current Settings:")
	ctx.Printf("  Language:         %s\n", s.Language)
	ctx.Printf("  Obsidian Vault:   %s\n", orUnset(s.VaultPath()))
	ctx.Printf("  Obsidian Folder:  %s\n", orUnset(s.DefaultFolder()))
}

func orUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}
