package system

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/julianstephens/bium/internal/cli"
	"github.com/julianstephens/bium/internal/models"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// formatFor picks a format from an explicit flag or the file extension.
func formatFor(flag, path string) string {
	if flag != "" {
		return flag
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	}
	return formatJSON
}

func encodeSnapshot(snap models.Snapshot, format string) ([]byte, error) {
	if format == formatYAML {
		return yaml.Marshal(snap)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func decodeSnapshot(data []byte, format string) (models.Snapshot, error) {
	var snap models.Snapshot
	var err error
	if format == formatYAML {
		err = yaml.Unmarshal(data, &snap)
	} else {
		err = json.Unmarshal(data, &snap)
	}
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to parse %s: %w", format, err)
	}
	return snap, nil
}

type ExportCmd struct {
	Format string `short:"f" enum:",json,yaml" default:"" help:"Output format (json or yaml). Defaults to the output file's extension, then json."`
	Output string `short:"o" help:"Write to this file instead of stdout." type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	data, err := encodeSnapshot(svc.Snapshot(), formatFor(c.Format, c.Output))
	if err != nil {
		return fmt.Errorf("failed to encode data: %w", err)
	}

	if c.Output == "" {
		_, err = ctx.Out.Write(data)
		return err
	}
	if err := os.WriteFile(c.Output, data, 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	ctx.Printf("✓ Exported to %s\n", c.Output)
	return nil
}

type ImportCmd struct {
	File   string `arg:"" help:"JSON or YAML file produced by 'bium export'." type:"existingfile"`
	Format string `short:"f" enum:",json,yaml" default:"" help:"Input format. Defaults to the file extension."`
	Yes    bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read import: %w", err)
	}
	snap, err := decodeSnapshot(data, formatFor(c.Format, c.File))
	if err != nil {
		return err
	}

	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	if !c.Yes {
		ctx.Printf("Import %d queues, %d templates and %d tasks, replacing current data.\n",
			len(snap.Queues), len(snap.QueueTemplates), len(snap.Tasks))
		ok, err := ctx.Confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Import cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup(svc.Snapshot())
	repairs, err := svc.Replace(snap)
	if err != nil {
		return err
	}
	for _, r := range repairs {
		ctx.Printf("  ⚠ Repaired: %s\n", r)
	}
	ctx.Printf("✓ Imported %s\n", c.File)
	return nil
}
