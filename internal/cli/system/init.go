package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/bium/internal/cli"
	"github.com/julianstephens/bium/internal/lockfile"
	"github.com/julianstephens/bium/internal/models"
	"github.com/julianstephens/bium/internal/planner"
	"github.com/julianstephens/bium/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Replace any existing data."`
	Empty  bool   `help:"Start with no queues or tasks instead of the starter set."`
	Source string `help:"Store path or PostgreSQL connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if err := lockfile.Guard(ctx.LockfilePath())("init"); err != nil {
		return err
	}
	target := ctx.Store.GetConfigPath()

	if c.Force && storage.Detect(target) != storage.BackendPostgres {
		if c.Source != "" && samePath(c.Source, target) {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", target)
		}
		if _, err := os.Stat(target); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing store: %w", err)
			}
			if err := os.Remove(target); err != nil {
				return fmt.Errorf("failed to delete existing store: %w", err)
			}
			ctx.Printf("Deleted existing data at: %s\n", target)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing store: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized bium storage at: %s\n", target)

	existing, err := ctx.Store.Load()
	if err != nil {
		return err
	}
	if !existing.IsEmpty() && !c.Force && c.Source == "" {
		ctx.Println("Existing data found, leaving it untouched (use --force to replace it).")
		return nil
	}

	var snap models.Snapshot
	switch {
	case c.Source != "":
		ctx.Printf("Copying data from: %s\n", c.Source)
		if snap, err = loadSource(c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	case c.Empty:
		snap = models.Snapshot{Settings: models.Settings{Language: models.LanguageEnglish}}
	default:
		snap = planner.SeedSnapshot()
	}

	store, repairs := planner.New(snap)
	for _, r := range repairs {
		ctx.Printf("  ⚠ Repaired: %s\n", r)
	}
	snap = store.Snapshot()
	if err := ctx.Store.Save(snap); err != nil {
		return fmt.Errorf("failed to write initial data: %w", err)
	}
	ctx.Printf("  %d queues, %d templates, %d tasks\n", len(snap.Queues), len(snap.QueueTemplates), len(snap.Tasks))
	return nil
}

func loadSource(source string) (models.Snapshot, error) {
	src, err := cli.OpenStore(source)
	if err != nil {
		return models.Snapshot{}, err
	}
	defer src.Close()

	snap, err := src.Load()
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to load source store: %w", err)
	}
	return snap, nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}
