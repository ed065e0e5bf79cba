package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/bium/internal/cli"
	"github.com/julianstephens/bium/internal/lockfile"
	"github.com/julianstephens/bium/internal/models"
	"github.com/julianstephens/bium/internal/obsidian"
	"github.com/julianstephens/bium/internal/planner"
	"github.com/julianstephens/bium/internal/storage"
	"github.com/julianstephens/bium/internal/validation"
)

// ErrChecksFailed is returned when at least one doctor check fails.
var ErrChecksFailed = errors.New("one or more checks failed")

type DoctorCmd struct{}

type checkResult int

const (
	checkOK checkResult = iota
	checkWarn
	checkFail
	checkSkip
)

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	report := func(name string, res checkResult, detail string) {
		switch res {
		case checkOK:
			ctx.Printf("✓ %s: OK\n", name)
		case checkWarn:
			ctx.Printf("⚠ %s: WARNING\n", name)
		case checkFail:
			ctx.Printf("❌ %s: FAIL\n", name)
			hasError = true
		case checkSkip:
			ctx.Printf("⊘ %s: SKIPPED (%s)\n", name, detail)
			return
		}
		if detail != "" {
			ctx.Printf("   %s\n", detail)
		}
	}

	// Check 1: store reachable
	snap, err := ctx.Store.Load()
	reachable := err == nil
	if reachable {
		report("Store reachable", checkOK, "")
	} else {
		report("Store reachable", checkFail, fmt.Sprintf("Error: %v", err))
	}

	// Check 2: schema version
	switch v, ok := ctx.Store.(storage.Versioned); {
	case !reachable:
		report("Schema version", checkSkip, "store not reachable")
	case !ok:
		report("Schema version", checkSkip, "JSON store has no schema")
	default:
		current, latest, err := v.SchemaVersion()
		switch {
		case err != nil:
			report("Schema version", checkFail, fmt.Sprintf("Error: %v", err))
		case current != latest:
			report("Schema version", checkFail, fmt.Sprintf("Error: schema at version %d, expected %d", current, latest))
		default:
			report("Schema version", checkOK, "")
		}
	}

	// Check 3: data consistency and conflicts
	if reachable {
		store, repairs := planner.New(snap)
		if len(repairs) > 0 {
			report("Data consistency", checkWarn, fmt.Sprintf("%d repair(s) will be applied on next load: %s", len(repairs), repairs[0]))
		} else {
			report("Data consistency", checkOK, "")
		}

		result := validation.New().Validate(store)
		if result.HasConflicts() {
			report("Schedule conflicts", checkWarn, fmt.Sprintf("%d conflict(s), run 'bium validate' for details", len(result.Conflicts)))
		} else {
			report("Schedule conflicts", checkOK, "")
		}

		checkVault(snap.Settings, report)
	} else {
		report("Data consistency", checkSkip, "store not reachable")
		report("Schedule conflicts", checkSkip, "store not reachable")
		report("Obsidian vault", checkSkip, "store not reachable")
	}

	// Check 4: backups present (warning only)
	if backups, err := ctx.Backups().ListBackups(); err != nil {
		report("Backups present", checkWarn, err.Error())
	} else if len(backups) == 0 {
		report("Backups present", checkWarn, fmt.Sprintf("no backups in %s, run 'bium backup create'", ctx.Backups().GetBackupDir()))
	} else {
		report("Backups present", checkOK, "")
	}

	// Check 5: server
	if info, active := lockfile.Active(ctx.LockfilePath()); active {
		report("Server", checkOK, fmt.Sprintf("running as pid %d on %s; CLI changes are refused while it runs", info.PID, info.Address))
	} else {
		report("Server", checkOK, "not running")
	}

	ctx.Println()
	if hasError {
		ctx.Println("Some checks failed. Please review the errors above.")
		return ErrChecksFailed
	}
	ctx.Println("All checks passed!")
	return nil
}

func checkVault(s models.Settings, report func(string, checkResult, string)) {
	if s.VaultPath() == "" {
		report("Obsidian vault", checkSkip, "not configured")
		return
	}
	v := obsidian.Validate(s.VaultPath())
	switch {
	case !v.Valid:
		report("Obsidian vault", checkFail, fmt.Sprintf("Error: %s: %s", s.VaultPath(), v.Error))
	case !v.IsObsidianVault:
		report("Obsidian vault", checkWarn, "no .obsidian folder found in "+s.VaultPath())
	default:
		report("Obsidian vault", checkOK, "")
	}
}
