package system

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/bium/internal/cli"
	"github.com/julianstephens/bium/internal/config"
	"github.com/julianstephens/bium/internal/storage"
)

// setupTestContext returns a context over a fresh store at name inside a
// temp dir, with output captured.
func setupTestContext(t *testing.T, name string) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	store := storage.Open(filepath.Join(dir, name))

	cfg := config.Config{DataPath: dir}
	cfg.Backup.Dir = filepath.Join(dir, "backups")
	cfg.Backup.MaxBackups = 5

	out := &bytes.Buffer{}
	ctx := cli.NewContext(cfg, store)
	ctx.Out = out
	ctx.In = strings.NewReader("")
	t.Cleanup(func() {
		if err := ctx.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return ctx, out
}

func quietContext() *cli.Context {
	return &cli.Context{Out: &bytes.Buffer{}, In: strings.NewReader("")}
}
