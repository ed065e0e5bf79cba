package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/julianstephens/bium/internal/backup"
	"github.com/julianstephens/bium/internal/config"
	"github.com/julianstephens/bium/internal/keyring"
	"github.com/julianstephens/bium/internal/lockfile"
	"github.com/julianstephens/bium/internal/logger"
	"github.com/julianstephens/bium/internal/models"
	"github.com/julianstephens/bium/internal/planner"
	"github.com/julianstephens/bium/internal/service"
	"github.com/julianstephens/bium/internal/storage"
	"github.com/julianstephens/bium/internal/storage/postgres"
)

type Context struct {
	Config config.Config
	Store  storage.Provider
	Out    io.Writer
	In     io.Reader

	svc *service.Service
}

func NewContext(cfg config.Config, store storage.Provider) *Context {
	return &Context{
		Config: cfg,
		Store:  store,
		Out:    os.Stdout,
		In:     os.Stdin,
	}
}

// OpenStore resolves a store target, reading the "keyring" target from the
// OS keyring. PostgreSQL URLs given directly must not embed a password.
func OpenStore(target string) (storage.Provider, error) {
	resolved, err := keyring.ResolveTarget(target)
	if err != nil {
		return nil, err
	}
	if resolved == target && storage.Detect(target) == storage.BackendPostgres {
		if _, err := postgres.ValidateConnString(target); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w; store it with 'bium keyring set' and use --store keyring, or use .pgpass", err)
			}
			return nil, err
		}
	}
	return storage.Open(resolved), nil
}

// Service loads the store on first use. Writes are refused while a server
// holds the lockfile for the same data directory.
func (c *Context) Service() (*service.Service, error) {
	if c.svc != nil {
		return c.svc, nil
	}
	return c.OpenService(service.WithBeforeWrite(lockfile.Guard(c.LockfilePath())))
}

// OpenService loads the store with explicit options.
func (c *Context) OpenService(opts ...service.Option) (*service.Service, error) {
	if c.svc != nil {
		return c.svc, nil
	}
	svc, repairs, err := service.New(c.Store, opts...)
	if err != nil {
		return nil, err
	}
	for _, r := range repairs {
		fmt.Fprintf(c.Out, "⚠ Repaired: %s\n", r)
	}
	c.svc = svc
	return svc, nil
}

func (c *Context) Close() error {
	if c.Store == nil {
		return nil
	}
	return c.Store.Close()
}

func (c *Context) LockfilePath() string {
	return lockfile.Path(c.Config.DataPath)
}

func (c *Context) Backups() *backup.Manager {
	return backup.NewManager(c.Config.Backup.Dir, c.Config.Backup.MaxBackups)
}

// PerformAutomaticBackup snapshots the current data before a destructive
// command and only logs failures.
func (c *Context) PerformAutomaticBackup(snap models.Snapshot) {
	if _, err := c.Backups().CreateBackup(snap); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// Confirm asks a yes/no question and defaults to no.
func (c *Context) Confirm(prompt string) (bool, error) {
	c.Printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// FindQueue accepts a queue id or a case-insensitive title.
func FindQueue(svc *service.Service, ref string) (models.Queue, error) {
	if q, err := svc.Queue(ref); err == nil {
		return q, nil
	}
	var matches []models.Queue
	for _, q := range svc.Queues() {
		if strings.EqualFold(q.Title, strings.TrimSpace(ref)) {
			matches = append(matches, q)
		}
	}
	switch len(matches) {
	case 0:
		return models.Queue{}, fmt.Errorf("%w: queue %q", planner.ErrNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return models.Queue{}, fmt.Errorf("%w: %d queues are titled %q, use the id", planner.ErrValidation, len(matches), ref)
	}
}

// FindTask accepts a task id or a case-insensitive title.
func FindTask(svc *service.Service, ref string) (models.Task, error) {
	if t, err := svc.Task(ref); err == nil {
		return t, nil
	}
	var matches []models.Task
	for _, t := range svc.Tasks() {
		if strings.EqualFold(t.Title, strings.TrimSpace(ref)) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return models.Task{}, fmt.Errorf("%w: task %q", planner.ErrNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return models.Task{}, fmt.Errorf("%w: %d tasks are titled %q, use the id", planner.ErrValidation, len(matches), ref)
	}
}

// ParseDay maps a weekday name, abbreviation or number (1=Monday) onto the
// Monday-first workday convention.
func ParseDay(s string) (int, error) {
	days := map[string]int{
		"mon": 1, "monday": 1,
		"tue": 2, "tuesday": 2,
		"wed": 3, "wednesday": 3,
		"thu": 4, "thursday": 4,
		"fri": 5, "friday": 5,
	}
	key := strings.TrimSpace(strings.ToLower(s))
	if d, ok := days[key]; ok {
		return d, nil
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= 5 {
		return n, nil
	}
	return 0, fmt.Errorf("%w: invalid weekday %q (use mon-fri or 1-5)", planner.ErrValidation, s)
}
