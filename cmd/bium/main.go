package main

import (
	"github.com/alecthomas/kong"

	"github.com/julianstephens/bium/internal/cli"
	"github.com/julianstephens/bium/internal/cli/backups"
	"github.com/julianstephens/bium/internal/cli/queues"
	"github.com/julianstephens/bium/internal/cli/settings"
	"github.com/julianstephens/bium/internal/cli/system"
	"github.com/julianstephens/bium/internal/cli/tasks"
	"github.com/julianstephens/bium/internal/config"
	"github.com/julianstephens/bium/internal/constants"
	"github.com/julianstephens/bium/internal/errors"
	"github.com/julianstephens/bium/internal/logger"
	"github.com/julianstephens/bium/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"string" default:"${config_file}"`
	Store   string `help:"Store target: a .json or .db path, a PostgreSQL connection string without a password, or 'keyring'. Overrides the config file and BIUM_STORE." type:"string"`
	Debug   bool   `help:"Log at debug level and mirror logs to stderr."`

	Init     system.InitCmd     `cmd:"" help:"Initialize bium storage."`
	Serve    system.ServeCmd    `cmd:"" help:"Run the HTTP API server."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate system.ValidateCmd `cmd:"" help:"Check the week for overlapping blocks."`
	Week     system.WeekCmd     `cmd:"" help:"Show this week's blocks and their capacity."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Queue    struct {
		Add      queues.QueueAddCmd      `cmd:"" help:"Add a queue."`
		List     queues.QueueListCmd     `cmd:"" help:"List queues."`
		Edit     queues.QueueEditCmd     `cmd:"" help:"Edit a queue."`
		Delete   queues.QueueDeleteCmd   `cmd:"" help:"Delete a queue, returning its tasks to the inbox."`
		Capacity queues.QueueCapacityCmd `cmd:"" help:"Show a queue's weekly capacity."`
		Empty    queues.QueueEmptyCmd    `cmd:"" help:"Return every assigned and completed task to the inbox."`
	} `cmd:"" help:"Manage queues."`
	Template struct {
		Add    queues.TemplateAddCmd    `cmd:"" help:"Schedule a queue on a weekday."`
		List   queues.TemplateListCmd   `cmd:"" help:"List time blocks."`
		Edit   queues.TemplateEditCmd   `cmd:"" help:"Edit a time block."`
		Delete queues.TemplateDeleteCmd `cmd:"" help:"Delete a time block."`
	} `cmd:"" help:"Manage weekly time blocks."`
	Task struct {
		Add        tasks.TaskAddCmd        `cmd:"" help:"Add a task to the inbox."`
		List       tasks.TaskListCmd       `cmd:"" help:"List tasks."`
		Edit       tasks.TaskEditCmd       `cmd:"" help:"Edit a task."`
		Delete     tasks.TaskDeleteCmd     `cmd:"" help:"Delete a task."`
		Assign     tasks.TaskAssignCmd     `cmd:"" help:"Assign a task to a queue."`
		Unassign   tasks.TaskUnassignCmd   `cmd:"" help:"Move a task back to the inbox."`
		Complete   tasks.TaskCompleteCmd   `cmd:"" help:"Mark an assigned task as done."`
		Uncomplete tasks.TaskUncompleteCmd `cmd:"" help:"Reopen a completed task."`
		Link       tasks.TaskLinkCmd       `cmd:"" help:"Link a task to an Obsidian note."`
	} `cmd:"" help:"Manage tasks."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage backups."`
	Export  system.ExportCmd `cmd:"" help:"Export all data as JSON or YAML."`
	Import  system.ImportCmd `cmd:"" help:"Replace all data from an export."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability."`
	} `cmd:"" help:"Manage the database connection string in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Queue-based time blocking: inbox, queues and weekly capacity"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_file": constants.DefaultConfigFile,
		},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.Store != "" {
		cfg.Store = CLI.Store
	}

	if err := logger.Init(logger.Config{
		Debug:   CLI.Debug,
		DataDir: cfg.DataPath,
		Level:   cfg.LogLevel,
	}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}
	logger.Debug("Starting", "command", ctx.Command(), "store", storage.Detect(cfg.Store))

	// keyring commands manage the store credentials and must not open the store
	var store storage.Provider
	if ctx.Selected() == nil || ctx.Selected().Parent == nil || ctx.Selected().Parent.Name != "keyring" {
		if store, err = cli.OpenStore(cfg.Store); err != nil {
			errors.Fatal(err)
		}
	}

	appCtx := cli.NewContext(cfg, store)
	err = ctx.Run(appCtx)
	if cerr := appCtx.Close(); cerr != nil {
		logger.Warn("Failed to close store", "error", cerr)
	}
	errors.Fatal(err)
}
