package system

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/coreos/go-systemd/v22/daemon"
	gfshutdown "github.com/gelmium/graceful-shutdown"

	"github.com/julianstephens/bium/internal/cli"
	"github.com/julianstephens/bium/internal/lockfile"
	"github.com/julianstephens/bium/internal/logger"
	"github.com/julianstephens/bium/internal/server"
)

type ServeCmd struct {
	Host     string `help:"Interface to listen on (overrides config)."`
	Port     int    `short:"p" help:"Port to listen on (overrides config)."`
	NoBackup bool   `help:"Disable scheduled backups." name:"no-backup"`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	cfg := ctx.Config.Server
	if c.Host != "" {
		cfg.Host = c.Host
	}
	if c.Port != 0 {
		cfg.Port = c.Port
	}

	// the server is the single writer, so it skips the lockfile guard
	svc, err := ctx.OpenService()
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	lockPath := ctx.LockfilePath()
	if err := lockfile.Acquire(lockPath, ln.Addr().String()); err != nil {
		ln.Close()
		return err
	}
	defer func() {
		if err := lockfile.Release(lockPath); err != nil {
			logger.Warn("Failed to remove lockfile", "error", err)
		}
	}()

	srv := server.New(svc, cfg)
	ops := map[string]gfshutdown.Operation{
		"http-server": func(sctx context.Context) error {
			logger.Info("Stopping HTTP server")
			return srv.Shutdown(sctx)
		},
	}

	if !c.NoBackup && ctx.Config.Backup.Cron != "" {
		scheduler, err := ctx.Backups().Schedule(ctx.Config.Backup.Cron, svc.Snapshot)
		if err != nil {
			ln.Close()
			return err
		}
		ops["backup-scheduler"] = func(sctx context.Context) error {
			select {
			case <-scheduler.Stop().Done():
				return nil
			case <-sctx.Done():
				return sctx.Err()
			}
		}
		logger.Info("Scheduled backups enabled", "spec", ctx.Config.Backup.Cron, "dir", ctx.Config.Backup.Dir)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	ctx.Printf("bium server listening on http://%s (store: %s)\n", ln.Addr(), ctx.Store.GetConfigPath())
	if sent, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		logger.Warn("sd_notify failed", "error", err)
	} else if sent {
		logger.Debug("Notified systemd of readiness")
	}

	wait := gfshutdown.GracefulShutdown(context.Background(), cfg.ShutdownTimeout, ops)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		// Serve only returns nil once a shutdown is under way
		if code := <-wait; code != 0 {
			return fmt.Errorf("shutdown finished with exit code %d", code)
		}
	case code := <-wait:
		if code != 0 {
			return fmt.Errorf("shutdown finished with exit code %d", code)
		}
	}
	ctx.Println("bium server stopped")
	return nil
}
