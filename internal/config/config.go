// Package config loads runtime settings from an optional YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/julianstephens/bium/internal/constants"
	"github.com/julianstephens/bium/internal/keyring"
)

type ServerConfig struct {
	Host            string        `yaml:"host" env:"HOST" env-default:"127.0.0.1"`
	Port            int           `yaml:"port" env:"PORT" env-default:"3000"`
	StaticDir       string        `yaml:"static_dir" env:"BIUM_STATIC_DIR"`
	CORSOrigins     string        `yaml:"cors_origins" env:"BIUM_CORS_ORIGINS" env-default:"*"`
	RatePerSecond   float64       `yaml:"rate_per_second" env:"BIUM_RATE_PER_SECOND" env-default:"20"`
	RateBurst       int           `yaml:"rate_burst" env:"BIUM_RATE_BURST" env-default:"40"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"BIUM_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type BackupConfig struct {
	Cron       string `yaml:"cron" env:"BIUM_BACKUP_CRON" env-default:"@daily"`
	Dir        string `yaml:"dir" env:"BIUM_BACKUP_DIR"`
	MaxBackups int    `yaml:"max_backups" env:"BIUM_MAX_BACKUPS" env-default:"14"`
}

type Config struct {
	DataPath string       `yaml:"data_path" env:"DATA_PATH" env-default:"~/.config/bium"`
	Store    string       `yaml:"store" env:"BIUM_STORE"`
	LogLevel string       `yaml:"log_level" env:"BIUM_LOG_LEVEL" env-default:"warn"`
	Server   ServerConfig `yaml:"server"`
	Backup   BackupConfig `yaml:"backup"`
}

// Load reads configPath when it exists and falls back to the environment
// alone when it does not. Paths are expanded and defaults derived.
func Load(configPath string) (Config, error) {
	var cfg Config

	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return cfg, fmt.Errorf("cannot read env: %w", err)
		}
		return cfg.finish()
	}

	path, err := ExpandHome(configPath)
	if err != nil {
		return cfg, err
	}
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		var pe *os.PathError
		if !errors.As(err, &pe) {
			return cfg, fmt.Errorf("cannot read config %q: %w", path, err)
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return cfg, fmt.Errorf("cannot read env: %w", err)
		}
	}
	return cfg.finish()
}

func (c Config) finish() (Config, error) {
	var err error
	if c.DataPath, err = ExpandHome(c.DataPath); err != nil {
		return c, err
	}
	if c.Store == "" {
		c.Store = filepath.Join(c.DataPath, constants.DataFileName)
	} else if !strings.Contains(c.Store, "://") && c.Store != keyring.Target {
		if c.Store, err = ExpandHome(c.Store); err != nil {
			return c, err
		}
	}
	if c.Backup.Dir == "" {
		c.Backup.Dir = filepath.Join(c.DataPath, constants.BackupDirName)
	} else if c.Backup.Dir, err = ExpandHome(c.Backup.Dir); err != nil {
		return c, err
	}
	if c.Server.StaticDir != "" {
		if c.Server.StaticDir, err = ExpandHome(c.Server.StaticDir); err != nil {
			return c, err
		}
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return c, fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Backup.MaxBackups <= 0 {
		c.Backup.MaxBackups = constants.MaxBackups
	}
	return c, nil
}

// Address is the host:port the server listens on.
func (c Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// LogDir is where the rotating log file lives.
func (c Config) LogDir() string {
	return filepath.Join(c.DataPath, "logs")
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
