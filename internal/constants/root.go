package constants

const (
	AppName            = "bium"
	DefaultKeyringUser = "database-connection"
	DefaultDataPath    = "~/.config/bium"
	DefaultConfigFile  = "~/.config/bium/config.yaml"
	DataFileName       = "db.json"
	Version            = "v0.3.0"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "bium-"
	BackupFileSuffix = ".json"

	// Server constants
	DefaultPort          = 3000
	ServerLockfileName   = "bium-server.lock"
	DefaultBackupCron    = "@daily"
	DefaultRatePerSecond = 20
	DefaultRateBurst     = 40

	// ID prefixes
	QueueIDPrefix    = "q_"
	TemplateIDPrefix = "qt_"
	TaskIDPrefix     = "t_"
	IDSuffixLength   = 8
)
