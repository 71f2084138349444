package constants

const (
	AppName            = "nutrilog"
	DefaultKeyringUser = "analysis-api-key"
	DefaultConfigPath  = "~/.config/nutrilog/nutrilog.db"
	Version            = "v0.3.0"

	// DateFormat is the calendar-day format used for day partitioning and display (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimestampFormat is used for entry timestamps in listings
	TimestampFormat = "2006-01-02 15:04"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "nutrilog-"

	// Log constants
	LogDirName  = "logs"
	LogFileName = "nutrilog.log"

	// MaxImageBytes caps the size of an image payload sent for analysis
	MaxImageBytes = 5 * 1024 * 1024
)
