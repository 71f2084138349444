package main

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/nutrilog/internal/analyzer"
	"github.com/julianstephens/nutrilog/internal/cli"
	"github.com/julianstephens/nutrilog/internal/cli/backups"
	"github.com/julianstephens/nutrilog/internal/cli/entries"
	"github.com/julianstephens/nutrilog/internal/cli/system"
	"github.com/julianstephens/nutrilog/internal/config"
	"github.com/julianstephens/nutrilog/internal/constants"
	"github.com/julianstephens/nutrilog/internal/errors"
	"github.com/julianstephens/nutrilog/internal/keyring"
	"github.com/julianstephens/nutrilog/internal/logger"
	"github.com/julianstephens/nutrilog/internal/storage"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Food log path. A .json suffix selects the JSON file store, anything else SQLite." type:"path" default:"~/.config/nutrilog/nutrilog.db" env:"NUTRILOG_STORE"`
	Settings string `help:"Settings file path. Defaults to config.yaml next to the food log." type:"path"`
	Timezone string `help:"IANA timezone for the day boundary, overriding settings."`
	Debug    bool   `help:"Enable debug logging to stderr."`

	Init system.InitCmd `cmd:"" help:"Initialize the food log."`
	Tui  system.TuiCmd  `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Add  struct {
		Text  entries.AddTextCmd  `cmd:"" help:"Log a meal from a text description."`
		Image entries.AddImageCmd `cmd:"" help:"Log a meal from a photo."`
	} `cmd:"" help:"Log a meal."`
	List    entries.ListCmd    `cmd:"" help:"List logged entries, newest first."`
	Delete  entries.DeleteCmd  `cmd:"" help:"Delete an entry."`
	NewDay  entries.NewDayCmd  `cmd:"" name:"new-day" help:"Clear today's entries and start a new day."`
	Summary entries.SummaryCmd `cmd:"" help:"Show today's totals."`
	Doctor  system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Backup  struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage food log backups."`
	Key struct {
		Set    system.KeySetCmd    `cmd:"" help:"Store the analysis API key in the OS keyring."`
		Status system.KeyStatusCmd `cmd:"" help:"Show where the API key comes from."`
		Delete system.KeyDeleteCmd `cmd:"" help:"Remove the API key from the OS keyring."`
	} `cmd:"" help:"Manage the analysis API key."`
}

// Commands that manage the store themselves or never touch it
var skipLoad = map[string]bool{
	"init":   true,
	"doctor": true,
	"key":    true,
	"tui":    true,
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Photo and text food logging with AI nutrition estimates"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: filepath.Dir(CLI.Config)}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	settings, err := loadSettings()
	if err != nil {
		errors.Fatal(err)
	}

	an, err := analyzer.New(settings.AnalyzerOptions())
	if err != nil {
		errors.Fatal(err)
	}

	store := storage.New(CLI.Config)
	appCtx, err := cli.NewContext(store, settings, an, nil)
	if err != nil {
		errors.Fatal(err)
	}

	if command := strings.Fields(ctx.Command()); len(command) > 0 && !skipLoad[command[0]] {
		if err := loadOrInit(store); err != nil {
			errors.Fatal(err)
		}
	}

	err = ctx.Run(appCtx)
	if closeErr := store.Close(); closeErr != nil {
		logger.Warn("failed to close store", "error", closeErr)
	}
	errors.Fatal(err)
}

func loadSettings() (*config.Settings, error) {
	path := CLI.Settings
	if path == "" {
		path = config.DefaultPath(CLI.Config)
	}
	settings, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if CLI.Timezone != "" {
		settings.Timezone = CLI.Timezone
		if err := settings.Validate(); err != nil {
			return nil, err
		}
	}

	if err := settings.ResolveAPIKey(keyring.GetAPIKey); err != nil {
		// The key can still come from the environment next run
		logger.Warn("failed to read API key from keyring", "error", err)
	}
	logger.Debug("settings loaded", "provider", settings.Provider, "timezone", settings.Timezone, "key_source", settings.APIKeySource)
	return settings, nil
}

// loadOrInit loads the store, creating it on first use.
func loadOrInit(store storage.Provider) error {
	err := store.Load()
	if !stderrors.Is(err, storage.ErrNotInitialized) {
		return err
	}
	if err := store.Init(); err != nil {
		return err
	}
	logger.Info("initialized food log on first use", "path", store.GetConfigPath())
	return nil
}
