package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/nutrilog/internal/backup"
	"github.com/julianstephens/nutrilog/internal/cli"
	"github.com/julianstephens/nutrilog/internal/keyring"
	"github.com/julianstephens/nutrilog/internal/storage"
)

type DoctorCmd struct{}

type check struct {
	name     string
	run      func(*cli.Context) error
	needsLog bool
	warnOnly bool
}

var checks = []check{
	{name: "Food log reachable", run: checkStoreReachable},
	{name: "Schema version", run: checkSchemaVersion, needsLog: true},
	{name: "Entry integrity", run: checkEntryIntegrity, needsLog: true},
	{name: "Reset marker", run: checkResetMarker, needsLog: true},
	{name: "API key configured", run: checkAPIKey, warnOnly: true},
	{name: "OS keyring", run: checkKeyring, warnOnly: true},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "Clock/timezone", run: checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	reachable := false

	for i, c := range checks {
		if c.needsLog && !reachable {
			ctx.Printf("⊘ %s: SKIPPED (food log not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
		if i == 0 {
			reachable = err == nil
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load food log: %w", err)
	}
	if sqliteStore, ok := ctx.Store.(*storage.SQLiteStore); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	sqliteStore, ok := ctx.Store.(*storage.SQLiteStore)
	if !ok {
		// The JSON document carries its own version, checked on load
		return nil
	}
	runner, err := sqliteStore.Migrator()
	if err != nil {
		return err
	}
	if err := runner.Validate(); err != nil {
		return err
	}
	current, err := runner.CurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	latest, err := runner.LatestVersion()
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}
	if current < latest {
		return fmt.Errorf("schema version %d is behind latest %d", current, latest)
	}
	return nil
}

func checkEntryIntegrity(ctx *cli.Context) error {
	items, err := ctx.Log.GetAll()
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(items))
	var problems []error
	for i, e := range items {
		switch {
		case e.ID == "":
			problems = append(problems, fmt.Errorf("entry #%d has no ID", i+1))
		case seen[e.ID]:
			problems = append(problems, fmt.Errorf("duplicate entry ID %s", e.ID))
		}
		seen[e.ID] = true

		if e.Calories < 0 || e.Protein < 0 || e.Carbs < 0 || e.Fat < 0 {
			problems = append(problems, fmt.Errorf("entry %s has negative nutrient values", e.ID))
		}
		if e.Date.IsZero() {
			problems = append(problems, fmt.Errorf("entry %s has no timestamp", e.ID))
		}
	}
	return errors.Join(problems...)
}

func checkResetMarker(ctx *cli.Context) error {
	last, err := ctx.Log.LastReset()
	if err != nil {
		return err
	}
	if last != nil && last.After(ctx.Policy.Now().Add(time.Minute)) {
		return fmt.Errorf("last reset %s is in the future", last.Format(time.RFC3339))
	}
	return nil
}

func checkAPIKey(ctx *cli.Context) error {
	if ctx.APIKeyMissing() {
		return errors.New("no API key configured. Set NUTRILOG_API_KEY or run 'nutrilog key set'")
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found in %s", mgr.GetBackupDir())
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := ctx.Policy.Now()
	if now.Year() < 2020 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	if ctx.Policy.Location() == nil {
		return errors.New("no timezone configured")
	}
	return nil
}
