package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/nutrilog/internal/analyzer"
	"github.com/julianstephens/nutrilog/internal/backup"
	"github.com/julianstephens/nutrilog/internal/config"
	"github.com/julianstephens/nutrilog/internal/foodlog"
	"github.com/julianstephens/nutrilog/internal/logger"
	"github.com/julianstephens/nutrilog/internal/rollover"
	"github.com/julianstephens/nutrilog/internal/session"
	"github.com/julianstephens/nutrilog/internal/storage"
)

// Context is handed to every command's Run method.
type Context struct {
	Store    storage.Provider
	Log      *foodlog.Store
	Policy   *rollover.Policy
	Settings *config.Settings
	Analyzer analyzer.Analyzer

	// Out and In default to the process streams
	Out io.Writer
	In  io.Reader
}

// NewContext wires the food log, the rollover policy and its pre-reset
// snapshot around store.
func NewContext(store storage.Provider, settings *config.Settings, an analyzer.Analyzer, now func() time.Time) (*Context, error) {
	if settings == nil {
		settings = &config.Settings{Timezone: "Local"}
	}
	loc, err := settings.Location()
	if err != nil {
		return nil, err
	}

	log := foodlog.NewStore(store)
	ctx := &Context{
		Store:    store,
		Log:      log,
		Policy:   rollover.New(log, loc, now),
		Settings: settings,
		Analyzer: an,
	}
	ctx.Policy.Snapshot = ctx.snapshot
	return ctx, nil
}

func (c *Context) snapshot() error {
	_, err := backup.NewManager(c.Store.GetConfigPath()).CreateBackup()
	return err
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if err := c.snapshot(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// NewSession builds a capture controller over the context's collaborators.
func (c *Context) NewSession() *session.Controller {
	return session.New(session.Config{
		Store:         c.Log,
		Policy:        c.Policy,
		Analyzer:      c.Analyzer,
		APIKeyMissing: c.APIKeyMissing(),
	})
}

// APIKeyMissing reports whether analysis calls will go out without a key.
func (c *Context) APIKeyMissing() bool {
	return c.Settings == nil || c.Settings.APIKeyMissing()
}

// Reload reopens the store, e.g. after its file was replaced by a restore.
func (c *Context) Reload() error {
	if err := c.Store.Close(); err != nil {
		logger.Warn("failed to close store before reload", "error", err)
	}
	return c.Store.Load()
}

func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Stdout(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Stdout(), args...)
}

// Confirm asks a yes/no question on the context's streams. Anything but
// y or yes is a no.
func (c *Context) Confirm(prompt string) (bool, error) {
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	c.Printf("%s [y/N]: ", prompt)

	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}
