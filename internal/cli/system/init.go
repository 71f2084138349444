package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/nutrilog/internal/cli"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting the existing food log before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	path := ctx.Store.GetConfigPath()

	if _, err := os.Stat(path); err == nil {
		if !c.Force {
			ctx.Printf("Food log already initialized at: %s\n", path)
			return ctx.Store.Load()
		}
		// Close first to release the file before removing it
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing food log: %w", err)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to delete existing food log: %w", err)
		}
		ctx.Printf("Deleted existing food log at: %s\n", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing food log: %w", err)
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized nutrilog storage at: %s\n", path)
	return nil
}
