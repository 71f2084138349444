package entries

import (
	"github.com/julianstephens/nutrilog/internal/cli"
)

type DeleteCmd struct {
	ID string `arg:"" help:"ID of the entry to delete."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	entry, ok, err := ctx.Log.Get(c.ID)
	if err != nil {
		return err
	}
	if !ok {
		ctx.Printf("No entry with ID %s; nothing deleted.\n", c.ID)
		return nil
	}

	ctrl := ctx.NewSession()
	if err := ctrl.Refresh(); err != nil {
		return err
	}
	if err := ctrl.DeleteItem(c.ID); err != nil {
		return err
	}

	ctx.Printf("✓ Deleted %s (%s kcal)\n", entry.Name, cli.FormatAmount(entry.Calories))
	return nil
}
