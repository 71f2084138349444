package entries

import (
	"github.com/julianstephens/nutrilog/internal/cli"
)

type NewDayCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *NewDayCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		ctx.Println("This removes every entry logged today. Earlier days are kept.")
		ok, err := ctx.Confirm("Start a new day?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("New day cancelled.")
			return nil
		}
	}

	ctrl := ctx.NewSession()
	if err := ctrl.Refresh(); err != nil {
		return err
	}
	res, err := ctrl.NewDay()
	if err != nil {
		return err
	}

	ctx.Printf("✓ New day started: removed %d of today's entries, kept %d from earlier days.\n", res.Removed, res.Retained)
	return nil
}
