package entries

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/nutrilog/internal/cli"
	"github.com/julianstephens/nutrilog/internal/models"
	"github.com/julianstephens/nutrilog/internal/session"
)

type ListCmd struct {
	Today bool `help:"Only show entries logged today."`
	JSON  bool `help:"Print entries as JSON."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	ctrl := ctx.NewSession()
	if _, err := ctrl.Start(); err != nil {
		return err
	}
	view := ctrl.Snapshot()

	items := view.Entries
	if c.Today {
		items = todayOnly(ctx, view)
	}

	if c.JSON {
		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal entries: %w", err)
		}
		ctx.Println(string(data))
		return nil
	}

	if len(items) == 0 {
		ctx.Println("No entries logged yet. Add one with 'nutrilog add text' or 'nutrilog add image'.")
		return nil
	}

	loc := ctx.Policy.Location()
	ctx.Printf("%s (newest first):\n\n", describe(len(items), c.Today))
	for _, e := range items {
		ctx.Printf("  %s\n", cli.FormatEntry(e, loc))
	}
	return nil
}

func todayOnly(ctx *cli.Context, view session.View) []models.Entry {
	now := ctx.Policy.Now()
	loc := ctx.Policy.Location()
	items := []models.Entry{}
	for _, e := range view.Entries {
		if models.SameDay(e.Date, now, loc) {
			items = append(items, e)
		}
	}
	return items
}

// describe renders the listing header count
func describe(n int, today bool) string {
	if today {
		return fmt.Sprintf("%d entries today", n)
	}
	return fmt.Sprintf("%d entries", n)
}
