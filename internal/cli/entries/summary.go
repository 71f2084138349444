package entries

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/nutrilog/internal/cli"
	"github.com/julianstephens/nutrilog/internal/models"
	"github.com/julianstephens/nutrilog/internal/utils"
)

type SummaryCmd struct {
	JSON bool `help:"Print the summary as JSON."`
}

type summaryOutput struct {
	models.DailyStats
	LastReset string `json:"lastReset"`
}

func (c *SummaryCmd) Run(ctx *cli.Context) error {
	ctrl := ctx.NewSession()
	if _, err := ctrl.Start(); err != nil {
		return err
	}
	view := ctrl.Snapshot()
	lastReset := utils.FormatLastReset(view.LastReset, ctx.Policy.Now(), ctx.Policy.Location())

	if c.JSON {
		data, err := json.MarshalIndent(summaryOutput{DailyStats: view.Stats, LastReset: lastReset}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
		ctx.Println(string(data))
		return nil
	}

	s := view.Stats
	ctx.Printf("Today (%s)\n\n", s.Day)
	ctx.Printf("  Entries:   %d\n", s.Count)
	ctx.Printf("  Calories:  %s kcal\n", cli.FormatAmount(s.Calories))
	ctx.Printf("  Macros:    %s\n", cli.FormatMacros(s.Protein, s.Carbs, s.Fat))
	if s.Count > 0 {
		ctx.Printf("  Split:     %s\n", cli.FormatSplit(s.Split))
	}
	ctx.Printf("\nLast reset: %s\n", lastReset)
	return nil
}
