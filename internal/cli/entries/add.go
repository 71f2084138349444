package entries

import (
	"context"
	"errors"
	"strings"

	"github.com/julianstephens/nutrilog/internal/cli"
	"github.com/julianstephens/nutrilog/internal/imageinput"
	"github.com/julianstephens/nutrilog/internal/logger"
	"github.com/julianstephens/nutrilog/internal/models"
	"github.com/julianstephens/nutrilog/internal/session"
)

type AddTextCmd struct {
	Description []string `arg:"" help:"What you ate, e.g. \"200g grilled chicken breast\"."`
}

func (c *AddTextCmd) Run(ctx *cli.Context) error {
	ctrl, err := openCapture(ctx)
	if err != nil {
		return err
	}
	if err := ctrl.UseText(); err != nil {
		return err
	}

	entry, err := ctrl.SubmitText(context.Background(), strings.Join(c.Description, " "))
	view := ctrl.Snapshot()
	switch {
	case errors.Is(err, session.ErrMisuseBlocked):
		ctx.Println("❌ That doesn't look like a food or nutrition description, so nothing was logged.")
		ctx.Println("   Describe a meal, snack or drink, e.g. \"bowl of oatmeal with banana\".")
		_ = ctrl.AcknowledgeMisuse()
		return err
	case err != nil:
		if view.Error != "" {
			ctx.Printf("❌ %s\n", view.Error)
		}
		return err
	}

	if view.Uncertain {
		ctx.Println("⚠ Could not confirm the description is about food; logged anyway.")
	}
	printLogged(ctx, entry)
	return nil
}

type AddImageCmd struct {
	Path string `arg:"" type:"existingfile" help:"Photo of the meal (jpeg, png, gif or webp)."`
}

func (c *AddImageCmd) Run(ctx *cli.Context) error {
	img, err := imageinput.Load(c.Path)
	if err != nil {
		return err
	}

	ctrl, err := openCapture(ctx)
	if err != nil {
		return err
	}

	entry, err := ctrl.SubmitImage(context.Background(), img)
	if err != nil {
		ctx.Printf("❌ %s\n", ctrl.Snapshot().Error)
		ctx.Println("   Describe the meal instead with: nutrilog add text \"...\"")
		return err
	}
	printLogged(ctx, entry)
	return nil
}

// openCapture runs the startup rollover check and opens a capture.
func openCapture(ctx *cli.Context) (*session.Controller, error) {
	if ctx.APIKeyMissing() {
		ctx.Println("⚠ No API key configured. Set NUTRILOG_API_KEY or run 'nutrilog key set'.")
	}

	ctrl := ctx.NewSession()
	did, err := ctrl.Start()
	if err != nil {
		return nil, err
	}
	if did {
		logger.Info("started a new day before capture")
	}
	if err := ctrl.Open(); err != nil {
		return nil, err
	}
	return ctrl, nil
}

func printLogged(ctx *cli.Context, e models.Entry) {
	ctx.Printf("✓ Logged %s: %s kcal (%s)\n", e.Name, cli.FormatAmount(e.Calories), cli.FormatMacros(e.Protein, e.Carbs, e.Fat))
	ctx.Printf("  ID: %s\n", e.ID)
}
