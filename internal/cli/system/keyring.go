package system

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/nutrilog/internal/cli"
	"github.com/julianstephens/nutrilog/internal/config"
	"github.com/julianstephens/nutrilog/internal/keyring"
)

// KeySetCmd stores the analysis API key in the OS keyring
type KeySetCmd struct {
	Key string `arg:"" optional:"" help:"API key to store. Prompted for when omitted."`
}

func (cmd *KeySetCmd) Run(ctx *cli.Context) error {
	key := cmd.Key
	if key == "" {
		err := huh.NewInput().
			Title("Analysis API key").
			EchoMode(huh.EchoModePassword).
			Value(&key).
			Run()
		if err != nil {
			return fmt.Errorf("failed to read API key: %w", err)
		}
	}

	if err := keyring.SetAPIKey(key); err != nil {
		return err
	}

	ctx.Println("✓ API key stored successfully in OS keyring")
	ctx.Println("  nutrilog will use it whenever NUTRILOG_API_KEY is not set")
	return nil
}

// KeyStatusCmd reports where the API key comes from
type KeyStatusCmd struct{}

func (cmd *KeyStatusCmd) Run(ctx *cli.Context) error {
	if keyring.IsAvailable() {
		ctx.Println("✓ OS keyring is available")
		key, err := keyring.GetAPIKey()
		switch {
		case err == nil:
			ctx.Printf("✓ API key is stored in keyring (%s)\n", keyring.Mask(key))
		case errors.Is(err, keyring.ErrNotFound):
			ctx.Println("ℹ No API key stored in keyring")
		default:
			ctx.Printf("⚠ Could not read keyring: %v\n", err)
		}
	} else {
		ctx.Println("❌ OS keyring is not available on this system")
	}

	if ctx.Settings != nil && ctx.Settings.APIKeySource == config.SourceSettings {
		ctx.Println("✓ API key is set by NUTRILOG_API_KEY or the settings file (takes priority)")
	}
	if ctx.APIKeyMissing() {
		ctx.Println("⚠ No API key configured: analysis requests will fail")
		return errors.New("no API key configured")
	}
	return nil
}

// KeyDeleteCmd removes the API key from the OS keyring
type KeyDeleteCmd struct{}

func (cmd *KeyDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteAPIKey(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no API key found in keyring")
		}
		return err
	}
	ctx.Println("✓ API key deleted from OS keyring")
	return nil
}
