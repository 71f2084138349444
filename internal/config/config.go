// Package config loads analysis and display settings from an optional YAML
// file and NUTRILOG_* environment variables, with the OS keyring as the
// fallback source for the API key.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/julianstephens/nutrilog/internal/analyzer"
	"github.com/julianstephens/nutrilog/internal/constants"
	"github.com/julianstephens/nutrilog/internal/keyring"
	"github.com/julianstephens/nutrilog/internal/utils"
)

// FileName is the settings file looked up next to the food log.
const FileName = "config.yaml"

// Where the API key came from
const (
	SourceNone     = ""
	SourceSettings = "settings"
	SourceKeyring  = "keyring"
)

// Settings holds everything the analysis adapter and the day boundary need.
// Priority: ENV > YAML > defaults (via env-default tags).
type Settings struct {
	APIKey     string        `yaml:"api_key"     env:"NUTRILOG_API_KEY"`
	Provider   string        `yaml:"provider"    env:"NUTRILOG_PROVIDER"    env-default:"anthropic"`
	Model      string        `yaml:"model"       env:"NUTRILOG_MODEL"`
	BaseURL    string        `yaml:"base_url"    env:"NUTRILOG_BASE_URL"`
	Timeout    time.Duration `yaml:"timeout"     env:"NUTRILOG_TIMEOUT"     env-default:"60s"`
	MaxRetries int           `yaml:"max_retries" env:"NUTRILOG_MAX_RETRIES" env-default:"2"`
	Language   string        `yaml:"language"    env:"NUTRILOG_LANGUAGE"    env-default:"English"`
	Timezone   string        `yaml:"timezone"    env:"NUTRILOG_TIMEZONE"    env-default:"Local"`

	// APIKeySource records which source supplied APIKey
	APIKeySource string `yaml:"-"`
}

// DefaultPath returns the settings file path for a food log stored at storePath.
func DefaultPath(storePath string) string {
	return filepath.Join(filepath.Dir(storePath), FileName)
}

// Load reads the YAML file at path when it exists, otherwise the environment
// alone. A missing file is not an error.
func Load(path string) (*Settings, error) {
	var cfg Settings

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("config: read %s: %w", path, err)
			}
			return finish(&cfg)
		}
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	return finish(&cfg)
}

func finish(cfg *Settings) (*Settings, error) {
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.APIKey != "" {
		cfg.APIKeySource = SourceSettings
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return cfg, nil
}

// Validate checks the provider, timeout and timezone.
func (s *Settings) Validate() error {
	switch s.Provider {
	case constants.ProviderAnthropic, constants.ProviderOpenAI:
	default:
		return fmt.Errorf("unknown provider %q (want %s or %s)", s.Provider, constants.ProviderAnthropic, constants.ProviderOpenAI)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", s.Timeout)
	}
	if s.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative, got %d", s.MaxRetries)
	}
	if _, err := utils.LoadLocation(s.Timezone); err != nil {
		return err
	}
	return nil
}

// ResolveAPIKey falls back to lookup when no key was configured. A missing
// key is not an error; APIKeyMissing reports it.
func (s *Settings) ResolveAPIKey(lookup func() (string, error)) error {
	if s.APIKey != "" || lookup == nil {
		return nil
	}
	key, err := lookup()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		return err
	}
	s.APIKey = strings.TrimSpace(key)
	if s.APIKey != "" {
		s.APIKeySource = SourceKeyring
	}
	return nil
}

// APIKeyMissing is true when no source supplied a key.
func (s *Settings) APIKeyMissing() bool {
	return s.APIKey == ""
}

// Location returns the configured day-boundary timezone.
func (s *Settings) Location() (*time.Location, error) {
	return utils.LoadLocation(s.Timezone)
}

// AnalyzerOptions builds the adapter options from the settings.
func (s *Settings) AnalyzerOptions() analyzer.Options {
	return analyzer.Options{
		Provider:   s.Provider,
		APIKey:     s.APIKey,
		Model:      s.Model,
		BaseURL:    s.BaseURL,
		Language:   s.Language,
		Timeout:    s.Timeout,
		MaxRetries: s.MaxRetries,
	}
}
