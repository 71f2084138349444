// Package analyzer turns food photos and descriptions into nutrition
// estimates using a remote language model.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/nutrilog/internal/constants"
	"github.com/julianstephens/nutrilog/internal/models"
)

var (
	// ErrAdapterFailure covers transport errors, non-success statuses and empty replies
	ErrAdapterFailure = errors.New("analysis request failed")
	// ErrMalformedResponse means the reply could not be read as a nutrition estimate
	ErrMalformedResponse = errors.New("analysis response malformed")

	errEmptyReply = errors.New("empty reply")
)

// Analyzer is the remote analysis boundary. It also satisfies misuse.Classifier.
type Analyzer interface {
	AnalyzeImage(ctx context.Context, img Image) (models.Estimate, error)
	AnalyzeText(ctx context.Context, description string) (models.Estimate, error)
	CheckFoodRelated(ctx context.Context, text string) (bool, error)
}

// Image is a base64-encoded image payload.
type Image struct {
	MediaType string // e.g. image/jpeg
	Data      string // standard base64, no data: prefix
}

// DataURL renders the image as an embeddable data URL.
func (i Image) DataURL() string {
	mediaType := i.MediaType
	if mediaType == "" {
		mediaType = "image/jpeg"
	}
	return fmt.Sprintf("data:%s;base64,%s", mediaType, i.Data)
}

// Options configures a provider.
type Options struct {
	Provider   string
	APIKey     string
	Model      string
	BaseURL    string
	Language   string
	Timeout    time.Duration
	MaxRetries int
}

// New builds the provider named in opts.
func New(opts Options) (Analyzer, error) {
	if opts.Language == "" {
		opts.Language = constants.DefaultLanguage
	}
	if opts.Timeout <= 0 {
		opts.Timeout = constants.DefaultTimeout
	}

	switch opts.Provider {
	case constants.ProviderAnthropic, "":
		if opts.Model == "" {
			opts.Model = constants.DefaultAnthropicModel
		}
		return NewAnthropic(opts), nil
	case constants.ProviderOpenAI:
		if opts.Model == "" {
			opts.Model = constants.DefaultOpenAIModel
		}
		if opts.BaseURL == "" {
			opts.BaseURL = constants.DefaultOpenAIBaseURL
		}
		return NewOpenAI(opts), nil
	default:
		return nil, fmt.Errorf("unknown analysis provider %q (expected %s or %s)",
			opts.Provider, constants.ProviderAnthropic, constants.ProviderOpenAI)
	}
}

func adapterFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrAdapterFailure, op, err)
}
