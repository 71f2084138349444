// Package analyzertest provides a scripted analyzer.Analyzer for tests.
package analyzertest

import (
	"context"
	"sync"

	"github.com/julianstephens/nutrilog/internal/analyzer"
	"github.com/julianstephens/nutrilog/internal/models"
)

// Fake returns canned results and records every call.
type Fake struct {
	mu sync.Mutex

	Estimate   models.Estimate
	ImageErr   error
	TextErr    error
	Related    bool
	RelatedErr error

	// Block, when set, is received from before each analysis call returns
	Block chan struct{}

	ImageCalls   int
	TextCalls    int
	RelatedCalls int
	Descriptions []string
}

// New returns a Fake that treats every text as food and answers est.
func New(est models.Estimate) *Fake {
	return &Fake{Estimate: est, Related: true}
}

func (f *Fake) AnalyzeImage(ctx context.Context, _ analyzer.Image) (models.Estimate, error) {
	f.wait(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ImageCalls++
	if f.ImageErr != nil {
		return models.Estimate{}, f.ImageErr
	}
	return f.Estimate, nil
}

func (f *Fake) AnalyzeText(ctx context.Context, description string) (models.Estimate, error) {
	f.wait(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.TextCalls++
	f.Descriptions = append(f.Descriptions, description)
	if f.TextErr != nil {
		return models.Estimate{}, f.TextErr
	}
	return f.Estimate, nil
}

func (f *Fake) CheckFoodRelated(_ context.Context, _ string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RelatedCalls++
	return f.Related, f.RelatedErr
}

// Calls returns the image, text and relatedness call counts.
func (f *Fake) Calls() (image, text, related int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ImageCalls, f.TextCalls, f.RelatedCalls
}

func (f *Fake) wait(ctx context.Context) {
	if f.Block == nil {
		return
	}
	select {
	case <-f.Block:
	case <-ctx.Done():
	}
}
