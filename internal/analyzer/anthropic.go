package analyzer

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/julianstephens/nutrilog/internal/constants"
	"github.com/julianstephens/nutrilog/internal/logger"
	"github.com/julianstephens/nutrilog/internal/models"
)

// AnthropicClient analyzes food with the Anthropic Messages API.
type AnthropicClient struct {
	client   anthropic.Client
	model    string
	language string
}

func NewAnthropic(opts Options) *AnthropicClient {
	reqOpts := []option.RequestOption{
		option.WithMaxRetries(opts.MaxRetries),
	}
	if opts.APIKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(opts.Timeout))
	}

	return &AnthropicClient{
		client:   anthropic.NewClient(reqOpts...),
		model:    opts.Model,
		language: opts.Language,
	}
}

func (c *AnthropicClient) AnalyzeImage(ctx context.Context, img Image) (models.Estimate, error) {
	content, err := c.complete(ctx, "analyze image", estimateSystemPrompt(c.language), constants.AnalysisMaxTokens, nil,
		anthropic.NewImageBlockBase64(img.MediaType, img.Data),
		anthropic.NewTextBlock(imageUserPrompt(c.language)),
	)
	if err != nil {
		return models.Estimate{}, err
	}
	return ParseEstimate(content)
}

func (c *AnthropicClient) AnalyzeText(ctx context.Context, description string) (models.Estimate, error) {
	content, err := c.complete(ctx, "analyze text", estimateSystemPrompt(c.language), constants.AnalysisMaxTokens, nil,
		anthropic.NewTextBlock(textUserPrompt(description)),
	)
	if err != nil {
		return models.Estimate{}, err
	}
	return ParseEstimate(content)
}

func (c *AnthropicClient) CheckFoodRelated(ctx context.Context, text string) (bool, error) {
	zero := 0.0
	content, err := c.complete(ctx, "check relatedness", relatednessSystemPrompt, constants.RelatednessMaxTokens, &zero,
		anthropic.NewTextBlock(text),
	)
	if err != nil {
		return false, err
	}
	return ParseRelated(content), nil
}

func (c *AnthropicClient) complete(ctx context.Context, op, system string, maxTokens int64, temperature *float64, blocks ...anthropic.ContentBlockParamUnion) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxTokens,
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(blocks...),
		},
	}
	if temperature != nil {
		params.Temperature = anthropic.Float(*temperature)
	}

	logger.Debug("analysis request", "provider", constants.ProviderAnthropic, "op", op, "model", c.model)
	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", adapterFailure(op, err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", adapterFailure(op, errEmptyReply)
	}
	return sb.String(), nil
}
