package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/julianstephens/nutrilog/internal/constants"
	"github.com/julianstephens/nutrilog/internal/logger"
	"github.com/julianstephens/nutrilog/internal/models"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"` // string or []contentPart
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	apiKey   string
	baseURL  string
	model    string
	language string
	client   *http.Client
}

func NewOpenAI(opts Options) *OpenAIClient {
	return &OpenAIClient{
		apiKey:   opts.APIKey,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		model:    opts.Model,
		language: opts.Language,
		client:   &http.Client{Timeout: opts.Timeout},
	}
}

func (c *OpenAIClient) AnalyzeImage(ctx context.Context, img Image) (models.Estimate, error) {
	content, err := c.chat(ctx, "analyze image", chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: estimateSystemPrompt(c.language)},
			{Role: "user", Content: []contentPart{
				{Type: "text", Text: imageUserPrompt(c.language)},
				{Type: "image_url", ImageURL: &imageURL{URL: img.DataURL()}},
			}},
		},
		MaxTokens: constants.AnalysisMaxTokens,
	})
	if err != nil {
		return models.Estimate{}, err
	}
	return ParseEstimate(content)
}

func (c *OpenAIClient) AnalyzeText(ctx context.Context, description string) (models.Estimate, error) {
	content, err := c.chat(ctx, "analyze text", chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: estimateSystemPrompt(c.language)},
			{Role: "user", Content: textUserPrompt(description)},
		},
		MaxTokens: constants.AnalysisMaxTokens,
	})
	if err != nil {
		return models.Estimate{}, err
	}
	return ParseEstimate(content)
}

func (c *OpenAIClient) CheckFoodRelated(ctx context.Context, text string) (bool, error) {
	zero := 0.0
	content, err := c.chat(ctx, "check relatedness", chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: relatednessSystemPrompt},
			{Role: "user", Content: text},
		},
		MaxTokens:   constants.RelatednessMaxTokens,
		Temperature: &zero,
	})
	if err != nil {
		return false, err
	}
	return ParseRelated(content), nil
}

func (c *OpenAIClient) chat(ctx context.Context, op string, reqBody chatRequest) (string, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", adapterFailure(op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	logger.Debug("analysis request", "provider", constants.ProviderOpenAI, "op", op, "model", c.model)
	resp, err := c.client.Do(req)
	if err != nil {
		return "", adapterFailure(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", adapterFailure(op, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", adapterFailure(op, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrMalformedResponse, op, err)
	}
	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return "", adapterFailure(op, errEmptyReply)
	}
	return chatResp.Choices[0].Message.Content, nil
}
