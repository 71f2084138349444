package constants

import "time"

const (
	// Record keys in the key-value store
	RecordEntries   = "nutrilog-entries"
	RecordLastReset = "nutrilog-last-reset"

	// Analysis provider names
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"

	// Default settings values
	DefaultProvider       = ProviderAnthropic
	DefaultAnthropicModel = "claude-sonnet-4-5"
	DefaultOpenAIModel    = "gpt-4o"
	DefaultOpenAIBaseURL  = "https://api.openai.com/v1"
	DefaultLanguage       = "English"
	DefaultTimezone       = "Local" // Use system local timezone by default
	DefaultTimeout        = 60 * time.Second

	// Token limits for the analysis and relatedness calls
	AnalysisMaxTokens    = 500
	RelatednessMaxTokens = 10
)
