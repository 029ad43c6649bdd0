package module

import (
	"time"

	"toxicbot/internal/adapters/classifier"
	"toxicbot/internal/core/policy"
	"toxicbot/internal/platform/config"
	"toxicbot/internal/platform/net/http/bind"
)

// Options controls moderation behavior and collaborator clients
type Options struct {
	// Action inputs (INPUT_*)
	LogKey      string  `validate:"required"`
	GitHubToken string  // empty posts anonymously, which GitHub rejects
	Silent      bool    // classify and log, never comment
	Message     string  // intervention prefix, empty uses the default
	Threshold   float64 `validate:"gt=0,lte=1"`

	// Infrastructure (CORE_MODERATE_*)
	ResearchURL     string
	GitHubAPIURL    string
	Classifier      string `validate:"oneof=lexicon remote anthropic"`
	ClassifierURL   string `validate:"required_if=Classifier remote"`
	AnthropicAPIKey string `validate:"required_if=Classifier anthropic"`
	AnthropicModel  string
	Timeout         time.Duration `validate:"gt=0"`
	MaxRetries      int           `validate:"gte=0,lte=10"`
	Telemetry       bool
}

// FromConfig reads INPUT_* and CORE_MODERATE_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	in := cfg.Prefix("INPUT_")
	mc := cfg.Prefix("CORE_MODERATE_")
	return Options{
		LogKey:      in.MayString("LOG_KEY", ""),
		GitHubToken: in.MayString("GITHUB_TOKEN", ""),
		Silent:      in.MayFlag("SILENT"),
		Message:     in.MayString("MESSAGE", ""),
		Threshold:   in.MayFloat64("THRESHOLD", policy.DefaultThreshold),

		ResearchURL:     mc.MayString("RESEARCH_URL", ""),
		GitHubAPIURL:    mc.MayString("GITHUB_API_URL", ""),
		Classifier:      mc.MayString("CLASSIFIER", classifier.KindLexicon),
		ClassifierURL:   mc.MayString("CLASSIFIER_URL", ""),
		AnthropicAPIKey: mc.MayString("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  mc.MayString("ANTHROPIC_MODEL", ""),
		Timeout:         mc.MayDuration("TIMEOUT", 10*time.Second),
		MaxRetries:      mc.MayInt("MAX_RETRIES", 3),
		Telemetry:       mc.MayBool("TELEMETRY", false),
	}
}

// Validate checks o with the shared validator; failures carry the offending field
func (o Options) Validate() error { return bind.Struct(o) }
