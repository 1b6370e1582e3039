// Package llm provides LLM configuration and the client abstraction used by every
// AI-backed component.
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for short prose: cover letters, notices
	TierLite ModelTier = "lite"
	// TierStandard is for structured output: extraction, analysis, chat edits
	TierStandard ModelTier = "standard"
	// TierAdvanced is for full-document rewriting: CV tailoring
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider
const ProviderGemini Provider = "gemini"

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
}

// DefaultConfig returns the default Gemini configuration
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// ConfigFromModels overlays tier names from a configuration file onto the defaults.
// Keys that are not a known tier are ignored.
func ConfigFromModels(models map[string]string) *Config {
	cfg := DefaultConfig()
	for tier, model := range models {
		t := ModelTier(tier)
		switch t {
		case TierLite, TierStandard, TierAdvanced:
			if model != "" {
				cfg.Models[t] = model
			}
		}
	}
	return cfg
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}
