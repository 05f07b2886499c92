// Package llm builds the language model used for general conversation when
// no specialist handler claims a turn.
package llm

import (
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

type Provider string

const (
	ProviderGroq      Provider = "groq"
	ProviderOllama    Provider = "ollama"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
	// ProviderNone disables the model; the fallback answers with canned text.
	ProviderNone Provider = "none"
)

// ErrUnavailable is returned when no model is configured.
var ErrUnavailable = errors.New("llm: no model configured")

// Settings selects and authenticates a provider.
type Settings struct {
	Provider Provider
	Model    string
	BaseURL  string
	APIKey   string
}

// New builds the model for s.Provider. Providers that need a key and have
// none return ErrUnavailable so callers can run without a model.
func New(s Settings) (llms.Model, error) {
	switch s.Provider {
	case ProviderGroq, "":
		return newGroq(s)
	case ProviderOllama:
		return newOllama(s)
	case ProviderOpenAI:
		return newOpenAI(s)
	case ProviderAnthropic:
		return newAnthropic(s)
	case ProviderGemini:
		return newGemini(s)
	case ProviderNone:
		return nil, ErrUnavailable
	default:
		return nil, fmt.Errorf("unsupported provider: %s", s.Provider)
	}
}
