package llm

import (
	"fmt"
	"os"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	groqBaseURL      = "https://api.groq.com/openai/v1"
	DefaultGroqModel = "llama3-8b-8192"
)

// newGroq talks to Groq through its OpenAI-compatible endpoint.
func newGroq(s Settings) (llms.Model, error) {
	key := s.APIKey
	if key == "" {
		key = os.Getenv("GROQ_API_KEY")
	}
	if key == "" {
		return nil, fmt.Errorf("groq: %w", ErrUnavailable)
	}
	if s.BaseURL == "" {
		s.BaseURL = groqBaseURL
	}
	if s.Model == "" {
		s.Model = DefaultGroqModel
	}
	s.APIKey = key
	return newOpenAICompatible(s)
}

func newOpenAI(s Settings) (llms.Model, error) {
	if s.APIKey == "" {
		s.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if s.APIKey == "" && s.BaseURL == "" {
		return nil, fmt.Errorf("openai: %w", ErrUnavailable)
	}
	return newOpenAICompatible(s)
}

func newOpenAICompatible(s Settings) (llms.Model, error) {
	var opts []openai.Option
	if s.Model != "" {
		opts = append(opts, openai.WithModel(s.Model))
	}
	if s.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(s.BaseURL))
	}
	if s.APIKey != "" {
		opts = append(opts, openai.WithToken(s.APIKey))
	}
	m, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}
	return m, nil
}
