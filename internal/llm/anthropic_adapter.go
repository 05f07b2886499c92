package llm

import (
	"fmt"
	"os"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
)

func newAnthropic(s Settings) (llms.Model, error) {
	key := s.APIKey
	if key == "" {
		key = os.Getenv("ANTHROPIC_API_KEY")
	}
	if key == "" {
		return nil, fmt.Errorf("anthropic: %w", ErrUnavailable)
	}
	opts := []anthropic.Option{anthropic.WithToken(key)}
	if s.Model != "" {
		opts = append(opts, anthropic.WithModel(s.Model))
	}
	m, err := anthropic.New(opts...)
	if err != nil {
		return nil, err
	}
	return m, nil
}
