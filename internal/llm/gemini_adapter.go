package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

func newGemini(s Settings) (llms.Model, error) {
	key := s.APIKey
	if key == "" {
		key = os.Getenv("GOOGLE_API_KEY")
	}
	if key == "" {
		return nil, fmt.Errorf("gemini: %w", ErrUnavailable)
	}

	model := s.Model
	if model == "" {
		model = googleai.DefaultOptions().DefaultModel
	}
	opts := []googleai.Option{
		googleai.WithDefaultModel(model),
		googleai.WithAPIKey(key),
	}
	if s.BaseURL != "" {
		opts = append(opts, googleai.WithRest())
	}
	m, err := googleai.New(context.Background(), opts...)
	if err != nil {
		return nil, err
	}
	return m, nil
}
