package llm

import (
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

const DefaultOllamaModel = "llama3"

// newOllama needs no credentials; an unreachable server surfaces as a call
// error at conversation time.
func newOllama(s Settings) (llms.Model, error) {
	model := s.Model
	if model == "" {
		model = DefaultOllamaModel
	}
	opts := []ollama.Option{ollama.WithModel(model)}
	if s.BaseURL != "" {
		opts = append(opts, ollama.WithServerURL(s.BaseURL))
	}
	m, err := ollama.New(opts...)
	if err != nil {
		return nil, err
	}
	return m, nil
}
