package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

const (
	systemPrompt = "You are a helpful AI assistant in a smart vehicle. You can have general conversations, " +
		"answer questions, and provide helpful information. Be friendly and informative. Provide complete " +
		"and useful responses to user queries. Make sure to double check the info you are providing."

	maxReplyTokens = 800
	temperature    = 0.7

	DefaultTimeout = 30 * time.Second
)

// Conversation answers free-form utterances with a language model.
type Conversation struct {
	model   llms.Model
	timeout time.Duration
	logger  *zap.Logger
}

// NewConversation wraps model. A nil model yields a Conversation whose
// Complete always returns ErrUnavailable.
func NewConversation(model llms.Model, timeout time.Duration, logger *zap.Logger) *Conversation {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Conversation{model: model, timeout: timeout, logger: logger.Named("llm")}
}

func (c *Conversation) Available() bool {
	return c != nil && c.model != nil
}

// Complete produces a reply to utterance given a condensed transcript of
// earlier turns.
func (c *Conversation) Complete(ctx context.Context, utterance, history string) (string, error) {
	if !c.Available() {
		return "", ErrUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, fmt.Sprintf("Context: %s\n\nUser message: %s", history, utterance)),
	}

	start := time.Now()
	resp, err := c.model.GenerateContent(ctx, messages,
		llms.WithMaxTokens(maxReplyTokens),
		llms.WithTemperature(temperature),
	)
	if err != nil {
		c.logger.Warn("completion failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty response from model")
	}

	reply := strings.TrimSpace(resp.Choices[0].Content)
	if reply == "" {
		return "", errors.New("empty response from model")
	}
	c.logger.Debug("completion", zap.Int("chars", len(reply)), zap.Duration("elapsed", time.Since(start)))
	return reply, nil
}
