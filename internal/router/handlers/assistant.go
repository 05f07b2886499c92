package handlers

import (
	"context"

	"go.uber.org/zap"

	"vehicleagent/internal/chat"
	"vehicleagent/internal/nlu"
	"vehicleagent/internal/router"
)

const (
	greetingText    = "Hello! I'm your vehicle assistant. I can adjust the climate, play music, lock the doors, find places and give directions. How can I help?"
	acknowledgeText = "You're welcome! Let me know if you need anything else."
	generalHelpText = "I'm here to help you with your vehicle. I can control climate, music, navigation, and vehicle systems. What would you like me to do?"
)

var (
	greetingWords = newPhrases("hello", "hi", "hey", "good morning", "good afternoon", "good evening", "greetings")
	thanksWords   = newPhrases("thanks", "thank you", "thx", "appreciate it", "cheers")
)

// Assistant handles greetings, courtesies and general help.
type Assistant struct {
	base
}

func NewAssistant(logger *zap.Logger) *Assistant {
	return &Assistant{base: newBase(nlu.AgentUserExperience, logger)}
}

// CanHandle claims anything the classifier was unsure about.
func (h *Assistant) CanHandle(_ string, c nlu.Classification) bool {
	return c.Confidence < nlu.RouteThreshold
}

func (h *Assistant) Handle(_ context.Context, msg chat.AgentMessage) (router.Result, error) {
	text := normalize(msg.Content)
	switch {
	case thanksWords.in(text):
		return reply(acknowledgeText, "acknowledgement"), nil
	case greetingWords.in(text):
		return reply(greetingText, "greeting"), nil
	}
	return reply(generalHelpText, "general_assistance"), nil
}
