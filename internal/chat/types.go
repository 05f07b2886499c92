package chat

import (
	"fmt"
	"time"
)

type MessageType string

const (
	MessageUserInput     MessageType = "user_input"
	MessageAgentResponse MessageType = "agent_response"
)

// Location is a WGS84 coordinate supplied by the client.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (l Location) String() string {
	return fmt.Sprintf("%.4f,%.4f", l.Latitude, l.Longitude)
}

// AgentMessage is one inbound utterance or outbound response. Values are
// built once and not mutated afterwards.
type AgentMessage struct {
	Content      string         `json:"content"`
	UserID       string         `json:"user_id"`
	Timestamp    time.Time      `json:"timestamp"`
	MessageType  MessageType    `json:"message_type"`
	AgentID      string         `json:"agent_id,omitempty"`
	ActionsTaken []string       `json:"actions_taken"`
	VehicleState map[string]any `json:"vehicle_state"`
	UserLocation *Location      `json:"user_location,omitempty"`
}

// NewUserMessage builds an inbound message. loc may be nil.
func NewUserMessage(userID, content string, loc *Location) AgentMessage {
	return withDefaults(AgentMessage{
		Content:      content,
		UserID:       userID,
		Timestamp:    time.Now(),
		MessageType:  MessageUserInput,
		UserLocation: loc,
	})
}

// NewAgentResponse builds an outbound message from a handler result.
func NewAgentResponse(userID, agentID, content string, actions []string, state map[string]any) AgentMessage {
	return withDefaults(AgentMessage{
		Content:      content,
		UserID:       userID,
		Timestamp:    time.Now(),
		MessageType:  MessageAgentResponse,
		AgentID:      agentID,
		ActionsTaken: actions,
		VehicleState: state,
	})
}

func withDefaults(m AgentMessage) AgentMessage {
	if m.ActionsTaken == nil {
		m.ActionsTaken = []string{}
	}
	if m.VehicleState == nil {
		m.VehicleState = map[string]any{}
	}
	if m.MessageType == "" {
		m.MessageType = MessageUserInput
	}
	return m
}
