package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserMessage_FillsDefaults(t *testing.T) {
	m := NewUserMessage("u1", "hello", nil)

	assert.Equal(t, MessageUserInput, m.MessageType)
	assert.NotNil(t, m.ActionsTaken)
	assert.NotNil(t, m.VehicleState)
	assert.Empty(t, m.AgentID)
	assert.Nil(t, m.UserLocation)
	assert.False(t, m.Timestamp.IsZero())
}

func TestNewAgentResponse(t *testing.T) {
	m := NewAgentResponse("u1", "climate_agent", "Temperature set to 22°C", nil, nil)

	assert.Equal(t, MessageAgentResponse, m.MessageType)
	assert.Equal(t, "climate_agent", m.AgentID)
	assert.Equal(t, []string{}, m.ActionsTaken)
	assert.Equal(t, map[string]any{}, m.VehicleState)
}

func TestAgentMessage_JSONShape(t *testing.T) {
	loc := &Location{Latitude: 16.7206, Longitude: 81.1071}
	b, err := json.Marshal(NewUserMessage("u1", "where am i", loc))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "user_input", got["message_type"])
	assert.Equal(t, []any{}, got["actions_taken"])
	assert.Equal(t, map[string]any{"latitude": 16.7206, "longitude": 81.1071}, got["user_location"])
	assert.NotContains(t, got, "agent_id")
	assert.Equal(t, "16.7206,81.1071", loc.String())
}
