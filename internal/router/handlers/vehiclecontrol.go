package handlers

import (
	"context"

	"go.uber.org/zap"

	"vehicleagent/internal/chat"
	"vehicleagent/internal/nlu"
	"vehicleagent/internal/router"
	"vehicleagent/internal/vehicle"
)

const vehicleControlHint = "I'll help you control vehicle systems. Try saying 'lock doors', 'unlock doors', or 'turn on lights'."

var (
	unlockWords = newPhrases("unlock", "open the doors", "open doors")
	lockWords   = newPhrases("lock", "secure")
	lightWords  = newPhrases("light", "lights", "headlight", "headlights", "headlamps")
	lightsOff   = newPhrases("off", "dim")
	lightsOn    = newPhrases("on")
)

// VehicleControl locks the doors and switches the lights.
type VehicleControl struct {
	base
	state *vehicle.State
}

func NewVehicleControl(state *vehicle.State, logger *zap.Logger) *VehicleControl {
	return &VehicleControl{base: newBase(nlu.AgentVehicleControl, logger), state: state}
}

func (h *VehicleControl) Handle(_ context.Context, msg chat.AgentMessage) (router.Result, error) {
	text := normalize(msg.Content)

	// "unlock" has to win over "lock".
	switch {
	case unlockWords.in(text):
		h.state.UnlockDoors()
		return withState(h.state, "Doors unlocked", "unlock_doors"), nil
	case lockWords.in(text):
		h.state.LockDoors()
		return withState(h.state, "All doors locked", "lock_doors"), nil
	}

	if lightWords.in(text) {
		switch {
		case lightsOff.in(text):
			h.state.SetLights(false)
			return withState(h.state, "Lights turned off", "lights_off"), nil
		case lightsOn.in(text):
			h.state.SetLights(true)
			return withState(h.state, "Lights turned on", "lights_on"), nil
		}
		on := h.state.ToggleLights()
		return withState(h.state, "Lights turned "+onOff(on), "toggle_lights"), nil
	}

	return reply(vehicleControlHint), nil
}
