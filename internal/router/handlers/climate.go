package handlers

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"vehicleagent/internal/chat"
	"vehicleagent/internal/nlu"
	"vehicleagent/internal/router"
	"vehicleagent/internal/vehicle"
)

const (
	warmSetPoint = 25
	coolSetPoint = 20

	climateHint = "I'll help you with climate control. Try saying 'set temperature to 22' or 'turn on AC'."
)

var (
	temperaturePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\s*(?:degrees?|°)`),
		regexp.MustCompile(`temperature\s+(?:to\s+)?(\d+)`),
		regexp.MustCompile(`make\s+it\s+(\d+)`),
	}
	fanLevelPattern = regexp.MustCompile(`fan(?:\s+speed)?\s+(?:to\s+|level\s+)?(\d+)`)
	acPattern       = regexp.MustCompile(`\b(?:ac|a/c|air\s+condition(?:ing|er))\b`)

	fanUp     = newPhrases("increase fan", "fan up", "more fan")
	fanDown   = newPhrases("decrease fan", "fan down", "less fan")
	switchOn  = newPhrases("turn on", "switch on", "start")
	switchOff = newPhrases("turn off", "switch off", "stop")

	// The occupant's feeling decides the direction: feeling cold means heat.
	wantsWarmer = newPhrases("warmer", "heat up", "cold", "chilly", "freezing")
	wantsCooler = newPhrases("cooler", "cool down", "hot", "warm", "stuffy")
)

// Climate drives cabin temperature, fan speed and AC.
type Climate struct {
	base
	state *vehicle.State
}

func NewClimate(state *vehicle.State, logger *zap.Logger) *Climate {
	return &Climate{base: newBase(nlu.AgentClimate, logger), state: state}
}

func (h *Climate) Handle(_ context.Context, msg chat.AgentMessage) (router.Result, error) {
	text := normalize(msg.Content)

	if t, ok := firstInt(text, temperaturePatterns...); ok {
		return h.setTemperature(t, "set_temperature: %d°C"), nil
	}

	if level, ok := firstInt(text, fanLevelPattern); ok {
		applied := h.state.SetFanSpeed(level)
		return withState(h.state, fmt.Sprintf("Fan speed set to level %d", applied),
			fmt.Sprintf("set_fan_speed: %d", applied)), nil
	}
	switch {
	case fanUp.in(text):
		applied := h.state.AdjustFanSpeed(1)
		return withState(h.state, fmt.Sprintf("Fan speed set to level %d", applied), "increase_fan_speed"), nil
	case fanDown.in(text):
		applied := h.state.AdjustFanSpeed(-1)
		return withState(h.state, fmt.Sprintf("Fan speed set to level %d", applied), "decrease_fan_speed"), nil
	}

	if acPattern.MatchString(text) {
		var on bool
		switch {
		case switchOff.in(text):
			h.state.SetAC(false)
		case switchOn.in(text):
			h.state.SetAC(true)
			on = true
		default:
			on = h.state.ToggleAC()
		}
		return withState(h.state, "AC turned "+onOff(on), "toggle_ac"), nil
	}

	switch {
	case wantsWarmer.in(text):
		return h.setTemperature(warmSetPoint, "increase_temperature"), nil
	case wantsCooler.in(text):
		return h.setTemperature(coolSetPoint, "decrease_temperature"), nil
	}

	return reply(climateHint), nil
}

// setTemperature applies t and reports the clamped value. action may carry
// one %d verb for the applied temperature.
func (h *Climate) setTemperature(t int, action string) router.Result {
	applied := h.state.SetTemperature(t)
	if applied != t {
		h.logger.Debug("temperature clamped", zap.Int("requested", t), zap.Int("applied", applied))
	}
	if strings.Contains(action, "%d") {
		action = fmt.Sprintf(action, applied)
	}
	return withState(h.state, fmt.Sprintf("Temperature set to %d°C", applied), action)
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
