// Package console is the interactive front end: a bubbletea chat view for
// terminals and a line-oriented REPL for pipes.
package console

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"vehicleagent/internal/chat"
)

// Session runs turns against the assistant.
type Session interface {
	Turn(ctx context.Context, userID, text string, loc *chat.Location) chat.AgentMessage
	VehicleState() map[string]any
}

type Options struct {
	UserID   string
	Location *chat.Location
}

func (o Options) userID() string {
	if o.UserID == "" {
		return "driver"
	}
	return o.UserID
}

const helpText = `Commands:
  /state            show the vehicle state
  /where LAT,LNG    set your location (/where off clears it)
  /clear            clear the transcript
  /help             this help
  /exit             quit`

type commandKind int

const (
	cmdNone commandKind = iota
	cmdExit
	cmdState
	cmdWhere
	cmdClear
	cmdHelp
	cmdUnknown
)

type command struct {
	kind commandKind
	arg  string
}

func parseCommand(line string) command {
	switch line {
	case "exit", "quit":
		return command{kind: cmdExit}
	}
	if !strings.HasPrefix(line, "/") {
		return command{kind: cmdNone}
	}
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case "/exit", "/quit":
		return command{kind: cmdExit}
	case "/state":
		return command{kind: cmdState}
	case "/where":
		return command{kind: cmdWhere, arg: arg}
	case "/clear":
		return command{kind: cmdClear}
	case "/help":
		return command{kind: cmdHelp}
	}
	return command{kind: cmdUnknown, arg: name}
}

var errBadLocation = errors.New("expected LAT,LNG")

// parseLocation reads "lat,lng". "off" returns nil.
func parseLocation(s string) (*chat.Location, error) {
	if s == "off" || s == "" {
		return nil, nil
	}
	latS, lngS, ok := strings.Cut(s, ",")
	if !ok {
		return nil, errBadLocation
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latS), 64)
	if err != nil || lat < -90 || lat > 90 {
		return nil, errBadLocation
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngS), 64)
	if err != nil || lng < -180 || lng > 180 {
		return nil, errBadLocation
	}
	return &chat.Location{Latitude: lat, Longitude: lng}, nil
}

func describeLocation(loc *chat.Location) string {
	if loc == nil {
		return "location cleared"
	}
	return "location set to " + loc.String()
}

// FormatState renders a vehicle snapshot on three lines.
func FormatState(s map[string]any) string {
	climate, _ := s["climate"].(map[string]any)
	music, _ := s["music"].(map[string]any)
	body, _ := s["vehicle"].(map[string]any)

	track, _ := music["current_track"].(string)
	if track == "" {
		track = "none"
	}
	playing := "stopped"
	if on, _ := music["playing"].(bool); on {
		playing = "playing"
	}

	return fmt.Sprintf("🌡  %v°C, AC %s, fan %v\n🎵 %s (%s), volume %v%%\n🚗 doors %s, lights %s",
		climate["temperature"], onOff(climate["ac_on"]), climate["fan_speed"],
		track, playing, music["volume"],
		lockedState(body["doors_locked"]), onOff(body["lights_on"]))
}

func onOff(v any) string {
	if b, _ := v.(bool); b {
		return "on"
	}
	return "off"
}

func lockedState(v any) string {
	if b, _ := v.(bool); b {
		return "locked"
	}
	return "unlocked"
}

// speaker is the short label shown before a response.
func speaker(agentID string) string {
	if agentID == "" {
		return "assistant"
	}
	return strings.TrimSuffix(agentID, "_agent")
}
