package handlers

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"vehicleagent/internal/chat"
	"vehicleagent/internal/nlu"
	"vehicleagent/internal/router"
	"vehicleagent/internal/vehicle"
)

const (
	volumeStep = 10

	musicHint    = "I'll help you with music. Try saying 'play music', 'pause', 'next track', or 'set volume to 70'."
	noMusicFiles = "🎵 No music files available. Add tracks to the playlist to start playback."
)

var (
	volumePattern = regexp.MustCompile(`volume\s*(?:to\s*)?(\d+)`)

	unmuteWords   = newPhrases("unmute")
	muteWords     = newPhrases("mute", "silence")
	louderWords   = newPhrases("louder", "turn up", "volume up")
	quieterWords  = newPhrases("quieter", "softer", "turn down", "volume down")
	nextWords     = newPhrases("next", "skip")
	previousWords = newPhrases("previous", "back", "last track", "go back")
	pauseWords    = newPhrases("pause", "stop")
	resumeWords   = newPhrases("resume", "unpause", "continue")
	playWords     = newPhrases("play", "start", "music", "song")
)

// Entertainment controls the simulated media player. No audio is decoded;
// only the player state changes.
type Entertainment struct {
	base
	state *vehicle.State
}

func NewEntertainment(state *vehicle.State, logger *zap.Logger) *Entertainment {
	return &Entertainment{base: newBase(nlu.AgentEntertainment, logger), state: state}
}

func (h *Entertainment) Handle(_ context.Context, msg chat.AgentMessage) (router.Result, error) {
	text := normalize(msg.Content)

	if v, ok := firstInt(text, volumePattern); ok {
		applied := h.state.SetVolume(v)
		return withState(h.state, fmt.Sprintf("🎵 Volume set to %d%%", applied),
			fmt.Sprintf("set_volume: %d%%", applied)), nil
	}

	switch {
	case unmuteWords.in(text):
		v := h.state.Unmute()
		return withState(h.state, fmt.Sprintf("🔊 Music unmuted, volume %d%%", v), "unmute"), nil
	case muteWords.in(text):
		h.state.Mute()
		return withState(h.state, "🔇 Music muted", "mute"), nil
	case louderWords.in(text):
		v := h.state.AdjustVolume(volumeStep)
		return withState(h.state, fmt.Sprintf("🎵 Volume set to %d%%", v), fmt.Sprintf("set_volume: %d%%", v)), nil
	case quieterWords.in(text):
		v := h.state.AdjustVolume(-volumeStep)
		return withState(h.state, fmt.Sprintf("🎵 Volume set to %d%%", v), fmt.Sprintf("set_volume: %d%%", v)), nil
	}

	switch {
	case nextWords.in(text):
		return h.track(h.state.NextTrack, "🎵 Next track: %s", "next_track")
	case previousWords.in(text):
		return h.track(h.state.PreviousTrack, "🎵 Previous track: %s", "previous_track")
	case pauseWords.in(text):
		return h.togglePause()
	case resumeWords.in(text) && h.state.Music().Paused:
		return h.togglePause()
	case resumeWords.in(text), playWords.in(text):
		return h.track(h.state.Play, "🎵 Now playing: %s", "play_music")
	}

	return reply(musicHint), nil
}

func (h *Entertainment) track(step func() (string, error), format, action string) (router.Result, error) {
	name, err := step()
	if errors.Is(err, vehicle.ErrEmptyPlaylist) {
		h.logger.Warn("playback requested with an empty playlist", zap.String("action", action))
		return reply(noMusicFiles), nil
	}
	if err != nil {
		return router.Result{}, fmt.Errorf("%s: %w", action, err)
	}
	return withState(h.state, fmt.Sprintf(format, name), action), nil
}

func (h *Entertainment) togglePause() (router.Result, error) {
	res, name, err := h.state.TogglePause()
	if errors.Is(err, vehicle.ErrEmptyPlaylist) {
		return reply(noMusicFiles), nil
	}
	if err != nil {
		return router.Result{}, fmt.Errorf("pause_music: %w", err)
	}
	switch res {
	case vehicle.Paused:
		return withState(h.state, "🎵 Music paused", "pause_music"), nil
	case vehicle.Resumed:
		return withState(h.state, "🎵 Music resumed", "resume_music"), nil
	default:
		return withState(h.state, "🎵 Restarted: "+name, "play_music"), nil
	}
}
