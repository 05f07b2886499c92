// Package vehicle holds the simulated in-cabin device state the handlers
// act on.
package vehicle

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	MinTemperature = 16
	MaxTemperature = 30
	// Below this set point the AC is switched on automatically.
	acThreshold = 25

	MinFanSpeed = 1
	MaxFanSpeed = 5

	MinVolume = 0
	MaxVolume = 100

	noTrack = "No track"
)

var ErrEmptyPlaylist = errors.New("no music files available")

// DefaultPlaylist is used when no playlist is configured.
var DefaultPlaylist = []string{"track1.mp3", "track2.mp3", "track3.mp3", "track4.mp3"}

type Climate struct {
	Temperature int
	ACOn        bool
	FanSpeed    int
}

type Music struct {
	Playing      bool
	Paused       bool
	Volume       int
	CurrentTrack string
}

type Body struct {
	DoorsLocked bool
	LightsOn    bool
}

// State is the mutable vehicle model. All methods are safe for concurrent
// use.
type State struct {
	mu          sync.Mutex
	climate     Climate
	music       Music
	body        Body
	playlist    []string
	index       int
	savedVolume int
	updated     map[string]time.Time
	logger      *zap.Logger
}

// New returns the initial vehicle state. A nil playlist selects
// DefaultPlaylist; an empty one leaves the player without tracks.
func New(playlist []string, logger *zap.Logger) *State {
	if playlist == nil {
		playlist = DefaultPlaylist
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &State{
		climate:     Climate{Temperature: 22, FanSpeed: 2},
		music:       Music{Volume: 50, CurrentTrack: noTrack},
		playlist:    append([]string{}, playlist...),
		savedVolume: 50,
		updated:     make(map[string]time.Time),
		logger:      logger,
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

func (s *State) touch(subsystem string, fields ...zap.Field) {
	s.updated[subsystem] = time.Now()
	s.logger.Debug("vehicle state updated", append([]zap.Field{zap.String("subsystem", subsystem)}, fields...)...)
}

// SetTemperature clamps t to the supported range, stores it and returns the
// applied value. The AC follows the set point.
func (s *State) SetTemperature(t int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	t = clamp(t, MinTemperature, MaxTemperature)
	s.climate.Temperature = t
	s.climate.ACOn = t < acThreshold
	s.touch("climate", zap.Int("temperature", t), zap.Bool("ac_on", s.climate.ACOn))
	return t
}

func (s *State) SetFanSpeed(speed int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.climate.FanSpeed = clamp(speed, MinFanSpeed, MaxFanSpeed)
	s.touch("climate", zap.Int("fan_speed", s.climate.FanSpeed))
	return s.climate.FanSpeed
}

func (s *State) AdjustFanSpeed(delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.climate.FanSpeed = clamp(s.climate.FanSpeed+delta, MinFanSpeed, MaxFanSpeed)
	s.touch("climate", zap.Int("fan_speed", s.climate.FanSpeed))
	return s.climate.FanSpeed
}

func (s *State) SetAC(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.climate.ACOn = on
	s.touch("climate", zap.Bool("ac_on", on))
}

// ToggleAC flips the AC and returns the new state.
func (s *State) ToggleAC() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.climate.ACOn = !s.climate.ACOn
	s.touch("climate", zap.Bool("ac_on", s.climate.ACOn))
	return s.climate.ACOn
}

func (s *State) SetVolume(v int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setVolumeLocked(v)
}

func (s *State) AdjustVolume(delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setVolumeLocked(s.music.Volume + delta)
}

func (s *State) setVolumeLocked(v int) int {
	s.music.Volume = clamp(v, MinVolume, MaxVolume)
	if s.music.Volume > 0 {
		s.savedVolume = s.music.Volume
	}
	s.touch("music", zap.Int("volume", s.music.Volume))
	return s.music.Volume
}

// Mute sets the volume to zero, remembering the previous level for Unmute.
func (s *State) Mute() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.music.Volume = 0
	s.touch("music", zap.Int("volume", 0))
}

func (s *State) Unmute() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.music.Volume > 0 {
		return s.music.Volume
	}
	return s.setVolumeLocked(s.savedVolume)
}

// Play starts the current playlist entry and returns its name.
func (s *State) Play() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.playlist) == 0 {
		return "", ErrEmptyPlaylist
	}
	return s.startLocked(), nil
}

func (s *State) startLocked() string {
	s.music.CurrentTrack = s.playlist[s.index]
	s.music.Playing = true
	s.music.Paused = false
	s.touch("music", zap.String("track", s.music.CurrentTrack), zap.Bool("playing", true))
	return s.music.CurrentTrack
}

// PauseResult describes what TogglePause did.
type PauseResult int

const (
	Paused PauseResult = iota
	Resumed
	Restarted
)

// TogglePause pauses a playing track, resumes a paused one, or restarts the
// current entry when nothing is playing.
func (s *State) TogglePause() (PauseResult, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.music.Playing:
		s.music.Playing = false
		s.music.Paused = true
		s.touch("music", zap.Bool("playing", false))
		return Paused, s.music.CurrentTrack, nil
	case s.music.Paused:
		s.music.Playing = true
		s.music.Paused = false
		s.touch("music", zap.Bool("playing", true))
		return Resumed, s.music.CurrentTrack, nil
	default:
		if len(s.playlist) == 0 {
			return Restarted, "", ErrEmptyPlaylist
		}
		return Restarted, s.startLocked(), nil
	}
}

// NextTrack advances the playlist, wrapping at the end.
func (s *State) NextTrack() (string, error) {
	return s.step(1)
}

// PreviousTrack moves back in the playlist, wrapping at the start.
func (s *State) PreviousTrack() (string, error) {
	return s.step(-1)
}

func (s *State) step(delta int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.playlist)
	if n == 0 {
		return "", ErrEmptyPlaylist
	}
	s.index = ((s.index+delta)%n + n) % n
	return s.startLocked(), nil
}

func (s *State) LockDoors() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.body.DoorsLocked = true
	s.touch("vehicle", zap.Bool("doors_locked", true))
}

func (s *State) UnlockDoors() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.body.DoorsLocked = false
	s.touch("vehicle", zap.Bool("doors_locked", false))
}

func (s *State) SetLights(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.body.LightsOn = on
	s.touch("vehicle", zap.Bool("lights_on", on))
}

func (s *State) ToggleLights() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.body.LightsOn = !s.body.LightsOn
	s.touch("vehicle", zap.Bool("lights_on", s.body.LightsOn))
	return s.body.LightsOn
}

func (s *State) Climate() Climate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.climate
}

func (s *State) Music() Music {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.music
}

func (s *State) Body() Body {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.body
}

// LastUpdated reports when a subsystem ("climate", "music", "vehicle") last
// changed.
func (s *State) LastUpdated(subsystem string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.updated[subsystem]
	return t, ok
}

// Snapshot renders the state in the shape clients consume.
func (s *State) Snapshot() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]any{
		"climate": map[string]any{
			"temperature": s.climate.Temperature,
			"ac_on":       s.climate.ACOn,
			"fan_speed":   s.climate.FanSpeed,
		},
		"music": map[string]any{
			"playing":       s.music.Playing,
			"volume":        s.music.Volume,
			"current_track": s.music.CurrentTrack,
		},
		"vehicle": map[string]any{
			"doors_locked": s.body.DoorsLocked,
			"lights_on":    s.body.LightsOn,
		},
	}
}
