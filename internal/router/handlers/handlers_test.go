package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"vehicleagent/internal/chat"
	"vehicleagent/internal/maps"
	"vehicleagent/internal/nlu"
	"vehicleagent/internal/router"
	"vehicleagent/internal/vehicle"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func say(t *testing.T, h router.Handler, text string) router.Result {
	t.Helper()
	res, err := h.Handle(context.Background(), chat.NewUserMessage("driver", text, nil))
	require.NoError(t, err)
	return res
}

func climateOf(t *testing.T, res router.Result) map[string]any {
	t.Helper()
	require.NotNil(t, res.VehicleState)
	c, ok := res.VehicleState["climate"].(map[string]any)
	require.True(t, ok)
	return c
}

func TestClimate(t *testing.T) {
	tests := []struct {
		in      string
		text    string
		action  string
		temp    int
		acOn    bool
		fan     int
		noState bool
	}{
		{in: "set temperature to 25", text: "Temperature set to 25°C", action: "set_temperature: 25°C", temp: 25, fan: 2},
		{in: "make it 18", text: "Temperature set to 18°C", action: "set_temperature: 18°C", temp: 18, acOn: true, fan: 2},
		{in: "make it 40 degrees", text: "Temperature set to 30°C", action: "set_temperature: 30°C", temp: 30, fan: 2},
		{in: "set fan speed to 4", text: "Fan speed set to level 4", action: "set_fan_speed: 4", temp: 22, fan: 4},
		{in: "increase fan", text: "Fan speed set to level 3", action: "increase_fan_speed", temp: 22, fan: 3},
		{in: "fan down", text: "Fan speed set to level 1", action: "decrease_fan_speed", temp: 22, fan: 1},
		{in: "turn on the AC", text: "AC turned on", action: "toggle_ac", temp: 22, acOn: true, fan: 2},
		{in: "turn off the air conditioning", text: "AC turned off", action: "toggle_ac", temp: 22, fan: 2},
		{in: "toggle a/c", text: "AC turned on", action: "toggle_ac", temp: 22, acOn: true, fan: 2},
		{in: "I'm freezing", text: "Temperature set to 25°C", action: "increase_temperature", temp: 25, fan: 2},
		{in: "make it warmer", text: "Temperature set to 25°C", action: "increase_temperature", temp: 25, fan: 2},
		{in: "it's too hot in here", text: "Temperature set to 20°C", action: "decrease_temperature", temp: 20, acOn: true, fan: 2},
		{in: "climate please", text: climateHint, noState: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			h := NewClimate(vehicle.New(nil, zaptest.NewLogger(t)), zaptest.NewLogger(t))
			res := say(t, h, tt.in)
			assert.Equal(t, tt.text, res.Text)
			if tt.noState {
				assert.Empty(t, res.Actions)
				assert.Nil(t, res.VehicleState)
				return
			}
			assert.Equal(t, []string{tt.action}, res.Actions)
			c := climateOf(t, res)
			assert.Equal(t, tt.temp, c["temperature"])
			assert.Equal(t, tt.acOn, c["ac_on"])
			assert.Equal(t, tt.fan, c["fan_speed"])
		})
	}
}

func TestClimate_WordBoundaries(t *testing.T) {
	h := NewClimate(vehicle.New(nil, nil), nil)
	// "back" contains "ac" but is not an AC request.
	res := say(t, h, "bring the comfort back")
	assert.Equal(t, climateHint, res.Text)
}

func TestEntertainment(t *testing.T) {
	tests := []struct {
		in     string
		text   string
		action string
	}{
		{"set volume to 70", "🎵 Volume set to 70%", "set_volume: 70%"},
		{"volume 150", "🎵 Volume set to 100%", "set_volume: 100%"},
		{"louder please", "🎵 Volume set to 60%", "set_volume: 60%"},
		{"turn down the music", "🎵 Volume set to 40%", "set_volume: 40%"},
		{"mute", "🔇 Music muted", "mute"},
		{"play music", "🎵 Now playing: track1.mp3", "play_music"},
		{"next track", "🎵 Next track: track2.mp3", "next_track"},
		{"skip this song", "🎵 Next track: track2.mp3", "next_track"},
		{"previous song", "🎵 Previous track: track4.mp3", "previous_track"},
		{"pause", "🎵 Restarted: track1.mp3", "play_music"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			h := NewEntertainment(vehicle.New(nil, nil), zaptest.NewLogger(t))
			res := say(t, h, tt.in)
			assert.Equal(t, tt.text, res.Text)
			assert.Equal(t, []string{tt.action}, res.Actions)
			assert.NotNil(t, res.VehicleState)
		})
	}
}

func TestEntertainment_Session(t *testing.T) {
	state := vehicle.New(nil, nil)
	h := NewEntertainment(state, zaptest.NewLogger(t))

	assert.Equal(t, "🎵 Now playing: track1.mp3", say(t, h, "play some music").Text)
	assert.Equal(t, "🎵 Music paused", say(t, h, "pause the music").Text)
	assert.False(t, state.Music().Playing)

	res := say(t, h, "resume")
	assert.Equal(t, "🎵 Music resumed", res.Text)
	assert.Equal(t, []string{"resume_music"}, res.Actions)
	assert.True(t, state.Music().Playing)

	say(t, h, "set volume to 30")
	say(t, h, "mute")
	assert.Equal(t, 0, state.Music().Volume)
	assert.Equal(t, "🔊 Music unmuted, volume 30%", say(t, h, "unmute").Text)
}

func TestEntertainment_EmptyPlaylist(t *testing.T) {
	h := NewEntertainment(vehicle.New([]string{}, nil), zaptest.NewLogger(t))
	for _, in := range []string{"play music", "next track", "pause"} {
		res := say(t, h, in)
		assert.Equal(t, noMusicFiles, res.Text, in)
		assert.Nil(t, res.VehicleState, in)
	}
}

func TestEntertainment_Hint(t *testing.T) {
	h := NewEntertainment(vehicle.New(nil, nil), nil)
	res := say(t, h, "entertain me")
	assert.Equal(t, musicHint, res.Text)
	assert.Empty(t, res.Actions)
}

func TestVehicleControl(t *testing.T) {
	state := vehicle.New(nil, nil)
	h := NewVehicleControl(state, zaptest.NewLogger(t))

	res := say(t, h, "lock the doors")
	assert.Equal(t, "All doors locked", res.Text)
	assert.Equal(t, []string{"lock_doors"}, res.Actions)
	assert.True(t, state.Body().DoorsLocked)

	res = say(t, h, "unlock the doors")
	assert.Equal(t, "Doors unlocked", res.Text)
	assert.Equal(t, []string{"unlock_doors"}, res.Actions)
	assert.False(t, state.Body().DoorsLocked)

	res = say(t, h, "turn on the lights")
	assert.Equal(t, "Lights turned on", res.Text)
	assert.Equal(t, []string{"lights_on"}, res.Actions)

	res = say(t, h, "lights off")
	assert.Equal(t, "Lights turned off", res.Text)
	assert.Equal(t, []string{"lights_off"}, res.Actions)

	res = say(t, h, "toggle the headlights")
	assert.Equal(t, "Lights turned on", res.Text)
	assert.Equal(t, []string{"toggle_lights"}, res.Actions)
	body := res.VehicleState["vehicle"].(map[string]any)
	assert.Equal(t, true, body["lights_on"])

	res = say(t, h, "honk the horn")
	assert.Equal(t, vehicleControlHint, res.Text)
	assert.Empty(t, res.Actions)
}

func TestVehicleInfo(t *testing.T) {
	h := NewVehicleInfo(zaptest.NewLogger(t))

	tests := []struct {
		in     string
		text   string
		action string
	}{
		{
			"tell me about the tesla model 3 engine",
			"📋 Tesla Model 3 - Engine Information:\n\nElectric motor with 283-510 HP, 75-82 kWh battery, 272-358 miles range",
			"get_vehicle_info: tesla model 3",
		},
		{
			"how much does a honda cost",
			"📋 Honda Civic - Price Information:\n\nStarting at $24,650 - $32,350",
			"get_vehicle_info: honda civic",
		},
		{
			"ford f-150 features",
			"📋 Ford F-150 - Features Information:\n\nPro Trailer Backup Assist, SYNC 4A, aluminum body, multiple bed lengths",
			"get_vehicle_info: ford f-150",
		},
		{
			"bmw pros and cons",
			"📋 BMW 3 Series - Pros Information:\n\n" + Vehicles["bmw 3 series"].General,
			"get_vehicle_info: bmw 3 series",
		},
		{
			"tell me about the ram 1500",
			"I don't have information about 'ram 1500'. I can tell you about: Tesla Model 3, BMW 3 Series, Honda Civic, Ford F-150",
			"get_vehicle_info: ram 1500",
		},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			res := say(t, h, tt.in)
			assert.Equal(t, tt.text, res.Text)
			assert.Equal(t, []string{tt.action}, res.Actions)
			assert.Nil(t, res.VehicleState)
		})
	}

	res := say(t, h, "what specs do you have")
	assert.Equal(t, "I don't have information about 'general'. I can tell you about: Tesla Model 3, BMW 3 Series, Honda Civic, Ford F-150", res.Text)

	res = say(t, h, "which vehicles do you know")
	assert.Contains(t, res.Text, "• Ford F-150 (Full-Size Pickup Truck)")
	assert.Equal(t, []string{"list_vehicles"}, res.Actions)
}

func TestAssistant(t *testing.T) {
	h := NewAssistant(zaptest.NewLogger(t))

	res := say(t, h, "hey, good morning")
	assert.Equal(t, greetingText, res.Text)
	assert.Equal(t, []string{"greeting"}, res.Actions)

	res = say(t, h, "thanks a lot")
	assert.Equal(t, acknowledgeText, res.Text)
	assert.Equal(t, []string{"acknowledgement"}, res.Actions)

	res = say(t, h, "hmm")
	assert.Equal(t, generalHelpText, res.Text)
	assert.Equal(t, []string{"general_assistance"}, res.Actions)

	low := nlu.Unknown()
	assert.True(t, h.CanHandle("hmm", low))
	low.Confidence = 0.5
	assert.False(t, h.CanHandle("hmm", low))
}

func TestCanHandle_ByTarget(t *testing.T) {
	c := nlu.NewClassifier(nil).Classify("set temperature to 25")
	assert.True(t, NewClimate(vehicle.New(nil, nil), nil).CanHandle("set temperature to 25", c))
	assert.False(t, NewNavigation(nil, nil).CanHandle("set temperature to 25", c))
}

func TestBuiltin_CoversCatalogTargets(t *testing.T) {
	hs := Builtin(Deps{State: vehicle.New(nil, nil), Maps: maps.NewHTTPClient(maps.Config{})})
	reg, err := router.NewRegistry(hs...)
	require.NoError(t, err)
	assert.Empty(t, reg.Missing(nlu.NewClassifier(nil).Catalog().Agents()))
}

func TestBuiltin_RoutedThroughDispatcher(t *testing.T) {
	state := vehicle.New(nil, nil)
	reg, err := router.NewRegistry(Builtin(Deps{
		State:  state,
		Maps:   maps.NewHTTPClient(maps.Config{Logger: zaptest.NewLogger(t)}),
		Logger: zaptest.NewLogger(t),
	})...)
	require.NoError(t, err)
	d := router.NewDispatcher(nil, reg, nil, nil, router.WithLogger(zaptest.NewLogger(t)))

	tests := []struct {
		in    string
		agent string
		text  string
	}{
		{"set temperature to 25", nlu.AgentClimate, "Temperature set to 25°C"},
		{"lock the doors", nlu.AgentVehicleControl, "All doors locked"},
		{"where am i", nlu.AgentNavigation, "📍 Your current location: Eluru, Andhra Pradesh, India"},
		{"hey, good morning", nlu.AgentUserExperience, greetingText},
	}
	for _, tt := range tests {
		resp := d.Dispatch(context.Background(), chat.NewUserMessage("driver", tt.in, nil))
		assert.Equal(t, tt.agent, resp.AgentID, tt.in)
		assert.Equal(t, tt.text, resp.Content, tt.in)
	}
	assert.True(t, state.Body().DoorsLocked)
	assert.Equal(t, 25, state.Climate().Temperature)
}
