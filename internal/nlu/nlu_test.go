package nlu

import (
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	return NewClassifier(BuildCatalog(), WithLogger(zaptest.NewLogger(t)))
}

func TestClassify_Scenarios(t *testing.T) {
	c := newTestClassifier(t)

	tests := []struct {
		input       string
		category    Category
		subcategory string
		target      string
		confidence  float64
	}{
		{"set temperature to 25", CategoryClimate, "temperature_control", AgentClimate, 1.0},
		{"it's too hot in here", CategoryClimate, "comfort_adjustment", AgentClimate, 0.68},
		{"find hotels near me", CategoryNavigation, "place_search", AgentNavigation, 1.0},
		{"weather near the hotel I'm searching for", CategoryNavigation, "place_search", AgentNavigation, 0.36},
		{"turn on the AC", CategoryClimate, "ac_control", AgentClimate, 0.63},
		{"pause the music", CategoryMusic, "pause_stop", AgentEntertainment, 1.0},
		{"lock the doors", CategoryVehicleControl, "door_control", AgentVehicleControl, 0.855},
		{"where am i", CategoryNavigation, "location_query", AgentNavigation, 0.855},
		{"tell me about tesla model 3", CategoryVehicleInfo, "vehicle_inquiry", AgentVehicleInfo, 1.0},
		{"hey, good morning", CategoryGeneralConversation, "greetings", AgentUserExperience, 0.54},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := c.Classify(tt.input)
			assert.Equal(t, tt.category, got.Category)
			assert.Equal(t, tt.subcategory, got.Subcategory)
			assert.Equal(t, tt.target, got.TargetAgent)
			assert.InDelta(t, tt.confidence, got.Confidence, 1e-9)
			assert.True(t, got.Routable())
		})
	}
}

func TestClassify_HotelKeywordsReported(t *testing.T) {
	got := newTestClassifier(t).Classify("find hotels near me")
	assert.Subset(t, got.MatchedKeywords, []string{"hotel", "hotels"})
}

func TestClassify_UnknownSentinel(t *testing.T) {
	c := newTestClassifier(t)

	for _, input := range []string{"what's 2+2", "tell me a joke", "", "   "} {
		got := c.Classify(input)
		assert.True(t, got.IsUnknown(), "input %q", input)
		assert.Equal(t, CategoryGeneralConversation, got.Category)
		assert.Equal(t, FallbackAgentID, got.TargetAgent)
		assert.Zero(t, got.Confidence)
		assert.Empty(t, got.MatchedKeywords)
	}
}

func TestClassify_WeatherNeverRoutesToClimate(t *testing.T) {
	c := newTestClassifier(t)
	for _, input := range []string{
		"weather near the hotel I'm searching for",
		"what's the weather outside",
		"is it too hot outside in the forecast",
	} {
		got := c.Classify(input)
		assert.NotEqual(t, CategoryClimate, got.Category, "input %q", input)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	c := newTestClassifier(t)
	inputs := []string{"set temperature to 25", "find hotels near me", "what's 2+2", "next song please"}
	for _, in := range inputs {
		first := c.Classify(in)
		for i := 0; i < 5; i++ {
			if diff := cmp.Diff(first, c.Classify(in)); diff != "" {
				t.Fatalf("Classify(%q) not deterministic (-first +again):\n%s", in, diff)
			}
		}
	}
}

func TestCandidates_Bounded(t *testing.T) {
	c := newTestClassifier(t)
	inputs := []string{
		"set the temperature to 25 degrees celsius temp temperature change temperature adjust temperature",
		"find the nearest hotel near me search for lodging accommodation resort guest house",
		"hi", "ac", "a", "volume 100 louder quieter mute unmute",
	}
	for _, in := range inputs {
		for _, m := range c.Candidates(in) {
			assert.Greater(t, m.Confidence, MinScore, "%q %s", in, m.Subcategory)
			assert.LessOrEqual(t, m.Confidence, 1.0, "%q %s", in, m.Subcategory)
		}
	}
}

func TestScore_Algorithm(t *testing.T) {
	def := Definition{Categories: []CategoryDefinition{{
		Name: string(CategoryClimate),
		Subcategories: []SubcategoryDefinition{{
			Name:            "probe",
			Keywords:        []string{"alpha", "beta gamma"},
			Patterns:        []string{`delta\s+\d+`, `delta`},
			Confidence:      0.5,
			ExcludeContexts: []string{"omega"},
			Agent:           "probe_agent",
		}},
	}}}
	cat, err := Compile(def)
	require.NoError(t, err)
	sub, ok := cat.Lookup(CategoryClimate, "probe")
	require.True(t, ok)

	tests := []struct {
		input string
		want  float64
	}{
		{"alpha", 0},                        // 0.2*0.5 = 0.1, under the floor
		{"alpha alpha", 0},                  // counted once per keyword
		{"beta gamma", 0.2},                 // 0.4*0.5
		{"ALPHA beta gamma", 0.3},           // lowercased
		{"delta 7", 0.25},                   // one pattern only
		{"alpha beta gamma delta 1", 0.55},  // (0.2+0.4+0.5)*0.5
		{"alpha beta gamma delta omega", 0}, // *0.1
		{"  beta gamma delta  ", 0.45},      // trimmed
		{"alpha beta gamma delta 1 more", 0.55},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Score(tt.input, sub, CategoryClimate, nil), 1e-9, tt.input)
	}
}

func TestScore_ClampsToOne(t *testing.T) {
	cat := BuildCatalog()
	sub, ok := cat.Lookup(CategoryClimate, "temperature_control")
	require.True(t, ok)
	assert.Equal(t, 1.0, Score("set temperature to 25 degrees celsius", sub, CategoryClimate, cat.Exclusions()))
}

func TestScore_ExclusionLaw(t *testing.T) {
	cat := BuildCatalog()
	exclusions := cat.Exclusions()

	sub, ok := cat.Lookup(CategoryClimate, "temperature_control")
	require.True(t, ok)

	input := "set temperature to 25 near the restaurant"
	with := Score(input, sub, CategoryClimate, exclusions)
	without := Score(input, sub, CategoryClimate, nil)
	assert.Less(t, with, without)

	comfort, ok := cat.Lookup(CategoryClimate, "comfort_adjustment")
	require.True(t, ok)
	// exclude_contexts and the category group both apply: 0.8*0.1*0.3*0.85.
	assert.Zero(t, Score("too hot in here near the mall", comfort, CategoryClimate, exclusions))
	assert.InDelta(t, 0.68, Score("too hot in here", comfort, CategoryClimate, exclusions), 1e-9)
}

func TestScore_ExclusionsOnlyAffectTheirCategory(t *testing.T) {
	cat := BuildCatalog()
	sub, ok := cat.Lookup(CategoryNavigation, "weather")
	require.True(t, ok)

	input := "what's the weather outside"
	assert.Equal(t, Score(input, sub, CategoryNavigation, nil), Score(input, sub, CategoryNavigation, cat.Exclusions()))
}

func TestClassify_TieBreakKeepsDeclarationOrder(t *testing.T) {
	def := Definition{Categories: []CategoryDefinition{
		{
			Name: string(CategoryMusic),
			Subcategories: []SubcategoryDefinition{
				{Name: "first", Keywords: []string{"shared phrase"}, Confidence: 0.8, Agent: "a"},
				{Name: "second", Keywords: []string{"shared phrase"}, Confidence: 0.8, Agent: "b"},
			},
		},
		{
			Name: string(CategoryNavigation),
			Subcategories: []SubcategoryDefinition{
				{Name: "third", Keywords: []string{"shared phrase"}, Confidence: 0.8, Agent: "c"},
			},
		},
	}}
	cat, err := Compile(def)
	require.NoError(t, err)

	c := NewClassifier(cat)
	got := c.Classify("a shared phrase")
	assert.Equal(t, "first", got.Subcategory)
	assert.Equal(t, "a", got.TargetAgent)

	candidates := c.Candidates("a shared phrase")
	require.Len(t, candidates, 3)
	assert.Equal(t, []string{"first", "second", "third"},
		[]string{candidates[0].Subcategory, candidates[1].Subcategory, candidates[2].Subcategory})
}

func TestExplain(t *testing.T) {
	c := newTestClassifier(t)

	got := c.Explain("set temperature to 25")
	want := "Message: 'set temperature to 25'\n" +
		"Intent: climate/temperature_control\n" +
		"Confidence: 100.0%\n" +
		"Target Agent: climate_agent\n" +
		"Matched Keywords: temperature, temp, set temperature\n" +
		"Explanation: Detected climate intent with 100.0% confidence"
	assert.Equal(t, want, got)

	got = c.Explain("what's 2+2")
	assert.Contains(t, got, "Intent: general_conversation/unknown")
	assert.Contains(t, got, "Target Agent: master_agent")
	assert.NotContains(t, got, "Matched Keywords")
}

var regexpComparer = cmp.Comparer(func(a, b *regexp.Regexp) bool {
	return a.String() == b.String()
})

func TestBuildCatalog_Idempotent(t *testing.T) {
	a, b := BuildCatalog(), BuildCatalog()
	if diff := cmp.Diff(a.Tables(), b.Tables(), regexpComparer); diff != "" {
		t.Fatalf("tables differ (-a +b):\n%s", diff)
	}
	if diff := cmp.Diff(a.Exclusions(), b.Exclusions()); diff != "" {
		t.Fatalf("exclusions differ (-a +b):\n%s", diff)
	}
}

func TestBuildCatalog_Contents(t *testing.T) {
	cat := BuildCatalog()

	var got []string
	for _, table := range cat.Tables() {
		for _, s := range table.Subcategories {
			got = append(got, string(table.Category)+"/"+s.Name)
		}
	}
	want := []string{
		"climate/temperature_control", "climate/comfort_adjustment", "climate/ac_control", "climate/fan_control",
		"music/playback_control", "music/pause_stop", "music/track_navigation", "music/volume_control",
		"vehicle_control/door_control", "vehicle_control/lights_control",
		"navigation/location_query", "navigation/directions", "navigation/place_search", "navigation/weather",
		"vehicle_info/vehicle_inquiry",
		"general_conversation/greetings", "general_conversation/general_chat",
	}
	assert.Equal(t, want, got)

	assert.Equal(t, []string{
		AgentClimate, AgentEntertainment, AgentVehicleControl,
		AgentNavigation, AgentVehicleInfo, AgentUserExperience,
	}, cat.Agents())

	groups := cat.Exclusions()[CategoryClimate]
	require.Len(t, groups, 2)
	assert.Equal(t, "weather_context", groups[0].Name)
	assert.Equal(t, "location_context", groups[1].Name)
}

func TestCatalog_TablesAreCopies(t *testing.T) {
	cat := BuildCatalog()
	tables := cat.Tables()
	tables[0].Subcategories = nil
	assert.NotEmpty(t, cat.Tables()[0].Subcategories)
}
