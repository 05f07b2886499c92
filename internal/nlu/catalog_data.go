package nlu

import "fmt"

// Handler identifiers referenced by the built-in catalog.
const (
	AgentClimate        = "climate_agent"
	AgentEntertainment  = "entertainment_agent"
	AgentVehicleControl = "vehicle_control_agent"
	AgentNavigation     = "navigation_agent"
	AgentVehicleInfo    = "vehicle_info_agent"
	AgentUserExperience = "user_experience_agent"
)

// BuildCatalog returns the built-in pattern catalog. It panics if the
// built-in table is malformed.
func BuildCatalog() *Catalog {
	c, err := Compile(BuiltinDefinition())
	if err != nil {
		panic(fmt.Sprintf("nlu: built-in catalog: %v", err))
	}
	return c
}

// BuiltinDefinition returns a fresh copy of the built-in catalog definition.
func BuiltinDefinition() Definition {
	return Definition{
		Categories: []CategoryDefinition{
			{
				Name: string(CategoryClimate),
				Subcategories: []SubcategoryDefinition{
					{
						Name: "temperature_control",
						Keywords: []string{
							"temperature", "temp", "degrees", "celsius", "fahrenheit",
							"set temperature", "adjust temperature", "change temperature",
						},
						Patterns: []string{
							`(?:set|change|adjust)\s+(?:the\s+)?temperature\s+to\s+(\d+)`,
							`make\s+it\s+(\d+)\s+degrees`,
							`temperature\s+(\d+)`,
							`(\d+)\s*(?:degrees?|°)`,
						},
						Confidence: 0.95,
						Agent:      AgentClimate,
					},
					{
						Name: "comfort_adjustment",
						Keywords: []string{
							"hot in here", "cold in here", "warm in here", "cool in here",
							"too hot", "too cold", "warmer", "cooler", "heat up", "cool down",
							"stuffy", "chilly", "freezing",
						},
						ExcludeContexts: []string{"weather", "outside", "forecast", "find", "search", "near"},
						Confidence:      0.85,
						Agent:           AgentClimate,
					},
					{
						Name: "ac_control",
						Keywords: []string{
							"ac", "air conditioning", "air conditioner", "a/c",
							"turn on ac", "turn off ac", "toggle ac", "start ac", "stop ac",
						},
						Patterns: []string{
							`turn\s+(?:on|off)\s+(?:the\s+)?(?:ac|air\s+conditioning)`,
							`(?:start|stop|toggle)\s+(?:the\s+)?ac`,
						},
						Confidence: 0.9,
						Agent:      AgentClimate,
					},
					{
						Name: "fan_control",
						Keywords: []string{
							"fan", "fan speed", "ventilation", "airflow", "circulation",
							"increase fan", "decrease fan", "fan level",
						},
						Confidence: 0.85,
						Agent:      AgentClimate,
					},
				},
			},
			{
				Name: string(CategoryMusic),
				Subcategories: []SubcategoryDefinition{
					{
						Name: "playback_control",
						Keywords: []string{
							"play music", "start music", "play song", "start playing",
							"resume music", "unpause", "begin music",
						},
						Patterns: []string{
							`play\s+(?:some\s+)?music`,
							`start\s+(?:playing\s+)?music`,
							`resume\s+music`,
						},
						Confidence: 0.9,
						Agent:      AgentEntertainment,
					},
					{
						Name: "pause_stop",
						Keywords: []string{
							"pause music", "stop music", "pause", "stop", "halt music",
							"stop playing", "pause the music", "cease music",
						},
						Patterns: []string{
							`(?:pause|stop)\s+(?:the\s+)?music`,
							`(?:pause|stop)\s+playing`,
						},
						Confidence: 0.95,
						Agent:      AgentEntertainment,
					},
					{
						Name: "track_navigation",
						Keywords: []string{
							"next song", "next track", "skip song", "skip track", "skip",
							"previous song", "previous track", "back", "last track",
							"go back", "skip forward", "skip backward",
						},
						Patterns: []string{
							`(?:next|skip)\s+(?:song|track)`,
							`(?:previous|back|last)\s+(?:song|track)`,
							`go\s+back`,
						},
						Confidence: 0.9,
						Agent:      AgentEntertainment,
					},
					{
						Name: "volume_control",
						Keywords: []string{
							"volume", "loud", "louder", "quiet", "quieter", "soft",
							"turn up", "turn down", "increase volume", "decrease volume",
							"mute", "unmute", "sound level",
						},
						Patterns: []string{
							`(?:set|change)\s+(?:the\s+)?volume\s+to\s+(\d+)`,
							`volume\s+(\d+)`,
							`make\s+it\s+(?:louder|quieter|loud|quiet)`,
						},
						Confidence: 0.9,
						Agent:      AgentEntertainment,
					},
				},
			},
			{
				Name: string(CategoryVehicleControl),
				Subcategories: []SubcategoryDefinition{
					{
						Name: "door_control",
						Keywords: []string{
							"lock doors", "unlock doors", "lock the doors", "unlock the doors",
							"door locks", "secure doors", "open doors", "close doors",
						},
						Patterns: []string{
							`(?:lock|unlock)\s+(?:the\s+)?doors?`,
							`(?:secure|open)\s+(?:the\s+)?(?:car|vehicle)`,
						},
						Confidence: 0.95,
						Agent:      AgentVehicleControl,
					},
					{
						Name: "lights_control",
						Keywords: []string{
							"lights", "headlights", "headlamps", "turn on lights", "turn off lights",
							"toggle lights", "vehicle lights", "car lights",
						},
						Patterns: []string{
							`turn\s+(?:on|off)\s+(?:the\s+)?(?:lights?|headlights?)`,
							`toggle\s+(?:the\s+)?lights?`,
						},
						Confidence: 0.9,
						Agent:      AgentVehicleControl,
					},
				},
			},
			{
				Name: string(CategoryNavigation),
				Subcategories: []SubcategoryDefinition{
					{
						Name: "location_query",
						Keywords: []string{
							"where am i", "current location", "my location", "where are we",
							"what is my location", "tell me where i am", "location",
						},
						Patterns: []string{
							`where\s+am\s+i`,
							`(?:current|my)\s+location`,
							`where\s+are\s+we`,
						},
						Confidence: 0.95,
						Agent:      AgentNavigation,
					},
					{
						Name: "directions",
						Keywords: []string{
							"navigate", "directions", "route", "go to", "take me to",
							"drive to", "head to", "how to get to", "way to", "path to",
						},
						Patterns: []string{
							`(?:navigate|directions?)\s+to\s+(.+)`,
							`(?:go|drive|take\s+me)\s+to\s+(.+)`,
							`how\s+(?:do\s+i|can\s+i)\s+get\s+to\s+(.+)`,
						},
						Confidence: 0.9,
						Agent:      AgentNavigation,
					},
					{
						Name: "place_search",
						Keywords: []string{
							"find", "search", "locate", "look for", "where is", "nearest",
							"nearby", "close", "around", "near me", "temple", "restaurant",
							"hospital", "gas station", "coffee", "mall", "shopping",
							"hotel", "hotels", "accommodation", "lodging", "stay", "guest house", "resort",
						},
						Patterns: []string{
							`find\s+(.+)\s+near\s+me`,
							`(?:where\s+is|find|locate)\s+(?:the\s+)?nearest\s+(.+)`,
							`search\s+for\s+(.+)`,
							`look\s+for\s+(.+)\s+(?:nearby|around|close)`,
							`find\s+(?:hotels?|accommodation|lodging)`,
							`(?:hotels?|accommodation)\s+(?:in|near|around)`,
							`where\s+(?:can\s+i|to)\s+stay`,
						},
						Confidence: 0.9,
						Agent:      AgentNavigation,
					},
					{
						Name: "weather",
						Keywords: []string{
							"weather", "how is the weather", "what's the weather", "weather like",
							"current weather", "weather conditions",
						},
						Patterns: []string{
							`(?:what.?s|how.?s)\s+the\s+weather`,
							`how\s+is\s+the\s+weather`,
						},
						Confidence: 0.95,
						Agent:      AgentNavigation,
					},
				},
			},
			{
				Name: string(CategoryVehicleInfo),
				Subcategories: []SubcategoryDefinition{
					{
						Name: "vehicle_inquiry",
						Keywords: []string{
							"tell me about", "information about", "details about", "specs",
							"specifications", "features", "what is", "describe", "explain",
							"tesla", "bmw", "honda", "ford", "model 3", "civic", "f-150",
						},
						Patterns: []string{
							`tell\s+me\s+about\s+(?:the\s+)?(.+)`,
							`(?:what|how)\s+(?:is|are)\s+(?:the\s+)?(.+)`,
							`(?:info|information|details)\s+(?:about|on)\s+(.+)`,
							`(?:specs|features)\s+of\s+(?:the\s+)?(.+)`,
						},
						Confidence: 0.8,
						Agent:      AgentVehicleInfo,
					},
				},
			},
			{
				Name: string(CategoryGeneralConversation),
				Subcategories: []SubcategoryDefinition{
					{
						Name: "greetings",
						Keywords: []string{
							"hello", "hi", "hey", "good morning", "good afternoon",
							"good evening", "good night", "greetings", "howdy",
						},
						Confidence: 0.9,
						Agent:      AgentUserExperience,
					},
					{
						Name: "general_chat",
						Keywords: []string{
							"how are you", "what can you do", "help me", "assist me",
							"what's up", "thank you", "thanks", "appreciate",
						},
						Confidence: 0.7,
						Agent:      AgentUserExperience,
					},
				},
			},
		},
		Exclusions: []ExclusionDefinition{
			{Category: string(CategoryClimate), Name: "weather_context", Words: []string{"weather", "outside", "forecast", "atmospheric"}},
			{Category: string(CategoryClimate), Name: "location_context", Words: []string{"find", "search", "locate", "near", "place", "hotel", "restaurant"}},
		},
	}
}
