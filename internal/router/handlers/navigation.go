package handlers

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"vehicleagent/internal/chat"
	"vehicleagent/internal/maps"
	"vehicleagent/internal/nlu"
	"vehicleagent/internal/router"
)

const (
	placeTypeTourist       = "tourist_attraction"
	placeTypeEstablishment = "establishment"
)

var (
	weatherWords = newPhrases(
		"weather", "forecast", "temperature outside", "climate outside",
		"is it raining", "will it rain", "sunny", "cloudy", "weather report",
		"current weather", "weather conditions", "atmospheric conditions",
	)
	locationWords = newPhrases(
		"where am i", "current location", "my location", "where are we",
		"what is my location", "tell me where i am", "show location",
		"gps position", "coordinates", "position update",
	)
	searchWords = newPhrases(
		"find", "search", "locate", "look for", "nearest", "nearby", "close",
		"closest", "suggest", "recommend", "show me", "places", "visit",
		"tourist", "attraction", "attractions", "sightseeing", "spots",
		"points of interest",
	)
	directionWords = newPhrases(
		"navigate", "directions", "route", "go to", "take me to",
		"drive to", "head to", "guide me to", "show route to",
		"how do i get to", "how can i get to",
	)
)

// placeTypes is checked in order; the first group with a hit decides.
var placeTypes = []struct {
	placeType string
	words     phrases
}{
	{"lodging", newPhrases(
		"hotel", "hotels", "lodging", "accommodation", "stay", "guest house",
		"resort", "resorts", "inn", "motel", "bed and breakfast", "bnb",
		"place to stay", "where to stay", "accommodation options",
	)},
	{placeTypeTourist, newPhrases(
		"visit", "tourist", "attraction", "attractions", "sightseeing", "landmark",
		"landmarks", "monument", "monuments", "places to visit", "points of interest",
		"tourist places", "visiting spots", "places to see", "must visit",
		"tourist spots", "scenic places", "beautiful places", "famous places",
		"popular places", "suggest places", "recommend places",
		"interesting places", "worth visiting",
	)},
	{"place_of_worship", newPhrases(
		"temple", "temples", "church", "churches", "mosque", "mosques",
		"worship", "religious", "pray", "prayer", "shrine",
	)},
	{"restaurant", newPhrases(
		"restaurant", "restaurants", "food", "eat", "dine", "dining", "meal",
		"lunch", "dinner", "breakfast",
	)},
	{"shopping_mall", newPhrases(
		"mall", "malls", "shopping", "store", "stores", "shop", "shops", "market",
		"markets", "shopping center", "bazaar", "retail",
	)},
	{"hospital", newPhrases(
		"hospital", "hospitals", "medical", "clinic", "doctor", "health",
		"pharmacy", "medical center",
	)},
	{"cafe", newPhrases("coffee", "cafe", "cafes", "coffee shop", "tea", "beverages")},
	{"gas_station", newPhrases("gas", "fuel", "petrol", "station", "gas station", "fuel station")},
	{"bank", newPhrases("bank", "banks", "atm", "banking", "financial")},
	{placeTypeTourist, newPhrases("places", "spots", "locations", "areas", "somewhere", "anywhere")},
}

// extractPlaceType maps a search utterance to a place type.
func extractPlaceType(text string) string {
	for _, pt := range placeTypes {
		if pt.words.in(text) {
			return pt.placeType
		}
	}
	return placeTypeEstablishment
}

var (
	destinationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:navigate|directions?|route|guide)\s+(?:(?:me|us)\s+)?to\s+(.+)`),
		regexp.MustCompile(`(?:go|drive|take\s+me|head)\s+to\s+(.+)`),
		regexp.MustCompile(`how\s+(?:do\s+i|can\s+i)\s+get\s+to\s+(.+)`),
		regexp.MustCompile(`(?:show|get|give)\s+(?:me|us)\s+(?:directions?|route)\s+(?:to|for)\s+(.+)`),
		regexp.MustCompile(`(?:plot|plan)\s+(?:a\s+)?(?:course|route)\s+to\s+(.+)`),
		regexp.MustCompile(`directions?\s+(?:to|for)\s+(.+)`),
		regexp.MustCompile(`route\s+to\s+(.+)`),
		regexp.MustCompile(`where\s+is\s+(.+)`),
		regexp.MustCompile(`find\s+route\s+to\s+(.+)`),
	}
	destinationSuffix = regexp.MustCompile(`\s+(?:please|now|immediately)$`)
)

// extractDestination returns the place named after a directions phrase, or
// "" when there is none.
func extractDestination(text string) string {
	for _, re := range destinationPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		dest := strings.TrimSpace(m[1])
		dest = strings.TrimRight(dest, "?!.")
		dest = strings.TrimSpace(destinationSuffix.ReplaceAllString(dest, ""))
		if dest != "" {
			return dest
		}
	}
	return ""
}

// Navigation answers weather, location, place search and route requests.
type Navigation struct {
	base
	maps maps.Client
}

func NewNavigation(client maps.Client, logger *zap.Logger) *Navigation {
	return &Navigation{base: newBase(nlu.AgentNavigation, logger), maps: client}
}

func (h *Navigation) Handle(ctx context.Context, msg chat.AgentMessage) (router.Result, error) {
	text := normalize(msg.Content)
	loc := locationOf(msg)

	if weatherWords.in(text) {
		w, err := h.maps.Weather(ctx, loc)
		if err != nil {
			return router.Result{}, fmt.Errorf("weather: %w", err)
		}
		return reply(w.Message(), "get_weather"), nil
	}

	if locationWords.in(text) {
		if msg.UserLocation == nil {
			return reply("📍 Your current location: "+maps.DefaultAddress, "get_current_location"), nil
		}
		addr, err := h.maps.ReverseGeocode(ctx, loc)
		if err != nil {
			return router.Result{}, fmt.Errorf("reverse geocode: %w", err)
		}
		return reply(maps.FormatAddress(addr), "get_current_location"), nil
	}

	if searchWords.in(text) {
		placeType := extractPlaceType(text)
		h.logger.Debug("place search", zap.String("place_type", placeType), zap.Stringer("location", loc))
		places, err := h.maps.SearchPlaces(ctx, placeType, loc)
		if err != nil {
			return router.Result{}, fmt.Errorf("search %s: %w", placeType, err)
		}
		action := "search_places: " + placeType
		if placeType == placeTypeTourist {
			action = "search_tourist_attractions"
		}
		return reply(maps.FormatPlaces(places, placeType), action), nil
	}

	if directionWords.in(text) {
		if dest := extractDestination(text); dest != "" {
			route, err := h.maps.Directions(ctx, loc, dest)
			if err != nil {
				return router.Result{}, fmt.Errorf("directions to %s: %w", dest, err)
			}
			return reply(route.Message(), "get_directions: "+dest), nil
		}
	}

	return reply(navigationHelp(text), "navigation_assistance"), nil
}

var (
	helpAboutPlaces = newPhrases("place", "where", "location", "locations")
	helpAboutSelf   = newPhrases("help", "can you", "what")
)

func navigationHelp(text string) string {
	switch {
	case helpAboutPlaces.in(text):
		return `🗺️ I can help you with navigation and location services! Try asking:

🔍 Find Places: "Find restaurants near me" or "Suggest places to visit"
📍 Get Location: "Where am I?" or "What's my current location?"
🧭 Get Directions: "Navigate to downtown" or "How do I get to the mall?"
🌤️ Check Weather: "What's the weather?" or "How's the weather today?"

What would you like to explore?`
	case helpAboutSelf.in(text):
		return `🚗 I'm your navigation assistant! Here's what I can do:

🎯 Tourist Attractions: "Places to visit in Eluru" or "Tourist attractions nearby"
🍽️ Restaurants: "Find restaurants near me" or "Good places to eat"
🏨 Hotels: "Find hotels nearby" or "Accommodation options"
🛕 Temples: "Nearest temples" or "Religious places nearby"
🛍️ Shopping: "Shopping malls near me" or "Markets nearby"
⛽ Services: "Gas stations nearby" or "Banks near me"

Just tell me what you're looking for!`
	}
	return `🗺️ I can help you with navigation and finding places! Try asking about:

• Places to visit and tourist attractions
• Restaurants, hotels, and services nearby
• Directions and navigation to any location
• Your current location and weather information

What would you like to find or explore?`
}
