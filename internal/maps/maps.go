// Package maps provides the weather, geocoding, place search and routing
// lookups used by the navigation handler.
package maps

import (
	"context"
	"fmt"
	"math"
	"strings"

	"vehicleagent/internal/chat"
)

// DefaultAddress is reported when the client sends no coordinates.
const DefaultAddress = "Eluru, Andhra Pradesh, India"

// DefaultLocation is used when a turn carries no user location.
var DefaultLocation = chat.Location{Latitude: 16.7206, Longitude: 81.1071}

// MaxListedPlaces bounds how many search results are rendered.
const MaxListedPlaces = 8

// Client is implemented by HTTPClient. Lookups never fail hard on missing
// credentials or upstream trouble; they degrade to canned data instead.
type Client interface {
	Weather(ctx context.Context, loc chat.Location) (Weather, error)
	ReverseGeocode(ctx context.Context, loc chat.Location) (string, error)
	SearchPlaces(ctx context.Context, placeType string, loc chat.Location) ([]Place, error)
	Directions(ctx context.Context, origin chat.Location, destination string) (Route, error)
}

type Weather struct {
	Location    string
	Temperature int
	FeelsLike   int
	Description string
	Humidity    int
	WindKMH     float64
	Mock        bool
}

// Message renders the weather report shown to the occupant.
func (w Weather) Message() string {
	var b strings.Builder
	fmt.Fprintf(&b, "🌤️ Weather in %s: %d°C, %s", w.Location, w.Temperature, w.Description)
	switch {
	case w.Mock:
		b.WriteString(" (mock data)")
	case w.FeelsLike != w.Temperature:
		fmt.Fprintf(&b, " (feels like %d°C)", w.FeelsLike)
	}
	fmt.Fprintf(&b, "\n💧 Humidity: %d%%", w.Humidity)
	fmt.Fprintf(&b, "\n💨 Wind: %.1f km/h", w.WindKMH)
	return b.String()
}

type Place struct {
	Name       string
	Category   string
	Address    string
	DistanceKM float64
	Rating     float64
}

type Route struct {
	Destination string
	EndAddress  string
	Distance    string
	Duration    string
	Steps       []string
	MapsURL     string
}

const maxRouteSteps = 6

// Message renders the route summary. Routes without a resolved end address
// are shown with placeholders and the maps link only.
func (r Route) Message() string {
	var b strings.Builder
	if r.EndAddress == "" {
		fmt.Fprintf(&b, "🧭 Navigation to %s\n", r.Destination)
		fmt.Fprintf(&b, "📍 Destination: %s\n", r.Destination)
		b.WriteString("📏 Distance: Calculating...\n")
		b.WriteString("⏱️ Duration: Calculating...\n")
		fmt.Fprintf(&b, "\n🌐 Open in Google Maps: %s", r.MapsURL)
		return b.String()
	}

	b.WriteString("🧭 Navigation Route\n")
	fmt.Fprintf(&b, "📍 Destination: %s\n", r.EndAddress)
	fmt.Fprintf(&b, "📏 Distance: %s\n", r.Distance)
	fmt.Fprintf(&b, "⏱️ Duration: %s\n", r.Duration)
	if len(r.Steps) > 0 {
		b.WriteString("\n🗺️ Turn-by-Turn Directions:\n")
		for i, step := range r.Steps[:min(len(r.Steps), maxRouteSteps)] {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
		if extra := len(r.Steps) - maxRouteSteps; extra > 0 {
			fmt.Fprintf(&b, "... and %d more steps\n", extra)
		}
	}
	fmt.Fprintf(&b, "\n🌐 Open in Google Maps: %s", r.MapsURL)
	return b.String()
}

// MapsURL builds a Google Maps directions link from origin to destination.
func MapsURL(origin chat.Location, destination string) string {
	return fmt.Sprintf("https://www.google.com/maps/dir/%v,%v/%s",
		origin.Latitude, origin.Longitude, strings.ReplaceAll(destination, " ", "+"))
}

// DisplayName is the human label for a place type.
func DisplayName(placeType string) string {
	switch placeType {
	case "tourist_attraction":
		return "places to visit"
	case "place_of_worship":
		return "religious places"
	case "lodging":
		return "hotels"
	}
	return strings.ReplaceAll(placeType, "_", " ")
}

var emptySuggestions = map[string]string{
	"tourist_attraction": "Try searching for 'temples', 'parks', or 'landmarks'",
	"restaurant":         "Try searching for 'food', 'dining', or specific cuisines",
	"lodging":            "Try searching for 'hotels' or 'accommodation'",
	"shopping_mall":      "Try searching for 'markets' or 'shopping centers'",
}

// FormatPlaces renders a search result list.
func FormatPlaces(places []Place, placeType string) string {
	if len(places) == 0 {
		hint, ok := emptySuggestions[placeType]
		if !ok {
			hint = "Try a different search term."
		}
		return fmt.Sprintf("No %s found nearby. %s", strings.ReplaceAll(placeType, "_", " "), hint)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔍 Found %d %s near you:\n\n", len(places), DisplayName(placeType))
	for i, p := range places[:min(len(places), MaxListedPlaces)] {
		fmt.Fprintf(&b, "%d. 📍 %s", i+1, p.Name)
		if p.Category != "" && p.Category != localBusiness {
			fmt.Fprintf(&b, " (%s)", p.Category)
		}
		if p.DistanceKM < 1 {
			fmt.Fprintf(&b, " - %dm away", int(p.DistanceKM*1000))
		} else {
			fmt.Fprintf(&b, " - %.1fkm away", p.DistanceKM)
		}
		if p.Rating > 0 {
			fmt.Fprintf(&b, " ⭐ %.1f/5", p.Rating)
		}
		b.WriteByte('\n')
	}

	hint := "💡 Say 'navigate to [place name]' for directions"
	switch placeType {
	case "tourist_attraction":
		hint += " or ask about 'restaurants near [place name]'"
	case "restaurant":
		hint += " or ask about 'hotels near [restaurant name]'"
	}
	b.WriteString("\n" + hint)
	return b.String()
}

// FormatAddress turns a geocoded address into the location reply.
func FormatAddress(address string) string {
	parts := strings.Split(address, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	switch {
	case len(parts) >= 3:
		return fmt.Sprintf("📍 You are in %s, %s, %s", parts[0], parts[1], parts[2])
	case len(parts) == 2:
		return fmt.Sprintf("📍 You are in %s, %s", parts[0], parts[1])
	}
	return "📍 Your current location: " + address
}

const earthRadiusKM = 6371.0

// Distance returns the great-circle distance between two points in km.
func Distance(a, b chat.Location) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := rad(b.Latitude - a.Latitude)
	dLon := rad(b.Longitude - a.Longitude)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(a.Latitude))*math.Cos(rad(b.Latitude))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKM * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
