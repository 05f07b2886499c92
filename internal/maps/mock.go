package maps

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"vehicleagent/internal/chat"
)

const localBusiness = "Local Business"

// mockPlaces are served when Google Places is unavailable or returns too
// few results.
var mockPlaces = map[string][]Place{
	"tourist_attraction": {
		{Name: "Eluru Ashram", DistanceKM: 2.1, Rating: 4.3, Category: "Spiritual Site"},
		{Name: "Kolleru Lake Bird Sanctuary", DistanceKM: 15.2, Rating: 4.5, Category: "Nature Reserve"},
		{Name: "Dwaraka Tirumala Temple", DistanceKM: 18.7, Rating: 4.6, Category: "Religious Site"},
		{Name: "Buddha Park Eluru", DistanceKM: 3.2, Rating: 4.1, Category: "Park"},
		{Name: "Eluru Municipal Park", DistanceKM: 1.8, Rating: 3.9, Category: "Recreation"},
		{Name: "Sri Venkateswara Temple", DistanceKM: 2.5, Rating: 4.4, Category: "Temple"},
		{Name: "Tanuku Beach", DistanceKM: 25.3, Rating: 4.2, Category: "Beach"},
		{Name: "Jangareddygudem", DistanceKM: 35.6, Rating: 4.0, Category: "Hill Station"},
		{Name: "Eluru Fort Ruins", DistanceKM: 4.1, Rating: 3.8, Category: "Historical Site"},
		{Name: "Krishna River Ghats", DistanceKM: 5.2, Rating: 4.2, Category: "Scenic Spot"},
	},
	"restaurant": {
		{Name: "Udupi Sri Krishna Bhavan", DistanceKM: 1.2, Rating: 4.3, Category: "South Indian"},
		{Name: "Hotel Swagruha", DistanceKM: 0.9, Rating: 4.1, Category: "Multi-cuisine"},
		{Name: "Kakatiya Deluxe", DistanceKM: 1.5, Rating: 4.0, Category: "Vegetarian"},
		{Name: "Minerva Coffee Shop", DistanceKM: 1.1, Rating: 4.2, Category: "Coffee & Snacks"},
		{Name: "Paradise Restaurant", DistanceKM: 2.1, Rating: 4.4, Category: "Biryani"},
		{Name: "Hotel Sitara", DistanceKM: 1.8, Rating: 3.9, Category: "Family Restaurant"},
		{Name: "Bawarchi Restaurant", DistanceKM: 1.7, Rating: 4.1, Category: "North Indian"},
		{Name: "Sandhya Tiffin Center", DistanceKM: 0.8, Rating: 4.0, Category: "Breakfast"},
	},
	"lodging": {
		{Name: "Hotel Vinayaka", DistanceKM: 1.2, Rating: 4.3, Category: "3-Star Hotel"},
		{Name: "Hotel Sri Sai International", DistanceKM: 1.5, Rating: 4.1, Category: "4-Star Hotel"},
		{Name: "Hotel Dwaraka", DistanceKM: 0.8, Rating: 3.9, Category: "Budget Hotel"},
		{Name: "Hotel Sree Kanya", DistanceKM: 1.1, Rating: 4.0, Category: "3-Star Hotel"},
		{Name: "Manya Guestline", DistanceKM: 1.0, Rating: 3.2, Category: "Budget Hotel"},
		{Name: "Hotel Surya Residency", DistanceKM: 1.1, Rating: 3.4, Category: "Business Hotel"},
		{Name: "Hotel Raj Palace", DistanceKM: 1.3, Rating: 3.8, Category: "Comfort Hotel"},
		{Name: "Haritha Hotel", DistanceKM: 2.1, Rating: 4.0, Category: "Government Hotel"},
	},
	"place_of_worship": {
		{Name: "Sri Venkateswara Swamy Temple", DistanceKM: 2.5, Rating: 4.6, Category: "Hindu Temple"},
		{Name: "Eluru Jama Masjid", DistanceKM: 1.8, Rating: 4.2, Category: "Mosque"},
		{Name: "St. Anthony's Church", DistanceKM: 2.1, Rating: 4.3, Category: "Christian Church"},
		{Name: "Ganesha Temple", DistanceKM: 1.5, Rating: 4.4, Category: "Hindu Temple"},
		{Name: "Hanuman Temple", DistanceKM: 1.2, Rating: 4.1, Category: "Hindu Temple"},
		{Name: "Shirdi Sai Baba Temple", DistanceKM: 3.2, Rating: 4.5, Category: "Spiritual Center"},
		{Name: "Rama Temple", DistanceKM: 2.8, Rating: 4.0, Category: "Hindu Temple"},
		{Name: "Anjaneya Temple", DistanceKM: 1.9, Rating: 4.2, Category: "Hindu Temple"},
	},
	"shopping_mall": {
		{Name: "Adithya Central", DistanceKM: 1.5, Rating: 4.1, Category: "Shopping Mall"},
		{Name: "Eluru Shopping Complex", DistanceKM: 1.2, Rating: 3.8, Category: "Shopping Center"},
		{Name: "City Mall Eluru", DistanceKM: 1.8, Rating: 3.9, Category: "Shopping Mall"},
		{Name: "Textile Market", DistanceKM: 1.0, Rating: 3.7, Category: "Traditional Market"},
		{Name: "Gandhi Bazar", DistanceKM: 0.8, Rating: 4.0, Category: "Local Market"},
		{Name: "Main Road Shopping", DistanceKM: 1.1, Rating: 3.6, Category: "Street Shopping"},
		{Name: "Cloth Merchants Street", DistanceKM: 1.3, Rating: 3.8, Category: "Textile Market"},
		{Name: "Electronics Market", DistanceKM: 1.4, Rating: 3.5, Category: "Electronics"},
	},
	"hospital": {
		{Name: "Government General Hospital", DistanceKM: 1.8, Rating: 3.9, Category: "Government Hospital"},
		{Name: "Eluru Multi-Specialty Hospital", DistanceKM: 2.1, Rating: 4.2, Category: "Private Hospital"},
		{Name: "Apollo Clinic", DistanceKM: 1.5, Rating: 4.0, Category: "Clinic"},
		{Name: "Dr. Reddy's Hospital", DistanceKM: 1.7, Rating: 3.8, Category: "Private Hospital"},
		{Name: "City Hospital", DistanceKM: 1.3, Rating: 3.7, Category: "Multi-specialty"},
		{Name: "Nursing Home", DistanceKM: 1.0, Rating: 3.6, Category: "Nursing Home"},
		{Name: "Eye Care Center", DistanceKM: 1.4, Rating: 4.1, Category: "Specialty Clinic"},
		{Name: "Dental Clinic", DistanceKM: 1.2, Rating: 3.9, Category: "Dental Care"},
	},
	"gas_station": {
		{Name: "Indian Oil Petrol Pump", DistanceKM: 1.1, Rating: 3.8, Category: "Fuel Station"},
		{Name: "HP Gas Station", DistanceKM: 1.3, Rating: 3.9, Category: "Fuel Station"},
		{Name: "Bharat Petroleum", DistanceKM: 0.9, Rating: 3.7, Category: "Fuel Station"},
		{Name: "Reliance Petrol Pump", DistanceKM: 1.5, Rating: 4.0, Category: "Fuel Station"},
		{Name: "Shell Petrol Station", DistanceKM: 1.8, Rating: 3.8, Category: "Fuel Station"},
		{Name: "Essar Petrol Pump", DistanceKM: 2.1, Rating: 3.6, Category: "Fuel Station"},
	},
	"cafe": {
		{Name: "Coffee Day", DistanceKM: 1.2, Rating: 4.0, Category: "Coffee Chain"},
		{Name: "Barista Cafe", DistanceKM: 1.4, Rating: 4.1, Category: "Coffee Shop"},
		{Name: "Local Coffee House", DistanceKM: 0.8, Rating: 3.9, Category: "Traditional Cafe"},
		{Name: "Tea Point", DistanceKM: 1.0, Rating: 3.8, Category: "Tea Shop"},
		{Name: "Juice Corner", DistanceKM: 1.1, Rating: 4.0, Category: "Juice Bar"},
		{Name: "Snack Cafe", DistanceKM: 1.3, Rating: 3.7, Category: "Snack Bar"},
	},
	"bank": {
		{Name: "State Bank of India", DistanceKM: 1.0, Rating: 3.8, Category: "Public Bank"},
		{Name: "HDFC Bank", DistanceKM: 1.2, Rating: 4.0, Category: "Private Bank"},
		{Name: "ICICI Bank", DistanceKM: 1.1, Rating: 3.9, Category: "Private Bank"},
		{Name: "Andhra Bank", DistanceKM: 0.9, Rating: 3.7, Category: "Regional Bank"},
		{Name: "Axis Bank", DistanceKM: 1.3, Rating: 3.8, Category: "Private Bank"},
		{Name: "Bank of Baroda", DistanceKM: 1.4, Rating: 3.6, Category: "Public Bank"},
	},
}

// MockPlaces returns the canned results for placeType, nearest first. Types
// without a table get generic placeholder entries.
func MockPlaces(placeType string) []Place {
	base, ok := mockPlaces[placeType]
	if !ok {
		label := titleCase(strings.ReplaceAll(placeType, "_", " "))
		return []Place{
			{Name: fmt.Sprintf("Popular %s Spot", label), DistanceKM: 1.5, Rating: 4.2, Category: "Popular"},
			{Name: fmt.Sprintf("Local %s Choice", label), DistanceKM: 1.8, Rating: 3.9, Category: "Local Favorite"},
			{Name: fmt.Sprintf("Recommended %s", label), DistanceKM: 2.1, Rating: 4.0, Category: "Recommended"},
			{Name: fmt.Sprintf("Top-rated %s", label), DistanceKM: 2.5, Rating: 4.3, Category: "Highly Rated"},
		}
	}
	out := slices.Clone(base)
	slices.SortStableFunc(out, func(a, b Place) int {
		return cmp.Compare(a.DistanceKM, b.DistanceKM)
	})
	return out[:min(len(out), MaxListedPlaces)]
}

// MockWeather is the canned report used without an OpenWeather key or when
// the API call fails.
func MockWeather(loc chat.Location) Weather {
	where := DefaultAddress
	if loc != DefaultLocation {
		where = fmt.Sprintf("Your Location (%.2f, %.2f)", loc.Latitude, loc.Longitude)
	}
	return Weather{
		Location:    where,
		Temperature: 28,
		FeelsLike:   28,
		Description: "partly cloudy",
		Humidity:    70,
		WindKMH:     12,
		Mock:        true,
	}
}

// MockAddress is the reverse-geocoding fallback.
func MockAddress(loc chat.Location) string {
	return fmt.Sprintf("Location: %.4f°N, %.4f°E", loc.Latitude, loc.Longitude)
}
