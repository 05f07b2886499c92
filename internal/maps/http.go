package maps

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"vehicleagent/internal/chat"
)

const (
	DefaultTimeout        = 10 * time.Second
	DefaultWeatherBaseURL = "https://api.openweathermap.org"
	DefaultGoogleBaseURL  = "https://maps.googleapis.com"

	searchRadiusMeters = 5000
	maxGoogleResults   = 10
	// Google results are only trusted when at least this many come back.
	minGoogleResults = 3
)

var errNoKey = errors.New("api key not configured")

// Config configures an HTTPClient. Zero values select the public endpoints
// and DefaultTimeout.
type Config struct {
	WeatherAPIKey  string
	GoogleAPIKey   string
	Timeout        time.Duration
	WeatherBaseURL string
	GoogleBaseURL  string
	// RequestsPerSecond throttles outbound calls; zero means 5.
	RequestsPerSecond float64
	Logger            *zap.Logger
}

// HTTPClient talks to OpenWeather and Google Maps and falls back to canned
// data whenever a lookup cannot be completed.
type HTTPClient struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(cfg Config) *HTTPClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.WeatherBaseURL == "" {
		cfg.WeatherBaseURL = DefaultWeatherBaseURL
	}
	if cfg.GoogleBaseURL == "" {
		cfg.GoogleBaseURL = DefaultGoogleBaseURL
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	burst := max(1, int(cfg.RequestsPerSecond))
	return &HTTPClient{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
		logger:  logger.Named("maps"),
	}
}

func (c *HTTPClient) getJSON(ctx context.Context, base, path string, q url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type weatherResponse struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Weather reports current conditions at loc.
func (c *HTTPClient) Weather(ctx context.Context, loc chat.Location) (Weather, error) {
	w, err := c.weather(ctx, loc)
	if err != nil {
		c.logger.Warn("weather lookup degraded to mock data", zap.Error(err))
		return MockWeather(loc), nil
	}
	return w, nil
}

func (c *HTTPClient) weather(ctx context.Context, loc chat.Location) (Weather, error) {
	if c.cfg.WeatherAPIKey == "" {
		return Weather{}, errNoKey
	}
	q := url.Values{}
	q.Set("lat", fmt.Sprint(loc.Latitude))
	q.Set("lon", fmt.Sprint(loc.Longitude))
	q.Set("appid", c.cfg.WeatherAPIKey)
	q.Set("units", "metric")

	var resp weatherResponse
	if err := c.getJSON(ctx, c.cfg.WeatherBaseURL, "/data/2.5/weather", q, &resp); err != nil {
		return Weather{}, err
	}

	where := resp.Name
	if where == "" {
		where = "Unknown"
	}
	if resp.Sys.Country != "" {
		where += ", " + resp.Sys.Country
	}
	var desc string
	if len(resp.Weather) > 0 {
		desc = titleCase(resp.Weather[0].Description)
	}
	return Weather{
		Location:    where,
		Temperature: int(math.Round(resp.Main.Temp)),
		FeelsLike:   int(math.Round(resp.Main.FeelsLike)),
		Description: desc,
		Humidity:    resp.Main.Humidity,
		WindKMH:     math.Round(resp.Wind.Speed*3.6*10) / 10,
	}, nil
}

type googleStatus struct {
	Status string `json:"status"`
}

func (s googleStatus) err() error {
	if s.Status != "OK" {
		return fmt.Errorf("google maps status %q", s.Status)
	}
	return nil
}

// ReverseGeocode resolves loc to a formatted street address.
func (c *HTTPClient) ReverseGeocode(ctx context.Context, loc chat.Location) (string, error) {
	addr, err := c.reverseGeocode(ctx, loc)
	if err != nil {
		c.logger.Warn("reverse geocoding degraded", zap.Error(err))
		return MockAddress(loc), nil
	}
	return addr, nil
}

func (c *HTTPClient) reverseGeocode(ctx context.Context, loc chat.Location) (string, error) {
	if c.cfg.GoogleAPIKey == "" {
		return "", errNoKey
	}
	q := url.Values{}
	q.Set("latlng", loc.String())
	q.Set("key", c.cfg.GoogleAPIKey)

	var resp struct {
		googleStatus
		Results []struct {
			FormattedAddress string `json:"formatted_address"`
		} `json:"results"`
	}
	if err := c.getJSON(ctx, c.cfg.GoogleBaseURL, "/maps/api/geocode/json", q, &resp); err != nil {
		return "", err
	}
	if err := resp.err(); err != nil {
		return "", err
	}
	if len(resp.Results) == 0 {
		return "", errors.New("no geocoding results")
	}
	return resp.Results[0].FormattedAddress, nil
}

var googlePlaceTypes = map[string]string{
	"tourist_attraction": "tourist_attraction",
	"point_of_interest":  "point_of_interest",
	"restaurant":         "restaurant",
	"gas_station":        "gas_station",
	"cafe":               "cafe",
	"hospital":           "hospital",
	"shopping_mall":      "shopping_mall",
	"place_of_worship":   "place_of_worship",
	"lodging":            "lodging",
	"bank":               "bank",
	"pharmacy":           "pharmacy",
}

var placeCategories = map[string]string{
	"tourist_attraction": "Tourist Attraction",
	"place_of_worship":   "Religious Site",
	"restaurant":         "Restaurant",
	"lodging":            "Hotel",
	"hospital":           "Medical",
	"shopping_mall":      "Shopping",
	"bank":               "Financial",
	"gas_station":        "Fuel Station",
	"cafe":               "Cafe",
	"park":               "Recreation",
	"museum":             "Cultural Site",
	"amusement_park":     "Entertainment",
	"zoo":                "Wildlife",
	"church":             "Religious Site",
	"hindu_temple":       "Temple",
	"mosque":             "Religious Site",
}

// categoryFor labels a result by the first of its Google types we know.
func categoryFor(types []string) string {
	for _, t := range types {
		if c, ok := placeCategories[t]; ok {
			return c
		}
	}
	return localBusiness
}

// SearchPlaces lists places of placeType around loc, nearest first.
func (c *HTTPClient) SearchPlaces(ctx context.Context, placeType string, loc chat.Location) ([]Place, error) {
	places, err := c.searchPlaces(ctx, placeType, loc)
	switch {
	case err != nil:
		c.logger.Warn("place search degraded to mock data", zap.String("type", placeType), zap.Error(err))
	case len(places) < minGoogleResults:
		c.logger.Debug("too few place results, using mock data", zap.String("type", placeType), zap.Int("results", len(places)))
	default:
		return places, nil
	}
	return MockPlaces(placeType), nil
}

func (c *HTTPClient) searchPlaces(ctx context.Context, placeType string, loc chat.Location) ([]Place, error) {
	if c.cfg.GoogleAPIKey == "" {
		return nil, errNoKey
	}
	gt, ok := googlePlaceTypes[placeType]
	if !ok {
		gt = "establishment"
	}
	q := url.Values{}
	q.Set("location", loc.String())
	q.Set("radius", fmt.Sprint(searchRadiusMeters))
	q.Set("type", gt)
	q.Set("key", c.cfg.GoogleAPIKey)

	var resp struct {
		googleStatus
		Results []struct {
			Name     string   `json:"name"`
			Rating   float64  `json:"rating"`
			Vicinity string   `json:"vicinity"`
			Types    []string `json:"types"`
			Geometry struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := c.getJSON(ctx, c.cfg.GoogleBaseURL, "/maps/api/place/nearbysearch/json", q, &resp); err != nil {
		return nil, err
	}
	if err := resp.err(); err != nil {
		return nil, err
	}

	var places []Place
	for _, r := range resp.Results[:min(len(resp.Results), maxGoogleResults)] {
		at := chat.Location{Latitude: r.Geometry.Location.Lat, Longitude: r.Geometry.Location.Lng}
		if at.Latitude == 0 && at.Longitude == 0 {
			continue
		}
		name := r.Name
		if name == "" {
			name = "Unknown Place"
		}
		places = append(places, Place{
			Name:       name,
			Category:   categoryFor(r.Types),
			Address:    r.Vicinity,
			DistanceKM: Distance(loc, at),
			Rating:     r.Rating,
		})
	}
	slices.SortStableFunc(places, func(a, b Place) int {
		return cmp.Compare(a.DistanceKM, b.DistanceKM)
	})
	return places, nil
}

var htmlTag = regexp.MustCompile(`<.*?>`)

// Directions plans a route from origin to destination.
func (c *HTTPClient) Directions(ctx context.Context, origin chat.Location, destination string) (Route, error) {
	r, err := c.directions(ctx, origin, destination)
	if err != nil {
		c.logger.Warn("directions degraded to maps link", zap.String("destination", destination), zap.Error(err))
		return Route{Destination: destination, MapsURL: MapsURL(origin, destination)}, nil
	}
	return r, nil
}

func (c *HTTPClient) directions(ctx context.Context, origin chat.Location, destination string) (Route, error) {
	if c.cfg.GoogleAPIKey == "" {
		return Route{}, errNoKey
	}
	q := url.Values{}
	q.Set("origin", origin.String())
	q.Set("destination", destination)
	q.Set("key", c.cfg.GoogleAPIKey)
	q.Set("units", "metric")

	type text struct {
		Text string `json:"text"`
	}
	var resp struct {
		googleStatus
		Routes []struct {
			Legs []struct {
				Distance   text   `json:"distance"`
				Duration   text   `json:"duration"`
				EndAddress string `json:"end_address"`
				Steps      []struct {
					HTMLInstructions string `json:"html_instructions"`
					Distance         text   `json:"distance"`
				} `json:"steps"`
			} `json:"legs"`
		} `json:"routes"`
	}
	if err := c.getJSON(ctx, c.cfg.GoogleBaseURL, "/maps/api/directions/json", q, &resp); err != nil {
		return Route{}, err
	}
	if err := resp.err(); err != nil {
		return Route{}, err
	}
	if len(resp.Routes) == 0 || len(resp.Routes[0].Legs) == 0 {
		return Route{}, errors.New("no route found")
	}

	leg := resp.Routes[0].Legs[0]
	steps := make([]string, 0, len(leg.Steps))
	for _, s := range leg.Steps {
		steps = append(steps, fmt.Sprintf("%s (%s)", htmlTag.ReplaceAllString(s.HTMLInstructions, ""), s.Distance.Text))
	}
	return Route{
		Destination: destination,
		EndAddress:  leg.EndAddress,
		Distance:    leg.Distance.Text,
		Duration:    leg.Duration.Text,
		Steps:       steps,
		MapsURL:     MapsURL(origin, destination),
	}, nil
}

// Casers carry state, so each call gets its own.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}
