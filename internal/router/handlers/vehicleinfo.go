package handlers

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"vehicleagent/internal/chat"
	"vehicleagent/internal/nlu"
	"vehicleagent/internal/router"
)

// VehicleSpec is one entry of the built-in vehicle table.
type VehicleSpec struct {
	Name     string
	Category string
	General  string
	Engine   string
	Features string
	Price    string
}

const (
	infoGeneral  = "general"
	infoEngine   = "engine"
	infoFeatures = "features"
	infoPrice    = "price"
	infoPros     = "pros"
)

func (v VehicleSpec) info(kind string) string {
	switch kind {
	case infoEngine:
		return v.Engine
	case infoFeatures:
		return v.Features
	case infoPrice:
		return v.Price
	}
	return v.General
}

// Vehicles is keyed by the lower-case model name used in queries.
var Vehicles = map[string]VehicleSpec{
	"tesla model 3": {
		Name:     "Tesla Model 3",
		Category: "Electric Sedan",
		General:  "The Tesla Model 3 is a battery electric mid-size sedan with a range of 358 miles and advanced Autopilot features.",
		Engine:   "Electric motor with 283-510 HP, 75-82 kWh battery, 272-358 miles range",
		Features: "15-inch touchscreen, Autopilot, over-the-air updates, Supercharger network access",
		Price:    "Starting at $38,990 - $54,990",
	},
	"bmw 3 series": {
		Name:     "BMW 3 Series",
		Category: "Luxury Sedan",
		General:  "The BMW 3 Series is a compact executive car known for sporty handling and luxury features.",
		Engine:   "2.0L turbocharged I4 with 255-382 HP, 8-speed automatic transmission",
		Features: "BMW iDrive 8.0, digital cockpit, premium sound system, driver assistance features",
		Price:    "Starting at $36,350 - $56,700",
	},
	"honda civic": {
		Name:     "Honda Civic",
		Category: "Compact Sedan",
		General:  "The Honda Civic is a reliable compact sedan known for fuel efficiency and practicality.",
		Engine:   "2.0L I4 or 1.5L Turbo I4 with 158-180 HP, excellent fuel economy up to 42 MPG",
		Features: "Honda Sensing safety suite, touchscreen infotainment, wireless Apple CarPlay",
		Price:    "Starting at $24,650 - $32,350",
	},
	"ford f-150": {
		Name:     "Ford F-150",
		Category: "Full-Size Pickup Truck",
		General:  "The Ford F-150 is America's best-selling truck with best-in-class towing and aluminum body.",
		Engine:   "Multiple options: 3.3L V6 to 3.5L EcoBoost V6, 290-450 HP, up to 14,000 lbs towing",
		Features: "Pro Trailer Backup Assist, SYNC 4A, aluminum body, multiple bed lengths",
		Price:    "Starting at $37,970 - $76,555",
	},
}

// vehicleOrder fixes the listing order of Vehicles.
var vehicleOrder = []string{"tesla model 3", "bmw 3 series", "honda civic", "ford f-150"}

var (
	// Recognised model names, including some the table has no data for.
	modelNames = []string{"tesla model 3", "bmw 3 series", "honda civic", "ford f-150", "ram 1500", "toyota tacoma"}

	makes = []struct{ brand, model string }{
		{"tesla", "tesla model 3"},
		{"bmw", "bmw 3 series"},
		{"honda", "honda civic"},
		{"ford", "ford f-150"},
	}

	engineWords   = newPhrases("engine", "power", "performance", "horsepower", "hp")
	featureWords  = newPhrases("features", "feature", "technology", "tech")
	priceWords    = newPhrases("price", "cost", "how much")
	prosConsWords = newPhrases("pros", "cons")
	listWords     = newPhrases("which vehicles", "what vehicles", "list vehicles", "available vehicles")
)

func extractVehicleName(text string) string {
	for _, name := range modelNames {
		if strings.Contains(text, name) {
			return name
		}
	}
	for _, m := range makes {
		if strings.Contains(text, m.brand) {
			return m.model
		}
	}
	return infoGeneral
}

func extractInfoType(text string) string {
	switch {
	case engineWords.in(text):
		return infoEngine
	case featureWords.in(text):
		return infoFeatures
	case priceWords.in(text):
		return infoPrice
	case prosConsWords.in(text):
		return infoPros
	}
	return infoGeneral
}

func availableVehicles() string {
	names := make([]string, len(vehicleOrder))
	for i, key := range vehicleOrder {
		names[i] = Vehicles[key].Name
	}
	return strings.Join(names, ", ")
}

// VehicleInfo answers questions about the models in the vehicle table.
type VehicleInfo struct {
	base
}

func NewVehicleInfo(logger *zap.Logger) *VehicleInfo {
	return &VehicleInfo{base: newBase(nlu.AgentVehicleInfo, logger)}
}

func (h *VehicleInfo) Handle(_ context.Context, msg chat.AgentMessage) (router.Result, error) {
	text := normalize(msg.Content)

	if listWords.in(text) {
		var b strings.Builder
		b.WriteString("🚗 I can tell you about these vehicles:\n")
		for _, key := range vehicleOrder {
			v := Vehicles[key]
			fmt.Fprintf(&b, "\n• %s (%s)", v.Name, v.Category)
		}
		return reply(b.String(), "list_vehicles"), nil
	}

	query := extractVehicleName(text)
	kind := extractInfoType(text)
	action := "get_vehicle_info: " + query

	v, ok := Vehicles[query]
	if !ok {
		h.logger.Debug("vehicle not in table", zap.String("query", query))
		return reply(fmt.Sprintf("I don't have information about '%s'. I can tell you about: %s", query, availableVehicles()), action), nil
	}

	title := cases.Title(language.English).String(kind)
	return reply(fmt.Sprintf("📋 %s - %s Information:\n\n%s", v.Name, title, v.info(kind)), action), nil
}
