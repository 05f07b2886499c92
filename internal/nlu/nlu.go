// Package nlu classifies free-text utterances into vehicle assistant intents
// using keyword and regex scoring over a static pattern catalog.
package nlu

import "fmt"

// Category is the closed set of top-level intent families.
type Category string

const (
	CategoryClimate             Category = "climate"
	CategoryMusic               Category = "music"
	CategoryVehicleControl      Category = "vehicle_control"
	CategoryNavigation          Category = "navigation"
	CategoryVehicleInfo         Category = "vehicle_info"
	CategoryGeneralConversation Category = "general_conversation"
)

var knownCategories = map[Category]struct{}{
	CategoryClimate:             {},
	CategoryMusic:               {},
	CategoryVehicleControl:      {},
	CategoryNavigation:          {},
	CategoryVehicleInfo:         {},
	CategoryGeneralConversation: {},
}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if _, ok := knownCategories[c]; !ok {
		return "", fmt.Errorf("%w: unknown category %q", ErrMalformedConfig, s)
	}
	return c, nil
}

const (
	// MinScore is the per-subcategory floor; scores at or below it are zeroed.
	MinScore = 0.15
	// RouteThreshold is the confidence a classification needs to be routed
	// to its target handler instead of the general conversation fallback.
	RouteThreshold = 0.3

	// FallbackAgentID identifies the dispatcher itself and is the target of
	// the unknown classification.
	FallbackAgentID = "master_agent"
	// UnknownSubcategory marks the sentinel classification.
	UnknownSubcategory = "unknown"
)

// IntentMatch is one scored (category, subcategory) candidate.
type IntentMatch struct {
	Category        Category
	Subcategory     string
	Confidence      float64
	MatchedKeywords []string
	TargetAgent     string
}

// Classification is the outcome of classifying one utterance.
type Classification struct {
	IntentMatch
	Explanation string
}

// Unknown returns the sentinel classification used when nothing clears
// RouteThreshold.
func Unknown() Classification {
	return Classification{
		IntentMatch: IntentMatch{
			Category:        CategoryGeneralConversation,
			Subcategory:     UnknownSubcategory,
			Confidence:      0,
			MatchedKeywords: []string{},
			TargetAgent:     FallbackAgentID,
		},
		Explanation: "No specific intent detected, using general conversation",
	}
}

// IsUnknown reports whether c is the sentinel classification.
func (c Classification) IsUnknown() bool {
	return c.Subcategory == UnknownSubcategory && c.Confidence == 0
}

// Routable reports whether the classification clears RouteThreshold.
func (c Classification) Routable() bool {
	return c.Confidence >= RouteThreshold
}
