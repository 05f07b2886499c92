package nlu

import "strings"

const (
	singleWordWeight = 0.2
	multiWordWeight  = 0.4
	patternWeight    = 0.5

	excludeContextFactor = 0.1
	exclusionGroupFactor = 0.3
)

// Score computes the confidence that utterance belongs to sub. The result
// is either 0 or in (MinScore, 1].
func Score(utterance string, sub *Subcategory, category Category, exclusions ExclusionRules) float64 {
	return scoreNormalized(normalize(utterance), sub, category, exclusions)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func scoreNormalized(text string, sub *Subcategory, category Category, exclusions ExclusionRules) float64 {
	var raw float64

	for _, kw := range sub.Keywords {
		if strings.Contains(text, kw) {
			raw += keywordWeight(kw)
		}
	}

	for _, re := range sub.Patterns {
		if re.MatchString(text) {
			raw += patternWeight
			break
		}
	}

	for _, w := range sub.ExcludeContexts {
		if strings.Contains(text, w) {
			raw *= excludeContextFactor
			break
		}
	}

	for _, g := range exclusions[category] {
		if containsAny(text, g.Words) {
			raw *= exclusionGroupFactor
			break
		}
	}

	final := min(raw*sub.BaseConfidence, 1.0)
	if final > MinScore {
		return final
	}
	return 0
}

func keywordWeight(kw string) float64 {
	if len(strings.Fields(kw)) > 1 {
		return multiWordWeight
	}
	return singleWordWeight
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// matchedKeywords lists the keywords of sub literally contained in text, in
// catalog order.
func matchedKeywords(text string, sub *Subcategory) []string {
	out := []string{}
	for _, kw := range sub.Keywords {
		if strings.Contains(text, kw) {
			out = append(out, kw)
		}
	}
	return out
}
