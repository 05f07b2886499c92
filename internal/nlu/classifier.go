package nlu

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Classifier ranks catalog subcategories against an utterance. It holds no
// mutable state and is safe for concurrent use.
type Classifier struct {
	catalog *Catalog
	logger  *zap.Logger
}

type Option func(*Classifier)

func WithLogger(l *zap.Logger) Option {
	return func(c *Classifier) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClassifier builds a classifier over catalog. A nil catalog selects the
// built-in one.
func NewClassifier(catalog *Catalog, opts ...Option) *Classifier {
	if catalog == nil {
		catalog = BuildCatalog()
	}
	c := &Classifier{catalog: catalog, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Catalog returns the catalog the classifier scores against.
func (c *Classifier) Catalog() *Catalog { return c.catalog }

// Candidates scores every subcategory and returns those with a positive
// score, ordered by confidence descending. Ties keep catalog order.
func (c *Classifier) Candidates(utterance string) []IntentMatch {
	text := normalize(utterance)
	var out []IntentMatch
	for _, t := range c.catalog.tables {
		for _, sub := range t.Subcategories {
			score := scoreNormalized(text, sub, t.Category, c.catalog.exclusions)
			if score <= 0 {
				continue
			}
			out = append(out, IntentMatch{
				Category:        t.Category,
				Subcategory:     sub.Name,
				Confidence:      score,
				MatchedKeywords: matchedKeywords(text, sub),
				TargetAgent:     sub.TargetAgent,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

// Classify returns the best candidate, or Unknown when none reaches
// RouteThreshold.
func (c *Classifier) Classify(utterance string) Classification {
	candidates := c.Candidates(utterance)
	if len(candidates) == 0 || candidates[0].Confidence < RouteThreshold {
		c.logger.Debug("no intent detected",
			zap.String("utterance", utterance),
			zap.Int("candidates", len(candidates)))
		return Unknown()
	}

	best := candidates[0]
	c.logger.Debug("intent detected",
		zap.String("category", string(best.Category)),
		zap.String("subcategory", best.Subcategory),
		zap.Float64("confidence", best.Confidence),
		zap.String("target", best.TargetAgent))

	return Classification{
		IntentMatch: best,
		Explanation: fmt.Sprintf("Detected %s intent with %s confidence", best.Category, percent(best.Confidence)),
	}
}

// Explain renders a human-readable account of how utterance is classified.
func (c *Classifier) Explain(utterance string) string {
	r := c.Classify(utterance)

	var b strings.Builder
	fmt.Fprintf(&b, "Message: '%s'\n", utterance)
	fmt.Fprintf(&b, "Intent: %s/%s\n", r.Category, r.Subcategory)
	fmt.Fprintf(&b, "Confidence: %s\n", percent(r.Confidence))
	fmt.Fprintf(&b, "Target Agent: %s\n", r.TargetAgent)
	if len(r.MatchedKeywords) > 0 {
		fmt.Fprintf(&b, "Matched Keywords: %s\n", strings.Join(r.MatchedKeywords, ", "))
	}
	fmt.Fprintf(&b, "Explanation: %s", r.Explanation)
	return b.String()
}

func percent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}
