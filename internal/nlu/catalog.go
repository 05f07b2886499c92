package nlu

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// ErrMalformedConfig is returned when a catalog definition violates its
// invariants. It is fatal at startup.
var ErrMalformedConfig = errors.New("malformed catalog config")

// Subcategory is a compiled scoring rule.
type Subcategory struct {
	Name            string
	Keywords        []string
	Patterns        []*regexp.Regexp
	BaseConfidence  float64
	ExcludeContexts []string
	TargetAgent     string
}

// ExclusionGroup is a named set of trigger words that dampens every
// subcategory of a category.
type ExclusionGroup struct {
	Name  string
	Words []string
}

// ExclusionRules maps a category to its ordered exclusion groups.
type ExclusionRules map[Category][]ExclusionGroup

// CategoryTable holds one category and its subcategories in declaration order.
type CategoryTable struct {
	Category      Category
	Subcategories []*Subcategory
}

// Catalog is the immutable pattern table the classifier scores against.
type Catalog struct {
	tables     []CategoryTable
	exclusions ExclusionRules
	def        Definition
}

// Definition is the serialisable form of a catalog.
type Definition struct {
	Categories []CategoryDefinition  `yaml:"categories"`
	Exclusions []ExclusionDefinition `yaml:"exclusions,omitempty"`
}

type CategoryDefinition struct {
	Name          string                  `yaml:"name"`
	Subcategories []SubcategoryDefinition `yaml:"subcategories"`
}

type SubcategoryDefinition struct {
	Name            string   `yaml:"name"`
	Keywords        []string `yaml:"keywords,omitempty"`
	Patterns        []string `yaml:"patterns,omitempty"`
	Confidence      float64  `yaml:"confidence"`
	ExcludeContexts []string `yaml:"exclude_contexts,omitempty"`
	Agent           string   `yaml:"agent"`
}

type ExclusionDefinition struct {
	Category string   `yaml:"category"`
	Name     string   `yaml:"name"`
	Words    []string `yaml:"words"`
}

// Compile validates def and builds a Catalog from it. Every violation is
// reported as an error wrapping ErrMalformedConfig.
func Compile(def Definition) (*Catalog, error) {
	if len(def.Categories) == 0 {
		return nil, fmt.Errorf("%w: no categories", ErrMalformedConfig)
	}

	c := &Catalog{exclusions: make(ExclusionRules)}
	seenCat := make(map[Category]bool)

	for _, cd := range def.Categories {
		cat, err := ParseCategory(cd.Name)
		if err != nil {
			return nil, err
		}
		if seenCat[cat] {
			return nil, fmt.Errorf("%w: duplicate category %q", ErrMalformedConfig, cd.Name)
		}
		seenCat[cat] = true

		table := CategoryTable{Category: cat}
		seenSub := make(map[string]bool)
		for _, sd := range cd.Subcategories {
			sub, err := compileSubcategory(sd)
			if err != nil {
				return nil, fmt.Errorf("%s/%s: %w", cd.Name, sd.Name, err)
			}
			if seenSub[sub.Name] {
				return nil, fmt.Errorf("%w: duplicate subcategory %s/%s", ErrMalformedConfig, cd.Name, sd.Name)
			}
			seenSub[sub.Name] = true
			table.Subcategories = append(table.Subcategories, sub)
		}
		c.tables = append(c.tables, table)
	}

	for _, ed := range def.Exclusions {
		cat, err := ParseCategory(ed.Category)
		if err != nil {
			return nil, err
		}
		if ed.Name == "" || len(ed.Words) == 0 {
			return nil, fmt.Errorf("%w: exclusion group for %s needs a name and words", ErrMalformedConfig, ed.Category)
		}
		c.exclusions[cat] = append(c.exclusions[cat], ExclusionGroup{
			Name:  ed.Name,
			Words: normalizeWords(ed.Words),
		})
	}

	c.def = cloneDefinition(def)
	return c, nil
}

func compileSubcategory(sd SubcategoryDefinition) (*Subcategory, error) {
	switch {
	case strings.TrimSpace(sd.Name) == "":
		return nil, fmt.Errorf("%w: missing name", ErrMalformedConfig)
	case sd.Confidence <= 0 || sd.Confidence > 1:
		return nil, fmt.Errorf("%w: confidence %v outside (0,1]", ErrMalformedConfig, sd.Confidence)
	case len(sd.Keywords) == 0 && len(sd.Patterns) == 0:
		return nil, fmt.Errorf("%w: needs keywords or patterns", ErrMalformedConfig)
	case strings.TrimSpace(sd.Agent) == "":
		return nil, fmt.Errorf("%w: missing agent", ErrMalformedConfig)
	}

	sub := &Subcategory{
		Name:            sd.Name,
		Keywords:        normalizeWords(sd.Keywords),
		BaseConfidence:  sd.Confidence,
		ExcludeContexts: normalizeWords(sd.ExcludeContexts),
		TargetAgent:     sd.Agent,
	}
	for _, p := range sd.Patterns {
		re, err := regexp.Compile(`(?i)` + p)
		if err != nil {
			return nil, fmt.Errorf("%w: pattern %q: %v", ErrMalformedConfig, p, err)
		}
		sub.Patterns = append(sub.Patterns, re)
	}
	return sub, nil
}

// normalizeWords lowercases entries and drops duplicates, keeping first
// occurrence order.
func normalizeWords(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, w := range in {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// Tables returns the categories in declaration order. The returned slices
// are copies; the subcategories themselves must be treated as read-only.
func (c *Catalog) Tables() []CategoryTable {
	out := make([]CategoryTable, len(c.tables))
	for i, t := range c.tables {
		out[i] = CategoryTable{Category: t.Category, Subcategories: slices.Clone(t.Subcategories)}
	}
	return out
}

// Exclusions returns the category-wide exclusion groups.
func (c *Catalog) Exclusions() ExclusionRules {
	out := make(ExclusionRules, len(c.exclusions))
	for k, v := range c.exclusions {
		out[k] = slices.Clone(v)
	}
	return out
}

// Lookup finds a subcategory by category and name.
func (c *Catalog) Lookup(cat Category, name string) (*Subcategory, bool) {
	for _, t := range c.tables {
		if t.Category != cat {
			continue
		}
		for _, s := range t.Subcategories {
			if s.Name == name {
				return s, true
			}
		}
	}
	return nil, false
}

// Agents lists the distinct target agents referenced by the catalog, in
// first-reference order.
func (c *Catalog) Agents() []string {
	var out []string
	for _, t := range c.tables {
		for _, s := range t.Subcategories {
			if !slices.Contains(out, s.TargetAgent) {
				out = append(out, s.TargetAgent)
			}
		}
	}
	return out
}

// Definition returns the serialisable form the catalog was compiled from.
func (c *Catalog) Definition() Definition {
	return cloneDefinition(c.def)
}

func cloneDefinition(def Definition) Definition {
	out := Definition{
		Categories: make([]CategoryDefinition, len(def.Categories)),
		Exclusions: make([]ExclusionDefinition, len(def.Exclusions)),
	}
	for i, cd := range def.Categories {
		subs := make([]SubcategoryDefinition, len(cd.Subcategories))
		for j, sd := range cd.Subcategories {
			sd.Keywords = slices.Clone(sd.Keywords)
			sd.Patterns = slices.Clone(sd.Patterns)
			sd.ExcludeContexts = slices.Clone(sd.ExcludeContexts)
			subs[j] = sd
		}
		out.Categories[i] = CategoryDefinition{Name: cd.Name, Subcategories: subs}
	}
	for i, ed := range def.Exclusions {
		ed.Words = slices.Clone(ed.Words)
		out.Exclusions[i] = ed
	}
	if len(out.Exclusions) == 0 {
		out.Exclusions = nil
	}
	return out
}
