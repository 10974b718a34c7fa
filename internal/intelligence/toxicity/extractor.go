// Package toxicity mines a fixed set of structured features from the free-text
// toxicity narrative of a drug: tested species, doses per route, LD50
// statements, genotoxicity verdicts and related safety notes.
package toxicity

import (
	"strings"
)

// Extractor applies an ordered rule table to toxicity narratives. It holds no
// mutable state and is safe for concurrent use.
type Extractor struct {
	rules []Rule
}

// NewExtractor builds an extractor over rules. A nil table selects
// DefaultRules.
func NewExtractor(rules []Rule) *Extractor {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Extractor{rules: rules}
}

// Rules returns the rule names in application order.
func (e *Extractor) Rules() []string {
	names := make([]string, len(e.rules))
	for i := range e.rules {
		names[i] = e.rules[i].Name
	}
	return names
}

// Extract mines text. Empty or whitespace-only text yields EmptyBag.
func (e *Extractor) Extract(text string) Bag {
	b := EmptyBag()
	if strings.TrimSpace(text) == "" {
		return b
	}
	for i := range e.rules {
		r := &e.rules[i]
		r.Apply(r, text, &b)
	}
	return b
}

var defaultExtractor = NewExtractor(nil)

// Extract mines text with the default rule table.
func Extract(text string) Bag {
	return defaultExtractor.Extract(text)
}
