// Package interaction turns drug-drug interaction descriptions into
// name-free templates and assigns each distinct template a stable code.
package interaction

import (
	"regexp"
	"strings"
	"sync"

	"github.com/turtacn/drugflat/internal/domain/drug"
)

// Role placeholders substituted for drug names.
const (
	PlaceholderSource = "DRUG_A"
	PlaceholderTarget = "DRUG_B"
)

// Normalizer replaces the source and target drug names of an interaction
// description with role placeholders. Safe for concurrent use.
type Normalizer struct {
	names map[string]string

	mu       sync.RWMutex
	patterns map[string]*regexp.Regexp
}

// NewNormalizer builds a normalizer over an id to display-name index, usually
// drug.NameIndex of the merged primary table.
func NewNormalizer(names map[string]string) *Normalizer {
	if names == nil {
		names = map[string]string{}
	}
	return &Normalizer{
		names:    names,
		patterns: make(map[string]*regexp.Regexp),
	}
}

// Template returns the description of i with the source drug's indexed name
// replaced by DRUG_A, then the target's stated name by DRUG_B. Matching is
// case-insensitive and literal. An unknown source id or an empty name leaves
// that side untouched. The result is trimmed.
func (n *Normalizer) Template(i drug.Interaction) string {
	desc := i.Description
	if name := n.names[i.DrugID]; name != "" {
		desc = n.pattern(name).ReplaceAllLiteralString(desc, PlaceholderSource)
	}
	if name := i.TargetName; name != "" {
		desc = n.pattern(name).ReplaceAllLiteralString(desc, PlaceholderTarget)
	}
	return strings.TrimSpace(desc)
}

func (n *Normalizer) pattern(name string) *regexp.Regexp {
	n.mu.RLock()
	re, ok := n.patterns[name]
	n.mu.RUnlock()
	if ok {
		return re
	}

	re = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(name))
	n.mu.Lock()
	n.patterns[name] = re
	n.mu.Unlock()
	return re
}

// Normalize returns a copy of interactions with Template set and Code
// assigned from a codebook over the resulting templates. Descriptions are
// not modified.
func (n *Normalizer) Normalize(interactions []drug.Interaction) ([]drug.Interaction, *Codebook) {
	out := make([]drug.Interaction, len(interactions))
	templates := make([]string, len(interactions))
	for idx, i := range interactions {
		i.Template = n.Template(i)
		templates[idx] = i.Template
		out[idx] = i
	}
	book := NewCodebook(templates)
	for idx := range out {
		out[idx].Code = book.Code(out[idx].Template)
	}
	return out, book
}
