package toxicity

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/turtacn/drugflat/pkg/types/common"
)

// Rule is one named extraction step. Pattern is nil for rules that work on
// plain substrings.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Apply   func(r *Rule, text string, b *Bag)
}

// ---------------------------------------------------------------------------
// Vocabularies
// ---------------------------------------------------------------------------

// Routes are the administration routes with a dose rule, in rule order.
var Routes = []string{"intravenous", "subcutaneous", "oral", "topical", "intramuscular"}

// SpecialPopulations are reported in this order when mentioned.
var SpecialPopulations = []string{"pregnant women", "nursing women", "children", "elderly"}

var humanNoteKeywords = []string{"renal impairment", "antidote", "bleeding", "transfusion", "aptt"}

const (
	animalAlt    = `mouse|mice|rats?|monkeys?|dogs?|rabbits?|hamsters?`
	thresholdAlt = `mouse|mice|rats?|monkeys?`
	ld50Token    = `LD\s*(?:<sub>\s*)?50(?:\s*</sub>)?`
	clause       = `[^.;]*?`

	// number accepts digit-group commas ("1,890").
	number = `(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+\.?\d*)`
	// numberStart keeps a match from starting inside a number.
	numberStart = `(?:^|[^\d,.])`
	// valueLead is the optional comparison operator before an LD50 value. A
	// value without one must follow a character that cannot be part of a
	// number.
	valueLead = `(?:([<>=])\s*|[^\d,.;])`
)

// ---------------------------------------------------------------------------
// Rule table
// ---------------------------------------------------------------------------

// DefaultRules returns the ordered rule table used by Extract.
func DefaultRules() []Rule {
	rules := []Rule{
		{
			Name:    "tested_animals",
			Pattern: regexp.MustCompile(`(?i)\b(` + animalAlt + `)\b`),
			Apply:   applyTestedAnimals,
		},
	}
	for _, route := range Routes {
		rules = append(rules, Rule{
			Name: "dose_" + route,
			Pattern: regexp.MustCompile(`(?i)\b` + route + `\b[^.]*?\b(` + animalAlt + `)\b[^.]*?\(` +
				`(?:[<>]\s*)?` + number + `(?:\s*-\s*` + number + `)?\s*mg/kg(?:\s*[<>])?\)`),
			Apply: applyDose(route),
		})
	}
	return append(rules,
		Rule{
			Name:    "observed_effects",
			Pattern: regexp.MustCompile(`(?i)\b(hemorrhage|hematoma|nodule|fever|rash|dyspnea|chest\s+pain|urticaria|conjunctivitis|voice\s+alteration|pharyngitis|laryngitis|rhinitis)`),
			Apply:   applyObservedEffects,
		},
		Rule{
			Name:    "threshold_by_species",
			Pattern: regexp.MustCompile(`(?i)` + numberStart + number + `\s*mg/kg[^.]*?\b(` + thresholdAlt + `)\b`),
			Apply:   applyThreshold,
		},
		Rule{
			Name:    "genotoxicity",
			Pattern: nil,
			Apply:   applyGenotoxicity,
		},
		Rule{
			Name:    "ld50_species_first",
			Pattern: regexp.MustCompile(`(?i)\b(` + animalAlt + `)\b` + clause + ld50Token + clause + valueLead + number + `\s*mg/kg`),
			Apply:   applyLD50(1, 2, 3),
		},
		Rule{
			Name:    "ld50_species_between",
			Pattern: regexp.MustCompile(`(?i)` + ld50Token + clause + `\b(` + animalAlt + `)\b` + clause + valueLead + number + `\s*mg/kg`),
			Apply:   applyLD50(1, 2, 3),
		},
		Rule{
			Name:    "ld50_species_last",
			Pattern: regexp.MustCompile(`(?i)` + ld50Token + clause + valueLead + number + `\s*mg/kg` + clause + `\b(` + animalAlt + `)\b`),
			Apply:   ld50Fallback(applyLD50(3, 1, 2)),
		},
		Rule{
			Name:    "overdose_treatment",
			Pattern: regexp.MustCompile(`(?i)\bstop[^.]*?\blepirudin\b|transfusion|\bshock\b|\baptt\b|hemodialysis|hemofiltration|activated\s+charcoal|gastric\s+lavage|supportive\s+(?:care|treatment|measures)`),
			Apply:   applyOverdose,
		},
		Rule{
			Name:  "human_toxicity_notes",
			Apply: applyHumanNotes,
		},
		Rule{
			Name:    "adverse_effect_frequency",
			Pattern: regexp.MustCompile(`(?i)frequency.*?(<\s*1/\d+|\d+(?:\.\d+)?\s*%)`),
			Apply:   applyFrequency,
		},
		Rule{
			Name:  "special_populations",
			Apply: applySpecialPopulations,
		},
		Rule{
			Name:    "reference_ids",
			Pattern: regexp.MustCompile(`\[[A-Za-z]\d+\]`),
			Apply:   applyReferenceIDs,
		},
	)
}

// ---------------------------------------------------------------------------
// Rule implementations
// ---------------------------------------------------------------------------

// singular folds a species mention to its singular lowercase form.
func singular(s string) string {
	s = strings.ToLower(s)
	if s == "mice" {
		return "mouse"
	}
	return strings.TrimSuffix(s, "s")
}

// parseFloat reads a matched number, dropping digit-group commas.
func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func applyTestedAnimals(r *Rule, text string, b *Bag) {
	var found []string
	for _, m := range r.Pattern.FindAllStringSubmatch(text, -1) {
		found = append(found, singular(m[1]))
	}
	b.TestedAnimals = sortedSet(found)
}

func applyDose(route string) func(*Rule, string, *Bag) {
	return func(r *Rule, text string, b *Bag) {
		for _, m := range r.Pattern.FindAllStringSubmatch(text, -1) {
			low, ok := parseFloat(m[2])
			if !ok {
				continue
			}
			obs := DoseObservation{Species: singular(m[1]), Low: low}
			if high, ok := parseFloat(m[3]); ok {
				obs.High = common.Float(high)
			}
			b.DoseByRoute[route] = append(b.DoseByRoute[route], obs)
		}
	}
}

func applyObservedEffects(r *Rule, text string, b *Bag) {
	var found []string
	for _, m := range r.Pattern.FindAllStringSubmatch(text, -1) {
		found = append(found, strings.Join(strings.Fields(strings.ToLower(m[1])), " "))
	}
	b.ObservedEffects = sortedSet(found)
}

func applyThreshold(r *Rule, text string, b *Bag) {
	for _, m := range r.Pattern.FindAllStringSubmatch(text, -1) {
		dose, ok := parseFloat(m[1])
		if !ok {
			continue
		}
		species := singular(m[2])
		if cur, seen := b.ThresholdBySpecies[species]; !seen || dose < cur {
			b.ThresholdBySpecies[species] = dose
		}
	}
}

// The patterns match the adjective forms only, so a section heading such as
// "Carcinogenesis, Mutagenesis" decides nothing.
var (
	negMutagenic    = regexp.MustCompile(`(?i)(?:\bnot\b|\bno\b|\bwithout\b|\black\w*)[^.]*?\bmutagenic|\bnon-?mutagenic`)
	posMutagenic    = regexp.MustCompile(`(?i)\bmutagenic\w*`)
	negCarcinogenic = regexp.MustCompile(`(?i)(?:\bnot\b|\bno\b|\bwithout\b|\black\w*)[^.]*?\bcarcinogenic|\bnon-?carcinogenic`)
	posCarcinogenic = regexp.MustCompile(`(?i)\bcarcinogenic\w*`)
)

// applyGenotoxicity decides mutagenicity before carcinogenicity. Within each,
// a negated statement wins over a bare positive one.
func applyGenotoxicity(_ *Rule, text string, b *Bag) {
	switch {
	case negMutagenic.MatchString(text):
		b.Genotoxicity = GenotoxicityNonMutagenic
	case posMutagenic.MatchString(text):
		b.Genotoxicity = GenotoxicityMutagenic
	case negCarcinogenic.MatchString(text):
		b.Genotoxicity = GenotoxicityNonCarcinogenic
	case posCarcinogenic.MatchString(text):
		b.Genotoxicity = GenotoxicityCarcinogenic
	}
}

// applyLD50 reads species, operator and value from the given submatch
// indexes. The operator defaults to "=". Observations already recorded by an
// earlier rule are not repeated.
func applyLD50(speciesIdx, opIdx, valueIdx int) func(*Rule, string, *Bag) {
	return func(r *Rule, text string, b *Bag) {
		for _, m := range r.Pattern.FindAllStringSubmatch(text, -1) {
			value, ok := parseFloat(m[valueIdx])
			if !ok {
				continue
			}
			op := m[opIdx]
			if op == "" {
				op = "="
			}
			obs := LD50Observation{
				Species:  singular(m[speciesIdx]),
				Route:    RouteUnspecified,
				Value:    value,
				Operator: op,
			}
			if !containsLD50(b.LD50Values, obs) {
				b.LD50Values = append(b.LD50Values, obs)
			}
		}
	}
}

// ld50Fallback runs apply only when no earlier LD50 rule matched, so a
// species named after the value is not paired with a value that already has
// one.
func ld50Fallback(apply func(*Rule, string, *Bag)) func(*Rule, string, *Bag) {
	return func(r *Rule, text string, b *Bag) {
		if len(b.LD50Values) == 0 {
			apply(r, text, b)
		}
	}
}

func containsLD50(list []LD50Observation, o LD50Observation) bool {
	for _, x := range list {
		if x == o {
			return true
		}
	}
	return false
}

func applyOverdose(r *Rule, text string, b *Bag) {
	b.OverdoseTreatment = r.Pattern.MatchString(text)
}

func applyHumanNotes(_ *Rule, text string, b *Bag) {
	for _, sentence := range splitSentences(text) {
		lower := strings.ToLower(sentence)
		for _, kw := range humanNoteKeywords {
			if strings.Contains(lower, kw) {
				b.HumanToxicityNotes = append(b.HumanToxicityNotes, sentence)
				break
			}
		}
	}
}

func applyFrequency(r *Rule, text string, b *Bag) {
	if m := r.Pattern.FindStringSubmatch(text); m != nil {
		b.AdverseEffectFrequency = common.Str(m[1])
	}
}

func applySpecialPopulations(_ *Rule, text string, b *Bag) {
	lower := strings.ToLower(text)
	for _, pop := range SpecialPopulations {
		if strings.Contains(lower, pop) {
			b.SpecialPopulations = append(b.SpecialPopulations, pop)
		}
	}
}

func applyReferenceIDs(r *Rule, text string, b *Bag) {
	b.ReferenceIDs = sortedSet(r.Pattern.FindAllString(text, -1))
}

// splitSentences splits after '.', '!' or '?' followed by whitespace and
// trims each part. Empty parts are dropped.
func splitSentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text)-1; i++ {
		switch text[i] {
		case '.', '!', '?':
			if isSpace(text[i+1]) {
				if s := strings.TrimSpace(text[start : i+1]); s != "" {
					out = append(out, s)
				}
				start = i + 1
			}
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r'
}
