package toxicity

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/turtacn/drugflat/pkg/types/common"
)

// ---------------------------------------------------------------------------
// Value types
// ---------------------------------------------------------------------------

// Genotoxicity is the single mutagenicity/carcinogenicity verdict of a text.
// The zero value means no statement was found.
type Genotoxicity string

const (
	GenotoxicityUnknown         Genotoxicity = ""
	GenotoxicityMutagenic       Genotoxicity = "mutagenic"
	GenotoxicityNonMutagenic    Genotoxicity = "non-mutagenic"
	GenotoxicityCarcinogenic    Genotoxicity = "carcinogenic"
	GenotoxicityNonCarcinogenic Genotoxicity = "non-carcinogenic"
)

// RouteUnspecified marks an LD50 or dose bound the text does not state.
const RouteUnspecified = "unspecified"

// DoseObservation is one "(low[-high] mg/kg)" dose seen for a species.
// It encodes as the tuple [species, low, high], where high is the string
// "unspecified" when the text gives a single dose.
type DoseObservation struct {
	Species string
	Low     float64
	High    common.NullFloat
}

// MarshalJSON implements json.Marshaler.
func (d DoseObservation) MarshalJSON() ([]byte, error) {
	var high interface{} = RouteUnspecified
	if d.High.Valid {
		high = d.High.Value
	}
	return json.Marshal([]interface{}{d.Species, d.Low, high})
}

// LD50Observation is one lethal-dose statement. It encodes as the tuple
// [species, route, value, operator].
type LD50Observation struct {
	Species  string
	Route    string
	Value    float64
	Operator string
}

// MarshalJSON implements json.Marshaler.
func (o LD50Observation) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{o.Species, o.Route, o.Value, o.Operator})
}

// ---------------------------------------------------------------------------
// Bag
// ---------------------------------------------------------------------------

// Bag is the fixed-shape feature set mined from one toxicity narrative. Every
// field is always present; an empty text yields EmptyBag().
type Bag struct {
	TestedAnimals          []string
	DoseByRoute            map[string][]DoseObservation
	ObservedEffects        []string
	ThresholdBySpecies     map[string]float64
	Genotoxicity           Genotoxicity
	LD50Values             []LD50Observation
	HumanToxicityNotes     []string
	OverdoseTreatment      bool
	AdverseEffectFrequency common.NullString
	SpecialPopulations     []string
	ReferenceIDs           []string
}

// EmptyBag returns the canonical bag of an absent text.
func EmptyBag() Bag {
	return Bag{
		TestedAnimals:      []string{},
		DoseByRoute:        map[string][]DoseObservation{},
		ObservedEffects:    []string{},
		ThresholdBySpecies: map[string]float64{},
		LD50Values:         []LD50Observation{},
		HumanToxicityNotes: []string{},
		SpecialPopulations: []string{},
		ReferenceIDs:       []string{},
	}
}

// Columns is the column order produced by Bag.Cells.
var Columns = []string{
	"tox_tested_animals",
	"tox_dose_by_route",
	"observed_effects",
	"tox_threshold_by_species",
	"mutagenic_or_carcinogenic",
	"ld50_values",
	"human_toxicity_notes",
	"overdose_treatment",
	"adverse_effect_frequency",
	"special_population_caution",
	"tox_ref_ids",
}

// Cells flattens the bag into output cells. Lists and maps are encoded as
// compact JSON with map keys sorted.
func (b Bag) Cells() []string {
	return []string{
		encode(b.TestedAnimals),
		encode(b.DoseByRoute),
		encode(b.ObservedEffects),
		encode(b.ThresholdBySpecies),
		string(b.Genotoxicity),
		encode(b.LD50Values),
		encode(b.HumanToxicityNotes),
		common.BoolCell(b.OverdoseTreatment),
		b.AdverseEffectFrequency.String(),
		encode(b.SpecialPopulations),
		encode(b.ReferenceIDs),
	}
}

// Signals lists the features that carry a value, in Columns order. Used for
// per-feature hit counters.
func (b Bag) Signals() []string {
	hits := []bool{
		len(b.TestedAnimals) > 0,
		len(b.DoseByRoute) > 0,
		len(b.ObservedEffects) > 0,
		len(b.ThresholdBySpecies) > 0,
		b.Genotoxicity != GenotoxicityUnknown,
		len(b.LD50Values) > 0,
		len(b.HumanToxicityNotes) > 0,
		b.OverdoseTreatment,
		b.AdverseEffectFrequency.Valid,
		len(b.SpecialPopulations) > 0,
		len(b.ReferenceIDs) > 0,
	}
	var out []string
	for i, hit := range hits {
		if hit {
			out = append(out, Columns[i])
		}
	}
	return out
}

func encode(v interface{}) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return ""
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}

// sortedSet returns the distinct values of in, sorted.
func sortedSet(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
