// Package drug defines the flat relational model produced from a DrugBank
// export: one Record per drug and the four child relations keyed by the
// owning drug's primary DrugBank id.
package drug

import (
	"strings"

	"github.com/turtacn/drugflat/pkg/types/common"
)

// NarrativeField indexes the free-text narrative sections of a drug entry.
type NarrativeField int

const (
	SynthesisReference NarrativeField = iota
	Indication
	Pharmacodynamics
	MechanismOfAction
	Toxicity
	Metabolism
	Absorption
	HalfLife
	ProteinBinding
	RouteOfElimination
	VolumeOfDistribution
	Clearance

	narrativeCount
)

// NarrativeTags lists the source element name of every NarrativeField, in
// column order.
var NarrativeTags = [narrativeCount]string{
	"synthesis-reference",
	"indication",
	"pharmacodynamics",
	"mechanism-of-action",
	"toxicity",
	"metabolism",
	"absorption",
	"half-life",
	"protein-binding",
	"route-of-elimination",
	"volume-of-distribution",
	"clearance",
}

// Column returns the snake_case output column for the field.
func (f NarrativeField) Column() string {
	return strings.ReplaceAll(NarrativeTags[f], "-", "_")
}

// Classification is the ClassyFire taxonomy block of a drug.
type Classification struct {
	Description  common.NullString
	DirectParent common.NullString
	Kingdom      common.NullString
	Superclass   common.NullString
	Class        common.NullString
	Subclass     common.NullString
}

// Record is the canonical flat record of one drug entity.
type Record struct {
	Type        common.NullString
	Created     common.NullString
	PrimaryID   common.NullString
	Name        common.NullString
	Description common.NullString
	CASNumber   common.NullString
	UNII        common.NullString
	State       common.NullString

	// Groups, AffectedOrganisms and FoodInteractions are joined with the
	// configured list separator.
	Groups            string
	AffectedOrganisms string
	FoodInteractions  string

	Narrative      [narrativeCount]common.NullString
	Classification Classification

	// Sequence is "<format>: <text>" when the sequence carries a format.
	Sequence common.NullString

	// MolecularWeight is empty unless exactly one weight element exists.
	MolecularWeight string
}

// ID returns the primary DrugBank id, or "" when absent.
func (r *Record) ID() string {
	return r.PrimaryID.String()
}

// IdentityBlank reports whether type, created and primary id are all empty.
func (r *Record) IdentityBlank() bool {
	return r.Type.IsEmpty() && r.Created.IsEmpty() && r.PrimaryID.IsEmpty()
}

// Cells renders the record in RecordColumns order.
func (r *Record) Cells() []string {
	cells := make([]string, 0, len(RecordColumns))
	cells = append(cells,
		r.Type.String(),
		r.Created.String(),
		r.PrimaryID.String(),
		r.Name.String(),
		r.Description.String(),
		r.CASNumber.String(),
		r.UNII.String(),
		r.State.String(),
		r.Groups,
	)
	for _, n := range r.Narrative {
		cells = append(cells, n.String())
	}
	c := r.Classification
	cells = append(cells,
		c.Description.String(),
		c.DirectParent.String(),
		c.Kingdom.String(),
		c.Superclass.String(),
		c.Class.String(),
		c.Subclass.String(),
		r.AffectedOrganisms,
		r.FoodInteractions,
		r.Sequence.String(),
		r.MolecularWeight,
	)
	return cells
}

// CategoryLink ties a drug to a therapeutic category.
type CategoryLink struct {
	DrugID   string
	Category string
	MeshID   string
}

// Cells renders the link in CategoryColumns order.
func (c CategoryLink) Cells() []string {
	return []string{c.DrugID, c.Category, c.MeshID}
}

// PathwayLink ties a drug to an SMPDB pathway.
type PathwayLink struct {
	DrugID   string
	SMPDBID  string
	Name     string
	Category string
	// Enzymes holds UniProt ids joined with the list separator.
	Enzymes string
}

// Cells renders the link in PathwayColumns order.
func (p PathwayLink) Cells() []string {
	return []string{p.DrugID, p.SMPDBID, p.Name, p.Category, p.Enzymes}
}

// PropertyObservation is one calculated or experimental property value.
type PropertyObservation struct {
	DrugID string
	Kind   string
	Value  string
	Source string
}

// Cells renders the observation in PropertyColumns order. Source is not
// part of the output table.
func (p PropertyObservation) Cells() []string {
	return []string{p.DrugID, p.Kind, p.Value}
}

// Interaction is a pairwise drug-drug interaction as stated by the source drug.
type Interaction struct {
	DrugID      string
	TargetID    string
	TargetName  string
	Description string

	Template string
	Code     common.NullInt
}

// Cells renders the interaction in InteractionColumns order.
func (i Interaction) Cells() []string {
	return []string{i.DrugID, i.TargetID, i.TargetName, i.Description, i.Template, i.Code.String()}
}

// PathwaySummary aggregates a drug's pathway rows.
type PathwaySummary struct {
	Count             int
	Categories        string
	UniqueEnzymeCount int
	HasPathwayInfo    bool
}

// Cells renders the summary in PathwaySummaryColumns order.
func (s PathwaySummary) Cells() []string {
	return []string{
		itoa(s.Count),
		s.Categories,
		itoa(s.UniqueEnzymeCount),
		common.BoolCell(s.HasPathwayInfo),
	}
}

// Dataset is the full output of extraction: the primary relation plus the
// four child relations.
type Dataset struct {
	Records      []Record
	Categories   []CategoryLink
	Pathways     []PathwayLink
	Properties   []PropertyObservation
	Interactions []Interaction
}

// NameIndex maps primary id to drug name. Records without an id or name are skipped.
func NameIndex(records []Record) map[string]string {
	idx := make(map[string]string, len(records))
	for i := range records {
		id := records[i].ID()
		if id == "" || records[i].Name.IsEmpty() {
			continue
		}
		if _, seen := idx[id]; !seen {
			idx[id] = records[i].Name.Value
		}
	}
	return idx
}
