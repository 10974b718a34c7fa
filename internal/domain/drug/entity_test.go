package drug

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/drugflat/pkg/types/common"
)

func TestNarrativeField_Column(t *testing.T) {
	assert.Equal(t, "synthesis_reference", SynthesisReference.Column())
	assert.Equal(t, "mechanism_of_action", MechanismOfAction.Column())
	assert.Equal(t, "toxicity", Toxicity.Column())
	assert.Equal(t, "volume_of_distribution", VolumeOfDistribution.Column())
}

func TestRecord_IdentityBlank(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want bool
	}{
		{"all empty", Record{}, true},
		{"present but empty strings", Record{Type: common.Str(""), Created: common.Str("")}, true},
		{"type only", Record{Type: common.Str("small molecule")}, false},
		{"id only", Record{PrimaryID: common.Str("DB00001")}, false},
		{"name does not count", Record{Name: common.Str("Lepirudin")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rec.IdentityBlank())
		})
	}
}

func TestRecord_CellsMatchColumns(t *testing.T) {
	rec := Record{
		Type:            common.Str("biotech"),
		PrimaryID:       common.Str("DB00001"),
		Name:            common.Str("Lepirudin"),
		Groups:          "approved|withdrawn",
		Sequence:        common.Str("FASTA: >x"),
		MolecularWeight: "",
	}
	rec.Narrative[Toxicity] = common.Str("LD50 high")
	rec.Classification.Kingdom = common.Str("Organic Compounds")

	cells := rec.Cells()
	require.Len(t, cells, len(RecordColumns))

	byName := map[string]string{}
	for i, c := range RecordColumns {
		byName[c] = cells[i]
	}
	assert.Equal(t, "biotech", byName["type"])
	assert.Equal(t, "DB00001", byName[ColumnPrimaryID])
	assert.Equal(t, "approved|withdrawn", byName["groups"])
	assert.Equal(t, "LD50 high", byName["toxicity"])
	assert.Equal(t, "Organic Compounds", byName["classification_kingdom"])
	assert.Equal(t, "FASTA: >x", byName["sequence"])
	assert.Equal(t, "", byName["created"])
	assert.Equal(t, "", byName["molecular_weight"])
}

func TestChildCells(t *testing.T) {
	assert.Len(t, CategoryLink{}.Cells(), len(CategoryColumns))
	assert.Len(t, PathwayLink{}.Cells(), len(PathwayColumns))
	assert.Len(t, PropertyObservation{}.Cells(), len(PropertyColumns))
	assert.Len(t, Interaction{}.Cells(), len(InteractionColumns))
	assert.Len(t, PathwaySummary{}.Cells(), len(PathwaySummaryColumns))

	p := PropertyObservation{DrugID: "DB1", Kind: "logP", Value: "1.2", Source: "ALOGPS"}
	assert.Equal(t, []string{"DB1", "logP", "1.2"}, p.Cells())

	i := Interaction{DrugID: "DB1", TargetID: "DB2", Template: "t", Code: common.Int(3)}
	assert.Equal(t, "3", i.Cells()[5])
	assert.Equal(t, "", Interaction{}.Cells()[5])
}

func TestPathwaySummary_Cells(t *testing.T) {
	assert.Equal(t, []string{"0", "", "0", "0"}, PathwaySummary{}.Cells())
	s := PathwaySummary{Count: 2, Categories: "drug_action,metabolic", UniqueEnzymeCount: 1, HasPathwayInfo: true}
	assert.Equal(t, []string{"2", "drug_action,metabolic", "1", "1"}, s.Cells())
}

func TestNameIndex(t *testing.T) {
	records := []Record{
		{PrimaryID: common.Str("DB1"), Name: common.Str("Alpha")},
		{PrimaryID: common.Str("DB2")},
		{Name: common.Str("Orphan")},
		{PrimaryID: common.Str("DB1"), Name: common.Str("Duplicate")},
	}
	idx := NameIndex(records)
	assert.Equal(t, map[string]string{"DB1": "Alpha"}, idx)
}
