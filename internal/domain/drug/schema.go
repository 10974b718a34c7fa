package drug

import (
	"strconv"
)

// SchemaVersion is bumped whenever a column is added, removed or reordered
// in any output table.
const SchemaVersion = "1.0.0"

// Table names double as output file stems.
const (
	TableDrugs        = "drugs"
	TableCategories   = "drug_categories"
	TablePathways     = "pathways"
	TableProperties   = "experimental_properties"
	TableInteractions = "drug_interactions"
	TableNames        = "drug_names"
)

// ColumnPrimaryID is the foreign key column shared by every child table.
const ColumnPrimaryID = "primary_drugbank_id"

// TableSchema is the explicit, ordered column list of one output table.
type TableSchema struct {
	Name    string   `yaml:"name"`
	File    string   `yaml:"file"`
	Columns []string `yaml:"columns"`
}

// NewTableSchema builds a schema whose file is "<name>.csv".
func NewTableSchema(name string, columns ...[]string) TableSchema {
	var cols []string
	for _, c := range columns {
		cols = append(cols, c...)
	}
	return TableSchema{Name: name, File: name + ".csv", Columns: cols}
}

// RecordColumns is the column order produced by Record.Cells.
var RecordColumns = func() []string {
	cols := []string{
		"type", "created", ColumnPrimaryID, "name", "description",
		"cas_number", "unii", "state", "groups",
	}
	for f := NarrativeField(0); f < narrativeCount; f++ {
		cols = append(cols, f.Column())
	}
	return append(cols,
		"classification_description",
		"classification_direct_parent",
		"classification_kingdom",
		"classification_superclass",
		"classification_class",
		"classification_subclass",
		"affected_organisms",
		"food_interactions",
		"sequence",
		"molecular_weight",
	)
}()

// PathwaySummaryColumns is the column order produced by PathwaySummary.Cells.
var PathwaySummaryColumns = []string{
	"pathway_count",
	"unique_pathway_categories",
	"unique_enzyme_count",
	"has_pathway_info",
}

// Child relation columns.
var (
	CategoryColumns    = []string{ColumnPrimaryID, "category", "mesh_id"}
	PathwayColumns     = []string{ColumnPrimaryID, "pathway_smpdb_id", "pathway_name", "pathway_category", "pathway_enzymes"}
	PropertyColumns    = []string{ColumnPrimaryID, "kind", "value"}
	InteractionColumns = []string{ColumnPrimaryID, "drugbank_id", "name", "description", "interaction_template", "interaction_type"}
	NameColumns        = []string{"drugbank_id", "name"}
)

// Property kinds that become wide columns on the drugs table. Calculated
// kinds come first, then experimental-only kinds. A kind shared by both
// vocabularies appears once.
var PropertyKinds = []string{
	// calculated
	"logP",
	"logS",
	"Water Solubility",
	"IUPAC Name",
	"Traditional IUPAC Name",
	"Molecular Weight",
	"Monoisotopic Weight",
	"SMILES",
	"Molecular Formula",
	"InChI",
	"InChIKey",
	"Polar Surface Area (PSA)",
	"Refractivity",
	"Polarizability",
	"Rotatable Bond Count",
	"H Bond Acceptor Count",
	"H Bond Donor Count",
	"pKa (strongest acidic)",
	"pKa (strongest basic)",
	"Physiological Charge",
	"Number of Rings",
	"Bioavailability",
	"Rule of Five",
	"Ghose Filter",
	"MDDR-Like Rule",
	"Veber's Rule",
	// experimental
	"Melting Point",
	"Boiling Point",
	"Hydrophobicity",
	"Isoelectric Point",
	"caco2 Permeability",
	"pKa",
	"Radioactivity",
}

var propertyKindSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(PropertyKinds))
	for _, k := range PropertyKinds {
		set[k] = struct{}{}
	}
	return set
}()

// IsPivotedKind reports whether kind has a wide column.
func IsPivotedKind(kind string) bool {
	_, ok := propertyKindSet[kind]
	return ok
}

// ChildSchemas returns the schemas of every table except drugs, whose
// derived columns are assembled by the pipeline.
func ChildSchemas() []TableSchema {
	return []TableSchema{
		NewTableSchema(TableCategories, CategoryColumns),
		NewTableSchema(TablePathways, PathwayColumns),
		NewTableSchema(TableProperties, PropertyColumns),
		NewTableSchema(TableInteractions, InteractionColumns),
		NewTableSchema(TableNames, NameColumns),
	}
}

func itoa(n int) string { return strconv.Itoa(n) }
