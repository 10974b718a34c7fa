package property

import (
	"github.com/turtacn/drugflat/pkg/types/common"
)

// Property kinds the parser family understands.
const (
	KindBoilingPoint     = "Boiling Point"
	KindMeltingPoint     = "Melting Point"
	KindIsoelectricPoint = "Isoelectric Point"
	KindWaterSolubility  = "Water Solubility"
	KindPKa              = "pKa"
	KindLogP             = "logP"
	KindLogS             = "logS"
)

// attribute binds a property kind to its parser and output column.
type attribute struct {
	kind   string
	column string
	parse  Parser
}

const measurementCount = 7

var attributes = [measurementCount]attribute{
	{KindBoilingPoint, "boiling_point", BoilingPoint},
	{KindMeltingPoint, "melting_point", MeltingPoint},
	{KindIsoelectricPoint, "isoelectric_point", IsoelectricPoint},
	{KindWaterSolubility, "water_solubility_g_l", WaterSolubility},
	{KindPKa, "pka", PKa},
	{KindLogP, "logp", Float},
	{KindLogS, "logs", Float},
}

// MeasurementColumns is the column order produced by Measurements.Cells.
var MeasurementColumns = func() []string {
	cols := make([]string, len(attributes))
	for i, a := range attributes {
		cols[i] = a.column
	}
	return cols
}()

// Kinds returns the property kinds with a registered parser, in column order.
func Kinds() []string {
	kinds := make([]string, len(attributes))
	for i, a := range attributes {
		kinds[i] = a.kind
	}
	return kinds
}

// ParserFor returns the parser registered for kind. Unknown kinds get the
// generic Float parser and ok=false.
func ParserFor(kind string) (Parser, bool) {
	for _, a := range attributes {
		if a.kind == kind {
			return a.parse, true
		}
	}
	return Float, false
}

// Measurements holds the numeric reading of every parsed property, indexed
// like MeasurementColumns.
type Measurements struct {
	Values [measurementCount]common.NullFloat
}

// Measure parses the pivoted property columns of one drug. Absent kinds
// yield null.
func Measure(props map[string]string) Measurements {
	var m Measurements
	for i, a := range attributes {
		text, ok := props[a.kind]
		if !ok {
			continue
		}
		m.Values[i] = a.parse(text)
	}
	return m
}

// Get returns the reading of kind, or null when kind has no parser.
func (m Measurements) Get(kind string) common.NullFloat {
	for i, a := range attributes {
		if a.kind == kind {
			return m.Values[i]
		}
	}
	return common.NullFloat{}
}

// Present reports how many readings are non-null.
func (m Measurements) Present() int {
	n := 0
	for _, v := range m.Values {
		if v.Valid {
			n++
		}
	}
	return n
}

// Cells renders the readings in MeasurementColumns order.
func (m Measurements) Cells() []string {
	cells := make([]string, len(m.Values))
	for i, v := range m.Values {
		cells[i] = v.String()
	}
	return cells
}
