package property

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasure(t *testing.T) {
	m := Measure(map[string]string{
		KindMeltingPoint:    "118-121 °C",
		KindWaterSolubility: "200 mg/L",
		KindLogP:            "2.5",
		KindPKa:             "not available",
		"Color":             "white",
	})

	assertValue(t, 119.5, m.Get(KindMeltingPoint))
	assertValue(t, 0.2, m.Get(KindWaterSolubility))
	assertValue(t, 2.5, m.Get(KindLogP))
	assert.False(t, m.Get(KindPKa).Valid)
	assert.False(t, m.Get(KindBoilingPoint).Valid)
	assert.False(t, m.Get("Color").Valid)
	assert.Equal(t, 3, m.Present())

	cells := m.Cells()
	require.Len(t, cells, len(MeasurementColumns))
	assert.Equal(t, []string{"", "119.5", "", "0.2", "", "2.5", ""}, cells)
}

func TestMeasure_Empty(t *testing.T) {
	m := Measure(nil)
	assert.Equal(t, 0, m.Present())
	for _, c := range m.Cells() {
		assert.Empty(t, c)
	}
}

func TestMeasurementColumns(t *testing.T) {
	assert.Equal(t, []string{
		"boiling_point", "melting_point", "isoelectric_point",
		"water_solubility_g_l", "pka", "logp", "logs",
	}, MeasurementColumns)
	assert.Len(t, Kinds(), len(MeasurementColumns))
}

func TestParserFor(t *testing.T) {
	p, ok := ParserFor(KindWaterSolubility)
	require.True(t, ok)
	assertValue(t, 500, p("500 mg/mL"))

	p, ok = ParserFor("Hydrophobicity")
	assert.False(t, ok)
	assertValue(t, 1.5, p("1.5"))
}
