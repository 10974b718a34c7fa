package property

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/drugflat/pkg/types/common"
)

func assertValue(t *testing.T, want float64, got common.NullFloat) {
	t.Helper()
	require.True(t, got.Valid, "expected a value, got null")
	assert.InDelta(t, want, got.Value, 1e-9)
}

func TestExtractNumbers(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []float64
	}{
		{"empty", "", nil},
		{"no digits", "not determined", nil},
		{"single", "273 °C", []float64{273}},
		{"range keeps both positive", "118-121 °C", []float64{118, 121}},
		{"negative", "-3.5", []float64{-3.5}},
		{"negative after space", "between -10 and -5", []float64{-10, -5}},
		{"unicode minus", "−2.1", []float64{-2.1}},
		{"en dash range", "50–60", []float64{50, 60}},
		{"leading dot", ".5 mg", []float64{0.5}},
		{"exponent", "1.5e-3 g/L", []float64{0.0015}},
		{"mojibake stripped", "25Â°C", []float64{25}},
		{"full-width digits", "１２", []float64{12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractNumbers(tt.in)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i], 1e-12)
			}
		})
	}
}

func TestWaterSolubility(t *testing.T) {
	assertValue(t, 500, WaterSolubility("500 mg/mL"))
	assertValue(t, 0.2, WaterSolubility("200 mg/L"))
	assertValue(t, 0, WaterSolubility("practically insoluble in water"))
	assertValue(t, 3.4, WaterSolubility("3.4 g/L at 25 °C"))
	assertValue(t, 0.0255, WaterSolubility("25.5 mg / L"))
	assertValue(t, 15, WaterSolubility("10-20"))
	assert.False(t, WaterSolubility("soluble").Valid)
	assert.False(t, WaterSolubility("mg/mL").Valid)
}

func TestMeltingPoint(t *testing.T) {
	assert.False(t, MeltingPoint("decomposes at 300 °C").Valid)
	assert.False(t, MeltingPoint("Decomposition above 250").Valid)
	assertValue(t, 119.5, MeltingPoint("118-121 °C"))
	assertValue(t, 273, MeltingPoint("273 °C"))
	assert.False(t, MeltingPoint("").Valid)
}

func TestBoilingPoint(t *testing.T) {
	assertValue(t, 100, BoilingPoint("100 °C"))
	assertValue(t, 155, BoilingPoint("150 - 160 °C"))
}

func TestIsoelectricPointAndPKa(t *testing.T) {
	assert.False(t, IsoelectricPoint("no distinct isoelectric point").Valid)
	assert.False(t, IsoelectricPoint("Does not ionize").Valid)
	assertValue(t, 4.75, IsoelectricPoint("4.75"))

	assert.False(t, PKa("not available").Valid)
	assert.False(t, PKa("Data unavailable").Valid)
	assertValue(t, 3.5, PKa("3.5 (strongest acidic)"))
	assertValue(t, 6, PKa("4, 8"))
}

func TestFloat(t *testing.T) {
	assertValue(t, 1.2, Float("1.2"))
	assertValue(t, -0.5, Float("-0.5"))
	assert.False(t, Float("n/a").Valid)
}

func TestParsers_Total(t *testing.T) {
	inputs := []string{
		"", " ", "abc", "-", "+", ".", "e10", "1e400", "-1e400", "1e", "--5",
		"\x00\xff", "Â", "mg/L", "insoluble", "decomposes", "999999999999999999999999",
		"1.2.3.4", "((((", "💊 12 mg/mL", "1/2", "NaN", "Inf",
	}
	parsers := map[string]Parser{
		"float":       Float,
		"boiling":     BoilingPoint,
		"melting":     MeltingPoint,
		"isoelectric": IsoelectricPoint,
		"pka":         PKa,
		"water":       WaterSolubility,
	}
	for name, p := range parsers {
		for _, in := range inputs {
			var got common.NullFloat
			require.NotPanics(t, func() { got = p(in) }, "%s(%q)", name, in)
			if got.Valid {
				assert.False(t, math.IsNaN(got.Value) || math.IsInf(got.Value, 0), "%s(%q) = %v", name, in, got.Value)
			}
		}
	}
}
