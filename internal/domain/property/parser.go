// Package property turns free-text physicochemical measurements into single
// numeric values. Every parser is total: any input yields a finite float or
// null.
package property

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/turtacn/drugflat/pkg/types/common"
)

// Parser converts one free-text cell into a number or null.
type Parser func(text string) common.NullFloat

// numberRe matches signed decimals with an optional exponent: "12", ".5",
// "-3.2", "1.5e-3".
var numberRe = regexp.MustCompile(`[-+]?(?:\d*\.\d+|\d+)(?:[eE][-+]?\d+)?`)

var cleaner = strings.NewReplacer(
	"−", "-", // minus sign
	"–", " - ", // en dash used in ranges
	"Â", "",
	"â", "",
)

// normalize folds compatibility forms (e.g. superscripts, full-width digits)
// and strips encoding debris left by a latin-1 round trip.
func normalize(text string) string {
	return cleaner.Replace(norm.NFKC.String(text))
}

// ExtractNumbers returns every decimal token in text, in order. A leading
// sign is kept only when it is not directly preceded by a digit, so the range
// "118-121" yields 118 and 121.
func ExtractNumbers(text string) []float64 {
	if text == "" {
		return nil
	}
	s := normalize(text)
	var out []float64
	for _, loc := range numberRe.FindAllStringIndex(s, -1) {
		start, end := loc[0], loc[1]
		if (s[start] == '-' || s[start] == '+') && start > 0 && isDigit(s[start-1]) {
			start++
		}
		v, err := strconv.ParseFloat(s[start:end], 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func mean(values []float64) common.NullFloat {
	if len(values) == 0 {
		return common.NullFloat{}
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return common.Float(sum / float64(len(values)))
}

func first(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	return values[0], true
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// Float is the generic parser: mean of all tokens.
func Float(text string) common.NullFloat {
	return mean(ExtractNumbers(text))
}

// BoilingPoint averages ranges and repeated values.
func BoilingPoint(text string) common.NullFloat {
	return mean(ExtractNumbers(text))
}

var decompositionMarkers = []string{"decompos"}

// MeltingPoint is null when the text reports decomposition instead of melting.
func MeltingPoint(text string) common.NullFloat {
	if containsAny(strings.ToLower(text), decompositionMarkers) {
		return common.NullFloat{}
	}
	return mean(ExtractNumbers(text))
}

// unavailableMarkers flag a value reported as absent or qualitative only.
var unavailableMarkers = []string{
	"no distinct",
	"does not",
	"not available",
	"unavailable",
}

// IsoelectricPoint is null when the text hedges that no single value exists.
func IsoelectricPoint(text string) common.NullFloat {
	if containsAny(strings.ToLower(text), unavailableMarkers) {
		return common.NullFloat{}
	}
	return mean(ExtractNumbers(text))
}

// PKa follows IsoelectricPoint. "Strongest acidic/basic" phrasing is still
// parsed for tokens.
func PKa(text string) common.NullFloat {
	return IsoelectricPoint(text)
}

var insolubleMarkers = []string{"insoluble"}

// WaterSolubility returns grams per litre. mg/mL and g/L pass through, mg/L
// is divided by 1000, insoluble maps to 0. Unknown units fall back to the
// mean of all tokens.
func WaterSolubility(text string) common.NullFloat {
	lower := strings.ToLower(normalize(text))
	if containsAny(lower, insolubleMarkers) {
		return common.Float(0)
	}
	values := ExtractNumbers(text)
	compact := strings.ReplaceAll(lower, " ", "")
	switch {
	case strings.Contains(compact, "mg/ml"):
		if v, ok := first(values); ok {
			return common.Float(v)
		}
		return common.NullFloat{}
	case strings.Contains(compact, "mg/l"):
		if v, ok := first(values); ok {
			return common.Float(v / 1000)
		}
		return common.NullFloat{}
	case strings.Contains(compact, "g/l"):
		if v, ok := first(values); ok {
			return common.Float(v)
		}
		return common.NullFloat{}
	}
	return mean(values)
}
