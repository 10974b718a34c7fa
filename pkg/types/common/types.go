package common

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"
)

// RunID identifies a single pipeline run. It is a UUID v4 string.
type RunID string

// NewRunID generates a new UUID v4 run identifier.
func NewRunID() RunID {
	return RunID(uuid.New().String())
}

// Validate checks that the RunID is a valid UUID.
func (id RunID) Validate() error {
	if id == "" {
		return fmt.Errorf("run ID cannot be empty")
	}
	if _, err := uuid.Parse(string(id)); err != nil {
		return fmt.Errorf("invalid run ID format: %w", err)
	}
	return nil
}

// Short returns the first eight characters, used in object prefixes.
func (id RunID) Short() string {
	if len(id) < 8 {
		return string(id)
	}
	return string(id[:8])
}

// NullFloat is a float64 that may be absent. The zero value is null.
type NullFloat struct {
	Value float64
	Valid bool
}

// Float returns a present NullFloat. NaN and ±Inf collapse to null.
func Float(v float64) NullFloat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NullFloat{}
	}
	return NullFloat{Value: v, Valid: true}
}

// String renders the value as a table cell; null renders as "".
func (n NullFloat) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// MarshalJSON implements json.Marshaler.
func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// NullInt is an int64 that may be absent.
type NullInt struct {
	Value int64
	Valid bool
}

// Int returns a present NullInt.
func Int(v int64) NullInt {
	return NullInt{Value: v, Valid: true}
}

// String renders the value as a table cell; null renders as "".
func (n NullInt) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatInt(n.Value, 10)
}

// MarshalJSON implements json.Marshaler.
func (n NullInt) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// NullString is a string that may be absent. An empty present string is
// distinct from null only in memory; both render as "" in a table cell.
type NullString struct {
	Value string
	Valid bool
}

// Str returns a present NullString.
func Str(v string) NullString {
	return NullString{Value: v, Valid: true}
}

// StrOrNull returns null for the empty string and a present value otherwise.
func StrOrNull(v string) NullString {
	if v == "" {
		return NullString{}
	}
	return Str(v)
}

// String renders the value as a table cell.
func (n NullString) String() string {
	if !n.Valid {
		return ""
	}
	return n.Value
}

// IsEmpty reports whether the value is null or the empty string.
func (n NullString) IsEmpty() bool {
	return !n.Valid || n.Value == ""
}

// MarshalJSON implements json.Marshaler.
func (n NullString) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// BoolCell renders a flag as the 0/1 integer cell used by the output tables.
func BoolCell(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
