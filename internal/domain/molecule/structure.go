// Package molecule derives deterministic descriptors from a line-notation
// chemical structure string (SMILES).
package molecule

import (
	"crypto/sha256"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/turtacn/drugflat/pkg/types/common"
)

// HashModulus bounds StructureFeatures.Hash to eight decimal digits.
const HashModulus = 100_000_000

var hashModulus = big.NewInt(HashModulus)

const (
	ringClosureDigits = "123456789"
	aromaticAtoms     = "cnops"
)

// StructureFeatures are the shallow descriptors of one structure string.
type StructureFeatures struct {
	// Hash is the SHA-256 digest read as a big-endian integer, modulo
	// HashModulus. Null when the structure is absent.
	Hash         common.NullInt
	Length       int
	Branches     int
	RingClosures int
	Aromatic     int
}

// StructureColumns is the column order produced by StructureFeatures.Cells.
var StructureColumns = []string{
	"smiles_hash",
	"smiles_length",
	"smiles_branches",
	"smiles_ring_closures",
	"smiles_aromatic_atoms",
}

// EncodeStructure computes the features of smiles. Null or empty input gives
// zero descriptors and a null hash.
func EncodeStructure(smiles common.NullString) StructureFeatures {
	if smiles.IsEmpty() {
		return StructureFeatures{}
	}
	s := smiles.Value
	return StructureFeatures{
		Hash:         common.Int(StructureHash(s)),
		Length:       utf8.RuneCountInString(s),
		Branches:     strings.Count(s, "("),
		RingClosures: countAny(s, ringClosureDigits),
		Aromatic:     countAny(s, aromaticAtoms),
	}
}

// StructureHash returns sha256(s) mod HashModulus.
func StructureHash(s string) int64 {
	sum := sha256.Sum256([]byte(s))
	n := new(big.Int).SetBytes(sum[:])
	return n.Mod(n, hashModulus).Int64()
}

func countAny(s, set string) int {
	n := 0
	for _, r := range s {
		if strings.ContainsRune(set, r) {
			n++
		}
	}
	return n
}

// Cells renders the features in StructureColumns order.
func (f StructureFeatures) Cells() []string {
	return []string{
		f.Hash.String(),
		strconv.Itoa(f.Length),
		strconv.Itoa(f.Branches),
		strconv.Itoa(f.RingClosures),
		strconv.Itoa(f.Aromatic),
	}
}
