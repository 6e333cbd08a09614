// Package genetics provides DNA encoding, genome decoding and the crossover operator.
package genetics

import (
	"encoding/base64"
	"fmt"
)

// Dna is an opaque heritable byte sequence.
type Dna []byte

// String returns the standard base64 form.
func (d Dna) String() string {
	return base64.StdEncoding.EncodeToString(d)
}

// Clone returns an independent copy. Cloning nil returns nil.
func (d Dna) Clone() Dna {
	if d == nil {
		return nil
	}
	out := make(Dna, len(d))
	copy(out, d)
	return out
}

// Equal reports whether two sequences hold the same bytes.
func (d Dna) Equal(other Dna) bool {
	if len(d) != len(other) {
		return false
	}
	for i := range d {
		if d[i] != other[i] {
			return false
		}
	}
	return true
}

// ParseDna decodes a standard base64 string.
func ParseDna(s string) (Dna, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decoding dna %q: %w", s, err)
	}
	return Dna(b), nil
}

// MustParseDna is like ParseDna but panics on error.
func MustParseDna(s string) Dna {
	d, err := ParseDna(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Gender is the mating type carried by a genome.
type Gender uint8

const (
	GenderA Gender = iota
	GenderB
)

func (g Gender) String() string {
	if g == GenderA {
		return "a"
	}
	return "b"
}

// GenderOf derives the mating type from the lowest bit of the first byte.
// Empty DNA is GenderA.
func GenderOf(d Dna) Gender {
	if len(d) == 0 {
		return GenderA
	}
	return Gender(d[0] & 1)
}
