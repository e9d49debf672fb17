package sequence

import (
	"math"
	"strings"
)

// Average residue masses in daltons (free amino acid).
var residueMass = map[byte]float64{
	'A': 89.09, 'C': 121.15, 'D': 133.10, 'E': 147.13,
	'F': 165.19, 'G': 75.07, 'H': 155.16, 'I': 131.17,
	'K': 146.19, 'L': 131.17, 'M': 149.21, 'N': 132.12,
	'P': 115.13, 'Q': 146.15, 'R': 174.20, 'S': 105.09,
	'T': 119.12, 'V': 117.15, 'W': 204.23, 'Y': 181.19,
}

// waterMass is lost once per peptide bond.
const waterMass = 18.015

// Info holds derived physicochemical properties of a sequence.
type Info struct {
	Length             int     `json:"sequence_length"`
	MolecularWeightKDa float64 `json:"molecular_weight"`
	TheoreticalPI      float64 `json:"theoretical_pi"`
}

// StandardOnly uppercases s and removes everything that is not one of the
// 20 standard residues (the wildcard included).
func StandardOnly(s string) string {
	s = strings.ToUpper(s)
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if IsStandard(s[i]) {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Properties computes length, molecular weight (kDa, one decimal) and an
// approximate isoelectric point for s. Non-standard letters are ignored.
//
// The pI estimate starts at 7.0 and moves 0.5 per net charged residue
// (K, R, H positive; D, E negative), clamped to [3, 12]. It is a coarse
// composition heuristic, not a titration model.
func Properties(s string) Info {
	clean := StandardOnly(s)
	n := len(clean)
	if n == 0 {
		return Info{}
	}

	var mass float64
	var positive, negative int
	for i := 0; i < n; i++ {
		mass += residueMass[clean[i]]
		switch clean[i] {
		case 'K', 'R', 'H':
			positive++
		case 'D', 'E':
			negative++
		}
	}
	if n > 1 {
		mass -= float64(n-1) * waterMass
	}

	pi := 7.0 + float64(positive-negative)*0.5
	pi = math.Max(3.0, math.Min(12.0, pi))

	return Info{
		Length:             n,
		MolecularWeightKDa: round1(mass / 1000),
		TheoreticalPI:      round1(pi),
	}
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
