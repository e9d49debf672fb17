package sequence

// Standard is the 20-letter amino-acid alphabet.
const Standard = "ACDEFGHIKLMNPQRSTVWY"

// Wildcard stands for an unknown residue.
const Wildcard = 'X'

var residueTable [256]bool

func init() {
	for i := 0; i < len(Standard); i++ {
		residueTable[Standard[i]] = true
	}
}

// IsStandard reports whether b is one of the 20 standard residues (uppercase).
func IsStandard(b byte) bool {
	return residueTable[b]
}

// IsResidue reports whether b is a standard residue or the wildcard.
func IsResidue(b byte) bool {
	return residueTable[b] || b == Wildcard
}
