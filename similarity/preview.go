package similarity

import "strings"

const (
	// PreviewLength bounds the alignment preview.
	PreviewLength = 50

	matchMarker    = '|'
	mismatchMarker = ' '
)

// Alignment is a short ungapped side-by-side view of two sequence prefixes.
// All three strings have equal length.
type Alignment struct {
	Query   string `json:"query"`
	Match   string `json:"match"`
	Subject string `json:"subject"`
}

// Empty reports whether the preview has no residues.
func (a Alignment) Empty() bool {
	return a.Query == ""
}

// Preview lines up the first min(PreviewLength, len(query), len(candidate))
// residues of both sequences and marks equal positions with '|'.
func Preview(query, candidate string) Alignment {
	n := min(PreviewLength, len(query), len(candidate))
	if n <= 0 {
		return Alignment{}
	}

	q, s := query[:n], candidate[:n]
	var match strings.Builder
	match.Grow(n)
	for i := 0; i < n; i++ {
		if q[i] == s[i] {
			match.WriteByte(matchMarker)
		} else {
			match.WriteByte(mismatchMarker)
		}
	}

	return Alignment{Query: q, Match: match.String(), Subject: s}
}
