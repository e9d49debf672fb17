// Package similarity implements a windowed positional-match heuristic for
// comparing two protein sequences.
//
// It is not an alignment algorithm. Both sequences are sampled with fixed
// width windows at a stride of 10 residues, every query window is compared
// position by position against every candidate window, and the best window
// pair decides the score. The result is then scaled down by the length ratio
// of the two sequences, so a short fragment never scores 100 against a long
// protein.
//
// Cost is O((lq/Stride) * (lc/Stride) * Window), bounded and roughly linear in
// practice for enzyme-sized sequences.
package similarity

import (
	"math"
	"strings"
)

const (
	// Window is the maximum comparison window width.
	Window = 50

	// Stride is the step between consecutive window start positions.
	Stride = 10
)

// Score returns the similarity of candidate to query as a percentage in [0, 100].
// Comparison is case-insensitive and ignores surrounding whitespace.
func Score(query, candidate string) float64 {
	q := strings.ToUpper(strings.TrimSpace(query))
	c := strings.ToUpper(strings.TrimSpace(candidate))

	lq, lc := len(q), len(c)
	if lq == 0 || lc == 0 {
		return 0
	}

	w := min(Window, lq, lc)
	best := bestWindowMatches(q, c, w)

	base := float64(best) / float64(w) * 100
	adjusted := base * lengthRatio(lq, lc)

	return math.Min(100, math.Max(0, adjusted))
}

// bestWindowMatches returns the highest count of aligned equal positions over
// all pairs of stride-sampled windows of width w.
func bestWindowMatches(q, c string, w int) int {
	best := 0
	for i := 0; i+w <= len(q); i += Stride {
		qw := q[i : i+w]
		for j := 0; j+w <= len(c); j += Stride {
			if m := alignedMatches(qw, c[j:j+w]); m > best {
				best = m
				if best == w {
					return best
				}
			}
		}
	}
	return best
}

func alignedMatches(a, b string) int {
	n := 0
	for k := 0; k < len(a); k++ {
		if a[k] == b[k] {
			n++
		}
	}
	return n
}

func lengthRatio(a, b int) float64 {
	return float64(min(a, b)) / float64(max(a, b))
}

// Coverage returns round(min/max*100) for two sequence lengths, 0 when either is empty.
func Coverage(lq, lc int) int {
	if lq <= 0 || lc <= 0 {
		return 0
	}
	return int(math.Round(lengthRatio(lq, lc) * 100))
}

// Round1 rounds x to one decimal place, halves away from zero.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}
