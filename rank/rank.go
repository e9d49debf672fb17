// Package rank scores candidate enzymes against a query, drops those below a
// similarity tier, and orders the rest.
package rank

import (
	"math"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/teranos/plaszyme/enzyme"
	"github.com/teranos/plaszyme/similarity"
)

// DefaultMaxResults applies when Options.MaxResults is not positive.
const DefaultMaxResults = 25

// Tier names a minimum similarity percentage.
type Tier string

const (
	TierLow      Tier = "low"
	TierMedium   Tier = "medium"
	TierHigh     Tier = "high"
	TierVeryHigh Tier = "very_high"
)

// DefaultTier applies to empty or unknown tier names.
const DefaultTier = TierMedium

var tierMinimum = map[Tier]float64{
	TierLow:      5,
	TierMedium:   15,
	TierHigh:     30,
	TierVeryHigh: 50,
}

// ParseTier maps s to a Tier. Unknown values return DefaultTier.
func ParseTier(s string) Tier {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := tierMinimum[t]; ok {
		return t
	}
	return DefaultTier
}

// Minimum returns the similarity percentage a candidate needs to be kept.
func (t Tier) Minimum() float64 {
	if m, ok := tierMinimum[t]; ok {
		return m
	}
	return tierMinimum[DefaultTier]
}

// Tiers lists the known tiers from loosest to strictest.
func Tiers() []Tier {
	return []Tier{TierLow, TierMedium, TierHigh, TierVeryHigh}
}

// Options control ranking.
type Options struct {
	Tier       Tier
	MaxResults int

	// Workers is the number of goroutines scoring candidates.
	// 0 or 1 scores sequentially; negative uses GOMAXPROCS.
	Workers int
}

// Match is one ranked candidate.
type Match struct {
	CandidateID string               `json:"candidate_id"`
	Name        string               `json:"display_name"`
	Organism    string               `json:"organism"`
	Tags        []string             `json:"tags"`
	TagSummary  string               `json:"tag_summary"`
	Identity    float64              `json:"identity"`
	Score       int                  `json:"score"`
	Coverage    int                  `json:"coverage"`
	Alignment   similarity.Alignment `json:"alignment_preview"`

	// Extra pass-through fields of the matched record.
	ProteinID string `json:"protein_id,omitempty"`
	ECNumber  string `json:"ec_number,omitempty"`
	PDBIDs    string `json:"pdb_ids,omitempty"`
}

// Rank scores every candidate against query and returns the survivors
// sorted by descending identity. Equal identities keep candidate order.
// The result is never nil.
func Rank(query string, candidates []enzyme.Record, opts Options) []Match {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	minimum := opts.Tier.Minimum()

	seqs := make([]string, len(candidates))
	for i, c := range candidates {
		seqs[i] = strings.ToUpper(strings.TrimSpace(c.Sequence))
	}
	scored := scoreAll(query, seqs, opts.Workers)

	matches := make([]Match, 0, len(candidates))
	for i, raw := range scored {
		if math.IsNaN(raw) || raw < minimum {
			continue
		}
		matches = append(matches, newMatch(query, candidates[i], seqs[i], raw))
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Identity > matches[j].Identity
	})

	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	return matches
}

// newMatch builds a result from a candidate and its cleaned sequence.
func newMatch(query string, c enzyme.Record, seq string, raw float64) Match {
	return Match{
		CandidateID: c.ID,
		Name:        c.Name,
		Organism:    c.Organism,
		Tags:        c.Tags,
		TagSummary:  c.TagSummary(),
		Identity:    similarity.Round1(raw),
		Score:       int(math.Round(raw * 2.5)),
		Coverage:    similarity.Coverage(len(query), len(seq)),
		Alignment:   similarity.Preview(query, seq),
		ProteinID:   c.ProteinID,
		ECNumber:    c.ECNumber,
		PDBIDs:      c.PDBIDs,
	}
}

// scoreAll returns raw similarity per candidate sequence, index-aligned
// with seqs. Empty sequences score NaN and are dropped.
func scoreAll(query string, seqs []string, workers int) []float64 {
	scores := make([]float64, len(seqs))
	score := func(i int) {
		if seqs[i] == "" {
			scores[i] = math.NaN()
			return
		}
		scores[i] = similarity.Score(query, seqs[i])
	}

	if workers < 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(seqs) {
		workers = len(seqs)
	}
	if workers <= 1 {
		for i := range seqs {
			score(i)
		}
		return scores
	}

	next := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				score(i)
			}
		}()
	}
	for i := range seqs {
		next <- i
	}
	close(next)
	wg.Wait()

	return scores
}
