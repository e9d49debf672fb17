// Package enzyme holds the reference corpus of plastic-degrading enzymes:
// the Record type, candidate filters, and the SQLite and in-memory stores
// that feed sequence search.
package enzyme

import (
	"strings"
)

// NoTags is reported as the tag summary of a record without substrates.
const NoTags = "N/A"

// Record is one reference enzyme.
type Record struct {
	ID        string   `json:"id"`
	ProteinID string   `json:"protein_id,omitempty"`
	Name      string   `json:"name"`
	Organism  string   `json:"organism"`
	Taxonomy  string   `json:"taxonomy,omitempty"`
	ECNumber  string   `json:"ec_number,omitempty"`
	PDBIDs    string   `json:"pdb_ids,omitempty"`
	Sequence  string   `json:"sequence"`
	Tags      []string `json:"tags"`

	// HasStructure is true when at least one experimental structure is known.
	// Stores derive it from PDBIDs.
	HasStructure bool `json:"has_structure"`
}

// TagSummary joins the tags with ", ", or returns NoTags.
func (r Record) TagSummary() string {
	if len(r.Tags) == 0 {
		return NoTags
	}
	return strings.Join(r.Tags, ", ")
}

// HasTag reports whether r carries tag, case-insensitively.
func (r Record) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// NormalizeTags trims, drops empties and removes case-insensitive duplicates,
// keeping the first spelling seen.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToUpper(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

// SplitTags parses a tag list separated by commas, semicolons or '|'.
func SplitTags(s string) []string {
	return NormalizeTags(strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '|'
	}))
}
