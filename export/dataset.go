// Package export writes FASTA datasets of the enzyme corpus, e.g. as input
// for phylogenetic tree building.
package export

import (
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/teranos/plaszyme/enzyme"
	"github.com/teranos/plaszyme/errors"
)

// Header annotations a dataset may append.
const (
	AnnotateEC       = "ec"
	AnnotateTaxonomy = "taxonomy"
)

// Dataset selects records for one FASTA file. Each non-empty criterion must
// hold; within a criterion any listed value suffices.
type Dataset struct {
	Key      string `toml:"-"`
	Title    string `toml:"title"`
	Filename string `toml:"filename"`

	// Tags selects records carrying any of these substrates.
	Tags []string `toml:"tags"`

	// ECPrefixes selects records whose EC number starts with any prefix.
	ECPrefixes []string `toml:"ec_prefixes"`

	// TaxonomyContains and TaxonomyEquals together select by lineage text,
	// case-insensitively.
	TaxonomyContains []string `toml:"taxonomy_contains"`
	TaxonomyEquals   []string `toml:"taxonomy_equals"`

	// Annotate lists header annotations: "ec", "taxonomy".
	Annotate []string `toml:"annotate"`
}

// Match reports whether r belongs to the dataset.
func (d Dataset) Match(r enzyme.Record) bool {
	if strings.TrimSpace(r.Sequence) == "" {
		return false
	}
	if len(d.Tags) > 0 && !anyTag(r, d.Tags) {
		return false
	}
	if len(d.ECPrefixes) > 0 && !anyPrefix(r.ECNumber, d.ECPrefixes) {
		return false
	}
	if len(d.TaxonomyContains) > 0 || len(d.TaxonomyEquals) > 0 {
		if !taxonomyMatch(r.Taxonomy, d.TaxonomyContains, d.TaxonomyEquals) {
			return false
		}
	}
	return true
}

func anyTag(r enzyme.Record, tags []string) bool {
	for _, t := range tags {
		if r.HasTag(t) {
			return true
		}
	}
	return false
}

func anyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func taxonomyMatch(taxonomy string, contains, equals []string) bool {
	lower := strings.ToLower(taxonomy)
	for _, e := range equals {
		if strings.EqualFold(taxonomy, e) {
			return true
		}
	}
	for _, c := range contains {
		if strings.Contains(lower, strings.ToLower(c)) {
			return true
		}
	}
	return false
}

func (d Dataset) annotates(what string) bool {
	for _, a := range d.Annotate {
		if strings.EqualFold(a, what) {
			return true
		}
	}
	return false
}

// Builtin returns the standard datasets in their canonical order.
func Builtin() []Dataset {
	return []Dataset{
		{
			Key: "comprehensive", Title: "All plastic-degrading enzymes",
			Filename: "comprehensive_enzymes.fasta", Annotate: []string{AnnotateEC},
		},
		{
			Key: "pet", Title: "PET-degrading enzymes",
			Filename: "pet_enzymes.fasta", Tags: []string{"PET"}, Annotate: []string{AnnotateEC},
		},
		{
			Key: "pe_pp", Title: "PE and PP degrading enzymes",
			Filename: "pe_pp_enzymes.fasta", Tags: []string{"PE", "PP"}, Annotate: []string{AnnotateEC},
		},
		{
			Key: "ec31", Title: "EC 3.1 esterases",
			Filename: "ec31_esterases.fasta", ECPrefixes: []string{"3.1."}, Annotate: []string{AnnotateEC},
		},
		{
			Key: "bacterial", Title: "Bacterial enzymes",
			Filename: "bacterial_enzymes.fasta",
			TaxonomyContains: []string{
				"Bacteria", "Proteobacteria", "Bacillota", "Actinomycetota", "Chloroflexota", "Pseudomonadota",
			},
			Annotate: []string{AnnotateTaxonomy},
		},
		{
			Key: "fungal", Title: "Fungal enzymes",
			Filename:         "fungal_enzymes.fasta",
			TaxonomyContains: []string{"Fungi"},
			TaxonomyEquals:   []string{"Eukarya"},
			Annotate:         []string{AnnotateTaxonomy},
		},
	}
}

type presetFile struct {
	Datasets map[string]Dataset `toml:"datasets"`
}

// LoadPresets reads dataset definitions from a TOML file and merges them
// over the builtin ones. A preset with a builtin key replaces it in place;
// new keys follow in name order.
//
//	[datasets.pla]
//	title = "PLA depolymerases"
//	filename = "pla.fasta"
//	tags = ["PLA"]
//	annotate = ["ec"]
func LoadPresets(path string) ([]Dataset, error) {
	var file presetFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		if os.IsNotExist(errors.UnwrapAll(err)) {
			return nil, errors.Wrapf(err, "dataset preset file %s not found", path)
		}
		return nil, errors.Wrapf(err, "failed to parse dataset presets %s", path)
	}
	return Merge(Builtin(), file.Datasets), nil
}

// Merge overlays presets onto base.
func Merge(base []Dataset, presets map[string]Dataset) []Dataset {
	out := make([]Dataset, 0, len(base)+len(presets))
	used := make(map[string]bool, len(presets))
	for _, d := range base {
		if p, ok := presets[d.Key]; ok {
			p.Key = d.Key
			if p.Filename == "" {
				p.Filename = d.Filename
			}
			d = p
			used[d.Key] = true
		}
		out = append(out, d)
	}

	var extra []string
	for key := range presets {
		if !used[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		d := presets[key]
		d.Key = key
		if d.Filename == "" {
			d.Filename = key + ".fasta"
		}
		if d.Title == "" {
			d.Title = key
		}
		out = append(out, d)
	}
	return out
}

// Select returns the datasets named by keys, in the order given. An empty
// keys list returns all datasets.
func Select(all []Dataset, keys []string) ([]Dataset, error) {
	if len(keys) == 0 {
		return all, nil
	}
	byKey := make(map[string]Dataset, len(all))
	for _, d := range all {
		byKey[d.Key] = d
	}
	out := make([]Dataset, 0, len(keys))
	for _, k := range keys {
		d, ok := byKey[k]
		if !ok {
			return nil, errors.NewNotFoundError("dataset %q", k)
		}
		out = append(out, d)
	}
	return out, nil
}
