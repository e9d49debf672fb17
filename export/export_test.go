package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/plaszyme/enzyme"
	"github.com/teranos/plaszyme/errors"
	plztest "github.com/teranos/plaszyme/internal/testing"
)

var long = strings.Repeat("MKTAYIAKQR", 9) // 90 residues

func corpus() []enzyme.Record {
	return []enzyme.Record{
		{ID: "PLZ1", Name: "IsPETase", Organism: "Ideonella sakaiensis", ECNumber: "3.1.1.101",
			Taxonomy: "Bacteria; Pseudomonadota", Sequence: long, Tags: []string{"PET"}},
		{ID: "PLZ2", Name: "Laccase", Organism: "Rhodococcus ruber", ECNumber: "1.10.3.2",
			Taxonomy: "Actinomycetota", Sequence: long, Tags: []string{"PE"}},
		{ID: "PLZ3", Name: "Cutinase", Organism: "Fusarium solani", ECNumber: "3.1.1.74",
			Taxonomy: "Eukarya", Sequence: long, Tags: []string{"PET", "PCL"}},
		{ID: "PLZ4", Name: "Short", Organism: "", Taxonomy: "Fungi", Sequence: "MKTAYIAKQR", Tags: []string{"PP"}},
		{ID: "PLZ5", Name: "", Organism: "Aspergillus", ECNumber: "3.1.1.3", Taxonomy: "fungi",
			Sequence: "mktayiakqr-xx*" + long},
	}
}

func storeWithCorpus(t *testing.T) *enzyme.Store {
	t.Helper()
	store := enzyme.NewStore(plztest.CreateTestDB(t), nil)
	require.NoError(t, store.PutBatch(context.Background(), corpus()))
	return store
}

func builtin(t *testing.T, key string) Dataset {
	t.Helper()
	ds, err := Select(Builtin(), []string{key})
	require.NoError(t, err)
	return ds[0]
}

func headers(fasta string) []string {
	var out []string
	for _, line := range strings.Split(fasta, "\n") {
		if strings.HasPrefix(line, ">") {
			out = append(out, line)
		}
	}
	return out
}

func TestBuiltinDatasets(t *testing.T) {
	store := storeWithCorpus(t)

	tests := []struct {
		key         string
		wantMatched int
		wantHeaders []string
	}{
		{"comprehensive", 5, []string{
			">PLZ1 Ideonella sakaiensis IsPETase ec=3.1.1.101",
			">PLZ2 Rhodococcus ruber Laccase ec=1.10.3.2",
			">PLZ3 Fusarium solani Cutinase ec=3.1.1.74",
			">PLZ5 Aspergillus Enzyme ec=3.1.1.3",
		}},
		{"pet", 2, []string{
			">PLZ1 Ideonella sakaiensis IsPETase ec=3.1.1.101",
			">PLZ3 Fusarium solani Cutinase ec=3.1.1.74",
		}},
		{"pe_pp", 2, []string{">PLZ2 Rhodococcus ruber Laccase ec=1.10.3.2"}},
		{"ec31", 3, []string{
			">PLZ1 Ideonella sakaiensis IsPETase ec=3.1.1.101",
			">PLZ3 Fusarium solani Cutinase ec=3.1.1.74",
			">PLZ5 Aspergillus Enzyme ec=3.1.1.3",
		}},
		{"bacterial", 2, []string{
			">PLZ1 Ideonella sakaiensis IsPETase taxonomy=Bacteria; Pseudomonadota",
			">PLZ2 Rhodococcus ruber Laccase taxonomy=Actinomycetota",
		}},
		{"fungal", 3, []string{
			">PLZ3 Fusarium solani Cutinase taxonomy=Eukarya",
			">PLZ5 Aspergillus Enzyme taxonomy=fungi",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			var buf bytes.Buffer
			res, err := Write(context.Background(), &buf, builtin(t, tt.key), store)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMatched, res.Matched)
			assert.Equal(t, len(tt.wantHeaders), res.Written)
			assert.Equal(t, tt.wantHeaders, headers(buf.String()))
		})
	}
}

func TestWriteCleansAndWraps(t *testing.T) {
	mem := &sliceSource{records: []enzyme.Record{{ID: "X", Sequence: "mktayiakqr-xx*" + strings.Repeat("A", 80)}}}

	var buf bytes.Buffer
	_, err := Write(context.Background(), &buf, Dataset{Key: "all"}, mem)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, ">X Unknown Enzyme", lines[0])
	assert.Equal(t, "MKTAYIAKQR"+strings.Repeat("A", 70), lines[1])
	assert.Equal(t, strings.Repeat("A", 10), lines[2])
}

func TestExactlyFiftyIsDropped(t *testing.T) {
	mem := &sliceSource{records: []enzyme.Record{
		{ID: "fifty", Sequence: strings.Repeat("A", 50)},
		{ID: "fiftyone", Sequence: strings.Repeat("A", 51)},
	}}
	var buf bytes.Buffer
	res, err := Write(context.Background(), &buf, Dataset{}, mem)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Matched)
	assert.Equal(t, 1, res.Written)
	assert.Equal(t, []string{">fiftyone Unknown Enzyme"}, headers(buf.String()))
}

func TestExportAll(t *testing.T) {
	store := storeWithCorpus(t)
	dir := filepath.Join(t.TempDir(), "phylogeny")

	results, err := ExportAll(context.Background(), dir, Builtin(), store)
	require.NoError(t, err)
	require.Len(t, results, 6)

	for _, r := range results {
		_, err := os.Stat(filepath.Join(dir, r.Filename))
		assert.NoError(t, err, r.Filename)
	}

	report, err := os.ReadFile(filepath.Join(dir, ReportFilename))
	require.NoError(t, err)
	assert.Contains(t, string(report), "Dataset: PET-degrading enzymes (pet)")
	assert.Contains(t, string(report), "Sequences written: 2")
}

func TestLoadPresets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datasets.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[datasets.pet]
title = "PET hydrolases only"
tags = ["PET"]
ec_prefixes = ["3.1.1."]

[datasets.pla]
tags = ["PLA"]
annotate = ["ec", "taxonomy"]
`), 0644))

	all, err := LoadPresets(path)
	require.NoError(t, err)
	require.Len(t, all, 7)

	assert.Equal(t, "pet", all[1].Key)
	assert.Equal(t, "PET hydrolases only", all[1].Title)
	assert.Equal(t, "pet_enzymes.fasta", all[1].Filename)
	assert.Equal(t, []string{"3.1.1."}, all[1].ECPrefixes)

	pla := all[6]
	assert.Equal(t, "pla", pla.Key)
	assert.Equal(t, "pla.fasta", pla.Filename)
	assert.Equal(t, "pla", pla.Title)
	assert.Equal(t, []string{AnnotateEC, AnnotateTaxonomy}, pla.Annotate)
}

func TestLoadPresetsErrors(t *testing.T) {
	_, err := LoadPresets(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[datasets.x\n"), 0644))
	_, err = LoadPresets(bad)
	assert.Error(t, err)
}

func TestSelect(t *testing.T) {
	ds, err := Select(Builtin(), []string{"fungal", "pet"})
	require.NoError(t, err)
	assert.Equal(t, "fungal", ds[0].Key)
	assert.Equal(t, "pet", ds[1].Key)

	all, err := Select(Builtin(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 6)

	_, err = Select(Builtin(), []string{"nope"})
	assert.True(t, errors.IsNotFoundError(err))
}

type sliceSource struct{ records []enzyme.Record }

func (s *sliceSource) Each(_ context.Context, fn func(enzyme.Record) error) error {
	for _, r := range s.records {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

func TestCountAll(t *testing.T) {
	store := storeWithCorpus(t)

	counts, err := CountAll(context.Background(), Builtin(), store)
	require.NoError(t, err)

	got := make(map[string]int, len(counts))
	for _, c := range counts {
		got[c.Key] = c.Count
	}
	assert.Equal(t, map[string]int{
		"comprehensive": 5,
		"pet":           2,
		"pe_pp":         2,
		"ec31":          3,
		"bacterial":     2,
		"fungal":        3,
	}, got)
	assert.Equal(t, "comprehensive", counts[0].Key)
}

func TestCountAll_Cancelled(t *testing.T) {
	store := storeWithCorpus(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CountAll(ctx, Builtin(), store)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
