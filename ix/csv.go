package ix

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/teranos/plaszyme/enzyme"
	"github.com/teranos/plaszyme/errors"
)

// csvColumns maps accepted header names to record fields.
var csvColumns = map[string]string{
	"id":            "id",
	"plz_id":        "id",
	"protein_id":    "protein_id",
	"name":          "name",
	"enzyme_name":   "name",
	"organism":      "organism",
	"host_organism": "organism",
	"taxonomy":      "taxonomy",
	"ec_number":     "ec_number",
	"pdb_ids":       "pdb_ids",
	"sequence":      "sequence",
	"substrates":    "substrates",
	"tags":          "substrates",
	"plastic":       "substrates",
}

// ImportCSV reads a header-first CSV corpus and writes it to sink.
// Columns are matched by header name, case-insensitively, in any order;
// id and sequence are required. Substrates are separated by ';' or ','.
func ImportCSV(ctx context.Context, r io.Reader, sink Sink, opts Options) (*Summary, error) {
	opts = opts.withDefaults()
	opts.Emitter.EmitStage("parse", "reading CSV corpus")

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewInvalidRequestError("empty CSV input")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV header")
	}

	index := make(map[string]int)
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if field, ok := csvColumns[key]; ok {
			if _, dup := index[field]; !dup {
				index[field] = i
			}
		}
	}
	for _, required := range []string{"id", "sequence"} {
		if _, ok := index[required]; !ok {
			return nil, errors.WithHintf(
				errors.NewInvalidRequestError("CSV header lacks %q column", required),
				"expected columns: id,protein_id,name,organism,taxonomy,ec_number,pdb_ids,sequence,substrates")
		}
	}

	b := newBatcher(ctx, sink, opts)
	opts.Emitter.EmitStage("store", "validating and storing sequences")

	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return b.summary, errors.Wrapf(err, "failed to read CSV line %d", line)
		}

		get := func(field string) string {
			if i, ok := index[field]; ok && i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}

		rec := enzyme.Record{
			ID:        get("id"),
			ProteinID: get("protein_id"),
			Name:      get("name"),
			Organism:  get("organism"),
			Taxonomy:  get("taxonomy"),
			ECNumber:  get("ec_number"),
			PDBIDs:    get("pdb_ids"),
			Sequence:  get("sequence"),
			Tags:      enzyme.SplitTags(get("substrates")),
		}
		if rec.ID == "" {
			b.skip("", line, "missing id")
			continue
		}

		if err := b.add(rec, line); err != nil {
			opts.Emitter.EmitError("store", err)
			return b.summary, err
		}
	}
	return b.finish()
}
