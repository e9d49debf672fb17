package ix

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/teranos/plaszyme/enzyme"
	"github.com/teranos/plaszyme/errors"
	"github.com/teranos/plaszyme/sequence"
)

var (
	headerOrganism = regexp.MustCompile(`\[([^\]]*)\]`)
	headerKeyValue = regexp.MustCompile(`(?i)\b(tags|plastics?|pdb|ec|taxonomy|protein_id)=(\S+)`)
)

// ParseHeader turns a FASTA header (without '>') into a record with no sequence.
//
//	>PLZ00042 IsPETase [Ideonella sakaiensis] tags=PET,MHET pdb=5XJH ec=3.1.1.101
//
// The first token is the id. A bracketed part is the organism. Recognized
// key=value tokens are tags (alias plastic), pdb, ec, taxonomy and protein_id.
// Everything else, in order, is the display name.
func ParseHeader(header string) enzyme.Record {
	header = strings.TrimSpace(strings.TrimPrefix(header, ">"))

	var r enzyme.Record
	id, rest, _ := strings.Cut(header, " ")
	r.ID = strings.TrimSpace(id)

	if m := headerOrganism.FindStringSubmatch(rest); m != nil {
		r.Organism = strings.TrimSpace(m[1])
		rest = strings.Replace(rest, m[0], " ", 1)
	}

	for _, m := range headerKeyValue.FindAllStringSubmatch(rest, -1) {
		switch strings.ToLower(m[1]) {
		case "tags", "plastic", "plastics":
			r.Tags = append(r.Tags, enzyme.SplitTags(m[2])...)
		case "pdb":
			r.PDBIDs = m[2]
		case "ec":
			r.ECNumber = m[2]
		case "taxonomy":
			r.Taxonomy = m[2]
		case "protein_id":
			r.ProteinID = m[2]
		}
	}
	rest = headerKeyValue.ReplaceAllString(rest, " ")

	r.Name = strings.Join(strings.Fields(rest), " ")
	r.Tags = enzyme.NormalizeTags(r.Tags)
	r.HasStructure = r.PDBIDs != ""
	return r
}

// ImportFASTA reads FASTA records from r and writes them to sink.
func ImportFASTA(ctx context.Context, r io.Reader, sink Sink, opts Options) (*Summary, error) {
	opts = opts.withDefaults()
	opts.Emitter.EmitStage("parse", "reading FASTA records")

	records, err := sequence.ReadFASTA(r)
	if err != nil {
		opts.Emitter.EmitError("parse", err)
		return nil, errors.Wrap(err, "failed to parse FASTA input")
	}
	opts.Emitter.EmitInfo(fmt.Sprintf("%d FASTA records parsed", len(records)))

	b := newBatcher(ctx, sink, opts)
	opts.Emitter.EmitStage("store", "validating and storing sequences")
	for _, fr := range records {
		rec := ParseHeader(fr.ID + " " + fr.Description)
		rec.Sequence = fr.Sequence
		if err := b.add(rec, 0); err != nil {
			opts.Emitter.EmitError("store", err)
			return b.summary, err
		}
	}
	return b.finish()
}
