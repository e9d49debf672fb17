package sequence

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/teranos/plaszyme/errors"
)

// FASTARecord is one parsed FASTA entry.
type FASTARecord struct {
	ID          string // first whitespace-delimited token of the header
	Description string // rest of the header line
	Sequence    string // residues with whitespace removed, case preserved
}

// DefaultLineWidth is the residue count per line written by WriteFASTA.
const DefaultLineWidth = 80

// maxLineBytes bounds a single input line; long unwrapped sequences exceed bufio's 64K default.
const maxLineBytes = 16 * 1024 * 1024

// ReadFASTA parses every record in r. Sequence lines before the first
// header are an error; records with an empty ID are an error.
func ReadFASTA(r io.Reader) ([]FASTARecord, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var records []FASTARecord
	var current *FASTARecord
	var seq strings.Builder
	lineNo := 0

	flush := func() {
		if current != nil {
			current.Sequence = seq.String()
			records = append(records, *current)
			seq.Reset()
		}
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if line[0] == '>' {
			flush()
			id, desc := splitHeader(line[1:])
			if id == "" {
				return nil, errors.Newf("line %d: FASTA header without identifier", lineNo)
			}
			current = &FASTARecord{ID: id, Description: desc}
			continue
		}

		if current == nil {
			return nil, errors.Newf("line %d: sequence data before first FASTA header", lineNo)
		}
		for _, r := range line {
			if !unicode.IsSpace(r) {
				seq.WriteRune(r)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read FASTA")
	}
	flush()

	return records, nil
}

func splitHeader(header string) (id, desc string) {
	header = strings.TrimSpace(header)
	if i := strings.IndexFunc(header, unicode.IsSpace); i >= 0 {
		return header[:i], strings.TrimSpace(header[i+1:])
	}
	return header, ""
}

// WriteFASTA writes one record with the sequence wrapped at width residues
// per line (DefaultLineWidth when width <= 0).
func WriteFASTA(w io.Writer, header, seq string, width int) error {
	if width <= 0 {
		width = DefaultLineWidth
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(">")
	bw.WriteString(header)
	bw.WriteByte('\n')
	for start := 0; start < len(seq); start += width {
		end := start + width
		if end > len(seq) {
			end = len(seq)
		}
		bw.WriteString(seq[start:end])
		bw.WriteByte('\n')
	}
	return errors.Wrap(bw.Flush(), "failed to write FASTA record")
}
