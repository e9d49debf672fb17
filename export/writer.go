package export

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/teranos/plaszyme/enzyme"
	"github.com/teranos/plaszyme/errors"
	"github.com/teranos/plaszyme/sequence"
)

// MinSequenceLength is exclusive: only sequences longer than this are written.
const MinSequenceLength = 50

// RecordSource iterates the corpus. enzyme.Store satisfies it.
type RecordSource interface {
	Each(ctx context.Context, fn func(enzyme.Record) error) error
}

// Result summarizes one written dataset.
type Result struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Filename string `json:"filename"`
	// Matched counts records selected by the dataset; Written those long enough to export.
	Matched int `json:"matched"`
	Written int `json:"written"`
}

// Header formats the FASTA header line (without '>') for r in dataset d.
func Header(d Dataset, r enzyme.Record) string {
	organism := orDefault(r.Organism, "Unknown")
	name := orDefault(r.Name, "Enzyme")

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s", r.ID, organism, name)
	if d.annotates(AnnotateEC) && r.ECNumber != "" {
		fmt.Fprintf(&b, " ec=%s", r.ECNumber)
	}
	if d.annotates(AnnotateTaxonomy) && r.Taxonomy != "" {
		fmt.Fprintf(&b, " taxonomy=%s", r.Taxonomy)
	}
	return b.String()
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// Write streams dataset d from src to w.
func Write(ctx context.Context, w io.Writer, d Dataset, src RecordSource) (Result, error) {
	res := Result{Key: d.Key, Title: d.Title, Filename: d.Filename}
	bw := bufio.NewWriter(w)

	err := src.Each(ctx, func(r enzyme.Record) error {
		if !d.Match(r) {
			return nil
		}
		res.Matched++

		seq := sequence.StandardOnly(r.Sequence)
		if len(seq) <= MinSequenceLength {
			return nil
		}
		if err := sequence.WriteFASTA(bw, Header(d, r), seq, sequence.DefaultLineWidth); err != nil {
			return err
		}
		res.Written++
		return nil
	})
	if err != nil {
		return res, errors.Wrapf(err, "failed to export dataset %s", d.Key)
	}
	return res, errors.Wrap(bw.Flush(), "failed to flush FASTA output")
}

// ReportFilename is written next to the dataset files by ExportAll.
const ReportFilename = "export_report.txt"

// ExportAll writes every dataset into dir, plus a plain-text report.
// Datasets without matching records still produce an empty file.
func ExportAll(ctx context.Context, dir string, datasets []Dataset, src RecordSource) ([]Result, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create output directory %s", dir)
	}

	results := make([]Result, 0, len(datasets))
	for _, d := range datasets {
		res, err := exportFile(ctx, filepath.Join(dir, d.Filename), d, src)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}

	if err := writeReport(filepath.Join(dir, ReportFilename), results, time.Now()); err != nil {
		return results, err
	}
	return results, nil
}

func exportFile(ctx context.Context, path string, d Dataset, src RecordSource) (Result, error) {
	f, err := os.Create(path)
	if err != nil {
		return Result{}, errors.Wrapf(err, "failed to create %s", path)
	}
	res, err := Write(ctx, f, d, src)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = errors.Wrapf(cerr, "failed to close %s", path)
	}
	return res, err
}

func writeReport(path string, results []Result, at time.Time) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Sequence export report\n")
	fmt.Fprintf(&b, "Exported: %s\n\n", at.Format("2006-01-02 15:04:05"))
	for _, r := range results {
		fmt.Fprintf(&b, "Dataset: %s (%s)\n", r.Title, r.Key)
		fmt.Fprintf(&b, "  Matched records: %d\n", r.Matched)
		fmt.Fprintf(&b, "  Sequences written: %d\n", r.Written)
		fmt.Fprintf(&b, "  File: %s\n\n", r.Filename)
	}
	return errors.Wrap(os.WriteFile(path, []byte(b.String()), 0644), "failed to write export report")
}
