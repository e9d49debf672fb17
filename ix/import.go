// Package ix imports enzyme corpora from FASTA and CSV files.
//
// Sequences are cleaned the same way search queries are. Records whose
// sequence fails validation are skipped and counted, never stored.
package ix

import (
	"context"

	"github.com/teranos/plaszyme/enzyme"
	"github.com/teranos/plaszyme/errors"
	"github.com/teranos/plaszyme/logger"
	"github.com/teranos/plaszyme/sequence"
)

// DefaultBatchSize is the number of records written per transaction.
const DefaultBatchSize = 200

// Sink receives imported records. Both enzyme.Store and enzyme.MemorySource satisfy it.
type Sink interface {
	PutBatch(ctx context.Context, records []enzyme.Record) error
}

// Options control an import.
type Options struct {
	BatchSize int
	// DryRun parses and validates without writing.
	DryRun  bool
	Emitter ProgressEmitter
}

func (o Options) withDefaults() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.Emitter == nil {
		o.Emitter = nopEmitter{}
	}
	return o
}

// Skip records why one input record was not imported.
type Skip struct {
	ID     string `json:"id"`
	Line   int    `json:"line,omitempty"`
	Reason string `json:"reason"`
}

// Summary is the outcome of an import.
type Summary struct {
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Skips    []Skip `json:"skips,omitempty"`
}

func (s *Summary) asMap() map[string]interface{} {
	return map[string]interface{}{
		"imported": s.Imported,
		"skipped":  s.Skipped,
	}
}

// batcher buffers validated records and flushes them to the sink.
type batcher struct {
	ctx     context.Context
	sink    Sink
	opts    Options
	pending []enzyme.Record
	summary *Summary
}

func newBatcher(ctx context.Context, sink Sink, opts Options) *batcher {
	return &batcher{
		ctx:     ctx,
		sink:    sink,
		opts:    opts,
		pending: make([]enzyme.Record, 0, opts.BatchSize),
		summary: &Summary{},
	}
}

// add validates r's sequence and queues it; invalid records are skipped.
func (b *batcher) add(r enzyme.Record, line int) error {
	seq, err := sequence.Normalize(r.Sequence)
	if err != nil {
		b.skip(r.ID, line, errors.UserMessage(err))
		return nil
	}
	r.Sequence = seq.String()
	r.Tags = enzyme.NormalizeTags(r.Tags)

	b.pending = append(b.pending, r)
	if len(b.pending) >= b.opts.BatchSize {
		return b.flush()
	}
	return nil
}

func (b *batcher) skip(id string, line int, reason string) {
	b.summary.Skipped++
	b.summary.Skips = append(b.summary.Skips, Skip{ID: id, Line: line, Reason: reason})
	logger.Debugw("Skipped record", logger.FieldEnzymeID, id, "line", line, "reason", reason)
}

func (b *batcher) flush() error {
	if len(b.pending) == 0 {
		return nil
	}
	if err := b.ctx.Err(); err != nil {
		return errors.Wrap(err, "import cancelled")
	}
	if !b.opts.DryRun {
		if err := b.sink.PutBatch(b.ctx, b.pending); err != nil {
			return errors.Wrapf(err, "failed to store batch of %d records", len(b.pending))
		}
	}
	b.summary.Imported += len(b.pending)
	b.opts.Emitter.EmitProgress(b.summary.Imported, map[string]interface{}{"type": "enzymes"})
	b.pending = b.pending[:0]
	return nil
}

// finish flushes the remainder and reports completion.
func (b *batcher) finish() (*Summary, error) {
	if err := b.flush(); err != nil {
		return b.summary, err
	}
	b.opts.Emitter.EmitComplete(b.summary.asMap())
	return b.summary, nil
}
