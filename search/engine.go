// Package search runs a protein sequence query against a candidate source:
// normalize the query, fetch a filtered and bounded candidate set, rank it.
package search

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/plaszyme/enzyme"
	"github.com/teranos/plaszyme/errors"
	"github.com/teranos/plaszyme/logger"
	"github.com/teranos/plaszyme/rank"
	"github.com/teranos/plaszyme/sequence"
)

// Defaults used when Config leaves a field zero.
const (
	DefaultMaxResults      = rank.DefaultMaxResults
	DefaultMaxResultsCap   = 500
	DefaultOverfetchFactor = 3
)

// ErrEmptyInput is returned for a blank query sequence.
var ErrEmptyInput = sequence.ErrEmptyInput

// ErrDataFetch marks failures of the candidate source.
var ErrDataFetch = errors.New("failed to fetch candidate sequences")

// Filter and StructureFilter are the enzyme package's candidate predicates.
type (
	Filter          = enzyme.Filter
	StructureFilter = enzyme.StructureFilter
)

// CandidateSource supplies candidates for ranking. It must return at most
// limit records, in a stable order, with any tag and structure filter
// already applied. Implementations must be safe for concurrent reads.
type CandidateSource interface {
	Candidates(ctx context.Context, f Filter, limit int) ([]enzyme.Record, error)
}

// Config tunes an Engine. Zero values select the defaults.
type Config struct {
	DefaultMaxResults int
	MaxResultsCap     int
	DefaultTier       rank.Tier
	OverfetchFactor   int
	Workers           int
}

// Engine executes searches. It holds no per-request state and is safe for
// concurrent use.
type Engine struct {
	source CandidateSource
	cfg    Config
	logger *zap.SugaredLogger
}

// NewEngine creates an engine over source.
func NewEngine(source CandidateSource, cfg Config, log *zap.SugaredLogger) *Engine {
	if cfg.DefaultMaxResults <= 0 {
		cfg.DefaultMaxResults = DefaultMaxResults
	}
	if cfg.MaxResultsCap <= 0 {
		cfg.MaxResultsCap = DefaultMaxResultsCap
	}
	if cfg.DefaultMaxResults > cfg.MaxResultsCap {
		cfg.DefaultMaxResults = cfg.MaxResultsCap
	}
	if cfg.DefaultTier == "" {
		cfg.DefaultTier = rank.DefaultTier
	}
	if cfg.OverfetchFactor <= 0 {
		cfg.OverfetchFactor = DefaultOverfetchFactor
	}
	if log == nil {
		log = logger.ComponentLogger("search")
	}
	return &Engine{source: source, cfg: cfg, logger: log}
}

// Search validates req, fetches candidates and returns ranked matches.
// No partial response is returned alongside an error.
func (e *Engine) Search(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	if strings.TrimSpace(req.Sequence) == "" {
		return nil, errors.WithHint(ErrEmptyInput, "please provide a protein sequence")
	}

	query, err := sequence.Normalize(req.Sequence)
	if err != nil {
		return nil, err
	}

	params := e.resolve(req)
	limit := params.maxResults * e.cfg.OverfetchFactor

	candidates, err := e.source.Candidates(ctx, params.filter, limit)
	if err != nil {
		e.log(ctx).Warnw("Candidate fetch failed",
			logger.FieldTagFilter, params.filter.Tag,
			logger.FieldStructure, params.filter.Structure,
			logger.FieldError, err)
		return nil, errors.Mark(errors.Wrapf(err, "fetch of %d candidates", limit), ErrDataFetch)
	}

	matches := rank.Rank(query.String(), candidates, rank.Options{
		Tier:       params.tier,
		MaxResults: params.maxResults,
		Workers:    e.cfg.Workers,
	})

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "search abandoned")
	}

	e.log(ctx).Debugw("Search complete",
		logger.FieldQueryLength, query.Len(),
		logger.FieldThreshold, params.tier,
		logger.FieldTagFilter, params.filter.Tag,
		logger.FieldStructure, params.filter.Structure,
		logger.FieldMaxResults, params.maxResults,
		logger.FieldCandidates, len(candidates),
		logger.FieldMatches, len(matches),
		logger.FieldDurationMS, time.Since(start).Milliseconds())

	return &Response{
		Success:    true,
		Results:    matches,
		TotalCount: len(matches),
		SearchInfo: SearchInfo{
			SequenceLength:  query.Len(),
			Threshold:       params.tier,
			MaxResults:      params.maxResults,
			TagFilter:       params.tagEcho,
			StructureFilter: params.filter.Structure,
		},
	}, nil
}

type resolved struct {
	maxResults int
	tier       rank.Tier
	filter     Filter
	tagEcho    string
}

// resolve applies defaults and lenient normalization to request parameters.
// Unknown tiers and structure filters fall back to defaults rather than failing.
func (e *Engine) resolve(req Request) resolved {
	p := resolved{maxResults: req.MaxResults}
	if p.maxResults <= 0 {
		p.maxResults = e.cfg.DefaultMaxResults
	}
	if p.maxResults > e.cfg.MaxResultsCap {
		p.maxResults = e.cfg.MaxResultsCap
	}

	if strings.TrimSpace(req.Threshold) == "" {
		p.tier = e.cfg.DefaultTier
	} else {
		p.tier = rank.ParseTier(req.Threshold)
	}

	tag := strings.TrimSpace(req.tagFilter())
	p.filter = Filter{Tag: tag, Structure: enzyme.ParseStructureFilter(req.StructureFilter)}
	if p.filter.AnyTag() {
		p.filter.Tag = enzyme.TagAll
	}
	p.tagEcho = p.filter.Tag

	return p
}

func (e *Engine) log(ctx context.Context) *zap.SugaredLogger {
	if fields := logger.FieldsFromContext(ctx); len(fields) > 0 {
		return e.logger.With(fields...)
	}
	return e.logger
}
