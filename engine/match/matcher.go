package match

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/RedlineAI/redline/engine/catalog"
	"github.com/RedlineAI/redline/engine/domain"
	"github.com/RedlineAI/redline/pkg/fn"
	"github.com/RedlineAI/redline/pkg/metrics"
)

// Options configures a Matcher. The zero value is usable; DefaultOptions
// fills in the recommended settings.
type Options struct {
	// Policy selects the confidence scoring policy. Fixed for the
	// lifetime of the Matcher.
	Policy Policy
	// FuzzyFallback enables word-overlap matching for facets the
	// whole-word scan missed.
	FuzzyFallback bool
	// CorrectedFuzzy switches fuzzy scoring to the order-independent
	// variant. Off by default to preserve historical rankings.
	CorrectedFuzzy bool
	// Workers bounds batch concurrency.
	Workers int
}

func DefaultOptions() Options {
	return Options{
		Policy:        PolicyWeighted,
		FuzzyFallback: true,
		Workers:       4,
	}
}

// Result is the outcome of matching one description. Vehicle is nil when no
// catalog record matched; Score is then 1.
type Result struct {
	Vehicle  *domain.Vehicle `json:"vehicle,omitempty"`
	Score    int             `json:"score"`
	Listings int64           `json:"listings,omitempty"`
}

// Matcher resolves free-text vehicle descriptions against the catalog.
type Matcher struct {
	cat       catalog.Catalog
	tables    Tables
	opts      Options
	extractor *Extractor
	fuzzy     *FuzzyMatcher
	resolver  *Resolver
	scorer    *Scorer
	logger    *slog.Logger

	requests  *metrics.Counter
	rejected  *metrics.Counter
	unmatched *metrics.Counter
	duration  *metrics.Histogram
}

func New(cat catalog.Catalog, tables Tables, opts Options, logger *slog.Logger) *Matcher {
	if tables.Weights == nil {
		tables = DefaultTables()
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultOptions().Workers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{
		cat:       cat,
		tables:    tables,
		opts:      opts,
		extractor: NewExtractor(tables),
		fuzzy:     NewFuzzyMatcher(cat, opts.CorrectedFuzzy, logger),
		resolver:  NewResolver(cat, tables, opts.Policy, logger),
		scorer:    NewScorer(opts.Policy, tables),
		logger:    logger,
	}
}

// WithMetrics registers match counters and a latency histogram on reg.
func (m *Matcher) WithMetrics(reg *metrics.Registry) *Matcher {
	m.requests = reg.Counter("match_requests_total", "Descriptions matched")
	m.rejected = reg.Counter("match_rejected_total", "Descriptions naming excluded makes or models")
	m.unmatched = reg.Counter("match_unmatched_total", "Descriptions with no catalog match")
	m.duration = reg.Histogram("match_duration_seconds", "Match latency", nil)
	return m
}

// Match resolves one description. Validation errors are returned to the
// caller; catalog errors abort the match. A description naming an excluded
// make or model short-circuits to score 1 before any catalog access.
func (m *Matcher) Match(ctx context.Context, description string) (Result, error) {
	start := time.Now()
	if m.requests != nil {
		m.requests.Inc()
		defer m.duration.Since(start)
	}

	if err := domain.ValidateDescription(description); err != nil {
		return Result{}, err
	}

	// The exclusion scan is static, so it works with no vocabulary and must
	// run before the catalog round trips.
	if ext := m.extractor.Extract(description, nil); ext.Rejected {
		if m.rejected != nil {
			m.rejected.Inc()
		}
		m.logger.Info("description names excluded term",
			"term", ext.RejectTerm, "facet", ext.RejectFacet)
		return Result{Score: 1}, nil
	}

	vocabRes := fn.FanOutResult(
		func() fn.Result[[]string] {
			return fn.FromPair(m.cat.DistinctValues(ctx, domain.FacetMake, nil))
		},
		func() fn.Result[[]string] {
			return fn.FromPair(m.cat.DistinctValues(ctx, domain.FacetModel, nil))
		},
	)
	vocabs, err := vocabRes.Unwrap()
	if err != nil {
		return Result{}, fmt.Errorf("load vocabulary: %w", err)
	}
	vocab := map[domain.Facet][]string{
		domain.FacetMake:  vocabs[0],
		domain.FacetModel: vocabs[1],
	}

	ext := m.extractor.Extract(description, vocab)
	q := Query{Exact: ext.Values, Loose: ext.Loose, Fuzzy: map[domain.Facet][]string{}}

	if m.opts.FuzzyFallback {
		if err := m.fuzzyFill(ctx, description, &q); err != nil {
			return Result{}, err
		}
	}

	ranked, err := m.resolver.Resolve(ctx, q)
	if err != nil {
		return Result{}, fmt.Errorf("resolve: %w", err)
	}
	if ranked == nil {
		if m.unmatched != nil {
			m.unmatched.Inc()
		}
		m.logger.Info("no match", "facets", len(q.Facets()), "elapsed", time.Since(start))
		return Result{Score: 1}, nil
	}

	score := m.scorer.Score(q.Facets())
	m.logger.Info("matched",
		"vehicle", ranked.Vehicle.ID,
		"score", score,
		"listings", ranked.ListingCount,
		"elapsed", time.Since(start))
	v := ranked.Vehicle
	return Result{Vehicle: &v, Score: score, Listings: ranked.ListingCount}, nil
}

// fuzzyFill attempts fuzzy matching for every facet the whole-word scan
// missed, in precedence order. Each confirmed facet narrows the vocabulary
// for the next one.
func (m *Matcher) fuzzyFill(ctx context.Context, description string, q *Query) error {
	for _, f := range domain.Facets {
		if q.Exact[f] != "" {
			continue
		}
		res, err := m.fuzzy.MatchFacet(ctx, description, f, m.resolver.Predicates(*q))
		if err != nil {
			return fmt.Errorf("fuzzy match %s: %w", f, err)
		}
		if res == nil || len(res.Values) == 0 {
			continue
		}
		q.Fuzzy[f] = res.Values
		m.logger.Debug("fuzzy matched facet",
			"facet", f, "candidates", len(res.Values), "score", res.Score)
	}
	return nil
}

// MatchBatch matches descriptions concurrently with bounded workers,
// preserving input order. Each element carries its own result or error.
func (m *Matcher) MatchBatch(ctx context.Context, descriptions []string) []fn.Result[Result] {
	return fn.ParMapResult(descriptions, m.opts.Workers, func(d string) fn.Result[Result] {
		return fn.FromPair(m.Match(ctx, d))
	})
}
