package match

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"github.com/RedlineAI/redline/engine/catalog"
	"github.com/RedlineAI/redline/engine/domain"
	"github.com/RedlineAI/redline/pkg/fn"
)

// FuzzyResult holds the top-scoring facet values for one fuzzy match. A nil
// *FuzzyResult means the facet had no vocabulary at all ("no data"), which is
// distinct from an empty Values slice ("no candidate overlapped the input").
type FuzzyResult struct {
	Values []string
	Score  float64
}

// FuzzyMatcher scores every known facet value against the input by word
// overlap. It is the fallback extraction strategy for facets where exact and
// alias matching found nothing.
type FuzzyMatcher struct {
	cat       catalog.Catalog
	corrected bool
	logger    *slog.Logger
}

// NewFuzzyMatcher creates a FuzzyMatcher. corrected selects the two-pass
// scoring described on MatchFacet.
func NewFuzzyMatcher(cat catalog.Catalog, corrected bool, logger *slog.Logger) *FuzzyMatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &FuzzyMatcher{cat: cat, corrected: corrected, logger: logger}
}

// MatchFacet scores the live vocabulary of a facet against the input text,
// narrowed by any already-confirmed filters on other facets.
//
// Each candidate value is split into words on whitespace and hyphen; a word
// matches when it occurs anywhere in the input (containment, deliberately
// looser than the extractor's whole-word scan). Candidates with no matching
// word are skipped. A candidate's score is
//
//	(total - missing*1.1) / maxWordsSoFar
//
// where maxWordsSoFar is a running maximum of candidate word counts at the
// time the score is computed. The running maximum makes scores depend on
// candidate order; this historical behavior is kept as the default for
// compatibility. With corrected=true the true maximum over all candidates is
// computed first, making scores order-independent.
//
// Returns (nil, nil) when the facet has no vocabulary rows; the condition is
// logged and never aborts the overall match.
func (m *FuzzyMatcher) MatchFacet(ctx context.Context, input string, facet domain.Facet, filters []catalog.Predicate) (*FuzzyResult, error) {
	values, err := m.cat.DistinctValues(ctx, facet, filters)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		m.logger.Warn("no vocabulary for facet", "facet", facet)
		return nil, nil
	}

	inputLower := strings.ToLower(input)

	type candidate struct {
		value          string
		total, missing int
		maxAt          int // running maximum when this candidate was scored
	}
	var cands []candidate
	runningMax, trueMax := 0, 0

	for _, value := range values {
		words := splitWords(strings.ToLower(value))
		matching := len(fn.Filter(words, func(w string) bool {
			return strings.Contains(inputLower, w)
		}))
		if matching == 0 {
			continue
		}
		total := len(words)
		if total > runningMax {
			runningMax = total
		}
		if total > trueMax {
			trueMax = total
		}
		cands = append(cands, candidate{value: value, total: total, missing: total - matching, maxAt: runningMax})
	}

	if len(cands) == 0 {
		return &FuzzyResult{Values: []string{}, Score: 0}, nil
	}

	scores := make([]float64, len(cands))
	top := 0.0
	for i, c := range cands {
		denom := c.maxAt
		if m.corrected {
			denom = trueMax
		}
		scores[i] = (float64(c.total) - float64(c.missing)*1.1) / float64(denom)
		if i == 0 || scores[i] > top {
			top = scores[i]
		}
	}

	result := &FuzzyResult{Score: top}
	for i, c := range cands {
		if scores[i] >= top {
			result.Values = append(result.Values, c.value)
		}
	}
	return result, nil
}

// splitWords splits a facet value into words on whitespace and hyphen.
func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-'
	})
}
