package catalog

import (
	"fmt"
	"strings"

	"github.com/RedlineAI/redline/engine/domain"
)

// Op is a predicate comparison operator.
type Op int

const (
	// OpEq matches when the facet value equals the predicate value,
	// case-insensitively.
	OpEq Op = iota
	// OpContains matches when the facet value contains the predicate value,
	// case-insensitively. Used for pattern groups whose canonical value only
	// partially names the catalog value (e.g. "hybrid" vs "hybrid-petrol").
	OpContains
	// OpIn matches when the facet value equals any of the predicate values,
	// case-insensitively.
	OpIn
)

func (o Op) String() string {
	switch o {
	case OpEq:
		return "eq"
	case OpContains:
		return "contains"
	case OpIn:
		return "in"
	default:
		return "unknown"
	}
}

// Predicate is one facet constraint in a conjunctive filter. Predicates are
// consumed structurally by the store: values are always bound as query
// parameters, never concatenated into query text.
type Predicate struct {
	Facet  domain.Facet
	Op     Op
	Values []string
}

// Eq builds an equality predicate.
func Eq(f domain.Facet, value string) Predicate {
	return Predicate{Facet: f, Op: OpEq, Values: []string{value}}
}

// Contains builds a partial-match predicate.
func Contains(f domain.Facet, value string) Predicate {
	return Predicate{Facet: f, Op: OpContains, Values: []string{value}}
}

// In builds a set-membership predicate.
func In(f domain.Facet, values ...string) Predicate {
	return Predicate{Facet: f, Op: OpIn, Values: values}
}

// Matches reports whether a vehicle satisfies the predicate. This mirrors the
// store-side comparison semantics and is used by the resolver when re-ranking.
func (p Predicate) Matches(v domain.Vehicle) bool {
	have := strings.ToLower(v.FacetValue(p.Facet))
	switch p.Op {
	case OpEq:
		return len(p.Values) == 1 && have == strings.ToLower(p.Values[0])
	case OpContains:
		return len(p.Values) == 1 && strings.Contains(have, strings.ToLower(p.Values[0]))
	case OpIn:
		for _, want := range p.Values {
			if have == strings.ToLower(want) {
				return true
			}
		}
	}
	return false
}

func (p Predicate) String() string {
	return fmt.Sprintf("%s %s %s", p.Facet, p.Op, strings.Join(p.Values, "|"))
}

// validatePredicates rejects predicates on unknown facets or with no values.
func validatePredicates(preds []Predicate) error {
	for _, p := range preds {
		if !domain.ValidFacets[p.Facet] {
			return fmt.Errorf("catalog: %w: %q", domain.ErrInvalidFacet, p.Facet)
		}
		if len(p.Values) == 0 {
			return fmt.Errorf("catalog: predicate on %q has no values", p.Facet)
		}
	}
	return nil
}
