package match

import (
	"math"

	"github.com/RedlineAI/redline/engine/domain"
)

// Policy selects how confirmed facets are folded into a confidence score.
type Policy int

const (
	// PolicyWeighted scores by the weight ratio of confirmed facets with
	// combination bonuses. This is the default.
	PolicyWeighted Policy = iota
	// PolicyTiered maps facet combinations directly onto the 1..5 scale.
	PolicyTiered
)

func (p Policy) String() string {
	switch p {
	case PolicyWeighted:
		return "weighted"
	case PolicyTiered:
		return "tiered"
	default:
		return "unknown"
	}
}

// Scorer converts a set of confirmed facets into a confidence score from 1
// to 5. A score of 1 is reserved for "no signal at all"; any confirmed facet
// yields at least 2.
type Scorer struct {
	policy Policy
	tables Tables
}

func NewScorer(policy Policy, tables Tables) *Scorer {
	if tables.Weights == nil {
		tables = DefaultTables()
	}
	return &Scorer{policy: policy, tables: tables}
}

// Score computes the confidence for the given confirmed facets. The attempted
// set is always the full facet list, so the weighted denominator is the total
// weight of every facet.
func (s *Scorer) Score(confirmed []domain.Facet) int {
	if len(confirmed) == 0 {
		return 1
	}
	switch s.policy {
	case PolicyTiered:
		return s.tiered(confirmed)
	default:
		return s.weighted(confirmed)
	}
}

func (s *Scorer) weighted(confirmed []domain.Facet) int {
	have := facetSet(confirmed)
	confirmedWeight := 0
	for f := range have {
		confirmedWeight += s.tables.Weights[f]
	}
	total := s.tables.totalWeight(domain.Facets)
	if total == 0 {
		return 1
	}

	ratio := float64(confirmedWeight) / float64(total)
	score := int(math.Round(ratio*4)) + 1
	if score < 2 {
		score = 2
	}

	n := len(have)
	if n >= 3 || (have[domain.FacetModel] && have[domain.FacetBadge]) {
		score++
	}
	if have[domain.FacetMake] && have[domain.FacetModel] && n >= 3 {
		score++
	}
	if score > 5 {
		score = 5
	}
	return score
}

func (s *Scorer) tiered(confirmed []domain.Facet) int {
	have := facetSet(confirmed)
	n := len(have)
	switch {
	case n == 1:
		return 2
	case have[domain.FacetMake] && have[domain.FacetModel] && n >= 3:
		return 5
	case n >= 2 && (have[domain.FacetMake] || have[domain.FacetModel]):
		return 4
	default:
		return 3
	}
}

func facetSet(facets []domain.Facet) map[domain.Facet]bool {
	set := make(map[domain.Facet]bool, len(facets))
	for _, f := range facets {
		set[f] = true
	}
	return set
}
