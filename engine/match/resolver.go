package match

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/RedlineAI/redline/engine/catalog"
	"github.com/RedlineAI/redline/engine/domain"
	"github.com/RedlineAI/redline/pkg/fn"
)

// Query is the resolver input: facet values confirmed by extraction, which of
// them were matched loosely, and any fuzzy-fallback candidate sets.
type Query struct {
	Exact map[domain.Facet]string
	Loose map[domain.Facet]bool
	Fuzzy map[domain.Facet][]string
}

// Facets returns every confirmed facet in precedence order.
func (q Query) Facets() []domain.Facet {
	var out []domain.Facet
	for _, f := range domain.Facets {
		if q.Exact[f] != "" || len(q.Fuzzy[f]) > 0 {
			out = append(out, f)
		}
	}
	return out
}

// TooGeneric reports whether the query carries too little signal to resolve:
// fewer than two confirmed facets and no make. Such queries would rank whole
// swathes of the catalog on listing volume alone.
func (q Query) TooGeneric() bool {
	facets := q.Facets()
	if len(facets) >= 2 {
		return false
	}
	return !fn.Contains(facets, domain.FacetMake)
}

// Resolver turns a confirmed query into the single best catalog vehicle.
type Resolver struct {
	cat    catalog.Catalog
	tables Tables
	policy Policy
	logger *slog.Logger
}

func NewResolver(cat catalog.Catalog, tables Tables, policy Policy, logger *slog.Logger) *Resolver {
	if tables.Weights == nil {
		tables = DefaultTables()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{cat: cat, tables: tables, policy: policy, logger: logger}
}

// Predicates compiles the query into conjunctive catalog predicates in facet
// precedence order. Loosely-matched facets become containment predicates,
// fuzzy candidate sets become IN predicates.
func (r *Resolver) Predicates(q Query) []catalog.Predicate {
	var preds []catalog.Predicate
	for _, f := range domain.Facets {
		switch {
		case q.Exact[f] != "":
			if q.Loose[f] {
				preds = append(preds, catalog.Contains(f, q.Exact[f]))
			} else {
				preds = append(preds, catalog.Eq(f, q.Exact[f]))
			}
		case len(q.Fuzzy[f]) == 1:
			preds = append(preds, catalog.Eq(f, q.Fuzzy[f][0]))
		case len(q.Fuzzy[f]) > 1:
			preds = append(preds, catalog.In(f, q.Fuzzy[f]...))
		}
	}
	return preds
}

// Resolve finds the best matching vehicle for the query, or nil when the
// query is empty, too generic, or matches no catalog record. Candidates are
// ranked here by listing count regardless of the order the catalog returned
// them; under the weighted policy, facet quality ranks first and listing
// count breaks ties. Ties after both keys keep the earliest candidate.
func (r *Resolver) Resolve(ctx context.Context, q Query) (*catalog.RankedVehicle, error) {
	facets := q.Facets()
	if len(facets) == 0 {
		return nil, nil
	}
	if q.TooGeneric() {
		r.logger.Info("query too generic, skipping resolution", "facets", len(facets))
		return nil, nil
	}

	preds := r.Predicates(q)
	candidates, err := r.cat.FindBest(ctx, preds)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	// The store's row order is not trusted. Stable sort keeps catalog
	// iteration order among equal listing counts.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ListingCount > candidates[j].ListingCount
	})
	if r.policy == PolicyTiered {
		return &candidates[0], nil
	}

	best := 0
	bestQuality := r.quality(preds, candidates[0].Vehicle)
	for i := 1; i < len(candidates); i++ {
		if qy := r.quality(preds, candidates[i].Vehicle); qy > bestQuality {
			best, bestQuality = i, qy
		}
	}
	return &candidates[best], nil
}

// quality is the weight of confirmed facets whose value equals the vehicle's
// own, over the combined weight of every facet. Loosely and fuzzily matched
// facets count only on an exact value hit, so a candidate carrying precisely
// the confirmed value outranks one whose value merely contains it.
func (r *Resolver) quality(preds []catalog.Predicate, v domain.Vehicle) float64 {
	matched := 0
	for _, p := range preds {
		val := v.FacetValue(p.Facet)
		if val == "" {
			continue
		}
		if fn.Contains(fn.Map(p.Values, strings.ToLower), strings.ToLower(val)) {
			matched += r.tables.Weights[p.Facet]
		}
	}
	return float64(matched) / float64(r.tables.totalWeight(domain.Facets))
}
