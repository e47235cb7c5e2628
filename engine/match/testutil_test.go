package match

import (
	"context"
	"sort"

	"github.com/RedlineAI/redline/engine/catalog"
	"github.com/RedlineAI/redline/engine/domain"
)

// fakeCatalog is an in-memory catalog over the sample dataset. It mirrors the
// store's comparison semantics via Predicate.Matches.
type fakeCatalog struct {
	vehicles []catalog.RankedVehicle

	distinctCalls int
	findCalls     int
	err           error
}

func newFakeCatalog() *fakeCatalog {
	c := &fakeCatalog{}
	for _, s := range catalog.SampleVehicles {
		c.vehicles = append(c.vehicles, catalog.RankedVehicle{
			Vehicle:      s.Vehicle,
			ListingCount: int64(s.Listings),
		})
	}
	sort.SliceStable(c.vehicles, func(i, j int) bool {
		return c.vehicles[i].ListingCount > c.vehicles[j].ListingCount
	})
	return c
}

func (c *fakeCatalog) DistinctValues(_ context.Context, facet domain.Facet, filters []catalog.Predicate) ([]string, error) {
	c.distinctCalls++
	if c.err != nil {
		return nil, c.err
	}
	seen := make(map[string]bool)
	var out []string
	for _, rv := range c.vehicles {
		if !matchesAll(rv.Vehicle, filters) {
			continue
		}
		if v := rv.Vehicle.FacetValue(facet); v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (c *fakeCatalog) FindBest(_ context.Context, preds []catalog.Predicate) ([]catalog.RankedVehicle, error) {
	c.findCalls++
	if c.err != nil {
		return nil, c.err
	}
	var out []catalog.RankedVehicle
	for _, rv := range c.vehicles {
		if matchesAll(rv.Vehicle, preds) {
			out = append(out, rv)
		}
	}
	return out, nil
}

func matchesAll(v domain.Vehicle, preds []catalog.Predicate) bool {
	for _, p := range preds {
		if !p.Matches(v) {
			return false
		}
	}
	return true
}

// vocabCatalog serves a fixed vocabulary for one facet. Used by fuzzy tests
// that need precise candidate ordering.
type vocabCatalog struct {
	values []string
	err    error
}

func (c *vocabCatalog) DistinctValues(context.Context, domain.Facet, []catalog.Predicate) ([]string, error) {
	return c.values, c.err
}

func (c *vocabCatalog) FindBest(context.Context, []catalog.Predicate) ([]catalog.RankedVehicle, error) {
	return nil, nil
}
