// Package catalog provides the vehicle catalog collaborator: distinct facet
// vocabulary reads and predicate-filtered candidate queries annotated with
// listing popularity. The matching engine consumes it through the Catalog
// interface; the concrete store is backed by Neo4j.
package catalog

import (
	"context"

	"github.com/RedlineAI/redline/engine/domain"
)

// RankedVehicle is a catalog record annotated with its listing count.
// The count is computed by the query, never stored on the record.
type RankedVehicle struct {
	Vehicle      domain.Vehicle `json:"vehicle"`
	ListingCount int64          `json:"listing_count"`
}

// Catalog is the collaborator contract consumed by the matching engine.
//
// DistinctValues returns the live vocabulary for a facet, optionally narrowed
// by predicates on other facets. FindBest returns every vehicle satisfying the
// conjunction of predicates, each with its listing count, ordered by listing
// count descending.
type Catalog interface {
	DistinctValues(ctx context.Context, facet domain.Facet, filters []Predicate) ([]string, error)
	FindBest(ctx context.Context, preds []Predicate) ([]RankedVehicle, error)
}
