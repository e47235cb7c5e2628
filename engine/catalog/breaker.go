package catalog

import (
	"context"

	"github.com/RedlineAI/redline/engine/domain"
	"github.com/RedlineAI/redline/pkg/resilience"
)

// BreakerCatalog wraps a Catalog with a circuit breaker so a failing store
// fails fast instead of stalling every match request.
type BreakerCatalog struct {
	inner   Catalog
	breaker *resilience.Breaker
}

// WithBreaker wraps a catalog in a circuit breaker.
func WithBreaker(inner Catalog, opts resilience.BreakerOpts) *BreakerCatalog {
	return &BreakerCatalog{inner: inner, breaker: resilience.NewBreaker(opts)}
}

// State exposes the breaker state for health reporting.
func (c *BreakerCatalog) State() resilience.State {
	return c.breaker.State()
}

func (c *BreakerCatalog) DistinctValues(ctx context.Context, facet domain.Facet, filters []Predicate) ([]string, error) {
	var values []string
	err := c.breaker.Call(ctx, func(ctx context.Context) error {
		var err error
		values, err = c.inner.DistinctValues(ctx, facet, filters)
		return err
	})
	return values, err
}

func (c *BreakerCatalog) FindBest(ctx context.Context, preds []Predicate) ([]RankedVehicle, error) {
	var ranked []RankedVehicle
	err := c.breaker.Call(ctx, func(ctx context.Context) error {
		var err error
		ranked, err = c.inner.FindBest(ctx, preds)
		return err
	})
	return ranked, err
}
