package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/RedlineAI/redline/engine/domain"
	"github.com/RedlineAI/redline/pkg/resilience"
)

type stubCatalog struct {
	values []string
	ranked []RankedVehicle
	err    error
	calls  int
}

func (s *stubCatalog) DistinctValues(context.Context, domain.Facet, []Predicate) ([]string, error) {
	s.calls++
	return s.values, s.err
}

func (s *stubCatalog) FindBest(context.Context, []Predicate) ([]RankedVehicle, error) {
	s.calls++
	return s.ranked, s.err
}

func TestBreakerCatalogPassesThrough(t *testing.T) {
	inner := &stubCatalog{
		values: []string{"Toyota"},
		ranked: []RankedVehicle{{Vehicle: domain.Vehicle{ID: "t1"}, ListingCount: 3}},
	}
	c := WithBreaker(inner, resilience.DefaultBreakerOpts)

	values, err := c.DistinctValues(context.Background(), domain.FacetMake, nil)
	if err != nil || len(values) != 1 || values[0] != "Toyota" {
		t.Fatalf("DistinctValues = %v, %v", values, err)
	}
	ranked, err := c.FindBest(context.Background(), nil)
	if err != nil || len(ranked) != 1 || ranked[0].Vehicle.ID != "t1" {
		t.Fatalf("FindBest = %v, %v", ranked, err)
	}
	if c.State() != resilience.StateClosed {
		t.Errorf("state = %v, want closed", c.State())
	}
}

func TestBreakerCatalogTrips(t *testing.T) {
	inner := &stubCatalog{err: errors.New("connection refused")}
	c := WithBreaker(inner, resilience.BreakerOpts{FailThreshold: 2, Timeout: time.Minute})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := c.DistinctValues(ctx, domain.FacetMake, nil); err == nil {
			t.Fatalf("call %d succeeded unexpectedly", i)
		}
	}
	if c.State() != resilience.StateOpen {
		t.Fatalf("state = %v, want open", c.State())
	}

	before := inner.calls
	if _, err := c.FindBest(ctx, nil); !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("err = %v, want ErrCircuitOpen", err)
	}
	if inner.calls != before {
		t.Error("open breaker still reached the inner catalog")
	}
}
