package catalog

import (
	"errors"
	"testing"

	"github.com/RedlineAI/redline/engine/domain"
)

func TestPredicateMatches(t *testing.T) {
	v := domain.Vehicle{
		Make: "Volkswagen", Model: "Golf", Badge: "Alltrack 132TSI",
		FuelType: "Hybrid-Petrol", TransmissionType: "Automatic", DriveType: "Four Wheel Drive",
	}

	tests := []struct {
		name string
		pred Predicate
		want bool
	}{
		{"eq case-insensitive", Eq(domain.FacetMake, "volkswagen"), true},
		{"eq mismatch", Eq(domain.FacetMake, "toyota"), false},
		{"eq no partial", Eq(domain.FacetBadge, "132tsi"), false},
		{"contains partial badge", Contains(domain.FacetBadge, "132tsi"), true},
		{"contains partial fuel", Contains(domain.FacetFuelType, "hybrid"), true},
		{"contains mismatch", Contains(domain.FacetBadge, "gti"), false},
		{"in hit", In(domain.FacetModel, "Tiguan", "golf"), true},
		{"in miss", In(domain.FacetModel, "Tiguan", "Polo"), false},
		{"empty facet value", Eq(domain.FacetBadge, ""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pred.Matches(v); got != tt.want {
				t.Errorf("%s.Matches = %v, want %v", tt.pred, got, tt.want)
			}
		})
	}
}

func TestPredicateMatchesEmptyValue(t *testing.T) {
	// A vehicle without a badge still "contains" the empty string; the
	// builders never produce empty values, validatePredicates guards the rest.
	v := domain.Vehicle{Make: "Toyota", Model: "Camry"}
	if Eq(domain.FacetBadge, "gx").Matches(v) {
		t.Error("Eq on empty facet value matched")
	}
}

func TestValidatePredicates(t *testing.T) {
	if err := validatePredicates([]Predicate{Eq(domain.FacetMake, "toyota")}); err != nil {
		t.Fatalf("valid predicates rejected: %v", err)
	}
	err := validatePredicates([]Predicate{Eq(domain.Facet("color"), "red")})
	if !errors.Is(err, domain.ErrInvalidFacet) {
		t.Fatalf("unknown facet error = %v, want ErrInvalidFacet", err)
	}
	if err := validatePredicates([]Predicate{{Facet: domain.FacetMake, Op: OpIn}}); err == nil {
		t.Fatal("predicate with no values accepted")
	}
}
