package match

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/RedlineAI/redline/engine/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFuzzyFullOverlapScoresOne(t *testing.T) {
	cat := &vocabCatalog{values: []string{
		"Four Wheel Drive", "Front Wheel Drive", "Rear Wheel Drive",
	}}
	m := NewFuzzyMatcher(cat, false, nil)

	res, err := m.MatchFacet(context.Background(), "four wheel drive SUV wanted", domain.FacetDriveType, nil)
	if err != nil {
		t.Fatalf("MatchFacet: %v", err)
	}
	if res == nil {
		t.Fatal("got nil result for populated vocabulary")
	}
	if !almostEqual(res.Score, 1.0) {
		t.Errorf("Score = %v, want 1.0", res.Score)
	}
	if !reflect.DeepEqual(res.Values, []string{"Four Wheel Drive"}) {
		t.Errorf("Values = %v, want [Four Wheel Drive]", res.Values)
	}
}

func TestFuzzyMissingWordsPenalty(t *testing.T) {
	cat := &vocabCatalog{values: []string{"Front Wheel Drive"}}
	m := NewFuzzyMatcher(cat, false, nil)

	// Two of three words match: (3 - 1*1.1) / 3.
	res, err := m.MatchFacet(context.Background(), "four wheel drive", domain.FacetDriveType, nil)
	if err != nil {
		t.Fatalf("MatchFacet: %v", err)
	}
	if want := (3 - 1.1) / 3; !almostEqual(res.Score, want) {
		t.Errorf("Score = %v, want %v", res.Score, want)
	}
}

// The running maximum makes legacy scores depend on vocabulary order: a long
// candidate seen first deflates every later score.
func TestFuzzyLegacyScoreIsOrderDependent(t *testing.T) {
	input := "alpha"
	forward := []string{"Alpha", "Alpha Beta Gamma"}
	reversed := []string{"Alpha Beta Gamma", "Alpha"}

	score := func(values []string) float64 {
		m := NewFuzzyMatcher(&vocabCatalog{values: values}, false, nil)
		res, err := m.MatchFacet(context.Background(), input, domain.FacetModel, nil)
		if err != nil {
			t.Fatalf("MatchFacet: %v", err)
		}
		return res.Score
	}

	if fwd, rev := score(forward), score(reversed); almostEqual(fwd, rev) {
		t.Errorf("legacy scores identical across orders (%v); running maximum lost", fwd)
	}
	if got := score(forward); !almostEqual(got, 1.0) {
		t.Errorf("forward top score = %v, want 1.0", got)
	}
	if got := score(reversed); !almostEqual(got, 1.0/3) {
		t.Errorf("reversed top score = %v, want 1/3", got)
	}
}

func TestFuzzyCorrectedScoreIsOrderIndependent(t *testing.T) {
	input := "alpha"
	orders := [][]string{
		{"Alpha", "Alpha Beta Gamma"},
		{"Alpha Beta Gamma", "Alpha"},
	}

	var scores []float64
	for _, values := range orders {
		m := NewFuzzyMatcher(&vocabCatalog{values: values}, true, nil)
		res, err := m.MatchFacet(context.Background(), input, domain.FacetModel, nil)
		if err != nil {
			t.Fatalf("MatchFacet: %v", err)
		}
		if !reflect.DeepEqual(res.Values, []string{"Alpha"}) {
			t.Errorf("Values = %v, want [Alpha]", res.Values)
		}
		scores = append(scores, res.Score)
	}
	if !almostEqual(scores[0], scores[1]) {
		t.Errorf("corrected scores differ across orders: %v vs %v", scores[0], scores[1])
	}
}

func TestFuzzyTiesAreAllReturned(t *testing.T) {
	cat := &vocabCatalog{values: []string{"Petrol", "Diesel", "Petrol Turbo"}}
	m := NewFuzzyMatcher(cat, false, nil)

	res, err := m.MatchFacet(context.Background(), "petrol or diesel", domain.FacetFuelType, nil)
	if err != nil {
		t.Fatalf("MatchFacet: %v", err)
	}
	if !reflect.DeepEqual(res.Values, []string{"Petrol", "Diesel"}) {
		t.Errorf("Values = %v, want both single-word hits", res.Values)
	}
}

func TestFuzzyEmptyVocabularyIsNilResult(t *testing.T) {
	m := NewFuzzyMatcher(&vocabCatalog{}, false, nil)
	res, err := m.MatchFacet(context.Background(), "anything at all", domain.FacetBadge, nil)
	if err != nil {
		t.Fatalf("MatchFacet: %v", err)
	}
	if res != nil {
		t.Fatalf("res = %+v, want nil for empty vocabulary", res)
	}
}

func TestFuzzyNoOverlapIsEmptyResult(t *testing.T) {
	m := NewFuzzyMatcher(&vocabCatalog{values: []string{"Petrol", "Diesel"}}, false, nil)
	res, err := m.MatchFacet(context.Background(), "zzz", domain.FacetFuelType, nil)
	if err != nil {
		t.Fatalf("MatchFacet: %v", err)
	}
	if res == nil || len(res.Values) != 0 {
		t.Fatalf("res = %+v, want empty non-nil result", res)
	}
}

func TestFuzzyCatalogError(t *testing.T) {
	boom := errors.New("database offline")
	m := NewFuzzyMatcher(&vocabCatalog{err: boom}, false, nil)
	_, err := m.MatchFacet(context.Background(), "golf", domain.FacetModel, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}
