// Package match implements the attribute-driven vehicle matching engine:
// extracting catalog attributes from free text, fuzzy per-facet scoring,
// confidence scoring, and candidate resolution against the catalog.
package match

import "github.com/RedlineAI/redline/engine/domain"

// PatternGroup maps a canonical facet value to its surface synonyms. Loose
// marks canonical values that only partially name the catalog value and must
// be filtered with contains semantics (e.g. "hybrid" vs "hybrid-petrol").
type PatternGroup struct {
	Canonical string
	Synonyms  []string
	Loose     bool
}

// Tables holds the static lookup tables driving extraction and scoring.
// Constructed once at process start and shared read-only across concurrent
// match requests.
type Tables struct {
	// MakeAliases and ModelAliases map informal terms to canonical values.
	// An alias hit counts only if its target is in the live vocabulary.
	MakeAliases  map[string]string
	ModelAliases map[string]string

	// UnknownMakes and UnknownModels are values known to never appear in the
	// catalog. A whole-word hit on either is a hard reject that overrides any
	// positive signal.
	UnknownMakes  []string
	UnknownModels []string

	// BadgePatterns is the ordered badge token list; first whole-word hit wins.
	BadgePatterns []string

	// Pattern groups for the curated facets, in fixed precedence order.
	FuelPatterns         []PatternGroup
	TransmissionPatterns []PatternGroup
	DrivePatterns        []PatternGroup

	// Weights are the static per-facet importance weights used by the
	// confidence scorer and weighted ranking.
	Weights map[domain.Facet]int
}

// DefaultTables returns the curated production tables.
func DefaultTables() Tables {
	return Tables{
		MakeAliases: map[string]string{
			"vw": "volkswagen",
		},
		ModelAliases: map[string]string{
			"rav 4": "rav4",
		},
		UnknownMakes: []string{
			"honda", "ford", "bmw", "mazda", "hyundai",
			"kia", "nissan", "subaru", "mercedes", "lexus",
		},
		UnknownModels: []string{
			"polo", "corolla", "accord", "mustang", "civic", "hilux",
		},
		BadgePatterns: []string{
			"r", "gti", "110tsi", "132tsi", "162tsi", "tdi550", "tdi580",
			"highline", "comfortline", "trendline", "alltrack",
			"gx", "gxl", "cruiser", "edge", "gts", "grande",
		},
		FuelPatterns: []PatternGroup{
			{Canonical: "petrol", Synonyms: []string{"petrol", "gasoline", "gas"}},
			{Canonical: "diesel", Synonyms: []string{"diesel"}},
			{Canonical: "hybrid-petrol", Synonyms: []string{"hybrid"}, Loose: true},
			{Canonical: "electric", Synonyms: []string{"electric"}},
		},
		TransmissionPatterns: []PatternGroup{
			{Canonical: "automatic", Synonyms: []string{"automatic", "auto"}},
			{Canonical: "manual", Synonyms: []string{"manual", "stick", "stick shift"}},
		},
		DrivePatterns: []PatternGroup{
			{Canonical: "four wheel drive", Synonyms: []string{"four wheel drive", "4wd", "4x4", "all wheel drive", "awd"}},
			{Canonical: "front wheel drive", Synonyms: []string{"front wheel drive", "fwd"}},
			{Canonical: "rear wheel drive", Synonyms: []string{"rear wheel drive", "rwd"}},
		},
		Weights: map[domain.Facet]int{
			domain.FacetMake:             3,
			domain.FacetModel:            3,
			domain.FacetBadge:            2,
			domain.FacetFuelType:         2,
			domain.FacetTransmissionType: 1,
			domain.FacetDriveType:        1,
		},
	}
}

// patternsFor returns the pattern groups for a curated facet, or nil.
func (t Tables) patternsFor(f domain.Facet) []PatternGroup {
	switch f {
	case domain.FacetFuelType:
		return t.FuelPatterns
	case domain.FacetTransmissionType:
		return t.TransmissionPatterns
	case domain.FacetDriveType:
		return t.DrivePatterns
	}
	return nil
}

// totalWeight sums the weights of the given facets.
func (t Tables) totalWeight(facets []domain.Facet) int {
	total := 0
	for _, f := range facets {
		total += t.Weights[f]
	}
	return total
}
