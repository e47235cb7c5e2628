package match

import (
	"sort"
	"strings"
	"unicode"

	"github.com/RedlineAI/redline/engine/domain"
)

// Extraction is the sparse facet assignment produced from one description.
type Extraction struct {
	// Values holds the detected canonical value per facet, 0–6 entries.
	Values map[domain.Facet]string
	// Loose marks facets whose value must be filtered with contains
	// semantics instead of equality.
	Loose map[domain.Facet]bool
	// Rejected is set when the text names a make or model known to be
	// absent from the catalog. It overrides every positive signal.
	Rejected    bool
	RejectTerm  string
	RejectFacet domain.Facet
}

// Confirmed returns the detected facets in precedence order.
func (e Extraction) Confirmed() []domain.Facet {
	var out []domain.Facet
	for _, f := range domain.Facets {
		if _, ok := e.Values[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Extractor detects catalog attributes in free text using the live facet
// vocabulary plus the static alias, exclusion, badge, and pattern tables.
type Extractor struct {
	tables Tables

	// sorted alias keys, so extraction is deterministic
	makeAliasKeys  []string
	modelAliasKeys []string
}

// NewExtractor creates an Extractor over the given tables.
func NewExtractor(tables Tables) *Extractor {
	e := &Extractor{tables: tables}
	for k := range tables.MakeAliases {
		e.makeAliasKeys = append(e.makeAliasKeys, k)
	}
	for k := range tables.ModelAliases {
		e.modelAliasKeys = append(e.modelAliasKeys, k)
	}
	sort.Strings(e.makeAliasKeys)
	sort.Strings(e.modelAliasKeys)
	return e
}

// Extract scans a description against the live vocabulary. vocab must carry
// the current catalog values for make and model; extraction for the remaining
// facets is table-driven.
func (e *Extractor) Extract(text string, vocab map[domain.Facet][]string) Extraction {
	ext := Extraction{
		Values: make(map[domain.Facet]string),
		Loose:  make(map[domain.Facet]bool),
	}
	input := strings.ToLower(text)

	// Known-absent makes and models are a stronger signal than any positive
	// hit elsewhere: check them first and short-circuit.
	for _, unknown := range e.tables.UnknownMakes {
		if containsWord(input, unknown) {
			ext.Rejected = true
			ext.RejectTerm = unknown
			ext.RejectFacet = domain.FacetMake
			return ext
		}
	}
	for _, unknown := range e.tables.UnknownModels {
		if containsWord(input, unknown) {
			ext.Rejected = true
			ext.RejectTerm = unknown
			ext.RejectFacet = domain.FacetModel
			return ext
		}
	}

	if v, ok := e.scanVocabulary(input, vocab[domain.FacetMake], e.makeAliasKeys, e.tables.MakeAliases); ok {
		ext.Values[domain.FacetMake] = v
	}
	if v, ok := e.scanVocabulary(input, vocab[domain.FacetModel], e.modelAliasKeys, e.tables.ModelAliases); ok {
		ext.Values[domain.FacetModel] = v
	}

	// Badge tokens come from the static list, not the live vocabulary, and a
	// token usually names only part of the catalog badge ("gti" vs "GTI",
	// "132tsi" vs "Alltrack 132TSI"), so badge filters use contains.
	for _, badge := range e.tables.BadgePatterns {
		if containsWord(input, badge) {
			ext.Values[domain.FacetBadge] = badge
			ext.Loose[domain.FacetBadge] = true
			break
		}
	}

	for _, f := range []domain.Facet{domain.FacetFuelType, domain.FacetTransmissionType, domain.FacetDriveType} {
		if group, ok := scanPatterns(input, e.tables.patternsFor(f)); ok {
			ext.Values[f] = group.Canonical
			if group.Loose {
				ext.Loose[f] = true
			}
		}
	}

	return ext
}

// scanVocabulary finds the first vocabulary value present as a whole word,
// then falls back to aliases. An alias counts only when its canonical target
// is itself in the live vocabulary.
func (e *Extractor) scanVocabulary(input string, vocab []string, aliasKeys []string, aliases map[string]string) (string, bool) {
	for _, value := range vocab {
		if containsWord(input, strings.ToLower(value)) {
			return value, true
		}
	}
	for _, alias := range aliasKeys {
		if !containsWord(input, alias) {
			continue
		}
		target := aliases[alias]
		for _, value := range vocab {
			if strings.EqualFold(value, target) {
				return value, true
			}
		}
	}
	return "", false
}

// scanPatterns returns the first group with any synonym present in the input.
// Plain containment is intentional here: the synonym lists are curated to
// avoid false positives, and it lets "auto" match "automatic".
func scanPatterns(input string, groups []PatternGroup) (PatternGroup, bool) {
	for _, group := range groups {
		for _, syn := range group.Synonyms {
			if strings.Contains(input, syn) {
				return group, true
			}
		}
	}
	return PatternGroup{}, false
}

// containsWord reports whether needle occurs in haystack delimited by word
// boundaries. Both arguments must already be lowercased. Needles may contain
// spaces; boundaries are checked only at the ends.
func containsWord(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	for from := 0; from+len(needle) <= len(haystack); {
		idx := strings.Index(haystack[from:], needle)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(needle)
		if boundaryBefore(haystack, start) && boundaryAfter(haystack, end) {
			return true
		}
		from = start + 1
	}
	return false
}

func boundaryBefore(s string, idx int) bool {
	if idx == 0 {
		return true
	}
	prev := rune(s[idx-1])
	return !unicode.IsLetter(prev) && !unicode.IsDigit(prev)
}

func boundaryAfter(s string, idx int) bool {
	if idx >= len(s) {
		return true
	}
	next := rune(s[idx])
	return !unicode.IsLetter(next) && !unicode.IsDigit(next)
}
