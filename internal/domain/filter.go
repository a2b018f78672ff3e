package domain

import (
	"slices"
	"sort"
	"strings"
	"unicode/utf8"
)

// FilterAll is the sentinel meaning "no constraint" for RiskLevel and Source.
const FilterAll = "all"

// minICAOLength is the shortest code, in characters, kept from user input.
const minICAOLength = 3

// FilterCriteria is a conjunction of predicates. ICAOCodes and Categories
// match any of their members; an empty set imposes no constraint. RiskLevel
// and Source are unset when empty or FilterAll.
type FilterCriteria struct {
	ICAOCodes  []string   `json:"icao_codes,omitempty"`
	RiskLevel  RiskLevel  `json:"risk_level,omitempty"`
	Source     string     `json:"source,omitempty"`
	Categories []Category `json:"categories,omitempty"`
}

// ParseICAOCodes splits comma-separated user input into normalized codes.
func ParseICAOCodes(input string) []string {
	return NormalizeICAOCodes(strings.Split(input, ","))
}

// NormalizeICAOCodes trims and upper-cases codes, dropping any shorter than
// three characters. Order is kept and duplicates removed.
func NormalizeICAOCodes(codes []string) []string {
	var out []string
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if utf8.RuneCountInString(c) < minICAOLength || slices.Contains(out, c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Normalize returns a copy of c with ICAO codes cleaned, blank categories
// dropped and whitespace trimmed from the scalar fields.
func (c FilterCriteria) Normalize() FilterCriteria {
	n := FilterCriteria{
		ICAOCodes: NormalizeICAOCodes(c.ICAOCodes),
		RiskLevel: RiskLevel(strings.TrimSpace(string(c.RiskLevel))),
		Source:    strings.TrimSpace(c.Source),
	}
	for _, cat := range c.Categories {
		cat = Category(strings.TrimSpace(string(cat)))
		if cat == "" || slices.Contains(n.Categories, cat) {
			continue
		}
		n.Categories = append(n.Categories, cat)
	}
	return n
}

// IsEmpty reports whether c constrains nothing once normalized.
func (c FilterCriteria) IsEmpty() bool {
	n := c.Normalize()
	return len(n.ICAOCodes) == 0 && len(n.Categories) == 0 &&
		unset(string(n.RiskLevel)) && unset(n.Source)
}

// Key returns a canonical string for c, equal for criteria that select the
// same records regardless of input order or casing of ICAO codes.
func (c FilterCriteria) Key() string {
	n := c.Normalize()
	codes := slices.Clone(n.ICAOCodes)
	sort.Strings(codes)
	cats := make([]string, len(n.Categories))
	for i, cat := range n.Categories {
		cats[i] = string(cat)
	}
	sort.Strings(cats)
	risk, source := string(n.RiskLevel), n.Source
	if unset(risk) {
		risk = FilterAll
	}
	if unset(source) {
		source = FilterAll
	}
	return strings.Join([]string{
		"icao=" + strings.Join(codes, ","),
		"risk=" + risk,
		"source=" + source,
		"category=" + strings.Join(cats, ","),
	}, ";")
}

// Matches reports whether n satisfies every active predicate of c.
// c must already be normalized.
func (c FilterCriteria) Matches(n Notam) bool {
	if len(c.ICAOCodes) > 0 && !slices.Contains(c.ICAOCodes, n.ICAO) {
		return false
	}
	if !unset(string(c.RiskLevel)) && n.RiskLevel != c.RiskLevel {
		return false
	}
	if !unset(c.Source) && n.Source != c.Source {
		return false
	}
	if len(c.Categories) > 0 && !slices.Contains(c.Categories, n.Category) {
		return false
	}
	return true
}

// ApplyFilters returns the records satisfying criteria in their original
// relative order. The input slice is not modified.
func ApplyFilters(records []Notam, criteria FilterCriteria) []Notam {
	c := criteria.Normalize()
	out := make([]Notam, 0, len(records))
	for _, n := range records {
		if c.Matches(n) {
			out = append(out, n)
		}
	}
	return out
}

func unset(v string) bool {
	return v == "" || v == FilterAll
}
