package domain

import "regexp"

// MaxRoutesPerRecord caps the identifiers extracted from one notice.
const MaxRoutesPerRecord = 5

// routePatterns are applied in order; matches are pooled across patterns.
var routePatterns = []*regexp.Regexp{
	// Airways like J75, Q818.
	regexp.MustCompile(`\b[A-Z]\d{1,3}\b`),
	// Routes like UL9, T711.
	regexp.MustCompile(`\b[A-Z]{2,3}\d{1,3}\b`),
	// Runway pairs like "RWY 04L/22R".
	regexp.MustCompile(`(?i)\bRWY\s+\d{2}[LRC]?/\d{2}[LRC]?\b`),
}

// ExtractRoutes returns the route, airway and runway identifiers found in a
// notice body: unique, in first-seen order, at most MaxRoutesPerRecord.
func ExtractRoutes(text string) []string {
	var routes []string
	seen := make(map[string]struct{})
	for _, re := range routePatterns {
		for _, m := range re.FindAllString(text, -1) {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			routes = append(routes, m)
		}
	}
	if len(routes) > MaxRoutesPerRecord {
		routes = routes[:MaxRoutesPerRecord]
	}
	return routes
}
