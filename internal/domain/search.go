package domain

import "strings"

// SearchRecords keeps the records whose displayed text contains term,
// case-insensitively. An empty term keeps everything.
func SearchRecords(records []Notam, term string, sources *SourceRegistry) []Notam {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return records
	}
	out := make([]Notam, 0, len(records))
	for _, n := range records {
		if strings.Contains(searchText(n, sources), term) {
			out = append(out, n)
		}
	}
	return out
}

func searchText(n Notam, sources *SourceRegistry) string {
	return strings.ToLower(strings.Join([]string{
		n.ID,
		sources.DisplayName(n.Source),
		string(n.RiskLevel),
		n.ICAO,
		n.AirportName,
		n.Country,
		string(n.Category),
		n.Interpreted,
		n.RawText,
	}, " "))
}

// SearchRoutes keeps the route groups whose identifier, member IDs or
// member ICAO codes contain term, case-insensitively.
func SearchRoutes(view RouteView, term string) RouteView {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" || len(view.Groups) == 0 {
		return view
	}
	out := RouteView{Records: view.Records}
	for _, g := range view.Groups {
		if routeMatches(g, term) {
			out.Groups = append(out.Groups, g)
		}
	}
	if len(out.Groups) == 0 {
		out.NoData = NoRouteIdentifiers
	}
	return out
}

func routeMatches(g RouteGroup, term string) bool {
	if strings.Contains(strings.ToLower(g.Identifier), term) {
		return true
	}
	for _, m := range g.Members {
		if strings.Contains(strings.ToLower(m.ID), term) || strings.Contains(strings.ToLower(m.ICAO), term) {
			return true
		}
	}
	return false
}
