package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/couchcryptid/notam-feed-service/internal/domain"
	"github.com/couchcryptid/notam-feed-service/internal/pipeline"
)

// parseQuery reads filter criteria and search from the query string.
// icao and category accept repeated parameters and comma-separated lists.
func parseQuery(r *http.Request) pipeline.Query {
	v := r.URL.Query()
	q := pipeline.Query{
		Criteria: domain.FilterCriteria{
			ICAOCodes: domain.NormalizeICAOCodes(splitValues(v, "icao")),
			RiskLevel: domain.RiskLevel(strings.ToLower(strings.TrimSpace(v.Get("risk")))),
			Source:    strings.TrimSpace(v.Get("source")),
		},
		Search: v.Get("q"),
	}
	for _, c := range splitValues(v, "category") {
		q.Criteria.Categories = append(q.Criteria.Categories, domain.Category(strings.ToLower(c)))
	}
	if f := v.Get("format"); f != "" {
		q.RawFormat = domain.ParseRawFormat(f)
	}
	return q
}

func splitValues(v url.Values, key string) []string {
	var out []string
	for _, raw := range v[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// fetchRequest is the body of POST /api/v1/fetch. ICAO holds free-text
// input as typed; Region applies a preset when no codes are given.
type fetchRequest struct {
	ICAO       string   `json:"icao"`
	ICAOCodes  []string `json:"icao_codes"`
	Region     string   `json:"region"`
	RiskLevel  string   `json:"risk_level"`
	Source     string   `json:"source"`
	Categories []string `json:"categories"`
}

func (f fetchRequest) criteria(regions []domain.Region) (domain.FilterCriteria, error) {
	codes := append(domain.ParseICAOCodes(f.ICAO), f.ICAOCodes...)
	if len(domain.NormalizeICAOCodes(codes)) == 0 && f.Region != "" {
		region, ok := domain.FindRegion(regions, f.Region)
		if !ok {
			return domain.FilterCriteria{}, fmt.Errorf("unknown region %q", f.Region)
		}
		codes = region.PresetCodes()
	}
	c := domain.FilterCriteria{
		ICAOCodes: codes,
		RiskLevel: domain.RiskLevel(strings.ToLower(strings.TrimSpace(f.RiskLevel))),
		Source:    f.Source,
	}
	for _, cat := range f.Categories {
		c.Categories = append(c.Categories, domain.Category(strings.ToLower(strings.TrimSpace(cat))))
	}
	return c.Normalize(), nil
}
