package domain

import (
	"fmt"
	"strings"
)

// No-data markers emitted instead of empty views.
const (
	NoFeedData         = "No NOTAM data available. Configure filters and fetch NOTAMs to see global feed."
	NoRiskData         = "No risk assessment data available. Fetch NOTAMs to see risk analysis."
	NoSummaryData      = "No AI summary available. Fetch NOTAMs with AI processing enabled to see insights."
	SummaryDisabled    = "AI processing is disabled. Enable AI processing in the configuration to see insights."
	NoRouteData        = "No route data available. Fetch NOTAMs to see route analysis."
	NoRouteIdentifiers = "No specific route information found in current NOTAMs."
	NoRawData          = "No NOTAM data available. Fetch NOTAMs to see raw data."
)

// FeedEntry is one card of the global feed.
type FeedEntry struct {
	Notam
	SourceName     string `json:"source_name"`
	CategoryLabel  string `json:"category_label"`
	EffectiveLabel string `json:"effective_label"`
}

// FeedView is the global feed. NoData is set exactly when Entries is empty.
type FeedView struct {
	NoData  string      `json:"no_data,omitempty"`
	Entries []FeedEntry `json:"entries,omitempty"`
}

// BuildFeed produces one entry per record, annotated with the resolved
// source display name.
func BuildFeed(records []Notam, sources *SourceRegistry) FeedView {
	if len(records) == 0 {
		return FeedView{NoData: NoFeedData}
	}
	entries := make([]FeedEntry, 0, len(records))
	for _, n := range records {
		entries = append(entries, FeedEntry{
			Notam:          n,
			SourceName:     sources.DisplayName(n.Source),
			CategoryLabel:  titleCase(string(n.Category)),
			EffectiveLabel: FormatTime(n.EffectiveFrom) + " - " + FormatTime(n.EffectiveUntil),
		})
	}
	return FeedView{Entries: entries}
}

// RiskGroup holds the records of one risk level in input order.
type RiskGroup struct {
	Level   RiskLevel `json:"level"`
	Title   string    `json:"title"`
	Count   int       `json:"count"`
	Records []Notam   `json:"records"`
}

// RiskView partitions records by risk level. Levels without records are
// omitted.
type RiskView struct {
	NoData string      `json:"no_data,omitempty"`
	Groups []RiskGroup `json:"groups,omitempty"`
}

// BuildRisk groups records into high, medium and low buckets. Records whose
// risk level is outside the enumeration belong to no bucket.
func BuildRisk(records []Notam) RiskView {
	if len(records) == 0 {
		return RiskView{NoData: NoRiskData}
	}
	var groups []RiskGroup
	for _, level := range RiskLevels {
		var members []Notam
		for _, n := range records {
			if n.RiskLevel == level {
				members = append(members, n)
			}
		}
		if len(members) == 0 {
			continue
		}
		groups = append(groups, RiskGroup{
			Level:   level,
			Title:   fmt.Sprintf("%s RISK (%d NOTAMs)", strings.ToUpper(string(level)), len(members)),
			Count:   len(members),
			Records: members,
		})
	}
	if len(groups) == 0 {
		return RiskView{NoData: NoRiskData}
	}
	return RiskView{Groups: groups}
}

// RiskCounts tallies a working set by risk level.
type RiskCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// CountRisks tallies records by risk level.
func CountRisks(records []Notam) RiskCounts {
	var c RiskCounts
	for _, n := range records {
		switch n.RiskLevel {
		case RiskHigh:
			c.High++
		case RiskMedium:
			c.Medium++
		case RiskLow:
			c.Low++
		}
	}
	return c
}

// SummaryItem is the narrative entry for one record.
type SummaryItem struct {
	ID             string    `json:"id"`
	ICAO           string    `json:"icao"`
	AirportName    string    `json:"airport_name"`
	RiskLevel      RiskLevel `json:"risk_level"`
	Category       Category  `json:"category"`
	Analysis       string    `json:"analysis"`
	Recommendation string    `json:"recommendation"`
}

// SummaryView is the AI-style narrative summary.
type SummaryView struct {
	NoData   string        `json:"no_data,omitempty"`
	Total    int           `json:"total"`
	Counts   RiskCounts    `json:"counts"`
	Overview string        `json:"overview,omitempty"`
	Items    []SummaryItem `json:"items,omitempty"`
}

// BuildSummary counts risk levels across the working set and attaches a
// recommendation to every record.
func BuildSummary(records []Notam) SummaryView {
	if len(records) == 0 {
		return SummaryView{NoData: NoSummaryData}
	}
	counts := CountRisks(records)
	items := make([]SummaryItem, 0, len(records))
	for _, n := range records {
		items = append(items, SummaryItem{
			ID:             n.ID,
			ICAO:           n.ICAO,
			AirportName:    n.AirportName,
			RiskLevel:      n.RiskLevel,
			Category:       n.Category,
			Analysis:       n.Interpreted,
			Recommendation: Recommend(n.RiskLevel, n.Category),
		})
	}
	return SummaryView{
		Total:  len(records),
		Counts: counts,
		Overview: fmt.Sprintf(
			"Analysis of %d active NOTAMs reveals %d high-risk, %d medium-risk, and %d low-risk conditions affecting flight operations.",
			len(records), counts.High, counts.Medium, counts.Low),
		Items: items,
	}
}

// DisabledSummary is the summary shown when AI processing is switched off.
func DisabledSummary() SummaryView {
	return SummaryView{NoData: SummaryDisabled}
}

// RouteMember references a record grouped under a route identifier.
type RouteMember struct {
	ID        string    `json:"id"`
	ICAO      string    `json:"icao"`
	RiskLevel RiskLevel `json:"risk_level"`
}

// RouteGroup collects the records mentioning one identifier.
type RouteGroup struct {
	Identifier string        `json:"identifier"`
	Count      int           `json:"count"`
	HighRisk   int           `json:"high_risk"`
	Members    []RouteMember `json:"members"`
}

// RecordRoutes lists the identifiers extracted from one record.
type RecordRoutes struct {
	ID     string   `json:"id"`
	Routes []string `json:"routes"`
}

// RouteView groups records by extracted route, airway or runway identifier.
// A record appears under every identifier it mentions.
type RouteView struct {
	NoData  string         `json:"no_data,omitempty"`
	Groups  []RouteGroup   `json:"groups,omitempty"`
	Records []RecordRoutes `json:"records,omitempty"`
}

// BuildRoutes extracts identifiers from each record's raw text and groups
// the records by identifier in first-seen order.
func BuildRoutes(records []Notam) RouteView {
	if len(records) == 0 {
		return RouteView{NoData: NoRouteData}
	}
	var (
		groups  []RouteGroup
		index   = make(map[string]int)
		perItem = make([]RecordRoutes, 0, len(records))
	)
	for _, n := range records {
		routes := ExtractRoutes(n.RawText)
		perItem = append(perItem, RecordRoutes{ID: n.ID, Routes: routes})
		for _, r := range routes {
			i, ok := index[r]
			if !ok {
				i = len(groups)
				index[r] = i
				groups = append(groups, RouteGroup{Identifier: r})
			}
			g := &groups[i]
			g.Members = append(g.Members, RouteMember{ID: n.ID, ICAO: n.ICAO, RiskLevel: n.RiskLevel})
			g.Count++
			if n.RiskLevel == RiskHigh {
				g.HighRisk++
			}
		}
	}
	if len(groups) == 0 {
		return RouteView{NoData: NoRouteIdentifiers, Records: perItem}
	}
	return RouteView{Groups: groups, Records: perItem}
}

// RawFormat selects how the raw view is presented.
type RawFormat string

const (
	RawFormatStructured RawFormat = "structured"
	RawFormatRaw        RawFormat = "raw"
)

// ParseRawFormat maps user input to a RawFormat; anything but "raw" is
// structured.
func ParseRawFormat(s string) RawFormat {
	if strings.EqualFold(strings.TrimSpace(s), string(RawFormatRaw)) {
		return RawFormatRaw
	}
	return RawFormatStructured
}

// RawDetails are the structured fields shown next to the raw text.
type RawDetails struct {
	ICAO        string   `json:"icao"`
	AirportName string   `json:"airport_name"`
	Country     string   `json:"country"`
	Category    Category `json:"category"`
	Effective   string   `json:"effective"`
	Expires     string   `json:"expires"`
}

// RawEntry exposes a record's notice body verbatim.
type RawEntry struct {
	ID         string      `json:"id"`
	SourceName string      `json:"source_name"`
	RiskLevel  RiskLevel   `json:"risk_level"`
	RawText    string      `json:"raw_text"`
	Details    *RawDetails `json:"details,omitempty"`
}

// RawView lists notice bodies in the selected format.
type RawView struct {
	NoData  string     `json:"no_data,omitempty"`
	Format  RawFormat  `json:"format"`
	Entries []RawEntry `json:"entries,omitempty"`
}

// BuildRaw lists each record's raw text. Structured fields are included
// unless format is RawFormatRaw.
func BuildRaw(records []Notam, sources *SourceRegistry, format RawFormat) RawView {
	if format != RawFormatRaw {
		format = RawFormatStructured
	}
	if len(records) == 0 {
		return RawView{NoData: NoRawData, Format: format}
	}
	entries := make([]RawEntry, 0, len(records))
	for _, n := range records {
		e := RawEntry{
			ID:         n.ID,
			SourceName: sources.DisplayName(n.Source),
			RiskLevel:  n.RiskLevel,
			RawText:    n.RawText,
		}
		if format == RawFormatStructured {
			e.Details = &RawDetails{
				ICAO:        n.ICAO,
				AirportName: n.AirportName,
				Country:     n.Country,
				Category:    n.Category,
				Effective:   FormatTime(n.EffectiveFrom),
				Expires:     FormatTime(n.EffectiveUntil),
			}
		}
		entries = append(entries, e)
	}
	return RawView{Format: format, Entries: entries}
}

// Stats are the headline counters of a working set.
type Stats struct {
	Total    int `json:"total"`
	HighRisk int `json:"high_risk"`
}

// ComputeStats counts the working set and its high-risk records.
func ComputeStats(records []Notam) Stats {
	return Stats{Total: len(records), HighRisk: CountRisks(records).High}
}

// ViewOptions are presentation switches applied when building Views.
type ViewOptions struct {
	RawFormat       RawFormat
	SummaryDisabled bool
}

// Views bundles every projection of one working set.
type Views struct {
	Feed    FeedView    `json:"feed"`
	Risk    RiskView    `json:"risk"`
	Summary SummaryView `json:"summary"`
	Routes  RouteView   `json:"routes"`
	Raw     RawView     `json:"raw"`
	Stats   Stats       `json:"stats"`
}

// BuildViews runs every projection builder over records independently.
func BuildViews(records []Notam, sources *SourceRegistry, opts ViewOptions) Views {
	v := Views{
		Feed:   BuildFeed(records, sources),
		Risk:   BuildRisk(records),
		Routes: BuildRoutes(records),
		Raw:    BuildRaw(records, sources, opts.RawFormat),
		Stats:  ComputeStats(records),
	}
	if opts.SummaryDisabled {
		v.Summary = DisabledSummary()
	} else {
		v.Summary = BuildSummary(records)
	}
	return v
}
