package domain

import (
	"testing"
	"time"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return v
}

// sampleNotams mirrors the bundled catalog closely enough for projection tests.
func sampleNotams(t *testing.T) []Notam {
	t.Helper()
	return []Notam{
		{
			ID: "A1234/25", ICAO: "KJFK", AirportName: "John F. Kennedy International", Country: "United States",
			EffectiveFrom: mustTime(t, "2025-07-31T10:00:00Z"), EffectiveUntil: mustTime(t, "2025-08-15T18:00:00Z"),
			Category: CategoryRunway, Priority: PriorityHigh, RiskLevel: RiskHigh, Source: "nasa",
			RawText:          "A1234/25 NOTAMN Q) KZNY/QMRXX/IV/NBO/A/000/999/4038N07346W005 A) KJFK B) 2507311000 C) 2508151800 E) RWY 04L/22R CLSD FOR MAINTENANCE",
			Interpreted:      "Runway 04L/22R at JFK Airport is closed for maintenance operations.",
			AffectedElements: []string{"runway", "ground_operations"},
		},
		{
			ID: "B5678/25", ICAO: "EGLL", AirportName: "London Heathrow", Country: "United Kingdom",
			EffectiveFrom: mustTime(t, "2025-07-31T14:00:00Z"), EffectiveUntil: mustTime(t, "2025-08-05T22:00:00Z"),
			Category: CategoryAirspace, Priority: PriorityMedium, RiskLevel: RiskMedium, Source: "icao",
			RawText:          "B5678/25 NOTAMN Q) EGTT/QRTCA/IV/BO/W/000/050/5128N00027W005 A) EGLL B) 2507311400 C) 2508052200 E) MILITARY EXERCISE AREA ACTIVE",
			Interpreted:      "Military exercise area active near London Heathrow affecting local airspace.",
			AffectedElements: []string{"airspace", "military"},
		},
		{
			ID: "C9012/25", ICAO: "EDDF", AirportName: "Frankfurt Airport", Country: "Germany",
			EffectiveFrom: mustTime(t, "2025-07-31T06:00:00Z"), EffectiveUntil: mustTime(t, "2025-09-30T23:59:00Z"),
			Category: CategoryNavigation, Priority: PriorityMedium, RiskLevel: RiskMedium, Source: "faa",
			RawText:          "C9012/25 NOTAMN Q) EDGG/QNBXX/IV/BO/AE/000/999/5001N00833E005 A) EDDF B) 2507310600 C) 2509302359 E) VOR FRA 114.2MHZ U/S",
			Interpreted:      "VOR navigation aid FRA on frequency 114.2 MHz is unserviceable at Frankfurt Airport.",
			AffectedElements: []string{"navigation", "vor"},
		},
		{
			ID: "D3456/25", ICAO: "RJTT", AirportName: "Tokyo Haneda", Country: "Japan",
			EffectiveFrom: mustTime(t, "2025-07-31T12:00:00Z"), EffectiveUntil: mustTime(t, "2025-08-01T04:00:00Z"),
			Category: CategoryWeather, Priority: PriorityHigh, RiskLevel: RiskHigh, Source: "notamify",
			RawText:          "D3456/25 NOTAMN Q) RJRR/QWLCA/IV/BO/A/000/999/3533N13945E005 A) RJTT B) 2507311200 C) 2508010400 E) LOW VISIBILITY PROCEDURES IN EFFECT",
			Interpreted:      "Low visibility procedures are in effect at Tokyo Haneda due to weather conditions.",
			AffectedElements: []string{"weather", "visibility", "procedures"},
		},
		{
			ID: "E7890/25", ICAO: "OMDB", AirportName: "Dubai International", Country: "United Arab Emirates",
			EffectiveFrom: mustTime(t, "2025-08-01T00:00:00Z"), EffectiveUntil: mustTime(t, "2025-08-03T12:00:00Z"),
			Category: CategoryMilitary, Priority: PriorityHigh, RiskLevel: RiskHigh, Source: "icao",
			RawText:          "E7890/25 NOTAMN Q) OMAE/QRTCA/IV/BO/W/000/200/2515N05522E015 A) OMDB B) 2508010000 C) 2508031200 E) MILITARY EXERCISE AREA UAE05 ACTIVE",
			Interpreted:      "Military exercise area UAE05 is active affecting airspace around Dubai International.",
			AffectedElements: []string{"military", "airspace", "restricted_area"},
		},
		{
			ID: "F2468/25", ICAO: "YSSY", AirportName: "Sydney Kingsford Smith", Country: "Australia",
			EffectiveFrom: mustTime(t, "2025-07-31T08:00:00Z"), EffectiveUntil: mustTime(t, "2025-08-10T16:00:00Z"),
			Category: CategoryObstacles, Priority: PriorityMedium, RiskLevel: RiskMedium, Source: "nasa",
			RawText:          "F2468/25 NOTAMN Q) YSSY/QOBXX/IV/M/AE/000/015/3356S15117E005 A) YSSY B) 2507310800 C) 2508101600 E) CONSTRUCTION CRANE 450FT AGL NEAR RWY 16L/34R",
			Interpreted:      "Construction crane 450 feet above ground level operating near runway 16L/34R at Sydney Airport.",
			AffectedElements: []string{"obstacles", "construction", "runway"},
		},
	}
}

func sampleRegistry() *SourceRegistry {
	return NewSourceRegistry([]SourceDescriptor{
		{Key: "nasa", Name: "NASA NOTAM API", URL: "https://dip.amesaero.nasa.gov", Coverage: "global"},
		{Key: "faa", Name: "FAA SWIM Portal", URL: "https://portal.swim.faa.gov", Coverage: "us_and_international", AuthRequired: true},
		{Key: "icao", Name: "ICAO API", URL: "https://api.icao.int", Coverage: "global", AuthRequired: true},
		{Key: "notamify", Name: "Notamify", URL: "https://notamify.com/api", Coverage: "global", AuthRequired: true},
	})
}

func ids(records []Notam) []string {
	out := make([]string, len(records))
	for i, n := range records {
		out[i] = n.ID
	}
	return out
}
