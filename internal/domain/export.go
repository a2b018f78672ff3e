package domain

import (
	"strings"
	"time"
)

// csvHeader is the fixed column order of the CSV export.
var csvHeader = []string{
	"ID", "ICAO", "Airport", "Country", "Category", "Risk",
	"Source", "Effective", "Expires", "Text", "Interpretation",
}

// ToCSV serializes records with every field quote-wrapped and embedded
// quotes doubled. Rows are newline-separated without a trailing newline.
// An empty working set yields an empty string, not a lone header.
func ToCSV(records []Notam) string {
	if len(records) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(strings.Join(csvHeader, ","))
	for _, n := range records {
		b.WriteByte('\n')
		writeCSVRow(&b, []string{
			n.ID,
			n.ICAO,
			n.AirportName,
			n.Country,
			string(n.Category),
			string(n.RiskLevel),
			n.Source,
			formatTimestamp(n.EffectiveFrom),
			formatTimestamp(n.EffectiveUntil),
			n.RawText,
			n.Interpreted,
		})
	}
	return b.String()
}

func writeCSVRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
}

// ExportFilename names a CSV export taken at t.
func ExportFilename(t time.Time) string {
	return "notams-" + t.UTC().Format(time.DateOnly) + ".csv"
}
