// Package report renders printable NOTAM briefings.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/couchcryptid/notam-feed-service/internal/domain"
)

const (
	lineHeight = 5.0
	pageWidth  = 0.0 // full width between margins
)

// WriteBriefing renders the stats, risk groups and recommendations of views
// as a Letter-size PDF.
func WriteBriefing(w io.Writer, views domain.Views, generatedAt time.Time) error {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetTitle("NOTAM Briefing", true)
	pdf.SetCreationDate(generatedAt)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(pageWidth, 10, "NOTAM Briefing")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(pageWidth, lineHeight, "Generated "+domain.FormatTime(generatedAt))
	pdf.Ln(lineHeight)
	pdf.Cell(pageWidth, lineHeight, fmt.Sprintf("Total NOTAMs: %d    High risk: %d", views.Stats.Total, views.Stats.HighRisk))
	pdf.Ln(lineHeight * 2)

	if views.Summary.Overview != "" {
		pdf.MultiCell(pageWidth, lineHeight, tr(views.Summary.Overview), "", "L", false)
		pdf.Ln(lineHeight)
	}

	if views.Risk.NoData != "" {
		pdf.MultiCell(pageWidth, lineHeight, tr(views.Risk.NoData), "", "L", false)
		return output(pdf, w)
	}

	recommendations := make(map[string]string, len(views.Summary.Items))
	for _, item := range views.Summary.Items {
		recommendations[item.ID] = item.Recommendation
	}

	for _, g := range views.Risk.Groups {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(pageWidth, 8, g.Title)
		pdf.Ln(8)
		for _, n := range g.Records {
			writeRecord(pdf, tr, n, recommendations[n.ID])
		}
	}

	return output(pdf, w)
}

func writeRecord(pdf *gofpdf.Fpdf, tr func(string) string, n domain.Notam, recommendation string) {
	pdf.SetFont("Arial", "B", 10)
	pdf.MultiCell(pageWidth, lineHeight, tr(fmt.Sprintf("%s  %s - %s, %s", n.ID, n.ICAO, n.AirportName, n.Country)), "", "L", false)

	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(pageWidth, lineHeight, tr(n.Interpreted), "", "L", false)
	pdf.MultiCell(pageWidth, lineHeight,
		fmt.Sprintf("Effective %s until %s", domain.FormatTime(n.EffectiveFrom), domain.FormatTime(n.EffectiveUntil)), "", "L", false)

	pdf.SetFont("Courier", "", 8)
	pdf.MultiCell(pageWidth, 4, tr(n.RawText), "", "L", false)

	if recommendation != "" {
		pdf.SetFont("Arial", "I", 10)
		pdf.MultiCell(pageWidth, lineHeight, tr("Recommendation: "+recommendation), "", "L", false)
	}
	pdf.Ln(lineHeight)
}

func output(pdf *gofpdf.Fpdf, w io.Writer) error {
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render briefing: %w", err)
	}
	return nil
}
