// Command notamexport filters a NOTAM catalog and writes the result as a CSV
// export, a JSON bundle of every view, or a printable PDF briefing. It uses
// the same domain package as the service so offline exports match the API.
//
// Usage:
//
//	go run ./cmd/notamexport \
//	  -catalog data/catalog.yaml \
//	  -icao KJFK,EGLL -risk high \
//	  -format pdf -out briefing.pdf
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/notam-feed-service/internal/catalog"
	"github.com/couchcryptid/notam-feed-service/internal/domain"
	"github.com/couchcryptid/notam-feed-service/internal/report"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	catalogPath := flag.String("catalog", "", "catalog YAML file (default: embedded sample)")
	icao := flag.String("icao", "", "comma-separated ICAO codes")
	region := flag.String("region", "", "region preset, used when -icao is empty")
	risk := flag.String("risk", "", "risk level: high, medium, low or all")
	source := flag.String("source", "", "source key or all")
	category := flag.String("category", "", "comma-separated categories")
	search := flag.String("q", "", "search term")
	format := flag.String("format", "csv", "output format: csv, json or pdf")
	rawFormat := flag.String("raw-format", "structured", "raw view format for json output: structured or raw")
	out := flag.String("out", "-", "output path, - for stdout")
	flag.Parse()

	cat, err := catalog.LoadFile(*catalogPath)
	if err != nil {
		return err
	}

	criteria := domain.FilterCriteria{
		ICAOCodes: domain.ParseICAOCodes(*icao),
		RiskLevel: domain.RiskLevel(strings.ToLower(*risk)),
		Source:    *source,
	}
	if len(criteria.ICAOCodes) == 0 && *region != "" {
		r, ok := domain.FindRegion(cat.Regions, *region)
		if !ok {
			return fmt.Errorf("unknown region %q", *region)
		}
		criteria.ICAOCodes = r.PresetCodes()
	}
	for _, c := range strings.Split(*category, ",") {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			criteria.Categories = append(criteria.Categories, domain.Category(c))
		}
	}

	registry := cat.Registry()
	records := domain.SearchRecords(domain.ApplyFilters(cat.Store().Records(), criteria.Normalize()), *search, registry)
	log.Printf("selected %d of %d records (%s)", len(records), len(cat.Records), criteria.Key())

	now := time.Now()
	switch *format {
	case "csv":
		return writeOutput(*out, func(w io.Writer) error {
			_, err := io.WriteString(w, domain.ToCSV(records))
			return err
		})
	case "json":
		views := domain.BuildViews(records, registry, domain.ViewOptions{RawFormat: domain.ParseRawFormat(*rawFormat)})
		return writeOutput(*out, func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(views)
		})
	case "pdf":
		views := domain.BuildViews(records, registry, domain.ViewOptions{})
		return writeOutput(*out, func(w io.Writer) error {
			return report.WriteBriefing(w, views, now)
		})
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
}

func writeOutput(path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(os.Stdout)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("wrote %s", path)
	return nil
}
