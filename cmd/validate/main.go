// Command validate performs integrity checks on a NOTAM catalog file before
// it is deployed: YAML shape, record fields, source registry references,
// region presets and the view projections built from the records.
//
// Usage:
//
//	go run ./cmd/validate -catalog data/catalog.yaml
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/couchcryptid/notam-feed-service/internal/catalog"
	"github.com/couchcryptid/notam-feed-service/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) addAll(errs []error) {
	for _, err := range errs {
		p.errors = append(p.errors, err.Error())
	}
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	path := flag.String("catalog", "", "catalog YAML file (default: embedded sample)")
	flag.Parse()

	if code := run(*path); code != 0 {
		os.Exit(code)
	}
}

func run(path string) int {
	fmt.Println("=== NOTAM Catalog Validation ===")
	fmt.Println()

	data := catalog.Sample()
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: read catalog: %v\n", err)
			return 1
		}
	}

	parse := &phase{name: "Phase 1: Parse"}
	cat, err := catalog.Decode(data)
	if err != nil {
		parse.errorf("%v", err)
		cat = &catalog.Catalog{}
	}

	phases := []*phase{parse}
	if parse.passed() {
		records := &phase{name: "Phase 2: Records"}
		records.addAll(catalog.CheckRecords(cat))
		srcs := &phase{name: "Phase 3: Sources"}
		srcs.addAll(catalog.CheckSources(cat))
		regions := &phase{name: "Phase 4: Regions"}
		regions.addAll(catalog.CheckRegions(cat))
		phases = append(phases, records, srcs, regions, validateProjections(cat))
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Catalog: %d records, %d sources, %d regions\n", len(cat.Records), len(cat.Sources), len(cat.Regions))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// validateProjections builds every view over the full record set and checks
// that they agree with each other.
func validateProjections(cat *catalog.Catalog) *phase {
	p := &phase{name: "Phase 5: View projections"}
	registry := cat.Registry()
	views := domain.BuildViews(cat.Records, registry, domain.ViewOptions{})

	if len(views.Feed.Entries) != len(cat.Records) {
		p.errorf("feed has %d entries, want %d", len(views.Feed.Entries), len(cat.Records))
	}

	grouped := 0
	for _, g := range views.Risk.Groups {
		if g.Count != len(g.Records) {
			p.errorf("risk group %s: count %d, %d records", g.Level, g.Count, len(g.Records))
		}
		grouped += g.Count
	}
	if grouped != len(cat.Records) {
		p.errorf("risk groups hold %d records, want %d", grouped, len(cat.Records))
	}

	if views.Stats.Total != len(cat.Records) {
		p.errorf("stats total %d, want %d", views.Stats.Total, len(cat.Records))
	}
	if views.Summary.Total != views.Stats.Total {
		p.errorf("summary total %d, stats total %d", views.Summary.Total, views.Stats.Total)
	}
	for _, item := range views.Summary.Items {
		if item.Recommendation == "" {
			p.errorf("notam %s: no recommendation", item.ID)
		}
	}

	if csv := domain.ToCSV(cat.Records); len(cat.Records) > 0 && !strings.HasPrefix(csv, `ID,`) {
		p.errorf("csv export missing header")
	}
	return p
}
