package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/couchcryptid/notam-feed-service/internal/domain"
)

// Query describes one read over the record store.
type Query struct {
	Criteria domain.FilterCriteria
	Search   string
	// RawFormat overrides the configured raw view format when set.
	RawFormat domain.RawFormat
}

func (q Query) search() string {
	return strings.ToLower(strings.TrimSpace(q.Search))
}

// Records returns the records selected by q in store order.
func (p *Pipeline) Records(q Query) []domain.Notam {
	records := domain.ApplyFilters(p.store.Records(), q.Criteria.Normalize())
	return domain.SearchRecords(records, q.search(), p.registry)
}

// Notam looks a single record up by ID in the full store.
func (p *Pipeline) Notam(id string) (domain.Notam, bool) {
	return p.store.Get(id)
}

// Views builds every projection for q. Results are cached per query.
func (p *Pipeline) Views(q Query) domain.Views {
	opts := p.opts.Views
	if q.RawFormat != "" {
		opts.RawFormat = q.RawFormat
	}
	key := q.Criteria.Key() + "|q=" + q.search() + "|raw=" + string(domain.ParseRawFormat(string(opts.RawFormat))) +
		"|summary_disabled=" + strconv.FormatBool(opts.SummaryDisabled)

	if v, ok := p.cache.get(key); ok {
		p.metrics.ProjectionCache.WithLabelValues("hit").Inc()
		return v
	}
	p.metrics.ProjectionCache.WithLabelValues("miss").Inc()

	filtered := domain.ApplyFilters(p.store.Records(), q.Criteria.Normalize())
	v := domain.BuildViews(domain.SearchRecords(filtered, q.search(), p.registry), p.registry, opts)
	if q.search() != "" {
		// Route search matches identifiers, which are not part of a record's text.
		v.Routes = domain.SearchRoutes(domain.BuildRoutes(filtered), q.search())
	}

	p.cache.put(key, v)
	return v
}

// StateViews builds every projection of the current working set.
func (p *Pipeline) StateViews() domain.Views {
	return domain.BuildViews(p.Current().WorkingSet, p.registry, p.opts.Views)
}

// ExportResult describes an archived CSV export.
type ExportResult struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Records  int    `json:"records"`
}

// ArchiveExport writes the CSV export of q to the configured archive.
func (p *Pipeline) ArchiveExport(ctx context.Context, q Query) (ExportResult, error) {
	if p.opts.Archive == nil {
		return ExportResult{}, ErrNoArchive
	}
	records := p.Records(q)
	name := domain.ExportFilename(p.clock.Now())

	location, err := p.opts.Archive.Put(ctx, name, []byte(domain.ToCSV(records)))
	if err != nil {
		return ExportResult{}, fmt.Errorf("archive export: %w", err)
	}
	p.metrics.ExportsArchived.Inc()
	p.logger.Info("export archived", "name", name, "location", location, "records", len(records))
	return ExportResult{Name: name, Location: location, Records: len(records)}, nil
}
