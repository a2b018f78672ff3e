package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/notam-feed-service/internal/domain"
	"github.com/couchcryptid/notam-feed-service/internal/observability"
	"github.com/couchcryptid/notam-feed-service/internal/sources"
)

// DefaultPreviewSize is how many records the state shows before the first fetch.
const DefaultPreviewSize = 3

const (
	publishAttempts   = 3
	maxPublishBackoff = 2 * time.Second
)

// ErrNoArchive is returned by ArchiveExport when no archive is configured.
var ErrNoArchive = errors.New("export archive not configured")

// Publisher sends a fetched working set downstream.
type Publisher interface {
	Publish(ctx context.Context, fetchedAt time.Time, records []domain.Notam) error
}

// Archive stores an exported file under name and returns its location.
type Archive interface {
	Put(ctx context.Context, name string, body []byte) (string, error)
}

// Options configures a Pipeline. Publisher and Archive are optional.
type Options struct {
	Views           domain.ViewOptions
	CacheSize       int
	PreviewSize     int
	RefreshInterval time.Duration
	Publisher       Publisher
	Archive         Archive
}

// Pipeline owns the dashboard state: the current working set, the source
// connection pass and the optional auto-refresh loop. Reads are served from
// the immutable record store.
type Pipeline struct {
	store    *domain.Store
	registry *domain.SourceRegistry
	monitor  *sources.Monitor
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *observability.Metrics
	opts     Options
	cache    *viewCache

	state atomic.Pointer[domain.AppState]
	ready atomic.Bool

	publishBackoff time.Duration
}

// New creates a Pipeline whose initial state previews the first
// opts.PreviewSize records.
func New(store *domain.Store, registry *domain.SourceRegistry, monitor *sources.Monitor, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	if opts.PreviewSize <= 0 {
		opts.PreviewSize = DefaultPreviewSize
	}
	p := &Pipeline{
		store:          store,
		registry:       registry,
		monitor:        monitor,
		clock:          clock,
		logger:         logger,
		metrics:        metrics,
		opts:           opts,
		cache:          newViewCache(opts.CacheSize),
		publishBackoff: 200 * time.Millisecond,
	}
	initial := domain.InitialState(store, opts.PreviewSize, clock.Now())
	p.state.Store(&initial)
	metrics.WorkingSetSize.Set(float64(len(initial.WorkingSet)))
	return p
}

// CheckReadiness returns nil once the source connection pass has finished,
// or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("source connection pass has not completed yet")
	}
	return nil
}

// Run connects the sources and then re-fetches the current criteria every
// RefreshInterval until the context is cancelled. A zero interval disables
// auto-refresh.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "records", p.store.Len(), "refresh_interval", p.opts.RefreshInterval)
	p.ConnectSources(ctx)

	if p.opts.RefreshInterval <= 0 {
		<-ctx.Done()
		p.logger.Info("pipeline stopping", "reason", ctx.Err())
		return nil
	}

	p.metrics.AutoRefresh.Set(1)
	defer p.metrics.AutoRefresh.Set(0)

	ticker := p.clock.NewTicker(p.opts.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			res := p.Fetch(ctx, p.Current().Criteria)
			p.logger.Debug("auto-refresh", "working_set", len(res.State.WorkingSet))
		}
	}
}

// ConnectSources runs one connection pass over every registered source and
// marks the pipeline ready.
func (p *Pipeline) ConnectSources(ctx context.Context) int {
	n := p.monitor.ConnectAll(ctx)
	p.ready.Store(true)
	p.logger.Info("source connection pass complete", "connected", n, "sources", len(p.registry.Keys()))
	return n
}

// FetchResult is the outcome of Fetch.
type FetchResult struct {
	State            domain.AppState `json:"state"`
	Message          string          `json:"message"`
	ConnectedSources int             `json:"connected_sources"`
}

// Fetch recomputes the working set for criteria from the full record store,
// replaces the current state and publishes the result. Publish failures are
// logged and never fail the fetch.
func (p *Pipeline) Fetch(ctx context.Context, criteria domain.FilterCriteria) FetchResult {
	start := time.Now()

	next := domain.NextState(p.store, criteria, p.clock.Now())
	p.state.Store(&next)

	p.metrics.FetchesTotal.Inc()
	p.metrics.WorkingSetSize.Set(float64(len(next.WorkingSet)))

	if p.opts.Publisher != nil {
		p.publish(ctx, next)
	}
	p.metrics.FetchDuration.Observe(time.Since(start).Seconds())

	connected := p.monitor.ConnectedCount()
	p.logger.Info("fetch complete", "working_set", len(next.WorkingSet), "unfiltered", next.Criteria.IsEmpty(),
		"criteria", next.Criteria.Key(), "connected_sources", connected)

	return FetchResult{
		State:            next,
		Message:          domain.FetchMessage(len(next.WorkingSet), connected),
		ConnectedSources: connected,
	}
}

// publish retries with exponential backoff: start at publishBackoff, double
// each attempt, cap at 2s.
func (p *Pipeline) publish(ctx context.Context, st domain.AppState) {
	backoff := p.publishBackoff
	for attempt := 1; ; attempt++ {
		err := p.opts.Publisher.Publish(ctx, st.LastUpdate, st.WorkingSet)
		if err == nil {
			p.metrics.PublishAttempts.WithLabelValues("success").Inc()
			return
		}
		p.metrics.PublishAttempts.WithLabelValues("error").Inc()
		p.logger.Error("publish working set failed", "error", err, "attempt", attempt, "working_set", len(st.WorkingSet))

		if attempt >= publishAttempts || ctx.Err() != nil {
			return
		}
		if !sleepWithContext(ctx, backoff) {
			return
		}
		backoff = nextBackoff(backoff, maxPublishBackoff)
	}
}

// Current returns the current state. Its slices are shared and must not be
// modified.
func (p *Pipeline) Current() domain.AppState {
	return *p.state.Load()
}

// Sources returns the runtime status of every registered source.
func (p *Pipeline) Sources() []domain.SourceStatus {
	return p.monitor.Snapshot()
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
