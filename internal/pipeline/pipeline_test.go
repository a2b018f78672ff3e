package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/notam-feed-service/internal/catalog"
	"github.com/couchcryptid/notam-feed-service/internal/domain"
	"github.com/couchcryptid/notam-feed-service/internal/observability"
	"github.com/couchcryptid/notam-feed-service/internal/pipeline"
	"github.com/couchcryptid/notam-feed-service/internal/sources"
)

// --- mocks ---

type okConnector struct{}

func (okConnector) Connect(context.Context, domain.SourceDescriptor) error { return nil }

type mockPublisher struct {
	mu       sync.Mutex
	failures int
	calls    int
	last     []domain.Notam
	lastAt   time.Time
}

func (m *mockPublisher) Publish(_ context.Context, at time.Time, records []domain.Notam) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.calls <= m.failures {
		return errors.New("broker unavailable")
	}
	m.last = records
	m.lastAt = at
	return nil
}

type mockArchive struct {
	name string
	body []byte
	err  error
}

func (m *mockArchive) Put(_ context.Context, name string, body []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.name = name
	m.body = body
	return "s3://exports/" + name, nil
}

type fixture struct {
	p       *pipeline.Pipeline
	clock   *clockwork.FakeClock
	metrics *observability.Metrics
}

var testStart = time.Date(2025, 7, 31, 9, 0, 0, 0, time.UTC)

func newFixture(t *testing.T, opts pipeline.Options) fixture {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)

	clock := clockwork.NewFakeClockAt(testStart)
	metrics := observability.NewMetricsForTesting()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := cat.Registry()
	monitor := sources.NewMonitor(registry, okConnector{}, clock, logger, metrics)

	p := pipeline.New(cat.Store(), registry, monitor, clock, logger, metrics, opts)
	pipeline.SetPublishBackoff(p, time.Millisecond)
	return fixture{p: p, clock: clock, metrics: metrics}
}

func ids(records []domain.Notam) []string {
	out := make([]string, len(records))
	for i, n := range records {
		out[i] = n.ID
	}
	return out
}

// --- state ---

func TestPipeline_InitialStatePreview(t *testing.T) {
	f := newFixture(t, pipeline.Options{})

	st := f.p.Current()
	assert.Equal(t, []string{"A1234/25", "B5678/25", "C9012/25"}, ids(st.WorkingSet))
	assert.Equal(t, testStart, st.LastUpdate)
	assert.InDelta(t, 3, testutil.ToFloat64(f.metrics.WorkingSetSize), 0)
}

func TestPipeline_Readiness(t *testing.T) {
	f := newFixture(t, pipeline.Options{})

	require.Error(t, f.p.CheckReadiness(context.Background()))
	assert.Equal(t, 4, f.p.ConnectSources(context.Background()))
	require.NoError(t, f.p.CheckReadiness(context.Background()))
}

func TestPipeline_Fetch(t *testing.T) {
	f := newFixture(t, pipeline.Options{})
	f.p.ConnectSources(context.Background())
	f.clock.Advance(time.Minute)

	res := f.p.Fetch(context.Background(), domain.FilterCriteria{RiskLevel: domain.RiskHigh})

	assert.Equal(t, []string{"A1234/25", "D3456/25", "E7890/25"}, ids(res.State.WorkingSet))
	assert.Equal(t, "Fetched 3 NOTAMs from 4 sources", res.Message)
	assert.Equal(t, 4, res.ConnectedSources)
	assert.Equal(t, testStart.Add(time.Minute), res.State.LastUpdate)
	assert.Equal(t, res.State.WorkingSet, f.p.Current().WorkingSet)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.FetchesTotal), 0)
}

func TestPipeline_FetchRecomputesFromStore(t *testing.T) {
	f := newFixture(t, pipeline.Options{})

	f.p.Fetch(context.Background(), domain.FilterCriteria{ICAOCodes: []string{"KJFK"}})
	res := f.p.Fetch(context.Background(), domain.FilterCriteria{ICAOCodes: []string{"kjfk", "egll"}})

	assert.Equal(t, []string{"A1234/25", "B5678/25"}, ids(res.State.WorkingSet))
	assert.Equal(t, "Fetched 2 NOTAMs from 0 sources", res.Message)
}

// --- publishing ---

func TestPipeline_FetchPublishes(t *testing.T) {
	pub := &mockPublisher{}
	f := newFixture(t, pipeline.Options{Publisher: pub})

	res := f.p.Fetch(context.Background(), domain.FilterCriteria{Source: "icao"})

	assert.Equal(t, 1, pub.calls)
	assert.Equal(t, []string{"B5678/25", "E7890/25"}, ids(pub.last))
	assert.Equal(t, res.State.LastUpdate, pub.lastAt)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.PublishAttempts.WithLabelValues("success")), 0)
}

func TestPipeline_PublishRetriesThenSucceeds(t *testing.T) {
	pub := &mockPublisher{failures: 1}
	f := newFixture(t, pipeline.Options{Publisher: pub})

	f.p.Fetch(context.Background(), domain.FilterCriteria{})

	assert.Equal(t, 2, pub.calls)
	assert.Len(t, pub.last, 6)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.PublishAttempts.WithLabelValues("error")), 0)
}

func TestPipeline_PublishFailureDoesNotFailFetch(t *testing.T) {
	pub := &mockPublisher{failures: 10}
	f := newFixture(t, pipeline.Options{Publisher: pub})

	res := f.p.Fetch(context.Background(), domain.FilterCriteria{RiskLevel: domain.RiskMedium})

	assert.Equal(t, 3, pub.calls)
	assert.Equal(t, []string{"B5678/25", "C9012/25", "F2468/25"}, ids(res.State.WorkingSet))
	assert.Equal(t, res.State.WorkingSet, f.p.Current().WorkingSet)
}

// --- views ---

func TestPipeline_ViewsCached(t *testing.T) {
	f := newFixture(t, pipeline.Options{CacheSize: 8})
	q := pipeline.Query{Criteria: domain.FilterCriteria{ICAOCodes: []string{"EGLL", "KJFK"}}}

	v1 := f.p.Views(q)
	v2 := f.p.Views(pipeline.Query{Criteria: domain.FilterCriteria{ICAOCodes: []string{"kjfk", "egll"}}})

	assert.Equal(t, v1, v2)
	assert.Equal(t, 2, v1.Stats.Total)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.ProjectionCache.WithLabelValues("miss")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.ProjectionCache.WithLabelValues("hit")), 0)
}

func TestPipeline_ViewsSearch(t *testing.T) {
	f := newFixture(t, pipeline.Options{})

	v := f.p.Views(pipeline.Query{Search: "UAE"})
	require.Len(t, v.Feed.Entries, 1)
	assert.Equal(t, "E7890/25", v.Feed.Entries[0].ID)
	require.Len(t, v.Routes.Groups, 1)
	assert.Equal(t, "UAE05", v.Routes.Groups[0].Identifier)

	v = f.p.Views(pipeline.Query{Search: "maintenance"})
	assert.Equal(t, 1, v.Stats.Total)
	assert.Empty(t, v.Routes.Groups)
	assert.Equal(t, domain.NoRouteIdentifiers, v.Routes.NoData)
}

func TestPipeline_ViewsOptions(t *testing.T) {
	f := newFixture(t, pipeline.Options{Views: domain.ViewOptions{SummaryDisabled: true}})

	v := f.p.Views(pipeline.Query{})
	assert.Equal(t, domain.SummaryDisabled, v.Summary.NoData)
	assert.Equal(t, domain.RawFormatStructured, v.Raw.Format)
	require.NotNil(t, v.Raw.Entries[0].Details)

	v = f.p.Views(pipeline.Query{RawFormat: domain.RawFormatRaw})
	assert.Equal(t, domain.RawFormatRaw, v.Raw.Format)
	assert.Nil(t, v.Raw.Entries[0].Details)
}

func TestPipeline_ViewsEmptyWorkingSet(t *testing.T) {
	f := newFixture(t, pipeline.Options{})

	v := f.p.Views(pipeline.Query{Criteria: domain.FilterCriteria{Source: "unknown"}})
	assert.Equal(t, domain.NoFeedData, v.Feed.NoData)
	assert.Equal(t, domain.NoRiskData, v.Risk.NoData)
	assert.Equal(t, domain.NoSummaryData, v.Summary.NoData)
	assert.Equal(t, domain.NoRouteData, v.Routes.NoData)
	assert.Equal(t, domain.NoRawData, v.Raw.NoData)
}

func TestPipeline_StateViews(t *testing.T) {
	f := newFixture(t, pipeline.Options{})

	assert.Equal(t, 3, f.p.StateViews().Stats.Total)
	f.p.Fetch(context.Background(), domain.FilterCriteria{RiskLevel: domain.RiskHigh})
	assert.Equal(t, domain.Stats{Total: 3, HighRisk: 3}, f.p.StateViews().Stats)
}

// --- export archive ---

func TestPipeline_ArchiveExport(t *testing.T) {
	arch := &mockArchive{}
	f := newFixture(t, pipeline.Options{Archive: arch})

	res, err := f.p.ArchiveExport(context.Background(), pipeline.Query{Criteria: domain.FilterCriteria{ICAOCodes: []string{"YSSY"}}})
	require.NoError(t, err)

	assert.Equal(t, "notams-2025-07-31.csv", res.Name)
	assert.Equal(t, "s3://exports/notams-2025-07-31.csv", res.Location)
	assert.Equal(t, 1, res.Records)
	assert.True(t, strings.HasPrefix(string(arch.body), "ID,ICAO,Airport"))
	assert.Contains(t, string(arch.body), `"F2468/25","YSSY"`)
}

func TestPipeline_ArchiveExportErrors(t *testing.T) {
	f := newFixture(t, pipeline.Options{})
	_, err := f.p.ArchiveExport(context.Background(), pipeline.Query{})
	require.ErrorIs(t, err, pipeline.ErrNoArchive)

	f = newFixture(t, pipeline.Options{Archive: &mockArchive{err: errors.New("access denied")}})
	_, err = f.p.ArchiveExport(context.Background(), pipeline.Query{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "archive export: access denied")
}

// --- run loop ---

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	f := newFixture(t, pipeline.Options{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- f.p.Run(ctx) }()

	require.Eventually(t, func() bool { return f.p.CheckReadiness(ctx) == nil }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestPipeline_Run_AutoRefresh(t *testing.T) {
	f := newFixture(t, pipeline.Options{RefreshInterval: 5 * time.Minute})
	f.p.Fetch(context.Background(), domain.FilterCriteria{RiskLevel: domain.RiskHigh})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- f.p.Run(ctx) }()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), time.Second)
	defer waitCancel()
	require.NoError(t, f.clock.BlockUntilContext(waitCtx, 1))

	f.clock.Advance(5 * time.Minute)
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(f.metrics.FetchesTotal) == 2
	}, time.Second, 5*time.Millisecond)

	st := f.p.Current()
	assert.Equal(t, domain.RiskHigh, st.Criteria.RiskLevel)
	assert.Equal(t, testStart.Add(5*time.Minute), st.LastUpdate)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.AutoRefresh), 0)

	cancel()
	require.NoError(t, <-done)
}

func TestNotam_LooksUpFullStore(t *testing.T) {
	f := newFixture(t, pipeline.Options{})
	f.p.Fetch(context.Background(), domain.FilterCriteria{ICAOCodes: []string{"KJFK"}})

	n, ok := f.p.Notam("E7890/25")
	require.True(t, ok, "lookup ignores the current working set")
	assert.Equal(t, "OMDB", n.ICAO)

	_, ok = f.p.Notam("Z0000/25")
	assert.False(t, ok)
}
