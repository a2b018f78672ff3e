package sources

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/notam-feed-service/internal/domain"
	"github.com/couchcryptid/notam-feed-service/internal/observability"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRegistry() *domain.SourceRegistry {
	return domain.NewSourceRegistry([]domain.SourceDescriptor{
		{Key: "nasa", Name: "NASA NOTAM API", URL: "https://dip.amesaero.nasa.gov"},
		{Key: "faa", Name: "FAA SWIM Portal", URL: "https://portal.swim.faa.gov", AuthRequired: true},
		{Key: "icao", Name: "ICAO API", URL: "https://api.icao.int", AuthRequired: true},
	})
}

type scriptedConnector struct {
	failures map[string]error
	calls    []string
}

func (c *scriptedConnector) Connect(_ context.Context, src domain.SourceDescriptor) error {
	c.calls = append(c.calls, src.Key)
	return c.failures[src.Key]
}

func TestSimulated_Draw(t *testing.T) {
	s := NewSimulated(clockwork.NewFakeClock(), 0, 0.85)

	s.draw = func() float64 { return 0.84 }
	require.NoError(t, s.Connect(context.Background(), domain.SourceDescriptor{}))

	s.draw = func() float64 { return 0.85 }
	require.ErrorIs(t, s.Connect(context.Background(), domain.SourceDescriptor{}), ErrConnectFailed)
}

func TestSimulated_WaitsForDelay(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewSimulated(clock, 2*time.Second, 1)

	done := make(chan error, 1)
	go func() { done <- s.Connect(context.Background(), domain.SourceDescriptor{}) }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	select {
	case <-done:
		t.Fatal("connect returned before the delay elapsed")
	default:
	}

	clock.Advance(2 * time.Second)
	require.NoError(t, <-done)
}

func TestSimulated_ContextCancelled(t *testing.T) {
	s := NewSimulated(clockwork.NewFakeClock(), time.Minute, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, s.Connect(ctx, domain.SourceDescriptor{}), context.Canceled)
}

func TestMonitor_InitialStatus(t *testing.T) {
	m := NewMonitor(testRegistry(), &scriptedConnector{}, clockwork.NewFakeClock(), discardLogger(), observability.NewMetricsForTesting())

	snap := m.Snapshot()
	require.Len(t, snap, 3)
	for _, s := range snap {
		assert.Equal(t, domain.StatusConnecting, s.Status)
		assert.False(t, s.Connected)
		assert.Nil(t, s.LastUpdate)
	}
	assert.Equal(t, 0, m.ConnectedCount())
}

func TestMonitor_ConnectAll(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 7, 31, 9, 0, 0, 0, time.UTC))
	conn := &scriptedConnector{failures: map[string]error{"faa": errors.New("auth required")}}
	m := NewMonitor(testRegistry(), conn, clock, discardLogger(), observability.NewMetricsForTesting())

	connected := m.ConnectAll(context.Background())
	assert.Equal(t, 2, connected)
	assert.Equal(t, []string{"nasa", "faa", "icao"}, conn.calls)

	snap := m.Snapshot()
	require.Len(t, snap, 3)

	assert.Equal(t, "nasa", snap[0].Key)
	assert.True(t, snap[0].Connected)
	assert.Equal(t, domain.StatusConnected, snap[0].Status)
	require.NotNil(t, snap[0].LastUpdate)
	assert.Equal(t, clock.Now(), *snap[0].LastUpdate)

	assert.Equal(t, "faa", snap[1].Key)
	assert.False(t, snap[1].Connected)
	assert.Equal(t, domain.StatusError, snap[1].Status)
	assert.Nil(t, snap[1].LastUpdate)

	assert.Equal(t, domain.StatusConnected, snap[2].Status)
}

// cancellingConnector cancels the pass during its first attempt.
type cancellingConnector struct {
	cancel context.CancelFunc
	calls  int
}

func (c *cancellingConnector) Connect(ctx context.Context, _ domain.SourceDescriptor) error {
	c.calls++
	c.cancel()
	return ctx.Err()
}

func TestMonitor_CancelledPassLeavesNoSourceConnecting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	conn := &cancellingConnector{cancel: cancel}
	m := NewMonitor(testRegistry(), conn, clockwork.NewFakeClock(), discardLogger(), observability.NewMetricsForTesting())

	assert.Equal(t, 0, m.ConnectAll(ctx))
	assert.Equal(t, 1, conn.calls)
	for _, s := range m.Snapshot() {
		assert.Equal(t, domain.StatusError, s.Status, s.Key)
		assert.False(t, s.Connected)
	}
}

func TestMonitor_Disabled(t *testing.T) {
	m := NewMonitor(testRegistry(), nil, clockwork.NewFakeClock(), discardLogger(), observability.NewMetricsForTesting())

	assert.Equal(t, 0, m.ConnectAll(context.Background()))
	for _, s := range m.Snapshot() {
		assert.Equal(t, domain.StatusDisabled, s.Status)
	}
}

func TestMonitor_SnapshotIsCopy(t *testing.T) {
	m := NewMonitor(testRegistry(), &scriptedConnector{}, clockwork.NewFakeClock(), discardLogger(), observability.NewMetricsForTesting())
	m.ConnectAll(context.Background())

	snap := m.Snapshot()
	*snap[0].LastUpdate = time.Time{}
	assert.False(t, m.Snapshot()[0].LastUpdate.IsZero())
}
