package sources

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/notam-feed-service/internal/domain"
	"github.com/couchcryptid/notam-feed-service/internal/observability"
)

// Monitor holds the runtime status of every registered source.
type Monitor struct {
	registry  *domain.SourceRegistry
	connector Connector
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics

	mu     sync.RWMutex
	status map[string]domain.SourceStatus
}

// NewMonitor creates a Monitor with every source in the connecting state.
// A nil connector marks all sources disabled.
func NewMonitor(registry *domain.SourceRegistry, connector Connector, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Monitor {
	initial := domain.StatusConnecting
	if connector == nil {
		initial = domain.StatusDisabled
	}
	status := make(map[string]domain.SourceStatus)
	for _, d := range registry.Descriptors() {
		status[d.Key] = domain.SourceStatus{SourceDescriptor: d, Status: initial}
	}
	return &Monitor{
		registry:  registry,
		connector: connector,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
		status:    status,
	}
}

// ConnectAll attempts each source in registry order, one at a time, and
// returns the number connected. Once ctx is cancelled, the source in
// flight and every source not yet attempted are marked as errored.
func (m *Monitor) ConnectAll(ctx context.Context) int {
	if m.connector == nil {
		return 0
	}
	for _, d := range m.registry.Descriptors() {
		if ctx.Err() != nil {
			m.set(domain.SourceStatus{SourceDescriptor: d, Status: domain.StatusError})
			continue
		}
		m.connectOne(ctx, d)
	}
	return m.ConnectedCount()
}

func (m *Monitor) connectOne(ctx context.Context, d domain.SourceDescriptor) {
	m.set(domain.SourceStatus{SourceDescriptor: d, Status: domain.StatusConnecting})

	err := m.connector.Connect(ctx, d)
	if err != nil {
		if ctx.Err() != nil {
			m.logger.Info("source connection cancelled", "source", d.Key)
			m.set(domain.SourceStatus{SourceDescriptor: d, Status: domain.StatusError})
			return
		}
		m.logger.Warn("source connection failed", "source", d.Key, "error", err)
		m.metrics.SourceConnects.WithLabelValues(d.Key, "error").Inc()
		m.set(domain.SourceStatus{SourceDescriptor: d, Status: domain.StatusError})
		return
	}

	now := m.clock.Now()
	m.logger.Info("source connected", "source", d.Key)
	m.metrics.SourceConnects.WithLabelValues(d.Key, "connected").Inc()
	m.set(domain.SourceStatus{SourceDescriptor: d, Connected: true, Status: domain.StatusConnected, LastUpdate: &now})
}

func (m *Monitor) set(s domain.SourceStatus) {
	m.mu.Lock()
	m.status[s.Key] = s
	connected := m.connectedLocked()
	m.mu.Unlock()
	m.metrics.SourcesConnected.Set(float64(connected))
}

// Snapshot returns the status of every source in registry order.
func (m *Monitor) Snapshot() []domain.SourceStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := m.registry.Keys()
	out := make([]domain.SourceStatus, 0, len(keys))
	for _, k := range keys {
		s := m.status[k]
		if s.LastUpdate != nil {
			t := *s.LastUpdate
			s.LastUpdate = &t
		}
		out = append(out, s)
	}
	return out
}

// ConnectedCount returns how many sources are connected.
func (m *Monitor) ConnectedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connectedLocked()
}

func (m *Monitor) connectedLocked() int {
	n := 0
	for _, s := range m.status {
		if s.Connected {
			n++
		}
	}
	return n
}
