// Package sources tracks the connection status of the NOTAM data providers.
// No records are ingested over these connections; the status is shown
// alongside the catalog and drives the connected-source count of a fetch.
package sources

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/notam-feed-service/internal/domain"
)

// ErrConnectFailed is returned by the simulated connector on a failed draw.
var ErrConnectFailed = errors.New("connection failed")

// Connector establishes (or pretends to establish) a connection to a provider.
type Connector interface {
	Connect(ctx context.Context, src domain.SourceDescriptor) error
}

// Simulated succeeds with a fixed probability after an optional delay.
type Simulated struct {
	clock        clockwork.Clock
	delay        time.Duration
	successRatio float64
	draw         func() float64
}

// NewSimulated creates a connector that succeeds with probability
// successRatio after waiting delay on clock.
func NewSimulated(clock clockwork.Clock, delay time.Duration, successRatio float64) *Simulated {
	return &Simulated{
		clock:        clock,
		delay:        delay,
		successRatio: successRatio,
		draw:         rand.Float64,
	}
}

// Connect waits for the configured delay and draws the outcome.
func (s *Simulated) Connect(ctx context.Context, _ domain.SourceDescriptor) error {
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.clock.After(s.delay):
		}
	}
	if s.draw() < s.successRatio {
		return nil
	}
	return ErrConnectFailed
}
