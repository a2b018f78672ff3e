// Package probe checks that NOTAM provider endpoints answer HTTP requests.
// It implements sources.Connector for SOURCE_CONNECT_MODE=probe.
package probe

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/notam-feed-service/internal/domain"
	"github.com/couchcryptid/notam-feed-service/internal/observability"
)

// Client probes provider URLs with HEAD requests.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a probe client with a per-request timeout.
func NewClient(timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// Connect reports the provider reachable when it answers with any status
// below 500. Authentication failures still count as reachable.
func (c *Client) Connect(ctx context.Context, src domain.SourceDescriptor) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, src.URL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ProbeDuration.WithLabelValues(src.Key).Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("probe %s: %w", src.Key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("probe %s: status %d", src.Key, resp.StatusCode)
	}

	c.logger.Debug("source probe ok", "source", src.Key, "status", resp.StatusCode)
	return nil
}
