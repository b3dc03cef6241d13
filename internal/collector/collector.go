package collector

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"megaraid-health-check/internal/health"
	"megaraid-health-check/internal/metrics"
	"megaraid-health-check/pkg/types"
)

// Collector runs the health check periodically and publishes the result
type Collector struct {
	metrics    *metrics.Metrics
	service    *health.Service
	controller string
	options    health.Options
	interval   time.Duration
	version    string

	mu     sync.RWMutex
	latest *types.HealthResponse
}

// New creates a new collector
func New(m *metrics.Metrics, svc *health.Service, controller string, opts health.Options, interval time.Duration, version string) *Collector {
	return &Collector{
		metrics:    m,
		service:    svc,
		controller: controller,
		options:    opts,
		interval:   interval,
		version:    version,
	}
}

// Start begins the collection loop and returns when ctx is done
func (c *Collector) Start(ctx context.Context) {
	// Collect immediately on startup
	c.Collect(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Collect(ctx)
		}
	}
}

// Collect runs one fresh check and updates the metrics and the latest report.
// Nothing from a previous run is reused.
func (c *Collector) Collect(ctx context.Context) *types.HealthResponse {
	start := time.Now()
	logger := log.WithField("controller", c.controller)
	logger.Debug("Collecting RAID health...")

	snap, err := c.service.Check(ctx)

	var resp *types.HealthResponse
	if err != nil {
		logger.WithError(err).Warn("Health check failed")
		v := types.Verdict{Severity: types.SeverityUnknown, Reasons: []string{"Error: " + err.Error()}}
		c.metrics.Update(c.controller, nil, v)
		resp = health.Response(nil, v, c.version)
		resp.Controller = c.controller
		resp.Error = err.Error()
	} else {
		v := health.Classify(snap, c.options)
		c.metrics.Update(c.controller, snap, v)
		resp = health.Response(snap, v, c.version)
		logger.WithFields(log.Fields{
			"status":   resp.Status,
			"reasons":  v.Reasons,
			"duration": time.Since(start).String(),
		}).Info("Updated RAID health metrics")
	}
	c.metrics.MarkChecked(c.controller, float64(time.Now().Unix()))

	c.mu.Lock()
	c.latest = resp
	c.mu.Unlock()
	return resp
}

// Latest returns the report of the last completed check, or nil before the first one
func (c *Collector) Latest() *types.HealthResponse {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latest
}
