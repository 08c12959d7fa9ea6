// Copyright 2025 Mosaic
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package registry

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"mosaic/platform/shared/logger"
	"mosaic/platform/shared/types"
)

// Prometheus metrics for registry scans
var (
	scansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mosaic_registry_scans_total",
			Help: "Total number of module directory scans",
		},
		[]string{"status"},
	)

	scanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mosaic_registry_scan_duration_seconds",
			Help:    "Duration of module directory scans",
			Buckets: prometheus.DefBuckets,
		},
	)

	modulesGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mosaic_registry_modules",
			Help: "Number of modules in the current snapshot",
		},
	)

	diagnosticsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mosaic_registry_diagnostics",
			Help: "Number of diagnostics produced by the last scan",
		},
	)
)

// Cache holds the last successfully scanned snapshot. Readers get the
// published snapshot without blocking on writers: Refresh builds the full
// replacement off to the side and swaps it in under the lock, never mutating
// the snapshot already handed out.
type Cache struct {
	scanner *Scanner
	log     *logger.Logger

	mu          sync.RWMutex
	snapshot    types.Snapshot
	diagnostics []Diagnostic
	lastScan    time.Time
	scanCount   int64
}

// NewCache creates a cache backed by the given scanner. The cache starts
// with an empty snapshot; call Refresh to populate it.
func NewCache(scanner *Scanner) *Cache {
	return &Cache{
		scanner:  scanner,
		log:      logger.New("registry"),
		snapshot: types.Snapshot{},
	}
}

// Current returns the active snapshot. Never blocks on a concurrent Refresh.
func (c *Cache) Current() types.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// Diagnostics returns the diagnostics from the last successful scan
func (c *Cache) Diagnostics() []Diagnostic {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.diagnostics
}

// LastScan returns when the active snapshot was built. Zero until the first
// successful refresh.
func (c *Cache) LastScan() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastScan
}

// ScanCount returns how many successful refreshes have been performed
func (c *Cache) ScanCount() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scanCount
}

// Refresh runs a scan and, on success, atomically replaces the active
// snapshot. On failure the active snapshot is left untouched and the error
// is returned. The scan itself runs without holding the lock.
func (c *Cache) Refresh(ctx context.Context) (types.Snapshot, error) {
	start := time.Now()

	snapshot, diagnostics, err := c.scanner.Scan(ctx)
	if err != nil {
		scansTotal.WithLabelValues("error").Inc()
		c.log.Error("Scan failed, keeping previous snapshot", err, map[string]interface{}{
			"root": c.scanner.RootDir(),
		})
		return nil, err
	}

	c.mu.Lock()
	c.snapshot = snapshot
	c.diagnostics = diagnostics
	c.lastScan = time.Now()
	c.scanCount++
	c.mu.Unlock()

	scansTotal.WithLabelValues("success").Inc()
	scanDuration.Observe(time.Since(start).Seconds())
	modulesGauge.Set(float64(len(snapshot)))
	diagnosticsGauge.Set(float64(len(diagnostics)))

	c.log.InfoWithDuration("Scan completed", float64(time.Since(start).Milliseconds()), map[string]interface{}{
		"modules":     len(snapshot),
		"diagnostics": len(diagnostics),
	})

	return snapshot, nil
}

// StartPeriodicRescan starts a background goroutine that rescans the
// descriptor directory on a fixed interval until ctx is cancelled. A failed
// rescan is logged and the previous snapshot stays active.
func (c *Cache) StartPeriodicRescan(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		c.log.Info("Periodic rescan disabled", nil)
		return
	}

	c.log.Info("Starting periodic rescan", map[string]interface{}{
		"interval": interval.String(),
	})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				c.log.Info("Stopping periodic rescan", nil)
				return
			case <-ticker.C:
				if _, err := c.Refresh(ctx); err != nil {
					c.log.Error("Periodic rescan failed", err, nil)
				}
			}
		}
	}()
}
