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

package gateway

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"mosaic/platform/shared/logger"
)

// Prometheus metrics for route table refresh operations
var (
	tableRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mosaic_gateway_table_refresh_total",
			Help: "Total number of route table refresh attempts",
		},
		[]string{"status"},
	)

	tableRefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mosaic_gateway_table_refresh_duration_seconds",
			Help:    "Duration of route table refresh attempts",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Gateway hosts the forwarder and keeps its route table fresh from the
// registry. The table lifecycle is:
//
//	Unbuilt -> Default (discovery down at startup) -> Live -> Live ...
//
// Once a table built from a snapshot has been published there is no
// transition back to the default table; a failed refresh keeps the active
// table, whatever its source.
type Gateway struct {
	forwarder *Forwarder
	discovery *DiscoveryClient
	log       *logger.Logger

	mu            sync.RWMutex
	lastRefresh   time.Time
	refreshCount  int64
	refreshFailed int64
}

// NewGateway wires a forwarder to a discovery client
func NewGateway(forwarder *Forwarder, discovery *DiscoveryClient) *Gateway {
	return &Gateway{
		forwarder: forwarder,
		discovery: discovery,
		log:       logger.New("gateway"),
	}
}

// Forwarder returns the hosted forwarder
func (g *Gateway) Forwarder() *Forwarder {
	return g.forwarder
}

// Bootstrap builds the initial route table. If discovery is unreachable the
// gateway publishes the given fallback table and serves in degraded mode
// rather than refusing all traffic.
func (g *Gateway) Bootstrap(ctx context.Context, fallback *RouteTable) {
	if err := g.RefreshTable(ctx); err != nil {
		g.log.Error("Discovery unavailable at startup, using default routes", err, map[string]interface{}{
			"registry": g.discovery.BaseURL(),
			"routes":   fallback.Size(),
		})
		g.forwarder.SetTable(fallback)
	}
}

// RefreshTable fetches a snapshot, builds a candidate table, and publishes
// it only if both steps succeed. On any failure the active table is left
// untouched.
func (g *Gateway) RefreshTable(ctx context.Context) error {
	start := time.Now()

	modules, err := g.discovery.FetchModules(ctx)
	if err != nil {
		tableRefreshTotal.WithLabelValues("error").Inc()
		g.mu.Lock()
		g.refreshFailed++
		g.mu.Unlock()
		return err
	}

	candidate := BuildRouteTable(modules)
	for _, c := range candidate.Conflicts() {
		g.log.Warn("Duplicate route prefix, keeping first module", map[string]interface{}{
			"prefix": c.Prefix,
			"kept":   c.Kept,
			"lost":   c.Lost,
		})
	}

	previous := g.forwarder.Table()
	g.forwarder.SetTable(candidate)

	g.mu.Lock()
	g.lastRefresh = time.Now()
	g.refreshCount++
	g.mu.Unlock()

	tableRefreshTotal.WithLabelValues("success").Inc()
	tableRefreshDuration.Observe(time.Since(start).Seconds())

	if !candidate.Equal(previous) {
		g.log.Info("Route table updated", map[string]interface{}{
			"routes":    candidate.Size(),
			"conflicts": len(candidate.Conflicts()),
		})
	}

	return nil
}

// StartPeriodicRefresh refreshes the route table on a fixed interval until
// ctx is cancelled. A failed attempt is logged and the active table stays
// up; the gateway never blanks out working routes because one poll failed.
func (g *Gateway) StartPeriodicRefresh(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		g.log.Info("Periodic route refresh disabled", nil)
		return
	}

	g.log.Info("Starting periodic route refresh", map[string]interface{}{
		"interval": interval.String(),
		"registry": g.discovery.BaseURL(),
	})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				g.log.Info("Stopping periodic route refresh", nil)
				return
			case <-ticker.C:
				if err := g.RefreshTable(ctx); err != nil {
					g.log.Error("Route refresh failed, keeping active table", err, nil)
				}
			}
		}
	}()
}

// StatusResponse is the body returned by GET /api/gateway/status
type StatusResponse struct {
	Service       string      `json:"service"`
	Registry      string      `json:"registry"`
	TableSource   TableSource `json:"tableSource"`
	Routes        []RouteRule `json:"routes"`
	TableBuiltAt  time.Time   `json:"tableBuiltAt"`
	LastRefresh   *time.Time  `json:"lastRefresh,omitempty"`
	RefreshCount  int64       `json:"refreshCount"`
	RefreshFailed int64       `json:"refreshFailed"`
}

// HandleStatus handles GET /api/gateway/status
func (g *Gateway) HandleStatus(w http.ResponseWriter, r *http.Request) {
	table := g.forwarder.Table()

	g.mu.RLock()
	status := StatusResponse{
		Service:       gatewayName,
		Registry:      g.discovery.BaseURL(),
		TableSource:   table.Source(),
		Routes:        table.Rules(),
		TableBuiltAt:  table.BuiltAt().UTC(),
		RefreshCount:  g.refreshCount,
		RefreshFailed: g.refreshFailed,
	}
	if !g.lastRefresh.IsZero() {
		t := g.lastRefresh.UTC()
		status.LastRefresh = &t
	}
	g.mu.RUnlock()

	writeJSON(w, http.StatusOK, status)
}

// HandleHealth handles GET /health
func (g *Gateway) HandleHealth(w http.ResponseWriter, r *http.Request) {
	table := g.forwarder.Table()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   gatewayName,
		"timestamp": time.Now().UTC(),
		"routes":    table.Size(),
		"degraded":  table.Source() == TableSourceDefault,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
