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
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"mosaic/platform/shared/logger"
)

// Headers injected into every forwarded request
const (
	headerForwardedBy = "X-Forwarded-By"
	headerModule      = "X-Mosaic-Module"
	headerRequestID   = "X-Request-ID"

	gatewayName = "mosaic-gateway"
)

// Prometheus metrics for the proxy hot path
var (
	proxyRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mosaic_gateway_requests_total",
			Help: "Total number of requests handled by the gateway",
		},
		[]string{"module", "status"},
	)

	proxyRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mosaic_gateway_request_duration_seconds",
			Help:    "Duration of proxied requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"module"},
	)

	routeTableSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mosaic_gateway_route_table_size",
			Help: "Number of rules in the active route table",
		},
	)
)

// hopByHopHeaders are connection-level headers that must not be forwarded
var hopByHopHeaders = map[string]bool{
	"Connection":          true,
	"Keep-Alive":          true,
	"Proxy-Authenticate":  true,
	"Proxy-Authorization": true,
	"Te":                  true,
	"Trailer":             true,
	"Transfer-Encoding":   true,
	"Upgrade":             true,
}

// Forwarder is the gateway's hot path: it resolves each inbound request
// against the active route table, rewrites the path, and streams the
// backend's response back. The route table pointer is the only shared
// mutable state; SetTable swaps it wholesale so requests in flight keep the
// table they started with.
type Forwarder struct {
	mu    sync.RWMutex
	table *RouteTable

	client *http.Client
	log    *logger.Logger
}

// NewForwarder creates a forwarder with an empty route table. Every
// forwarded request is bounded by timeout; a backend that exceeds it costs
// that one request a 502, nothing more.
func NewForwarder(timeout time.Duration) *Forwarder {
	return &Forwarder{
		table:  NewStaticRouteTable(nil),
		client: &http.Client{Timeout: timeout},
		log:    logger.New("gateway"),
	}
}

// Table returns the active route table
func (f *Forwarder) Table() *RouteTable {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.table
}

// SetTable atomically replaces the active route table
func (f *Forwarder) SetTable(table *RouteTable) {
	f.mu.Lock()
	f.table = table
	f.mu.Unlock()
	routeTableSize.Set(float64(table.Size()))
}

// ServeHTTP resolves, rewrites and forwards one request
func (f *Forwarder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := uuid.NewString()

	rule, remainder, ok := f.Table().Match(r.URL.Path)
	if !ok {
		proxyRequestsTotal.WithLabelValues("none", "404").Inc()
		f.log.Request(logger.WARN, requestID, "", "No route for path", map[string]interface{}{
			"path": r.URL.Path,
		})
		writeProxyError(w, http.StatusNotFound, "route_not_found",
			"no route matches "+r.URL.Path, "")
		return
	}

	target := rule.TargetBaseURL + remainder
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, r.Body)
	if err != nil {
		proxyRequestsTotal.WithLabelValues(rule.ModuleName, "502").Inc()
		f.log.RequestError(requestID, rule.ModuleName, "Failed to build upstream request", http.StatusBadGateway, err, nil)
		writeProxyError(w, http.StatusBadGateway, "proxy_target_unreachable", err.Error(), rule.ModuleName)
		return
	}

	copyHeaders(req.Header, r.Header)
	req.Header.Set(headerForwardedBy, gatewayName)
	req.Header.Set(headerModule, rule.ModuleName)
	req.Header.Set(headerRequestID, requestID)

	resp, err := f.client.Do(req)
	if err != nil {
		// Scoped to this one request; other modules are unaffected
		proxyRequestsTotal.WithLabelValues(rule.ModuleName, "502").Inc()
		f.log.RequestError(requestID, rule.ModuleName, "Backend unreachable", http.StatusBadGateway, err, map[string]interface{}{
			"target": target,
		})
		writeProxyError(w, http.StatusBadGateway, "proxy_target_unreachable", err.Error(), rule.ModuleName)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	copyHeaders(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		log.Printf("Error streaming response body: %v", err)
	}

	proxyRequestsTotal.WithLabelValues(rule.ModuleName, strconv.Itoa(resp.StatusCode)).Inc()
	proxyRequestDuration.WithLabelValues(rule.ModuleName).Observe(time.Since(start).Seconds())

	f.log.Request(logger.DEBUG, requestID, rule.ModuleName, "Forwarded request", map[string]interface{}{
		"path":        r.URL.Path,
		"target":      target,
		"status":      resp.StatusCode,
		"duration_ms": float64(time.Since(start).Milliseconds()),
	})
}

// copyHeaders copies all non-hop-by-hop headers from src to dst
func copyHeaders(dst, src http.Header) {
	for key, values := range src {
		if hopByHopHeaders[http.CanonicalHeaderKey(key)] {
			continue
		}
		for _, v := range values {
			dst.Add(key, v)
		}
	}
}

// ProxyErrorResponse is the structured error body returned for 404/502
type ProxyErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Module  string `json:"module,omitempty"`
}

func writeProxyError(w http.ResponseWriter, status int, code, message, module string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ProxyErrorResponse{
		Error:   code,
		Message: message,
		Module:  module,
	}); err != nil {
		log.Printf("Error encoding proxy error response: %v", err)
	}
}
