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
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"mosaic/platform/shared/logger"
)

// refreshTimeout bounds a manually triggered rescan
const refreshTimeout = 30 * time.Second

// APIHandler serves the registry's HTTP API over a Cache.
// All read endpoints are safe for concurrent use; they rely entirely on the
// cache's snapshot swap discipline and take no additional locks.
type APIHandler struct {
	cache *Cache
	log   *logger.Logger
}

// NewAPIHandler creates a new registry API handler
func NewAPIHandler(cache *Cache) *APIHandler {
	return &APIHandler{
		cache: cache,
		log:   logger.New("registry"),
	}
}

// RegisterRoutes registers the registry API routes:
//   - GET  /api/modules        - list modules (filters: type, enabled, search)
//   - GET  /api/modules/{name} - single module record
//   - GET  /api/stats          - aggregate counts
//   - POST /api/refresh        - trigger a rescan
//   - GET  /health             - liveness with module count
func (h *APIHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/modules", h.handleListModules).Methods("GET")
	r.HandleFunc("/api/modules/{name}", h.handleGetModule).Methods("GET")
	r.HandleFunc("/api/stats", h.handleStats).Methods("GET")
	r.HandleFunc("/api/refresh", h.handleRefresh).Methods("POST")
	r.HandleFunc("/health", h.handleHealth).Methods("GET")
}

// handleListModules handles GET /api/modules
func (h *APIHandler) handleListModules(w http.ResponseWriter, r *http.Request) {
	filter := Filter{
		Type:   r.URL.Query().Get("type"),
		Search: r.URL.Query().Get("search"),
	}

	if raw := r.URL.Query().Get("enabled"); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid_parameter", "enabled must be a boolean")
			return
		}
		filter.Enabled = &enabled
	}

	modules := filter.Apply(h.cache.Current())
	h.writeJSON(w, http.StatusOK, modules)
}

// handleGetModule handles GET /api/modules/{name}
func (h *APIHandler) handleGetModule(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	module := h.cache.Current().ByName(name)
	if module == nil {
		h.writeError(w, http.StatusNotFound, "module_not_found", "no module named '"+name+"'")
		return
	}

	h.writeJSON(w, http.StatusOK, module)
}

// handleStats handles GET /api/stats
func (h *APIHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, ComputeStats(h.cache.Current()))
}

// RefreshResponse is the body returned by POST /api/refresh
type RefreshResponse struct {
	Success     bool         `json:"success"`
	Count       int          `json:"count"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// handleRefresh handles POST /api/refresh. The rescan runs synchronously so
// the response can report the resulting module count, bounded by
// refreshTimeout.
func (h *APIHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), refreshTimeout)
	defer cancel()

	snapshot, err := h.cache.Refresh(ctx)
	if err != nil {
		h.writeError(w, http.StatusServiceUnavailable, "scan_failed", err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, RefreshResponse{
		Success:     true,
		Count:       len(snapshot),
		Diagnostics: h.cache.Diagnostics(),
	})
}

// handleHealth handles GET /health
func (h *APIHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	payload := map[string]interface{}{
		"status":    "healthy",
		"service":   "mosaic-registry",
		"timestamp": time.Now().UTC(),
		"modules":   h.cache.Current().Len(),
	}
	if last := h.cache.LastScan(); !last.IsZero() {
		payload["last_scan"] = last.UTC()
	}
	h.writeJSON(w, http.StatusOK, payload)
}

// ErrorResponse is the structured error body used by all registry endpoints
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func (h *APIHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}
