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
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// Configuration defaults
const (
	defaultPort            = "8080"
	defaultRegistryURL     = "http://localhost:8090"
	defaultRefreshInterval = 30 * time.Second
	defaultProxyTimeout    = 5 * time.Second
	defaultUserServiceURL  = "http://localhost:9001"

	discoveryTimeout = 10 * time.Second
	shutdownTimeout  = 10 * time.Second
)

// defaultRouteTable returns the hardcoded fallback routes served while the
// registry is unreachable. Targets are overridable so degraded mode still
// points at the right hosts per environment.
func defaultRouteTable() *RouteTable {
	return NewStaticRouteTable([]RouteRule{
		{
			Prefix:        "/api/users",
			TargetBaseURL: getEnv("USER_SERVICE_URL", defaultUserServiceURL),
			ModuleName:    "user-module",
		},
	})
}

// Run is the exported entry point for the gateway service. It builds the
// initial route table (falling back to default routes if the registry is
// down), starts the periodic table refresh, and proxies traffic until
// SIGINT/SIGTERM.
func Run() {
	port := getEnv("PORT", defaultPort)
	registryURL := getEnv("REGISTRY_URL", defaultRegistryURL)
	refreshInterval := getEnvDuration("GATEWAY_REFRESH_INTERVAL", defaultRefreshInterval)
	proxyTimeout := getEnvDuration("GATEWAY_PROXY_TIMEOUT", defaultProxyTimeout)

	forwarder := NewForwarder(proxyTimeout)
	discovery := NewDiscoveryClient(registryURL, discoveryTimeout)
	gw := NewGateway(forwarder, discovery)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootCtx, cancel := context.WithTimeout(ctx, discoveryTimeout)
	gw.Bootstrap(bootCtx, defaultRouteTable())
	cancel()

	gw.StartPeriodicRefresh(ctx, refreshInterval)

	router := mux.NewRouter()
	router.HandleFunc("/health", gw.HandleHealth).Methods("GET")
	router.HandleFunc("/api/gateway/status", gw.HandleStatus).Methods("GET")
	router.Handle("/prometheus", promhttp.Handler()).Methods("GET")

	// Everything else is matched against the route table
	router.PathPrefix("/").Handler(forwarder)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: corsMiddleware.Handler(router),
	}

	go func() {
		log.Printf("Mosaic Gateway listening on port %s (registry: %s)", port, registryURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down gateway...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Invalid %s %q, using default %v", key, raw, defaultValue)
		return defaultValue
	}
	return d
}
