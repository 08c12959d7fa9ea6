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
	defaultPort           = "8090"
	defaultModulesDir     = "./modules"
	defaultRescanInterval = time.Minute
	shutdownTimeout       = 10 * time.Second
)

// Run is the exported entry point for the registry service. It performs the
// initial scan, starts the periodic rescan, and serves the registry API
// until SIGINT/SIGTERM.
func Run() {
	port := getEnv("PORT", defaultPort)
	modulesDir := getEnv("MODULES_DIR", defaultModulesDir)
	rescanInterval := getEnvDuration("REGISTRY_RESCAN_INTERVAL", defaultRescanInterval)

	// A missing descriptor root is the one unrecoverable startup error
	info, err := os.Stat(modulesDir)
	if err != nil || !info.IsDir() {
		log.Fatalf("MODULES_DIR %s is not a directory: %v", modulesDir, err)
	}

	scanner := NewScanner(modulesDir)
	cache := NewCache(scanner)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initial scan. A failure here is not fatal: the registry starts with an
	// empty snapshot and serves traffic while operators fix the descriptors.
	initCtx, cancel := context.WithTimeout(ctx, refreshTimeout)
	if _, err := cache.Refresh(initCtx); err != nil {
		log.Printf("Initial scan failed, starting with empty registry: %v", err)
	}
	cancel()

	cache.StartPeriodicRescan(ctx, rescanInterval)

	router := mux.NewRouter()
	NewAPIHandler(cache).RegisterRoutes(router)
	router.Handle("/prometheus", promhttp.Handler()).Methods("GET")

	// The micro-frontend shell consumes /api/modules cross-origin
	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: corsMiddleware.Handler(router),
	}

	go func() {
		log.Printf("Mosaic Registry listening on port %s (modules: %s)", port, modulesDir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down registry...")

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
