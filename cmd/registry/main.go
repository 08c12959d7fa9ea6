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

// Package main is the entry point for the Mosaic Registry service.
//
// The Registry scans a directory of module descriptors and serves the
// resulting catalog over HTTP for the gateway and the micro-frontend shell.
//
// Usage:
//
//	./registry
//
// Environment Variables:
//
//	PORT - HTTP server port (default: 8090)
//	MODULES_DIR - descriptor root directory (default: ./modules)
//	REGISTRY_RESCAN_INTERVAL - periodic rescan interval (default: 1m, 0 disables)
package main

import (
	"mosaic/platform/registry"
)

func main() {
	registry.Run()
}
