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

// Package main is the entry point for the Mosaic Gateway service.
//
// The Gateway derives its routing rules from the Registry and forwards
// client traffic to the matching module backend.
//
// Usage:
//
//	./gateway
//
// Environment Variables:
//
//	PORT - HTTP server port (default: 8080)
//	REGISTRY_URL - URL of the Registry service (default: http://localhost:8090)
//	GATEWAY_REFRESH_INTERVAL - route table refresh interval (default: 30s, 0 disables)
//	GATEWAY_PROXY_TIMEOUT - per-request forward timeout (default: 5s)
//	USER_SERVICE_URL - fallback route target for degraded mode (default: http://localhost:9001)
package main

import (
	"mosaic/platform/gateway"
)

func main() {
	gateway.Run()
}
