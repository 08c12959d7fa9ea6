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

/*
Package gateway provides the Mosaic Gateway service: a dynamic reverse
proxy whose routing rules are derived from the module registry.

# Overview

The gateway polls the registry for the current module snapshot, builds a
route table (one prefix -> backend rule per enabled module with a backend
block), and forwards client traffic:

	Client -> Gateway (longest-prefix match, path rewrite) -> module backend

A request to /api/x/items routed by the rule {prefix: /api/x, target:
http://x:9000} is forwarded as http://x:9000/items, with headers
identifying the gateway and the resolved module injected on the way
through.

# Route table lifecycle

	Unbuilt -> Default (degraded) -> Live -> Live ...

If the registry is unreachable at startup, the gateway publishes a
hardcoded default table and stays serviceable in degraded mode. Each
periodic refresh publishes a new table only when both the fetch and the
build succeed; a failed refresh keeps the active table. Once a Live table
has been published the gateway never falls back to the default table.

# Failure isolation

Each forward is bounded by its own timeout. A backend that is down or slow
turns its own requests into 502 responses naming the module; requests
routed to other modules are unaffected.

# HTTP surface

	GET /health
	GET /api/gateway/status
	GET /prometheus
	*   (all other paths are matched against the route table)
*/
package gateway
