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
Package registry provides the Mosaic Registry service: a module catalog
built by scanning a directory of declarative descriptors.

# Overview

Each immediate subdirectory of the configured modules directory may carry a
module.yaml descriptor declaring the module's identity, its backend service
endpoint, and its micro-frontend entry point. The scanner walks the
directory, validates descriptors, probes for backend/ and frontend/
capability directories, and produces an immutable snapshot.

	Descriptor directory -> Scanner -> Cache -> HTTP API

# Scanning semantics

A directory without a descriptor is skipped silently; plain directories may
coexist with modules. A directory with a malformed descriptor is excluded
with a diagnostic and the scan continues: one broken module never hides the
others. Duplicate module names keep the first occurrence (directories are
walked in lexical order) and emit a diagnostic for the loser.

# Snapshot discipline

The cache publishes snapshots with copy-then-swap: a refresh builds the full
replacement before swapping it in, so concurrent readers always observe
either the fully-old or the fully-new snapshot. A failed refresh leaves the
active snapshot untouched. If the very first scan fails the registry starts
empty instead of refusing to start.

# HTTP API

	GET  /api/modules?type=&enabled=&search=
	GET  /api/modules/{name}
	GET  /api/stats
	POST /api/refresh
	GET  /health
	GET  /prometheus
*/
package registry
