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
	"strings"

	"mosaic/platform/shared/types"
)

// Filter selects modules from a snapshot. Zero-value fields are ignored.
type Filter struct {
	Type    string
	Enabled *bool
	Search  string
}

// Apply returns the modules matching every set criterion, in snapshot order.
// Search is a case-insensitive substring match against name, displayName and
// description; any field matching is sufficient.
func (f Filter) Apply(snapshot types.Snapshot) types.Snapshot {
	result := make(types.Snapshot, 0, len(snapshot))

	search := strings.ToLower(f.Search)

	for _, m := range snapshot {
		if f.Type != "" && m.Type.String() != f.Type {
			continue
		}
		if f.Enabled != nil && m.IsEnabled() != *f.Enabled {
			continue
		}
		if search != "" && !matchesSearch(&m, search) {
			continue
		}
		result = append(result, m)
	}

	return result
}

// matchesSearch reports whether the lowercased needle occurs in any of the
// module's searchable fields
func matchesSearch(m *types.ModuleDescriptor, needle string) bool {
	return strings.Contains(strings.ToLower(m.Name), needle) ||
		strings.Contains(strings.ToLower(m.DisplayName), needle) ||
		strings.Contains(strings.ToLower(m.Description), needle)
}

// Stats aggregates counts over a snapshot
type Stats struct {
	Total        int            `json:"total"`
	Enabled      int            `json:"enabled"`
	Disabled     int            `json:"disabled"`
	WithBackend  int            `json:"withBackend"`
	WithFrontend int            `json:"withFrontend"`
	ByType       map[string]int `json:"byType"`
}

// ComputeStats aggregates the given snapshot
func ComputeStats(snapshot types.Snapshot) Stats {
	stats := Stats{
		ByType: make(map[string]int),
	}

	for _, m := range snapshot {
		stats.Total++
		if m.IsEnabled() {
			stats.Enabled++
		} else {
			stats.Disabled++
		}
		if m.HasBackend {
			stats.WithBackend++
		}
		if m.HasFrontend {
			stats.WithFrontend++
		}
		stats.ByType[m.Type.String()]++
	}

	return stats
}
