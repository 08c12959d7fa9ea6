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
	"sort"
	"strings"
	"time"

	"mosaic/platform/shared/types"
)

// TableSource identifies where the active route table came from
type TableSource string

const (
	// TableSourceDefault is the hardcoded fallback used when discovery is
	// unreachable at startup (degraded mode)
	TableSourceDefault TableSource = "default"
	// TableSourceDiscovery marks a table built from a registry snapshot
	TableSourceDiscovery TableSource = "discovery"
)

// RouteRule maps one path prefix to a backend base URL
type RouteRule struct {
	Prefix        string `json:"prefix"`
	TargetBaseURL string `json:"targetBaseUrl"`
	ModuleName    string `json:"moduleName"`
}

// PrefixConflict records a prefix claimed by more than one module. The
// first module in snapshot order keeps the prefix.
type PrefixConflict struct {
	Prefix string `json:"prefix"`
	Kept   string `json:"kept"`
	Lost   string `json:"lost"`
}

// RouteTable is an immutable prefix -> backend mapping. Rules are ordered
// longest prefix first so the first match is the longest match. Tables are
// built once and replaced wholesale; they are never mutated after
// publication.
type RouteTable struct {
	rules     []RouteRule
	conflicts []PrefixConflict
	source    TableSource
	builtAt   time.Time
}

// BuildRouteTable derives a route table from registry module records: one
// rule per enabled module with a backend URL. Disabled modules get no
// routes. Building is pure and deterministic; duplicate prefixes keep the
// first module in snapshot order and record a conflict.
func BuildRouteTable(modules []types.ModuleDescriptor) *RouteTable {
	rules := make([]RouteRule, 0, len(modules))
	var conflicts []PrefixConflict
	claimed := make(map[string]string) // prefix -> module that owns it

	for _, m := range modules {
		prefix := m.RoutePrefix()
		if prefix == "" || !m.IsEnabled() {
			continue
		}

		if owner, exists := claimed[prefix]; exists {
			conflicts = append(conflicts, PrefixConflict{
				Prefix: prefix,
				Kept:   owner,
				Lost:   m.Name,
			})
			continue
		}
		claimed[prefix] = m.Name

		rules = append(rules, RouteRule{
			Prefix:        prefix,
			TargetBaseURL: strings.TrimRight(m.Backend.URL, "/"),
			ModuleName:    m.Name,
		})
	}

	return newRouteTable(rules, conflicts, TableSourceDiscovery)
}

// NewStaticRouteTable builds a table from fixed rules, used for the
// degraded-mode fallback
func NewStaticRouteTable(rules []RouteRule) *RouteTable {
	return newRouteTable(rules, nil, TableSourceDefault)
}

func newRouteTable(rules []RouteRule, conflicts []PrefixConflict, source TableSource) *RouteTable {
	sorted := make([]RouteRule, len(rules))
	copy(sorted, rules)

	// Longest prefix first; ties broken lexically for determinism
	sort.SliceStable(sorted, func(i, j int) bool {
		if len(sorted[i].Prefix) != len(sorted[j].Prefix) {
			return len(sorted[i].Prefix) > len(sorted[j].Prefix)
		}
		return sorted[i].Prefix < sorted[j].Prefix
	})

	return &RouteTable{
		rules:     sorted,
		conflicts: conflicts,
		source:    source,
		builtAt:   time.Now(),
	}
}

// Match resolves a request path by longest-prefix match at path segment
// boundaries: /api/x matches /api/x and /api/x/items but not /api/xy. It
// returns the winning rule and the path remainder after stripping the
// prefix (always starting with /).
func (t *RouteTable) Match(path string) (*RouteRule, string, bool) {
	for i := range t.rules {
		prefix := t.rules[i].Prefix
		if path == prefix {
			return &t.rules[i], "/", true
		}
		if strings.HasPrefix(path, prefix+"/") {
			return &t.rules[i], path[len(prefix):], true
		}
	}
	return nil, "", false
}

// Rules returns a copy of the table's rules in match order
func (t *RouteTable) Rules() []RouteRule {
	rules := make([]RouteRule, len(t.rules))
	copy(rules, t.rules)
	return rules
}

// Conflicts returns prefixes claimed by more than one module
func (t *RouteTable) Conflicts() []PrefixConflict {
	return t.conflicts
}

// Size returns the number of rules in the table
func (t *RouteTable) Size() int {
	return len(t.rules)
}

// Source reports where the table came from
func (t *RouteTable) Source() TableSource {
	return t.source
}

// BuiltAt reports when the table was built
func (t *RouteTable) BuiltAt() time.Time {
	return t.builtAt
}

// Equal reports whether two tables route identically (same rules in the
// same order), ignoring build time and source
func (t *RouteTable) Equal(other *RouteTable) bool {
	if other == nil || len(t.rules) != len(other.rules) {
		return false
	}
	for i := range t.rules {
		if t.rules[i] != other.rules[i] {
			return false
		}
	}
	return true
}
