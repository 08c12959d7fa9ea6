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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mosaic/platform/shared/types"
)

func boolPtr(b bool) *bool {
	return &b
}

func querySnapshot() types.Snapshot {
	return types.Snapshot{
		{
			Name:        "user-module",
			DisplayName: "User Management",
			Type:        types.ModuleTypeBusiness,
			Description: "User list and CRUD",
			HasBackend:  true,
			HasFrontend: true,
		},
		{
			Name:        "order-module",
			DisplayName: "Orders",
			Type:        types.ModuleTypeBusiness,
			Description: "Order processing",
			HasBackend:  true,
		},
		{
			Name:        "admin-module",
			DisplayName: "Admin Console",
			Type:        types.ModuleTypeTool,
			Enabled:     boolPtr(false),
			HasFrontend: true,
		},
		{
			Name:        "shell-module",
			DisplayName: "Shell",
			Type:        types.ModuleTypeCore,
			HasFrontend: true,
		},
	}
}

func TestFilter_Apply(t *testing.T) {
	snapshot := querySnapshot()

	tests := []struct {
		name     string
		filter   Filter
		expected []string
	}{
		{
			name:     "no criteria returns all",
			filter:   Filter{},
			expected: []string{"user-module", "order-module", "admin-module", "shell-module"},
		},
		{
			name:     "by type",
			filter:   Filter{Type: "business"},
			expected: []string{"user-module", "order-module"},
		},
		{
			name:     "by enabled",
			filter:   Filter{Enabled: boolPtr(true)},
			expected: []string{"user-module", "order-module", "shell-module"},
		},
		{
			name:     "by disabled",
			filter:   Filter{Enabled: boolPtr(false)},
			expected: []string{"admin-module"},
		},
		{
			name:     "search matches name case-insensitively",
			filter:   Filter{Search: "ORDER"},
			expected: []string{"order-module"},
		},
		{
			name:     "search matches displayName",
			filter:   Filter{Search: "console"},
			expected: []string{"admin-module"},
		},
		{
			name:     "search matches description",
			filter:   Filter{Search: "crud"},
			expected: []string{"user-module"},
		},
		{
			name:     "combined criteria",
			filter:   Filter{Type: "business", Search: "user"},
			expected: []string{"user-module"},
		},
		{
			name:     "no match",
			filter:   Filter{Search: "nonexistent"},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.filter.Apply(snapshot)
			names := make([]string, 0, len(result))
			for _, m := range result {
				names = append(names, m.Name)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestComputeStats(t *testing.T) {
	stats := ComputeStats(querySnapshot())

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.Enabled)
	assert.Equal(t, 1, stats.Disabled)
	assert.Equal(t, 2, stats.WithBackend)
	assert.Equal(t, 3, stats.WithFrontend)

	require.NotNil(t, stats.ByType)
	assert.Equal(t, 2, stats.ByType["business"])
	assert.Equal(t, 1, stats.ByType["tool"])
	assert.Equal(t, 1, stats.ByType["core"])
}

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(types.Snapshot{})
	assert.Equal(t, 0, stats.Total)
	assert.Empty(t, stats.ByType)
}
