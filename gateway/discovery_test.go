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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mosaic/platform/shared/types"
)

// newRegistryStub serves a fixed module snapshot on /api/modules
func newRegistryStub(t *testing.T, modules []types.ModuleDescriptor) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/modules" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(modules))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchModules(t *testing.T) {
	registry := newRegistryStub(t, []types.ModuleDescriptor{
		backendModule("user-module", "http://users:9001", "/api/users"),
		{Name: "theme-module", DisplayName: "Theme"},
	})

	client := NewDiscoveryClient(registry.URL, 2*time.Second)
	modules, err := client.FetchModules(context.Background())

	require.NoError(t, err)
	require.Len(t, modules, 2)
	assert.Equal(t, "user-module", modules[0].Name)
	require.NotNil(t, modules[0].Backend)
	assert.Equal(t, "http://users:9001", modules[0].Backend.URL)
	assert.Nil(t, modules[1].Backend)
}

func TestFetchModules_TrailingSlashTrimmed(t *testing.T) {
	registry := newRegistryStub(t, nil)

	client := NewDiscoveryClient(registry.URL+"/", 2*time.Second)
	assert.Equal(t, registry.URL, client.BaseURL())

	_, err := client.FetchModules(context.Background())
	assert.NoError(t, err)
}

func TestFetchModules_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := NewDiscoveryClient(server.URL, 2*time.Second)
	_, err := client.FetchModules(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestFetchModules_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewDiscoveryClient(server.URL, 1*time.Second)
	_, err := client.FetchModules(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "registry unreachable")
}

func TestFetchModules_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	t.Cleanup(server.Close)

	client := NewDiscoveryClient(server.URL, 2*time.Second)
	_, err := client.FetchModules(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestFetchModules_ContextCancelled(t *testing.T) {
	registry := newRegistryStub(t, nil)

	client := NewDiscoveryClient(registry.URL, 2*time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchModules(ctx)
	assert.Error(t, err)
}
