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
	"fmt"
	"net/http"
	"strings"
	"time"

	"mosaic/platform/shared/types"
)

// DiscoveryClient fetches module snapshots from the registry service
type DiscoveryClient struct {
	baseURL string
	client  *http.Client
}

// NewDiscoveryClient creates a discovery client for the registry at baseURL
func NewDiscoveryClient(baseURL string, timeout time.Duration) *DiscoveryClient {
	return &DiscoveryClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the configured registry URL
func (c *DiscoveryClient) BaseURL() string {
	return c.baseURL
}

// FetchModules retrieves the current module snapshot from the registry.
// Any transport or decoding failure is returned as-is; callers treat every
// error as discovery-unavailable and keep their previous route table.
func (c *DiscoveryClient) FetchModules(ctx context.Context) ([]types.ModuleDescriptor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/modules", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build discovery request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry returned status %d", resp.StatusCode)
	}

	var modules []types.ModuleDescriptor
	if err := json.NewDecoder(resp.Body).Decode(&modules); err != nil {
		return nil, fmt.Errorf("failed to decode registry response: %w", err)
	}

	return modules, nil
}
