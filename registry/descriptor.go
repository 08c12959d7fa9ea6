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
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"mosaic/platform/shared/types"
)

// DescriptorFileName is the descriptor file looked up in each module directory
const DescriptorFileName = "module.yaml"

// MaxDescriptorSize caps descriptor files to guard against accidentally
// pointing the scanner at a directory of large files
const MaxDescriptorSize = 256 * 1024

// LoadDescriptor loads and parses a module descriptor file
func LoadDescriptor(path string) (*types.ModuleDescriptor, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat descriptor %s: %w", path, err)
	}
	if info.Size() > MaxDescriptorSize {
		return nil, fmt.Errorf("descriptor %s too large: %d bytes (max %d)", path, info.Size(), MaxDescriptorSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor %s: %w", path, err)
	}

	return ParseDescriptor(data)
}

// ParseDescriptor parses YAML data into a ModuleDescriptor
func ParseDescriptor(data []byte) (*types.ModuleDescriptor, error) {
	var desc types.ModuleDescriptor
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ValidateDescriptor(&desc); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	normalizeDescriptor(&desc)

	return &desc, nil
}

// ValidateDescriptor validates a module descriptor for correctness
func ValidateDescriptor(desc *types.ModuleDescriptor) error {
	if desc == nil {
		return fmt.Errorf("descriptor is nil")
	}

	if desc.Name == "" {
		return fmt.Errorf("name is required")
	}

	if !isValidIdentifier(desc.Name) {
		return fmt.Errorf("name '%s' is invalid: must be lowercase alphanumeric with hyphens", desc.Name)
	}

	if desc.DisplayName == "" {
		return fmt.Errorf("displayName is required")
	}

	if desc.Backend != nil {
		if err := validateBackend(desc.Backend); err != nil {
			return fmt.Errorf("backend invalid: %w", err)
		}
	}

	if desc.Frontend != nil {
		if err := validateFrontend(desc.Frontend); err != nil {
			return fmt.Errorf("frontend invalid: %w", err)
		}
	}

	return nil
}

// validateBackend validates the backend block
func validateBackend(backend *types.BackendSpec) error {
	if backend.URL == "" {
		return fmt.Errorf("url is required")
	}

	parsed, err := url.Parse(backend.URL)
	if err != nil {
		return fmt.Errorf("url '%s' is not a valid URL: %w", backend.URL, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("url '%s' must use http or https", backend.URL)
	}

	if parsed.Host == "" {
		return fmt.Errorf("url '%s' has no host", backend.URL)
	}

	if backend.Prefix != "" && !strings.HasPrefix(backend.Prefix, "/") {
		return fmt.Errorf("prefix '%s' must start with /", backend.Prefix)
	}

	return nil
}

// validateFrontend validates the frontend block
func validateFrontend(frontend *types.FrontendSpec) error {
	if frontend.Entry == "" {
		return fmt.Errorf("entry is required")
	}

	return nil
}

// normalizeDescriptor fills defaults after successful validation
func normalizeDescriptor(desc *types.ModuleDescriptor) {
	if desc.Type == "" {
		desc.Type = types.ModuleTypeUnknown
	}

	if desc.Backend != nil {
		// Trailing slashes would break prefix stripping in the gateway
		desc.Backend.URL = strings.TrimRight(desc.Backend.URL, "/")
		if desc.Backend.Prefix != "/" {
			desc.Backend.Prefix = strings.TrimRight(desc.Backend.Prefix, "/")
		}
	}
}

// isValidIdentifier checks if a string is a valid module name
// (lowercase alphanumeric with hyphens, not starting with a hyphen)
func isValidIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, c := range s {
		if c >= 'a' && c <= 'z' {
			continue
		}
		if c >= '0' && c <= '9' {
			continue
		}
		if c == '-' {
			if i == 0 {
				return false
			}
			continue
		}
		return false
	}

	return true
}
