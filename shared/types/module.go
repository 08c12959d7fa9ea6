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

package types

// ModuleType categorizes a module. The set is open-ended: descriptors may
// declare types outside the known constants and are normalized to
// ModuleTypeUnknown only when the field is empty.
type ModuleType string

const (
	// ModuleTypeCore is for platform-level modules (shell, auth, navigation)
	ModuleTypeCore ModuleType = "core"
	// ModuleTypeBusiness is for domain feature modules
	ModuleTypeBusiness ModuleType = "business"
	// ModuleTypeTool is for internal tooling and admin modules
	ModuleTypeTool ModuleType = "tool"
	// ModuleTypeUnknown is the fallback when a descriptor omits the type
	ModuleTypeUnknown ModuleType = "unknown"
)

// String returns the string representation of the ModuleType
func (t ModuleType) String() string {
	return string(t)
}

// BackendSpec declares a module's backend service endpoint. A module with a
// backend block becomes a route in the gateway's route table.
type BackendSpec struct {
	// URL is the base URL of the backend service (e.g. http://users:9001)
	URL string `yaml:"url" json:"url"`

	// Prefix is the public path prefix routed to this backend.
	// When empty the registry derives /api/<name>.
	Prefix string `yaml:"prefix,omitempty" json:"prefix,omitempty"`
}

// FrontendSpec declares a module's micro-frontend entry point, consumed by
// the shell application. The registry records it verbatim; the gateway
// ignores it.
type FrontendSpec struct {
	// Entry is the URL of the front-end bundle to load
	Entry string `yaml:"entry" json:"entry"`

	// ActiveRule is the shell-side route under which the fragment mounts
	ActiveRule string `yaml:"activeRule,omitempty" json:"activeRule,omitempty"`
}

// ModuleDescriptor is one module's declarative record. The yaml tags describe
// the on-disk module.yaml format; the json tags describe the registry API
// wire format. HasBackend, HasFrontend and Path are derived by the scanner
// and never read from the file.
type ModuleDescriptor struct {
	Name        string        `yaml:"name" json:"name"`
	DisplayName string        `yaml:"displayName" json:"displayName"`
	Version     string        `yaml:"version,omitempty" json:"version,omitempty"`
	Type        ModuleType    `yaml:"type,omitempty" json:"type"`
	Description string        `yaml:"description,omitempty" json:"description,omitempty"`
	Enabled     *bool         `yaml:"enabled,omitempty" json:"enabled"`
	Backend     *BackendSpec  `yaml:"backend,omitempty" json:"backend,omitempty"`
	Frontend    *FrontendSpec `yaml:"frontend,omitempty" json:"frontend,omitempty"`

	// Derived fields, computed during a scan
	HasBackend  bool   `yaml:"-" json:"hasBackend"`
	HasFrontend bool   `yaml:"-" json:"hasFrontend"`
	Path        string `yaml:"-" json:"path,omitempty"`
}

// IsEnabled reports whether the module is enabled. A descriptor that omits
// the enabled field defaults to enabled.
func (m *ModuleDescriptor) IsEnabled() bool {
	return m.Enabled == nil || *m.Enabled
}

// RoutePrefix returns the public path prefix for the module's backend, or
// the empty string when the module declares no backend.
func (m *ModuleDescriptor) RoutePrefix() string {
	if m.Backend == nil || m.Backend.URL == "" {
		return ""
	}
	if m.Backend.Prefix != "" {
		return m.Backend.Prefix
	}
	return "/api/" + m.Name
}

// Snapshot is an immutable, point-in-time view of all scanned modules,
// ordered by directory name. Snapshots are replaced wholesale on refresh and
// must never be mutated after publication.
type Snapshot []ModuleDescriptor

// ByName returns the descriptor with the given name, or nil.
func (s Snapshot) ByName(name string) *ModuleDescriptor {
	for i := range s {
		if s[i].Name == name {
			return &s[i]
		}
	}
	return nil
}

// Len returns the number of modules in the snapshot
func (s Snapshot) Len() int {
	return len(s)
}
