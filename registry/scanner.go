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
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mosaic/platform/shared/logger"
	"mosaic/platform/shared/types"
)

// Capability directories probed per module
const (
	backendDirName  = "backend"
	frontendDirName = "frontend"
)

// DiagnosticKind classifies a non-fatal problem found during a scan
type DiagnosticKind string

const (
	// DiagnosticParseError marks a descriptor that could not be parsed
	// or failed validation; the module is excluded from the snapshot.
	DiagnosticParseError DiagnosticKind = "descriptor_parse_error"

	// DiagnosticDuplicateName marks a descriptor whose name is already
	// taken by an earlier directory; the first occurrence wins.
	DiagnosticDuplicateName DiagnosticKind = "duplicate_module_name"
)

// Diagnostic describes one problem encountered during a scan. Diagnostics
// never fail the scan; the caller decides what to do with them.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Module  string         `json:"module,omitempty"`
	Path    string         `json:"path"`
	Message string         `json:"message"`
}

// Scanner walks a descriptor root directory and produces validated module
// snapshots. A Scanner performs filesystem reads only; given identical
// directory contents it produces identical snapshots.
type Scanner struct {
	rootDir string
	log     *logger.Logger
}

// NewScanner creates a scanner rooted at dir
func NewScanner(rootDir string) *Scanner {
	return &Scanner{
		rootDir: rootDir,
		log:     logger.New("registry"),
	}
}

// RootDir returns the descriptor root this scanner walks
func (s *Scanner) RootDir() string {
	return s.rootDir
}

// Scan walks the immediate subdirectories of the root in lexical order and
// returns the resulting snapshot plus any diagnostics. A directory without
// a descriptor file is skipped silently; a directory with a broken
// descriptor yields a diagnostic and is excluded. Only a missing or
// unreadable root fails the scan as a whole.
func (s *Scanner) Scan(ctx context.Context) (types.Snapshot, []Diagnostic, error) {
	entries, err := os.ReadDir(s.rootDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read modules directory %s: %w", s.rootDir, err)
	}

	snapshot := make(types.Snapshot, 0, len(entries))
	var diagnostics []Diagnostic
	seen := make(map[string]string) // module name -> directory that claimed it

	for _, entry := range entries {
		// Check for cancellation between directories
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		default:
		}

		if !entry.IsDir() {
			continue
		}

		dirName := entry.Name()
		if strings.HasPrefix(dirName, ".") || strings.HasPrefix(dirName, "_") || dirName == "node_modules" {
			continue
		}

		moduleDir := filepath.Join(s.rootDir, dirName)
		descriptorPath := filepath.Join(moduleDir, DescriptorFileName)

		if _, err := os.Stat(descriptorPath); err != nil {
			if os.IsNotExist(err) {
				// Plain directories may coexist with modules
				continue
			}
			diagnostics = append(diagnostics, Diagnostic{
				Kind:    DiagnosticParseError,
				Path:    descriptorPath,
				Message: err.Error(),
			})
			continue
		}

		desc, err := LoadDescriptor(descriptorPath)
		if err != nil {
			s.log.Warn("Excluding module with broken descriptor", map[string]interface{}{
				"path":  descriptorPath,
				"error": err.Error(),
			})
			diagnostics = append(diagnostics, Diagnostic{
				Kind:    DiagnosticParseError,
				Path:    descriptorPath,
				Message: err.Error(),
			})
			continue
		}

		if firstDir, exists := seen[desc.Name]; exists {
			s.log.Warn("Duplicate module name, keeping first occurrence", map[string]interface{}{
				"module":    desc.Name,
				"kept":      firstDir,
				"discarded": moduleDir,
			})
			diagnostics = append(diagnostics, Diagnostic{
				Kind:    DiagnosticDuplicateName,
				Module:  desc.Name,
				Path:    moduleDir,
				Message: fmt.Sprintf("module name '%s' already declared by %s", desc.Name, firstDir),
			})
			continue
		}
		seen[desc.Name] = moduleDir

		desc.Path = moduleDir
		desc.HasBackend = dirExists(filepath.Join(moduleDir, backendDirName))
		desc.HasFrontend = dirExists(filepath.Join(moduleDir, frontendDirName))

		snapshot = append(snapshot, *desc)
	}

	return snapshot, diagnostics, nil
}

// dirExists reports whether path exists and is a directory
func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
