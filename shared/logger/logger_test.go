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

package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"testing"
	"time"
)

// captureEntry runs fn with log output captured and returns the parsed entry
func captureEntry(t *testing.T, fn func()) LogEntry {
	t.Helper()

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	fn()

	output := buf.String()
	jsonStart := strings.Index(output, "{")
	if jsonStart == -1 {
		t.Fatalf("No JSON found in log output: %s", output)
	}
	jsonStr := strings.TrimSpace(output[jsonStart:])

	var entry LogEntry
	if err := json.Unmarshal([]byte(jsonStr), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v\nOutput: %s", err, output)
	}
	return entry
}

// TestNew tests logger initialization
func TestNew(t *testing.T) {
	tests := []struct {
		name           string
		component      string
		instanceID     string
		expectedComp   string
		expectedInstID string
	}{
		{
			name:           "with instance ID set",
			component:      "registry",
			instanceID:     "instance-123",
			expectedComp:   "registry",
			expectedInstID: "instance-123",
		},
		{
			name:           "without instance ID",
			component:      "gateway",
			instanceID:     "",
			expectedComp:   "gateway",
			expectedInstID: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.instanceID != "" {
				t.Setenv("INSTANCE_ID", tt.instanceID)
			} else {
				t.Setenv("INSTANCE_ID", "")
			}

			logger := New(tt.component)

			if logger.Component != tt.expectedComp {
				t.Errorf("Expected component %s, got %s", tt.expectedComp, logger.Component)
			}

			if logger.InstanceID != tt.expectedInstID {
				t.Errorf("Expected instance ID %s, got %s", tt.expectedInstID, logger.InstanceID)
			}

			if logger.Container == "" {
				t.Error("Expected container to be set from hostname")
			}
		})
	}
}

// TestLogLevels tests all log level methods
func TestLogLevels(t *testing.T) {
	tests := []struct {
		name    string
		logFunc func(*Logger, string, map[string]interface{})
		level   LogLevel
		message string
		fields  map[string]interface{}
	}{
		{
			name:    "Info log",
			logFunc: (*Logger).Info,
			level:   INFO,
			message: "Scan complete",
			fields:  map[string]interface{}{"modules": float64(4)},
		},
		{
			name:    "Warn log",
			logFunc: (*Logger).Warn,
			level:   WARN,
			message: "Descriptor skipped",
			fields:  nil,
		},
		{
			name:    "Debug log",
			logFunc: (*Logger).Debug,
			level:   DEBUG,
			message: "Route matched",
			fields:  map[string]interface{}{"prefix": "/api/users"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := captureEntry(t, func() {
				logger := New("test-component")
				tt.logFunc(logger, tt.message, tt.fields)
			})

			if entry.Level != tt.level {
				t.Errorf("Expected level %s, got %s", tt.level, entry.Level)
			}

			if entry.Message != tt.message {
				t.Errorf("Expected message '%s', got '%s'", tt.message, entry.Message)
			}

			if entry.Component != "test-component" {
				t.Errorf("Expected component 'test-component', got '%s'", entry.Component)
			}

			if _, err := time.Parse(time.RFC3339Nano, entry.Timestamp); err != nil {
				t.Errorf("Invalid timestamp format: %s", entry.Timestamp)
			}

			for key, expectedValue := range tt.fields {
				if actualValue, ok := entry.Fields[key]; !ok {
					t.Errorf("Expected field '%s' not found", key)
				} else if actualValue != expectedValue {
					t.Errorf("Field '%s': expected %v, got %v", key, expectedValue, actualValue)
				}
			}
		})
	}
}

// TestError verifies the error text is attached as a field
func TestError(t *testing.T) {
	entry := captureEntry(t, func() {
		logger := New("test-component")
		logger.Error("Scan failed", errors.New("modules dir missing"), nil)
	})

	if entry.Level != ERROR {
		t.Errorf("Expected ERROR level, got %s", entry.Level)
	}

	if entry.Fields["error"] != "modules dir missing" {
		t.Errorf("Expected error field, got %v", entry.Fields["error"])
	}
}

// TestRequest verifies request correlation fields are carried through
func TestRequest(t *testing.T) {
	entry := captureEntry(t, func() {
		logger := New("gateway")
		logger.Request(INFO, "req-456", "user-module", "Forwarded", map[string]interface{}{
			"target": "http://users:9001/list",
		})
	})

	if entry.RequestID != "req-456" {
		t.Errorf("Expected request ID 'req-456', got '%s'", entry.RequestID)
	}

	if entry.Module != "user-module" {
		t.Errorf("Expected module 'user-module', got '%s'", entry.Module)
	}
}

// TestRequestError tests the RequestError helper method
func TestRequestError(t *testing.T) {
	tests := []struct {
		name           string
		statusCode     int
		err            error
		expectError    bool
		expectedErrMsg string
	}{
		{
			name:           "with error",
			statusCode:     502,
			err:            errors.New("connection refused"),
			expectError:    true,
			expectedErrMsg: "connection refused",
		},
		{
			name:        "without error",
			statusCode:  404,
			err:         nil,
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := captureEntry(t, func() {
				logger := New("gateway")
				logger.RequestError("req-1", "user-module", "Forward failed", tt.statusCode, tt.err, nil)
			})

			statusCode, ok := entry.Fields["status_code"].(float64)
			if !ok {
				t.Fatalf("status_code is not a number: %v", entry.Fields["status_code"])
			}

			if int(statusCode) != tt.statusCode {
				t.Errorf("Expected status_code %d, got %v", tt.statusCode, statusCode)
			}

			if tt.expectError {
				if entry.Fields["error"] != tt.expectedErrMsg {
					t.Errorf("Expected error message '%s', got '%v'", tt.expectedErrMsg, entry.Fields["error"])
				}
			}

			if entry.Level != ERROR {
				t.Errorf("Expected ERROR level, got %s", entry.Level)
			}
		})
	}
}

// TestInfoWithDuration tests the InfoWithDuration helper method
func TestInfoWithDuration(t *testing.T) {
	entry := captureEntry(t, func() {
		logger := New("registry")
		logger.InfoWithDuration("Scan completed", 123.45, map[string]interface{}{
			"modules": float64(7),
		})
	})

	if entry.Fields["duration_ms"] != 123.45 {
		t.Errorf("Expected duration_ms 123.45, got %v", entry.Fields["duration_ms"])
	}

	if entry.Fields["modules"] != float64(7) {
		t.Errorf("Expected modules 7, got %v", entry.Fields["modules"])
	}

	if entry.Level != INFO {
		t.Errorf("Expected INFO level, got %s", entry.Level)
	}
}

// TestJSONMarshalError tests behavior when JSON marshaling fails
func TestJSONMarshalError(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	logger := New("test-component")

	// Channels cannot be marshaled to JSON
	ch := make(chan int)
	logger.Info("Test message", map[string]interface{}{
		"channel": ch,
	})

	output := buf.String()

	if !strings.Contains(output, "Failed to marshal log entry") {
		t.Error("Expected error message about JSON marshaling failure")
	}
}

// BenchmarkLog benchmarks the logging performance
func BenchmarkLog(b *testing.B) {
	logger := New("benchmark-component")
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	fields := map[string]interface{}{
		"prefix":   "/api/users",
		"target":   "http://users:9001",
		"duration": 45.67,
		"success":  true,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Request(INFO, "req-456", "user-module", "Forwarded request", fields)
	}
}
