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
Package logger provides structured JSON logging for Mosaic services.

# Overview

The logger outputs one JSON object per line to stdout, making logs easily
consumable by CloudWatch, ELK, or any other log aggregation system.

Each log entry includes:
  - Timestamp (RFC3339Nano format)
  - Log level (DEBUG, INFO, WARN, ERROR)
  - Component name (registry, gateway)
  - Instance ID and container name
  - Request ID and resolved module name (for proxied requests)
  - Custom fields

# Usage

Create a logger for your component:

	log := logger.New("registry")

Log plain service events:

	log.Info("Scan completed", map[string]interface{}{"modules": 7})

Log events correlated to a gateway request:

	log.Request(logger.INFO, requestID, moduleName, "Forwarded", nil)
	log.RequestError(requestID, moduleName, "Forward failed", 502, err, nil)
*/
package logger
