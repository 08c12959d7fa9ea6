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
Package types provides shared type definitions used across Mosaic services.

The central type is ModuleDescriptor: the declarative record describing one
module's identity, capabilities, and backend/frontend entry points. The
registry builds Snapshot values from descriptor files on disk; the gateway
consumes the same records over the registry's HTTP API to derive its route
table.
*/
package types
