// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
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

// Package defaults provides centralized configuration constants for qbackup.
//
// This package defines timeout values, retry parameters, and other configuration
// defaults used across the codebase. Centralizing these values ensures consistency
// and makes tuning easier.
//
// # Categories
//
//   - Locate defaults: polling budget for snapshot artifacts
//   - Run defaults: worker pool sizing
//   - Object store timeouts: upload and bucket checks
//   - HTTP client timeouts: calls to the database API
//   - Filesystem defaults: artifact suffix and log file mode
//
// # Usage
//
//	import "github.com/NVIDIA/qdrant-backup/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.UploadTimeout)
//	defer cancel()
package defaults
