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

package defaults

import "time"

// Locate defaults for polling the snapshot source directory.
const (
	// LocateMaxAttempts is the number of directory scans before a collection
	// is reported as not found.
	LocateMaxAttempts = 5

	// LocateRetryDelay is the pause between directory scans.
	LocateRetryDelay = 2 * time.Second
)

// Run defaults for the orchestrator loop.
const (
	// RunConcurrency is the default number of collections processed at once.
	// One keeps snapshot creation strictly sequential on the database.
	RunConcurrency = 1

	// RunMaxConcurrency caps the worker pool regardless of configuration.
	RunMaxConcurrency = 16

	// RunFinalizeTimeout bounds writing the run summary after the run
	// deadline has expired.
	RunFinalizeTimeout = 10 * time.Second
)

// Object store timeouts.
const (
	// UploadTimeout is the maximum duration for a single object upload.
	UploadTimeout = 30 * time.Minute

	// BucketCheckTimeout is the timeout for verifying or creating the bucket.
	BucketCheckTimeout = 30 * time.Second
)

// Server timeouts for the status endpoint served in scheduled mode.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

// HTTP client timeouts for the database API.
const (
	// HTTPClientTimeout is the default total timeout for HTTP requests.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second

	// HTTPListRetries is the number of extra attempts for the idempotent
	// collection listing call.
	HTTPListRetries = 2

	// HTTPRetryWaitMin and HTTPRetryWaitMax bound the listing retry backoff.
	HTTPRetryWaitMin = 500 * time.Millisecond
	HTTPRetryWaitMax = 5 * time.Second
)

// Filesystem defaults.
const (
	// SnapshotSuffix is the file suffix of snapshot artifacts.
	SnapshotSuffix = ".snapshot"

	// CollectionsField is the JSON field of the listing response that holds
	// the collection identifiers.
	CollectionsField = "collections"

	// LogFileMode is the permission of a newly created run log.
	LogFileMode = 0o644
)
