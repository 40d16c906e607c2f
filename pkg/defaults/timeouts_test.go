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

import (
	"testing"
	"time"
)

func TestTimeoutConstants(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		minValue time.Duration
		maxValue time.Duration
	}{
		// Locate
		{"LocateRetryDelay", LocateRetryDelay, 500 * time.Millisecond, 30 * time.Second},

		// Object store
		{"UploadTimeout", UploadTimeout, 1 * time.Minute, 2 * time.Hour},
		{"BucketCheckTimeout", BucketCheckTimeout, 5 * time.Second, 2 * time.Minute},

		// Server timeouts
		{"ServerReadTimeout", ServerReadTimeout, 1 * time.Second, 1 * time.Minute},
		{"ServerWriteTimeout", ServerWriteTimeout, 5 * time.Second, 2 * time.Minute},
		{"ServerShutdownTimeout", ServerShutdownTimeout, 5 * time.Second, 2 * time.Minute},

		// HTTP client timeouts
		{"HTTPClientTimeout", HTTPClientTimeout, 10 * time.Second, 60 * time.Second},
		{"HTTPConnectTimeout", HTTPConnectTimeout, 1 * time.Second, 15 * time.Second},
		{"HTTPResponseHeaderTimeout", HTTPResponseHeaderTimeout, 1 * time.Second, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.timeout < tt.minValue {
				t.Errorf("%s (%v) is below minimum expected value (%v)", tt.name, tt.timeout, tt.minValue)
			}
			if tt.timeout > tt.maxValue {
				t.Errorf("%s (%v) is above maximum expected value (%v)", tt.name, tt.timeout, tt.maxValue)
			}
		})
	}
}

func TestLocateBudget(t *testing.T) {
	if LocateMaxAttempts < 1 {
		t.Fatalf("LocateMaxAttempts (%d) must be at least 1", LocateMaxAttempts)
	}

	// The whole locate budget should stay well under a minute per collection
	budget := time.Duration(LocateMaxAttempts) * LocateRetryDelay
	if budget > time.Minute {
		t.Errorf("locate budget %v exceeds one minute", budget)
	}
}

func TestConcurrencyBounds(t *testing.T) {
	if RunConcurrency < 1 {
		t.Errorf("RunConcurrency (%d) must be at least 1", RunConcurrency)
	}
	if RunConcurrency > RunMaxConcurrency {
		t.Errorf("RunConcurrency (%d) should not exceed RunMaxConcurrency (%d)",
			RunConcurrency, RunMaxConcurrency)
	}
}

func TestHTTPClientTimeoutRelationships(t *testing.T) {
	// Connect timeout should be less than total timeout
	if HTTPConnectTimeout >= HTTPClientTimeout {
		t.Errorf("HTTPConnectTimeout (%v) should be less than HTTPClientTimeout (%v)",
			HTTPConnectTimeout, HTTPClientTimeout)
	}

	// TLS handshake timeout should be less than total timeout
	if HTTPTLSHandshakeTimeout >= HTTPClientTimeout {
		t.Errorf("HTTPTLSHandshakeTimeout (%v) should be less than HTTPClientTimeout (%v)",
			HTTPTLSHandshakeTimeout, HTTPClientTimeout)
	}

	if HTTPRetryWaitMin > HTTPRetryWaitMax {
		t.Errorf("HTTPRetryWaitMin (%v) should not exceed HTTPRetryWaitMax (%v)",
			HTTPRetryWaitMin, HTTPRetryWaitMax)
	}
}

func TestServerTimeoutRelationships(t *testing.T) {
	if ServerReadHeaderTimeout > ServerReadTimeout {
		t.Errorf("ServerReadHeaderTimeout (%v) should not exceed ServerReadTimeout (%v)",
			ServerReadHeaderTimeout, ServerReadTimeout)
	}
	if ServerIdleTimeout < ServerWriteTimeout {
		t.Errorf("ServerIdleTimeout (%v) should be at least ServerWriteTimeout (%v)",
			ServerIdleTimeout, ServerWriteTimeout)
	}
}
