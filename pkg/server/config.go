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

package server

import (
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/NVIDIA/qdrant-backup/pkg/defaults"
)

// EnvAddress overrides the listen address.
const EnvAddress = "QBACKUP_STATUS_ADDR"

// Config holds server configuration
type Config struct {
	// Server identity
	Name    string
	Version string

	// Address is the listen address, e.g. ":9464".
	Address string

	// Rate limiting configuration
	RateLimit      rate.Limit // requests per second
	RateLimitBurst int        // burst size

	// Timeouts
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// NewConfig returns a Config with defaults, honoring QBACKUP_STATUS_ADDR.
func NewConfig() *Config {
	cfg := &Config{
		Name:              "qbackup",
		Version:           "undefined",
		Address:           ":9464",
		RateLimit:         20, // 20 req/s
		RateLimitBurst:    40,
		ReadTimeout:       defaults.ServerReadTimeout,
		ReadHeaderTimeout: defaults.ServerReadHeaderTimeout,
		WriteTimeout:      defaults.ServerWriteTimeout,
		IdleTimeout:       defaults.ServerIdleTimeout,
		ShutdownTimeout:   defaults.ServerShutdownTimeout,
	}

	if addr := os.Getenv(EnvAddress); addr != "" {
		cfg.Address = addr
	}

	return cfg
}
