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

// Package server provides the status endpoint of a scheduled qbackup.
//
// When "qbackup run --interval" is given --listen, this server runs next to
// the backup loop and exposes:
//
//	GET /health        liveness
//	GET /ready         503 until the first run has finished
//	GET /metrics       Prometheus metrics of runs, collections and requests
//	GET /v1/runs/last  JSON report of the most recent run
//
// Routes under /v1 go through request ID, panic recovery, rate limiting
// and logging middleware.
//
//	s := server.New(server.WithConfig(cfg))
//	go s.Start(ctx)
//	...
//	s.SetLastRun(run)
//	s.SetReady(true)
package server
