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

// Package dbapi is the client for the database-facing HTTP API used by the
// backup orchestrator.
//
// Two endpoints are consumed:
//
//	GET <base>/get_collections            -> {"collections": ["a", "b"]}
//	GET <base>/create_snapshot/<name>     -> fire-and-forget trigger
//
// The listing call is idempotent and retried by
// github.com/hashicorp/go-retryablehttp; the trigger is sent exactly once
// and may be paced with a token bucket from golang.org/x/time/rate. The
// collection array is extracted with github.com/tidwall/gjson, so the field
// can be any gjson path (for example "result.collections").
package dbapi
