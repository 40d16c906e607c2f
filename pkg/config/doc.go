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

// Package config loads qbackup settings.
//
// Values are resolved in three layers: built-in defaults, an optional YAML
// file, then QBACKUP_* environment variables. The CLI applies explicit
// flags on top. Object store endpoints are named by alias, mirroring the
// aliases of the MinIO client:
//
//	objectStoreAlias: MINIO_LOCAL
//	objectStores:
//	  MINIO_LOCAL:
//	    endpoint: http://127.0.0.1:9000
//	    accessKey: minio
//	    secretKey: minio123
//
// Credentials may be kept out of the file with QBACKUP_ACCESS_KEY and
// QBACKUP_SECRET_KEY, which apply to the selected alias.
package config
