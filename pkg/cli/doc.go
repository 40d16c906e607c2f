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

// Package cli implements the qbackup command line.
//
// # Commands
//
// run - Back up every collection:
//
//	qbackup --config /etc/qbackup/config.yaml run
//
// Lists the collections, triggers a snapshot of each, uploads the tagged copy
// and appends progress to the run log. With --interval the command keeps
// running and repeats the backup, notifying systemd of readiness and status.
//
// tag - Show the retention tag of a day:
//
//	qbackup tag --date 2024-03-14 StoreA_Customers
//
// collections - List collections from the database API:
//
//	qbackup -c config.yaml collections --format json
//
// objects - List stored snapshot objects per collection:
//
//	qbackup -c config.yaml objects StoreA_Customers
//
// report - Render a saved run report:
//
//	qbackup report --format table /var/lib/qbackup/last-run.json
//
// # Configuration
//
// Settings come from the YAML file given with --config, then QBACKUP_*
// environment variables, then command flags such as --bucket or
// --concurrency. See package config for the file layout.
//
// # Exit Codes
//
//	0  The run completed, possibly with per-collection warnings or errors
//	1  Configuration error, unreachable API, missing source root or bad usage
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/qdrant-backup/pkg/cli.version=1.0.0'"
package cli
