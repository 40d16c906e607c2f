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

// Package backup orchestrates a snapshot backup run.
//
// For every collection reported by the database the Orchestrator triggers a
// snapshot, waits for the artifact to appear on disk, copies it under the
// retention tag of the day and uploads it to the object store:
//
//	o := &backup.Orchestrator{
//	    Lister:    client,
//	    Triggerer: client,
//	    Locator:   snapshot.NewLocator("/data/snapshots"),
//	    Store:     objects,
//	    Sink:      sink,
//	    Bucket:    "backup-qdrant",
//	}
//	run, err := o.Run(ctx)
//
// Only setup problems are returned as errors (missing source root, listing
// failure, unusable bucket). Per-collection problems become Outcomes on the
// Run and are written to the Sink.
//
// Metrics are registered with the default Prometheus registry; WriteMetrics
// exports them as a textfile.
package backup
