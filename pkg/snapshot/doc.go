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

// Package snapshot locates snapshot artifacts written by the database and
// stages retention-tagged copies of them for upload.
//
// Snapshot creation is asynchronous: after a trigger, the database writes a
// file into <root>/<collection>/ at some later point. Locator polls that
// directory with a bounded retry budget and selects the largest file with the
// artifact suffix, which is a proxy for "fully written":
//
//	loc := snapshot.NewLocator("/data/snapshots",
//	    snapshot.WithMaxAttempts(5),
//	    snapshot.WithRetryDelay(2*time.Second))
//	if err := loc.CheckRoot(); err != nil {
//	    return err // run-level misconfiguration
//	}
//	art, err := loc.Locate(ctx, "StoreA_Customers")
//
// Stage then copies the artifact, byte for byte, to a temporary file named
// <collection>_<tag>.snapshot. The caller owns the TaggedCopy and must call
// Remove on every exit path.
package snapshot
