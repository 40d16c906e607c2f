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

// Package store uploads tagged snapshot copies to an object store.
//
// Two implementations satisfy ObjectStore:
//
//   - MinioStore talks to any S3-compatible endpoint through minio-go.
//   - LocalStore writes objects below a directory and backs file:// endpoints.
//
// Use New to select one from a Config:
//
//	s, err := store.New(store.Config{
//	    Endpoint:  "http://127.0.0.1:9000",
//	    AccessKey: "minio",
//	    SecretKey: "minio123",
//	})
//	if err != nil {
//	    return err
//	}
//	n, err := s.PutFile(ctx, "backup-qdrant", "c1/c1_Chan.snapshot", "/tmp/c1_Chan.snapshot")
//
// PutFile always overwrites; uploading the same key twice leaves one object
// holding the most recent bytes.
package store
