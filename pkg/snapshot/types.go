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

package snapshot

import (
	"errors"
	"os"
	"strings"
	"time"

	qberrors "github.com/NVIDIA/qdrant-backup/pkg/errors"
)

// Artifact is a snapshot file produced by the database for one collection.
// The orchestrator only reads it.
type Artifact struct {
	Collection string    `json:"collection" yaml:"collection"`
	Name       string    `json:"name" yaml:"name"`
	Path       string    `json:"path" yaml:"path"`
	Size       int64     `json:"size" yaml:"size"`
	ModTime    time.Time `json:"modTime" yaml:"modTime"`
}

// TaggedCopy is a byte-exact duplicate of an Artifact staged for upload
// under its retention-tagged name.
type TaggedCopy struct {
	Artifact *Artifact
	Name     string
	Path     string
	Size     int64
}

// Remove deletes the staged file. Removing an already deleted copy is not an error.
func (c *TaggedCopy) Remove() error {
	if c == nil || c.Path == "" {
		return nil
	}
	if err := os.Remove(c.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// ValidateCollection rejects identifiers that would escape the source root
// or produce an unusable object key.
func ValidateCollection(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return qberrors.New(qberrors.ErrCodeInvalidCollection, "collection name is empty")
	case name == "." || name == "..":
		return qberrors.NewWithContext(qberrors.ErrCodeInvalidCollection, "collection name is a relative path element",
			map[string]any{"collection": name})
	case strings.ContainsAny(name, "/\\\x00"):
		return qberrors.NewWithContext(qberrors.ErrCodeInvalidCollection, "collection name contains a path separator",
			map[string]any{"collection": name})
	}
	return nil
}
