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

package header

import (
	"time"
)

// APIVersion is the schema version of every document qbackup writes.
const APIVersion = "qbackup.nvidia.com/v1alpha1"

// Kind represents the type of qbackup document.
type Kind string

const (
	KindBackupRun     Kind = "BackupRun"
	KindTagInfo       Kind = "TagInfo"
	KindObjectListing Kind = "ObjectListing"
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid checks if the Kind is one of the recognized kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindBackupRun, KindTagInfo, KindObjectListing:
		return true
	default:
		return false
	}
}

// Header contains the kind, schema version and metadata of a document.
type Header struct {
	Kind       Kind              `json:"kind,omitempty" yaml:"kind,omitempty"`
	APIVersion string            `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Init sets the kind and API version and records the creation timestamp
// and tool version in Metadata.
func (h *Header) Init(kind Kind, version string, now time.Time) {
	h.Kind = kind
	h.APIVersion = APIVersion
	h.Metadata = map[string]string{
		"timestamp": now.UTC().Format(time.RFC3339),
	}
	if version != "" {
		h.Metadata["version"] = version
	}
}

// Is reports whether the header describes a document of the given kind.
// Documents without a kind are accepted for compatibility with older reports.
func (h *Header) Is(kind Kind) bool {
	return h.Kind == "" || h.Kind == kind
}
