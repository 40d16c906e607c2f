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

package retention

import (
	"fmt"
	"path"
	"time"
)

// Tag identifies one of the two rotating backup generations.
type Tag string

const (
	// TagEven is used on even days of the month.
	TagEven Tag = "Chan"
	// TagOdd is used on odd days of the month.
	TagOdd Tag = "Le"
)

// TagFor returns the retention tag for the calendar day of t in its own location.
// Successive days alternate between the two tags; days two apart share one.
func TagFor(t time.Time) Tag {
	if t.Day()%2 == 0 {
		return TagEven
	}
	return TagOdd
}

// String implements fmt.Stringer.
func (t Tag) String() string {
	return string(t)
}

// IsValid reports whether t is one of the two known tags.
func (t Tag) IsValid() bool {
	return t == TagEven || t == TagOdd
}

// Other returns the tag of the opposite generation.
func (t Tag) Other() Tag {
	if t == TagEven {
		return TagOdd
	}
	return TagEven
}

// FileName returns the canonical tagged artifact name for a collection.
func FileName(collection string, tag Tag, suffix string) string {
	return fmt.Sprintf("%s_%s%s", collection, tag, suffix)
}

// ObjectKey returns the object store key of the rotation slot for a collection.
// The key is namespaced by collection: <collection>/<collection>_<tag><suffix>.
func ObjectKey(collection string, tag Tag, suffix string) string {
	return path.Join(collection, FileName(collection, tag, suffix))
}
