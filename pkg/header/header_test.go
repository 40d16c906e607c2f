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
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_IsValid(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindBackupRun, true},
		{KindTagInfo, true},
		{KindObjectListing, true},
		{"Recipe", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.IsValid())
		})
	}
}

func TestHeader_Init(t *testing.T) {
	now := time.Date(2024, 3, 14, 2, 0, 0, 0, time.FixedZone("X", 3600))

	var h Header
	h.Init(KindBackupRun, "v1.2.3", now)
	assert.Equal(t, KindBackupRun, h.Kind)
	assert.Equal(t, APIVersion, h.APIVersion)
	assert.Equal(t, "2024-03-14T01:00:00Z", h.Metadata["timestamp"])
	assert.Equal(t, "v1.2.3", h.Metadata["version"])

	h.Init(KindTagInfo, "", now)
	_, ok := h.Metadata["version"]
	assert.False(t, ok)
}

func TestHeader_Is(t *testing.T) {
	var h Header
	assert.True(t, h.Is(KindBackupRun), "legacy documents have no kind")

	h.Init(KindTagInfo, "", time.Now())
	assert.True(t, h.Is(KindTagInfo))
	assert.False(t, h.Is(KindBackupRun))
}

func TestHeader_EmbeddedJSON(t *testing.T) {
	doc := struct {
		Header
		Name string `json:"name"`
	}{Name: "x"}
	doc.Init(KindObjectListing, "dev", time.Unix(0, 0))

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"ObjectListing"`)
	assert.Contains(t, string(data), `"apiVersion":"`+APIVersion+`"`)
}
