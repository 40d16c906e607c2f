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

package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type testConfig struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

type testTable struct{}

func (testTable) TableHeader() []string { return []string{"COLLECTION", "STATUS"} }
func (testTable) TableRows() [][]string {
	return [][]string{{"StoreA_Customers", "uploaded"}, {"c2", "not_found"}}
}

func TestWriter_SerializeJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatJSON, &buf)

	data := []testConfig{{Name: "test1", Value: 123}, {Name: "test2", Value: 456}}
	require.NoError(t, w.Serialize(context.Background(), data))

	var result []testConfig
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, data, result)
}

func TestWriter_SerializeYAML(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatYAML, &buf)

	data := testConfig{Name: "test", Value: 7}
	require.NoError(t, w.Serialize(context.Background(), data))

	var result testConfig
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, data, result)
}

func TestWriter_SerializeTable(t *testing.T) {
	tests := []struct {
		name     string
		data     any
		contains []string
	}{
		{
			name:     "flattened struct",
			data:     testConfig{Name: "test", Value: 1},
			contains: []string{"FIELD", "Name", "test", "Value"},
		},
		{
			name:     "nested map",
			data:     map[string]any{"a": map[string]int{"b": 2}},
			contains: []string{"a.b", "2"},
		},
		{
			name:     "table rows",
			data:     testTable{},
			contains: []string{"COLLECTION", "----------", "StoreA_Customers", "not_found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewWriter(FormatTable, &buf).Serialize(context.Background(), tt.data))
			for _, want := range tt.contains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestWriter_SerializeTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(FormatTable, &buf).Serialize(context.Background(), map[string]any{}))
	assert.Equal(t, "<empty>\n", buf.String())
}

func TestWriter_UnknownFormatDefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(Format("xml"), &buf)
	assert.Equal(t, FormatJSON, w.Format())
	require.NoError(t, w.Serialize(context.Background(), testConfig{Name: "x"}))
	assert.True(t, strings.HasPrefix(buf.String(), "{"))
}

func TestWriter_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	assert.Error(t, NewWriter(FormatJSON, &buf).Serialize(ctx, testConfig{}))
	assert.Empty(t, buf.String())
}

func TestNewFileWriterOrStdout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "run.json")
	w := NewFileWriterOrStdout(FormatJSON, path)
	require.NoError(t, w.Serialize(context.Background(), testConfig{Name: "file", Value: 3}))
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\"file\"")

	for _, p := range []string{"", " ", "-"} {
		w := NewFileWriterOrStdout(FormatYAML, p)
		assert.Nil(t, w.closer)
	}
}

func TestSupportedFormats(t *testing.T) {
	for _, f := range SupportedFormats() {
		assert.False(t, Format(f).IsUnknown(), f)
	}
	assert.True(t, Format("xml").IsUnknown())
}
