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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"run.json", FormatJSON},
		{"RUN.JSON", FormatJSON},
		{"run.yaml", FormatYAML},
		{"run.yml", FormatYAML},
		{"run.txt", FormatTable},
		{"run.table", FormatTable},
		{"run.bin", FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFromPath(tt.path))
		})
	}
}

func TestNewReader_Errors(t *testing.T) {
	_, err := NewReader(FormatTable, strings.NewReader(""))
	assert.Error(t, err)
	_, err = NewReader(Format("xml"), strings.NewReader(""))
	assert.Error(t, err)

	_, err = NewFileReader(FormatJSON, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	var r *Reader
	assert.Error(t, r.Deserialize(&testConfig{}))
	assert.NoError(t, r.Close())
}

func TestReader_Deserialize(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		input   string
		wantErr bool
	}{
		{name: "json", format: FormatJSON, input: `{"name":"a","value":1}`},
		{name: "yaml", format: FormatYAML, input: "name: a\nvalue: 1\n"},
		{name: "bad json", format: FormatJSON, input: `{"name":`, wantErr: true},
		{name: "bad yaml", format: FormatYAML, input: "name: [a", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(tt.format, strings.NewReader(tt.input))
			require.NoError(t, err)
			var got testConfig
			err = r.Deserialize(&got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testConfig{Name: "a", Value: 1}, got)
		})
	}
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: saved\nvalue: 9\n"), 0o600))

	got, err := FromFile[testConfig](path)
	require.NoError(t, err)
	assert.Equal(t, "saved", got.Name)

	_, err = FromFile[testConfig](filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
