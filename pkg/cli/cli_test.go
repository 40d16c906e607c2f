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

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/qdrant-backup/pkg/backup"
	"github.com/NVIDIA/qdrant-backup/pkg/config"
	qberrors "github.com/NVIDIA/qdrant-backup/pkg/errors"
	"github.com/NVIDIA/qdrant-backup/pkg/header"
	"github.com/NVIDIA/qdrant-backup/pkg/retention"
	"github.com/NVIDIA/qdrant-backup/pkg/serializer"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		format  string
		want    serializer.Format
		wantErr bool
	}{
		{format: "yaml", want: serializer.FormatYAML},
		{format: "json", want: serializer.FormatJSON},
		{format: " TABLE ", want: serializer.FormatTable},
		{format: "xml", wantErr: true},
		{format: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			got, err := parseOutputFormat(tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommandLister(t *testing.T) {
	commandLister(context.Background(), nil)

	var buf bytes.Buffer
	root := &cli.Command{
		Name:   "root",
		Writer: &buf,
		Commands: []*cli.Command{
			{Name: "visible1", Usage: "first"},
			{Name: "hidden", Hidden: true},
			{Name: "visible2", Usage: "second"},
		},
	}
	commandLister(context.Background(), root)
	assert.Contains(t, buf.String(), "visible1")
	assert.Contains(t, buf.String(), "visible2")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestRootCmd_Commands(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, c := range root.Commands {
		names = append(names, c.Name)
		assert.NotEmpty(t, c.Usage, c.Name)
		assert.NotNil(t, c.Action, c.Name)
	}
	assert.Equal(t, []string{"run", "tag", "collections", "objects", "report"}, names)
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bucketName: from-file\nconcurrency: 2\nsourceRoot: /file\n"), 0o600))

	var got *config.Config
	cmd := &cli.Command{
		Name:  "test",
		Flags: append(settingFlags(), configFlag()),
		Action: func(_ context.Context, cmd *cli.Command) error {
			var err error
			got, err = loadConfig(cmd)
			return err
		},
	}
	err := cmd.Run(context.Background(), []string{"test",
		"--config", path, "--bucket", "from-flag", "--allow-empty", "--retry-delay", "250ms"})
	require.NoError(t, err)

	assert.Equal(t, "from-flag", got.BucketName)
	assert.Equal(t, "/file", got.SourceRoot)
	assert.Equal(t, 2, got.Concurrency)
	assert.False(t, got.FailOnEmpty)
	assert.Equal(t, 250*time.Millisecond, got.LocateRetryDelay)
}

func TestTagInfo(t *testing.T) {
	info, err := tagInfo(time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), ".snapshot",
		[]string{"StoreA_Customers", "StoreA_Employees"})
	require.NoError(t, err)
	assert.Equal(t, retention.TagEven, info.Tag)
	assert.Equal(t, retention.TagOdd, info.Other)
	assert.Equal(t, "2024-03-14", info.Date)
	assert.Equal(t, "StoreA_Customers/StoreA_Customers_Chan.snapshot", info.Keys["StoreA_Customers"])

	_, err = tagInfo(time.Now(), ".snapshot", []string{"../bad"})
	assert.Equal(t, qberrors.ErrCodeInvalidCollection, qberrors.CodeOf(err))
}

func TestTagCmd(t *testing.T) {
	out := filepath.Join(t.TempDir(), "tag.json")
	err := newRootCmd().Run(context.Background(), []string{name,
		"tag", "--date", "2024-03-15", "--format", "json", "--output", out, "c1"})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var info TagInfo
	require.NoError(t, json.Unmarshal(data, &info))
	assert.Equal(t, retention.TagOdd, info.Tag)
	assert.Equal(t, "c1/c1_Le.snapshot", info.Keys["c1"])

	err = newRootCmd().Run(context.Background(), []string{name, "tag", "--date", "14/03/2024"})
	assert.Error(t, err)
}

// env is a complete on-disk setup: database API, snapshot source root,
// file based object store and configuration file.
type env struct {
	root     string
	objects  string
	logPath  string
	cfgPath  string

	mu       sync.Mutex
	triggers []string
}

func (e *env) triggered() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.triggers...)
}

func newEnv(t *testing.T, collections ...string) *env {
	t.Helper()
	e := &env{
		root:    t.TempDir(),
		objects: t.TempDir(),
		logPath: filepath.Join(t.TempDir(), "logs", "backup.log"),
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/get_collections":
			_ = json.NewEncoder(w).Encode(map[string]any{"collections": collections})
		case strings.HasPrefix(r.URL.Path, "/create_snapshot/"):
			e.mu.Lock()
			e.triggers = append(e.triggers, strings.TrimPrefix(r.URL.Path, "/create_snapshot/"))
			e.mu.Unlock()
			fmt.Fprint(w, `{"result":{"name":"ignored"}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	for i, c := range collections {
		dir := filepath.Join(e.root, c)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, c+"-small.snapshot"), make([]byte, 10), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, c+"-big.snapshot"), make([]byte, 100+i), 0o644))
	}

	e.cfgPath = filepath.Join(t.TempDir(), "config.yaml")
	cfg := fmt.Sprintf(`sourceRoot: %s
apiBaseURL: %s
bucketName: backup-qdrant
objectStoreAlias: LOCAL
logPath: %s
maxLocateAttempts: 2
locateRetryDelay: 1ms
tempDir: %s
objectStores:
  LOCAL:
    endpoint: file://%s
`, e.root, srv.URL, e.logPath, t.TempDir(), e.objects)
	require.NoError(t, os.WriteFile(e.cfgPath, []byte(cfg), 0o600))
	return e
}

func TestRunCmd_EndToEnd(t *testing.T) {
	e := newEnv(t, "StoreA_Customers", "StoreA_Employees")
	dir := t.TempDir()
	report := filepath.Join(dir, "last-run.json")
	metrics := filepath.Join(dir, "qbackup.prom")

	err := newRootCmd().Run(context.Background(), []string{name, "--config", e.cfgPath,
		"run", "--report", report, "--format", "json", "--metrics-file", metrics})
	require.NoError(t, err)

	run, err := serializer.FromFile[backup.Run](report)
	require.NoError(t, err)
	assert.Equal(t, backup.Counts{Uploaded: 2}, run.Summary)
	assert.Equal(t, header.KindBackupRun, run.Kind)
	assert.ElementsMatch(t, []string{"StoreA_Customers", "StoreA_Employees"}, e.triggered())

	for _, o := range run.Outcomes {
		assert.Equal(t, retention.ObjectKey(o.Collection, run.Tag, ".snapshot"), o.ObjectKey)
		info, err := os.Stat(filepath.Join(e.objects, "backup-qdrant", filepath.FromSlash(o.ObjectKey)))
		require.NoError(t, err)
		assert.Equal(t, o.Size, info.Size())
		assert.Equal(t, o.Collection+"-big.snapshot", o.OriginalName)
	}

	logData, err := os.ReadFile(e.logPath)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(logData), "] INFO Uploaded "))
	assert.Contains(t, string(logData), "Found 2 collections")

	_, err = os.Stat(metrics)
	assert.NoError(t, err)
}

func TestRunCmd_MissingSourceRootExitsWithError(t *testing.T) {
	e := newEnv(t, "c1")
	err := newRootCmd().Run(context.Background(), []string{name, "--config", e.cfgPath,
		"run", "--source-root", filepath.Join(e.root, "absent")})
	require.Error(t, err)
	assert.Equal(t, qberrors.ErrCodeSourceRoot, qberrors.CodeOf(err))
	assert.Empty(t, e.triggered())

	logData, err := os.ReadFile(e.logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logData), "ERROR Backup run")
}

func TestRunCmd_InvalidConfig(t *testing.T) {
	e := newEnv(t, "c1")
	err := newRootCmd().Run(context.Background(), []string{name, "--config", e.cfgPath,
		"run", "--alias", "UNKNOWN"})
	assert.Equal(t, qberrors.ErrCodeConfig, qberrors.CodeOf(err))

	err = newRootCmd().Run(context.Background(), []string{name, "--config", e.cfgPath,
		"run", "--report", "-", "--format", "xml"})
	assert.Error(t, err)
}

func TestRunCmd_IntervalStopsOnCancel(t *testing.T) {
	e := newEnv(t, "c1")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- newRootCmd().Run(ctx, []string{name, "--config", e.cfgPath, "run", "--interval", "1h"})
	}()

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(e.logPath)
		return err == nil && strings.Contains(string(data), "finished")
	}, 5*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run --interval did not stop after cancel")
	}
}

func TestRunCmd_IntervalServesStatus(t *testing.T) {
	e := newEnv(t, "c1")
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- newRootCmd().Run(ctx, []string{name, "--config", e.cfgPath,
			"run", "--interval", "1h", "--listen", addr})
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/ready")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	resp, err := http.Get("http://" + addr + "/v1/runs/last")
	require.NoError(t, err)
	var run backup.Run
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&run))
	resp.Body.Close()
	assert.Equal(t, backup.Counts{Uploaded: 1}, run.Summary)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run --listen did not stop after cancel")
	}
}

func TestCollectionsCmd(t *testing.T) {
	e := newEnv(t, "a", "b")
	out := filepath.Join(t.TempDir(), "collections.json")
	err := newRootCmd().Run(context.Background(), []string{name, "--config", e.cfgPath,
		"collections", "--format", "json", "--output", out})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var got map[string][]string
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, []string{"a", "b"}, got["collections"])
	assert.Empty(t, e.triggered())
}

func TestObjectsCmd(t *testing.T) {
	e := newEnv(t, "c1", "c2")
	require.NoError(t, newRootCmd().Run(context.Background(), []string{name, "--config", e.cfgPath, "run"}))

	out := filepath.Join(t.TempDir(), "objects.yaml")
	err := newRootCmd().Run(context.Background(), []string{name, "--config", e.cfgPath,
		"objects", "--format", "yaml", "--output", out, "c1"})
	require.NoError(t, err)

	listing, err := serializer.FromFile[ObjectListing](out)
	require.NoError(t, err)
	require.Len(t, listing.Objects["c1"], 1)
	assert.True(t, strings.HasPrefix(listing.Objects["c1"][0], "c1/c1_"))

	rows := (&ObjectListing{Bucket: "b", Objects: map[string][]string{"z": nil, "a": {"a/a_Le.snapshot"}}}).TableRows()
	assert.Equal(t, [][]string{{"a", "b/a/a_Le.snapshot"}, {"z", "-"}}, rows)
}

func TestReportCmd(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(in, []byte(`id: r1
tag: Chan
bucket: backup-qdrant
summary: {uploaded: 1, notFound: 0, failed: 0}
outcomes:
  - collection: c1
    status: uploaded
    objectKey: c1/c1_Chan.snapshot
    size: 10
    duration: 2s
`), 0o600))

	out := filepath.Join(dir, "run.json")
	err := newRootCmd().Run(context.Background(), []string{name, "report", "--format", "json", "--output", out, in})
	require.NoError(t, err)

	var run backup.Run
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &run))
	assert.Equal(t, "r1", run.ID)
	assert.Equal(t, 2*time.Second, run.Outcomes[0].Duration)

	err = newRootCmd().Run(context.Background(), []string{name, "report"})
	assert.Error(t, err)
}

func TestReportCmd_RejectsOtherKinds(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "tag.json")
	require.NoError(t, newRootCmd().Run(context.Background(), []string{name,
		"tag", "--format", "json", "--output", in, "--date", "2024-03-14"}))

	err := newRootCmd().Run(context.Background(), []string{name, "report", in})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TagInfo")
}
