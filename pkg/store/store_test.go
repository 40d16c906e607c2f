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

package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qberrors "github.com/NVIDIA/qdrant-backup/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantType string
		wantErr  bool
	}{
		{name: "local", cfg: Config{Endpoint: "file:///tmp/qbackup"}, wantType: "local"},
		{name: "minio", cfg: Config{Endpoint: "http://127.0.0.1:9000", AccessKey: "a", SecretKey: "b"}, wantType: "minio"},
		{name: "minio https", cfg: Config{Endpoint: "https://s3.example.com", AccessKey: "a", SecretKey: "b"}, wantType: "minio"},
		{name: "missing credentials", cfg: Config{Endpoint: "http://127.0.0.1:9000"}, wantErr: true},
		{name: "unsupported scheme", cfg: Config{Endpoint: "ftp://host"}, wantErr: true},
		{name: "empty", cfg: Config{}, wantErr: true},
		{name: "local without path", cfg: Config{Endpoint: "file://"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, qberrors.IsCode(err, qberrors.ErrCodeConfig))
				return
			}
			require.NoError(t, err)
			switch tt.wantType {
			case "local":
				assert.IsType(t, &LocalStore{}, s)
			case "minio":
				assert.IsType(t, &MinioStore{}, s)
			}
		})
	}
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0o600))
	return p
}

func TestLocalStore_PutFileOverwrites(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	src := t.TempDir()
	s := NewLocalStore(root)

	require.NoError(t, s.EnsureBucket(ctx, "backup-qdrant"))
	ok, err := s.BucketExists(ctx, "backup-qdrant")
	require.NoError(t, err)
	assert.True(t, ok)

	key := "StoreA_Customers/StoreA_Customers_Chan.snapshot"
	n, err := s.PutFile(ctx, "backup-qdrant", key, writeFile(t, src, "a", []byte("first version")))
	require.NoError(t, err)
	assert.Equal(t, int64(13), n)

	n, err = s.PutFile(ctx, "backup-qdrant", key, writeFile(t, src, "b", []byte("second")))
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)

	got, err := os.ReadFile(filepath.Join(root, "backup-qdrant", "StoreA_Customers", "StoreA_Customers_Chan.snapshot"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	keys, err := s.ListPrefix(ctx, "backup-qdrant", "StoreA_Customers/")
	require.NoError(t, err)
	assert.Equal(t, []string{key}, keys)
}

func TestLocalStore_PutFileErrors(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStore(t.TempDir())

	tests := []struct {
		name   string
		bucket string
		key    string
		src    string
	}{
		{name: "missing bucket", key: "k", src: "x"},
		{name: "missing key", bucket: "b", src: "x"},
		{name: "escaping key", bucket: "b", key: "../etc/passwd", src: "x"},
		{name: "missing source", bucket: "b", key: "c/c_Le.snapshot", src: filepath.Join(t.TempDir(), "nope")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.PutFile(ctx, tt.bucket, tt.key, tt.src)
			require.Error(t, err)
			assert.Equal(t, qberrors.ErrCodeUpload, qberrors.CodeOf(err))
		})
	}
}

func TestLocalStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewLocalStore(t.TempDir())
	src := writeFile(t, t.TempDir(), "a", []byte("x"))

	_, err := s.PutFile(ctx, "b", "c/c_Le.snapshot", src)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestLocalStore_ListMissingBucket(t *testing.T) {
	s := NewLocalStore(t.TempDir())
	keys, err := s.ListPrefix(context.Background(), "absent", "")
	require.NoError(t, err)
	assert.Empty(t, keys)

	ok, err := s.BucketExists(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: minio.ErrorResponse{Code: "NoSuchBucket"}, want: "bucket_not_found"},
		{err: minio.ErrorResponse{Code: "AccessDenied"}, want: "permission_denied"},
		{err: minio.ErrorResponse{Code: "SignatureDoesNotMatch"}, want: "auth_invalid"},
		{err: minio.ErrorResponse{Code: "SlowDown"}, want: "slowdown"},
		{err: errors.New("dial tcp: connection refused"), want: "endpoint_unreachable"},
		{err: errors.New("i/o timeout"), want: "timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, reason(tt.err))
		})
	}
}

func TestClassify_DeadlineIsTimeout(t *testing.T) {
	err := classify(qberrors.ErrCodeUpload, "failed to upload object", context.DeadlineExceeded, map[string]any{})
	assert.Equal(t, qberrors.ErrCodeTimeout, err.Code)
	assert.Equal(t, "timeout", err.Context["reason"])
}
