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
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	qberrors "github.com/NVIDIA/qdrant-backup/pkg/errors"
)

// LocalStore keeps objects as files under <root>/<bucket>/<key>. It backs
// file:// endpoints for development and tests.
type LocalStore struct {
	root string
}

// NewLocalStore creates a store rooted at root.
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

func (s *LocalStore) bucketPath(bucket string) string {
	return filepath.Join(s.root, bucket)
}

func (s *LocalStore) objectPath(bucket, key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" || clean != "/"+key {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.bucketPath(bucket), filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

// EnsureBucket creates the bucket directory.
func (s *LocalStore) EnsureBucket(ctx context.Context, bucket string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if bucket == "" {
		return qberrors.New(qberrors.ErrCodeBucket, "bucket is required")
	}
	if err := os.MkdirAll(s.bucketPath(bucket), 0o755); err != nil {
		return qberrors.WrapWithContext(qberrors.ErrCodeBucket, "failed to create bucket", err,
			map[string]any{"bucket": bucket})
	}
	return nil
}

// BucketExists reports whether the bucket directory exists.
func (s *LocalStore) BucketExists(ctx context.Context, bucket string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	info, err := os.Stat(s.bucketPath(bucket))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, qberrors.Wrap(qberrors.ErrCodeBucket, "failed to check bucket", err)
	}
	return info.IsDir(), nil
}

// PutFile copies path to the object location, replacing it atomically.
func (s *LocalStore) PutFile(ctx context.Context, bucket, key, src string) (int64, error) {
	if err := validateTarget(bucket, key); err != nil {
		return 0, err
	}
	errCtx := map[string]any{"bucket": bucket, "key": key}
	if err := ctx.Err(); err != nil {
		return 0, qberrors.WrapWithContext(qberrors.ErrCodeUpload, "upload canceled", err, errCtx)
	}

	dst, err := s.objectPath(bucket, key)
	if err != nil {
		return 0, qberrors.WrapWithContext(qberrors.ErrCodeUpload, "invalid object key", err, errCtx)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, qberrors.WrapWithContext(qberrors.ErrCodeUpload, "failed to create object directory", err, errCtx)
	}

	n, err := writeAtomic(src, dst)
	if err != nil {
		return 0, qberrors.WrapWithContext(qberrors.ErrCodeUpload, "failed to store object", err, errCtx)
	}
	return n, nil
}

func writeAtomic(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return 0, err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	n, err := io.Copy(tmp, in)
	if err != nil {
		_ = tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return 0, err
	}
	return n, nil
}

// ListPrefix returns the sorted keys under prefix.
func (s *LocalStore) ListPrefix(ctx context.Context, bucket, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	base := s.bucketPath(bucket)
	var keys []string
	err := filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".upload-") {
			return nil
		}
		rel, err := filepath.Rel(base, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, qberrors.WrapWithContext(qberrors.ErrCodeBucket, "failed to list objects", err,
			map[string]any{"bucket": bucket, "prefix": prefix})
	}
	sort.Strings(keys)
	return keys, nil
}
