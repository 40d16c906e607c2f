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
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	qberrors "github.com/NVIDIA/qdrant-backup/pkg/errors"
	"github.com/NVIDIA/qdrant-backup/pkg/retention"
)

// Stage copies the artifact byte for byte into dir under the tagged name
// <collection>_<tag><suffix>. The original is never modified. A partially
// written copy is removed before an ErrCodeCopy error is returned.
func Stage(a *Artifact, tag retention.Tag, dir, suffix string) (*TaggedCopy, error) {
	if a == nil {
		return nil, qberrors.New(qberrors.ErrCodeCopy, "no artifact to stage")
	}

	name := retention.FileName(a.Collection, tag, suffix)
	dst := filepath.Join(dir, name)
	errCtx := map[string]any{"source": a.Path, "destination": dst}

	n, modTime, err := copyFile(a.Path, dst)
	if err != nil {
		if rmErr := os.Remove(dst); rmErr != nil && !os.IsNotExist(rmErr) {
			slog.Warn("failed to remove partial copy", "path", dst, "error", rmErr)
		}
		return nil, qberrors.WrapWithContext(qberrors.ErrCodeCopy, "failed to stage tagged copy", err, errCtx)
	}

	// Keep the original timestamp like cp -p.
	if err := os.Chtimes(dst, modTime, modTime); err != nil {
		slog.Debug("failed to preserve modification time", "path", dst, "error", err)
	}

	return &TaggedCopy{
		Artifact: a,
		Name:     name,
		Path:     dst,
		Size:     n,
	}, nil
}

func copyFile(src, dst string) (n int64, modTime time.Time, err error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, modTime, fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, modTime, fmt.Errorf("stat source: %w", err)
	}
	modTime = info.ModTime()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return 0, modTime, fmt.Errorf("create destination: %w", err)
	}

	n, err = io.Copy(out, in)
	if err != nil {
		_ = out.Close()
		return n, modTime, fmt.Errorf("copy: %w", err)
	}
	if err = out.Sync(); err != nil {
		_ = out.Close()
		return n, modTime, fmt.Errorf("sync destination: %w", err)
	}
	if err = out.Close(); err != nil {
		return n, modTime, fmt.Errorf("close destination: %w", err)
	}

	if n != info.Size() {
		return n, modTime, fmt.Errorf("short copy: wrote %d of %d bytes", n, info.Size())
	}
	return n, modTime, nil
}
