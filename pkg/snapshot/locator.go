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
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/NVIDIA/qdrant-backup/pkg/defaults"
	qberrors "github.com/NVIDIA/qdrant-backup/pkg/errors"
	"github.com/NVIDIA/qdrant-backup/pkg/retry"
)

// Locator finds the snapshot artifact of a collection under a source root
// laid out as <root>/<collection>/*<suffix>.
type Locator struct {
	root        string
	suffix      string
	maxAttempts int
	retryDelay  time.Duration
}

// LocatorOption configures a Locator.
type LocatorOption func(*Locator)

// WithSuffix sets the artifact file suffix. Default is ".snapshot".
func WithSuffix(suffix string) LocatorOption {
	return func(l *Locator) {
		if suffix != "" {
			l.suffix = suffix
		}
	}
}

// WithMaxAttempts sets the number of directory scans. Default is 5.
func WithMaxAttempts(n int) LocatorOption {
	return func(l *Locator) {
		l.maxAttempts = n
	}
}

// WithRetryDelay sets the pause between scans. Default is 2s.
func WithRetryDelay(d time.Duration) LocatorOption {
	return func(l *Locator) {
		l.retryDelay = d
	}
}

// NewLocator creates a Locator rooted at root.
func NewLocator(root string, opts ...LocatorOption) *Locator {
	l := &Locator{
		root:        root,
		suffix:      defaults.SnapshotSuffix,
		maxAttempts: defaults.LocateMaxAttempts,
		retryDelay:  defaults.LocateRetryDelay,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Root returns the source root directory.
func (l *Locator) Root() string { return l.root }

// Suffix returns the artifact suffix.
func (l *Locator) Suffix() string { return l.suffix }

// Dir returns the directory searched for the collection's artifacts.
func (l *Locator) Dir(collection string) string {
	return filepath.Join(l.root, collection)
}

// CheckRoot verifies the source root exists and is a directory.
// A failure means the whole backup path is misconfigured.
func (l *Locator) CheckRoot() error {
	info, err := os.Stat(l.root)
	if err != nil {
		return qberrors.WrapWithContext(qberrors.ErrCodeSourceRoot, "source directory does not exist", err,
			map[string]any{"path": l.root})
	}
	if !info.IsDir() {
		return qberrors.NewWithContext(qberrors.ErrCodeSourceRoot, "source path is not a directory",
			map[string]any{"path": l.root})
	}
	return nil
}

// Scan performs a single search of the collection directory and returns the
// largest artifact, or nil when none is usable yet. Files are listed in name
// order and stably sorted by size, so the first of equally sized files wins.
// A missing directory and a zero-byte largest file both count as not found.
// Symlinked artifacts are measured by their target.
func (l *Locator) Scan(collection string) (*Artifact, error) {
	if err := ValidateCollection(collection); err != nil {
		return nil, err
	}

	dir := l.Dir(collection)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Debug("cannot read collection directory", "path", dir, "error", err)
		}
		return nil, nil
	}

	candidates := make([]*Artifact, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), l.suffix) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		// follow symlinks; dangling links and non-files are skipped
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		candidates = append(candidates, &Artifact{
			Collection: collection,
			Name:       e.Name(),
			Path:       path,
			Size:       info.Size(),
			ModTime:    info.ModTime(),
		})
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Size > candidates[j].Size
	})

	largest := candidates[0]
	if largest.Size == 0 {
		return nil, nil
	}
	return largest, nil
}

// Locate polls the collection directory until an artifact is found, the
// attempts are used up (ErrCodeNotFound) or ctx is done (ErrCodeTimeout).
func (l *Locator) Locate(ctx context.Context, collection string) (*Artifact, error) {
	if err := ValidateCollection(collection); err != nil {
		return nil, err
	}

	dir := l.Dir(collection)
	var found *Artifact
	policy := retry.Policy{
		MaxAttempts: l.maxAttempts,
		Delay:       l.retryDelay,
		OnRetry: func(attempt int, wait time.Duration) {
			slog.Debug("snapshot not ready, retrying",
				"collection", collection,
				"attempt", attempt,
				"wait", wait.String())
		},
	}

	err := retry.Until(ctx, policy, func(_ context.Context, _ int) (bool, error) {
		a, err := l.Scan(collection)
		if err != nil {
			return false, err
		}
		found = a
		return a != nil, nil
	})

	switch {
	case err == nil:
		slog.Debug("snapshot located",
			"collection", collection,
			"name", found.Name,
			"size", found.Size)
		return found, nil
	case errors.Is(err, retry.ErrExhausted):
		return nil, qberrors.NewWithContext(qberrors.ErrCodeNotFound, "snapshot file not found or empty",
			map[string]any{"path": dir, "attempts": l.maxAttempts})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil, qberrors.WrapWithContext(qberrors.ErrCodeTimeout, "locate interrupted", err,
			map[string]any{"path": dir})
	default:
		return nil, err
	}
}
