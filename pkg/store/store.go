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
	"fmt"
	"net/url"
	"strings"

	qberrors "github.com/NVIDIA/qdrant-backup/pkg/errors"
)

// ObjectStore is the subset of S3 operations the orchestrator needs.
// PutFile must overwrite any existing object at the same key.
type ObjectStore interface {
	EnsureBucket(ctx context.Context, bucket string) error
	BucketExists(ctx context.Context, bucket string) (bool, error)
	PutFile(ctx context.Context, bucket, key, path string) (int64, error)
	ListPrefix(ctx context.Context, bucket, prefix string) ([]string, error)
}

// Config describes how to reach one object store alias.
type Config struct {
	// Endpoint is http(s)://host:port for S3/MinIO or file:///dir for a local store.
	Endpoint  string `json:"endpoint" yaml:"endpoint"`
	AccessKey string `json:"accessKey,omitempty" yaml:"accessKey,omitempty"`
	SecretKey string `json:"-" yaml:"secretKey,omitempty"`
	Region    string `json:"region,omitempty" yaml:"region,omitempty"`
	UseSSL    bool   `json:"useSSL,omitempty" yaml:"useSSL,omitempty"`
}

// IsLocal reports whether the endpoint points at a local directory.
func (c Config) IsLocal() bool {
	return strings.HasPrefix(strings.TrimSpace(c.Endpoint), "file://")
}

// New returns the ObjectStore implementation selected by the endpoint scheme.
func New(cfg Config) (ObjectStore, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	switch {
	case cfg.IsLocal():
		u, err := url.Parse(endpoint)
		if err != nil || u.Path == "" {
			return nil, qberrors.WrapWithContext(qberrors.ErrCodeConfig, "invalid local store endpoint", err,
				map[string]any{"endpoint": endpoint})
		}
		return NewLocalStore(u.Path), nil
	case strings.HasPrefix(endpoint, "http://"), strings.HasPrefix(endpoint, "https://"):
		return NewMinioStore(cfg)
	default:
		return nil, qberrors.NewWithContext(qberrors.ErrCodeConfig,
			fmt.Sprintf("unsupported object store endpoint %q", endpoint),
			map[string]any{"endpoint": endpoint})
	}
}

func validateTarget(bucket, key string) error {
	if bucket == "" {
		return qberrors.New(qberrors.ErrCodeUpload, "bucket is required")
	}
	if key == "" {
		return qberrors.New(qberrors.ErrCodeUpload, "object key is required")
	}
	return nil
}
