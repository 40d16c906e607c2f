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
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	qberrors "github.com/NVIDIA/qdrant-backup/pkg/errors"
)

// MinioStore implements ObjectStore using the minio-go SDK.
type MinioStore struct {
	client *minio.Client
	region string
}

// NewMinioStore creates a MinIO/S3 client from cfg.
func NewMinioStore(cfg Config) (*MinioStore, error) {
	if cfg.Endpoint == "" {
		return nil, qberrors.New(qberrors.ErrCodeConfig, "object store endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, qberrors.NewWithContext(qberrors.ErrCodeConfig, "object store credentials are required",
			map[string]any{"endpoint": cfg.Endpoint})
	}

	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, qberrors.WrapWithContext(qberrors.ErrCodeConfig, "invalid object store endpoint", err,
			map[string]any{"endpoint": cfg.Endpoint})
	}
	host := u.Host
	if host == "" {
		host = cfg.Endpoint
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL || u.Scheme == "https",
		Region: cfg.Region,
	})
	if err != nil {
		return nil, qberrors.WrapWithContext(qberrors.ErrCodeConfig, "failed to create object store client", err,
			map[string]any{"endpoint": cfg.Endpoint})
	}

	return &MinioStore{client: client, region: cfg.Region}, nil
}

// EnsureBucket creates bucket when it does not exist yet.
func (s *MinioStore) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := s.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return classify(qberrors.ErrCodeBucket, "failed to create bucket", err,
			map[string]any{"bucket": bucket})
	}
	return nil
}

// BucketExists reports whether bucket is present.
func (s *MinioStore) BucketExists(ctx context.Context, bucket string) (bool, error) {
	if bucket == "" {
		return false, qberrors.New(qberrors.ErrCodeBucket, "bucket is required")
	}
	ok, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return false, classify(qberrors.ErrCodeBucket, "failed to check bucket", err,
			map[string]any{"bucket": bucket})
	}
	return ok, nil
}

// PutFile uploads the file at path to bucket/key, replacing any existing object.
func (s *MinioStore) PutFile(ctx context.Context, bucket, key, path string) (int64, error) {
	if err := validateTarget(bucket, key); err != nil {
		return 0, err
	}
	info, err := s.client.FPutObject(ctx, bucket, key, path, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return 0, classify(qberrors.ErrCodeUpload, "failed to upload object", err,
			map[string]any{"bucket": bucket, "key": key})
	}
	return info.Size, nil
}

// ListPrefix returns the keys under prefix, recursively.
func (s *MinioStore) ListPrefix(ctx context.Context, bucket, prefix string) ([]string, error) {
	if bucket == "" {
		return nil, qberrors.New(qberrors.ErrCodeBucket, "bucket is required")
	}
	var keys []string
	for obj := range s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, classify(qberrors.ErrCodeBucket, "failed to list objects", obj.Err,
				map[string]any{"bucket": bucket, "prefix": prefix})
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

// classify wraps an SDK error and records a short reason in the context.
func classify(code qberrors.ErrorCode, msg string, err error, errCtx map[string]any) *qberrors.StructuredError {
	errCtx["reason"] = reason(err)
	if errors.Is(err, context.DeadlineExceeded) {
		code = qberrors.ErrCodeTimeout
	}
	return qberrors.WrapWithContext(code, msg, err, errCtx)
}

func reason(err error) string {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		switch resp.Code {
		case "NoSuchBucket":
			return "bucket_not_found"
		case "AccessDenied":
			return "permission_denied"
		case "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return "auth_invalid"
		}
		if resp.Code != "" {
			return strings.ToLower(resp.Code)
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline"):
		return "timeout"
	case strings.Contains(msg, "connection refused"), strings.Contains(msg, "no such host"):
		return "endpoint_unreachable"
	case strings.Contains(msg, "access denied"), strings.Contains(msg, "permission"):
		return "permission_denied"
	default:
		return fmt.Sprintf("%T", err)
	}
}
