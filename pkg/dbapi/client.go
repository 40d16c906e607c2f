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

package dbapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/NVIDIA/qdrant-backup/pkg/defaults"
	qberrors "github.com/NVIDIA/qdrant-backup/pkg/errors"
)

const (
	listPath    = "/get_collections"
	triggerPath = "/create_snapshot/"

	// maxListBody bounds the listing response read into memory.
	maxListBody = 16 << 20
)

// Client talks to the database-facing HTTP API.
type Client struct {
	baseURL          string
	collectionsField string
	listClient       *retryablehttp.Client
	triggerClient    *retryablehttp.Client
	limiter          *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithCollectionsField sets the gjson path of the identifier array in the
// listing response. Default is "collections".
func WithCollectionsField(field string) Option {
	return func(c *Client) {
		if field != "" {
			c.collectionsField = field
		}
	}
}

// WithListRetries sets how many extra attempts the listing call gets.
// The snapshot trigger is never retried.
func WithListRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.listClient.RetryMax = n
		}
	}
}

// WithTimeout sets the per-request timeout of both calls.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.listClient.HTTPClient.Timeout = d
			c.triggerClient.HTTPClient.Timeout = d
		}
	}
}

// WithTriggerRate limits snapshot trigger requests to perSecond, with a burst
// of one. Zero or negative disables pacing.
func WithTriggerRate(perSecond float64) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithHTTPClient replaces the underlying transport client for both calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.listClient.HTTPClient = hc
			c.triggerClient.HTTPClient = hc
		}
	}
}

// NewClient returns a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, qberrors.WrapWithContext(qberrors.ErrCodeConfig, "invalid API base URL", err,
			map[string]any{"url": baseURL})
	}

	c := &Client{
		baseURL:          strings.TrimRight(u.String(), "/"),
		collectionsField: defaults.CollectionsField,
		listClient:       newRetryableClient(defaults.HTTPListRetries),
		triggerClient:    newRetryableClient(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func newRetryableClient(retries int) *retryablehttp.Client {
	rc := retryablehttp.NewClient()
	rc.HTTPClient = newHTTPClient()
	rc.RetryMax = retries
	rc.RetryWaitMin = defaults.HTTPRetryWaitMin
	rc.RetryWaitMax = defaults.HTTPRetryWaitMax
	rc.Logger = nil
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return rc
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: defaults.HTTPClientTimeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   defaults.HTTPConnectTimeout,
				KeepAlive: defaults.HTTPKeepAlive,
			}).DialContext,
			TLSHandshakeTimeout:   defaults.HTTPTLSHandshakeTimeout,
			ResponseHeaderTimeout: defaults.HTTPResponseHeaderTimeout,
			IdleConnTimeout:       defaults.HTTPIdleConnTimeout,
			MaxIdleConnsPerHost:   defaults.RunMaxConcurrency,
		},
	}
}

// ListCollections returns the collection identifiers known to the database.
// Non-string entries of the array are skipped. Any failure is an ErrCodeList
// error; an empty array is returned as an empty, non-nil slice.
func (c *Client) ListCollections(ctx context.Context) ([]string, error) {
	endpoint := c.baseURL + listPath
	errCtx := map[string]any{"url": endpoint}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, qberrors.WrapWithContext(qberrors.ErrCodeList, "failed to build listing request", err, errCtx)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.listClient.Do(req)
	if err != nil {
		return nil, qberrors.WrapWithContext(qberrors.ErrCodeList, "collection listing unreachable", err, errCtx)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxListBody))
	if err != nil {
		return nil, qberrors.WrapWithContext(qberrors.ErrCodeList, "failed to read listing response", err, errCtx)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errCtx["status"] = resp.StatusCode
		return nil, qberrors.NewWithContext(qberrors.ErrCodeList,
			fmt.Sprintf("collection listing returned status %d", resp.StatusCode), errCtx)
	}

	if !gjson.ValidBytes(body) {
		return nil, qberrors.NewWithContext(qberrors.ErrCodeList, "collection listing is not valid JSON", errCtx)
	}

	field := gjson.GetBytes(body, c.collectionsField)
	if !field.IsArray() {
		errCtx["field"] = c.collectionsField
		return nil, qberrors.NewWithContext(qberrors.ErrCodeList,
			fmt.Sprintf("collection listing has no %q array", c.collectionsField), errCtx)
	}

	entries := field.Array()
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type != gjson.String || e.Str == "" {
			slog.Debug("skipping non-string collection entry", "raw", e.Raw)
			continue
		}
		names = append(names, e.Str)
	}

	slog.Debug("listed collections", "count", len(names), "url", endpoint)
	return names, nil
}

// TriggerSnapshot asks the database to create a snapshot of collection.
// Completion is asynchronous; the response body is discarded. Transport
// failures and non-2xx statuses are ErrCodeTrigger errors.
func (c *Client) TriggerSnapshot(ctx context.Context, collection string) error {
	endpoint := c.baseURL + triggerPath + url.PathEscape(collection)
	errCtx := map[string]any{"url": endpoint, "collection": collection}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return qberrors.WrapWithContext(qberrors.ErrCodeTrigger, "snapshot trigger not sent", err, errCtx)
		}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return qberrors.WrapWithContext(qberrors.ErrCodeTrigger, "failed to build trigger request", err, errCtx)
	}

	resp, err := c.triggerClient.Do(req)
	if err != nil {
		return qberrors.WrapWithContext(qberrors.ErrCodeTrigger, "snapshot trigger failed", err, errCtx)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errCtx["status"] = resp.StatusCode
		return qberrors.NewWithContext(qberrors.ErrCodeTrigger,
			fmt.Sprintf("snapshot trigger returned status %d", resp.StatusCode), errCtx)
	}

	slog.Debug("snapshot requested", "collection", collection)
	return nil
}
