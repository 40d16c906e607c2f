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

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/qdrant-backup/pkg/defaults"
	qberrors "github.com/NVIDIA/qdrant-backup/pkg/errors"
	"github.com/NVIDIA/qdrant-backup/pkg/store"
)

// Environment variables that override file values.
const (
	EnvSourceRoot       = "QBACKUP_SOURCE_ROOT"
	EnvAPIBaseURL       = "QBACKUP_API_BASE_URL"
	EnvBucketName       = "QBACKUP_BUCKET"
	EnvObjectStoreAlias = "QBACKUP_OBJECT_STORE_ALIAS"
	EnvLogPath          = "QBACKUP_LOG_PATH"
	EnvConcurrency      = "QBACKUP_CONCURRENCY"
	EnvEndpoint         = "QBACKUP_ENDPOINT"
	EnvAccessKey        = "QBACKUP_ACCESS_KEY"
	EnvSecretKey        = "QBACKUP_SECRET_KEY"
)

// APIConfig tunes the database HTTP client.
type APIConfig struct {
	Timeout          time.Duration `json:"timeout" yaml:"timeout"`
	Retries          int           `json:"retries" yaml:"retries"`
	CollectionsField string        `json:"collectionsField" yaml:"collectionsField"`
	// TriggerRate caps snapshot triggers per second. Zero disables pacing.
	TriggerRate float64 `json:"triggerRate" yaml:"triggerRate"`
}

// Config holds everything one backup run needs.
type Config struct {
	SourceRoot        string        `json:"sourceRoot" yaml:"sourceRoot"`
	APIBaseURL        string        `json:"apiBaseURL" yaml:"apiBaseURL"`
	BucketName        string        `json:"bucketName" yaml:"bucketName"`
	ObjectStoreAlias  string        `json:"objectStoreAlias" yaml:"objectStoreAlias"`
	LogPath           string        `json:"logPath" yaml:"logPath"`
	MaxLocateAttempts int           `json:"maxLocateAttempts" yaml:"maxLocateAttempts"`
	LocateRetryDelay  time.Duration `json:"locateRetryDelay" yaml:"locateRetryDelay"`
	SnapshotSuffix    string        `json:"snapshotSuffix" yaml:"snapshotSuffix"`
	TempDir           string        `json:"tempDir" yaml:"tempDir"`
	Concurrency       int           `json:"concurrency" yaml:"concurrency"`
	RunTimeout        time.Duration `json:"runTimeout" yaml:"runTimeout"`
	FailOnEmpty       bool          `json:"failOnEmpty" yaml:"failOnEmpty"`
	EnsureBucket      bool          `json:"ensureBucket" yaml:"ensureBucket"`

	API          APIConfig               `json:"api" yaml:"api"`
	ObjectStores map[string]store.Config `json:"objectStores" yaml:"objectStores"`
}

// Default returns a Config populated with defaults. Deployment specific
// values (paths, URLs, bucket, alias) are left empty.
func Default() *Config {
	return &Config{
		MaxLocateAttempts: defaults.LocateMaxAttempts,
		LocateRetryDelay:  defaults.LocateRetryDelay,
		SnapshotSuffix:    defaults.SnapshotSuffix,
		TempDir:           os.TempDir(),
		Concurrency:       defaults.RunConcurrency,
		FailOnEmpty:       true,
		API: APIConfig{
			Timeout:          defaults.HTTPClientTimeout,
			Retries:          defaults.HTTPListRetries,
			CollectionsField: defaults.CollectionsField,
		},
		ObjectStores: map[string]store.Config{},
	}
}

// Load reads the YAML file at path over the defaults and applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, qberrors.WrapWithContext(qberrors.ErrCodeConfig, "failed to read config file", err,
				map[string]any{"path": path})
		}
		if err := cfg.decode(data); err != nil {
			return nil, qberrors.WrapWithContext(qberrors.ErrCodeConfig, "failed to parse config file", err,
				map[string]any{"path": path})
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if c.ObjectStores == nil {
		c.ObjectStores = map[string]store.Config{}
	}
	return nil
}

// ApplyEnv overrides fields from the environment using lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str(EnvSourceRoot, &c.SourceRoot)
	str(EnvAPIBaseURL, &c.APIBaseURL)
	str(EnvBucketName, &c.BucketName)
	str(EnvObjectStoreAlias, &c.ObjectStoreAlias)
	str(EnvLogPath, &c.LogPath)

	if v, ok := lookup(EnvConcurrency); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return qberrors.WrapWithContext(qberrors.ErrCodeConfig, "invalid concurrency", err,
				map[string]any{"env": EnvConcurrency, "value": v})
		}
		c.Concurrency = n
	}

	endpoint, _ := lookup(EnvEndpoint)
	access, _ := lookup(EnvAccessKey)
	secret, _ := lookup(EnvSecretKey)
	if endpoint == "" && access == "" && secret == "" {
		return nil
	}
	if c.ObjectStoreAlias == "" {
		return qberrors.NewWithContext(qberrors.ErrCodeConfig,
			"object store credentials set in environment but no alias selected",
			map[string]any{"env": EnvObjectStoreAlias})
	}
	if c.ObjectStores == nil {
		c.ObjectStores = map[string]store.Config{}
	}
	sc := c.ObjectStores[c.ObjectStoreAlias]
	if endpoint != "" {
		sc.Endpoint = endpoint
	}
	if access != "" {
		sc.AccessKey = access
	}
	if secret != "" {
		sc.SecretKey = secret
	}
	c.ObjectStores[c.ObjectStoreAlias] = sc
	return nil
}

// Validate checks that the configuration is complete and consistent.
func (c *Config) Validate() error {
	var missing []string
	for name, v := range map[string]string{
		"sourceRoot":       c.SourceRoot,
		"apiBaseURL":       c.APIBaseURL,
		"bucketName":       c.BucketName,
		"objectStoreAlias": c.ObjectStoreAlias,
		"logPath":          c.LogPath,
		"snapshotSuffix":   c.SnapshotSuffix,
		"tempDir":          c.TempDir,
	} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return qberrors.NewWithContext(qberrors.ErrCodeConfig,
			fmt.Sprintf("missing required settings: %s", strings.Join(missing, ", ")),
			map[string]any{"missing": missing})
	}

	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return qberrors.WrapWithContext(qberrors.ErrCodeConfig, "apiBaseURL must be an absolute URL", err,
			map[string]any{"apiBaseURL": c.APIBaseURL})
	}

	switch {
	case c.MaxLocateAttempts < 1:
		return invalid("maxLocateAttempts", c.MaxLocateAttempts, "must be at least 1")
	case c.LocateRetryDelay < 0:
		return invalid("locateRetryDelay", c.LocateRetryDelay, "must not be negative")
	case c.Concurrency < 1 || c.Concurrency > defaults.RunMaxConcurrency:
		return invalid("concurrency", c.Concurrency, fmt.Sprintf("must be between 1 and %d", defaults.RunMaxConcurrency))
	case c.RunTimeout < 0:
		return invalid("runTimeout", c.RunTimeout, "must not be negative")
	case c.API.Timeout < 0:
		return invalid("api.timeout", c.API.Timeout, "must not be negative")
	case c.API.Retries < 0:
		return invalid("api.retries", c.API.Retries, "must not be negative")
	case c.API.TriggerRate < 0:
		return invalid("api.triggerRate", c.API.TriggerRate, "must not be negative")
	case strings.TrimSpace(c.API.CollectionsField) == "":
		return invalid("api.collectionsField", c.API.CollectionsField, "must not be empty")
	}

	_, err = c.ObjectStore()
	return err
}

// ObjectStore resolves the selected alias to its store configuration.
func (c *Config) ObjectStore() (store.Config, error) {
	sc, ok := c.ObjectStores[c.ObjectStoreAlias]
	if !ok {
		return store.Config{}, qberrors.NewWithContext(qberrors.ErrCodeConfig,
			fmt.Sprintf("unknown object store alias %q", c.ObjectStoreAlias),
			map[string]any{"alias": c.ObjectStoreAlias, "known": c.aliases()})
	}
	if strings.TrimSpace(sc.Endpoint) == "" {
		return store.Config{}, qberrors.NewWithContext(qberrors.ErrCodeConfig,
			fmt.Sprintf("object store alias %q has no endpoint", c.ObjectStoreAlias),
			map[string]any{"alias": c.ObjectStoreAlias})
	}
	return sc, nil
}

func (c *Config) aliases() []string {
	names := make([]string, 0, len(c.ObjectStores))
	for k := range c.ObjectStores {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func invalid(field string, value any, reason string) error {
	return qberrors.NewWithContext(qberrors.ErrCodeConfig,
		fmt.Sprintf("invalid %s: %s", field, reason),
		map[string]any{field: value})
}
