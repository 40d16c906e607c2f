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
	"fmt"
	"log/slog"
	"strings"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/qdrant-backup/pkg/config"
	"github.com/NVIDIA/qdrant-backup/pkg/dbapi"
	"github.com/NVIDIA/qdrant-backup/pkg/serializer"
	"github.com/NVIDIA/qdrant-backup/pkg/store"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "path to the YAML configuration file",
		Sources: cli.EnvVars("QBACKUP_CONFIG"),
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output file path (default: stdout)",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Usage:   fmt.Sprintf("output format (%s)", strings.Join(serializer.SupportedFormats(), ", ")),
		Value:   string(serializer.FormatTable),
	}
}

func parseOutputFormat(format string) (serializer.Format, error) {
	f := serializer.Format(strings.ToLower(strings.TrimSpace(format)))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q (supported: %s)",
			format, strings.Join(serializer.SupportedFormats(), ", "))
	}
	return f, nil
}

// settingFlags override configuration values when set on the command line.
func settingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "source-root", Usage: "directory holding per-collection snapshot folders"},
		&cli.StringFlag{Name: "api-url", Usage: "database API base URL"},
		&cli.StringFlag{Name: "bucket", Usage: "destination bucket"},
		&cli.StringFlag{Name: "alias", Usage: "object store alias from the configuration"},
		&cli.StringFlag{Name: "log-path", Usage: "append-only run log file"},
		&cli.IntFlag{Name: "concurrency", Usage: "collections processed at once"},
		&cli.IntFlag{Name: "max-attempts", Usage: "directory scans before a snapshot is reported missing"},
		&cli.DurationFlag{Name: "retry-delay", Usage: "pause between directory scans"},
		&cli.DurationFlag{Name: "run-timeout", Usage: "deadline for the whole run (0 disables)"},
		&cli.StringFlag{Name: "temp-dir", Usage: "directory for tagged copies"},
		&cli.BoolFlag{Name: "ensure-bucket", Usage: "create the bucket when missing"},
		&cli.BoolFlag{Name: "allow-empty", Usage: "treat an empty collection list as success"},
	}
}

// loadConfig resolves defaults, file, environment and flags, in that order.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	str := func(flag string, dst *string) {
		if cmd.IsSet(flag) {
			*dst = cmd.String(flag)
		}
	}
	str("source-root", &cfg.SourceRoot)
	str("api-url", &cfg.APIBaseURL)
	str("bucket", &cfg.BucketName)
	str("alias", &cfg.ObjectStoreAlias)
	str("log-path", &cfg.LogPath)
	str("temp-dir", &cfg.TempDir)

	if cmd.IsSet("concurrency") {
		cfg.Concurrency = int(cmd.Int("concurrency"))
	}
	if cmd.IsSet("max-attempts") {
		cfg.MaxLocateAttempts = int(cmd.Int("max-attempts"))
	}
	if cmd.IsSet("retry-delay") {
		cfg.LocateRetryDelay = cmd.Duration("retry-delay")
	}
	if cmd.IsSet("run-timeout") {
		cfg.RunTimeout = cmd.Duration("run-timeout")
	}
	if cmd.IsSet("ensure-bucket") {
		cfg.EnsureBucket = cmd.Bool("ensure-bucket")
	}
	if cmd.IsSet("allow-empty") {
		cfg.FailOnEmpty = !cmd.Bool("allow-empty")
	}
	return cfg, nil
}

func newDBClient(cfg *config.Config) (*dbapi.Client, error) {
	return dbapi.NewClient(cfg.APIBaseURL,
		dbapi.WithCollectionsField(cfg.API.CollectionsField),
		dbapi.WithListRetries(cfg.API.Retries),
		dbapi.WithTimeout(cfg.API.Timeout),
		dbapi.WithTriggerRate(cfg.API.TriggerRate),
	)
}

func newObjectStore(cfg *config.Config) (store.ObjectStore, error) {
	sc, err := cfg.ObjectStore()
	if err != nil {
		return nil, err
	}
	return store.New(sc)
}

// notify reports state to systemd when running under a unit with
// NOTIFY_SOCKET set. It is a no-op otherwise.
func notify(state string) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		slog.Debug("failed to notify systemd", "state", state, "error", err)
		return
	}
	if sent {
		slog.Debug("notified systemd", "state", state)
	}
}
