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
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/qdrant-backup/pkg/backup"
	"github.com/NVIDIA/qdrant-backup/pkg/config"
	"github.com/NVIDIA/qdrant-backup/pkg/defaults"
	"github.com/NVIDIA/qdrant-backup/pkg/runlog"
	"github.com/NVIDIA/qdrant-backup/pkg/serializer"
	"github.com/NVIDIA/qdrant-backup/pkg/server"
	"github.com/NVIDIA/qdrant-backup/pkg/snapshot"
)

func runCmd() *cli.Command {
	flags := append(settingFlags(),
		&cli.DurationFlag{
			Name:  "interval",
			Usage: "repeat the run at this interval instead of exiting (0 runs once)",
		},
		&cli.StringFlag{
			Name:  "report",
			Usage: "write the run report to this path (\"-\" for stdout)",
		},
		formatFlag(),
		&cli.StringFlag{
			Name:  "metrics-file",
			Usage: "write Prometheus metrics in textfile format to this path after each run",
		},
		&cli.StringFlag{
			Name:    "listen",
			Usage:   "serve health, readiness, metrics and the last run report on this address (with --interval)",
			Sources: cli.EnvVars(server.EnvAddress),
		},
	)

	return &cli.Command{
		Name:                  "run",
		EnableShellCompletion: true,
		Usage:                 "Snapshot and upload every collection",
		Description: `Run one backup pass:

  1. List collections from the database API
  2. Trigger a snapshot of each collection
  3. Wait for the snapshot file under <source-root>/<collection>/
  4. Copy it to <collection>_<tag>.snapshot and upload it to
     <bucket>/<collection>/<collection>_<tag>.snapshot

Progress is appended to the run log. A missing snapshot or a failed upload
only affects its collection; the command still exits 0. Configuration
problems, an unreachable API or a missing source root exit 1.

# Examples

  qbackup --config /etc/qbackup/config.yaml run

  qbackup -c config.yaml run --concurrency 4 --report - --format table

  qbackup -c config.yaml run --interval 24h --metrics-file /var/lib/node_exporter/qbackup.prom

  qbackup -c config.yaml run --interval 24h --listen :9464`,
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			var outFormat serializer.Format
			if cmd.String("report") != "" {
				if outFormat, err = parseOutputFormat(cmd.String("format")); err != nil {
					return err
				}
			}

			sink, err := runlog.Open(cfg.LogPath, runlog.WithLogger(slog.Default()))
			if err != nil {
				return err
			}
			defer func() {
				if cerr := sink.Close(); cerr != nil {
					slog.Warn("failed to close run log", "error", cerr)
				}
			}()

			orch, err := newOrchestrator(cfg, sink)
			if err != nil {
				return err
			}

			r := &runner{
				orch:        orch,
				report:      cmd.String("report"),
				format:      outFormat,
				metricsFile: cmd.String("metrics-file"),
			}

			interval := cmd.Duration("interval")
			listen := cmd.String("listen")
			if interval <= 0 {
				if listen != "" {
					slog.Warn("--listen is ignored without --interval", "listen", listen)
				}
				return r.once(ctx)
			}
			if listen == "" {
				return r.loop(ctx, interval)
			}

			scfg := server.NewConfig()
			scfg.Address = listen
			scfg.Version = version
			r.status = server.New(server.WithConfig(scfg))
			return r.serve(ctx, interval)
		},
	}
}

func newOrchestrator(cfg *config.Config, sink backup.Sink) (*backup.Orchestrator, error) {
	client, err := newDBClient(cfg)
	if err != nil {
		return nil, err
	}
	objects, err := newObjectStore(cfg)
	if err != nil {
		return nil, err
	}

	return &backup.Orchestrator{
		Lister:    client,
		Triggerer: client,
		Locator: snapshot.NewLocator(cfg.SourceRoot,
			snapshot.WithSuffix(cfg.SnapshotSuffix),
			snapshot.WithMaxAttempts(cfg.MaxLocateAttempts),
			snapshot.WithRetryDelay(cfg.LocateRetryDelay)),
		Store:         objects,
		Sink:          sink,
		Version:       version,
		Bucket:        cfg.BucketName,
		Suffix:        cfg.SnapshotSuffix,
		TempDir:       cfg.TempDir,
		Concurrency:   cfg.Concurrency,
		RunTimeout:    cfg.RunTimeout,
		UploadTimeout: defaults.UploadTimeout,
		FailOnEmpty:   cfg.FailOnEmpty,
		EnsureBucket:  cfg.EnsureBucket,
	}, nil
}

type runner struct {
	orch        *backup.Orchestrator
	report      string
	format      serializer.Format
	metricsFile string
	status      *server.Server
}

// once executes a single run and writes its report and metrics, even when
// the run aborted.
func (r *runner) once(ctx context.Context) error {
	run, runErr := r.orch.Run(ctx)

	// the run context may be done; give the outputs their own budget
	octx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaults.RunFinalizeTimeout)
	defer cancel()

	if r.report != "" {
		w := serializer.NewFileWriterOrStdout(r.format, r.report)
		if err := w.Serialize(octx, run); err != nil {
			slog.Error("failed to write run report", "path", r.report, "error", err)
		}
		if err := w.Close(); err != nil {
			slog.Warn("failed to close run report", "path", r.report, "error", err)
		}
	}

	if r.metricsFile != "" {
		if err := backup.WriteMetrics(r.metricsFile); err != nil {
			slog.Error("failed to write metrics", "path", r.metricsFile, "error", err)
		}
	}

	if r.status != nil {
		r.status.SetLastRun(run)
		r.status.SetReady(true)
	}

	notify(fmt.Sprintf("STATUS=last run %s: %d uploaded, %d not found, %d failed",
		run.FinishedAt.Format(time.RFC3339), run.Summary.Uploaded, run.Summary.NotFound, run.Summary.Failed))

	return runErr
}

// loop repeats runs every interval until ctx is done. Failed runs are
// logged and retried at the next tick.
func (r *runner) loop(ctx context.Context, interval time.Duration) error {
	notify(daemon.SdNotifyReady)
	defer notify(daemon.SdNotifyStopping)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("stopping scheduled backups", "reason", ctx.Err())
			return nil
		case <-timer.C:
		}

		if err := r.once(ctx); err != nil && ctx.Err() == nil {
			slog.Error("backup run failed", "error", err, "next", interval.String())
		}
		timer.Reset(interval)
	}
}

// serve runs the status server next to the backup loop. Either one ending
// stops the other.
func (r *runner) serve(ctx context.Context, interval time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.status.Start(gctx)
	})
	g.Go(func() error {
		return r.loop(gctx, interval)
	})
	return g.Wait()
}
