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

package backup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"

	"github.com/NVIDIA/qdrant-backup/pkg/defaults"
	qberrors "github.com/NVIDIA/qdrant-backup/pkg/errors"
	"github.com/NVIDIA/qdrant-backup/pkg/header"
	"github.com/NVIDIA/qdrant-backup/pkg/retention"
	"github.com/NVIDIA/qdrant-backup/pkg/snapshot"
	"github.com/NVIDIA/qdrant-backup/pkg/store"
)

// Orchestrator runs one backup pass over every collection: trigger a
// snapshot, locate the artifact, stage a tagged copy and upload it.
// A failure in one collection never stops the others.
type Orchestrator struct {
	Lister    Lister
	Triggerer Triggerer
	Locator   Locator
	Store     store.ObjectStore
	Sink      Sink

	// Version is recorded in the run report header.
	Version string

	// Clock drives the retention tag and durations. Defaults to the real clock.
	Clock clock.PassiveClock

	Bucket  string
	Suffix  string
	TempDir string

	// Concurrency is the number of collections processed at once, capped
	// at defaults.RunMaxConcurrency. Zero means defaults.RunConcurrency.
	Concurrency int

	// RunTimeout bounds the whole run. Zero disables the deadline.
	RunTimeout time.Duration

	// UploadTimeout bounds one upload. Zero means defaults.UploadTimeout.
	UploadTimeout time.Duration

	// FailOnEmpty makes an empty collection listing a fatal error.
	FailOnEmpty bool

	// EnsureBucket creates the bucket before processing any collection.
	EnsureBucket bool
}

func (o *Orchestrator) validate() error {
	switch {
	case o.Lister == nil, o.Triggerer == nil, o.Locator == nil, o.Store == nil, o.Sink == nil:
		return qberrors.New(qberrors.ErrCodeConfig, "orchestrator is missing a collaborator")
	case o.Bucket == "":
		return qberrors.New(qberrors.ErrCodeConfig, "bucket is required")
	}
	if o.Clock == nil {
		o.Clock = clock.RealClock{}
	}
	if o.Suffix == "" {
		o.Suffix = defaults.SnapshotSuffix
	}
	if o.TempDir == "" {
		o.TempDir = os.TempDir()
	}
	if o.Concurrency <= 0 {
		o.Concurrency = defaults.RunConcurrency
	}
	if o.Concurrency > defaults.RunMaxConcurrency {
		o.Concurrency = defaults.RunMaxConcurrency
	}
	if o.UploadTimeout <= 0 {
		o.UploadTimeout = defaults.UploadTimeout
	}
	return nil
}

// Run executes one backup pass. The returned Run is never nil; on a fatal
// error it holds whatever was recorded before the abort and err carries a
// fatal code.
func (o *Orchestrator) Run(ctx context.Context) (*Run, error) {
	run := &Run{ID: uuid.NewString(), Bucket: o.Bucket}

	if err := o.validate(); err != nil {
		run.Error = err.Error()
		return run, err
	}

	run.StartedAt = o.Clock.Now()
	run.Tag = retention.TagFor(run.StartedAt)
	run.Init(header.KindBackupRun, o.Version, run.StartedAt)
	log := slog.With("run", run.ID, "tag", run.Tag.String())

	o.Sink.Info(fmt.Sprintf("Starting backup run %s (tag %s, bucket %s, concurrency %d)",
		run.ID, run.Tag, o.Bucket, o.Concurrency))
	log.Debug("backup run started", "concurrency", o.Concurrency, "timeout", o.RunTimeout.String())

	collections, err := o.prepare(ctx)
	if err != nil {
		return o.abort(run, err), err
	}
	run.Collections = len(collections)

	if len(collections) == 0 {
		if o.FailOnEmpty {
			err := qberrors.New(qberrors.ErrCodeNoCollections, "no collections found to back up")
			return o.abort(run, err), err
		}
		o.Sink.Warn("No collections found; nothing to back up")
		o.finish(run, log)
		return run, nil
	}
	o.Sink.Info(fmt.Sprintf("Found %d collections to back up", len(collections)))

	workDir, err := os.MkdirTemp(o.TempDir, "qbackup-")
	if err != nil {
		err = qberrors.WrapWithContext(qberrors.ErrCodeConfig, "failed to create staging directory", err,
			map[string]any{"tempDir": o.TempDir})
		return o.abort(run, err), err
	}
	defer func() {
		if rmErr := os.RemoveAll(workDir); rmErr != nil {
			log.Warn("failed to remove staging directory", "path", workDir, "error", rmErr)
		}
	}()

	runCtx := ctx
	if o.RunTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, o.RunTimeout)
		defer cancel()
	}

	var mu sync.Mutex
	record := func(out Outcome) {
		mu.Lock()
		run.Outcomes = append(run.Outcomes, out)
		mu.Unlock()
		collectionOutcomes.WithLabelValues(string(out.Status)).Inc()
		collectionDuration.Observe(out.Duration.Seconds())
	}

	// Workers never return an error so one collection cannot cancel its siblings.
	var g errgroup.Group
	g.SetLimit(o.Concurrency)
	for _, c := range collections {
		g.Go(func() error {
			if err := runCtx.Err(); err != nil {
				out := o.interrupted(Outcome{Collection: c, Status: StatusError}, err)
				o.report(out)
				record(out)
				return nil
			}
			record(o.process(runCtx, c, run.Tag, workDir))
			return nil
		})
	}
	_ = g.Wait()

	o.finish(run, log)

	if err := ctx.Err(); err != nil {
		return run, qberrors.Wrap(qberrors.ErrCodeTimeout, "backup run interrupted", err)
	}
	return run, nil
}

// prepare runs the fatal preconditions and returns the collection list.
func (o *Orchestrator) prepare(ctx context.Context) ([]string, error) {
	if err := o.Locator.CheckRoot(); err != nil {
		return nil, err
	}

	if o.EnsureBucket {
		bctx, cancel := context.WithTimeout(ctx, defaults.BucketCheckTimeout)
		err := o.Store.EnsureBucket(bctx, o.Bucket)
		cancel()
		if err != nil {
			if !qberrors.IsCode(err, qberrors.ErrCodeBucket) {
				err = qberrors.WrapWithContext(qberrors.ErrCodeBucket, "failed to ensure bucket", err,
					map[string]any{"bucket": o.Bucket})
			}
			return nil, err
		}
	}

	collections, err := o.Lister.ListCollections(ctx)
	if err != nil {
		if !qberrors.IsFatal(err) {
			err = qberrors.Wrap(qberrors.ErrCodeList, "failed to list collections", err)
		}
		return nil, err
	}
	return collections, nil
}

// process runs the pipeline for one collection and converts every
// non-fatal error into an Outcome.
func (o *Orchestrator) process(ctx context.Context, collection string, tag retention.Tag, workDir string) (out Outcome) {
	start := o.Clock.Now()
	out = Outcome{Collection: collection, Status: StatusError}
	defer func() {
		out.Duration = o.Clock.Since(start)
		o.report(out)
	}()

	if err := snapshot.ValidateCollection(collection); err != nil {
		return o.failed(ctx, out, err)
	}

	if err := o.Triggerer.TriggerSnapshot(ctx, collection); err != nil {
		return o.failed(ctx, out, err)
	}

	artifact, err := o.Locator.Locate(ctx, collection)
	if err != nil {
		if qberrors.IsCode(err, qberrors.ErrCodeNotFound) {
			out.Status = StatusNotFound
			out.Code = string(qberrors.ErrCodeNotFound)
			out.SearchedPath = o.Locator.Dir(collection)
			out.Reason = "snapshot file not found or empty"
			return out
		}
		return o.failed(ctx, out, err)
	}
	out.OriginalName = artifact.Name

	tagged, err := snapshot.Stage(artifact, tag, workDir, o.Suffix)
	if err != nil {
		return o.failed(ctx, out, err)
	}
	defer func() {
		if rmErr := tagged.Remove(); rmErr != nil {
			slog.Warn("failed to remove tagged copy", "path", tagged.Path, "error", rmErr)
		}
	}()

	key := retention.ObjectKey(collection, tag, o.Suffix)
	uctx, cancel := context.WithTimeout(ctx, o.UploadTimeout)
	defer cancel()

	n, err := o.Store.PutFile(uctx, o.Bucket, key, tagged.Path)
	if err != nil {
		out.ObjectKey = key
		return o.failed(ctx, out, err)
	}

	uploadedBytes.Add(float64(n))
	out.Status = StatusUploaded
	out.Code = ""
	out.Size = n
	out.ObjectKey = key
	return out
}

// failed records err on out, reporting a run deadline or cancellation as
// a timeout regardless of which step observed it.
func (o *Orchestrator) failed(ctx context.Context, out Outcome, err error) Outcome {
	out.Status = StatusError
	if ctxErr := ctx.Err(); ctxErr != nil {
		return o.interrupted(out, ctxErr)
	}
	out.Code = string(qberrors.CodeOf(err))
	out.Reason = err.Error()
	return out
}

func (o *Orchestrator) interrupted(out Outcome, ctxErr error) Outcome {
	out.Status = StatusError
	out.Code = string(qberrors.ErrCodeTimeout)
	if errors.Is(ctxErr, context.DeadlineExceeded) {
		out.Reason = "timeout"
	} else {
		out.Reason = "canceled"
	}
	return out
}

// report writes the sink line for a finished collection.
func (o *Orchestrator) report(out Outcome) {
	switch out.Status {
	case StatusUploaded:
		o.Sink.Info(fmt.Sprintf("Uploaded %s to %s/%s (%s, from %s)",
			out.Collection, o.Bucket, out.ObjectKey, humanize.IBytes(uint64(out.Size)), out.OriginalName))
	case StatusNotFound:
		o.Sink.Warn(fmt.Sprintf("Snapshot for collection %s not found in %s", out.Collection, out.SearchedPath))
	default:
		o.Sink.Error(fmt.Sprintf("Backup of collection %s failed: %s", out.Collection, out.Reason))
	}
}

func (o *Orchestrator) abort(run *Run, err error) *Run {
	run.Error = err.Error()
	run.FinishedAt = o.Clock.Now()
	run.Summary = run.count()
	o.Sink.Error(fmt.Sprintf("Backup run %s aborted: %s", run.ID, err))
	observeRun(run, "fatal")
	slog.Error("backup run aborted", "run", run.ID, "code", string(qberrors.CodeOf(err)), "error", err)
	return run
}

func (o *Orchestrator) finish(run *Run, log *slog.Logger) {
	run.FinishedAt = o.Clock.Now()
	run.Summary = run.count()
	o.Sink.Info(fmt.Sprintf("Backup run %s finished: %d uploaded, %d not found, %d failed of %d collections in %s",
		run.ID, run.Summary.Uploaded, run.Summary.NotFound, run.Summary.Failed, run.Collections,
		run.Duration().Round(time.Millisecond)))
	observeRun(run, "success")
	log.Info("backup run finished",
		"uploaded", run.Summary.Uploaded,
		"notFound", run.Summary.NotFound,
		"failed", run.Summary.Failed,
		"duration", run.Duration().String())
}
