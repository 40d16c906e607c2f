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
	"time"

	"github.com/NVIDIA/qdrant-backup/pkg/header"
	"github.com/NVIDIA/qdrant-backup/pkg/retention"
	"github.com/NVIDIA/qdrant-backup/pkg/snapshot"
)

// Lister enumerates the collections to back up.
type Lister interface {
	ListCollections(ctx context.Context) ([]string, error)
}

// Triggerer asks the database to produce a snapshot of one collection.
type Triggerer interface {
	TriggerSnapshot(ctx context.Context, collection string) error
}

// Locator finds the artifact produced for a collection.
type Locator interface {
	CheckRoot() error
	Dir(collection string) string
	Locate(ctx context.Context, collection string) (*snapshot.Artifact, error)
}

// Sink receives the human-readable run log lines.
type Sink interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

// Status is the final state of one collection in a run.
type Status string

const (
	StatusUploaded Status = "uploaded"
	StatusNotFound Status = "not_found"
	StatusError    Status = "error"
)

// Outcome records what happened to one collection.
type Outcome struct {
	Collection   string        `json:"collection" yaml:"collection"`
	Status       Status        `json:"status" yaml:"status"`
	Code         string        `json:"code,omitempty" yaml:"code,omitempty"`
	Size         int64         `json:"size,omitempty" yaml:"size,omitempty"`
	OriginalName string        `json:"originalName,omitempty" yaml:"originalName,omitempty"`
	ObjectKey    string        `json:"objectKey,omitempty" yaml:"objectKey,omitempty"`
	SearchedPath string        `json:"searchedPath,omitempty" yaml:"searchedPath,omitempty"`
	Reason       string        `json:"reason,omitempty" yaml:"reason,omitempty"`
	Duration     time.Duration `json:"duration" yaml:"duration"`
}

// Counts summarizes outcomes by status.
type Counts struct {
	Uploaded int `json:"uploaded" yaml:"uploaded"`
	NotFound int `json:"notFound" yaml:"notFound"`
	Failed   int `json:"failed" yaml:"failed"`
}

// Total returns the number of recorded outcomes.
func (c Counts) Total() int {
	return c.Uploaded + c.NotFound + c.Failed
}

// Run is the record of one backup invocation. Outcomes are kept in
// completion order.
type Run struct {
	header.Header `json:",inline" yaml:",inline"`

	ID          string        `json:"id" yaml:"id"`
	Tag         retention.Tag `json:"tag" yaml:"tag"`
	Bucket      string        `json:"bucket" yaml:"bucket"`
	StartedAt   time.Time     `json:"startedAt" yaml:"startedAt"`
	FinishedAt  time.Time     `json:"finishedAt" yaml:"finishedAt"`
	Collections int           `json:"collections" yaml:"collections"`
	Summary     Counts        `json:"summary" yaml:"summary"`
	Outcomes    []Outcome     `json:"outcomes" yaml:"outcomes"`
	Error       string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// Duration returns the wall time of the run.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Outcome returns the outcome recorded for collection, if any.
func (r *Run) Outcome(collection string) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Collection == collection {
			return o, true
		}
	}
	return Outcome{}, false
}

func (r *Run) count() Counts {
	var c Counts
	for _, o := range r.Outcomes {
		switch o.Status {
		case StatusUploaded:
			c.Uploaded++
		case StatusNotFound:
			c.NotFound++
		default:
			c.Failed++
		}
	}
	return c
}
