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

package runlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"k8s.io/utils/clock"

	"github.com/NVIDIA/qdrant-backup/pkg/defaults"
	qberrors "github.com/NVIDIA/qdrant-backup/pkg/errors"
)

// Level is the severity printed in each sink line.
type Level string

const (
	LevelInfo    Level = "INFO"
	LevelWarning Level = "WARNING"
	LevelError   Level = "ERROR"
)

// TimestampLayout is the layout of the bracketed timestamp prefix.
const TimestampLayout = "2006-01-02 15:04:05"

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelWarning:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Sink is an append-only, line oriented run log. It is safe for concurrent
// use; lines from different goroutines never interleave.
type Sink struct {
	mu          sync.Mutex
	w           io.Writer
	closer      io.Closer
	path        string
	clock       clock.PassiveClock
	logger      *slog.Logger
	writeErrors int
}

// Option configures a Sink.
type Option func(*Sink)

// WithClock sets the clock used for line timestamps.
func WithClock(c clock.PassiveClock) Option {
	return func(s *Sink) {
		s.clock = c
	}
}

// WithLogger sets the structured logger every line is mirrored to.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sink) {
		s.logger = l
	}
}

// Open opens path for appending, creating the file and its parent
// directories when missing. Existing content is never truncated.
func Open(path string, opts ...Option) (*Sink, error) {
	if strings.TrimSpace(path) == "" {
		return nil, qberrors.New(qberrors.ErrCodeLogSink, "log path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, qberrors.WrapWithContext(qberrors.ErrCodeLogSink, "failed to create log directory", err,
			map[string]any{"path": path})
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, defaults.LogFileMode)
	if err != nil {
		return nil, qberrors.WrapWithContext(qberrors.ErrCodeLogSink, "failed to open log sink", err,
			map[string]any{"path": path})
	}
	s := New(f, opts...)
	s.closer = f
	s.path = path
	return s, nil
}

// New returns a sink writing to w. The caller owns w.
func New(w io.Writer, opts ...Option) *Sink {
	s := &Sink{
		w:      w,
		clock:  clock.RealClock{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the file backing the sink, or "" for writer based sinks.
func (s *Sink) Path() string {
	return s.path
}

// Info writes an INFO line.
func (s *Sink) Info(msg string) {
	s.Log(LevelInfo, msg)
}

// Warn writes a WARNING line.
func (s *Sink) Warn(msg string) {
	s.Log(LevelWarning, msg)
}

// Error writes an ERROR line.
func (s *Sink) Error(msg string) {
	s.Log(LevelError, msg)
}

// Log writes one line at level. Write failures are counted and reported
// through slog; they never propagate to the caller.
func (s *Sink) Log(level Level, msg string) {
	msg = strings.ReplaceAll(msg, "\n", " ")

	s.mu.Lock()
	line := fmt.Sprintf("[%s] %s %s\n", s.clock.Now().Format(TimestampLayout), level, msg)
	_, err := io.WriteString(s.w, line)
	if err != nil {
		s.writeErrors++
	}
	s.mu.Unlock()

	s.logger.Log(context.Background(), level.slogLevel(), msg)
	if err != nil {
		s.logger.Error("failed to write run log line", "path", s.path, "error", err)
	}
}

// WriteErrors returns the number of lines that failed to write.
func (s *Sink) WriteErrors() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeErrors
}

// Close closes the underlying file. It is safe to call more than once.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}
