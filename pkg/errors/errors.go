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

package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a structured error classification.
type ErrorCode string

// Run-level codes. Any of these aborts the whole backup run.
const (
	// ErrCodeConfig indicates invalid or incomplete configuration.
	ErrCodeConfig ErrorCode = "CONFIG"
	// ErrCodeSourceRoot indicates the snapshot source root directory is missing or unreadable.
	ErrCodeSourceRoot ErrorCode = "SOURCE_ROOT"
	// ErrCodeList indicates the collection listing endpoint failed or returned unusable data.
	ErrCodeList ErrorCode = "LIST"
	// ErrCodeNoCollections indicates the listing endpoint returned an empty set.
	ErrCodeNoCollections ErrorCode = "NO_COLLECTIONS"
	// ErrCodeLogSink indicates the run log could not be opened for appending.
	ErrCodeLogSink ErrorCode = "LOG_SINK"
	// ErrCodeBucket indicates the target bucket could not be verified or created.
	ErrCodeBucket ErrorCode = "BUCKET"
)

// Collection-level codes. These are recorded as outcomes and never abort the run.
const (
	// ErrCodeNotFound indicates no snapshot artifact appeared within the locate budget.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeTrigger indicates the snapshot creation request failed.
	ErrCodeTrigger ErrorCode = "TRIGGER"
	// ErrCodeCopy indicates the tagged copy could not be written.
	ErrCodeCopy ErrorCode = "COPY"
	// ErrCodeUpload indicates the object store rejected or failed the upload.
	ErrCodeUpload ErrorCode = "UPLOAD"
	// ErrCodeInvalidCollection indicates a collection identifier that cannot be
	// mapped to a directory or object key.
	ErrCodeInvalidCollection ErrorCode = "INVALID_COLLECTION"
	// ErrCodeTimeout indicates an operation exceeded its time limit.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeInternal indicates an internal system error.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// IsFatal reports whether the code aborts an entire run.
func (c ErrorCode) IsFatal() bool {
	switch c {
	case ErrCodeConfig, ErrCodeSourceRoot, ErrCodeList, ErrCodeNoCollections,
		ErrCodeLogSink, ErrCodeBucket:
		return true
	default:
		return false
	}
}

// StructuredError provides structured error information for better observability.
// It includes an error code for programmatic handling, a human-readable message,
// the underlying cause, and optional context for debugging.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New creates a new StructuredError with the given code and message.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
	}
}

// NewWithContext creates a new StructuredError with context information.
func NewWithContext(code ErrorCode, message string, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Context: context,
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithContext wraps an error with additional context information.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: context,
	}
}

// CodeOf returns the code of the outermost StructuredError in the chain,
// or ErrCodeInternal when err carries none. It returns "" for a nil error.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var se *StructuredError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}

// IsCode reports whether any StructuredError in the chain carries code.
func IsCode(err error, code ErrorCode) bool {
	for err != nil {
		var se *StructuredError
		if !stderrors.As(err, &se) {
			return false
		}
		if se.Code == code {
			return true
		}
		err = se.Cause
	}
	return false
}

// IsFatal reports whether err should abort the whole run.
func IsFatal(err error) bool {
	return CodeOf(err).IsFatal()
}
