package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNotFound, "snapshot not found")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "snapshot not found" {
		t.Errorf("expected message 'snapshot not found', got %s", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeUpload, "upload failed", cause)

	if err.Code != ErrCodeUpload {
		t.Errorf("expected code %s, got %s", ErrCodeUpload, err.Code)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be wrapped")
	}
}

func TestWrapWithContext(t *testing.T) {
	cause := errors.New("connection refused")
	ctx := map[string]any{
		"collection": "StoreA_Customers",
		"url":        "http://127.0.0.1:7005",
	}

	err := WrapWithContext(ErrCodeTrigger, "snapshot trigger failed", cause, ctx)

	if err.Code != ErrCodeTrigger {
		t.Errorf("expected code %s, got %s", ErrCodeTrigger, err.Code)
	}
	if err.Context == nil {
		t.Fatal("expected context to be set")
	}
	if err.Context["collection"] != "StoreA_Customers" {
		t.Errorf("expected collection to be StoreA_Customers")
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		err      *StructuredError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(ErrCodeNotFound, "not found"),
			expected: "[NOT_FOUND] not found",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeCopy, "failed", errors.New("disk full")),
			expected: "[COPY] failed: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ""},
		{"plain error", errors.New("boom"), ErrCodeInternal},
		{"structured", New(ErrCodeList, "x"), ErrCodeList},
		{"wrapped by fmt", fmt.Errorf("outer: %w", New(ErrCodeSourceRoot, "x")), ErrCodeSourceRoot},
		{"outermost wins", Wrap(ErrCodeTimeout, "outer", New(ErrCodeUpload, "inner")), ErrCodeTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsCode(t *testing.T) {
	err := Wrap(ErrCodeTimeout, "outer", fmt.Errorf("mid: %w", New(ErrCodeUpload, "inner")))

	if !IsCode(err, ErrCodeTimeout) {
		t.Error("expected outer code to match")
	}
	if !IsCode(err, ErrCodeUpload) {
		t.Error("expected inner code to match")
	}
	if IsCode(err, ErrCodeCopy) {
		t.Error("unexpected match for COPY")
	}
	if IsCode(nil, ErrCodeCopy) {
		t.Error("nil error must not match")
	}
}

func TestIsFatal(t *testing.T) {
	fatal := []ErrorCode{
		ErrCodeConfig,
		ErrCodeSourceRoot,
		ErrCodeList,
		ErrCodeNoCollections,
		ErrCodeLogSink,
		ErrCodeBucket,
	}
	for _, code := range fatal {
		if !IsFatal(New(code, "x")) {
			t.Errorf("expected %s to be fatal", code)
		}
	}

	nonFatal := []ErrorCode{
		ErrCodeNotFound,
		ErrCodeTrigger,
		ErrCodeCopy,
		ErrCodeUpload,
		ErrCodeInvalidCollection,
		ErrCodeTimeout,
		ErrCodeInternal,
	}
	for _, code := range nonFatal {
		if IsFatal(New(code, "x")) {
			t.Errorf("expected %s to be non-fatal", code)
		}
	}

	if IsFatal(nil) {
		t.Error("nil must not be fatal")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(ErrCodeInternal, "wrapped", cause)

	unwrapped := err.Unwrap()
	if !errors.Is(unwrapped, cause) {
		t.Errorf("expected unwrapped error to be original cause")
	}

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is should work with Unwrap")
	}
}
