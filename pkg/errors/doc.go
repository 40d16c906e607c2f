// Package errors provides structured error types for better observability
// and programmatic error handling across the backup orchestrator.
//
// Codes are split in two groups. Run-level codes (CONFIG, SOURCE_ROOT, LIST,
// NO_COLLECTIONS, LOG_SINK, BUCKET) abort the run with a non-zero exit.
// Collection-level codes (NOT_FOUND, TRIGGER, COPY, UPLOAD, TIMEOUT) are
// converted into per-collection outcomes and never propagate past the
// collection pipeline.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeUpload,
//	    "failed to upload tagged copy",
//	    cause,
//	    map[string]any{
//	        "bucket": bucket,
//	        "key":    key,
//	    },
//	)
//	if errors.IsFatal(err) {
//	    return err
//	}
package errors
