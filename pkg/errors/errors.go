// Package errors provides a small hierarchy of typed, chainable errors for
// the track storage engine and its surrounding configuration and HTTP
// layers.
//
// Every error embeds baseError, which carries a message, an ErrorCode, an
// optional wrapped cause, and a lazily-allocated details map. Domain types
// (TrackError, ValidationError) add the location context specific to their
// layer — a byte offset and track path for storage failures, a field name
// and rule for validation failures — while keeping the fluent With*
// construction pattern so call sites can build rich errors at the point of
// failure without a separate logging step.
//
// TrackError is the one type most of the core engine raises: it maps
// directly onto the seven error kinds the on-disk format defines (not
// found, bad magic, bad length, short decode, index out of range,
// sequence violation, I/O), and the HTTP layer translates its Code()
// into a status per that same table.
package errors

import (
	stdErrors "errors"
	"os"
	"syscall"
)

// IsTrackError checks if the given error is a TrackError or contains one in its error chain.
func IsTrackError(err error) bool {
	var te *TrackError
	return stdErrors.As(err, &te)
}

// IsValidationError checks if the given error is a ValidationError or contains one in its error chain.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return stdErrors.As(err, &ve)
}

// AsTrackError safely extracts a TrackError from an error chain, providing access
// to storage-specific context such as the file path, byte offset, record index,
// or timestamp involved in the failure.
func AsTrackError(err error) (*TrackError, bool) {
	var te *TrackError
	if stdErrors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// AsValidationError safely extracts a ValidationError from an error chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stdErrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// GetErrorCode extracts the error code from any error that supports it, or returns
// ErrorCodeInternal for errors that don't have a specific code.
func GetErrorCode(err error) ErrorCode {
	if te, ok := AsTrackError(err); ok {
		return te.Code()
	}

	if ve, ok := AsValidationError(err); ok {
		return ve.Code()
	}

	return ErrorCodeInternal
}

// GetErrorDetails extracts structured details from any error that supports them,
// returning an empty map for errors without details.
func GetErrorDetails(err error) map[string]any {
	if te, ok := AsTrackError(err); ok {
		if details := te.Details(); details != nil {
			return details
		}
	}

	if ve, ok := AsValidationError(err); ok {
		if details := ve.Details(); details != nil {
			return details
		}
	}

	return make(map[string]any)
}

// ClassifyDirectoryCreationError analyzes shard-directory creation failures and
// returns the most specific TrackError the underlying system error supports.
func ClassifyDirectoryCreationError(err error, path string) error {
	if os.IsPermission(err) {
		return NewTrackError(err, ErrorCodePermissionDenied, "insufficient permissions to create shard directory").
			WithPath(path).
			WithDetail("operation", "directory_creation")
	}

	if pathErr, ok := err.(*os.PathError); ok {
		if errno, ok := pathErr.Err.(syscall.Errno); ok {
			switch errno {
			case syscall.ENOSPC:
				return NewTrackError(err, ErrorCodeDiskFull, "insufficient disk space to create shard directory").
					WithPath(path).
					WithDetail("operation", "directory_creation")
			case syscall.EROFS:
				return NewTrackError(err, ErrorCodeFilesystemReadonly, "cannot create directory on read-only filesystem").
					WithPath(path).
					WithDetail("operation", "directory_creation")
			}
		}
	}

	return NewTrackError(err, ErrorCodeIO, "failed to create shard directory").
		WithPath(path).
		WithDetail("operation", "directory_creation")
}

// ClassifyFileOpenError analyzes track file open failures and returns the most
// specific TrackError the underlying system error supports, including the
// NotFound case callers use to decide whether to create-on-write.
func ClassifyFileOpenError(err error, path string) error {
	if os.IsNotExist(err) {
		return NewNotFoundError(path)
	}

	if os.IsPermission(err) {
		return NewTrackError(err, ErrorCodePermissionDenied, "insufficient permissions to open track file").
			WithPath(path).
			WithDetail("operation", "file_open")
	}

	if pathErr, ok := err.(*os.PathError); ok {
		if errno, ok := pathErr.Err.(syscall.Errno); ok {
			switch errno {
			case syscall.ENOSPC:
				return NewTrackError(err, ErrorCodeDiskFull, "insufficient disk space to create track file").
					WithPath(path).
					WithDetail("operation", "file_open")
			case syscall.EROFS:
				return NewTrackError(err, ErrorCodeFilesystemReadonly, "cannot create track file on read-only filesystem").
					WithPath(path).
					WithDetail("operation", "file_open")
			}
		}
	}

	return NewIOError(err, path).WithDetail("operation", "file_open")
}
