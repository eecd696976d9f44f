package errors

// ErrorCode represents a standardized way to categorize different types of errors.
type ErrorCode string

// Base error codes represent the fundamental categories of failures that can
// occur across any software system. These codes provide the foundation layer
// of error classification.
const (
	// ErrorCodeIO represents failures in input/output operations across any
	// system boundary: opening, reading or writing a track file or the
	// .meta sidecar, or creating the shard directories a track lives in.
	ErrorCodeIO ErrorCode = "IO_ERROR"

	// ErrorCodeInvalidInput represents client-side errors where the provided
	// data doesn't meet the system's requirements or constraints. This maps
	// to HTTP 400-series errors and indicates problems with the request itself
	// rather than system failures.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrorCodeInternal represents unexpected system failures that don't fit
	// into other categories.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Track-specific error codes extend the base taxonomy to cover the failure
// modes defined by the on-disk track file format.
const (
	// ErrorCodeNotFound indicates an open was attempted against a track file
	// that doesn't exist and the caller did not ask for create-on-write.
	ErrorCodeNotFound ErrorCode = "TRACK_NOT_FOUND"

	// ErrorCodeInvalidMagic indicates the header's magic constant didn't
	// match on open — the file is not a track file, or predates this format.
	ErrorCodeInvalidMagic ErrorCode = "INVALID_MAGIC_NUMBER"

	// ErrorCodeInvalidLength indicates the file's actual length doesn't agree
	// with header.count * stride + header size — a torn write or truncation.
	ErrorCodeInvalidLength ErrorCode = "INVALID_FILE_LENGTH"

	// ErrorCodeInsufficientData indicates a decode was handed fewer bytes
	// than the record stride requires.
	ErrorCodeInsufficientData ErrorCode = "INSUFFICIENT_DATA"

	// ErrorCodeIndex indicates ReadAt was called with an index >= count.
	ErrorCodeIndex ErrorCode = "INDEX_OUT_OF_RANGE"

	// ErrorCodeSequence indicates an append would violate the strictly
	// non-decreasing timestamp invariant.
	ErrorCodeSequence ErrorCode = "SEQUENCE_VIOLATION"

	// ErrorCodePermissionDenied indicates insufficient permissions to access
	// a track file or its shard directory.
	ErrorCodePermissionDenied ErrorCode = "PERMISSION_DENIED"

	// ErrorCodeDiskFull indicates the storage device backing the track
	// directory has run out of space.
	ErrorCodeDiskFull ErrorCode = "DISK_FULL"

	// ErrorCodeFilesystemReadonly indicates the filesystem is mounted
	// read-only.
	ErrorCodeFilesystemReadonly ErrorCode = "FILESYSTEM_READONLY"
)
