package errors

// TrackError is a specialized error type for track file and track store
// operations. It embeds baseError to inherit chaining, codes and structured
// details, then adds the location context needed to diagnose a failure
// against one specific track file: which path, which byte offset, which
// record index, or which timestamp was involved.
type TrackError struct {
	*baseError

	path     string // Path of the track file being processed.
	fileName string // Base name of the track file (<track_id>.bin).
	offset   int64  // Byte offset within the file where the problem happened.
	index    int64  // Record index involved, for IndexError.
	ts       int64  // Timestamp involved, for SequenceError.
	expected int64  // Expected value, for InvalidFileLength.
	actual   int64  // Actual value, for InvalidFileLength.
}

// NewTrackError creates a new track-specific error.
func NewTrackError(err error, code ErrorCode, msg string) *TrackError {
	return &TrackError{baseError: NewBaseError(err, code, msg)}
}

// Override base error methods to return *TrackError instead of *baseError,
// so the fluent interface can keep chaining track-specific setters.

func (te *TrackError) WithMessage(msg string) *TrackError {
	te.baseError.WithMessage(msg)
	return te
}

func (te *TrackError) WithCode(code ErrorCode) *TrackError {
	te.baseError.WithCode(code)
	return te
}

func (te *TrackError) WithDetail(key string, value any) *TrackError {
	te.baseError.WithDetail(key, value)
	return te
}

// WithPath records which track file path was being processed.
func (te *TrackError) WithPath(path string) *TrackError {
	te.path = path
	return te
}

// WithFileName records the base file name involved in the error.
func (te *TrackError) WithFileName(name string) *TrackError {
	te.fileName = name
	return te
}

// WithOffset records the byte position where the error occurred.
func (te *TrackError) WithOffset(offset int64) *TrackError {
	te.offset = offset
	return te
}

// WithIndex records the record index involved in an out-of-range read.
func (te *TrackError) WithIndex(index int64) *TrackError {
	te.index = index
	return te
}

// WithTimestamp records the timestamp that violated monotonicity.
func (te *TrackError) WithTimestamp(ts int64) *TrackError {
	te.ts = ts
	return te
}

// WithLength records the expected and actual file lengths that disagreed.
func (te *TrackError) WithLength(expected, actual int64) *TrackError {
	te.expected = expected
	te.actual = actual
	return te
}

// Path returns the track file path involved in the error.
func (te *TrackError) Path() string { return te.path }

// FileName returns the base file name involved in the error.
func (te *TrackError) FileName() string { return te.fileName }

// Offset returns the byte offset within the file where the error happened.
func (te *TrackError) Offset() int64 { return te.offset }

// Index returns the record index involved in an IndexError.
func (te *TrackError) Index() int64 { return te.index }

// Timestamp returns the timestamp that violated monotonicity.
func (te *TrackError) Timestamp() int64 { return te.ts }

// ExpectedLength returns the file length the header implied.
func (te *TrackError) ExpectedLength() int64 { return te.expected }

// ActualLength returns the file length actually observed on disk.
func (te *TrackError) ActualLength() int64 { return te.actual }

// Constructors for the seven error kinds spec.md §7 names.

// NewNotFoundError builds the error raised when opening a missing track file
// without create_if_missing set.
func NewNotFoundError(path string) *TrackError {
	return NewTrackError(nil, ErrorCodeNotFound, "track file not found").
		WithPath(path)
}

// NewInvalidMagicError builds the error raised when a header's magic
// constant doesn't match on open.
func NewInvalidMagicError(path string) *TrackError {
	return NewTrackError(nil, ErrorCodeInvalidMagic, "track file corrupted: invalid magic number").
		WithPath(path)
}

// NewInvalidLengthError builds the error raised when a file's length
// disagrees with its header-implied length.
func NewInvalidLengthError(path string, expected, actual int64) *TrackError {
	return NewTrackError(nil, ErrorCodeInvalidLength, "invalid track file length").
		WithPath(path).
		WithLength(expected, actual)
}

// NewInsufficientDataError builds the error raised when a decode is handed
// fewer bytes than a record stride requires.
func NewInsufficientDataError(field string, n int) *TrackError {
	return NewTrackError(nil, ErrorCodeInsufficientData, "insufficient data while decoding "+field).
		WithDetail("field", field).
		WithDetail("length", n)
}

// NewIndexError builds the error raised when ReadAt is called out of range.
func NewIndexError(index int64) *TrackError {
	return NewTrackError(nil, ErrorCodeIndex, "record index out of range").
		WithIndex(index)
}

// NewSequenceError builds the error raised when an append would break the
// strictly non-decreasing timestamp invariant.
func NewSequenceError(ts int64) *TrackError {
	return NewTrackError(nil, ErrorCodeSequence, "append violates timestamp ordering").
		WithTimestamp(ts)
}

// NewIOError wraps an arbitrary OS-level failure as a TrackError with
// ErrorCodeIO. It does not inspect errno values; ClassifyFileOpenError and
// ClassifyDirectoryCreationError do that before falling back to this code.
func NewIOError(err error, path string) *TrackError {
	return NewTrackError(err, ErrorCodeIO, "track file I/O error").
		WithPath(path)
}
