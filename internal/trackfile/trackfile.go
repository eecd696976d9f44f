// Package trackfile owns the binary file backing a single track: typed
// positional reads and writes over a fixed-stride record layout, with the
// append protocol (monotonicity check, collapse rule, two-step
// write-then-header-update) that keeps the file's header and body
// consistent across crash-prone writes.
//
// A TrackFile exclusively owns its OS file descriptor and path for its
// lifetime; it caches nothing across calls beyond that descriptor, and
// performs no locking of its own — callers serialize access the way
// internal/httpapi's host lock does.
package trackfile

import (
	"os"

	"github.com/arkforge/tracked/internal/record"
	trackedErrors "github.com/arkforge/tracked/pkg/errors"
)

// TrackFile wraps an OS file opened read/write, exposing the track
// storage engine's positional record protocol.
type TrackFile struct {
	path string
	file *os.File
}

// Create makes a brand new track file at path: a fresh header (current
// magic/version, updated_at = now, count = 0) and no records. Fails if a
// file already exists at path.
func Create(path string, now int64) (*TrackFile, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, trackedErrors.ClassifyFileOpenError(err, path)
	}

	header := record.Header{Magic: record.Magic, Version: record.Version, UpdatedAt: now, Count: 0}
	if _, err := file.WriteAt(record.EncodeHeader(header), 0); err != nil {
		file.Close()
		return nil, trackedErrors.NewIOError(err, path)
	}

	return &TrackFile{path: path, file: file}, nil
}

// Open opens an existing track file, verifying its header's magic number
// and the file's total length against header.count before returning.
// Fails with NotFound when path does not exist, InvalidMagicNumber when
// the header is corrupt, and InvalidFileLength when the body doesn't
// match the header-implied length.
func Open(path string) (*TrackFile, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		return nil, trackedErrors.ClassifyFileOpenError(err, path)
	}

	tf := &TrackFile{path: path, file: file}

	header, err := tf.readHeader()
	if err != nil {
		file.Close()
		return nil, err
	}

	if header.Magic != record.Magic {
		file.Close()
		return nil, trackedErrors.NewInvalidMagicError(path)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, trackedErrors.NewIOError(err, path)
	}

	expected := int64(record.HeaderSize) + int64(header.Count)*int64(record.PointSize)
	if info.Size() != expected {
		file.Close()
		return nil, trackedErrors.NewInvalidLengthError(path, expected, info.Size())
	}

	return tf, nil
}

// OpenOrCreate opens path if it exists, or creates it fresh otherwise.
func OpenOrCreate(path string, now int64) (*TrackFile, error) {
	exists, err := pathExists(path)
	if err != nil {
		return nil, trackedErrors.NewIOError(err, path)
	}
	if exists {
		return Open(path)
	}
	return Create(path, now)
}

func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Path returns the filesystem path this handle was opened against.
func (tf *TrackFile) Path() string { return tf.path }

// Close releases the underlying file descriptor.
func (tf *TrackFile) Close() error {
	return tf.file.Close()
}

// Destroy closes and removes the underlying file. The core never invokes
// this from the exposed surface, but it exists for callers that manage
// track lifecycle directly (tests, maintenance tooling).
func (tf *TrackFile) Destroy() error {
	path := tf.path
	if err := tf.file.Close(); err != nil {
		return trackedErrors.NewIOError(err, path)
	}
	if err := os.Remove(path); err != nil {
		return trackedErrors.NewIOError(err, path)
	}
	return nil
}

func (tf *TrackFile) readHeader() (record.Header, error) {
	buf := make([]byte, record.HeaderSize)
	if _, err := tf.file.ReadAt(buf, 0); err != nil {
		return record.Header{}, trackedErrors.NewIOError(err, tf.path)
	}
	return record.DecodeHeader(buf)
}

func (tf *TrackFile) writeHeader(h record.Header) error {
	if _, err := tf.file.WriteAt(record.EncodeHeader(h), 0); err != nil {
		return trackedErrors.NewIOError(err, tf.path)
	}
	return nil
}

// Count returns the number of point records currently stored.
func (tf *TrackFile) Count() (uint64, error) {
	header, err := tf.readHeader()
	if err != nil {
		return 0, err
	}
	return header.Count, nil
}

func recordOffset(index uint64) int64 {
	return int64(record.HeaderSize) + int64(index)*int64(record.PointSize)
}

// ReadAt reads the single record at index, failing with IndexError when
// index >= Count.
func (tf *TrackFile) ReadAt(index uint64) (record.Point, error) {
	header, err := tf.readHeader()
	if err != nil {
		return record.Point{}, err
	}
	if index >= header.Count {
		return record.Point{}, trackedErrors.NewIndexError(int64(index))
	}

	buf := make([]byte, record.PointSize)
	if _, err := tf.file.ReadAt(buf, recordOffset(index)); err != nil {
		return record.Point{}, trackedErrors.NewIOError(err, tf.path)
	}
	return record.DecodePoint(buf)
}

// ReadRange reads up to length contiguous records starting at start,
// clamping length to what remains. Returns an empty slice when the
// clamped range is empty.
func (tf *TrackFile) ReadRange(start, length uint64) ([]record.Point, error) {
	header, err := tf.readHeader()
	if err != nil {
		return nil, err
	}

	if start >= header.Count {
		return []record.Point{}, nil
	}

	remaining := header.Count - start
	if length > remaining {
		length = remaining
	}
	if length == 0 {
		return []record.Point{}, nil
	}

	buf := make([]byte, length*uint64(record.PointSize))
	if _, err := tf.file.ReadAt(buf, recordOffset(start)); err != nil {
		return nil, trackedErrors.NewIOError(err, tf.path)
	}

	points := make([]record.Point, length)
	for i := range points {
		p, err := record.DecodePoint(buf[uint64(i)*uint64(record.PointSize):])
		if err != nil {
			return nil, err
		}
		points[i] = p
	}

	return points, nil
}

// ReadAll reads every stored record, equivalent to ReadRange(0, Count()).
func (tf *TrackFile) ReadAll() ([]record.Point, error) {
	header, err := tf.readHeader()
	if err != nil {
		return nil, err
	}
	return tf.ReadRange(0, header.Count)
}

// Append adds point to the file, keeping stored timestamps
// non-decreasing and applying the collapse rule. now is the wall-clock
// write time (milliseconds epoch) stamped into Header.UpdatedAt on a
// real append — it has nothing to do with point.Ts, the sample's own
// timestamp.
//
// Protocol:
//  1. Read the current header; let n = header.Count.
//  2. If n > 0 and the last stored record's Ts is greater than point.Ts,
//     reject with SequenceError. Equal timestamps are accepted.
//  3. Collapse rule: if n >= 2 and record[n-2], record[n-1] and point are
//     all value-equal, overwrite record[n-1] in place with point. Only
//     the raw record bytes are touched; count and the header (including
//     updated_at) are left alone. Returns false.
//  4. Otherwise, append: write point at offset header_size + n*stride,
//     then rewrite the header with Count = n+1 and updated_at = now.
//     Returns true.
//
// A crash between the record write and the header rewrite in step 4
// leaves a trailing unaccounted record; Open detects it on next open as
// InvalidFileLength. This package does not self-heal by truncating.
func (tf *TrackFile) Append(point record.Point, now int64) (bool, error) {
	header, err := tf.readHeader()
	if err != nil {
		return false, err
	}

	n := header.Count

	var last record.Point
	if n > 0 {
		last, err = tf.readPointAt(n - 1)
		if err != nil {
			return false, err
		}
		if last.Ts > point.Ts {
			return false, trackedErrors.NewSequenceError(point.Ts)
		}
	}

	if n >= 2 {
		prev, err := tf.readPointAt(n - 2)
		if err != nil {
			return false, err
		}
		if prev.Equal(last) && last.Equal(point) {
			if _, err := tf.file.WriteAt(record.EncodePoint(point), recordOffset(n-1)); err != nil {
				return false, trackedErrors.NewIOError(err, tf.path)
			}
			return false, nil
		}
	}

	if _, err := tf.file.WriteAt(record.EncodePoint(point), recordOffset(n)); err != nil {
		return false, trackedErrors.NewIOError(err, tf.path)
	}

	header.Count = n + 1
	header.UpdatedAt = now
	if err := tf.writeHeader(header); err != nil {
		return false, err
	}

	return true, nil
}

func (tf *TrackFile) readPointAt(index uint64) (record.Point, error) {
	buf := make([]byte, record.PointSize)
	if _, err := tf.file.ReadAt(buf, recordOffset(index)); err != nil {
		return record.Point{}, trackedErrors.NewIOError(err, tf.path)
	}
	return record.DecodePoint(buf)
}
