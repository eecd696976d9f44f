// Package store maps track IDs to track files via hash-sharded
// directories, orchestrates create-on-write, and exposes the load
// pipelines a caller needs: plain, interpolated, filtered-by-lower-bound,
// and the delta-encoded compact form. It also maintains an optional
// `.meta` sidecar so a metrics endpoint can answer without walking the
// tree.
//
// Store does not cache file handles or track state across calls: each
// operation opens a TrackFile, acts, and closes it, matching the "Store
// does not cache handles across calls" ownership rule.
package store

import (
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/arkforge/tracked/internal/interpolate"
	"github.com/arkforge/tracked/internal/record"
	"github.com/arkforge/tracked/internal/trackfile"
	trackedErrors "github.com/arkforge/tracked/pkg/errors"
	"github.com/arkforge/tracked/pkg/filesys"
)

// subkeyLength and nestingLevel fix the shard layout:
// <root>/h[0:3]/h[3:6]/<track_id>.bin.
const (
	subkeyLength = 3
	nestingLevel = 2
)

// Store is the track storage engine's entry point.
type Store struct {
	folder string
	meta   *metaFile
	log    *zap.SugaredLogger
}

// Config carries the dependencies Store needs to start.
type Config struct {
	Folder string
	Logger *zap.SugaredLogger
}

// New builds a Store rooted at cfg.Folder, creating the root directory if
// needed and opening (or rebuilding) its .meta sidecar.
func New(cfg Config) (*Store, error) {
	if err := filesys.CreateDir(cfg.Folder, 0755, true); err != nil {
		return nil, trackedErrors.ClassifyDirectoryCreationError(err, cfg.Folder)
	}

	s := &Store{folder: cfg.Folder, log: cfg.Logger}

	meta, err := openOrBuildMeta(cfg.Folder, cfg.Logger)
	if err != nil {
		return nil, err
	}
	s.meta = meta

	return s, nil
}

// pathOf returns the deterministic on-disk path for track_id. It depends
// only on id and the store's root, with no lookup table involved.
func (s *Store) pathOf(trackID string) string {
	sum := md5.Sum([]byte(trackID))
	hash := hex.EncodeToString(sum[:])

	parts := make([]string, 0, nestingLevel+2)
	parts = append(parts, s.folder)
	for i := range nestingLevel {
		parts = append(parts, hash[i*subkeyLength:(i+1)*subkeyLength])
	}
	parts = append(parts, trackID+".bin")

	return filepath.Join(parts...)
}

// PathOf exposes pathOf for callers (tests, diagnostics) that need to
// reason about on-disk layout without performing I/O.
func (s *Store) PathOf(trackID string) string {
	return s.pathOf(trackID)
}

// Close releases the sidecar's file handle. Track files themselves are
// never held open across calls, so there is nothing else to release.
func (s *Store) Close() error {
	if s.meta == nil {
		return nil
	}
	return s.meta.file.Close()
}

func (s *Store) shardDir(trackID string) string {
	return filepath.Dir(s.pathOf(trackID))
}

// Append adds point to trackID's file. When createIfMissing is set, the
// shard directory and file are created as needed; otherwise a missing
// track surfaces NotFound.
func (s *Store) Append(trackID string, point record.Point, createIfMissing bool) error {
	path := s.pathOf(trackID)
	now := time.Now().UnixMilli()

	var tf *trackfile.TrackFile
	var err error
	var created bool

	if createIfMissing {
		exists, statErr := filesys.Exists(path)
		if statErr != nil {
			return trackedErrors.NewIOError(statErr, path)
		}
		if !exists {
			if err := filesys.CreateDir(s.shardDir(trackID), 0755, true); err != nil {
				return trackedErrors.ClassifyDirectoryCreationError(err, s.shardDir(trackID))
			}
		}
		created = !exists
		tf, err = trackfile.OpenOrCreate(path, now)
	} else {
		tf, err = trackfile.Open(path)
	}
	if err != nil {
		return err
	}
	defer tf.Close()

	appended, err := tf.Append(point, now)
	if err != nil {
		return err
	}

	if s.meta != nil {
		s.meta.recordAppend(created, appended)
	}

	return nil
}

// LoadTrack opens trackID's file through trackfile.Open, which opens it
// read/write; LoadTrack itself writes nothing. It reads every stored record,
// optionally interpolates to 1 Hz, and optionally filters to points
// strictly after the given lower timestamp bound.
func (s *Store) LoadTrack(trackID string, interp bool, after *int64) ([]record.Point, error) {
	path := s.pathOf(trackID)

	tf, err := trackfile.Open(path)
	if err != nil {
		return nil, err
	}
	defer tf.Close()

	points, err := tf.ReadAll()
	if err != nil {
		return nil, err
	}

	if interp {
		points = interpolate.Resample(points)
	}

	return filterAfter(points, after), nil
}

func filterAfter(points []record.Point, after *int64) []record.Point {
	if after == nil {
		return points
	}

	filtered := make([]record.Point, 0, len(points))
	for _, p := range points {
		if p.Ts > *after {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// CompactPoint is the delta-encoded read form: Ts is a delta from the
// previous emitted point except for the first point, which carries the
// absolute timestamp; every other field is present only when it differs
// from the previous emitted point.
type CompactPoint struct {
	Ts  int64    `json:"ts"`
	Lat *float64 `json:"la,omitempty"`
	Lng *float64 `json:"lo,omitempty"`
	Hdg *int32   `json:"h,omitempty"`
	Gs  *int32   `json:"g,omitempty"`
	Alt *int32   `json:"a,omitempty"`
}

// LoadTrackCompact is LoadTrack followed by delta encoding.
func (s *Store) LoadTrackCompact(trackID string, interp bool, after *int64) ([]CompactPoint, error) {
	points, err := s.LoadTrack(trackID, interp, after)
	if err != nil {
		return nil, err
	}
	return ToCompact(points), nil
}

// ToCompact delta-encodes points the way spec.md §4.4/§6 defines: the
// first point is emitted with every field present and an absolute
// timestamp, every later point carries a ts delta from the previous
// emitted point and omits fields that didn't change.
func ToCompact(points []record.Point) []CompactPoint {
	if len(points) == 0 {
		return []CompactPoint{}
	}

	out := make([]CompactPoint, 0, len(points))

	curr := points[0]
	out = append(out, CompactPoint{
		Ts:  curr.Ts,
		Lat: ptr(curr.Lat),
		Lng: ptr(curr.Lng),
		Hdg: ptr(curr.Hdg),
		Gs:  ptr(curr.Gs),
		Alt: ptr(curr.Alt),
	})

	for _, p := range points[1:] {
		cp := CompactPoint{Ts: p.Ts - curr.Ts}
		if p.Lat != curr.Lat {
			cp.Lat = ptr(p.Lat)
		}
		if p.Lng != curr.Lng {
			cp.Lng = ptr(p.Lng)
		}
		if p.Hdg != curr.Hdg {
			cp.Hdg = ptr(p.Hdg)
		}
		if p.Gs != curr.Gs {
			cp.Gs = ptr(p.Gs)
		}
		if p.Alt != curr.Alt {
			cp.Alt = ptr(p.Alt)
		}
		out = append(out, cp)
		curr = p
	}

	return out
}

// FromCompact reconstructs the absolute point sequence a compact stream
// was derived from: prefix-summing Ts and carrying forward any field the
// source omitted. Used by round-trip tests exercising invariant 8.
func FromCompact(points []CompactPoint) []record.Point {
	if len(points) == 0 {
		return []record.Point{}
	}

	out := make([]record.Point, len(points))
	var curr record.Point

	for i, cp := range points {
		if i == 0 {
			curr.Ts = cp.Ts
		} else {
			curr.Ts += cp.Ts
		}
		if cp.Lat != nil {
			curr.Lat = *cp.Lat
		}
		if cp.Lng != nil {
			curr.Lng = *cp.Lng
		}
		if cp.Hdg != nil {
			curr.Hdg = *cp.Hdg
		}
		if cp.Gs != nil {
			curr.Gs = *cp.Gs
		}
		if cp.Alt != nil {
			curr.Alt = *cp.Alt
		}
		out[i] = curr
	}

	return out
}

func ptr[T any](v T) *T { return &v }

// TrackCount returns the sidecar's best-known count of distinct tracks.
func (s *Store) TrackCount() uint64 {
	if s.meta == nil {
		return 0
	}
	return s.meta.trackCount()
}

// PointCount returns the sidecar's best-known total point count across
// all tracks.
func (s *Store) PointCount() uint64 {
	if s.meta == nil {
		return 0
	}
	return s.meta.pointCount()
}

// walkTrackFiles visits every *.bin file under root.
func walkTrackFiles(root string, visit func(path string) error) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".bin" {
			return nil
		}
		return visit(path)
	})
}
