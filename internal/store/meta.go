package store

import (
	"encoding/binary"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/arkforge/tracked/internal/trackfile"
	trackedErrors "github.com/arkforge/tracked/pkg/errors"
)

// metaBlockSize mirrors record's header-style layout: three u64 fields,
// little-endian, no padding needed since every field is already 8 bytes.
const metaBlockSize = 24

const metaFileName = ".meta"

// metaFile is the optional sidecar caching cross-track counters so the
// metrics endpoint can answer without walking the tree on every request.
// Counter updates are best-effort: a write failure is logged and
// swallowed, never surfaced to the caller of the primary operation.
type metaFile struct {
	mu        sync.Mutex
	path      string
	file      *os.File
	trackCnt  uint64
	pointCnt  uint64
	updatedAt int64
	log       *zap.SugaredLogger
}

func openOrBuildMeta(root string, log *zap.SugaredLogger) (*metaFile, error) {
	path := root + string(os.PathSeparator) + metaFileName

	if _, err := os.Stat(path); err == nil {
		return loadMeta(path, log)
	} else if !os.IsNotExist(err) {
		return nil, trackedErrors.NewIOError(err, path)
	}

	return rebuildMeta(root, path, log)
}

func loadMeta(path string, log *zap.SugaredLogger) (*metaFile, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		return nil, trackedErrors.ClassifyFileOpenError(err, path)
	}

	buf := make([]byte, metaBlockSize)
	if _, err := file.ReadAt(buf, 0); err != nil {
		file.Close()
		return nil, trackedErrors.NewIOError(err, path)
	}

	trackCnt, pointCnt, updatedAt := decodeMetaBlock(buf)

	return &metaFile{
		path: path, file: file,
		trackCnt: trackCnt, pointCnt: pointCnt, updatedAt: updatedAt,
		log: log,
	}, nil
}

// rebuildMeta walks the track tree, opening each file and summing its
// Count(), to seed a fresh sidecar when none exists on startup.
func rebuildMeta(root, path string, log *zap.SugaredLogger) (*metaFile, error) {
	var trackCnt, pointCnt uint64

	if _, statErr := os.Stat(root); statErr == nil {
		err := walkTrackFiles(root, func(file string) error {
			tf, err := trackfile.Open(file)
			if err != nil {
				if log != nil {
					log.Warnw("skipping unreadable track file while rebuilding sidecar", "path", file, "error", err)
				}
				return nil
			}
			defer tf.Close()

			count, err := tf.Count()
			if err != nil {
				if log != nil {
					log.Warnw("skipping track file with unreadable count while rebuilding sidecar", "path", file, "error", err)
				}
				return nil
			}

			trackCnt++
			pointCnt += count
			return nil
		})
		if err != nil && log != nil {
			log.Warnw("error walking track tree while rebuilding sidecar", "root", root, "error", err)
		}
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, trackedErrors.ClassifyFileOpenError(err, path)
	}

	mf := &metaFile{path: path, file: file, trackCnt: trackCnt, pointCnt: pointCnt, log: log}
	if err := mf.flushLocked(); err != nil && log != nil {
		log.Warnw("failed to persist rebuilt sidecar", "path", path, "error", err)
	}

	return mf, nil
}

func encodeMetaBlock(trackCnt, pointCnt uint64, updatedAt int64) []byte {
	buf := make([]byte, metaBlockSize)
	binary.LittleEndian.PutUint64(buf[0:8], trackCnt)
	binary.LittleEndian.PutUint64(buf[8:16], pointCnt)
	binary.LittleEndian.PutUint64(buf[16:24], uint64(updatedAt))
	return buf
}

func decodeMetaBlock(buf []byte) (trackCnt, pointCnt uint64, updatedAt int64) {
	trackCnt = binary.LittleEndian.Uint64(buf[0:8])
	pointCnt = binary.LittleEndian.Uint64(buf[8:16])
	updatedAt = int64(binary.LittleEndian.Uint64(buf[16:24]))
	return
}

// recordAppend updates the in-memory counters and best-effort persists
// them: append increments the point counter, create increments the
// track counter. Collapse-rule appends (appended=false) still mean a
// record's contents changed but count didn't, so the point counter is
// only bumped when a new record was actually appended.
func (m *metaFile) recordAppend(trackCreated bool, appended bool) {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if trackCreated {
		m.trackCnt++
	}
	if appended {
		m.pointCnt++
	}

	if err := m.flushLocked(); err != nil && m.log != nil {
		m.log.Warnw("failed to persist sidecar counters", "path", m.path, "error", err)
	}
}

func (m *metaFile) flushLocked() error {
	buf := encodeMetaBlock(m.trackCnt, m.pointCnt, m.updatedAt)
	_, err := m.file.WriteAt(buf, 0)
	return err
}

func (m *metaFile) trackCount() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.trackCnt
}

func (m *metaFile) pointCount() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pointCnt
}
