package trackfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arkforge/tracked/internal/record"
	trackedErrors "github.com/arkforge/tracked/pkg/errors"
)

func tempPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "track.bin")
}

func TestCreateThenReadEmpty(t *testing.T) {
	path := tempPath(t)

	tf, err := Create(path, 1000)
	require.NoError(t, err)
	defer tf.Close()

	p := record.Point{Ts: 1000, Lat: 50.0, Lng: 4.0, Hdg: 90, Gs: 120, Alt: 3000}
	appended, err := tf.Append(p, 1000)
	require.NoError(t, err)
	require.True(t, appended)

	points, err := tf.ReadAll()
	require.NoError(t, err)
	require.Equal(t, []record.Point{p}, points)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.EqualValues(t, record.HeaderSize+record.PointSize, info.Size())
}

func TestAppendMonotonicityRejected(t *testing.T) {
	path := tempPath(t)
	tf, err := Create(path, 1000)
	require.NoError(t, err)
	defer tf.Close()

	first := record.Point{Ts: 1000, Lat: 50.0, Lng: 4.0, Hdg: 90, Gs: 120, Alt: 3000}
	_, err = tf.Append(first, 1000)
	require.NoError(t, err)

	_, err = tf.Append(record.Point{Ts: 999}, 1001)
	require.Error(t, err)

	te, ok := trackedErrors.AsTrackError(err)
	require.True(t, ok)
	require.Equal(t, trackedErrors.ErrorCodeSequence, te.Code())
	require.EqualValues(t, 999, te.Timestamp())
}

func TestAppendEqualTimestampAccepted(t *testing.T) {
	path := tempPath(t)
	tf, err := Create(path, 0)
	require.NoError(t, err)
	defer tf.Close()

	_, err = tf.Append(record.Point{Ts: 500, Lat: 1}, 0)
	require.NoError(t, err)
	_, err = tf.Append(record.Point{Ts: 500, Lat: 2}, 0)
	require.NoError(t, err)

	count, err := tf.Count()
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
}

func TestCollapseRule(t *testing.T) {
	path := tempPath(t)
	tf, err := Create(path, 0)
	require.NoError(t, err)
	defer tf.Close()

	same := record.Point{Lat: 1, Lng: 2, Hdg: 3, Gs: 4, Alt: 5}

	p1 := same
	p1.Ts = 1000
	appended, err := tf.Append(p1, 1000)
	require.NoError(t, err)
	require.True(t, appended)

	p2 := same
	p2.Ts = 2000
	appended, err = tf.Append(p2, 2000)
	require.NoError(t, err)
	require.True(t, appended)

	p3 := same
	p3.Ts = 3000
	appended, err = tf.Append(p3, 3000)
	require.NoError(t, err)
	require.False(t, appended)

	count, err := tf.Count()
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	last, err := tf.ReadAt(1)
	require.NoError(t, err)
	require.EqualValues(t, 3000, last.Ts)
}

func TestCollapseDoesNotFireWithOnlyOnePriorRecord(t *testing.T) {
	path := tempPath(t)
	tf, err := Create(path, 0)
	require.NoError(t, err)
	defer tf.Close()

	same := record.Point{Lat: 1, Lng: 2, Hdg: 3, Gs: 4, Alt: 5}

	p1 := same
	p1.Ts = 1000
	_, err = tf.Append(p1, 1000)
	require.NoError(t, err)

	p2 := same
	p2.Ts = 2000
	appended, err := tf.Append(p2, 2000)
	require.NoError(t, err)
	require.True(t, appended)

	count, err := tf.Count()
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
}

func TestReadRangeClampsAndFilters(t *testing.T) {
	path := tempPath(t)
	tf, err := Create(path, 0)
	require.NoError(t, err)
	defer tf.Close()

	for _, ts := range []int64{1000, 2000, 3000, 4000} {
		_, err := tf.Append(record.Point{Ts: ts, Lat: float64(ts)}, ts)
		require.NoError(t, err)
	}

	points, err := tf.ReadRange(2, 10)
	require.NoError(t, err)
	require.Len(t, points, 2)
	require.EqualValues(t, 3000, points[0].Ts)
	require.EqualValues(t, 4000, points[1].Ts)

	points, err = tf.ReadRange(10, 5)
	require.NoError(t, err)
	require.Empty(t, points)
}

func TestOpenDetectsCorruption(t *testing.T) {
	path := tempPath(t)
	tf, err := Create(path, 0)
	require.NoError(t, err)

	_, err = tf.Append(record.Point{Ts: 1000, Lat: 1}, 0)
	require.NoError(t, err)
	require.NoError(t, tf.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, os.Truncate(path, info.Size()-1))

	_, err = Open(path)
	require.Error(t, err)

	te, ok := trackedErrors.AsTrackError(err)
	require.True(t, ok)
	require.Equal(t, trackedErrors.ErrorCodeInvalidLength, te.Code())
	require.EqualValues(t, info.Size(), te.ExpectedLength())
	require.EqualValues(t, info.Size()-1, te.ActualLength())
}

func TestOpenMissingFileIsNotFound(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.bin"))
	require.Error(t, err)

	te, ok := trackedErrors.AsTrackError(err)
	require.True(t, ok)
	require.Equal(t, trackedErrors.ErrorCodeNotFound, te.Code())
}

func TestOpenOrCreate(t *testing.T) {
	path := tempPath(t)

	tf, err := OpenOrCreate(path, 0)
	require.NoError(t, err)
	count, err := tf.Count()
	require.NoError(t, err)
	require.EqualValues(t, 0, count)
	require.NoError(t, tf.Close())

	tf2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, tf2.Close())
}

func TestDestroyRemovesFile(t *testing.T) {
	path := tempPath(t)
	tf, err := Create(path, 0)
	require.NoError(t, err)
	require.NoError(t, tf.Destroy())

	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
}
