package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkforge/tracked/internal/record"
	trackedErrors "github.com/arkforge/tracked/pkg/errors"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(Config{Folder: t.TempDir()})
	require.NoError(t, err)
	return s
}

func TestPathOfIsDeterministic(t *testing.T) {
	s := newTestStore(t)

	a := s.PathOf("T1")
	b := s.PathOf("T1")
	assert.Equal(t, a, b)

	other := s.PathOf("T2")
	assert.NotEqual(t, a, other)
}

func TestAppendAndLoadTrack(t *testing.T) {
	s := newTestStore(t)

	p := record.Point{Ts: 1000, Lat: 50.0, Lng: 4.0, Hdg: 90, Gs: 120, Alt: 3000}
	require.NoError(t, s.Append("T1", p, true))

	points, err := s.LoadTrack("T1", false, nil)
	require.NoError(t, err)
	assert.Equal(t, []record.Point{p}, points)
}

func TestLoadTrackAfterFilter(t *testing.T) {
	s := newTestStore(t)

	for _, ts := range []int64{1000, 2000, 3000, 4000} {
		require.NoError(t, s.Append("T1", record.Point{Ts: ts, Lat: float64(ts)}, true))
	}

	after := int64(2000)
	points, err := s.LoadTrack("T1", false, &after)
	require.NoError(t, err)

	require.Len(t, points, 2)
	assert.EqualValues(t, 3000, points[0].Ts)
	assert.EqualValues(t, 4000, points[1].Ts)
}

func TestCompactRoundTrip(t *testing.T) {
	points := []record.Point{
		{Ts: 10, Lat: 1, Lng: 1, Hdg: 0, Gs: 0, Alt: 0},
		{Ts: 11, Lat: 1, Lng: 2, Hdg: 0, Gs: 0, Alt: 0},
	}

	compact := ToCompact(points)
	require.Len(t, compact, 2)

	assert.EqualValues(t, 10, compact[0].Ts)
	require.NotNil(t, compact[0].Lat)
	assert.Equal(t, 1.0, *compact[0].Lat)

	assert.EqualValues(t, 1, compact[1].Ts)
	assert.Nil(t, compact[1].Lat)
	require.NotNil(t, compact[1].Lng)
	assert.Equal(t, 2.0, *compact[1].Lng)

	reconstructed := FromCompact(compact)
	assert.Equal(t, points, reconstructed)
}

func TestLoadTrackCompactEndToEnd(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Append("T1", record.Point{Ts: 10, Lat: 1, Lng: 1}, true))
	require.NoError(t, s.Append("T1", record.Point{Ts: 11, Lat: 1, Lng: 2}, true))

	compact, err := s.LoadTrackCompact("T1", false, nil)
	require.NoError(t, err)
	require.Len(t, compact, 2)
	assert.EqualValues(t, 1, compact[1].Ts)
}

func TestMetaCountersTrackAppends(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Append("T1", record.Point{Ts: 1, Lat: 1}, true))
	require.NoError(t, s.Append("T1", record.Point{Ts: 2, Lat: 2}, true))
	require.NoError(t, s.Append("T2", record.Point{Ts: 1, Lat: 1}, true))

	assert.EqualValues(t, 2, s.TrackCount())
	assert.EqualValues(t, 3, s.PointCount())
}

func TestAppendWithoutCreateIfMissingPropagatesNotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.Append("ghost", record.Point{Ts: 1}, false)
	require.Error(t, err)
	assert.Equal(t, trackedErrors.ErrorCodeNotFound, trackedErrors.GetErrorCode(err))
}
