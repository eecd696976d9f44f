package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	cases := []Header{
		{Magic: Magic, Version: Version, UpdatedAt: 0, Count: 0},
		{Magic: Magic, Version: Version, UpdatedAt: 1_700_000_000_000, Count: 42},
	}

	for _, h := range cases {
		decoded, err := DecodeHeader(EncodeHeader(h))
		require.NoError(t, err)
		assert.Equal(t, h, decoded)
	}
}

func TestPointRoundTrip(t *testing.T) {
	cases := []Point{
		{Ts: 1000, Lat: 50.0, Lng: 4.0, Hdg: 90, Gs: 120, Alt: 3000},
		{Ts: -5, Lat: -89.999999, Lng: 179.999999, Hdg: -1, Gs: -1, Alt: -1},
		{},
	}

	for _, p := range cases {
		decoded, err := DecodePoint(EncodePoint(p))
		require.NoError(t, err)
		assert.Equal(t, p, decoded)
	}
}

func TestEncodeSizes(t *testing.T) {
	assert.Len(t, EncodeHeader(Header{}), HeaderSize)
	assert.Len(t, EncodePoint(Point{}), PointSize)
	assert.Equal(t, 32, HeaderSize)
	assert.Equal(t, 40, PointSize)
}

func TestDecodeInsufficientData(t *testing.T) {
	_, err := DecodeHeader(make([]byte, HeaderSize-1))
	require.Error(t, err)

	_, err = DecodePoint(make([]byte, PointSize-1))
	require.Error(t, err)
}

func TestPointEqual(t *testing.T) {
	a := Point{Ts: 1, Lat: 1, Lng: 2, Hdg: 3, Gs: 4, Alt: 5}
	b := Point{Ts: 999, Lat: 1, Lng: 2, Hdg: 3, Gs: 4, Alt: 5}
	c := Point{Ts: 1, Lat: 1, Lng: 2, Hdg: 3, Gs: 4, Alt: 6}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
