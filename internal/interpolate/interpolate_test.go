package interpolate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkforge/tracked/internal/record"
)

func TestResampleEmpty(t *testing.T) {
	out := Resample(nil)
	assert.Empty(t, out)
}

func TestResampleBelowThreePassesThrough(t *testing.T) {
	in := []record.Point{
		{Ts: 1000, Lat: 1}, {Ts: 2000, Lat: 2},
	}
	out := Resample(in)
	assert.Equal(t, in, out)
}

func TestResampleEndsWithLastPointVerbatim(t *testing.T) {
	in := []record.Point{
		{Ts: 1000, Lat: 50.0, Lng: 4.0, Hdg: 90, Gs: 120, Alt: 3000},
		{Ts: 2500, Lat: 50.1, Lng: 4.1, Hdg: 91, Gs: 121, Alt: 3010},
		{Ts: 4000, Lat: 50.2, Lng: 4.2, Hdg: 92, Gs: 122, Alt: 3020},
		{Ts: 6000, Lat: 50.3, Lng: 4.3, Hdg: 93, Gs: 123, Alt: 3030},
		{Ts: 8000, Lat: 50.4, Lng: 4.4, Hdg: 94, Gs: 124, Alt: 3040},
	}

	out := Resample(in)
	require.NotEmpty(t, out)
	assert.Equal(t, in[len(in)-1], out[len(out)-1])
	assert.EqualValues(t, 0, out[0].Ts%1000)
}

func TestResampleDropsOutOfDomainSamples(t *testing.T) {
	in := []record.Point{
		{Ts: 0, Lat: 0},
		{Ts: 1000, Lat: 1},
		{Ts: 2000, Lat: 2},
	}

	out := Resample(in)
	// With only three knots there is no full four-point interior
	// neighbourhood, so every interior sample is out of domain; only the
	// final verbatim point survives.
	require.Len(t, out, 1)
	assert.Equal(t, in[len(in)-1], out[0])
}
