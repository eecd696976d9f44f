// Package interpolate resamples a sparse sequence of track points onto a
// fixed 1 Hz cadence using Catmull-Rom splines, one independent spline per
// numeric field.
//
// No library in the retrieval pack implements Catmull-Rom with the
// nil-outside-domain sampling behaviour this format needs (gonum's interp
// package covers linear/PCHIP/Akima only), so this is the one component
// built directly against the math package rather than a third-party curve
// library.
package interpolate

import (
	"math"

	"github.com/arkforge/tracked/internal/record"
)

// stepMillis is the fixed output cadence: one record per second.
const stepMillis int64 = 1000

// spline is a Catmull-Rom spline over (x, y) knots sorted by x. Sampling
// outside [x[1], x[len-2]] (the domain the interior segments actually
// interpolate) returns ok=false, matching the spec's "drop out-of-domain
// samples" rule.
type spline struct {
	xs []float64
	ys []float64
}

func newSpline(xs, ys []float64) spline {
	return spline{xs: xs, ys: ys}
}

// at evaluates the spline at x, returning ok=false when x falls outside
// the interior domain the control points support.
func (s spline) at(x float64) (float64, bool) {
	n := len(s.xs)
	if n < 4 {
		return 0, false
	}

	if x < s.xs[1] || x > s.xs[n-2] {
		return 0, false
	}

	// Find the segment [xs[i], xs[i+1]] containing x, among the interior
	// segments that have a full four-point Catmull-Rom neighbourhood.
	i := 1
	for i < n-3 && x > s.xs[i+1] {
		i++
	}

	x0, x1, x2, x3 := s.xs[i-1], s.xs[i], s.xs[i+1], s.xs[i+2]
	y0, y1, y2, y3 := s.ys[i-1], s.ys[i], s.ys[i+1], s.ys[i+2]

	span := x2 - x1
	if span == 0 {
		return y1, true
	}
	t := (x - x1) / span

	t2 := t * t
	t3 := t2 * t

	v := 0.5 * ((2 * y1) +
		(-y0+y2)*t +
		(2*y0-5*y1+4*y2-y3)*t2 +
		(-y0+3*y1-3*y2+y3)*t3)

	_ = x0
	_ = x3

	return v, true
}

// Resample produces a dense sequence at 1 Hz cadence from points.
//
// For len(points) < 3, points is returned unchanged. For len(points) ==
// 0, an empty slice is returned. Otherwise, output timestamps run from
// floor(points[0].Ts/1000)*1000 up to but not including
// floor(points[last].Ts/1000)*1000, then the last input point is
// appended verbatim. Any output timestamp where a field's spline has no
// value is dropped entirely (all five fields must sample successfully).
func Resample(points []record.Point) []record.Point {
	if len(points) == 0 {
		return []record.Point{}
	}
	if len(points) < 3 {
		out := make([]record.Point, len(points))
		copy(out, points)
		return out
	}

	n := len(points)
	xs := make([]float64, n)
	lat := make([]float64, n)
	lng := make([]float64, n)
	hdg := make([]float64, n)
	gs := make([]float64, n)
	alt := make([]float64, n)

	for i, p := range points {
		xs[i] = float64(p.Ts)
		lat[i] = p.Lat
		lng[i] = p.Lng
		hdg[i] = float64(p.Hdg)
		gs[i] = float64(p.Gs)
		alt[i] = float64(p.Alt)
	}

	latS := newSpline(xs, lat)
	lngS := newSpline(xs, lng)
	hdgS := newSpline(xs, hdg)
	gsS := newSpline(xs, gs)
	altS := newSpline(xs, alt)

	start := (points[0].Ts / stepMillis) * stepMillis
	if points[0].Ts < 0 && points[0].Ts%stepMillis != 0 {
		start -= stepMillis
	}

	last := points[n-1]
	end := (last.Ts / stepMillis) * stepMillis
	if last.Ts < 0 && last.Ts%stepMillis != 0 {
		end -= stepMillis
	}

	out := make([]record.Point, 0, (end-start)/stepMillis+1)

	for t := start; t < end; t += stepMillis {
		x := float64(t)

		latV, ok1 := latS.at(x)
		lngV, ok2 := lngS.at(x)
		hdgV, ok3 := hdgS.at(x)
		gsV, ok4 := gsS.at(x)
		altV, ok5 := altS.at(x)

		if !(ok1 && ok2 && ok3 && ok4 && ok5) {
			continue
		}

		out = append(out, record.Point{
			Ts:  t,
			Lat: latV,
			Lng: lngV,
			Hdg: int32(math.Trunc(hdgV)),
			Gs:  int32(math.Trunc(gsV)),
			Alt: int32(math.Trunc(altV)),
		})
	}

	out = append(out, last)

	return out
}
