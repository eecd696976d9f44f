// Package record defines the on-disk byte layout of a track file: the file
// header and the individual point records it is made of.
//
// Both types are fixed-width and little-endian. The layout is committed to
// a single stride per type — HeaderSize and PointSize — and every decode
// requires at least that many bytes and reads fixed offsets within them
// rather than trusting an in-memory struct copy,
// so the format stays portable across architectures and Go versions.
package record

import (
	"encoding/binary"
	"math"

	trackedErrors "github.com/arkforge/tracked/pkg/errors"
)

// Magic identifies a tracked track file. It must match on every open.
const Magic uint64 = 0xFB9CFC9B116A158E

// Version is the only header version this package understands.
const Version uint64 = 1

// HeaderSize is the fixed byte length of an encoded Header: four u64
// fields, little-endian.
const HeaderSize = 32

// PointSize is the fixed byte length of an encoded Point. The natural
// packing of one i64, two f64 and three i32 is 36 bytes; the stride is
// padded to 40 bytes to keep every field 8-byte aligned. This padding is
// part of the format, not an implementation detail: both encoder and
// decoder commit to it.
const PointSize = 40

// Header is the 32-byte preamble of a track file.
type Header struct {
	Magic     uint64
	Version   uint64
	UpdatedAt int64 // milliseconds epoch of creation or of the last append that added a record
	Count     uint64
}

// Point is a single track sample: a timestamp and five numeric fields.
// Two points are value-equal when Lat, Lng, Hdg, Gs and Alt all match; Ts
// is excluded from that comparison.
type Point struct {
	Ts  int64   `json:"ts"`
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
	Hdg int32   `json:"hdg"`
	Gs  int32   `json:"gs"`
	Alt int32   `json:"alt"`
}

// Equal reports whether p and other carry the same lat/lng/hdg/gs/alt,
// ignoring Ts.
func (p Point) Equal(other Point) bool {
	return p.Lat == other.Lat &&
		p.Lng == other.Lng &&
		p.Hdg == other.Hdg &&
		p.Gs == other.Gs &&
		p.Alt == other.Alt
}

// EncodeHeader serializes h into its fixed 32-byte little-endian form.
func EncodeHeader(h Header) []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint64(buf[0:8], h.Magic)
	binary.LittleEndian.PutUint64(buf[8:16], h.Version)
	binary.LittleEndian.PutUint64(buf[16:24], uint64(h.UpdatedAt))
	binary.LittleEndian.PutUint64(buf[24:32], h.Count)
	return buf
}

// DecodeHeader parses a Header out of buf, failing with InsufficientData
// when fewer than HeaderSize bytes are supplied. No validation beyond
// length is performed here; magic/length consistency is the caller's
// concern (internal/trackfile checks it on open).
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, trackedErrors.NewInsufficientDataError("header", len(buf))
	}

	return Header{
		Magic:     binary.LittleEndian.Uint64(buf[0:8]),
		Version:   binary.LittleEndian.Uint64(buf[8:16]),
		UpdatedAt: int64(binary.LittleEndian.Uint64(buf[16:24])),
		Count:     binary.LittleEndian.Uint64(buf[24:32]),
	}, nil
}

// EncodePoint serializes p into its fixed 40-byte little-endian form. The
// four trailing padding bytes are left zeroed.
func EncodePoint(p Point) []byte {
	buf := make([]byte, PointSize)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(p.Ts))
	binary.LittleEndian.PutUint64(buf[8:16], math.Float64bits(p.Lat))
	binary.LittleEndian.PutUint64(buf[16:24], math.Float64bits(p.Lng))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(p.Hdg))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(p.Gs))
	binary.LittleEndian.PutUint32(buf[32:36], uint32(p.Alt))
	return buf
}

// DecodePoint parses a Point out of buf, failing with InsufficientData
// when fewer than PointSize bytes are supplied. Performs no field-range
// validation, matching the on-disk format's decode contract.
func DecodePoint(buf []byte) (Point, error) {
	if len(buf) < PointSize {
		return Point{}, trackedErrors.NewInsufficientDataError("point", len(buf))
	}

	return Point{
		Ts:  int64(binary.LittleEndian.Uint64(buf[0:8])),
		Lat: math.Float64frombits(binary.LittleEndian.Uint64(buf[8:16])),
		Lng: math.Float64frombits(binary.LittleEndian.Uint64(buf[16:24])),
		Hdg: int32(binary.LittleEndian.Uint32(buf[24:28])),
		Gs:  int32(binary.LittleEndian.Uint32(buf[28:32])),
		Alt: int32(binary.LittleEndian.Uint32(buf[32:36])),
	}, nil
}
