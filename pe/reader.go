// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package pe

import (
	"encoding/binary"
)

// reader provides bounds-checked little-endian access to an immutable
// buffer. It never retains anything but the slice header it was given.
type reader struct {
	buf []byte
}

func (r reader) Len() int64 {
	return int64(len(r.buf))
}

// check verifies that [off, off+n) lies entirely within r.
func (r reader) check(off, n int64) error {
	if off < 0 || n < 0 || off > r.Len() || n > r.Len()-off {
		return &OutOfBoundsError{Offset: off, Length: n, BufferLength: r.Len()}
	}
	return nil
}

func (r reader) bytes(off, n int64) ([]byte, error) {
	if err := r.check(off, n); err != nil {
		return nil, err
	}
	return r.buf[off : off+n : off+n], nil
}

func (r reader) u8(off int64) (uint8, error) {
	b, err := r.bytes(off, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r reader) u16(off int64) (uint16, error) {
	b, err := r.bytes(off, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r reader) u32(off int64) (uint32, error) {
	b, err := r.bytes(off, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r reader) u64(off int64) (uint64, error) {
	b, err := r.bytes(off, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// uword reads an unsigned integer whose width (4 or 8 bytes) depends on the
// optional header variant.
func (r reader) uword(off int64, width int) (uint64, error) {
	if width == 8 {
		return r.u64(off)
	}
	v, err := r.u32(off)
	return uint64(v), err
}

// fieldReader reads a run of fields at offsets relative to base. The first
// failure is retained in err and every later read returns zero, so that a
// decoder can read a whole record and check for failure once.
type fieldReader struct {
	r    reader
	base int64
	err  error
}

func (fr *fieldReader) u8(rel int) uint8 {
	if fr.err != nil {
		return 0
	}
	var v uint8
	v, fr.err = fr.r.u8(fr.base + int64(rel))
	return v
}

func (fr *fieldReader) u16(rel int) uint16 {
	if fr.err != nil {
		return 0
	}
	var v uint16
	v, fr.err = fr.r.u16(fr.base + int64(rel))
	return v
}

func (fr *fieldReader) u32(rel int) uint32 {
	if fr.err != nil {
		return 0
	}
	var v uint32
	v, fr.err = fr.r.u32(fr.base + int64(rel))
	return v
}

func (fr *fieldReader) uword(rel int, width int) uint64 {
	if fr.err != nil {
		return 0
	}
	var v uint64
	v, fr.err = fr.r.uword(fr.base+int64(rel), width)
	return v
}

func (fr *fieldReader) array8(rel int) (result [8]byte) {
	if fr.err != nil {
		return result
	}
	var b []byte
	if b, fr.err = fr.r.bytes(fr.base+int64(rel), 8); fr.err == nil {
		copy(result[:], b)
	}
	return result
}
