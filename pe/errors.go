// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package pe

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDosMagic          = errors.New("invalid DOS header magic")
	ErrInvalidCoffMagic         = errors.New("invalid PE signature")
	ErrOutOfBounds              = errors.New("read out of bounds")
	ErrUnsupportedOptionalMagic = errors.New("unsupported optional header magic")
	ErrBufferTooLarge           = errors.New("buffer exceeds configured maximum size")
	ErrTooManySections          = errors.New("section count exceeds configured maximum")
	ErrNotPresent               = errors.New("not present in this PE image")
	ErrIndexOutOfRange          = errors.New("index out of range")
)

// OutOfBoundsError is returned when a read of Length bytes at Offset does not
// fit inside a buffer of BufferLength bytes.
type OutOfBoundsError struct {
	Offset       int64
	Length       int64
	BufferLength int64
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("%v: offset 0x%X, length %d, buffer length %d", ErrOutOfBounds, e.Offset, e.Length, e.BufferLength)
}

func (e *OutOfBoundsError) Is(target error) bool {
	return target == ErrOutOfBounds
}

// UnsupportedOptionalMagicError carries the optional header magic that is
// neither PE32 nor PE32+.
type UnsupportedOptionalMagicError struct {
	Value OptionalMagic
}

func (e *UnsupportedOptionalMagicError) Error() string {
	return fmt.Sprintf("%v: 0x%04X", ErrUnsupportedOptionalMagic, uint16(e.Value))
}

func (e *UnsupportedOptionalMagicError) Is(target error) bool {
	return target == ErrUnsupportedOptionalMagic
}

// TruncatedSectionTableError is returned when the buffer ends before the
// declared number of section headers. Expected and Available are in bytes.
type TruncatedSectionTableError struct {
	Expected  int64
	Available int64
}

func (e *TruncatedSectionTableError) Error() string {
	return fmt.Sprintf("truncated section table: want %d bytes, have %d", e.Expected, e.Available)
}

func (e *TruncatedSectionTableError) Is(target error) bool {
	return target == ErrOutOfBounds
}

// Stage identifies the part of the header chain that failed to decode.
type Stage int

const (
	StageDOS Stage = iota
	StageCOFF
	StageOptional
	StageSections
)

func (s Stage) String() string {
	switch s {
	case StageDOS:
		return "DOS header"
	case StageCOFF:
		return "COFF header"
	case StageOptional:
		return "optional header"
	case StageSections:
		return "section table"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// DecodeError wraps the first fatal error encountered by Decode.
type DecodeError struct {
	Stage Stage
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %v: %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
