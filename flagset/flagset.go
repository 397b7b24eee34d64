// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

// Package flagset provides a type-safe bit-flag set keyed by a closed
// enumeration of named flags.
package flagset

import (
	"fmt"
	"strings"

	"golang.org/x/exp/constraints"
)

// Flag is the interface that every flag enumeration usable with Set must
// implement. Both methods may be called on the zero value of K, so their
// return values must not depend on the method's receiver, except for Value.
type Flag[K any, V constraints.Unsigned] interface {
	comparable

	// Value returns the bits occupied by the flag.
	Value() V

	// Declared returns every flag of the enumeration in declaration order.
	Declared() []K
}

// masked is implemented by enumerations containing multi-bit field values,
// such as section alignments. Mask returns the bits of the field that the
// flag's value lives in; for ordinary single-bit flags it equals Value.
type masked[V constraints.Unsigned] interface {
	Mask() V
}

// Set is a set of flags of type K stored in an unsigned integer of type V.
// The zero value is the empty set. Bits that do not belong to any declared
// flag are retained but never reported by Flags.
type Set[K Flag[K, V], V constraints.Unsigned] struct {
	raw V
}

// FromRaw wraps raw, including any unrecognized bits.
func FromRaw[K Flag[K, V], V constraints.Unsigned](raw V) Set[K, V] {
	return Set[K, V]{raw: raw}
}

// Of returns the set containing exactly flags.
func Of[K Flag[K, V], V constraints.Unsigned](flags ...K) Set[K, V] {
	var s Set[K, V]
	for _, f := range flags {
		s.Insert(f)
	}
	return s
}

func maskOf[K Flag[K, V], V constraints.Unsigned](f K) V {
	if m, ok := any(f).(masked[V]); ok {
		return m.Mask()
	}
	return f.Value()
}

// Raw returns the underlying value of s.
func (s Set[K, V]) Raw() V {
	return s.raw
}

// Contains reports whether f is a member of s.
func (s Set[K, V]) Contains(f K) bool {
	v := f.Value()
	if v == 0 {
		return false
	}
	return s.raw&maskOf[K, V](f) == v
}

// Insert adds f to s. For a multi-bit field value, any other value of the
// same field is replaced.
func (s *Set[K, V]) Insert(f K) {
	s.raw = (s.raw &^ maskOf[K, V](f)) | f.Value()
}

// Remove deletes f from s. Removing a flag that is not a member is a no-op.
func (s *Set[K, V]) Remove(f K) {
	if s.Contains(f) {
		s.raw &^= f.Value()
	}
}

// Flags returns the declared flags present in s, in declaration order.
func (s Set[K, V]) Flags() []K {
	var zero K
	var result []K
	for _, f := range zero.Declared() {
		if s.Contains(f) {
			result = append(result, f)
		}
	}
	return result
}

// Unknown returns the bits of s that are not covered by any declared flag.
// The bits of a multi-bit field count as known only when the field holds one
// of its declared values.
func (s Set[K, V]) Unknown() V {
	var zero K
	var known V
	for _, f := range zero.Declared() {
		m := maskOf[K, V](f)
		if m == f.Value() || s.Contains(f) {
			known |= m
		}
	}
	return s.raw &^ known
}

// Union returns the set containing the members of both s and other. Neither
// operand is modified.
func (s Set[K, V]) Union(other Set[K, V]) Set[K, V] {
	return Set[K, V]{raw: s.raw | other.raw}
}

// Equal reports whether s and other hold the same raw value.
func (s Set[K, V]) Equal(other Set[K, V]) bool {
	return s.raw == other.raw
}

// IsEmpty reports whether no bits at all are set in s.
func (s Set[K, V]) IsEmpty() bool {
	return s.raw == 0
}

// String formats s as its member flags joined by '|', followed by any
// unknown bits in hex.
func (s Set[K, V]) String() string {
	var parts []string
	for _, f := range s.Flags() {
		parts = append(parts, fmt.Sprint(f))
	}
	if u := s.Unknown(); u != 0 {
		parts = append(parts, fmt.Sprintf("0x%X", uint64(u)))
	}
	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, "|")
}
