// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package pe

import (
	"fmt"
)

// WarningKind classifies a non-fatal inconsistency found while decoding.
type WarningKind int

const (
	// WarnInconsistentOptionalHeaderSize means SizeOfOptionalHeader differs
	// from the extent of the optional header variant that was decoded.
	WarnInconsistentOptionalHeaderSize WarningKind = iota + 1
	// WarnExcessDataDirectories means NumberOfRvaAndSizes exceeds the 16
	// slots of the data directory table.
	WarnExcessDataDirectories
	// WarnSectionCountExceedsLimit means NumberOfSections exceeds the limit
	// enforced by the Windows loader.
	WarnSectionCountExceedsLimit
)

func (k WarningKind) String() string {
	switch k {
	case WarnInconsistentOptionalHeaderSize:
		return "InconsistentOptionalHeaderSize"
	case WarnExcessDataDirectories:
		return "ExcessDataDirectories"
	case WarnSectionCountExceedsLimit:
		return "SectionCountExceedsLimit"
	default:
		return fmt.Sprintf("WarningKind(%d)", int(k))
	}
}

// Warning describes a non-fatal inconsistency attached to a decoded Image.
// Declared is the value stored in the image; Actual is the value the decoder
// used instead.
type Warning struct {
	Kind     WarningKind
	Declared uint64
	Actual   uint64
}

func (w Warning) Error() string {
	switch w.Kind {
	case WarnInconsistentOptionalHeaderSize:
		return fmt.Sprintf("SizeOfOptionalHeader is %d but the decoded optional header occupies %d bytes", w.Declared, w.Actual)
	case WarnExcessDataDirectories:
		return fmt.Sprintf("NumberOfRvaAndSizes is %d; only %d data directories exist", w.Declared, w.Actual)
	case WarnSectionCountExceedsLimit:
		return fmt.Sprintf("NumberOfSections is %d, above the loader limit of %d", w.Declared, w.Actual)
	default:
		return fmt.Sprintf("%v: declared %d, actual %d", w.Kind, w.Declared, w.Actual)
	}
}
