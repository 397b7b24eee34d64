// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

// Package pe provides a robust decoder for the headers of PE binaries.
//
// Decode validates the header chain of a PE image held in memory (DOS stub,
// COFF header, optional header, data directories and section table) without
// ever reading outside the supplied buffer. It does not walk the tables
// that the data directories point to.
package pe

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Image represents the decoded headers of a PE binary. An Image is never
// modified after Decode returns it and is safe for concurrent use.
type Image struct {
	dos      DOSHeader
	coff     COFFHeader
	optional OptionalHeader
	sections []Section
	warnings []Warning
}

// Magic returns the optional header magic, or 0 when the image has no
// optional header.
func (img *Image) Magic() OptionalMagic {
	if img.optional == nil {
		return 0
	}
	return img.optional.Magic()
}

// DOS returns the fields of the MS-DOS stub that locate the PE headers.
func (img *Image) DOS() DOSHeader {
	return img.dos
}

// COFF returns the COFF file header.
func (img *Image) COFF() COFFHeader {
	return img.coff
}

// Optional returns a copy of the optional header, or nil when
// SizeOfOptionalHeader is zero. The concrete type is *OptionalHeader32 or
// *OptionalHeader64.
func (img *Image) Optional() OptionalHeader {
	switch oh := img.optional.(type) {
	case *OptionalHeader32:
		c := *oh
		return &c
	case *OptionalHeader64:
		c := *oh
		return &c
	default:
		return nil
	}
}

// Sections returns a copy of the section table.
func (img *Image) Sections() []Section {
	return slices.Clone(img.sections)
}

// Section returns the first section whose name equals name.
func (img *Image) Section(name string) (Section, bool) {
	for _, s := range img.sections {
		if s.NameString() == name {
			return s, true
		}
	}
	return Section{}, false
}

// Warnings returns the non-fatal inconsistencies found while decoding.
func (img *Image) Warnings() []Warning {
	return slices.Clone(img.warnings)
}

// DataDirectoryEntry returns the data directory at idx. It returns
// ErrIndexOutOfRange when idx is not one of the IMAGE_DIRECTORY_ENTRY_*
// constants, and ErrNotPresent when the image has no optional header, when
// idx lies beyond NumberOfRvaAndSizes, or when the entry is zero.
func (img *Image) DataDirectoryEntry(idx DirectoryEntry) (DataDirectory, error) {
	if idx < 0 || idx >= numDataDirectories {
		return DataDirectory{}, ErrIndexOutOfRange
	}
	if img.optional == nil {
		return DataDirectory{}, ErrNotPresent
	}

	dde, ok := img.optional.Directories().Lookup(idx)
	if !ok || dde.IsZero() {
		return DataDirectory{}, ErrNotPresent
	}
	return dde, nil
}

// RVAToOffset translates rva into a file offset using the section table.
// ok is false when no section maps rva to raw data in the file.
func (img *Image) RVAToOffset(rva uint32) (offset uint32, ok bool) {
	for i := range img.sections {
		s := &img.sections[i]
		if !s.containsRVA(rva) {
			continue
		}
		voff := rva - s.VirtualAddress
		if voff >= s.SizeOfRawData {
			return 0, false
		}
		foff := uint64(s.PointerToRawData) + uint64(voff)
		if foff > 0xFFFFFFFF {
			return 0, false
		}
		return uint32(foff), true
	}

	return 0, false
}

// Decode decodes the headers of the PE image held in buf. On failure it
// returns a nil *Image and a *DecodeError wrapping the first fatal error; no
// partially decoded image is ever returned.
//
// The returned Image refers to buf for Section.Data, so buf must not be
// modified while the Image is in use.
func Decode(buf []byte, opts ...Option) (*Image, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.maxSize > 0 && int64(len(buf)) > o.maxSize {
		return nil, &DecodeError{Stage: StageDOS, Err: fmt.Errorf("%w: %d > %d", ErrBufferTooLarge, len(buf), o.maxSize)}
	}

	r := reader{buf: buf}
	img := &Image{}

	dos, err := decodeDOSHeader(r)
	if err != nil {
		return nil, &DecodeError{Stage: StageDOS, Err: err}
	}
	img.dos = dos

	coff, next, err := decodeCOFFHeader(r, int64(dos.LFANew))
	if err != nil {
		return nil, &DecodeError{Stage: StageCOFF, Err: err}
	}
	img.coff = coff

	optional, next, warnings, err := decodeOptionalHeader(r, next, &coff)
	if err != nil {
		return nil, &DecodeError{Stage: StageOptional, Err: err}
	}
	img.optional = optional
	img.warnings = append(img.warnings, warnings...)

	if o.maxSections > 0 && int(coff.NumberOfSections) > o.maxSections {
		return nil, &DecodeError{Stage: StageSections, Err: fmt.Errorf("%w: %d > %d", ErrTooManySections, coff.NumberOfSections, o.maxSections)}
	}
	if coff.NumberOfSections > maxNumSections {
		img.warnings = append(img.warnings, Warning{
			Kind:     WarnSectionCountExceedsLimit,
			Declared: uint64(coff.NumberOfSections),
			Actual:   maxNumSections,
		})
	}

	sections, err := decodeSectionTable(r, next, coff.NumberOfSections)
	if err != nil {
		return nil, &DecodeError{Stage: StageSections, Err: err}
	}
	img.sections = sections

	if o.strict && len(img.warnings) > 0 {
		w := img.warnings[0]
		stage := StageOptional
		if w.Kind == WarnSectionCountExceedsLimit {
			stage = StageSections
		}
		return nil, &DecodeError{Stage: stage, Err: w}
	}

	return img, nil
}
