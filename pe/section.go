// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package pe

import (
	"github.com/dblohm7/pecoff/flagset"
)

const (
	sizeIMAGE_SECTION_HEADER = 40
	maxNumSections           = 96 // Windows loader limit
)

// Section is a decoded section header. Its raw contents are not copied; use
// Data to resolve them against the buffer that was passed to Decode.
type Section struct {
	Name                 [8]byte
	VirtualSize          uint32
	VirtualAddress       uint32
	SizeOfRawData        uint32
	PointerToRawData     uint32
	PointerToRelocations uint32
	PointerToLineNumbers uint32
	NumberOfRelocations  uint16
	NumberOfLineNumbers  uint16
	Characteristics      SectionCharacteristicsSet

	r reader
}

// NameString returns Name up to its first NUL byte. A name that occupies all
// eight bytes has no terminator.
func (s *Section) NameString() string {
	for i, c := range s.Name {
		if c == 0 {
			return string(s.Name[:i])
		}
	}

	return string(s.Name[:])
}

// Data returns the section's raw data as a sub-slice of the decoded buffer.
// The region [PointerToRawData, PointerToRawData+SizeOfRawData) is checked
// here rather than during Decode, so a section whose header decoded
// successfully may still fail with an *OutOfBoundsError.
// The returned slice aliases the caller's buffer and must not be modified.
func (s *Section) Data() ([]byte, error) {
	if s.SizeOfRawData == 0 {
		return nil, nil
	}
	return s.r.bytes(int64(s.PointerToRawData), int64(s.SizeOfRawData))
}

// Alignment returns the alignment in bytes encoded by the IMAGE_SCN_ALIGN_*
// field, or 0 when the field is unset.
func (s *Section) Alignment() uint32 {
	field := (s.Characteristics.Raw() & uint32(IMAGE_SCN_ALIGN_MASK)) >> 20
	if field == 0 || field > 14 {
		return 0
	}
	return 1 << (field - 1)
}

// Permissions returns the memory protection of s in "rwx" form, with '-'
// for each missing permission.
func (s *Section) Permissions() string {
	perms := []byte("---")
	if s.Characteristics.Contains(IMAGE_SCN_MEM_READ) {
		perms[0] = 'r'
	}
	if s.Characteristics.Contains(IMAGE_SCN_MEM_WRITE) {
		perms[1] = 'w'
	}
	if s.Characteristics.Contains(IMAGE_SCN_MEM_EXECUTE) {
		perms[2] = 'x'
	}
	return string(perms)
}

func (s *Section) containsRVA(rva uint32) bool {
	size := s.VirtualSize
	if size == 0 {
		size = s.SizeOfRawData
	}
	return rva >= s.VirtualAddress && uint64(rva) < uint64(s.VirtualAddress)+uint64(size)
}

// decodeSectionTable decodes count section headers starting at off.
func decodeSectionTable(r reader, off int64, count uint16) ([]Section, error) {
	expected := int64(count) * sizeIMAGE_SECTION_HEADER
	if err := r.check(off, expected); err != nil {
		available := r.Len() - off
		if available < 0 {
			available = 0
		}
		return nil, &TruncatedSectionTableError{Expected: expected, Available: available}
	}

	sections := make([]Section, count)
	for i := range sections {
		fr := fieldReader{r: r, base: off + int64(i)*sizeIMAGE_SECTION_HEADER}
		sections[i] = Section{
			Name:                 fr.array8(0),
			VirtualSize:          fr.u32(8),
			VirtualAddress:       fr.u32(12),
			SizeOfRawData:        fr.u32(16),
			PointerToRawData:     fr.u32(20),
			PointerToRelocations: fr.u32(24),
			PointerToLineNumbers: fr.u32(28),
			NumberOfRelocations:  fr.u16(32),
			NumberOfLineNumbers:  fr.u16(34),
			Characteristics:      flagset.FromRaw[SectionCharacteristics](fr.u32(36)),
			r:                    r,
		}
		if fr.err != nil {
			return nil, fr.err
		}
	}

	return sections, nil
}
