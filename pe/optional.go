// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package pe

import (
	"github.com/dblohm7/pecoff/flagset"
)

// Version is a major/minor version pair.
type Version struct {
	Major uint16
	Minor uint16
}

// StandardFields are the optional header fields common to PE32 and PE32+.
type StandardFields struct {
	MajorLinkerVersion      uint8
	MinorLinkerVersion      uint8
	SizeOfCode              uint32
	SizeOfInitializedData   uint32
	SizeOfUninitializedData uint32
	AddressOfEntryPoint     uint32
	BaseOfCode              uint32
}

// WindowsFields are the Windows-specific optional header fields whose width
// does not depend on the variant.
type WindowsFields struct {
	SectionAlignment       uint32
	FileAlignment          uint32
	OperatingSystemVersion Version
	ImageVersion           Version
	SubsystemVersion       Version
	Win32VersionValue      uint32
	SizeOfImage            uint32
	SizeOfHeaders          uint32
	CheckSum               uint32
	Subsystem              Subsystem
	DllCharacteristics     DllCharacteristicsSet
	LoaderFlags            uint32
	NumberOfRvaAndSizes    uint32
}

// MemoryInfo holds the stack and heap sizes, widened to 64 bits.
type MemoryInfo struct {
	SizeOfStackReserve uint64
	SizeOfStackCommit  uint64
	SizeOfHeapReserve  uint64
	SizeOfHeapCommit   uint64
}

// OptionalHeader is implemented by *OptionalHeader32 and *OptionalHeader64.
// Use a type switch to access the variant-specific fields.
type OptionalHeader interface {
	Magic() OptionalMagic
	Standard() StandardFields
	Windows() WindowsFields
	// ImageBaseAddress returns ImageBase widened to 64 bits.
	ImageBaseAddress() uint64
	// BaseOfDataAddress returns BaseOfData; ok is false for PE32+, which has
	// no such field.
	BaseOfDataAddress() (base uint32, ok bool)
	Memory() MemoryInfo
	Directories() DataDirectories
	// HeaderSize returns the number of bytes occupied by the decoded header,
	// including the data directory table.
	HeaderSize() int

	isOptionalHeader()
}

// OptionalHeader32 is the PE32 optional header.
type OptionalHeader32 struct {
	StandardFields
	BaseOfData uint32
	ImageBase  uint32
	WindowsFields
	SizeOfStackReserve uint32
	SizeOfStackCommit  uint32
	SizeOfHeapReserve  uint32
	SizeOfHeapCommit   uint32
	DataDirectory      DataDirectories
}

func (*OptionalHeader32) isOptionalHeader() {}

func (*OptionalHeader32) Magic() OptionalMagic { return IMAGE_NT_OPTIONAL_HDR32_MAGIC }

func (oh *OptionalHeader32) Standard() StandardFields { return oh.StandardFields }

func (oh *OptionalHeader32) Windows() WindowsFields { return oh.WindowsFields }

func (oh *OptionalHeader32) ImageBaseAddress() uint64 { return uint64(oh.ImageBase) }

func (oh *OptionalHeader32) BaseOfDataAddress() (uint32, bool) { return oh.BaseOfData, true }

func (oh *OptionalHeader32) Memory() MemoryInfo {
	return MemoryInfo{
		SizeOfStackReserve: uint64(oh.SizeOfStackReserve),
		SizeOfStackCommit:  uint64(oh.SizeOfStackCommit),
		SizeOfHeapReserve:  uint64(oh.SizeOfHeapReserve),
		SizeOfHeapCommit:   uint64(oh.SizeOfHeapCommit),
	}
}

func (oh *OptionalHeader32) Directories() DataDirectories { return oh.DataDirectory }

func (*OptionalHeader32) HeaderSize() int { return layoutPE32.size }

// OptionalHeader64 is the PE32+ optional header.
type OptionalHeader64 struct {
	StandardFields
	ImageBase uint64
	WindowsFields
	SizeOfStackReserve uint64
	SizeOfStackCommit  uint64
	SizeOfHeapReserve  uint64
	SizeOfHeapCommit   uint64
	DataDirectory      DataDirectories
}

func (*OptionalHeader64) isOptionalHeader() {}

func (*OptionalHeader64) Magic() OptionalMagic { return IMAGE_NT_OPTIONAL_HDR64_MAGIC }

func (oh *OptionalHeader64) Standard() StandardFields { return oh.StandardFields }

func (oh *OptionalHeader64) Windows() WindowsFields { return oh.WindowsFields }

func (oh *OptionalHeader64) ImageBaseAddress() uint64 { return oh.ImageBase }

func (oh *OptionalHeader64) BaseOfDataAddress() (uint32, bool) { return 0, false }

func (oh *OptionalHeader64) Memory() MemoryInfo {
	return MemoryInfo{
		SizeOfStackReserve: oh.SizeOfStackReserve,
		SizeOfStackCommit:  oh.SizeOfStackCommit,
		SizeOfHeapReserve:  oh.SizeOfHeapReserve,
		SizeOfHeapCommit:   oh.SizeOfHeapCommit,
	}
}

func (oh *OptionalHeader64) Directories() DataDirectories { return oh.DataDirectory }

func (*OptionalHeader64) HeaderSize() int { return layoutPE32Plus.size }

// optionalLayout holds field offsets relative to the start of the optional
// header. The width of ImageBase shifts every field after it, so each variant
// has its own fixed table.
type optionalLayout struct {
	wordWidth           int
	baseOfData          int // -1 when absent
	imageBase           int
	sectionAlignment    int
	fileAlignment       int
	versions            int
	win32VersionValue   int
	sizeOfImage         int
	sizeOfHeaders       int
	checkSum            int
	subsystem           int
	dllCharacteristics  int
	sizeOfStackReserve  int
	sizeOfStackCommit   int
	sizeOfHeapReserve   int
	sizeOfHeapCommit    int
	loaderFlags         int
	numberOfRvaAndSizes int
	dataDirectory       int
	size                int
}

var layoutPE32 = optionalLayout{
	wordWidth:           4,
	baseOfData:          24,
	imageBase:           28,
	sectionAlignment:    32,
	fileAlignment:       36,
	versions:            40,
	win32VersionValue:   52,
	sizeOfImage:         56,
	sizeOfHeaders:       60,
	checkSum:            64,
	subsystem:           68,
	dllCharacteristics:  70,
	sizeOfStackReserve:  72,
	sizeOfStackCommit:   76,
	sizeOfHeapReserve:   80,
	sizeOfHeapCommit:    84,
	loaderFlags:         88,
	numberOfRvaAndSizes: 92,
	dataDirectory:       96,
	size:                224,
}

var layoutPE32Plus = optionalLayout{
	wordWidth:           8,
	baseOfData:          -1,
	imageBase:           24,
	sectionAlignment:    32,
	fileAlignment:       36,
	versions:            40,
	win32VersionValue:   52,
	sizeOfImage:         56,
	sizeOfHeaders:       60,
	checkSum:            64,
	subsystem:           68,
	dllCharacteristics:  70,
	sizeOfStackReserve:  72,
	sizeOfStackCommit:   80,
	sizeOfHeapReserve:   88,
	sizeOfHeapCommit:    96,
	loaderFlags:         104,
	numberOfRvaAndSizes: 108,
	dataDirectory:       112,
	size:                240,
}

func readStandardFields(fr *fieldReader) StandardFields {
	return StandardFields{
		MajorLinkerVersion:      fr.u8(2),
		MinorLinkerVersion:      fr.u8(3),
		SizeOfCode:              fr.u32(4),
		SizeOfInitializedData:   fr.u32(8),
		SizeOfUninitializedData: fr.u32(12),
		AddressOfEntryPoint:     fr.u32(16),
		BaseOfCode:              fr.u32(20),
	}
}

func readWindowsFields(fr *fieldReader, l *optionalLayout) WindowsFields {
	return WindowsFields{
		SectionAlignment:       fr.u32(l.sectionAlignment),
		FileAlignment:          fr.u32(l.fileAlignment),
		OperatingSystemVersion: Version{Major: fr.u16(l.versions), Minor: fr.u16(l.versions + 2)},
		ImageVersion:           Version{Major: fr.u16(l.versions + 4), Minor: fr.u16(l.versions + 6)},
		SubsystemVersion:       Version{Major: fr.u16(l.versions + 8), Minor: fr.u16(l.versions + 10)},
		Win32VersionValue:      fr.u32(l.win32VersionValue),
		SizeOfImage:            fr.u32(l.sizeOfImage),
		SizeOfHeaders:          fr.u32(l.sizeOfHeaders),
		CheckSum:               fr.u32(l.checkSum),
		Subsystem:              Subsystem(fr.u16(l.subsystem)),
		DllCharacteristics:     flagset.FromRaw[DllCharacteristics](fr.u16(l.dllCharacteristics)),
		LoaderFlags:            fr.u32(l.loaderFlags),
		NumberOfRvaAndSizes:    fr.u32(l.numberOfRvaAndSizes),
	}
}

// decodeOptionalHeader decodes the optional header at off. It returns a nil
// header and off unchanged when the COFF header declares no optional header.
// Otherwise it returns the offset immediately following the decoded extent.
func decodeOptionalHeader(r reader, off int64, coff *COFFHeader) (OptionalHeader, int64, []Warning, error) {
	if coff.SizeOfOptionalHeader == 0 {
		return nil, off, nil, nil
	}

	magic, err := r.u16(off)
	if err != nil {
		return nil, 0, nil, err
	}

	var l *optionalLayout
	switch OptionalMagic(magic) {
	case IMAGE_NT_OPTIONAL_HDR32_MAGIC:
		l = &layoutPE32
	case IMAGE_NT_OPTIONAL_HDR64_MAGIC:
		l = &layoutPE32Plus
	default:
		return nil, 0, nil, &UnsupportedOptionalMagicError{Value: OptionalMagic(magic)}
	}

	if err := r.check(off, int64(l.size)); err != nil {
		return nil, 0, nil, err
	}

	fr := fieldReader{r: r, base: off}
	std := readStandardFields(&fr)
	win := readWindowsFields(&fr, l)
	imageBase := fr.uword(l.imageBase, l.wordWidth)
	mem := MemoryInfo{
		SizeOfStackReserve: fr.uword(l.sizeOfStackReserve, l.wordWidth),
		SizeOfStackCommit:  fr.uword(l.sizeOfStackCommit, l.wordWidth),
		SizeOfHeapReserve:  fr.uword(l.sizeOfHeapReserve, l.wordWidth),
		SizeOfHeapCommit:   fr.uword(l.sizeOfHeapCommit, l.wordWidth),
	}
	var baseOfData uint32
	if l.baseOfData >= 0 {
		baseOfData = fr.u32(l.baseOfData)
	}
	if fr.err != nil {
		return nil, 0, nil, fr.err
	}

	dirs, err := decodeDataDirectories(r, off+int64(l.dataDirectory), win.NumberOfRvaAndSizes)
	if err != nil {
		return nil, 0, nil, err
	}

	var warnings []Warning
	if int(coff.SizeOfOptionalHeader) != l.size {
		warnings = append(warnings, Warning{
			Kind:     WarnInconsistentOptionalHeaderSize,
			Declared: uint64(coff.SizeOfOptionalHeader),
			Actual:   uint64(l.size),
		})
	}
	if win.NumberOfRvaAndSizes > numDataDirectories {
		warnings = append(warnings, Warning{
			Kind:     WarnExcessDataDirectories,
			Declared: uint64(win.NumberOfRvaAndSizes),
			Actual:   numDataDirectories,
		})
	}

	var oh OptionalHeader
	if l.wordWidth == 8 {
		oh = &OptionalHeader64{
			StandardFields:     std,
			ImageBase:          imageBase,
			WindowsFields:      win,
			SizeOfStackReserve: mem.SizeOfStackReserve,
			SizeOfStackCommit:  mem.SizeOfStackCommit,
			SizeOfHeapReserve:  mem.SizeOfHeapReserve,
			SizeOfHeapCommit:   mem.SizeOfHeapCommit,
			DataDirectory:      dirs,
		}
	} else {
		oh = &OptionalHeader32{
			StandardFields:     std,
			BaseOfData:         baseOfData,
			ImageBase:          uint32(imageBase),
			WindowsFields:      win,
			SizeOfStackReserve: uint32(mem.SizeOfStackReserve),
			SizeOfStackCommit:  uint32(mem.SizeOfStackCommit),
			SizeOfHeapReserve:  uint32(mem.SizeOfHeapReserve),
			SizeOfHeapCommit:   uint32(mem.SizeOfHeapCommit),
			DataDirectory:      dirs,
		}
	}

	return oh, off + int64(l.size), warnings, nil
}
