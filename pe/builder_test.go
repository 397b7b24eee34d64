// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package pe

import (
	"encoding/binary"
)

const (
	testFileAlignment    = 0x200
	testSectionAlignment = 0x1000
)

type testSection struct {
	name            string
	virtualAddress  uint32
	virtualSize     uint32
	data            []byte
	characteristics SectionCharacteristics
}

// testImage describes a synthetic PE image. Call build to serialize it. The
// field offsets used by build are written out independently of the decoder's
// layout tables.
type testImage struct {
	lfanew          uint32
	machine         Machine
	numSections     int // -1 means len(sections)
	timeDateStamp   uint32
	characteristics Characteristics
	magic           OptionalMagic // 0 means no optional header
	declaredOptSize int           // -1 means the size of the variant
	imageBase       uint64
	subsystem       Subsystem
	dllChars        DllCharacteristics
	numRVA          uint32
	dirs            [numDataDirectories]DataDirectory
	sections        []testSection
}

func newTestImage(magic OptionalMagic) *testImage {
	ti := &testImage{
		lfanew:          0x80,
		machine:         IMAGE_FILE_MACHINE_I386,
		numSections:     -1,
		timeDateStamp:   0x5F5E1000,
		characteristics: IMAGE_FILE_EXECUTABLE_IMAGE | IMAGE_FILE_32BIT_MACHINE,
		magic:           magic,
		declaredOptSize: -1,
		imageBase:       0x400000,
		subsystem:       IMAGE_SUBSYSTEM_WINDOWS_CUI,
		dllChars:        IMAGE_DLLCHARACTERISTICS_DYNAMIC_BASE | IMAGE_DLLCHARACTERISTICS_NX_COMPAT,
		numRVA:          numDataDirectories,
		sections: []testSection{
			{".text", 0x1000, 0x10, []byte("\xCC\xCC\xC3"), IMAGE_SCN_CNT_CODE | IMAGE_SCN_MEM_EXECUTE | IMAGE_SCN_MEM_READ},
			{".data", 0x2000, 0x20, []byte("hello"), IMAGE_SCN_CNT_INITIALIZED_DATA | IMAGE_SCN_MEM_READ | IMAGE_SCN_MEM_WRITE},
		},
	}
	if magic == IMAGE_NT_OPTIONAL_HDR64_MAGIC {
		ti.machine = IMAGE_FILE_MACHINE_AMD64
		ti.characteristics = IMAGE_FILE_EXECUTABLE_IMAGE | IMAGE_FILE_LARGE_ADDRESS_AWARE
		ti.imageBase = 0x140000000
	}
	return ti
}

func (ti *testImage) optionalSize() int {
	switch ti.magic {
	case 0:
		return 0
	case IMAGE_NT_OPTIONAL_HDR64_MAGIC:
		return 240
	default:
		return 224
	}
}

// wordWidth is the width of ImageBase and the stack and heap fields.
func (ti *testImage) wordWidth() int {
	if ti.magic == IMAGE_NT_OPTIONAL_HDR64_MAGIC {
		return 8
	}
	return 4
}

func alignUp(v, align int) int {
	return (v + align - 1) &^ (align - 1)
}

func (ti *testImage) headersEnd() int {
	return int(ti.lfanew) + 24 + ti.optionalSize() + 40*len(ti.sections)
}

func (ti *testImage) build() []byte {
	sizeOfHeaders := alignUp(ti.headersEnd(), testFileAlignment)
	rawOffsets := make([]int, len(ti.sections))
	total := sizeOfHeaders
	for i, s := range ti.sections {
		rawOffsets[i] = total
		total += alignUp(len(s.data), testFileAlignment)
	}

	sizeOfImage := testSectionAlignment
	for _, s := range ti.sections {
		if end := alignUp(int(s.virtualAddress+s.virtualSize), testSectionAlignment); end > sizeOfImage {
			sizeOfImage = end
		}
	}

	le := binary.LittleEndian
	buf := make([]byte, total)
	buf[0], buf[1] = 'M', 'Z'
	le.PutUint32(buf[60:], ti.lfanew)

	numSections := ti.numSections
	if numSections < 0 {
		numSections = len(ti.sections)
	}
	declaredOptSize := ti.declaredOptSize
	if declaredOptSize < 0 {
		declaredOptSize = ti.optionalSize()
	}

	c := buf[ti.lfanew:]
	copy(c, "PE\x00\x00")
	le.PutUint16(c[4:], uint16(ti.machine))
	le.PutUint16(c[6:], uint16(numSections))
	le.PutUint32(c[8:], ti.timeDateStamp)
	le.PutUint16(c[20:], uint16(declaredOptSize))
	le.PutUint16(c[22:], uint16(ti.characteristics))

	if ti.magic != 0 {
		o := c[24:]
		w := ti.wordWidth()
		le.PutUint16(o[0:], uint16(ti.magic))
		o[2], o[3] = 14, 29
		le.PutUint32(o[4:], 0x200)
		le.PutUint32(o[8:], 0x200)
		le.PutUint32(o[16:], 0x1000)
		le.PutUint32(o[20:], 0x1000)
		if w == 8 {
			le.PutUint64(o[24:], ti.imageBase)
		} else {
			le.PutUint32(o[24:], 0x2000)
			le.PutUint32(o[28:], uint32(ti.imageBase))
		}
		le.PutUint32(o[32:], testSectionAlignment)
		le.PutUint32(o[36:], testFileAlignment)
		le.PutUint16(o[40:], 6)
		le.PutUint16(o[48:], 6)
		le.PutUint16(o[50:], 1)
		le.PutUint32(o[56:], uint32(sizeOfImage))
		le.PutUint32(o[60:], uint32(sizeOfHeaders))
		le.PutUint16(o[68:], uint16(ti.subsystem))
		le.PutUint16(o[70:], uint16(ti.dllChars))
		memory := []uint64{0x100000, 0x1000, 0x100000, 0x1000}
		for i, v := range memory {
			off := 72 + i*w
			if w == 8 {
				le.PutUint64(o[off:], v)
			} else {
				le.PutUint32(o[off:], uint32(v))
			}
		}
		le.PutUint32(o[76+4*w:], ti.numRVA)
		dirs := o[80+4*w:]
		for i, d := range ti.dirs {
			le.PutUint32(dirs[i*8:], d.VirtualAddress)
			le.PutUint32(dirs[i*8+4:], d.Size)
		}
	}

	st := c[24+ti.optionalSize():]
	for i, s := range ti.sections {
		h := st[i*40:]
		copy(h[:8], s.name)
		le.PutUint32(h[8:], s.virtualSize)
		le.PutUint32(h[12:], s.virtualAddress)
		le.PutUint32(h[16:], uint32(alignUp(len(s.data), testFileAlignment)))
		le.PutUint32(h[20:], uint32(rawOffsets[i]))
		le.PutUint32(h[36:], uint32(s.characteristics))
		copy(buf[rawOffsets[i]:], s.data)
	}

	return buf
}

// sectionTableOffset returns the file offset of the first section header.
func (ti *testImage) sectionTableOffset() int {
	return int(ti.lfanew) + 24 + ti.optionalSize()
}
