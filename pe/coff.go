// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package pe

import (
	"time"

	"github.com/dblohm7/pecoff/flagset"
)

const (
	offsetIMAGE_DOS_HEADERe_lfanew = 60
	sizeIMAGE_DOS_HEADER           = 64
	sizePESignature                = 4
	sizeIMAGE_FILE_HEADER          = 20
	sizeCOFFHeader                 = sizePESignature + sizeIMAGE_FILE_HEADER
)

// DOSHeader holds the two fields of the MS-DOS stub that locate the PE
// headers. The remainder of the stub is not examined.
type DOSHeader struct {
	Magic  uint16
	LFANew uint32
}

// COFFHeader is the PE signature and file header.
type COFFHeader struct {
	Machine              Machine
	NumberOfSections     uint16
	TimeDateStamp        uint32
	PointerToSymbolTable uint32
	NumberOfSymbols      uint32
	SizeOfOptionalHeader uint16
	Characteristics      CharacteristicsSet
}

// Time returns TimeDateStamp as a UTC time; the stored value is the number
// of seconds since 1970-01-01T00:00:00Z.
func (h *COFFHeader) Time() time.Time {
	return time.Unix(int64(h.TimeDateStamp), 0).UTC()
}

func decodeDOSHeader(r reader) (DOSHeader, error) {
	mz, err := r.bytes(0, 2)
	if err != nil {
		return DOSHeader{}, err
	}
	if mz[0] != 'M' || mz[1] != 'Z' {
		return DOSHeader{}, ErrInvalidDosMagic
	}

	e_lfanew, err := r.u32(offsetIMAGE_DOS_HEADERe_lfanew)
	if err != nil {
		return DOSHeader{}, err
	}
	// The whole COFF header must fit at e_lfanew before any of it is read.
	if err := r.check(int64(e_lfanew), sizeCOFFHeader); err != nil {
		return DOSHeader{}, err
	}

	return DOSHeader{Magic: 0x5A4D, LFANew: e_lfanew}, nil
}

// decodeCOFFHeader decodes the PE signature and file header at off and
// returns the offset immediately following them.
func decodeCOFFHeader(r reader, off int64) (COFFHeader, int64, error) {
	peMagic, err := r.bytes(off, sizePESignature)
	if err != nil {
		return COFFHeader{}, 0, err
	}
	if peMagic[0] != 'P' || peMagic[1] != 'E' || peMagic[2] != 0 || peMagic[3] != 0 {
		return COFFHeader{}, 0, ErrInvalidCoffMagic
	}

	fr := fieldReader{r: r, base: off}
	h := COFFHeader{
		Machine:              Machine(fr.u16(4)),
		NumberOfSections:     fr.u16(6),
		TimeDateStamp:        fr.u32(8),
		PointerToSymbolTable: fr.u32(12),
		NumberOfSymbols:      fr.u32(16),
		SizeOfOptionalHeader: fr.u16(20),
		Characteristics:      flagset.FromRaw[Characteristics](fr.u16(22)),
	}
	if fr.err != nil {
		return COFFHeader{}, 0, fr.err
	}

	return h, off + sizeCOFFHeader, nil
}
