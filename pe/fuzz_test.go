// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package pe

import (
	"encoding/binary"
	"math/rand"
	"testing"
)

// wellFormed reports whether buf has a valid header chain, computed directly
// from the byte layout.
func wellFormed(buf []byte) bool {
	n := uint64(len(buf))
	if n < 64 || buf[0] != 'M' || buf[1] != 'Z' {
		return false
	}
	lfanew := uint64(binary.LittleEndian.Uint32(buf[60:]))
	if lfanew+24 > n || string(buf[lfanew:lfanew+4]) != "PE\x00\x00" {
		return false
	}
	numSections := uint64(binary.LittleEndian.Uint16(buf[lfanew+6:]))
	optSize := binary.LittleEndian.Uint16(buf[lfanew+20:])

	next := lfanew + 24
	if optSize > 0 {
		if next+2 > n {
			return false
		}
		switch binary.LittleEndian.Uint16(buf[next:]) {
		case 0x10b:
			next += 224
		case 0x20b:
			next += 240
		default:
			return false
		}
		if next > n {
			return false
		}
	}

	return next+numSections*40 <= n
}

func checkDecodeIffWellFormed(t *testing.T, buf []byte) {
	t.Helper()
	img, err := Decode(buf)
	if want := wellFormed(buf); (err == nil) != want {
		t.Fatalf("Decode error %v, want success=%v", err, want)
	}
	if err != nil {
		if img != nil {
			t.Fatalf("Decode returned an image alongside error %v", err)
		}
		return
	}
	// Accessors must never panic on a decoded image.
	for _, s := range img.Sections() {
		s.Data()
		img.RVAToOffset(s.VirtualAddress)
	}
	for e := DirectoryEntry(0); e < numDataDirectories; e++ {
		img.DataDirectoryEntry(e)
	}
}

type mutationTestCase struct {
	name string
	// off is relative to e_lfanew when rel is set.
	off  int
	rel  bool
	val  []byte
	want bool
}

func TestDecodeMutations(t *testing.T) {
	testCases := []mutationTestCase{
		{"unchanged", 0, false, nil, true},
		{"dos magic", 0, false, []byte("ZM"), false},
		{"lfanew past end", 60, false, []byte{0xFF, 0xFF, 0xFF, 0x7F}, false},
		{"lfanew wraps", 60, false, []byte{0xFF, 0xFF, 0xFF, 0xFF}, false},
		{"pe signature", 0, true, []byte("PE\x00\x01"), false},
		{"optional magic rom", 24, true, []byte{0x07, 0x01}, false},
		{"optional magic zero", 24, true, []byte{0x00, 0x00}, false},
		{"no optional header", 20, true, []byte{0x00, 0x00}, true},
		{"section count max", 6, true, []byte{0xFF, 0xFF}, false},
		{"section count zero", 6, true, []byte{0x00, 0x00}, true},
		{"optional size mismatch", 20, true, []byte{0x10, 0x00}, true},
		{"directories huge", 24 + 108, true, []byte{0xFF, 0xFF, 0xFF, 0xFF}, true},
		{"unknown machine", 4, true, []byte{0x34, 0x12}, true},
	}

	for _, c := range testCases {
		t.Run(c.name, func(t *testing.T) {
			ti := newTestImage(IMAGE_NT_OPTIONAL_HDR64_MAGIC)
			buf := ti.build()
			off := c.off
			if c.rel {
				off += int(ti.lfanew)
			}
			copy(buf[off:], c.val)

			if got := wellFormed(buf); got != c.want {
				t.Fatalf("wellFormed got %v, want %v", got, c.want)
			}
			checkDecodeIffWellFormed(t, buf)
		})
	}
}

// TestDecodeRandomCorruption flips random header bytes of valid images and
// checks that Decode succeeds exactly when the header chain is well formed.
func TestDecodeRandomCorruption(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, magic := range []OptionalMagic{0, IMAGE_NT_OPTIONAL_HDR32_MAGIC, IMAGE_NT_OPTIONAL_HDR64_MAGIC} {
		ti := newTestImage(magic)
		if magic == 0 {
			ti.sections = nil
		}
		orig := ti.build()
		hdrEnd := ti.headersEnd()

		for i := 0; i < 2000; i++ {
			buf := append([]byte(nil), orig...)
			for j := rng.Intn(4) + 1; j > 0; j-- {
				buf[rng.Intn(hdrEnd)] = byte(rng.Intn(256))
			}
			if rng.Intn(4) == 0 {
				buf = buf[:rng.Intn(len(buf)+1)]
			}
			checkDecodeIffWellFormed(t, buf)
		}
	}
}

func FuzzDecode(f *testing.F) {
	f.Add(minimalImage())
	f.Add(newTestImage(IMAGE_NT_OPTIONAL_HDR32_MAGIC).build())
	f.Add(newTestImage(IMAGE_NT_OPTIONAL_HDR64_MAGIC).build())

	f.Fuzz(func(t *testing.T, buf []byte) {
		checkDecodeIffWellFormed(t, buf)
	})
}
