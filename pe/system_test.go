// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package pe

import (
	"os"
	"testing"
)

func TestSystemBinary(t *testing.T) {
	buf, err := os.ReadFile(systemBinaryFileName)
	if err != nil {
		t.Fatalf("reading %q: %v", systemBinaryFileName, err)
	}

	img, err := Decode(buf)
	if err == nil {
		t.Logf("Machine: %v, Magic: %v", img.COFF().Machine, img.Magic())
		for i, s := range img.Sections() {
			t.Logf("%02d: %q F: 0x%08X, FS: 0x%08X, V: 0x%08X, VS: 0x%08X", i, s.NameString(), s.PointerToRawData, s.SizeOfRawData, s.VirtualAddress, s.VirtualSize)
		}
		for _, w := range img.Warnings() {
			t.Logf("warning: %v", w)
		}
	}

	testSystemBinaryResult(t, img, err)
}
