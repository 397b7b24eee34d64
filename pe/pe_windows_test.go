// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package pe

import (
	"reflect"
	"testing"
	"unsafe"

	"golang.org/x/sys/windows"
)

// kernel32 is always implicitly loaded.
const systemBinaryFileName = `C:\Windows\System32\kernel32.dll`

func testSystemBinaryResult(t *testing.T, img *Image, err error) {
	if err != nil {
		t.Fatalf("Decode(%q) error %v", systemBinaryFileName, err)
	}
	testAgainstLoadedModule(t, systemBinaryFileName, img)
}

// testAgainstLoadedModule decodes the headers of the in-memory copy of
// fname that the loader mapped into our process and compares them with img,
// which was decoded from the file on disk.
func testAgainstLoadedModule(t *testing.T, fname string, img *Image) {
	fname16, err := windows.UTF16PtrFromString(fname)
	if err != nil {
		t.Fatalf("converting %q to UTF-16: %v", fname, err)
	}

	var hmod windows.Handle
	if err := windows.GetModuleHandleEx(
		windows.GET_MODULE_HANDLE_EX_FLAG_UNCHANGED_REFCOUNT,
		fname16,
		&hmod,
	); err != nil {
		t.Fatalf("loading %q: %v", fname, err)
	}

	var modinfo windows.ModuleInfo
	if err := windows.GetModuleInformation(
		windows.CurrentProcess(),
		hmod,
		&modinfo,
		uint32(unsafe.Sizeof(modinfo)),
	); err != nil {
		t.Fatalf("GetModuleInformation: %v", err)
	}

	mem := unsafe.Slice((*byte)(unsafe.Pointer(modinfo.BaseOfDll)), modinfo.SizeOfImage)
	loaded, err := Decode(mem)
	if err != nil {
		t.Fatalf("Decode of loaded module: %v", err)
	}

	if !reflect.DeepEqual(img.COFF(), loaded.COFF()) {
		t.Errorf("COFF headers differ:\n%+v\nvs\n%+v", img.COFF(), loaded.COFF())
	}

	// The loader rewrites ImageBase when it relocates the module.
	if got := loaded.Optional().ImageBaseAddress(); got != uint64(modinfo.BaseOfDll) {
		t.Errorf("loaded ImageBase got 0x%X, want 0x%X", got, modinfo.BaseOfDll)
	}
	if got := img.Optional().Windows().SizeOfImage; got != modinfo.SizeOfImage {
		t.Errorf("SizeOfImage got 0x%X, want 0x%X", got, modinfo.SizeOfImage)
	}
	if !reflect.DeepEqual(img.Optional().Standard(), loaded.Optional().Standard()) {
		t.Errorf("standard fields differ")
	}

	fileSections, memSections := img.Sections(), loaded.Sections()
	if len(fileSections) != len(memSections) {
		t.Fatalf("section counts differ: %d vs %d", len(fileSections), len(memSections))
	}
	for i := range fileSections {
		fs, ms := &fileSections[i], &memSections[i]
		if fs.Name != ms.Name || fs.VirtualAddress != ms.VirtualAddress || fs.Characteristics != ms.Characteristics {
			t.Errorf("section %d differs: %q vs %q", i, fs.NameString(), ms.NameString())
		}
	}
}
