// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// mapFile maps the file at path read-only. The returned function unmaps it.
func mapFile(path string) ([]byte, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	size := fi.Size()
	if size == 0 {
		return []byte{}, func() error { return nil }, nil
	}

	hmap, err := windows.CreateFileMapping(windows.Handle(f.Fd()), nil, windows.PAGE_READONLY, 0, 0, nil)
	if err != nil {
		return nil, nil, os.NewSyscallError("CreateFileMapping", err)
	}
	// The view keeps the mapping alive.
	defer windows.CloseHandle(hmap)

	addr, err := windows.MapViewOfFile(hmap, windows.FILE_MAP_READ, 0, 0, 0)
	if err != nil {
		return nil, nil, os.NewSyscallError("MapViewOfFile", err)
	}

	buf := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
	return buf, func() error { return windows.UnmapViewOfFile(addr) }, nil
}
