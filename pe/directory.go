// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package pe

//go:generate go run golang.org/x/tools/cmd/stringer -type=DirectoryEntry -trimprefix=IMAGE_DIRECTORY_ENTRY_

// DirectoryEntry indexes the data directory table of the optional header.
type DirectoryEntry int

const (
	IMAGE_DIRECTORY_ENTRY_EXPORT DirectoryEntry = iota
	IMAGE_DIRECTORY_ENTRY_IMPORT
	IMAGE_DIRECTORY_ENTRY_RESOURCE
	IMAGE_DIRECTORY_ENTRY_EXCEPTION
	IMAGE_DIRECTORY_ENTRY_SECURITY
	IMAGE_DIRECTORY_ENTRY_BASERELOC
	IMAGE_DIRECTORY_ENTRY_DEBUG
	IMAGE_DIRECTORY_ENTRY_ARCHITECTURE
	IMAGE_DIRECTORY_ENTRY_GLOBALPTR
	IMAGE_DIRECTORY_ENTRY_TLS
	IMAGE_DIRECTORY_ENTRY_LOAD_CONFIG
	IMAGE_DIRECTORY_ENTRY_BOUND_IMPORT
	IMAGE_DIRECTORY_ENTRY_IAT
	IMAGE_DIRECTORY_ENTRY_DELAY_IMPORT
	IMAGE_DIRECTORY_ENTRY_COM_DESCRIPTOR
	IMAGE_DIRECTORY_ENTRY_RESERVED
)

const (
	numDataDirectories = 16
	sizeDataDirectory  = 8
)

// DataDirectory locates a well-known table within the image. For
// IMAGE_DIRECTORY_ENTRY_SECURITY, VirtualAddress is a file offset.
type DataDirectory struct {
	VirtualAddress uint32
	Size           uint32
}

// IsZero reports whether both fields of d are zero.
func (d DataDirectory) IsZero() bool {
	return d.VirtualAddress == 0 && d.Size == 0
}

// DataDirectories is the 16-slot data directory table. Only the first Len()
// slots are valid; the remaining slots are zero and reported as absent.
type DataDirectories struct {
	entries [numDataDirectories]DataDirectory
	valid   int
}

// Len returns the number of valid slots, which is NumberOfRvaAndSizes clamped
// to 16.
func (dd DataDirectories) Len() int {
	return dd.valid
}

// Lookup returns the directory at idx and whether idx is a valid slot.
func (dd DataDirectories) Lookup(idx DirectoryEntry) (DataDirectory, bool) {
	if idx < 0 || int(idx) >= dd.valid {
		return DataDirectory{}, false
	}
	return dd.entries[idx], true
}

// Present returns the valid slots whose directory is non-zero.
func (dd DataDirectories) Present() []DirectoryEntry {
	var result []DirectoryEntry
	for i := 0; i < dd.valid; i++ {
		if !dd.entries[i].IsZero() {
			result = append(result, DirectoryEntry(i))
		}
	}
	return result
}

// Slice returns a copy of the valid slots.
func (dd DataDirectories) Slice() []DataDirectory {
	return append([]DataDirectory(nil), dd.entries[:dd.valid]...)
}

func clampDirectoryCount(n uint32) int {
	if n > numDataDirectories {
		return numDataDirectories
	}
	return int(n)
}

func decodeDataDirectories(r reader, off int64, declared uint32) (DataDirectories, error) {
	dd := DataDirectories{valid: clampDirectoryCount(declared)}
	// The table is physically present in full even when fewer slots are valid.
	if err := r.check(off, numDataDirectories*sizeDataDirectory); err != nil {
		return DataDirectories{}, err
	}

	fr := fieldReader{r: r, base: off}
	for i := 0; i < dd.valid; i++ {
		dd.entries[i] = DataDirectory{
			VirtualAddress: fr.u32(i * sizeDataDirectory),
			Size:           fr.u32(i*sizeDataDirectory + 4),
		}
	}
	return dd, fr.err
}
