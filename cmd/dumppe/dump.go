// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dblohm7/pecoff/pe"
)

func runDumpHeaders(img *pe.Image) {
	coff := img.COFF()
	fmt.Printf("FileHeader:\n\n")
	fmt.Printf("  Machine:              %v (0x%04X)\n", coff.Machine, uint16(coff.Machine))
	fmt.Printf("  NumberOfSections:     %d\n", coff.NumberOfSections)
	fmt.Printf("  TimeDateStamp:        0x%08X (%v)\n", coff.TimeDateStamp, coff.Time())
	fmt.Printf("  PointerToSymbolTable: 0x%08X\n", coff.PointerToSymbolTable)
	fmt.Printf("  NumberOfSymbols:      %d\n", coff.NumberOfSymbols)
	fmt.Printf("  SizeOfOptionalHeader: %d\n", coff.SizeOfOptionalHeader)
	fmt.Printf("  Characteristics:      %v\n\n", coff.Characteristics)

	oh := img.Optional()
	if oh == nil {
		fmt.Printf("No optional header\n\n")
		return
	}

	std, win, mem := oh.Standard(), oh.Windows(), oh.Memory()
	fmt.Printf("OptionalHeader (%v):\n\n", oh.Magic())
	fmt.Printf("  LinkerVersion:        %d.%d\n", std.MajorLinkerVersion, std.MinorLinkerVersion)
	fmt.Printf("  SizeOfCode:           0x%X\n", std.SizeOfCode)
	fmt.Printf("  AddressOfEntryPoint:  0x%08X\n", std.AddressOfEntryPoint)
	fmt.Printf("  BaseOfCode:           0x%08X\n", std.BaseOfCode)
	if base, ok := oh.BaseOfDataAddress(); ok {
		fmt.Printf("  BaseOfData:           0x%08X\n", base)
	}
	fmt.Printf("  ImageBase:            0x%X\n", oh.ImageBaseAddress())
	fmt.Printf("  SectionAlignment:     0x%X\n", win.SectionAlignment)
	fmt.Printf("  FileAlignment:        0x%X\n", win.FileAlignment)
	fmt.Printf("  OperatingSystem:      %d.%d\n", win.OperatingSystemVersion.Major, win.OperatingSystemVersion.Minor)
	fmt.Printf("  SubsystemVersion:     %d.%d\n", win.SubsystemVersion.Major, win.SubsystemVersion.Minor)
	fmt.Printf("  SizeOfImage:          0x%X\n", win.SizeOfImage)
	fmt.Printf("  SizeOfHeaders:        0x%X\n", win.SizeOfHeaders)
	fmt.Printf("  CheckSum:             0x%08X\n", win.CheckSum)
	fmt.Printf("  Subsystem:            %v\n", win.Subsystem)
	fmt.Printf("  DllCharacteristics:   %v\n", win.DllCharacteristics)
	fmt.Printf("  StackReserve/Commit:  0x%X/0x%X\n", mem.SizeOfStackReserve, mem.SizeOfStackCommit)
	fmt.Printf("  HeapReserve/Commit:   0x%X/0x%X\n", mem.SizeOfHeapReserve, mem.SizeOfHeapCommit)
	fmt.Printf("  NumberOfRvaAndSizes:  %d\n\n", win.NumberOfRvaAndSizes)
}

func runDumpSections(img *pe.Image) {
	sections := img.Sections()
	fmt.Printf("%d sections:\n\n", len(sections))

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Index\tName\tVirtAddr\tVirtSize\tRawPtr\tRawSize\tPerm\tCharacteristics")
	for i, s := range sections {
		fmt.Fprintf(tw, "%2d\t%s\t0x%08X\t0x%08X\t0x%08X\t0x%08X\t%s\t%v\n",
			i, s.NameString(), s.VirtualAddress, s.VirtualSize, s.PointerToRawData, s.SizeOfRawData, s.Permissions(), s.Characteristics)
	}
	tw.Flush()
	fmt.Println()
}

func runDumpDirectories(img *pe.Image) {
	oh := img.Optional()
	if oh == nil {
		fmt.Printf("No data directories\n\n")
		return
	}

	dd := oh.Directories()
	fmt.Printf("%d data directories:\n\n", dd.Len())

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Entry\tAddress\tSize\tFileOffset")
	for _, e := range dd.Present() {
		d, err := img.DataDirectoryEntry(e)
		if err != nil {
			continue
		}
		foff := "-"
		// The security directory holds a file offset rather than an RVA.
		if e == pe.IMAGE_DIRECTORY_ENTRY_SECURITY {
			foff = fmt.Sprintf("0x%08X", d.VirtualAddress)
		} else if off, ok := img.RVAToOffset(d.VirtualAddress); ok {
			foff = fmt.Sprintf("0x%08X", off)
		}
		fmt.Fprintf(tw, "%v\t0x%08X\t0x%X\t%s\n", e, d.VirtualAddress, d.Size, foff)
	}
	tw.Flush()
	fmt.Println()
}
