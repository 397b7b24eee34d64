// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package pe

import (
	"fmt"
)

// OptionalMagic distinguishes the optional header variants.
type OptionalMagic uint16

const (
	IMAGE_ROM_OPTIONAL_HDR_MAGIC  OptionalMagic = 0x107
	IMAGE_NT_OPTIONAL_HDR32_MAGIC OptionalMagic = 0x10b
	IMAGE_NT_OPTIONAL_HDR64_MAGIC OptionalMagic = 0x20b
)

func (m OptionalMagic) String() string {
	switch m {
	case 0:
		return "none"
	case IMAGE_ROM_OPTIONAL_HDR_MAGIC:
		return "ROM"
	case IMAGE_NT_OPTIONAL_HDR32_MAGIC:
		return "PE32"
	case IMAGE_NT_OPTIONAL_HDR64_MAGIC:
		return "PE32+"
	default:
		return fmt.Sprintf("OptionalMagic(0x%04X)", uint16(m))
	}
}

// Subsystem is the Windows subsystem required to run an image. Unrecognized
// values are preserved as-is.
type Subsystem uint16

const (
	IMAGE_SUBSYSTEM_UNKNOWN                  Subsystem = 0
	IMAGE_SUBSYSTEM_NATIVE                   Subsystem = 1
	IMAGE_SUBSYSTEM_WINDOWS_GUI              Subsystem = 2
	IMAGE_SUBSYSTEM_WINDOWS_CUI              Subsystem = 3
	IMAGE_SUBSYSTEM_OS2_CUI                  Subsystem = 5
	IMAGE_SUBSYSTEM_POSIX_CUI                Subsystem = 7
	IMAGE_SUBSYSTEM_NATIVE_WINDOWS           Subsystem = 8
	IMAGE_SUBSYSTEM_WINDOWS_CE_GUI           Subsystem = 9
	IMAGE_SUBSYSTEM_EFI_APPLICATION          Subsystem = 10
	IMAGE_SUBSYSTEM_EFI_BOOT_SERVICE_DRIVER  Subsystem = 11
	IMAGE_SUBSYSTEM_EFI_RUNTIME_DRIVER       Subsystem = 12
	IMAGE_SUBSYSTEM_EFI_ROM                  Subsystem = 13
	IMAGE_SUBSYSTEM_XBOX                     Subsystem = 14
	IMAGE_SUBSYSTEM_WINDOWS_BOOT_APPLICATION Subsystem = 16
)

var subsystemNames = map[Subsystem]string{
	IMAGE_SUBSYSTEM_UNKNOWN:                  "Unknown",
	IMAGE_SUBSYSTEM_NATIVE:                   "Native",
	IMAGE_SUBSYSTEM_WINDOWS_GUI:              "WindowsGUI",
	IMAGE_SUBSYSTEM_WINDOWS_CUI:              "WindowsCUI",
	IMAGE_SUBSYSTEM_OS2_CUI:                  "OS2CUI",
	IMAGE_SUBSYSTEM_POSIX_CUI:                "POSIXCUI",
	IMAGE_SUBSYSTEM_NATIVE_WINDOWS:           "NativeWindows",
	IMAGE_SUBSYSTEM_WINDOWS_CE_GUI:           "WindowsCEGUI",
	IMAGE_SUBSYSTEM_EFI_APPLICATION:          "EFIApplication",
	IMAGE_SUBSYSTEM_EFI_BOOT_SERVICE_DRIVER:  "EFIBootServiceDriver",
	IMAGE_SUBSYSTEM_EFI_RUNTIME_DRIVER:       "EFIRuntimeDriver",
	IMAGE_SUBSYSTEM_EFI_ROM:                  "EFIROM",
	IMAGE_SUBSYSTEM_XBOX:                     "XBOX",
	IMAGE_SUBSYSTEM_WINDOWS_BOOT_APPLICATION: "WindowsBootApplication",
}

// Known reports whether s is one of the IMAGE_SUBSYSTEM_* constants.
func (s Subsystem) Known() bool {
	_, ok := subsystemNames[s]
	return ok
}

func (s Subsystem) String() string {
	if name, ok := subsystemNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Subsystem(%d)", uint16(s))
}
