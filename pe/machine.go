// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package pe

import (
	"fmt"
)

// Machine is the target architecture recorded in the COFF header. Values that
// are not among the IMAGE_FILE_MACHINE_* constants are preserved as-is.
type Machine uint16

const (
	IMAGE_FILE_MACHINE_UNKNOWN     Machine = 0x0
	IMAGE_FILE_MACHINE_ALPHA       Machine = 0x184
	IMAGE_FILE_MACHINE_ALPHA64     Machine = 0x284
	IMAGE_FILE_MACHINE_AM33        Machine = 0x1d3
	IMAGE_FILE_MACHINE_AMD64       Machine = 0x8664
	IMAGE_FILE_MACHINE_ARM         Machine = 0x1c0
	IMAGE_FILE_MACHINE_ARM64       Machine = 0xaa64
	IMAGE_FILE_MACHINE_ARMNT       Machine = 0x1c4
	IMAGE_FILE_MACHINE_EBC         Machine = 0xebc
	IMAGE_FILE_MACHINE_I386        Machine = 0x14c
	IMAGE_FILE_MACHINE_IA64        Machine = 0x200
	IMAGE_FILE_MACHINE_LOONGARCH32 Machine = 0x6232
	IMAGE_FILE_MACHINE_LOONGARCH64 Machine = 0x6264
	IMAGE_FILE_MACHINE_M32R        Machine = 0x9041
	IMAGE_FILE_MACHINE_MIPS16      Machine = 0x266
	IMAGE_FILE_MACHINE_MIPSFPU     Machine = 0x366
	IMAGE_FILE_MACHINE_MIPSFPU16   Machine = 0x466
	IMAGE_FILE_MACHINE_POWERPC     Machine = 0x1f0
	IMAGE_FILE_MACHINE_POWERPCFP   Machine = 0x1f1
	IMAGE_FILE_MACHINE_R4000       Machine = 0x166
	IMAGE_FILE_MACHINE_RISCV32     Machine = 0x5032
	IMAGE_FILE_MACHINE_RISCV64     Machine = 0x5064
	IMAGE_FILE_MACHINE_RISCV128    Machine = 0x5128
	IMAGE_FILE_MACHINE_SH3         Machine = 0x1a2
	IMAGE_FILE_MACHINE_SH3DSP      Machine = 0x1a3
	IMAGE_FILE_MACHINE_SH4         Machine = 0x1a6
	IMAGE_FILE_MACHINE_SH5         Machine = 0x1a8
	IMAGE_FILE_MACHINE_THUMB       Machine = 0x1c2
	IMAGE_FILE_MACHINE_WCEMIPSV2   Machine = 0x169
)

var machineNames = map[Machine]string{
	IMAGE_FILE_MACHINE_UNKNOWN:     "Unknown",
	IMAGE_FILE_MACHINE_ALPHA:       "Alpha",
	IMAGE_FILE_MACHINE_ALPHA64:     "Alpha64",
	IMAGE_FILE_MACHINE_AM33:        "AM33",
	IMAGE_FILE_MACHINE_AMD64:       "AMD64",
	IMAGE_FILE_MACHINE_ARM:         "ARM",
	IMAGE_FILE_MACHINE_ARM64:       "ARM64",
	IMAGE_FILE_MACHINE_ARMNT:       "ARMNT",
	IMAGE_FILE_MACHINE_EBC:         "EBC",
	IMAGE_FILE_MACHINE_I386:        "I386",
	IMAGE_FILE_MACHINE_IA64:        "IA64",
	IMAGE_FILE_MACHINE_LOONGARCH32: "LoongArch32",
	IMAGE_FILE_MACHINE_LOONGARCH64: "LoongArch64",
	IMAGE_FILE_MACHINE_M32R:        "M32R",
	IMAGE_FILE_MACHINE_MIPS16:      "MIPS16",
	IMAGE_FILE_MACHINE_MIPSFPU:     "MIPSFPU",
	IMAGE_FILE_MACHINE_MIPSFPU16:   "MIPSFPU16",
	IMAGE_FILE_MACHINE_POWERPC:     "PowerPC",
	IMAGE_FILE_MACHINE_POWERPCFP:   "PowerPCFP",
	IMAGE_FILE_MACHINE_R4000:       "R4000",
	IMAGE_FILE_MACHINE_RISCV32:     "RISCV32",
	IMAGE_FILE_MACHINE_RISCV64:     "RISCV64",
	IMAGE_FILE_MACHINE_RISCV128:    "RISCV128",
	IMAGE_FILE_MACHINE_SH3:         "SH3",
	IMAGE_FILE_MACHINE_SH3DSP:      "SH3DSP",
	IMAGE_FILE_MACHINE_SH4:         "SH4",
	IMAGE_FILE_MACHINE_SH5:         "SH5",
	IMAGE_FILE_MACHINE_THUMB:       "Thumb",
	IMAGE_FILE_MACHINE_WCEMIPSV2:   "WCEMIPSV2",
}

// Known reports whether m is one of the IMAGE_FILE_MACHINE_* constants.
func (m Machine) Known() bool {
	_, ok := machineNames[m]
	return ok
}

func (m Machine) String() string {
	if name, ok := machineNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Machine(0x%04X)", uint16(m))
}
