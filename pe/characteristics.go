// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package pe

import (
	"fmt"

	"github.com/dblohm7/pecoff/flagset"
)

// Characteristics are the attribute flags of the COFF header.
type Characteristics uint16

const (
	IMAGE_FILE_RELOCS_STRIPPED         Characteristics = 0x0001
	IMAGE_FILE_EXECUTABLE_IMAGE        Characteristics = 0x0002
	IMAGE_FILE_LINE_NUMS_STRIPPED      Characteristics = 0x0004
	IMAGE_FILE_LOCAL_SYMS_STRIPPED     Characteristics = 0x0008
	IMAGE_FILE_AGGRESIVE_WS_TRIM       Characteristics = 0x0010
	IMAGE_FILE_LARGE_ADDRESS_AWARE     Characteristics = 0x0020
	IMAGE_FILE_BYTES_REVERSED_LO       Characteristics = 0x0080
	IMAGE_FILE_32BIT_MACHINE           Characteristics = 0x0100
	IMAGE_FILE_DEBUG_STRIPPED          Characteristics = 0x0200
	IMAGE_FILE_REMOVABLE_RUN_FROM_SWAP Characteristics = 0x0400
	IMAGE_FILE_NET_RUN_FROM_SWAP       Characteristics = 0x0800
	IMAGE_FILE_SYSTEM                  Characteristics = 0x1000
	IMAGE_FILE_DLL                     Characteristics = 0x2000
	IMAGE_FILE_UP_SYSTEM_ONLY          Characteristics = 0x4000
	IMAGE_FILE_BYTES_REVERSED_HI       Characteristics = 0x8000
)

var characteristicsDeclared = []Characteristics{
	IMAGE_FILE_RELOCS_STRIPPED,
	IMAGE_FILE_EXECUTABLE_IMAGE,
	IMAGE_FILE_LINE_NUMS_STRIPPED,
	IMAGE_FILE_LOCAL_SYMS_STRIPPED,
	IMAGE_FILE_AGGRESIVE_WS_TRIM,
	IMAGE_FILE_LARGE_ADDRESS_AWARE,
	IMAGE_FILE_BYTES_REVERSED_LO,
	IMAGE_FILE_32BIT_MACHINE,
	IMAGE_FILE_DEBUG_STRIPPED,
	IMAGE_FILE_REMOVABLE_RUN_FROM_SWAP,
	IMAGE_FILE_NET_RUN_FROM_SWAP,
	IMAGE_FILE_SYSTEM,
	IMAGE_FILE_DLL,
	IMAGE_FILE_UP_SYSTEM_ONLY,
	IMAGE_FILE_BYTES_REVERSED_HI,
}

var characteristicsNames = map[Characteristics]string{
	IMAGE_FILE_RELOCS_STRIPPED:         "RelocsStripped",
	IMAGE_FILE_EXECUTABLE_IMAGE:        "ExecutableImage",
	IMAGE_FILE_LINE_NUMS_STRIPPED:      "LineNumsStripped",
	IMAGE_FILE_LOCAL_SYMS_STRIPPED:     "LocalSymsStripped",
	IMAGE_FILE_AGGRESIVE_WS_TRIM:       "AggressiveWSTrim",
	IMAGE_FILE_LARGE_ADDRESS_AWARE:     "LargeAddressAware",
	IMAGE_FILE_BYTES_REVERSED_LO:       "BytesReversedLo",
	IMAGE_FILE_32BIT_MACHINE:           "32BitMachine",
	IMAGE_FILE_DEBUG_STRIPPED:          "DebugStripped",
	IMAGE_FILE_REMOVABLE_RUN_FROM_SWAP: "RemovableRunFromSwap",
	IMAGE_FILE_NET_RUN_FROM_SWAP:       "NetRunFromSwap",
	IMAGE_FILE_SYSTEM:                  "System",
	IMAGE_FILE_DLL:                     "DLL",
	IMAGE_FILE_UP_SYSTEM_ONLY:          "UPSystemOnly",
	IMAGE_FILE_BYTES_REVERSED_HI:       "BytesReversedHi",
}

func (c Characteristics) Value() uint16 { return uint16(c) }

func (Characteristics) Declared() []Characteristics { return characteristicsDeclared }

func (c Characteristics) String() string {
	if name, ok := characteristicsNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Characteristics(0x%04X)", uint16(c))
}

// CharacteristicsSet is the flag set stored in COFFHeader.Characteristics.
type CharacteristicsSet = flagset.Set[Characteristics, uint16]

// DllCharacteristics are the loader attribute flags of the optional header.
type DllCharacteristics uint16

const (
	IMAGE_DLLCHARACTERISTICS_HIGH_ENTROPY_VA       DllCharacteristics = 0x0020
	IMAGE_DLLCHARACTERISTICS_DYNAMIC_BASE          DllCharacteristics = 0x0040
	IMAGE_DLLCHARACTERISTICS_FORCE_INTEGRITY       DllCharacteristics = 0x0080
	IMAGE_DLLCHARACTERISTICS_NX_COMPAT             DllCharacteristics = 0x0100
	IMAGE_DLLCHARACTERISTICS_NO_ISOLATION          DllCharacteristics = 0x0200
	IMAGE_DLLCHARACTERISTICS_NO_SEH                DllCharacteristics = 0x0400
	IMAGE_DLLCHARACTERISTICS_NO_BIND               DllCharacteristics = 0x0800
	IMAGE_DLLCHARACTERISTICS_APPCONTAINER          DllCharacteristics = 0x1000
	IMAGE_DLLCHARACTERISTICS_WDM_DRIVER            DllCharacteristics = 0x2000
	IMAGE_DLLCHARACTERISTICS_GUARD_CF              DllCharacteristics = 0x4000
	IMAGE_DLLCHARACTERISTICS_TERMINAL_SERVER_AWARE DllCharacteristics = 0x8000
)

var dllCharacteristicsDeclared = []DllCharacteristics{
	IMAGE_DLLCHARACTERISTICS_HIGH_ENTROPY_VA,
	IMAGE_DLLCHARACTERISTICS_DYNAMIC_BASE,
	IMAGE_DLLCHARACTERISTICS_FORCE_INTEGRITY,
	IMAGE_DLLCHARACTERISTICS_NX_COMPAT,
	IMAGE_DLLCHARACTERISTICS_NO_ISOLATION,
	IMAGE_DLLCHARACTERISTICS_NO_SEH,
	IMAGE_DLLCHARACTERISTICS_NO_BIND,
	IMAGE_DLLCHARACTERISTICS_APPCONTAINER,
	IMAGE_DLLCHARACTERISTICS_WDM_DRIVER,
	IMAGE_DLLCHARACTERISTICS_GUARD_CF,
	IMAGE_DLLCHARACTERISTICS_TERMINAL_SERVER_AWARE,
}

var dllCharacteristicsNames = map[DllCharacteristics]string{
	IMAGE_DLLCHARACTERISTICS_HIGH_ENTROPY_VA:       "HighEntropyVA",
	IMAGE_DLLCHARACTERISTICS_DYNAMIC_BASE:          "DynamicBase",
	IMAGE_DLLCHARACTERISTICS_FORCE_INTEGRITY:       "ForceIntegrity",
	IMAGE_DLLCHARACTERISTICS_NX_COMPAT:             "NXCompat",
	IMAGE_DLLCHARACTERISTICS_NO_ISOLATION:          "NoIsolation",
	IMAGE_DLLCHARACTERISTICS_NO_SEH:                "NoSEH",
	IMAGE_DLLCHARACTERISTICS_NO_BIND:               "NoBind",
	IMAGE_DLLCHARACTERISTICS_APPCONTAINER:          "AppContainer",
	IMAGE_DLLCHARACTERISTICS_WDM_DRIVER:            "WDMDriver",
	IMAGE_DLLCHARACTERISTICS_GUARD_CF:              "GuardCF",
	IMAGE_DLLCHARACTERISTICS_TERMINAL_SERVER_AWARE: "TerminalServerAware",
}

func (c DllCharacteristics) Value() uint16 { return uint16(c) }

func (DllCharacteristics) Declared() []DllCharacteristics { return dllCharacteristicsDeclared }

func (c DllCharacteristics) String() string {
	if name, ok := dllCharacteristicsNames[c]; ok {
		return name
	}
	return fmt.Sprintf("DllCharacteristics(0x%04X)", uint16(c))
}

// DllCharacteristicsSet is the flag set stored in WindowsFields.DllCharacteristics.
type DllCharacteristicsSet = flagset.Set[DllCharacteristics, uint16]

// SectionCharacteristics are the attribute flags of a section header. The
// IMAGE_SCN_ALIGN_* values are not single bits; they are the possible values
// of the 4-bit field selected by IMAGE_SCN_ALIGN_MASK.
type SectionCharacteristics uint32

const (
	IMAGE_SCN_TYPE_NO_PAD            SectionCharacteristics = 0x00000008
	IMAGE_SCN_CNT_CODE               SectionCharacteristics = 0x00000020
	IMAGE_SCN_CNT_INITIALIZED_DATA   SectionCharacteristics = 0x00000040
	IMAGE_SCN_CNT_UNINITIALIZED_DATA SectionCharacteristics = 0x00000080
	IMAGE_SCN_LNK_INFO               SectionCharacteristics = 0x00000200
	IMAGE_SCN_LNK_REMOVE             SectionCharacteristics = 0x00000800
	IMAGE_SCN_LNK_COMDAT             SectionCharacteristics = 0x00001000
	IMAGE_SCN_GPREL                  SectionCharacteristics = 0x00008000
	IMAGE_SCN_ALIGN_1BYTES           SectionCharacteristics = 0x00100000
	IMAGE_SCN_ALIGN_2BYTES           SectionCharacteristics = 0x00200000
	IMAGE_SCN_ALIGN_4BYTES           SectionCharacteristics = 0x00300000
	IMAGE_SCN_ALIGN_8BYTES           SectionCharacteristics = 0x00400000
	IMAGE_SCN_ALIGN_16BYTES          SectionCharacteristics = 0x00500000
	IMAGE_SCN_ALIGN_32BYTES          SectionCharacteristics = 0x00600000
	IMAGE_SCN_ALIGN_64BYTES          SectionCharacteristics = 0x00700000
	IMAGE_SCN_ALIGN_128BYTES         SectionCharacteristics = 0x00800000
	IMAGE_SCN_ALIGN_256BYTES         SectionCharacteristics = 0x00900000
	IMAGE_SCN_ALIGN_512BYTES         SectionCharacteristics = 0x00A00000
	IMAGE_SCN_ALIGN_1024BYTES        SectionCharacteristics = 0x00B00000
	IMAGE_SCN_ALIGN_2048BYTES        SectionCharacteristics = 0x00C00000
	IMAGE_SCN_ALIGN_4096BYTES        SectionCharacteristics = 0x00D00000
	IMAGE_SCN_ALIGN_8192BYTES        SectionCharacteristics = 0x00E00000
	IMAGE_SCN_LNK_NRELOC_OVFL        SectionCharacteristics = 0x01000000
	IMAGE_SCN_MEM_DISCARDABLE        SectionCharacteristics = 0x02000000
	IMAGE_SCN_MEM_NOT_CACHED         SectionCharacteristics = 0x04000000
	IMAGE_SCN_MEM_NOT_PAGED          SectionCharacteristics = 0x08000000
	IMAGE_SCN_MEM_SHARED             SectionCharacteristics = 0x10000000
	IMAGE_SCN_MEM_EXECUTE            SectionCharacteristics = 0x20000000
	IMAGE_SCN_MEM_READ               SectionCharacteristics = 0x40000000
	IMAGE_SCN_MEM_WRITE              SectionCharacteristics = 0x80000000

	IMAGE_SCN_ALIGN_MASK SectionCharacteristics = 0x00F00000
)

var sectionCharacteristicsDeclared = []SectionCharacteristics{
	IMAGE_SCN_TYPE_NO_PAD,
	IMAGE_SCN_CNT_CODE,
	IMAGE_SCN_CNT_INITIALIZED_DATA,
	IMAGE_SCN_CNT_UNINITIALIZED_DATA,
	IMAGE_SCN_LNK_INFO,
	IMAGE_SCN_LNK_REMOVE,
	IMAGE_SCN_LNK_COMDAT,
	IMAGE_SCN_GPREL,
	IMAGE_SCN_ALIGN_1BYTES,
	IMAGE_SCN_ALIGN_2BYTES,
	IMAGE_SCN_ALIGN_4BYTES,
	IMAGE_SCN_ALIGN_8BYTES,
	IMAGE_SCN_ALIGN_16BYTES,
	IMAGE_SCN_ALIGN_32BYTES,
	IMAGE_SCN_ALIGN_64BYTES,
	IMAGE_SCN_ALIGN_128BYTES,
	IMAGE_SCN_ALIGN_256BYTES,
	IMAGE_SCN_ALIGN_512BYTES,
	IMAGE_SCN_ALIGN_1024BYTES,
	IMAGE_SCN_ALIGN_2048BYTES,
	IMAGE_SCN_ALIGN_4096BYTES,
	IMAGE_SCN_ALIGN_8192BYTES,
	IMAGE_SCN_LNK_NRELOC_OVFL,
	IMAGE_SCN_MEM_DISCARDABLE,
	IMAGE_SCN_MEM_NOT_CACHED,
	IMAGE_SCN_MEM_NOT_PAGED,
	IMAGE_SCN_MEM_SHARED,
	IMAGE_SCN_MEM_EXECUTE,
	IMAGE_SCN_MEM_READ,
	IMAGE_SCN_MEM_WRITE,
}

var sectionCharacteristicsNames = map[SectionCharacteristics]string{
	IMAGE_SCN_TYPE_NO_PAD:            "TypeNoPad",
	IMAGE_SCN_CNT_CODE:               "ContainsCode",
	IMAGE_SCN_CNT_INITIALIZED_DATA:   "ContainsInitializedData",
	IMAGE_SCN_CNT_UNINITIALIZED_DATA: "ContainsUninitializedData",
	IMAGE_SCN_LNK_INFO:               "Info",
	IMAGE_SCN_LNK_REMOVE:             "Remove",
	IMAGE_SCN_LNK_COMDAT:             "COMDAT",
	IMAGE_SCN_GPREL:                  "GPRelative",
	IMAGE_SCN_ALIGN_1BYTES:           "Align1Byte",
	IMAGE_SCN_ALIGN_2BYTES:           "Align2Bytes",
	IMAGE_SCN_ALIGN_4BYTES:           "Align4Bytes",
	IMAGE_SCN_ALIGN_8BYTES:           "Align8Bytes",
	IMAGE_SCN_ALIGN_16BYTES:          "Align16Bytes",
	IMAGE_SCN_ALIGN_32BYTES:          "Align32Bytes",
	IMAGE_SCN_ALIGN_64BYTES:          "Align64Bytes",
	IMAGE_SCN_ALIGN_128BYTES:         "Align128Bytes",
	IMAGE_SCN_ALIGN_256BYTES:         "Align256Bytes",
	IMAGE_SCN_ALIGN_512BYTES:         "Align512Bytes",
	IMAGE_SCN_ALIGN_1024BYTES:        "Align1024Bytes",
	IMAGE_SCN_ALIGN_2048BYTES:        "Align2048Bytes",
	IMAGE_SCN_ALIGN_4096BYTES:        "Align4096Bytes",
	IMAGE_SCN_ALIGN_8192BYTES:        "Align8192Bytes",
	IMAGE_SCN_LNK_NRELOC_OVFL:        "NRelocOverflow",
	IMAGE_SCN_MEM_DISCARDABLE:        "MemDiscardable",
	IMAGE_SCN_MEM_NOT_CACHED:         "MemNotCached",
	IMAGE_SCN_MEM_NOT_PAGED:          "MemNotPaged",
	IMAGE_SCN_MEM_SHARED:             "MemShared",
	IMAGE_SCN_MEM_EXECUTE:            "MemExecute",
	IMAGE_SCN_MEM_READ:               "MemRead",
	IMAGE_SCN_MEM_WRITE:              "MemWrite",
}

func (c SectionCharacteristics) Value() uint32 { return uint32(c) }

func (SectionCharacteristics) Declared() []SectionCharacteristics {
	return sectionCharacteristicsDeclared
}

// Mask returns IMAGE_SCN_ALIGN_MASK for the alignment values and c itself
// for every other flag.
func (c SectionCharacteristics) Mask() uint32 {
	if c&IMAGE_SCN_ALIGN_MASK != 0 {
		return uint32(IMAGE_SCN_ALIGN_MASK)
	}
	return uint32(c)
}

func (c SectionCharacteristics) String() string {
	if name, ok := sectionCharacteristicsNames[c]; ok {
		return name
	}
	return fmt.Sprintf("SectionCharacteristics(0x%08X)", uint32(c))
}

// SectionCharacteristicsSet is the flag set stored in Section.Characteristics.
type SectionCharacteristicsSet = flagset.Set[SectionCharacteristics, uint32]
