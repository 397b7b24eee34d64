// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package pe

import (
	"bytes"
	"testing"

	"github.com/folbricht/pefile"
	"github.com/tc-hib/winres"
)

const testManifest = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<assembly xmlns="urn:schemas-microsoft-com:asm.v1" manifestVersion="1.0">
  <assemblyIdentity type="win32" name="pecoff.test" version="1.0.0.0"/>
</assembly>
`

// addResources returns src with a .rsrc section holding a manifest appended
// by winres.
func addResources(t *testing.T, src []byte) []byte {
	t.Helper()
	rs := &winres.ResourceSet{}
	if err := rs.Set(winres.RT_MANIFEST, winres.ID(1), winres.LCIDDefault, []byte(testManifest)); err != nil {
		t.Fatalf("ResourceSet.Set: %v", err)
	}

	var out bytes.Buffer
	if err := rs.WriteToEXE(&out, bytes.NewReader(src), winres.ForceCheckSum()); err != nil {
		t.Fatalf("WriteToEXE: %v", err)
	}
	return out.Bytes()
}

func TestResourceSection(t *testing.T) {
	for _, magic := range []OptionalMagic{IMAGE_NT_OPTIONAL_HDR32_MAGIC, IMAGE_NT_OPTIONAL_HDR64_MAGIC} {
		ti := newTestImage(magic)
		buf := addResources(t, ti.build())

		img, err := Decode(buf, WithStrict())
		if err != nil {
			t.Fatalf("%v: Decode error %v", magic, err)
		}

		if n := img.COFF().NumberOfSections; n != 3 {
			t.Errorf("%v: NumberOfSections got %d, want 3", magic, n)
		}
		rsrc, ok := img.Section(".rsrc")
		if !ok {
			t.Fatalf("%v: no .rsrc section", magic)
		}
		if got := rsrc.Permissions(); got != "r--" {
			t.Errorf("%v: .rsrc Permissions got %q, want %q", magic, got, "r--")
		}

		dde, err := img.DataDirectoryEntry(IMAGE_DIRECTORY_ENTRY_RESOURCE)
		if err != nil {
			t.Fatalf("%v: DataDirectoryEntry(RESOURCE) error %v", magic, err)
		}
		if dde.VirtualAddress != rsrc.VirtualAddress {
			t.Errorf("%v: RESOURCE directory at 0x%X, .rsrc at 0x%X", magic, dde.VirtualAddress, rsrc.VirtualAddress)
		}
		if img.Optional().Windows().CheckSum == 0 {
			t.Errorf("%v: CheckSum not set", magic)
		}

		data, err := rsrc.Data()
		if err != nil {
			t.Fatalf("%v: .rsrc Data error %v", magic, err)
		}
		if !bytes.Contains(data, []byte(testManifest)) {
			t.Errorf("%v: .rsrc data does not contain the manifest", magic)
		}

		off, ok := img.RVAToOffset(dde.VirtualAddress)
		if !ok || off != rsrc.PointerToRawData {
			t.Errorf("%v: RVAToOffset(0x%X) got 0x%X, %v; want 0x%X", magic, dde.VirtualAddress, off, ok, rsrc.PointerToRawData)
		}

		// The sections that were already present are unchanged.
		orig := mustDecode(t, ti.build())
		for i, s := range orig.Sections() {
			if got := img.Sections()[i]; got.Name != s.Name || got.VirtualAddress != s.VirtualAddress {
				t.Errorf("%v: section %d moved: %q at 0x%X", magic, i, got.NameString(), got.VirtualAddress)
			}
		}

		testResourcesRoundTrip(t, buf)
	}
}

// testResourcesRoundTrip checks that resource parsers other than our own
// find the manifest in the image that Decode accepted.
func testResourcesRoundTrip(t *testing.T, buf []byte) {
	t.Helper()

	rs, err := winres.LoadFromEXE(bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("winres.LoadFromEXE: %v", err)
	}
	if got := rs.Get(winres.RT_MANIFEST, winres.ID(1), winres.LCIDDefault); string(got) != testManifest {
		t.Errorf("winres manifest got %q", got)
	}

	pf, err := pefile.New(bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("pefile.New: %v", err)
	}
	defer pf.Close()

	resources, err := pf.GetResources()
	if err != nil {
		t.Fatalf("GetResources: %v", err)
	}
	var found bool
	for _, r := range resources {
		if bytes.Equal(r.Data, []byte(testManifest)) {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("pefile did not find the manifest among %d resources", len(resources))
	}
}
