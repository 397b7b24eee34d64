// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build !windows

package pe

import (
	"errors"
	"os"
	"testing"
)

// Use ourselves! The test binary is not a PE image on this platform.
var systemBinaryFileName = os.Args[0]

func testSystemBinaryResult(t *testing.T, img *Image, err error) {
	if !errors.Is(err, ErrInvalidDosMagic) {
		t.Errorf("Decode(%q) error %v, want ErrInvalidDosMagic", systemBinaryFileName, err)
	}
	if img != nil {
		t.Errorf("Decode(%q) returned an image alongside an error", systemBinaryFileName)
	}
}
