// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

// Package config loads the settings of the dumppe command.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/dblohm7/pecoff/pe"
	"github.com/xyproto/env/v2"
)

// Environment variables that override the configuration file.
const (
	EnvMaxSize     = "DUMPPE_MAX_SIZE"
	EnvMaxSections = "DUMPPE_MAX_SECTIONS"
	EnvStrict      = "DUMPPE_STRICT"
	EnvVerbosity   = "DUMPPE_VERBOSITY"
)

// DumpConfig selects what dumppe prints.
type DumpConfig struct {
	Headers     bool `toml:"headers"`
	Sections    bool `toml:"sections"`
	Directories bool `toml:"directories"`
}

// Config holds the decoder limits and output settings of dumppe.
type Config struct {
	// MaxSize is the largest file, in bytes, that will be decoded. Zero
	// means no limit.
	MaxSize int64 `toml:"max-size"`
	// MaxSections is the largest section count that will be accepted. Zero
	// means no limit.
	MaxSections int  `toml:"max-sections"`
	Strict      bool `toml:"strict"`
	// Verbosity is passed to commonlog.Configure.
	Verbosity int        `toml:"verbosity"`
	Dump      DumpConfig `toml:"dump"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		MaxSize: 1 << 30,
		Dump: DumpConfig{
			Headers:  true,
			Sections: true,
		},
	}
}

// Load reads the TOML file at path over Default and then applies any
// DUMPPE_* environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parse error in %s: %w", path, err)
		}
	}

	c.applyEnv()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() {
	// env caches the environment on first use.
	env.Load()
	if env.Has(EnvMaxSize) {
		c.MaxSize = env.Int64(EnvMaxSize, c.MaxSize)
	}
	if env.Has(EnvMaxSections) {
		c.MaxSections = env.Int(EnvMaxSections, c.MaxSections)
	}
	if env.Has(EnvStrict) {
		c.Strict = env.Bool(EnvStrict)
	}
	if env.Has(EnvVerbosity) {
		c.Verbosity = env.Int(EnvVerbosity, c.Verbosity)
	}
}

func (c *Config) validate() error {
	if c.MaxSize < 0 {
		return fmt.Errorf("max-size must not be negative, got %d", c.MaxSize)
	}
	if c.MaxSections < 0 {
		return fmt.Errorf("max-sections must not be negative, got %d", c.MaxSections)
	}
	return nil
}

// Options returns the pe.Decode options corresponding to c.
func (c *Config) Options() []pe.Option {
	var opts []pe.Option
	if c.MaxSize > 0 {
		opts = append(opts, pe.WithMaxSize(c.MaxSize))
	}
	if c.MaxSections > 0 {
		opts = append(opts, pe.WithMaxSections(c.MaxSections))
	}
	if c.Strict {
		opts = append(opts, pe.WithStrict())
	}
	return opts
}
