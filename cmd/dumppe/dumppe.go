// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

// The dumppe command decodes and prints the headers of a PE binary.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dblohm7/pecoff/internal/config"
	"github.com/dblohm7/pecoff/pe"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("dumppe")

var (
	configPath      string
	dumpHeaders     bool
	dumpSections    bool
	dumpDirectories bool
	strict          bool
	verbosity       int
)

func init() {
	flag.Usage = usage
	flag.StringVar(&configPath, "config", "", "path to a TOML configuration file")
	flag.BoolVar(&dumpHeaders, "headers", false, "dump essential headers")
	flag.BoolVar(&dumpSections, "sections", false, "dump section headers")
	flag.BoolVar(&dumpDirectories, "directories", false, "dump data directories")
	flag.BoolVar(&strict, "strict", false, "treat header inconsistencies as errors")
	flag.IntVar(&verbosity, "v", 0, "log verbosity (-4 to 2)")
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n", os.Args[0])
	flag.PrintDefaults()
	fmt.Fprintln(flag.CommandLine.Output(), "  <filePath>\n\tpath to PE file")
}

func usageln(args ...any) {
	fmt.Fprintln(flag.CommandLine.Output(), args...)
	usage()
	os.Exit(2)
}

// loadConfig loads the configuration file and lets flags given on the
// command line take precedence over it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "headers":
			cfg.Dump.Headers = dumpHeaders
		case "sections":
			cfg.Dump.Sections = dumpSections
		case "directories":
			cfg.Dump.Directories = dumpDirectories
		case "strict":
			cfg.Strict = strict
		case "v":
			cfg.Verbosity = verbosity
		}
	})
	return cfg, nil
}

func main() {
	flag.Parse()
	commonlog.Configure(verbosity, nil)

	filePath := flag.Arg(0)
	if filePath == "" {
		usageln("No file path provided")
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Errorf("loading configuration: %v", err)
		os.Exit(1)
	}
	commonlog.Configure(cfg.Verbosity, nil)

	if err := run(filePath, cfg); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(filePath string, cfg *config.Config) error {
	buf, unmap, err := mapFile(filePath)
	if err != nil {
		return fmt.Errorf("error opening %q: %w", filePath, err)
	}
	defer func() {
		if err := unmap(); err != nil {
			log.Warningf("unmapping %q: %v", filePath, err)
		}
	}()
	log.Debugf("mapped %d bytes of %q", len(buf), filePath)

	img, err := pe.Decode(buf, cfg.Options()...)
	if err != nil {
		return fmt.Errorf("error decoding %q: %w", filePath, err)
	}
	for _, w := range img.Warnings() {
		log.Warningf("%s: %v", filePath, w)
	}

	if cfg.Dump.Headers {
		runDumpHeaders(img)
	}
	if cfg.Dump.Sections {
		runDumpSections(img)
	}
	if cfg.Dump.Directories {
		runDumpDirectories(img)
	}
	return nil
}
