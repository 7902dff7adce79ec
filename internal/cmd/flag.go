// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"flag"
	"fmt"
	"io"
	"runtime/debug"

	"github.com/aibor/filetree/internal/filetree"
)

const (
	name = "filetree"

	workersDefault = 8
	workersMax     = 256

	usageMessage = `Usage of 'filetree':
    filetree [flags...] source [source...]

A source is a directory, a cpio archive (*.cpio), an S3 location
(s3://bucket/prefix) or "-" for a path listing on stdin with one path per
line and a trailing "/" for directories. All sources are merged in the given
order into one tree. Later sources overwrite entries of earlier ones.

List all entries:
	filetree ./dir archive.cpio

Find entries:
	filetree -glob '**/*.go' ./dir

Write the merged tree into an archive:
	filetree -out merged.cpio ./base ./overlay

All filetree flags can also be provided via environment variable
FILETREE_ARGS or via file ./.filetree-args, with one argument per line.
`
)

type flags struct {
	flagSet *flag.FlagSet

	sources    []string
	glob       string
	regex      bool
	separator  string
	workers    uint64
	out        string
	mount      string
	s3Endpoint string
	debug      bool
	version    bool
}

func newFlags(output io.Writer) *flags {
	flags := &flags{
		separator: "/",
		workers:   workersDefault,
	}

	flags.initFlagset(output)

	return flags
}

func (f *flags) globMode() filetree.GlobMode {
	if f.regex {
		return filetree.GlobModeRegex
	}

	return filetree.GlobModeGlob
}

func (f *flags) ParseArgs(args []string) error {
	// Parses arguments up to the first one that is not prefixed with a "-" or
	// is "--".
	err := f.flagSet.Parse(args)
	if err != nil {
		return &ParseArgsError{msg: "flag parse", err: err}
	}

	// With version flag, just print the version and exit. Using [ErrHelp]
	// the main binary is supposed to return with a non error exit code.
	if f.version {
		err := f.printVersionInformation()
		return &ParseArgsError{msg: "version requested", err: err}
	}

	if f.regex && f.glob == "" {
		return f.fail("-regex requires a pattern (use -glob)", nil)
	}

	if f.separator == "" {
		return f.fail("empty separator", nil)
	}

	if f.out != "" && f.mount != "" {
		return f.fail("-out and -mount are mutually exclusive", nil)
	}

	f.sources = f.flagSet.Args()
	if len(f.sources) < 1 {
		return f.fail("no source given", nil)
	}

	return nil
}

func (f *flags) initFlagset(output io.Writer) {
	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = f.usage

	flagSet.StringVar(
		&f.glob,
		"glob",
		f.glob,
		"print only entries matching the pattern. Segments are separated by "+
			"\"/\" or \"\\\", \"**\" matches any number of directories",
	)

	flagSet.BoolVar(
		&f.regex,
		"regex",
		f.regex,
		"interpret the segments of the -glob pattern as regular expressions",
	)

	flagSet.StringVar(
		&f.separator,
		"sep",
		f.separator,
		"path separator used for output",
	)

	flagSet.Var(
		&LimitedUintValue{
			Value: &f.workers,
			Lower: 1,
			Upper: workersMax,
		},
		"workers",
		"number of directories that are listed concurrently per source",
	)

	flagSet.StringVar(
		&f.out,
		"out",
		f.out,
		"write the merged tree as cpio archive to the given file",
	)

	flagSet.StringVar(
		&f.mount,
		"mount",
		f.mount,
		"mount the merged tree read-only at the given directory until "+
			"interrupted",
	)

	flagSet.StringVar(
		&f.s3Endpoint,
		"s3-endpoint",
		f.s3Endpoint,
		"custom S3 endpoint URL. Enables path style addressing",
	)

	flagSet.BoolVar(
		&f.debug,
		"debug",
		f.debug,
		"enable debug output",
	)

	flagSet.BoolVar(
		&f.version,
		"version",
		f.version,
		"show version and exit",
	)

	f.flagSet = flagSet
}

// fail fails like flag does. It prints the error first and then usage.
func (f *flags) fail(msg string, err error) error {
	err = &ParseArgsError{msg: msg, err: err}
	fmt.Fprintln(f.flagSet.Output(), err.Error())

	f.flagSet.Usage()

	return err
}

func (f *flags) printVersionInformation() error {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return ErrReadBuildInfo
	}

	fmt.Fprintf(f.flagSet.Output(), "Version: %s\n", buildInfo.Main.Version)

	return ErrHelp
}

func (f *flags) usage() {
	fmt.Fprint(f.flagSet.Output(), usageMessage)
	fmt.Fprintln(f.flagSet.Output(), "\nFlags:")
	f.flagSet.PrintDefaults()
}
