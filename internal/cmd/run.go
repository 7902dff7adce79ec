// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aibor/filetree/internal/backend/cpiotree"
	"github.com/aibor/filetree/internal/filetree"
	"github.com/aibor/filetree/internal/fusefs"
)

// IO provides input and output details for the command.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func parseFlags(args []string, cfg IO) (*flags, error) {
	args, err := MergedArgs(args, os.DirFS("."), localConfigFile)
	if err != nil {
		return nil, err
	}

	flags := newFlags(cfg.Stderr)

	err = flags.ParseArgs(args)
	if err != nil {
		return nil, err
	}

	return flags, nil
}

// mergeSources loads all sources and merges them in order into a new
// in-memory tree.
func mergeSources(ctx context.Context, flags *flags, srcs *sources) (*filetree.Tree, error) {
	merged := filetree.New()

	for _, arg := range flags.sources {
		tree, err := srcs.load(arg)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", arg, err)
		}

		err = filetree.Prefetch(ctx, tree, int(flags.workers)) //nolint:gosec
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", arg, err)
		}

		overwrites := filetree.Overwrites{}

		count, err := merged.Merge(tree, overwrites)
		if err != nil {
			return nil, fmt.Errorf("merge %s: %w", arg, err)
		}

		for replaced, replacement := range overwrites {
			slog.Warn("Entry overwritten",
				slog.String("path", replacement.Path(flags.separator)),
				slog.String("source", arg),
				slog.String("old", replaced.FileType().String()),
				slog.String("new", replacement.FileType().String()),
			)
		}

		slog.Debug("Merged source",
			slog.String("source", arg),
			slog.Int("overwritten", count),
			slog.Int("size", merged.Size()),
		)
	}

	return merged, nil
}

func printEntry(w io.Writer, path string, entry *filetree.Entry, sep string) {
	if entry.IsDir() {
		path += sep
	}

	fmt.Fprintln(w, path)
}

func printTree(w io.Writer, tree *filetree.Tree, flags *flags) error {
	sep := flags.separator

	if flags.glob == "" {
		filetree.Walk(tree, func(parent string, entry *filetree.Entry) filetree.WalkSignal {
			printEntry(w, parent+entry.Name(), entry, sep)
			return filetree.WalkContinue
		}, sep)

		return nil
	}

	matches, err := filetree.Glob(tree, flags.glob, flags.globMode())
	if err != nil {
		return fmt.Errorf("glob: %w", err)
	}

	for entry := range matches {
		printEntry(w, entry.Path(sep), entry, sep)
	}

	return nil
}

func writeArchive(path string, tree *filetree.Tree, open filetree.Opener) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}

	err = cpiotree.Write(file, tree, open)
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("write archive: %w", err)
	}

	return file.Close() //nolint:wrapcheck
}

func mount(ctx context.Context, dir string, tree *filetree.Tree, open filetree.Opener, debug bool) error {
	server, err := fusefs.Mount(dir, tree, open, debug)
	if err != nil {
		return err //nolint:wrapcheck
	}

	slog.Info("Mounted tree", slog.String("dir", dir))

	done := make(chan struct{})

	go func() {
		select {
		case <-ctx.Done():
			err := server.Unmount()
			if err != nil {
				slog.Error("Failed to unmount",
					slog.String("dir", dir),
					slog.Any("error", err),
				)
			}
		case <-done:
		}
	}()

	server.Wait()
	close(done)

	return nil
}

func run(ctx context.Context, flags *flags, cfg IO) error {
	srcs := newSources(ctx, cfg.Stdin, flags.s3Endpoint)

	tree, err := mergeSources(ctx, flags, srcs)
	if err != nil {
		return err
	}

	switch {
	case flags.out != "":
		return writeArchive(flags.out, tree, srcs.open)
	case flags.mount != "":
		return mount(ctx, flags.mount, tree, srcs.open, flags.debug)
	default:
		return printTree(cfg.Stdout, tree, flags)
	}
}

func handleParseArgsError(err error) int {
	// [ErrHelp] is returned when help is requested. So exit without error
	// in this case.
	if errors.Is(err, ErrHelp) {
		return 0
	}

	// ParseArgs already prints errors, so we just exit without an error.
	if !errors.Is(err, &ParseArgsError{}) {
		slog.Error(err.Error())
	}

	return -1
}

func handleRunError(err error) int {
	if errors.Is(err, context.Canceled) {
		slog.Warn("Interrupted")
	} else {
		slog.Error(err.Error())
	}

	return -1
}

// Run is the main entry point for the CLI command.
func Run(ctx context.Context, args []string, cfg IO) int {
	setupLogging(cfg.Stderr, false)

	flags, err := parseFlags(args, cfg)
	if err != nil {
		return handleParseArgsError(err)
	}

	setupLogging(cfg.Stderr, flags.debug)

	err = run(ctx, flags, cfg)
	if err != nil {
		return handleRunError(err)
	}

	return 0
}
