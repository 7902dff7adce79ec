// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package dirtree provides a back-end that populates trees from a directory
// of an [afero.Fs].
//
// By default changes to the tree stay in memory and file entries keep
// pointing at their original source, so moved and copied files still open
// their original content. The [Mirror] option applies removals and
// creations to the file system instead, [ReadOnly] refuses every change.
package dirtree

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aibor/filetree/internal/filetree"
	"github.com/spf13/afero"
)

// Source is the [filetree.Entry.Sys] value of entries created by this
// back-end.
type Source struct {
	Fs   afero.Fs
	Path string
}

// Stat returns the file info of the source file.
func (s *Source) Stat() (fs.FileInfo, error) {
	info, err := s.Fs.Stat(s.Path)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return info, nil
}

type mode int

const (
	modeMemory mode = iota
	modeReadOnly
	modeMirror
)

// Option configures the back-end.
type Option func(*Backend)

// ReadOnly refuses every change of the tree.
func ReadOnly() Option {
	return func(b *Backend) {
		b.mode = modeReadOnly
	}
}

// Mirror applies removals, new directories and new files to the file
// system. Inserting or replacing existing entries can not be mirrored and is
// refused.
func Mirror() Option {
	return func(b *Backend) {
		b.mode = modeMirror
	}
}

// Backend populates a single directory.
type Backend struct {
	filetree.BaseBackend

	fs   afero.Fs
	path string
	mode mode
}

var _ filetree.Backend = (*Backend)(nil)

// New returns a tree for the directory at path of fsys.
func New(fsys afero.Fs, path string, opts ...Option) *filetree.Tree {
	backend := &Backend{
		fs:   fsys,
		path: filepath.Clean(path),
	}

	for _, opt := range opts {
		opt(backend)
	}

	return filetree.NewTree("", backend)
}

// Path returns the directory path the back-end populates from.
func (b *Backend) Path() string {
	return b.path
}

func (b *Backend) child(name string) *Backend {
	child := *b
	child.path = filepath.Join(b.path, name)

	return &child
}

func (b *Backend) source(name string) *Source {
	return &Source{
		Fs:   b.fs,
		Path: filepath.Join(b.path, name),
	}
}

// Populate reads the directory.
func (b *Backend) Populate(_ *filetree.Tree) ([]*filetree.Entry, bool, error) {
	infos, err := afero.ReadDir(b.fs, b.path)
	if err != nil {
		slog.Debug("Failed to read directory",
			slog.String("path", b.path),
			slog.Any("error", err),
		)

		return nil, false, fmt.Errorf("populate: %w", err)
	}

	entries := make([]*filetree.Entry, 0, len(infos))

	for _, info := range infos {
		name := info.Name()
		if info.IsDir() {
			entries = append(entries, filetree.NewTree(name, b.child(name)).AsEntry())
		} else {
			entries = append(entries, filetree.NewFile(name, b.source(name)))
		}
	}

	return entries, false, nil
}

// MakeDirectory creates a directory. With [Mirror] it is created on the file
// system as well.
func (b *Backend) MakeDirectory(_ *filetree.Tree, name string) *filetree.Tree {
	child := b.child(name)

	switch b.mode {
	case modeReadOnly:
		return nil
	case modeMirror:
		if err := b.fs.Mkdir(child.path, 0o755); err != nil {
			slog.Debug("Failed to create directory",
				slog.String("path", child.path),
				slog.Any("error", err),
			)

			return nil
		}

		slog.Debug("Created directory", slog.String("path", child.path))
	case modeMemory:
	}

	return filetree.NewTree(name, child)
}

// MakeFile creates a file entry. With [Mirror] an empty file is created on
// the file system, failing if it exists already.
func (b *Backend) MakeFile(_ *filetree.Tree, name string) *filetree.Entry {
	source := b.source(name)

	switch b.mode {
	case modeReadOnly:
		return nil
	case modeMirror:
		file, err := b.fs.OpenFile(source.Path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err != nil {
			slog.Debug("Failed to create file",
				slog.String("path", source.Path),
				slog.Any("error", err),
			)

			return nil
		}

		_ = file.Close()

		slog.Debug("Created file", slog.String("path", source.Path))

		return filetree.NewFile(name, source)
	case modeMemory:
	}

	return filetree.NewFile(name, nil)
}

// Clone returns an unpopulated tree for the same directory.
func (b *Backend) Clone(tree *filetree.Tree) *filetree.Tree {
	clone := *b

	return filetree.NewTree(tree.Name(), &clone)
}

// BeforeInsert refuses in [ReadOnly] and [Mirror] mode.
func (b *Backend) BeforeInsert(_ *filetree.Tree, _ *filetree.Entry) bool {
	return b.mode == modeMemory
}

// BeforeReplace refuses in [ReadOnly] and [Mirror] mode.
func (b *Backend) BeforeReplace(_ *filetree.Tree, _, _ *filetree.Entry) bool {
	return b.mode == modeMemory
}

// BeforeRemove refuses in [ReadOnly] mode. With [Mirror] the entry is
// removed from the file system first.
func (b *Backend) BeforeRemove(_ *filetree.Tree, entry *filetree.Entry) bool {
	switch b.mode {
	case modeReadOnly:
		return false
	case modeMirror:
		path := b.entryPath(entry)

		if err := b.fs.RemoveAll(path); err != nil {
			slog.Debug("Failed to remove",
				slog.String("path", path),
				slog.Any("error", err),
			)

			return false
		}

		slog.Debug("Removed", slog.String("path", path))

		return true
	default:
		return true
	}
}

// entryPath returns the path an entry of this directory has on the file
// system.
func (b *Backend) entryPath(entry *filetree.Entry) string {
	if tree := entry.AsTree(); tree != nil {
		if backend, ok := tree.Backend().(*Backend); ok {
			return backend.path
		}
	}

	if source, ok := entry.Sys().(*Source); ok {
		return source.Path
	}

	return filepath.Join(b.path, entry.Name())
}

// Open opens the source of a file entry created by this back-end.
func Open(entry *filetree.Entry) (fs.File, error) {
	source, ok := entry.Sys().(*Source)
	if !ok || entry.IsDir() {
		return nil, &fs.PathError{Op: "open", Path: entry.Path("/"), Err: filetree.ErrNoContent}
	}

	file, err := source.Fs.Open(source.Path)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return file, nil
}
