// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package treefs

import (
	"errors"
	"io/fs"
	"slices"
	"strings"

	"github.com/aibor/filetree/internal/filetree"
)

var (
	_ fs.FS        = (*FS)(nil)
	_ fs.StatFS    = (*FS)(nil)
	_ fs.ReadDirFS = (*FS)(nil)
)

// Stater is implemented by [filetree.Entry.Sys] values that describe their
// file without opening it. A Stat error wrapping [filetree.ErrNoContent]
// marks a file without content.
type Stater interface {
	Stat() (fs.FileInfo, error)
}

// FS is an [fs.FS] backed by a [filetree.Tree].
type FS struct {
	tree *filetree.Tree
	open filetree.Opener
}

// New creates a new [FS] for tree. Regular file content is opened with open.
// If open is nil, all files are empty.
func New(tree *filetree.Tree, open filetree.Opener) *FS {
	return &FS{
		tree: tree,
		open: open,
	}
}

// Open opens the named file or directory.
//
// It returns a [fs.PathError] in case of errors.
func (fsys *FS) Open(name string) (fs.File, error) {
	entry, err := fsys.lookup(name)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}

	file, err := fsys.openEntry(entry, name)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}

	return file, nil
}

// Stat returns information about the named file or directory.
//
// It returns a [fs.PathError] in case of errors.
func (fsys *FS) Stat(name string) (fs.FileInfo, error) {
	entry, err := fsys.lookup(name)
	if err != nil {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: err}
	}

	info, err := fsys.stat(entry, name)
	if err != nil {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: err}
	}

	return info, nil
}

// ReadDir returns the entries of the named directory sorted by name.
//
// It returns a [fs.PathError] in case of errors.
func (fsys *FS) ReadDir(name string) ([]fs.DirEntry, error) {
	entry, err := fsys.lookup(name)
	if err != nil {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: err}
	}

	tree := entry.AsTree()
	if tree == nil {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: ErrFileNotDir}
	}

	entries := fsys.entries(tree)

	if err := tree.Err(); err != nil {
		return entries, &fs.PathError{Op: "readdir", Path: name, Err: err}
	}

	return entries, nil
}

func (fsys *FS) lookup(name string) (*filetree.Entry, error) {
	if !fs.ValidPath(name) {
		return nil, ErrFileInvalid
	}

	if name == "." {
		return fsys.tree.AsEntry(), nil
	}

	entry := fsys.tree.Find(name, filetree.FileTypeEither)
	if entry == nil {
		return nil, ErrFileNotExist
	}

	return entry, nil
}

func (fsys *FS) entries(tree *filetree.Tree) []fs.DirEntry {
	entries := make([]fs.DirEntry, 0, tree.Size())

	for entry := range tree.All() {
		entries = append(entries, &dirEntry{fsys: fsys, entry: entry})
	}

	sortDirEntries(entries)

	return entries
}

func (fsys *FS) openEntry(entry *filetree.Entry, name string) (fs.File, error) {
	if tree := entry.AsTree(); tree != nil {
		return &directory{
			info:    dirInfo(entry),
			entries: fsys.entries(tree),
			path:    name,
		}, nil
	}

	if fsys.open == nil {
		return emptyFile(entry), nil
	}

	source, err := fsys.open(entry)
	if errors.Is(err, filetree.ErrNoContent) {
		return emptyFile(entry), nil
	} else if err != nil {
		return nil, err
	}

	sourceInfo, err := source.Stat()
	if err != nil {
		_ = source.Close()
		return nil, err //nolint:wrapcheck
	}

	return &regularFile{
		File: source,
		info: *regularInfo(entry, sourceInfo),
	}, nil
}

// stat describes entry. Files are only opened if their [filetree.Entry.Sys]
// value is no [Stater].
func (fsys *FS) stat(entry *filetree.Entry, name string) (fs.FileInfo, error) {
	if entry.IsDir() {
		return dirInfo(entry), nil
	}

	if fsys.open == nil {
		return &emptyFile(entry).info, nil
	}

	if stater, ok := entry.Sys().(Stater); ok {
		info, err := stater.Stat()
		if errors.Is(err, filetree.ErrNoContent) {
			return &emptyFile(entry).info, nil
		} else if err != nil {
			return nil, err //nolint:wrapcheck
		}

		return regularInfo(entry, info), nil
	}

	file, err := fsys.openEntry(entry, name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return file.Stat() //nolint:wrapcheck
}

func sortDirEntries(entries []fs.DirEntry) {
	slices.SortFunc(entries, func(a, b fs.DirEntry) int {
		return strings.Compare(a.Name(), b.Name())
	})
}
