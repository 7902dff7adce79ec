// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package listing provides a back-end that builds a tree from a list of
// slash separated paths. Paths ending with a slash are directories, all
// others are files. Parents are implied.
//
// The tree is populated lazily, one directory at a time, and may be changed
// freely in memory.
package listing

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/aibor/filetree/internal/filetree"
)

type path struct {
	parts []string
	dir   bool
}

// Backend populates directories from the paths below them.
type Backend struct {
	filetree.BaseBackend

	paths []path
}

var _ filetree.Backend = (*Backend)(nil)

// New returns a tree for the given paths.
func New(paths ...string) *filetree.Tree {
	backend := &Backend{}

	for _, p := range paths {
		parts := strings.FieldsFunc(p, func(r rune) bool { return r == '/' })
		if len(parts) == 0 {
			continue
		}

		backend.paths = append(backend.paths, path{
			parts: parts,
			dir:   strings.HasSuffix(p, "/"),
		})
	}

	return filetree.NewTree("", backend)
}

// Read returns a tree for the paths read from r, one per line. Empty lines
// and lines starting with "#" are ignored.
func Read(r io.Reader) (*filetree.Tree, error) {
	var paths []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		paths = append(paths, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read listing: %w", err)
	}

	return New(paths...), nil
}

// MakeDirectory returns a new empty directory.
func (*Backend) MakeDirectory(_ *filetree.Tree, name string) *filetree.Tree {
	return filetree.NewTree(name, &Backend{})
}

// Populate creates the direct children from the pending paths and hands the
// remaining parts down to the child directories. A name listed as file and
// as directory becomes a directory.
func (b *Backend) Populate(_ *filetree.Tree) ([]*filetree.Entry, bool, error) {
	var entries []*filetree.Entry

	dirs := make(map[string]*Backend)

	for _, p := range b.paths {
		if len(p.parts) == 1 && !p.dir {
			continue
		}

		key := filetree.FoldName(p.parts[0])

		child, exists := dirs[key]
		if !exists {
			child = &Backend{}
			dirs[key] = child
			entries = append(entries, filetree.NewTree(p.parts[0], child).AsEntry())
		}

		if len(p.parts) > 1 {
			child.paths = append(child.paths, path{parts: p.parts[1:], dir: p.dir})
		}
	}

	files := make(map[string]struct{})

	for _, p := range b.paths {
		if len(p.parts) > 1 || p.dir {
			continue
		}

		key := filetree.FoldName(p.parts[0])
		if _, exists := dirs[key]; exists {
			continue
		}

		if _, exists := files[key]; exists {
			continue
		}

		files[key] = struct{}{}
		entries = append(entries, filetree.NewFile(p.parts[0], nil))
	}

	return entries, false, nil
}

// Clone returns an unpopulated directory that populates itself from the
// same paths.
func (b *Backend) Clone(tree *filetree.Tree) *filetree.Tree {
	return filetree.NewTree(tree.Name(), &Backend{paths: b.paths})
}
