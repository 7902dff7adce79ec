// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cpiotree

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aibor/filetree/internal/filetree"
	"github.com/cavaliergopher/cpio"
)

// node is a directory or file of the archive index.
type node struct {
	name     string
	key      string
	file     *File
	children []*node
}

func newNode(name string, file *File) *node {
	return &node{
		name: name,
		key:  filetree.FoldName(name),
		file: file,
	}
}

// child returns the child matching name case-insensitively.
func (n *node) child(name string) *node {
	key := filetree.FoldName(name)

	for _, child := range n.children {
		if child.key == key {
			return child
		}
	}

	return nil
}

// dir returns the child directory with the given name, creating it or
// turning a file of that name into a directory.
func (n *node) dir(name string) *node {
	child := n.child(name)
	if child == nil {
		child = newNode(name, nil)
		n.children = append(n.children, child)
	}

	child.file = nil

	return child
}

// set adds or replaces the file with the given name.
func (n *node) set(name string, file *File) {
	child := n.child(name)
	if child == nil {
		n.children = append(n.children, newNode(name, file))
		return
	}

	child.file = file
	child.children = nil
}

// Option configures a tree read from an archive.
type Option func(*Backend)

// ReadOnly refuses every change of the tree.
func ReadOnly() Option {
	return func(b *Backend) {
		b.readOnly = true
	}
}

// Read indexes the cpio archive from r into a tree. Later archive entries
// replace earlier ones with the same path. Paths are compared like the tree
// compares names, keeping the spelling of the first entry. Entries with ".."
// in their path are skipped.
func Read(r io.Reader, opts ...Option) (*filetree.Tree, error) {
	root := &node{}
	reader := cpio.NewReader(r)

	for {
		hdr, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}

		if err := add(root, hdr, reader); err != nil {
			return nil, err
		}
	}

	backend := &Backend{node: root}
	for _, opt := range opts {
		opt(backend)
	}

	return filetree.NewTree("", backend), nil
}

func add(root *node, hdr *cpio.Header, body io.Reader) error {
	parts := strings.FieldsFunc(hdr.Name, func(r rune) bool { return r == '/' })
	parts = deleteDots(parts)

	if len(parts) == 0 {
		return nil
	}

	for _, part := range parts {
		if part == ".." {
			slog.Debug("Skipping archive entry", slog.String("name", hdr.Name))
			return nil
		}
	}

	parent := root
	for _, part := range parts[:len(parts)-1] {
		parent = parent.dir(part)
	}

	name := parts[len(parts)-1]
	info := hdr.FileInfo()

	if info.IsDir() {
		parent.dir(name)
		return nil
	}

	file := &File{
		Mode:     info.Mode(),
		ModTime:  hdr.ModTime,
		Linkname: hdr.Linkname,
	}

	if info.Mode().IsRegular() {
		data, err := io.ReadAll(body)
		if err != nil {
			return fmt.Errorf("read body for %s: %w", hdr.Name, err)
		}

		file.Data = data
	} else if file.IsLink() {
		if file.Linkname == "" {
			target, err := io.ReadAll(body)
			if err != nil {
				return fmt.Errorf("read link target for %s: %w", hdr.Name, err)
			}

			file.Linkname = string(target)
		}
	} else {
		slog.Debug("Skipping special archive entry", slog.String("name", hdr.Name))
		return nil
	}

	parent.set(name, file)

	return nil
}

func deleteDots(parts []string) []string {
	result := parts[:0]

	for _, part := range parts {
		if part != "." {
			result = append(result, part)
		}
	}

	return result
}

// Backend populates directories from the archive index.
type Backend struct {
	filetree.BaseBackend

	node     *node
	readOnly bool
}

var _ filetree.Backend = (*Backend)(nil)

// Populate returns the indexed children.
func (b *Backend) Populate(_ *filetree.Tree) ([]*filetree.Entry, bool, error) {
	entries := make([]*filetree.Entry, 0, len(b.node.children))

	for _, child := range b.node.children {
		if child.file == nil {
			entries = append(entries, filetree.NewTree(child.name, b.with(child)).AsEntry())
		} else {
			entries = append(entries, filetree.NewFile(child.name, child.file))
		}
	}

	return entries, false, nil
}

func (b *Backend) with(n *node) *Backend {
	return &Backend{node: n, readOnly: b.readOnly}
}

// MakeDirectory returns a new empty directory unless the tree is read-only.
func (b *Backend) MakeDirectory(_ *filetree.Tree, name string) *filetree.Tree {
	if b.readOnly {
		return nil
	}

	return filetree.NewTree(name, b.with(newNode(name, nil)))
}

// MakeFile returns a new empty regular file unless the tree is read-only.
func (b *Backend) MakeFile(_ *filetree.Tree, name string) *filetree.Entry {
	if b.readOnly {
		return nil
	}

	return filetree.NewFile(name, &File{Mode: 0o644})
}

// Clone returns an unpopulated directory for the same archive directory.
func (b *Backend) Clone(tree *filetree.Tree) *filetree.Tree {
	return filetree.NewTree(tree.Name(), b.with(b.node))
}

// BeforeInsert refuses if the tree is read-only.
func (b *Backend) BeforeInsert(_ *filetree.Tree, _ *filetree.Entry) bool {
	return !b.readOnly
}

// BeforeReplace refuses if the tree is read-only.
func (b *Backend) BeforeReplace(_ *filetree.Tree, _, _ *filetree.Entry) bool {
	return !b.readOnly
}

// BeforeRemove refuses if the tree is read-only.
func (b *Backend) BeforeRemove(_ *filetree.Tree, _ *filetree.Entry) bool {
	return !b.readOnly
}
