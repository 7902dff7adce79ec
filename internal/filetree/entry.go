// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filetree

import (
	"slices"
	"strings"
)

// Entry is a named node in a [Tree]. It is either a file or a directory. For
// directories, [Entry.AsTree] returns the [Tree] the entry belongs to.
//
// Entries are handled by pointer. An entry belongs to at most one parent.
type Entry struct {
	name   string
	key    string
	parent *Tree
	tree   *Tree
	sys    any
}

// NewFile creates a detached file entry. The sys value is returned by
// [Entry.Sys] and is meant for back-end specific data.
func NewFile(name string, sys any) *Entry {
	entry := &Entry{sys: sys}
	entry.setName(name)

	return entry
}

func (e *Entry) setName(name string) {
	e.name = name
	e.key = FoldName(name)
}

// Name returns the name of the entry.
func (e *Entry) Name() string {
	return e.name
}

// Sys returns the back-end specific data of the entry.
func (e *Entry) Sys() any {
	return e.sys
}

// IsDir returns true if the entry is a directory.
func (e *Entry) IsDir() bool {
	return e.tree != nil
}

// IsFile returns true if the entry is a file.
func (e *Entry) IsFile() bool {
	return e.tree == nil
}

// FileType returns [FileTypeDirectory] or [FileTypeFile].
func (e *Entry) FileType() FileType {
	if e.IsDir() {
		return FileTypeDirectory
	}

	return FileTypeFile
}

// AsTree returns the [Tree] of a directory entry, nil for files.
func (e *Entry) AsTree() *Tree {
	return e.tree
}

// Parent returns the directory the entry is in, nil for roots and detached
// entries.
func (e *Entry) Parent() *Tree {
	return e.parent
}

// Compare compares the name of the entry with the given name
// case-insensitively. The result is negative, zero or positive like
// [strings.Compare].
func (e *Entry) Compare(name string) int {
	return strings.Compare(e.key, FoldName(name))
}

// Suffix returns the part of the name after the last dot. Directories and
// names without dot have no suffix.
func (e *Entry) Suffix() string {
	if e.IsDir() {
		return ""
	}

	idx := strings.LastIndexByte(e.name, '.')
	if idx < 0 {
		return ""
	}

	return e.name[idx+1:]
}

// HasSuffix returns true if [Entry.Suffix] equals any of the given suffixes,
// ignoring case.
func (e *Entry) HasSuffix(suffixes ...string) bool {
	suffix := FoldName(e.Suffix())

	return slices.ContainsFunc(suffixes, func(s string) bool {
		return FoldName(s) == suffix
	})
}

// Path returns the path from the root of the tree the entry is in to the
// entry. The name of the root is not part of the path.
func (e *Entry) Path(sep string) string {
	return e.PathFrom(nil, sep)
}

// PathFrom returns the path of the entry relative to the given tree. It
// returns an empty string if the tree is not an ancestor of the entry. A nil
// tree means the root of the entry's hierarchy.
func (e *Entry) PathFrom(tree *Tree, sep string) string {
	names := []string{e.name}

	parent := e.parent
	for parent != nil && parent != tree {
		if parent.parent != nil {
			names = append(names, parent.name)
		}

		parent = parent.parent
	}

	if parent != tree {
		return ""
	}

	slices.Reverse(names)

	return strings.Join(names, separatorOrDefault(sep))
}

// Detach removes the entry from its parent. It returns false if the entry
// has no parent or the parent's back-end refuses the removal.
func (e *Entry) Detach() bool {
	if e.parent == nil {
		return false
	}

	return e.parent.Erase(e)
}

// MoveTo inserts the entry into the given tree, failing on name collisions.
func (e *Entry) MoveTo(tree *Tree) bool {
	return tree.Insert(e, InsertFailIfExists) != nil
}

// release detaches the entry from its parent if it has one.
func (e *Entry) release() bool {
	if e.parent == nil {
		return true
	}

	return e.parent.Erase(e)
}

// clone returns a detached deep copy of the entry, nil if the back-end can
// not clone a directory.
func (e *Entry) clone() *Entry {
	if e.tree != nil {
		tree := e.tree.cloneTree()
		if tree == nil {
			return nil
		}

		return &tree.Entry
	}

	return &Entry{
		name: e.name,
		key:  e.key,
		sys:  e.sys,
	}
}
