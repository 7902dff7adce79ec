// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filetree

import (
	"fmt"
	"iter"
	"slices"
	"sync"
	"sync/atomic"
)

// Tree is a directory. It embeds its own [Entry] and holds the sorted
// children, populated lazily by its [Backend].
type Tree struct {
	Entry

	backend   Backend
	once      sync.Once
	populated atomic.Bool
	entries   []*Entry
	err       error
}

// NewTree creates a detached, not yet populated tree. The backend must not be
// nil.
func NewTree(name string, backend Backend) *Tree {
	tree := &Tree{backend: backend}
	tree.setName(name)
	tree.tree = tree

	return tree
}

// AsEntry returns the [Entry] of the tree.
func (t *Tree) AsEntry() *Entry {
	return &t.Entry
}

// Backend returns the back-end of the tree.
func (t *Tree) Backend() Backend {
	return t.backend
}

// Populated returns true if the children of the tree are known.
func (t *Tree) Populated() bool {
	return t.populated.Load()
}

// Err returns the error the back-end reported while populating the tree. It
// populates the tree if necessary.
func (t *Tree) Err() error {
	t.children()

	return t.err
}

func (t *Tree) children() []*Entry {
	t.once.Do(t.populate)

	return t.entries
}

func (t *Tree) populate() {
	entries, sorted, err := t.backend.Populate(t)

	entries = slices.DeleteFunc(entries, func(e *Entry) bool {
		return e == nil
	})
	for _, entry := range entries {
		entry.parent = t
	}

	if !sorted {
		slices.SortStableFunc(entries, compareEntries)
	}

	t.entries = entries
	t.err = err
	t.populated.Store(true)
}

// markPopulated marks a newly created tree as populated without asking the
// back-end.
func (t *Tree) markPopulated() {
	t.once.Do(func() {
		t.populated.Store(true)
	})
}

// CreateOrphanTree creates a detached, empty and populated directory with
// the back-end of t. It returns nil if the back-end refuses.
func (t *Tree) CreateOrphanTree(name string) *Tree {
	tree := t.backend.MakeDirectory(t, name)
	if tree == nil {
		return nil
	}

	tree.markPopulated()

	return tree
}

// Size returns the number of children.
func (t *Tree) Size() int {
	return len(t.children())
}

// Empty returns true if the tree has no children.
func (t *Tree) Empty() bool {
	return t.Size() == 0
}

// At returns the child at the given position. It panics if the index is out
// of range.
func (t *Tree) At(idx int) *Entry {
	entries := t.children()
	if idx < 0 || idx >= len(entries) {
		panic(fmt.Errorf("%w: %d", ErrIndexOutOfRange, idx))
	}

	return entries[idx]
}

// All returns an iterator over the children in order. It iterates over a
// snapshot, so the tree may be changed while iterating.
func (t *Tree) All() iter.Seq[*Entry] {
	return func(yield func(*Entry) bool) {
		for _, entry := range slices.Clone(t.children()) {
			if !yield(entry) {
				return
			}
		}
	}
}

// Backward returns an iterator over the children in reverse order. Like
// [Tree.All] it iterates over a snapshot.
func (t *Tree) Backward() iter.Seq[*Entry] {
	return func(yield func(*Entry) bool) {
		for _, entry := range slices.Backward(slices.Clone(t.children())) {
			if !yield(entry) {
				return
			}
		}
	}
}

// Exists returns true if an entry of the given type exists at path.
func (t *Tree) Exists(path string, fileType FileType) bool {
	return t.Find(path, fileType) != nil
}

// Find returns the entry of the given type at path, nil if there is none.
//
// Path segments are separated by slash or backslash and matched
// case-insensitively. "." refers to the current and ".." to the parent
// directory. The empty path matches nothing.
func (t *Tree) Find(path string, fileType FileType) *Entry {
	return t.fetch(splitPath(path), fileType)
}

// FindDirectory returns the directory at path, nil if there is none.
func (t *Tree) FindDirectory(path string) *Tree {
	entry := t.Find(path, FileTypeDirectory)
	if entry == nil {
		return nil
	}

	return entry.tree
}

// PathTo returns the path of entry relative to t, empty if t is not an
// ancestor of entry.
func (t *Tree) PathTo(entry *Entry, sep string) string {
	return entry.PathFrom(t, sep)
}

func (t *Tree) fetch(parts []string, fileType FileType) *Entry {
	if len(parts) == 0 {
		return nil
	}

	tree := t

	for _, part := range parts[:len(parts)-1] {
		tree = tree.step(part)
		if tree == nil {
			return nil
		}
	}

	last := parts[len(parts)-1]
	if last == "." || last == ".." {
		dir := tree.step(last)
		if dir == nil || !fileType.matches(FileTypeDirectory) {
			return nil
		}

		return &dir.Entry
	}

	return tree.child(last, fileType)
}

// step resolves a single intermediate path segment to a directory.
func (t *Tree) step(part string) *Tree {
	switch part {
	case ".":
		return t
	case "..":
		return t.parent
	default:
		entry := t.child(part, FileTypeDirectory)
		if entry == nil {
			return nil
		}

		return entry.tree
	}
}

func (t *Tree) child(name string, fileType FileType) *Entry {
	key := FoldName(name)

	for _, entry := range t.children() {
		if entry.key == key && fileType.matches(entry.FileType()) {
			return entry
		}
	}

	return nil
}

// indexOfKey returns the position of the child with the given key, ignoring
// the excluded entry. It returns -1 if there is none.
func (t *Tree) indexOfKey(key string, exclude *Entry) int {
	return slices.IndexFunc(t.children(), func(e *Entry) bool {
		return e != exclude && e.key == key
	})
}

// insertSorted adds entry at its sorted position and makes t its parent.
func (t *Tree) insertSorted(entry *Entry) {
	entries := t.children()

	idx, found := slices.BinarySearchFunc(entries, entry, compareEntries)
	for found && idx < len(entries) && compareEntries(entries[idx], entry) == 0 {
		idx++
	}

	t.entries = slices.Insert(entries, idx, entry)
	entry.parent = t
}

// removeAt removes the child at idx and clears its parent.
func (t *Tree) removeAt(idx int) *Entry {
	entry := t.entries[idx]
	t.entries = slices.Delete(t.entries, idx, idx+1)
	entry.parent = nil

	return entry
}

// isSelfOrAncestor returns true if entry is t or one of its ancestors.
func (t *Tree) isSelfOrAncestor(entry *Entry) bool {
	if entry.tree == nil {
		return false
	}

	for tree := t; tree != nil; tree = tree.parent {
		if tree == entry.tree {
			return true
		}
	}

	return false
}

// cloneTree returns a detached deep copy of t. Unpopulated trees are left to
// the back-end clone to populate. It returns nil if the back-end of t or of
// any directory below refuses to clone.
func (t *Tree) cloneTree() *Tree {
	clone := t.backend.Clone(t)
	if clone == nil {
		return nil
	}

	clone.setName(t.name)

	if !t.Populated() {
		return clone
	}

	clone.markPopulated()

	for _, entry := range t.entries {
		child := entry.clone()
		if child == nil {
			return nil
		}

		child.parent = clone
		clone.entries = append(clone.entries, child)
	}

	return clone
}
