// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filetree

// Backend creates and populates the directories of a tree and decides which
// mutations are allowed.
//
// The hooks are called on the back-end of the directory that is about to
// change. Returning false from a Before hook vetoes the operation and leaves
// the tree unchanged.
type Backend interface {
	// MakeDirectory creates a new, empty directory that is about to be added
	// to parent. It returns nil to refuse the creation.
	MakeDirectory(parent *Tree, name string) *Tree

	// MakeFile creates a new file entry that is about to be added to parent.
	// It returns nil to refuse the creation.
	MakeFile(parent *Tree, name string) *Entry

	// Populate returns the initial children of parent. It is called at most
	// once per tree. If sorted is true the entries are already in tree order
	// and not sorted again. Entries returned alongside an error are still
	// used, the error is available from [Tree.Err].
	Populate(parent *Tree) (entries []*Entry, sorted bool, err error)

	// Clone creates an empty directory with the same name and source as tree.
	// If tree is populated its children are copied into the clone afterwards,
	// otherwise the clone populates itself. It returns nil to refuse.
	Clone(tree *Tree) *Tree

	// BeforeInsert is called before entry is added to tree.
	BeforeInsert(tree *Tree, entry *Entry) bool

	// BeforeReplace is called before existing in tree is replaced by entry.
	BeforeReplace(tree *Tree, existing, entry *Entry) bool

	// BeforeRemove is called before entry is removed from tree.
	BeforeRemove(tree *Tree, entry *Entry) bool
}

// BaseBackend provides default implementations for [Backend] methods that
// back-ends can embed: files are plain entries without data and every
// mutation is allowed.
type BaseBackend struct{}

// MakeFile returns a new file entry without back-end data.
func (BaseBackend) MakeFile(_ *Tree, name string) *Entry {
	return NewFile(name, nil)
}

// BeforeInsert allows every insertion.
func (BaseBackend) BeforeInsert(_ *Tree, _ *Entry) bool {
	return true
}

// BeforeReplace allows every replacement.
func (BaseBackend) BeforeReplace(_ *Tree, _, _ *Entry) bool {
	return true
}

// BeforeRemove allows every removal.
func (BaseBackend) BeforeRemove(_ *Tree, _ *Entry) bool {
	return true
}

// MemoryBackend is the back-end of trees without any source. Its trees start
// empty.
type MemoryBackend struct {
	BaseBackend
}

// New returns an empty tree backed by a [MemoryBackend].
func New() *Tree {
	return NewTree("", &MemoryBackend{})
}

// MakeDirectory returns a new empty tree.
func (b *MemoryBackend) MakeDirectory(_ *Tree, name string) *Tree {
	return NewTree(name, b)
}

// Populate returns no entries.
func (*MemoryBackend) Populate(_ *Tree) ([]*Entry, bool, error) {
	return nil, true, nil
}

// Clone returns a new empty tree with the same name.
func (b *MemoryBackend) Clone(tree *Tree) *Tree {
	return NewTree(tree.Name(), b)
}
