// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filetree

import (
	"slices"
	"strings"
)

// AddDirectory creates the directory at path including all missing parents
// and returns it. Existing directories are reused. It returns nil if a file
// is in the way, the path contains "..", or the back-end refuses to create a
// directory. Directories created before a failure stay in the tree.
func (t *Tree) AddDirectory(path string) *Tree {
	return t.createTree(splitPath(path))
}

// AddFile creates a file at path including all missing parent directories.
// If an entry exists at path, it is replaced if replace is true, otherwise
// nil is returned. A directory can be replaced by a file.
func (t *Tree) AddFile(path string, replace bool) *Entry {
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil
	}

	if !replace && t.fetch(parts, FileTypeEither) != nil {
		return nil
	}

	name := parts[len(parts)-1]
	if name == "." || name == ".." {
		return nil
	}

	tree := t.createTree(parts[:len(parts)-1])
	if tree == nil {
		return nil
	}

	entry := tree.backend.MakeFile(tree, name)
	if entry == nil {
		return nil
	}

	if idx := tree.indexOfKey(entry.key, nil); idx >= 0 {
		if !replace || !tree.backend.BeforeReplace(tree, tree.entries[idx], entry) {
			return nil
		}

		tree.removeAt(idx)
	}

	tree.insertSorted(entry)

	return entry
}

func (t *Tree) createTree(parts []string) *Tree {
	tree := t

	for _, part := range parts {
		switch part {
		case ".":
			continue
		case "..":
			return nil
		}

		entry := tree.child(part, FileTypeEither)

		switch {
		case entry == nil:
			dir := tree.backend.MakeDirectory(tree, part)
			if dir == nil {
				return nil
			}

			dir.markPopulated()
			tree.insertSorted(&dir.Entry)
			tree = dir
		case entry.IsDir():
			tree = entry.tree
		default:
			return nil
		}
	}

	return tree
}

// Insert adds entry to t, detaching it from its current parent. It returns
// the entry that ends up in t, nil on failure.
//
// An entry that is already a child of t stays where it is and no back-end
// is asked. On a name collision the policy decides: [InsertFailIfExists]
// fails, [InsertReplace] replaces the existing entry, [InsertMerge] merges
// two directories and replaces files by files. When directories are merged,
// the existing directory is returned and the inserted one is left detached
// and empty.
//
// Inserting t itself or one of its ancestors fails. All checks are done
// before the entry is detached, so a failed insert leaves it in place. If a
// back-end vetoes while two directories are merged, the entries merged so
// far stay in the existing directory and the inserted directory goes back
// to its previous parent with the rest.
func (t *Tree) Insert(entry *Entry, policy InsertPolicy) *Entry {
	if entry == nil || t.isSelfOrAncestor(entry) {
		return nil
	}

	idx := t.indexOfKey(entry.key, entry)
	if idx < 0 {
		if entry.parent == t {
			return entry
		}

		if !t.backend.BeforeInsert(t, entry) || !entry.release() {
			return nil
		}

		t.insertSorted(entry)

		return entry
	}

	existing := t.entries[idx]

	switch {
	case policy == InsertFailIfExists:
		return nil
	case policy == InsertReplace, existing.IsFile() && entry.IsFile():
		if !t.backend.BeforeReplace(t, existing, entry) || !entry.release() {
			return nil
		}

		// Releasing the entry may have shifted the existing one.
		t.removeAt(slices.Index(t.entries, existing))
		t.insertSorted(entry)

		return entry
	case existing.IsDir() && entry.IsDir():
		oldParent := entry.parent
		if !entry.release() {
			return nil
		}

		if _, err := mergeTrees(existing.tree, entry.tree, nil); err != nil {
			if oldParent != nil {
				oldParent.insertSorted(entry)
			}

			return nil
		}

		return existing
	default:
		return nil
	}
}

// rename gives a child of t a name no sibling has. The back-end is asked as
// for inserting the entry under its new name and removing it under its old
// one.
func (t *Tree) rename(entry *Entry, name string) *Entry {
	oldName := entry.name
	if oldName == name {
		return entry
	}

	entry.setName(name)
	allowed := t.backend.BeforeInsert(t, entry)
	entry.setName(oldName)

	if !allowed || !t.backend.BeforeRemove(t, entry) {
		return nil
	}

	entry.setName(name)
	t.reposition(entry)

	return entry
}

// reposition restores the order after a child was renamed.
func (t *Tree) reposition(entry *Entry) {
	idx := slices.Index(t.entries, entry)
	t.entries = slices.Delete(t.entries, idx, idx+1)
	t.insertSorted(entry)
}

// Move moves entry to path relative to t. If path is empty or ends with a
// separator, the entry is moved into that directory keeping its name.
// Otherwise the last segment is the new name of the entry. Missing
// directories are created. The policy is applied like for [Tree.Insert].
func (t *Tree) Move(entry *Entry, path string, policy InsertPolicy) bool {
	return t.move(entry, path, policy) != nil
}

// Copy copies entry to path relative to t like [Tree.Move] and returns the
// copy, nil on failure. It fails if a directory can not be cloned. The
// original is not changed. Directories that have
// not been populated yet are copied unpopulated and populate themselves.
func (t *Tree) Copy(entry *Entry, path string, policy InsertPolicy) *Entry {
	if entry == nil || t.isSelfOrAncestor(entry) {
		return nil
	}

	clone := entry.clone()
	if clone == nil {
		return nil
	}

	return t.move(clone, path, policy)
}

func (t *Tree) move(entry *Entry, path string, policy InsertPolicy) *Entry {
	if entry == nil || t.isSelfOrAncestor(entry) {
		return nil
	}

	parts := splitPath(path)
	name := entry.name

	if path != "" && !strings.HasSuffix(path, "/") && !strings.HasSuffix(path, `\`) {
		name = parts[len(parts)-1]
		if name == "." || name == ".." {
			return nil
		}

		parts = parts[:len(parts)-1]
	}

	tree := t.createTree(parts)
	if tree == nil {
		return nil
	}

	if entry.parent == tree && tree.indexOfKey(FoldName(name), entry) < 0 {
		return tree.rename(entry, name)
	}

	oldName := entry.name
	entry.setName(name)

	result := tree.Insert(entry, policy)
	if result == nil {
		entry.setName(oldName)

		if entry.parent != nil {
			entry.parent.reposition(entry)
		}
	}

	return result
}

// Erase removes entry from t. It returns false if entry is not a child of t
// or the back-end refuses.
func (t *Tree) Erase(entry *Entry) bool {
	idx := slices.Index(t.children(), entry)
	if idx < 0 || !t.backend.BeforeRemove(t, entry) {
		return false
	}

	t.removeAt(idx)

	return true
}

// EraseName removes the child with the given name and returns it. It returns
// nil if there is no such child or the back-end refuses.
func (t *Tree) EraseName(name string) *Entry {
	idx := t.indexOfKey(FoldName(name), nil)
	if idx < 0 || !t.backend.BeforeRemove(t, t.entries[idx]) {
		return nil
	}

	return t.removeAt(idx)
}

// Clear removes all children in order and returns how many were removed. It
// stops at the first child the back-end refuses to remove.
func (t *Tree) Clear() int {
	return t.RemoveIf(func(*Entry) bool { return true })
}

// RemoveIf removes all children matching the predicate and returns how many
// were removed. It stops at the first child the back-end refuses to remove.
func (t *Tree) RemoveIf(pred func(entry *Entry) bool) int {
	removed := 0

	for entry := range t.All() {
		if !pred(entry) {
			continue
		}

		if !t.Erase(entry) {
			break
		}

		removed++
	}

	return removed
}

// RemoveAll removes the children with the given names and returns how many
// were removed. It stops at the first child the back-end refuses to remove.
func (t *Tree) RemoveAll(names ...string) int {
	keys := make(map[string]struct{}, len(names))
	for _, name := range names {
		keys[FoldName(name)] = struct{}{}
	}

	return t.RemoveIf(func(entry *Entry) bool {
		_, exists := keys[entry.key]
		return exists
	})
}
