// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filetree

import "fmt"

// Merge moves all children of source into t. Directories present in both
// are merged recursively, every other collision replaces the entry in t.
// Replacements are recorded in overwrites if it is not nil. It returns the
// number of replaced entries.
//
// Merging a tree into itself or into one of its descendants fails with
// [ErrCycle]. If a back-end vetoes a change, the merge stops with [ErrVetoed]:
// entries moved so far stay in t, the others stay in source. Both errors
// wrap [ErrMergeFailed].
func (t *Tree) Merge(source *Tree, overwrites Overwrites) (int, error) {
	if source == nil {
		return 0, nil
	}

	if t.isSelfOrAncestor(&source.Entry) {
		return 0, fmt.Errorf("%w: %w", ErrMergeFailed, ErrCycle)
	}

	return mergeTrees(t, source, overwrites)
}

// mergeTrees takes all children out of src before moving them, so src may
// itself be a directory of dst that entries are merged into.
func mergeTrees(dst, src *Tree, overwrites Overwrites) (int, error) {
	entries := src.children()
	src.entries = nil
	count := 0

	for idx, entry := range entries {
		replaced, err := dst.mergeEntry(entry, overwrites)
		count += replaced

		if err != nil {
			for _, rest := range entries[idx:] {
				src.insertSorted(rest)
			}

			return count, err
		}
	}

	return count, nil
}

func (t *Tree) mergeEntry(entry *Entry, overwrites Overwrites) (int, error) {
	idx := t.indexOfKey(entry.key, nil)
	if idx < 0 {
		if !t.backend.BeforeInsert(t, entry) {
			return 0, fmt.Errorf("%w: %w: insert %s", ErrMergeFailed, ErrVetoed, entry.name)
		}

		t.insertSorted(entry)

		return 0, nil
	}

	existing := t.entries[idx]

	if existing.IsDir() && entry.IsDir() {
		replaced, err := mergeTrees(existing.tree, entry.tree, overwrites)
		if err != nil {
			return replaced, err
		}

		entry.parent = nil

		return replaced, nil
	}

	if !t.backend.BeforeReplace(t, existing, entry) {
		return 0, fmt.Errorf("%w: %w: replace %s", ErrMergeFailed, ErrVetoed, entry.name)
	}

	t.removeAt(idx)
	t.insertSorted(entry)

	if overwrites != nil {
		overwrites[existing] = entry
	}

	return 1, nil
}
