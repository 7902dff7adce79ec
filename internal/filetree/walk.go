// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filetree

import (
	"iter"
	"slices"
)

// WalkFunc is called by [Walk] for every entry. The path is the path of the
// entry's parent relative to the walked tree, including a trailing
// separator, or empty for direct children.
type WalkFunc func(path string, entry *Entry) WalkSignal

type walkItem struct {
	path  string
	entry *Entry
}

// pushChildren pushes the children of tree in reverse order, so they are
// popped in order.
func pushChildren(stack []walkItem, tree *Tree, path string) []walkItem {
	for entry := range tree.Backward() {
		stack = append(stack, walkItem{path: path, entry: entry})
	}

	return stack
}

// Walk visits all entries below tree depth-first in pre-order, children in
// tree order. The tree itself is not visited. The traversal is iterative, so
// the depth of the tree is not limited by the call stack.
func Walk(tree *Tree, fn WalkFunc, sep string) {
	sep = separatorOrDefault(sep)
	stack := pushChildren(nil, tree, "")

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch fn(item.path, item.entry) {
		case WalkStop:
			return
		case WalkSkip:
			continue
		case WalkContinue:
		}

		if item.entry.IsDir() {
			stack = pushChildren(stack, item.entry.tree, item.path+item.entry.name+sep)
		}
	}
}

// WalkSeq returns an iterator over all entries below tree in the same order
// as [Walk]. Directories are populated only when the iteration reaches them.
func WalkSeq(tree *Tree) iter.Seq[*Entry] {
	return func(yield func(*Entry) bool) {
		stack := slices.Collect(tree.Backward())

		for len(stack) > 0 {
			entry := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if !yield(entry) {
				return
			}

			if entry.IsDir() {
				stack = slices.AppendSeq(stack, entry.tree.Backward())
			}
		}
	}
}
