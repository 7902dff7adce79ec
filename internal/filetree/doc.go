// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package filetree provides a lazily populated, in-memory hierarchy of files
// and directories that can be merged, moved, copied, walked and globbed
// independent of where the content comes from.
//
// A [Tree] is a directory [Entry]. Its children are not known until they are
// first needed: the [Backend] that created the tree is asked to populate it
// exactly once, on the first operation that looks at or changes the children.
// Back-ends also decide how new directories and files are created and may
// veto insertions, replacements and removals.
//
// Children are kept sorted: directories first, then by case folded name.
// Names are unique per directory regardless of case.
//
// Trees are not safe for concurrent mutation. The only concurrency-safe
// operation is population, so independent readers may trigger it at the same
// time, see [Prefetch].
package filetree
