// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package treefs provides a read-only [io/fs.FS] view of a
// [filetree.Tree].
//
// Names are looked up with [filetree.Tree.Find], so they match
// case-insensitively. File content is not kept in the view. Opening a file
// calls the [filetree.Opener] the FS was created with. Files without content
// open as empty regular files.
package treefs
