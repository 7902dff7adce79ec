// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cpiotree reads cpio archives into trees and writes trees back into
// cpio archives.
//
// [Read] indexes the whole archive into memory. Symbolic links are files
// whose [File] carries the link target. [Write] writes any tree, no matter
// which back-end it comes from, using an [filetree.Opener] for the file
// content.
package cpiotree
