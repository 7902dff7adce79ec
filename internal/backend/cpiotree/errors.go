// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cpiotree

import "errors"

var (
	// ErrNotRegularFile is returned if the content of a file entry is not a
	// regular file.
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrNoOpener is returned if a tree with files is written without an
	// opener.
	ErrNoOpener = errors.New("no opener given")
)
