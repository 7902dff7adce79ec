// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package treefs

import (
	"errors"
	"io/fs"
)

var (
	// ErrFileNotExist is returned if a name that is looked up does not exist.
	ErrFileNotExist = fs.ErrNotExist

	// ErrFileInvalid is returned if a name or file is invalid for the
	// requested operation.
	ErrFileInvalid = fs.ErrInvalid

	// ErrFileNotDir is returned if a file exists but is not a directory.
	ErrFileNotDir = errors.New("not a directory")

	// ErrFileIsDir is returned when reading content from a directory.
	ErrFileIsDir = errors.New("is a directory")
)
