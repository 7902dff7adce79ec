// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filetree

import "errors"

var (
	// ErrMergeFailed is returned if a merge could not be completed. The
	// entries processed before the failure stay in the destination, the
	// remaining ones stay in the source.
	ErrMergeFailed = errors.New("merge failed")

	// ErrCycle is returned if a tree would be merged into itself or into one
	// of its descendants.
	ErrCycle = errors.New("tree is an ancestor of the destination")

	// ErrVetoed is returned if a back-end refused an operation.
	ErrVetoed = errors.New("vetoed by back-end")

	// ErrIndexOutOfRange is used for the panic of [Tree.At].
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrInvalidPattern is returned if a glob pattern can not be compiled.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrNoContent is returned by an [Opener] for entries it can not provide
	// content for.
	ErrNoContent = errors.New("no content")
)
