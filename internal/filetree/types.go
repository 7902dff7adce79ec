// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filetree

import (
	"io/fs"
)

// DefaultSeparator is used for building paths if no separator is given.
const DefaultSeparator = `\`

// FileType selects the kind of entries a lookup matches.
type FileType int

const (
	// FileTypeFile matches files only.
	FileTypeFile FileType = 1 << iota
	// FileTypeDirectory matches directories only.
	FileTypeDirectory
	// FileTypeEither matches files and directories.
	FileTypeEither = FileTypeFile | FileTypeDirectory
)

func (f FileType) matches(other FileType) bool {
	return f&other != 0
}

// String returns a string representation of the FileType.
func (f FileType) String() string {
	switch f {
	case FileTypeFile:
		return "file"
	case FileTypeDirectory:
		return "directory"
	case FileTypeEither:
		return "file or directory"
	default:
		return "invalid"
	}
}

// InsertPolicy controls what happens if an entry with the same name already
// exists in the destination.
type InsertPolicy int

const (
	// InsertFailIfExists refuses the insertion on any name collision.
	InsertFailIfExists InsertPolicy = iota
	// InsertReplace replaces the existing entry.
	InsertReplace
	// InsertMerge merges directories into existing directories and replaces
	// existing files by files. Mixing files and directories fails.
	InsertMerge
)

// WalkSignal is returned by a [WalkFunc] to control the traversal.
type WalkSignal int

const (
	// WalkContinue continues with the next entry.
	WalkContinue WalkSignal = iota
	// WalkStop ends the traversal immediately.
	WalkStop
	// WalkSkip does not descend into the current directory.
	WalkSkip
)

// GlobMode selects how the segments of a [Glob] pattern are interpreted.
type GlobMode int

const (
	// GlobModeGlob uses shell like wildcards: "*", "?" and "[...]".
	GlobModeGlob GlobMode = iota
	// GlobModeRegex uses a regular expression per segment.
	GlobModeRegex
)

// Overwrites records replacements done by [Tree.Merge]: the replaced
// destination entry maps to the source entry that took its place.
type Overwrites map[*Entry]*Entry

// Opener provides the content of file entries. It returns an error wrapping
// [ErrNoContent] for entries it does not serve.
type Opener func(entry *Entry) (fs.File, error)
