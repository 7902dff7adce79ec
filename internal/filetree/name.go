// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filetree

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// FoldName returns the key names are compared by. Names with equal keys
// denote the same entry.
//
// Every rune is folded on its own, like Windows does for file names, so "ß"
// and "ss" stay different while "ſ" and "s" are equal.
func FoldName(name string) string {
	// Mapping runes does not fail.
	key, _, _ := transform.String(runes.Map(foldRune), name)

	return key
}

func foldRune(r rune) rune {
	return unicode.ToLower(unicode.ToUpper(r))
}

// compareEntries defines the order of entries in a directory: directories
// first, then by folded name.
func compareEntries(a, b *Entry) int {
	switch {
	case a.IsDir() && !b.IsDir():
		return -1
	case !a.IsDir() && b.IsDir():
		return 1
	default:
		return strings.Compare(a.key, b.key)
	}
}

func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}

// splitPath splits the path into its segments. Both slash and backslash
// separate segments, empty segments are dropped.
func splitPath(path string) []string {
	return strings.FieldsFunc(path, isSeparator)
}

func separatorOrDefault(sep string) string {
	if sep == "" {
		return DefaultSeparator
	}

	return sep
}
