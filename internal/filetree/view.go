// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filetree

import "iter"

// EntryView is a read-only view of an [Entry]. It exposes no way to change
// the entry or reach a mutable handle.
type EntryView interface {
	Name() string
	IsDir() bool
	IsFile() bool
	FileType() FileType
	Suffix() string
	HasSuffix(suffixes ...string) bool
	Path(sep string) string
	Sys() any
	// Entries returns views of the children of a directory. It yields
	// nothing for files.
	Entries() iter.Seq[EntryView]
}

type entryView struct {
	entry *Entry
}

func (v entryView) Name() string                      { return v.entry.Name() }
func (v entryView) IsDir() bool                       { return v.entry.IsDir() }
func (v entryView) IsFile() bool                      { return v.entry.IsFile() }
func (v entryView) FileType() FileType                { return v.entry.FileType() }
func (v entryView) Suffix() string                    { return v.entry.Suffix() }
func (v entryView) HasSuffix(suffixes ...string) bool { return v.entry.HasSuffix(suffixes...) }
func (v entryView) Path(sep string) string            { return v.entry.Path(sep) }
func (v entryView) Sys() any                          { return v.entry.Sys() }

func (v entryView) Entries() iter.Seq[EntryView] {
	if v.entry.tree == nil {
		return func(func(EntryView) bool) {}
	}

	return v.entry.tree.Views()
}

// Views returns an iterator over read-only views of the children in order.
func (t *Tree) Views() iter.Seq[EntryView] {
	return views(t.All())
}

// ViewsBackward returns an iterator over read-only views of the children in
// reverse order.
func (t *Tree) ViewsBackward() iter.Seq[EntryView] {
	return views(t.Backward())
}

func views(entries iter.Seq[*Entry]) iter.Seq[EntryView] {
	return func(yield func(EntryView) bool) {
		for entry := range entries {
			if !yield(entryView{entry: entry}) {
				return
			}
		}
	}
}
