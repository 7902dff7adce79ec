// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package treefs

import (
	"io"
	"io/fs"
	"time"

	"github.com/aibor/filetree/internal/filetree"
)

const (
	dirMode  = 0o755
	fileMode = 0o644
)

var (
	_ fs.FileInfo = (*fileInfo)(nil)
	_ fs.DirEntry = (*dirEntry)(nil)
)

type fileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	sys     any
}

func (i *fileInfo) Name() string       { return i.name }
func (i *fileInfo) Size() int64        { return i.size }
func (i *fileInfo) Mode() fs.FileMode  { return i.mode }
func (i *fileInfo) ModTime() time.Time { return i.modTime }
func (i *fileInfo) IsDir() bool        { return i.mode.IsDir() }
func (i *fileInfo) Sys() any           { return i.sys }
func (i *fileInfo) String() string     { return fs.FormatFileInfo(i) }

func dirInfo(entry *filetree.Entry) *fileInfo {
	return &fileInfo{
		name: entry.Name(),
		mode: fs.ModeDir | dirMode,
		sys:  entry.Sys(),
	}
}

func regularInfo(entry *filetree.Entry, source fs.FileInfo) *fileInfo {
	return &fileInfo{
		name:    entry.Name(),
		size:    source.Size(),
		mode:    source.Mode().Perm(),
		modTime: source.ModTime(),
		sys:     entry.Sys(),
	}
}

type dirEntry struct {
	fsys  *FS
	entry *filetree.Entry
}

func (e *dirEntry) Name() string   { return e.entry.Name() }
func (e *dirEntry) IsDir() bool    { return e.entry.IsDir() }
func (e *dirEntry) String() string { return fs.FormatDirEntry(e) }

func (e *dirEntry) Type() fs.FileMode {
	if e.entry.IsDir() {
		return fs.ModeDir
	}

	return 0
}

// Info describes the entry like [FS.Stat].
func (e *dirEntry) Info() (fs.FileInfo, error) {
	return e.fsys.stat(e.entry, e.entry.Name())
}

var _ fs.File = (*regularFile)(nil)

type regularFile struct {
	fs.File

	info fileInfo
}

// Stat implements [fs.File].
func (f *regularFile) Stat() (fs.FileInfo, error) {
	return &f.info, nil
}

var _ fs.File = (*noContentFile)(nil)

type noContentFile struct {
	info fileInfo
}

func emptyFile(entry *filetree.Entry) *noContentFile {
	return &noContentFile{
		info: fileInfo{
			name: entry.Name(),
			mode: fileMode,
			sys:  entry.Sys(),
		},
	}
}

// Stat implements [fs.File].
func (f *noContentFile) Stat() (fs.FileInfo, error) {
	return &f.info, nil
}

// Read implements [fs.File].
func (*noContentFile) Read(_ []byte) (int, error) {
	return 0, io.EOF
}

// Close implements [fs.File].
func (*noContentFile) Close() error {
	return nil
}

var _ fs.ReadDirFile = (*directory)(nil)

type directory struct {
	info    *fileInfo
	entries []fs.DirEntry
	offset  int
	path    string
}

// Stat implements [fs.File].
func (d *directory) Stat() (fs.FileInfo, error) {
	return d.info, nil
}

// Read implements [fs.File].
func (d *directory) Read(_ []byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.path, Err: ErrFileIsDir}
}

// Close implements [fs.File].
func (*directory) Close() error {
	return nil
}

// ReadDir implements [fs.ReadDirFile].
func (d *directory) ReadDir(count int) ([]fs.DirEntry, error) {
	start := d.offset
	end := len(d.entries)
	available := end - start

	if available == 0 && count > 0 {
		return nil, io.EOF
	}

	if count > 0 && available > count {
		end = start + count
	}

	d.offset = end

	return d.entries[start:end], nil
}
