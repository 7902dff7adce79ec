// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cpiotree

import (
	"bytes"
	"io/fs"
	"time"

	"github.com/aibor/filetree/internal/filetree"
)

// File is the [filetree.Entry.Sys] value of file entries read from an
// archive.
type File struct {
	Mode     fs.FileMode
	ModTime  time.Time
	Linkname string
	Data     []byte
}

// IsLink returns true if the file is a symbolic link.
func (f *File) IsLink() bool {
	return f.Mode&fs.ModeSymlink != 0
}

// Stat describes the file without its name. Symbolic links have no content
// and report [filetree.ErrNoContent].
func (f *File) Stat() (fs.FileInfo, error) {
	if f.IsLink() {
		return nil, filetree.ErrNoContent
	}

	return fileInfo{file: f}, nil
}

type fileInfo struct {
	name string
	file *File
}

func (i fileInfo) Name() string       { return i.name }
func (i fileInfo) Size() int64        { return int64(len(i.file.Data)) }
func (i fileInfo) Mode() fs.FileMode  { return i.file.Mode }
func (i fileInfo) ModTime() time.Time { return i.file.ModTime }
func (i fileInfo) IsDir() bool        { return false }
func (i fileInfo) Sys() any           { return i.file }

type openFile struct {
	*bytes.Reader

	info fileInfo
}

func (f *openFile) Stat() (fs.FileInfo, error) {
	return f.info, nil
}

func (f *openFile) Close() error {
	return nil
}

// Open returns the content of a regular file entry read from an archive.
func Open(entry *filetree.Entry) (fs.File, error) {
	file, ok := entry.Sys().(*File)
	if !ok || file.IsLink() {
		return nil, &fs.PathError{Op: "open", Path: entry.Path("/"), Err: filetree.ErrNoContent}
	}

	return &openFile{
		Reader: bytes.NewReader(file.Data),
		info:   fileInfo{name: entry.Name(), file: file},
	}, nil
}
