// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cpiotree_test

import (
	"io/fs"
	"strings"
	"time"
)

type stringFile struct {
	*strings.Reader

	size int64
}

func (f *stringFile) Stat() (fs.FileInfo, error) { return stringInfo{size: f.size}, nil }
func (f *stringFile) Close() error               { return nil }

type stringInfo struct {
	size int64
}

func (i stringInfo) Name() string       { return "string" }
func (i stringInfo) Size() int64        { return i.size }
func (i stringInfo) Mode() fs.FileMode  { return 0o644 }
func (i stringInfo) ModTime() time.Time { return time.Time{} }
func (i stringInfo) IsDir() bool        { return false }
func (i stringInfo) Sys() any           { return nil }
