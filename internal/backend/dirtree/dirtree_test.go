// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package dirtree_test

import (
	"io"
	"io/fs"
	"os"
	"testing"

	"github.com/aibor/filetree/internal/backend/dirtree"
	"github.com/aibor/filetree/internal/filetree"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFs(t *testing.T) afero.Fs {
	t.Helper()

	fsys := afero.NewMemMapFs()
	files := map[string]string{
		"/data/a.txt":       "a",
		"/data/sub/b.txt":   "b",
		"/data/sub/deep/c":  "c",
		"/data/Other/d.bin": "d",
	}

	for path, content := range files {
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
	}

	require.NoError(t, fsys.MkdirAll("/data/empty", 0o755))

	return fsys
}

func read(t *testing.T, entry *filetree.Entry) string {
	t.Helper()

	file, err := dirtree.Open(entry)
	require.NoError(t, err)

	defer file.Close()

	content, err := io.ReadAll(file)
	require.NoError(t, err)

	return string(content)
}

func TestNew(t *testing.T) {
	tree := dirtree.New(testFs(t), "/data")

	var paths []string
	for entry := range filetree.WalkSeq(tree) {
		paths = append(paths, entry.Path("/"))
	}

	assert.Equal(t, []string{
		"empty", "Other", "Other/d.bin", "sub", "sub/deep", "sub/deep/c", "sub/b.txt", "a.txt",
	}, paths)
	require.NoError(t, tree.Err())

	assert.Equal(t, "c", read(t, tree.Find("SUB/deep/C", filetree.FileTypeFile)))

	source, ok := tree.Find("a.txt", filetree.FileTypeFile).Sys().(*dirtree.Source)
	require.True(t, ok)

	info, err := source.Stat()
	require.NoError(t, err)
	assert.EqualValues(t, 1, info.Size())
}

func TestNewLazy(t *testing.T) {
	tree := dirtree.New(testFs(t), "/data")

	sub := tree.FindDirectory("sub")
	require.NotNil(t, sub)
	assert.False(t, sub.Populated())

	backend, ok := sub.Backend().(*dirtree.Backend)
	require.True(t, ok)
	assert.Equal(t, "/data/sub", backend.Path())
}

func TestPopulateError(t *testing.T) {
	tree := dirtree.New(afero.NewMemMapFs(), "/missing")

	assert.True(t, tree.Empty())
	assert.ErrorIs(t, tree.Err(), fs.ErrNotExist)
}

func TestMemoryMode(t *testing.T) {
	fsys := testFs(t)
	tree := dirtree.New(fsys, "/data")

	a := tree.Find("a.txt", filetree.FileTypeFile)
	require.True(t, tree.Move(a, "moved/renamed.txt", filetree.InsertFailIfExists))
	assert.Equal(t, "a", read(t, a))

	copied := tree.Copy(tree.Find("sub", filetree.FileTypeDirectory), "copy", filetree.InsertFailIfExists)
	require.NotNil(t, copied)
	assert.Equal(t, "b", read(t, tree.Find("copy/b.txt", filetree.FileTypeFile)))

	created := tree.AddFile("new.txt", false)
	require.NotNil(t, created)

	_, err := dirtree.Open(created)
	require.ErrorIs(t, err, filetree.ErrNoContent)

	assert.Equal(t, 1, tree.RemoveAll("Other"))

	exists, err := afero.Exists(fsys, "/data/a.txt")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = afero.DirExists(fsys, "/data/Other")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = afero.DirExists(fsys, "/data/moved")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestReadOnly(t *testing.T) {
	tree := dirtree.New(testFs(t), "/data", dirtree.ReadOnly())

	assert.Nil(t, tree.AddDirectory("x"))
	assert.Nil(t, tree.AddFile("x", false))
	assert.False(t, tree.Find("a.txt", filetree.FileTypeFile).Detach())
	assert.Zero(t, tree.Clear())
	assert.Nil(t, tree.Insert(filetree.NewFile("y", nil), filetree.InsertFailIfExists))

	sub := tree.FindDirectory("sub")
	assert.False(t, tree.Move(sub.Find("b.txt", filetree.FileTypeFile), "b.txt", filetree.InsertFailIfExists))

	a := tree.Find("a.txt", filetree.FileTypeFile)
	assert.False(t, tree.Move(a, "renamed.txt", filetree.InsertFailIfExists))
	assert.False(t, tree.Move(a, "A.TXT", filetree.InsertFailIfExists))
	assert.False(t, tree.Move(sub.AsEntry(), "renamed", filetree.InsertFailIfExists))
	assert.Equal(t, "a.txt", a.Name())
	assert.Equal(t, "sub", sub.Name())
	assert.False(t, tree.Exists("renamed.txt", filetree.FileTypeEither))
	assert.False(t, tree.Exists("renamed", filetree.FileTypeEither))

	_, err := filetree.New().Merge(tree, nil)
	require.NoError(t, err, "merging out of a read-only tree drains it in memory")
}

func TestMirror(t *testing.T) {
	fsys := testFs(t)
	tree := dirtree.New(fsys, "/data", dirtree.Mirror())

	t.Run("add directory", func(t *testing.T) {
		dir := tree.AddDirectory("created/nested")
		require.NotNil(t, dir)

		exists, err := afero.DirExists(fsys, "/data/created/nested")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("add file", func(t *testing.T) {
		file := tree.AddFile("created/file.txt", false)
		require.NotNil(t, file)

		info, err := fsys.Stat("/data/created/file.txt")
		require.NoError(t, err)
		assert.Zero(t, info.Size())
		assert.Empty(t, read(t, file))
	})

	t.Run("replace refused", func(t *testing.T) {
		assert.Nil(t, tree.AddFile("a.txt", true))
		assert.Equal(t, "a", read(t, tree.Find("a.txt", filetree.FileTypeFile)))
	})

	t.Run("rename refused", func(t *testing.T) {
		a := tree.Find("a.txt", filetree.FileTypeFile)
		assert.False(t, tree.Move(a, "renamed.txt", filetree.InsertFailIfExists))
		assert.Equal(t, "a.txt", a.Name())

		exists, err := afero.Exists(fsys, "/data/a.txt")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("insert refused", func(t *testing.T) {
		assert.False(t, tree.Move(tree.Find("a.txt", filetree.FileTypeFile), "sub/", filetree.InsertFailIfExists))
	})

	t.Run("remove file", func(t *testing.T) {
		removed := tree.EraseName("a.txt")
		require.NotNil(t, removed)

		_, err := fsys.Stat("/data/a.txt")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("remove directory", func(t *testing.T) {
		sub := tree.FindDirectory("sub")
		require.NotNil(t, sub)
		require.True(t, sub.Detach())

		exists, err := afero.DirExists(fsys, "/data/sub")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("remove nested", func(t *testing.T) {
		assert.Equal(t, 1, tree.FindDirectory("Other").RemoveAll("d.bin"))

		exists, err := afero.Exists(fsys, "/data/Other/d.bin")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
