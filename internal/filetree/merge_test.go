// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filetree_test

import (
	"testing"

	"github.com/aibor/filetree/internal/backend/listing"
	"github.com/aibor/filetree/internal/filetree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeMerge(t *testing.T) {
	t.Run("into parent", func(t *testing.T) {
		tree := basicTree()
		entries := mapping(tree)
		e := tree.FindDirectory("e")
		eq := tree.FindDirectory("e/q")

		overwrites := filetree.Overwrites{}
		count, err := tree.Merge(e, overwrites)
		require.NoError(t, err)
		assert.Zero(t, count)
		assert.Empty(t, overwrites)
		assert.True(t, e.Empty())

		assertTree(t, tree, map[string]bool{
			"a":       true,
			"b":       true,
			"c.x":     false,
			"d.y":     false,
			"e":       true,
			"q":       true,
			"q/c.t":   false,
			"q/p":     true,
		})

		p := tree.AddFile("p", false)
		require.NotNil(t, p)

		clear(overwrites)
		count, err = tree.Merge(eq, overwrites)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		assert.Equal(t, filetree.Overwrites{p: entries["e/q/p"]}, overwrites)

		assertTree(t, tree, map[string]bool{
			"a":   true,
			"b":   true,
			"c.x": false,
			"d.y": false,
			"e":   true,
			"q":   true,
			"c.t": false,
			"p":   true,
		})
		assert.Same(t, entries["e/q/p"], tree.Find("p", filetree.FileTypeEither))
		assert.Nil(t, p.Parent())
	})

	t.Run("into parent holding the same name", func(t *testing.T) {
		tree := filetree.New()
		f := tree.AddFile("a/a/f", false)
		require.NotNil(t, f)

		a := tree.FindDirectory("a")
		inner := tree.FindDirectory("a/a")

		count, err := tree.Merge(a, nil)
		require.NoError(t, err)
		assert.Zero(t, count)

		assertTree(t, tree, map[string]bool{
			"a":   true,
			"a/f": false,
		})
		assert.Same(t, f, tree.Find("a/f", filetree.FileTypeFile))
		assert.Same(t, a, f.Parent())
		assert.Equal(t, 1, a.Size())
		assert.Nil(t, inner.Parent())
		assert.True(t, inner.Empty())
	})

	t.Run("cycle", func(t *testing.T) {
		tree := basicTree()

		for _, dst := range []*filetree.Tree{tree.FindDirectory("e"), tree.FindDirectory("e/q"), tree} {
			count, err := dst.Merge(tree, nil)
			require.ErrorIs(t, err, filetree.ErrMergeFailed)
			require.ErrorIs(t, err, filetree.ErrCycle)
			assert.Zero(t, count)
		}

		assert.Equal(t, 5, tree.Size())
	})

	t.Run("separate trees", func(t *testing.T) {
		tree1 := listing.New("a/b/c/m.y", "a/b/c/n/", "a/b/x.t", "a/b/y.t", "b/", "c")
		map1 := mapping(tree1)

		tree2 := listing.New("a/b/c/m.y", "a/b/c/n", "a/b/y.t", "b/v", "b/e/")
		map2 := mapping(tree2)

		overwrites := filetree.Overwrites{}
		count, err := tree1.Merge(tree2, overwrites)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
		assert.Equal(t, filetree.Overwrites{
			map1["a/b/c/m.y"]: map2["a/b/c/m.y"],
			map1["a/b/c/n"]:   map2["a/b/c/n"],
			map1["a/b/y.t"]:   map2["a/b/y.t"],
		}, overwrites)

		assertTree(t, tree1, map[string]bool{
			"a":         true,
			"b":         true,
			"c":         false,
			"a/b":       true,
			"a/b/c":     true,
			"a/b/c/m.y": false,
			"a/b/c/n":   false,
			"a/b/x.t":   false,
			"a/b/y.t":   false,
			"b/v":       false,
			"b/e":       true,
		})

		for _, path := range []string{"a", "a/b", "a/b/c", "b"} {
			assert.Same(t, map1[path], tree1.Find(path, filetree.FileTypeEither), path)
		}

		for _, path := range []string{"a/b/c/m.y", "a/b/c/n", "a/b/y.t", "b/v", "b/e"} {
			assert.Same(t, map2[path], tree1.Find(path, filetree.FileTypeEither), path)
		}

		assert.True(t, tree2.Empty())
	})

	t.Run("without overwrites", func(t *testing.T) {
		tree1 := listing.New("x", "y")
		tree2 := listing.New("x", "z")

		count, err := tree1.Merge(tree2, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		assert.Equal(t, []string{"x", "y", "z"}, names(tree1.All()))
	})

	t.Run("veto keeps remainder in source", func(t *testing.T) {
		dst := filetree.NewTree("", &vetoBackend{denyReplace: true})
		require.NotNil(t, dst.AddFile("b", false))

		src := listing.New("a", "b", "c")
		entries := mapping(src)

		count, err := dst.Merge(src, nil)
		require.ErrorIs(t, err, filetree.ErrMergeFailed)
		require.ErrorIs(t, err, filetree.ErrVetoed)
		assert.Zero(t, count)

		assert.Same(t, entries["a"], dst.Find("a", filetree.FileTypeFile))
		assert.Same(t, dst, entries["a"].Parent())
		assert.Equal(t, []string{"b", "c"}, names(src.All()))
		assert.Same(t, src, entries["b"].Parent())
	})

	t.Run("nil source", func(t *testing.T) {
		count, err := basicTree().Merge(nil, nil)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}
