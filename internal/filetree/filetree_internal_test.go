// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filetree

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestFoldName(t *testing.T) {
	tests := []struct {
		a, b  string
		equal bool
	}{
		{"abc", "ABC", true},
		{"ÄÖÜ", "äöü", true},
		{"ſ", "s", true},
		{"Straße", "STRASSE", false},
		{"ß", "ss", false},
		{"ǅ", "ǆ", true},
		{"a", "b", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.equal, FoldName(tt.a) == FoldName(tt.b), "%s %s", tt.a, tt.b)
	}
}

func TestCompareEntries(t *testing.T) {
	dir := NewTree("b", &MemoryBackend{}).AsEntry()
	file := NewFile("a", nil)
	upper := NewFile("B", nil)

	assert.Negative(t, compareEntries(dir, file))
	assert.Positive(t, compareEntries(file, dir))
	assert.Negative(t, compareEntries(file, upper))
	assert.Zero(t, compareEntries(NewFile("X", nil), NewFile("x", nil)))
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		path     string
		expected []string
	}{
		{"", []string{}},
		{"/", []string{}},
		{"a", []string{"a"}},
		{`a\b/c`, []string{"a", "b", "c"}},
		{"//a//b//", []string{"a", "b"}},
		{"./a/../b", []string{".", "a", "..", "b"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, splitPath(tt.path), tt.path)
	}
}

func TestGlobToRegexp(t *testing.T) {
	tests := []struct {
		glob     string
		expected string
	}{
		{"*", ".*"},
		{"?", "."},
		{"a.b", `a\.b`},
		{"[abc]", "[abc]"},
		{"[!a-z]", "[^a-z]"},
		{"[^a]", "[^a]"},
		{"[]a]", `[\]a]`},
		{"[a^]", `[a\^]`},
		{"x+(y)", `x\+\(y\)`},
	}

	for _, tt := range tests {
		actual, err := globToRegexp(tt.glob)
		require.NoError(t, err, tt.glob)
		assert.Equal(t, tt.expected, actual, tt.glob)
	}

	_, err := globToRegexp("[a")
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestCompilePatternCollapsesRecursion(t *testing.T) {
	segments, err := compilePattern("a/**/**/**/b", GlobModeGlob)
	require.NoError(t, err)
	require.Len(t, segments, 3)
	assert.False(t, segments[0].recursive)
	assert.True(t, segments[1].recursive)
	assert.False(t, segments[2].recursive)
}

type slowBackend struct {
	MemoryBackend

	calls   atomic.Int32
	release chan struct{}
}

func (b *slowBackend) Populate(_ *Tree) ([]*Entry, bool, error) {
	b.calls.Add(1)
	<-b.release

	return []*Entry{NewFile("a", nil)}, false, nil
}

func TestPopulateConcurrently(t *testing.T) {
	backend := &slowBackend{release: make(chan struct{})}
	tree := NewTree("", backend)

	var (
		group   errgroup.Group
		started sync.WaitGroup
	)

	for range 8 {
		started.Add(1)
		group.Go(func() error {
			started.Done()
			assert.Equal(t, 1, tree.Size())

			return nil
		})
	}

	started.Wait()
	close(backend.release)
	require.NoError(t, group.Wait())

	assert.EqualValues(t, 1, backend.calls.Load())
	assert.True(t, tree.Populated())
	assert.Same(t, tree, tree.entries[0].parent)
}

func TestInsertSortedStable(t *testing.T) {
	tree := New()
	tree.markPopulated()

	for _, name := range []string{"c", "a", "b"} {
		tree.insertSorted(NewFile(name, nil))
	}

	tree.insertSorted(NewTree("z", &MemoryBackend{}).AsEntry())

	var names []string
	for _, entry := range tree.entries {
		names = append(names, entry.name)
	}

	assert.Equal(t, []string{"z", "a", "b", "c"}, names)
}
