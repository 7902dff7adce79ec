// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filetree_test

import (
	"strings"
	"testing"

	"github.com/aibor/filetree/internal/backend/listing"
	"github.com/aibor/filetree/internal/filetree"
	"github.com/stretchr/testify/assert"
)

type visit struct {
	path  string
	entry *filetree.Entry
}

func walkTree() (*filetree.Tree, map[string]*filetree.Entry) {
	tree := listing.New("a/", "b/", "b/u", "b/v", "c.x", "d.y", "e/q/c.t", "e/q/p/")
	return tree, mapping(tree)
}

func TestWalk(t *testing.T) {
	tree, entries := walkTree()

	all := []visit{
		{"", entries["a"]},
		{"", entries["b"]},
		{"b/", entries["b/u"]},
		{"b/", entries["b/v"]},
		{"", entries["e"]},
		{"e/", entries["e/q"]},
		{"e/q/", entries["e/q/p"]},
		{"e/q/", entries["e/q/c.t"]},
		{"", entries["c.x"]},
		{"", entries["d.y"]},
	}

	tests := []struct {
		name     string
		onE      filetree.WalkSignal
		expected []visit
	}{
		{
			name:     "continue",
			onE:      filetree.WalkContinue,
			expected: all,
		},
		{
			name:     "stop",
			onE:      filetree.WalkStop,
			expected: all[:4],
		},
		{
			name:     "skip",
			onE:      filetree.WalkSkip,
			expected: append(append([]visit{}, all[:4]...), all[8:]...),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var actual []visit

			filetree.Walk(tree, func(path string, entry *filetree.Entry) filetree.WalkSignal {
				if entry.Name() == "e" && tt.onE != filetree.WalkContinue {
					return tt.onE
				}

				actual = append(actual, visit{path, entry})

				return filetree.WalkContinue
			}, "/")

			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestWalkDefaultSeparator(t *testing.T) {
	tree, _ := walkTree()

	var paths []string

	filetree.Walk(tree, func(path string, entry *filetree.Entry) filetree.WalkSignal {
		paths = append(paths, path+entry.Name())
		return filetree.WalkContinue
	}, "")

	assert.Contains(t, paths, `e\q\c.t`)
}

func TestWalkSeq(t *testing.T) {
	tree, entries := walkTree()

	expected := []*filetree.Entry{
		entries["a"], entries["b"], entries["b/u"], entries["b/v"],
		entries["e"], entries["e/q"], entries["e/q/p"], entries["e/q/c.t"],
		entries["c.x"], entries["d.y"],
	}
	assert.Equal(t, expected, collect(filetree.WalkSeq(tree)))

	var actual []*filetree.Entry
	for entry := range filetree.WalkSeq(tree) {
		if entry.Name() == "e" {
			break
		}

		actual = append(actual, entry)
	}

	assert.Equal(t, expected[:4], actual)
}

func TestWalkSeqLazy(t *testing.T) {
	tree := listing.New("a/x", "b/y")

	for entry := range filetree.WalkSeq(tree) {
		if entry.Name() == "a" {
			break
		}
	}

	assert.False(t, tree.FindDirectory("a").Populated())
	assert.False(t, tree.FindDirectory("b").Populated())
}

func TestWalkDeep(t *testing.T) {
	const depth = 10000

	tree := filetree.New()
	dir := tree.AddDirectory(strings.Repeat("d/", depth))

	if assert.NotNil(t, dir) {
		count := 0
		for range filetree.WalkSeq(tree) {
			count++
		}

		assert.Equal(t, depth, count)
	}
}
