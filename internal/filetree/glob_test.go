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

func globSet(t *testing.T, tree *filetree.Tree, pattern string, mode filetree.GlobMode) map[*filetree.Entry]struct{} {
	t.Helper()

	seq, err := filetree.Glob(tree, pattern, mode)
	require.NoError(t, err)

	entries := collect(seq)
	set := entrySet(entries...)
	assert.Len(t, set, len(entries), "duplicate entries for %s", pattern)

	return set
}

func TestGlobSmall(t *testing.T) {
	tree := listing.New("a/", "a/g.t", "b/", "b/u", "b/v", "c.x", "d.y", "e/q/c.t", "e/q/m.x", "e/q/p/")
	m := mapping(tree)
	root := tree.AsEntry()

	tests := []struct {
		glob     string
		regex    string
		expected []*filetree.Entry
	}{
		{"*", ".*", []*filetree.Entry{m["a"], m["b"], m["c.x"], m["d.y"], m["e"]}},
		{"**", "**", []*filetree.Entry{root, m["a"], m["b"], m["e"], m["e/q"], m["e/q/p"]}},
		{"*.x", ".*[.]x", []*filetree.Entry{m["c.x"]}},
		{"**/*.x", "**/.*[.]x", []*filetree.Entry{m["c.x"], m["e/q/m.x"]}},
		{"*.t", ".*[.]t", nil},
		{"**/*.t", "**/.*[.]t", []*filetree.Entry{m["a/g.t"], m["e/q/c.t"]}},
		{"a/*", "a/.*", []*filetree.Entry{m["a/g.t"]}},
		{"**/*.[xt]", "**/.*[.][xt]", []*filetree.Entry{m["c.x"], m["e/q/m.x"], m["a/g.t"], m["e/q/c.t"]}},
		{"?.?", ".[.].", []*filetree.Entry{m["c.x"], m["d.y"]}},
		{"[!c]*.?", "[^c].*[.].", []*filetree.Entry{m["d.y"]}},
		{"C.X", "C[.]X", []*filetree.Entry{m["c.x"]}},
	}

	for _, tt := range tests {
		t.Run(tt.glob, func(t *testing.T) {
			expected := entrySet(tt.expected...)
			assert.Equal(t, expected, globSet(t, tree, tt.glob, filetree.GlobModeGlob), "glob")
			assert.Equal(t, expected, globSet(t, tree, tt.regex, filetree.GlobModeRegex), "regex")
		})
	}
}

func TestGlobLarge(t *testing.T) {
	tree := listing.New(
		"aq.js", "bb/", "cm.tx", "dp.js", "ev", "go.ya", "gw.md", "hh", "hl/", "in/", "mz/", "sc/",
		"bb/ce.cp", "bb/cm.tx", "bb/gw/", "bb/iw.cp", "bb/js/", "bb/px.cp", "hl/ds.in", "in/nu/",
		"mz/tu.js", "sc/cm.tx", "sc/cw.ts", "sc/cz.rc", "sc/dr.cp", "sc/hh.cp", "sc/kn.ui",
		"sc/lr.cp", "sc/nd.o", "sc/nv.o", "sc/rv.ui", "sc/tv.h",
		"bb/gw/cp.qm", "bb/gw/hq.qm", "bb/gw/pu.ts", "bb/gw/tu.ts", "bb/js/cm.tx", "bb/js/co.cp",
		"in/nu/el.h", "in/nu/fj.h", "in/nu/lw/", "in/nu/xx/",
		"in/nu/lw/cp.h", "in/nu/lw/go.h", "in/nu/xx/ap.h", "in/nu/xx/qz.h",
	)
	m := mapping(tree)

	pick := func(paths ...string) []*filetree.Entry {
		result := make([]*filetree.Entry, 0, len(paths))
		for _, path := range paths {
			entry, exists := m[path]
			require.True(t, exists, path)
			result = append(result, entry)
		}

		return result
	}

	all := make([]*filetree.Entry, 0, len(m))
	for _, entry := range m {
		all = append(all, entry)
	}

	tests := []struct {
		pattern  string
		expected []*filetree.Entry
	}{
		{"*.h", nil},
		{"*", pick("aq.js", "bb", "cm.tx", "dp.js", "ev", "go.ya", "gw.md", "hh", "hl", "in", "mz", "sc")},
		{"*/*", pick(
			"bb/ce.cp", "bb/cm.tx", "bb/gw", "bb/iw.cp", "bb/js", "bb/px.cp", "hl/ds.in", "in/nu",
			"mz/tu.js", "sc/cm.tx", "sc/cw.ts", "sc/cz.rc", "sc/dr.cp", "sc/hh.cp", "sc/kn.ui",
			"sc/lr.cp", "sc/nd.o", "sc/nv.o", "sc/rv.ui", "sc/tv.h",
		)},
		{"*/*/*", pick(
			"bb/gw/cp.qm", "bb/gw/hq.qm", "bb/gw/pu.ts", "bb/gw/tu.ts", "bb/js/cm.tx",
			"bb/js/co.cp", "in/nu/el.h", "in/nu/fj.h", "in/nu/lw", "in/nu/xx",
		)},
		{"**", append([]*filetree.Entry{tree.AsEntry()}, pick(
			"bb", "bb/gw", "bb/js", "hl", "in", "in/nu", "in/nu/lw", "in/nu/xx", "mz", "sc",
		)...)},
		{"**/*", all},
		{"**/cm.tx", pick("cm.tx", "bb/cm.tx", "bb/js/cm.tx", "sc/cm.tx")},
		{"**/sc/**/cm.tx", pick("sc/cm.tx")},
		{"**/sc", pick("sc")},
		{"in/**", pick("in", "in/nu", "in/nu/lw", "in/nu/xx")},
		{"in/**/**", pick("in", "in/nu", "in/nu/lw", "in/nu/xx")},
		{"in/*/*", pick("in/nu/el.h", "in/nu/fj.h", "in/nu/lw", "in/nu/xx")},
		{"in/*/*.h", pick("in/nu/el.h", "in/nu/fj.h")},
		{"sc/**/*.cp", pick("sc/dr.cp", "sc/hh.cp", "sc/lr.cp")},
		{"sc/**/n*.o", pick("sc/nd.o", "sc/nv.o")},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, entrySet(tt.expected...), globSet(t, tree, tt.pattern, filetree.GlobModeGlob))
		})
	}
}

func TestGlobEarlyStop(t *testing.T) {
	tree := listing.New("a/x", "b/y", "c/z")

	seq, err := filetree.Glob(tree, "**/*", filetree.GlobModeGlob)
	require.NoError(t, err)

	for entry := range seq {
		assert.Equal(t, "a", entry.Name())
		break
	}

	assert.False(t, tree.FindDirectory("b").Populated())
}

func TestGlobInvalidPattern(t *testing.T) {
	tests := []struct {
		pattern string
		mode    filetree.GlobMode
	}{
		{"[abc", filetree.GlobModeGlob},
		{"a/[z-a]", filetree.GlobModeGlob},
		{"(unclosed", filetree.GlobModeRegex},
		{"a/*+", filetree.GlobModeRegex},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			_, err := filetree.Glob(listing.New(), tt.pattern, tt.mode)
			assert.ErrorIs(t, err, filetree.ErrInvalidPattern)
		})
	}
}

func TestGlobLiteralMeta(t *testing.T) {
	tree := listing.New("a+b.txt", "a(1).txt", "[x]")
	m := mapping(tree)

	assert.Equal(t, entrySet(m["a+b.txt"]), globSet(t, tree, "a+b.*", filetree.GlobModeGlob))
	assert.Equal(t, entrySet(m["a(1).txt"]), globSet(t, tree, "a(?).txt", filetree.GlobModeGlob))
	assert.Equal(t, entrySet(m["[x]"]), globSet(t, tree, "[[]x]", filetree.GlobModeGlob))
}
