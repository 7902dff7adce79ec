// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filetree

import (
	"errors"
	"fmt"
	"iter"
	"regexp"
	"strings"
)

const recursiveSegment = "**"

type globSegment struct {
	recursive bool
	re        *regexp.Regexp
}

func (s globSegment) match(entry *Entry) bool {
	return s.re.MatchString(entry.name)
}

// Glob returns an iterator over the entries below tree matching pattern.
//
// The pattern is split into segments at slashes and backslashes. Every
// segment matches a single path segment case-insensitively, except "**",
// which matches any number of directories, including none. So "**" alone
// yields tree and all directories below it, while "**/*" yields every entry
// below tree. In [GlobModeGlob] segments support "*", "?" and character
// classes like "[a-z]" or "[!a-z]". In [GlobModeRegex] each segment is a
// regular expression that must match the whole name.
//
// Every matching entry is yielded once. Directories are populated as the
// iteration reaches them. An error wrapping [ErrInvalidPattern] is returned
// if the pattern can not be compiled.
func Glob(tree *Tree, pattern string, mode GlobMode) (iter.Seq[*Entry], error) {
	segments, err := compilePattern(pattern, mode)
	if err != nil {
		return nil, err
	}

	return func(yield func(*Entry) bool) {
		type state struct {
			tree *Tree
			idx  int
		}

		seen := make(map[*Entry]struct{})
		emit := func(entry *Entry) bool {
			if _, exists := seen[entry]; exists {
				return true
			}

			seen[entry] = struct{}{}

			return yield(entry)
		}

		stack := []state{{tree: tree}}

		for len(stack) > 0 {
			current := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if current.idx == len(segments) {
				if !emit(&current.tree.Entry) {
					return
				}

				continue
			}

			segment := segments[current.idx]

			if segment.recursive {
				for entry := range current.tree.Backward() {
					if entry.IsDir() {
						stack = append(stack, state{tree: entry.tree, idx: current.idx})
					}
				}

				stack = append(stack, state{tree: current.tree, idx: current.idx + 1})

				continue
			}

			last := current.idx+1 == len(segments)
			descend := []state{}

			for entry := range current.tree.All() {
				if !segment.match(entry) {
					continue
				}

				if last {
					if !emit(entry) {
						return
					}
				} else if entry.IsDir() {
					descend = append(descend, state{tree: entry.tree, idx: current.idx + 1})
				}
			}

			for i := len(descend) - 1; i >= 0; i-- {
				stack = append(stack, descend[i])
			}
		}
	}, nil
}

func compilePattern(pattern string, mode GlobMode) ([]globSegment, error) {
	var segments []globSegment

	for _, part := range splitPath(pattern) {
		if part == recursiveSegment {
			if len(segments) == 0 || !segments[len(segments)-1].recursive {
				segments = append(segments, globSegment{recursive: true})
			}

			continue
		}

		expr := part
		if mode == GlobModeGlob {
			translated, err := globToRegexp(part)
			if err != nil {
				return nil, err
			}

			expr = translated
		}

		re, err := regexp.Compile("(?i)^(?:" + expr + ")$")
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, part, err)
		}

		segments = append(segments, globSegment{re: re})
	}

	return segments, nil
}

// globToRegexp translates a single glob segment into a regular expression.
func globToRegexp(glob string) (string, error) {
	var expr strings.Builder

	runes := []rune(glob)

	for idx := 0; idx < len(runes); idx++ {
		switch r := runes[idx]; r {
		case '*':
			expr.WriteString(".*")
		case '?':
			expr.WriteString(".")
		case '[':
			end, class, err := translateClass(runes, idx)
			if err != nil {
				return "", fmt.Errorf("%w: %q: %w", ErrInvalidPattern, glob, err)
			}

			expr.WriteString(class)

			idx = end
		default:
			expr.WriteString(regexp.QuoteMeta(string(r)))
		}
	}

	return expr.String(), nil
}

var errUnterminatedClass = errors.New("unterminated character class")

// translateClass translates the character class starting at runes[start]
// and returns the index of its closing bracket.
func translateClass(runes []rune, start int) (int, string, error) {
	var class strings.Builder

	class.WriteByte('[')

	idx := start + 1
	if idx < len(runes) && (runes[idx] == '!' || runes[idx] == '^') {
		class.WriteByte('^')

		idx++
	}

	// A closing bracket right at the start is a literal.
	if idx < len(runes) && runes[idx] == ']' {
		class.WriteString(`\]`)

		idx++
	}

	for ; idx < len(runes); idx++ {
		switch r := runes[idx]; r {
		case ']':
			class.WriteByte(']')

			return idx, class.String(), nil
		case '\\', '[', '^':
			class.WriteByte('\\')
			class.WriteRune(r)
		default:
			class.WriteRune(r)
		}
	}

	return 0, "", errUnterminatedClass
}
