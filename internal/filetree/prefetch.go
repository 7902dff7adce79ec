// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filetree

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Prefetch populates tree and all directories below it, level by level,
// with at most workers concurrent populations. A workers value less than 1
// means no limit. It returns the population errors of all directories joined
// together, or the context error if ctx is done before all levels are
// populated.
//
// The tree must not be mutated while Prefetch runs.
func Prefetch(ctx context.Context, tree *Tree, workers int) error {
	var (
		mutex sync.Mutex
		errs  []error
	)

	level := []*Tree{tree}

	for len(level) > 0 {
		if err := ctx.Err(); err != nil {
			return err //nolint:wrapcheck
		}

		group, groupCtx := errgroup.WithContext(ctx)
		if workers > 0 {
			group.SetLimit(workers)
		}

		next := make([][]*Tree, len(level))

		for idx, dir := range level {
			group.Go(func() error {
				if err := groupCtx.Err(); err != nil {
					return err //nolint:wrapcheck
				}

				if err := dir.Err(); err != nil {
					mutex.Lock()
					errs = append(errs, fmt.Errorf("%s: %w", dir.Path("/"), err))
					mutex.Unlock()
				}

				for _, entry := range dir.children() {
					if entry.IsDir() {
						next[idx] = append(next[idx], entry.tree)
					}
				}

				return nil
			})
		}

		if err := group.Wait(); err != nil {
			return err //nolint:wrapcheck
		}

		level = level[:0:0]
		for _, dirs := range next {
			level = append(level, dirs...)
		}
	}

	return errors.Join(errs...)
}
