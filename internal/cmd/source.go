// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/aibor/filetree/internal/backend/cpiotree"
	"github.com/aibor/filetree/internal/backend/dirtree"
	"github.com/aibor/filetree/internal/backend/listing"
	"github.com/aibor/filetree/internal/backend/s3tree"
	"github.com/aibor/filetree/internal/filetree"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/afero"
)

const (
	stdinSource = "-"
	s3Scheme    = "s3"
	cpioSuffix  = ".cpio"
)

// sources loads source arguments into trees and collects the openers
// required to read the content of their files.
type sources struct {
	ctx        context.Context //nolint:containedctx
	stdin      io.Reader
	fs         afero.Fs
	s3Endpoint string

	s3Client s3tree.Client
	openers  []filetree.Opener
	seen     map[string]bool
}

func newSources(ctx context.Context, stdin io.Reader, s3Endpoint string) *sources {
	return &sources{
		ctx:        ctx,
		stdin:      stdin,
		fs:         afero.NewOsFs(),
		s3Endpoint: s3Endpoint,
		seen:       map[string]bool{},
	}
}

// load returns the tree for the source argument.
func (s *sources) load(arg string) (*filetree.Tree, error) {
	switch {
	case arg == stdinSource:
		return s.loadListing()
	case strings.HasPrefix(arg, s3Scheme+"://"):
		return s.loadS3(arg)
	default:
		return s.loadPath(arg)
	}
}

func (s *sources) loadListing() (*filetree.Tree, error) {
	tree, err := listing.Read(s.stdin)
	if err != nil {
		return nil, fmt.Errorf("read listing: %w", err)
	}

	return tree, nil
}

func (s *sources) loadPath(arg string) (*filetree.Tree, error) {
	path, err := filepath.Abs(arg)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}

	info, err := s.fs.Stat(path)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if info.IsDir() {
		s.addOpener("dir", dirtree.Open)
		return dirtree.New(s.fs, path), nil
	}

	if !strings.EqualFold(filepath.Ext(path), cpioSuffix) {
		return nil, fmt.Errorf("%w: %s: neither directory nor cpio archive", ErrInvalidSource, arg)
	}

	archive, err := s.fs.Open(path)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	defer archive.Close()

	tree, err := cpiotree.Read(archive)
	if err != nil {
		return nil, fmt.Errorf("read archive %s: %w", arg, err)
	}

	s.addOpener("cpio", cpiotree.Open)

	return tree, nil
}

func (s *sources) loadS3(arg string) (*filetree.Tree, error) {
	bucket, prefix, err := parseS3URL(arg)
	if err != nil {
		return nil, err
	}

	if s.s3Client == nil {
		client, err := newS3Client(s.ctx, s.s3Endpoint)
		if err != nil {
			return nil, err
		}

		s.s3Client = client
	}

	s.addOpener("s3", s3tree.Opener(s.ctx, s.s3Client))

	return s3tree.New(s.ctx, s.s3Client, bucket, prefix), nil
}

func (s *sources) addOpener(kind string, open filetree.Opener) {
	if s.seen[kind] {
		return
	}

	s.seen[kind] = true
	s.openers = append(s.openers, open)
}

// open tries all collected openers until one serves the entry.
func (s *sources) open(entry *filetree.Entry) (fs.File, error) {
	for _, open := range s.openers {
		file, err := open(entry)
		if errors.Is(err, filetree.ErrNoContent) {
			continue
		}

		return file, err
	}

	return nil, &fs.PathError{Op: "open", Path: entry.Path("/"), Err: filetree.ErrNoContent}
}

func parseS3URL(arg string) (string, string, error) {
	location, err := url.Parse(arg)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}

	if location.Scheme != s3Scheme || location.Host == "" {
		return "", "", fmt.Errorf("%w: %s: no bucket", ErrInvalidSource, arg)
	}

	return location.Host, strings.TrimPrefix(location.Path, "/"), nil
}

func newS3Client(ctx context.Context, endpoint string) (*s3.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	slog.Debug("Created S3 client", slog.String("endpoint", endpoint))

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
