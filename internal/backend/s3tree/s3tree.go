// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package s3tree provides a back-end that populates trees from the objects
// below a prefix of an S3 bucket. Each directory is listed with a delimiter
// the first time it is needed. Nothing is ever written to the bucket:
// changes of the tree stay in memory.
package s3tree

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/aibor/filetree/internal/filetree"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const delimiter = "/"

// Client is the part of [s3.Client] the back-end uses.
type Client interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Object is the [filetree.Entry.Sys] value of file entries created from
// objects.
type Object struct {
	Bucket  string
	Key     string
	Size    int64
	ModTime time.Time
}

// Stat describes the object as listed.
func (o *Object) Stat() (fs.FileInfo, error) {
	return objectInfo{name: path.Base(o.Key), object: o}, nil
}

// Backend lists a single prefix.
type Backend struct {
	filetree.BaseBackend

	//nolint:containedctx
	ctx    context.Context
	client Client
	bucket string
	prefix string
}

var _ filetree.Backend = (*Backend)(nil)

// New returns a tree for the objects below prefix in bucket. The context is
// used for all listings done while populating the tree.
func New(ctx context.Context, client Client, bucket, prefix string) *filetree.Tree {
	prefix = strings.TrimPrefix(prefix, delimiter)
	if prefix != "" && !strings.HasSuffix(prefix, delimiter) {
		prefix += delimiter
	}

	return filetree.NewTree("", &Backend{
		ctx:    ctx,
		client: client,
		bucket: bucket,
		prefix: prefix,
	})
}

// Prefix returns the key prefix the back-end lists.
func (b *Backend) Prefix() string {
	return b.prefix
}

func (b *Backend) child(name string) *Backend {
	child := *b
	child.prefix = b.prefix + name + delimiter

	return &child
}

// Populate lists the prefix. Common prefixes become directories, objects
// become files. Names that only differ in case are listed once, directories
// win over files.
func (b *Backend) Populate(_ *filetree.Tree) ([]*filetree.Entry, bool, error) {
	listing := newObjectListing()

	paginator := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(b.bucket),
		Prefix:    aws.String(b.prefix),
		Delimiter: aws.String(delimiter),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(b.ctx)
		if err != nil {
			slog.Debug("Failed to list objects",
				slog.String("bucket", b.bucket),
				slog.String("prefix", b.prefix),
				slog.Any("error", err),
			)

			return listing.entries(), false, fmt.Errorf("list %s/%s: %w", b.bucket, b.prefix, err)
		}

		for _, prefix := range page.CommonPrefixes {
			name := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(prefix.Prefix), b.prefix), delimiter)
			if name == "" {
				continue
			}

			listing.addDir(filetree.NewTree(name, b.child(name)).AsEntry())
		}

		for _, object := range page.Contents {
			key := aws.ToString(object.Key)

			name := strings.TrimPrefix(key, b.prefix)
			if name == "" || strings.Contains(name, delimiter) {
				// Directory marker objects.
				continue
			}

			listing.addFile(filetree.NewFile(name, &Object{
				Bucket:  b.bucket,
				Key:     key,
				Size:    aws.ToInt64(object.Size),
				ModTime: aws.ToTime(object.LastModified),
			}))
		}
	}

	return listing.entries(), false, nil
}

// objectListing collects the children of a prefix across pages.
type objectListing struct {
	dirs     []*filetree.Entry
	files    []*filetree.Entry
	dirKeys  map[string]struct{}
	fileKeys map[string]struct{}
}

func newObjectListing() *objectListing {
	return &objectListing{
		dirKeys:  make(map[string]struct{}),
		fileKeys: make(map[string]struct{}),
	}
}

func (l *objectListing) addDir(entry *filetree.Entry) {
	if addKey(l.dirKeys, entry) {
		l.dirs = append(l.dirs, entry)
	}
}

func (l *objectListing) addFile(entry *filetree.Entry) {
	if addKey(l.fileKeys, entry) {
		l.files = append(l.files, entry)
	}
}

func (l *objectListing) entries() []*filetree.Entry {
	entries := l.dirs

	for _, file := range l.files {
		if _, exists := l.dirKeys[filetree.FoldName(file.Name())]; exists {
			slog.Debug("Skipping object shadowed by prefix", slog.String("name", file.Name()))
			continue
		}

		entries = append(entries, file)
	}

	return entries
}

// addKey records the key of entry and returns false if it was known already.
func addKey(keys map[string]struct{}, entry *filetree.Entry) bool {
	key := filetree.FoldName(entry.Name())
	if _, exists := keys[key]; exists {
		slog.Debug("Skipping name differing in case only", slog.String("name", entry.Name()))
		return false
	}

	keys[key] = struct{}{}

	return true
}

// MakeDirectory returns a new empty in-memory directory.
func (b *Backend) MakeDirectory(_ *filetree.Tree, name string) *filetree.Tree {
	return filetree.NewTree(name, b.child(name))
}

// Clone returns an unpopulated tree for the same prefix.
func (b *Backend) Clone(tree *filetree.Tree) *filetree.Tree {
	clone := *b

	return filetree.NewTree(tree.Name(), &clone)
}

type objectInfo struct {
	name   string
	object *Object
}

func (i objectInfo) Name() string       { return i.name }
func (i objectInfo) Size() int64        { return i.object.Size }
func (i objectInfo) Mode() fs.FileMode  { return 0o444 }
func (i objectInfo) ModTime() time.Time { return i.object.ModTime }
func (i objectInfo) IsDir() bool        { return false }
func (i objectInfo) Sys() any           { return i.object }

type objectFile struct {
	io.ReadCloser

	info objectInfo
}

func (f *objectFile) Stat() (fs.FileInfo, error) {
	return f.info, nil
}

// Opener returns a [filetree.Opener] that streams object content with
// client.
func Opener(ctx context.Context, client Client) filetree.Opener {
	return func(entry *filetree.Entry) (fs.File, error) {
		object, ok := entry.Sys().(*Object)
		if !ok {
			return nil, &fs.PathError{Op: "open", Path: entry.Path("/"), Err: filetree.ErrNoContent}
		}

		output, err := client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(object.Bucket),
			Key:    aws.String(object.Key),
		})
		if err != nil {
			return nil, fmt.Errorf("get object %s: %w", object.Key, err)
		}

		return &objectFile{
			ReadCloser: output.Body,
			info:       objectInfo{name: entry.Name(), object: object},
		}, nil
	}
}
