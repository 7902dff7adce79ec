// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package fusefs serves a read-only [io/fs.FS] as FUSE file system.
package fusefs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"syscall"

	"github.com/aibor/filetree/internal/filetree"
	"github.com/aibor/filetree/internal/treefs"
	gofs "github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
	"golang.org/x/sys/unix"
)

const fsName = "filetree"

var (
	_ gofs.InodeEmbedder = (*Node)(nil)
	_ gofs.NodeGetattrer = (*Node)(nil)
	_ gofs.NodeLookuper  = (*Node)(nil)
	_ gofs.NodeReaddirer = (*Node)(nil)
	_ gofs.NodeOpener    = (*Node)(nil)
	_ gofs.NodeReader    = (*Node)(nil)
)

// Node is a file or directory of the mounted file system.
type Node struct {
	gofs.Inode

	fsys fs.FS
	name string
}

// NewRoot returns the root node for fsys.
func NewRoot(fsys fs.FS) *Node {
	return &Node{fsys: fsys, name: "."}
}

// Mount mounts tree read-only at dir. File content is read with open. The
// returned server must be unmounted by the caller.
func Mount(dir string, tree *filetree.Tree, open filetree.Opener, debug bool) (*fuse.Server, error) {
	opts := &gofs.Options{
		MountOptions: fuse.MountOptions{
			Debug:  debug,
			FsName: fsName,
			Name:   fsName,
		},
		UID: uint32(os.Getuid()), //nolint:gosec
		GID: uint32(os.Getgid()), //nolint:gosec
	}

	server, err := gofs.Mount(dir, NewRoot(treefs.New(tree, open)), opts)
	if err != nil {
		return nil, fmt.Errorf("mount: %w", err)
	}

	return server, nil
}

// Getattr implements [gofs.NodeGetattrer].
func (n *Node) Getattr(_ context.Context, _ gofs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	info, err := fs.Stat(n.fsys, n.name)
	if err != nil {
		return toErrno(err)
	}

	fillAttr(info, &out.Attr)

	return 0
}

// Lookup implements [gofs.NodeLookuper].
func (n *Node) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*gofs.Inode, syscall.Errno) {
	child, info, errno := n.lookup(name)
	if errno != 0 {
		return nil, errno
	}

	fillAttr(info, &out.Attr)

	return n.NewInode(ctx, child, gofs.StableAttr{Mode: out.Mode & unix.S_IFMT}), 0
}

func (n *Node) lookup(name string) (*Node, fs.FileInfo, syscall.Errno) {
	child := &Node{
		fsys: n.fsys,
		name: path.Join(n.name, name),
	}

	info, err := fs.Stat(n.fsys, child.name)
	if err != nil {
		return nil, nil, toErrno(err)
	}

	return child, info, 0
}

// Readdir implements [gofs.NodeReaddirer].
func (n *Node) Readdir(_ context.Context) (gofs.DirStream, syscall.Errno) {
	entries, err := fs.ReadDir(n.fsys, n.name)
	if err != nil {
		return nil, toErrno(err)
	}

	list := make([]fuse.DirEntry, 0, len(entries))

	for _, entry := range entries {
		mode := uint32(unix.S_IFREG)
		if entry.IsDir() {
			mode = unix.S_IFDIR
		}

		list = append(list, fuse.DirEntry{
			Name: entry.Name(),
			Mode: mode,
		})
	}

	return gofs.NewListDirStream(list), 0
}

// Open implements [gofs.NodeOpener]. The whole content is read on open.
func (n *Node) Open(_ context.Context, flags uint32) (gofs.FileHandle, uint32, syscall.Errno) {
	if flags&(unix.O_WRONLY|unix.O_RDWR) != 0 {
		return nil, 0, unix.EROFS
	}

	data, err := fs.ReadFile(n.fsys, n.name)
	if err != nil {
		return nil, 0, toErrno(err)
	}

	return &handle{data: data}, fuse.FOPEN_KEEP_CACHE, 0
}

// Read implements [gofs.NodeReader].
func (n *Node) Read(_ context.Context, fh gofs.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	h, ok := fh.(*handle)
	if !ok {
		return nil, unix.EIO
	}

	return fuse.ReadResultData(h.read(dest, off)), 0
}

type handle struct {
	data []byte
}

func (h *handle) read(dest []byte, off int64) []byte {
	if off < 0 || off >= int64(len(h.data)) {
		return nil
	}

	n := copy(dest, h.data[off:])

	return dest[:n]
}

func fillAttr(info fs.FileInfo, out *fuse.Attr) {
	perm := uint32(info.Mode().Perm() &^ 0o222)

	if info.IsDir() {
		out.Mode = unix.S_IFDIR | perm
	} else {
		out.Mode = unix.S_IFREG | perm
		out.Size = uint64(info.Size()) //nolint:gosec
	}

	if modTime := info.ModTime(); !modTime.IsZero() {
		out.Mtime = uint64(modTime.Unix()) //nolint:gosec
		out.Atime = out.Mtime
		out.Ctime = out.Mtime
	}
}

func toErrno(err error) syscall.Errno {
	slog.Debug("FUSE operation failed", slog.Any("error", err))

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return unix.ENOENT
	case errors.Is(err, treefs.ErrFileNotDir):
		return unix.ENOTDIR
	case errors.Is(err, treefs.ErrFileIsDir):
		return unix.EISDIR
	case errors.Is(err, fs.ErrPermission):
		return unix.EACCES
	case errors.Is(err, fs.ErrInvalid):
		return unix.EINVAL
	default:
		return unix.EIO
	}
}
