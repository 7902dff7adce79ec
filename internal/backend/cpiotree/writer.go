// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cpiotree

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/aibor/filetree/internal/filetree"
	"github.com/cavaliergopher/cpio"
)

const (
	numLinks    = 2
	defaultMode = 0o644
)

// Writer writes single archive entries.
type Writer struct {
	cpioWriter *cpio.Writer
}

// NewWriter creates a new archive writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{cpio.NewWriter(w)}
}

// Close writes the archive trailer. Flush is called by the underlying closer.
func (w *Writer) Close() error {
	if err := w.cpioWriter.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}

	return nil
}

func (w *Writer) writeHeader(hdr *cpio.Header) error {
	if err := w.cpioWriter.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write header for %s: %w", hdr.Name, err)
	}

	return nil
}

// WriteDirectory adds a directory for the given path.
func (w *Writer) WriteDirectory(path string) error {
	return w.writeHeader(&cpio.Header{
		Name:  path,
		Mode:  cpio.TypeDir | cpio.ModePerm,
		Links: numLinks,
	})
}

// WriteLink adds a symbolic link for the given path pointing to target.
func (w *Writer) WriteLink(path, target string) error {
	err := w.writeHeader(&cpio.Header{
		Name: path,
		Mode: cpio.TypeSymlink | cpio.ModePerm,
		Size: int64(len(target)),
	})
	if err != nil {
		return err
	}

	// Body of a link is the path of the target file.
	if _, err := w.cpioWriter.Write([]byte(target)); err != nil {
		return fmt.Errorf("write body for %s: %w", path, err)
	}

	return nil
}

// WriteEmpty adds an empty regular file for the given path.
func (w *Writer) WriteEmpty(path string) error {
	return w.writeHeader(&cpio.Header{
		Name: path,
		Mode: cpio.TypeReg | defaultMode,
	})
}

// WriteRegular copies the regular file source into the archive. A mode of 0
// keeps the mode of the source.
func (w *Writer) WriteRegular(path string, source fs.File, mode fs.FileMode) error {
	info, err := source.Stat()
	if err != nil {
		return fmt.Errorf("read info: %w", err)
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotRegularFile, path)
	}

	hdr, err := cpio.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("create header: %w", err)
	}

	hdr.Name = path
	if mode != 0 {
		hdr.Mode = cpio.TypeReg | cpio.FileMode(mode.Perm())
	}

	if err := w.writeHeader(hdr); err != nil {
		return err
	}

	if _, err := io.Copy(w.cpioWriter, source); err != nil {
		return fmt.Errorf("write body for %s: %w", path, err)
	}

	return nil
}

// Write writes all entries below tree into a new archive in walk order, so
// every directory precedes its children. Symbolic links read from an
// archive are written as links. The content of other files comes from open.
// Files open reports [filetree.ErrNoContent] for are written empty.
func Write(w io.Writer, tree *filetree.Tree, open filetree.Opener) error {
	writer := NewWriter(w)

	var err error

	filetree.Walk(tree, func(parent string, entry *filetree.Entry) filetree.WalkSignal {
		err = writer.writeEntry(parent+entry.Name(), entry, open)
		if err != nil {
			return filetree.WalkStop
		}

		return filetree.WalkContinue
	}, "/")

	if err != nil {
		return err
	}

	return writer.Close()
}

func (w *Writer) writeEntry(path string, entry *filetree.Entry, open filetree.Opener) error {
	if entry.IsDir() {
		return w.WriteDirectory(path)
	}

	if file, ok := entry.Sys().(*File); ok && file.IsLink() {
		return w.WriteLink(path, file.Linkname)
	}

	if open == nil {
		return fmt.Errorf("%w: %s", ErrNoOpener, path)
	}

	source, err := open(entry)
	if errors.Is(err, filetree.ErrNoContent) {
		return w.WriteEmpty(path)
	}

	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer source.Close()

	return w.WriteRegular(path, source, 0)
}
