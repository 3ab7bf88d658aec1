// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.microglot.org/pawc/internal/exc"
	"gopkg.microglot.org/pawc/internal/idl"
)

const (
	sourceExt    = ".c"   // Translation unit
	headerExt    = ".h"   // Header pulled in by an include path
	altSourceExt = ".paw" // Translation unit, project spelling
)

var knownExts = map[string]idl.FileKind{
	sourceExt:    idl.FileKindSource,
	altSourceExt: idl.FileKindSource,
	headerExt:    idl.FileKindHeader,
}

// KindOf classifies a path by its extension. Unknown extensions are
// FileKindNone.
func KindOf(path string) idl.FileKind {
	return knownExts[filepath.Ext(path)]
}

var _ idl.FileSystem = FileSystemMulti{}

// FileSystemMulti is an ordered set of FileSystem implementations that are
// tried in order. Write operations must be performed on the individual
// backends.
type FileSystemMulti []idl.FileSystem

func (r FileSystemMulti) Open(ctx context.Context, uri string) ([]idl.File, error) {
	for _, fs := range r {
		files, err := fs.Open(ctx, uri)
		if err != nil {
			continue
		}
		return files, nil
	}
	return nil, exc.New(exc.File(uri), exc.CodeFileNotFound, fmt.Sprintf("could not open %s from any file system", uri))
}

func (r FileSystemMulti) Write(ctx context.Context, uri string, content string) error {
	return exc.New(exc.File(uri), exc.CodeUnsuportedFileSystemOperation, "cannot write to a composite file system")
}

// FileFilter selects which files to open when the path being opened is a
// directory.
type FileFilter func(ctx context.Context, fname string) bool

type FileSystemLocalOption func(*fileSystemLocal)

// WithOptionFSFactory installs the factory used to build the underlying
// fs.FS for the root directory. The default is os.DirFS. All paths given to
// Open are relative to the root.
func WithOptionFSFactory(v func(root string) fs.FS) FileSystemLocalOption {
	return func(rfs *fileSystemLocal) {
		rfs.fsFactory = v
	}
}

// WithOptionFileFilter installs the filter used when a target is a
// directory. The default accepts the known source and header extensions.
func WithOptionFileFilter(v FileFilter) FileSystemLocalOption {
	return func(rfs *fileSystemLocal) {
		rfs.fileFilter = v
	}
}

type fileSystemLocal struct {
	root       string
	fsFactory  func(string) fs.FS
	fileFilter FileFilter
}

// NewFileSystemLocal creates a new FileSystem rooted at a local directory.
func NewFileSystemLocal(root string, options ...FileSystemLocalOption) (idl.FileSystem, error) {
	absroot, err := filepath.Abs(root)
	if err != nil {
		return nil, exc.WrapUnknown(exc.File(root), err)
	}
	result := &fileSystemLocal{
		root:      absroot,
		fsFactory: os.DirFS,
		fileFilter: func(ctx context.Context, fname string) bool {
			return KindOf(fname) != idl.FileKindNone
		},
	}
	for _, option := range options {
		option(result)
	}
	return result, nil
}

func (r *fileSystemLocal) Open(ctx context.Context, uri string) ([]idl.File, error) {
	path := uri
	u, err := url.Parse(uri)
	if err == nil {
		path = u.Path
	}
	path = filepath.Join("/", path)
	dir := r.fsFactory(r.root)
	// fs.FS wants an un-rooted path and '.' for the root itself.
	p := strings.TrimPrefix(filepath.Clean(path), "/")
	if p == "" {
		p = "."
	}
	d, err := dir.Open(p)
	if err != nil {
		return nil, fsErr(p, err)
	}
	defer d.Close()
	stat, err := d.Stat()
	if err != nil {
		return nil, fsErr(p, err)
	}
	if !stat.IsDir() {
		f := NewFileFN(path, func() (io.ReadCloser, error) {
			return dir.Open(p)
		}, KindOf(p))
		return []idl.File{f}, nil
	}
	rd, ok := d.(fs.ReadDirFile)
	if !ok {
		return nil, exc.New(exc.File(path), exc.CodeUnsuportedFileSystemOperation, "directory cannot be listed")
	}
	entries, err := rd.ReadDir(-1)
	if err != nil {
		return nil, fsErr(p, err)
	}
	files := make([]idl.File, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !r.fileFilter(ctx, entry.Name()) {
			continue
		}
		entryPath := filepath.Join(p, entry.Name())
		f := NewFileFN(filepath.Join("/", entryPath), func() (io.ReadCloser, error) {
			return dir.Open(entryPath)
		}, KindOf(entryPath))
		files = append(files, f)
	}
	if len(files) < 1 {
		return nil, exc.New(exc.File(path), exc.CodeFileNotFound, fmt.Sprintf("found directory %s but it has no sources", path))
	}
	return files, nil
}

func (r *fileSystemLocal) Write(ctx context.Context, uri string, content string) error {
	path := uri
	u, err := url.Parse(uri)
	if err == nil {
		path = u.Path
	}
	p := filepath.Clean(filepath.Join(r.root, "/", path))
	d := filepath.Dir(p)
	if err = os.MkdirAll(d, os.ModeDir|0o755); err != nil {
		return fsErr(d, err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		return fsErr(p, err)
	}
	return nil
}

func fsErr(path string, err error) error {
	var errT *fs.PathError
	if errors.As(err, &errT) {
		switch {
		case errors.Is(errT.Err, fs.ErrNotExist):
			return exc.Wrap(exc.File(errT.Path), exc.CodeFileNotFound, errT)
		case errors.Is(errT.Err, fs.ErrPermission):
			return exc.Wrap(exc.File(errT.Path), exc.CodePermissionDenied, errT)
		default:
			return exc.WrapUnknown(exc.File(errT.Path), errT)
		}
	}
	return exc.WrapUnknown(exc.File(path), err)
}
