// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/pawc/internal/exc"
	"gopkg.microglot.org/pawc/internal/idl"
)

func mapFS(files map[string]string) FileSystemLocalOption {
	m := fstest.MapFS{}
	for name, content := range files {
		m[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return WithOptionFSFactory(func(string) iofs.FS { return m })
}

func readAll(t *testing.T, f idl.File) string {
	t.Helper()
	ctx := context.Background()
	body, err := f.Body(ctx)
	require.Nil(t, err)
	var out []byte
	for {
		b, err := body.Read(ctx, 4)
		out = append(out, b...)
		if errors.Is(err, io.EOF) {
			break
		}
		require.Nil(t, err)
	}
	require.Nil(t, body.Close(ctx))
	return string(out)
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	require.Equal(t, idl.FileKindSource, KindOf("/src/main.c"))
	require.Equal(t, idl.FileKindSource, KindOf("main.paw"))
	require.Equal(t, idl.FileKindHeader, KindOf("stdio.h"))
	require.Equal(t, idl.FileKindNone, KindOf("README.md"))
}

func TestFileSystemLocalOpenFile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	local, err := NewFileSystemLocal("/", mapFS(map[string]string{
		"src/main.c": "1 + 2",
	}))
	require.Nil(t, err)

	files, err := local.Open(ctx, "/src/main.c")
	require.Nil(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "/src/main.c", files[0].Path(ctx))
	require.Equal(t, idl.FileKindSource, files[0].Kind(ctx))
	require.Equal(t, "1 + 2", readAll(t, files[0]))

	files, err = local.Open(ctx, "file:///src/main.c")
	require.Nil(t, err)
	require.Len(t, files, 1)
}

func TestFileSystemLocalOpenDirectory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	local, err := NewFileSystemLocal("/", mapFS(map[string]string{
		"src/a.c":       "1",
		"src/b.h":       "2",
		"src/notes.txt": "no",
		"src/sub/c.c":   "3",
		"empty/x.txt":   "",
	}))
	require.Nil(t, err)

	files, err := local.Open(ctx, "src")
	require.Nil(t, err)
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path(ctx))
	}
	require.Equal(t, []string{"/src/a.c", "/src/b.h"}, paths)
	require.Equal(t, "2", readAll(t, files[1]))

	_, err = local.Open(ctx, "empty")
	var e exc.Exception
	require.True(t, errors.As(err, &e))
	require.Equal(t, exc.CodeFileNotFound, e.Code())
}

func TestFileSystemLocalNotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	local, err := NewFileSystemLocal("/", mapFS(map[string]string{}))
	require.Nil(t, err)
	_, err = local.Open(ctx, "/missing.c")
	var e exc.Exception
	require.True(t, errors.As(err, &e))
	require.Equal(t, exc.CodeFileNotFound, e.Code())
	require.True(t, errors.Is(err, iofs.ErrNotExist))
}

func TestFileSystemMulti(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	first, err := NewFileSystemLocal("/", mapFS(map[string]string{"a.c": "first"}))
	require.Nil(t, err)
	second, err := NewFileSystemLocal("/", mapFS(map[string]string{"a.c": "second", "b.c": "only"}))
	require.Nil(t, err)
	multi := FileSystemMulti{first, second}

	files, err := multi.Open(ctx, "/a.c")
	require.Nil(t, err)
	require.Equal(t, "first", readAll(t, files[0]))

	files, err = multi.Open(ctx, "/b.c")
	require.Nil(t, err)
	require.Equal(t, "only", readAll(t, files[0]))

	_, err = multi.Open(ctx, "/c.c")
	require.NotNil(t, err)
	require.NotNil(t, multi.Write(ctx, "/c.c", ""))
}

func TestFileSystemLocalWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	root := t.TempDir()
	local, err := NewFileSystemLocal(root)
	require.Nil(t, err)
	require.Nil(t, local.Write(ctx, "/out/test.c", "(1)"))

	b, err := os.ReadFile(filepath.Join(root, "out", "test.c"))
	require.Nil(t, err)
	require.Equal(t, "(1)", string(b))

	files, err := local.Open(ctx, "/out/test.c")
	require.Nil(t, err)
	require.Equal(t, "(1)", readAll(t, files[0]))
}

func TestFileStringBody(t *testing.T) {
	t.Parallel()

	f := NewFileString("/inline.c", "\"ab\"", idl.FileKindSource)
	require.Equal(t, "\"ab\"", readAll(t, f))
	require.Equal(t, "\"ab\"", readAll(t, f))

	failing := NewFileFN("/broken.c", func() (io.ReadCloser, error) {
		return nil, &iofs.PathError{Op: "open", Path: "broken.c", Err: iofs.ErrPermission}
	}, idl.FileKindSource)
	_, err := failing.Body(context.Background())
	var e exc.Exception
	require.True(t, errors.As(err, &e))
	require.Equal(t, exc.CodePermissionDenied, e.Code())
}
