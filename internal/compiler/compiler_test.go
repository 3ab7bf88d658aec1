// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	iofs "io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/pawc/internal/compiler/paw"
	"gopkg.microglot.org/pawc/internal/exc"
	"gopkg.microglot.org/pawc/internal/fs"
	"gopkg.microglot.org/pawc/internal/idl"
)

func memFS(t *testing.T, files map[string]string) idl.FileSystem {
	t.Helper()
	m := fstest.MapFS{}
	for name, content := range files {
		m[name] = &fstest.MapFile{Data: []byte(content)}
	}
	local, err := fs.NewFileSystemLocal("/", fs.WithOptionFSFactory(func(string) iofs.FS { return m }))
	require.Nil(t, err)
	return local
}

func noEnv(string) (string, bool) {
	return "", false
}

func TestCompile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	files := map[string]string{}
	targets := make([]string, 0, 20)
	for x := 0; x < 20; x = x + 1 {
		name := fmt.Sprintf("src/f%02d.c", x)
		files[name] = strings.Repeat("1 ", x+1)
		targets = append(targets, name)
	}
	c, err := New(
		OptionWithFS(memFS(t, files)),
		OptionWithLookupEnv(noEnv),
		OptionWithMaxConcurrency(3),
	)
	require.Nil(t, err)

	resp, err := c.Compile(ctx, &idl.CompileRequest{Files: targets})
	require.Nil(t, err)
	require.Len(t, resp.Files, 20)
	for x, tf := range resp.Files {
		require.Equal(t, "/"+targets[x], tf.URI)
		require.Equal(t, idl.FileKindSource, tf.Kind)
		require.Len(t, tf.Tokens, x+1)
	}
}

func TestCompileDirectoryAndDuplicates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, err := New(
		OptionWithFS(memFS(t, map[string]string{
			"src/a.c":     "(1)",
			"src/b.h":     "\"x\"",
			"src/read.me": "ignored",
		})),
		OptionWithLookupEnv(noEnv),
	)
	require.Nil(t, err)

	resp, err := c.Compile(ctx, &idl.CompileRequest{Files: []string{"src", "file:///src/a.c"}})
	require.Nil(t, err)
	require.Len(t, resp.Files, 2)
	require.Equal(t, "/src/a.c", resp.Files[0].URI)
	require.Equal(t, "/src/b.h", resp.Files[1].URI)
	require.Equal(t, idl.FileKindHeader, resp.Files[1].Kind)
	require.Equal(t, idl.String("x"), resp.Files[1].Tokens[0].Value)
}

func TestCompileErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	rep := exc.NewReporter(nil)
	c, err := New(
		OptionWithFS(memFS(t, map[string]string{
			"good.c": "1 + 2",
			"bad.c":  "1 + @",
		})),
		OptionWithLookupEnv(noEnv),
		OptionWithExcReporter(rep),
	)
	require.Nil(t, err)

	resp, err := c.Compile(ctx, &idl.CompileRequest{Files: []string{"good.c", "bad.c", "missing.c"}})
	var me MultiException
	require.True(t, errors.As(err, &me))
	require.Len(t, me, 2)
	codes := []string{me[0].Code(), me[1].Code()}
	require.ElementsMatch(t, []string{exc.CodeFileNotFound, exc.CodeUnexpectedToken}, codes)
	require.Contains(t, err.Error(), "; ")
	require.Len(t, resp.Files, 1)
	require.Equal(t, "/good.c", resp.Files[0].URI)
}

func TestCompileEscapeMode(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	files := map[string]string{"s.c": `"a\"1"`}
	for _, testCase := range []struct {
		mode     paw.EscapeMode
		expected int
	}{
		{mode: paw.EscapeModeLiteral, expected: 1},
		{mode: paw.EscapeModeLegacy, expected: 3},
	} {
		c, err := New(OptionWithFS(memFS(t, files)), OptionWithLookupEnv(noEnv), OptionWithEscapeMode(testCase.mode))
		require.Nil(t, err)
		resp, err := c.Compile(ctx, &idl.CompileRequest{Files: []string{"s.c"}})
		require.Nil(t, err)
		require.Len(t, resp.Files[0].Tokens, testCase.expected, testCase.mode.String())
	}
}

func TestCompileUnsupportedKind(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, err := New(
		OptionWithFS(memFS(t, map[string]string{"a.c": "1"})),
		OptionWithLookupEnv(noEnv),
		OptionWithSubCompilers(map[idl.FileKind]SubCompiler{}),
	)
	require.Nil(t, err)
	_, err = c.Compile(ctx, &idl.CompileRequest{Files: []string{"a.c"}})
	var me MultiException
	require.True(t, errors.As(err, &me))
	require.Equal(t, exc.CodeUnsupportedFileFormat, me[0].Code())
}

func TestCompileCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c, err := New(OptionWithFS(memFS(t, map[string]string{"a.c": "1"})), OptionWithLookupEnv(noEnv))
	require.Nil(t, err)
	_, err = c.Compile(ctx, &idl.CompileRequest{Files: []string{"a.c"}})
	require.NotNil(t, err)
}

func TestNewOptions(t *testing.T) {
	t.Parallel()

	_, err := New(OptionWithMaxConcurrency(-1))
	require.NotNil(t, err)

	c, err := New(OptionWithLookupEnv(func(k string) (string, bool) {
		if k == "PAWC_INCLUDE_PATH" {
			return "/nowhere", true
		}
		return "", false
	}))
	require.Nil(t, err)
	impl := c.(*compiler)
	require.Greater(t, impl.MaxConcurrency, 0)
	require.NotNil(t, impl.Reporter)
	require.Len(t, impl.FS, 1)
}

func TestDefaultRoots(t *testing.T) {
	t.Parallel()

	roots := getDefaultRoots(func(k string) (string, bool) {
		if k == "PAWC_INCLUDE_PATH" {
			return "/a" + string(filepath.ListSeparator) + "/b", true
		}
		return "", false
	})
	require.Equal(t, []string{"/a", "/b"}, roots)
	require.NotEmpty(t, getDefaultRoots(noEnv))
}

func TestDumpText(t *testing.T) {
	t.Parallel()

	tokens, err := paw.NewLexer(exc.NewReporter(nil)).LexString(context.Background(), "/d.c", `( 1 "a"`)
	require.Nil(t, err)
	var buf bytes.Buffer
	require.Nil(t, DumpTokens(&buf, &idl.TokenFile{URI: "/d.c", Tokens: tokens}, DumpFormatText))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, fmt.Sprintf("%-24s%-12s%q whitespace", "/d.c:1:2", "operator", "("), lines[0])
	require.Equal(t, fmt.Sprintf("%-24s%-12s%q whitespace brackets=%q", "/d.c:1:4", "number", "1", " 1"), lines[1])
	require.Equal(t, fmt.Sprintf("%-24s%-12s%q brackets=%q", "/d.c:1:8", "string", "a", ` 1 "a"`), lines[2])
}

func TestDumpJSON(t *testing.T) {
	t.Parallel()

	tokens, err := paw.NewLexer(exc.NewReporter(nil)).LexString(context.Background(), "/d.c", `(18446744073709551615`)
	require.Nil(t, err)
	var buf bytes.Buffer
	require.Nil(t, DumpTokens(&buf, &idl.TokenFile{URI: "/d.c", Kind: idl.FileKindSource, Tokens: tokens}, DumpFormatJSON))

	var out struct {
		File   string `json:"file"`
		Kind   string `json:"kind"`
		Tokens []struct {
			Kind       string  `json:"kind"`
			Value      string  `json:"value"`
			Whitespace bool    `json:"whitespace"`
			Line       float64 `json:"line"`
			Column     float64 `json:"column"`
			Brackets   *string `json:"brackets"`
		} `json:"tokens"`
	}
	require.Nil(t, json.Unmarshal(buf.Bytes(), &out))
	require.Equal(t, "/d.c", out.File)
	require.Equal(t, "source", out.Kind)
	require.Len(t, out.Tokens, 2)
	require.Equal(t, "operator", out.Tokens[0].Kind)
	require.Nil(t, out.Tokens[0].Brackets)
	require.Equal(t, "18446744073709551615", out.Tokens[1].Value)
	require.Equal(t, float64(22), out.Tokens[1].Column)
	require.NotNil(t, out.Tokens[1].Brackets)
	require.Equal(t, "18446744073709551615", *out.Tokens[1].Brackets)
}

func TestParseDumpFormat(t *testing.T) {
	t.Parallel()

	f, err := ParseDumpFormat("")
	require.Nil(t, err)
	require.Equal(t, DumpFormatText, f)
	f, err = ParseDumpFormat("json")
	require.Nil(t, err)
	require.Equal(t, DumpFormatJSON, f)
	_, err = ParseDumpFormat("xml")
	require.NotNil(t, err)
	require.NotNil(t, DumpTokens(&bytes.Buffer{}, &idl.TokenFile{}, DumpFormat("xml")))
}
