// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"gopkg.microglot.org/pawc/internal/compiler/paw"
	"gopkg.microglot.org/pawc/internal/exc"
	"gopkg.microglot.org/pawc/internal/idl"
	"gopkg.microglot.org/pawc/internal/target"
)

type Option func(c *compiler) error

func OptionWithFS(fs idl.FileSystem) Option {
	return func(c *compiler) error {
		c.FS = fs
		return nil
	}
}

func OptionWithLookupEnv(lookupEnv func(string) (string, bool)) Option {
	return func(c *compiler) error {
		c.LookupENV = lookupEnv
		return nil
	}
}

func OptionWithExcReporter(reporter exc.Reporter) Option {
	return func(c *compiler) error {
		c.Reporter = reporter
		return nil
	}
}

// OptionWithMaxConcurrency limits how many files are lexed at once. Zero
// selects the smaller of GOMAXPROCS and the CPU count.
func OptionWithMaxConcurrency(n int) Option {
	return func(c *compiler) error {
		if n < 0 {
			return fmt.Errorf("max concurrency must not be negative, got %d", n)
		}
		c.MaxConcurrency = n
		return nil
	}
}

func OptionWithEscapeMode(mode paw.EscapeMode) Option {
	return func(c *compiler) error {
		c.Escapes = mode
		return nil
	}
}

func OptionWithSubCompilers(scs map[idl.FileKind]SubCompiler) Option {
	return func(c *compiler) error {
		c.SubCompilers = scs
		return nil
	}
}

func New(opts ...Option) (idl.Compiler, error) {
	c := &compiler{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.LookupENV == nil {
		c.LookupENV = os.LookupEnv
	}
	if c.FS == nil {
		dfs, err := NewDefaultFS(c.LookupENV)
		if err != nil {
			return nil, err
		}
		c.FS = dfs
	}
	if c.MaxConcurrency == 0 {
		max := runtime.GOMAXPROCS(-1)
		cpus := runtime.NumCPU()
		if max > cpus {
			max = cpus
		}
		c.MaxConcurrency = max
	}
	if c.Semaphore == nil {
		c.Semaphore = newSemaphore(c.MaxConcurrency)
	}
	if c.Reporter == nil {
		c.Reporter = exc.NewReporter(nil)
	}
	if c.SubCompilers == nil {
		c.SubCompilers = DefaultSubCompilers(c.Escapes)
	}
	return c, nil
}

type compiler struct {
	LookupENV      func(string) (string, bool)
	FS             idl.FileSystem
	MaxConcurrency int
	Semaphore      *semaphore
	Reporter       exc.Reporter
	Escapes        paw.EscapeMode
	SubCompilers   map[idl.FileKind]SubCompiler
}

// Compile lexes every file named by the request. Each file gets its own
// lexical pass. Files that fail are left out of the response and the
// accumulated exceptions are returned as a MultiException.
func (self *compiler) Compile(ctx context.Context, req *idl.CompileRequest) (*idl.CompileResponse, error) {
	files := make([]idl.File, 0, len(req.Files))
	seen := make(map[string]bool, len(req.Files))
	for _, f := range req.Files {
		target := target.Normalize(f)
		in, err := self.FS.Open(ctx, target)
		if err != nil {
			_ = self.Reporter.Report(asException(target, err))
			continue
		}
		for _, inf := range in {
			if inf.Kind(ctx) == idl.FileKindNone || seen[inf.Path(ctx)] {
				continue
			}
			seen[inf.Path(ctx)] = true
			files = append(files, inf)
		}
	}

	lexed := make([]*idl.TokenFile, len(files))
	done := make(chan struct{}, len(files))
	for offset, file := range files {
		go func(offset int, file idl.File) {
			defer func() { done <- struct{}{} }()
			tf, err := self.compileFile(ctx, file)
			if err == nil {
				lexed[offset] = tf
			}
		}(offset, file)
	}
	for x := 0; x < len(files); x = x + 1 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-done:
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp := &idl.CompileResponse{}
	for _, tf := range lexed {
		if tf != nil {
			resp.Files = append(resp.Files, tf)
		}
	}
	caught := self.Reporter.Reported()
	if len(caught) > 0 {
		return resp, MultiException(caught)
	}
	return resp, nil
}

func (self *compiler) compileFile(ctx context.Context, file idl.File) (*idl.TokenFile, error) {
	self.Semaphore.Lock()
	defer self.Semaphore.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sc := self.SubCompilers[file.Kind(ctx)]
	if sc == nil {
		e := exc.New(exc.File(file.Path(ctx)), exc.CodeUnsupportedFileFormat, "unsupported file format "+file.Kind(ctx).String())
		_ = self.Reporter.Report(e)
		return nil, e
	}
	return sc.CompileFile(ctx, self.Reporter, file)
}

func asException(uri string, err error) exc.Exception {
	var e exc.Exception
	if errors.As(err, &e) {
		return e
	}
	return exc.WrapUnknown(exc.File(uri), err)
}

type MultiException []exc.Exception

func (self MultiException) Error() string {
	var b strings.Builder
	for offset, err := range self {
		if offset > 0 {
			b.WriteString("; ")
		}
		b.WriteString(err.Error())
	}
	return b.String()
}
