// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package iter

import (
	"bufio"
	"context"
	"errors"
	"io"
	"unicode/utf8"

	"gopkg.microglot.org/pawc/internal/idl"
	"gopkg.microglot.org/pawc/internal/optional"
)

// NewUnicodeString iterates the code points of an in-memory buffer.
func NewUnicodeString(s string) idl.Iterator[idl.CodePoint] {
	return &stringBody{content: s}
}

type stringBody struct {
	content string
	offset  int
}

func (s *stringBody) Next(ctx context.Context) optional.Optional[idl.CodePoint] {
	if s.offset >= len(s.content) {
		return optional.None[idl.CodePoint]()
	}
	r, size := utf8.DecodeRuneInString(s.content[s.offset:])
	s.offset = s.offset + size
	return optional.Some(idl.CodePoint(r))
}

func (s *stringBody) Close(context.Context) error {
	return nil
}

// NewUnicodeFileBody converts a FileBody into an iterator of code points.
func NewUnicodeFileBody(b idl.FileBody) idl.Iterator[idl.CodePoint] {
	return NewUnicodeFileBodyCtx(context.Background(), b)
}

// NewUnicodeFileBodyCtx is the same as NewUnicodeFileBody but uses the given
// context for all read operations for cancellation or other purposes.
func NewUnicodeFileBodyCtx(ctx context.Context, b idl.FileBody) idl.Iterator[idl.CodePoint] {
	rc := &fileBodyIO{
		ctx:  ctx,
		body: b,
	}
	scanner := bufio.NewScanner(rc)
	scanner.Split(bufio.ScanRunes)
	return &fileBody{
		readCloser: rc,
		scanner:    scanner,
	}
}

type fileBody struct {
	readCloser io.ReadCloser
	scanner    *bufio.Scanner
}

func (f *fileBody) Next(ctx context.Context) optional.Optional[idl.CodePoint] {
	if !f.scanner.Scan() {
		return optional.None[idl.CodePoint]()
	}
	r, _ := utf8.DecodeRune(f.scanner.Bytes())
	return optional.Some(idl.CodePoint(r))
}

func (f *fileBody) Close(context.Context) error {
	_ = f.readCloser.Close()
	return f.scanner.Err()
}

type fileBodyIO struct {
	ctx  context.Context
	body idl.FileBody
}

func (self *fileBodyIO) Read(p []byte) (int, error) {
	b, err := self.body.Read(self.ctx, int32(len(p)))
	n := copy(p, b)
	if errors.Is(err, io.EOF) {
		return n, io.EOF
	}
	return n, err
}

func (self *fileBodyIO) Close() error {
	return self.body.Close(self.ctx)
}
