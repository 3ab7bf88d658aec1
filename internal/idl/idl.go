// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package idl

import (
	"context"
	"fmt"

	"gopkg.microglot.org/pawc/internal/optional"
)

type Closer interface {
	Close(ctx context.Context) error
}

type CodePoint uint32

type Iterator[T any] interface {
	Next(ctx context.Context) optional.Optional[T]
	Closer
}

// CharSource is a pull based stream of code points with one character of
// lookahead and one character of pushback. Implementations track the
// Position of the next character to be consumed.
type CharSource interface {
	// Next consumes and returns the current character. The result is not
	// present once the input is exhausted.
	Next(ctx context.Context) optional.Optional[CodePoint]
	// Peek returns the current character without consuming it.
	Peek(ctx context.Context) optional.Optional[CodePoint]
	// Pushback makes c the next character returned by Peek or Next. It is
	// only valid immediately after a call to Next and only for a single
	// character.
	Pushback(c CodePoint)
	Position() Position
	Closer
}

type Reader interface {
	Read(ctx context.Context, size int32) ([]byte, error)
}

type FileBody interface {
	Reader
	Closer
}

type FileKind uint32

const (
	FileKindNone FileKind = iota
	FileKindSource
	FileKindHeader
)

func (k FileKind) String() string {
	switch k {
	case FileKindNone:
		return "none"
	case FileKindSource:
		return "source"
	case FileKindHeader:
		return "header"
	default:
		return fmt.Sprintf("unknown-%d", k)
	}
}

type File interface {
	Path(ctx context.Context) string
	Kind(ctx context.Context) FileKind
	Body(ctx context.Context) (FileBody, error)
}

type FileSystem interface {
	Open(ctx context.Context, uri string) ([]File, error)
	Write(ctx context.Context, uri string, content string) error
}

type Compiler interface {
	Compile(ctx context.Context, req *CompileRequest) (*CompileResponse, error)
}

type CompileRequest struct {
	Files []string
}

type CompileResponse struct {
	// Files are the lexed inputs in the order their targets were given.
	Files []*TokenFile
}

// TokenFile is the complete token sequence of one input file.
type TokenFile struct {
	URI    string
	Kind   FileKind
	Tokens []*Token
}

type LexerFile interface {
	File
	Tokens(ctx context.Context) (Iterator[*Token], error)
}

type Lexer interface {
	Lex(ctx context.Context, f File) (LexerFile, error)
}
