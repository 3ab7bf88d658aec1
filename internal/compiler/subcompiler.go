// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"

	"gopkg.microglot.org/pawc/internal/compiler/paw"
	"gopkg.microglot.org/pawc/internal/exc"
	"gopkg.microglot.org/pawc/internal/idl"
	"gopkg.microglot.org/pawc/internal/iter"
)

// SubCompiler runs the front end for one kind of file.
type SubCompiler interface {
	CompileFile(ctx context.Context, r exc.Reporter, file idl.File) (*idl.TokenFile, error)
}

func DefaultSubCompilers(escapes paw.EscapeMode) map[idl.FileKind]SubCompiler {
	scpaw := &SubCompilerPaw{Escapes: escapes}
	return map[idl.FileKind]SubCompiler{
		idl.FileKindSource: scpaw,
		idl.FileKindHeader: scpaw,
	}
}

// SubCompilerPaw lexes paw sources and headers. Each call builds its own
// lexical state so a single value may serve concurrent files.
type SubCompilerPaw struct {
	Escapes paw.EscapeMode
}

func (self *SubCompilerPaw) CompileFile(ctx context.Context, r exc.Reporter, file idl.File) (*idl.TokenFile, error) {
	lexer := paw.NewLexer(r, paw.OptionWithEscapeMode(self.Escapes))
	lf, err := lexer.Lex(ctx, file)
	if err != nil {
		return nil, err
	}
	stream, err := lf.Tokens(ctx)
	if err != nil {
		return nil, err
	}
	tokens, err := iter.Collect(ctx, stream)
	if err != nil {
		return nil, err
	}
	return &idl.TokenFile{
		URI:    file.Path(ctx),
		Kind:   file.Kind(ctx),
		Tokens: tokens,
	}, nil
}
