// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package paw

import (
	"context"

	"gopkg.microglot.org/pawc/internal/exc"
	"gopkg.microglot.org/pawc/internal/idl"
	"gopkg.microglot.org/pawc/internal/iter"
	"gopkg.microglot.org/pawc/internal/optional"
)

// Lexer implements a tokenizer for paw sources. A Lexer holds no per-file
// state and may be shared by concurrent passes.
type Lexer struct {
	reporter exc.Reporter
	escapes  EscapeMode
}

type LexerOption func(*Lexer)

// OptionWithEscapeMode selects how backslashes inside string literals are
// handled. The default is EscapeModeLiteral.
func OptionWithEscapeMode(mode EscapeMode) LexerOption {
	return func(l *Lexer) {
		l.escapes = mode
	}
}

func NewLexer(reporter exc.Reporter, options ...LexerOption) *Lexer {
	l := &Lexer{reporter: reporter, escapes: EscapeModeLiteral}
	for _, option := range options {
		option(l)
	}
	return l
}

func (self *Lexer) Lex(ctx context.Context, f idl.File) (idl.LexerFile, error) {
	return &lexerFile{
		File:  f,
		lexer: self,
	}, nil
}

// LexString tokenizes an in-memory buffer as if it were the named file.
func (self *Lexer) LexString(ctx context.Context, filename string, content string) ([]*idl.Token, error) {
	source := iter.NewSource(filename, iter.NewUnicodeString(content))
	defer source.Close(ctx)
	return self.newTokens(source).run(ctx)
}

func (self *Lexer) newTokens(source idl.CharSource) *lexerFileTokens {
	return &lexerFileTokens{
		source:   source,
		reporter: self.reporter,
		escapes:  self.escapes,
	}
}

type lexerFile struct {
	idl.File
	lexer *Lexer
}

// Tokens runs the whole lexical pass and returns an iterator over the
// result. Nothing is returned when the pass fails.
func (self *lexerFile) Tokens(ctx context.Context) (idl.Iterator[*idl.Token], error) {
	tokens, err := self.Tokenize(ctx)
	if err != nil {
		return nil, err
	}
	return iter.NewSlice(tokens), nil
}

// Tokenize is the same as Tokens but returns the token sequence directly.
func (self *lexerFile) Tokenize(ctx context.Context) ([]*idl.Token, error) {
	uri := self.File.Path(ctx)
	b, err := self.File.Body(ctx)
	if err != nil {
		return nil, self.lexer.report(uri, err)
	}
	source := iter.NewSource(uri, iter.NewUnicodeFileBodyCtx(ctx, b))
	tokens, err := self.lexer.newTokens(source).run(ctx)
	closeErr := source.Close(ctx)
	if err != nil {
		return nil, err
	}
	if closeErr != nil {
		return nil, self.lexer.report(uri, closeErr)
	}
	return tokens, nil
}

// report sends an I/O failure to the reporter as an exception.
func (self *Lexer) report(uri string, err error) error {
	e, ok := err.(exc.Exception)
	if !ok {
		e = exc.WrapUnknown(exc.File(uri), err)
	}
	_ = self.reporter.Report(e)
	return e
}

// lexerFileTokens is the state of a single lexical pass.
type lexerFileTokens struct {
	source   idl.CharSource
	reporter exc.Reporter
	escapes  EscapeMode
	tokens   []*idl.Token
	start    idl.Position
	// depth counts open parentheses seen as operators. expression holds
	// every character consumed while depth is above zero and is nil
	// otherwise.
	depth      int
	expression []rune
}

func (self *lexerFileTokens) run(ctx context.Context) ([]*idl.Token, error) {
	for {
		tok, err := self.nextToken(ctx)
		if err != nil {
			return nil, err
		}
		if !tok.IsPresent() {
			return self.tokens, nil
		}
		self.tokens = append(self.tokens, tok.Value())
	}
}

func (self *lexerFileTokens) nextToken(ctx context.Context) (optional.Optional[*idl.Token], error) {
	for {
		self.start = self.source.Position()
		point := self.source.Peek(ctx)
		if !point.IsPresent() {
			return optional.None[*idl.Token](), nil
		}
		r := rune(point.Value())
		switch {
		case r == ' ' || r == '\t':
			if n := len(self.tokens); n > 0 {
				self.tokens[n-1].Whitespace = true
			}
			_ = self.next(ctx)
			continue
		case r == '"':
			return optional.Some(self.readString(ctx, '"', '"')), nil
		case isDigit(r):
			return self.readNumber(ctx)
		case r == '<' && self.followsInclude():
			return optional.Some(self.readString(ctx, '<', '>')), nil
		case operatorStart[r]:
			return self.readOperator(ctx)
		case symbols[r]:
			return optional.Some(self.readSymbol(ctx)), nil
		default:
			return optional.None[*idl.Token](), self.fail(exc.CodeUnexpectedToken, "unexpected token %q", r)
		}
	}
}

// followsInclude reports whether the last token is the include keyword,
// in which case a '<' opens an include path rather than an operator.
func (self *lexerFileTokens) followsInclude() bool {
	n := len(self.tokens)
	if n == 0 {
		return false
	}
	kw, ok := self.tokens[n-1].Value.(idl.Keyword)
	return ok && kw == "include"
}

func (self *lexerFileTokens) next(ctx context.Context) optional.Optional[idl.CodePoint] {
	c := self.source.Next(ctx)
	if c.IsPresent() && self.depth > 0 {
		self.expression = append(self.expression, rune(c.Value()))
	}
	return c
}

func (self *lexerFileTokens) pushback(c idl.CodePoint) {
	self.source.Pushback(c)
	if self.depth > 0 && len(self.expression) > 0 {
		self.expression = self.expression[:len(self.expression)-1]
	}
}

func (self *lexerFileTokens) openExpression() {
	if self.depth == 0 {
		self.expression = make([]rune, 0, 32)
	}
	self.depth = self.depth + 1
}

func (self *lexerFileTokens) closeExpression() {
	if self.depth == 0 {
		return
	}
	self.depth = self.depth - 1
	if self.depth == 0 {
		self.expression = nil
	}
}

func (self *lexerFileTokens) newToken(v idl.TokenValue) *idl.Token {
	t := &idl.Token{
		Value:    v,
		Start:    self.start,
		Position: self.source.Position(),
	}
	if self.depth > 0 {
		t.Expression = optional.Some(string(self.expression))
	}
	return t
}

func (self *lexerFileTokens) fail(code string, format string, args ...any) error {
	e := exc.Newf(self.source.Position(), code, format, args...)
	_ = self.reporter.Report(e)
	return e
}
