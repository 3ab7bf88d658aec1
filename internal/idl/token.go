// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package idl

import (
	"fmt"
	"strconv"

	"gopkg.microglot.org/pawc/internal/optional"
)

// Position is a 1-based line and column within a named file.
type Position struct {
	Filename string
	Line     int32
	Column   int32
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// Before reports whether p is strictly earlier than other in line then
// column order. Filenames are not compared.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

type TokenKind uint8

const (
	TokenKindIdentifier TokenKind = iota + 1
	TokenKindKeyword
	TokenKindOperator
	TokenKindSymbol
	TokenKindNumber
	TokenKindString
	TokenKindComment
	TokenKindNewline
)

func (k TokenKind) String() string {
	switch k {
	case TokenKindIdentifier:
		return "identifier"
	case TokenKindKeyword:
		return "keyword"
	case TokenKindOperator:
		return "operator"
	case TokenKindSymbol:
		return "symbol"
	case TokenKindNumber:
		return "number"
	case TokenKindString:
		return "string"
	case TokenKindComment:
		return "comment"
	case TokenKindNewline:
		return "newline"
	default:
		return fmt.Sprintf("unknown-%d", k)
	}
}

// TokenValue is the payload of a Token. The set of implementations is
// closed and there is exactly one per TokenKind.
type TokenValue interface {
	Kind() TokenKind
	String() string
	tokenValue()
}

type Identifier string
type Keyword string
type Operator string
type Symbol rune
type Number uint64
type String string
type Comment string
type Newline struct{}

func (Identifier) Kind() TokenKind { return TokenKindIdentifier }
func (Keyword) Kind() TokenKind    { return TokenKindKeyword }
func (Operator) Kind() TokenKind   { return TokenKindOperator }
func (Symbol) Kind() TokenKind     { return TokenKindSymbol }
func (Number) Kind() TokenKind     { return TokenKindNumber }
func (String) Kind() TokenKind     { return TokenKindString }
func (Comment) Kind() TokenKind    { return TokenKindComment }
func (Newline) Kind() TokenKind    { return TokenKindNewline }

func (v Identifier) String() string { return string(v) }
func (v Keyword) String() string    { return string(v) }
func (v Operator) String() string   { return string(v) }
func (v Symbol) String() string     { return string(rune(v)) }
func (v Number) String() string     { return strconv.FormatUint(uint64(v), 10) }
func (v String) String() string     { return string(v) }
func (v Comment) String() string    { return string(v) }
func (Newline) String() string      { return "\n" }

func (Identifier) tokenValue() {}
func (Keyword) tokenValue()    {}
func (Operator) tokenValue()   {}
func (Symbol) tokenValue()     {}
func (Number) tokenValue()     {}
func (String) tokenValue()     {}
func (Comment) tokenValue()    {}
func (Newline) tokenValue()    {}

type Token struct {
	Value TokenValue
	// Whitespace is set when a space or tab follows the token before the
	// next one begins.
	Whitespace bool
	// Expression holds the text of the enclosing parenthesised expression,
	// as consumed so far, when the token was built inside one.
	Expression optional.Optional[string]
	// Start is the position of the first character of the lexeme.
	Start Position
	// Position is where the lexeme was recognized, which is just past its
	// last character.
	Position Position
}

func (t *Token) Kind() TokenKind {
	return t.Value.Kind()
}
