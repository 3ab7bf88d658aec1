// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package paw

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gopkg.microglot.org/pawc/internal/exc"
	"gopkg.microglot.org/pawc/internal/idl"
	"gopkg.microglot.org/pawc/internal/optional"
)

// EscapeMode controls the meaning of a backslash inside a string literal.
type EscapeMode uint8

const (
	// EscapeModeLiteral drops the backslash and keeps the next character
	// verbatim, so an escaped delimiter stays in the literal.
	EscapeModeLiteral EscapeMode = iota
	// EscapeModeLegacy drops the backslash and nothing else. The next
	// character is still checked against the closing delimiter, so an
	// escaped delimiter ends the literal.
	EscapeModeLegacy
)

func (m EscapeMode) String() string {
	switch m {
	case EscapeModeLiteral:
		return "literal"
	case EscapeModeLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("unknown-%d", m)
	}
}

func ParseEscapeMode(s string) (EscapeMode, error) {
	switch s {
	case "", "literal":
		return EscapeModeLiteral, nil
	case "legacy":
		return EscapeModeLegacy, nil
	default:
		return 0, fmt.Errorf("unknown escape mode %q", s)
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func (self *lexerFileTokens) readNumber(ctx context.Context) (optional.Optional[*idl.Token], error) {
	var builder strings.Builder
	for {
		n := self.source.Peek(ctx)
		if !n.IsPresent() || !isDigit(rune(n.Value())) {
			break
		}
		_ = self.next(ctx)
		_, _ = builder.WriteRune(rune(n.Value()))
	}
	digits := builder.String()
	if digits == "" {
		return optional.Some(self.newToken(idl.Number(0))), nil
	}
	v, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return optional.None[*idl.Token](), self.fail(exc.CodeInvalidNumber, "number literal %s does not fit in 64 bits", digits)
	}
	return optional.Some(self.newToken(idl.Number(v))), nil
}

// readString reads a literal bounded by start and end. The source must be
// positioned on start. A missing end delimiter ends the literal at the end
// of input.
func (self *lexerFileTokens) readString(ctx context.Context, start rune, end rune) *idl.Token {
	if p := self.source.Peek(ctx); !p.IsPresent() || rune(p.Value()) != start {
		panic(exc.Newf(self.source.Position(), exc.CodeInternal, "string literal read without leading %q", start))
	}
	_ = self.next(ctx)
	var builder strings.Builder
	for {
		c := self.next(ctx)
		if !c.IsPresent() || rune(c.Value()) == end {
			break
		}
		if rune(c.Value()) == '\\' {
			if self.escapes == EscapeModeLegacy {
				continue
			}
			escaped := self.next(ctx)
			if !escaped.IsPresent() {
				break
			}
			_, _ = builder.WriteRune(rune(escaped.Value()))
			continue
		}
		_, _ = builder.WriteRune(rune(c.Value()))
	}
	return self.newToken(idl.String(builder.String()))
}
