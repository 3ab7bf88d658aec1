// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package paw

import (
	"context"

	"gopkg.microglot.org/pawc/internal/exc"
	"gopkg.microglot.org/pawc/internal/idl"
	"gopkg.microglot.org/pawc/internal/optional"
)

func runeSet(s string) map[rune]bool {
	m := make(map[rune]bool, len(s))
	for _, r := range s {
		m[r] = true
	}
	return m
}

var (
	// operatorStart is every character that begins an operator.
	operatorStart = runeSet("+-*/><^%!=~|&([,.?")
	// alwaysSingle characters are never the first half of a two character
	// operator.
	alwaysSingle = runeSet("([,.*?")
	// combinable characters may be the second half of a two character
	// operator.
	combinable = runeSet("+-/*=><|&^%!~")
	// symbols are punctuation that never combine.
	symbols = runeSet("{}:;#\\)]")
)

var validOperators = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "!": true, "^": true,
	"~": true, "%": true, "=": true, ">": true, "<": true, "|": true,
	"&": true, "(": true, "[": true, ",": true, ".": true, "?": true,
	"...": true,
	"+=":  true, "-=": true, "*=": true, "/=": true,
	">>": true, "<<": true, ">=": true, "<=": true,
	"||": true, "&&": true, "++": true, "--": true,
	"!=": true, "==": true, "->": true,
}

// readOperator matches the longest valid operator of at most two
// characters. An invalid pair falls back to its first character and the
// second is pushed back.
func (self *lexerFileTokens) readOperator(ctx context.Context) (optional.Optional[*idl.Token], error) {
	first := self.next(ctx)
	candidate := []rune{rune(first.Value())}
	if !alwaysSingle[candidate[0]] {
		n := self.source.Peek(ctx)
		if n.IsPresent() && combinable[rune(n.Value())] {
			_ = self.next(ctx)
			candidate = append(candidate, rune(n.Value()))
		}
	}
	if len(candidate) == 2 && !validOperators[string(candidate)] {
		self.pushback(idl.CodePoint(candidate[1]))
		candidate = candidate[:1]
	}
	op := string(candidate)
	if !validOperators[op] {
		return optional.None[*idl.Token](), self.fail(exc.CodeInvalidOperator, "the operator %s is not valid", op)
	}
	t := self.newToken(idl.Operator(op))
	if op == "(" {
		self.openExpression()
	}
	return optional.Some(t), nil
}

// readSymbol consumes a single punctuation character. A ')' closes the
// innermost open expression before the token is built.
func (self *lexerFileTokens) readSymbol(ctx context.Context) *idl.Token {
	c := rune(self.next(ctx).Value())
	if c == ')' {
		self.closeExpression()
	}
	return self.newToken(idl.Symbol(c))
}
