// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package iter

import (
	"context"

	"gopkg.microglot.org/pawc/internal/exc"
	"gopkg.microglot.org/pawc/internal/idl"
	"gopkg.microglot.org/pawc/internal/optional"
)

// NewSource wraps an iterator of code points in a CharSource that tracks
// line and column for the named file. Positions start at 1:1.
func NewSource(filename string, points idl.Iterator[idl.CodePoint]) idl.CharSource {
	return &source{
		points: points,
		pos:    idl.Position{Filename: filename, Line: 1, Column: 1},
	}
}

type source struct {
	points   idl.Iterator[idl.CodePoint]
	pos      idl.Position
	prev     idl.Position
	ahead    optional.Optional[idl.CodePoint]
	done     bool
	canUnget bool
}

func (self *source) fill(ctx context.Context) {
	if self.ahead.IsPresent() || self.done {
		return
	}
	self.ahead = self.points.Next(ctx)
	if !self.ahead.IsPresent() {
		self.done = true
	}
}

func (self *source) Peek(ctx context.Context) optional.Optional[idl.CodePoint] {
	self.fill(ctx)
	return self.ahead
}

func (self *source) Next(ctx context.Context) optional.Optional[idl.CodePoint] {
	self.fill(ctx)
	c := self.ahead
	if !c.IsPresent() {
		self.canUnget = false
		return c
	}
	self.ahead = optional.None[idl.CodePoint]()
	self.prev = self.pos
	if c.Value() == '\n' {
		self.pos.Line = self.pos.Line + 1
		self.pos.Column = 1
	} else {
		self.pos.Column = self.pos.Column + 1
	}
	self.canUnget = true
	return c
}

func (self *source) Pushback(c idl.CodePoint) {
	if !self.canUnget || self.ahead.IsPresent() {
		panic(exc.Newf(self.pos, exc.CodeInternal, "pushback of %q without a preceding consume", rune(c)))
	}
	self.ahead = optional.Some(c)
	self.pos = self.prev
	self.canUnget = false
}

func (self *source) Position() idl.Position {
	return self.pos
}

func (self *source) Close(ctx context.Context) error {
	return self.points.Close(ctx)
}
