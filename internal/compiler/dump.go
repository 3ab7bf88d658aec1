// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"gopkg.microglot.org/pawc/internal/idl"
)

type DumpFormat string

const (
	DumpFormatText DumpFormat = "text"
	DumpFormatJSON DumpFormat = "json"
)

func ParseDumpFormat(s string) (DumpFormat, error) {
	switch DumpFormat(s) {
	case "", DumpFormatText:
		return DumpFormatText, nil
	case DumpFormatJSON:
		return DumpFormatJSON, nil
	default:
		return "", fmt.Errorf("unknown dump format %q", s)
	}
}

// DumpTokens writes a human readable rendering of a token sequence for
// debugging. The output is not meant to be lexed again.
func DumpTokens(w io.Writer, f *idl.TokenFile, format DumpFormat) error {
	switch format {
	case DumpFormatJSON:
		return dumpJSON(w, f)
	case DumpFormatText, "":
		return dumpText(w, f)
	default:
		return fmt.Errorf("unknown dump format %q", format)
	}
}

func dumpText(w io.Writer, f *idl.TokenFile) error {
	for _, token := range f.Tokens {
		if _, err := fmt.Fprintf(w, "%-24s%-12s%q", token.Position, token.Kind(), token.Value.String()); err != nil {
			return err
		}
		if token.Whitespace {
			if _, err := io.WriteString(w, " whitespace"); err != nil {
				return err
			}
		}
		if token.Expression.IsPresent() {
			if _, err := fmt.Fprintf(w, " brackets=%q", token.Expression.Value()); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func dumpJSON(w io.Writer, f *idl.TokenFile) error {
	tokens := make([]any, 0, len(f.Tokens))
	for _, token := range f.Tokens {
		t := map[string]any{
			"kind":         token.Kind().String(),
			"value":        token.Value.String(),
			"whitespace":   token.Whitespace,
			"line":         token.Position.Line,
			"column":       token.Position.Column,
			"start_line":   token.Start.Line,
			"start_column": token.Start.Column,
		}
		if token.Expression.IsPresent() {
			t["brackets"] = token.Expression.Value()
		}
		tokens = append(tokens, t)
	}
	s, err := structpb.NewStruct(map[string]any{
		"file":   f.URI,
		"kind":   f.Kind.String(),
		"tokens": tokens,
	})
	if err != nil {
		return err
	}
	b, err := protojson.MarshalOptions{Multiline: true}.Marshal(s)
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}
