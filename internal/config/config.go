// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package config loads the optional pawc.yaml project file.
//
//	roots: [src, include]
//	escapes: literal
//	max_concurrency: 4
//	dump_format: text
//
// Relative roots are resolved against the directory holding the file.
package config

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"gopkg.microglot.org/pawc/internal/compiler"
	"gopkg.microglot.org/pawc/internal/compiler/paw"
	"gopkg.microglot.org/pawc/internal/exc"
)

const DefaultPath = "pawc.yaml"

type Config struct {
	Roots          []string `yaml:"roots"`
	Escapes        string   `yaml:"escapes"`
	MaxConcurrency int      `yaml:"max_concurrency"`
	DumpFormat     string   `yaml:"dump_format"`
}

func Default() *Config {
	return &Config{
		Roots:      []string{"."},
		Escapes:    paw.EscapeModeLiteral.String(),
		DumpFormat: string(compiler.DumpFormatText),
	}
}

// Load reads the file at path over the defaults. A missing file is only an
// error when required is set.
func Load(path string, required bool) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return Default(), nil
		}
		return nil, exc.Wrap(exc.File(path), exc.CodeFileNotFound, err)
	}
	defer f.Close()
	c, err := Parse(path, f)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	for offset, root := range c.Roots {
		if !filepath.IsAbs(root) {
			c.Roots[offset] = filepath.Join(dir, root)
		}
	}
	return c, nil
}

// Parse decodes a configuration document. Unknown keys are rejected. An
// empty document yields the defaults.
func Parse(name string, r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, exc.Wrap(exc.File(name), exc.CodeInvalidConfig, err)
	}
	if err := c.Validate(); err != nil {
		return nil, exc.Wrap(exc.File(name), exc.CodeInvalidConfig, err)
	}
	return c, nil
}

func (c *Config) Validate() error {
	if _, err := paw.ParseEscapeMode(c.Escapes); err != nil {
		return err
	}
	if _, err := compiler.ParseDumpFormat(c.DumpFormat); err != nil {
		return err
	}
	if c.MaxConcurrency < 0 {
		return errors.New("max_concurrency must not be negative")
	}
	return nil
}

// EscapeMode returns the parsed escape mode. Call Validate first.
func (c *Config) EscapeMode() paw.EscapeMode {
	mode, _ := paw.ParseEscapeMode(c.Escapes)
	return mode
}

// Format returns the parsed dump format. Call Validate first.
func (c *Config) Format() compiler.DumpFormat {
	format, _ := compiler.ParseDumpFormat(c.DumpFormat)
	return format
}
