// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"gopkg.microglot.org/pawc/internal/compiler"
	"gopkg.microglot.org/pawc/internal/config"
	"gopkg.microglot.org/pawc/internal/fs"
	"gopkg.microglot.org/pawc/internal/idl"
)

type opts struct {
	Roots          []string
	Config         string
	DumpTokens     bool
	DumpFormat     string
	Escapes        string
	MaxConcurrency int
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	op := &opts{}
	flags := pflag.NewFlagSet("pawc", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringSliceVar(&op.Roots, "root", nil, "Root search paths for sources. Overrides the config file.")
	flags.StringVar(&op.Config, "config", "", "Path to a pawc.yaml file. Defaults to ./pawc.yaml when present.")
	flags.BoolVar(&op.DumpTokens, "dump-tokens", false, "Output the token stream of every file")
	flags.StringVar(&op.DumpFormat, "dump-format", "", "Token dump format: text or json.")
	flags.StringVar(&op.Escapes, "escapes", "", "String escape handling: literal or legacy.")
	flags.IntVar(&op.MaxConcurrency, "max-concurrency", 0, "Maximum number of files lexed at once.")
	if err := flags.Parse(args); err != nil {
		return 2
	}
	targets := flags.Args()
	if len(targets) == 0 {
		fmt.Fprintln(stderr, "usage: pawc [flags] targets...")
		flags.PrintDefaults()
		return 2
	}
	report := newReporter(stderr)

	cfgPath := op.Config
	if cfgPath == "" {
		cfgPath = config.DefaultPath
	}
	cfg, err := config.Load(cfgPath, op.Config != "")
	if err != nil {
		report(err)
		return 1
	}
	if flags.Changed("root") {
		cfg.Roots = op.Roots
	}
	if flags.Changed("dump-format") {
		cfg.DumpFormat = op.DumpFormat
	}
	if flags.Changed("escapes") {
		cfg.Escapes = op.Escapes
	}
	if flags.Changed("max-concurrency") {
		cfg.MaxConcurrency = op.MaxConcurrency
	}
	if err := cfg.Validate(); err != nil {
		report(err)
		return 1
	}

	f, err := compiler.NewDefaultFS(os.LookupEnv)
	if err != nil {
		report(err)
		return 1
	}
	mf := make(fs.FileSystemMulti, 0, len(cfg.Roots)+1)
	for _, root := range cfg.Roots {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			report(err)
			return 1
		}
		rf, err := fs.NewFileSystemLocal(absRoot)
		if err != nil {
			report(err)
			return 1
		}
		mf = append(mf, rf)
	}
	mf = append(mf, f)

	c, err := compiler.New(
		compiler.OptionWithLookupEnv(os.LookupEnv),
		compiler.OptionWithFS(mf),
		compiler.OptionWithMaxConcurrency(cfg.MaxConcurrency),
		compiler.OptionWithEscapeMode(cfg.EscapeMode()),
	)
	if err != nil {
		report(err)
		return 1
	}

	out, err := c.Compile(ctx, &idl.CompileRequest{Files: targets})
	if op.DumpTokens && out != nil {
		for _, tf := range out.Files {
			if dumpErr := compiler.DumpTokens(stdout, tf, cfg.Format()); dumpErr != nil {
				report(dumpErr)
				return 1
			}
		}
	}
	if err != nil {
		var me compiler.MultiException
		if errors.As(err, &me) {
			for _, e := range me {
				report(e)
			}
		} else {
			report(err)
		}
		fmt.Fprintln(stdout, "Compile failed.")
		return 1
	}
	fmt.Fprintln(stdout, "Successfully compiled.")
	return 0
}

// newReporter prints diagnostics to w, in red when w is a terminal.
func newReporter(w io.Writer) func(error) {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return func(err error) {
		if color {
			fmt.Fprintf(w, "\x1b[31m%s\x1b[0m\n", err.Error())
			return
		}
		fmt.Fprintln(w, err.Error())
	}
}
