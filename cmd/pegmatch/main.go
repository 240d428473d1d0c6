// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command pegmatch loads a .peg grammar and reports, for one or more
// inputs, whether a named rule matches a prefix of each input (see
// peg.Match). It is the interpreter mode of spec.md
// §6.3's front-end/back-end/interpreter split, with the code-generating
// back-end left unbuilt: pegmatch only ever asks the derivs core whether
// an input matches, the way the original egg tool's own interpreter mode
// runs a grammar directly against stdin rather than generating a parser
// for it.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/mossdlf/peg"
)

func main() {
	var (
		grammarPath = flag.String("grammar", "", "path to a .peg grammar file (required)")
		root        = flag.String("root", "", "rule to match each input against (default: the grammar's first rule)")
		trace       = flag.Bool("trace", false, "log debug messages (grammar path, start rule) to stderr")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s -grammar=file.peg [-root=Rule] [input...]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "reads inputs to match from the command line, or one per line from stdin if none are given.\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := zap.NewNop()
	if *trace {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintln(os.Stderr, "pegmatch:", err)
			os.Exit(2)
		}
		logger = l
		defer logger.Sync()
	}

	if err := run(logger, *grammarPath, *root, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "pegmatch:", err)
		os.Exit(1)
	}
}

func run(logger *zap.Logger, grammarPath, root string, inputs []string) error {
	if grammarPath == "" {
		flag.Usage()
		return fmt.Errorf("missing -grammar")
	}
	src, err := os.ReadFile(grammarPath)
	if err != nil {
		return err
	}
	logger.Debug("parsing grammar", zap.String("path", grammarPath))
	c, err := peg.Compile(grammarPath, string(src))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", grammarPath, err)
	}
	start := root
	if start == "" {
		start = c.FirstRule()
	}
	logger.Debug("matching against rule", zap.String("rule", start))

	if len(inputs) == 0 {
		return matchLines(c, start, os.Stdin, os.Stdout)
	}
	for _, in := range inputs {
		ok, err := c.Match([]byte(in), start)
		if err != nil {
			return fmt.Errorf("matching %q: %w", in, err)
		}
		fmt.Printf("%v\t%s\n", ok, in)
	}
	return nil
}

func matchLines(c *peg.Compiled, start string, in *os.File, out *os.File) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		ok, err := c.Match([]byte(line), start)
		if err != nil {
			return fmt.Errorf("matching %q: %w", line, err)
		}
		fmt.Fprintf(out, "%v\t%s\n", ok, line)
	}
	return scanner.Err()
}
