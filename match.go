// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package peg

import "github.com/mossdlf/peg/derivs"

// Match parses the PEG source text in grammar, loads it into the
// derivative-based recognizer core, and reports whether the rule named
// start matches a prefix of input (possibly all of it): matching stops at
// the first position where the rule matches, and any input after that
// position is not examined. This is spec.md §6.2's entry point:
// match(grammar, input, start) -> bool.
//
// grammar is parsed fresh on every call; callers that match many inputs
// against the same source should call Compile once and reuse it.
func Match(name, grammarSource string, input []byte, start string) (bool, error) {
	c, err := Compile(name, grammarSource)
	if err != nil {
		return false, err
	}
	return c.Match(input, start)
}

// Compiled is a grammar that has been parsed and loaded into the derivs
// core, ready to match any number of inputs without re-parsing its source.
type Compiled struct {
	g     *derivs.Grammar
	first string
}

// Compile parses and loads a PEG grammar once, for reuse across Match calls.
func Compile(name, grammarSource string) (*Compiled, error) {
	a, err := NewGrammar(name, grammarSource)
	if err != nil {
		return nil, err
	}
	g, err := derivs.Load(a)
	if err != nil {
		return nil, err
	}
	c := &Compiled{g: g}
	if len(a.Rules) > 0 {
		c.first = a.Rules[0].Name
	}
	return c, nil
}

// Match reports whether input fully matches the rule named start. If
// start is empty, the grammar's first declared rule is used, the way a
// PEG's first rule conventionally names its own start symbol.
func (c *Compiled) Match(input []byte, start string) (bool, error) {
	if start == "" {
		start = c.first
	}
	return derivs.Match(c.g, input, start)
}

// FirstRule returns the name of the grammar's first declared rule, its
// conventional start symbol.
func (c *Compiled) FirstRule() string {
	return c.first
}
