// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package peg

import (
	"fmt"
	"strings"
	"sync"

	"github.com/mossdlf/peg/ast"
)

// NewGrammar parses source, written in the PEG dialect recognized by
// LanguageParser (see grammar.peg), into an ast.Grammar ready for
// derivs.Load. name is used only
// for error messages (it labels the source the way a filename would).
func NewGrammar(name string, source string) (ast.Grammar, error) {
	p := NewParser(LanguageParser())
	pegPrepare(p)
	v, err := p.Parse(name, strings.NewReader(source))
	if err != nil {
		return ast.Grammar{}, err
	}
	lines := v.([]interface{})
	var g ast.Grammar
	for _, l := range lines {
		r, ok := l.(ast.Rule)
		if !ok || r.Name == "" {
			continue
		}
		g.Rules = append(g.Rules, r)
	}
	return g, nil
}

var initOnce sync.Once

// LanguageParser returns a Grammar object for the PEG language itself.
// This builds the grammar by hand to bootstrap; grammar.peg holds a
// human-readable copy, and TestLanguage checks that the main rules exist.
func LanguageParser() Grammar {
	initOnce.Do(func() {
		initGrammar()
	})
	return builderGrammar
}

var builderGrammar Grammar

func initGrammar() {
	ws := Lookup("_")
	builderGrammar = Grammar{
		Rule{Name: "PEG", Expression: Sequence(
			ZeroOrMore(Lookup("Line")),
			ws, Expect(EOF))},
		Rule{Name: "Line", Expression: Sequence(
			NotPredicate(EOF),
			ws, Optional(Lookup("Rule")),
			ws, Optional(Lookup("Comment")),
			Expect(Choice(mustPattern(`\n`), EOF)))},
		Rule{Name: "Comment", Expression: Sequence(
			Literal(`#`), mustPattern(`(.*)`))},
		Rule{Name: "Rule", Expression: Sequence(
			Lookup("Identifier"),
			ws, Expect(Literal(`<-`)),
			ws, Lookup("Expression"))},
		Rule{Name: "Lookup", Expression: Sequence(
			Lookup("Identifier"),
			NotPredicate(Sequence(ws, Literal(`<-`))))},
		Rule{Name: "Expression", Expression: Lookup("Choice")},
		Rule{Name: "Choice", Expression: Sequence(
			Lookup("Sequence"),
			ZeroOrMore(Sequence(
				ws, Literal(`/`),
				ws, Expect(Lookup("Sequence")))))},
		Rule{Name: "Sequence", Expression: Sequence(
			Lookup("Compound"),
			ZeroOrMore(Sequence(ws, Lookup("Compound"))))},
		Rule{Name: "Compound", Expression: Sequence(
			Choice(
				Sequence(Lookup("Prefix"), Expect(Lookup("Atom"))),
				Lookup("Atom"),
			), Lookup("Postfix"))},
		Rule{Name: "Prefix", Expression: mustPattern(`([&!:]+)`)},
		Rule{Name: "Atom", Expression: Choice(
			Lookup("Literal"),
			Lookup("Pattern"),
			Lookup("EOF"),
			Lookup("Lookup"),
			Lookup("Group"))},
		Rule{Name: "Postfix", Expression: Optional(mustPattern(`([+*?]*)`))},
		Rule{Name: "Literal", Expression: mustPattern(`"((?:\\.|[^"\\])*)"`)},
		Rule{Name: "Pattern", Expression: mustPattern(`\'((?:\\.|[^\'\\])*)\'`)},
		Rule{Name: "EOF", Expression: Literal(`$`)},
		Rule{Name: "Group", Expression: Sequence(
			Literal(`(`),
			ws, Optional(Lookup("Expression")),
			ws, Expect(Literal(`)`)))},
		Rule{Name: "Identifier", Expression: mustPattern(`(\w+)`)},
		Rule{Name: "_", Expression: Optional(mustPattern(`[ \t]*`))},
	}
}

// pegPrepare wires the processors that turn a recognized .peg parse tree
// into ast values: every rule the front-end matches produces a piece of
// ast.Matcher (or a complete ast.Rule), not a self-executing
// peg.Expression the way the bootstrap grammar above does. This is the
// one place the front-end hands off to the core's vocabulary.
func pegPrepare(p *Parser) {
	p.Process("Line", func(args ...interface{}) (interface{}, error) {
		switch len(args) {
		case 0:
			return ast.Rule{}, nil
		case 1:
			return args[0], nil
		case 2:
			r := args[0].(ast.Rule)
			c := args[1].(ast.Rule)
			r.Comment = c.Comment
			return r, nil
		default:
			panic("grammar does not match rules")
		}
	})
	p.Process("Comment", func(args ...interface{}) (interface{}, error) {
		return ast.Rule{Comment: args[0].(string)}, nil
	})
	p.Process("Rule", func(args ...interface{}) (interface{}, error) {
		return ast.Rule{Name: args[0].(string), Body: args[1].(ast.Matcher)}, nil
	})
	p.Process("Literal", func(args ...interface{}) (interface{}, error) {
		s := unescape(args[0].(string))
		return stringMatcher(s), nil
	})
	p.Process("Pattern", func(args ...interface{}) (interface{}, error) {
		return parsePattern(unescape(args[0].(string)))
	})
	p.Process("EOF", func(args ...interface{}) (interface{}, error) {
		return ast.Matcher(ast.EOF{}), nil
	})
	p.Process("Lookup", func(args ...interface{}) (interface{}, error) {
		return ast.Matcher(ast.RuleRef{Name: args[0].(string)}), nil
	})
	p.Process("Compound", func(args ...interface{}) (interface{}, error) {
		if len(args) == 0 {
			return nil, nil
		}
		prefix, hasPrefix := args[0].(string)
		if hasPrefix {
			args = args[1:]
		}
		if len(args) == 0 {
			return nil, nil
		}
		node := args[0].(ast.Matcher)
		if len(args) == 2 {
			postfix := args[1].(string)
			for _, p := range postfix {
				switch p {
				case '+':
					node = ast.Some{M: node}
				case '*':
					node = ast.Many{M: node}
				case '?':
					node = ast.Option{M: node}
				}
			}
		}
		for i := len(prefix) - 1; i >= 0; i-- {
			switch prefix[i] {
			case '&':
				node = ast.And{M: node}
			case '!':
				node = ast.Not{M: node}
			case ':':
				node = ast.NamedError{M: node, Label: fmt.Sprint(node)}
			}
		}
		return node, nil
	})
	p.Process("Choice", func(args ...interface{}) (interface{}, error) {
		nodes := make(ast.Choice, len(args))
		for i, v := range args {
			nodes[i] = v.(ast.Matcher)
		}
		if len(nodes) == 1 {
			return nodes[0], nil
		}
		return nodes, nil
	})
	p.Process("Sequence", func(args ...interface{}) (interface{}, error) {
		nodes := make(ast.Sequence, len(args))
		for i, v := range args {
			nodes[i] = v.(ast.Matcher)
		}
		if len(nodes) == 1 {
			return nodes[0], nil
		}
		return nodes, nil
	})
}

// stringMatcher collapses a literal string to the smallest ast shape that
// represents it, the way derivs' own loader collapses Str further still
// for single-character and empty strings.
func stringMatcher(s string) ast.Matcher {
	switch len(s) {
	case 0:
		return ast.Empty{}
	case 1:
		return ast.CharLit{C: s[0]}
	default:
		return ast.StrLit{S: s}
	}
}

// parsePattern interprets the body of a single-quoted 'pattern' atom.
// Unlike the bootstrap Language grammar's own patterns (which compile
// arbitrary regexps to parse .peg syntax itself), a grammar author's
// 'pattern' atoms are restricted to the handful of shapes the core's
// algebra actually has primitives for (spec.md §3.2 has no general
// character-class node): a bare ".", a single character, or a bracketed
// [lo-hi] range.
func parsePattern(raw string) (ast.Matcher, error) {
	if raw == "." {
		return ast.AnyChar{}, nil
	}
	if len(raw) == 5 && raw[0] == '[' && raw[2] == '-' && raw[4] == ']' {
		return ast.CharRange{Lo: raw[1], Hi: raw[3]}, nil
	}
	if len(raw) == 1 {
		return ast.CharLit{C: raw[0]}, nil
	}
	return nil, fmt.Errorf("peg: unsupported pattern %q (only \".\", a single character, or \"[lo-hi]\" are supported)", raw)
}

func unescape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
