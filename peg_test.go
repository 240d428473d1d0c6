// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package peg_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mossdlf/peg"
	"github.com/mossdlf/peg/ast"
)

// TestLanguage checks that the hand-bootstrapped meta-grammar used to
// recognize .peg source text itself declares the main rules of the .peg
// syntax (PEG, Rule, Expression, Choice, Sequence, Compound, Atom,
// Literal, Pattern, Group). It can't be round-tripped
// through NewGrammar the way a user grammar can: the meta-grammar's own
// patterns use full regexp syntax (`(\w+)`, `[ \t]*`, ...), which the
// restricted Pattern rule a grammar author writes against deliberately
// does not accept (see parsePattern in grammar.go).
func TestLanguage(t *testing.T) {
	g := peg.LanguageParser()
	for _, name := range []string{"PEG", "Rule", "Expression", "Choice", "Sequence", "Compound", "Atom", "Literal", "Pattern", "Group"} {
		if g.Rule(name) == nil {
			t.Errorf("LanguageParser() has no rule %q", name)
		}
	}
}

// TestCompileErrors helps check that invalid PEG source produces correct and
// useful error messages.
func TestCompileErrors(t *testing.T) {
	for _, test := range []struct {
		name     string
		language string
		contains string
		remains  string
	}{
		{
			name:     `unclosed group`,
			language: "rule <- ( # not closed ",
			contains: `expect ")"`,
			remains:  `# not closed`,
		},
		{
			name:     `unsupported pattern`,
			language: `rule <- '(\w+)'`,
			contains: `unsupported pattern`,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := peg.NewGrammar(test.name, test.language)
			if err == nil {
				t.Fatalf("Expected error")
			}
			msg := err.Error()
			if !strings.Contains(msg, test.contains) {
				t.Errorf("Wrong error message, got:\n  %v\nexpected error containing:\n  %s", msg, test.contains)
			}
			if test.remains != "" {
				remains := `got "` + test.remains
				if !strings.Contains(msg, remains) {
					t.Errorf("Wrong error position, got:\n  %v\nexpected:\n  %s", msg, remains)
				}
			}
		})
	}
}

// TestNewGrammarBuildsAST checks that each surface PEG operator is
// translated into the ast.Matcher shape derivs.Load expects, rather than
// into the front-end's own self-executing Expression tree.
func TestNewGrammarBuildsAST(t *testing.T) {
	for _, test := range []struct {
		name     string
		language string
		want     ast.Grammar
	}{
		{
			name:     "literal",
			language: `rule <- "ab"`,
			want:     ast.Grammar{Rules: []ast.Rule{{Name: "rule", Body: ast.StrLit{S: "ab"}}}},
		},
		{
			name:     "single char literal collapses",
			language: `rule <- "a"`,
			want:     ast.Grammar{Rules: []ast.Rule{{Name: "rule", Body: ast.CharLit{C: 'a'}}}},
		},
		{
			name:     "range pattern",
			language: `rule <- '[a-z]'`,
			want:     ast.Grammar{Rules: []ast.Rule{{Name: "rule", Body: ast.CharRange{Lo: 'a', Hi: 'z'}}}},
		},
		{
			name:     "any pattern",
			language: `rule <- '.'`,
			want:     ast.Grammar{Rules: []ast.Rule{{Name: "rule", Body: ast.AnyChar{}}}},
		},
		{
			name:     "eof",
			language: `rule <- $`,
			want:     ast.Grammar{Rules: []ast.Rule{{Name: "rule", Body: ast.EOF{}}}},
		},
		{
			name:     "rule reference",
			language: `rule <- other`,
			want:     ast.Grammar{Rules: []ast.Rule{{Name: "rule", Body: ast.RuleRef{Name: "other"}}}},
		},
		{
			name:     "postfix operators",
			language: "rule <- \"a\"+ \"b\"* \"c\"?",
			want: ast.Grammar{Rules: []ast.Rule{{Name: "rule", Body: ast.Sequence{
				ast.Some{M: ast.CharLit{C: 'a'}},
				ast.Many{M: ast.CharLit{C: 'b'}},
				ast.Option{M: ast.CharLit{C: 'c'}},
			}}}},
		},
		{
			name:     "prefix predicates",
			language: "rule <- &\"a\" !\"b\"",
			want: ast.Grammar{Rules: []ast.Rule{{Name: "rule", Body: ast.Sequence{
				ast.And{M: ast.CharLit{C: 'a'}},
				ast.Not{M: ast.CharLit{C: 'b'}},
			}}}},
		},
		{
			name:     "choice",
			language: `rule <- "a" / "b" / "c"`,
			want: ast.Grammar{Rules: []ast.Rule{{Name: "rule", Body: ast.Choice{
				ast.CharLit{C: 'a'}, ast.CharLit{C: 'b'}, ast.CharLit{C: 'c'},
			}}}},
		},
		{
			name:     "grouping",
			language: `rule <- ("a" "b") / "c"`,
			want: ast.Grammar{Rules: []ast.Rule{{Name: "rule", Body: ast.Choice{
				ast.Sequence{ast.CharLit{C: 'a'}, ast.CharLit{C: 'b'}},
				ast.CharLit{C: 'c'},
			}}}},
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			got, err := peg.NewGrammar(test.name, test.language)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("NewGrammar(%q) mismatch (-want +got):\n%s", test.language, diff)
			}
		})
	}
}

func TestNewGrammarMultipleRules(t *testing.T) {
	const language = `
Sum  <- Digit Digit
Digit <- '[0-9]'
`
	g, err := peg.NewGrammar("multi", language)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Rules) != 2 {
		t.Fatalf("got %d rules, want 2: %+v", len(g.Rules), g.Rules)
	}
	if _, ok := g.Lookup("Sum"); !ok {
		t.Error("missing rule Sum")
	}
	if _, ok := g.Lookup("Digit"); !ok {
		t.Error("missing rule Digit")
	}
}
