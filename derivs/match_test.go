package derivs

import (
	"testing"

	"github.com/mossdlf/peg/ast"
)

// TestEndToEndScenarios runs the literal grammar/input/expected-result
// table of spec.md §8 straight through Load and Match, bypassing the
// .peg front-end so the core can be exercised in isolation from it.
func TestEndToEndScenarios(t *testing.T) {
	tests := []struct {
		name  string
		rules []ast.Rule
		input string
		want  bool
	}{
		{
			// S <- 'a' S 'b' / 'ab'
			name: "left-factored-recursive-match",
			rules: []ast.Rule{{
				Name: "S",
				Body: ast.Choice{
					ast.Sequence{ast.CharLit{C: 'a'}, ast.RuleRef{Name: "S"}, ast.CharLit{C: 'b'}},
					ast.StrLit{S: "ab"},
				},
			}},
			input: "aabb",
			want:  true,
		},
		{
			name: "left-factored-recursive-no-match",
			rules: []ast.Rule{{
				Name: "S",
				Body: ast.Choice{
					ast.Sequence{ast.CharLit{C: 'a'}, ast.RuleRef{Name: "S"}, ast.CharLit{C: 'b'}},
					ast.StrLit{S: "ab"},
				},
			}},
			input: "aab",
			want:  false,
		},
		{
			// S <- &'a' [a-z]+
			name: "positive-lookahead",
			rules: []ast.Rule{{
				Name: "S",
				Body: ast.Sequence{
					ast.And{M: ast.CharLit{C: 'a'}},
					ast.Some{M: ast.CharRange{Lo: 'a', Hi: 'z'}},
				},
			}},
			input: "abc",
			want:  true,
		},
		{
			// S <- !'x' [a-z]+
			name: "negative-lookahead-rejects",
			rules: []ast.Rule{{
				Name: "S",
				Body: ast.Sequence{
					ast.Not{M: ast.CharLit{C: 'x'}},
					ast.Some{M: ast.CharRange{Lo: 'a', Hi: 'z'}},
				},
			}},
			input: "xyz",
			want:  false,
		},
		{
			// N <- N '+' '1' / '1'  (left recursive, must not crash; no match)
			name: "left-recursion-yields-inf",
			rules: []ast.Rule{{
				Name: "N",
				Body: ast.Choice{
					ast.Sequence{ast.RuleRef{Name: "N"}, ast.CharLit{C: '+'}, ast.CharLit{C: '1'}},
					ast.CharLit{C: '1'},
				},
			}},
			input: "1+1",
			want:  false,
		},
		{
			// S <- ('a' / 'aa') 'b'  (classic ordered-choice commitment test)
			name: "ordered-choice-commits",
			rules: []ast.Rule{{
				Name: "S",
				Body: ast.Sequence{
					ast.Choice{ast.CharLit{C: 'a'}, ast.StrLit{S: "aa"}},
					ast.CharLit{C: 'b'},
				},
			}},
			input: "aab",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Load(ast.Grammar{Rules: tt.rules})
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			got, err := Match(g, []byte(tt.input), tt.rules[0].Name)
			if err != nil {
				t.Fatalf("Match: %v", err)
			}
			if got != tt.want {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.rules[0].Name, tt.input, got, tt.want)
			}
		})
	}
}

func TestMatchUnknownStartRule(t *testing.T) {
	g, err := Load(ast.Grammar{Rules: []ast.Rule{{Name: "S", Body: ast.Empty{}}}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := Match(g, []byte("x"), "nope"); err == nil {
		t.Fatal("Match with unknown start rule did not error")
	}
}

func TestLoadRejectsDuplicateRules(t *testing.T) {
	rules := []ast.Rule{
		{Name: "S", Body: ast.Empty{}},
		{Name: "S", Body: ast.CharLit{C: 'a'}},
	}
	if _, err := Load(ast.Grammar{Rules: rules}); err == nil {
		t.Fatal("Load with duplicate rule names did not error")
	}
}

func TestDesugaredOptionManySome(t *testing.T) {
	tests := []struct {
		name  string
		body  ast.Matcher
		input string
		want  bool
	}{
		{"option-present", ast.Sequence{ast.Option{M: ast.CharLit{C: 'a'}}, ast.CharLit{C: 'b'}}, "ab", true},
		{"option-absent", ast.Sequence{ast.Option{M: ast.CharLit{C: 'a'}}, ast.CharLit{C: 'b'}}, "b", true},
		{"many-zero", ast.Sequence{ast.Many{M: ast.CharLit{C: 'a'}}, ast.CharLit{C: 'b'}}, "b", true},
		{"many-several", ast.Sequence{ast.Many{M: ast.CharLit{C: 'a'}}, ast.CharLit{C: 'b'}}, "aaab", true},
		{"some-requires-one", ast.Sequence{ast.Some{M: ast.CharLit{C: 'a'}}, ast.CharLit{C: 'b'}}, "b", false},
		{"some-several", ast.Sequence{ast.Some{M: ast.CharLit{C: 'a'}}, ast.CharLit{C: 'b'}}, "aaab", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Load(ast.Grammar{Rules: []ast.Rule{{Name: "S", Body: tt.body}}})
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			got, err := Match(g, []byte(tt.input), "S")
			if err != nil {
				t.Fatalf("Match: %v", err)
			}
			if got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
