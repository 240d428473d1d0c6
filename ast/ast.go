// Package ast defines the grammar AST consumed by the derivs core.
//
// This is the boundary spec.md §6.1 describes: a sequence of named rules,
// each a Matcher tree built from the PEG surface operators. Producing a
// Grammar from source text is the front-end's job (see the root peg
// package); turning a Grammar into a derivs.Expr DAG is derivs.Load's.
package ast

import (
	"fmt"
	"strings"
)

// Grammar is an ordered set of named rules, plus a lookup by name.
type Grammar struct {
	Rules []Rule
}

// Rule binds a name to the Matcher that recognizes it.
type Rule struct {
	Name    string
	Body    Matcher
	Comment string
}

// Lookup finds a rule by name, or reports ok=false.
func (g Grammar) Lookup(name string) (Rule, bool) {
	for _, r := range g.Rules {
		if r.Name == name {
			return r, true
		}
	}
	return Rule{}, false
}

func (g Grammar) Format(w fmt.State, r rune) {
	for i, rule := range g.Rules {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if rule.Name == "" {
			continue
		}
		fmt.Fprintf(w, "%s <- %v", rule.Name, rule.Body)
	}
}

// Matcher is one node of a rule body. The variant set mirrors spec.md §6.1:
// literals, ranges, rule references, the PEG repetition/lookahead operators,
// sequencing/choice, and the pass-through wrappers (Capture, Action,
// NamedError) the core ignores but must accept.
type Matcher interface {
	fmt.Formatter
	isMatcher()
}

type Empty struct{}

func (Empty) isMatcher() {}
func (Empty) Format(w fmt.State, _ rune) { fmt.Fprint(w, `""`) }

type CharLit struct{ C byte }

func (CharLit) isMatcher() {}
func (m CharLit) Format(w fmt.State, _ rune) { fmt.Fprintf(w, "%q", string(m.C)) }

type StrLit struct{ S string }

func (StrLit) isMatcher() {}
func (m StrLit) Format(w fmt.State, _ rune) { fmt.Fprintf(w, "%q", m.S) }

// CharRange matches any byte in [Lo,Hi].
type CharRange struct{ Lo, Hi byte }

func (CharRange) isMatcher() {}
func (m CharRange) Format(w fmt.State, _ rune) { fmt.Fprintf(w, "[%c-%c]", m.Lo, m.Hi) }

// AnyChar matches any single non-terminator byte.
type AnyChar struct{}

func (AnyChar) isMatcher() {}
func (AnyChar) Format(w fmt.State, _ rune) { fmt.Fprint(w, ".") }

// EOF matches only at end of input.
type EOF struct{}

func (EOF) isMatcher() {}
func (EOF) Format(w fmt.State, _ rune) { fmt.Fprint(w, "$") }

// RuleRef invokes the named rule.
type RuleRef struct{ Name string }

func (RuleRef) isMatcher() {}
func (m RuleRef) Format(w fmt.State, _ rune) { fmt.Fprint(w, m.Name) }

type Option struct{ M Matcher }

func (Option) isMatcher() {}
func (m Option) Format(w fmt.State, _ rune) { fmt.Fprintf(w, "%v?", m.M) }

type Many struct{ M Matcher } // zero or more

func (Many) isMatcher() {}
func (m Many) Format(w fmt.State, _ rune) { fmt.Fprintf(w, "%v*", m.M) }

type Some struct{ M Matcher } // one or more

func (Some) isMatcher() {}
func (m Some) Format(w fmt.State, _ rune) { fmt.Fprintf(w, "%v+", m.M) }

type And struct{ M Matcher } // positive lookahead

func (And) isMatcher() {}
func (m And) Format(w fmt.State, _ rune) { fmt.Fprintf(w, "&%v", m.M) }

type Not struct{ M Matcher } // negative lookahead

func (Not) isMatcher() {}
func (m Not) Format(w fmt.State, _ rune) { fmt.Fprintf(w, "!%v", m.M) }

// Capture wraps a matcher whose matched text should be remembered by a
// backend. The core passes it through unchanged (spec.md §1, §6.1).
type Capture struct{ M Matcher }

func (Capture) isMatcher() {}
func (m Capture) Format(w fmt.State, _ rune) { fmt.Fprintf(w, "<%v>", m.M) }

// Action wraps a matcher with a backend-evaluated semantic action name.
// The core treats it exactly like its child.
type Action struct {
	M    Matcher
	Name string
}

func (Action) isMatcher() {}
func (m Action) Format(w fmt.State, _ rune) { fmt.Fprintf(w, "%v %%%s", m.M, m.Name) }

// NamedError wraps a matcher with a diagnostic label for a backend's error
// reporting. The core treats it exactly like its child (spec.md §7 leaves
// richer diagnostics to the front-end/back-end).
type NamedError struct {
	M     Matcher
	Label string
}

func (NamedError) isMatcher() {}
func (m NamedError) Format(w fmt.State, _ rune) { fmt.Fprintf(w, "%v^%s", m.M, m.Label) }

type Sequence []Matcher

func (Sequence) isMatcher() {}
func (m Sequence) Format(w fmt.State, _ rune) {
	parts := make([]string, len(m))
	for i, c := range m {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprint(w, strings.Join(parts, " "))
}

type Choice []Matcher

func (Choice) isMatcher() {}
func (m Choice) Format(w fmt.State, _ rune) {
	parts := make([]string, len(m))
	for i, c := range m {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprint(w, strings.Join(parts, " / "))
}
