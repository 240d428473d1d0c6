package derivs

import (
	"fmt"

	"github.com/mossdlf/peg/ast"
)

// Grammar is the loaded, derivation-ready form of an ast.Grammar: every
// rule name bound to a Nonterminal cell whose Body is already built and
// smoothed through the smart constructors of cons.go.
type Grammar struct {
	Nonterminals map[string]*Nonterminal
}

// Load builds the initial expression DAG for g (spec.md §2's loader,
// §6.1's boundary). It runs the nullability fixer once up front, since
// the smart constructors invoked while building rule bodies need
// Nonterminal.fixed already populated for every Rule reference they
// touch, including forward and recursive references.
func Load(g ast.Grammar) (*Grammar, error) {
	nts := make(map[string]*Nonterminal, len(g.Rules))
	for _, r := range g.Rules {
		if _, dup := nts[r.Name]; dup {
			return nil, fmt.Errorf("derivs: duplicate rule %q", r.Name)
		}
		nts[r.Name] = NewNonterminal(r.Name)
	}

	fixed := Fix(g)
	for name, nt := range nts {
		nt.fixed = fixed[name]
	}

	ld := &loader{nts: nts}
	for _, r := range g.Rules {
		nts[r.Name].Body = ld.build(r.Body)
	}

	return &Grammar{Nonterminals: nts}, nil
}

// loader translates ast.Matcher trees into the closed Expr algebra,
// desugaring the surface repetition/lookahead operators that spec.md
// §3.2 does not include (Option, Many, Some, And) into Alt/Seq/Not at
// this single boundary, the way a front-end's code generator would
// lower sugar before handing a tree to a narrower backend.
type loader struct {
	nts  map[string]*Nonterminal
	anon int
}

func (l *loader) nullOf(m ast.Matcher) nullPair {
	return nullPairOf(m, func(name string) nullPair { return l.nts[name].fixed })
}

func (l *loader) anonName(prefix string) string {
	l.anon++
	return fmt.Sprintf("<%s:%d>", prefix, l.anon)
}

func (l *loader) build(m ast.Matcher) Expr {
	switch v := m.(type) {
	case ast.Empty:
		return Eps{}
	case ast.CharLit:
		return Char{C: v.C}
	case ast.StrLit:
		switch len(v.S) {
		case 0:
			return Eps{}
		case 1:
			return Char{C: v.S[0]}
		default:
			return Str{S: v.S}
		}
	case ast.CharRange:
		return Range{Lo: v.Lo, Hi: v.Hi}
	case ast.AnyChar:
		return Any{}
	case ast.EOF:
		// Matches only when there is no next character: Any fails only
		// at the terminator, so its negation succeeds only there.
		return NewNot(Any{})

	case ast.RuleRef:
		nt, ok := l.nts[v.Name]
		if !ok {
			panic("derivs: loader: unknown rule " + v.Name)
		}
		return RuleExpr{Nt: nt}

	case ast.Option:
		// m? = Alt(m, Eps)
		return altOf(l.build(v.M), Eps{})

	case ast.Many:
		return l.buildMany(v.M)

	case ast.Some:
		// m+ = Seq(m, m*)
		return NewSeq(l.build(v.M), l.buildMany(v.M))

	case ast.And:
		// &m = !!m
		return NewNot(NewNot(l.build(v.M)))

	case ast.Not:
		return NewNot(l.build(v.M))

	case ast.Capture:
		return l.build(v.M)
	case ast.Action:
		return l.build(v.M)
	case ast.NamedError:
		return l.build(v.M)

	case ast.Sequence:
		if len(v) == 0 {
			return Eps{}
		}
		acc := l.build(v[len(v)-1])
		for i := len(v) - 2; i >= 0; i-- {
			acc = NewSeq(l.build(v[i]), acc)
		}
		return acc

	case ast.Choice:
		if len(v) == 0 {
			return Fail{}
		}
		acc := l.build(v[len(v)-1])
		for i := len(v) - 2; i >= 0; i-- {
			acc = altOf(l.build(v[i]), acc)
		}
		return acc

	default:
		panic(fmt.Sprintf("derivs: loader: unhandled matcher %T", m))
	}
}

// buildMany desugars m* into a synthesized, self-referential rule
//
//	<many:N> <- m <many:N> / ""
//
// the way a left-factored PEG library would introduce an anonymous
// nonterminal for a repetition operator it doesn't have a primitive for
// (spec.md §3.2 has no Many variant; Rule is the only way to get
// recursion, which is exactly what a bounded loop needs).
func (l *loader) buildMany(m ast.Matcher) Expr {
	sub := l.nullOf(m)
	anon := NewNonterminal(l.anonName("many"))
	anon.fixed = nullPair{nullable: true, exposesLook: sub.exposesLook}
	l.nts[anon.Name] = anon

	anon.Body = altOf(NewSeq(l.build(m), RuleExpr{Nt: anon}), Eps{})
	return RuleExpr{Nt: anon}
}

// altOf builds an Alt(a, b) with both sides renumbered through identity
// generation maps over their shared outer maximum, the shape every
// desugared choice needs before the derivative engine starts growing it.
func altOf(a, b Expr) Expr {
	gm := a.Back().Max()
	if bm := b.Back().Max(); bm > gm {
		gm = bm
	}
	return NewAlt(a, b, IdentityGenMap(gm), IdentityGenMap(gm), gm)
}
