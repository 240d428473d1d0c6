package derivs

import "github.com/mossdlf/peg/ast"

// Fixer runs the Kleene-iteration nullability computation of spec.md
// §4.E over a grammar's rule bodies, at the ast.Matcher level — before
// the loader builds the smart-constructed Expr DAG, since the smart
// constructors themselves need to already know whether a Rule reference
// is nullable (NewAlt/NewSeq call e.Match(), and RuleExpr.Match reads the
// cached fixed point rather than recursing into the body).
type Fixer struct {
	info map[string]nullPair
}

// Fix computes the least fixed point of (nullable, exposes-lookahead) for
// every rule in g and returns it keyed by rule name.
func Fix(g ast.Grammar) map[string]nullPair {
	f := &Fixer{info: make(map[string]nullPair, len(g.Rules))}
	for _, r := range g.Rules {
		f.info[r.Name] = nullPair{}
	}
	for {
		changed := false
		for _, r := range g.Rules {
			np := f.of(r.Body)
			if np != f.info[r.Name] {
				f.info[r.Name] = np
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return f.info
}

func (f *Fixer) of(m ast.Matcher) nullPair {
	return nullPairOf(m, func(name string) nullPair { return f.info[name] })
}

// nullPairOf computes the per-variant pair of spec.md §4.E for a single
// ast.Matcher node, deferring to lookup for rule references. It is shared
// by Fixer (mid-iteration, against the iteration's own running table) and
// by the loader (post-fixpoint, against each Nonterminal's cached value,
// when desugaring Many, and so Some, at load time).
func nullPairOf(m ast.Matcher, lookup func(name string) nullPair) nullPair {
	switch v := m.(type) {
	case ast.Empty:
		return nullPair{true, false}
	case ast.CharLit, ast.CharRange, ast.AnyChar:
		return nullPair{false, false}
	case ast.StrLit:
		return nullPair{v.S == "", false}
	case ast.EOF:
		return nullPair{false, true}
	case ast.RuleRef:
		// In-progress references read the current iteration's value,
		// which is exactly what the lookup gives mid-pass.
		return lookup(v.Name)
	case ast.Option:
		sub := nullPairOf(v.M, lookup)
		return nullPair{true, sub.exposesLook}
	case ast.Many:
		sub := nullPairOf(v.M, lookup)
		return nullPair{true, sub.exposesLook}
	case ast.Some:
		return nullPairOf(v.M, lookup)
	case ast.And:
		return nullPair{false, true}
	case ast.Not:
		return nullPair{false, true}
	case ast.Capture:
		return nullPairOf(v.M, lookup)
	case ast.Action:
		return nullPairOf(v.M, lookup)
	case ast.NamedError:
		return nullPairOf(v.M, lookup)
	case ast.Sequence:
		acc := nullPair{true, true}
		for _, c := range v {
			cp := nullPairOf(c, lookup)
			acc = nullPair{acc.nullable && cp.nullable, acc.exposesLook && cp.exposesLook}
		}
		return acc
	case ast.Choice:
		acc := nullPair{false, false}
		for _, c := range v {
			cp := nullPairOf(c, lookup)
			acc = nullPair{acc.nullable || cp.nullable, acc.exposesLook || cp.exposesLook}
		}
		return acc
	default:
		return nullPair{false, false}
	}
}
