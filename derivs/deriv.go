package derivs

// Derive computes ∂x e, the Brzozowski-style derivative of e with respect
// to the byte x, per spec.md §4.D. x == 0 is the end-of-input terminator;
// real input never contains a NUL byte. Every branch re-smooths its result
// through the smart constructors of cons.go, which is what keeps the
// result finite.
func Derive(e Expr, x byte) Expr {
	switch v := e.(type) {
	case Fail:
		return v
	case Inf:
		return v
	case Look:
		return v
	case Eps:
		return Fail{}
	case Char:
		if x == v.C {
			return Eps{}
		}
		return Fail{}
	case Range:
		if v.Lo <= x && x <= v.Hi {
			return Eps{}
		}
		return Fail{}
	case Any:
		if x == 0 {
			return Fail{}
		}
		return Eps{}
	case Str:
		return deriveStr(v, x)
	case RuleExpr:
		return deriveRule(v, x)
	case NotExpr:
		return NewNot(Derive(v.E, x))
	case MapExpr:
		return deriveMap(v, x)
	case AltExpr:
		return deriveAlt(v, x)
	case SeqExpr:
		return deriveSeq(v, x)
	default:
		panic("derivs: Derive: unknown expression kind")
	}
}

func deriveStr(s Str, x byte) Expr {
	if s.S[0] != x {
		return Fail{}
	}
	if len(s.S) == 2 {
		return Char{C: s.S[1]}
	}
	return Str{S: s.S[1:]}
}

// deriveRule expands a rule invocation one step. r.Nt.Body is the rule's
// static, never-mutated definition; deriving it fresh is what "clone
// r.body into a fresh expression at the current index" means in an
// immutable engine (spec.md §9's Open Question) — there's nothing to
// clone, since Expr values are already persistent, but the derivative
// itself is always computed against the canonical body, never against a
// previous invocation's state.
func deriveRule(r RuleExpr, x byte) Expr {
	if r.Nt.inDeriv {
		return Inf{}
	}
	r.Nt.inDeriv = true
	result := Derive(r.Nt.Body, x)
	r.Nt.inDeriv = false
	return result
}

func deriveMap(m MapExpr, x byte) Expr {
	oldBack := m.E.Back()
	ep := Derive(m.E, x)
	eg, gm := rebaseGenMap(oldBack, ep.Back(), m.EG, m.GM)
	return NewMap(ep, eg, gm)
}

// rebaseGenMap grows gmap with one fresh mapping when newBack has
// grown past what gmap already covers (spec.md §4.D's Map row: "extend eg
// with a fresh mapping (new-key, gm+1)"). It is shared by every node kind
// that carries a generation map, since the growth rule is identical.
func rebaseGenMap(oldBack, newBack GenSet, gmap GenMap, gm Gen) (GenMap, Gen) {
	if gmap.Empty() {
		gmap = IdentityGenMap(gm)
	}
	if !newBack.Empty() && newBack.Max() > oldBack.Max() && newBack.Max() > gmap.MaxKey() {
		gmap = gmap.Append(newBack.Max(), gm+1)
		gm++
	}
	return gmap, gm
}

// deriveAlt implements the six-step procedure of spec.md §4.D.
func deriveAlt(a AltExpr, x byte) Expr {
	gm := a.GM

	ap := Derive(a.A, x)
	if ap.Kind() == KindFail {
		bp := Derive(a.B, x)
		bg, gm2 := rebaseGenMap(a.B.Back(), bp.Back(), a.BG, gm)
		return NewMap(bp, bg, gm2)
	}
	if ap.Kind() == KindInf {
		return Inf{}
	}

	ag, gm := rebaseGenMap(a.A.Back(), ap.Back(), a.AG, gm)
	if !ap.Match().Empty() {
		return NewMap(ap, ag, gm)
	}

	bp := Derive(a.B, x)
	if bp.Kind() == KindFail {
		return NewMap(ap, ag, gm)
	}
	bg, gm := rebaseGenMap(a.B.Back(), bp.Back(), a.BG, gm)
	return NewAlt(ap, bp, ag, bg, gm)
}

// deriveSeq implements the derivative of a Seq node, dispatching on the
// shape of ∂x a as spec.md §4.D describes.
func deriveSeq(s SeqExpr, x byte) Expr {
	ap := Derive(s.A, x)

	switch ap.Kind() {
	case KindEps:
		return deriveSeqStraight(s, x)

	case KindLook:
		g := ap.(Look).G
		if g == 0 {
			// a has matched in full on the straight (non-backtracked)
			// path — NewMap folds a resolved Eps down to Look{0} before
			// this switch ever sees it, but the continuation is the same
			// as the Eps row above: follow b, not a backtrack generation.
			return deriveSeqStraight(s, x)
		}
		f, ok := findFollower(s.BS, g)
		if !ok {
			return Fail{}
		}
		fp := Derive(f.E, x)
		if fp.Kind() == KindFail {
			if f.GL != 0 {
				return Look{G: f.GL}
			}
			return Fail{}
		}
		feg, gm := rebaseGenMap(f.E.Back(), fp.Back(), f.EG, s.GM)
		if fp.Match().Contains(0) || f.GL == 0 {
			return NewMap(fp, feg, gm)
		}
		return NewAlt(fp, Look{G: f.GL}, feg, IdentityGenMap(gm), gm)

	case KindFail:
		cp := Derive(s.C, x)
		cg, gm := rebaseGenMap(s.C.Back(), cp.Back(), s.CG, s.GM)
		return NewMap(cp, cg, gm)

	case KindInf:
		return Inf{}

	default:
		return deriveSeqContinue(s, ap, x)
	}
}

// deriveSeqStraight handles the case where a has just matched in full on
// the straight path (∂x a is Eps, or Look{0} once NewMap has folded it):
// x was consumed by a, not by b, except at the end-of-input terminator
// where the same x must also be checked against b (spec.md §4.D's Seq/Eps
// row).
func deriveSeqStraight(s SeqExpr, x byte) Expr {
	var follower Expr
	if x == 0 {
		follower = Derive(s.B, x)
	} else {
		follower = s.B
	}
	cg, gm := rebaseGenMap(s.C.Back(), follower.Back(), s.CG, s.GM)
	return NewMap(follower, cg, gm)
}

// deriveSeqContinue handles the "general continuation" case of spec.md
// §4.D's Seq row: a is still live (neither resolved nor failed), so every
// component — the match-fail backtrack follower c, and every lookahead
// follower in bs — is derived in lockstep with a.
func deriveSeqContinue(s SeqExpr, ap Expr, x byte) Expr {
	gm := s.GM

	var cNew Expr
	var cg GenMap
	if ap.Match().Contains(0) {
		bgm := s.B.Back().Max()
		if bgm > gm {
			gm = bgm
		}
		cNew = s.B
		cg = IdentityGenMap(bgm)
	} else {
		cp := Derive(s.C, x)
		ncg, ngm := rebaseGenMap(s.C.Back(), cp.Back(), s.CG, gm)
		cNew, cg, gm = cp, ncg, ngm
	}

	apBack := ap.Back()
	var newBS []SeqFollower
	for _, g := range apBack.Slice() {
		if g == 0 {
			continue
		}
		if f, ok := findFollower(s.BS, g); ok {
			fp := Derive(f.E, x)
			feg, ngm := rebaseGenMap(f.E.Back(), fp.Back(), f.EG, gm)
			gm = ngm
			gl := f.GL
			if fp.Match().Contains(0) {
				gl = g
			}
			newBS = append(newBS, SeqFollower{G: g, E: fp, EG: feg, GL: gl})
		} else {
			bgm := s.B.Back().Max()
			if bgm > gm {
				gm = bgm
			}
			newBS = append(newBS, SeqFollower{G: g, E: s.B, EG: IdentityGenMap(bgm), GL: 0})
		}
	}

	return SeqExpr{A: ap, B: s.B, BS: newBS, C: cNew, CG: cg, GM: gm}
}

func findFollower(bs []SeqFollower, g Gen) (SeqFollower, bool) {
	for _, f := range bs {
		if f.G == g {
			return f, true
		}
	}
	return SeqFollower{}, false
}
