package derivs

// Smart constructors apply the smoothing rules of spec.md §4.C. They are
// the only way compound nodes are built, both at initial load time and
// after every derivative step in deriv.go, which is what keeps derivation
// terminating on bounded input.

// NewNot builds a negative-lookahead node, folding it away whenever e has
// already resolved.
func NewNot(e Expr) Expr {
	switch e.Kind() {
	case KindFail:
		return Look{G: 1}
	case KindInf:
		return Inf{}
	}
	if !e.Match().Empty() {
		return Fail{}
	}
	return NotExpr{E: e}
}

// NewMap builds a generation-renumbering node, folding it away when e is
// already a terminal shape or eg changes nothing. Preconditions (eg
// non-empty, max(back(e)) <= max-key(eg), max(eg) <= gm) are the caller's
// responsibility; assert checks them when debug assertions are on.
func NewMap(e Expr, eg GenMap, gm Gen) Expr {
	assert(!eg.Empty(), "NewMap: eg must be non-empty")
	assert(e.Back().Max() <= eg.MaxKey() || e.Back().Empty(), "NewMap: back(e) exceeds dom(eg)")
	assert(eg.Max() <= gm, "NewMap: range(eg) exceeds gm")

	switch e.Kind() {
	case KindEps:
		return Look{G: eg.Apply(0)}
	case KindLook:
		return Look{G: eg.Apply(e.(Look).G)}
	case KindFail, KindInf:
		return e
	}
	if eg.IsIdentity(gm) {
		return e
	}
	return MapExpr{E: e, EG: eg, GM: gm}
}

// NewAlt builds an ordered-choice node, committing to whichever side has
// already resolved.
func NewAlt(a, b Expr, ag, bg GenMap, gm Gen) Expr {
	switch a.Kind() {
	case KindFail:
		return NewMap(b, bg, gm)
	case KindInf:
		return Inf{}
	}
	if b.Kind() == KindFail || !a.Match().Empty() {
		return NewMap(a, ag, gm)
	}
	return AltExpr{A: a, B: b, AG: ag, BG: bg, GM: gm}
}

// NewSeq builds a sequence node from a freshly parsed (a, b) pair,
// folding away the trivial shapes and otherwise precomputing the
// lookahead-follower bookkeeping described in spec.md §4.D's "initial
// construction" paragraph.
func NewSeq(a, b Expr) Expr {
	switch b.Kind() {
	case KindEps:
		return a
	case KindFail:
		return Fail{}
	}
	switch a.Kind() {
	case KindEps, KindLook:
		return b
	case KindFail, KindInf:
		return a
	}
	return buildSeq(a, b)
}

// buildSeq assembles the full Seq node (A, B, BS, C, CG, GM) for a
// non-trivial (a, b) pair. Every follower starts as an unrenumbered clone
// of b, since no outer numbering scheme exists yet at this point; the
// derivative engine (deriv.go) grows gen-maps and generation keys from
// here on.
func buildSeq(a, b Expr) Expr {
	bgm := b.Back().Max()
	gm := a.Back().Max()
	if bgm > gm {
		gm = bgm
	}

	var bs []SeqFollower
	for _, g := range a.Back().Slice() {
		if g == 0 {
			continue
		}
		bs = append(bs, SeqFollower{G: g, E: b, EG: IdentityGenMap(bgm), GL: 0})
	}

	c := Expr(Fail{})
	cg := GenMap{}
	if a.Match().Contains(0) {
		c = b
		cg = IdentityGenMap(bgm)
	}

	return SeqExpr{A: a, B: b, BS: bs, C: c, CG: cg, GM: gm}
}

// debugAssertions gates the preconditions of §4.C's smart constructors the
// way the original C++ source gates assertions behind NDEBUG, as a package
// bool rather than a build tag. It is on by default; nothing in this
// module turns it off.
var debugAssertions = true

func assert(cond bool, msg string) {
	if debugAssertions && !cond {
		panic("derivs: assertion failed: " + msg)
	}
}
