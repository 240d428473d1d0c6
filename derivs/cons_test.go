package derivs

import "testing"

func TestNewNotFoldsFail(t *testing.T) {
	got := NewNot(Fail{})
	want := Look{G: 1}
	if got != Expr(want) {
		t.Fatalf("NewNot(Fail) = %#v, want %#v", got, want)
	}
}

func TestNewNotFoldsInf(t *testing.T) {
	if got := NewNot(Inf{}); got.Kind() != KindInf {
		t.Fatalf("NewNot(Inf) = %#v, want Inf", got)
	}
}

func TestNewNotFoldsMatch(t *testing.T) {
	if got := NewNot(Eps{}); got.Kind() != KindFail {
		t.Fatalf("NewNot(Eps) = %#v, want Fail", got)
	}
}

func TestNewNotKeepsPending(t *testing.T) {
	got := NewNot(Char{C: 'a'})
	if got.Kind() != KindNot {
		t.Fatalf("NewNot(Char) = %#v, want NotExpr", got)
	}
}

func TestNewAltFoldsFailFirst(t *testing.T) {
	b := Char{C: 'x'}
	got := NewAlt(Fail{}, b, GenMap{}, IdentityGenMap(0), 0)
	if got != Expr(b) {
		t.Fatalf("NewAlt(Fail, b) = %#v, want %#v", got, b)
	}
}

func TestNewAltFoldsInfFirst(t *testing.T) {
	if got := NewAlt(Inf{}, Char{C: 'x'}, GenMap{}, GenMap{}, 0); got.Kind() != KindInf {
		t.Fatalf("NewAlt(Inf, _) = %#v, want Inf", got)
	}
}

func TestNewAltFoldsOnMatchOrFailSecond(t *testing.T) {
	a := Eps{}
	got := NewAlt(a, Fail{}, IdentityGenMap(0), GenMap{}, 0)
	if got.Kind() != KindLook {
		t.Fatalf("NewAlt(Eps, Fail) = %#v, want Look(eg(0))", got)
	}
}

func TestNewAltKeepsBothLive(t *testing.T) {
	a := Char{C: 'a'}
	b := Char{C: 'b'}
	got := NewAlt(a, b, IdentityGenMap(0), IdentityGenMap(0), 0)
	if got.Kind() != KindAlt {
		t.Fatalf("NewAlt(Char, Char) = %#v, want AltExpr", got)
	}
}

func TestNewSeqFoldsEpsSecond(t *testing.T) {
	a := Char{C: 'a'}
	if got := NewSeq(a, Eps{}); got != Expr(a) {
		t.Fatalf("NewSeq(a, Eps) = %#v, want %#v", got, a)
	}
}

func TestNewSeqFoldsFailSecond(t *testing.T) {
	if got := NewSeq(Char{C: 'a'}, Fail{}); got.Kind() != KindFail {
		t.Fatalf("NewSeq(a, Fail) = %#v, want Fail", got)
	}
}

func TestNewSeqFoldsEpsFirst(t *testing.T) {
	b := Char{C: 'b'}
	if got := NewSeq(Eps{}, b); got != Expr(b) {
		t.Fatalf("NewSeq(Eps, b) = %#v, want %#v", got, b)
	}
}

func TestNewSeqFoldsLookFirst(t *testing.T) {
	b := Char{C: 'b'}
	if got := NewSeq(Look{G: 1}, b); got != Expr(b) {
		t.Fatalf("NewSeq(Look, b) = %#v, want %#v", got, b)
	}
}

func TestNewSeqFoldsFailFirst(t *testing.T) {
	if got := NewSeq(Fail{}, Char{C: 'b'}); got.Kind() != KindFail {
		t.Fatalf("NewSeq(Fail, b) = %#v, want Fail", got)
	}
}

func TestNewSeqBuildsCompound(t *testing.T) {
	a := Char{C: 'a'}
	b := Char{C: 'b'}
	got := NewSeq(a, b)
	if got.Kind() != KindSeq {
		t.Fatalf("NewSeq(Char, Char) = %#v, want SeqExpr", got)
	}
}
