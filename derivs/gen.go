package derivs

import "sort"

// Gen is a backtrack generation: an integer tag identifying a distinct
// lookahead context introduced during derivation (spec.md §3.1). Generation
// 0 is the straight path; higher numbers mark deferred lookahead contexts.
type Gen uint32

// GenSet is a finite, strictly ordered set of generations. The zero value is
// the empty set. Values are kept sorted and deduplicated, matching the
// sorted-sequence representation spec.md §4.A calls for.
type GenSet struct {
	vals []Gen
}

// NewGenSet builds a GenSet from the given generations, in any order, with
// duplicates allowed.
func NewGenSet(gs ...Gen) GenSet {
	var s GenSet
	for _, g := range gs {
		s = s.Add(g)
	}
	return s
}

// Empty reports whether the set has no members.
func (s GenSet) Empty() bool { return len(s.vals) == 0 }

// Len reports the number of members.
func (s GenSet) Len() int { return len(s.vals) }

// Contains reports whether g is a member of s.
func (s GenSet) Contains(g Gen) bool {
	i := sort.Search(len(s.vals), func(i int) bool { return s.vals[i] >= g })
	return i < len(s.vals) && s.vals[i] == g
}

// Add returns a new set with g inserted, preserving sorted order.
func (s GenSet) Add(g Gen) GenSet {
	i := sort.Search(len(s.vals), func(i int) bool { return s.vals[i] >= g })
	if i < len(s.vals) && s.vals[i] == g {
		return s
	}
	out := make([]Gen, 0, len(s.vals)+1)
	out = append(out, s.vals[:i]...)
	out = append(out, g)
	out = append(out, s.vals[i:]...)
	return GenSet{vals: out}
}

// Union returns the sorted union of s and o.
func (s GenSet) Union(o GenSet) GenSet {
	if s.Empty() {
		return o
	}
	if o.Empty() {
		return s
	}
	out := make([]Gen, 0, len(s.vals)+len(o.vals))
	i, j := 0, 0
	for i < len(s.vals) && j < len(o.vals) {
		switch {
		case s.vals[i] < o.vals[j]:
			out = append(out, s.vals[i])
			i++
		case s.vals[i] > o.vals[j]:
			out = append(out, o.vals[j])
			j++
		default:
			out = append(out, s.vals[i])
			i++
			j++
		}
	}
	out = append(out, s.vals[i:]...)
	out = append(out, o.vals[j:]...)
	return GenSet{vals: out}
}

// Min returns the least member. Undefined (returns 0) if empty.
func (s GenSet) Min() Gen {
	if s.Empty() {
		return 0
	}
	return s.vals[0]
}

// Max returns the greatest member. Undefined (returns 0) if empty.
func (s GenSet) Max() Gen {
	if s.Empty() {
		return 0
	}
	return s.vals[len(s.vals)-1]
}

// Equal reports whether s and o have the same members.
func (s GenSet) Equal(o GenSet) bool {
	if len(s.vals) != len(o.vals) {
		return false
	}
	for i := range s.vals {
		if s.vals[i] != o.vals[i] {
			return false
		}
	}
	return true
}

// Slice returns the members in increasing order. The caller must not modify
// the result.
func (s GenSet) Slice() []Gen { return s.vals }

// GenMap is a strictly monotonic partial function from an inner generation
// space to an outer one (spec.md §3.1, §4.A). It is represented as a sorted
// sequence of (key, value) pairs with binary-search lookup, exactly as the
// original implementation's uint_pfn does.
type GenMap struct {
	keys []Gen
	vals []Gen
}

// IdentityGenMap returns the identity map over {0, ..., gm}.
func IdentityGenMap(gm Gen) GenMap {
	m := GenMap{keys: make([]Gen, gm+1), vals: make([]Gen, gm+1)}
	for i := Gen(0); i <= gm; i++ {
		m.keys[i] = i
		m.vals[i] = i
	}
	return m
}

// Empty reports whether the map has no mappings.
func (m GenMap) Empty() bool { return len(m.keys) == 0 }

// Apply returns f(g). g must be in the domain of f.
func (m GenMap) Apply(g Gen) Gen {
	i := sort.Search(len(m.keys), func(i int) bool { return m.keys[i] >= g })
	if i < len(m.keys) && m.keys[i] == g {
		return m.vals[i]
	}
	panic("derivs: GenMap.Apply: generation not in domain")
}

// ApplySet returns the image {f(g) | g in s}. s must be a subset of the
// domain of f. Runs in O(|s| + |dom(f)|): one merge-style pass over s and
// the keys of f.
func (m GenMap) ApplySet(s GenSet) GenSet {
	var out GenSet
	i := 0
	for _, g := range s.vals {
		for i < len(m.keys) && m.keys[i] < g {
			i++
		}
		if i >= len(m.keys) || m.keys[i] != g {
			panic("derivs: GenMap.ApplySet: generation not in domain")
		}
		// f is strictly monotonic, so the images arrive in increasing order.
		out.vals = append(out.vals, m.vals[i])
	}
	return out
}

// Compose returns f∘g = λx. f(g(x)). range(g) must be a subset of dom(f).
func (m GenMap) Compose(g GenMap) GenMap {
	out := GenMap{}
	for i, k := range g.keys {
		out.keys = append(out.keys, k)
		out.vals = append(out.vals, m.Apply(g.vals[i]))
	}
	return out
}

// Append extends f with one new mapping (k, v). k must be strictly greater
// than every existing key, and v strictly greater than every existing
// value.
func (m GenMap) Append(k, v Gen) GenMap {
	if !m.Empty() {
		if k <= m.keys[len(m.keys)-1] || v <= m.vals[len(m.vals)-1] {
			panic("derivs: GenMap.Append: mapping does not extend in strict order")
		}
	}
	out := GenMap{
		keys: append(append([]Gen(nil), m.keys...), k),
		vals: append(append([]Gen(nil), m.vals...), v),
	}
	return out
}

// Max returns the greatest value in the range of f. Undefined (returns 0) if
// empty.
func (m GenMap) Max() Gen {
	if m.Empty() {
		return 0
	}
	return m.vals[len(m.vals)-1]
}

// MaxKey returns the greatest key in the domain of f. Undefined (returns 0)
// if empty.
func (m GenMap) MaxKey() Gen {
	if m.Empty() {
		return 0
	}
	return m.keys[len(m.keys)-1]
}

// Min returns the least value in the range of f. Undefined (returns 0) if
// empty.
func (m GenMap) Min() Gen {
	if m.Empty() {
		return 0
	}
	return m.vals[0]
}

// Equal reports whether m and o define the same function.
func (m GenMap) Equal(o GenMap) bool {
	if len(m.keys) != len(o.keys) {
		return false
	}
	for i := range m.keys {
		if m.keys[i] != o.keys[i] || m.vals[i] != o.vals[i] {
			return false
		}
	}
	return true
}

// IsIdentity reports whether m is the identity function over {0,...,gm}.
func (m GenMap) IsIdentity(gm Gen) bool {
	return m.Equal(IdentityGenMap(gm))
}
