package derivs

import "fmt"

// Match is the driver of spec.md §4.F / §6.2: match(grammar, input,
// start) -> bool. It consumes input one byte at a time, re-deriving the
// current expression, and treats a trailing implicit '\0' as the
// end-of-input terminator the rest of the core reasons about.
func Match(g *Grammar, input []byte, start string) (bool, error) {
	nt, ok := g.Nonterminals[start]
	if !ok {
		return false, fmt.Errorf("derivs: unknown start rule %q", start)
	}

	e := nt.Body
	i := 0
	for {
		switch e.Kind() {
		case KindFail, KindInf:
			return false, nil
		case KindEps:
			return true, nil
		}
		if !e.Match().Empty() {
			return true, nil
		}

		var x byte
		if i < len(input) {
			x = input[i]
		}
		e = Derive(e, x)
		i++
		if x == 0 {
			break
		}
	}
	return !e.Match().Empty(), nil
}
