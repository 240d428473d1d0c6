// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package peg_test

import (
	"fmt"

	"github.com/mossdlf/peg"
)

// ExampleMatch recognizes simple decimal integers. Matching stops at the
// first position where the rule matches, so "4a" is accepted on its
// leading digit and the trailing "a" is never examined.
func ExampleMatch() {
	const language = `
Num   <- Digit+
Digit <- '[0-9]'
`
	for _, input := range []string{"0", "42", "007", "", "4a"} {
		ok, err := peg.Match("digits", language, []byte(input), "Num")
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		fmt.Printf("%q: %v\n", input, ok)
	}
	//Output:
	// "0": true
	// "42": true
	// "007": true
	// "": false
	// "4a": true
}

// ExampleCompile recognizes C-style identifiers (a letter or underscore
// followed by any number of letters, digits, or underscores), compiling
// the grammar once and reusing it across several inputs. As with Match,
// an input is accepted once a prefix of it matches, so "has space" is
// accepted on its leading "h".
func ExampleCompile() {
	const language = `
Ident <- Head Tail*
Head  <- '[a-z]' / "_"
Tail  <- Head / Digit
Digit <- '[0-9]'
`
	c, err := peg.Compile("idents", language)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, input := range []string{"x", "_count", "row2", "2fast", "has space"} {
		ok, err := c.Match([]byte(input), "Ident")
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		fmt.Printf("%q: %v\n", input, ok)
	}
	//Output:
	// "x": true
	// "_count": true
	// "row2": true
	// "2fast": false
	// "has space": true
}

// ExampleMatch_lookahead shows negative lookahead: Word only accepts
// "let", never "letter", because the keyword is followed by a negative
// lookahead that must see a non-identifier character (or end of input).
func ExampleMatch_lookahead() {
	const language = `
Word  <- "let" !Tail
Tail  <- '[a-z]'
`
	for _, input := range []string{"let", "letter"} {
		ok, err := peg.Match("keyword", language, []byte(input), "Word")
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		fmt.Printf("%q: %v\n", input, ok)
	}
	//Output:
	// "let": true
	// "letter": false
}
