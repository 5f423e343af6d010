package fuzztests

import (
	"os"
	"path/filepath"
	"testing"
)

const maxFuzzInput = 64 << 10

var languageSeeds = []string{
	"",
	"record R { a: A, b: B }",
	"enum E { X, Y, Z, }",
	"entity Top { in clk: Bit, out q: Bit }",
	"mod a { mod b { record C {} } }\nuse a::b::C as D;",
	"use A as B; use B as A;",
	"use X; use X;",
	"record R { x: a::b::c }",
	"mod m { use super; }",
	"record { : }",
	"entity E { sideways x: Y }",
	"mod m {",
	"}}}}",
	"use ::;",
	"// comment only",
	"record R { x: X } // trailing",
}

func addSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
	matches, err := filepath.Glob(filepath.Join("..", "driver", "testdata", "*.ohd"))
	if err != nil {
		return
	}
	for _, path := range matches {
		// #nosec G304 -- fixed repository testdata
		src, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		f.Add(clamp(src))
	}
}

func clamp(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
