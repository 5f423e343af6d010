package lexer

import (
	"testing"

	"ohdl/internal/diag"
	"ohdl/internal/source"
	"ohdl/internal/token"
)

func lex(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.ohd", []byte(src))
	bag := diag.NewBag(16)
	lx := New(fs.Get(id), Options{Reporter: diag.BagReporter{Bag: bag}})
	return lx.All(), bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestLexItemSurface(t *testing.T) {
	toks, bag := lex(t, "use io::Bus as B; // tail\nrecord P { x: io::Bus, }")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %d", bag.Len())
	}
	want := []token.Kind{
		token.KwUse, token.Ident, token.ColonColon, token.Ident, token.KwAs, token.Ident, token.Semicolon,
		token.KwRecord, token.Ident, token.LBrace, token.Ident, token.Colon, token.Ident, token.ColonColon,
		token.Ident, token.Comma, token.RBrace, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if toks[1].Text != "io" || toks[1].Span.Start != 4 || toks[1].Span.End != 6 {
		t.Fatalf("unexpected ident token %+v", toks[1])
	}
}

func TestLexUnknownCharReported(t *testing.T) {
	toks, bag := lex(t, "enum E { A $ B }")
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnknownChar {
		t.Fatalf("expected one LexUnknownChar, got %+v", bag.Items())
	}
	if toks[4].Kind != token.Invalid {
		t.Fatalf("expected invalid token, got %v", toks[4].Kind)
	}
}

func TestLexUnterminatedBlockComment(t *testing.T) {
	toks, bag := lex(t, "record A {} /* never closed")
	if bag.CountCode(diag.LexUnterminatedBlockComment) != 1 {
		t.Fatalf("expected unterminated comment diagnostic")
	}
	if toks[len(toks)-1].Kind != token.EOF {
		t.Fatalf("lexer must end with EOF")
	}
}

func TestLexNormalizesIdentifiers(t *testing.T) {
	// "é" as e + combining acute vs precomposed
	toks, _ := lex(t, "Cafe\u0301 Caf\u00e9")
	if toks[0].Text != toks[1].Text {
		t.Fatalf("identifiers must be NFC-normalized: %q vs %q", toks[0].Text, toks[1].Text)
	}
}
