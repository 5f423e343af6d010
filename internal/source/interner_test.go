package source

import "testing"

func TestInternerBasic(t *testing.T) {
	interner := NewInterner()

	if s, ok := interner.Lookup(NoStringID); !ok || s != "" {
		t.Fatalf("NoStringID must map to the empty string, got %q ok=%v", s, ok)
	}

	id1 := interner.Intern("Pixel")
	id2 := interner.Intern("Pixel")
	if id1 == NoStringID || id1 != id2 {
		t.Fatalf("expected stable non-zero id, got %d and %d", id1, id2)
	}
	if id3 := interner.Intern("Color"); id3 == id1 {
		t.Fatalf("different strings must get different ids")
	}
	if interner.Len() != 3 {
		t.Fatalf("Len = %d, want 3", interner.Len())
	}
	if interner.Has(StringID(9999)) {
		t.Fatalf("Has must be false for unknown ids")
	}
}

func TestInternerMustLookupPanics(t *testing.T) {
	interner := NewInterner()
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLookup must panic on invalid id")
		}
	}()
	interner.MustLookup(StringID(42))
}

func TestIdentEqualityIgnoresSpan(t *testing.T) {
	interner := NewInterner()
	name := interner.Intern("A")
	a := Ident{Name: name, Span: Span{Start: 0, End: 1}}
	b := Ident{Name: name, Span: Span{Start: 10, End: 11}}
	if !a.Is(b) {
		t.Fatalf("idents with the same name must be equal")
	}
	path := []Ident{
		{Name: interner.Intern("io"), Span: Span{Start: 4, End: 6}},
		{Name: interner.Intern("Bus"), Span: Span{Start: 8, End: 11}},
	}
	if got := JoinPath(path, interner); got != "io::Bus" {
		t.Fatalf("JoinPath = %q", got)
	}
	if sp := PathSpan(path); sp.Start != 4 || sp.End != 11 {
		t.Fatalf("PathSpan = %v", sp)
	}
}
