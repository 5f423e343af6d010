package source

import "strings"

// Ident is an interned name together with the span it was written at.
// Two idents denote the same name iff their Name matches; Span is
// provenance only.
type Ident struct {
	Name StringID
	Span Span
}

// Is reports whether both idents spell the same name.
func (id Ident) Is(other Ident) bool {
	return id.Name == other.Name
}

func (id Ident) IsValid() bool { return id.Name != NoStringID }

// Text resolves the identifier through the interner that produced it.
func (id Ident) Text(in *Interner) string {
	if in == nil {
		return ""
	}
	return in.MustLookup(id.Name)
}

// JoinPath renders a `::`-separated path.
func JoinPath(path []Ident, in *Interner) string {
	var b strings.Builder
	for i, seg := range path {
		if i > 0 {
			b.WriteString("::")
		}
		b.WriteString(seg.Text(in))
	}
	return b.String()
}

// PathSpan covers every segment of path.
func PathSpan(path []Ident) Span {
	if len(path) == 0 {
		return Span{}
	}
	sp := path[0].Span
	for _, seg := range path[1:] {
		sp = sp.Cover(seg.Span)
	}
	return sp
}
