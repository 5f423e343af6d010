package ir

import (
	"testing"

	"ohdl/internal/diag"
	"ohdl/internal/source"
)

func ident(in *source.Interner, name string, at uint32) source.Ident {
	return source.Ident{Name: in.Intern(name), Span: source.Span{Start: at, End: at + uint32(len(name))}}
}

func TestFindPrefersLocalBinding(t *testing.T) {
	in := source.NewInterner()
	scopes := NewScopes()
	child := scopes.SubScope(scopes.Root)

	name := ident(in, "A", 0)
	if _, ok := scopes.Bind(scopes.Root, name, TypeEntry(1)); !ok {
		t.Fatalf("bind in root failed")
	}
	if _, ok := scopes.Bind(child, name, TypeEntry(2)); !ok {
		t.Fatalf("shadowing in a child scope must be legal")
	}

	got, ok := scopes.Find(child, name.Name)
	if !ok || got.Type != 2 {
		t.Fatalf("Find(child) = %v, want type#2", got)
	}
	got, ok = scopes.Find(scopes.Root, name.Name)
	if !ok || got.Type != 1 {
		t.Fatalf("Find(root) = %v, want type#1", got)
	}
}

func TestFindFallsBackToAncestor(t *testing.T) {
	in := source.NewInterner()
	scopes := NewScopes()
	mid := scopes.SubScope(scopes.Root)
	leaf := scopes.SubScope(mid)

	scopes.Bind(scopes.Root, ident(in, "Clock", 0), TypeEntry(7))

	got, ok := scopes.Find(leaf, in.Intern("Clock"))
	if !ok || got.Type != 7 {
		t.Fatalf("expected ancestor binding, got %v ok=%v", got, ok)
	}
	if _, ok := scopes.Find(leaf, in.Intern("Missing")); ok {
		t.Fatalf("unbound name must not resolve")
	}
	if _, ok := scopes.Local(leaf, in.Intern("Clock")); ok {
		t.Fatalf("Local must not consult parents")
	}
	if d := scopes.Depth(leaf); d != 2 {
		t.Fatalf("Depth = %d", d)
	}
	if err := scopes.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestBindKeepsFirstBinding(t *testing.T) {
	in := source.NewInterner()
	scopes := NewScopes()
	first := ident(in, "A", 0)
	second := ident(in, "A", 20)

	scopes.Bind(scopes.Root, first, TypeEntry(1))
	prev, ok := scopes.Bind(scopes.Root, second, TypeEntry(2))
	if ok {
		t.Fatalf("second bind must report a collision")
	}
	if prev.Resolvable.Type != 1 || prev.Ident.Span != first.Span {
		t.Fatalf("collision must return the original entry, got %+v", prev)
	}
	got, _ := scopes.Find(scopes.Root, first.Name)
	if got.Type != 1 {
		t.Fatalf("first binding must win, got %v", got)
	}
}

func TestCheckTypesDetectsMismatch(t *testing.T) {
	in := source.NewInterner()
	types := NewTypes()
	types.InsertWith(func(id TypeID) Type {
		return &Record{TypeID: id, Ident: ident(in, "Pixel", 0)}
	})
	if err := CheckTypes(types); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	types.Insert(&Enum{TypeID: 99, Ident: ident(in, "Color", 10)})
	if err := CheckTypes(types); err == nil {
		t.Fatalf("expected self-consistency error")
	}
}

func TestNameLookupResolvePath(t *testing.T) {
	in := source.NewInterner()
	scopes := NewScopes()
	reg := NewRegistry(scopes.Root)
	ioScope := scopes.SubScope(scopes.Root)
	ioMod := reg.Modules.InsertWith(func(id ModuleID) Module {
		return Module{ID: id, Name: ident(in, "io", 0), Parent: reg.Root, Scope: ioScope}
	})
	scopes.Get(ioScope).Module = ioMod
	scopes.Bind(scopes.Root, ident(in, "io", 0), ModuleEntry(ioMod))
	scopes.Bind(ioScope, ident(in, "Bus", 10), TypeEntry(3))

	locals := map[ScopeID]map[source.StringID]Target{
		scopes.Root: {in.Intern("io"): {Resolvable: ModuleEntry(ioMod)}},
		ioScope:     {in.Intern("Bus"): {Resolvable: TypeEntry(3)}},
	}
	lookup := NewNameLookup()
	lookup.Build(scopes, reg, locals)

	path := []source.Ident{ident(in, "io", 30), ident(in, "Bus", 34)}
	res := lookup.ResolvePath(scopes.Root, path)
	if res.Status != PathOK || res.Target.Type != 3 {
		t.Fatalf("io::Bus = %+v", res)
	}
	// inner scope sees io through inheritance, but Bus is not a root name
	if r := lookup.ResolvePath(ioScope, path[1:]); r.Status != PathOK {
		t.Fatalf("Bus inside io = %+v", r)
	}
	if r := lookup.ResolvePath(scopes.Root, path[1:]); r.Status != PathNotFound {
		t.Fatalf("Bus at root = %+v", r)
	}
	bad := []source.Ident{ident(in, "io", 0), ident(in, "Bus", 4), ident(in, "X", 9)}
	if r := lookup.ResolvePath(scopes.Root, bad); r.Status != PathNotModule || r.Segment != 1 {
		t.Fatalf("io::Bus::X = %+v", r)
	}
}

func TestIntroduceReportsDuplicateWithOriginalNote(t *testing.T) {
	in := source.NewInterner()
	scopes := NewScopes()
	bag := diag.NewBag(8)
	rep := diag.BagReporter{Bag: bag}

	first := ident(in, "A", 7)
	second := ident(in, "A", 30)
	if !scopes.Introduce(scopes.Root, first, TypeEntry(1), in, rep) {
		t.Fatalf("first introduce must succeed")
	}
	if scopes.Introduce(scopes.Root, second, TypeEntry(2), in, rep) {
		t.Fatalf("second introduce must collide")
	}
	items := bag.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(items))
	}
	d := items[0]
	if d.Code != diag.SemaDuplicateDeclaration || d.Message != "`A` is already in scope" {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if d.Primary != second.Span || len(d.Notes) != 1 || d.Notes[0].Span != first.Span {
		t.Fatalf("spans must point at the duplicate and the original: %+v", d)
	}
	if got, _ := scopes.Find(scopes.Root, first.Name); got.Type != 1 {
		t.Fatalf("first binding must win, got %v", got)
	}
}
