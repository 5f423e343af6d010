package refine

import (
	"strings"
	"testing"

	"ohdl/internal/ast"
	"ohdl/internal/diag"
	"ohdl/internal/ir"
	"ohdl/internal/ir/stages/flatten"
	"ohdl/internal/ir/stages/rough"
	"ohdl/internal/lexer"
	"ohdl/internal/parser"
	"ohdl/internal/source"
)

type fixture struct {
	rough   *rough.Stage
	before  *ir.Types
	refined *ir.Types
	early   *diag.Bag // parse, rough and flatten
	bag     *diag.Bag // refine only
}

func refineSnippet(t *testing.T, src string) fixture {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.ohd", []byte(src))
	early := diag.NewBag(32)
	rep := diag.BagReporter{Bag: early}
	builder := ast.NewBuilder(nil)
	res := parser.ParseFile(lexer.New(fs.Get(fileID), lexer.Options{Reporter: rep}), builder, parser.Options{Reporter: rep})
	if res.Errors != 0 {
		t.Fatalf("unexpected parse errors:\n%s", diag.FormatShort(early.Items(), fs, false))
	}
	rs := rough.New(builder.Strings, rep)
	rs.Lower(builder, res.File)
	lookup := (&flatten.Stage{
		Registry: rs.Registry,
		Scopes:   rs.Scopes,
		Imports:  rs.Imports,
		Strings:  rs.Strings,
		Reporter: rep,
	}).Run()

	bag := diag.NewBag(32)
	stage := &Stage{Lookup: lookup, Imports: rs.Imports, Strings: rs.Strings, Reporter: diag.BagReporter{Bag: bag}}
	before := rs.Registry.Types
	return fixture{rough: rs, before: before, refined: stage.Lower(before), early: early, bag: bag}
}

func (f fixture) decl(t *testing.T, name string) ir.Type {
	t.Helper()
	for _, decl := range f.refined.All() {
		if (*decl).Name().Text(f.rough.Strings) == name {
			return *decl
		}
	}
	t.Fatalf("no declaration named %s", name)
	return nil
}

func TestRefineResolvesForwardReference(t *testing.T) {
	f := refineSnippet(t, `
		record Pixel { c: Color, next: Pixel }
		enum Color { Red }
	`)
	if f.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diag.FormatShort(f.bag.Items(), nil, false))
	}
	pixel := f.decl(t, "Pixel").(*ir.Record)
	color := f.decl(t, "Color")
	if pixel.Fields[0].Type.Target != color.ID() {
		t.Fatalf("c resolved to %d, want %d", pixel.Fields[0].Type.Target, color.ID())
	}
	if pixel.Fields[1].Type.Target != pixel.ID() {
		t.Fatalf("self reference must resolve to the record itself")
	}
}

func TestRefineKeepsIDsAndEnums(t *testing.T) {
	f := refineSnippet(t, `
		enum E { A, B }
		record R { e: E }
		entity N { in e: E }
	`)
	if f.refined.Len() != f.before.Len() {
		t.Fatalf("refined registry has %d types, rough had %d", f.refined.Len(), f.before.Len())
	}
	if err := ir.CheckTypes(f.refined); err != nil {
		t.Fatalf("refined registry inconsistent: %v", err)
	}
	for id, decl := range f.before.All() {
		got := *f.refined.MustGet(id)
		if ir.KindName(got) != ir.KindName(*decl) || !got.Name().Is((*decl).Name()) {
			t.Fatalf("type %d changed identity", id)
		}
	}
	if f.decl(t, "E").(*ir.Enum) != *f.before.MustGet(1) {
		t.Fatalf("enums are carried over unchanged")
	}
}

func TestRefineResolvesPathsAndModuleScopes(t *testing.T) {
	f := refineSnippet(t, `
		record Top { b: io::Bus }
		mod io {
			record Bus {}
			entity Driver { out b: Bus, in t: Top }
		}
	`)
	if f.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diag.FormatShort(f.bag.Items(), nil, false))
	}
	bus := f.decl(t, "Bus").ID()
	if got := f.decl(t, "Top").(*ir.Record).Fields[0].Type.Target; got != bus {
		t.Fatalf("io::Bus resolved to %d, want %d", got, bus)
	}
	drv := f.decl(t, "Driver").(*ir.Entity)
	if drv.Ports[0].Type.Target != bus || drv.Ports[1].Type.Target != f.decl(t, "Top").ID() {
		t.Fatalf("ports resolved to %+v", drv.Ports)
	}
}

func TestRefineUnknownType(t *testing.T) {
	f := refineSnippet(t, `
		mod io {}
		record R { a: Missing, b: io, c: io::Gone, d: R::x }
	`)
	if f.bag.CountCode(diag.SemaUnknownType) != 4 || f.bag.Len() != 4 {
		t.Fatalf("expected 4 unknown types, got:\n%s", diag.FormatShort(f.bag.Items(), nil, false))
	}
	for _, fld := range f.decl(t, "R").(*ir.Record).Fields {
		if fld.Type.Resolved() {
			t.Fatalf("field %s must stay unresolved", fld.Name.Text(f.rough.Strings))
		}
	}
	msgs := f.bag.Items()
	if !strings.Contains(msgs[1].Message, "is a module, not a type") {
		t.Fatalf("unexpected message %q", msgs[1].Message)
	}
	if !strings.Contains(msgs[3].Message, "`R` is not a module") {
		t.Fatalf("unexpected message %q", msgs[3].Message)
	}
}

func TestRefineThroughFailedImport(t *testing.T) {
	f := refineSnippet(t, `
		use nothing::X;
		use Y;
		record R { x: X, y: Y, ok: R }
	`)
	if f.early.CountCode(diag.SemaUnresolvedImport) != 1 || f.early.CountCode(diag.SemaImportCycle) != 1 {
		t.Fatalf("flatten must have reported both imports:\n%s", diag.FormatShort(f.early.Items(), nil, false))
	}
	if f.bag.CountCode(diag.SemaUnresolvedImport) != 2 || f.bag.Len() != 2 {
		t.Fatalf("expected 2 unresolved-import uses, got:\n%s", diag.FormatShort(f.bag.Items(), nil, false))
	}
	if f.bag.CountCode(diag.SemaUnknownType) != 0 {
		t.Fatalf("a failed import is not an unknown type")
	}
	if n := len(f.bag.Items()[0].Notes); n != 1 {
		t.Fatalf("expected a note at the import, got %d", n)
	}
	r := f.decl(t, "R").(*ir.Record)
	if r.Fields[0].Type.Resolved() || r.Fields[1].Type.Resolved() || !r.Fields[2].Type.Resolved() {
		t.Fatalf("unexpected resolution %+v", r.Fields)
	}
}
