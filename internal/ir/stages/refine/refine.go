// Package refine resolves the type references of the rough IR through the
// flattened name table. It never consults the scope tree.
package refine

import (
	"fmt"

	"ohdl/internal/diag"
	"ohdl/internal/ir"
	"ohdl/internal/source"
)

type Stage struct {
	Lookup   *ir.NameLookup
	Imports  *ir.Imports
	Strings  *source.Interner
	Reporter diag.Reporter
}

// Lower consumes the rough registry and returns the refined one. Every
// declaration keeps its id; the rough registry must not be used afterwards.
func (s *Stage) Lower(rough *ir.Types) *ir.Types {
	refined := ir.NewTypes()
	for id, t := range rough.All() {
		decl := *t
		got := refined.InsertWith(func(ir.TypeID) ir.Type { return s.refine(decl) })
		if got != id {
			panic(fmt.Sprintf("refine: type id drift, rough %d refined %d", id, got))
		}
	}
	return refined
}

func (s *Stage) refine(t ir.Type) ir.Type {
	switch decl := t.(type) {
	case *ir.Record:
		fields := make([]ir.Field, len(decl.Fields))
		for i, f := range decl.Fields {
			fields[i] = ir.Field{Name: f.Name, Type: s.resolveRef(decl.Scope, f.Type)}
		}
		return &ir.Record{TypeID: decl.TypeID, Ident: decl.Ident, Scope: decl.Scope, Fields: fields}
	case *ir.Entity:
		ports := make([]ir.Port, len(decl.Ports))
		for i, p := range decl.Ports {
			ports[i] = ir.Port{Dir: p.Dir, Name: p.Name, Type: s.resolveRef(decl.Scope, p.Type)}
		}
		return &ir.Entity{TypeID: decl.TypeID, Ident: decl.Ident, Scope: decl.Scope, Ports: ports}
	case *ir.Enum:
		// variants carry no type references
		return decl
	default:
		panic(fmt.Sprintf("refine: unexpected declaration %T", t))
	}
}

func (s *Stage) resolveRef(scope ir.ScopeID, ref ir.TypeRef) ir.TypeRef {
	out := ir.TypeRef{Path: ref.Path}
	if len(ref.Path) == 0 {
		return out
	}
	name := source.JoinPath(ref.Path, s.Strings)
	res := s.Lookup.ResolvePath(scope, ref.Path)
	switch res.Status {
	case ir.PathOK:
		if res.Target.Kind == ir.ResolvableType {
			out.Target = res.Target.Type
			return out
		}
		s.report(diag.SemaUnknownType, ref, fmt.Sprintf("`%s` is a module, not a type", name)).Emit()
	case ir.PathNotFound:
		seg := ref.Path[res.Segment]
		msg := fmt.Sprintf("unknown type `%s`", name)
		if len(ref.Path) > 1 {
			msg = fmt.Sprintf("unknown type `%s`: `%s` not found", name, seg.Text(s.Strings))
		}
		s.report(diag.SemaUnknownType, ref, msg).Emit()
	case ir.PathNotModule:
		seg := ref.Path[res.Segment]
		s.report(diag.SemaUnknownType, ref, fmt.Sprintf("unknown type `%s`: `%s` is not a module", name, seg.Text(s.Strings))).Emit()
	case ir.PathFailedImport:
		b := s.report(diag.SemaUnresolvedImport, ref, fmt.Sprintf("type `%s` refers to an unresolved import", name))
		if imp := s.Imports.Get(res.FailedImport); imp != nil {
			b.WithNote(imp.Span, "import declared here")
		}
		b.Emit()
	}
	return out
}

func (s *Stage) report(code diag.Code, ref ir.TypeRef, msg string) *diag.ReportBuilder {
	return diag.ReportError(s.Reporter, code, ref.Span(), msg)
}
