// Package rough lowers the syntax tree into skeleton IR.
//
// Every type-introducing item becomes a declaration in the type registry
// and a binding in its enclosing scope. Modules get their own sub-scope,
// `use` items are parked in the import bucket for flattening. Type
// references are copied as written; refinement resolves them later.
package rough

import (
	"fmt"
	"slices"

	"ohdl/internal/ast"
	"ohdl/internal/diag"
	"ohdl/internal/ir"
	"ohdl/internal/source"
)

// Stage carries the stores rough lowering writes into.
type Stage struct {
	Registry *ir.Registry
	Scopes   *ir.Scopes
	Imports  *ir.Imports
	Strings  *source.Interner
	Reporter diag.Reporter
}

// New creates empty stores for one compilation unit. The root module owns
// the root scope.
func New(strings *source.Interner, reporter diag.Reporter) *Stage {
	scopes := ir.NewScopes()
	registry := ir.NewRegistry(scopes.Root)
	scopes.Get(scopes.Root).Module = registry.Root
	return &Stage{
		Registry: registry,
		Scopes:   scopes,
		Imports:  ir.NewImports(),
		Strings:  strings,
		Reporter: reporter,
	}
}

// Lower walks the items of file in source order into the root scope.
func (s *Stage) Lower(builder *ast.Builder, file ast.FileID) {
	f := builder.Files.Get(file)
	if f == nil {
		return
	}
	for _, item := range f.Items {
		s.lowerItem(builder, item, s.Scopes.Root, s.Registry.Root)
	}
}

func (s *Stage) lowerItem(b *ast.Builder, id ast.ItemID, scope ir.ScopeID, module ir.ModuleID) {
	item := b.Items.Get(id)
	switch {
	case item == nil:
		return
	case item.Kind == ast.ItemRecord:
		rec, _ := b.Items.Record(item)
		fields := s.lowerFields(rec)
		s.introduceType(scope, func(tid ir.TypeID) ir.Type {
			return &ir.Record{TypeID: tid, Ident: rec.Name, Scope: scope, Fields: fields}
		})
	case item.Kind == ast.ItemEnum:
		enum, _ := b.Items.Enum(item)
		variants := s.lowerVariants(enum)
		s.introduceType(scope, func(tid ir.TypeID) ir.Type {
			return &ir.Enum{TypeID: tid, Ident: enum.Name, Scope: scope, Variants: variants}
		})
	case item.Kind == ast.ItemEntity:
		ent, _ := b.Items.Entity(item)
		ports := s.lowerPorts(ent)
		s.introduceType(scope, func(tid ir.TypeID) ir.Type {
			return &ir.Entity{TypeID: tid, Ident: ent.Name, Scope: scope, Ports: ports}
		})
	case item.Kind == ast.ItemMod:
		mod, _ := b.Items.Mod(item)
		s.lowerMod(b, mod, scope, module)
	case item.Kind == ast.ItemUse:
		use, _ := b.Items.Use(item)
		s.lowerUse(use, item.Span, scope)
	}
}

// introduceType allocates the declaration first: a losing duplicate still
// owns its id.
func (s *Stage) introduceType(scope ir.ScopeID, build func(ir.TypeID) ir.Type) ir.TypeID {
	id := s.Registry.Types.InsertWith(build)
	decl := *s.Registry.Types.MustGet(id)
	s.Scopes.Introduce(scope, decl.Name(), ir.TypeEntry(id), s.Strings, s.Reporter)
	return id
}

func (s *Stage) lowerMod(b *ast.Builder, mod *ast.ModItem, scope ir.ScopeID, parent ir.ModuleID) {
	sub := s.Scopes.SubScope(scope)
	id := s.Registry.Modules.InsertWith(func(id ir.ModuleID) ir.Module {
		return ir.Module{ID: id, Name: mod.Name, Parent: parent, Scope: sub}
	})
	s.Scopes.Get(sub).Module = id
	s.Scopes.Introduce(scope, mod.Name, ir.ModuleEntry(id), s.Strings, s.Reporter)
	for _, child := range mod.Items {
		s.lowerItem(b, child, sub, id)
	}
}

func (s *Stage) lowerUse(use *ast.UseItem, span source.Span, scope ir.ScopeID) {
	binding := use.Binding()
	if len(use.Path) == 0 || !binding.IsValid() {
		return
	}
	id := s.Imports.InsertWith(func(id ir.ImportID) ir.Import {
		return ir.Import{
			ID:      id,
			Scope:   scope,
			Path:    slices.Clone([]source.Ident(use.Path)),
			Binding: binding,
			Span:    span,
		}
	})
	s.Scopes.Introduce(scope, binding, ir.ImportEntry(id), s.Strings, s.Reporter)
}

func (s *Stage) lowerFields(rec *ast.RecordItem) []ir.Field {
	seen := s.memberSet("field", rec.Name)
	fields := make([]ir.Field, 0, len(rec.Fields))
	for _, f := range rec.Fields {
		if !seen.add(f.Name) {
			continue
		}
		fields = append(fields, ir.Field{Name: f.Name, Type: roughRef(f.Type)})
	}
	return fields
}

func (s *Stage) lowerPorts(ent *ast.EntityItem) []ir.Port {
	seen := s.memberSet("port", ent.Name)
	ports := make([]ir.Port, 0, len(ent.Ports))
	for _, p := range ent.Ports {
		if !seen.add(p.Name) {
			continue
		}
		ports = append(ports, ir.Port{Dir: portDir(p.Dir), Name: p.Name, Type: roughRef(p.Type)})
	}
	return ports
}

// lowerVariants allocates the whole variant slab at once.
func (s *Stage) lowerVariants(enum *ast.EnumItem) []ir.Variant {
	seen := s.memberSet("variant", enum.Name)
	variants := make([]ir.Variant, 0, len(enum.Variants))
	for _, v := range enum.Variants {
		if seen.add(v) {
			variants = append(variants, ir.Variant{Name: v})
		}
	}
	return slices.Clip(variants)
}

func roughRef(path ast.Path) ir.TypeRef {
	return ir.TypeRef{Path: slices.Clone([]source.Ident(path))}
}

func portDir(d ast.PortDir) ir.PortDir {
	switch d {
	case ast.PortOut:
		return ir.PortOut
	case ast.PortInOut:
		return ir.PortInOut
	default:
		return ir.PortIn
	}
}

// memberSet detects duplicate members of one declaration.
type memberSet struct {
	stage *Stage
	what  string
	owner source.Ident
	seen  map[source.StringID]source.Ident
}

func (s *Stage) memberSet(what string, owner source.Ident) *memberSet {
	return &memberSet{stage: s, what: what, owner: owner, seen: make(map[source.StringID]source.Ident)}
}

// add reports false, with a diagnostic, when name was already seen.
func (m *memberSet) add(name source.Ident) bool {
	prev, dup := m.seen[name.Name]
	if !dup {
		m.seen[name.Name] = name
		return true
	}
	if m.stage.Reporter != nil {
		msg := fmt.Sprintf("duplicate %s `%s` in `%s`", m.what, name.Text(m.stage.Strings), m.owner.Text(m.stage.Strings))
		diag.ReportError(m.stage.Reporter, diag.SemaDuplicateDeclaration, name.Span, msg).
			WithNote(prev.Span, "originally declared here").
			Emit()
	}
	return false
}
