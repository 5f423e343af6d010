// Package irdump renders the refined IR for humans and tools.
package irdump

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"ohdl/internal/ir"
	"ohdl/internal/source"
)

// Snapshot is a self-contained, interner-free view of a refined registry.
type Snapshot struct {
	Modules []ModuleSnap `json:"modules" yaml:"modules"`
	Types   []TypeSnap   `json:"types" yaml:"types"`
}

type ModuleSnap struct {
	ID      uint32   `json:"id" yaml:"id"`
	Name    string   `json:"name" yaml:"name"`
	Parent  uint32   `json:"parent,omitempty" yaml:"parent,omitempty"`
	Members []Member `json:"members,omitempty" yaml:"members,omitempty"`
}

// Member is a local binding of a module scope after flattening.
type Member struct {
	Name   string `json:"name" yaml:"name"`
	Kind   string `json:"kind" yaml:"kind"`
	Target uint32 `json:"target,omitempty" yaml:"target,omitempty"`
}

type TypeSnap struct {
	ID       uint32    `json:"id" yaml:"id"`
	Kind     string    `json:"kind" yaml:"kind"`
	Name     string    `json:"name" yaml:"name"`
	Module   uint32    `json:"module" yaml:"module"`
	Fields   []RefSnap `json:"fields,omitempty" yaml:"fields,omitempty"`
	Variants []string  `json:"variants,omitempty" yaml:"variants,omitempty"`
}

// RefSnap is a field or port. Target 0 means unresolved.
type RefSnap struct {
	Name   string `json:"name" yaml:"name"`
	Dir    string `json:"dir,omitempty" yaml:"dir,omitempty"`
	Type   string `json:"type" yaml:"type"`
	Target uint32 `json:"target,omitempty" yaml:"target,omitempty"`
}

// Input bundles what Build reads.
type Input struct {
	Registry *ir.Registry
	Scopes   *ir.Scopes
	Lookup   *ir.NameLookup
	Strings  *source.Interner
}

// Build captures modules and types in id order.
func Build(in Input) Snapshot {
	var snap Snapshot
	for id, mod := range in.Registry.Modules.All() {
		ms := ModuleSnap{ID: uint32(id), Name: moduleName(mod, in.Strings), Parent: uint32(mod.Parent)}
		for _, name := range in.Scopes.Get(mod.Scope).Order {
			ms.Members = append(ms.Members, member(in, id, name))
		}
		snap.Modules = append(snap.Modules, ms)
	}
	for id, t := range in.Registry.Types.All() {
		snap.Types = append(snap.Types, typeSnap(in, id, *t))
	}
	return snap
}

func moduleName(mod *ir.Module, strings *source.Interner) string {
	if !mod.Name.IsValid() {
		return "<root>"
	}
	return mod.Name.Text(strings)
}

func member(in Input, module ir.ModuleID, name source.StringID) Member {
	m := Member{Name: in.Strings.MustLookup(name), Kind: "unresolved import"}
	if in.Lookup == nil {
		return m
	}
	t, ok := in.Lookup.Member(module, name)
	switch {
	case !ok || t.Failed():
	case t.Resolvable.Kind == ir.ResolvableType:
		m.Kind, m.Target = "type", uint32(t.Resolvable.Type)
	case t.Resolvable.Kind == ir.ResolvableModule:
		m.Kind, m.Target = "module", uint32(t.Resolvable.Module)
	}
	return m
}

func typeSnap(in Input, id ir.TypeID, t ir.Type) TypeSnap {
	ts := TypeSnap{
		ID:     uint32(id),
		Kind:   ir.KindName(t),
		Name:   t.Name().Text(in.Strings),
		Module: uint32(in.Scopes.Get(t.DeclScope()).Module),
	}
	switch decl := t.(type) {
	case *ir.Record:
		for _, f := range decl.Fields {
			ts.Fields = append(ts.Fields, refSnap(in, f.Name, "", f.Type))
		}
	case *ir.Entity:
		for _, p := range decl.Ports {
			ts.Fields = append(ts.Fields, refSnap(in, p.Name, p.Dir.String(), p.Type))
		}
	case *ir.Enum:
		for _, v := range decl.Variants {
			ts.Variants = append(ts.Variants, v.Name.Text(in.Strings))
		}
	}
	return ts
}

func refSnap(in Input, name source.Ident, dir string, ref ir.TypeRef) RefSnap {
	return RefSnap{
		Name:   name.Text(in.Strings),
		Dir:    dir,
		Type:   source.JoinPath(ref.Path, in.Strings),
		Target: uint32(ref.Target),
	}
}

// WriteJSON encodes snap as indented JSON.
func WriteJSON(w io.Writer, snap Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// WriteYAML encodes snap as YAML.
func WriteYAML(w io.Writer, snap Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return err
	}
	return enc.Close()
}
