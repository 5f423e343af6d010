package ir

import (
	"fmt"

	"ohdl/internal/arena"
	"ohdl/internal/source"
)

// Type is a declaration that introduces a type: *Entity, *Record or *Enum.
// The set is closed; switch over it exhaustively.
type Type interface {
	ID() TypeID
	Name() source.Ident
	// DeclScope is the scope the declaration's own name is bound in and
	// the scope its type references are resolved from.
	DeclScope() ScopeID
	isType()
}

// Types stores every declaration of a compilation unit.
type Types = arena.Registry[TypeID, Type]

// NewTypes creates an empty type registry.
func NewTypes() *Types { return arena.New[TypeID, Type](32) }

// TypeRef is a path naming another type. Target stays NoTypeID until
// refinement resolves it, and after refinement if resolution failed.
type TypeRef struct {
	Path   []source.Ident
	Target TypeID
}

func (r TypeRef) Resolved() bool { return r.Target.IsValid() }

func (r TypeRef) Span() source.Span { return source.PathSpan(r.Path) }

// Field is a named member of a record.
type Field struct {
	Name source.Ident
	Type TypeRef
}

type Record struct {
	TypeID TypeID
	Ident  source.Ident
	Scope  ScopeID
	Fields []Field
}

// PortDir is the direction of an entity port.
type PortDir uint8

const (
	PortIn PortDir = iota
	PortOut
	PortInOut
)

func (d PortDir) String() string {
	switch d {
	case PortIn:
		return "in"
	case PortOut:
		return "out"
	case PortInOut:
		return "inout"
	default:
		return fmt.Sprintf("PortDir(%d)", d)
	}
}

type Port struct {
	Dir  PortDir
	Name source.Ident
	Type TypeRef
}

type Entity struct {
	TypeID TypeID
	Ident  source.Ident
	Scope  ScopeID
	Ports  []Port
}

// Variant is a case of an enum. Variants live in the enum's slab.
type Variant struct {
	Name source.Ident
}

type Enum struct {
	TypeID   TypeID
	Ident    source.Ident
	Scope    ScopeID
	Variants []Variant
}

func (e *Entity) ID() TypeID         { return e.TypeID }
func (e *Entity) Name() source.Ident { return e.Ident }
func (e *Entity) DeclScope() ScopeID { return e.Scope }
func (*Entity) isType()              {}

func (r *Record) ID() TypeID         { return r.TypeID }
func (r *Record) Name() source.Ident { return r.Ident }
func (r *Record) DeclScope() ScopeID { return r.Scope }
func (*Record) isType()              {}

func (e *Enum) ID() TypeID         { return e.TypeID }
func (e *Enum) Name() source.Ident { return e.Ident }
func (e *Enum) DeclScope() ScopeID { return e.Scope }
func (*Enum) isType()              {}

// KindName names the declaration kind for messages.
func KindName(t Type) string {
	switch t.(type) {
	case *Entity:
		return "entity"
	case *Record:
		return "record"
	case *Enum:
		return "enum"
	default:
		panic(fmt.Sprintf("ir: unexpected type %T", t))
	}
}

// CheckTypes verifies that every entry reports the key it is stored under.
func CheckTypes(types *Types) error {
	for id, t := range types.All() {
		if *t == nil {
			return fmt.Errorf("type %d: empty slot", id)
		}
		if got := (*t).ID(); got != id {
			return fmt.Errorf("type %d: declaration claims id %d", id, got)
		}
	}
	return nil
}
