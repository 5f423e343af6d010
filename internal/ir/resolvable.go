package ir

import "fmt"

// ResolvableKind tags what a scope entry denotes.
type ResolvableKind uint8

const (
	ResolvableInvalid ResolvableKind = iota
	ResolvableType
	ResolvableModule
	// ResolvableImport is provisional; flattening replaces it.
	ResolvableImport
)

func (k ResolvableKind) String() string {
	switch k {
	case ResolvableType:
		return "type"
	case ResolvableModule:
		return "module"
	case ResolvableImport:
		return "import"
	default:
		return "invalid"
	}
}

// Resolvable is the meaning of a name in a scope.
type Resolvable struct {
	Kind   ResolvableKind
	Type   TypeID
	Module ModuleID
	Import ImportID
}

func TypeEntry(id TypeID) Resolvable {
	return Resolvable{Kind: ResolvableType, Type: id}
}

func ModuleEntry(id ModuleID) Resolvable {
	return Resolvable{Kind: ResolvableModule, Module: id}
}

func ImportEntry(id ImportID) Resolvable {
	return Resolvable{Kind: ResolvableImport, Import: id}
}

func (r Resolvable) IsValid() bool { return r.Kind != ResolvableInvalid }

// IsConcrete is false for invalid and provisional import entries.
func (r Resolvable) IsConcrete() bool {
	return r.Kind == ResolvableType || r.Kind == ResolvableModule
}

func (r Resolvable) String() string {
	switch r.Kind {
	case ResolvableType:
		return fmt.Sprintf("type#%d", r.Type)
	case ResolvableModule:
		return fmt.Sprintf("module#%d", r.Module)
	case ResolvableImport:
		return fmt.Sprintf("import#%d", r.Import)
	default:
		return "invalid"
	}
}
