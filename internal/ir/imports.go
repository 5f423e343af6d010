package ir

import (
	"ohdl/internal/arena"
	"ohdl/internal/source"
)

// Import is a `use` item waiting to be flattened.
type Import struct {
	ID ImportID
	// Scope is where the import is declared and where its first path
	// segment is looked up.
	Scope   ScopeID
	Path    []source.Ident
	Binding source.Ident
	Span    source.Span
}

// Imports is the bucket of all imports of a compilation unit.
type Imports = arena.Registry[ImportID, Import]

func NewImports() *Imports { return arena.New[ImportID, Import](8) }
