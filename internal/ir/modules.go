package ir

import (
	"ohdl/internal/arena"
	"ohdl/internal/source"
)

// Module groups declarations under a namespace. Its members are the
// local entries of Scope.
type Module struct {
	ID     ModuleID
	Name   source.Ident
	Parent ModuleID
	Scope  ScopeID
}

type Modules = arena.Registry[ModuleID, Module]

func NewModules() *Modules { return arena.New[ModuleID, Module](8) }

// Registry is what later stages and the backend consume.
type Registry struct {
	Modules *Modules
	Types   *Types
	// Root is the implicit module of the compilation unit.
	Root ModuleID
}

// NewRegistry creates empty stores and the root module bound to rootScope.
func NewRegistry(rootScope ScopeID) *Registry {
	modules := NewModules()
	root := modules.InsertWith(func(id ModuleID) Module {
		return Module{ID: id, Scope: rootScope}
	})
	return &Registry{Modules: modules, Types: NewTypes(), Root: root}
}
