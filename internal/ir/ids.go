package ir

type (
	// TypeID addresses a declaration in Types.
	TypeID uint32
	// ModuleID addresses a module in Modules.
	ModuleID uint32
	// ImportID addresses a `use` item in Imports.
	ImportID uint32
	// ScopeID addresses a scope in Scopes.
	ScopeID uint32
)

const (
	NoTypeID   TypeID   = 0
	NoModuleID ModuleID = 0
	NoImportID ImportID = 0
	NoScopeID  ScopeID  = 0
)

func (id TypeID) IsValid() bool   { return id != NoTypeID }
func (id ModuleID) IsValid() bool { return id != NoModuleID }
func (id ImportID) IsValid() bool { return id != NoImportID }
func (id ScopeID) IsValid() bool  { return id != NoScopeID }
