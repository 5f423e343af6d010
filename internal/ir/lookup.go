package ir

import "ohdl/internal/source"

// Target is the flattened meaning of a name. Exactly one of Resolvable
// (always concrete) and FailedImport is set.
type Target struct {
	Resolvable Resolvable
	// FailedImport is the import the name is bound to when that import
	// could not be resolved.
	FailedImport ImportID
}

func (t Target) Failed() bool { return t.FailedImport.IsValid() }

type lookupKey struct {
	scope ScopeID
	name  source.StringID
}

// NameLookup is the finalized name table produced by import flattening.
// It answers lexical and module-member queries without the scope tree.
type NameLookup struct {
	visible map[lookupKey]Target // local + inherited, per scope
	local   map[lookupKey]Target // local only, per scope
	modules map[ModuleID]ScopeID
	scopes  int
}

// NewNameLookup creates an empty table.
func NewNameLookup() *NameLookup {
	return &NameLookup{
		visible: make(map[lookupKey]Target),
		local:   make(map[lookupKey]Target),
		modules: make(map[ModuleID]ScopeID),
	}
}

// Build flattens local targets into per-scope visibility tables.
// locals must already contain only concrete or failed targets.
func (l *NameLookup) Build(scopes *Scopes, registry *Registry, locals map[ScopeID]map[source.StringID]Target) {
	for id, mod := range registry.Modules.All() {
		l.modules[id] = mod.Scope
	}
	// parents precede children, so the parent table is complete here
	for _, id := range scopes.IDs() {
		l.scopes++
		sc := scopes.Get(id)
		if sc.Parent.IsValid() {
			l.inherit(id, sc.Parent, scopes)
		}
		for name, target := range locals[id] {
			key := lookupKey{scope: id, name: name}
			l.local[key] = target
			l.visible[key] = target
		}
	}
}

func (l *NameLookup) inherit(child, parent ScopeID, scopes *Scopes) {
	for _, anc := range l.chain(parent, scopes) {
		for _, name := range scopes.Get(anc).Order {
			key := lookupKey{scope: child, name: name}
			if _, shadowed := l.visible[key]; shadowed {
				continue
			}
			if t, ok := l.local[lookupKey{scope: anc, name: name}]; ok {
				l.visible[key] = t
			}
		}
	}
}

// chain lists scope and its ancestors, innermost first.
func (l *NameLookup) chain(scope ScopeID, scopes *Scopes) []ScopeID {
	var out []ScopeID
	for id := scope; id.IsValid(); id = scopes.Get(id).Parent {
		out = append(out, id)
	}
	return out
}

// Resolve returns what name means lexically inside scope.
func (l *NameLookup) Resolve(scope ScopeID, name source.StringID) (Target, bool) {
	t, ok := l.visible[lookupKey{scope: scope, name: name}]
	return t, ok
}

// FailedImport reports the import name is bound to in scope when that
// import could not be resolved.
func (l *NameLookup) FailedImport(scope ScopeID, name source.StringID) (ImportID, bool) {
	t, ok := l.Resolve(scope, name)
	if !ok || !t.Failed() {
		return NoImportID, false
	}
	return t.FailedImport, true
}

// Member returns the module-local binding of name.
func (l *NameLookup) Member(module ModuleID, name source.StringID) (Target, bool) {
	scope, ok := l.modules[module]
	if !ok {
		return Target{}, false
	}
	t, ok := l.local[lookupKey{scope: scope, name: name}]
	return t, ok
}

// Scopes reports how many scopes the table covers.
func (l *NameLookup) Scopes() int { return l.scopes }

// PathStatus classifies the outcome of ResolvePath.
type PathStatus uint8

const (
	PathOK PathStatus = iota
	PathNotFound
	PathNotModule
	PathFailedImport
)

// PathResult describes the outcome of ResolvePath. Segment is the index
// of the segment that failed.
type PathResult struct {
	Status       PathStatus
	Target       Resolvable
	Segment      int
	FailedImport ImportID
}

// ResolvePath resolves a `::` path from scope: the head lexically, every
// further segment as a member of the module named so far.
func (l *NameLookup) ResolvePath(scope ScopeID, path []source.Ident) PathResult {
	if len(path) == 0 {
		return PathResult{Status: PathNotFound}
	}
	t, ok := l.Resolve(scope, path[0].Name)
	for i := 0; ; i++ {
		switch {
		case !ok:
			return PathResult{Status: PathNotFound, Segment: i}
		case t.Failed():
			return PathResult{Status: PathFailedImport, Segment: i, FailedImport: t.FailedImport}
		}
		if i == len(path)-1 {
			return PathResult{Status: PathOK, Target: t.Resolvable, Segment: i}
		}
		if t.Resolvable.Kind != ResolvableModule {
			return PathResult{Status: PathNotModule, Target: t.Resolvable, Segment: i}
		}
		t, ok = l.Member(t.Resolvable.Module, path[i+1].Name)
	}
}
