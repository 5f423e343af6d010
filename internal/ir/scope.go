package ir

import (
	"fmt"

	"ohdl/internal/arena"
	"ohdl/internal/diag"
	"ohdl/internal/source"
)

// Entry is a binding in a scope together with the identifier that
// introduced it.
type Entry struct {
	Resolvable Resolvable
	Ident      source.Ident
}

// Scope is a node of the lexical scope tree.
type Scope struct {
	Parent ScopeID
	// Module owning this scope, NoModuleID for anonymous scopes.
	Module  ModuleID
	Entries map[source.StringID]Entry
	// Order keeps local names in binding order for deterministic walks.
	Order []source.StringID
}

// Scopes is the scope forest of one compilation unit. Root always exists.
type Scopes struct {
	data *arena.Registry[ScopeID, Scope]
	Root ScopeID
}

// NewScopes creates the arena together with the root scope.
func NewScopes() *Scopes {
	s := &Scopes{data: arena.New[ScopeID, Scope](16)}
	s.Root = s.data.Insert(newScope(NoScopeID))
	return s
}

func newScope(parent ScopeID) Scope {
	return Scope{Parent: parent, Entries: make(map[source.StringID]Entry)}
}

// SubScope creates an empty scope chained to parent.
func (s *Scopes) SubScope(parent ScopeID) ScopeID {
	s.data.MustGet(parent)
	return s.data.Insert(newScope(parent))
}

// Get returns the scope for id; unknown ids panic.
func (s *Scopes) Get(id ScopeID) *Scope {
	return s.data.MustGet(id)
}

func (s *Scopes) Len() int { return s.data.Len() }

// IDs returns all scope ids, parents before children.
func (s *Scopes) IDs() []ScopeID { return s.data.Keys() }

// Bind adds name to scope unless the scope already binds it locally.
// On collision the first binding stays and is returned with ok=false.
// Bindings in enclosing scopes are never consulted.
func (s *Scopes) Bind(scope ScopeID, name source.Ident, r Resolvable) (Entry, bool) {
	sc := s.Get(scope)
	if prev, exists := sc.Entries[name.Name]; exists {
		return prev, false
	}
	sc.Entries[name.Name] = Entry{Resolvable: r, Ident: name}
	sc.Order = append(sc.Order, name.Name)
	return Entry{}, true
}

// Introduce binds name like Bind and reports a collision as a duplicate
// declaration. strings may be nil; the message then omits the name.
func (s *Scopes) Introduce(scope ScopeID, name source.Ident, r Resolvable, strings *source.Interner, reporter diag.Reporter) bool {
	prev, ok := s.Bind(scope, name, r)
	if ok {
		return true
	}
	if reporter == nil {
		return false
	}
	msg := "name is already in scope"
	if strings != nil {
		msg = fmt.Sprintf("`%s` is already in scope", name.Text(strings))
	}
	diag.ReportError(reporter, diag.SemaDuplicateDeclaration, name.Span, msg).
		WithNote(prev.Ident.Span, "originally declared here").
		Emit()
	return false
}

// Local looks name up in scope only.
func (s *Scopes) Local(scope ScopeID, name source.StringID) (Entry, bool) {
	e, ok := s.Get(scope).Entries[name]
	return e, ok
}

// Find walks from scope towards the root and returns the first binding.
func (s *Scopes) Find(scope ScopeID, name source.StringID) (Resolvable, bool) {
	e, _, ok := s.FindEntry(scope, name)
	return e.Resolvable, ok
}

// FindEntry is Find that also reports the scope holding the binding.
func (s *Scopes) FindEntry(scope ScopeID, name source.StringID) (Entry, ScopeID, bool) {
	for id := scope; id.IsValid(); {
		sc := s.Get(id)
		if e, ok := sc.Entries[name]; ok {
			return e, id, true
		}
		id = sc.Parent
	}
	return Entry{}, NoScopeID, false
}

// Depth counts parent links up to the root (root has depth 0).
func (s *Scopes) Depth(scope ScopeID) int {
	depth := 0
	for id := s.Get(scope).Parent; id.IsValid(); id = s.Get(id).Parent {
		depth++
	}
	return depth
}

// Validate checks that the tree is acyclic and parents precede children.
func (s *Scopes) Validate() error {
	for id, sc := range s.data.All() {
		if id == s.Root {
			if sc.Parent.IsValid() {
				return fmt.Errorf("root scope %d has parent %d", id, sc.Parent)
			}
			continue
		}
		if !sc.Parent.IsValid() {
			return fmt.Errorf("scope %d has no parent", id)
		}
		if sc.Parent >= id {
			return fmt.Errorf("scope %d: parent %d does not precede it", id, sc.Parent)
		}
		if len(sc.Order) != len(sc.Entries) {
			return fmt.Errorf("scope %d: order/entries mismatch", id)
		}
	}
	return nil
}
