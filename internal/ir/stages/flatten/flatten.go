// Package flatten resolves every import to the declaration or module it
// denotes and freezes the result into an ir.NameLookup.
//
// Imports are resolved on demand: a path that runs into another import
// resolves that one first and memoizes it. The set of imports currently
// being resolved is the cycle detector. Every import is resolved at most
// once; failures are final.
package flatten

import (
	"fmt"

	"ohdl/internal/diag"
	"ohdl/internal/ir"
	"ohdl/internal/source"
)

type importState uint8

const (
	stateUnvisited importState = iota
	stateInProgress
	stateResolved
	stateFailed
)

// Stage carries the rough IR to flatten.
type Stage struct {
	Registry *ir.Registry
	Scopes   *ir.Scopes
	Imports  *ir.Imports
	Strings  *source.Interner
	Reporter diag.Reporter

	state  []importState
	target []ir.Resolvable
	stack  []ir.ImportID
}

// Run resolves all imports in bucket order and builds the lookup table.
func (s *Stage) Run() *ir.NameLookup {
	n := s.Imports.Len() + 1
	s.state = make([]importState, n)
	s.target = make([]ir.Resolvable, n)
	s.stack = s.stack[:0]

	for _, id := range s.Imports.Keys() {
		s.resolve(id)
	}

	lookup := ir.NewNameLookup()
	lookup.Build(s.Scopes, s.Registry, s.locals())
	return lookup
}

// Resolved reports the concrete target of an import after Run.
func (s *Stage) Resolved(id ir.ImportID) (ir.Resolvable, bool) {
	if int(id) >= len(s.state) || s.state[id] != stateResolved {
		return ir.Resolvable{}, false
	}
	return s.target[id], true
}

func (s *Stage) locals() map[ir.ScopeID]map[source.StringID]ir.Target {
	out := make(map[ir.ScopeID]map[source.StringID]ir.Target, s.Scopes.Len())
	for _, id := range s.Scopes.IDs() {
		sc := s.Scopes.Get(id)
		table := make(map[source.StringID]ir.Target, len(sc.Order))
		for _, name := range sc.Order {
			r := sc.Entries[name].Resolvable
			if r.Kind != ir.ResolvableImport {
				table[name] = ir.Target{Resolvable: r}
				continue
			}
			if t, ok := s.Resolved(r.Import); ok {
				table[name] = ir.Target{Resolvable: t}
			} else {
				table[name] = ir.Target{FailedImport: r.Import}
			}
		}
		out[id] = table
	}
	return out
}

func (s *Stage) resolve(id ir.ImportID) (ir.Resolvable, bool) {
	switch s.state[id] {
	case stateResolved:
		return s.target[id], true
	case stateFailed:
		return ir.Resolvable{}, false
	case stateInProgress:
		s.reportCycle(id)
		return ir.Resolvable{}, false
	}

	s.state[id] = stateInProgress
	s.stack = append(s.stack, id)
	r, ok := s.walk(id)
	s.stack = s.stack[:len(s.stack)-1]

	// a cycle may have failed this import while its path was walked
	if s.state[id] == stateFailed {
		return ir.Resolvable{}, false
	}
	if !ok {
		s.state[id] = stateFailed
		return ir.Resolvable{}, false
	}
	s.state[id] = stateResolved
	s.target[id] = r
	return r, true
}

// walk follows the path of import id segment by segment.
func (s *Stage) walk(id ir.ImportID) (ir.Resolvable, bool) {
	imp := s.Imports.MustGet(id)
	if len(imp.Path) == 0 {
		return ir.Resolvable{}, false
	}
	var cur ir.Resolvable
	for i, seg := range imp.Path {
		var found bool
		if i == 0 {
			cur, found = s.Scopes.Find(imp.Scope, seg.Name)
		} else {
			if cur.Kind != ir.ResolvableModule {
				s.unresolved(imp, fmt.Sprintf("`%s` is not a module", s.text(imp.Path[i-1])), imp.Path[i-1].Span)
				return ir.Resolvable{}, false
			}
			var e ir.Entry
			e, found = s.Scopes.Local(s.Registry.Modules.MustGet(cur.Module).Scope, seg.Name)
			cur = e.Resolvable
		}
		if !found {
			s.unresolved(imp, fmt.Sprintf("`%s` not found", s.text(seg)), seg.Span)
			return ir.Resolvable{}, false
		}
		if cur.Kind != ir.ResolvableImport {
			continue
		}
		next := cur.Import
		r, ok := s.resolve(next)
		if !ok {
			s.throughFailed(id, imp, next)
			return ir.Resolvable{}, false
		}
		cur = r
	}
	return cur, true
}

// reportCycle fails every import on the stack from closing up. The
// diagnostic sits on the import that ran into the cycle.
func (s *Stage) reportCycle(closing ir.ImportID) {
	start := len(s.stack) - 1
	for start > 0 && s.stack[start] != closing {
		start--
	}
	members := s.stack[start:]
	last := s.Imports.MustGet(members[len(members)-1])

	msg := fmt.Sprintf("import cycle: `%s` refers to itself", s.path(last))
	if len(members) > 1 {
		msg = fmt.Sprintf("import cycle through %d imports at `%s`", len(members), s.path(last))
	}
	b := diag.ReportError(s.Reporter, diag.SemaImportCycle, last.Span, msg)
	for _, m := range members[:len(members)-1] {
		imp := s.Imports.MustGet(m)
		b.WithNote(imp.Span, fmt.Sprintf("`%s` is part of the cycle", s.path(imp)))
	}
	b.Emit()
	for _, m := range members {
		s.state[m] = stateFailed
	}
}

// throughFailed reports an import whose path hits a failed import. Members
// of a cycle stay silent: the cycle diagnostic covers them.
func (s *Stage) throughFailed(id ir.ImportID, imp *ir.Import, failed ir.ImportID) {
	if s.state[id] == stateFailed {
		return
	}
	dep := s.Imports.MustGet(failed)
	s.unresolvedWithNote(imp,
		fmt.Sprintf("`%s` depends on import `%s`, which could not be resolved", s.path(imp), s.path(dep)),
		dep.Span, "failed import declared here")
}

func (s *Stage) unresolved(imp *ir.Import, reason string, at source.Span) {
	s.unresolvedWithNote(imp, fmt.Sprintf("unresolved import `%s`: %s", s.path(imp), reason), at, "")
}

func (s *Stage) unresolvedWithNote(imp *ir.Import, msg string, at source.Span, note string) {
	b := diag.ReportError(s.Reporter, diag.SemaUnresolvedImport, imp.Span, msg)
	if note != "" {
		b.WithNote(at, note)
	} else if at != imp.Span {
		b.WithNote(at, "failed here")
	}
	b.Emit()
}

func (s *Stage) text(id source.Ident) string { return id.Text(s.Strings) }

func (s *Stage) path(imp *ir.Import) string { return source.JoinPath(imp.Path, s.Strings) }
