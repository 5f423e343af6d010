package driver

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"ohdl/internal/ast"
	"ohdl/internal/diag"
	"ohdl/internal/ir"
	"ohdl/internal/ir/stages/flatten"
	"ohdl/internal/ir/stages/refine"
	"ohdl/internal/ir/stages/rough"
	"ohdl/internal/irdump"
	"ohdl/internal/lexer"
	"ohdl/internal/observ"
	"ohdl/internal/parser"
	"ohdl/internal/source"
)

// Stage names a pipeline step.
type Stage string

const (
	StageParse   Stage = "parse"
	StageRough   Stage = "rough"
	StageFlatten Stage = "flatten"
	StageRefine  Stage = "refine"
)

// Options controls one compilation run.
type Options struct {
	MaxDiagnostics   int
	WarningsAsErrors bool
	Jobs             int
	// Cache, when set, is consulted before and filled after a compile.
	Cache *DiskCache
}

// StageReport is how many diagnostics a stage contributed.
type StageReport struct {
	Name        Stage
	Diagnostics int
}

// Result is one compilation unit after the pipeline ran. IR fields are
// nil when the unit stopped at parsing or came from the cache.
type Result struct {
	Path     string
	FileID   source.FileID
	Bag      *diag.Bag
	Stages   []StageReport
	Timing   observ.Report
	Cached   bool
	Snapshot *irdump.Snapshot

	Builder  *ast.Builder
	Registry *ir.Registry
	Scopes   *ir.Scopes
	Imports  *ir.Imports
	Lookup   *ir.NameLookup
}

// HasErrors reports whether any error diagnostic was collected.
func (r *Result) HasErrors() bool { return r.Bag.HasErrors() }

// unit threads the per-unit sink through the stages.
type unit struct {
	res   *Result
	opts  Options
	timer *observ.Timer
	sink  *diag.Bag
	log   *log.Entry
}

// drain moves the stage sink into the unit bag; it reports whether the
// stage produced errors.
func (u *unit) drain(stage Stage, phase int) bool {
	n, errs := 0, 0
	u.sink.Drain(func(d diag.Diagnostic) {
		if u.opts.WarningsAsErrors && d.Severity == diag.SevWarning {
			d.Severity = diag.SevError
		}
		if d.Severity == diag.SevError {
			errs++
		}
		u.res.Bag.Add(d)
		n++
	})
	u.timer.End(phase, fmt.Sprintf("%d diagnostics", n))
	u.res.Stages = append(u.res.Stages, StageReport{Name: stage, Diagnostics: n})
	u.log.WithField("stage", stage).Debugf("%d diagnostics (%d errors)", n, errs)
	return errs > 0
}

// CompileFile runs parse, rough lowering, flattening and refinement over
// one file. Syntax errors stop the unit before rough lowering.
func CompileFile(fs *source.FileSet, id source.FileID, opts Options) *Result {
	file := fs.Get(id)
	res := &Result{Path: fs.DisplayPath(id), FileID: id, Bag: diag.NewBag(opts.MaxDiagnostics)}
	entry := log.WithField("file", res.Path)
	if file == nil {
		res.Bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, fmt.Sprintf("file %d is not loaded", id)))
		return res
	}

	var key CacheKey
	if opts.Cache != nil {
		key = cacheKeyFor(file, opts)
		if fromCache(opts.Cache, key, res, entry) {
			return res
		}
	}

	u := &unit{res: res, opts: opts, timer: observ.NewTimer(), sink: diag.NewBag(0), log: entry}
	rep := diag.BagReporter{Bag: u.sink}
	defer func() { res.Timing = u.timer.Report() }()

	phase := u.timer.Begin(string(StageParse))
	builder := ast.NewBuilder(nil)
	parsed := parser.ParseFile(lexer.New(file, lexer.Options{Reporter: rep}), builder, parser.Options{Reporter: rep})
	res.Builder = builder
	if u.drain(StageParse, phase) || parsed.Errors > 0 {
		entry.Debug("syntax errors, skipping IR stages")
		storeCache(opts.Cache, key, res, entry)
		return res
	}

	phase = u.timer.Begin(string(StageRough))
	rs := rough.New(builder.Strings, rep)
	rs.Lower(builder, parsed.File)
	res.Registry, res.Scopes, res.Imports = rs.Registry, rs.Scopes, rs.Imports
	u.drain(StageRough, phase)

	phase = u.timer.Begin(string(StageFlatten))
	res.Lookup = (&flatten.Stage{
		Registry: rs.Registry,
		Scopes:   rs.Scopes,
		Imports:  rs.Imports,
		Strings:  builder.Strings,
		Reporter: rep,
	}).Run()
	u.drain(StageFlatten, phase)

	phase = u.timer.Begin(string(StageRefine))
	rf := &refine.Stage{Lookup: res.Lookup, Imports: rs.Imports, Strings: builder.Strings, Reporter: rep}
	rs.Registry.Types = rf.Lower(rs.Registry.Types)
	u.drain(StageRefine, phase)

	if err := ir.CheckTypes(rs.Registry.Types); err != nil {
		panic(fmt.Errorf("%s: refined registry: %w", res.Path, err))
	}
	snap := irdump.Build(irdump.Input{
		Registry: rs.Registry,
		Scopes:   rs.Scopes,
		Lookup:   res.Lookup,
		Strings:  builder.Strings,
	})
	res.Snapshot = &snap
	storeCache(opts.Cache, key, res, entry)
	return res
}

// CompileSource compiles an in-memory file; handy for tests and stdin.
func CompileSource(name string, src []byte, opts Options) (*source.FileSet, *Result) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, src)
	return fs, CompileFile(fs, id, opts)
}

// CompilePath loads path from disk and compiles it.
func CompilePath(path string, opts Options) (*source.FileSet, *Result, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, fmt.Errorf("compile %s: %w", path, err)
	}
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("compile %s: %w", path, err)
	}
	return fs, CompileFile(fs, id, opts), nil
}
