package diagfmt

import (
	"os"
	"path/filepath"

	"ohdl/internal/source"
)

// PathMode selects how file names appear in rendered diagnostics.
type PathMode uint8

const (
	// PathModeAuto uses the FileSet display path: relative to its base
	// directory when one is set.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	// PathModeRelative is relative to the FileSet base directory, or to
	// the working directory when the set has none.
	PathModeRelative
	PathModeBasename
)

type PrettyOpts struct {
	Color bool
	// Context is how many source lines precede the primary line.
	Context   int8
	PathMode  PathMode
	ShowNotes bool
}

type JSONOpts struct {
	IncludePositions bool
	PathMode         PathMode
	// Max truncates the output; the bag itself is untouched.
	Max          int
	IncludeNotes bool
}

func formatPath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	f := fs.Get(id)
	if f == nil {
		return "<unknown>"
	}
	if f.IsVirtual() && mode != PathModeBasename {
		return f.Path
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeRelative:
		if fs.BaseDir() != "" {
			return fs.DisplayPath(id)
		}
		wd, wdErr := os.Getwd()
		abs, absErr := filepath.Abs(f.Path)
		if wdErr == nil && absErr == nil {
			if rel, err := filepath.Rel(wd, abs); err == nil {
				return filepath.ToSlash(rel)
			}
		}
	case PathModeBasename:
		return filepath.Base(f.Path)
	default:
		return fs.DisplayPath(id)
	}
	return f.Path
}
