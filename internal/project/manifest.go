package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest is the decoded ohdl.toml. Path is empty for defaults.
type Manifest struct {
	Path        string            `toml:"-"`
	Package     Package           `toml:"package"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
	Build       BuildConfig       `toml:"build"`
}

type Package struct {
	Name string `toml:"name"`
	// Root is the source directory relative to the manifest.
	Root string `toml:"root"`
}

type DiagnosticsConfig struct {
	Max              int  `toml:"max"`
	WarningsAsErrors bool `toml:"warnings_as_errors"`
}

type BuildConfig struct {
	Jobs     int    `toml:"jobs"`
	Cache    bool   `toml:"cache"`
	CacheDir string `toml:"cache_dir"`
}

var (
	// ErrPackageSectionMissing indicates that [package] is missing in the manifest.
	ErrPackageSectionMissing = errors.New("missing [package]")
	// ErrPackageNameMissing indicates that [package].name is missing or empty.
	ErrPackageNameMissing = errors.New("missing [package].name")
	ErrPackageRootInvalid = errors.New("invalid [package].root")
	ErrInvalidValue       = errors.New("invalid value")
)

// DefaultMaxDiagnostics caps a unit's bag unless configured otherwise.
const DefaultMaxDiagnostics = 100

// Default is the configuration used without a manifest.
func Default() Manifest {
	return Manifest{
		Package:     Package{Root: "."},
		Diagnostics: DiagnosticsConfig{Max: DefaultMaxDiagnostics},
	}
}

// LoadManifest decodes path over Default and validates the result.
func LoadManifest(path string) (Manifest, error) {
	m := Default()
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	m.Path = path
	if !meta.IsDefined("package") {
		return Manifest{}, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Manifest{}, fmt.Errorf("%s: unknown key %q: %w", path, undecoded[0].String(), ErrInvalidValue)
	}
	if err := m.validate(); err != nil {
		return Manifest{}, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Load finds and decodes the manifest governing startDir. Without one it
// returns Default and ok=false.
func Load(startDir string) (m Manifest, ok bool, err error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return Manifest{}, false, err
	}
	if !ok {
		return Default(), false, nil
	}
	m, err = LoadManifest(path)
	return m, true, err
}

func (m *Manifest) validate() error {
	m.Package.Name = strings.TrimSpace(m.Package.Name)
	if m.Package.Name == "" {
		return ErrPackageNameMissing
	}
	root := strings.TrimSpace(m.Package.Root)
	if root == "" {
		root = "."
	}
	if filepath.IsAbs(root) {
		return fmt.Errorf("%w %q: must be relative", ErrPackageRootInvalid, root)
	}
	if clean := filepath.Clean(filepath.FromSlash(root)); clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w %q: escapes the project directory", ErrPackageRootInvalid, root)
	}
	m.Package.Root = root
	if m.Diagnostics.Max < 0 {
		return fmt.Errorf("[diagnostics].max = %d: %w", m.Diagnostics.Max, ErrInvalidValue)
	}
	if m.Build.Jobs < 0 {
		return fmt.Errorf("[build].jobs = %d: %w", m.Build.Jobs, ErrInvalidValue)
	}
	return nil
}

// SourceRoot is the directory `ohdl check` scans by default.
func (m Manifest) SourceRoot() string {
	if m.Path == "" {
		return filepath.FromSlash(m.Package.Root)
	}
	return filepath.Join(filepath.Dir(m.Path), filepath.FromSlash(m.Package.Root))
}
