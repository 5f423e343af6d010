package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadManifestAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[package]
name = "blinky"
root = "src"

[build]
jobs = 4
`)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Package.Name != "blinky" || m.Build.Jobs != 4 {
		t.Fatalf("unexpected manifest %+v", m)
	}
	if m.Diagnostics.Max != DefaultMaxDiagnostics || m.Diagnostics.WarningsAsErrors {
		t.Fatalf("diagnostics defaults lost: %+v", m.Diagnostics)
	}
	if m.SourceRoot() != filepath.Join(dir, "src") {
		t.Fatalf("SourceRoot = %q", m.SourceRoot())
	}
}

func TestLoadManifestErrors(t *testing.T) {
	cases := map[string]struct {
		body string
		want error
	}{
		"no package":   {body: "[build]\njobs = 1\n", want: ErrPackageSectionMissing},
		"no name":      {body: "[package]\nroot = \"src\"\n", want: ErrPackageNameMissing},
		"abs root":     {body: "[package]\nname = \"x\"\nroot = \"/abs\"\n", want: ErrPackageRootInvalid},
		"escape root":  {body: "[package]\nname = \"x\"\nroot = \"../up\"\n", want: ErrPackageRootInvalid},
		"negative max": {body: "[package]\nname = \"x\"\n[diagnostics]\nmax = -1\n", want: ErrInvalidValue},
		"unknown key":  {body: "[package]\nname = \"x\"\ncolour = \"red\"\n", want: ErrInvalidValue},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tc.body)
			if _, err := LoadManifest(path); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[package]\nname = \"x\"\n")
	nested := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	path, ok, err := FindManifest(nested)
	if err != nil || !ok {
		t.Fatalf("FindManifest: ok=%v err=%v", ok, err)
	}
	if path != filepath.Join(dir, ManifestName) {
		t.Fatalf("path = %q", path)
	}
	root, ok, err := FindProjectRoot(nested)
	if err != nil || !ok || root != dir {
		t.Fatalf("FindProjectRoot = %q, %v, %v", root, ok, err)
	}
}

func TestLoadWithoutManifestUsesDefaults(t *testing.T) {
	m, ok, err := Load(t.TempDir())
	if err != nil || ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if m.Diagnostics.Max != DefaultMaxDiagnostics || m.Package.Root != "." {
		t.Fatalf("unexpected defaults %+v", m)
	}
}
