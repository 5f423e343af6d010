package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const cleanDesign = `mod io { enum Bit { Low, High } }
use io::Bit;
entity Led { out led: Bit }
`

const brokenDesign = `record R { x: Missing }
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--color", "off"}, args...))
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestCheckCleanFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "led.ohd", cleanDesign)
	stdout, stderr, err := run(t, "check", "--format", "short", path)
	require.NoError(t, err, stderr)
	require.Empty(t, stdout)
}

func TestCheckReportsErrors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.ohd", brokenDesign)
	stdout, _, err := run(t, "check", "--format", "short", path)
	require.ErrorIs(t, err, errDiagnostics)
	require.Contains(t, stdout, "ERROR SEM3004")
	require.Contains(t, stdout, "unknown type `Missing`")
}

func TestCheckDirectoryJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.ohd", cleanDesign)
	writeFile(t, dir, "b.ohd", brokenDesign)
	stdout, _, err := run(t, "check", "--format", "json", dir)
	require.ErrorIs(t, err, errDiagnostics)
	var out struct {
		Diagnostics []struct {
			Code     string `json:"code"`
			Location struct {
				File string `json:"file"`
			} `json:"location"`
		} `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out), stdout)
	require.Len(t, out.Diagnostics, 1)
	require.Equal(t, "SEM3004", out.Diagnostics[0].Code)
	require.True(t, strings.HasSuffix(out.Diagnostics[0].Location.File, "b.ohd"), out.Diagnostics[0].Location.File)
}

func TestCheckUsesManifestSourceRoot(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ohdl.toml", "[package]\nname = \"demo\"\nroot = \"src\"\n")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "src"), 0o755))
	writeFile(t, filepath.Join(dir, "src"), "broken.ohd", brokenDesign)

	t.Chdir(dir)

	stdout, _, err := run(t, "check", "--format", "short")
	require.ErrorIs(t, err, errDiagnostics)
	require.Contains(t, stdout, "broken.ohd", "source root not scanned")
}

func TestCheckRejectsUnknownFormat(t *testing.T) {
	path := writeFile(t, t.TempDir(), "led.ohd", cleanDesign)
	_, _, err := run(t, "check", "--format", "xml", path)
	require.Error(t, err)
	require.NotErrorIs(t, err, errDiagnostics)
}

func TestDumpText(t *testing.T) {
	path := writeFile(t, t.TempDir(), "led.ohd", cleanDesign)
	stdout, stderr, err := run(t, "dump", path)
	require.NoError(t, err, stderr)
	for _, want := range []string{"module #2 io (in #1)", "enum #1 Bit", "entity #2 Led", "led: Bit -> #1 Bit"} {
		require.Contains(t, stdout, want)
	}
}

func TestDumpYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "led.ohd", cleanDesign)
	stdout, _, err := run(t, "dump", "--format", "yaml", path)
	require.NoError(t, err)
	require.Contains(t, stdout, "name: Led")
}

func TestTokenizeJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "t.ohd", "use a;")
	stdout, _, err := run(t, "tokenize", "--format", "json", path)
	require.NoError(t, err)
	var toks []struct {
		Kind string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &toks), stdout)
	require.Len(t, toks, 4)
	require.Equal(t, "'use'", toks[0].Kind)
	require.Equal(t, "end of file", toks[3].Kind)
}

func TestVersionJSON(t *testing.T) {
	stdout, _, err := run(t, "version", "--format", "json")
	require.NoError(t, err)
	var info versionInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	require.NotEmpty(t, info.Version)
}

func TestInvalidColorMode(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--color", "sometimes", "version"})
	require.Error(t, root.Execute(), "invalid --color value must be rejected")
}

func TestProfilingFlags(t *testing.T) {
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.pprof")
	heap := filepath.Join(dir, "heap.pprof")
	_, _, err := run(t, "--cpuprofile", cpu, "--memprofile", heap, "version")
	require.NoError(t, err)
	require.NoError(t, stopProfiling())
	for _, path := range []string{cpu, heap} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Positive(t, info.Size())
	}
}
