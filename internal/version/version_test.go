package version

import (
	"testing"

	"github.com/fatih/color"
)

func withVersion(t *testing.T, v, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = v, commit, date
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })
}

func TestFull(t *testing.T) {
	withVersion(t, "1.2.3", "", "")
	if got := Full(); got != "1.2.3" {
		t.Fatalf("Full() = %q", got)
	}
	withVersion(t, "1.2.3", "abc123", "2024-01-15")
	if got := Full(); got != "1.2.3 (abc123, 2024-01-15)" {
		t.Fatalf("Full() = %q", got)
	}
}

func TestColoredWithoutColor(t *testing.T) {
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })

	for _, v := range []string{"0.1.0-dev", "1.2.3", "not-semver"} {
		withVersion(t, v, "", "")
		if got := Colored(); got != v {
			t.Fatalf("Colored() = %q, want %q", got, v)
		}
	}
}
