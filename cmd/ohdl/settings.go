package main

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ohdl/internal/driver"
	"ohdl/internal/project"
)

// settings is the manifest merged with command-line overrides.
type settings struct {
	manifest project.Manifest
	opts     driver.Options
	color    bool
	timings  bool
}

// loadSettings reads the manifest governing target, then applies flags.
// Flags win when set explicitly.
func loadSettings(cmd *cobra.Command, target string) (settings, error) {
	dir := target
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		dir = filepath.Dir(target)
	}
	manifest, found, err := project.Load(dir)
	if err != nil {
		return settings{}, fmt.Errorf("failed to load manifest: %w", err)
	}
	if found {
		log.WithField("manifest", manifest.Path).Debug("using project manifest")
	}

	st := settings{
		manifest: manifest,
		opts: driver.Options{
			MaxDiagnostics:   manifest.Diagnostics.Max,
			WarningsAsErrors: manifest.Diagnostics.WarningsAsErrors,
			Jobs:             manifest.Build.Jobs,
		},
	}

	flags := cmd.Flags()
	if flags.Changed("max-diagnostics") {
		if st.opts.MaxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
			return settings{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	if flags.Changed("jobs") {
		if st.opts.Jobs, err = flags.GetInt("jobs"); err != nil {
			return settings{}, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if st.timings, err = flags.GetBool("timings"); err != nil {
		return settings{}, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if st.color, err = colorEnabled(cmd); err != nil {
		return settings{}, err
	}

	cacheDir, err := flags.GetString("disk-cache")
	if err != nil {
		return settings{}, fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	useCache := cacheDir != ""
	if !useCache && manifest.Build.Cache {
		useCache = true
		cacheDir = manifest.Build.CacheDir
		if cacheDir != "" && manifest.Path != "" && !filepath.IsAbs(cacheDir) {
			cacheDir = filepath.Join(filepath.Dir(manifest.Path), cacheDir)
		}
	}
	if useCache {
		// an empty dir selects the user cache directory
		if st.opts.Cache, err = driver.OpenDiskCache(cacheDir); err != nil {
			return settings{}, err
		}
		log.WithField("dir", st.opts.Cache.Dir()).Debug("disk cache enabled")
	}
	return st, nil
}
