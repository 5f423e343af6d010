package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"ohdl/internal/diag"
	"ohdl/internal/diagfmt"
	"ohdl/internal/driver"
	"ohdl/internal/observ"
	"ohdl/internal/source"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [file.ohd|directory]",
		Short: "Check a file or every file in a directory",
		Long: `Run the front end (parse, lower, resolve imports, refine types) and print diagnostics.
Without an argument the source root of the enclosing ohdl.toml is checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCheck,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	cmd.Flags().Bool("notes", true, "include notes")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json", "short":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	withNotes, err := cmd.Flags().GetBool("notes")
	if err != nil {
		return fmt.Errorf("failed to get notes flag: %w", err)
	}

	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	st, err := loadSettings(cmd, target)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		target = st.manifest.SourceRoot()
	}

	fs, results, err := compileTarget(cmd.Context(), target, st.opts)
	if err != nil {
		return err
	}

	merged := diag.NewBag(0)
	dropped := 0
	var timing observ.Report
	for _, res := range results {
		res.Bag.Sort()
		merged.Merge(res.Bag)
		dropped += res.Bag.Dropped()
		timing.Add(res.Timing)
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		diagfmt.Pretty(out, merged, fs, diagfmt.PrettyOpts{
			Color:     st.color,
			Context:   1,
			PathMode:  diagfmt.PathModeAuto,
			ShowNotes: withNotes,
		})
		writeSummary(cmd.ErrOrStderr(), merged, len(results), dropped)
	case "json":
		if err := diagfmt.JSON(out, merged, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeAuto,
			IncludeNotes:     withNotes,
		}); err != nil {
			return fmt.Errorf("failed to write diagnostics: %w", err)
		}
	case "short":
		writeShort(out, merged.Items(), fs, withNotes)
	}

	if st.timings {
		fmt.Fprint(cmd.ErrOrStderr(), timing.Summary())
	}
	if merged.HasErrors() {
		return errDiagnostics
	}
	return nil
}

func compileTarget(ctx context.Context, target string, opts driver.Options) (*source.FileSet, []*driver.Result, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, nil, err
	}
	if info.IsDir() {
		if ctx == nil {
			ctx = context.Background()
		}
		return driver.CompileDir(ctx, target, opts)
	}
	fs, res, err := driver.CompilePath(target, opts)
	if err != nil {
		return nil, nil, err
	}
	return fs, []*driver.Result{res}, nil
}

func writeSummary(w io.Writer, bag *diag.Bag, files, dropped int) {
	var errs, warns int
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	if errs == 0 && warns == 0 {
		fmt.Fprintf(w, "checked %d file(s): no problems\n", files)
		return
	}
	fmt.Fprintf(w, "checked %d file(s): %d error(s), %d warning(s)", files, errs, warns)
	if dropped > 0 {
		fmt.Fprintf(w, ", %d more suppressed", dropped)
	}
	fmt.Fprintln(w)
}

func writeShort(w io.Writer, items []diag.Diagnostic, fs *source.FileSet, withNotes bool) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w, diag.FormatShort(items, fs, withNotes))
}
