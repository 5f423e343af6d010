package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ohdl/internal/diagfmt"
	"ohdl/internal/driver"
	"ohdl/internal/source"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize <file.ohd>",
		Short: "Print the token stream of a file",
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiagnostics, err := cmd.Flags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	fs := source.NewFileSet()
	id, err := fs.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load file: %w", err)
	}
	tokens, bag := driver.Tokenize(fs, id, maxDiagnostics)

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		err = diagfmt.FormatTokensPretty(out, tokens, fs)
	case "json":
		err = diagfmt.FormatTokensJSON(out, tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}
	if bag.Len() > 0 {
		writeShort(cmd.ErrOrStderr(), bag.Items(), fs, true)
	}
	if bag.HasErrors() {
		return errDiagnostics
	}
	return nil
}
