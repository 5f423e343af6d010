package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ohdl/internal/irdump"
)

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <file.ohd>",
		Short: "Print the refined IR of a file",
		Args:  cobra.ExactArgs(1),
		RunE:  runDump,
	}
	cmd.Flags().String("format", "text", "output format (text|json|yaml)")
	return cmd
}

func runDump(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	st, err := loadSettings(cmd, args[0])
	if err != nil {
		return err
	}
	fs, res, err := compileTarget(cmd.Context(), args[0], st.opts)
	if err != nil {
		return err
	}
	if len(res) != 1 {
		return fmt.Errorf("%s: dump expects a single file", args[0])
	}
	unit := res[0]
	if unit.Bag.Len() > 0 {
		unit.Bag.Sort()
		writeShort(cmd.ErrOrStderr(), unit.Bag.Items(), fs, true)
	}
	if unit.Snapshot == nil {
		return errDiagnostics
	}

	out := cmd.OutOrStdout()
	switch format {
	case "text":
		err = irdump.Text(out, *unit.Snapshot, st.color)
	case "json":
		err = irdump.WriteJSON(out, *unit.Snapshot)
	case "yaml":
		err = irdump.WriteYAML(out, *unit.Snapshot)
	}
	if err != nil {
		return fmt.Errorf("failed to write IR: %w", err)
	}
	if unit.HasErrors() {
		return errDiagnostics
	}
	return nil
}
