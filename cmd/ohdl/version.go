package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"ohdl/internal/version"
)

type versionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("failed to get format flag: %w", err)
			}
			out := cmd.OutOrStdout()
			switch format {
			case "pretty":
				fmt.Fprintf(out, "ohdl %s\n", version.Colored())
				if version.GitCommit != "" {
					fmt.Fprintf(out, "commit: %s\n", version.GitCommit)
				}
				if version.BuildDate != "" {
					fmt.Fprintf(out, "built:  %s\n", version.BuildDate)
				}
				return nil
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(versionInfo{
					Version:   version.Version,
					GitCommit: version.GitCommit,
					BuildDate: version.BuildDate,
				})
			}
			return fmt.Errorf("unknown format: %s", format)
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}
